package models

import (
	"time"

	"github.com/google/uuid"
)

// Roles a principal can carry in its token claims.
const (
	RoleEmployer  = "employer"
	RoleJobSeeker = "job_seeker"
)

type User struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;primaryKey;not null" json:"id"`
	FirstName         string    `gorm:"column:first_name;type:text;not null" json:"first_name"`
	LastName          string    `gorm:"column:last_name;type:text;not null" json:"last_name"`
	Email             string    `gorm:"column:email;type:text;unique;not null" json:"email"`
	Password          string    `gorm:"column:password;type:text;not null" json:"-"`
	Role              string    `gorm:"column:role;type:text;not null" json:"role"`
	Headline          string    `gorm:"column:headline;type:text;not null;default:''" json:"headline"`
	Bio               string    `gorm:"column:bio;type:text;not null;default:''" json:"bio"`
	PhotoURL          string    `gorm:"column:photo_url;type:text;not null;default:''" json:"photo_url"`
	PhotoStoragePath  string    `gorm:"column:photo_storage_path;type:text;not null;default:''" json:"-"`
	ResumeURL         string    `gorm:"column:resume_url;type:text;not null;default:''" json:"resume_url"`
	ResumeStoragePath string    `gorm:"column:resume_storage_path;type:text;not null;default:''" json:"-"`
	CreatedAt         time.Time `gorm:"column:created_at;type:timestamp with time zone;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at;type:timestamp with time zone;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
