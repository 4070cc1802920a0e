package models

import (
	"github.com/google/uuid"
)

// Link rows carry no attributes of their own; the composite primary keys
// hold each pair to at most one link.

type JobSeekerSkill struct {
	UserID  uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	SkillID uuid.UUID `gorm:"column:skill_id;type:uuid;primaryKey" json:"skill_id"`
}

func (JobSeekerSkill) TableName() string {
	return "jobseeker_skills"
}

type JobSkill struct {
	JobID   uuid.UUID `gorm:"column:job_id;type:uuid;primaryKey" json:"job_id"`
	SkillID uuid.UUID `gorm:"column:skill_id;type:uuid;primaryKey" json:"skill_id"`
}

func (JobSkill) TableName() string {
	return "job_skills"
}
