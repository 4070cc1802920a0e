package jobs

import (
	"errors"

	"JobBoard/src/core/crud"
	"JobBoard/src/core/database"
	"JobBoard/src/core/helpers"
	"JobBoard/src/core/models"
	"JobBoard/src/modules/events"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSkillLinked = errors.New("skill is already attached to this job")

// Service wraps the generic CRUD base with job-specific ordering and the
// link-row bookkeeping a job owns.
type Service struct {
	DB   *gorm.DB
	Base *crud.Base[models.Job]
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		DB:   db,
		Base: crud.New[models.Job](db, "created_at DESC"),
	}
}

// Remove deletes the job together with its own skill links. The links
// belong to the job, so this is cleanup, not a cascade across resources.
func (s *Service) Remove(id uuid.UUID) (*models.Job, error) {
	rec, err := s.Base.Get(id)
	if err != nil || rec == nil {
		return nil, err
	}
	if err := s.DB.Where("job_id = ?", id).Delete(&models.JobSkill{}).Error; err != nil {
		return nil, err
	}
	return s.Base.Remove(id)
}

// OwnedBy fetches the job only when the given employer owns it. A job owned
// by someone else reads as absent so ownership cannot be probed.
func (s *Service) OwnedBy(id, employerID uuid.UUID) (*models.Job, error) {
	rec, err := s.Base.Get(id)
	if err != nil || rec == nil {
		return nil, err
	}
	if rec.EmployerID != employerID {
		return nil, nil
	}
	return rec, nil
}

type createJobInput struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"max=5000"`
	Location    string  `json:"location" validate:"max=200"`
	SalaryRange *string `json:"salary_range"`
}

type attachSkillInput struct {
	SkillID string `json:"skill_id" validate:"required,uuid"`
}

// principalID reads the authenticated user's id out of the request locals.
func principalID(c *fiber.Ctx) (uuid.UUID, bool) {
	raw, _ := c.Locals("user_id").(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// ListJobs returns a page of jobs, newest first. Public.
func ListJobs(c *fiber.Ctx) error {
	svc := NewService(database.DB)

	offset, limit, fields := helpers.PageParams(c)
	if len(fields) > 0 {
		return helpers.HandleValidationError(c, "Invalid pagination parameters", fields)
	}

	recs, err := svc.Base.List(offset, limit)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch jobs", err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Jobs retrieved successfully", recs)
}

// CreateJob inserts a posting owned by the authenticated employer. Titles
// repeat across employers, so there is no uniqueness probe here.
func CreateJob(c *fiber.Ctx) error {
	svc := NewService(database.DB)

	employerID, ok := principalID(c)
	if !ok {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "User ID missing in token", nil)
	}

	body := new(createJobInput)
	if err := c.BodyParser(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}
	if err := helpers.Validate(body); err != nil {
		return helpers.HandleValidationError(c, "Invalid job payload", helpers.ValidationFields(err))
	}

	rec, err := svc.Base.Create(&models.Job{
		ID:          uuid.New(),
		EmployerID:  employerID,
		Title:       body.Title,
		Description: body.Description,
		Location:    body.Location,
		SalaryRange: body.SalaryRange,
	})
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to create job", err)
	}

	events.Publish("jobs", events.ActionCreate, rec.ID.String())
	return helpers.HandleSuccess(c, fiber.StatusCreated, "Job created successfully", rec)
}

// UpdateJob applies a partial update to a job the caller owns. A key that
// is present with null clears the column (salary_range); absent keys leave
// their columns untouched.
func UpdateJob(c *fiber.Ctx) error {
	svc := NewService(database.DB)

	employerID, ok := principalID(c)
	if !ok {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "User ID missing in token", nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.HandleValidationError(c, "Invalid job id", map[string]string{"id": "must be a valid UUID"})
	}

	payload := map[string]interface{}{}
	if err := c.BodyParser(&payload); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}

	rec, err := svc.OwnedBy(id, employerID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch job", err)
	}
	if rec == nil {
		return helpers.HandleError(c, fiber.StatusNotFound, "Job not found", nil)
	}

	fields := crud.AllowFields(payload, "title", "description", "location", "salary_range")
	typeErrs := crud.StringFieldErrors(fields,
		[]string{"title", "description", "location", "salary_range"}, "salary_range")
	if len(typeErrs) > 0 {
		return helpers.HandleValidationError(c, "Invalid job payload", typeErrs)
	}
	if title, ok := fields["title"].(string); ok && title == "" {
		return helpers.HandleValidationError(c, "Invalid job payload", map[string]string{"title": "is required"})
	}

	rec, err = svc.Base.Update(rec, fields)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to update job", err)
	}

	events.Publish("jobs", events.ActionUpdate, rec.ID.String())
	return helpers.HandleSuccess(c, fiber.StatusOK, "Job updated successfully", rec)
}

// DeleteJob removes a job the caller owns along with its skill links.
func DeleteJob(c *fiber.Ctx) error {
	svc := NewService(database.DB)

	employerID, ok := principalID(c)
	if !ok {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "User ID missing in token", nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.HandleValidationError(c, "Invalid job id", map[string]string{"id": "must be a valid UUID"})
	}

	rec, err := svc.OwnedBy(id, employerID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch job", err)
	}
	if rec == nil {
		return helpers.HandleError(c, fiber.StatusNotFound, "Job not found", nil)
	}

	if _, err := svc.Remove(id); err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to delete job", err)
	}

	events.Publish("jobs", events.ActionDelete, id.String())
	return helpers.HandleSuccess(c, fiber.StatusOK, "Job deleted successfully", nil)
}

// AttachSkill links a skill to a job the caller owns. At most one link per
// pair; a second attach of the same skill is a conflict.
func AttachSkill(c *fiber.Ctx) error {
	db := database.DB
	svc := NewService(db)

	employerID, ok := principalID(c)
	if !ok {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "User ID missing in token", nil)
	}

	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.HandleValidationError(c, "Invalid job id", map[string]string{"id": "must be a valid UUID"})
	}

	body := new(attachSkillInput)
	if err := c.BodyParser(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}
	if err := helpers.Validate(body); err != nil {
		return helpers.HandleValidationError(c, "Invalid skill link payload", helpers.ValidationFields(err))
	}
	skillID, _ := uuid.Parse(body.SkillID)

	rec, err := svc.OwnedBy(jobID, employerID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch job", err)
	}
	if rec == nil {
		return helpers.HandleError(c, fiber.StatusNotFound, "Job not found", nil)
	}

	var skill models.Skill
	if err := db.Where("id = ?", skillID).First(&skill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, "Skill not found", nil)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch skill", err)
	}

	var count int64
	if err := db.Model(&models.JobSkill{}).Where("job_id = ? AND skill_id = ?", jobID, skillID).Count(&count).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to check skill link", err)
	}
	if count > 0 {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Skill already attached to this job", ErrSkillLinked)
	}

	link := models.JobSkill{JobID: jobID, SkillID: skillID}
	if err := db.Create(&link).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to attach skill", err)
	}

	events.Publish("jobs", events.ActionUpdate, jobID.String())
	return helpers.HandleSuccess(c, fiber.StatusCreated, "Skill attached successfully", link)
}

// DetachSkill removes a job→skill link on a job the caller owns.
func DetachSkill(c *fiber.Ctx) error {
	db := database.DB
	svc := NewService(db)

	employerID, ok := principalID(c)
	if !ok {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "User ID missing in token", nil)
	}

	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.HandleValidationError(c, "Invalid job id", map[string]string{"id": "must be a valid UUID"})
	}
	skillID, err := uuid.Parse(c.Params("skillID"))
	if err != nil {
		return helpers.HandleValidationError(c, "Invalid skill id", map[string]string{"skill_id": "must be a valid UUID"})
	}

	rec, err := svc.OwnedBy(jobID, employerID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch job", err)
	}
	if rec == nil {
		return helpers.HandleError(c, fiber.StatusNotFound, "Job not found", nil)
	}

	result := db.Where("job_id = ? AND skill_id = ?", jobID, skillID).Delete(&models.JobSkill{})
	if result.Error != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to detach skill", result.Error)
	}
	if result.RowsAffected == 0 {
		return helpers.HandleError(c, fiber.StatusNotFound, "Skill link not found", nil)
	}

	events.Publish("jobs", events.ActionUpdate, jobID.String())
	return helpers.HandleSuccess(c, fiber.StatusOK, "Skill detached successfully", nil)
}
