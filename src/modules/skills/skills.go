package skills

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

var (
	ErrNameTaken  = errors.New("a skill with this name already exists")
	ErrReferenced = errors.New("skill is referenced by jobseekers or jobs")
)

// Service wraps the generic CRUD base with skill-specific ordering and
// pre-condition checks.
type Service struct {
	DB   *gorm.DB
	Base *crud.Base[models.Skill]
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		DB:   db,
		Base: crud.New[models.Skill](db, "category, LOWER(name)"),
	}
}

// NameTaken reports whether another skill already carries the name,
// compared case-insensitively. excludeID skips the record being updated.
func (s *Service) NameTaken(name string, excludeID uuid.UUID) (bool, error) {
	var count int64
	q := s.DB.Model(&models.Skill{}).Where("LOWER(name) = LOWER(?)", name)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Referenced reports whether any jobseeker or job links to the skill.
func (s *Service) Referenced(skillID uuid.UUID) (bool, error) {
	var count int64
	if err := s.DB.Model(&models.JobSeekerSkill{}).Where("skill_id = ?", skillID).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := s.DB.Model(&models.JobSkill{}).Where("skill_id = ?", skillID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Remove deletes the skill unless an association still references it.
// Deletion is refused, never cascaded.
func (s *Service) Remove(id uuid.UUID) (*models.Skill, error) {
	rec, err := s.Base.Get(id)
	if err != nil || rec == nil {
		return nil, err
	}
	referenced, err := s.Referenced(id)
	if err != nil {
		return nil, err
	}
	if referenced {
		return rec, ErrReferenced
	}
	return s.Base.Remove(id)
}

type createSkillInput struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Category string `json:"category" validate:"max=100"`
}

// ListSkills returns a page of skills ordered by category then name.
// Unauthenticated by design: pickers on signup forms need it.
func ListSkills(c *fiber.Ctx) error {
	svc := NewService(database.DB)

	offset, limit, fields := helpers.PageParams(c)
	if len(fields) > 0 {
		return helpers.HandleValidationError(c, "Invalid pagination parameters", fields)
	}

	recs, err := svc.Base.List(offset, limit)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch skills", err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Skills retrieved successfully", recs)
}

// CreateSkill inserts a new skill after the case-insensitive name check.
func CreateSkill(c *fiber.Ctx) error {
	svc := NewService(database.DB)

	body := new(createSkillInput)
	if err := c.BodyParser(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}
	if err := helpers.Validate(body); err != nil {
		return helpers.HandleValidationError(c, "Invalid skill payload", helpers.ValidationFields(err))
	}

	taken, err := svc.NameTaken(body.Name, uuid.Nil)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to check skill name", err)
	}
	if taken {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Duplicate skill name", ErrNameTaken)
	}

	rec, err := svc.Base.Create(&models.Skill{
		ID:       uuid.New(),
		Name:     body.Name,
		Category: body.Category,
	})
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to create skill", err)
	}

	events.Publish("skills", events.ActionCreate, rec.ID.String())
	return helpers.HandleSuccess(c, fiber.StatusCreated, "Skill created successfully", rec)
}

// UpdateSkill applies a partial update: only fields present in the payload
// change, and the uniqueness probe excludes the record itself.
func UpdateSkill(c *fiber.Ctx) error {
	svc := NewService(database.DB)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.HandleValidationError(c, "Invalid skill id", map[string]string{"id": "must be a valid UUID"})
	}

	payload := map[string]interface{}{}
	if err := c.BodyParser(&payload); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}

	rec, err := svc.Base.Get(id)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch skill", err)
	}
	if rec == nil {
		return helpers.HandleError(c, fiber.StatusNotFound, "Skill not found", nil)
	}

	fields := crud.AllowFields(payload, "name", "category")
	if typeErrs := crud.StringFieldErrors(fields, []string{"name", "category"}); len(typeErrs) > 0 {
		return helpers.HandleValidationError(c, "Invalid skill payload", typeErrs)
	}
	if name, ok := fields["name"].(string); ok {
		if name == "" {
			return helpers.HandleValidationError(c, "Invalid skill payload", map[string]string{"name": "is required"})
		}
		taken, err := svc.NameTaken(name, id)
		if err != nil {
			return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to check skill name", err)
		}
		if taken {
			return helpers.HandleError(c, fiber.StatusBadRequest, "Duplicate skill name", ErrNameTaken)
		}
	}

	rec, err = svc.Base.Update(rec, fields)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to update skill", err)
	}

	events.Publish("skills", events.ActionUpdate, rec.ID.String())
	return helpers.HandleSuccess(c, fiber.StatusOK, "Skill updated successfully", rec)
}

// DeleteSkill removes a skill, refusing while any association references it.
func DeleteSkill(c *fiber.Ctx) error {
	svc := NewService(database.DB)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.HandleValidationError(c, "Invalid skill id", map[string]string{"id": "must be a valid UUID"})
	}

	rec, err := svc.Remove(id)
	if errors.Is(err, ErrReferenced) {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Skill is referenced elsewhere", err)
	}
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to delete skill", err)
	}
	if rec == nil {
		return helpers.HandleError(c, fiber.StatusNotFound, "Skill not found", nil)
	}

	events.Publish("skills", events.ActionDelete, id.String())
	return helpers.HandleSuccess(c, fiber.StatusOK, "Skill deleted successfully", nil)
}
