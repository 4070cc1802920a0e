package profiles

import (
	"errors"
	"fmt"
	"log"

	"JobBoard/src/core/crud"
	"JobBoard/src/core/database"
	"JobBoard/src/core/helpers"
	"JobBoard/src/core/models"
	"JobBoard/src/modules/events"
	"JobBoard/src/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSkillAttached = errors.New("skill is already attached to this profile")

type attachSkillInput struct {
	SkillID string `json:"skill_id" validate:"required,uuid"`
}

type profileResponse struct {
	models.User
	Skills []models.Skill `json:"skills"`
}

func principalID(c *fiber.Ctx) (uuid.UUID, bool) {
	raw, _ := c.Locals("user_id").(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func loadUser(db *gorm.DB, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := db.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetProfile returns the caller's own record plus attached skills, ordered
// the same way the skills list is.
func GetProfile(c *fiber.Ctx) error {
	db := database.DB

	userID, ok := principalID(c)
	if !ok {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "User ID missing in token", nil)
	}

	user, err := loadUser(db, userID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch profile", err)
	}
	if user == nil {
		return helpers.HandleError(c, fiber.StatusNotFound, "User profile not found", nil)
	}

	var skills []models.Skill
	err = db.Joins("JOIN jobseeker_skills js ON js.skill_id = skills.id").
		Where("js.user_id = ?", userID).
		Order("category, LOWER(name)").
		Find(&skills).Error
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch profile skills", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "User profile retrieved successfully", profileResponse{User: *user, Skills: skills})
}

// UpdateProfile applies a partial update to the caller's record. Email,
// role and id never change through this route.
func UpdateProfile(c *fiber.Ctx) error {
	db := database.DB

	userID, ok := principalID(c)
	if !ok {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "User ID missing in token", nil)
	}

	payload := map[string]interface{}{}
	if err := c.BodyParser(&payload); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}

	user, err := loadUser(db, userID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch profile", err)
	}
	if user == nil {
		return helpers.HandleError(c, fiber.StatusNotFound, "User profile not found", nil)
	}

	fields := crud.AllowFields(payload, "first_name", "last_name", "headline", "bio")
	if typeErrs := crud.StringFieldErrors(fields, []string{"first_name", "last_name", "headline", "bio"}); len(typeErrs) > 0 {
		return helpers.HandleValidationError(c, "Invalid profile payload", typeErrs)
	}
	if len(fields) > 0 {
		if err := db.Model(user).Updates(fields).Error; err != nil {
			return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to update profile", err)
		}
		if err := db.First(user).Error; err != nil {
			return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch profile", err)
		}
	}

	events.Publish("profile", events.ActionUpdate, userID.String())
	return helpers.HandleSuccess(c, fiber.StatusOK, "User profile updated successfully", user)
}

// uploadFile stores a multipart upload and persists its URL and path on the
// user row. Any prior object under the same columns is removed first.
func uploadFile(c *fiber.Ctx, formField, folder, urlColumn, pathColumn string) error {
	db := database.DB

	userID, ok := principalID(c)
	if !ok {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "User ID missing in token", nil)
	}

	user, err := loadUser(db, userID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch profile", err)
	}
	if user == nil {
		return helpers.HandleError(c, fiber.StatusNotFound, "User profile not found", nil)
	}

	file, err := c.FormFile(formField)
	if err != nil {
		return helpers.HandleValidationError(c, "Invalid upload", map[string]string{formField: "file is required"})
	}

	oldPath := user.PhotoStoragePath
	if pathColumn == "resume_storage_path" {
		oldPath = user.ResumeStoragePath
	}
	if oldPath != "" {
		// Best effort: a stale object is not worth failing the upload
		if err := utils.DeleteFromStorage(oldPath); err != nil {
			log.Println("Failed to remove previous upload:", err)
		}
	}

	storagePath := fmt.Sprintf("%s/%s-%s", folder, uuid.New().String(), file.Filename)
	path, publicURL, _, err := utils.UploadToStorage(file, storagePath)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadGateway, "Failed to upload file to storage", err)
	}

	updates := map[string]interface{}{urlColumn: publicURL, pathColumn: path}
	if err := db.Model(user).Updates(updates).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to update profile", err)
	}

	events.Publish("profile", events.ActionUpdate, userID.String())
	return helpers.HandleSuccess(c, fiber.StatusOK, "File uploaded successfully", fiber.Map{"url": publicURL})
}

// UploadPhoto replaces the caller's profile photo.
func UploadPhoto(c *fiber.Ctx) error {
	return uploadFile(c, "photo", "profiles/photos", "photo_url", "photo_storage_path")
}

// UploadResume replaces the caller's resume. Job seekers only; the route
// guard enforces the role.
func UploadResume(c *fiber.Ctx) error {
	return uploadFile(c, "resume", "profiles/resumes", "resume_url", "resume_storage_path")
}

// AttachSkill links a skill to the caller's profile. At most one link per
// pair.
func AttachSkill(c *fiber.Ctx) error {
	db := database.DB

	userID, ok := principalID(c)
	if !ok {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "User ID missing in token", nil)
	}

	body := new(attachSkillInput)
	if err := c.BodyParser(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}
	if err := helpers.Validate(body); err != nil {
		return helpers.HandleValidationError(c, "Invalid skill link payload", helpers.ValidationFields(err))
	}
	skillID, _ := uuid.Parse(body.SkillID)

	var skill models.Skill
	if err := db.Where("id = ?", skillID).First(&skill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, "Skill not found", nil)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch skill", err)
	}

	var count int64
	if err := db.Model(&models.JobSeekerSkill{}).Where("user_id = ? AND skill_id = ?", userID, skillID).Count(&count).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to check skill link", err)
	}
	if count > 0 {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Skill already attached to this profile", ErrSkillAttached)
	}

	link := models.JobSeekerSkill{UserID: userID, SkillID: skillID}
	if err := db.Create(&link).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to attach skill", err)
	}

	events.Publish("profile", events.ActionUpdate, userID.String())
	return helpers.HandleSuccess(c, fiber.StatusCreated, "Skill attached successfully", link)
}

// DetachSkill removes a profile→skill link.
func DetachSkill(c *fiber.Ctx) error {
	db := database.DB

	userID, ok := principalID(c)
	if !ok {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "User ID missing in token", nil)
	}

	skillID, err := uuid.Parse(c.Params("skillID"))
	if err != nil {
		return helpers.HandleValidationError(c, "Invalid skill id", map[string]string{"skill_id": "must be a valid UUID"})
	}

	result := db.Where("user_id = ? AND skill_id = ?", userID, skillID).Delete(&models.JobSeekerSkill{})
	if result.Error != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to detach skill", result.Error)
	}
	if result.RowsAffected == 0 {
		return helpers.HandleError(c, fiber.StatusNotFound, "Skill link not found", nil)
	}

	events.Publish("profile", events.ActionUpdate, userID.String())
	return helpers.HandleSuccess(c, fiber.StatusOK, "Skill detached successfully", nil)
}
