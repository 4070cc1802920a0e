package profiles_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"JobBoard/src/core/database"
	"JobBoard/src/core/models"
	"JobBoard/src/core/router"
	"JobBoard/src/modules/authentication"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	app := fiber.New()
	router.InitialiseAndSetupRoutes(app)
	return app, db
}

func seedUser(t *testing.T, db *gorm.DB, role string) (models.User, string) {
	t.Helper()
	user := models.User{
		ID:        uuid.New(),
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     uuid.New().String() + "@mail.test",
		Password:  "not-a-real-hash",
		Role:      role,
		Headline:  "Engineer",
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := authentication.IssueToken(user.ID.String(), user.Role, user.Email)
	require.NoError(t, err)
	return user, token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, envelope) {
	t.Helper()
	var buf []byte
	if body != nil {
		var err error
		buf, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(buf))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func TestGetProfileIncludesAttachedSkills(t *testing.T) {
	app, db := setupApp(t)
	user, token := seedUser(t, db, models.RoleJobSeeker)

	skill := models.Skill{ID: uuid.New(), Name: "Go", Category: "Programming Language"}
	require.NoError(t, db.Create(&skill).Error)
	require.NoError(t, db.Create(&models.JobSeekerSkill{UserID: user.ID, SkillID: skill.ID}).Error)

	resp, env := doJSON(t, app, http.MethodGet, "/api/v1/profile/", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var profile struct {
		models.User
		Skills []models.Skill `json:"skills"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, user.ID, profile.ID)
	require.Len(t, profile.Skills, 1)
	assert.Equal(t, "Go", profile.Skills[0].Name)
}

func TestUpdateProfilePartialLeavesOtherFields(t *testing.T) {
	app, db := setupApp(t)
	user, token := seedUser(t, db, models.RoleJobSeeker)

	resp, env := doJSON(t, app, http.MethodPut, "/api/v1/profile/", token,
		fiber.Map{"bio": "I write Go."})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.User
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "I write Go.", updated.Bio)
	assert.Equal(t, "Engineer", updated.Headline)
	assert.Equal(t, user.FirstName, updated.FirstName)
}

func TestUpdateProfileIgnoresImmutableColumns(t *testing.T) {
	app, db := setupApp(t)
	user, token := seedUser(t, db, models.RoleJobSeeker)

	resp, env := doJSON(t, app, http.MethodPut, "/api/v1/profile/", token,
		fiber.Map{"email": "evil@mail.test", "role": models.RoleEmployer, "headline": "Staff Engineer"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.User
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, user.Email, updated.Email)
	assert.Equal(t, models.RoleJobSeeker, updated.Role)
	assert.Equal(t, "Staff Engineer", updated.Headline)
}

func TestAttachSkillDuplicatePairRejected(t *testing.T) {
	app, db := setupApp(t)
	_, token := seedUser(t, db, models.RoleJobSeeker)

	skill := models.Skill{ID: uuid.New(), Name: "Go"}
	require.NoError(t, db.Create(&skill).Error)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/profile/skills", token,
		fiber.Map{"skill_id": skill.ID.String()})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/profile/skills", token,
		fiber.Map{"skill_id": skill.ID.String()})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAttachUnknownSkillNotFound(t *testing.T) {
	app, db := setupApp(t)
	_, token := seedUser(t, db, models.RoleJobSeeker)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/profile/skills", token,
		fiber.Map{"skill_id": uuid.New().String()})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDetachSkillAbsentLinkNotFound(t *testing.T) {
	app, db := setupApp(t)
	_, token := seedUser(t, db, models.RoleJobSeeker)

	resp, _ := doJSON(t, app, http.MethodDelete,
		"/api/v1/profile/skills/"+uuid.New().String(), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUploadPhotoStorageFailureIsBadGatewayAndLogged(t *testing.T) {
	app, db := setupApp(t)
	user, token := seedUser(t, db, models.RoleJobSeeker)

	// A prior photo forces the best-effort cleanup before the upload; with
	// no storage configured both steps fail
	require.NoError(t, db.Model(&user).Updates(map[string]interface{}{
		"photo_url":          "https://cdn.test/old.png",
		"photo_storage_path": "profiles/photos/old.png",
	}).Error)
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_KEY", "")
	t.Setenv("BUCKET_NAME", "")

	var logged bytes.Buffer
	log.SetOutput(&logged)
	defer log.SetOutput(os.Stderr)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("photo", "new.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG not really a picture"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/photo", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, logged.String(), "Failed to remove previous upload")

	// The previous photo columns survive the failed replacement
	var kept models.User
	require.NoError(t, db.Where("id = ?", user.ID).First(&kept).Error)
	assert.Equal(t, "https://cdn.test/old.png", kept.PhotoURL)
}

func TestSkillRoutesAreJobSeekerOnly(t *testing.T) {
	app, db := setupApp(t)
	_, token := seedUser(t, db, models.RoleEmployer)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/profile/skills", token,
		fiber.Map{"skill_id": uuid.New().String()})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
