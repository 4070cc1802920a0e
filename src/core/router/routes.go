package router

import (
	"JobBoard/src/core/middleware"
	"JobBoard/src/core/models"
	"JobBoard/src/modules/authentication"
	"JobBoard/src/modules/events"
	"JobBoard/src/modules/jobs"
	"JobBoard/src/modules/profiles"
	"JobBoard/src/modules/skills"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
)

func InitialiseAndSetupRoutes(app *fiber.App) {
	root := app.Group("/", logger.New())

	root.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	apiV1 := root.Group("/api/v1")
	setupAPIV1Routes(apiV1)

	// WebSocket event feed; plain HTTP requests never reach the handler
	root.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	root.Get("/ws/events", websocket.New(events.WebSocketHandler))
}

func setupAPIV1Routes(router fiber.Router) {
	// Grouped API endpoints
	authGroup := router.Group("/auth")
	skillGroup := router.Group("/skills")
	jobGroup := router.Group("/jobs")
	profileGroup := router.Group("/profile", middleware.Protected())

	// Authentication routes
	authGroup.Post("/signup", authentication.SignUp)
	authGroup.Post("/signin", authentication.SignIn)

	// Skill routes: list is public, mutations are employer-only
	skillGroup.Get("/", skills.ListSkills)
	skillGroup.Post("/", middleware.Protected(), middleware.RequireRole(models.RoleEmployer), skills.CreateSkill)
	skillGroup.Put("/:id", middleware.Protected(), middleware.RequireRole(models.RoleEmployer), skills.UpdateSkill)
	skillGroup.Delete("/:id", middleware.Protected(), middleware.RequireRole(models.RoleEmployer), skills.DeleteSkill)

	// Job routes: list is public, mutations are employer-only and scoped
	// to the posting's owner
	jobGroup.Get("/", jobs.ListJobs)
	jobGroup.Post("/", middleware.Protected(), middleware.RequireRole(models.RoleEmployer), jobs.CreateJob)
	jobGroup.Put("/:id", middleware.Protected(), middleware.RequireRole(models.RoleEmployer), jobs.UpdateJob)
	jobGroup.Delete("/:id", middleware.Protected(), middleware.RequireRole(models.RoleEmployer), jobs.DeleteJob)
	jobGroup.Post("/:id/skills", middleware.Protected(), middleware.RequireRole(models.RoleEmployer), jobs.AttachSkill)
	jobGroup.Delete("/:id/skills/:skillID", middleware.Protected(), middleware.RequireRole(models.RoleEmployer), jobs.DetachSkill)

	// Profile routes: always the caller's own record
	profileGroup.Get("/", profiles.GetProfile)
	profileGroup.Put("/", profiles.UpdateProfile)
	profileGroup.Post("/photo", profiles.UploadPhoto)
	profileGroup.Post("/resume", middleware.RequireRole(models.RoleJobSeeker), profiles.UploadResume)
	profileGroup.Post("/skills", middleware.RequireRole(models.RoleJobSeeker), profiles.AttachSkill)
	profileGroup.Delete("/skills/:skillID", middleware.RequireRole(models.RoleJobSeeker), profiles.DetachSkill)
}
