package emulator

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	database  *gorm.DB
	secretKey []byte
	log       *zap.Logger
}

func New(database *gorm.DB, secretKey []byte, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{database: database, secretKey: secretKey, log: log}
}

// Handler builds the fiber application with every route registered.
func (app *App) Handler() *fiber.App {
	server := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             32 * 1024 * 1024,
	})
	server.Use(recover.New())
	server.Use(logger.New())

	auth := server.Group("/auth/v1")
	auth.Post("/signup", app.handleSignup)
	auth.Post("/token", app.handleToken)
	auth.Post("/logout", app.authRequired, app.handleLogout)

	rest := server.Group("/rest/v1", app.authRequired)
	rest.Get("/logs", app.handleSelectLogs)
	rest.Post("/logs", app.handleInsertLog)
	rest.Patch("/logs", app.handlePatch("logs"))
	rest.Delete("/logs", app.handleDeleteLogs)

	rest.Get("/injuries", app.handleSelectInjuries)
	rest.Post("/injuries", app.handleInsertInjury)
	rest.Patch("/injuries", app.handlePatch("injuries"))
	rest.Delete("/injuries", app.handleDeleteInjuries)

	rest.Get("/user_preferences", app.handleSelectPreferences)
	rest.Patch("/user_preferences", app.handlePatch("user_preferences"))
	rest.Delete("/user_preferences", app.handleDeletePreferences)

	storage := server.Group("/storage/v1/object")
	storage.Get("/public/:bucket/*", app.handlePublicObject)
	storage.Post("/:bucket/*", app.authRequired, app.handleUploadObject)
	storage.Delete("/:bucket/*", app.authRequired, app.handleDeleteObject)

	return server
}
