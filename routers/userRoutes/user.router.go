package userRoutes

import (
	userController "lexi/controllers/users"
	"lexi/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupUserRoutes sets up the admin user management routes
func SetupUserRoutes(app *fiber.App, db *gorm.DB) {
	ctl := userController.New(db)
	userGroup := app.Group("/api/users", middleware.Protected(db))

	userGroup.Get("/", ctl.ListUsers)
	userGroup.Delete("/:id", ctl.DeleteUser)
}
