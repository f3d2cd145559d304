package authRoutes

import (
	authController "lexi/controllers/auth"
	"lexi/middleware"
	authValidators "lexi/validators/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	ctl := authController.New(db)
	authGroup := app.Group("/api/auth")

	authGroup.Post("/register", authValidators.Register(), ctl.Register)
	authGroup.Post("/login", authValidators.Login(), ctl.Login)
	authGroup.Put("/password", middleware.Protected(db), authValidators.ChangePassword(), ctl.ChangePassword)
}
