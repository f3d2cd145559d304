package progressRoutes

import (
	progressController "lexi/controllers/progress"
	"lexi/middleware"
	progressValidators "lexi/validators/progress"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupProgressRoutes sets up the progress ledger routes
func SetupProgressRoutes(app *fiber.App, db *gorm.DB) {
	ctl := progressController.New(db)
	api := app.Group("/api", middleware.Protected(db))

	api.Get("/progress", ctl.GetProgress)

	api.Post("/words/:id/toggle", progressValidators.WordID(), ctl.ToggleWord)
	api.Post("/practices/:id/toggle", progressValidators.PracticeID(), ctl.TogglePractice)
	api.Post("/practices/:id/complete", progressValidators.PracticeID(), ctl.CompletePractice)

	api.Post("/lessons/:unitId/:lessonId/reset", progressValidators.LessonParams(), ctl.ResetLesson)
	api.Get("/lessons/:unitId/:lessonId/history", progressValidators.LessonParams(), ctl.GetLessonHistory)
}
