package contentRoutes

import (
	contentController "lexi/controllers/content"
	"lexi/middleware"
	contentValidators "lexi/validators/content"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupContentRoutes sets up curriculum listing and content management routes
func SetupContentRoutes(app *fiber.App, db *gorm.DB) {
	ctl := contentController.New(db)
	api := app.Group("/api", middleware.Protected(db))

	// Curriculum structure and per-lesson listings
	api.Get("/structure", ctl.GetStructure)
	api.Get("/units/:unitId/lessons/:lessonId/words", contentValidators.LessonParams(), ctl.ListLessonWords)
	api.Get("/units/:unitId/lessons/:lessonId/practices", contentValidators.LessonParams(), ctl.ListLessonPractices)

	// Word management
	api.Post("/words", contentValidators.CreateWord(), ctl.CreateWord)
	api.Post("/words/bulk", contentValidators.BulkWords(), ctl.BulkCreateWords)
	api.Put("/words/:id", contentValidators.WordID(), contentValidators.UpdateWord(), ctl.UpdateWord)
	api.Delete("/words/:id", contentValidators.WordID(), ctl.DeleteWord)

	// Practice management
	api.Post("/practices", contentValidators.CreatePractice(), ctl.CreatePractice)
	api.Post("/practices/bulk", contentValidators.BulkPractices(), ctl.BulkCreatePractices)
	api.Put("/practices/:id", contentValidators.PracticeID(), contentValidators.UpdatePractice(), ctl.UpdatePractice)
	api.Delete("/practices/:id", contentValidators.PracticeID(), ctl.DeletePractice)

	// Combined words + practices import
	api.Post("/lesson/import", contentValidators.ImportLesson(), ctl.ImportLesson)
}
