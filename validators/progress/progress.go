package progressValidator

import (
	"lexi/middleware"

	"github.com/gofiber/fiber/v2"
)

// WordID validates the :id route parameter for word progress routes
func WordID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return middleware.ValidationErrorResponse(c, map[string]string{"id": "Invalid word id!"})
		}
		c.Locals("wordID", uint(id))
		return c.Next()
	}
}

// PracticeID validates the :id route parameter for practice progress routes
func PracticeID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return middleware.ValidationErrorResponse(c, map[string]string{"id": "Invalid practice id!"})
		}
		c.Locals("practiceID", uint(id))
		return c.Next()
	}
}

// LessonParams validates the :unitId/:lessonId route parameters
func LessonParams() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)

		unitID, err := c.ParamsInt("unitId")
		if err != nil || unitID < 1 {
			errors["unitId"] = "Invalid unit id!"
		}
		lessonID, err := c.ParamsInt("lessonId")
		if err != nil || lessonID < 1 {
			errors["lessonId"] = "Invalid lesson id!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("unitID", uint(unitID))
		c.Locals("lessonID", uint(lessonID))
		return c.Next()
	}
}
