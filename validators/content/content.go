package contentValidator

import (
	stderrors "errors"
	"reflect"
	"strings"

	"lexi/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func init() {
	// Report field errors under their json names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// WordPayload is the validated create-word body
type WordPayload struct {
	UnitID         uint   `json:"unitId" validate:"required"`
	LessonID       uint   `json:"lessonId" validate:"required"`
	Word           string `json:"word" validate:"required"`
	Phonetic       string `json:"phonetic"`
	EnglishMeaning string `json:"englishMeaning"`
	ChineseMeaning string `json:"chineseMeaning"`
	Example        string `json:"example"`
}

// WordUpdatePayload is the validated update-word body. Unit and lesson of a
// word never change after creation.
type WordUpdatePayload struct {
	Word           string `json:"word" validate:"required"`
	Phonetic       string `json:"phonetic"`
	EnglishMeaning string `json:"englishMeaning"`
	ChineseMeaning string `json:"chineseMeaning"`
	Example        string `json:"example"`
}

// WordItem is one row of a bulk word import
type WordItem struct {
	Word           string `json:"word" validate:"required"`
	Phonetic       string `json:"phonetic"`
	EnglishMeaning string `json:"englishMeaning"`
	ChineseMeaning string `json:"chineseMeaning"`
	Example        string `json:"example"`
}

// BulkWordsPayload is the validated bulk create-words body
type BulkWordsPayload struct {
	UnitID   uint       `json:"unitId" validate:"required"`
	LessonID uint       `json:"lessonId" validate:"required"`
	Words    []WordItem `json:"words" validate:"required,min=1,dive"`
}

// PracticePayload is the validated create-practice body
type PracticePayload struct {
	UnitID   uint   `json:"unitId" validate:"required"`
	LessonID uint   `json:"lessonId" validate:"required"`
	Practice string `json:"practice" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

// PracticeUpdatePayload is the validated update-practice body
type PracticeUpdatePayload struct {
	Practice string `json:"practice" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

// PracticeItem is one row of a bulk practice import
type PracticeItem struct {
	Practice string `json:"practice" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

// BulkPracticesPayload is the validated bulk create-practices body
type BulkPracticesPayload struct {
	UnitID    uint           `json:"unitId" validate:"required"`
	LessonID  uint           `json:"lessonId" validate:"required"`
	Practices []PracticeItem `json:"practices" validate:"required,min=1,dive"`
}

// LessonImportPayload is the validated combined lesson import body. At
// least one of words/practices must be present.
type LessonImportPayload struct {
	UnitID    uint           `json:"unitId" validate:"required"`
	LessonID  uint           `json:"lessonId" validate:"required"`
	Words     []WordItem     `json:"words" validate:"omitempty,dive"`
	Practices []PracticeItem `json:"practices" validate:"omitempty,dive"`
}

// validationErrors converts validator.ValidationErrors into the field
// error map used across the API.
func validationErrors(err error) map[string]string {
	errors := make(map[string]string)

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		errors["body"] = "Invalid request body!"
		return errors
	}

	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			errors[fe.Field()] = fe.Field() + " is required!"
		case "min":
			errors[fe.Field()] = fe.Field() + " must contain at least " + fe.Param() + " item(s)!"
		default:
			errors[fe.Field()] = "Invalid value for " + fe.Field() + "!"
		}
	}

	return errors
}

// validateBody parses the request body into dst and validates it, storing
// the result under the given locals key on success.
func validateBody(c *fiber.Ctx, dst interface{}, key string) error {
	if err := c.BodyParser(dst); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if err := validate.Struct(dst); err != nil {
		return middleware.ValidationErrorResponse(c, validationErrors(err))
	}

	c.Locals(key, dst)
	return c.Next()
}

// CreateWord validator middleware
func CreateWord() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return validateBody(c, new(WordPayload), "validatedWord")
	}
}

// UpdateWord validator middleware
func UpdateWord() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return validateBody(c, new(WordUpdatePayload), "validatedWordUpdate")
	}
}

// BulkWords validator middleware
func BulkWords() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return validateBody(c, new(BulkWordsPayload), "validatedBulkWords")
	}
}

// CreatePractice validator middleware
func CreatePractice() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return validateBody(c, new(PracticePayload), "validatedPractice")
	}
}

// UpdatePractice validator middleware
func UpdatePractice() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return validateBody(c, new(PracticeUpdatePayload), "validatedPracticeUpdate")
	}
}

// BulkPractices validator middleware
func BulkPractices() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return validateBody(c, new(BulkPracticesPayload), "validatedBulkPractices")
	}
}

// ImportLesson validator middleware
func ImportLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LessonImportPayload)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		if len(reqData.Words) == 0 && len(reqData.Practices) == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"words": "At least one word or practice is required!",
			})
		}

		c.Locals("validatedLessonImport", reqData)
		return c.Next()
	}
}

// WordID validates the :id route parameter
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

// PracticeID validates the :id route parameter
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
