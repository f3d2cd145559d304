package contentController

import (
	"errors"
	"log"
	"sort"

	"lexi/middleware"
	"lexi/models"
	contentValidator "lexi/validators/content"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Controller serves curriculum content: listings for learners and the
// management endpoints used by the admin surface
type Controller struct {
	DB *gorm.DB
}

// New builds a controller around the injected storage handle
func New(db *gorm.DB) *Controller {
	return &Controller{DB: db}
}

type lessonSummary struct {
	LessonID           uint `json:"lessonId"`
	TotalWords         int  `json:"totalWords"`
	CompletedWords     int  `json:"completedWords"`
	TotalPractices     int  `json:"totalPractices"`
	CompletedPractices int  `json:"completedPractices"`
}

type unitSummary struct {
	UnitID  uint             `json:"unitId"`
	Lessons []*lessonSummary `json:"lessons"`
}

// GetStructure returns the curriculum as units and lessons with the
// requesting user's per-lesson completion counts
func (ctl *Controller) GetStructure(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var words []models.Word
	if err := ctl.DB.Select("id", "unit_id", "lesson_id").Find(&words).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch structure!", nil)
	}

	var practices []models.Practice
	if err := ctl.DB.Select("id", "unit_id", "lesson_id").Find(&practices).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch structure!", nil)
	}

	var completedWordIDs []uint
	if err := ctl.DB.Model(&models.UserWordProgress{}).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Pluck("word_id", &completedWordIDs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch structure!", nil)
	}

	var completedPracticeIDs []uint
	if err := ctl.DB.Model(&models.UserPracticeProgress{}).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Pluck("practice_id", &completedPracticeIDs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch structure!", nil)
	}

	completedWords := make(map[uint]bool, len(completedWordIDs))
	for _, id := range completedWordIDs {
		completedWords[id] = true
	}
	completedPractices := make(map[uint]bool, len(completedPracticeIDs))
	for _, id := range completedPracticeIDs {
		completedPractices[id] = true
	}

	structure := make(map[uint]map[uint]*lessonSummary)
	lesson := func(unitID, lessonID uint) *lessonSummary {
		if structure[unitID] == nil {
			structure[unitID] = make(map[uint]*lessonSummary)
		}
		if structure[unitID][lessonID] == nil {
			structure[unitID][lessonID] = &lessonSummary{LessonID: lessonID}
		}
		return structure[unitID][lessonID]
	}

	for _, w := range words {
		ls := lesson(w.UnitID, w.LessonID)
		ls.TotalWords++
		if completedWords[w.ID] {
			ls.CompletedWords++
		}
	}
	for _, p := range practices {
		ls := lesson(p.UnitID, p.LessonID)
		ls.TotalPractices++
		if completedPractices[p.ID] {
			ls.CompletedPractices++
		}
	}

	unitIDs := make([]uint, 0, len(structure))
	for unitID := range structure {
		unitIDs = append(unitIDs, unitID)
	}
	sort.Slice(unitIDs, func(i, j int) bool { return unitIDs[i] < unitIDs[j] })

	result := make([]unitSummary, 0, len(unitIDs))
	for _, unitID := range unitIDs {
		lessons := make([]*lessonSummary, 0, len(structure[unitID]))
		for _, ls := range structure[unitID] {
			lessons = append(lessons, ls)
		}
		sort.Slice(lessons, func(i, j int) bool { return lessons[i].LessonID < lessons[j].LessonID })
		result = append(result, unitSummary{UnitID: unitID, Lessons: lessons})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Structure fetched successfully.", result)
}

// ListLessonWords returns all words belonging to a lesson
func (ctl *Controller) ListLessonWords(c *fiber.Ctx) error {
	unitID := c.Locals("unitID").(uint)
	lessonID := c.Locals("lessonID").(uint)

	var words []models.Word
	if err := ctl.DB.Where("unit_id = ? AND lesson_id = ?", unitID, lessonID).Find(&words).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch words!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Words fetched successfully.", words)
}

// ListLessonPractices returns all practices belonging to a lesson
func (ctl *Controller) ListLessonPractices(c *fiber.Ctx) error {
	unitID := c.Locals("unitID").(uint)
	lessonID := c.Locals("lessonID").(uint)

	var practices []models.Practice
	if err := ctl.DB.Where("unit_id = ? AND lesson_id = ?", unitID, lessonID).Find(&practices).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch practices!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Practices fetched successfully.", practices)
}

// CreateWord adds a word to a lesson
func (ctl *Controller) CreateWord(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedWord").(*contentValidator.WordPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	word := models.Word{
		UnitID:         reqData.UnitID,
		LessonID:       reqData.LessonID,
		Word:           reqData.Word,
		Phonetic:       reqData.Phonetic,
		EnglishMeaning: reqData.EnglishMeaning,
		ChineseMeaning: reqData.ChineseMeaning,
		Example:        reqData.Example,
	}

	if err := ctl.DB.Create(&word).Error; err != nil {
		log.Printf("Error creating word: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create word!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Word created successfully.", word)
}

// UpdateWord edits a word's content. Unit and lesson assignments are fixed.
func (ctl *Controller) UpdateWord(c *fiber.Ctx) error {
	wordID := c.Locals("wordID").(uint)
	reqData, ok := c.Locals("validatedWordUpdate").(*contentValidator.WordUpdatePayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var word models.Word
	if err := ctl.DB.First(&word, wordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Word not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update word!", nil)
	}

	word.Word = reqData.Word
	word.Phonetic = reqData.Phonetic
	word.EnglishMeaning = reqData.EnglishMeaning
	word.ChineseMeaning = reqData.ChineseMeaning
	word.Example = reqData.Example

	if err := ctl.DB.Save(&word).Error; err != nil {
		log.Printf("Error updating word %d: %v", wordID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update word!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Word updated successfully.", word)
}

// DeleteWord removes a word from the content store
func (ctl *Controller) DeleteWord(c *fiber.Ctx) error {
	wordID := c.Locals("wordID").(uint)

	var word models.Word
	if err := ctl.DB.First(&word, wordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Word not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete word!", nil)
	}

	if err := ctl.DB.Delete(&word).Error; err != nil {
		log.Printf("Error deleting word %d: %v", wordID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete word!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Word deleted.", nil)
}

// BulkCreateWords inserts a batch of words into one lesson transactionally
func (ctl *Controller) BulkCreateWords(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedBulkWords").(*contentValidator.BulkWordsPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	words := make([]models.Word, len(reqData.Words))
	for i, w := range reqData.Words {
		words[i] = models.Word{
			UnitID:         reqData.UnitID,
			LessonID:       reqData.LessonID,
			Word:           w.Word,
			Phonetic:       w.Phonetic,
			EnglishMeaning: w.EnglishMeaning,
			ChineseMeaning: w.ChineseMeaning,
			Example:        w.Example,
		}
	}

	err := ctl.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&words).Error
	})
	if err != nil {
		log.Printf("Error bulk creating words: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create words!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Words created successfully.", words)
}

// CreatePractice adds a cloze practice to a lesson
func (ctl *Controller) CreatePractice(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedPractice").(*contentValidator.PracticePayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	practice := models.Practice{
		UnitID:   reqData.UnitID,
		LessonID: reqData.LessonID,
		Practice: reqData.Practice,
		Answer:   reqData.Answer,
	}

	if err := ctl.DB.Create(&practice).Error; err != nil {
		log.Printf("Error creating practice: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create practice!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Practice created successfully.", practice)
}

// UpdatePractice edits a practice's sentence and answer
func (ctl *Controller) UpdatePractice(c *fiber.Ctx) error {
	practiceID := c.Locals("practiceID").(uint)
	reqData, ok := c.Locals("validatedPracticeUpdate").(*contentValidator.PracticeUpdatePayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var practice models.Practice
	if err := ctl.DB.First(&practice, practiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Practice not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update practice!", nil)
	}

	practice.Practice = reqData.Practice
	practice.Answer = reqData.Answer

	if err := ctl.DB.Save(&practice).Error; err != nil {
		log.Printf("Error updating practice %d: %v", practiceID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update practice!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Practice updated successfully.", practice)
}

// DeletePractice removes a practice from the content store
func (ctl *Controller) DeletePractice(c *fiber.Ctx) error {
	practiceID := c.Locals("practiceID").(uint)

	var practice models.Practice
	if err := ctl.DB.First(&practice, practiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Practice not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete practice!", nil)
	}

	if err := ctl.DB.Delete(&practice).Error; err != nil {
		log.Printf("Error deleting practice %d: %v", practiceID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete practice!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Practice deleted.", nil)
}

// BulkCreatePractices inserts a batch of practices into one lesson
// transactionally
func (ctl *Controller) BulkCreatePractices(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedBulkPractices").(*contentValidator.BulkPracticesPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	practices := make([]models.Practice, len(reqData.Practices))
	for i, p := range reqData.Practices {
		practices[i] = models.Practice{
			UnitID:   reqData.UnitID,
			LessonID: reqData.LessonID,
			Practice: p.Practice,
			Answer:   p.Answer,
		}
	}

	err := ctl.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&practices).Error
	})
	if err != nil {
		log.Printf("Error bulk creating practices: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create practices!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Practices created successfully.", practices)
}

// ImportLesson inserts words and practices for one lesson in a single
// transaction
func (ctl *Controller) ImportLesson(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLessonImport").(*contentValidator.LessonImportPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	err := ctl.DB.Transaction(func(tx *gorm.DB) error {
		for _, w := range reqData.Words {
			word := models.Word{
				UnitID:         reqData.UnitID,
				LessonID:       reqData.LessonID,
				Word:           w.Word,
				Phonetic:       w.Phonetic,
				EnglishMeaning: w.EnglishMeaning,
				ChineseMeaning: w.ChineseMeaning,
				Example:        w.Example,
			}
			if err := tx.Create(&word).Error; err != nil {
				return err
			}
		}
		for _, p := range reqData.Practices {
			practice := models.Practice{
				UnitID:   reqData.UnitID,
				LessonID: reqData.LessonID,
				Practice: p.Practice,
				Answer:   p.Answer,
			}
			if err := tx.Create(&practice).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Error importing lesson %d/%d: %v", reqData.UnitID, reqData.LessonID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to import lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson imported successfully.", fiber.Map{
		"words":     len(reqData.Words),
		"practices": len(reqData.Practices),
	})
}
