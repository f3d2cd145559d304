package progressController

import (
	"errors"
	"log"
	"time"

	"lexi/middleware"
	"lexi/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Controller serves the progress ledger endpoints. Lesson-level completion
// is derived state: every word or practice mutation re-evaluates the owning
// lesson from scratch inside the same transaction, so the aggregate flag
// self-corrects on every invocation and a failed evaluation fails the whole
// mutation.
type Controller struct {
	DB *gorm.DB
}

// New builds a controller around the injected storage handle
func New(db *gorm.DB) *Controller {
	return &Controller{DB: db}
}

// evaluateLesson recomputes whether the (unit, lesson) pair is fully
// completed for the user and upserts the aggregate flag. A 0→1 transition
// appends exactly one LessonCompletion history row. Must run inside the
// caller's transaction: the previous-flag read, the history append and the
// upsert form one atomic unit.
func evaluateLesson(tx *gorm.DB, userID, unitID, lessonID uint) error {
	var wordIDs []uint
	if err := tx.Model(&models.Word{}).
		Where("unit_id = ? AND lesson_id = ?", unitID, lessonID).
		Pluck("id", &wordIDs).Error; err != nil {
		return err
	}

	var completedWords int64
	if len(wordIDs) > 0 {
		if err := tx.Model(&models.UserWordProgress{}).
			Where("user_id = ? AND word_id IN ? AND is_completed = ?", userID, wordIDs, true).
			Count(&completedWords).Error; err != nil {
			return err
		}
	}

	var practiceIDs []uint
	if err := tx.Model(&models.Practice{}).
		Where("unit_id = ? AND lesson_id = ?", unitID, lessonID).
		Pluck("id", &practiceIDs).Error; err != nil {
		return err
	}

	var completedPractices int64
	if len(practiceIDs) > 0 {
		if err := tx.Model(&models.UserPracticeProgress{}).
			Where("user_id = ? AND practice_id IN ? AND is_completed = ?", userID, practiceIDs, true).
			Count(&completedPractices).Error; err != nil {
			return err
		}
	}

	// A lesson with no words and no practices counts as complete
	isCompleted := completedWords == int64(len(wordIDs)) &&
		completedPractices == int64(len(practiceIDs))

	wasCompleted := false
	var previous models.UserLessonProgress
	err := tx.Where("user_id = ? AND unit_id = ? AND lesson_id = ?", userID, unitID, lessonID).
		First(&previous).Error
	if err == nil {
		wasCompleted = previous.IsCompleted
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if isCompleted && !wasCompleted {
		completion := models.LessonCompletion{
			UserID:      userID,
			UnitID:      unitID,
			LessonID:    lessonID,
			CompletedAt: time.Now(),
		}
		if err := tx.Create(&completion).Error; err != nil {
			return err
		}
	}

	progress := models.UserLessonProgress{
		UserID:      userID,
		UnitID:      unitID,
		LessonID:    lessonID,
		IsCompleted: isCompleted,
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "unit_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"is_completed": isCompleted, "updated_at": time.Now()}),
	}).Create(&progress).Error
}

// GetProgress returns the user's aggregate progress counts plus the raw id
// lists the client needs to compute per-item completion locally
func (ctl *Controller) GetProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var wordProgress []models.UserWordProgress
	if err := ctl.DB.Where("user_id = ? AND is_completed = ?", userID, true).Find(&wordProgress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	var lessonProgress []models.UserLessonProgress
	if err := ctl.DB.Where("user_id = ? AND is_completed = ?", userID, true).Find(&lessonProgress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	var practiceProgress []models.UserPracticeProgress
	if err := ctl.DB.Where("user_id = ? AND is_completed = ?", userID, true).Find(&practiceProgress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	wordIDs := make([]uint, len(wordProgress))
	for i, p := range wordProgress {
		wordIDs[i] = p.WordID
	}

	practiceIDs := make([]uint, len(practiceProgress))
	for i, p := range practiceProgress {
		practiceIDs[i] = p.PracticeID
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully.", fiber.Map{
		"completedWords":     len(wordProgress),
		"completedLessons":   len(lessonProgress),
		"completedPractices": len(practiceProgress),
		"details": fiber.Map{
			"words":     wordIDs,
			"lessons":   lessonProgress,
			"practices": practiceIDs,
		},
	})
}

// ToggleWord flips the user's completion flag for a word, creating the row
// as completed when it does not exist yet, then re-evaluates the owning
// lesson
func (ctl *Controller) ToggleWord(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	wordID := c.Locals("wordID").(uint)

	var word models.Word
	if err := ctl.DB.First(&word, wordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Word not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update word progress!", nil)
	}

	var progress models.UserWordProgress
	err := ctl.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND word_id = ?", userID, wordID).First(&progress).Error
		switch {
		case err == nil:
			progress.IsCompleted = !progress.IsCompleted
			if err := tx.Save(&progress).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			progress = models.UserWordProgress{UserID: userID, WordID: wordID, IsCompleted: true}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "word_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{"is_completed": true, "updated_at": time.Now()}),
			}).Create(&progress).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return evaluateLesson(tx, userID, word.UnitID, word.LessonID)
	})
	if err != nil {
		log.Printf("Error toggling word %d for user %d: %v", wordID, userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update word progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Word progress updated.", progress)
}

// TogglePractice flips the user's completion flag for a practice, creating
// the row as completed when it does not exist yet, then re-evaluates the
// owning lesson
func (ctl *Controller) TogglePractice(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	practiceID := c.Locals("practiceID").(uint)

	var practice models.Practice
	if err := ctl.DB.First(&practice, practiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Practice not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update practice progress!", nil)
	}

	var progress models.UserPracticeProgress
	err := ctl.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND practice_id = ?", userID, practiceID).First(&progress).Error
		switch {
		case err == nil:
			progress.IsCompleted = !progress.IsCompleted
			if err := tx.Save(&progress).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			progress = models.UserPracticeProgress{UserID: userID, PracticeID: practiceID, IsCompleted: true}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "practice_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{"is_completed": true, "updated_at": time.Now()}),
			}).Create(&progress).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return evaluateLesson(tx, userID, practice.UnitID, practice.LessonID)
	})
	if err != nil {
		log.Printf("Error toggling practice %d for user %d: %v", practiceID, userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update practice progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Practice progress updated.", progress)
}

// CompletePractice idempotently marks a practice as completed. Used on a
// verified-correct answer submission, so it never flips a completed row
// back
func (ctl *Controller) CompletePractice(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	practiceID := c.Locals("practiceID").(uint)

	var practice models.Practice
	if err := ctl.DB.First(&practice, practiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Practice not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update practice progress!", nil)
	}

	var progress models.UserPracticeProgress
	err := ctl.DB.Transaction(func(tx *gorm.DB) error {
		upsert := models.UserPracticeProgress{UserID: userID, PracticeID: practiceID, IsCompleted: true}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "practice_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"is_completed": true, "updated_at": time.Now()}),
		}).Create(&upsert).Error; err != nil {
			return err
		}

		// Read back the row so the response carries its real id
		if err := tx.Where("user_id = ? AND practice_id = ?", userID, practiceID).First(&progress).Error; err != nil {
			return err
		}

		return evaluateLesson(tx, userID, practice.UnitID, practice.LessonID)
	})
	if err != nil {
		log.Printf("Error completing practice %d for user %d: %v", practiceID, userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update practice progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Practice completed.", progress)
}

// ResetLesson removes the user's word and practice progress for the lesson
// and clears the derived flag. Completion history is preserved. Safe to
// call on a lesson the user never started.
func (ctl *Controller) ResetLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	unitID := c.Locals("unitID").(uint)
	lessonID := c.Locals("lessonID").(uint)

	err := ctl.DB.Transaction(func(tx *gorm.DB) error {
		var wordIDs []uint
		if err := tx.Model(&models.Word{}).
			Where("unit_id = ? AND lesson_id = ?", unitID, lessonID).
			Pluck("id", &wordIDs).Error; err != nil {
			return err
		}
		if len(wordIDs) > 0 {
			if err := tx.Where("user_id = ? AND word_id IN ?", userID, wordIDs).
				Delete(&models.UserWordProgress{}).Error; err != nil {
				return err
			}
		}

		var practiceIDs []uint
		if err := tx.Model(&models.Practice{}).
			Where("unit_id = ? AND lesson_id = ?", unitID, lessonID).
			Pluck("id", &practiceIDs).Error; err != nil {
			return err
		}
		if len(practiceIDs) > 0 {
			if err := tx.Where("user_id = ? AND practice_id IN ?", userID, practiceIDs).
				Delete(&models.UserPracticeProgress{}).Error; err != nil {
				return err
			}
		}

		// Clear the derived flag but keep LessonCompletion history rows
		return tx.Model(&models.UserLessonProgress{}).
			Where("user_id = ? AND unit_id = ? AND lesson_id = ?", userID, unitID, lessonID).
			Update("is_completed", false).Error
	})
	if err != nil {
		log.Printf("Error resetting lesson %d/%d for user %d: %v", unitID, lessonID, userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reset lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson reset for review.", fiber.Map{
		"message": "Lesson reset for review",
	})
}

// GetLessonHistory lists the lesson's completion events newest-first
func (ctl *Controller) GetLessonHistory(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	unitID := c.Locals("unitID").(uint)
	lessonID := c.Locals("lessonID").(uint)

	var history []models.LessonCompletion
	if err := ctl.DB.Where("user_id = ? AND unit_id = ? AND lesson_id = ?", userID, unitID, lessonID).
		Order("completed_at desc").
		Find(&history).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lesson history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson history fetched successfully.", history)
}
