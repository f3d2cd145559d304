package userController

import (
	"errors"
	"log"
	"time"

	"lexi/middleware"
	"lexi/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Controller serves the admin user management surface
type Controller struct {
	DB *gorm.DB
}

// New builds a controller around the injected storage handle
func New(db *gorm.DB) *Controller {
	return &Controller{DB: db}
}

type userSummary struct {
	ID                 uint      `json:"id"`
	Username           string    `json:"username"`
	CreatedAt          time.Time `json:"createdAt"`
	CompletedWords     int64     `json:"completedWords"`
	CompletedLessons   int64     `json:"completedLessons"`
	CompletedPractices int64     `json:"completedPractices"`
}

// ListUsers returns all users newest-first with their completed progress
// counts
func (ctl *Controller) ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := ctl.DB.Order("created_at desc").Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	summaries := make([]userSummary, len(users))
	for i, u := range users {
		summaries[i] = userSummary{
			ID:        u.ID,
			Username:  u.Username,
			CreatedAt: u.CreatedAt,
		}

		ctl.DB.Model(&models.UserWordProgress{}).
			Where("user_id = ? AND is_completed = ?", u.ID, true).
			Count(&summaries[i].CompletedWords)
		ctl.DB.Model(&models.UserLessonProgress{}).
			Where("user_id = ? AND is_completed = ?", u.ID, true).
			Count(&summaries[i].CompletedLessons)
		ctl.DB.Model(&models.UserPracticeProgress{}).
			Where("user_id = ? AND is_completed = ?", u.ID, true).
			Count(&summaries[i].CompletedPractices)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully.", summaries)
}

// DeleteUser removes a user. Progress rows are deleted first since no
// cascade is assumed; completion history goes with the user.
func (ctl *Controller) DeleteUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.ValidationErrorResponse(c, map[string]string{"id": "Invalid user id!"})
	}

	var user models.User
	if err := ctl.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
	}

	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserWordProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserLessonProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserPracticeProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.LessonCompletion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		log.Printf("Error deleting user %d: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully.", nil)
}
