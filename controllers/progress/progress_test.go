package progressController

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"lexi/config"
	"lexi/database"
	"lexi/middleware"
	"lexi/models"
	progressValidator "lexi/validators/progress"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupTest(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	config.AppConfig = &config.Config{Port: "3000", JWTKey: "test-secret", SaltRound: bcrypt.MinCost}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // one shared in-memory database

	require.NoError(t, database.Migrate(db))

	app := fiber.New()
	ctl := New(db)
	api := app.Group("/api", middleware.Protected(db))
	api.Get("/progress", ctl.GetProgress)
	api.Post("/words/:id/toggle", progressValidator.WordID(), ctl.ToggleWord)
	api.Post("/practices/:id/toggle", progressValidator.PracticeID(), ctl.TogglePractice)
	api.Post("/practices/:id/complete", progressValidator.PracticeID(), ctl.CompletePractice)
	api.Post("/lessons/:unitId/:lessonId/reset", progressValidator.LessonParams(), ctl.ResetLesson)
	api.Get("/lessons/:unitId/:lessonId/history", progressValidator.LessonParams(), ctl.GetLessonHistory)

	return app, db
}

func createUser(t *testing.T, db *gorm.DB, username string) (models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{Username: username, Password: string(hash)}
	require.NoError(t, db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Username)
	require.NoError(t, err)

	return user, token
}

func seedLesson(t *testing.T, db *gorm.DB, unitID, lessonID uint, wordCount, practiceCount int) ([]models.Word, []models.Practice) {
	t.Helper()

	words := make([]models.Word, wordCount)
	for i := range words {
		words[i] = models.Word{
			UnitID:   unitID,
			LessonID: lessonID,
			Word:     fmt.Sprintf("word-%d-%d-%d", unitID, lessonID, i),
		}
		require.NoError(t, db.Create(&words[i]).Error)
	}

	practices := make([]models.Practice, practiceCount)
	for i := range practices {
		practices[i] = models.Practice{
			UnitID:   unitID,
			LessonID: lessonID,
			Practice: fmt.Sprintf("fill the _____ %d", i),
			Answer:   "blank",
		}
		require.NoError(t, db.Create(&practices[i]).Error)
	}

	return words, practices
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string) (int, apiResponse) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	return resp.StatusCode, body
}

func lessonFlag(t *testing.T, db *gorm.DB, userID, unitID, lessonID uint) (found, completed bool) {
	t.Helper()

	var progress models.UserLessonProgress
	err := db.Where("user_id = ? AND unit_id = ? AND lesson_id = ?", userID, unitID, lessonID).First(&progress).Error
	if err != nil {
		require.ErrorIs(t, err, gorm.ErrRecordNotFound)
		return false, false
	}
	return true, progress.IsCompleted
}

func historyCount(t *testing.T, db *gorm.DB, userID, unitID, lessonID uint) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.LessonCompletion{}).
		Where("user_id = ? AND unit_id = ? AND lesson_id = ?", userID, unitID, lessonID).
		Count(&count).Error)
	return count
}

func TestToggleWordInverse(t *testing.T) {
	app, db := setupTest(t)
	_, token := createUser(t, db, "alice")
	words, _ := seedLesson(t, db, 1, 1, 2, 0)

	path := fmt.Sprintf("/api/words/%d/toggle", words[0].ID)

	status, body := doRequest(t, app, "POST", path, token)
	require.Equal(t, fiber.StatusOK, status)

	var progress models.UserWordProgress
	require.NoError(t, json.Unmarshal(body.Data, &progress))
	assert.True(t, progress.IsCompleted)

	status, body = doRequest(t, app, "POST", path, token)
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(body.Data, &progress))
	assert.False(t, progress.IsCompleted)

	// Two toggles touch one row, not two
	var count int64
	require.NoError(t, db.Model(&models.UserWordProgress{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestToggleUnknownWord(t *testing.T) {
	app, db := setupTest(t)
	_, token := createUser(t, db, "alice")

	status, body := doRequest(t, app, "POST", "/api/words/999/toggle", token)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.False(t, body.Status)

	var count int64
	require.NoError(t, db.Model(&models.UserWordProgress{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTogglePracticeInverse(t *testing.T) {
	app, db := setupTest(t)
	_, token := createUser(t, db, "alice")
	_, practices := seedLesson(t, db, 1, 1, 1, 1)

	path := fmt.Sprintf("/api/practices/%d/toggle", practices[0].ID)

	status, body := doRequest(t, app, "POST", path, token)
	require.Equal(t, fiber.StatusOK, status)

	var progress models.UserPracticeProgress
	require.NoError(t, json.Unmarshal(body.Data, &progress))
	assert.True(t, progress.IsCompleted)

	status, body = doRequest(t, app, "POST", path, token)
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(body.Data, &progress))
	assert.False(t, progress.IsCompleted)
}

func TestCompletePracticeIdempotent(t *testing.T) {
	app, db := setupTest(t)
	user, token := createUser(t, db, "alice")
	_, practices := seedLesson(t, db, 1, 1, 0, 1)

	path := fmt.Sprintf("/api/practices/%d/complete", practices[0].ID)

	for i := 0; i < 2; i++ {
		status, body := doRequest(t, app, "POST", path, token)
		require.Equal(t, fiber.StatusOK, status)

		var progress models.UserPracticeProgress
		require.NoError(t, json.Unmarshal(body.Data, &progress))
		assert.True(t, progress.IsCompleted)
	}

	var count int64
	require.NoError(t, db.Model(&models.UserPracticeProgress{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// The repeated complete is not a new 0→1 transition
	assert.EqualValues(t, 1, historyCount(t, db, user.ID, 1, 1))
}

func TestCompleteUnknownPractice(t *testing.T) {
	app, db := setupTest(t)
	_, token := createUser(t, db, "alice")

	status, _ := doRequest(t, app, "POST", "/api/practices/42/complete", token)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestLessonCompletionTransition(t *testing.T) {
	app, db := setupTest(t)
	user, token := createUser(t, db, "alice")
	words, practices := seedLesson(t, db, 1, 1, 1, 1)

	status, _ := doRequest(t, app, "POST", fmt.Sprintf("/api/words/%d/toggle", words[0].ID), token)
	require.Equal(t, fiber.StatusOK, status)

	// Word done, practice pending: lesson not complete yet
	found, completed := lessonFlag(t, db, user.ID, 1, 1)
	assert.True(t, found)
	assert.False(t, completed)
	assert.Zero(t, historyCount(t, db, user.ID, 1, 1))

	status, _ = doRequest(t, app, "POST", fmt.Sprintf("/api/practices/%d/complete", practices[0].ID), token)
	require.Equal(t, fiber.StatusOK, status)

	_, completed = lessonFlag(t, db, user.ID, 1, 1)
	assert.True(t, completed)

	status, body := doRequest(t, app, "GET", "/api/lessons/1/1/history", token)
	require.Equal(t, fiber.StatusOK, status)

	var history []models.LessonCompletion
	require.NoError(t, json.Unmarshal(body.Data, &history))
	assert.Len(t, history, 1)
}

func TestEmptyLessonVacuouslyComplete(t *testing.T) {
	_, db := setupTest(t)
	user, _ := createUser(t, db, "alice")

	// No words, no practices: evaluating the lesson counts it as complete
	require.NoError(t, evaluateLesson(db, user.ID, 7, 7))

	found, completed := lessonFlag(t, db, user.ID, 7, 7)
	assert.True(t, found)
	assert.True(t, completed)
	assert.EqualValues(t, 1, historyCount(t, db, user.ID, 7, 7))

	// Re-evaluating an already complete lesson appends nothing
	require.NoError(t, evaluateLesson(db, user.ID, 7, 7))
	assert.EqualValues(t, 1, historyCount(t, db, user.ID, 7, 7))
}

func TestPartialCompletionNoHistory(t *testing.T) {
	app, db := setupTest(t)
	user, token := createUser(t, db, "alice")
	words, practices := seedLesson(t, db, 2, 3, 3, 2)

	for _, w := range words[:2] {
		status, _ := doRequest(t, app, "POST", fmt.Sprintf("/api/words/%d/toggle", w.ID), token)
		require.Equal(t, fiber.StatusOK, status)
	}
	status, _ := doRequest(t, app, "POST", fmt.Sprintf("/api/practices/%d/complete", practices[0].ID), token)
	require.Equal(t, fiber.StatusOK, status)

	_, completed := lessonFlag(t, db, user.ID, 2, 3)
	assert.False(t, completed)
	assert.Zero(t, historyCount(t, db, user.ID, 2, 3))
}

func TestResetClearsProgressButPreservesHistory(t *testing.T) {
	app, db := setupTest(t)
	user, token := createUser(t, db, "alice")
	words, practices := seedLesson(t, db, 1, 1, 1, 1)

	complete := func() {
		status, _ := doRequest(t, app, "POST", fmt.Sprintf("/api/words/%d/toggle", words[0].ID), token)
		require.Equal(t, fiber.StatusOK, status)
		status, _ = doRequest(t, app, "POST", fmt.Sprintf("/api/practices/%d/complete", practices[0].ID), token)
		require.Equal(t, fiber.StatusOK, status)
	}

	complete()
	require.EqualValues(t, 1, historyCount(t, db, user.ID, 1, 1))

	status, _ := doRequest(t, app, "POST", "/api/lessons/1/1/reset", token)
	require.Equal(t, fiber.StatusOK, status)

	var wordRows, practiceRows int64
	require.NoError(t, db.Model(&models.UserWordProgress{}).Where("user_id = ?", user.ID).Count(&wordRows).Error)
	require.NoError(t, db.Model(&models.UserPracticeProgress{}).Where("user_id = ?", user.ID).Count(&practiceRows).Error)
	assert.Zero(t, wordRows)
	assert.Zero(t, practiceRows)

	found, completed := lessonFlag(t, db, user.ID, 1, 1)
	assert.True(t, found)
	assert.False(t, completed)

	// History survives the reset
	assert.EqualValues(t, 1, historyCount(t, db, user.ID, 1, 1))

	// Completing again appends a second entry
	complete()
	assert.EqualValues(t, 2, historyCount(t, db, user.ID, 1, 1))

	status, body := doRequest(t, app, "GET", "/api/lessons/1/1/history", token)
	require.Equal(t, fiber.StatusOK, status)

	var history []models.LessonCompletion
	require.NoError(t, json.Unmarshal(body.Data, &history))
	require.Len(t, history, 2)
	// Newest first
	assert.False(t, history[0].CompletedAt.Before(history[1].CompletedAt))
}

func TestResetUnstartedLessonIsIdempotent(t *testing.T) {
	app, db := setupTest(t)
	_, token := createUser(t, db, "alice")
	seedLesson(t, db, 4, 2, 1, 0)

	for i := 0; i < 2; i++ {
		status, body := doRequest(t, app, "POST", "/api/lessons/4/2/reset", token)
		assert.Equal(t, fiber.StatusOK, status)
		assert.True(t, body.Status)
	}
}

func TestCrossUserIsolation(t *testing.T) {
	app, db := setupTest(t)
	alice, aliceToken := createUser(t, db, "alice")
	bob, bobToken := createUser(t, db, "bob")
	words, practices := seedLesson(t, db, 1, 1, 1, 1)

	wordPath := fmt.Sprintf("/api/words/%d/toggle", words[0].ID)

	status, _ := doRequest(t, app, "POST", wordPath, aliceToken)
	require.Equal(t, fiber.StatusOK, status)
	status, _ = doRequest(t, app, "POST", wordPath, bobToken)
	require.Equal(t, fiber.StatusOK, status)

	// Same word, two independent rows
	var rows int64
	require.NoError(t, db.Model(&models.UserWordProgress{}).Where("word_id = ?", words[0].ID).Count(&rows).Error)
	assert.EqualValues(t, 2, rows)

	// Bob finishes the lesson; Alice's aggregate is untouched
	status, _ = doRequest(t, app, "POST", fmt.Sprintf("/api/practices/%d/complete", practices[0].ID), bobToken)
	require.Equal(t, fiber.StatusOK, status)

	_, bobCompleted := lessonFlag(t, db, bob.ID, 1, 1)
	assert.True(t, bobCompleted)
	_, aliceCompleted := lessonFlag(t, db, alice.ID, 1, 1)
	assert.False(t, aliceCompleted)
	assert.Zero(t, historyCount(t, db, alice.ID, 1, 1))
}

func TestGetProgressSummary(t *testing.T) {
	app, db := setupTest(t)
	_, token := createUser(t, db, "alice")
	words, practices := seedLesson(t, db, 1, 1, 2, 1)

	for _, w := range words {
		status, _ := doRequest(t, app, "POST", fmt.Sprintf("/api/words/%d/toggle", w.ID), token)
		require.Equal(t, fiber.StatusOK, status)
	}
	status, _ := doRequest(t, app, "POST", fmt.Sprintf("/api/practices/%d/complete", practices[0].ID), token)
	require.Equal(t, fiber.StatusOK, status)

	status, body := doRequest(t, app, "GET", "/api/progress", token)
	require.Equal(t, fiber.StatusOK, status)

	var summary struct {
		CompletedWords     int `json:"completedWords"`
		CompletedLessons   int `json:"completedLessons"`
		CompletedPractices int `json:"completedPractices"`
		Details            struct {
			Words     []uint                      `json:"words"`
			Lessons   []models.UserLessonProgress `json:"lessons"`
			Practices []uint                      `json:"practices"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &summary))

	assert.Equal(t, 2, summary.CompletedWords)
	assert.Equal(t, 1, summary.CompletedLessons)
	assert.Equal(t, 1, summary.CompletedPractices)
	assert.ElementsMatch(t, []uint{words[0].ID, words[1].ID}, summary.Details.Words)
	assert.ElementsMatch(t, []uint{practices[0].ID}, summary.Details.Practices)
	require.Len(t, summary.Details.Lessons, 1)
	assert.True(t, summary.Details.Lessons[0].IsCompleted)
}
