package middleware

import (
	"net/http/httptest"
	"testing"

	"lexi/config"
	"lexi/database"
	"lexi/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTest(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	config.AppConfig = &config.Config{Port: "3000", JWTKey: "test-secret", SaltRound: bcrypt.MinCost}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	app := fiber.New()
	app.Get("/protected", Protected(db), func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return JsonResponse(c, fiber.StatusInternalServerError, false, "Missing user id!", nil)
		}
		return JsonResponse(c, fiber.StatusOK, true, "OK", fiber.Map{"userId": userID})
	})

	return app, db
}

func request(t *testing.T, app *fiber.App, authHeader string) int {
	t.Helper()

	req := httptest.NewRequest("GET", "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()

	return resp.StatusCode
}

func TestProtectedMissingHeader(t *testing.T) {
	app, _ := setupTest(t)

	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, ""))
}

func TestProtectedMalformedHeader(t *testing.T) {
	app, db := setupTest(t)

	user := models.User{Username: "alice", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	token, err := GenerateJWT(user.ID, user.Username)
	require.NoError(t, err)

	// Token without the Bearer prefix is rejected before verification
	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, token))
}

func TestProtectedInvalidToken(t *testing.T) {
	app, _ := setupTest(t)

	assert.Equal(t, fiber.StatusForbidden, request(t, app, "Bearer not-a-jwt"))
}

func TestProtectedWrongSigningKey(t *testing.T) {
	app, db := setupTest(t)

	user := models.User{Username: "alice", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	config.AppConfig.JWTKey = "other-secret"
	token, err := GenerateJWT(user.ID, user.Username)
	require.NoError(t, err)
	config.AppConfig.JWTKey = "test-secret"

	assert.Equal(t, fiber.StatusForbidden, request(t, app, "Bearer "+token))
}

func TestProtectedDeletedUser(t *testing.T) {
	app, db := setupTest(t)

	user := models.User{Username: "alice", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	token, err := GenerateJWT(user.ID, user.Username)
	require.NoError(t, err)

	require.NoError(t, db.Delete(&user).Error)

	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, "Bearer "+token))
}

func TestProtectedValidToken(t *testing.T) {
	app, db := setupTest(t)

	user := models.User{Username: "alice", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	token, err := GenerateJWT(user.ID, user.Username)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, request(t, app, "Bearer "+token))
}
