package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/platebook/platebook-backend/internal/config"
	"github.com/platebook/platebook-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

func setupGate(t *testing.T, cfg *config.Config) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	app := fiber.New()
	app.Get("/admin/ping", JWTProtected(cfg), AdminRequired(db, cfg), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	return app, db
}

func signToken(t *testing.T, userID uuid.UUID, email string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID.String(),
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(15 * time.Minute).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func gateRequest(t *testing.T, app *fiber.App, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)
	return resp.StatusCode, payload.Message
}

func TestGate_NoCredentials(t *testing.T) {
	app, _ := setupGate(t, &config.Config{JWTSecret: testSecret})

	status, message := gateRequest(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Authentication required", message)
}

func TestGate_AuthenticatedNonAdmin(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	app, db := setupGate(t, cfg)

	user := models.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com", Password: "x", Role: "user"}
	require.NoError(t, db.Create(&user).Error)

	// The two rejection kinds stay distinct: 401 means log in, 403 means
	// access denied.
	status, message := gateRequest(t, app, signToken(t, user.ID, user.Email))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Admin privileges required", message)
}

func TestGate_AdminByRole(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	app, db := setupGate(t, cfg)

	admin := models.User{ID: uuid.New(), Username: "root", Email: "root@example.com", Password: "x", Role: "admin"}
	require.NoError(t, db.Create(&admin).Error)

	status, _ := gateRequest(t, app, signToken(t, admin.ID, admin.Email))
	assert.Equal(t, http.StatusOK, status)
}

func TestGate_AdminByConfigEmail(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret, AdminEmails: "ops@example.com, root@example.com"}
	app, _ := setupGate(t, cfg)

	// Not in the DB at all; the config list alone grants access.
	status, _ := gateRequest(t, app, signToken(t, uuid.New(), "root@example.com"))
	assert.Equal(t, http.StatusOK, status)
}

func TestGate_InvalidToken(t *testing.T) {
	app, _ := setupGate(t, &config.Config{JWTSecret: testSecret})

	status, message := gateRequest(t, app, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Authentication required", message)
}
