package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/platebook/platebook-backend/internal/config"
	"github.com/platebook/platebook-backend/internal/dto"
	"github.com/platebook/platebook-backend/internal/models"
	"gorm.io/gorm"
)

// AdminRequired gates the moderation surface. The two rejection kinds stay
// distinct so the UI can route to login (401) or show access denied (403):
// no credentials at all -> 401, authenticated non-admin -> 403.
// Admin status comes from the config-based email/ID lists, the admin token
// header, or the user's DB role.
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" && c.Get("X-Admin-Token") == cfg.AdminToken {
			return c.Next()
		}

		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Authentication required",
			})
		}

		if IsAdmin(c, db, cfg) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin privileges required",
		})
	}
}

// IsAdmin evaluates the admin checks for already-authenticated credentials.
// Also used by the /admin/status probe, which answers false instead of
// rejecting.
func IsAdmin(c *fiber.Ctx, db *gorm.DB, cfg *config.Config) bool {
	if cfg.AdminToken != "" && c.Get("X-Admin-Token") == cfg.AdminToken {
		return true
	}

	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}

	email, _ := claims["email"].(string)
	sub, _ := claims["sub"].(string)

	if contains(parseCSV(cfg.AdminEmails), email) || contains(parseCSV(cfg.AdminUserIDs), sub) {
		return true
	}

	if sub != "" {
		if userID, err := uuid.Parse(sub); err == nil {
			var user models.User
			if err := db.First(&user, "id = ?", userID).Error; err == nil && user.Role == "admin" {
				return true
			}
		}
	}
	return false
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
