package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/platebook/platebook-backend/internal/config"
	"github.com/platebook/platebook-backend/internal/dto"
	"github.com/platebook/platebook-backend/internal/middleware"
	"gorm.io/gorm"
)

type AdminHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAdminHandler(db *gorm.DB, cfg *config.Config) *AdminHandler {
	return &AdminHandler{db: db, cfg: cfg}
}

// Status lets the UI probe whether the current credentials carry admin
// privileges. Non-admins get a 200 with false, not a rejection.
func (h *AdminHandler) Status(c *fiber.Ctx) error {
	return c.JSON(dto.AdminStatusResponse{
		IsAdmin: middleware.IsAdmin(c, h.db, h.cfg),
	})
}
