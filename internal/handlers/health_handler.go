package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fintrackapp/fintrack-be/internal/shared/database"
)

type HealthHandler struct {
	db *database.DB
}

func NewHealthHandler(db *database.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health godoc
// @Summary Health check
// @Description Liveness and database connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	status := "ok"
	dbStatus := "ok"
	if err := h.db.Ping(); err != nil {
		status = "degraded"
		dbStatus = "unreachable"
	}

	return c.JSON(fiber.Map{
		"status":   status,
		"database": dbStatus,
	})
}
