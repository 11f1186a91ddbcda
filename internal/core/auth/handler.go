package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fintrackapp/fintrack-be/internal/repositories"
	"github.com/fintrackapp/fintrack-be/internal/shared/utils"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
}

type Handler struct {
	jwtService *JWTService
	lookupRepo repositories.LookupRepo
}

// NewHandler creates a new auth handler
func NewHandler(jwtService *JWTService, lookupRepo repositories.LookupRepo) *Handler {
	return &Handler{
		jwtService: jwtService,
		lookupRepo: lookupRepo,
	}
}

// Login godoc
// @Summary Authenticate a user
// @Description Exchange email/password for a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} map[string]interface{}
// @Router /auth/login [post]
func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, err := h.lookupRepo.GetUserByEmail(req.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.LogError("login: user lookup failed", err, map[string]interface{}{"email": req.Email})
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid email or password",
		})
	}

	if err := VerifyPassword(user.PasswordHash, req.Password); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid email or password",
		})
	}

	token, expiresIn, err := h.jwtService.GenerateToken(&TokenClaims{
		UserID: user.ID.String(),
		Email:  user.Email,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to issue token",
		})
	}

	return c.JSON(LoginResponse{
		Token:     token,
		ExpiresIn: expiresIn,
		UserID:    user.ID.String(),
		Name:      user.FullName(),
	})
}

// Me godoc
// @Summary Current user
// @Description Return the authenticated user's profile
// @Tags Auth
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /auth/me [get]
func (h *Handler) Me(c *fiber.Ctx) error {
	userIDStr, ok := c.Locals("userID").(string)
	if !ok || userIDStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}

	user, err := h.lookupRepo.GetUserByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	return c.JSON(fiber.Map{
		"id":    user.ID,
		"name":  user.FullName(),
		"email": user.Email,
	})
}
