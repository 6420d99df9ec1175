package handlers

import (
	"errors"
	"log"
	"net/mail"
	"strings"

	"cultivate/internal/models"
	"cultivate/internal/services"
	"cultivate/pkg/auth"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles registration, login and token refresh.
// Registration is invite-gated.
type AuthHandler struct {
	userService   *services.UserService
	inviteService *services.InviteService
	jwtAuth       *auth.JWTAuth
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService *services.UserService, inviteService *services.InviteService, jwtAuth *auth.JWTAuth) *AuthHandler {
	return &AuthHandler{
		userService:   userService,
		inviteService: inviteService,
		jwtAuth:       jwtAuth,
	}
}

// Register handles POST /api/v1/auth/register
// The invite code is claimed before the account is created; a code
// that is unknown or already claimed rejects the registration.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return badRequest(c, "Invalid email address")
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := requestContext()
	defer cancel()

	if _, err := h.userService.GetByEmail(ctx, email); err == nil {
		return badRequest(c, "Email already registered")
	} else if !errors.Is(err, models.ErrNotFound) {
		return serviceError(c, err, "AUTH")
	}

	invite, err := h.inviteService.Claim(ctx, req.InviteCode, "")
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return badRequest(c, "Invalid or already used invite code")
		}
		return serviceError(c, err, "AUTH")
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return serviceError(c, err, "AUTH")
	}

	user, err := h.userService.Create(ctx, email, passwordHash, req.Name, invite.Code)
	if err != nil {
		return serviceError(c, err, "AUTH")
	}

	// Back-fill the claimer now that the account exists. Best effort:
	// the claim already blocks reuse.
	if err := h.inviteService.SetClaimedBy(ctx, invite.Code, user.ID.Hex()); err != nil {
		log.Printf("⚠️ [AUTH] Failed to record invite claimer for %s: %v", invite.Code, err)
	}

	accessToken, refreshToken, err := h.jwtAuth.GenerateTokens(user.ID.Hex(), user.Email)
	if err != nil {
		return serviceError(c, err, "AUTH")
	}

	log.Printf("✅ [AUTH] Registered user %s via invite %s", user.Email, invite.Code)
	return c.Status(fiber.StatusCreated).JSON(models.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	})
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := requestContext()
	defer cancel()

	user, err := h.userService.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return invalidCredentials(c)
		}
		return serviceError(c, err, "AUTH")
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil || !ok {
		return invalidCredentials(c)
	}

	if err := h.userService.TouchLastLogin(ctx, user.ID); err != nil {
		log.Printf("⚠️ [AUTH] Failed to record login time for %s: %v", user.ID.Hex(), err)
	}

	accessToken, refreshToken, err := h.jwtAuth.GenerateTokens(user.ID.Hex(), user.Email)
	if err != nil {
		return serviceError(c, err, "AUTH")
	}

	return c.JSON(models.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	})
}

// Refresh handles POST /api/v1/auth/refresh. The refresh token comes
// in the body; a valid one yields a fresh token pair.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return badRequest(c, "refresh_token is required")
	}

	identity, err := h.jwtAuth.VerifyToken(req.RefreshToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired refresh token",
		})
	}

	accessToken, refreshToken, err := h.jwtAuth.GenerateTokens(identity.ID, identity.Email)
	if err != nil {
		return serviceError(c, err, "AUTH")
	}

	return c.JSON(fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := requestContext()
	defer cancel()

	user, err := h.userService.GetByID(ctx, userID)
	if err != nil {
		return serviceError(c, err, "AUTH")
	}
	return c.JSON(user)
}

func invalidCredentials(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Invalid email or password",
	})
}
