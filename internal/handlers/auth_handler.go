package handlers

import (
	"time"

	"atelier/internal/middleware"
	"atelier/internal/models"
	"atelier/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles registration, login and session management.
type AuthHandler struct {
	registration *services.RegistrationService
	authService  *services.AuthService
	validate     *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(registration *services.RegistrationService, authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		registration: registration,
		authService:  authService,
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/register/workshop", h.HandleRegisterWorkshop)
	router.Post("/register/user", h.HandleRegisterUser)
	router.Post("/login", h.HandleLogin)
	router.Post("/refresh", h.HandleRefresh)
}

// RegisterProtectedRoutes registers the routes requiring a session.
func (h *AuthHandler) RegisterProtectedRoutes(router fiber.Router) {
	router.Post("/logout", h.HandleLogout)
	router.Get("/profile", h.HandleGetProfile)
	router.Put("/profile", h.HandleUpdateProfile)
}

// HandleRegisterWorkshop provisions a workshop owner: the user, its
// workshop and a default MAGAZINE referral link in one transaction.
// Tokens are issued and the cookie set only after the commit.
func (h *AuthHandler) HandleRegisterWorkshop(c *fiber.Ctx) error {
	var req services.RegisterWorkshopRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFail(c, err)
	}

	user, workshop, link, err := h.registration.RegisterWorkshopOwner(req)
	if err != nil {
		return fail(c, "registration failed", err)
	}

	tokens, err := h.authService.IssueTokens(user)
	if err != nil {
		return fail(c, "registration succeeded but token issuance failed", err)
	}
	h.setAccessCookie(c, tokens.AccessToken)

	return success(c, fiber.StatusCreated, "workshop registered successfully", fiber.Map{
		"user":          user,
		"workshop":      workshop,
		"referral_link": link,
		"tokens":        tokens,
	})
}

// HandleRegisterUser provisions a referral-gated account (magazine
// owner, tailor or validator).
func (h *AuthHandler) HandleRegisterUser(c *fiber.Ctx) error {
	var req services.RegisterUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFail(c, err)
	}

	user, err := h.registration.RegisterWithReferral(req)
	if err != nil {
		return fail(c, "registration failed", err)
	}

	tokens, err := h.authService.IssueTokens(user)
	if err != nil {
		return fail(c, "registration succeeded but token issuance failed", err)
	}
	h.setAccessCookie(c, tokens.AccessToken)

	return success(c, fiber.StatusCreated, "user registered successfully", fiber.Map{
		"user":   user,
		"tokens": tokens,
	})
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin authenticates a user and issues a token pair.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFail(c, err)
	}

	user, tokens, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		return fail(c, "authentication failed", err)
	}
	h.setAccessCookie(c, tokens.AccessToken)

	return success(c, fiber.StatusOK, "login successful", fiber.Map{
		"user":   user,
		"tokens": tokens,
	})
}

// RefreshRequest is the request body for token refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// HandleRefresh rotates a refresh token into a new token pair.
func (h *AuthHandler) HandleRefresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFail(c, err)
	}

	_, tokens, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		return fail(c, "refresh failed", err)
	}
	h.setAccessCookie(c, tokens.AccessToken)

	return success(c, fiber.StatusOK, "token refreshed", fiber.Map{
		"tokens": tokens,
	})
}

// HandleLogout clears the session and the access cookie.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if err := h.authService.Logout(middleware.UserID(c)); err != nil {
		return fail(c, "logout failed", err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return success(c, fiber.StatusOK, "logged out", nil)
}

// HandleGetProfile returns the authenticated user's profile.
func (h *AuthHandler) HandleGetProfile(c *fiber.Ctx) error {
	user, err := h.authService.GetProfile(middleware.UserID(c))
	if err != nil {
		return fail(c, "could not load profile", err)
	}
	return success(c, fiber.StatusOK, "profile", h.profileView(user))
}

// HandleUpdateProfile edits the authenticated user's profile fields.
func (h *AuthHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req services.ProfileUpdate
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFail(c, err)
	}

	user, err := h.authService.UpdateProfile(middleware.UserID(c), req)
	if err != nil {
		return fail(c, "could not update profile", err)
	}
	return success(c, fiber.StatusOK, "profile updated", h.profileView(user))
}

func (h *AuthHandler) profileView(user *models.User) fiber.Map {
	return fiber.Map{
		"id":        user.ID,
		"username":  user.Username,
		"email":     user.Email,
		"full_name": user.FullName,
		"role":      user.Role,
	}
}

func (h *AuthHandler) setAccessCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    token,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
