package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wildcloud/starter-api/internal/api/middleware"
	"github.com/wildcloud/starter-api/internal/core/domain"
	"github.com/wildcloud/starter-api/internal/core/ports"
	"github.com/wildcloud/starter-api/internal/i18n"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Name     string `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    registerData `json:"data"`
}

type registerData struct {
	User domain.UserSummary `json:"user"`
}

type loginResponse struct {
	Token string             `json:"token"`
	User  domain.UserSummary `json:"user"`
}

type meResponse struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewError(domain.CodeBadRequest, "malformed request, please send valid JSON")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Success: true,
		Message: i18n.T("auth.registerSuccess", domain.Language(user.Language)),
		Data:    registerData{User: user.Summary()},
	})
}

// Login authenticates a user, returns a signed token, and sets the session
// cookie the middleware pipeline reads.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewError(domain.CodeBadRequest, "malformed request, please send valid JSON")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(domain.SessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, loginResponse{Token: token, User: user.Summary()})
}

// Logout revokes the session and clears the cookie.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Failure      401  {object}  errorResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), userID); err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// Me echoes the identity resolved by the middleware pipeline.
//
// @Summary      Current session identity
// @Tags         auth
// @Produce      json
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	if identity, ok := c.Get("identity").(*ports.Identity); ok && identity != nil {
		return c.JSON(http.StatusOK, meResponse{UserID: identity.UserID, Email: identity.Email, Name: identity.Name})
	}

	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{UserID: userID})
}
