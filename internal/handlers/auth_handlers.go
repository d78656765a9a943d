package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"padoca/internal/common"
	"padoca/internal/models"
	"padoca/internal/services"
)

// AuthHandlers handles login, token refresh and the authenticated-user probe.
type AuthHandlers struct {
	authService services.AuthService
}

func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// RegisterPublicRoutes mounts routes that do not require a token.
func (h *AuthHandlers) RegisterPublicRoutes(e *echo.Echo) {
	e.POST("/auth/login", h.Login)
	e.POST("/auth/refresh", h.Refresh)
}

// RegisterRoutes mounts routes behind the JWT middleware.
func (h *AuthHandlers) RegisterRoutes(g *echo.Group) {
	g.GET("/auth/me", h.Me)
}

// RegisterStaffRoutes mounts staff-only routes.
func (h *AuthHandlers) RegisterStaffRoutes(g *echo.Group) {
	g.POST("/auth/register", h.Register)
}

func (h *AuthHandlers) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return common.SendValidationError(c, "credentials", "email and password are required")
	}

	tokens, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		// Wrong credentials come back as BadRequest from the service; at the
		// HTTP boundary they are a 401.
		if common.HTTPStatus(err) == http.StatusBadRequest {
			return common.SendUnauthorizedError(c)
		}
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"tokens": tokens,
		"user":   user,
	})
}

func (h *AuthHandlers) Refresh(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}
	if req.RefreshToken == "" {
		return common.SendValidationError(c, "refresh_token", "refresh_token is required")
	}

	tokens, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		if common.HTTPStatus(err) == http.StatusForbidden {
			return common.SendUnauthorizedError(c)
		}
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, tokens)
}

func (h *AuthHandlers) Register(c echo.Context) error {
	var req struct {
		Email    string          `json:"email"`
		Name     string          `json:"name"`
		Password string          `json:"password"`
		Role     models.RoleType `json:"role"`
		ClientID *int64          `json:"client_id"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}
	if err := common.ValidateRequiredString(req.Email, "email"); err != nil {
		return common.SendValidationError(c, "email", err.Error())
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return common.SendValidationError(c, "name", err.Error())
	}

	user := &models.User{
		Email:    req.Email,
		Name:     req.Name,
		Role:     req.Role,
		ClientID: req.ClientID,
	}
	if err := h.authService.Register(c.Request().Context(), user, req.Password); err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandlers) Me(c echo.Context) error {
	tc, ok := common.TenantFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.authService.GetUser(c.Request().Context(), tc.UserID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
