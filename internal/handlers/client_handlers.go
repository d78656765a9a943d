package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"padoca/internal/common"
	"padoca/internal/models"
	"padoca/internal/services"
)

// ClientHandlers handles HTTP requests for client companies. Staff-only.
type ClientHandlers struct {
	clientService services.ClientService
}

func NewClientHandlers(clientService services.ClientService) *ClientHandlers {
	return &ClientHandlers{clientService: clientService}
}

func (h *ClientHandlers) RegisterRoutes(g *echo.Group) {
	g.POST("/clients", h.CreateClient)
	g.GET("/clients", h.ListClients)
	g.GET("/clients/:id", h.GetClient)
	g.PUT("/clients/:id", h.UpdateClient)
	g.DELETE("/clients/:id", h.DeleteClient)
}

type clientRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone"`
	Document *string `json:"document"`
}

func (h *ClientHandlers) CreateClient(c echo.Context) error {
	var req clientRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}

	client := &models.Client{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Document: req.Document,
	}
	if err := h.clientService.Create(c.Request().Context(), client); err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, client)
}

func (h *ClientHandlers) ListClients(c echo.Context) error {
	page := intQueryParam(c, "page", 1)
	limit := intQueryParam(c, "limit", 10)

	clients, err := h.clientService.List(c.Request().Context(), page, limit)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, clients)
}

func (h *ClientHandlers) GetClient(c echo.Context) error {
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	client, err := h.clientService.Get(c.Request().Context(), id)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, client)
}

func (h *ClientHandlers) UpdateClient(c echo.Context) error {
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req clientRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}

	client := &models.Client{
		ID:       id,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Document: req.Document,
	}
	if err := h.clientService.Update(c.Request().Context(), client); err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, client)
}

func (h *ClientHandlers) DeleteClient(c echo.Context) error {
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.clientService.Remove(c.Request().Context(), id); err != nil {
		return common.SendDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
