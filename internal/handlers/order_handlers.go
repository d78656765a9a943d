package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"padoca/internal/common"
	"padoca/internal/models"
	"padoca/internal/services"
)

// OrderHandlers handles HTTP requests for orders
type OrderHandlers struct {
	orderService services.OrderService
}

func NewOrderHandlers(orderService services.OrderService) *OrderHandlers {
	return &OrderHandlers{orderService: orderService}
}

// RegisterRoutes mounts the order routes on an authenticated group.
func (h *OrderHandlers) RegisterRoutes(g *echo.Group) {
	g.POST("/orders", h.CreateOrder)
	g.GET("/orders", h.ListOrders)
	g.GET("/orders/:id", h.GetOrder)
	g.PATCH("/orders/:id/status", h.UpdateOrderStatus)
	g.POST("/orders/:id/repeat", h.RepeatOrder)
	g.DELETE("/orders/:id", h.DeleteOrder)
}

func tenantContext(c echo.Context) (common.TenantContext, error) {
	tc, ok := common.TenantFromContext(c.Request().Context())
	if !ok {
		return common.TenantContext{}, echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	}
	return tc, nil
}

func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	tc, err := tenantContext(c)
	if err != nil {
		return err
	}

	var req services.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}
	if req.ClientID <= 0 {
		return common.SendValidationError(c, "client_id", "client_id must be a positive integer")
	}

	order, err := h.orderService.Create(c.Request().Context(), tc, req)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandlers) ListOrders(c echo.Context) error {
	tc, err := tenantContext(c)
	if err != nil {
		return err
	}

	filter, err := parseOrderFilter(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	page, err := h.orderService.List(c.Request().Context(), tc, filter)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

func parseOrderFilter(c echo.Context) (models.OrderListFilter, error) {
	var filter models.OrderListFilter

	if clientIDStr := c.QueryParam("client_id"); clientIDStr != "" {
		clientID, err := common.ParseID(clientIDStr, "client_id")
		if err != nil {
			return filter, err
		}
		filter.ClientID = &clientID
	}
	if statusStr := c.QueryParam("status"); statusStr != "" {
		status := models.OrderStatus(statusStr)
		if !status.Valid() {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "unknown order status: "+statusStr)
		}
		filter.Status = &status
	}
	if fromStr := c.QueryParam("created_from"); fromStr != "" {
		from, err := common.ParseDate(fromStr, "created_from")
		if err != nil {
			return filter, err
		}
		filter.CreatedFrom = &from
	}
	if toStr := c.QueryParam("created_to"); toStr != "" {
		to, err := common.ParseDate(toStr, "created_to")
		if err != nil {
			return filter, err
		}
		filter.CreatedTo = &to
	}

	filter.Page = intQueryParam(c, "page", 1)
	filter.Limit = intQueryParam(c, "limit", 10)
	return filter, nil
}

func (h *OrderHandlers) GetOrder(c echo.Context) error {
	tc, err := tenantContext(c)
	if err != nil {
		return err
	}
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	order, err := h.orderService.Get(c.Request().Context(), tc, id)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandlers) UpdateOrderStatus(c echo.Context) error {
	tc, err := tenantContext(c)
	if err != nil {
		return err
	}
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}
	if req.Status == "" {
		return common.SendValidationError(c, "status", "status is required")
	}

	order, err := h.orderService.UpdateStatus(c.Request().Context(), tc, id, req.Status)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandlers) RepeatOrder(c echo.Context) error {
	tc, err := tenantContext(c)
	if err != nil {
		return err
	}
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	order, err := h.orderService.Repeat(c.Request().Context(), tc, id)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandlers) DeleteOrder(c echo.Context) error {
	tc, err := tenantContext(c)
	if err != nil {
		return err
	}
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.orderService.Remove(c.Request().Context(), tc, id); err != nil {
		return common.SendDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
