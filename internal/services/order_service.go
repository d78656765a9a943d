package services

import (
	"context"
	"fmt"
	"log"

	"padoca/internal/caching"
	"padoca/internal/common"
	"padoca/internal/models"
	"padoca/internal/repositories"
)

// CreateOrderItemRequest is one requested line item; price is always resolved
// from the current catalog, never supplied by the caller.
type CreateOrderItemRequest struct {
	ProductID int64   `json:"product_id"`
	Quantity  float64 `json:"quantity"`
}

type CreateOrderRequest struct {
	ClientID int64                    `json:"client_id"`
	Items    []CreateOrderItemRequest `json:"items"`
}

// OrderService orchestrates the order lifecycle: creation with atomic item
// persistence and document generation, tenant-scoped reads, state-machine
// guarded status changes, re-ordering and soft-delete.
type OrderService interface {
	Create(ctx context.Context, tc common.TenantContext, req CreateOrderRequest) (*models.Order, error)
	List(ctx context.Context, tc common.TenantContext, filter models.OrderListFilter) (*models.OrderPage, error)
	Get(ctx context.Context, tc common.TenantContext, id int64) (*models.Order, error)
	UpdateStatus(ctx context.Context, tc common.TenantContext, id int64, requested models.OrderStatus) (*models.Order, error)
	Repeat(ctx context.Context, tc common.TenantContext, id int64) (*models.Order, error)
	Remove(ctx context.Context, tc common.TenantContext, id int64) error
}

type orderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	clientRepo  repositories.ClientRepository
	pdfService  PDFService
	notifier    Notifier
	cache       caching.CacheService
}

func NewOrderService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	clientRepo repositories.ClientRepository,
	pdfService PDFService,
	notifier Notifier,
	cache caching.CacheService,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		clientRepo:  clientRepo,
		pdfService:  pdfService,
		notifier:    notifier,
		cache:       cache,
	}
}

// Create validates the company and products, freezes item prices from the
// current catalog, and persists order, items and generated document in one
// transaction. A document failure fails the whole creation.
func (s *orderService) Create(ctx context.Context, tc common.TenantContext, req CreateOrderRequest) (*models.Order, error) {
	if tc.Restricted() && *tc.ClientID != req.ClientID {
		return nil, common.NewForbidden("cannot create orders for another company")
	}
	if len(req.Items) == 0 {
		return nil, common.NewBadRequest("order must have at least one item")
	}
	for _, item := range req.Items {
		if err := common.ValidatePositiveQuantity(item.Quantity, "quantity", 10000); err != nil {
			return nil, common.NewBadRequest("%s", err.Error())
		}
	}

	client, err := s.clientRepo.GetByID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, common.NewNotFound("client", req.ClientID)
	}

	productIDs := make([]int64, 0, len(req.Items))
	for _, item := range req.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ClientID: req.ClientID,
		Status:   models.StatusPendente,
	}
	var total float64
	for _, item := range req.Items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, common.NewNotFound("product", item.ProductID)
		}
		subtotal := common.RoundCents(item.Quantity * product.UnitPrice)
		order.Items = append(order.Items, &models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: product.UnitPrice,
			Subtotal:  subtotal,
		})
		total += subtotal
	}
	order.TotalValue = common.RoundCents(total)

	err = s.orderRepo.CreateWithItems(ctx, order, func(o *models.Order) error {
		path, url, pdfErr := s.pdfService.GenerateOrderPDF(ctx, o, client, products)
		if pdfErr != nil {
			return pdfErr
		}
		o.PDFPath = &path
		o.PDFURL = &url
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if cacheErr := s.cache.InvalidateClientOrders(ctx, order.ClientID); cacheErr != nil {
		log.Printf("failed to invalidate order cache for client %d: %v", order.ClientID, cacheErr)
	}
	return order, nil
}

// List returns a page of orders. Restricted callers are force-scoped to their
// own company; any client filter they send is overwritten, not merged.
func (s *orderService) List(ctx context.Context, tc common.TenantContext, filter models.OrderListFilter) (*models.OrderPage, error) {
	if tc.Restricted() {
		filter.ClientID = tc.ClientID
	}
	filter.Page, filter.Limit = common.ValidatePaginationParams(filter.Page, filter.Limit)

	orders, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := total / filter.Limit
	if total%filter.Limit != 0 {
		totalPages++
	}
	return &models.OrderPage{
		Orders:     orders,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// Get loads one order. A missing order is NotFound; an order belonging to a
// different company than a restricted caller's is Forbidden with a fixed
// message that does not reveal the owner.
func (s *orderService) Get(ctx context.Context, tc common.TenantContext, id int64) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, common.NewNotFound("order", id)
	}
	if tc.Restricted() && order.ClientID != *tc.ClientID {
		return nil, common.NewForbidden("%s", common.ErrAccessDenied)
	}
	return order, nil
}

// UpdateStatus runs the requested transition through the status rules and
// persists it. The status-changed event is fire-and-forget; a notification
// failure never fails the update.
func (s *orderService) UpdateStatus(ctx context.Context, tc common.TenantContext, id int64, requested models.OrderStatus) (*models.Order, error) {
	order, err := s.Get(ctx, tc, id)
	if err != nil {
		return nil, err
	}

	if err := DecideTransition(order.Status, requested, tc.Role()); err != nil {
		return nil, err
	}

	previous := order.Status
	if err := s.orderRepo.UpdateStatus(ctx, id, requested); err != nil {
		return nil, err
	}
	order.Status = requested

	event := StatusChangedEvent{
		OrderID:        order.ID,
		PreviousStatus: previous,
		NewStatus:      requested,
	}
	if client, clientErr := s.clientRepo.GetByID(ctx, order.ClientID); clientErr != nil || client == nil {
		log.Printf("skipping status notification for order %d: client %d unavailable: %v", order.ID, order.ClientID, clientErr)
	} else {
		event.RecipientEmail = client.Email
		event.RecipientName = client.Name
		s.notifier.EmitStatusChanged(ctx, event)
	}

	if cacheErr := s.cache.InvalidateClientOrders(ctx, order.ClientID); cacheErr != nil {
		log.Printf("failed to invalidate order cache for client %d: %v", order.ClientID, cacheErr)
	}
	return order, nil
}

// Repeat places a fresh order with the same products and quantities as an
// existing one. Prices are re-resolved from the current catalog; this is
// re-ordering, not re-billing.
func (s *orderService) Repeat(ctx context.Context, tc common.TenantContext, id int64) (*models.Order, error) {
	original, err := s.Get(ctx, tc, id)
	if err != nil {
		return nil, err
	}

	req := CreateOrderRequest{ClientID: original.ClientID}
	for _, item := range original.Items {
		req.Items = append(req.Items, CreateOrderItemRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return s.Create(ctx, tc, req)
}

// Remove soft-deletes the order and forces CANCELADO. This administrative
// override skips the transition rules on purpose, terminal states included.
func (s *orderService) Remove(ctx context.Context, tc common.TenantContext, id int64) error {
	order, err := s.Get(ctx, tc, id)
	if err != nil {
		return err
	}
	if err := s.orderRepo.SoftDelete(ctx, order.ID); err != nil {
		return err
	}
	if cacheErr := s.cache.InvalidateClientOrders(ctx, order.ClientID); cacheErr != nil {
		log.Printf("failed to invalidate order cache for client %d: %v", order.ClientID, cacheErr)
	}
	return nil
}
