package models

import (
	"time"
)

// OrderStatus is the lifecycle status of an order. Values are stored as-is in
// the orders table.
type OrderStatus string

const (
	StatusRascunho   OrderStatus = "RASCUNHO"
	StatusPendente   OrderStatus = "PENDENTE"
	StatusConfirmado OrderStatus = "CONFIRMADO"
	StatusEmProducao OrderStatus = "EM_PRODUCAO"
	StatusPronto     OrderStatus = "PRONTO"
	StatusEntregue   OrderStatus = "ENTREGUE"
	StatusCancelado  OrderStatus = "CANCELADO"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusRascunho, StatusPendente, StatusConfirmado, StatusEmProducao,
		StatusPronto, StatusEntregue, StatusCancelado:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == StatusEntregue || s == StatusCancelado
}

type Order struct {
	ID         int64        `json:"id" db:"id"`
	ClientID   int64        `json:"client_id" db:"client_id"`
	Status     OrderStatus  `json:"status" db:"status"`
	TotalValue float64      `json:"total_value" db:"total_value"`
	PDFPath    *string      `json:"pdf_path" db:"pdf_path"`
	PDFURL     *string      `json:"pdf_url" db:"pdf_url"`
	Items      []*OrderItem `json:"items,omitempty" db:"-"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at" db:"updated_at"`
	DeletedAt  *time.Time   `json:"deleted_at,omitempty" db:"deleted_at"`
}

// OrderItem is a line item. Quantity may be fractional (weight-based products).
// UnitPrice is the product price frozen at order-creation time; later catalog
// price changes never affect existing orders.
type OrderItem struct {
	ID        int64     `json:"id" db:"id"`
	OrderID   int64     `json:"order_id" db:"order_id"`
	ProductID int64     `json:"product_id" db:"product_id"`
	Quantity  float64   `json:"quantity" db:"quantity"`
	UnitPrice float64   `json:"unit_price" db:"unit_price"`
	Subtotal  float64   `json:"subtotal" db:"subtotal"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// OrderListFilter holds filter criteria for order listing queries.
type OrderListFilter struct {
	ClientID    *int64       `json:"client_id,omitempty"`
	Status      *OrderStatus `json:"status,omitempty"`
	CreatedFrom *time.Time   `json:"created_from,omitempty"`
	CreatedTo   *time.Time   `json:"created_to,omitempty"`
	Page        int          `json:"page,omitempty"`
	Limit       int          `json:"limit,omitempty"`
}

// OrderPage is one page of orders plus pagination metadata.
type OrderPage struct {
	Orders     []*Order `json:"orders"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	TotalItems int      `json:"total_items"`
	TotalPages int      `json:"total_pages"`
}
