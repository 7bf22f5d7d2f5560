package trade

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/leathershop/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// =============================================================================
// Order DTOs
// =============================================================================

// CreateOrderRequest carries the input for creating a draft order
type CreateOrderRequest struct {
	CustomerID uuid.UUID  `json:"customer_id" validate:"required"`
	DueDate    *time.Time `json:"due_date"`
	Notes      string     `json:"notes"`
}

// OrderItemRequest carries one line for an order.
// ProductID is nil for bespoke work with no catalog product.
type OrderItemRequest struct {
	ProductID   *uuid.UUID      `json:"product_id"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// OrderListFilter represents filter options for order lists
type OrderListFilter struct {
	Search     string     `json:"search"`
	CustomerID string     `json:"customer_id" validate:"omitempty,uuid"`
	Status     string     `json:"status" validate:"omitempty,oneof=DRAFT CONFIRMED IN_PROGRESS READY DELIVERED CANCELLED"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	Page       int        `json:"page" validate:"omitempty,min=1"`
	PageSize   int        `json:"page_size" validate:"omitempty,min=1,max=500"`
	OrderBy    string     `json:"order_by"`
	OrderDir   string     `json:"order_dir" validate:"omitempty,oneof=asc desc"`
}

// OrderItemResponse represents one order line in service responses
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// OrderResponse represents a customer order in service responses
type OrderResponse struct {
	ID             uuid.UUID           `json:"id"`
	OrderNumber    string              `json:"order_number"`
	CustomerID     uuid.UUID           `json:"customer_id"`
	CustomerName   string              `json:"customer_name"`
	Items          []OrderItemResponse `json:"items"`
	TotalAmount    decimal.Decimal     `json:"total_amount"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	PayableAmount  decimal.Decimal     `json:"payable_amount"`
	Currency       string              `json:"currency"`
	Status         string              `json:"status"`
	DueDate        *time.Time          `json:"due_date,omitempty"`
	Notes          string              `json:"notes,omitempty"`
	ConfirmedAt    *time.Time          `json:"confirmed_at,omitempty"`
	DeliveredAt    *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt    *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason   string              `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	Version        int                 `json:"version"`
}

// FromOrder builds an OrderResponse from the domain object
func FromOrder(o *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}
	return OrderResponse{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		CustomerID:     o.CustomerID,
		CustomerName:   o.CustomerName,
		Items:          items,
		TotalAmount:    o.TotalAmount,
		DiscountAmount: o.DiscountAmount,
		PayableAmount:  o.PayableAmount,
		Currency:       string(o.Currency),
		Status:         string(o.Status),
		DueDate:        o.DueDate,
		Notes:          o.Notes,
		ConfirmedAt:    o.ConfirmedAt,
		DeliveredAt:    o.DeliveredAt,
		CancelledAt:    o.CancelledAt,
		CancelReason:   o.CancelReason,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
		Version:        o.Version,
	}
}

// FromOrders converts a slice of domain orders
func FromOrders(orders []trade.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = FromOrder(&orders[i])
	}
	return responses
}

// =============================================================================
// Sale DTOs
// =============================================================================

// SaleLineRequest carries one product line of a counter sale.
// A zero UnitPrice asks the service to use the catalog selling price.
type SaleLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// RecordSaleRequest rings up a complete counter sale. The sale and its
// stock deduction at LocationID commit in one transaction.
type RecordSaleRequest struct {
	CustomerID    *uuid.UUID        `json:"customer_id"` // nil for walk-in customers
	LocationID    uuid.UUID         `json:"location_id" validate:"required"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=cash card transfer"`
	Items         []SaleLineRequest `json:"items" validate:"required,min=1,dive"`
	Notes         string            `json:"notes"`
}

// SaleListFilter represents filter options for sale lists
type SaleListFilter struct {
	Search        string     `json:"search"`
	CustomerID    string     `json:"customer_id" validate:"omitempty,uuid"`
	Status        string     `json:"status" validate:"omitempty,oneof=COMPLETED VOIDED"`
	PaymentMethod string     `json:"payment_method" validate:"omitempty,oneof=cash card transfer"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	Page          int        `json:"page" validate:"omitempty,min=1"`
	PageSize      int        `json:"page_size" validate:"omitempty,min=1,max=500"`
	OrderBy       string     `json:"order_by"`
	OrderDir      string     `json:"order_dir" validate:"omitempty,oneof=asc desc"`
}

// SaleItemResponse represents one sale line in service responses
type SaleItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductCode string          `json:"product_code"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// SaleResponse represents a counter sale in service responses
type SaleResponse struct {
	ID            uuid.UUID          `json:"id"`
	SaleNumber    string             `json:"sale_number"`
	CustomerID    *uuid.UUID         `json:"customer_id,omitempty"`
	CustomerName  string             `json:"customer_name,omitempty"`
	SaleDate      time.Time          `json:"sale_date"`
	Items         []SaleItemResponse `json:"items"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	Currency      string             `json:"currency"`
	PaymentMethod string             `json:"payment_method"`
	Status        string             `json:"status"`
	Notes         string             `json:"notes,omitempty"`
	VoidedAt      *time.Time         `json:"voided_at,omitempty"`
	VoidReason    string             `json:"void_reason,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	Version       int                `json:"version"`
}

// FromSale builds a SaleResponse from the domain object
func FromSale(s *trade.Sale) SaleResponse {
	items := make([]SaleItemResponse, len(s.Items))
	for i, item := range s.Items {
		items[i] = SaleItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}
	return SaleResponse{
		ID:            s.ID,
		SaleNumber:    s.SaleNumber,
		CustomerID:    s.CustomerID,
		CustomerName:  s.CustomerName,
		SaleDate:      s.SaleDate,
		Items:         items,
		TotalAmount:   s.TotalAmount,
		Currency:      string(s.Currency),
		PaymentMethod: string(s.PaymentMethod),
		Status:        string(s.Status),
		Notes:         s.Notes,
		VoidedAt:      s.VoidedAt,
		VoidReason:    s.VoidReason,
		CreatedAt:     s.CreatedAt,
		Version:       s.Version,
	}
}

// FromSales converts a slice of domain sales
func FromSales(sales []trade.Sale) []SaleResponse {
	responses := make([]SaleResponse, len(sales))
	for i := range sales {
		responses[i] = FromSale(&sales[i])
	}
	return responses
}

// =============================================================================
// Purchase DTOs
// =============================================================================

// CreatePurchaseRequest carries the input for creating a draft purchase
type CreatePurchaseRequest struct {
	SupplierID   uuid.UUID  `json:"supplier_id" validate:"required"`
	ExpectedDate *time.Time `json:"expected_date"`
	Notes        string     `json:"notes"`
}

// PurchaseItemRequest carries one material line for a purchase.
// A zero UnitCost asks the service to use the material purchase price.
type PurchaseItemRequest struct {
	MaterialID uuid.UUID       `json:"material_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity" validate:"required"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
}

// ReceiveLineRequest reports one received line of a goods receipt.
// A zero UnitCost keeps the ordered unit cost.
type ReceiveLineRequest struct {
	MaterialID uuid.UUID       `json:"material_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity" validate:"required"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
}

// ReceivePurchaseRequest books a (partial) goods receipt into stock at
// the given location
type ReceivePurchaseRequest struct {
	LocationID uuid.UUID            `json:"location_id" validate:"required"`
	Lines      []ReceiveLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// PurchaseListFilter represents filter options for purchase lists
type PurchaseListFilter struct {
	Search     string     `json:"search"`
	SupplierID string     `json:"supplier_id" validate:"omitempty,uuid"`
	Status     string     `json:"status" validate:"omitempty,oneof=DRAFT ORDERED PARTIAL_RECEIVED RECEIVED CANCELLED"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	Page       int        `json:"page" validate:"omitempty,min=1"`
	PageSize   int        `json:"page_size" validate:"omitempty,min=1,max=500"`
	OrderBy    string     `json:"order_by"`
	OrderDir   string     `json:"order_dir" validate:"omitempty,oneof=asc desc"`
}

// PurchaseItemResponse represents one purchase line in service responses
type PurchaseItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	MaterialID       uuid.UUID       `json:"material_id"`
	MaterialName     string          `json:"material_name"`
	MaterialCode     string          `json:"material_code"`
	Unit             string          `json:"unit"`
	OrderedQuantity  decimal.Decimal `json:"ordered_quantity"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	Amount           decimal.Decimal `json:"amount"`
}

// PurchaseResponse represents a purchase order in service responses
type PurchaseResponse struct {
	ID             uuid.UUID              `json:"id"`
	PurchaseNumber string                 `json:"purchase_number"`
	SupplierID     uuid.UUID              `json:"supplier_id"`
	SupplierName   string                 `json:"supplier_name"`
	Items          []PurchaseItemResponse `json:"items"`
	TotalAmount    decimal.Decimal        `json:"total_amount"`
	Currency       string                 `json:"currency"`
	Status         string                 `json:"status"`
	ExpectedDate   *time.Time             `json:"expected_date,omitempty"`
	Notes          string                 `json:"notes,omitempty"`
	OrderedAt      *time.Time             `json:"ordered_at,omitempty"`
	ReceivedAt     *time.Time             `json:"received_at,omitempty"`
	CancelledAt    *time.Time             `json:"cancelled_at,omitempty"`
	CancelReason   string                 `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	Version        int                    `json:"version"`
}

// FromPurchase builds a PurchaseResponse from the domain object
func FromPurchase(p *trade.Purchase) PurchaseResponse {
	items := make([]PurchaseItemResponse, len(p.Items))
	for i, item := range p.Items {
		items[i] = PurchaseItemResponse{
			ID:               item.ID,
			MaterialID:       item.MaterialID,
			MaterialName:     item.MaterialName,
			MaterialCode:     item.MaterialCode,
			Unit:             item.Unit,
			OrderedQuantity:  item.OrderedQuantity,
			ReceivedQuantity: item.ReceivedQuantity,
			UnitCost:         item.UnitCost,
			Amount:           item.Amount,
		}
	}
	return PurchaseResponse{
		ID:             p.ID,
		PurchaseNumber: p.PurchaseNumber,
		SupplierID:     p.SupplierID,
		SupplierName:   p.SupplierName,
		Items:          items,
		TotalAmount:    p.TotalAmount,
		Currency:       string(p.Currency),
		Status:         string(p.Status),
		ExpectedDate:   p.ExpectedDate,
		Notes:          p.Notes,
		OrderedAt:      p.OrderedAt,
		ReceivedAt:     p.ReceivedAt,
		CancelledAt:    p.CancelledAt,
		CancelReason:   p.CancelReason,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Version:        p.Version,
	}
}

// FromPurchases converts a slice of domain purchases
func FromPurchases(purchases []trade.Purchase) []PurchaseResponse {
	responses := make([]PurchaseResponse, len(purchases))
	for i := range purchases {
		responses[i] = FromPurchase(&purchases[i])
	}
	return responses
}

// =============================================================================
// Shopping list DTOs
// =============================================================================

// CreateShoppingListRequest carries the input for creating a shopping list
type CreateShoppingListRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	Notes string `json:"notes"`
}

// ShoppingListItemRequest carries one material line for a shopping list
type ShoppingListItemRequest struct {
	MaterialID uuid.UUID       `json:"material_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity" validate:"required"`
	SupplierID *uuid.UUID      `json:"supplier_id"`
	Note       string          `json:"note" validate:"max=500"`
}

// ShoppingListFilter represents filter options for shopping list queries
type ShoppingListFilter struct {
	Search   string `json:"search"`
	Status   string `json:"status" validate:"omitempty,oneof=OPEN ORDERED DONE"`
	Page     int    `json:"page" validate:"omitempty,min=1"`
	PageSize int    `json:"page_size" validate:"omitempty,min=1,max=500"`
	OrderBy  string `json:"order_by"`
	OrderDir string `json:"order_dir" validate:"omitempty,oneof=asc desc"`
}

// ShoppingListItemResponse represents one shopping list line
type ShoppingListItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	MaterialID   uuid.UUID       `json:"material_id"`
	MaterialName string          `json:"material_name"`
	MaterialCode string          `json:"material_code"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	SupplierID   *uuid.UUID      `json:"supplier_id,omitempty"`
	Note         string          `json:"note,omitempty"`
}

// ShoppingListResponse represents a shopping list in service responses
type ShoppingListResponse struct {
	ID        uuid.UUID                  `json:"id"`
	Name      string                     `json:"name"`
	Items     []ShoppingListItemResponse `json:"items"`
	Status    string                     `json:"status"`
	Notes     string                     `json:"notes,omitempty"`
	OrderedAt *time.Time                 `json:"ordered_at,omitempty"`
	DoneAt    *time.Time                 `json:"done_at,omitempty"`
	CreatedAt time.Time                  `json:"created_at"`
	UpdatedAt time.Time                  `json:"updated_at"`
	Version   int                        `json:"version"`
}

// FromShoppingList builds a ShoppingListResponse from the domain object
func FromShoppingList(l *trade.ShoppingList) ShoppingListResponse {
	items := make([]ShoppingListItemResponse, len(l.Items))
	for i, item := range l.Items {
		items[i] = ShoppingListItemResponse{
			ID:           item.ID,
			MaterialID:   item.MaterialID,
			MaterialName: item.MaterialName,
			MaterialCode: item.MaterialCode,
			Unit:         item.Unit,
			Quantity:     item.Quantity,
			SupplierID:   item.SupplierID,
			Note:         item.Note,
		}
	}
	return ShoppingListResponse{
		ID:        l.ID,
		Name:      l.Name,
		Items:     items,
		Status:    string(l.Status),
		Notes:     l.Notes,
		OrderedAt: l.OrderedAt,
		DoneAt:    l.DoneAt,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
		Version:   l.Version,
	}
}

// FromShoppingLists converts a slice of domain shopping lists
func FromShoppingLists(lists []trade.ShoppingList) []ShoppingListResponse {
	responses := make([]ShoppingListResponse, len(lists))
	for i := range lists {
		responses[i] = FromShoppingList(&lists[i])
	}
	return responses
}
