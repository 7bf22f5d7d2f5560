package trade

import (
	"fmt"
	"time"

	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/leathershop/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a customer order
type OrderStatus string

const (
	OrderStatusDraft      OrderStatus = "DRAFT"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS" // Being made in the workshop
	OrderStatusReady      OrderStatus = "READY"       // Finished, awaiting pickup or shipment
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusConfirmed, OrderStatusInProgress,
		OrderStatusReady, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusDraft:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusInProgress || target == OrderStatusCancelled
	case OrderStatusInProgress:
		return target == OrderStatusReady || target == OrderStatusCancelled
	case OrderStatusReady:
		return target == OrderStatusDelivered || target == OrderStatusCancelled
	case OrderStatusDelivered, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// OrderItem represents a line item in a customer order.
// ProductID is nil for bespoke work that has no catalog product.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:text;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:text;not null;index"`
	ProductID   *uuid.UUID      `gorm:"type:text;index"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Quantity * UnitPrice
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates a new order item.
// productID may be nil for custom one-off pieces.
func NewOrderItem(orderID uuid.UUID, productID *uuid.UUID, description string, quantity decimal.Decimal, unitPrice valueobject.Money) (*OrderItem, error) {
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Item description cannot be empty")
	}
	if len(description) > 500 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Item description cannot exceed 500 characters")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if productID != nil && *productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be the zero UUID")
	}

	now := time.Now()
	return &OrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		Amount:      quantity.Mul(unitPrice.Amount()),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateQuantity updates the item quantity and recalculates the amount
func (i *OrderItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	i.Quantity = quantity
	i.Amount = quantity.Mul(i.UnitPrice)
	i.UpdatedAt = time.Now()

	return nil
}

// UpdateUnitPrice updates the unit price and recalculates the amount
func (i *OrderItem) UpdateUnitPrice(unitPrice valueobject.Money) error {
	if unitPrice.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	i.UnitPrice = unitPrice.Amount()
	i.Amount = i.Quantity.Mul(i.UnitPrice)
	i.UpdatedAt = time.Now()

	return nil
}

// Order represents a customer order for made-to-order work.
// It is the aggregate root managing the order lifecycle from draft
// through workshop production to delivery.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber    string               `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID     uuid.UUID            `gorm:"type:text;not null;index"`
	CustomerName   string               `gorm:"type:varchar(200);not null"`
	Items          []OrderItem          `gorm:"foreignKey:OrderID;references:ID"`
	TotalAmount    decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"` // Sum of all items
	DiscountAmount decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	PayableAmount  decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"` // TotalAmount - DiscountAmount
	Currency       valueobject.Currency `gorm:"type:varchar(3);not null;default:'EUR'"`
	Status         OrderStatus          `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	DueDate        *time.Time           `gorm:"index"`
	Notes          string               `gorm:"type:text"`
	ConfirmedAt    *time.Time
	DeliveredAt    *time.Time
	CancelledAt    *time.Time
	CancelReason   string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new draft order for a customer
func NewOrder(orderNumber string, customerID uuid.UUID, customerName string) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerID:        customerID,
		CustomerName:      customerName,
		Items:             make([]OrderItem, 0),
		TotalAmount:       decimal.Zero,
		DiscountAmount:    decimal.Zero,
		PayableAmount:     decimal.Zero,
		Currency:          valueobject.DefaultCurrency,
		Status:            OrderStatusDraft,
	}, nil
}

// AddItem adds a new item to the order
// Only allowed in DRAFT status
func (o *Order) AddItem(productID *uuid.UUID, description string, quantity decimal.Decimal, unitPrice valueobject.Money) (*OrderItem, error) {
	if o.Status != OrderStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft order")
	}

	// A catalog product may appear only once; bespoke lines are free-form
	if productID != nil {
		for _, item := range o.Items {
			if item.ProductID != nil && *item.ProductID == *productID {
				return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in order, update quantity instead")
			}
		}
	}

	// The first item fixes the order currency, later lines must match.
	if len(o.Items) == 0 {
		o.Currency = unitPrice.Currency()
	} else if unitPrice.Currency() != o.Currency {
		return nil, shared.NewDomainError("CURRENCY_MISMATCH", "All order items must use the order currency")
	}

	item, err := NewOrderItem(o.ID, productID, description, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return item, nil
}

// UpdateItemQuantity updates the quantity of an existing item
// Only allowed in DRAFT status
func (o *Order) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items in a non-draft order")
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			if err := o.Items[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// UpdateItemPrice updates the unit price of an existing item
// Only allowed in DRAFT status
func (o *Order) UpdateItemPrice(itemID uuid.UUID, unitPrice valueobject.Money) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items in a non-draft order")
	}

	if unitPrice.Currency() != o.Currency {
		return shared.NewDomainError("CURRENCY_MISMATCH", "All order items must use the order currency")
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			if err := o.Items[idx].UpdateUnitPrice(unitPrice); err != nil {
				return err
			}
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// RemoveItem removes an item from the order
// Only allowed in DRAFT status
func (o *Order) RemoveItem(itemID uuid.UUID) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-draft order")
	}

	for idx, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// ApplyDiscount applies an order-level discount
// Only allowed in DRAFT status
func (o *Order) ApplyDiscount(discount valueobject.Money) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot apply discount to a non-draft order")
	}
	if discount.Currency() != o.Currency {
		return shared.NewDomainError("CURRENCY_MISMATCH", "Discount must use the order currency")
	}
	if discount.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if discount.Amount().GreaterThan(o.TotalAmount) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed total amount")
	}

	o.DiscountAmount = discount.Amount()
	o.PayableAmount = o.TotalAmount.Sub(o.DiscountAmount)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// SetDueDate sets the promised completion date
// Only allowed before production starts
func (o *Order) SetDueDate(due time.Time) error {
	if o.Status != OrderStatusDraft && o.Status != OrderStatusConfirmed {
		return shared.NewDomainError("INVALID_STATE", "Cannot change due date once production has started")
	}

	o.DueDate = &due
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// SetNotes sets the order notes
func (o *Order) SetNotes(notes string) {
	o.Notes = notes
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// Confirm confirms the order, transitioning from DRAFT to CONFIRMED
// Requires at least one item in the order
func (o *Order) Confirm() error {
	if !o.Status.CanTransitionTo(OrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm order in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.ErrEmptyOrder
	}
	if o.PayableAmount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Order payable amount must be positive")
	}

	now := time.Now()
	o.Status = OrderStatusConfirmed
	o.ConfirmedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// Start marks the order as being worked on in the workshop
func (o *Order) Start() error {
	if !o.Status.CanTransitionTo(OrderStatusInProgress) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start order in %s status", o.Status))
	}

	o.Status = OrderStatusInProgress
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// MarkReady marks the order as finished and awaiting handover
func (o *Order) MarkReady() error {
	if !o.Status.CanTransitionTo(OrderStatusReady) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark order ready in %s status", o.Status))
	}

	o.Status = OrderStatusReady
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Deliver marks the order as handed over to the customer
func (o *Order) Deliver() error {
	if !o.Status.CanTransitionTo(OrderStatusDelivered) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot deliver order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusDelivered
	o.DeliveredAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// Cancel cancels the order
// Allowed from any non-terminal status
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// recalculateTotals recalculates the order totals
func (o *Order) recalculateTotals() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount)
	}
	o.TotalAmount = total
	o.PayableAmount = o.TotalAmount.Sub(o.DiscountAmount)

	// Clamp when items were removed after a discount was set
	if o.PayableAmount.IsNegative() {
		o.DiscountAmount = o.TotalAmount
		o.PayableAmount = decimal.Zero
	}
}

// ItemCount returns the number of items in the order
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// IsOverdue reports whether the due date has passed without delivery
func (o *Order) IsOverdue(now time.Time) bool {
	if o.DueDate == nil {
		return false
	}
	switch o.Status {
	case OrderStatusDelivered, OrderStatusCancelled:
		return false
	}
	return now.After(*o.DueDate)
}
