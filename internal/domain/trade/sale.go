package trade

import (
	"fmt"
	"time"

	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/leathershop/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a sale was paid
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer:
		return true
	}
	return false
}

// SaleStatus represents the status of a counter sale
type SaleStatus string

const (
	SaleStatusOpen      SaleStatus = "OPEN" // Being rung up, never persisted
	SaleStatusCompleted SaleStatus = "COMPLETED"
	SaleStatusVoided    SaleStatus = "VOIDED"
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusOpen, SaleStatusCompleted, SaleStatusVoided:
		return true
	}
	return false
}

// SaleItem represents a line item in a counter sale
type SaleItem struct {
	ID          uuid.UUID       `gorm:"type:text;primaryKey"`
	SaleID      uuid.UUID       `gorm:"type:text;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:text;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	ProductCode string          `gorm:"type:varchar(50);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Quantity * UnitPrice
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// NewSaleItem creates a new sale item
func NewSaleItem(saleID, productID uuid.UUID, productName, productCode string, quantity decimal.Decimal, unitPrice valueobject.Money) (*SaleItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &SaleItem{
		ID:          uuid.New(),
		SaleID:      saleID,
		ProductID:   productID,
		ProductName: productName,
		ProductCode: productCode,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		Amount:      quantity.Mul(unitPrice.Amount()),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Sale represents a direct counter sale of finished goods. Unlike an
// Order there is no production step: the sale is rung up, completed,
// and stock leaves the shelf in one transaction. A completed sale can
// only be voided, never edited.
type Sale struct {
	shared.BaseAggregateRoot
	SaleNumber    string               `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID    *uuid.UUID           `gorm:"type:text;index"` // nil for walk-in customers
	CustomerName  string               `gorm:"type:varchar(200)"`
	SaleDate      time.Time            `gorm:"not null;index"`
	Items         []SaleItem           `gorm:"foreignKey:SaleID;references:ID"`
	TotalAmount   decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Currency      valueobject.Currency `gorm:"type:varchar(3);not null;default:'EUR'"`
	PaymentMethod PaymentMethod        `gorm:"type:varchar(20);not null"`
	Status        SaleStatus           `gorm:"type:varchar(20);not null;default:'OPEN'"`
	Notes         string               `gorm:"type:text"`
	VoidedAt      *time.Time
	VoidReason    string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale starts ringing up a counter sale.
// customerID is nil for anonymous walk-in sales.
func NewSale(saleNumber string, customerID *uuid.UUID, customerName string, paymentMethod PaymentMethod) (*Sale, error) {
	if saleNumber == "" {
		return nil, shared.NewDomainError("INVALID_SALE_NUMBER", "Sale number cannot be empty")
	}
	if len(saleNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_SALE_NUMBER", "Sale number cannot exceed 50 characters")
	}
	if !paymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method must be cash, card, or transfer")
	}
	if customerID != nil && *customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be the zero UUID")
	}

	return &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleNumber:        saleNumber,
		CustomerID:        customerID,
		CustomerName:      customerName,
		SaleDate:          time.Now(),
		Items:             make([]SaleItem, 0),
		TotalAmount:       decimal.Zero,
		Currency:          valueobject.DefaultCurrency,
		PaymentMethod:     paymentMethod,
		Status:            SaleStatusOpen,
	}, nil
}

// AddItem adds a product line to an open sale
func (s *Sale) AddItem(productID uuid.UUID, productName, productCode string, quantity decimal.Decimal, unitPrice valueobject.Money) (*SaleItem, error) {
	if s.Status != SaleStatusOpen {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a completed sale")
	}

	for _, item := range s.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in sale")
		}
	}

	// The first item fixes the sale currency, later items must match.
	if len(s.Items) == 0 {
		s.Currency = unitPrice.Currency()
	} else if unitPrice.Currency() != s.Currency {
		return nil, shared.NewDomainError("CURRENCY_MISMATCH", "All sale items must use the sale currency")
	}

	item, err := NewSaleItem(s.ID, productID, productName, productCode, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	s.Items = append(s.Items, *item)
	s.recalculateTotal()
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return item, nil
}

// RemoveItem removes a product line from an open sale
func (s *Sale) RemoveItem(itemID uuid.UUID) error {
	if s.Status != SaleStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a completed sale")
	}

	for idx, item := range s.Items {
		if item.ID == itemID {
			s.Items = append(s.Items[:idx], s.Items[idx+1:]...)
			s.recalculateTotal()
			s.UpdatedAt = time.Now()
			s.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Sale item not found")
}

// SetNotes sets the sale notes
func (s *Sale) SetNotes(notes string) {
	s.Notes = notes
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Complete finalizes the sale. Requires at least one item.
// Stock deduction happens in the same transaction as the save.
func (s *Sale) Complete() error {
	if s.Status != SaleStatusOpen {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete sale in %s status", s.Status))
	}
	if len(s.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot complete sale without items")
	}

	s.Status = SaleStatusCompleted
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Void reverses a completed sale. The caller returns the sold
// quantities to stock in the same transaction.
func (s *Sale) Void(reason string) error {
	if s.Status != SaleStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot void sale in %s status", s.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Void reason is required")
	}

	now := time.Now()
	s.Status = SaleStatusVoided
	s.VoidedAt = &now
	s.VoidReason = reason
	s.UpdatedAt = now
	s.IncrementVersion()

	return nil
}

// recalculateTotal recalculates the sale total
func (s *Sale) recalculateTotal() {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Amount)
	}
	s.TotalAmount = total
}

// ItemCount returns the number of items in the sale
func (s *Sale) ItemCount() int {
	return len(s.Items)
}

// IsWalkIn returns true when the sale has no customer on record
func (s *Sale) IsWalkIn() bool {
	return s.CustomerID == nil
}
