package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/leathershop/backend/internal/domain/catalog"
	"github.com/leathershop/backend/internal/domain/partner"
	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/leathershop/backend/internal/domain/shared/valueobject"
	"github.com/leathershop/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderService handles customer orders for made-to-order work
type OrderService struct {
	orderRepo    trade.OrderRepository
	customerRepo partner.CustomerRepository
	productRepo  catalog.ProductRepository
	money        valueobject.MoneyFactory
	logger       *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo trade.OrderRepository,
	customerRepo partner.CustomerRepository,
	productRepo catalog.ProductRepository,
	money valueobject.MoneyFactory,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		money:        money,
		logger:       logger,
	}
}

// Create creates a new draft order for a customer
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	customer, err := s.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	orderNumber, err := s.orderRepo.NextNumber(ctx)
	if err != nil {
		return nil, err
	}

	order, err := trade.NewOrder(orderNumber, customer.ID, customer.Name)
	if err != nil {
		return nil, err
	}
	if req.DueDate != nil {
		if err := order.SetDueDate(*req.DueDate); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		order.SetNotes(req.Notes)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		s.logger.Error("Failed to save order", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("customer_id", customer.ID.String()))

	response := FromOrder(order)
	return &response, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	response := FromOrder(order)
	return &response, nil
}

// GetByNumber retrieves an order by its order number
func (s *OrderService) GetByNumber(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	response := FromOrder(order)
	return &response, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	if err := validate.Struct(filter); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.CustomerID != "" {
		domainFilter.Filters["customer_id"] = filter.CustomerID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	page, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(FromOrders(page.Items), page.Total, page.Page, page.PageSize)
	return &result, nil
}

// ListByCustomer retrieves all orders for a customer
func (s *OrderService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]OrderResponse, error) {
	orders, err := s.orderRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	responses := make([]OrderResponse, len(orders))
	for i, o := range orders {
		responses[i] = FromOrder(o)
	}
	return responses, nil
}

// ListOpen retrieves orders that are neither delivered nor cancelled
func (s *OrderService) ListOpen(ctx context.Context) ([]OrderResponse, error) {
	orders, err := s.orderRepo.FindOpen(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]OrderResponse, len(orders))
	for i, o := range orders {
		responses[i] = FromOrder(o)
	}
	return responses, nil
}

// AddItem adds a line to a draft order. When the line references a
// catalog product, an empty description defaults to the product name
// and a zero unit price defaults to the catalog selling price.
func (s *OrderService) AddItem(ctx context.Context, orderID uuid.UUID, req OrderItemRequest) (*OrderResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	expectedVersion := order.Version

	description := req.Description
	unitPrice := req.UnitPrice
	if req.ProductID != nil {
		product, err := s.productRepo.FindByID(ctx, *req.ProductID)
		if err != nil {
			return nil, err
		}
		if description == "" {
			description = product.Name
		}
		if unitPrice.IsZero() {
			unitPrice = product.SellingPrice
		}
	}

	if _, err := order.AddItem(req.ProductID, description, req.Quantity, s.money.New(unitPrice)); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order, expectedVersion); err != nil {
		s.logger.Error("Failed to save order", zap.Error(err))
		return nil, err
	}

	response := FromOrder(order)
	return &response, nil
}

// UpdateItemQuantity changes the quantity of an order line
func (s *OrderService) UpdateItemQuantity(ctx context.Context, orderID, itemID uuid.UUID, quantity decimal.Decimal) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	expectedVersion := order.Version

	if err := order.UpdateItemQuantity(itemID, quantity); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order, expectedVersion); err != nil {
		s.logger.Error("Failed to save order", zap.Error(err))
		return nil, err
	}

	response := FromOrder(order)
	return &response, nil
}

// UpdateItemPrice changes the unit price of an order line
func (s *OrderService) UpdateItemPrice(ctx context.Context, orderID, itemID uuid.UUID, unitPrice decimal.Decimal) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	expectedVersion := order.Version

	if err := order.UpdateItemPrice(itemID, s.money.New(unitPrice)); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order, expectedVersion); err != nil {
		s.logger.Error("Failed to save order", zap.Error(err))
		return nil, err
	}

	response := FromOrder(order)
	return &response, nil
}

// RemoveItem removes a line from a draft order
func (s *OrderService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	expectedVersion := order.Version

	if err := order.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order, expectedVersion); err != nil {
		s.logger.Error("Failed to save order", zap.Error(err))
		return nil, err
	}

	response := FromOrder(order)
	return &response, nil
}

// ApplyDiscount applies an absolute discount to a draft order
func (s *OrderService) ApplyDiscount(ctx context.Context, orderID uuid.UUID, discount decimal.Decimal) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	expectedVersion := order.Version

	if err := order.ApplyDiscount(s.money.New(discount)); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order, expectedVersion); err != nil {
		s.logger.Error("Failed to save order", zap.Error(err))
		return nil, err
	}

	response := FromOrder(order)
	return &response, nil
}

// SetDueDate updates the promised completion date
func (s *OrderService) SetDueDate(ctx context.Context, orderID uuid.UUID, dueDate time.Time) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	expectedVersion := order.Version

	if err := order.SetDueDate(dueDate); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order, expectedVersion); err != nil {
		s.logger.Error("Failed to save order", zap.Error(err))
		return nil, err
	}

	response := FromOrder(order)
	return &response, nil
}

// SetNotes updates the free-form notes on an order
func (s *OrderService) SetNotes(ctx context.Context, orderID uuid.UUID, notes string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	expectedVersion := order.Version

	order.SetNotes(notes)

	if err := s.orderRepo.SaveWithLock(ctx, order, expectedVersion); err != nil {
		s.logger.Error("Failed to save order", zap.Error(err))
		return nil, err
	}

	response := FromOrder(order)
	return &response, nil
}

// Confirm confirms a draft order
func (s *OrderService) Confirm(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, "Order confirmed", func(o *trade.Order) error {
		return o.Confirm()
	})
}

// Start marks a confirmed order as in progress in the workshop
func (s *OrderService) Start(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, "Order started", func(o *trade.Order) error {
		return o.Start()
	})
}

// MarkReady marks an in-progress order as finished and awaiting pickup
func (s *OrderService) MarkReady(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, "Order ready", func(o *trade.Order) error {
		return o.MarkReady()
	})
}

// Deliver marks a ready order as handed over to the customer
func (s *OrderService) Deliver(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, "Order delivered", func(o *trade.Order) error {
		return o.Deliver()
	})
}

// Cancel cancels an order with a reason
func (s *OrderService) Cancel(ctx context.Context, orderID uuid.UUID, reason string) (*OrderResponse, error) {
	return s.transition(ctx, orderID, "Order cancelled", func(o *trade.Order) error {
		return o.Cancel(reason)
	})
}

// Delete removes a draft order entirely
func (s *OrderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	if order.Status != trade.OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft orders can be deleted")
	}

	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		s.logger.Error("Failed to delete order", zap.Error(err))
		return err
	}

	s.logger.Info("Order deleted",
		zap.String("order_id", orderID.String()),
		zap.String("order_number", order.OrderNumber))

	return nil
}

func (s *OrderService) transition(ctx context.Context, orderID uuid.UUID, logMsg string, fn func(*trade.Order) error) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	expectedVersion := order.Version

	if err := fn(order); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order, expectedVersion); err != nil {
		s.logger.Error("Failed to save order", zap.Error(err))
		return nil, err
	}

	s.logger.Info(logMsg,
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("status", string(order.Status)))

	response := FromOrder(order)
	return &response, nil
}
