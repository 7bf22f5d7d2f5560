package report

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/leathershop/backend/internal/domain/catalog"
	"github.com/leathershop/backend/internal/domain/inventory"
	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/leathershop/backend/internal/domain/trade"
	"github.com/leathershop/backend/internal/domain/workshop"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// topProductLimit caps the best-seller list in the sales summary
const topProductLimit = 10

// catalogPageSize is the page size used when walking the full catalog
const catalogPageSize = 500

// ReportService answers the read-only business questions: what is the
// inventory worth, what is running low, how did sales and purchasing
// go, who are the best customers, and does a project pay for itself.
// Decimals are stored as text in SQLite, so aggregation happens here
// rather than in SQL.
type ReportService struct {
	stockRepo    inventory.StockItemRepository
	materialRepo catalog.MaterialRepository
	productRepo  catalog.ProductRepository
	saleRepo     trade.SaleRepository
	orderRepo    trade.OrderRepository
	purchaseRepo trade.PurchaseRepository
	projectRepo  workshop.ProjectRepository
	logger       *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	stockRepo inventory.StockItemRepository,
	materialRepo catalog.MaterialRepository,
	productRepo catalog.ProductRepository,
	saleRepo trade.SaleRepository,
	orderRepo trade.OrderRepository,
	purchaseRepo trade.PurchaseRepository,
	projectRepo workshop.ProjectRepository,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		stockRepo:    stockRepo,
		materialRepo: materialRepo,
		productRepo:  productRepo,
		saleRepo:     saleRepo,
		orderRepo:    orderRepo,
		purchaseRepo: purchaseRepo,
		projectRepo:  projectRepo,
		logger:       logger,
	}
}

// stockTotals is on-hand quantity and value per item, summed over locations
type stockTotals struct {
	quantity decimal.Decimal
	value    decimal.Decimal
}

// InventoryValuation values every stocked material and product at its
// moving average cost
func (s *ReportService) InventoryValuation(ctx context.Context) (*InventoryValuation, error) {
	materialTotals, err := s.totalsByItem(ctx, inventory.ItemTypeMaterial)
	if err != nil {
		return nil, err
	}
	productTotals, err := s.totalsByItem(ctx, inventory.ItemTypeProduct)
	if err != nil {
		return nil, err
	}

	report := &InventoryValuation{
		Lines:          make([]ValuationLine, 0, len(materialTotals)+len(productTotals)),
		MaterialsValue: decimal.Zero,
		ProductsValue:  decimal.Zero,
		GeneratedAt:    time.Now(),
	}

	materials, err := s.materialRepo.FindByIDs(ctx, itemIDs(materialTotals))
	if err != nil {
		return nil, err
	}
	for i := range materials {
		m := &materials[i]
		totals := materialTotals[m.ID]
		report.Lines = append(report.Lines, valuationLine(string(inventory.ItemTypeMaterial), m.ID, m.Code, m.Name, m.Unit, totals))
		report.MaterialsValue = report.MaterialsValue.Add(totals.value)
	}

	products, err := s.productRepo.FindByIDs(ctx, itemIDs(productTotals))
	if err != nil {
		return nil, err
	}
	for i := range products {
		p := &products[i]
		totals := productTotals[p.ID]
		report.Lines = append(report.Lines, valuationLine(string(inventory.ItemTypeProduct), p.ID, p.Code, p.Name, p.Unit, totals))
		report.ProductsValue = report.ProductsValue.Add(totals.value)
	}

	sort.Slice(report.Lines, func(i, j int) bool {
		if report.Lines[i].ItemType != report.Lines[j].ItemType {
			return report.Lines[i].ItemType < report.Lines[j].ItemType
		}
		return report.Lines[i].Code < report.Lines[j].Code
	})

	report.TotalValue = report.MaterialsValue.Add(report.ProductsValue)
	return report, nil
}

// LowStock lists active materials and products whose on-hand quantity
// is below their minimum stock level
func (s *ReportService) LowStock(ctx context.Context) (*LowStockReport, error) {
	materialTotals, err := s.totalsByItem(ctx, inventory.ItemTypeMaterial)
	if err != nil {
		return nil, err
	}
	productTotals, err := s.totalsByItem(ctx, inventory.ItemTypeProduct)
	if err != nil {
		return nil, err
	}

	report := &LowStockReport{
		Lines:       []LowStockLine{},
		GeneratedAt: time.Now(),
	}

	filter := shared.DefaultFilter()
	filter.PageSize = catalogPageSize
	for {
		materials, err := s.materialRepo.FindActive(ctx, filter)
		if err != nil {
			return nil, err
		}
		for i := range materials {
			m := &materials[i]
			onHand := materialTotals[m.ID].quantity
			if m.MinStock.GreaterThan(decimal.Zero) && onHand.LessThan(m.MinStock) {
				report.Lines = append(report.Lines, LowStockLine{
					ItemType:  string(inventory.ItemTypeMaterial),
					ItemID:    m.ID,
					Code:      m.Code,
					Name:      m.Name,
					Unit:      m.Unit,
					MinStock:  m.MinStock,
					OnHand:    onHand,
					Shortfall: m.MinStock.Sub(onHand),
				})
			}
		}
		if len(materials) < filter.PageSize {
			break
		}
		filter.Page++
	}

	filter = shared.DefaultFilter()
	filter.PageSize = catalogPageSize
	for {
		products, err := s.productRepo.FindActive(ctx, filter)
		if err != nil {
			return nil, err
		}
		for i := range products {
			p := &products[i]
			onHand := productTotals[p.ID].quantity
			if p.MinStock.GreaterThan(decimal.Zero) && onHand.LessThan(p.MinStock) {
				report.Lines = append(report.Lines, LowStockLine{
					ItemType:  string(inventory.ItemTypeProduct),
					ItemID:    p.ID,
					Code:      p.Code,
					Name:      p.Name,
					Unit:      p.Unit,
					MinStock:  p.MinStock,
					OnHand:    onHand,
					Shortfall: p.MinStock.Sub(onHand),
				})
			}
		}
		if len(products) < filter.PageSize {
			break
		}
		filter.Page++
	}

	return report, nil
}

// SalesSummary aggregates completed counter sales in [from, to).
// Voided sales are excluded.
func (s *ReportService) SalesSummary(ctx context.Context, from, to time.Time) (*SalesSummary, error) {
	if err := validatePeriod(from, to); err != nil {
		return nil, err
	}

	sales, err := s.saleRepo.FindByPeriod(ctx, from, to)
	if err != nil {
		return nil, err
	}

	summary := &SalesSummary{
		From:    from,
		To:      to,
		Revenue: decimal.Zero,
	}

	byMethod := make(map[trade.PaymentMethod]*PaymentMethodTotal)
	byProduct := make(map[uuid.UUID]*ProductSales)
	for _, sale := range sales {
		if sale.Status != trade.SaleStatusCompleted {
			continue
		}
		summary.SaleCount++
		summary.Revenue = summary.Revenue.Add(sale.TotalAmount)

		method, ok := byMethod[sale.PaymentMethod]
		if !ok {
			method = &PaymentMethodTotal{PaymentMethod: string(sale.PaymentMethod), Revenue: decimal.Zero}
			byMethod[sale.PaymentMethod] = method
		}
		method.SaleCount++
		method.Revenue = method.Revenue.Add(sale.TotalAmount)

		for i := range sale.Items {
			item := &sale.Items[i]
			product, ok := byProduct[item.ProductID]
			if !ok {
				product = &ProductSales{
					ProductID: item.ProductID,
					Code:      item.ProductCode,
					Name:      item.ProductName,
					Quantity:  decimal.Zero,
					Revenue:   decimal.Zero,
				}
				byProduct[item.ProductID] = product
			}
			product.Quantity = product.Quantity.Add(item.Quantity)
			product.Revenue = product.Revenue.Add(item.Amount)
		}
	}

	summary.ByPaymentMethod = make([]PaymentMethodTotal, 0, len(byMethod))
	for _, method := range byMethod {
		summary.ByPaymentMethod = append(summary.ByPaymentMethod, *method)
	}
	sort.Slice(summary.ByPaymentMethod, func(i, j int) bool {
		return summary.ByPaymentMethod[i].PaymentMethod < summary.ByPaymentMethod[j].PaymentMethod
	})

	summary.TopProducts = make([]ProductSales, 0, len(byProduct))
	for _, product := range byProduct {
		summary.TopProducts = append(summary.TopProducts, *product)
	}
	sort.Slice(summary.TopProducts, func(i, j int) bool {
		if !summary.TopProducts[i].Revenue.Equal(summary.TopProducts[j].Revenue) {
			return summary.TopProducts[i].Revenue.GreaterThan(summary.TopProducts[j].Revenue)
		}
		return summary.TopProducts[i].Code < summary.TopProducts[j].Code
	})
	if len(summary.TopProducts) > topProductLimit {
		summary.TopProducts = summary.TopProducts[:topProductLimit]
	}

	return summary, nil
}

// PurchaseSummary aggregates purchasing in [from, to) per supplier.
// Draft and cancelled purchase orders are excluded.
func (s *ReportService) PurchaseSummary(ctx context.Context, from, to time.Time) (*PurchaseSummary, error) {
	if err := validatePeriod(from, to); err != nil {
		return nil, err
	}

	summary := &PurchaseSummary{
		From:       from,
		To:         to,
		TotalSpend: decimal.Zero,
	}

	bySupplier := make(map[uuid.UUID]*SupplierSpend)

	filter := shared.DefaultFilter()
	filter.PageSize = catalogPageSize
	filter.Filters["start_date"] = from
	filter.Filters["end_date"] = to
	for {
		page, err := s.purchaseRepo.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		for i := range page.Items {
			purchase := &page.Items[i]
			if purchase.Status == trade.PurchaseStatusDraft || purchase.Status == trade.PurchaseStatusCancelled {
				continue
			}
			summary.PurchaseCount++
			summary.TotalSpend = summary.TotalSpend.Add(purchase.TotalAmount)

			supplier, ok := bySupplier[purchase.SupplierID]
			if !ok {
				supplier = &SupplierSpend{
					SupplierID:   purchase.SupplierID,
					SupplierName: purchase.SupplierName,
					Spend:        decimal.Zero,
				}
				bySupplier[purchase.SupplierID] = supplier
			}
			supplier.PurchaseCount++
			supplier.Spend = supplier.Spend.Add(purchase.TotalAmount)
		}
		if len(page.Items) < filter.PageSize {
			break
		}
		filter.Page++
	}

	summary.BySupplier = make([]SupplierSpend, 0, len(bySupplier))
	for _, supplier := range bySupplier {
		summary.BySupplier = append(summary.BySupplier, *supplier)
	}
	sort.Slice(summary.BySupplier, func(i, j int) bool {
		if !summary.BySupplier[i].Spend.Equal(summary.BySupplier[j].Spend) {
			return summary.BySupplier[i].Spend.GreaterThan(summary.BySupplier[j].Spend)
		}
		return summary.BySupplier[i].SupplierName < summary.BySupplier[j].SupplierName
	})

	return summary, nil
}

// CustomerRanking ranks customers by total revenue in [from, to),
// combining confirmed-or-later orders with completed counter sales.
// Anonymous walk-in sales are not attributable and are left out.
func (s *ReportService) CustomerRanking(ctx context.Context, from, to time.Time) (*CustomerRanking, error) {
	if err := validatePeriod(from, to); err != nil {
		return nil, err
	}

	ranking := &CustomerRanking{From: from, To: to}
	byCustomer := make(map[uuid.UUID]*CustomerRevenue)

	filter := shared.DefaultFilter()
	filter.PageSize = catalogPageSize
	filter.Filters["start_date"] = from
	filter.Filters["end_date"] = to
	for {
		page, err := s.orderRepo.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		for i := range page.Items {
			order := &page.Items[i]
			if order.Status == trade.OrderStatusDraft || order.Status == trade.OrderStatusCancelled {
				continue
			}
			entry := customerEntry(byCustomer, order.CustomerID, order.CustomerName)
			entry.OrderCount++
			entry.Revenue = entry.Revenue.Add(order.PayableAmount)
		}
		if len(page.Items) < filter.PageSize {
			break
		}
		filter.Page++
	}

	sales, err := s.saleRepo.FindByPeriod(ctx, from, to)
	if err != nil {
		return nil, err
	}
	for _, sale := range sales {
		if sale.Status != trade.SaleStatusCompleted || sale.CustomerID == nil {
			continue
		}
		entry := customerEntry(byCustomer, *sale.CustomerID, sale.CustomerName)
		entry.SaleCount++
		entry.Revenue = entry.Revenue.Add(sale.TotalAmount)
	}

	ranking.Customers = make([]CustomerRevenue, 0, len(byCustomer))
	for _, entry := range byCustomer {
		ranking.Customers = append(ranking.Customers, *entry)
	}
	sort.Slice(ranking.Customers, func(i, j int) bool {
		if !ranking.Customers[i].Revenue.Equal(ranking.Customers[j].Revenue) {
			return ranking.Customers[i].Revenue.GreaterThan(ranking.Customers[j].Revenue)
		}
		return ranking.Customers[i].CustomerName < ranking.Customers[j].CustomerName
	})

	return ranking, nil
}

// ProjectProfitability compares a project's material and labor cost
// against the selling price of the product it produces. A project
// without a linked product reports costs only.
func (s *ReportService) ProjectProfitability(ctx context.Context, projectID uuid.UUID) (*ProjectProfitability, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	report := &ProjectProfitability{
		ProjectID:    project.ID,
		ProjectCode:  project.Code,
		ProjectName:  project.Name,
		ProductID:    project.ProductID,
		SellingPrice: decimal.Zero,
		MaterialCost: project.MaterialCost(),
		LaborCost:    project.LaborCost(),
		TotalCost:    project.TotalCost(),
	}

	if project.ProductID != nil {
		product, err := s.productRepo.FindByID(ctx, *project.ProductID)
		if err != nil {
			return nil, err
		}
		report.ProductName = product.Name
		report.SellingPrice = product.SellingPrice
	}

	report.Margin = report.SellingPrice.Sub(report.TotalCost)
	if report.SellingPrice.GreaterThan(decimal.Zero) {
		report.MarginPercent = report.Margin.Div(report.SellingPrice).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return report, nil
}

// totalsByItem sums on-hand quantity and value per item over all locations
func (s *ReportService) totalsByItem(ctx context.Context, itemType inventory.ItemType) (map[uuid.UUID]stockTotals, error) {
	rows, err := s.stockRepo.FindWithStock(ctx, itemType)
	if err != nil {
		return nil, err
	}

	totals := make(map[uuid.UUID]stockTotals, len(rows))
	for i := range rows {
		row := &rows[i]
		t := totals[row.ItemID]
		t.quantity = t.quantity.Add(row.Quantity)
		t.value = t.value.Add(row.Quantity.Mul(row.AvgUnitCost))
		totals[row.ItemID] = t
	}
	return totals, nil
}

func valuationLine(itemType string, itemID uuid.UUID, code, name, unit string, totals stockTotals) ValuationLine {
	line := ValuationLine{
		ItemType: itemType,
		ItemID:   itemID,
		Code:     code,
		Name:     name,
		Unit:     unit,
		Quantity: totals.quantity,
		Value:    totals.value,
	}
	if totals.quantity.GreaterThan(decimal.Zero) {
		line.AvgUnitCost = totals.value.DivRound(totals.quantity, 4)
	}
	return line
}

func itemIDs(totals map[uuid.UUID]stockTotals) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

func customerEntry(byCustomer map[uuid.UUID]*CustomerRevenue, customerID uuid.UUID, customerName string) *CustomerRevenue {
	entry, ok := byCustomer[customerID]
	if !ok {
		entry = &CustomerRevenue{
			CustomerID:   customerID,
			CustomerName: customerName,
			Revenue:      decimal.Zero,
		}
		byCustomer[customerID] = entry
	}
	return entry
}

func validatePeriod(from, to time.Time) error {
	if !to.After(from) {
		return shared.NewDomainError("INVALID_PERIOD", "Period end must be after its start")
	}
	return nil
}
