package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValuationLine is one stocked item in the inventory valuation
type ValuationLine struct {
	ItemType    string          `json:"item_type"`
	ItemID      uuid.UUID       `json:"item_id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	AvgUnitCost decimal.Decimal `json:"avg_unit_cost"`
	Value       decimal.Decimal `json:"value"`
}

// InventoryValuation values everything on hand at moving average cost
type InventoryValuation struct {
	Lines          []ValuationLine `json:"lines"`
	MaterialsValue decimal.Decimal `json:"materials_value"`
	ProductsValue  decimal.Decimal `json:"products_value"`
	TotalValue     decimal.Decimal `json:"total_value"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// LowStockLine is one item sitting below its minimum stock level
type LowStockLine struct {
	ItemType  string          `json:"item_type"`
	ItemID    uuid.UUID       `json:"item_id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	MinStock  decimal.Decimal `json:"min_stock"`
	OnHand    decimal.Decimal `json:"on_hand"`
	Shortfall decimal.Decimal `json:"shortfall"`
}

// LowStockReport lists materials and products below minimum
type LowStockReport struct {
	Lines       []LowStockLine `json:"lines"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// PaymentMethodTotal is revenue taken through one payment method
type PaymentMethodTotal struct {
	PaymentMethod string          `json:"payment_method"`
	SaleCount     int             `json:"sale_count"`
	Revenue       decimal.Decimal `json:"revenue"`
}

// ProductSales is aggregated counter sales of one product
type ProductSales struct {
	ProductID uuid.UUID       `json:"product_id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// SalesSummary aggregates completed counter sales over a period
type SalesSummary struct {
	From            time.Time            `json:"from"`
	To              time.Time            `json:"to"`
	SaleCount       int                  `json:"sale_count"`
	Revenue         decimal.Decimal      `json:"revenue"`
	ByPaymentMethod []PaymentMethodTotal `json:"by_payment_method"`
	TopProducts     []ProductSales       `json:"top_products"`
}

// SupplierSpend is aggregated purchasing from one supplier
type SupplierSpend struct {
	SupplierID    uuid.UUID       `json:"supplier_id"`
	SupplierName  string          `json:"supplier_name"`
	PurchaseCount int             `json:"purchase_count"`
	Spend         decimal.Decimal `json:"spend"`
}

// PurchaseSummary aggregates placed purchase orders over a period
type PurchaseSummary struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	PurchaseCount int             `json:"purchase_count"`
	TotalSpend    decimal.Decimal `json:"total_spend"`
	BySupplier    []SupplierSpend `json:"by_supplier"`
}

// CustomerRevenue is one customer's total business over a period
type CustomerRevenue struct {
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	OrderCount   int             `json:"order_count"`
	SaleCount    int             `json:"sale_count"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// CustomerRanking ranks customers by revenue from orders and sales
type CustomerRanking struct {
	From      time.Time         `json:"from"`
	To        time.Time         `json:"to"`
	Customers []CustomerRevenue `json:"customers"`
}

// ProjectProfitability compares a project's cost against the selling
// price of the product it produces
type ProjectProfitability struct {
	ProjectID     uuid.UUID       `json:"project_id"`
	ProjectCode   string          `json:"project_code"`
	ProjectName   string          `json:"project_name"`
	ProductID     *uuid.UUID      `json:"product_id,omitempty"`
	ProductName   string          `json:"product_name,omitempty"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	MaterialCost  decimal.Decimal `json:"material_cost"`
	LaborCost     decimal.Decimal `json:"labor_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	Margin        decimal.Decimal `json:"margin"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
}
