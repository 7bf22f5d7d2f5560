package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"code":        true,
	"name":        true,
	"status":      true,
	"phone":       true,
	"email":       true,
	"city":        true,
	"country":     true,
	"postal_code": true,
}

// SupplierSortFields contains allowed sort fields for suppliers
var SupplierSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"code":            true,
	"name":            true,
	"status":          true,
	"contact_name":    true,
	"phone":           true,
	"email":           true,
	"city":            true,
	"country":         true,
	"payment_days":    true,
	"min_order_value": true,
}

// MaterialSortFields contains allowed sort fields for materials
var MaterialSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"code":           true,
	"name":           true,
	"type":           true,
	"unit":           true,
	"purchase_price": true,
	"min_stock":      true,
	"status":         true,
	"color":          true,
	"thickness_mm":   true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"code":          true,
	"name":          true,
	"sku":           true,
	"unit":          true,
	"selling_price": true,
	"material_cost": true,
	"min_stock":     true,
	"status":        true,
}

// StorageLocationSortFields contains allowed sort fields for storage locations
var StorageLocationSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"kind":       true,
	"status":     true,
}

// StockItemSortFields contains allowed sort fields for stock items
var StockItemSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"item_type":         true,
	"item_id":           true,
	"location_id":       true,
	"unit":              true,
	"quantity":          true,
	"reserved_quantity": true,
	"avg_unit_cost":     true,
}

// StockMovementSortFields contains allowed sort fields for stock movements
var StockMovementSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"type":        true,
	"item_type":   true,
	"item_id":     true,
	"location_id": true,
	"quantity":    true,
	"unit_cost":   true,
	"reference":   true,
}

// OrderSortFields contains allowed sort fields for customer orders
var OrderSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"order_number":    true,
	"customer_id":     true,
	"customer_name":   true,
	"status":          true,
	"total_amount":    true,
	"discount_amount": true,
	"payable_amount":  true,
	"due_date":        true,
	"confirmed_at":    true,
	"delivered_at":    true,
}

// SaleSortFields contains allowed sort fields for counter sales
var SaleSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"sale_number":    true,
	"customer_id":    true,
	"customer_name":  true,
	"sale_date":      true,
	"total_amount":   true,
	"payment_method": true,
	"status":         true,
}

// PurchaseSortFields contains allowed sort fields for purchases
var PurchaseSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"purchase_number": true,
	"supplier_id":     true,
	"supplier_name":   true,
	"status":          true,
	"total_amount":    true,
	"expected_date":   true,
	"ordered_at":      true,
	"received_at":     true,
}

// ShoppingListSortFields contains allowed sort fields for shopping lists
var ShoppingListSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"status":     true,
	"ordered_at": true,
	"done_at":    true,
}

// ProjectSortFields contains allowed sort fields for projects
var ProjectSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"code":         true,
	"name":         true,
	"status":       true,
	"labor_hours":  true,
	"started_at":   true,
	"completed_at": true,
}

// PickingListSortFields contains allowed sort fields for picking lists
var PickingListSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"pick_number":  true,
	"project_id":   true,
	"project_name": true,
	"status":       true,
	"picked_at":    true,
}
