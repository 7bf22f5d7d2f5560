package bootstrap

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/leathershop/backend/internal/domain/catalog"
	"github.com/leathershop/backend/internal/domain/inventory"
	"github.com/leathershop/backend/internal/domain/partner"
	"github.com/leathershop/backend/internal/domain/trade"
	"github.com/leathershop/backend/internal/domain/workshop"
)

// tables lists every persisted model in dependency order: referenced
// tables first, item tables after their parent document.
func tables() []interface{} {
	return []interface{}{
		&partner.Customer{},
		&partner.Supplier{},
		&catalog.Material{},
		&catalog.Product{},
		&inventory.StorageLocation{},
		&inventory.StockItem{},
		&inventory.StockMovement{},
		&trade.Order{},
		&trade.OrderItem{},
		&trade.Sale{},
		&trade.SaleItem{},
		&trade.Purchase{},
		&trade.PurchaseItem{},
		&trade.ShoppingList{},
		&trade.ShoppingListItem{},
		&workshop.Project{},
		&workshop.ProjectComponent{},
		&workshop.ToolList{},
		&workshop.ToolListItem{},
		&workshop.PickingList{},
		&workshop.PickingListItem{},
	}
}

// Migrate creates missing tables and columns. Existing data is kept;
// GORM never drops columns on its own.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(tables()...); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}
	return nil
}

// Recreate drops every table in reverse dependency order and builds
// the schema again. All data is lost.
func Recreate(db *gorm.DB) error {
	ts := tables()
	for i := len(ts) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(ts[i]); err != nil {
			return fmt.Errorf("dropping table failed: %w", err)
		}
	}
	return Migrate(db)
}
