package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/leathershop/backend/internal/domain/catalog"
	"github.com/leathershop/backend/internal/domain/inventory"
	"github.com/leathershop/backend/internal/domain/partner"
	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/leathershop/backend/internal/domain/shared/valueobject"
	"github.com/leathershop/backend/internal/domain/trade"
	"github.com/leathershop/backend/internal/domain/workshop"
	"github.com/leathershop/backend/internal/infrastructure/logger"
	"github.com/leathershop/backend/internal/infrastructure/persistence"
)

// Seed loads a small demo dataset for a fresh shop. It is idempotent:
// when any customer exists the call logs and returns without writing.
// Everything goes through the domain constructors and repositories in
// one transaction, so a failing invariant aborts the whole seed.
func Seed(db *gorm.DB, log *zap.Logger, currency valueobject.Currency) error {
	ctx, log := logger.WithOperation(context.Background(), log, "seed")

	var customers int64
	if err := db.WithContext(ctx).Model(&partner.Customer{}).Count(&customers).Error; err != nil {
		return fmt.Errorf("seed precheck failed: %w", err)
	}
	if customers > 0 {
		log.Info("Database already contains data, skipping seed")
		return nil
	}

	start := time.Now()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s := newSeeder(ctx, tx, currency)
		return s.run()
	})
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}

	log.Info("Demo data seeded", zap.Duration("took", time.Since(start)))
	return nil
}

// seeder carries the transaction plus the entities created so far so
// later steps can reference them by code.
type seeder struct {
	ctx   context.Context
	tx    *gorm.DB
	year  int
	money valueobject.MoneyFactory

	customers map[string]*partner.Customer
	suppliers map[string]*partner.Supplier
	materials map[string]*catalog.Material
	products  map[string]*catalog.Product
	locations map[string]*inventory.StorageLocation
}

func newSeeder(ctx context.Context, tx *gorm.DB, currency valueobject.Currency) *seeder {
	return &seeder{
		ctx:       ctx,
		tx:        tx,
		year:      time.Now().Year(),
		money:     valueobject.NewMoneyFactory(currency),
		customers: make(map[string]*partner.Customer),
		suppliers: make(map[string]*partner.Supplier),
		materials: make(map[string]*catalog.Material),
		products:  make(map[string]*catalog.Product),
		locations: make(map[string]*inventory.StorageLocation),
	}
}

func (s *seeder) run() error {
	steps := []func() error{
		s.seedCustomers,
		s.seedSuppliers,
		s.seedMaterials,
		s.seedProducts,
		s.seedLocations,
		s.seedOpeningStock,
		s.seedOrder,
		s.seedSale,
		s.seedPurchase,
		s.seedProject,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) seedCustomers() error {
	repo := persistence.NewGormCustomerRepository(s.tx)

	type row struct {
		code, name, phone, email, city string
	}
	rows := []row{
		{"CU-0001", "Anna Bergmann", "+49 30 5550101", "anna.bergmann@example.com", "Berlin"},
		{"CU-0002", "Bruno Keller", "+49 89 5550202", "bruno.keller@example.com", "München"},
		{"CU-0003", "Clara Vogt", "", "clara.vogt@example.com", "Leipzig"},
	}

	for _, r := range rows {
		customer, err := partner.NewCustomer(r.code, r.name)
		if err != nil {
			return err
		}
		if err := customer.SetContact(r.phone, r.email); err != nil {
			return err
		}
		if err := customer.SetAddress("", r.city, "", "Deutschland"); err != nil {
			return err
		}
		if err := repo.Save(s.ctx, customer); err != nil {
			return err
		}
		s.customers[r.code] = customer
	}
	return nil
}

func (s *seeder) seedSuppliers() error {
	repo := persistence.NewGormSupplierRepository(s.tx)

	type row struct {
		code, name, contact, email string
		paymentDays                int
		minOrder                   float64
	}
	rows := []row{
		{"SU-0001", "Gerberei Huber", "Max Huber", "verkauf@gerberei-huber.example", 30, 150},
		{"SU-0002", "Beschläge Krämer", "Ida Krämer", "bestellung@kraemer.example", 14, 50},
		{"SU-0003", "Garn & Faden Lenz", "Ole Lenz", "info@garn-lenz.example", 14, 0},
	}

	for _, r := range rows {
		supplier, err := partner.NewSupplier(r.code, r.name)
		if err != nil {
			return err
		}
		if err := supplier.SetContact(r.contact, "", r.email, ""); err != nil {
			return err
		}
		if err := supplier.SetPaymentTerms(r.paymentDays, decimal.NewFromFloat(r.minOrder)); err != nil {
			return err
		}
		if err := repo.Save(s.ctx, supplier); err != nil {
			return err
		}
		s.suppliers[r.code] = supplier
	}
	return nil
}

func (s *seeder) seedMaterials() error {
	repo := persistence.NewGormMaterialRepository(s.tx)

	type row struct {
		code, name   string
		materialType catalog.MaterialType
		unit         string
		price        float64
		minStock     float64
		supplier     string
		thicknessMM  float64
		color        string
		finish       string
	}
	rows := []row{
		{"MAT-0001", "Vegetable tanned shoulder", catalog.MaterialTypeLeather, "m2", 52.00, 2, "SU-0001", 3.5, "cognac", "aniline"},
		{"MAT-0002", "Chrome tanned side", catalog.MaterialTypeLeather, "m2", 38.00, 1.5, "SU-0001", 1.8, "black", "smooth"},
		{"MAT-0003", "Brass buckle 25mm", catalog.MaterialTypeHardware, "pcs", 3.80, 20, "SU-0002", 0, "", ""},
		{"MAT-0004", "Copper rivets 9mm", catalog.MaterialTypeHardware, "pcs", 0.12, 200, "SU-0002", 0, "", ""},
		{"MAT-0005", "Linen thread 0.8mm natural", catalog.MaterialTypeThread, "spool", 12.50, 5, "SU-0003", 0, "", ""},
		{"MAT-0006", "Polyester thread 0.6mm black", catalog.MaterialTypeThread, "spool", 8.90, 5, "SU-0003", 0, "", ""},
		{"MAT-0007", "Edge paint dark brown", catalog.MaterialTypeSupplies, "bottle", 14.20, 2, "SU-0003", 0, "", ""},
		{"MAT-0008", "Contact cement", catalog.MaterialTypeSupplies, "bottle", 9.60, 3, "SU-0003", 0, "", ""},
	}

	for _, r := range rows {
		material, err := catalog.NewMaterial(r.code, r.name, r.materialType, r.unit)
		if err != nil {
			return err
		}
		if err := material.SetPurchasePrice(decimal.NewFromFloat(r.price)); err != nil {
			return err
		}
		if err := material.SetMinStock(decimal.NewFromFloat(r.minStock)); err != nil {
			return err
		}
		if err := material.SetPreferredSupplier(s.suppliers[r.supplier].ID); err != nil {
			return err
		}
		if r.materialType == catalog.MaterialTypeLeather {
			if err := material.SetLeatherAttributes(decimal.NewFromFloat(r.thicknessMM), r.color, r.finish); err != nil {
				return err
			}
		}
		if err := repo.Save(s.ctx, material); err != nil {
			return err
		}
		s.materials[r.code] = material
	}
	return nil
}

func (s *seeder) seedProducts() error {
	repo := persistence.NewGormProductRepository(s.tx)

	type row struct {
		code, name, sku       string
		selling, cost, minQty float64
	}
	rows := []row{
		{"PROD-0001", "Minimal card holder", "LW-CH-01", 95.00, 18.00, 3},
		{"PROD-0002", "Bifold wallet", "LW-WA-01", 149.00, 32.00, 2},
		{"PROD-0003", "Classic belt 35mm", "LW-BE-01", 89.00, 21.00, 4},
		{"PROD-0004", "Messenger bag", "LW-MB-01", 420.00, 110.00, 0},
	}

	for _, r := range rows {
		product, err := catalog.NewProduct(r.code, r.name)
		if err != nil {
			return err
		}
		if err := product.SetSKU(r.sku); err != nil {
			return err
		}
		if err := product.SetSellingPrice(decimal.NewFromFloat(r.selling)); err != nil {
			return err
		}
		if err := product.UpdateMaterialCost(decimal.NewFromFloat(r.cost)); err != nil {
			return err
		}
		if err := product.SetMinStock(decimal.NewFromFloat(r.minQty)); err != nil {
			return err
		}
		if err := repo.Save(s.ctx, product); err != nil {
			return err
		}
		s.products[r.code] = product
	}
	return nil
}

func (s *seeder) seedLocations() error {
	repo := persistence.NewGormStorageLocationRepository(s.tx)

	type row struct {
		code, name string
		kind       inventory.LocationKind
	}
	rows := []row{
		{"LOC-A1", "Leather shelf A1", inventory.LocationKindShelf},
		{"LOC-B1", "Hardware drawer B1", inventory.LocationKindDrawer},
		{"LOC-C1", "Thread box C1", inventory.LocationKindBox},
		{"LOC-SHOP", "Shop floor", inventory.LocationKindRoom},
	}

	for _, r := range rows {
		location, err := inventory.NewStorageLocation(r.code, r.name, r.kind)
		if err != nil {
			return err
		}
		if err := repo.Save(s.ctx, location); err != nil {
			return err
		}
		s.locations[r.code] = location
	}
	return nil
}

// seedOpeningStock books the starting inventory. Each line becomes a
// stock row plus a receipt movement, the same shape later receipts use.
func (s *seeder) seedOpeningStock() error {
	type row struct {
		itemType inventory.ItemType
		item     string
		location string
		qty      float64
	}
	rows := []row{
		{inventory.ItemTypeMaterial, "MAT-0001", "LOC-A1", 6},
		{inventory.ItemTypeMaterial, "MAT-0002", "LOC-A1", 4},
		{inventory.ItemTypeMaterial, "MAT-0003", "LOC-B1", 60},
		{inventory.ItemTypeMaterial, "MAT-0004", "LOC-B1", 500},
		{inventory.ItemTypeMaterial, "MAT-0005", "LOC-C1", 8},
		{inventory.ItemTypeMaterial, "MAT-0006", "LOC-C1", 6},
		{inventory.ItemTypeMaterial, "MAT-0007", "LOC-C1", 3},
		{inventory.ItemTypeMaterial, "MAT-0008", "LOC-C1", 4},
		{inventory.ItemTypeProduct, "PROD-0001", "LOC-SHOP", 5},
		{inventory.ItemTypeProduct, "PROD-0002", "LOC-SHOP", 3},
		{inventory.ItemTypeProduct, "PROD-0003", "LOC-SHOP", 6},
	}

	for _, r := range rows {
		var itemID uuid.UUID
		var unit string
		var unitCost decimal.Decimal

		switch r.itemType {
		case inventory.ItemTypeMaterial:
			m := s.materials[r.item]
			itemID, unit, unitCost = m.ID, m.Unit, m.PurchasePrice
		case inventory.ItemTypeProduct:
			p := s.products[r.item]
			itemID, unit, unitCost = p.ID, p.Unit, p.MaterialCost
		}

		err := s.receiveStock(r.itemType, itemID, s.locations[r.location].ID, unit,
			decimal.NewFromFloat(r.qty), unitCost, "OPENING")
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) seedOrder() error {
	repo := persistence.NewGormOrderRepository(s.tx)

	order, err := trade.NewOrder(
		fmt.Sprintf("SO-%d-00001", s.year),
		s.customers["CU-0001"].ID,
		s.customers["CU-0001"].Name,
	)
	if err != nil {
		return err
	}

	bag := s.products["PROD-0004"]
	if _, err := order.AddItem(&bag.ID, "Messenger bag, cognac, brass fittings",
		decimal.NewFromInt(1), s.money.New(bag.SellingPrice)); err != nil {
		return err
	}
	if err := order.SetDueDate(time.Now().AddDate(0, 0, 21)); err != nil {
		return err
	}
	if err := order.Confirm(); err != nil {
		return err
	}

	return repo.Save(s.ctx, order)
}

// seedSale rings up one counter sale and books the matching stock
// deduction, mirroring what the sale service does at runtime.
func (s *seeder) seedSale() error {
	repo := persistence.NewGormSaleRepository(s.tx)

	sale, err := trade.NewSale(fmt.Sprintf("SA-%d-00001", s.year), nil, "Walk-in", trade.PaymentMethodCash)
	if err != nil {
		return err
	}

	holder := s.products["PROD-0001"]
	if _, err := sale.AddItem(holder.ID, holder.Name, holder.Code,
		decimal.NewFromInt(1), s.money.New(holder.SellingPrice)); err != nil {
		return err
	}
	if err := sale.Complete(); err != nil {
		return err
	}
	if err := repo.Save(s.ctx, sale); err != nil {
		return err
	}

	return s.deductStock(inventory.ItemTypeProduct, holder.ID, s.locations["LOC-SHOP"].ID,
		decimal.NewFromInt(1), sale.SaleNumber)
}

// seedPurchase places one supplier order and receives it in full.
func (s *seeder) seedPurchase() error {
	repo := persistence.NewGormPurchaseRepository(s.tx)

	supplier := s.suppliers["SU-0001"]
	purchase, err := trade.NewPurchase(fmt.Sprintf("PU-%d-00001", s.year), supplier.ID, supplier.Name)
	if err != nil {
		return err
	}

	type line struct {
		material string
		qty      float64
	}
	lines := []line{
		{"MAT-0001", 5},
		{"MAT-0002", 2},
	}

	receiveLines := make([]trade.ReceiveLine, 0, len(lines))
	for _, l := range lines {
		m := s.materials[l.material]
		if _, err := purchase.AddItem(m.ID, m.Name, m.Code, m.Unit,
			decimal.NewFromFloat(l.qty), s.money.New(m.PurchasePrice)); err != nil {
			return err
		}
		receiveLines = append(receiveLines, trade.ReceiveLine{
			MaterialID: m.ID,
			Quantity:   decimal.NewFromFloat(l.qty),
		})
	}

	if err := purchase.Place(); err != nil {
		return err
	}

	received, err := purchase.Receive(receiveLines)
	if err != nil {
		return err
	}
	if err := repo.Save(s.ctx, purchase); err != nil {
		return err
	}

	for _, line := range received {
		err := s.receiveStock(inventory.ItemTypeMaterial, line.MaterialID, s.locations["LOC-A1"].ID,
			line.Unit, line.Quantity, line.UnitCost, purchase.PurchaseNumber)
		if err != nil {
			return err
		}
	}
	return nil
}

// seedProject sets up the workshop side for the confirmed order: an
// in-progress project with its bill of materials and tool list.
func (s *seeder) seedProject() error {
	projectRepo := persistence.NewGormProjectRepository(s.tx)
	toolRepo := persistence.NewGormToolListRepository(s.tx)
	orderRepo := persistence.NewGormOrderRepository(s.tx)

	project, err := workshop.NewProject(fmt.Sprintf("PR-%d-001", s.year), "Messenger bag, cognac")
	if err != nil {
		return err
	}
	if err := project.LinkProduct(s.products["PROD-0004"].ID); err != nil {
		return err
	}

	order, err := orderRepo.FindByNumber(s.ctx, fmt.Sprintf("SO-%d-00001", s.year))
	if err != nil {
		return err
	}
	if err := project.LinkOrder(order.ID); err != nil {
		return err
	}

	type component struct {
		material string
		qty      float64
	}
	components := []component{
		{"MAT-0001", 1.8},
		{"MAT-0003", 2},
		{"MAT-0004", 30},
		{"MAT-0005", 0.5},
	}
	for _, c := range components {
		m := s.materials[c.material]
		if _, err := project.AddComponent(m.ID, m.Name, m.Code, m.Unit,
			decimal.NewFromFloat(c.qty), m.PurchasePrice); err != nil {
			return err
		}
	}

	if err := project.SetLabor(decimal.NewFromInt(12), decimal.NewFromFloat(45.00)); err != nil {
		return err
	}
	if err := project.Start(); err != nil {
		return err
	}
	if err := projectRepo.Save(s.ctx, project); err != nil {
		return err
	}

	toolList, err := workshop.NewToolList(project.ID)
	if err != nil {
		return err
	}
	for _, tool := range []string{"Round knife", "Stitching pony", "Edge beveler", "Pricking irons 3.38mm"} {
		if _, err := toolList.AddTool(tool, ""); err != nil {
			return err
		}
	}
	return toolRepo.Save(s.ctx, toolList)
}

// receiveStock books quantity into the stock row for the item at the
// location, creating the row on first receipt, and writes the movement.
func (s *seeder) receiveStock(itemType inventory.ItemType, itemID, locationID uuid.UUID, unit string, qty, unitCost decimal.Decimal, reference string) error {
	stockRepo := persistence.NewGormStockItemRepository(s.tx)
	movementRepo := persistence.NewGormStockMovementRepository(s.tx)

	item, err := stockRepo.FindByItemAndLocation(s.ctx, itemType, itemID, locationID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		item, err = inventory.NewStockItem(itemType, itemID, locationID, unit)
		if err != nil {
			return err
		}
	}

	if err := item.Receive(qty, unitCost); err != nil {
		return err
	}
	if err := stockRepo.Save(s.ctx, item); err != nil {
		return err
	}

	movement, err := inventory.NewStockMovement(inventory.MovementTypeReceipt, itemType,
		itemID, locationID, qty, unitCost, reference, "")
	if err != nil {
		return err
	}
	return movementRepo.Append(s.ctx, movement)
}

// deductStock removes quantity from a stock row and writes the sale
// movement with a negative quantity.
func (s *seeder) deductStock(itemType inventory.ItemType, itemID, locationID uuid.UUID, qty decimal.Decimal, reference string) error {
	stockRepo := persistence.NewGormStockItemRepository(s.tx)
	movementRepo := persistence.NewGormStockMovementRepository(s.tx)

	item, err := stockRepo.FindByItemAndLocation(s.ctx, itemType, itemID, locationID)
	if err != nil {
		return err
	}
	if err := item.Deduct(qty); err != nil {
		return err
	}
	if err := stockRepo.SaveWithLock(s.ctx, item); err != nil {
		return err
	}

	movement, err := inventory.NewStockMovement(inventory.MovementTypeSale, itemType,
		itemID, locationID, qty.Neg(), item.AvgUnitCost, reference, "")
	if err != nil {
		return err
	}
	return movementRepo.Append(s.ctx, movement)
}
