package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/leathershop/backend/internal/domain/catalog"
	"github.com/leathershop/backend/internal/domain/inventory"
	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MaterialService handles material catalog operations
type MaterialService struct {
	materialRepo catalog.MaterialRepository
	stockRepo    inventory.StockItemRepository
	logger       *zap.Logger
}

// NewMaterialService creates a new MaterialService
func NewMaterialService(
	materialRepo catalog.MaterialRepository,
	stockRepo inventory.StockItemRepository,
	logger *zap.Logger,
) *MaterialService {
	return &MaterialService{
		materialRepo: materialRepo,
		stockRepo:    stockRepo,
		logger:       logger,
	}
}

// Create creates a new material
func (s *MaterialService) Create(ctx context.Context, req CreateMaterialRequest) (*MaterialResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	code := strings.ToUpper(req.Code)
	exists, err := s.materialRepo.ExistsByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Material with this code already exists")
	}

	material, err := catalog.NewMaterial(code, req.Name, catalog.MaterialType(req.Type), req.Unit)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := material.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.PurchasePrice != nil {
		if err := material.SetPurchasePrice(*req.PurchasePrice); err != nil {
			return nil, err
		}
	}
	if req.MinStock != nil {
		if err := material.SetMinStock(*req.MinStock); err != nil {
			return nil, err
		}
	}
	if req.PreferredSupplierID != nil {
		if err := material.SetPreferredSupplier(*req.PreferredSupplierID); err != nil {
			return nil, err
		}
	}
	if req.ThicknessMM != nil || req.Color != "" || req.Finish != "" {
		thickness := decimal.Zero
		if req.ThicknessMM != nil {
			thickness = *req.ThicknessMM
		}
		if err := material.SetLeatherAttributes(thickness, req.Color, req.Finish); err != nil {
			return nil, err
		}
	}

	if err := s.materialRepo.Save(ctx, material); err != nil {
		s.logger.Error("Failed to save material", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Material created",
		zap.String("material_id", material.ID.String()),
		zap.String("code", material.Code),
		zap.String("type", string(material.Type)))

	response := FromMaterial(material)
	return &response, nil
}

// GetByID retrieves a material by ID
func (s *MaterialService) GetByID(ctx context.Context, materialID uuid.UUID) (*MaterialResponse, error) {
	material, err := s.materialRepo.FindByID(ctx, materialID)
	if err != nil {
		return nil, err
	}

	response := FromMaterial(material)
	return &response, nil
}

// GetByCode retrieves a material by code
func (s *MaterialService) GetByCode(ctx context.Context, code string) (*MaterialResponse, error) {
	material, err := s.materialRepo.FindByCode(ctx, strings.ToUpper(code))
	if err != nil {
		return nil, err
	}

	response := FromMaterial(material)
	return &response, nil
}

// List retrieves materials with filtering and pagination
func (s *MaterialService) List(ctx context.Context, filter MaterialListFilter) ([]MaterialResponse, int64, error) {
	if err := validate.Struct(filter); err != nil {
		return nil, 0, shared.NewDomainError("VALIDATION_FAILED", err.Error())
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
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.SupplierID != "" {
		domainFilter.Filters["supplier_id"] = filter.SupplierID
	}
	if filter.Color != "" {
		domainFilter.Filters["color"] = filter.Color
	}

	materials, err := s.materialRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.materialRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return FromMaterials(materials), total, nil
}

// ListByType retrieves all materials of one type
func (s *MaterialService) ListByType(ctx context.Context, materialType string) ([]MaterialResponse, error) {
	mt := catalog.MaterialType(materialType)
	if !mt.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Unknown material type")
	}

	filter := shared.DefaultFilter()
	filter.PageSize = 500
	filter.OrderBy = "code"
	filter.OrderDir = "asc"

	materials, err := s.materialRepo.FindByType(ctx, mt, filter)
	if err != nil {
		return nil, err
	}

	return FromMaterials(materials), nil
}

// Update updates a material's editable fields
func (s *MaterialService) Update(ctx context.Context, materialID uuid.UUID, req UpdateMaterialRequest) (*MaterialResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	material, err := s.materialRepo.FindByID(ctx, materialID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := material.Name
		description := material.Description
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if err := material.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.PurchasePrice != nil {
		if err := material.SetPurchasePrice(*req.PurchasePrice); err != nil {
			return nil, err
		}
	}
	if req.MinStock != nil {
		if err := material.SetMinStock(*req.MinStock); err != nil {
			return nil, err
		}
	}
	if req.PreferredSupplierID != nil {
		if *req.PreferredSupplierID == uuid.Nil {
			material.ClearPreferredSupplier()
		} else if err := material.SetPreferredSupplier(*req.PreferredSupplierID); err != nil {
			return nil, err
		}
	}

	if req.ThicknessMM != nil || req.Color != nil || req.Finish != nil {
		thickness := decimal.Zero
		if material.ThicknessMM != nil {
			thickness = *material.ThicknessMM
		}
		color := material.Color
		finish := material.Finish
		if req.ThicknessMM != nil {
			thickness = *req.ThicknessMM
		}
		if req.Color != nil {
			color = *req.Color
		}
		if req.Finish != nil {
			finish = *req.Finish
		}
		if err := material.SetLeatherAttributes(thickness, color, finish); err != nil {
			return nil, err
		}
	}

	if err := s.materialRepo.SaveWithLock(ctx, material); err != nil {
		return nil, err
	}

	response := FromMaterial(material)
	return &response, nil
}

// Discontinue takes a material out of the active catalog
func (s *MaterialService) Discontinue(ctx context.Context, materialID uuid.UUID) (*MaterialResponse, error) {
	material, err := s.materialRepo.FindByID(ctx, materialID)
	if err != nil {
		return nil, err
	}

	if err := material.Discontinue(); err != nil {
		return nil, err
	}

	if err := s.materialRepo.SaveWithLock(ctx, material); err != nil {
		return nil, err
	}

	s.logger.Info("Material discontinued", zap.String("code", material.Code))

	response := FromMaterial(material)
	return &response, nil
}

// Reactivate puts a discontinued material back into the catalog
func (s *MaterialService) Reactivate(ctx context.Context, materialID uuid.UUID) (*MaterialResponse, error) {
	material, err := s.materialRepo.FindByID(ctx, materialID)
	if err != nil {
		return nil, err
	}

	if err := material.Reactivate(); err != nil {
		return nil, err
	}

	if err := s.materialRepo.SaveWithLock(ctx, material); err != nil {
		return nil, err
	}

	response := FromMaterial(material)
	return &response, nil
}

// Delete removes a material. Materials holding stock cannot be deleted.
func (s *MaterialService) Delete(ctx context.Context, materialID uuid.UUID) error {
	material, err := s.materialRepo.FindByID(ctx, materialID)
	if err != nil {
		return err
	}

	rows, err := s.stockRepo.FindByItem(ctx, inventory.ItemTypeMaterial, materialID)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if !row.IsEmpty() {
			return shared.NewDomainError("CANNOT_DELETE", "Material still has stock on hand")
		}
	}

	if err := s.materialRepo.Delete(ctx, materialID); err != nil {
		return err
	}

	s.logger.Info("Material deleted", zap.String("code", material.Code))
	return nil
}

// ListLowStock returns the active materials whose available stock is
// below their minimum. Quantities are decimals stored as text, so the
// threshold comparison happens here rather than in SQL.
func (s *MaterialService) ListLowStock(ctx context.Context) ([]MaterialLowStockEntry, error) {
	available, err := s.availableByMaterial(ctx)
	if err != nil {
		return nil, err
	}

	filter := shared.DefaultFilter()
	filter.PageSize = 500
	filter.OrderBy = "code"
	filter.OrderDir = "asc"

	var entries []MaterialLowStockEntry
	for {
		materials, err := s.materialRepo.FindActive(ctx, filter)
		if err != nil {
			return nil, err
		}

		for i := range materials {
			m := &materials[i]
			if m.MinStock.LessThanOrEqual(decimal.Zero) {
				continue
			}
			onHand := available[m.ID]
			if onHand.GreaterThanOrEqual(m.MinStock) {
				continue
			}
			entries = append(entries, MaterialLowStockEntry{
				MaterialID:          m.ID,
				Code:                m.Code,
				Name:                m.Name,
				Type:                string(m.Type),
				Unit:                m.Unit,
				MinStock:            m.MinStock,
				Available:           onHand,
				Shortfall:           m.MinStock.Sub(onHand),
				PreferredSupplierID: m.PreferredSupplierID,
			})
		}

		if len(materials) < filter.PageSize {
			break
		}
		filter.Page++
	}

	return entries, nil
}

// availableByMaterial sums available stock per material across locations
func (s *MaterialService) availableByMaterial(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error) {
	rows, err := s.stockRepo.FindWithStock(ctx, inventory.ItemTypeMaterial)
	if err != nil {
		return nil, err
	}

	available := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for i := range rows {
		available[rows[i].ItemID] = available[rows[i].ItemID].Add(rows[i].Available())
	}
	return available, nil
}
