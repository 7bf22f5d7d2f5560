package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leathershop/backend/internal/domain/catalog"
	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMaterialRepository implements MaterialRepository using GORM
type GormMaterialRepository struct {
	db *gorm.DB
}

// NewGormMaterialRepository creates a new GormMaterialRepository
func NewGormMaterialRepository(db *gorm.DB) *GormMaterialRepository {
	return &GormMaterialRepository{db: db}
}

// FindByID finds a material by its ID
func (r *GormMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Material, error) {
	var material catalog.Material
	if err := r.db.WithContext(ctx).First(&material, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

// FindByCode finds a material by its code
func (r *GormMaterialRepository) FindByCode(ctx context.Context, code string) (*catalog.Material, error) {
	var material catalog.Material
	if err := r.db.WithContext(ctx).First(&material, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

// FindAll finds all materials matching the filter
func (r *GormMaterialRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Material, error) {
	var materials []catalog.Material
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Material{}), filter)

	if err := query.Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

// FindByType finds materials of the given type
func (r *GormMaterialRepository) FindByType(ctx context.Context, materialType catalog.MaterialType, filter shared.Filter) ([]catalog.Material, error) {
	var materials []catalog.Material
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Material{}).
			Where("type = ?", materialType),
		filter,
	)

	if err := query.Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

// FindActive finds all active materials
func (r *GormMaterialRepository) FindActive(ctx context.Context, filter shared.Filter) ([]catalog.Material, error) {
	var materials []catalog.Material
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Material{}).
			Where("status = ?", catalog.MaterialStatusActive),
		filter,
	)

	if err := query.Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

// FindByIDs finds multiple materials by their IDs
func (r *GormMaterialRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Material, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var materials []catalog.Material
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

// Save creates or updates a material
func (r *GormMaterialRepository) Save(ctx context.Context, material *catalog.Material) error {
	return r.db.WithContext(ctx).Save(material).Error
}

// SaveWithLock saves a material with optimistic locking (version check)
func (r *GormMaterialRepository) SaveWithLock(ctx context.Context, material *catalog.Material) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&catalog.Material{}).
			Where("id = ?", material.ID).
			Select("version").
			Take(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != material.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The material has been modified by another user")
		}

		material.Version++
		material.UpdatedAt = time.Now()

		result := tx.Model(&catalog.Material{}).
			Where("id = ? AND version = ?", material.ID, currentVersion).
			Updates(map[string]interface{}{
				"code":                  material.Code,
				"name":                  material.Name,
				"description":           material.Description,
				"type":                  material.Type,
				"unit":                  material.Unit,
				"purchase_price":        material.PurchasePrice,
				"min_stock":             material.MinStock,
				"preferred_supplier_id": material.PreferredSupplierID,
				"status":                material.Status,
				"thickness_mm":          material.ThicknessMM,
				"color":                 material.Color,
				"finish":                material.Finish,
				"version":               material.Version,
				"updated_at":            material.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The material has been modified by another user")
		}
		return nil
	})
}

// Delete deletes a material
func (r *GormMaterialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Material{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts materials matching the filter
func (r *GormMaterialRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.Material{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a material with the given code exists
func (r *GormMaterialRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Material{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormMaterialRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	sortField := ValidateSortField(filter.OrderBy, MaterialSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormMaterialRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(code LIKE ? OR name LIKE ? OR color LIKE ?)",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "supplier_id":
			query = query.Where("preferred_supplier_id = ?", value)
		case "color":
			query = query.Where("color = ?", value)
		}
	}

	return query
}

// Ensure GormMaterialRepository implements MaterialRepository
var _ catalog.MaterialRepository = (*GormMaterialRepository)(nil)
