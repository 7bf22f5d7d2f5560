package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/leathershop/backend/internal/domain/workshop"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormToolListRepository implements ToolListRepository using GORM
type GormToolListRepository struct {
	db *gorm.DB
}

// NewGormToolListRepository creates a new GormToolListRepository
func NewGormToolListRepository(db *gorm.DB) *GormToolListRepository {
	return &GormToolListRepository{db: db}
}

// FindByID finds a tool list by its ID, including items
func (r *GormToolListRepository) FindByID(ctx context.Context, id uuid.UUID) (*workshop.ToolList, error) {
	var list workshop.ToolList
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&list, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &list, nil
}

// FindByProject finds the tool list for a project, if any
func (r *GormToolListRepository) FindByProject(ctx context.Context, projectID uuid.UUID) (*workshop.ToolList, error) {
	var list workshop.ToolList
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&list, "project_id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &list, nil
}

// FindAll finds tool lists with filtering and pagination
func (r *GormToolListRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[workshop.ToolList], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&workshop.ToolList{}).
		Count(&total).Error; err != nil {
		return nil, err
	}

	sortField := ValidateSortField(filter.OrderBy, CommonSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)

	var lists []workshop.ToolList
	if err := r.db.WithContext(ctx).
		Model(&workshop.ToolList{}).
		Preload("Items").
		Order(fmt.Sprintf("%s %s", sortField, sortOrder)).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&lists).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(lists, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Save creates or updates a tool list and its items
func (r *GormToolListRepository) Save(ctx context.Context, list *workshop.ToolList) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(list).Error; err != nil {
			return err
		}

		currentItemIDs := make([]uuid.UUID, len(list.Items))
		for i, item := range list.Items {
			currentItemIDs[i] = item.ID
		}

		if len(currentItemIDs) > 0 {
			if err := tx.Where("list_id = ? AND id NOT IN ?", list.ID, currentItemIDs).
				Delete(&workshop.ToolListItem{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("list_id = ?", list.ID).
				Delete(&workshop.ToolListItem{}).Error; err != nil {
				return err
			}
		}

		for i := range list.Items {
			list.Items[i].ListID = list.ID
			if err := tx.Save(&list.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes a tool list and its items
func (r *GormToolListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", id).Delete(&workshop.ToolListItem{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&workshop.ToolList{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormToolListRepository implements ToolListRepository
var _ workshop.ToolListRepository = (*GormToolListRepository)(nil)
