package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/leathershop/backend/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormShoppingListRepository implements ShoppingListRepository using GORM
type GormShoppingListRepository struct {
	db *gorm.DB
}

// NewGormShoppingListRepository creates a new GormShoppingListRepository
func NewGormShoppingListRepository(db *gorm.DB) *GormShoppingListRepository {
	return &GormShoppingListRepository{db: db}
}

// FindByID finds a shopping list by its ID, including items
func (r *GormShoppingListRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.ShoppingList, error) {
	var list trade.ShoppingList
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

// FindAll finds shopping lists with filtering and pagination
func (r *GormShoppingListRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[trade.ShoppingList], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	var total int64
	countQuery := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&trade.ShoppingList{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	var lists []trade.ShoppingList
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&trade.ShoppingList{}).Preload("Items"), filter)
	if err := query.Find(&lists).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(lists, total, filter.Page, filter.PageSize)
	return &page, nil
}

// FindOpen finds shopping lists that are still open
func (r *GormShoppingListRepository) FindOpen(ctx context.Context) ([]*trade.ShoppingList, error) {
	var lists []*trade.ShoppingList
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("status = ?", trade.ShoppingListStatusOpen).
		Order("created_at ASC").
		Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

// Save creates or updates a shopping list and its items
func (r *GormShoppingListRepository) Save(ctx context.Context, list *trade.ShoppingList) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(list).Error; err != nil {
			return err
		}
		return saveShoppingListItems(tx, list)
	})
}

// SaveWithLock saves a shopping list with optimistic concurrency control
func (r *GormShoppingListRepository) SaveWithLock(ctx context.Context, list *trade.ShoppingList, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&trade.ShoppingList{}).
			Where("id = ?", list.ID).
			Select("version").
			Take(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != expectedVersion {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The shopping list has been modified by another user")
		}

		list.Version = expectedVersion + 1
		list.UpdatedAt = time.Now()

		result := tx.Model(&trade.ShoppingList{}).
			Where("id = ? AND version = ?", list.ID, expectedVersion).
			Updates(map[string]interface{}{
				"name":       list.Name,
				"status":     list.Status,
				"notes":      list.Notes,
				"ordered_at": list.OrderedAt,
				"done_at":    list.DoneAt,
				"version":    list.Version,
				"updated_at": list.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The shopping list has been modified by another user")
		}

		return saveShoppingListItems(tx, list)
	})
}

// saveShoppingListItems deletes removed items and saves the current ones
func saveShoppingListItems(tx *gorm.DB, list *trade.ShoppingList) error {
	currentItemIDs := make([]uuid.UUID, len(list.Items))
	for i, item := range list.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("list_id = ? AND id NOT IN ?", list.ID, currentItemIDs).
			Delete(&trade.ShoppingListItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("list_id = ?", list.ID).
			Delete(&trade.ShoppingListItem{}).Error; err != nil {
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
}

// Delete deletes a shopping list and its items
func (r *GormShoppingListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", id).Delete(&trade.ShoppingListItem{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&trade.ShoppingList{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts shopping lists matching the filter
func (r *GormShoppingListRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&trade.ShoppingList{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormShoppingListRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	sortField := ValidateSortField(filter.OrderBy, ShoppingListSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormShoppingListRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	return query
}

// Ensure GormShoppingListRepository implements ShoppingListRepository
var _ trade.ShoppingListRepository = (*GormShoppingListRepository)(nil)
