package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/leathershop/backend/internal/domain/workshop"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPickingListRepository implements PickingListRepository using GORM
type GormPickingListRepository struct {
	db *gorm.DB
}

// NewGormPickingListRepository creates a new GormPickingListRepository
func NewGormPickingListRepository(db *gorm.DB) *GormPickingListRepository {
	return &GormPickingListRepository{db: db}
}

// FindByID finds a picking list by its ID, including items
func (r *GormPickingListRepository) FindByID(ctx context.Context, id uuid.UUID) (*workshop.PickingList, error) {
	var list workshop.PickingList
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

// FindByNumber finds a picking list by its pick number
func (r *GormPickingListRepository) FindByNumber(ctx context.Context, pickNumber string) (*workshop.PickingList, error) {
	var list workshop.PickingList
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&list, "pick_number = ?", pickNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &list, nil
}

// FindByProject finds all picking lists for a project
func (r *GormPickingListRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*workshop.PickingList, error) {
	var lists []*workshop.PickingList
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

// FindAll finds picking lists with filtering and pagination
func (r *GormPickingListRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[workshop.PickingList], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	var total int64
	countQuery := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&workshop.PickingList{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	var lists []workshop.PickingList
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&workshop.PickingList{}).Preload("Items"), filter)
	if err := query.Find(&lists).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(lists, total, filter.Page, filter.PageSize)
	return &page, nil
}

// FindOpen finds picking lists that are still open
func (r *GormPickingListRepository) FindOpen(ctx context.Context) ([]*workshop.PickingList, error) {
	var lists []*workshop.PickingList
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("status = ?", workshop.PickingStatusOpen).
		Order("created_at ASC").
		Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

// Save creates or updates a picking list and its items
func (r *GormPickingListRepository) Save(ctx context.Context, list *workshop.PickingList) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(list).Error; err != nil {
			return err
		}
		return savePickingListItems(tx, list)
	})
}

// SaveWithLock saves a picking list with optimistic concurrency control
func (r *GormPickingListRepository) SaveWithLock(ctx context.Context, list *workshop.PickingList, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&workshop.PickingList{}).
			Where("id = ?", list.ID).
			Select("version").
			Take(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != expectedVersion {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The picking list has been modified by another user")
		}

		list.Version = expectedVersion + 1
		list.UpdatedAt = time.Now()

		result := tx.Model(&workshop.PickingList{}).
			Where("id = ? AND version = ?", list.ID, expectedVersion).
			Updates(map[string]interface{}{
				"project_id":    list.ProjectID,
				"project_name":  list.ProjectName,
				"status":        list.Status,
				"notes":         list.Notes,
				"picked_at":     list.PickedAt,
				"cancelled_at":  list.CancelledAt,
				"cancel_reason": list.CancelReason,
				"version":       list.Version,
				"updated_at":    list.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The picking list has been modified by another user")
		}

		return savePickingListItems(tx, list)
	})
}

// savePickingListItems deletes removed items and saves the current ones
func savePickingListItems(tx *gorm.DB, list *workshop.PickingList) error {
	currentItemIDs := make([]uuid.UUID, len(list.Items))
	for i, item := range list.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("list_id = ? AND id NOT IN ?", list.ID, currentItemIDs).
			Delete(&workshop.PickingListItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("list_id = ?", list.ID).
			Delete(&workshop.PickingListItem{}).Error; err != nil {
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

// Count counts picking lists matching the filter
func (r *GormPickingListRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&workshop.PickingList{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// existsByNumber checks if a pick number is already taken
func (r *GormPickingListRepository) existsByNumber(ctx context.Context, pickNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&workshop.PickingList{}).
		Where("pick_number = ?", pickNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// NextNumber generates the next free pick number.
// Format: PK-YYYY-NNNNN (e.g., PK-2026-00001)
func (r *GormPickingListRepository) NextNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("PK-%d-", year)

	var lastList workshop.PickingList
	err := r.db.WithContext(ctx).
		Model(&workshop.PickingList{}).
		Where("pick_number LIKE ?", prefix+"%").
		Order("pick_number DESC").
		First(&lastList).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastList.PickNumber != "" {
		parts := strings.Split(lastList.PickNumber, "-")
		if len(parts) == 3 {
			var num int64
			_, parseErr := fmt.Sscanf(parts[2], "%d", &num)
			if parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	pickNumber := fmt.Sprintf("%s%05d", prefix, nextNum)

	exists, err := r.existsByNumber(ctx, pickNumber)
	if err != nil {
		return "", err
	}
	if exists {
		for i := 0; i < 100; i++ {
			nextNum++
			pickNumber = fmt.Sprintf("%s%05d", prefix, nextNum)
			exists, err = r.existsByNumber(ctx, pickNumber)
			if err != nil {
				return "", err
			}
			if !exists {
				break
			}
		}
	}

	return pickNumber, nil
}

// applyFilter applies filter options to the query
func (r *GormPickingListRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	sortField := ValidateSortField(filter.OrderBy, PickingListSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPickingListRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(pick_number LIKE ? OR project_name LIKE ?)",
			searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "project_id":
			query = query.Where("project_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	return query
}

// Ensure GormPickingListRepository implements PickingListRepository
var _ workshop.PickingListRepository = (*GormPickingListRepository)(nil)
