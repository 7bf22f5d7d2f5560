package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/leathershop/backend/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPurchaseRepository implements PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// FindByID finds a purchase by its ID, including items
func (r *GormPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Purchase, error) {
	var purchase trade.Purchase
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&purchase, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

// FindByNumber finds a purchase by its purchase number
func (r *GormPurchaseRepository) FindByNumber(ctx context.Context, purchaseNumber string) (*trade.Purchase, error) {
	var purchase trade.Purchase
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&purchase, "purchase_number = ?", purchaseNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

// FindAll finds purchases with filtering and pagination
func (r *GormPurchaseRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[trade.Purchase], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	var total int64
	countQuery := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&trade.Purchase{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	var purchases []trade.Purchase
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&trade.Purchase{}).Preload("Items"), filter)
	if err := query.Find(&purchases).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(purchases, total, filter.Page, filter.PageSize)
	return &page, nil
}

// FindBySupplier finds all purchases for a supplier
func (r *GormPurchaseRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID) ([]*trade.Purchase, error) {
	var purchases []*trade.Purchase
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("supplier_id = ?", supplierID).
		Order("created_at DESC").
		Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// FindByStatus finds all purchases in the given status
func (r *GormPurchaseRepository) FindByStatus(ctx context.Context, status trade.PurchaseStatus) ([]*trade.Purchase, error) {
	var purchases []*trade.Purchase
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// FindOpen finds purchases awaiting full receipt
func (r *GormPurchaseRepository) FindOpen(ctx context.Context) ([]*trade.Purchase, error) {
	var purchases []*trade.Purchase
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("status IN ?", []trade.PurchaseStatus{trade.PurchaseStatusOrdered, trade.PurchaseStatusPartialReceived}).
		Order("created_at ASC").
		Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// Save creates or updates a purchase and its items
func (r *GormPurchaseRepository) Save(ctx context.Context, purchase *trade.Purchase) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(purchase).Error; err != nil {
			return err
		}
		return savePurchaseItems(tx, purchase)
	})
}

// SaveWithLock saves a purchase with optimistic concurrency control
func (r *GormPurchaseRepository) SaveWithLock(ctx context.Context, purchase *trade.Purchase, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&trade.Purchase{}).
			Where("id = ?", purchase.ID).
			Select("version").
			Take(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != expectedVersion {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The purchase has been modified by another user")
		}

		purchase.Version = expectedVersion + 1
		purchase.UpdatedAt = time.Now()

		result := tx.Model(&trade.Purchase{}).
			Where("id = ? AND version = ?", purchase.ID, expectedVersion).
			Updates(map[string]interface{}{
				"supplier_id":   purchase.SupplierID,
				"supplier_name": purchase.SupplierName,
				"total_amount":  purchase.TotalAmount,
				"currency":      purchase.Currency,
				"status":        purchase.Status,
				"expected_date": purchase.ExpectedDate,
				"notes":         purchase.Notes,
				"ordered_at":    purchase.OrderedAt,
				"received_at":   purchase.ReceivedAt,
				"cancelled_at":  purchase.CancelledAt,
				"cancel_reason": purchase.CancelReason,
				"version":       purchase.Version,
				"updated_at":    purchase.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The purchase has been modified by another user")
		}

		return savePurchaseItems(tx, purchase)
	})
}

// savePurchaseItems deletes removed items and saves the current ones
func savePurchaseItems(tx *gorm.DB, purchase *trade.Purchase) error {
	currentItemIDs := make([]uuid.UUID, len(purchase.Items))
	for i, item := range purchase.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("purchase_id = ? AND id NOT IN ?", purchase.ID, currentItemIDs).
			Delete(&trade.PurchaseItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("purchase_id = ?", purchase.ID).
			Delete(&trade.PurchaseItem{}).Error; err != nil {
			return err
		}
	}

	for i := range purchase.Items {
		purchase.Items[i].PurchaseID = purchase.ID
		if err := tx.Save(&purchase.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete deletes a purchase and its items
func (r *GormPurchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_id = ?", id).Delete(&trade.PurchaseItem{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&trade.Purchase{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts purchases matching the filter
func (r *GormPurchaseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&trade.Purchase{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// existsByNumber checks if a purchase number is already taken
func (r *GormPurchaseRepository) existsByNumber(ctx context.Context, purchaseNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&trade.Purchase{}).
		Where("purchase_number = ?", purchaseNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// NextNumber generates the next free purchase number.
// Format: PU-YYYY-NNNNN (e.g., PU-2026-00001)
func (r *GormPurchaseRepository) NextNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("PU-%d-", year)

	var lastPurchase trade.Purchase
	err := r.db.WithContext(ctx).
		Model(&trade.Purchase{}).
		Where("purchase_number LIKE ?", prefix+"%").
		Order("purchase_number DESC").
		First(&lastPurchase).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastPurchase.PurchaseNumber != "" {
		parts := strings.Split(lastPurchase.PurchaseNumber, "-")
		if len(parts) == 3 {
			var num int64
			_, parseErr := fmt.Sscanf(parts[2], "%d", &num)
			if parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	purchaseNumber := fmt.Sprintf("%s%05d", prefix, nextNum)

	exists, err := r.existsByNumber(ctx, purchaseNumber)
	if err != nil {
		return "", err
	}
	if exists {
		for i := 0; i < 100; i++ {
			nextNum++
			purchaseNumber = fmt.Sprintf("%s%05d", prefix, nextNum)
			exists, err = r.existsByNumber(ctx, purchaseNumber)
			if err != nil {
				return "", err
			}
			if !exists {
				break
			}
		}
	}

	return purchaseNumber, nil
}

// applyFilter applies filter options to the query
func (r *GormPurchaseRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	sortField := ValidateSortField(filter.OrderBy, PurchaseSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPurchaseRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(purchase_number LIKE ? OR supplier_name LIKE ?)",
			searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "expected_before":
			if t, ok := value.(time.Time); ok {
				query = query.Where("expected_date < ?", t)
			}
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at < ?", t)
			}
		}
	}

	return query
}

// Ensure GormPurchaseRepository implements PurchaseRepository
var _ trade.PurchaseRepository = (*GormPurchaseRepository)(nil)
