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

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale by its ID, including items
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	var sale trade.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindByNumber finds a sale by its sale number
func (r *GormSaleRepository) FindByNumber(ctx context.Context, saleNumber string) (*trade.Sale, error) {
	var sale trade.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&sale, "sale_number = ?", saleNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindAll finds sales with filtering and pagination
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[trade.Sale], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	var total int64
	countQuery := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&trade.Sale{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	var sales []trade.Sale
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&trade.Sale{}).Preload("Items"), filter)
	if err := query.Find(&sales).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(sales, total, filter.Page, filter.PageSize)
	return &page, nil
}

// FindByCustomer finds all sales for a customer
func (r *GormSaleRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]*trade.Sale, error) {
	var sales []*trade.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ?", customerID).
		Order("sale_date DESC").
		Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// FindByPeriod finds sales with a sale date in [from, to)
func (r *GormSaleRepository) FindByPeriod(ctx context.Context, from, to time.Time) ([]*trade.Sale, error) {
	var sales []*trade.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("sale_date >= ? AND sale_date < ?", from, to).
		Order("sale_date ASC").
		Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// Save creates or updates a sale and its items
func (r *GormSaleRepository) Save(ctx context.Context, sale *trade.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(sale).Error; err != nil {
			return err
		}
		return saveSaleItems(tx, sale)
	})
}

// SaveWithLock saves a sale with optimistic concurrency control
func (r *GormSaleRepository) SaveWithLock(ctx context.Context, sale *trade.Sale, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&trade.Sale{}).
			Where("id = ?", sale.ID).
			Select("version").
			Take(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != expectedVersion {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The sale has been modified by another user")
		}

		sale.Version = expectedVersion + 1
		sale.UpdatedAt = time.Now()

		result := tx.Model(&trade.Sale{}).
			Where("id = ? AND version = ?", sale.ID, expectedVersion).
			Updates(map[string]interface{}{
				"customer_id":    sale.CustomerID,
				"customer_name":  sale.CustomerName,
				"sale_date":      sale.SaleDate,
				"total_amount":   sale.TotalAmount,
				"currency":       sale.Currency,
				"payment_method": sale.PaymentMethod,
				"status":         sale.Status,
				"notes":          sale.Notes,
				"voided_at":      sale.VoidedAt,
				"void_reason":    sale.VoidReason,
				"version":        sale.Version,
				"updated_at":     sale.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The sale has been modified by another user")
		}

		return saveSaleItems(tx, sale)
	})
}

// saveSaleItems deletes removed items and saves the current ones
func saveSaleItems(tx *gorm.DB, sale *trade.Sale) error {
	currentItemIDs := make([]uuid.UUID, len(sale.Items))
	for i, item := range sale.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("sale_id = ? AND id NOT IN ?", sale.ID, currentItemIDs).
			Delete(&trade.SaleItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("sale_id = ?", sale.ID).
			Delete(&trade.SaleItem{}).Error; err != nil {
			return err
		}
	}

	for i := range sale.Items {
		sale.Items[i].SaleID = sale.ID
		if err := tx.Save(&sale.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Count counts sales matching the filter
func (r *GormSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&trade.Sale{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// existsByNumber checks if a sale number is already taken
func (r *GormSaleRepository) existsByNumber(ctx context.Context, saleNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&trade.Sale{}).
		Where("sale_number = ?", saleNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// NextNumber generates the next free sale number.
// Format: SA-YYYY-NNNNN (e.g., SA-2026-00001)
func (r *GormSaleRepository) NextNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("SA-%d-", year)

	var lastSale trade.Sale
	err := r.db.WithContext(ctx).
		Model(&trade.Sale{}).
		Where("sale_number LIKE ?", prefix+"%").
		Order("sale_number DESC").
		First(&lastSale).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastSale.SaleNumber != "" {
		parts := strings.Split(lastSale.SaleNumber, "-")
		if len(parts) == 3 {
			var num int64
			_, parseErr := fmt.Sscanf(parts[2], "%d", &num)
			if parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	saleNumber := fmt.Sprintf("%s%05d", prefix, nextNum)

	exists, err := r.existsByNumber(ctx, saleNumber)
	if err != nil {
		return "", err
	}
	if exists {
		for i := 0; i < 100; i++ {
			nextNum++
			saleNumber = fmt.Sprintf("%s%05d", prefix, nextNum)
			exists, err = r.existsByNumber(ctx, saleNumber)
			if err != nil {
				return "", err
			}
			if !exists {
				break
			}
		}
	}

	return saleNumber, nil
}

// applyFilter applies filter options to the query
func (r *GormSaleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	sortField := ValidateSortField(filter.OrderBy, SaleSortFields, "sale_date")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSaleRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(sale_number LIKE ? OR customer_name LIKE ?)",
			searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "payment_method":
			query = query.Where("payment_method = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("sale_date >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("sale_date < ?", t)
			}
		}
	}

	return query
}

// Ensure GormSaleRepository implements SaleRepository
var _ trade.SaleRepository = (*GormSaleRepository)(nil)
