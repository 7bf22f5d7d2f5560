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

// GormProjectRepository implements ProjectRepository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// FindByID finds a project by its ID, including components
func (r *GormProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*workshop.Project, error) {
	var project workshop.Project
	if err := r.db.WithContext(ctx).
		Preload("Components").
		First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// FindByCode finds a project by its code
func (r *GormProjectRepository) FindByCode(ctx context.Context, code string) (*workshop.Project, error) {
	var project workshop.Project
	if err := r.db.WithContext(ctx).
		Preload("Components").
		First(&project, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// FindAll finds projects with filtering and pagination
func (r *GormProjectRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[workshop.Project], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	var total int64
	countQuery := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&workshop.Project{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	var projects []workshop.Project
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&workshop.Project{}).Preload("Components"), filter)
	if err := query.Find(&projects).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(projects, total, filter.Page, filter.PageSize)
	return &page, nil
}

// FindByStatus finds all projects in the given status
func (r *GormProjectRepository) FindByStatus(ctx context.Context, status workshop.ProjectStatus) ([]*workshop.Project, error) {
	var projects []*workshop.Project
	if err := r.db.WithContext(ctx).
		Preload("Components").
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// FindByProduct finds all projects producing a catalog product
func (r *GormProjectRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]*workshop.Project, error) {
	var projects []*workshop.Project
	if err := r.db.WithContext(ctx).
		Preload("Components").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// FindByOrder finds all projects fulfilling a customer order
func (r *GormProjectRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*workshop.Project, error) {
	var projects []*workshop.Project
	if err := r.db.WithContext(ctx).
		Preload("Components").
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Save creates or updates a project and its components
func (r *GormProjectRepository) Save(ctx context.Context, project *workshop.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(project).Error; err != nil {
			return err
		}
		return saveProjectComponents(tx, project)
	})
}

// SaveWithLock saves a project with optimistic concurrency control
func (r *GormProjectRepository) SaveWithLock(ctx context.Context, project *workshop.Project, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&workshop.Project{}).
			Where("id = ?", project.ID).
			Select("version").
			Take(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != expectedVersion {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The project has been modified by another user")
		}

		project.Version = expectedVersion + 1
		project.UpdatedAt = time.Now()

		result := tx.Model(&workshop.Project{}).
			Where("id = ? AND version = ?", project.ID, expectedVersion).
			Updates(map[string]interface{}{
				"name":         project.Name,
				"description":  project.Description,
				"product_id":   project.ProductID,
				"order_id":     project.OrderID,
				"labor_hours":  project.LaborHours,
				"labor_rate":   project.LaborRate,
				"status":       project.Status,
				"notes":        project.Notes,
				"started_at":   project.StartedAt,
				"completed_at": project.CompletedAt,
				"cancelled_at": project.CancelledAt,
				"version":      project.Version,
				"updated_at":   project.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The project has been modified by another user")
		}

		return saveProjectComponents(tx, project)
	})
}

// saveProjectComponents deletes removed components and saves the current ones
func saveProjectComponents(tx *gorm.DB, project *workshop.Project) error {
	currentIDs := make([]uuid.UUID, len(project.Components))
	for i, component := range project.Components {
		currentIDs[i] = component.ID
	}

	if len(currentIDs) > 0 {
		if err := tx.Where("project_id = ? AND id NOT IN ?", project.ID, currentIDs).
			Delete(&workshop.ProjectComponent{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("project_id = ?", project.ID).
			Delete(&workshop.ProjectComponent{}).Error; err != nil {
			return err
		}
	}

	for i := range project.Components {
		project.Components[i].ProjectID = project.ID
		if err := tx.Save(&project.Components[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete deletes a project and its components
func (r *GormProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&workshop.ProjectComponent{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&workshop.Project{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts projects matching the filter
func (r *GormProjectRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&workshop.Project{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// existsByCode checks if a project code is already taken
func (r *GormProjectRepository) existsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&workshop.Project{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// NextCode generates the next free project code.
// Format: PR-YYYY-NNN (e.g., PR-2026-001)
func (r *GormProjectRepository) NextCode(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("PR-%d-", year)

	var lastProject workshop.Project
	err := r.db.WithContext(ctx).
		Model(&workshop.Project{}).
		Where("code LIKE ?", prefix+"%").
		Order("code DESC").
		First(&lastProject).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastProject.Code != "" {
		parts := strings.Split(lastProject.Code, "-")
		if len(parts) == 3 {
			var num int64
			_, parseErr := fmt.Sscanf(parts[2], "%d", &num)
			if parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	code := fmt.Sprintf("%s%03d", prefix, nextNum)

	exists, err := r.existsByCode(ctx, code)
	if err != nil {
		return "", err
	}
	if exists {
		for i := 0; i < 100; i++ {
			nextNum++
			code = fmt.Sprintf("%s%03d", prefix, nextNum)
			exists, err = r.existsByCode(ctx, code)
			if err != nil {
				return "", err
			}
			if !exists {
				break
			}
		}
	}

	return code, nil
}

// applyFilter applies filter options to the query
func (r *GormProjectRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	sortField := ValidateSortField(filter.OrderBy, ProjectSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormProjectRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(code LIKE ? OR name LIKE ?)", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "order_id":
			query = query.Where("order_id = ?", value)
		}
	}

	return query
}

// Ensure GormProjectRepository implements ProjectRepository
var _ workshop.ProjectRepository = (*GormProjectRepository)(nil)
