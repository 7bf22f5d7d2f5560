package workshop

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/leathershop/backend/internal/domain/catalog"
	"github.com/leathershop/backend/internal/domain/inventory"
	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/leathershop/backend/internal/domain/trade"
	"github.com/leathershop/backend/internal/domain/workshop"
	"github.com/leathershop/backend/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProjectService handles workshop projects: the component recipe, the
// tool list, and the picking lists that move materials from storage to
// the bench.
type ProjectService struct {
	projectRepo  workshop.ProjectRepository
	toolListRepo workshop.ToolListRepository
	pickingRepo  workshop.PickingListRepository
	productRepo  catalog.ProductRepository
	materialRepo catalog.MaterialRepository
	orderRepo    trade.OrderRepository
	stockRepo    inventory.StockItemRepository
	txScope      TransactionScope
	logger       *zap.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	projectRepo workshop.ProjectRepository,
	toolListRepo workshop.ToolListRepository,
	pickingRepo workshop.PickingListRepository,
	productRepo catalog.ProductRepository,
	materialRepo catalog.MaterialRepository,
	orderRepo trade.OrderRepository,
	stockRepo inventory.StockItemRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projectRepo:  projectRepo,
		toolListRepo: toolListRepo,
		pickingRepo:  pickingRepo,
		productRepo:  productRepo,
		materialRepo: materialRepo,
		orderRepo:    orderRepo,
		stockRepo:    stockRepo,
		txScope:      txScope,
		logger:       logger,
	}
}

// =============================================================================
// Project lifecycle
// =============================================================================

// Create creates a new project in planning
func (s *ProjectService) Create(ctx context.Context, req CreateProjectRequest) (*ProjectResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	code, err := s.projectRepo.NextCode(ctx)
	if err != nil {
		return nil, err
	}

	project, err := workshop.NewProject(code, req.Name)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := project.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.ProductID != nil {
		if _, err := s.productRepo.FindByID(ctx, *req.ProductID); err != nil {
			return nil, err
		}
		if err := project.LinkProduct(*req.ProductID); err != nil {
			return nil, err
		}
	}
	if req.OrderID != nil {
		if _, err := s.orderRepo.FindByID(ctx, *req.OrderID); err != nil {
			return nil, err
		}
		if err := project.LinkOrder(*req.OrderID); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		project.SetNotes(req.Notes)
	}

	if err := s.projectRepo.Save(ctx, project); err != nil {
		s.logger.Error("Failed to save project", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Project created",
		zap.String("project_id", project.ID.String()),
		zap.String("code", project.Code),
		zap.String("name", project.Name))

	response := FromProject(project)
	return &response, nil
}

// GetByID retrieves a project by ID
func (s *ProjectService) GetByID(ctx context.Context, projectID uuid.UUID) (*ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	response := FromProject(project)
	return &response, nil
}

// GetByCode retrieves a project by its code
func (s *ProjectService) GetByCode(ctx context.Context, code string) (*ProjectResponse, error) {
	project, err := s.projectRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	response := FromProject(project)
	return &response, nil
}

// List retrieves projects with filtering and pagination
func (s *ProjectService) List(ctx context.Context, filter ProjectListFilter) (*shared.Paginated[ProjectResponse], error) {
	if err := validate.Struct(filter); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
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
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	page, err := s.projectRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(FromProjects(page.Items), page.Total, page.Page, page.PageSize)
	return &result, nil
}

// ListByOrder retrieves all projects fulfilling a customer order
func (s *ProjectService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]ProjectResponse, error) {
	projects, err := s.projectRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	responses := make([]ProjectResponse, len(projects))
	for i, p := range projects {
		responses[i] = FromProject(p)
	}
	return responses, nil
}

// Update updates a project's name and description
func (s *ProjectService) Update(ctx context.Context, projectID uuid.UUID, req UpdateProjectRequest) (*ProjectResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	return s.mutate(ctx, projectID, func(p *workshop.Project) error {
		name := p.Name
		description := p.Description
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		return p.Update(name, description)
	})
}

// AddComponent adds a material component to a planning project. A zero
// unit cost defaults to the material's average stock cost, falling back
// to the catalog purchase price when nothing is on hand.
func (s *ProjectService) AddComponent(ctx context.Context, projectID uuid.UUID, req ComponentRequest) (*ProjectResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	material, err := s.materialRepo.FindByID(ctx, req.MaterialID)
	if err != nil {
		return nil, err
	}

	unitCost := req.UnitCost
	if unitCost.IsZero() {
		unitCost, err = s.currentUnitCost(ctx, material)
		if err != nil {
			return nil, err
		}
	}

	return s.mutate(ctx, projectID, func(p *workshop.Project) error {
		component, err := p.AddComponent(material.ID, material.Name, material.Code, material.Unit, req.Quantity, unitCost)
		if err != nil {
			return err
		}
		if req.Note != "" {
			component.SetNote(req.Note)
		}
		return nil
	})
}

// UpdateComponentQuantity changes the quantity of a project component
func (s *ProjectService) UpdateComponentQuantity(ctx context.Context, projectID, componentID uuid.UUID, quantity decimal.Decimal) (*ProjectResponse, error) {
	return s.mutate(ctx, projectID, func(p *workshop.Project) error {
		return p.UpdateComponentQuantity(componentID, quantity)
	})
}

// RemoveComponent removes a component from a planning project
func (s *ProjectService) RemoveComponent(ctx context.Context, projectID, componentID uuid.UUID) (*ProjectResponse, error) {
	return s.mutate(ctx, projectID, func(p *workshop.Project) error {
		return p.RemoveComponent(componentID)
	})
}

// SetLabor sets the labor estimate for the project
func (s *ProjectService) SetLabor(ctx context.Context, projectID uuid.UUID, req SetLaborRequest) (*ProjectResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	return s.mutate(ctx, projectID, func(p *workshop.Project) error {
		return p.SetLabor(req.Hours, req.Rate)
	})
}

// SetNotes updates the free-form notes on a project
func (s *ProjectService) SetNotes(ctx context.Context, projectID uuid.UUID, notes string) (*ProjectResponse, error) {
	return s.mutate(ctx, projectID, func(p *workshop.Project) error {
		p.SetNotes(notes)
		return nil
	})
}

// Start moves a planning project into the workshop
func (s *ProjectService) Start(ctx context.Context, projectID uuid.UUID) (*ProjectResponse, error) {
	response, err := s.mutate(ctx, projectID, func(p *workshop.Project) error {
		return p.Start()
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Project started",
		zap.String("project_id", projectID.String()),
		zap.String("code", response.Code))

	return response, nil
}

// Complete finishes an in-progress project. When the project is linked
// to a catalog product, the product's cached material cost is refreshed
// from the project recipe in the same transaction.
func (s *ProjectService) Complete(ctx context.Context, projectID uuid.UUID) (*ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	expectedVersion := project.Version

	if err := project.Complete(); err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if project.ProductID != nil {
			product, txErr := repos.Products().FindByID(ctx, *project.ProductID)
			if txErr != nil {
				return txErr
			}
			if txErr = product.UpdateMaterialCost(project.MaterialCost()); txErr != nil {
				return txErr
			}
			if txErr = repos.Products().SaveWithLock(ctx, product); txErr != nil {
				return txErr
			}
		}
		return repos.Projects().SaveWithLock(ctx, project, expectedVersion)
	})
	if err != nil {
		s.logger.Error("Failed to complete project",
			zap.String("code", project.Code),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Project completed",
		zap.String("project_id", project.ID.String()),
		zap.String("code", project.Code),
		zap.String("material_cost", project.MaterialCost().String()),
		zap.String("total_cost", project.TotalCost().String()))

	response := FromProject(project)
	return &response, nil
}

// Cancel abandons a project
func (s *ProjectService) Cancel(ctx context.Context, projectID uuid.UUID) (*ProjectResponse, error) {
	response, err := s.mutate(ctx, projectID, func(p *workshop.Project) error {
		return p.Cancel()
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Project cancelled",
		zap.String("project_id", projectID.String()),
		zap.String("code", response.Code))

	return response, nil
}

// Delete removes a planning project entirely
func (s *ProjectService) Delete(ctx context.Context, projectID uuid.UUID) error {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return err
	}

	if project.Status != workshop.ProjectStatusPlanning {
		return shared.NewDomainError("INVALID_STATE", "Only planning projects can be deleted")
	}

	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		s.logger.Error("Failed to delete project", zap.Error(err))
		return err
	}

	s.logger.Info("Project deleted",
		zap.String("project_id", projectID.String()),
		zap.String("code", project.Code))

	return nil
}

// =============================================================================
// Tool list
// =============================================================================

// GetToolList retrieves the tool list for a project, creating an empty
// one on first access
func (s *ProjectService) GetToolList(ctx context.Context, projectID uuid.UUID) (*ToolListResponse, error) {
	list, err := s.toolListRepo.FindByProject(ctx, projectID)
	if errors.Is(err, shared.ErrNotFound) {
		if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
			return nil, err
		}
		list, err = workshop.NewToolList(projectID)
		if err != nil {
			return nil, err
		}
		if err := s.toolListRepo.Save(ctx, list); err != nil {
			s.logger.Error("Failed to save tool list", zap.Error(err))
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	response := FromToolList(list)
	return &response, nil
}

// AddTool adds a tool to the project's tool list
func (s *ProjectService) AddTool(ctx context.Context, projectID uuid.UUID, req ToolRequest) (*ToolListResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	return s.mutateToolList(ctx, projectID, func(l *workshop.ToolList) error {
		_, err := l.AddTool(req.ToolName, req.Note)
		return err
	})
}

// RemoveTool removes a tool from the project's tool list
func (s *ProjectService) RemoveTool(ctx context.Context, projectID, itemID uuid.UUID) (*ToolListResponse, error) {
	return s.mutateToolList(ctx, projectID, func(l *workshop.ToolList) error {
		return l.RemoveTool(itemID)
	})
}

// MarkToolPrepared ticks a tool off as laid out on the bench
func (s *ProjectService) MarkToolPrepared(ctx context.Context, projectID, itemID uuid.UUID) (*ToolListResponse, error) {
	return s.mutateToolList(ctx, projectID, func(l *workshop.ToolList) error {
		return l.MarkPrepared(itemID)
	})
}

// MarkToolUnprepared unticks a tool
func (s *ProjectService) MarkToolUnprepared(ctx context.Context, projectID, itemID uuid.UUID) (*ToolListResponse, error) {
	return s.mutateToolList(ctx, projectID, func(l *workshop.ToolList) error {
		return l.MarkUnprepared(itemID)
	})
}

// =============================================================================
// Picking lists
// =============================================================================

// GeneratePickingList creates a picking list covering the project's
// components, resolved to the storage locations holding available
// stock, and reserves those quantities. A component that cannot be
// covered in full rejects the whole generation.
func (s *ProjectService) GeneratePickingList(ctx context.Context, projectID uuid.UUID) (*PickingListResponse, error) {
	ctx, log := logger.WithOperation(ctx, s.logger, "generate-picking-list")

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.Status != workshop.ProjectStatusInProgress {
		return nil, shared.NewDomainError("INVALID_STATE", "Picking lists can only be generated for in-progress projects")
	}
	if len(project.Components) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Project has no components to pick")
	}

	var list *workshop.PickingList
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		pickNumber, txErr := repos.PickingLists().NextNumber(ctx)
		if txErr != nil {
			return txErr
		}
		list, txErr = workshop.NewPickingList(pickNumber, project.ID, project.Name)
		if txErr != nil {
			return txErr
		}

		for i := range project.Components {
			component := &project.Components[i]

			rows, txErr := repos.StockItems().FindByItem(ctx, inventory.ItemTypeMaterial, component.MaterialID)
			if txErr != nil {
				return txErr
			}

			remaining := component.Quantity
			for j := range rows {
				if remaining.LessThanOrEqual(decimal.Zero) {
					break
				}
				row := &rows[j]
				available := row.Available()
				if available.LessThanOrEqual(decimal.Zero) {
					continue
				}

				take := decimal.Min(remaining, available)
				if txErr = row.Reserve(take); txErr != nil {
					return txErr
				}
				if txErr = repos.StockItems().SaveWithLock(ctx, row); txErr != nil {
					return txErr
				}
				if _, txErr = list.AddItem(component.MaterialID, component.MaterialName, component.MaterialCode, component.Unit, row.LocationID, take); txErr != nil {
					return txErr
				}
				remaining = remaining.Sub(take)
			}

			if remaining.GreaterThan(decimal.Zero) {
				return shared.ErrInsufficientStock
			}
		}

		return repos.PickingLists().Save(ctx, list)
	})
	if err != nil {
		log.Error("Failed to generate picking list",
			zap.String("project_code", project.Code),
			zap.Error(err))
		return nil, err
	}

	log.Info("Picking list generated",
		zap.String("pick_number", list.PickNumber),
		zap.String("project_code", project.Code),
		zap.Int("lines", len(list.Items)))

	response := FromPickingList(list)
	return &response, nil
}

// GetPickingList retrieves a picking list by ID
func (s *ProjectService) GetPickingList(ctx context.Context, listID uuid.UUID) (*PickingListResponse, error) {
	list, err := s.pickingRepo.FindByID(ctx, listID)
	if err != nil {
		return nil, err
	}

	response := FromPickingList(list)
	return &response, nil
}

// ListPickingLists retrieves all picking lists of a project
func (s *ProjectService) ListPickingLists(ctx context.Context, projectID uuid.UUID) ([]PickingListResponse, error) {
	lists, err := s.pickingRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	responses := make([]PickingListResponse, len(lists))
	for i, l := range lists {
		responses[i] = FromPickingList(l)
	}
	return responses, nil
}

// PickMaterials records executed picks against a picking list. Each
// picked quantity consumes its reservation and writes a consumption
// movement referencing the pick number. The list auto-closes once all
// lines are complete.
func (s *ProjectService) PickMaterials(ctx context.Context, listID uuid.UUID, lines []PickLineRequest) (*PickingListResponse, error) {
	if len(lines) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Pick lines cannot be empty")
	}
	for _, line := range lines {
		if err := validate.Struct(line); err != nil {
			return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
		}
	}
	ctx, log := logger.WithOperation(ctx, s.logger, "pick-materials")

	list, err := s.pickingRepo.FindByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	expectedVersion := list.Version

	pickLines := make([]workshop.PickLine, len(lines))
	for i, line := range lines {
		pickLines[i] = workshop.PickLine{ItemID: line.ItemID, Quantity: line.Quantity}
	}

	picked, err := list.Pick(pickLines)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, line := range picked {
			row, txErr := repos.StockItems().FindByItemAndLocation(ctx, inventory.ItemTypeMaterial, line.MaterialID, line.LocationID)
			if txErr != nil {
				return txErr
			}

			unitCost := row.AvgUnitCost
			if txErr = row.Consume(line.Quantity); txErr != nil {
				return txErr
			}
			if txErr = repos.StockItems().SaveWithLock(ctx, row); txErr != nil {
				return txErr
			}

			movement, txErr := inventory.NewStockMovement(
				inventory.MovementTypeConsumption, inventory.ItemTypeMaterial,
				line.MaterialID, line.LocationID,
				line.Quantity.Neg(), unitCost,
				list.PickNumber, "")
			if txErr != nil {
				return txErr
			}
			if txErr = repos.StockMovements().Append(ctx, movement); txErr != nil {
				return txErr
			}
		}

		return repos.PickingLists().SaveWithLock(ctx, list, expectedVersion)
	})
	if err != nil {
		log.Error("Failed to pick materials",
			zap.String("pick_number", list.PickNumber),
			zap.Error(err))
		return nil, err
	}

	log.Info("Materials picked",
		zap.String("pick_number", list.PickNumber),
		zap.Int("lines", len(picked)),
		zap.String("status", string(list.Status)))

	response := FromPickingList(list)
	return &response, nil
}

// CancelPickingList cancels an open picking list and releases the
// reservations that have not been picked yet
func (s *ProjectService) CancelPickingList(ctx context.Context, listID uuid.UUID, reason string) (*PickingListResponse, error) {
	list, err := s.pickingRepo.FindByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	expectedVersion := list.Version

	// Snapshot the open reservations before the status flips
	type release struct {
		materialID uuid.UUID
		locationID uuid.UUID
		quantity   decimal.Decimal
	}
	var releases []release
	for i := range list.Items {
		item := &list.Items[i]
		remaining := item.RemainingQuantity()
		if remaining.GreaterThan(decimal.Zero) {
			releases = append(releases, release{
				materialID: item.MaterialID,
				locationID: item.LocationID,
				quantity:   remaining,
			})
		}
	}

	if err := list.Cancel(reason); err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, r := range releases {
			row, txErr := repos.StockItems().FindByItemAndLocation(ctx, inventory.ItemTypeMaterial, r.materialID, r.locationID)
			if txErr != nil {
				return txErr
			}
			if txErr = row.Release(r.quantity); txErr != nil {
				return txErr
			}
			if txErr = repos.StockItems().SaveWithLock(ctx, row); txErr != nil {
				return txErr
			}
		}
		return repos.PickingLists().SaveWithLock(ctx, list, expectedVersion)
	})
	if err != nil {
		s.logger.Error("Failed to cancel picking list",
			zap.String("pick_number", list.PickNumber),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Picking list cancelled",
		zap.String("pick_number", list.PickNumber),
		zap.String("reason", reason))

	response := FromPickingList(list)
	return &response, nil
}

// =============================================================================
// Internals
// =============================================================================

// currentUnitCost values a material at its moving average stock cost,
// falling back to the catalog purchase price when nothing is on hand
func (s *ProjectService) currentUnitCost(ctx context.Context, material *catalog.Material) (decimal.Decimal, error) {
	rows, err := s.stockRepo.FindByItem(ctx, inventory.ItemTypeMaterial, material.ID)
	if err != nil {
		return decimal.Zero, err
	}

	totalQty := decimal.Zero
	totalValue := decimal.Zero
	for i := range rows {
		if rows[i].Quantity.LessThanOrEqual(decimal.Zero) {
			continue
		}
		totalQty = totalQty.Add(rows[i].Quantity)
		totalValue = totalValue.Add(rows[i].Quantity.Mul(rows[i].AvgUnitCost))
	}
	if totalQty.GreaterThan(decimal.Zero) {
		return totalValue.DivRound(totalQty, 4), nil
	}
	return material.PurchasePrice, nil
}

func (s *ProjectService) mutate(ctx context.Context, projectID uuid.UUID, fn func(*workshop.Project) error) (*ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	expectedVersion := project.Version

	if err := fn(project); err != nil {
		return nil, err
	}

	if err := s.projectRepo.SaveWithLock(ctx, project, expectedVersion); err != nil {
		s.logger.Error("Failed to save project", zap.Error(err))
		return nil, err
	}

	response := FromProject(project)
	return &response, nil
}

func (s *ProjectService) mutateToolList(ctx context.Context, projectID uuid.UUID, fn func(*workshop.ToolList) error) (*ToolListResponse, error) {
	list, err := s.toolListRepo.FindByProject(ctx, projectID)
	if errors.Is(err, shared.ErrNotFound) {
		if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
			return nil, err
		}
		list, err = workshop.NewToolList(projectID)
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if err := fn(list); err != nil {
		return nil, err
	}

	if err := s.toolListRepo.Save(ctx, list); err != nil {
		s.logger.Error("Failed to save tool list", zap.Error(err))
		return nil, err
	}

	response := FromToolList(list)
	return &response, nil
}
