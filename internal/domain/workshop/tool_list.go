package workshop

import (
	"time"

	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ToolListItem represents one tool to lay out for a project
type ToolListItem struct {
	ID        uuid.UUID `gorm:"type:text;primaryKey"`
	ListID    uuid.UUID `gorm:"type:text;not null;index"`
	ToolName  string    `gorm:"type:varchar(200);not null"`
	Note      string    `gorm:"type:varchar(500)"`
	Prepared  bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ToolListItem) TableName() string {
	return "tool_list_items"
}

// NewToolListItem creates a new tool line
func NewToolListItem(listID uuid.UUID, toolName, note string) (*ToolListItem, error) {
	if toolName == "" {
		return nil, shared.NewDomainError("INVALID_TOOL_NAME", "Tool name cannot be empty")
	}
	if len(toolName) > 200 {
		return nil, shared.NewDomainError("INVALID_TOOL_NAME", "Tool name cannot exceed 200 characters")
	}

	now := time.Now()
	return &ToolListItem{
		ID:        uuid.New(),
		ListID:    listID,
		ToolName:  toolName,
		Note:      note,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// MarkPrepared flags the tool as laid out on the bench
func (i *ToolListItem) MarkPrepared() {
	i.Prepared = true
	i.UpdatedAt = time.Now()
}

// MarkUnprepared clears the prepared flag
func (i *ToolListItem) MarkUnprepared() {
	i.Prepared = false
	i.UpdatedAt = time.Now()
}

// ToolList represents the bench setup checklist for a project.
// One list per project; checking off tools has no stock effect.
type ToolList struct {
	shared.BaseAggregateRoot
	ProjectID uuid.UUID      `gorm:"type:text;not null;uniqueIndex"`
	Items     []ToolListItem `gorm:"foreignKey:ListID;references:ID"`
	Notes     string         `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ToolList) TableName() string {
	return "tool_lists"
}

// NewToolList creates an empty tool list for a project
func NewToolList(projectID uuid.UUID) (*ToolList, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project ID cannot be empty")
	}

	return &ToolList{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProjectID:         projectID,
		Items:             make([]ToolListItem, 0),
	}, nil
}

// AddTool adds a tool to the checklist
// Duplicate names are rejected to keep the list readable
func (l *ToolList) AddTool(toolName, note string) (*ToolListItem, error) {
	for _, item := range l.Items {
		if item.ToolName == toolName {
			return nil, shared.NewDomainError("DUPLICATE_TOOL", "Tool is already on the list")
		}
	}

	item, err := NewToolListItem(l.ID, toolName, note)
	if err != nil {
		return nil, err
	}

	l.Items = append(l.Items, *item)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return item, nil
}

// RemoveTool removes a tool from the checklist
func (l *ToolList) RemoveTool(itemID uuid.UUID) error {
	for idx, item := range l.Items {
		if item.ID == itemID {
			l.Items = append(l.Items[:idx], l.Items[idx+1:]...)
			l.UpdatedAt = time.Now()
			l.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Tool list item not found")
}

// MarkPrepared checks off a tool
func (l *ToolList) MarkPrepared(itemID uuid.UUID) error {
	for idx := range l.Items {
		if l.Items[idx].ID == itemID {
			l.Items[idx].MarkPrepared()
			l.UpdatedAt = time.Now()
			l.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Tool list item not found")
}

// MarkUnprepared unchecks a tool
func (l *ToolList) MarkUnprepared(itemID uuid.UUID) error {
	for idx := range l.Items {
		if l.Items[idx].ID == itemID {
			l.Items[idx].MarkUnprepared()
			l.UpdatedAt = time.Now()
			l.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Tool list item not found")
}

// SetNotes sets the list notes
func (l *ToolList) SetNotes(notes string) {
	l.Notes = notes
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// IsReady returns true when every tool is checked off
func (l *ToolList) IsReady() bool {
	if len(l.Items) == 0 {
		return false
	}
	for _, item := range l.Items {
		if !item.Prepared {
			return false
		}
	}
	return true
}

// ItemCount returns the number of tools on the list
func (l *ToolList) ItemCount() int {
	return len(l.Items)
}
