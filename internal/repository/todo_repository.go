package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"todoapi/internal/model"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// TodoFilter carries the optional listing parameters. Filter, sort and
// pagination are independent axes: each field narrows the owner-scoped
// result set when set and is a no-op otherwise.
type TodoFilter struct {
	Search    string
	Completed *bool
	Priority  string
	Category  string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// sortColumns whitelists the JSON field names callers may sort by.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"dueDate":   "due_date",
	"title":     "title",
	"priority":  "priority",
	"completed": "completed",
	"category":  "category",
}

func (f *TodoFilter) normalize() {
	if f.Page <= 0 {
		f.Page = DefaultPage
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if _, ok := sortColumns[f.SortBy]; !ok {
		f.SortBy = "createdAt"
	}
	if f.SortOrder != "asc" {
		f.SortOrder = "desc"
	}
}

type TodoPage struct {
	Todos []model.Todo
	Page  int
	Limit int
	Total int64
	Pages int
}

type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int64  `json:"count"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type TodoRepository struct {
	db *gorm.DB
}

func NewTodoRepository(db *gorm.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) Create(ctx context.Context, todo *model.Todo) error {
	if err := r.db.WithContext(ctx).Create(todo).Error; err != nil {
		return fmt.Errorf("create todo failed: %w", err)
	}
	return nil
}

func (r *TodoRepository) GetByIDAndUserID(ctx context.Context, todoID, userID uint) (*model.Todo, error) {
	var todo model.Todo
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", todoID, userID).First(&todo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get todo failed: %w", err)
	}
	return &todo, nil
}

func (r *TodoRepository) Save(ctx context.Context, todo *model.Todo) error {
	if err := r.db.WithContext(ctx).Save(todo).Error; err != nil {
		return fmt.Errorf("save todo failed: %w", err)
	}
	return nil
}

// DeleteByIDAndUserID reports whether a row was actually removed so the
// service can answer a repeated delete with not-found.
func (r *TodoRepository) DeleteByIDAndUserID(ctx context.Context, todoID, userID uint) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", todoID, userID).Delete(&model.Todo{})
	if result.Error != nil {
		return false, fmt.Errorf("delete todo failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListByUserID runs the filtered, sorted, paginated listing plus the
// matching unpaginated count.
func (r *TodoRepository) ListByUserID(ctx context.Context, userID uint, filter TodoFilter) (*TodoPage, error) {
	filter.normalize()

	var total int64
	if err := r.buildFilterQuery(ctx, userID, filter).Model(&model.Todo{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count todos failed: %w", err)
	}

	column := sortColumns[filter.SortBy]
	offset := (filter.Page - 1) * filter.Limit

	var todos []model.Todo
	if err := r.buildFilterQuery(ctx, userID, filter).
		Order(fmt.Sprintf("%s %s", column, strings.ToUpper(filter.SortOrder))).
		Offset(offset).
		Limit(filter.Limit).
		Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("list todos failed: %w", err)
	}

	pages := 0
	if total > 0 {
		pages = int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	}

	return &TodoPage{
		Todos: todos,
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
		Pages: pages,
	}, nil
}

func (r *TodoRepository) buildFilterQuery(ctx context.Context, userID uint, filter TodoFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filter.Completed != nil {
		query = query.Where("completed = ?", *filter.Completed)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	return query
}

func (r *TodoRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Todo{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count todos failed: %w", err)
	}
	return total, nil
}

func (r *TodoRepository) CountCompletedByUserID(ctx context.Context, userID uint) (int64, error) {
	var completed int64
	if err := r.db.WithContext(ctx).Model(&model.Todo{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&completed).Error; err != nil {
		return 0, fmt.Errorf("count completed todos failed: %w", err)
	}
	return completed, nil
}

func (r *TodoRepository) CountByPriority(ctx context.Context, userID uint) ([]PriorityCount, error) {
	var counts []PriorityCount
	if err := r.db.WithContext(ctx).Model(&model.Todo{}).
		Select("priority, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("priority").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("group todos by priority failed: %w", err)
	}
	return counts, nil
}

func (r *TodoRepository) CountByCategory(ctx context.Context, userID uint) ([]CategoryCount, error) {
	var counts []CategoryCount
	if err := r.db.WithContext(ctx).Model(&model.Todo{}).
		Select("category, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("category").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("group todos by category failed: %w", err)
	}
	return counts, nil
}
