package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"todoapi/internal/model"
	"todoapi/internal/repository"
)

var (
	ErrTodoNotFound       = errors.New("todo not found")
	ErrTitleRequired      = errors.New("title is required")
	ErrTitleTooLong       = fmt.Errorf("title cannot exceed %d characters", model.MaxTitleLen)
	ErrDescriptionTooLong = fmt.Errorf("description cannot exceed %d characters", model.MaxDescriptionLen)
	ErrInvalidPriority    = errors.New("priority must be low, medium, or high")
)

type TodoService struct {
	todoRepo     *repository.TodoRepository
	activityRepo *repository.ActivityRepository
	publisher    ActivityPublisher
	statsCache   StatsCache
}

// ActivityPublisher hands mutation events to the broker. Publishing is
// best-effort: a broker outage must not fail the originating request.
type ActivityPublisher interface {
	Publish(ctx context.Context, event model.Activity) error
}

type StatsCache interface {
	Get(ctx context.Context, userID uint, dest interface{}) (bool, error)
	Set(ctx context.Context, userID uint, stats interface{}) error
	Invalidate(ctx context.Context, userID uint) error
}

type CreateTodoInput struct {
	UserID      uint
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
	Tags        []string
	Category    string
}

// UpdateTodoInput is a partial update: nil pointers mean "leave alone".
// Description and DueDate carry an explicit Set flag because an absent
// field and an explicit null/empty value mean different things for them.
type UpdateTodoInput struct {
	Title          *string
	Description    *string
	DescriptionSet bool
	Completed      *bool
	Priority       *string
	DueDate        *time.Time
	DueDateSet     bool
	Tags           []string
	TagsSet        bool
	Category       *string
}

type TodoStats struct {
	Total          int64                      `json:"total"`
	Completed      int64                      `json:"completed"`
	Pending        int64                      `json:"pending"`
	CompletionRate float64                    `json:"completion_rate"`
	PriorityStats  []repository.PriorityCount `json:"priority_stats"`
	CategoryStats  []repository.CategoryCount `json:"category_stats"`
}

func NewTodoService(
	todoRepo *repository.TodoRepository,
	activityRepo *repository.ActivityRepository,
	publisher ActivityPublisher,
	statsCache StatsCache,
) *TodoService {
	return &TodoService{
		todoRepo:     todoRepo,
		activityRepo: activityRepo,
		publisher:    publisher,
		statsCache:   statsCache,
	}
}

func (s *TodoService) Create(ctx context.Context, input CreateTodoInput) (*model.Todo, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if len(title) > model.MaxTitleLen {
		return nil, ErrTitleTooLong
	}

	description := strings.TrimSpace(input.Description)
	if len(description) > model.MaxDescriptionLen {
		return nil, ErrDescriptionTooLong
	}

	priority := input.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !model.ValidPriority(priority) {
		return nil, ErrInvalidPriority
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = model.DefaultCategory
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	todo := &model.Todo{
		UserID:      input.UserID,
		Title:       title,
		Description: description,
		Priority:    priority,
		DueDate:     input.DueDate,
		Tags:        tags,
		Category:    category,
	}
	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, err
	}

	s.afterMutation(ctx, todo, model.ActivityCreated)
	return todo, nil
}

func (s *TodoService) Get(ctx context.Context, userID, todoID uint) (*model.Todo, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	// A non-numeric or zero id behaves like any other missing resource.
	if todoID == 0 {
		return nil, ErrTodoNotFound
	}
	todo, err := s.todoRepo.GetByIDAndUserID(ctx, todoID, userID)
	if err != nil {
		return nil, err
	}
	if todo == nil {
		return nil, ErrTodoNotFound
	}
	return todo, nil
}

func (s *TodoService) List(ctx context.Context, userID uint, filter repository.TodoFilter) (*repository.TodoPage, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	if filter.Priority != "" && !model.ValidPriority(filter.Priority) {
		return nil, ErrInvalidPriority
	}
	return s.todoRepo.ListByUserID(ctx, userID, filter)
}

func (s *TodoService) Update(ctx context.Context, userID, todoID uint, input UpdateTodoInput) (*model.Todo, error) {
	todo, err := s.Get(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		if len(title) > model.MaxTitleLen {
			return nil, ErrTitleTooLong
		}
		todo.Title = title
	}
	if input.DescriptionSet {
		description := ""
		if input.Description != nil {
			description = strings.TrimSpace(*input.Description)
		}
		if len(description) > model.MaxDescriptionLen {
			return nil, ErrDescriptionTooLong
		}
		todo.Description = description
	}
	if input.Completed != nil {
		todo.Completed = *input.Completed
	}
	if input.Priority != nil {
		if !model.ValidPriority(*input.Priority) {
			return nil, ErrInvalidPriority
		}
		todo.Priority = *input.Priority
	}
	if input.DueDateSet {
		todo.DueDate = input.DueDate
	}
	if input.TagsSet {
		tags := input.Tags
		if tags == nil {
			tags = []string{}
		}
		todo.Tags = tags
	}
	if input.Category != nil {
		category := strings.TrimSpace(*input.Category)
		if category == "" {
			category = model.DefaultCategory
		}
		todo.Category = category
	}

	todo.UpdatedAt = time.Now()
	if err := s.todoRepo.Save(ctx, todo); err != nil {
		return nil, err
	}

	s.afterMutation(ctx, todo, model.ActivityUpdated)
	return todo, nil
}

func (s *TodoService) Delete(ctx context.Context, userID, todoID uint) error {
	todo, err := s.Get(ctx, userID, todoID)
	if err != nil {
		return err
	}

	deleted, err := s.todoRepo.DeleteByIDAndUserID(ctx, todoID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTodoNotFound
	}

	s.afterMutation(ctx, todo, model.ActivityDeleted)
	return nil
}

func (s *TodoService) Toggle(ctx context.Context, userID, todoID uint) (*model.Todo, error) {
	todo, err := s.Get(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}

	todo.Completed = !todo.Completed
	todo.UpdatedAt = time.Now()
	if err := s.todoRepo.Save(ctx, todo); err != nil {
		return nil, err
	}

	s.afterMutation(ctx, todo, model.ActivityToggled)
	return todo, nil
}

func (s *TodoService) Stats(ctx context.Context, userID uint) (*TodoStats, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}

	if s.statsCache != nil {
		var cached TodoStats
		if hit, err := s.statsCache.Get(ctx, userID, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	total, err := s.todoRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	completed, err := s.todoRepo.CountCompletedByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	priorityStats, err := s.todoRepo.CountByPriority(ctx, userID)
	if err != nil {
		return nil, err
	}
	categoryStats, err := s.todoRepo.CountByCategory(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &TodoStats{
		Total:         total,
		Completed:     completed,
		Pending:       total - completed,
		PriorityStats: priorityStats,
		CategoryStats: categoryStats,
	}
	if total > 0 {
		stats.CompletionRate = float64(completed) / float64(total) * 100
	}

	if s.statsCache != nil {
		if err := s.statsCache.Set(ctx, userID, stats); err != nil {
			log.Printf("cache stats failed: %v", err)
		}
	}
	return stats, nil
}

func (s *TodoService) ListActivity(ctx context.Context, userID uint, limit int) ([]model.Activity, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.activityRepo.ListRecentByUserID(ctx, userID, limit)
}

func (s *TodoService) afterMutation(ctx context.Context, todo *model.Todo, action string) {
	if s.statsCache != nil {
		if err := s.statsCache.Invalidate(ctx, todo.UserID); err != nil {
			log.Printf("invalidate stats cache failed: %v", err)
		}
	}
	if s.publisher != nil {
		event := model.Activity{
			UserID: todo.UserID,
			TodoID: todo.ID,
			Action: action,
			Title:  todo.Title,
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.Printf("publish activity failed: %v", err)
		}
	}
}
