package repository

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"todoapi/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Todo{}, &model.Activity{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func seedTodos(t *testing.T, repo *TodoRepository, userID uint, todos []model.Todo) {
	t.Helper()
	for i := range todos {
		todos[i].UserID = userID
		if todos[i].Priority == "" {
			todos[i].Priority = model.PriorityMedium
		}
		if todos[i].Category == "" {
			todos[i].Category = model.DefaultCategory
		}
		if err := repo.Create(context.Background(), &todos[i]); err != nil {
			t.Fatalf("seed todo failed: %v", err)
		}
	}
}

func TestListByUserIDOwnerScoping(t *testing.T) {
	repo := NewTodoRepository(newTestDB(t))
	ctx := context.Background()

	seedTodos(t, repo, 1, []model.Todo{{Title: "mine"}})
	seedTodos(t, repo, 2, []model.Todo{{Title: "theirs"}, {Title: "also theirs"}})

	page, err := repo.ListByUserID(ctx, 1, TodoFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 1 {
		t.Errorf("Total = %d, want 1", page.Total)
	}
	if len(page.Todos) != 1 || page.Todos[0].Title != "mine" {
		t.Errorf("got %+v, want only the owner's todo", page.Todos)
	}
}

func TestListByUserIDSearch(t *testing.T) {
	repo := NewTodoRepository(newTestDB(t))
	ctx := context.Background()

	seedTodos(t, repo, 1, []model.Todo{
		{Title: "Buy Milk"},
		{Title: "clean house", Description: "including the MILK spill"},
		{Title: "walk dog"},
	})

	page, err := repo.ListByUserID(ctx, 1, TodoFilter{Search: "milk"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("Total = %d, want 2 (case-insensitive match on title and description)", page.Total)
	}
}

func TestListByUserIDFilters(t *testing.T) {
	repo := NewTodoRepository(newTestDB(t))
	ctx := context.Background()

	completed := true
	seedTodos(t, repo, 1, []model.Todo{
		{Title: "a", Completed: true, Priority: model.PriorityHigh, Category: "work"},
		{Title: "b", Completed: false, Priority: model.PriorityHigh, Category: "home"},
		{Title: "c", Completed: true, Priority: model.PriorityLow, Category: "work"},
	})

	tests := []struct {
		name   string
		filter TodoFilter
		want   int64
	}{
		{"no filters", TodoFilter{}, 3},
		{"completed", TodoFilter{Completed: &completed}, 2},
		{"priority", TodoFilter{Priority: model.PriorityHigh}, 2},
		{"category", TodoFilter{Category: "work"}, 2},
		{"combined", TodoFilter{Completed: &completed, Category: "work"}, 2},
		{"combined narrow", TodoFilter{Completed: &completed, Priority: model.PriorityHigh}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repo.ListByUserID(ctx, 1, tt.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if page.Total != tt.want {
				t.Errorf("Total = %d, want %d", page.Total, tt.want)
			}
		})
	}
}

func TestListByUserIDPagination(t *testing.T) {
	repo := NewTodoRepository(newTestDB(t))
	ctx := context.Background()

	var todos []model.Todo
	for i := 0; i < 12; i++ {
		todos = append(todos, model.Todo{Title: fmt.Sprintf("todo %02d", i)})
	}
	seedTodos(t, repo, 1, todos)

	page, err := repo.ListByUserID(ctx, 1, TodoFilter{Page: 2, Limit: 5, SortBy: "title", SortOrder: "asc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Todos) != 5 {
		t.Errorf("len(Todos) = %d, want 5", len(page.Todos))
	}
	if page.Total != 12 {
		t.Errorf("Total = %d, want 12", page.Total)
	}
	if page.Pages != 3 {
		t.Errorf("Pages = %d, want 3", page.Pages)
	}
	if page.Todos[0].Title != "todo 05" {
		t.Errorf("first item = %q, want todo 05", page.Todos[0].Title)
	}

	// Last page holds the remainder.
	last, err := repo.ListByUserID(ctx, 1, TodoFilter{Page: 3, Limit: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(last.Todos) != 2 {
		t.Errorf("len(Todos) = %d, want 2", len(last.Todos))
	}
}

func TestListByUserIDNormalizesBadParams(t *testing.T) {
	repo := NewTodoRepository(newTestDB(t))
	ctx := context.Background()

	seedTodos(t, repo, 1, []model.Todo{{Title: "only"}})

	tests := []struct {
		name   string
		filter TodoFilter
	}{
		{"zero page and limit", TodoFilter{Page: 0, Limit: 0}},
		{"negative page", TodoFilter{Page: -3, Limit: -1}},
		{"unknown sort column", TodoFilter{SortBy: "password_hash; DROP TABLE todos"}},
		{"unknown sort order", TodoFilter{SortOrder: "sideways"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repo.ListByUserID(ctx, 1, tt.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if page.Page != DefaultPage || page.Limit != DefaultLimit {
				t.Errorf("page/limit = %d/%d, want defaults %d/%d", page.Page, page.Limit, DefaultPage, DefaultLimit)
			}
			if page.Total != 1 {
				t.Errorf("Total = %d, want 1", page.Total)
			}
		})
	}
}

func TestListByUserIDEmpty(t *testing.T) {
	repo := NewTodoRepository(newTestDB(t))

	page, err := repo.ListByUserID(context.Background(), 1, TodoFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 0 {
		t.Errorf("Total = %d, want 0", page.Total)
	}
	if page.Pages != 0 {
		t.Errorf("Pages = %d, want 0", page.Pages)
	}
}

func TestGetByIDAndUserIDOtherOwner(t *testing.T) {
	repo := NewTodoRepository(newTestDB(t))
	ctx := context.Background()

	todos := []model.Todo{{Title: "secret"}}
	seedTodos(t, repo, 1, todos)

	todo, err := repo.GetByIDAndUserID(ctx, todos[0].ID, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if todo != nil {
		t.Error("other user's lookup should behave like not found")
	}
}

func TestDeleteByIDAndUserID(t *testing.T) {
	repo := NewTodoRepository(newTestDB(t))
	ctx := context.Background()

	todos := []model.Todo{{Title: "doomed"}}
	seedTodos(t, repo, 1, todos)

	deleted, err := repo.DeleteByIDAndUserID(ctx, todos[0].ID, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("first delete should report a removed row")
	}

	deleted, err = repo.DeleteByIDAndUserID(ctx, todos[0].ID, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted {
		t.Error("second delete should report nothing removed")
	}
}

func TestCountGroupings(t *testing.T) {
	repo := NewTodoRepository(newTestDB(t))
	ctx := context.Background()

	seedTodos(t, repo, 1, []model.Todo{
		{Title: "a", Priority: model.PriorityHigh, Category: "work", Completed: true},
		{Title: "b", Priority: model.PriorityHigh, Category: "home"},
		{Title: "c", Priority: model.PriorityLow, Category: "work"},
	})

	total, err := repo.CountByUserID(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}

	completed, err := repo.CountCompletedByUserID(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completed != 1 {
		t.Errorf("completed = %d, want 1", completed)
	}

	priorities, err := repo.CountByPriority(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var prioritySum int64
	for _, pc := range priorities {
		prioritySum += pc.Count
	}
	if prioritySum != total {
		t.Errorf("priority counts sum = %d, want %d", prioritySum, total)
	}

	categories, err := repo.CountByCategory(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var categorySum int64
	for _, cc := range categories {
		categorySum += cc.Count
	}
	if categorySum != total {
		t.Errorf("category counts sum = %d, want %d", categorySum, total)
	}
}
