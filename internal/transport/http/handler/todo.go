package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"todoapi/internal/app"
	"todoapi/internal/repository"
	"todoapi/internal/transport/http/middleware"
	"todoapi/internal/transport/http/response"
)

type TodoHandler struct {
	todoService *app.TodoService
	production  bool
}

// No binding constraints: the service validates the fields so every
// violation gets its own message instead of a generic binding error.
type CreateTodoRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	Tags        []string   `json:"tags"`
	Category    string     `json:"category"`
}

func NewTodoHandler(todoService *app.TodoService, production bool) *TodoHandler {
	return &TodoHandler{todoService: todoService, production: production}
}

func (h *TodoHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token")
		return
	}

	filter := repository.TodoFilter{
		Search:    c.Query("search"),
		Priority:  c.Query("priority"),
		Category:  c.Query("category"),
		SortBy:    c.DefaultQuery("sortBy", "createdAt"),
		SortOrder: c.DefaultQuery("sortOrder", "desc"),
		Page:      intQuery(c, "page"),
		Limit:     intQuery(c, "limit"),
	}
	if raw, exists := c.GetQuery("completed"); exists {
		if completed, err := strconv.ParseBool(raw); err == nil {
			filter.Completed = &completed
		}
	}

	page, err := h.todoService.List(c.Request.Context(), user.ID, filter)
	if err != nil {
		if errors.Is(err, app.ErrInvalidPriority) {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		response.Internal(c, "list todos failed", err, h.production)
		return
	}

	response.List(c, len(page.Todos), gin.H{
		"todos": page.Todos,
		"pagination": gin.H{
			"page":  page.Page,
			"limit": page.Limit,
			"total": page.Total,
			"pages": page.Pages,
		},
	})
}

func (h *TodoHandler) Get(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token")
		return
	}

	todo, err := h.todoService.Get(c.Request.Context(), user.ID, pathID(c))
	if err != nil {
		h.todoError(c, err, "get todo failed")
		return
	}
	response.OK(c, todo)
}

func (h *TodoHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token")
		return
	}

	var req CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	todo, err := h.todoService.Create(c.Request.Context(), app.CreateTodoInput{
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
		Category:    req.Category,
	})
	if err != nil {
		h.todoError(c, err, "create todo failed")
		return
	}
	response.Created(c, todo)
}

// Update applies only the fields present in the request body. Decoding
// into a raw map first keeps "absent" distinguishable from an explicit
// null, which matters when clearing description or due_date.
func (h *TodoHandler) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token")
		return
	}

	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	input, err := decodeUpdateInput(raw)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	todo, err := h.todoService.Update(c.Request.Context(), user.ID, pathID(c), input)
	if err != nil {
		h.todoError(c, err, "update todo failed")
		return
	}
	response.OK(c, todo)
}

func (h *TodoHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token")
		return
	}

	if err := h.todoService.Delete(c.Request.Context(), user.ID, pathID(c)); err != nil {
		h.todoError(c, err, "delete todo failed")
		return
	}
	response.Message(c, "todo removed")
}

func (h *TodoHandler) Toggle(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token")
		return
	}

	todo, err := h.todoService.Toggle(c.Request.Context(), user.ID, pathID(c))
	if err != nil {
		h.todoError(c, err, "toggle todo failed")
		return
	}
	response.OK(c, todo)
}

func (h *TodoHandler) Stats(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token")
		return
	}

	stats, err := h.todoService.Stats(c.Request.Context(), user.ID)
	if err != nil {
		response.Internal(c, "todo stats failed", err, h.production)
		return
	}
	response.OK(c, stats)
}

func (h *TodoHandler) Activity(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token")
		return
	}

	events, err := h.todoService.ListActivity(c.Request.Context(), user.ID, intQuery(c, "limit"))
	if err != nil {
		response.Internal(c, "list activity failed", err, h.production)
		return
	}
	response.List(c, len(events), gin.H{"activity": events})
}

func (h *TodoHandler) todoError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrTodoNotFound):
		response.Error(c, http.StatusNotFound, "todo not found")
	case errors.Is(err, app.ErrTitleRequired),
		errors.Is(err, app.ErrTitleTooLong),
		errors.Is(err, app.ErrDescriptionTooLong),
		errors.Is(err, app.ErrInvalidPriority),
		errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, err.Error())
	default:
		response.Internal(c, fallback, err, h.production)
	}
}

func decodeUpdateInput(raw map[string]json.RawMessage) (app.UpdateTodoInput, error) {
	var input app.UpdateTodoInput

	if value, ok := raw["title"]; ok {
		if err := json.Unmarshal(value, &input.Title); err != nil {
			return input, err
		}
	}
	if value, ok := raw["description"]; ok {
		input.DescriptionSet = true
		if err := json.Unmarshal(value, &input.Description); err != nil {
			return input, err
		}
	}
	if value, ok := raw["completed"]; ok {
		if err := json.Unmarshal(value, &input.Completed); err != nil {
			return input, err
		}
	}
	if value, ok := raw["priority"]; ok {
		if err := json.Unmarshal(value, &input.Priority); err != nil {
			return input, err
		}
	}
	if value, ok := raw["due_date"]; ok {
		input.DueDateSet = true
		if err := json.Unmarshal(value, &input.DueDate); err != nil {
			return input, err
		}
	}
	if value, ok := raw["tags"]; ok {
		input.TagsSet = true
		if err := json.Unmarshal(value, &input.Tags); err != nil {
			return input, err
		}
	}
	if value, ok := raw["category"]; ok {
		if err := json.Unmarshal(value, &input.Category); err != nil {
			return input, err
		}
	}
	return input, nil
}

func pathID(c *gin.Context) uint {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

func intQuery(c *gin.Context, key string) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return value
}
