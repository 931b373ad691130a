package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"mada_server_go/models"

	"github.com/gorilla/mux"
)

// TodoManager - операции с задачами.
type TodoManager interface {
	Create(ctx context.Context, authID string, req models.TodoRequest) (*models.Todo, error)
	Update(ctx context.Context, authID string, id int64, req models.TodoRequest) (*models.Todo, error)
	Delete(ctx context.Context, authID string, id int64) error
	ListByDate(ctx context.Context, authID string, date models.Date) ([]models.Todo, error)
	Average(ctx context.Context, authID string, start, end models.Date) (models.TodoAverage, error)
}

// TodoController обрабатывает /api/todos.
type TodoController struct {
	todos  TodoManager
	logger *slog.Logger
}

// NewTodoController создает контроллер задач.
func NewTodoController(todos TodoManager, logger *slog.Logger) *TodoController {
	return &TodoController{todos: todos, logger: logger}
}

// Register регистрирует маршруты на защищенном подмаршрутизаторе /api.
func (c *TodoController) Register(r *mux.Router) {
	s := r.PathPrefix("/todos").Subrouter()
	s.HandleFunc("", c.Create).Methods(http.MethodPost)
	s.HandleFunc("/date/{date}", c.ListByDate).Methods(http.MethodGet)
	s.HandleFunc("/average", c.Average).Methods(http.MethodGet).Queries("start", "{start}", "end", "{end}")
	s.HandleFunc("/{id:[0-9]+}", c.Update).Methods(http.MethodPatch)
	s.HandleFunc("/{id:[0-9]+}", c.Delete).Methods(http.MethodDelete)
}

func (c *TodoController) Create(w http.ResponseWriter, r *http.Request) {
	authID, ok := requireAuthID(w, r)
	if !ok {
		return
	}
	var req models.TodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	todo, err := c.todos.Create(r.Context(), authID, req)
	if err != nil {
		respondServiceError(w, c.logger, "todo create", err)
		return
	}
	respondJSON(w, http.StatusCreated, todo)
}

func (c *TodoController) Update(w http.ResponseWriter, r *http.Request) {
	authID, ok := requireAuthID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.TodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	todo, err := c.todos.Update(r.Context(), authID, id, req)
	if err != nil {
		respondServiceError(w, c.logger, "todo update", err)
		return
	}
	respondJSON(w, http.StatusOK, todo)
}

func (c *TodoController) Delete(w http.ResponseWriter, r *http.Request) {
	authID, ok := requireAuthID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := c.todos.Delete(r.Context(), authID, id); err != nil {
		respondServiceError(w, c.logger, "todo delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *TodoController) ListByDate(w http.ResponseWriter, r *http.Request) {
	authID, ok := requireAuthID(w, r)
	if !ok {
		return
	}
	date, ok := parseDateParam(w, mux.Vars(r)["date"])
	if !ok {
		return
	}
	todos, err := c.todos.ListByDate(r.Context(), authID, date)
	if err != nil {
		respondServiceError(w, c.logger, "todo list", err)
		return
	}
	respondJSON(w, http.StatusOK, todos)
}

// Average - GET /api/todos/average?start=yyyy-MM-dd&end=yyyy-MM-dd
func (c *TodoController) Average(w http.ResponseWriter, r *http.Request) {
	authID, ok := requireAuthID(w, r)
	if !ok {
		return
	}
	start, ok := parseDateParam(w, mux.Vars(r)["start"])
	if !ok {
		return
	}
	end, ok := parseDateParam(w, mux.Vars(r)["end"])
	if !ok {
		return
	}
	avg, err := c.todos.Average(r.Context(), authID, start, end)
	if err != nil {
		respondServiceError(w, c.logger, "todo average", err)
		return
	}
	respondJSON(w, http.StatusOK, avg)
}
