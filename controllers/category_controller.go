package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"mada_server_go/models"

	"github.com/gorilla/mux"
)

// CategoryManager - операции с категориями.
type CategoryManager interface {
	Create(ctx context.Context, authID string, req models.CategoryRequest) (*models.Category, error)
	Update(ctx context.Context, authID string, id int64, req models.CategoryRequest) (*models.Category, error)
	Delete(ctx context.Context, authID string, id int64) error
	Get(ctx context.Context, authID string, id int64) (*models.Category, error)
	List(ctx context.Context, authID string) ([]models.Category, error)
}

// CategoryController обрабатывает /api/categories.
type CategoryController struct {
	categories CategoryManager
	logger     *slog.Logger
}

// NewCategoryController создает контроллер категорий.
func NewCategoryController(categories CategoryManager, logger *slog.Logger) *CategoryController {
	return &CategoryController{categories: categories, logger: logger}
}

// Register регистрирует маршруты на защищенном подмаршрутизаторе /api.
func (c *CategoryController) Register(r *mux.Router) {
	s := r.PathPrefix("/categories").Subrouter()
	s.HandleFunc("", c.List).Methods(http.MethodGet)
	s.HandleFunc("", c.Create).Methods(http.MethodPost)
	s.HandleFunc("/{id:[0-9]+}", c.Get).Methods(http.MethodGet)
	s.HandleFunc("/{id:[0-9]+}", c.Update).Methods(http.MethodPatch)
	s.HandleFunc("/{id:[0-9]+}", c.Delete).Methods(http.MethodDelete)
}

func (c *CategoryController) List(w http.ResponseWriter, r *http.Request) {
	authID, ok := requireAuthID(w, r)
	if !ok {
		return
	}
	categories, err := c.categories.List(r.Context(), authID)
	if err != nil {
		respondServiceError(w, c.logger, "category list", err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func (c *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	authID, ok := requireAuthID(w, r)
	if !ok {
		return
	}
	var req models.CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	category, err := c.categories.Create(r.Context(), authID, req)
	if err != nil {
		respondServiceError(w, c.logger, "category create", err)
		return
	}
	respondJSON(w, http.StatusCreated, category)
}

func (c *CategoryController) Get(w http.ResponseWriter, r *http.Request) {
	authID, ok := requireAuthID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	category, err := c.categories.Get(r.Context(), authID, id)
	if err != nil {
		respondServiceError(w, c.logger, "category get", err)
		return
	}
	respondJSON(w, http.StatusOK, category)
}

func (c *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	authID, ok := requireAuthID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	category, err := c.categories.Update(r.Context(), authID, id, req)
	if err != nil {
		respondServiceError(w, c.logger, "category update", err)
		return
	}
	respondJSON(w, http.StatusOK, category)
}

func (c *CategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	authID, ok := requireAuthID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := c.categories.Delete(r.Context(), authID, id); err != nil {
		respondServiceError(w, c.logger, "category delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
