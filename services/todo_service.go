package services

import (
	"context"
	"log/slog"
	"strings"

	"mada_server_go/models"

	"github.com/samber/mo"
)

// TodoStore - хранилище задач.
type TodoStore interface {
	Create(ctx context.Context, todo *models.Todo) error
	Update(ctx context.Context, todo *models.Todo) error
	Delete(ctx context.Context, userID, id int64) error
	FindByUserAndID(ctx context.Context, userID, id int64) (mo.Option[models.Todo], error)
	FindAllByUserAndDate(ctx context.Context, userID int64, date models.Date) ([]models.Todo, error)
	FindAllByUserBetween(ctx context.Context, userID int64, start, end models.Date) ([]models.Todo, error)
}

// TodoService управляет задачами пользователя и считает статистику их выполнения.
type TodoService struct {
	users      UserDirectory
	store      TodoStore
	categories CategoryStore
	logger     *slog.Logger
}

// NewTodoService создает сервис задач.
func NewTodoService(users UserDirectory, store TodoStore, categories CategoryStore, logger *slog.Logger) *TodoService {
	return &TodoService{users: users, store: store, categories: categories, logger: logger}
}

// Create создает задачу в категории пользователя.
func (s *TodoService) Create(ctx context.Context, authID string, req models.TodoRequest) (*models.Todo, error) {
	user, err := s.users.ResolveUser(ctx, authID)
	if err != nil {
		return nil, err
	}
	if req.CategoryID == nil || req.Date == nil || req.Date.IsZero() || req.TodoName == nil {
		return nil, ErrMissingFields
	}
	if strings.TrimSpace(*req.TodoName) == "" {
		return nil, ErrInvalidName
	}
	if err := s.checkCategory(ctx, user.ID, *req.CategoryID); err != nil {
		return nil, err
	}

	todo := &models.Todo{
		UserID:     user.ID,
		CategoryID: *req.CategoryID,
		Date:       *req.Date,
		Name:       *req.TodoName,
	}
	if req.Complete != nil {
		todo.Complete = *req.Complete
	}
	if req.Repeat != nil {
		todo.Repeat = *req.Repeat
	}
	if err := s.store.Create(ctx, todo); err != nil {
		return nil, err
	}
	s.logger.Info("todo created", "user_id", user.ID, "id", todo.ID)
	return todo, nil
}

// Update меняет только переданные поля задачи.
func (s *TodoService) Update(ctx context.Context, authID string, id int64, req models.TodoRequest) (*models.Todo, error) {
	user, err := s.users.ResolveUser(ctx, authID)
	if err != nil {
		return nil, err
	}
	found, err := s.store.FindByUserAndID(ctx, user.ID, id)
	if err != nil {
		return nil, err
	}
	todo, ok := found.Get()
	if !ok {
		return nil, ErrTodoNotFound
	}

	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, user.ID, *req.CategoryID); err != nil {
			return nil, err
		}
		todo.CategoryID = *req.CategoryID
	}
	if req.Date != nil && !req.Date.IsZero() {
		todo.Date = *req.Date
	}
	if req.TodoName != nil {
		if strings.TrimSpace(*req.TodoName) == "" {
			return nil, ErrInvalidName
		}
		todo.Name = *req.TodoName
	}
	if req.Complete != nil {
		todo.Complete = *req.Complete
	}
	if req.Repeat != nil {
		todo.Repeat = *req.Repeat
	}
	if err := s.store.Update(ctx, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// Delete удаляет задачу пользователя.
func (s *TodoService) Delete(ctx context.Context, authID string, id int64) error {
	user, err := s.users.ResolveUser(ctx, authID)
	if err != nil {
		return err
	}
	found, err := s.store.FindByUserAndID(ctx, user.ID, id)
	if err != nil {
		return err
	}
	if found.IsAbsent() {
		return ErrTodoNotFound
	}
	return s.store.Delete(ctx, user.ID, id)
}

// ListByDate возвращает задачи пользователя на день.
func (s *TodoService) ListByDate(ctx context.Context, authID string, date models.Date) ([]models.Todo, error) {
	user, err := s.users.ResolveUser(ctx, authID)
	if err != nil {
		return nil, err
	}
	return s.store.FindAllByUserAndDate(ctx, user.ID, date)
}

// Average считает за [start, end] долю дней, в которые есть хотя бы одна задача,
// и долю выполненных задач. Оба значения в процентах.
func (s *TodoService) Average(ctx context.Context, authID string, start, end models.Date) (models.TodoAverage, error) {
	user, err := s.users.ResolveUser(ctx, authID)
	if err != nil {
		return models.TodoAverage{}, err
	}
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return models.TodoAverage{}, ErrInvalidDateRange
	}
	todos, err := s.store.FindAllByUserBetween(ctx, user.ID, start, end)
	if err != nil {
		return models.TodoAverage{}, err
	}
	return todoAverage(todos, start, end), nil
}

func todoAverage(todos []models.Todo, start, end models.Date) models.TodoAverage {
	var avg models.TodoAverage
	if len(todos) == 0 {
		return avg
	}

	days := int(end.Time().Sub(start.Time()).Hours()/24) + 1
	busy := make(map[string]struct{})
	completed := 0
	for _, t := range todos {
		busy[t.Date.String()] = struct{}{}
		if t.Complete {
			completed++
		}
	}

	avg.TodosPercent = float64(len(busy)) / float64(days) * 100
	avg.CompleteTodoPercent = float64(completed) / float64(len(todos)) * 100
	return avg
}

func (s *TodoService) checkCategory(ctx context.Context, userID, categoryID int64) error {
	found, err := s.categories.FindByUserAndID(ctx, userID, categoryID)
	if err != nil {
		return err
	}
	if found.IsAbsent() {
		return ErrCategoryNotFound
	}
	return nil
}
