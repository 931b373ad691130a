package services

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"mada_server_go/models"

	"github.com/samber/mo"
)

// MaxCategoryNameLength - максимальная длина имени категории в символах.
const MaxCategoryNameLength = 30

// CategoryStore - хранилище категорий.
type CategoryStore interface {
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, userID, id int64) error
	FindByUserAndID(ctx context.Context, userID, id int64) (mo.Option[models.Category], error)
	FindAllByUser(ctx context.Context, userID int64) ([]models.Category, error)
}

// CategoryService управляет категориями to-do пользователя.
type CategoryService struct {
	users  UserDirectory
	store  CategoryStore
	logger *slog.Logger
}

// NewCategoryService создает сервис категорий.
func NewCategoryService(users UserDirectory, store CategoryStore, logger *slog.Logger) *CategoryService {
	return &CategoryService{users: users, store: store, logger: logger}
}

// Create создает категорию. Имя обязательно.
func (s *CategoryService) Create(ctx context.Context, authID string, req models.CategoryRequest) (*models.Category, error) {
	user, err := s.users.ResolveUser(ctx, authID)
	if err != nil {
		return nil, err
	}
	if req.CategoryName == nil {
		return nil, ErrInvalidCategoryName
	}
	if err := validateCategoryName(*req.CategoryName); err != nil {
		return nil, err
	}

	category := &models.Category{
		UserID: user.ID,
		Name:   *req.CategoryName,
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.IconID != nil {
		category.IconID = *req.IconID
	}
	if err := s.store.Create(ctx, category); err != nil {
		return nil, err
	}
	s.logger.Info("category created", "user_id", user.ID, "id", category.ID)
	return category, nil
}

// Update меняет только переданные поля категории.
func (s *CategoryService) Update(ctx context.Context, authID string, id int64, req models.CategoryRequest) (*models.Category, error) {
	user, err := s.users.ResolveUser(ctx, authID)
	if err != nil {
		return nil, err
	}
	category, err := s.find(ctx, user.ID, id)
	if err != nil {
		return nil, err
	}

	if req.CategoryName != nil {
		if err := validateCategoryName(*req.CategoryName); err != nil {
			return nil, err
		}
		category.Name = *req.CategoryName
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.IconID != nil {
		category.IconID = *req.IconID
	}
	if err := s.store.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete удаляет категорию вместе с ее задачами.
func (s *CategoryService) Delete(ctx context.Context, authID string, id int64) error {
	user, err := s.users.ResolveUser(ctx, authID)
	if err != nil {
		return err
	}
	if _, err := s.find(ctx, user.ID, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, user.ID, id); err != nil {
		return err
	}
	s.logger.Info("category deleted", "user_id", user.ID, "id", id)
	return nil
}

// Get возвращает категорию пользователя.
func (s *CategoryService) Get(ctx context.Context, authID string, id int64) (*models.Category, error) {
	user, err := s.users.ResolveUser(ctx, authID)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, user.ID, id)
}

// List возвращает все категории пользователя.
func (s *CategoryService) List(ctx context.Context, authID string) ([]models.Category, error) {
	user, err := s.users.ResolveUser(ctx, authID)
	if err != nil {
		return nil, err
	}
	return s.store.FindAllByUser(ctx, user.ID)
}

func (s *CategoryService) find(ctx context.Context, userID, id int64) (*models.Category, error) {
	found, err := s.store.FindByUserAndID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	category, ok := found.Get()
	if !ok {
		return nil, ErrCategoryNotFound
	}
	return &category, nil
}

func validateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" || utf8.RuneCountInString(name) > MaxCategoryNameLength {
		return ErrInvalidCategoryName
	}
	return nil
}
