package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mada_server_go/models"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"
)

// Categories - хранилище категорий to-do.
type Categories struct {
	db *sqlx.DB
}

// NewCategories создает хранилище категорий.
func NewCategories(db *sqlx.DB) *Categories {
	return &Categories{db: db}
}

// Create создает категорию и присваивает ей ID.
func (c *Categories) Create(ctx context.Context, category *models.Category) error {
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	query := `INSERT INTO Categories (UserId, Name, Color, IconId, CreatedAt, UpdatedAt)
	          VALUES (:UserId, :Name, :Color, :IconId, :CreatedAt, :UpdatedAt)`
	result, err := c.db.NamedExecContext(ctx, query, category)
	if err != nil {
		return fmt.Errorf("CreateCategory: ошибка вставки категории: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("CreateCategory: ошибка получения LastInsertId: %w", err)
	}
	category.ID = id
	return nil
}

// Update обновляет категорию. Поиск по ID и владельцу.
func (c *Categories) Update(ctx context.Context, category *models.Category) error {
	category.UpdatedAt = time.Now()

	query := `UPDATE Categories SET Name = :Name, Color = :Color, IconId = :IconId, UpdatedAt = :UpdatedAt
	          WHERE Id = :Id AND UserId = :UserId`
	result, err := c.db.NamedExecContext(ctx, query, category)
	if err != nil {
		return fmt.Errorf("UpdateCategory: ошибка обновления категории ID %d: %w", category.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return sql.ErrNoRows // Не найдено для обновления
	}
	return nil
}

// Delete удаляет категорию пользователя. Задачи категории удаляются каскадно.
func (c *Categories) Delete(ctx context.Context, userID, id int64) error {
	result, err := c.db.ExecContext(ctx, `DELETE FROM Categories WHERE Id = ? AND UserId = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("DeleteCategory: ошибка удаления категории ID %d: %w", id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return sql.ErrNoRows // Не найдено
	}
	return nil
}

// FindByUserAndID извлекает категорию пользователя по ID.
func (c *Categories) FindByUserAndID(ctx context.Context, userID, id int64) (mo.Option[models.Category], error) {
	var category models.Category
	query := `SELECT Id, UserId, Name, Color, IconId, CreatedAt, UpdatedAt
	          FROM Categories WHERE Id = ? AND UserId = ?`
	if err := c.db.GetContext(ctx, &category, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[models.Category](), nil // Категория не найдена
		}
		return mo.None[models.Category](), fmt.Errorf("GetCategoryByID: ошибка получения категории ID %d: %w", id, err)
	}
	return mo.Some(category), nil
}

// FindAllByUser возвращает все категории пользователя.
func (c *Categories) FindAllByUser(ctx context.Context, userID int64) ([]models.Category, error) {
	categories := []models.Category{}
	query := `SELECT Id, UserId, Name, Color, IconId, CreatedAt, UpdatedAt
	          FROM Categories WHERE UserId = ? ORDER BY Id ASC`
	if err := c.db.SelectContext(ctx, &categories, query, userID); err != nil {
		return nil, fmt.Errorf("GetAllCategories: ошибка получения категорий пользователя %d: %w", userID, err)
	}
	return categories, nil
}
