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

const todoColumns = `Id, UserId, CategoryId, Date, Name, Complete, Repetition, CreatedAt, UpdatedAt`

// Todos - хранилище задач.
type Todos struct {
	db *sqlx.DB
}

// NewTodos создает хранилище задач.
func NewTodos(db *sqlx.DB) *Todos {
	return &Todos{db: db}
}

// Create создает задачу и присваивает ей ID.
func (t *Todos) Create(ctx context.Context, todo *models.Todo) error {
	now := time.Now()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	query := `INSERT INTO Todos (UserId, CategoryId, Date, Name, Complete, Repetition, CreatedAt, UpdatedAt)
	          VALUES (:UserId, :CategoryId, :Date, :Name, :Complete, :Repetition, :CreatedAt, :UpdatedAt)`
	result, err := t.db.NamedExecContext(ctx, query, todo)
	if err != nil {
		return fmt.Errorf("CreateTodo: ошибка при вставке задачи: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("CreateTodo: ошибка при получении LastInsertId: %w", err)
	}
	todo.ID = id
	return nil
}

// Update обновляет задачу. Поиск по ID и владельцу.
func (t *Todos) Update(ctx context.Context, todo *models.Todo) error {
	todo.UpdatedAt = time.Now()

	query := `UPDATE Todos SET CategoryId = :CategoryId, Date = :Date, Name = :Name, Complete = :Complete,
	          Repetition = :Repetition, UpdatedAt = :UpdatedAt
	          WHERE Id = :Id AND UserId = :UserId`
	result, err := t.db.NamedExecContext(ctx, query, todo)
	if err != nil {
		return fmt.Errorf("UpdateTodo: ошибка при обновлении задачи ID %d: %w", todo.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return sql.ErrNoRows // Не найдено для обновления
	}
	return nil
}

// Delete удаляет задачу пользователя.
func (t *Todos) Delete(ctx context.Context, userID, id int64) error {
	result, err := t.db.ExecContext(ctx, `DELETE FROM Todos WHERE Id = ? AND UserId = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("DeleteTodo: ошибка при удалении задачи ID %d: %w", id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return sql.ErrNoRows // Не найдено
	}
	return nil
}

// FindByUserAndID извлекает задачу пользователя по ID.
func (t *Todos) FindByUserAndID(ctx context.Context, userID, id int64) (mo.Option[models.Todo], error) {
	var todo models.Todo
	query := `SELECT ` + todoColumns + ` FROM Todos WHERE Id = ? AND UserId = ?`
	if err := t.db.GetContext(ctx, &todo, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[models.Todo](), nil
		}
		return mo.None[models.Todo](), fmt.Errorf("GetTodoByID: ошибка при получении задачи ID %d: %w", id, err)
	}
	return mo.Some(todo), nil
}

// FindAllByUserAndDate возвращает задачи пользователя на день.
func (t *Todos) FindAllByUserAndDate(ctx context.Context, userID int64, date models.Date) ([]models.Todo, error) {
	todos := []models.Todo{}
	query := `SELECT ` + todoColumns + ` FROM Todos WHERE UserId = ? AND Date = ? ORDER BY Id ASC`
	if err := t.db.SelectContext(ctx, &todos, query, userID, date); err != nil {
		return nil, fmt.Errorf("GetTodosByDate: ошибка при получении задач на %s: %w", date, err)
	}
	return todos, nil
}

// FindAllByUserBetween возвращает задачи пользователя за период [start, end].
func (t *Todos) FindAllByUserBetween(ctx context.Context, userID int64, start, end models.Date) ([]models.Todo, error) {
	todos := []models.Todo{}
	query := `SELECT ` + todoColumns + ` FROM Todos WHERE UserId = ? AND Date BETWEEN ? AND ? ORDER BY Date ASC, Id ASC`
	if err := t.db.SelectContext(ctx, &todos, query, userID, start, end); err != nil {
		return nil, fmt.Errorf("GetTodosBetween: ошибка при получении задач за %s - %s: %w", start, end, err)
	}
	return todos, nil
}
