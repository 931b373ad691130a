package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"mada_server_go/models"
	"mada_server_go/services"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"
)

const calendarColumns = `Id, UserId, Name, StartDate, EndDate, StartTime, EndTime, Repetition, RepeatInfo,
	Dday, Memo, Color, IsExpired, CreatedAt, UpdatedAt`

// Calendars - хранилище записей календаря в SQLite.
// Один и тот же тип работает и поверх пула подключений, и внутри транзакции.
type Calendars struct {
	db     *sqlx.DB        // nil внутри транзакции
	ext    sqlx.ExtContext // *sqlx.DB или *sqlx.Tx
	logger *slog.Logger
}

// NewCalendars создает хранилище записей календаря.
func NewCalendars(db *sqlx.DB, logger *slog.Logger) *Calendars {
	return &Calendars{db: db, ext: db, logger: logger}
}

// InTx выполняет fn в одной транзакции. Вложенный вызов переиспользует текущую транзакцию.
func (c *Calendars) InTx(ctx context.Context, fn func(store services.CalendarStore) error) error {
	if c.db == nil {
		return fn(c)
	}
	return inTx(ctx, c.db, func(tx *sqlx.Tx) error {
		return fn(&Calendars{ext: tx, logger: c.logger})
	})
}

// FindAllByUser возвращает все записи пользователя в порядке создания.
func (c *Calendars) FindAllByUser(ctx context.Context, userID int64) ([]models.Calendar, error) {
	entries := []models.Calendar{}
	query := `SELECT ` + calendarColumns + ` FROM Calendars WHERE UserId = ? ORDER BY Id ASC`
	if err := sqlx.SelectContext(ctx, c.ext, &entries, query, userID); err != nil {
		return nil, fmt.Errorf("FindAllByUser: ошибка при получении записей пользователя %d: %w", userID, err)
	}
	return entries, nil
}

// FindAllByUserAndDday возвращает записи пользователя с указанным признаком D-day.
func (c *Calendars) FindAllByUserAndDday(ctx context.Context, userID int64, flag models.DdayFlag) ([]models.Calendar, error) {
	entries := []models.Calendar{}
	query := `SELECT ` + calendarColumns + ` FROM Calendars WHERE UserId = ? AND Dday = ? ORDER BY Id ASC`
	if err := sqlx.SelectContext(ctx, c.ext, &entries, query, userID, flag); err != nil {
		return nil, fmt.Errorf("FindAllByUserAndDday: ошибка при получении записей пользователя %d: %w", userID, err)
	}
	return entries, nil
}

// ExistsByUserAndEndDateBetweenAndName проверяет, есть ли у пользователя запись
// с таким именем, дата окончания которой попадает в [start, end] включительно.
func (c *Calendars) ExistsByUserAndEndDateBetweenAndName(ctx context.Context, userID int64, start, end models.Date, name string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (
		SELECT 1 FROM Calendars
		WHERE UserId = ? AND Name = ? AND EndDate BETWEEN ? AND ?
	)`
	if err := sqlx.GetContext(ctx, c.ext, &exists, query, userID, name, start, end); err != nil {
		return false, fmt.Errorf("ExistsByUserAndEndDateBetweenAndName: ошибка проверки имени %q: %w", name, err)
	}
	return exists, nil
}

// FindByID извлекает запись по ID без учета владельца.
func (c *Calendars) FindByID(ctx context.Context, id int64) (mo.Option[models.Calendar], error) {
	query := `SELECT ` + calendarColumns + ` FROM Calendars WHERE Id = ?`
	return c.getOne(ctx, "FindByID", query, id)
}

// FindByUserAndID извлекает запись по ID, только если она принадлежит пользователю.
func (c *Calendars) FindByUserAndID(ctx context.Context, userID, id int64) (mo.Option[models.Calendar], error) {
	query := `SELECT ` + calendarColumns + ` FROM Calendars WHERE UserId = ? AND Id = ?`
	return c.getOne(ctx, "FindByUserAndID", query, userID, id)
}

func (c *Calendars) getOne(ctx context.Context, op, query string, args ...interface{}) (mo.Option[models.Calendar], error) {
	var entry models.Calendar
	err := sqlx.GetContext(ctx, c.ext, &entry, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[models.Calendar](), nil
		}
		return mo.None[models.Calendar](), fmt.Errorf("%s: ошибка при получении записи %v: %w", op, args, err)
	}
	return mo.Some(entry), nil
}

// Save вставляет новую запись (ID == 0, ID присваивается) или перезаписывает существующую.
func (c *Calendars) Save(ctx context.Context, entry *models.Calendar) error {
	now := time.Now()
	entry.UpdatedAt = now

	if entry.ID == 0 {
		entry.CreatedAt = now
		query := `INSERT INTO Calendars (UserId, Name, StartDate, EndDate, StartTime, EndTime, Repetition, RepeatInfo,
			Dday, Memo, Color, IsExpired, CreatedAt, UpdatedAt)
			VALUES (:UserId, :Name, :StartDate, :EndDate, :StartTime, :EndTime, :Repetition, :RepeatInfo,
			:Dday, :Memo, :Color, :IsExpired, :CreatedAt, :UpdatedAt)`
		result, err := sqlx.NamedExecContext(ctx, c.ext, query, entry)
		if err != nil {
			return fmt.Errorf("Save: ошибка при вставке записи: %w", err)
		}
		newID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("Save: ошибка при получении LastInsertId: %w", err)
		}
		entry.ID = newID
		c.logger.Debug("calendar entry created", "id", newID, "user_id", entry.UserID)
		return nil
	}

	query := `UPDATE Calendars SET
		Name = :Name, StartDate = :StartDate, EndDate = :EndDate, StartTime = :StartTime, EndTime = :EndTime,
		Repetition = :Repetition, RepeatInfo = :RepeatInfo, Dday = :Dday, Memo = :Memo, Color = :Color,
		IsExpired = :IsExpired, UpdatedAt = :UpdatedAt
		WHERE Id = :Id AND UserId = :UserId`
	result, err := sqlx.NamedExecContext(ctx, c.ext, query, entry)
	if err != nil {
		return fmt.Errorf("Save: ошибка при обновлении записи ID %d: %w", entry.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("Save: запись ID %d не найдена для обновления: %w", entry.ID, sql.ErrNoRows)
	}
	c.logger.Debug("calendar entry updated", "id", entry.ID, "user_id", entry.UserID)
	return nil
}

// DeleteByID удаляет запись по ID. Отсутствие записи ошибкой не считается.
func (c *Calendars) DeleteByID(ctx context.Context, id int64) error {
	if _, err := c.ext.ExecContext(ctx, `DELETE FROM Calendars WHERE Id = ?`, id); err != nil {
		return fmt.Errorf("DeleteByID: ошибка при удалении записи ID %d: %w", id, err)
	}
	c.logger.Debug("calendar entry deleted", "id", id)
	return nil
}

// MarkExpiredBefore помечает истекшими все записи, закончившиеся раньше day.
// Возвращает число измененных записей.
func (c *Calendars) MarkExpiredBefore(ctx context.Context, day models.Date) (int64, error) {
	result, err := c.ext.ExecContext(ctx,
		`UPDATE Calendars SET IsExpired = 1, UpdatedAt = ? WHERE IsExpired = 0 AND EndDate < ?`,
		time.Now(), day)
	if err != nil {
		return 0, fmt.Errorf("MarkExpiredBefore: ошибка при обновлении записей до %s: %w", day, err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}
