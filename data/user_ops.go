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

const userColumns = `Id, AuthId, Nickname, Email, PasswordHash, Subscribe, Provider, Role, PhotoUrl,
	StartTodoAtMonday, EndTodoBackSetting, NewTodoStartSetting,
	IsAlarm, CalendarAlarmSetting, DdayAlarmSetting, TimetableAlarmSetting,
	AccountExpired, CreatedAt, UpdatedAt`

// Users - хранилище пользователей.
type Users struct {
	db *sqlx.DB
}

// NewUsers создает хранилище пользователей.
func NewUsers(db *sqlx.DB) *Users {
	return &Users{db: db}
}

// Create создает нового пользователя. Пароль должен быть уже захеширован.
func (u *Users) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `INSERT INTO Users (AuthId, Nickname, Email, PasswordHash, Subscribe, Provider, Role, PhotoUrl,
		StartTodoAtMonday, EndTodoBackSetting, NewTodoStartSetting,
		IsAlarm, CalendarAlarmSetting, DdayAlarmSetting, TimetableAlarmSetting,
		AccountExpired, CreatedAt, UpdatedAt)
		VALUES (:AuthId, :Nickname, :Email, :PasswordHash, :Subscribe, :Provider, :Role, :PhotoUrl,
		:StartTodoAtMonday, :EndTodoBackSetting, :NewTodoStartSetting,
		:IsAlarm, :CalendarAlarmSetting, :DdayAlarmSetting, :TimetableAlarmSetting,
		:AccountExpired, :CreatedAt, :UpdatedAt)`
	result, err := u.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID for user: %w", err)
	}
	user.ID = id
	return nil
}

// FindByEmail извлекает пользователя по email.
func (u *Users) FindByEmail(ctx context.Context, email string) (mo.Option[models.User], error) {
	return u.getOne(ctx, `SELECT `+userColumns+` FROM Users WHERE Email = ?`, email)
}

// FindByAuthID извлекает пользователя по идентификатору из токена.
func (u *Users) FindByAuthID(ctx context.Context, authID string) (mo.Option[models.User], error) {
	return u.getOne(ctx, `SELECT `+userColumns+` FROM Users WHERE AuthId = ?`, authID)
}

// FindByID извлекает пользователя по ID.
func (u *Users) FindByID(ctx context.Context, id int64) (mo.Option[models.User], error) {
	return u.getOne(ctx, `SELECT `+userColumns+` FROM Users WHERE Id = ?`, id)
}

func (u *Users) getOne(ctx context.Context, query string, arg interface{}) (mo.Option[models.User], error) {
	var user models.User
	if err := u.db.GetContext(ctx, &user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[models.User](), nil // Пользователь не найден
		}
		return mo.None[models.User](), fmt.Errorf("failed to get user by %v: %w", arg, err)
	}
	return mo.Some(user), nil
}

// UpdateProfile обновляет никнейм, email и фото пользователя.
func (u *Users) UpdateProfile(ctx context.Context, userID int64, nickname, email, photoUrl string) error {
	return u.update(ctx, userID, `UPDATE Users SET Nickname = ?, Email = ?, PhotoUrl = ?, UpdatedAt = ? WHERE Id = ?`,
		nickname, email, photoUrl, time.Now(), userID)
}

// UpdatePageSettings обновляет настройки страницы to-do.
func (u *Users) UpdatePageSettings(ctx context.Context, userID int64, s models.PageSettings) error {
	return u.update(ctx, userID, `UPDATE Users SET StartTodoAtMonday = ?, EndTodoBackSetting = ?, NewTodoStartSetting = ?, UpdatedAt = ?
		WHERE Id = ?`,
		s.StartTodoAtMonday, s.EndTodoBackSetting, s.NewTodoStartSetting, time.Now(), userID)
}

// UpdateAlarmSettings обновляет настройки уведомлений. IsAlarm включен, если включено хотя бы одно уведомление.
func (u *Users) UpdateAlarmSettings(ctx context.Context, userID int64, s models.AlarmSettings) error {
	isAlarm := s.CalendarAlarmSetting || s.DdayAlarmSetting || s.TimetableAlarmSetting
	return u.update(ctx, userID, `UPDATE Users SET IsAlarm = ?, CalendarAlarmSetting = ?, DdayAlarmSetting = ?, TimetableAlarmSetting = ?,
		UpdatedAt = ? WHERE Id = ?`,
		isAlarm, s.CalendarAlarmSetting, s.DdayAlarmSetting, s.TimetableAlarmSetting, time.Now(), userID)
}

// UpdateSubscribe обновляет признак подписки.
func (u *Users) UpdateSubscribe(ctx context.Context, userID int64, subscribe bool) error {
	return u.update(ctx, userID, `UPDATE Users SET Subscribe = ?, UpdatedAt = ? WHERE Id = ?`, subscribe, time.Now(), userID)
}

// Expire помечает аккаунт истекшим.
func (u *Users) Expire(ctx context.Context, userID int64) error {
	return u.update(ctx, userID, `UPDATE Users SET AccountExpired = 1, UpdatedAt = ? WHERE Id = ?`, time.Now(), userID)
}

func (u *Users) update(ctx context.Context, userID int64, query string, args ...interface{}) error {
	result, err := u.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user ID %d: %w", userID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for user update ID %d: %w", userID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no user found with ID %d to update", userID)
	}
	return nil
}
