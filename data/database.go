package data

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // Драйвер SQLite, импортируется для побочных эффектов (регистрации драйвера)
)

// DefaultDbName - файл БД по умолчанию, в текущей рабочей директории.
const DefaultDbName = "MadaServer.db"

// Open подключается к SQLite по пути path и применяет схему.
// Подключение одно: SQLite допускает только одного писателя, а внешние ключи
// включаются параметром строки подключения.
func Open(path string, logger *slog.Logger) (*sqlx.DB, error) {
	dsn := path
	if strings.Contains(dsn, "?") {
		dsn += "&_foreign_keys=on"
	} else {
		dsn += "?_foreign_keys=on"
	}

	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("connected to database", "path", path)

	if err = Migrate(context.Background(), db, logger); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate создает таблицы и добавляет недостающие колонки. Идемпотентна.
func Migrate(ctx context.Context, db *sqlx.DB, logger *slog.Logger) error {
	if _, err := db.ExecContext(ctx, GetSchema()); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	// Колонки, появившиеся после первой версии схемы
	upgrades := []struct {
		table, column, ddl string
	}{
		{"Calendars", "RepeatInfo", `ALTER TABLE Calendars ADD COLUMN RepeatInfo TEXT NOT NULL DEFAULT ''`},
		{"Calendars", "IsExpired", `ALTER TABLE Calendars ADD COLUMN IsExpired BOOLEAN NOT NULL DEFAULT 0`},
		{"Users", "PhotoUrl", `ALTER TABLE Users ADD COLUMN PhotoUrl TEXT NOT NULL DEFAULT ''`},
	}
	for _, u := range upgrades {
		if err := ensureColumn(ctx, db, logger, u.table, u.column, u.ddl); err != nil {
			return err
		}
	}

	logger.Info("database schema applied")
	return nil
}

// ensureColumn добавляет колонку, если ее еще нет в таблице.
func ensureColumn(ctx context.Context, db *sqlx.DB, logger *slog.Logger, table, column, ddl string) error {
	var exists bool
	err := db.GetContext(ctx, &exists, `
		SELECT COUNT(*) > 0
		FROM pragma_table_info(?)
		WHERE name = ?
	`, table, column)
	if err != nil {
		return fmt.Errorf("ошибка проверки колонки %s.%s: %w", table, column, err)
	}
	if exists {
		return nil
	}
	if _, err = db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to add %s column to %s: %w", column, table, err)
	}
	logger.Info("column added", "table", table, "column", column)
	return nil
}

// inTx выполняет fn в транзакции: коммит при успехе, откат при ошибке.
func inTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Откатываем, если что-то пошло не так

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
