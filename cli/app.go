package cli

import (
	"log/slog"
	"net/http"

	"mada_server_go/auth"
	"mada_server_go/config"
	"mada_server_go/controllers"
	"mada_server_go/data"
	"mada_server_go/router"
	"mada_server_go/services"

	"github.com/jmoiron/sqlx"
)

// app - собранные зависимости сервера.
type app struct {
	db        *sqlx.DB
	users     *services.UserService
	calendars *services.CalendarService
	handler   http.Handler
}

// newApp открывает базу и связывает хранилища, сервисы и контроллеры.
func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	db, err := data.Open(cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		db.Close()
		return nil, err
	}

	categoryStore := data.NewCategories(db)
	users := services.NewUserService(data.NewUsers(db), logger.With("component", "users"))
	calendars := services.NewCalendarService(users, data.NewCalendars(db, logger), cfg.CalendarOptions(), logger.With("component", "calendars"))
	categories := services.NewCategoryService(users, categoryStore, logger.With("component", "categories"))
	todos := services.NewTodoService(users, data.NewTodos(db), categoryStore, logger.With("component", "todos"))

	handler := router.New(router.Deps{
		Tokens:     tokens,
		DB:         db,
		Auth:       controllers.NewAuthController(users, tokens, logger),
		Users:      controllers.NewUserController(users, logger),
		Calendars:  controllers.NewCalendarController(calendars, logger),
		Categories: controllers.NewCategoryController(categories, logger),
		Todos:      controllers.NewTodoController(todos, logger),
		Files:      controllers.NewFileController(cfg.UploadsDir, logger),
		Logger:     logger,
	})

	return &app{db: db, users: users, calendars: calendars, handler: handler}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}
