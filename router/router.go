package router

import (
	"fmt"
	"log/slog"
	"net/http"

	"mada_server_go/controllers"
	"mada_server_go/middleware"

	"github.com/gorilla/mux"
)

// Deps - всё, что нужно для сборки маршрутов.
type Deps struct {
	Tokens     middleware.TokenValidator
	DB         controllers.Pinger
	Auth       *controllers.AuthController
	Users      *controllers.UserController
	Calendars  *controllers.CalendarController
	Categories *controllers.CategoryController
	Todos      *controllers.TodoController
	Files      *controllers.FileController
	Logger     *slog.Logger
}

// New собирает gorilla/mux маршрутизатор.
// Открыты: /api/auth/*, /api/Service/status, /uploads/*. Остальное под /api требует JWT.
func New(d Deps) *mux.Router {
	r := mux.NewRouter()

	// Открытые маршруты регистрируются до /api, иначе их перехватит защищенный подмаршрутизатор.
	d.Auth.Register(r)
	r.HandleFunc("/api/Service/status", controllers.HealthCheck(d.DB)).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.JWTMiddleware(d.Tokens, d.Logger))

	d.Users.Register(api)
	d.Calendars.Register(api)
	d.Categories.Register(api)
	d.Todos.Register(api)
	d.Files.Register(r, api)

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "mada server is running")
	}).Methods(http.MethodGet)

	return r
}
