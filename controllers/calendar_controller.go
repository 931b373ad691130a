package controllers

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"mada_server_go/models"

	"github.com/gorilla/mux"
)

// CalendarFacade - операции календаря, доступные через HTTP.
type CalendarFacade interface {
	Create(ctx context.Context, authID string, req models.CalendarRequest) (*models.Calendar, error)
	Edit(ctx context.Context, authID string, id int64, req models.CalendarRequest) (*models.Calendar, error)
	Delete(ctx context.Context, authID string, id int64) (*models.Calendar, error)
	Get(ctx context.Context, authID string, id int64) (*models.Calendar, error)
	ListAll(ctx context.Context, authID string) ([]models.Calendar, error)
	ListByDate(ctx context.Context, authID string, date models.Date) ([]models.Calendar, error)
	ListByMonth(ctx context.Context, authID string, month int) ([]models.Calendar, error)
	ListDday(ctx context.Context, authID string) ([]models.Calendar, error)
	Export(ctx context.Context, authID string, w io.Writer) error
}

// CalendarController обрабатывает /api/calendars.
type CalendarController struct {
	calendars CalendarFacade
	logger    *slog.Logger
}

// NewCalendarController создает контроллер календаря.
func NewCalendarController(calendars CalendarFacade, logger *slog.Logger) *CalendarController {
	return &CalendarController{calendars: calendars, logger: logger}
}

// Register регистрирует маршруты на защищенном подмаршрутизаторе /api.
// Статические пути регистрируются раньше /{id}.
func (c *CalendarController) Register(r *mux.Router) {
	s := r.PathPrefix("/calendars").Subrouter()
	s.HandleFunc("", c.List).Methods(http.MethodGet)
	s.HandleFunc("", c.Create).Methods(http.MethodPost)
	s.HandleFunc("/dday", c.ListDday).Methods(http.MethodGet)
	s.HandleFunc("/date/{date}", c.ListByDate).Methods(http.MethodGet)
	s.HandleFunc("/month/{month}", c.ListByMonth).Methods(http.MethodGet)
	s.HandleFunc("/export.ics", c.Export).Methods(http.MethodGet)
	s.HandleFunc("/{id:[0-9]+}", c.Get).Methods(http.MethodGet)
	s.HandleFunc("/{id:[0-9]+}", c.Edit).Methods(http.MethodPatch, http.MethodPut)
	s.HandleFunc("/{id:[0-9]+}", c.Delete).Methods(http.MethodDelete)
}

// Create - POST /api/calendars
func (c *CalendarController) Create(w http.ResponseWriter, r *http.Request) {
	authID, ok := requireAuthID(w, r)
	if !ok {
		return
	}
	var req models.CalendarRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := c.calendars.Create(r.Context(), authID, req)
	if err != nil {
		respondServiceError(w, c.logger, "calendar create", err)
		return
	}
	respondJSON(w, http.StatusCreated, entry.ToResponse())
}

// Edit - PATCH /api/calendars/{id}
func (c *CalendarController) Edit(w http.ResponseWriter, r *http.Request) {
	authID, ok := requireAuthID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.CalendarRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := c.calendars.Edit(r.Context(), authID, id, req)
	if err != nil {
		respondServiceError(w, c.logger, "calendar edit", err)
		return
	}
	respondJSON(w, http.StatusOK, entry.ToResponse())
}

// Delete - DELETE /api/calendars/{id}. Возвращает удаленную запись.
func (c *CalendarController) Delete(w http.ResponseWriter, r *http.Request) {
	authID, ok := requireAuthID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	entry, err := c.calendars.Delete(r.Context(), authID, id)
	if err != nil {
		respondServiceError(w, c.logger, "calendar delete", err)
		return
	}
	respondJSON(w, http.StatusOK, entry.ToResponse())
}

// Get - GET /api/calendars/{id}
func (c *CalendarController) Get(w http.ResponseWriter, r *http.Request) {
	authID, ok := requireAuthID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	entry, err := c.calendars.Get(r.Context(), authID, id)
	if err != nil {
		respondServiceError(w, c.logger, "calendar get", err)
		return
	}
	respondJSON(w, http.StatusOK, entry.ToResponse())
}

// List - GET /api/calendars
func (c *CalendarController) List(w http.ResponseWriter, r *http.Request) {
	authID, ok := requireAuthID(w, r)
	if !ok {
		return
	}
	entries, err := c.calendars.ListAll(r.Context(), authID)
	c.respondList(w, "calendar list", entries, err)
}

// ListDday - GET /api/calendars/dday
func (c *CalendarController) ListDday(w http.ResponseWriter, r *http.Request) {
	authID, ok := requireAuthID(w, r)
	if !ok {
		return
	}
	entries, err := c.calendars.ListDday(r.Context(), authID)
	c.respondList(w, "calendar dday list", entries, err)
}

// ListByDate - GET /api/calendars/date/{date}
func (c *CalendarController) ListByDate(w http.ResponseWriter, r *http.Request) {
	authID, ok := requireAuthID(w, r)
	if !ok {
		return
	}
	date, ok := parseDateParam(w, mux.Vars(r)["date"])
	if !ok {
		return
	}
	entries, err := c.calendars.ListByDate(r.Context(), authID, date)
	c.respondList(w, "calendar date list", entries, err)
}

// ListByMonth - GET /api/calendars/month/{month}
func (c *CalendarController) ListByMonth(w http.ResponseWriter, r *http.Request) {
	authID, ok := requireAuthID(w, r)
	if !ok {
		return
	}
	month, err := strconv.Atoi(mux.Vars(r)["month"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Месяц должен быть числом: "+mux.Vars(r)["month"])
		return
	}
	entries, err := c.calendars.ListByMonth(r.Context(), authID, month)
	c.respondList(w, "calendar month list", entries, err)
}

// Export - GET /api/calendars/export.ics
func (c *CalendarController) Export(w http.ResponseWriter, r *http.Request) {
	authID, ok := requireAuthID(w, r)
	if !ok {
		return
	}
	// Буферизуем, чтобы при ошибке еще можно было ответить JSON.
	var buf bytes.Buffer
	if err := c.calendars.Export(r.Context(), authID, &buf); err != nil {
		respondServiceError(w, c.logger, "calendar export", err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		c.logger.Error("failed to write calendar export", "err", err)
	}
}

func (c *CalendarController) respondList(w http.ResponseWriter, op string, entries []models.Calendar, err error) {
	if err != nil {
		respondServiceError(w, c.logger, op, err)
		return
	}
	respondJSON(w, http.StatusOK, models.CalendarResponses(entries))
}
