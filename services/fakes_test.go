package services

import (
	"context"
	"io"
	"log/slog"
	"sort"

	"mada_server_go/models"

	"github.com/samber/mo"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// directory - каталог пользователей в памяти.
type directory map[string]*models.User

func (d directory) ResolveUser(_ context.Context, authID string) (*models.User, error) {
	u, ok := d[authID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// memCalendars - хранилище записей в памяти. InTx откатывает изменения при ошибке.
type memCalendars struct {
	rows   map[int64]models.Calendar
	nextID int64
	saves  int
}

func newMemCalendars() *memCalendars {
	return &memCalendars{rows: map[int64]models.Calendar{}, nextID: 1}
}

func (m *memCalendars) sorted(keep func(models.Calendar) bool) []models.Calendar {
	out := []models.Calendar{}
	for _, c := range m.rows {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memCalendars) FindAllByUser(_ context.Context, userID int64) ([]models.Calendar, error) {
	return m.sorted(func(c models.Calendar) bool { return c.UserID == userID }), nil
}

func (m *memCalendars) FindAllByUserAndDday(_ context.Context, userID int64, flag models.DdayFlag) ([]models.Calendar, error) {
	return m.sorted(func(c models.Calendar) bool { return c.UserID == userID && c.Dday == flag }), nil
}

func (m *memCalendars) ExistsByUserAndEndDateBetweenAndName(_ context.Context, userID int64, start, end models.Date, name string) (bool, error) {
	found := m.sorted(func(c models.Calendar) bool {
		return c.UserID == userID && c.Name == name && withinRange(c.EndDate, start, end)
	})
	return len(found) > 0, nil
}

func (m *memCalendars) FindByID(_ context.Context, id int64) (mo.Option[models.Calendar], error) {
	c, ok := m.rows[id]
	if !ok {
		return mo.None[models.Calendar](), nil
	}
	return mo.Some(c), nil
}

func (m *memCalendars) FindByUserAndID(_ context.Context, userID, id int64) (mo.Option[models.Calendar], error) {
	c, ok := m.rows[id]
	if !ok || c.UserID != userID {
		return mo.None[models.Calendar](), nil
	}
	return mo.Some(c), nil
}

func (m *memCalendars) Save(_ context.Context, entry *models.Calendar) error {
	m.saves++
	if entry.ID == 0 {
		entry.ID = m.nextID
		m.nextID++
	}
	m.rows[entry.ID] = *entry
	return nil
}

func (m *memCalendars) DeleteByID(_ context.Context, id int64) error {
	delete(m.rows, id)
	return nil
}

func (m *memCalendars) MarkExpiredBefore(_ context.Context, d models.Date) (int64, error) {
	var n int64
	for id, c := range m.rows {
		if !c.IsExpired && c.EndDate.Before(d) {
			c.IsExpired = true
			m.rows[id] = c
			n++
		}
	}
	return n, nil
}

func (m *memCalendars) InTx(_ context.Context, fn func(store CalendarStore) error) error {
	snapshot := make(map[int64]models.Calendar, len(m.rows))
	for k, v := range m.rows {
		snapshot[k] = v
	}
	nextID := m.nextID
	if err := fn(m); err != nil {
		m.rows = snapshot
		m.nextID = nextID
		return err
	}
	return nil
}
