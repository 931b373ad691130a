package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"mada_server_go/models"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
)

const (
	icalProductID = "-//mada//Calendar Export//KO"
	// COLOR из RFC 7986
	icalPropColor = "COLOR"
)

// calendarUIDNamespace - пространство имен для стабильных UID событий при экспорте.
var calendarUIDNamespace = uuid.MustParse("3b6f1d0e-7c59-4d8e-9a55-0f3c1c2b8e41")

// Export пишет все записи пользователя в w в формате iCalendar.
func (s *CalendarService) Export(ctx context.Context, authID string, w io.Writer) error {
	entries, err := s.ListAll(ctx, authID)
	if err != nil {
		return err
	}
	return EncodeCalendars(w, entries, time.Now())
}

// EncodeCalendars строит VCALENDAR из записей. stamp попадает в DTSTAMP каждого события.
// Записи без времени экспортируются как события на весь день с исключающим DTEND.
func EncodeCalendars(w io.Writer, entries []models.Calendar, stamp time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, icalProductID)
	cal.Props.SetText(ical.PropVersion, "2.0")

	for i := range entries {
		event, err := calendarEvent(&entries[i], stamp)
		if err != nil {
			return err
		}
		cal.Children = append(cal.Children, event.Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

func calendarEvent(entry *models.Calendar, stamp time.Time) (*ical.Event, error) {
	event := ical.NewEvent()
	uid := uuid.NewSHA1(calendarUIDNamespace, []byte(fmt.Sprintf("calendar/%d", entry.ID)))
	event.Props.SetText(ical.PropUID, uid.String())
	event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	event.Props.SetText(ical.PropSummary, entry.Name)
	if entry.Memo != "" {
		event.Props.SetText(ical.PropDescription, entry.Memo)
	}
	if entry.Color != "" {
		event.Props.SetText(icalPropColor, entry.Color)
	}
	if entry.Dday.IsDday() {
		event.Props.SetText(ical.PropCategories, "D-DAY")
	}

	if hasTimeOfDay(entry) {
		start, err := atTimeOfDay(entry.StartDate, *entry.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := atTimeOfDay(entry.EndDate, *entry.EndTime)
		if err != nil {
			return nil, err
		}
		event.Props.SetDateTime(ical.PropDateTimeStart, start)
		event.Props.SetDateTime(ical.PropDateTimeEnd, end)
	} else {
		event.Props.SetDate(ical.PropDateTimeStart, entry.StartDate.Time())
		event.Props.SetDate(ical.PropDateTimeEnd, entry.EndDate.AddDays(1).Time())
	}

	if rule, ok := recurrenceRule(entry.Repeat); ok {
		event.Props.SetRecurrenceRule(rule)
	}
	return event, nil
}

// recurrenceRule разбирает описание повторения, если оно записано как RRULE.
// Остальные значения (например, "매주") считаются непрозрачными и не экспортируются.
func recurrenceRule(repeat string) (*rrule.ROption, bool) {
	repeat = strings.TrimPrefix(strings.TrimSpace(repeat), "RRULE:")
	if repeat == "" || !strings.Contains(strings.ToUpper(repeat), "FREQ=") {
		return nil, false
	}
	rule, err := rrule.StrToROption(repeat)
	if err != nil {
		return nil, false
	}
	return rule, true
}

func hasTimeOfDay(entry *models.Calendar) bool {
	return entry.StartTime != nil && *entry.StartTime != "" && entry.EndTime != nil && *entry.EndTime != ""
}

func atTimeOfDay(d models.Date, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, hhmm)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}
