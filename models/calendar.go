package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DdayFlag - признак D-day (обратного отсчета). В API и в БД хранится как "Y" / "N".
type DdayFlag string

const (
	DdayYes DdayFlag = "Y"
	DdayNo  DdayFlag = "N"
)

// IsDday сообщает, помечена ли запись как D-day.
func (f DdayFlag) IsDday() bool {
	return f == DdayYes
}

// UnmarshalJSON принимает "Y"/"N" в любом регистре, а также true/false
// (старые клиенты присылают булево значение).
func (f *DdayFlag) UnmarshalJSON(data []byte) error {
	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	switch v := value.(type) {
	case nil:
		*f = DdayNo
	case bool:
		if v {
			*f = DdayYes
		} else {
			*f = DdayNo
		}
	case string:
		switch strings.ToUpper(strings.TrimSpace(v)) {
		case "Y":
			*f = DdayYes
		case "N", "":
			*f = DdayNo
		default:
			return fmt.Errorf("недопустимое значение dday: %q", v)
		}
	default:
		return fmt.Errorf("недопустимый тип dday: %T", value)
	}
	return nil
}

// Calendar представляет одну запись календаря, принадлежащую ровно одному пользователю.
type Calendar struct {
	ID         int64     `json:"id" db:"Id"`
	UserID     int64     `json:"-" db:"UserId"`
	Name       string    `json:"calendarName" db:"Name"`
	StartDate  Date      `json:"startDate" db:"StartDate"`
	EndDate    Date      `json:"endDate" db:"EndDate"`
	StartTime  *string   `json:"startTime,omitempty" db:"StartTime"` // "HH:mm"
	EndTime    *string   `json:"endTime,omitempty" db:"EndTime"`     // "HH:mm"
	Repeat     string    `json:"repeat" db:"Repetition"`
	RepeatInfo string    `json:"repeatInfo" db:"RepeatInfo"`
	Dday       DdayFlag  `json:"dday" db:"Dday"`
	Memo       string    `json:"memo" db:"Memo"`
	Color      string    `json:"color" db:"Color"`
	IsExpired  bool      `json:"isExpired" db:"IsExpired"`
	CreatedAt  time.Time `json:"-" db:"CreatedAt"`
	UpdatedAt  time.Time `json:"-" db:"UpdatedAt"`
}

// CalendarRequest - тело запросов на создание и изменение записи календаря.
type CalendarRequest struct {
	CalendarName string   `json:"calendarName"`
	StartDate    Date     `json:"startDate"`
	EndDate      Date     `json:"endDate"`
	StartTime    *string  `json:"startTime,omitempty"`
	EndTime      *string  `json:"endTime,omitempty"`
	Color        string   `json:"color"`
	Repeat       string   `json:"repeat"`
	RepeatInfo   string   `json:"repeatInfo"`
	Dday         DdayFlag `json:"dday"`
	Memo         string   `json:"memo"`
	IsExpired    *bool    `json:"isExpired,omitempty"`
}

// CalendarResponse - представление записи календаря, возвращаемое API.
type CalendarResponse struct {
	ID           int64    `json:"id"`
	CalendarName string   `json:"calendarName"`
	StartDate    Date     `json:"startDate"`
	EndDate      Date     `json:"endDate"`
	StartTime    *string  `json:"startTime,omitempty"`
	EndTime      *string  `json:"endTime,omitempty"`
	Color        string   `json:"color"`
	Repeat       string   `json:"repeat"`
	RepeatInfo   string   `json:"repeatInfo"`
	Dday         DdayFlag `json:"dday"`
	Memo         string   `json:"memo"`
	IsExpired    bool     `json:"isExpired"`
}

// ToResponse переводит сущность в ответ API.
func (c *Calendar) ToResponse() CalendarResponse {
	return CalendarResponse{
		ID:           c.ID,
		CalendarName: c.Name,
		StartDate:    c.StartDate,
		EndDate:      c.EndDate,
		StartTime:    c.StartTime,
		EndTime:      c.EndTime,
		Color:        c.Color,
		Repeat:       c.Repeat,
		RepeatInfo:   c.RepeatInfo,
		Dday:         c.Dday,
		Memo:         c.Memo,
		IsExpired:    c.IsExpired,
	}
}

// CalendarResponses переводит список сущностей, сохраняя порядок.
// Пустой список возвращается как пустой массив, а не null.
func CalendarResponses(calendars []Calendar) []CalendarResponse {
	out := make([]CalendarResponse, 0, len(calendars))
	for i := range calendars {
		out = append(out, calendars[i].ToResponse())
	}
	return out
}
