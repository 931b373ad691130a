package models

import "time"

// Role - роль пользователя.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User представляет пользователя системы.
// AuthID - внешний идентификатор, который попадает в subject JWT.
type User struct {
	ID                    int64     `json:"id" db:"Id"`
	AuthID                string    `json:"-" db:"AuthId"`
	Nickname              string    `json:"nickname" db:"Nickname"`
	Email                 string    `json:"email" db:"Email"`
	PasswordHash          string    `json:"-" db:"PasswordHash"`
	Subscribe             bool      `json:"subscribe" db:"Subscribe"`
	Provider              string    `json:"provider" db:"Provider"`
	Role                  Role      `json:"role" db:"Role"`
	PhotoUrl              string    `json:"photoUrl" db:"PhotoUrl"`
	StartTodoAtMonday     bool      `json:"startTodoAtMonday" db:"StartTodoAtMonday"`
	EndTodoBackSetting    bool      `json:"endTodoBackSetting" db:"EndTodoBackSetting"`
	NewTodoStartSetting   bool      `json:"newTodoStartSetting" db:"NewTodoStartSetting"`
	IsAlarm               bool      `json:"isAlarm" db:"IsAlarm"`
	CalendarAlarmSetting  bool      `json:"calendarAlarmSetting" db:"CalendarAlarmSetting"`
	DdayAlarmSetting      bool      `json:"dDayAlarmSetting" db:"DdayAlarmSetting"`
	TimetableAlarmSetting bool      `json:"timetableAlarmSetting" db:"TimetableAlarmSetting"`
	AccountExpired        bool      `json:"-" db:"AccountExpired"`
	CreatedAt             time.Time `json:"-" db:"CreatedAt"`
	UpdatedAt             time.Time `json:"-" db:"UpdatedAt"`
}

// PageSettings - настройки страницы to-do.
type PageSettings struct {
	StartTodoAtMonday   bool `json:"startTodoAtMonday"`
	EndTodoBackSetting  bool `json:"endTodoBackSetting"`
	NewTodoStartSetting bool `json:"newTodoStartSetting"`
}

// AlarmSettings - настройки уведомлений.
type AlarmSettings struct {
	CalendarAlarmSetting  bool `json:"calendarAlarmSetting"`
	DdayAlarmSetting      bool `json:"dDayAlarmSetting"`
	TimetableAlarmSetting bool `json:"timetableAlarmSetting"`
}
