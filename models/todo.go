package models

import "time"

// Todo - задача на конкретный день, привязанная к категории пользователя.
type Todo struct {
	ID         int64     `json:"id" db:"Id"`
	UserID     int64     `json:"-" db:"UserId"`
	CategoryID int64     `json:"categoryId" db:"CategoryId"`
	Date       Date      `json:"date" db:"Date"`
	Name       string    `json:"todoName" db:"Name"`
	Complete   bool      `json:"complete" db:"Complete"`
	Repeat     string    `json:"repeat" db:"Repetition"`
	CreatedAt  time.Time `json:"-" db:"CreatedAt"`
	UpdatedAt  time.Time `json:"-" db:"UpdatedAt"`
}

// TodoRequest - тело запроса на создание/изменение задачи.
// При изменении обновляются только переданные (не nil) поля.
type TodoRequest struct {
	CategoryID *int64  `json:"categoryId"`
	Date       *Date   `json:"date"`
	TodoName   *string `json:"todoName"`
	Complete   *bool   `json:"complete"`
	Repeat     *string `json:"repeat"`
}

// TodoAverage - статистика выполнения задач за период, значения в процентах (0-100).
type TodoAverage struct {
	TodosPercent        float64 `json:"todosPercent"`
	CompleteTodoPercent float64 `json:"completeTodoPercent"`
}
