package models

import "time"

// Category - категория для to-do, принадлежит пользователю.
type Category struct {
	ID        int64     `json:"id" db:"Id"`
	UserID    int64     `json:"-" db:"UserId"`
	Name      string    `json:"categoryName" db:"Name"`
	Color     string    `json:"color" db:"Color"`
	IconID    int64     `json:"iconId" db:"IconId"`
	CreatedAt time.Time `json:"-" db:"CreatedAt"`
	UpdatedAt time.Time `json:"-" db:"UpdatedAt"`
}

// CategoryRequest - тело запроса на создание/изменение категории.
// При изменении обновляются только переданные (не nil) поля.
type CategoryRequest struct {
	CategoryName *string `json:"categoryName"`
	Color        *string `json:"color"`
	IconID       *int64  `json:"iconId"`
}
