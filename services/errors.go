package services

import "errors"

// Ошибки предметной области. Контроллеры сопоставляют их с HTTP-статусами через errors.Is.
var (
	ErrUserNotFound        = errors.New("пользователь не найден")
	ErrEntryNotFound       = errors.New("запись календаря не найдена")
	ErrQuotaExceeded       = errors.New("лимит D-day исчерпан")
	ErrDuplicateName       = errors.New("в этот период уже есть запись календаря с таким именем")
	ErrInvalidDateRange    = errors.New("дата окончания раньше даты начала")
	ErrInvalidMonth        = errors.New("месяц должен быть от 1 до 12")
	ErrInvalidTime         = errors.New("время должно быть в формате HH:mm")
	ErrInvalidName         = errors.New("имя не может быть пустым")
	ErrMissingFields       = errors.New("обязательные поля не заполнены")
	ErrEmailTaken          = errors.New("пользователь с таким email уже существует")
	ErrInvalidCredentials  = errors.New("неверный email или пароль")
	ErrCategoryNotFound    = errors.New("категория не найдена")
	ErrInvalidCategoryName = errors.New("имя категории пустое или длиннее допустимого")
	ErrTodoNotFound        = errors.New("задача не найдена")
)
