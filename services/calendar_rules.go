package services

import (
	"fmt"
	"time"

	"mada_server_go/models"
)

// DefaultDdayLimit - сколько D-day может быть у одного пользователя.
const DefaultDdayLimit = 3

// CollisionMode задает, как проверяется совпадение имени при создании записи.
type CollisionMode string

const (
	// CollisionLegacy: конфликт, если у записи с тем же именем дата окончания
	// попадает в [start, end]. Запись, целиком накрывающая новый период, не ловится.
	CollisionLegacy CollisionMode = "legacy"
	// CollisionOverlap: конфликт при любом пересечении закрытых интервалов.
	CollisionOverlap CollisionMode = "overlap"
)

// ParseCollisionMode разбирает значение из конфигурации.
func ParseCollisionMode(s string) (CollisionMode, error) {
	switch CollisionMode(s) {
	case "", CollisionLegacy:
		return CollisionLegacy, nil
	case CollisionOverlap:
		return CollisionOverlap, nil
	}
	return "", fmt.Errorf("неизвестный режим проверки имени %q (legacy|overlap)", s)
}

// QuotaMode задает, какие записи считаются при проверке лимита D-day.
type QuotaMode string

const (
	// QuotaAllEntries считает все записи пользователя, а не только D-day.
	QuotaAllEntries QuotaMode = "all"
	// QuotaDdayOnly считает только записи с признаком D-day.
	QuotaDdayOnly QuotaMode = "dday_only"
)

// ParseQuotaMode разбирает значение из конфигурации.
func ParseQuotaMode(s string) (QuotaMode, error) {
	switch QuotaMode(s) {
	case "", QuotaAllEntries:
		return QuotaAllEntries, nil
	case QuotaDdayOnly:
		return QuotaDdayOnly, nil
	}
	return "", fmt.Errorf("неизвестный режим лимита D-day %q (all|dday_only)", s)
}

// CheckDdayQuota возвращает true, если лимит исчерпан и создание D-day нужно отклонить.
func CheckDdayQuota(count int) bool {
	return checkQuota(count, DefaultDdayLimit)
}

func checkQuota(count, limit int) bool {
	return count >= limit
}

// CheckNameCollision сообщает, конфликтует ли запись name/[start, end] с уже существующими.
func CheckNameCollision(existing []models.Calendar, name string, start, end models.Date, mode CollisionMode) bool {
	for i := range existing {
		e := &existing[i]
		if e.Name != name {
			continue
		}
		switch mode {
		case CollisionOverlap:
			if rangesOverlap(e.StartDate, e.EndDate, start, end) {
				return true
			}
		default:
			if withinRange(e.EndDate, start, end) {
				return true
			}
		}
	}
	return false
}

// FilterByDate оставляет записи, у которых start <= date <= end, в исходном порядке.
func FilterByDate(entries []models.Calendar, date models.Date) []models.Calendar {
	out := make([]models.Calendar, 0, len(entries))
	for _, e := range entries {
		if withinRange(date, e.StartDate, e.EndDate) {
			out = append(out, e)
		}
	}
	return out
}

// FilterByMonth оставляет записи, у которых месяц начала <= month <= месяц окончания.
// Год не учитывается: запись с декабря по январь не попадет ни в один месяц,
// а многолетняя запись попадет только в месяцы между номерами месяцев начала и конца.
func FilterByMonth(entries []models.Calendar, month time.Month) []models.Calendar {
	out := make([]models.Calendar, 0, len(entries))
	for _, e := range entries {
		if e.StartDate.Month() <= month && month <= e.EndDate.Month() {
			out = append(out, e)
		}
	}
	return out
}

// DdayEntries возвращает только записи с признаком D-day.
func DdayEntries(entries []models.Calendar) []models.Calendar {
	out := make([]models.Calendar, 0, len(entries))
	for _, e := range entries {
		if e.Dday.IsDday() {
			out = append(out, e)
		}
	}
	return out
}

func withinRange(d, start, end models.Date) bool {
	return !d.Before(start) && !d.After(end)
}

func rangesOverlap(aStart, aEnd, bStart, bEnd models.Date) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// validateTimeOfDay проверяет необязательное время "HH:mm".
func validateTimeOfDay(s *string) error {
	if s == nil || *s == "" {
		return nil
	}
	if _, err := time.Parse("15:04", *s); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTime, *s)
	}
	return nil
}

// validateTimePair требует startTime и endTime вместе.
// В пределах одного дня endTime не может быть раньше startTime.
func validateTimePair(req *models.CalendarRequest) error {
	hasStart := req.StartTime != nil && *req.StartTime != ""
	hasEnd := req.EndTime != nil && *req.EndTime != ""
	if hasStart != hasEnd {
		return fmt.Errorf("%w: startTime и endTime задаются вместе", ErrInvalidTime)
	}
	if !hasStart || !req.StartDate.Equal(req.EndDate) {
		return nil
	}
	// Формат уже проверен, "HH:mm" сравнивается как строка.
	if *req.EndTime < *req.StartTime {
		return fmt.Errorf("%w: endTime %s раньше startTime %s", ErrInvalidTime, *req.EndTime, *req.StartTime)
	}
	return nil
}
