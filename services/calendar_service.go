package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"mada_server_go/models"

	"github.com/samber/mo"
)

// UserDirectory сопоставляет идентификатор из токена с пользователем.
type UserDirectory interface {
	ResolveUser(ctx context.Context, authID string) (*models.User, error)
}

// CalendarStore - хранилище записей календаря.
// InTx задает границу транзакции: все вызовы через переданный store выполняются атомарно.
type CalendarStore interface {
	FindAllByUser(ctx context.Context, userID int64) ([]models.Calendar, error)
	FindAllByUserAndDday(ctx context.Context, userID int64, flag models.DdayFlag) ([]models.Calendar, error)
	ExistsByUserAndEndDateBetweenAndName(ctx context.Context, userID int64, start, end models.Date, name string) (bool, error)
	// FindByID ищет запись без учета владельца. Сервис использует FindByUserAndID.
	FindByID(ctx context.Context, id int64) (mo.Option[models.Calendar], error)
	FindByUserAndID(ctx context.Context, userID, id int64) (mo.Option[models.Calendar], error)
	Save(ctx context.Context, entry *models.Calendar) error
	DeleteByID(ctx context.Context, id int64) error
	MarkExpiredBefore(ctx context.Context, day models.Date) (int64, error)
	InTx(ctx context.Context, fn func(store CalendarStore) error) error
}

// CalendarOptions - настраиваемые правила календаря.
type CalendarOptions struct {
	DdayLimit     int
	QuotaMode     QuotaMode
	CollisionMode CollisionMode
}

// DefaultCalendarOptions воспроизводит исходное поведение: лимит 3 по всем записям
// и проверка имени по дате окончания.
func DefaultCalendarOptions() CalendarOptions {
	return CalendarOptions{
		DdayLimit:     DefaultDdayLimit,
		QuotaMode:     QuotaAllEntries,
		CollisionMode: CollisionLegacy,
	}
}

// CalendarService связывает каталог пользователей, хранилище и правила календаря.
type CalendarService struct {
	users  UserDirectory
	store  CalendarStore
	opts   CalendarOptions
	logger *slog.Logger
}

// NewCalendarService создает сервис календаря.
func NewCalendarService(users UserDirectory, store CalendarStore, opts CalendarOptions, logger *slog.Logger) *CalendarService {
	if opts.DdayLimit <= 0 {
		opts.DdayLimit = DefaultDdayLimit
	}
	if opts.QuotaMode == "" {
		opts.QuotaMode = QuotaAllEntries
	}
	if opts.CollisionMode == "" {
		opts.CollisionMode = CollisionLegacy
	}
	return &CalendarService{users: users, store: store, opts: opts, logger: logger}
}

// Create проверяет лимит D-day и совпадение имени, затем сохраняет новую запись.
func (s *CalendarService) Create(ctx context.Context, authID string, req models.CalendarRequest) (*models.Calendar, error) {
	user, err := s.users.ResolveUser(ctx, authID)
	if err != nil {
		return nil, err
	}
	if err := validateCalendarRequest(&req); err != nil {
		return nil, err
	}

	entry := models.Calendar{
		UserID:     user.ID,
		Name:       req.CalendarName,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Repeat:     req.Repeat,
		RepeatInfo: req.RepeatInfo,
		Dday:       req.Dday,
		Memo:       req.Memo,
		Color:      req.Color,
	}
	if req.IsExpired != nil {
		entry.IsExpired = *req.IsExpired
	}

	err = s.store.InTx(ctx, func(store CalendarStore) error {
		if req.Dday.IsDday() {
			count, err := s.quotaCount(ctx, store, user.ID)
			if err != nil {
				return err
			}
			if checkQuota(count, s.opts.DdayLimit) {
				return fmt.Errorf("%w: лимит %d", ErrQuotaExceeded, s.opts.DdayLimit)
			}
		}

		collides, err := s.nameCollides(ctx, store, user.ID, &req)
		if err != nil {
			return err
		}
		if collides {
			return ErrDuplicateName
		}
		return store.Save(ctx, &entry)
	})
	if err != nil {
		s.logger.Info("calendar entry rejected", "user_id", user.ID, "name", req.CalendarName, "err", err)
		return nil, err
	}

	s.logger.Info("calendar entry created", "user_id", user.ID, "id", entry.ID, "dday", entry.Dday)
	return &entry, nil
}

// Edit перезаписывает memo, даты, имя и цвет записи владельца.
// Лимит D-day и совпадение имени повторно не проверяются.
func (s *CalendarService) Edit(ctx context.Context, authID string, id int64, req models.CalendarRequest) (*models.Calendar, error) {
	user, err := s.users.ResolveUser(ctx, authID)
	if err != nil {
		return nil, err
	}
	if err := validateCalendarRequest(&req); err != nil {
		return nil, err
	}

	var updated models.Calendar
	err = s.store.InTx(ctx, func(store CalendarStore) error {
		found, err := store.FindByUserAndID(ctx, user.ID, id)
		if err != nil {
			return err
		}
		entry, ok := found.Get()
		if !ok {
			return ErrEntryNotFound
		}

		entry.Memo = req.Memo
		entry.StartDate = req.StartDate
		entry.EndDate = req.EndDate
		entry.Name = req.CalendarName
		entry.Color = req.Color
		if err := store.Save(ctx, &entry); err != nil {
			return err
		}
		updated = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("calendar entry edited", "user_id", user.ID, "id", id)
	return &updated, nil
}

// Delete удаляет запись владельца и возвращает ее состояние до удаления.
func (s *CalendarService) Delete(ctx context.Context, authID string, id int64) (*models.Calendar, error) {
	user, err := s.users.ResolveUser(ctx, authID)
	if err != nil {
		return nil, err
	}

	var snapshot models.Calendar
	err = s.store.InTx(ctx, func(store CalendarStore) error {
		found, err := store.FindByUserAndID(ctx, user.ID, id)
		if err != nil {
			return err
		}
		entry, ok := found.Get()
		if !ok {
			return ErrEntryNotFound
		}
		if err := store.DeleteByID(ctx, entry.ID); err != nil {
			return err
		}
		snapshot = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("calendar entry deleted", "user_id", user.ID, "id", id)
	return &snapshot, nil
}

// Get возвращает запись владельца по ID.
func (s *CalendarService) Get(ctx context.Context, authID string, id int64) (*models.Calendar, error) {
	user, err := s.users.ResolveUser(ctx, authID)
	if err != nil {
		return nil, err
	}
	found, err := s.store.FindByUserAndID(ctx, user.ID, id)
	if err != nil {
		return nil, err
	}
	entry, ok := found.Get()
	if !ok {
		return nil, ErrEntryNotFound
	}
	return &entry, nil
}

// ListAll возвращает все записи пользователя.
func (s *CalendarService) ListAll(ctx context.Context, authID string) ([]models.Calendar, error) {
	user, err := s.users.ResolveUser(ctx, authID)
	if err != nil {
		return nil, err
	}
	return s.store.FindAllByUser(ctx, user.ID)
}

// ListByDate возвращает записи, активные в указанный день.
func (s *CalendarService) ListByDate(ctx context.Context, authID string, date models.Date) ([]models.Calendar, error) {
	all, err := s.ListAll(ctx, authID)
	if err != nil {
		return nil, err
	}
	return FilterByDate(all, date), nil
}

// ListByMonth возвращает записи, попадающие в месяц (без учета года).
func (s *CalendarService) ListByMonth(ctx context.Context, authID string, month int) ([]models.Calendar, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}
	all, err := s.ListAll(ctx, authID)
	if err != nil {
		return nil, err
	}
	return FilterByMonth(all, time.Month(month)), nil
}

// ListDday возвращает записи пользователя с признаком D-day.
func (s *CalendarService) ListDday(ctx context.Context, authID string) ([]models.Calendar, error) {
	user, err := s.users.ResolveUser(ctx, authID)
	if err != nil {
		return nil, err
	}
	return s.store.FindAllByUserAndDday(ctx, user.ID, models.DdayYes)
}

// ExpireBefore помечает истекшими записи всех пользователей, закончившиеся раньше day.
func (s *CalendarService) ExpireBefore(ctx context.Context, day models.Date) (int64, error) {
	n, err := s.store.MarkExpiredBefore(ctx, day)
	if err != nil {
		return 0, err
	}
	s.logger.Info("expired calendar entries marked", "before", day.String(), "count", n)
	return n, nil
}

func (s *CalendarService) quotaCount(ctx context.Context, store CalendarStore, userID int64) (int, error) {
	entries, err := store.FindAllByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if s.opts.QuotaMode == QuotaDdayOnly {
		return len(DdayEntries(entries)), nil
	}
	return len(entries), nil
}

func (s *CalendarService) nameCollides(ctx context.Context, store CalendarStore, userID int64, req *models.CalendarRequest) (bool, error) {
	if s.opts.CollisionMode == CollisionOverlap {
		entries, err := store.FindAllByUser(ctx, userID)
		if err != nil {
			return false, err
		}
		return CheckNameCollision(entries, req.CalendarName, req.StartDate, req.EndDate, CollisionOverlap), nil
	}
	return store.ExistsByUserAndEndDateBetweenAndName(ctx, userID, req.StartDate, req.EndDate, req.CalendarName)
}

// validateCalendarRequest проверяет обязательные поля и нормализует признак D-day.
func validateCalendarRequest(req *models.CalendarRequest) error {
	if strings.TrimSpace(req.CalendarName) == "" {
		return ErrInvalidName
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate и endDate обязательны", ErrInvalidDateRange)
	}
	if req.EndDate.Before(req.StartDate) {
		return ErrInvalidDateRange
	}
	if err := validateTimeOfDay(req.StartTime); err != nil {
		return err
	}
	if err := validateTimeOfDay(req.EndTime); err != nil {
		return err
	}
	if err := validateTimePair(req); err != nil {
		return err
	}
	if req.Dday == "" {
		req.Dday = models.DdayNo
	}
	return nil
}
