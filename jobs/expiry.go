package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mada_server_go/models"

	"github.com/robfig/cron/v3"
)

// Expirer помечает истекшими записи, закончившиеся раньше указанного дня.
type Expirer interface {
	ExpireBefore(ctx context.Context, day models.Date) (int64, error)
}

// Scheduler запускает фоновые задачи по cron-расписанию.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewScheduler создает планировщик в часовом поясе loc.
func NewScheduler(loc *time.Location, logger *slog.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		logger: logger,
	}
}

// ScheduleExpiry добавляет задачу пометки истекших записей. Пустое расписание ничего не добавляет.
func (s *Scheduler) ScheduleExpiry(spec string, expirer Expirer) error {
	if spec == "" {
		s.logger.Info("expiry sweep disabled")
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() {
		if _, err := RunExpiry(context.Background(), expirer, time.Now()); err != nil {
			s.logger.Error("expiry sweep failed", "err", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule expiry sweep %q: %w", spec, err)
	}
	s.logger.Info("expiry sweep scheduled", "spec", spec)
	return nil
}

// Start запускает планировщик в отдельной горутине.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop останавливает планировщик и ждет завершения запущенных задач или отмены ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
	}
}

// RunExpiry один раз помечает истекшими записи, закончившиеся раньше дня now.
func RunExpiry(ctx context.Context, expirer Expirer, now time.Time) (int64, error) {
	return expirer.ExpireBefore(ctx, models.DateOf(now))
}
