package processor

import (
	"context"

	"github.com/robfig/cron/v3"

	"velora/background-worker-service/internal/app/background-worker/service"
	"velora/pkg/logger"
)

// CronScheduler запускает периодическую сверку агрегатов рейтинга
type CronScheduler struct {
	cron         *cron.Cron
	reconcileSvc service.ReconcileServiceInterface
}

func NewCronScheduler(reconcileSvc service.ReconcileServiceInterface) *CronScheduler {
	// Расписание с секундами, как "0 */10 * * * *"
	c := cron.New(cron.WithSeconds())

	return &CronScheduler{
		cron:         c,
		reconcileSvc: reconcileSvc,
	}
}

// Start регистрирует задачу сверки и сразу выполняет первый проход
func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting cron scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		logger.Info().Msg("Cron job triggered: reconciling rating aggregates")

		if _, err := s.reconcileSvc.ReconcileAggregates(ctx); err != nil {
			logger.Error().Err(err).Msg("Rating reconciliation failed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()

	// Первый проход не ждет расписания: сервис мог пропустить события, пока был выключен
	if _, err := s.reconcileSvc.ReconcileAggregates(ctx); err != nil {
		logger.Warn().Err(err).Msg("Initial rating reconciliation failed")
	}

	return nil
}

// Stop останавливает планировщик и дожидается завершения текущей задачи
func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Cron scheduler stopped")
}

// GetEntries возвращает зарегистрированные задачи
func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
