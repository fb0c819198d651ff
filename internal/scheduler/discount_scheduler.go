package scheduler

import (
	"time"

	"github.com/pressplay/pressplay-backend/internal/app/repository"
	"github.com/pressplay/pressplay-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// DiscountScheduler clears discounts whose end date has passed so the
// catalog never keeps serving a stale promotion price.
type DiscountScheduler struct {
	cron     *cron.Cron
	gameRepo repository.GameRepository
}

func NewDiscountScheduler(gameRepo repository.GameRepository) *DiscountScheduler {
	return &DiscountScheduler{
		cron:     cron.New(),
		gameRepo: gameRepo,
	}
}

// Start schedules the daily discount sweep at midnight.
func (s *DiscountScheduler) Start() error {
	_, err := s.cron.AddFunc("0 0 * * *", func() {
		s.RunOnce()
	})
	if err != nil {
		logger.Error("Failed to add cron job for discount expiry", err)
		return err
	}

	s.cron.Start()
	logger.Info("Discount scheduler started successfully (daily)", nil)

	return nil
}

// RunOnce sweeps expired discounts immediately.
func (s *DiscountScheduler) RunOnce() {
	logger.Info("Starting scheduled discount expiry sweep", nil)

	cleared, err := s.gameRepo.ClearExpiredDiscounts(time.Now())
	if err != nil {
		logger.Error("Failed to clear expired discounts", err)
		return
	}

	logger.Info("Discount expiry sweep completed", map[string]interface{}{
		"cleared": cleared,
	})
}

// Stop halts the scheduler.
func (s *DiscountScheduler) Stop() {
	logger.Info("Stopping discount scheduler...", nil)
	s.cron.Stop()
	logger.Info("Discount scheduler stopped", nil)
}
