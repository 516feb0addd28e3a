// Package sweeper drives the periodic jobs of the conduct engine: expiring
// meetings whose scheduled time passed unattended and promoting students whose
// year at the current level has elapsed. Both jobs are idempotent, so a sweep
// that overlaps a restart does no harm.
package sweeper

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// MeetingSweeper expires scheduled meetings whose time has passed.
type MeetingSweeper interface {
	SweepExpiredMeetings(ctx context.Context, now time.Time) (int, error)
}

// PromotionSweeper advances students whose time at the current year level has
// run out.
type PromotionSweeper interface {
	SweepPromotions(ctx context.Context, now time.Time) (promoted, graduated int, err error)
}

// Sweeper runs both jobs on independent tickers.
type Sweeper struct {
	alerts            MeetingSweeper
	students          PromotionSweeper
	meetingInterval   time.Duration
	promotionInterval time.Duration
	logger            zerolog.Logger
	now               func() time.Time
}

// New creates a sweeper. Pass nil for now to use the wall clock.
func New(
	alerts MeetingSweeper,
	students PromotionSweeper,
	meetingInterval time.Duration,
	promotionInterval time.Duration,
	logger zerolog.Logger,
	now func() time.Time,
) *Sweeper {
	if now == nil {
		now = time.Now
	}
	return &Sweeper{
		alerts:            alerts,
		students:          students,
		meetingInterval:   meetingInterval,
		promotionInterval: promotionInterval,
		logger:            logger,
		now:               now,
	}
}

// Run blocks until ctx is cancelled. Each job runs once immediately, so a
// restart catches up on anything missed while the process was down, then on
// its ticker.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info().
		Dur("meeting_interval", s.meetingInterval).
		Dur("promotion_interval", s.promotionInterval).
		Msg("Sweeper started")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.loop(ctx, s.meetingInterval, s.sweepMeetings)
	}()
	go func() {
		defer wg.Done()
		s.loop(ctx, s.promotionInterval, s.sweepPromotions)
	}()
	wg.Wait()

	s.logger.Info().Msg("Sweeper stopped")
}

func (s *Sweeper) loop(ctx context.Context, interval time.Duration, sweep func(context.Context)) {
	sweep(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep(ctx)
		}
	}
}

func (s *Sweeper) sweepMeetings(ctx context.Context) {
	expired, err := s.alerts.SweepExpiredMeetings(ctx, s.now())
	if err != nil {
		s.logger.Error().Err(err).Msg("Meeting sweep failed")
		return
	}
	if expired > 0 {
		s.logger.Info().Int("expired", expired).Msg("Meeting sweep completed")
	}
}

func (s *Sweeper) sweepPromotions(ctx context.Context) {
	promoted, graduated, err := s.students.SweepPromotions(ctx, s.now())
	if err != nil {
		s.logger.Error().Err(err).Msg("Promotion sweep failed")
		return
	}
	if promoted > 0 || graduated > 0 {
		s.logger.Info().
			Int("promoted", promoted).
			Int("graduated", graduated).
			Msg("Promotion sweep completed")
	}
}
