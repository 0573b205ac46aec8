// internal/sweeper/sweeper.go
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/user/nextgen/internal/types"
)

const (
	DefaultSchedule = "@every 10m"
	DefaultTTL      = 72 * time.Hour
)

// cronParser accepts both standard 5-field cron expressions and 6-field
// expressions with an optional seconds field.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Expirer deletes a session and its history when it is still idle since
// before cutoff at the time of deletion.
type Expirer interface {
	Expire(ctx context.Context, id types.SessionID, cutoff time.Time) (bool, error)
}

// Sweeper deletes sessions idle for longer than a TTL, together with their
// chat history.
type Sweeper struct {
	sessions types.SessionStore
	expirer  Expirer
	ttl      time.Duration
	schedule string
	cron     *cron.Cron
	now      func() time.Time
}

// New creates a Sweeper. Non-positive ttl and empty schedule select the
// defaults.
func New(sessions types.SessionStore, expirer Expirer, ttl time.Duration, schedule string) *Sweeper {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if schedule == "" {
		schedule = DefaultSchedule
	}
	return &Sweeper{
		sessions: sessions,
		expirer:  expirer,
		ttl:      ttl,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cronParser)),
		now:      time.Now,
	}
}

// ValidateSchedule reports whether expr is an accepted cron expression.
func ValidateSchedule(expr string) error {
	if _, err := cronParser.Parse(expr); err != nil {
		return fmt.Errorf("parse schedule %q: %w", expr, err)
	}
	return nil
}

// Start registers the sweep on the schedule and starts the cron ticker.
func (s *Sweeper) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		n, err := s.Sweep(ctx, s.now())
		if err != nil {
			slog.Error("session sweep failed", "error", err)
			return
		}
		if n > 0 {
			slog.Info("swept idle sessions", "deleted", n)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}
	s.cron.Start()
	slog.Info("session sweeper started", "schedule", s.schedule, "ttl", s.ttl)
	return nil
}

// Stop stops the cron ticker and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

// Sweep expires every session whose last activity is older than now minus
// the TTL and returns how many were deleted. A session active again by the
// time it is expired is kept. It keeps going past individual failures and
// returns the first error.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (int, error) {
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}

	cutoff := now.Add(-s.ttl)
	deleted := 0
	var firstErr error
	for _, sess := range sessions {
		if !sess.UpdatedAt.Before(cutoff) {
			continue
		}
		ok, err := s.expirer.Expire(ctx, sess.SessionID, cutoff)
		if err != nil {
			slog.Warn("expire session failed", "session_id", sess.SessionID, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("expire session %s: %w", sess.SessionID, err)
			}
			continue
		}
		if ok {
			deleted++
		}
	}
	return deleted, firstErr
}
