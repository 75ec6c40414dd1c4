package service

import (
	"context"
	"fmt"
	"time"

	"github.com/plankhq/plank/shared/domain"
	"github.com/plankhq/plank/shared/logger"
)

// Offset kinds recorded in the reminder log. One marker per card, offset
// and calendar day makes delivery at-most-once even across restarts and
// overlapping sweep runs.
const (
	OffsetWeekBefore = "week_before"
	OffsetDayBefore  = "day_before"
)

// ReminderSweeper periodically scans for cards whose deadline is exactly
// seven days or one day away and emails their assignees. A single sweep
// covers both offsets; failures are logged and never stop the schedule.
type ReminderSweeper struct {
	storage        ReminderStorage
	email          Email
	lastSweepStats SweepStats
	now            func() time.Time // injectable clock for tests
}

// SweepStats tracks metrics from the last reminder sweep run.
type SweepStats struct {
	RunAt         time.Time
	CardsMatched  int
	RemindersSent int
	AlreadyMarked int
	DurationMs    int64
	Errors        []string
}

// ReminderStorage defines the database operations the sweep needs.
type ReminderStorage interface {
	DueCards(endDate time.Time) ([]domain.DueCard, error)
	MarkReminderSent(cardId domain.CardId, offsetKind string, sentOn time.Time) (bool, error)
}

func NewReminderSweeper(storage ReminderStorage, email Email) *ReminderSweeper {
	return &ReminderSweeper{
		storage: storage,
		email:   email,
		now:     time.Now,
	}
}

// StartBackgroundSweep starts a goroutine running the sweep periodically
// until the context is cancelled.
func (rs *ReminderSweeper) StartBackgroundSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("started reminder sweeper",
		"component", "reminder",
		"interval", interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := rs.RunSweep(); err != nil {
					logger.Log.Error("reminder sweep failed",
						"component", "reminder",
						"error", err)
				}
			case <-ctx.Done():
				logger.Log.Info("stopping reminder sweeper", "component", "reminder")
				return
			}
		}
	}()
}

// RunSweep performs one pass over both offsets.
func (rs *ReminderSweeper) RunSweep() error {
	start := rs.now()
	today := start.UTC().Truncate(24 * time.Hour)

	stats := SweepStats{RunAt: start}

	offsets := []struct {
		kind string
		days int
	}{
		{OffsetWeekBefore, 7},
		{OffsetDayBefore, 1},
	}

	for _, offset := range offsets {
		due := today.AddDate(0, 0, offset.days)
		cards, err := rs.storage.DueCards(due)
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("query %s: %v", offset.kind, err))
			continue
		}
		stats.CardsMatched += len(cards)

		for _, card := range cards {
			sent, err := rs.storage.MarkReminderSent(card.CardId, offset.kind, today)
			if err != nil {
				stats.Errors = append(stats.Errors, fmt.Sprintf("mark card %d: %v", card.CardId, err))
				continue
			}
			if !sent {
				// Another run already claimed this reminder today
				stats.AlreadyMarked++
				continue
			}

			if err := rs.sendReminder(card, offset.days); err != nil {
				stats.Errors = append(stats.Errors, fmt.Sprintf("email card %d: %v", card.CardId, err))
				continue
			}
			stats.RemindersSent++
		}
	}

	stats.DurationMs = time.Since(start).Milliseconds()
	rs.lastSweepStats = stats

	logger.Log.Info("reminder sweep finished",
		"component", "reminder",
		"cards_matched", stats.CardsMatched,
		"reminders_sent", stats.RemindersSent,
		"already_marked", stats.AlreadyMarked,
		"duration_ms", stats.DurationMs,
		"errors", len(stats.Errors))

	if len(stats.Errors) > 0 {
		return fmt.Errorf("sweep finished with %d errors: %s", len(stats.Errors), stats.Errors[0])
	}
	return nil
}

// LastSweepStats returns metrics from the most recent run.
func (rs *ReminderSweeper) LastSweepStats() SweepStats {
	return rs.lastSweepStats
}

func (rs *ReminderSweeper) sendReminder(card domain.DueCard, daysLeft int) error {
	when := "in 7 days"
	if daysLeft == 1 {
		when = "tomorrow"
	}
	body := fmt.Sprintf(`
		Hello %s,

		The card "%s" in project "%s" is due %s (%s).
	`, card.AssigneeUsername, card.Title, card.ProjectName, when, card.EndDate.Format("2006-01-02"))

	return rs.email.Send(card.AssigneeEmail, fmt.Sprintf("Reminder: %q is due %s", card.Title, when), body)
}
