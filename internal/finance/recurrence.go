package finance

import (
	"fmt"
	"time"

	"finwise/internal/models"
)

// Recurrence advances a due date by n periods from its anchor date.
type Recurrence interface {
	Advance(anchor time.Time, n int) time.Time
}

type dailyRecurrence struct{}

func (dailyRecurrence) Advance(anchor time.Time, n int) time.Time { return anchor.AddDate(0, 0, n) }

type weeklyRecurrence struct{}

func (weeklyRecurrence) Advance(anchor time.Time, n int) time.Time { return anchor.AddDate(0, 0, 7*n) }

type monthlyRecurrence struct{}

func (monthlyRecurrence) Advance(anchor time.Time, n int) time.Time {
	return addMonthsClamped(anchor, n)
}

type yearlyRecurrence struct{}

func (yearlyRecurrence) Advance(anchor time.Time, n int) time.Time {
	return addMonthsClamped(anchor, 12*n)
}

var recurrences = map[models.ReminderFrequency]Recurrence{
	models.FrequencyDaily:   dailyRecurrence{},
	models.FrequencyWeekly:  weeklyRecurrence{},
	models.FrequencyMonthly: monthlyRecurrence{},
	models.FrequencyYearly:  yearlyRecurrence{},
}

// RecurrenceFor returns the recurrence for a repeating frequency. ONCE and
// unknown frequencies have none.
func RecurrenceFor(freq models.ReminderFrequency) (Recurrence, error) {
	r, ok := recurrences[freq]
	if !ok {
		return nil, fmt.Errorf("frequency %q does not repeat", freq)
	}
	return r, nil
}

// NextDueDate returns the first occurrence of a reminder strictly after
// today, counting whole periods from due. A due date still ahead of today
// is returned unchanged. Each candidate is computed from due itself, so a
// reminder due on Jan 31 skips a clamped Feb 29 that is already past and
// lands on Mar 31. ok is false for frequencies that do not repeat.
func NextDueDate(freq models.ReminderFrequency, due, today time.Time) (next time.Time, ok bool) {
	r, err := RecurrenceFor(freq)
	if err != nil {
		return due, false
	}
	due = models.DateOnly(due)
	today = models.DateOnly(today)
	for n := 0; ; n++ {
		next = r.Advance(due, n)
		if next.After(today) {
			return next, true
		}
	}
}

// IsDue reports whether a reminder due on due should fire on today, given
// a lead time in days.
func IsDue(due, today time.Time, leadDays int) bool {
	return !models.DateOnly(due).After(models.DateOnly(today).AddDate(0, 0, leadDays))
}

// addMonthsClamped adds n months to t, clamping the day to the last day of
// the resulting month instead of overflowing into the next one.
func addMonthsClamped(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	lastDay := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}
