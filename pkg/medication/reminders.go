// Package medication computes when the next scheduled dose is due.
package medication

import (
	"strings"
	"time"

	"github.com/pulseid/platform/pkg/common/models"
)

// Due is the next dose: the reminder it belongs to and when it is due.
type Due struct {
	Reminder models.MedicationReminder `json:"reminder"`
	At       time.Time                 `json:"nextDue"`
}

// NextDue returns the earliest upcoming dose across all reminders. A time
// of day that has already passed today is due tomorrow; one equal to now
// is due now. Times that are not valid "HH:MM" values are skipped. Ties go
// to the reminder listed first. ok is false when nothing is scheduled.
func NextDue(reminders []models.MedicationReminder, now time.Time) (Due, bool) {
	var next Due
	found := false
	for _, r := range reminders {
		for _, tod := range r.Times {
			at, ok := dueAt(tod, now)
			if !ok {
				continue
			}
			if !found || at.Before(next.At) {
				next = Due{Reminder: r, At: at}
				found = true
			}
		}
	}
	return next, found
}

func dueAt(timeOfDay string, now time.Time) (time.Time, bool) {
	clock, err := time.Parse("15:04", strings.TrimSpace(timeOfDay))
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := now.Date()
	at := time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, now.Location())
	if at.Before(now) {
		at = time.Date(y, m, d+1, clock.Hour(), clock.Minute(), 0, 0, now.Location())
	}
	return at, true
}
