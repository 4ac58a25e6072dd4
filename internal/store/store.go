// Package store persists homes, assets, maintenance history and their
// attachments in a local SQLite database.
//
// Every entity store embeds the generic Repository, which provides
// FindAll, FindByID, Create, Update, Delete and Count, and adds its own
// finders on top. Absent rows are reported as nil (or false from Delete),
// never as errors.
package store

import "time"

// DateRange is an inclusive time window used by range finders.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// window returns the range [now, now+within] in UTC.
func window(now time.Time, within time.Duration) DateRange {
	now = now.UTC()
	return DateRange{From: now, To: now.Add(within)}
}
