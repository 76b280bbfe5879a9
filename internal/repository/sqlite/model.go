package sqlite

import "time"

// Entry is one row of the drafts table
type Entry struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
