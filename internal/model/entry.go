package model

import "time"

// DateLayout is the storage format for entry dates. Lexicographic order
// on this layout matches chronological order, so date comparisons stay
// plain indexed string comparisons in SQLite.
const DateLayout = "2006-01-02"

// StandupEntry is one user's update for one calendar day. The composite
// unique index makes a same-day resubmission an update, never a second row.
type StandupEntry struct {
	ID          uint   `gorm:"primaryKey"`
	PhoneNumber string `gorm:"uniqueIndex:idx_phone_entry_date;index"`
	EntryDate   string `gorm:"uniqueIndex:idx_phone_entry_date;index"`
	Content     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FormatDate renders t as an entry date in t's location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
