package service

import (
	"context"

	"standup-bot/internal/repository"
)

// Roster supplies the set of users eligible for scheduled notifications.
// It is injected into the jobs so roster derivation stays swappable.
type Roster interface {
	ActiveUsers(ctx context.Context) ([]string, error)
}

// EntryRoster derives the roster from distinct senders in the entry
// store: anyone who has ever submitted an entry is active.
type EntryRoster struct {
	entries *repository.EntryRepository
}

func NewEntryRoster(entries *repository.EntryRepository) *EntryRoster {
	return &EntryRoster{entries: entries}
}

func (r *EntryRoster) ActiveUsers(ctx context.Context) ([]string, error) {
	return r.entries.DistinctPhoneNumbers(ctx)
}

// StaticRoster is a fixed recipient list, configured explicitly.
type StaticRoster []string

func (r StaticRoster) ActiveUsers(_ context.Context) ([]string, error) {
	users := make([]string, len(r))
	copy(users, r)
	return users, nil
}
