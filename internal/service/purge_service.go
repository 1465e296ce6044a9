package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"standup-bot/internal/model"
	"standup-bot/internal/repository"
)

// PurgeService removes entries outside the retention window. Deletion is
// permanent; there is no soft-delete or recovery path.
type PurgeService struct {
	entries       *repository.EntryRepository
	loc           *time.Location
	retentionDays int
	log           *zap.Logger
}

func NewPurgeService(entries *repository.EntryRepository, loc *time.Location, retentionDays int, log *zap.Logger) *PurgeService {
	return &PurgeService{
		entries:       entries,
		loc:           loc,
		retentionDays: retentionDays,
		log:           log,
	}
}

// Purge deletes every entry dated strictly before today minus the
// retention window and returns the deleted row count. An entry dated
// exactly retentionDays ago survives. Re-running is a no-op.
func (s *PurgeService) Purge(ctx context.Context) (int64, error) {
	cutoff := model.FormatDate(time.Now().In(s.loc).AddDate(0, 0, -s.retentionDays))
	deleted, err := s.entries.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.log.Info("purge complete",
		zap.String("cutoff", cutoff),
		zap.Int64("deleted", deleted),
	)
	return deleted, nil
}
