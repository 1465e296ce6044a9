package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"standup-bot/internal/model"
	"standup-bot/internal/repository"
)

const summaryCommand = "/summary"

const confirmationReply = "✅ Got it! Your standup entry for today has been recorded."

// StandupService classifies inbound messages and applies them against
// the entry store. Signature verification happens before this layer; by
// the time a message reaches HandleMessage it is authenticated.
type StandupService struct {
	entries *repository.EntryRepository
	loc     *time.Location
	log     *zap.Logger
}

func NewStandupService(entries *repository.EntryRepository, loc *time.Location, log *zap.Logger) *StandupService {
	return &StandupService{entries: entries, loc: loc, log: log}
}

// HandleMessage processes one inbound message and returns the reply text.
// A reserved command is answered read-only; any other non-empty text
// upserts today's entry for the sender. The entry date comes from the
// receipt time in the configured timezone, never from the client.
func (s *StandupService) HandleMessage(ctx context.Context, from, body string, receivedAt time.Time) (string, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return "", ErrEmptyMessage
	}

	if strings.EqualFold(trimmed, summaryCommand) {
		return s.weeklySummary(ctx, from, receivedAt)
	}

	today := model.FormatDate(receivedAt.In(s.loc))
	if _, err := s.entries.Upsert(ctx, from, today, trimmed); err != nil {
		return "", fmt.Errorf("record entry: %w", err)
	}

	s.log.Info("standup entry recorded",
		zap.String("phone", from),
		zap.String("date", today),
	)
	return confirmationReply, nil
}

// weeklySummary lists the sender's entries for the current week
// (Monday through Sunday containing receivedAt). Read-only.
func (s *StandupService) weeklySummary(ctx context.Context, from string, receivedAt time.Time) (string, error) {
	local := receivedAt.In(s.loc)
	monday := local.AddDate(0, 0, -((int(local.Weekday()) + 6) % 7))
	sunday := monday.AddDate(0, 0, 6)

	entries, err := s.entries.ListForRange(ctx, from, model.FormatDate(monday), model.FormatDate(sunday))
	if err != nil {
		return "", fmt.Errorf("load weekly entries: %w", err)
	}

	if len(entries) == 0 {
		return "No standup entries recorded this week.", nil
	}

	var b strings.Builder
	_, week := local.ISOWeek()
	fmt.Fprintf(&b, "Your standup summary for week %d:\n", week)
	for _, entry := range entries {
		fmt.Fprintf(&b, "\n%s: %s", entry.EntryDate, entry.Content)
	}
	return b.String(), nil
}
