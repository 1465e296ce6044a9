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

const morningCheckinMessage = "Good morning! ☀️ Time for your daily standup.\n\n" +
	"Please reply with your update:\n" +
	"- What did you work on yesterday?\n" +
	"- What are you working on today?\n" +
	"- Any blockers?"

const eveningReminderMessage = "No standup entry recorded today. " +
	"Reply with your update to be included in the team digest."

// Messenger is the minimal outbound transport the jobs need.
type Messenger interface {
	Send(ctx context.Context, to, body string) error
}

// NotifyService runs the morning check-in and evening digest fan-outs.
// Each recipient is an independent unit of work: one failed send is
// logged and counted, the rest of the batch proceeds.
type NotifyService struct {
	entries     *repository.EntryRepository
	roster      Roster
	messenger   Messenger
	loc         *time.Location
	sendTimeout time.Duration
	log         *zap.Logger
}

func NewNotifyService(entries *repository.EntryRepository, roster Roster, messenger Messenger, loc *time.Location, sendTimeout time.Duration, log *zap.Logger) *NotifyService {
	return &NotifyService{
		entries:     entries,
		roster:      roster,
		messenger:   messenger,
		loc:         loc,
		sendTimeout: sendTimeout,
		log:         log,
	}
}

// MorningCheckin prompts every active user for today's update. An empty
// roster short-circuits the whole run without touching the transport.
func (s *NotifyService) MorningCheckin(ctx context.Context) error {
	users, err := s.roster.ActiveUsers(ctx)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}
	if len(users) == 0 {
		s.log.Info("morning check-in: no active users, skipping")
		return nil
	}

	sent, failed := s.fanOut(ctx, users, func(string) string {
		return morningCheckinMessage
	})
	s.log.Info("morning check-in complete",
		zap.Int("sent", sent),
		zap.Int("failed", failed),
	)
	return nil
}

// EveningDigest sends each active user either a digest of today's team
// entries (if that user submitted one) or a reminder (if not). Today's
// entry set is loaded once and shared read-only across the fan-out.
func (s *NotifyService) EveningDigest(ctx context.Context) error {
	users, err := s.roster.ActiveUsers(ctx)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}
	if len(users) == 0 {
		s.log.Info("evening digest: no active users, skipping")
		return nil
	}

	today := model.FormatDate(time.Now().In(s.loc))
	entries, err := s.entries.ListForDate(ctx, today)
	if err != nil {
		return fmt.Errorf("load today's entries: %w", err)
	}

	submitted := make(map[string]bool, len(entries))
	for _, entry := range entries {
		submitted[entry.PhoneNumber] = true
	}
	digest := buildDigest(today, entries)

	sent, failed := s.fanOut(ctx, users, func(user string) string {
		if submitted[user] {
			return digest
		}
		return eveningReminderMessage
	})
	s.log.Info("evening digest complete",
		zap.Int("sent", sent),
		zap.Int("failed", failed),
		zap.Int("entries", len(entries)),
	)
	return nil
}

// fanOut sends bodyFor(user) to every user, bounding each send with the
// per-recipient timeout. It returns sent and failed counts.
func (s *NotifyService) fanOut(ctx context.Context, users []string, bodyFor func(user string) string) (sent, failed int) {
	for _, user := range users {
		sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
		err := s.messenger.Send(sendCtx, user, bodyFor(user))
		cancel()
		if err != nil {
			s.log.Error("send failed", zap.String("to", user), zap.Error(err))
			failed++
			continue
		}
		sent++
	}
	return sent, failed
}

func buildDigest(date string, entries []model.StandupEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 Standup digest for %s:\n", date)
	if len(entries) == 0 {
		b.WriteString("\nNo entries were submitted today.")
		return b.String()
	}
	for _, entry := range entries {
		fmt.Fprintf(&b, "\n%s:\n%s\n", entry.PhoneNumber, entry.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}
