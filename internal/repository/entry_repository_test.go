package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"standup-bot/internal/model"
)

func newTestRepo(t *testing.T) *EntryRepository {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return NewEntryRepository(db)
}

func dateDaysAgo(days int) string {
	return model.FormatDate(time.Now().AddDate(0, 0, -days))
}

func TestUpsertSameDayKeepsSingleRow(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	phone := "whatsapp:+1111111111"
	today := dateDaysAgo(0)

	if _, err := repo.Upsert(ctx, phone, today, "first update"); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	entry, err := repo.Upsert(ctx, phone, today, "second update")
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if entry.Content != "second update" {
		t.Errorf("content = %q, want %q", entry.Content, "second update")
	}

	entries, err := repo.ListForDate(ctx, today)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d rows for (phone, date), want 1", len(entries))
	}
}

func TestUpsertDifferentDaysCreatesSeparateRows(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	phone := "whatsapp:+1111111111"

	if _, err := repo.Upsert(ctx, phone, dateDaysAgo(1), "yesterday"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := repo.Upsert(ctx, phone, dateDaysAgo(0), "today"); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if _, err := repo.GetForDate(ctx, phone, dateDaysAgo(1)); err != nil {
		t.Errorf("yesterday's entry missing: %v", err)
	}
	if _, err := repo.GetForDate(ctx, phone, dateDaysAgo(0)); err != nil {
		t.Errorf("today's entry missing: %v", err)
	}
}

func TestGetForDateNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetForDate(context.Background(), "whatsapp:+1", dateDaysAgo(0))
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want gorm.ErrRecordNotFound", err)
	}
}

func TestDeleteOlderThanBoundary(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	phone := "whatsapp:+5555555555"

	for _, days := range []int{31, 30, 29, 0} {
		if _, err := repo.Upsert(ctx, phone, dateDaysAgo(days), "entry"); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	// Retention of 30 days: only the 31-day-old entry is strictly older
	// than the cutoff.
	deleted, err := repo.DeleteOlderThan(ctx, dateDaysAgo(30))
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	if _, err := repo.GetForDate(ctx, phone, dateDaysAgo(31)); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Error("31-day-old entry should be deleted")
	}
	if _, err := repo.GetForDate(ctx, phone, dateDaysAgo(30)); err != nil {
		t.Errorf("30-day-old entry should survive: %v", err)
	}
	if _, err := repo.GetForDate(ctx, phone, dateDaysAgo(29)); err != nil {
		t.Errorf("29-day-old entry should survive: %v", err)
	}

	// Second run deletes nothing.
	deleted, err = repo.DeleteOlderThan(ctx, dateDaysAgo(30))
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if deleted != 0 {
		t.Errorf("second run deleted = %d, want 0", deleted)
	}
}

func TestDistinctPhoneNumbers(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.Upsert(ctx, "whatsapp:+2222222222", dateDaysAgo(0), "a"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := repo.Upsert(ctx, "whatsapp:+1111111111", dateDaysAgo(1), "b"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := repo.Upsert(ctx, "whatsapp:+1111111111", dateDaysAgo(0), "c"); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	phones, err := repo.DistinctPhoneNumbers(ctx)
	if err != nil {
		t.Fatalf("distinct: %v", err)
	}
	want := []string{"whatsapp:+1111111111", "whatsapp:+2222222222"}
	if len(phones) != len(want) {
		t.Fatalf("got %d phones, want %d", len(phones), len(want))
	}
	for i := range want {
		if phones[i] != want[i] {
			t.Errorf("phones[%d] = %q, want %q", i, phones[i], want[i])
		}
	}
}

func TestListForRange(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	phone := "whatsapp:+3333333333"

	for _, days := range []int{10, 3, 1, 0} {
		if _, err := repo.Upsert(ctx, phone, dateDaysAgo(days), "entry"); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	if _, err := repo.Upsert(ctx, "whatsapp:+other", dateDaysAgo(1), "other sender"); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	entries, err := repo.ListForRange(ctx, phone, dateDaysAgo(3), dateDaysAgo(0))
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries in range, want 3", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].EntryDate > entries[i].EntryDate {
			t.Error("entries not ordered by date ascending")
		}
	}
}
