package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"standup-bot/internal/model"
)

// EntryRepository handles persistence of standup entries. It exposes the
// full storage contract the handler and jobs require, nothing more.
type EntryRepository struct {
	db *gorm.DB
}

func NewEntryRepository(db *gorm.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// Upsert inserts an entry for (phone, date) or overwrites its content if
// one already exists. The conflict clause makes concurrent same-day
// submissions from one sender collapse into a single row.
func (r *EntryRepository) Upsert(ctx context.Context, phone, date, content string) (*model.StandupEntry, error) {
	entry := model.StandupEntry{
		PhoneNumber: phone,
		EntryDate:   date,
		Content:     content,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "phone_number"}, {Name: "entry_date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"content":    content,
			"updated_at": time.Now(),
		}),
	}).Create(&entry).Error
	if err != nil {
		return nil, fmt.Errorf("upsert entry: %w", err)
	}
	// On conflict the insert does not populate the existing row's ID.
	return r.GetForDate(ctx, phone, date)
}

// GetForDate returns the entry for (phone, date). Callers distinguish a
// missing entry via gorm.ErrRecordNotFound.
func (r *EntryRepository) GetForDate(ctx context.Context, phone, date string) (*model.StandupEntry, error) {
	var entry model.StandupEntry
	if err := r.db.WithContext(ctx).
		Where("phone_number = ? AND entry_date = ?", phone, date).
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListForDate returns every entry submitted for the given date.
func (r *EntryRepository) ListForDate(ctx context.Context, date string) ([]model.StandupEntry, error) {
	var entries []model.StandupEntry
	if err := r.db.WithContext(ctx).
		Where("entry_date = ?", date).
		Order("phone_number ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListForRange returns one sender's entries with fromDate <= entry_date <= toDate.
func (r *EntryRepository) ListForRange(ctx context.Context, phone, fromDate, toDate string) ([]model.StandupEntry, error) {
	var entries []model.StandupEntry
	if err := r.db.WithContext(ctx).
		Where("phone_number = ? AND entry_date >= ? AND entry_date <= ?", phone, fromDate, toDate).
		Order("entry_date ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteOlderThan removes entries strictly older than the cutoff date and
// reports how many rows were deleted. Deleting nothing is not an error.
func (r *EntryRepository) DeleteOlderThan(ctx context.Context, date string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("entry_date < ?", date).
		Delete(&model.StandupEntry{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete old entries: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// DistinctPhoneNumbers returns every sender that has ever submitted an
// entry, in stable order.
func (r *EntryRepository) DistinctPhoneNumbers(ctx context.Context) ([]string, error) {
	var phones []string
	if err := r.db.WithContext(ctx).
		Model(&model.StandupEntry{}).
		Distinct().
		Order("phone_number ASC").
		Pluck("phone_number", &phones).Error; err != nil {
		return nil, err
	}
	return phones, nil
}
