// Package meetingstore persists meetings, transcript entries and action
// items using GORM over MySQL.
package meetingstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethanbaker/scribe/pkg/meeting"
	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Store handles meeting persistence using GORM
type Store struct {
	db *gorm.DB
}

// NewStore creates a new meeting store with a GORM connection
func NewStore(databaseURL string) (*Store, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}

	// Auto-migrate tables
	if err := db.AutoMigrate(&meeting.Meeting{}, &meeting.TranscriptEntry{}, &meeting.ActionItem{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}

	return store, nil
}

// CreateMeeting creates a new meeting record in the database
func (s *Store) CreateMeeting(ctx context.Context, m *meeting.Meeting) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	result := s.db.WithContext(ctx).Create(m)
	if result.Error != nil {
		return fmt.Errorf("failed to create meeting: %w", result.Error)
	}

	return nil
}

// UpdateMeeting applies a partial update to a meeting record by id
func (s *Store) UpdateMeeting(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	result := s.db.WithContext(ctx).Model(&meeting.Meeting{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update meeting: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &meeting.NotFoundError{Kind: "meeting", ID: id.String()}
	}

	return nil
}

// GetMeeting retrieves a meeting by id with its transcript entries and
// action items
func (s *Store) GetMeeting(ctx context.Context, id uuid.UUID) (*meeting.Meeting, error) {
	var m meeting.Meeting
	result := s.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp_seconds, created_at")
		}).
		Preload("ActionItems").
		First(&m, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &meeting.NotFoundError{Kind: "meeting", ID: id.String()}
		}
		return nil, fmt.Errorf("failed to get meeting: %w", result.Error)
	}

	return &m, nil
}

// ListMeetings retrieves meetings for an organization, newest first
func (s *Store) ListMeetings(ctx context.Context, orgID uuid.UUID, limit int) ([]*meeting.Meeting, error) {
	var meetings []*meeting.Meeting
	result := s.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("started_at DESC").
		Limit(limit).
		Find(&meetings)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", result.Error)
	}

	return meetings, nil
}

// CreateEntry creates a transcript entry record
func (s *Store) CreateEntry(ctx context.Context, e *meeting.TranscriptEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	result := s.db.WithContext(ctx).Create(e)
	if result.Error != nil {
		return fmt.Errorf("failed to create transcript entry: %w", result.Error)
	}

	return nil
}

// SetEntryHighlighted updates the highlighted flag on a transcript entry.
// The flag is the only mutable field on an entry
func (s *Store) SetEntryHighlighted(ctx context.Context, id uuid.UUID, highlighted bool) error {
	result := s.db.WithContext(ctx).Model(&meeting.TranscriptEntry{}).
		Where("id = ?", id).
		Update("highlighted", highlighted)
	if result.Error != nil {
		return fmt.Errorf("failed to update transcript entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &meeting.NotFoundError{Kind: "transcript entry", ID: id.String()}
	}

	return nil
}

// CreateActionItem creates an action item record
func (s *Store) CreateActionItem(ctx context.Context, item *meeting.ActionItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	result := s.db.WithContext(ctx).Create(item)
	if result.Error != nil {
		return fmt.Errorf("failed to create action item: %w", result.Error)
	}

	return nil
}

// ListStaleInProgress returns in-progress meetings started before the
// cutoff, used by the janitor to close sessions orphaned by a crashed
// client
func (s *Store) ListStaleInProgress(ctx context.Context, cutoff time.Time) ([]*meeting.Meeting, error) {
	var meetings []*meeting.Meeting
	result := s.db.WithContext(ctx).
		Where("status = ? AND started_at < ?", meeting.StatusInProgress, cutoff).
		Find(&meetings)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list stale meetings: %w", result.Error)
	}

	return meetings, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}
	return sqlDB.Close()
}
