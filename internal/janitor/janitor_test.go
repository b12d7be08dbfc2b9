package janitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethanbaker/scribe/pkg/meeting"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	stale   []*meeting.Meeting
	listErr error

	updated   map[uuid.UUID]map[string]any
	updateErr error

	cutoff time.Time
}

func (f *fakeStore) ListStaleInProgress(ctx context.Context, cutoff time.Time) ([]*meeting.Meeting, error) {
	f.cutoff = cutoff
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.stale, nil
}

func (f *fakeStore) UpdateMeeting(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.updated == nil {
		f.updated = make(map[uuid.UUID]map[string]any)
	}
	f.updated[id] = fields
	return nil
}

func TestSweep_ClosesStaleMeetings(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	stale := meeting.NewMeeting(uuid.New(), uuid.New(), "Abandoned", "general", now.Add(-30*time.Hour))
	store := &fakeStore{stale: []*meeting.Meeting{stale}}

	j, err := New(store, "@hourly", 24*time.Hour)
	require.NoError(t, err)
	j.now = func() time.Time { return now }

	j.Sweep()

	// Cutoff is now minus the max age
	assert.Equal(t, now.Add(-24*time.Hour), store.cutoff)

	fields, ok := store.updated[stale.ID]
	require.True(t, ok)
	assert.Equal(t, meeting.StatusCompleted, fields["status"])
	assert.Equal(t, now, fields["ended_at"])
	assert.Equal(t, 30*60*60, fields["duration_seconds"])
}

func TestSweep_NothingStale(t *testing.T) {
	store := &fakeStore{}

	j, err := New(store, "@hourly", 24*time.Hour)
	require.NoError(t, err)

	j.Sweep()
	assert.Empty(t, store.updated)
}

func TestSweep_ListFailure(t *testing.T) {
	store := &fakeStore{listErr: errors.New("db down")}

	j, err := New(store, "@hourly", 24*time.Hour)
	require.NoError(t, err)

	// Failure is logged, not fatal
	j.Sweep()
	assert.Empty(t, store.updated)
}

func TestSweep_UpdateFailureContinues(t *testing.T) {
	now := time.Now()
	store := &fakeStore{
		stale: []*meeting.Meeting{
			meeting.NewMeeting(uuid.New(), uuid.New(), "One", "general", now.Add(-48*time.Hour)),
			meeting.NewMeeting(uuid.New(), uuid.New(), "Two", "general", now.Add(-48*time.Hour)),
		},
		updateErr: errors.New("db down"),
	}

	j, err := New(store, "@hourly", 24*time.Hour)
	require.NoError(t, err)

	j.Sweep()
	assert.Empty(t, store.updated)
}

func TestNew_InvalidSchedule(t *testing.T) {
	_, err := New(&fakeStore{}, "not a schedule", time.Hour)
	assert.Error(t, err)
}
