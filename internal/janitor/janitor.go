// Package janitor closes meetings left in progress by crashed or
// disconnected clients, so the dashboard never shows phantom live
// sessions.
package janitor

import (
	"context"
	"log"
	"time"

	"github.com/ethanbaker/scribe/pkg/meeting"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Store is the slice of the persistence gateway the janitor needs
type Store interface {
	ListStaleInProgress(ctx context.Context, cutoff time.Time) ([]*meeting.Meeting, error)
	UpdateMeeting(ctx context.Context, id uuid.UUID, fields map[string]any) error
}

// Janitor periodically sweeps stale in-progress meetings
type Janitor struct {
	store    Store
	cron     *cron.Cron
	maxAge   time.Duration
	schedule string
	now      func() time.Time
}

// New creates a janitor sweeping on the given cron schedule, closing
// meetings older than maxAge
func New(store Store, schedule string, maxAge time.Duration) (*Janitor, error) {
	j := &Janitor{
		store:    store,
		cron:     cron.New(),
		maxAge:   maxAge,
		schedule: schedule,
		now:      time.Now,
	}

	if _, err := j.cron.AddFunc(schedule, j.Sweep); err != nil {
		return nil, err
	}

	return j, nil
}

// Start begins the scheduled sweeps
func (j *Janitor) Start() {
	j.cron.Start()
	log.Printf("[JANITOR]: sweeping stale meetings on schedule %q (max age %s)", j.schedule, j.maxAge)
}

// Stop halts the scheduler
func (j *Janitor) Stop() {
	j.cron.Stop()
}

// Sweep closes every in-progress meeting started before the cutoff,
// computing its duration from the recorded start time
func (j *Janitor) Sweep() {
	ctx := context.Background()
	now := j.now()
	cutoff := now.Add(-j.maxAge)

	stale, err := j.store.ListStaleInProgress(ctx, cutoff)
	if err != nil {
		log.Printf("[JANITOR]: failed to list stale meetings: %v", err)
		return
	}

	for _, m := range stale {
		duration := int(now.Sub(m.StartedAt) / time.Second)
		err := j.store.UpdateMeeting(ctx, m.ID, map[string]any{
			"status":           meeting.StatusCompleted,
			"ended_at":         now,
			"duration_seconds": duration,
		})
		if err != nil {
			log.Printf("[JANITOR]: failed to close stale meeting %s: %v", m.ID, err)
			continue
		}
		log.Printf("[JANITOR]: closed stale meeting %s (started %s)", m.ID, m.StartedAt.Format(time.RFC3339))
	}
}
