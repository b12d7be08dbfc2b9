package session

import (
	"context"
	"encoding/json"
	"log"

	"github.com/ethanbaker/scribe/internal/minutes"
	"github.com/ethanbaker/scribe/pkg/meeting"
	"github.com/google/uuid"
)

// HighlightEntry marks one local transcript entry as highlighted and
// persists the flag. The remote update runs first; on failure the local
// flag stays unset so local and remote state never silently diverge
func (c *Controller) HighlightEntry(ctx context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.asm == nil {
		return &meeting.PreconditionError{Op: "highlight_entry", Reason: "no active meeting"}
	}

	entry := c.asm.Find(id)
	if entry == nil {
		log.Printf("[SESSION]: highlight requested for unknown entry %s", id)
		return &meeting.NotFoundError{Kind: "transcript entry", ID: id.String()}
	}

	if err := c.store.SetEntryHighlighted(ctx, id, true); err != nil {
		log.Printf("[SESSION]: failed to persist highlight for entry %s: %v", id, err)
		return &meeting.PersistenceError{Op: "highlight_entry", Err: err}
	}

	entry.Highlighted = true
	return nil
}

// GenerateAIMinutes produces structured minutes from a snapshot of the
// current transcript, persists the artifact and creates action items in
// bulk. Entries appended while the AI call is in flight are not included.
// An AI failure is surfaced; there is no heuristic substitute for minutes
func (c *Controller) GenerateAIMinutes(ctx context.Context, notes string) (*meeting.MinutesArtifact, error) {
	c.mu.Lock()
	if c.meeting == nil {
		c.mu.Unlock()
		return nil, &meeting.PreconditionError{Op: "generate_minutes", Reason: "no active meeting"}
	}

	req := minutes.MinutesRequest{
		Title:    c.meeting.Title,
		Type:     c.meeting.Type,
		Speakers: c.rosterLocked(),
		Entries:  c.entriesLocked(),
		Notes:    notes,
	}
	meetingID := c.meeting.ID
	orgID := c.meeting.OrganizationID
	c.mu.Unlock()

	artifact, err := c.engine.GenerateMinutes(ctx, req)
	if err != nil {
		log.Printf("[SESSION]: minutes generation failed for meeting %s: %v", meetingID, err)
		return nil, err
	}

	payload, err := json.Marshal(artifact)
	if err != nil {
		return nil, &meeting.AIResponseError{Op: "generate_minutes", Err: err}
	}

	if err := c.store.UpdateMeeting(ctx, meetingID, map[string]any{
		"ai_summary": string(payload),
		"notes":      notes,
	}); err != nil {
		log.Printf("[SESSION]: failed to persist minutes for meeting %s: %v", meetingID, err)
		return nil, &meeting.PersistenceError{Op: "generate_minutes", Err: err}
	}

	for _, action := range artifact.ActionItems {
		assignee := minutes.ResolveAssignee(action.AssignedTo, req.Speakers)
		item := meeting.NewActionItem(meetingID, orgID, action.Text, assignee, action.Priority)
		if err := c.store.CreateActionItem(ctx, item); err != nil {
			log.Printf("[SESSION]: failed to create action item for meeting %s: %v", meetingID, err)
		}
	}

	c.mu.Lock()
	if c.meeting != nil && c.meeting.ID == meetingID {
		c.meeting.AISummary = string(payload)
		c.meeting.Notes = notes
	}
	c.mu.Unlock()

	log.Printf("[SESSION]: minutes generated for meeting %s (%d action items)", meetingID, len(artifact.ActionItems))
	return artifact, nil
}

// AskQuestion answers an ad-hoc question about the current transcript. It
// always returns an answer string; backend failures are recovered by the
// engine's fallback
func (c *Controller) AskQuestion(ctx context.Context, question string) string {
	c.mu.Lock()
	req := minutes.ContextRequest{
		Entries:  c.entriesLocked(),
		Speakers: c.rosterLocked(),
	}
	if c.meeting != nil {
		req.MeetingType = c.meeting.Type
	}
	c.mu.Unlock()

	return c.engine.AskQuestion(ctx, question, req)
}

// GetAnalytics computes participation analytics for the current
// transcript snapshot. Never fails; backend problems select the fallback
func (c *Controller) GetAnalytics(ctx context.Context) *meeting.AnalyticsArtifact {
	c.mu.Lock()
	entries := c.entriesLocked()
	speakers := c.rosterLocked()
	c.mu.Unlock()

	return c.engine.AnalyzeMeeting(ctx, entries, speakers)
}

// LoadMeeting replaces the current session context with a stored meeting
// and its entries. The roster is reconstructed from entry attribution.
// Not permitted while a recording is active
func (c *Controller) LoadMeeting(ctx context.Context, id uuid.UUID) (*meeting.Meeting, error) {
	c.mu.Lock()
	if c.state == StateRecording {
		c.mu.Unlock()
		return nil, &meeting.PreconditionError{Op: "load_meeting", Reason: "recording in progress"}
	}
	c.mu.Unlock()

	m, err := c.store.GetMeeting(ctx, id)
	if err != nil {
		if _, ok := err.(*meeting.NotFoundError); ok {
			return nil, err
		}
		log.Printf("[SESSION]: failed to load meeting %s: %v", id, err)
		return nil, &meeting.PersistenceError{Op: "load_meeting", Err: err}
	}

	c.mu.Lock()
	c.meeting = m
	c.asm = nil
	c.state = StateStopped
	c.mu.Unlock()

	return m, nil
}

// GetMeetings lists the organization's meetings, newest first. Without an
// organization context it returns an empty list rather than failing, so a
// fresh deployment renders an empty dashboard
func (c *Controller) GetMeetings(ctx context.Context, limit int) ([]*meeting.Meeting, error) {
	c.mu.Lock()
	identity := c.identity
	c.mu.Unlock()

	if identity == nil || identity.OrganizationID == uuid.Nil {
		log.Printf("[SESSION]: meeting list requested without organization context")
		return []*meeting.Meeting{}, nil
	}

	if limit <= 0 {
		limit = defaultListLimit
	}

	meetings, err := c.store.ListMeetings(ctx, identity.OrganizationID, limit)
	if err != nil {
		log.Printf("[SESSION]: failed to list meetings: %v", err)
		return nil, &meeting.PersistenceError{Op: "get_meetings", Err: err}
	}

	return meetings, nil
}

// Snapshot is a read-only view of the session for status displays
type Snapshot struct {
	State          string                     `json:"state"`
	Meeting        *meeting.Meeting           `json:"meeting,omitempty"`
	ActiveSpeaker  *meeting.Speaker           `json:"active_speaker,omitempty"`
	Speakers       []meeting.Speaker          `json:"speakers"`
	Entries        []*meeting.TranscriptEntry `json:"entries"`
	Transcript     string                     `json:"transcript"`
	AutoAlternate  bool                       `json:"auto_alternate"`
	ElapsedSeconds int                        `json:"elapsed_seconds"`
}

// GetState returns the current session snapshot
func (c *Controller) GetState() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		State:         c.state.String(),
		Meeting:       c.meeting,
		Speakers:      c.rosterLocked(),
		Entries:       c.entriesLocked(),
		AutoAlternate: c.autoAlternate,
	}

	if c.asm != nil {
		snap.Transcript = c.asm.Transcript()
		if sp, ok := c.asm.ActiveSpeaker(); ok {
			snap.ActiveSpeaker = &sp
		}
	} else if c.meeting != nil {
		snap.Transcript = c.meeting.Transcript
	}

	if c.state == StateRecording {
		snap.ElapsedSeconds = int(c.clock().Sub(c.startTime).Seconds())
	}

	return snap
}

// entriesLocked snapshots the transcript entries: from the assembler
// during a live session, from the loaded meeting record otherwise.
// Callers must hold c.mu
func (c *Controller) entriesLocked() []*meeting.TranscriptEntry {
	if c.asm != nil {
		return c.asm.Entries()
	}
	if c.meeting == nil {
		return nil
	}

	entries := make([]*meeting.TranscriptEntry, len(c.meeting.Entries))
	for i := range c.meeting.Entries {
		entries[i] = &c.meeting.Entries[i]
	}
	return entries
}

// rosterLocked returns the session roster, reconstructing it from entry
// attribution for loaded meetings. Callers must hold c.mu
func (c *Controller) rosterLocked() []meeting.Speaker {
	if c.asm != nil {
		return c.asm.Speakers()
	}
	if c.meeting == nil {
		return nil
	}

	seen := make(map[uuid.UUID]bool)
	var roster []meeting.Speaker
	for i := range c.meeting.Entries {
		e := &c.meeting.Entries[i]
		if !seen[e.SpeakerID] {
			seen[e.SpeakerID] = true
			roster = append(roster, meeting.Speaker{ID: e.SpeakerID, Name: e.SpeakerName})
		}
	}
	return roster
}
