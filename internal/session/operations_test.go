package session

import (
	"context"
	"errors"
	"testing"

	"github.com/ethanbaker/scribe/internal/capture"
	"github.com/ethanbaker/scribe/pkg/meeting"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighlightEntry(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newTestFixture()
		f.startMeeting(t, "Alice")
		f.startRecording(t)
		f.ctrl.HandleTranscriptResult(capture.Result{Final: "important point"})

		entry := f.ctrl.GetState().Entries[0]
		require.NoError(t, f.ctrl.HighlightEntry(context.Background(), entry.ID))

		assert.True(t, f.gateway.highlighted[entry.ID])
		assert.True(t, f.ctrl.GetState().Entries[0].Highlighted)
	})

	t.Run("unknown entry", func(t *testing.T) {
		f := newTestFixture()
		f.startMeeting(t, "Alice")

		err := f.ctrl.HighlightEntry(context.Background(), uuid.New())
		var notFound *meeting.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("no meeting", func(t *testing.T) {
		f := newTestFixture()

		err := f.ctrl.HighlightEntry(context.Background(), uuid.New())
		var pre *meeting.PreconditionError
		require.ErrorAs(t, err, &pre)
	})

	t.Run("persist failure leaves local flag unset", func(t *testing.T) {
		f := newTestFixture()
		f.gateway.highlightErr = errors.New("db down")

		f.startMeeting(t, "Alice")
		f.startRecording(t)
		f.ctrl.HandleTranscriptResult(capture.Result{Final: "important point"})

		entry := f.ctrl.GetState().Entries[0]
		err := f.ctrl.HighlightEntry(context.Background(), entry.ID)

		var persist *meeting.PersistenceError
		require.ErrorAs(t, err, &persist)
		assert.False(t, f.ctrl.GetState().Entries[0].Highlighted)
	})
}

func TestGenerateAIMinutes(t *testing.T) {
	t.Run("success creates action items", func(t *testing.T) {
		f := newTestFixture()
		assignee := "alice"
		f.engine.minutesArtifact = &meeting.MinutesArtifact{
			Summary:   "short sync",
			KeyPoints: []string{"point"},
			ActionItems: []meeting.MinutesAction{
				{Text: "draft proposal", AssignedTo: &assignee, Priority: meeting.PriorityHigh},
				{Text: "book room", AssignedTo: nil, Priority: meeting.PriorityLow},
			},
		}

		m := f.startMeeting(t, "Alice", "Bob")
		f.startRecording(t)
		f.ctrl.HandleTranscriptResult(capture.Result{Final: "let's plan"})

		artifact, err := f.ctrl.GenerateAIMinutes(context.Background(), "my notes")
		require.NoError(t, err)
		assert.Equal(t, "short sync", artifact.Summary)

		// The engine saw the transcript snapshot and the notes
		require.NotNil(t, f.engine.minutesReq)
		assert.Equal(t, "my notes", f.engine.minutesReq.Notes)
		assert.Len(t, f.engine.minutesReq.Entries, 1)

		// Artifact persisted on the meeting record
		updates := f.gateway.updatesFor(m.ID)
		require.Len(t, updates, 1)
		assert.Contains(t, updates[0]["ai_summary"], "short sync")
		assert.Equal(t, "my notes", updates[0]["notes"])

		// Assignees resolve case-insensitively; unknown stays unassigned
		require.Len(t, f.gateway.actionItems, 2)
		require.NotNil(t, f.gateway.actionItems[0].AssignedTo)
		assert.Equal(t, meeting.PriorityHigh, f.gateway.actionItems[0].Priority)
		assert.Nil(t, f.gateway.actionItems[1].AssignedTo)
		assert.Equal(t, meeting.ActionPending, f.gateway.actionItems[0].Status)
	})

	t.Run("no meeting", func(t *testing.T) {
		f := newTestFixture()

		_, err := f.ctrl.GenerateAIMinutes(context.Background(), "")
		var pre *meeting.PreconditionError
		require.ErrorAs(t, err, &pre)
	})

	t.Run("engine failure surfaces", func(t *testing.T) {
		f := newTestFixture()
		f.engine.minutesErr = &meeting.AIResponseError{Op: "generate_minutes", Err: errors.New("no backend")}
		f.startMeeting(t, "Alice")

		_, err := f.ctrl.GenerateAIMinutes(context.Background(), "")
		var aiErr *meeting.AIResponseError
		require.ErrorAs(t, err, &aiErr)
		assert.Empty(t, f.gateway.actionItems)
	})

	t.Run("persist failure", func(t *testing.T) {
		f := newTestFixture()
		f.engine.minutesArtifact = &meeting.MinutesArtifact{Summary: "s"}
		f.gateway.updateMeetingErr = errors.New("db down")
		f.startMeeting(t, "Alice")

		_, err := f.ctrl.GenerateAIMinutes(context.Background(), "")
		var persist *meeting.PersistenceError
		require.ErrorAs(t, err, &persist)
	})

	t.Run("action item failure does not fail generation", func(t *testing.T) {
		f := newTestFixture()
		text := "Bob"
		f.engine.minutesArtifact = &meeting.MinutesArtifact{
			Summary:     "s",
			ActionItems: []meeting.MinutesAction{{Text: "task", AssignedTo: &text}},
		}
		f.gateway.actionItemErr = errors.New("db down")
		f.startMeeting(t, "Alice", "Bob")

		artifact, err := f.ctrl.GenerateAIMinutes(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, "s", artifact.Summary)
	})
}

func TestAskQuestion(t *testing.T) {
	f := newTestFixture()
	f.engine.answer = "the budget was approved"

	f.startMeeting(t, "Alice")
	f.startRecording(t)
	f.ctrl.HandleTranscriptResult(capture.Result{Final: "budget approved"})

	answer := f.ctrl.AskQuestion(context.Background(), "what about the budget?")
	assert.Equal(t, "the budget was approved", answer)
	assert.Equal(t, "what about the budget?", f.engine.question)
	require.NotNil(t, f.engine.questionReq)
	assert.Len(t, f.engine.questionReq.Entries, 1)
	assert.Equal(t, "general", f.engine.questionReq.MeetingType)
}

func TestGetAnalytics(t *testing.T) {
	f := newTestFixture()
	f.engine.analytics = &meeting.AnalyticsArtifact{ParticipationBalance: 0.7}

	result := f.ctrl.GetAnalytics(context.Background())
	require.NotNil(t, result)
	assert.Equal(t, 0.7, result.ParticipationBalance)
}

func TestLoadMeeting(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newTestFixture()

		stored := meeting.NewMeeting(uuid.New(), uuid.New(), "Old Meeting", "general", f.clock.Now())
		f.gateway.meetings[stored.ID] = stored

		m, err := f.ctrl.LoadMeeting(context.Background(), stored.ID)
		require.NoError(t, err)
		assert.Equal(t, "Old Meeting", m.Title)
		assert.Equal(t, StateStopped, f.ctrl.State())
	})

	t.Run("not found", func(t *testing.T) {
		f := newTestFixture()

		_, err := f.ctrl.LoadMeeting(context.Background(), uuid.New())
		var notFound *meeting.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newTestFixture()
		f.gateway.getErr = errors.New("db down")

		_, err := f.ctrl.LoadMeeting(context.Background(), uuid.New())
		var persist *meeting.PersistenceError
		require.ErrorAs(t, err, &persist)
	})

	t.Run("refused while recording", func(t *testing.T) {
		f := newTestFixture()
		f.startMeeting(t, "Alice")
		f.startRecording(t)

		_, err := f.ctrl.LoadMeeting(context.Background(), uuid.New())
		var pre *meeting.PreconditionError
		require.ErrorAs(t, err, &pre)
	})
}

func TestGetMeetings(t *testing.T) {
	t.Run("empty list without organization context", func(t *testing.T) {
		f := newTestFixture()
		f.ctrl.identity = nil

		meetings, err := f.ctrl.GetMeetings(context.Background(), 10)
		require.NoError(t, err)
		assert.Empty(t, meetings)
	})

	t.Run("default limit", func(t *testing.T) {
		f := newTestFixture()

		_, err := f.ctrl.GetMeetings(context.Background(), 0)
		require.NoError(t, err)
		assert.Equal(t, defaultListLimit, f.gateway.listLimit)
	})

	t.Run("lists own organization", func(t *testing.T) {
		f := newTestFixture()
		m := f.startMeeting(t, "Alice")

		// A meeting from another organization is not returned
		other := meeting.NewMeeting(uuid.New(), uuid.New(), "Other Org", "general", f.clock.Now())
		f.gateway.meetings[other.ID] = other

		meetings, err := f.ctrl.GetMeetings(context.Background(), 10)
		require.NoError(t, err)
		require.Len(t, meetings, 1)
		assert.Equal(t, m.ID, meetings[0].ID)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newTestFixture()
		f.gateway.listErr = errors.New("db down")

		_, err := f.ctrl.GetMeetings(context.Background(), 10)
		var persist *meeting.PersistenceError
		require.ErrorAs(t, err, &persist)
	})
}

func TestRosterReconstructedFromLoadedMeeting(t *testing.T) {
	f := newTestFixture()

	stored := meeting.NewMeeting(uuid.New(), uuid.New(), "Archived", "general", f.clock.Now())
	alice := meeting.NewSpeaker("Alice", "", "")
	bob := meeting.NewSpeaker("Bob", "", "")
	stored.Entries = []meeting.TranscriptEntry{
		*meeting.NewTranscriptEntry(stored.ID, alice, "hi", 0),
		*meeting.NewTranscriptEntry(stored.ID, bob, "hello", 1),
		*meeting.NewTranscriptEntry(stored.ID, alice, "again", 2),
	}
	f.gateway.meetings[stored.ID] = stored

	_, err := f.ctrl.LoadMeeting(context.Background(), stored.ID)
	require.NoError(t, err)

	snap := f.ctrl.GetState()
	assert.Len(t, snap.Entries, 3)
	require.Len(t, snap.Speakers, 2)
	assert.Equal(t, "Alice", snap.Speakers[0].Name)
	assert.Equal(t, "Bob", snap.Speakers[1].Name)
}
