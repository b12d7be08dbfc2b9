package meeting

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status represents the lifecycle state of a meeting record
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Priority levels for action items
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// NormalizePriority maps free-form priority text onto the three supported
// levels, defaulting to medium
func NormalizePriority(s string) Priority {
	switch Priority(s) {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return Priority(s)
	default:
		return PriorityMedium
	}
}

// ActionStatus represents the completion state of an action item
type ActionStatus string

const (
	ActionPending   ActionStatus = "pending"
	ActionCompleted ActionStatus = "completed"
)

// Meeting represents a single recorded meeting and its artifacts
type Meeting struct {
	gorm.Model
	ID             uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:char(36);not null;index"`
	CreatedBy      uuid.UUID `json:"created_by" gorm:"type:char(36);not null"`
	Title          string    `json:"title" gorm:"size:255;not null"`
	Type           string    `json:"type" gorm:"size:64"`
	Status         Status    `json:"status" gorm:"size:20;not null;index"`

	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at"`
	DurationSeconds int        `json:"duration_seconds"`

	Transcript string `json:"transcript" gorm:"type:text"`
	AudioURL   string `json:"audio_url" gorm:"size:512"`
	Notes      string `json:"notes" gorm:"type:text"`

	// AISummary holds the serialized MinutesArtifact JSON, empty until
	// minutes have been generated
	AISummary string `json:"ai_summary" gorm:"type:text"`

	Entries     []TranscriptEntry `json:"transcript_entries,omitempty" gorm:"foreignKey:MeetingID"`
	ActionItems []ActionItem      `json:"action_items,omitempty" gorm:"foreignKey:MeetingID"`
}

// Speaker is a roster member for a single session. The roster is supplied
// at meeting start and is not persisted on its own
type Speaker struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Color           string    `json:"color,omitempty"`
	DefaultLanguage string    `json:"default_language,omitempty"`
}

// TranscriptEntry is one finalized, speaker-attributed utterance. Text is
// immutable once created; only the highlighted flag may change
type TranscriptEntry struct {
	gorm.Model
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	MeetingID   uuid.UUID `json:"meeting_id" gorm:"type:char(36);not null;index"`
	SpeakerID   uuid.UUID `json:"speaker_id" gorm:"type:char(36);not null"`
	SpeakerName string    `json:"speaker_name" gorm:"size:255;not null"`
	Text        string    `json:"text" gorm:"type:text;not null"`

	// TimestampSeconds is the offset from recording start
	TimestampSeconds int  `json:"timestamp_seconds" gorm:"not null"`
	Highlighted      bool `json:"is_highlighted"`

	Meeting *Meeting `json:"-" gorm:"foreignKey:MeetingID;constraint:OnDelete:CASCADE"`
}

// ActionItem is a tracked follow-up extracted from generated minutes
type ActionItem struct {
	gorm.Model
	ID             uuid.UUID    `json:"id" gorm:"type:char(36);primaryKey"`
	MeetingID      uuid.UUID    `json:"meeting_id" gorm:"type:char(36);not null;index"`
	OrganizationID uuid.UUID    `json:"organization_id" gorm:"type:char(36);not null;index"`
	Text           string       `json:"text" gorm:"type:text;not null"`
	AssignedTo     *uuid.UUID   `json:"assigned_to" gorm:"type:char(36)"`
	Status         ActionStatus `json:"status" gorm:"size:20;not null"`
	Priority       Priority     `json:"priority" gorm:"size:10;not null"`

	Meeting *Meeting `json:"-" gorm:"foreignKey:MeetingID;constraint:OnDelete:CASCADE"`
}

// NewMeeting creates a new in-progress meeting with a generated UUID
func NewMeeting(orgID, createdBy uuid.UUID, title, meetingType string, startedAt time.Time) *Meeting {
	return &Meeting{
		ID:             uuid.New(),
		OrganizationID: orgID,
		CreatedBy:      createdBy,
		Title:          title,
		Type:           meetingType,
		Status:         StatusInProgress,
		StartedAt:      startedAt,
	}
}

// NewTranscriptEntry creates a new transcript entry with a generated UUID
func NewTranscriptEntry(meetingID uuid.UUID, speaker Speaker, text string, timestampSeconds int) *TranscriptEntry {
	return &TranscriptEntry{
		ID:               uuid.New(),
		MeetingID:        meetingID,
		SpeakerID:        speaker.ID,
		SpeakerName:      speaker.Name,
		Text:             text,
		TimestampSeconds: timestampSeconds,
	}
}

// NewActionItem creates a new pending action item with a generated UUID
func NewActionItem(meetingID, orgID uuid.UUID, text string, assignedTo *uuid.UUID, priority Priority) *ActionItem {
	return &ActionItem{
		ID:             uuid.New(),
		MeetingID:      meetingID,
		OrganizationID: orgID,
		Text:           text,
		AssignedTo:     assignedTo,
		Status:         ActionPending,
		Priority:       priority,
	}
}

// NewSpeaker creates a roster member with a generated UUID
func NewSpeaker(name, color, defaultLanguage string) Speaker {
	return Speaker{
		ID:              uuid.New(),
		Name:            name,
		Color:           color,
		DefaultLanguage: defaultLanguage,
	}
}
