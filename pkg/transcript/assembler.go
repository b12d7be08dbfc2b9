// Package transcript turns a stream of finalized utterances into an
// ordered, speaker-attributed transcript. Entries are append-only and
// strictly ordered by arrival; the flattened plain-text transcript is
// rebuilt incrementally as entries arrive.
package transcript

import (
	"fmt"
	"strings"

	"github.com/ethanbaker/scribe/pkg/meeting"
	"github.com/google/uuid"
)

// Assembler accumulates transcript entries for one meeting. It owns the
// active-speaker pointer and the rotation policy. It is not safe for
// concurrent use; the session controller serializes access to it
type Assembler struct {
	meetingID uuid.UUID
	speakers  []meeting.Speaker
	current   int // index into speakers, -1 when no active speaker

	autoAlternate bool
	entries       []*meeting.TranscriptEntry
	text          strings.Builder
}

// NewAssembler creates an assembler for a meeting with the given roster.
// The first roster member becomes the active speaker; an empty roster
// leaves no active speaker and utterances are dropped until one is set
func NewAssembler(meetingID uuid.UUID, roster []meeting.Speaker) *Assembler {
	a := &Assembler{
		meetingID: meetingID,
		speakers:  append([]meeting.Speaker(nil), roster...),
		current:   -1,
	}
	if len(a.speakers) > 0 {
		a.current = 0
	}
	return a
}

// ActiveSpeaker returns the current speaker, or false when none is set
func (a *Assembler) ActiveSpeaker() (meeting.Speaker, bool) {
	if a.current < 0 || a.current >= len(a.speakers) {
		return meeting.Speaker{}, false
	}
	return a.speakers[a.current], true
}

// SetSpeaker changes the active-speaker pointer to the given roster index
func (a *Assembler) SetSpeaker(index int) (meeting.Speaker, bool) {
	if index < 0 || index >= len(a.speakers) {
		return meeting.Speaker{}, false
	}
	a.current = index
	return a.speakers[index], true
}

// NextSpeaker advances the active speaker, wrapping around the roster
func (a *Assembler) NextSpeaker() (meeting.Speaker, bool) {
	if len(a.speakers) == 0 {
		return meeting.Speaker{}, false
	}
	return a.SetSpeaker((a.current + 1) % len(a.speakers))
}

// SetAutoAlternate toggles automatic speaker rotation after each entry
func (a *Assembler) SetAutoAlternate(enabled bool) {
	a.autoAlternate = enabled
}

// AutoAlternate reports whether automatic rotation is enabled
func (a *Assembler) AutoAlternate() bool {
	return a.autoAlternate
}

// Append records one finalized utterance at the next sequence position. It
// returns nil when no speaker is active: text spoken before a speaker is
// selected is dropped rather than attributed by guesswork. When
// auto-alternate is enabled and the roster has more than one member, the
// active speaker advances after the entry is recorded
func (a *Assembler) Append(text string, elapsedSeconds int) *meeting.TranscriptEntry {
	speaker, ok := a.ActiveSpeaker()
	if !ok {
		return nil
	}

	entry := meeting.NewTranscriptEntry(a.meetingID, speaker, text, elapsedSeconds)
	a.entries = append(a.entries, entry)
	fmt.Fprintf(&a.text, "%s: %s\n", speaker.Name, text)

	if a.autoAlternate && len(a.speakers) > 1 {
		a.NextSpeaker()
	}

	return entry
}

// Entries returns the entries recorded so far, in arrival order
func (a *Assembler) Entries() []*meeting.TranscriptEntry {
	return append([]*meeting.TranscriptEntry(nil), a.entries...)
}

// Find returns the local entry with the given id, or nil
func (a *Assembler) Find(id uuid.UUID) *meeting.TranscriptEntry {
	for _, e := range a.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Transcript returns the flattened plain-text transcript
func (a *Assembler) Transcript() string {
	return a.text.String()
}

// Speakers returns a copy of the roster
func (a *Assembler) Speakers() []meeting.Speaker {
	return append([]meeting.Speaker(nil), a.speakers...)
}

// Len returns the number of entries recorded so far
func (a *Assembler) Len() int {
	return len(a.entries)
}
