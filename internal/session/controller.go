// Package session owns the live meeting-capture pipeline: the recording
// lifecycle state machine, the transcript assembler and timer, and the
// coordination of persistence and AI calls. One Controller drives at most
// one session at a time.
package session

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/ethanbaker/scribe/internal/capture"
	"github.com/ethanbaker/scribe/internal/minutes"
	"github.com/ethanbaker/scribe/pkg/meeting"
	"github.com/ethanbaker/scribe/pkg/transcript"
	"github.com/google/uuid"
)

// State is the session lifecycle position
type State int

const (
	StateIdle State = iota
	StateConfigured
	StateRecording
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConfigured:
		return "configured"
	case StateRecording:
		return "recording"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

const (
	defaultLanguage = "en-GB"
	defaultListLimit = 50

	maxRecognizerRestarts = 5
	restartBackoffBase    = 500 * time.Millisecond
)

// Gateway is the persistence contract the controller depends on
type Gateway interface {
	CreateMeeting(ctx context.Context, m *meeting.Meeting) error
	UpdateMeeting(ctx context.Context, id uuid.UUID, fields map[string]any) error
	GetMeeting(ctx context.Context, id uuid.UUID) (*meeting.Meeting, error)
	ListMeetings(ctx context.Context, orgID uuid.UUID, limit int) ([]*meeting.Meeting, error)
	CreateEntry(ctx context.Context, e *meeting.TranscriptEntry) error
	SetEntryHighlighted(ctx context.Context, id uuid.UUID, highlighted bool) error
	CreateActionItem(ctx context.Context, item *meeting.ActionItem) error
}

// BlobStore stores finalized audio payloads
type BlobStore interface {
	SaveAudio(meetingID uuid.UUID, data []byte, filename string) (string, error)
}

// MinutesEngine produces the AI-backed artifacts for a transcript snapshot
type MinutesEngine interface {
	GenerateMinutes(ctx context.Context, req minutes.MinutesRequest) (*meeting.MinutesArtifact, error)
	AskQuestion(ctx context.Context, question string, req minutes.ContextRequest) string
	AnalyzeMeeting(ctx context.Context, entries []*meeting.TranscriptEntry, speakers []meeting.Speaker) *meeting.AnalyticsArtifact
}

// Identity is the authenticated user and organization a session acts for
type Identity struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
}

// Observers are the push-style outputs of the controller, registered by
// the calling layer. All fields are optional
type Observers struct {
	OnNewEntry      func(*meeting.TranscriptEntry)
	OnInterimResult func(string)
	OnTimerUpdate   func(elapsedSeconds int)

	// OnError receives failures from background activity, currently only
	// the recognizer restart policy giving up
	OnError func(error)
}

// Controller orchestrates one meeting session at a time. All dependencies
// are injected; it owns the assembler, the timer and the capture devices
// for the lifetime of a recording
type Controller struct {
	store   Gateway
	blobs   BlobStore
	engine  MinutesEngine
	capture capture.Factory

	mu        sync.Mutex
	state     State
	identity  *Identity
	observers Observers

	meeting    *meeting.Meeting
	asm        *transcript.Assembler
	audio      capture.AudioCapture
	recognizer capture.SpeechSource
	language   string

	autoAlternate bool
	startTime     time.Time
	timerStop     chan struct{}
	restarts      int

	clock func() time.Time
}

// NewController creates a controller in the idle state
func NewController(store Gateway, blobs BlobStore, engine MinutesEngine, factory capture.Factory) *Controller {
	return &Controller{
		store:   store,
		blobs:   blobs,
		engine:  engine,
		capture: factory,
		state:   StateIdle,
		clock:   time.Now,
	}
}

// SetIdentity records the authenticated user and organization context.
// StartMeeting fails until both are present
func (c *Controller) SetIdentity(id Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.identity = &id
}

// SetObservers registers the push-notification hooks
func (c *Controller) SetObservers(obs Observers) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = obs
}

// State returns the current lifecycle state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// StartMeetingRequest carries the setup data for a new meeting
type StartMeetingRequest struct {
	Title    string
	Type     string
	Speakers []meeting.Speaker
}

// StartMeeting persists a new in-progress meeting, resets local transcript
// state and transitions to Configured. A fresh meeting may begin from any
// state except an active recording
func (c *Controller) StartMeeting(ctx context.Context, req StartMeetingRequest) (*meeting.Meeting, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateRecording {
		return nil, &meeting.PreconditionError{Op: "start_meeting", Reason: "recording in progress, stop it first"}
	}
	if c.identity == nil {
		return nil, &meeting.PreconditionError{Op: "start_meeting", Reason: "not authenticated"}
	}
	if c.identity.OrganizationID == uuid.Nil {
		return nil, &meeting.PreconditionError{Op: "start_meeting", Reason: "no organization context"}
	}

	meetingType := req.Type
	if meetingType == "" {
		meetingType = "general"
	}

	m := meeting.NewMeeting(c.identity.OrganizationID, c.identity.UserID, req.Title, meetingType, c.clock())
	if err := c.store.CreateMeeting(ctx, m); err != nil {
		log.Printf("[SESSION]: failed to create meeting %q: %v", req.Title, err)
		return nil, &meeting.PersistenceError{Op: "start_meeting", Err: err}
	}

	c.meeting = m
	c.asm = transcript.NewAssembler(m.ID, req.Speakers)
	c.asm.SetAutoAlternate(c.autoAlternate)
	c.state = StateConfigured

	c.language = defaultLanguage
	if sp, ok := c.asm.ActiveSpeaker(); ok && sp.DefaultLanguage != "" {
		c.language = sp.DefaultLanguage
	}

	log.Printf("[SESSION]: meeting %s created (%q)", m.ID, m.Title)
	return m, nil
}

// StartRecording acquires the audio device and the speech source, starts
// the elapsed-time notifier and transitions to Recording. On any
// acquisition failure the state remains Configured
func (c *Controller) StartRecording(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateConfigured || c.meeting == nil {
		return &meeting.PreconditionError{Op: "start_recording", Reason: "no active meeting"}
	}

	audio := c.capture.NewAudioCapture()
	if err := audio.StartCapture(ctx); err != nil {
		log.Printf("[SESSION]: audio acquisition failed for meeting %s: %v", c.meeting.ID, err)
		return &meeting.CaptureError{Op: "start_recording", Err: err}
	}

	recognizer := c.capture.NewSpeechSource(capture.RecognizerConfig{
		Language:       c.language,
		Continuous:     true,
		InterimResults: true,
		OnResult:       c.HandleTranscriptResult,
		OnEnd:          c.handleRecognizerEnd,
	})
	if err := recognizer.Start(ctx); err != nil {
		if _, stopErr := audio.StopCapture(); stopErr != nil {
			log.Printf("[SESSION]: audio teardown after failed start: %v", stopErr)
		}
		log.Printf("[SESSION]: speech source acquisition failed for meeting %s: %v", c.meeting.ID, err)
		return &meeting.CaptureError{Op: "start_recording", Err: err}
	}

	c.audio = audio
	c.recognizer = recognizer
	c.startTime = c.clock()
	c.restarts = 0
	c.startTimer()
	c.state = StateRecording

	log.Printf("[SESSION]: recording started for meeting %s", c.meeting.ID)
	return nil
}

// StopResult reports the outcome of StopRecording. AudioURL is empty when
// the upload failed or produced no audio; the meeting still completes
type StopResult struct {
	DurationSeconds int    `json:"duration_seconds"`
	AudioURL        string `json:"audio_url,omitempty"`
}

// StopRecording halts the speech source, then the audio device, uploads
// the captured audio best-effort and persists the completed meeting. The
// speech source stops first so a final partial utterance is not lost
func (c *Controller) StopRecording(ctx context.Context) (*StopResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRecording {
		return nil, &meeting.PreconditionError{Op: "stop_recording", Reason: fmt.Sprintf("not recording (state %s)", c.state)}
	}

	if err := c.recognizer.Stop(); err != nil {
		log.Printf("[SESSION]: speech source stop for meeting %s: %v", c.meeting.ID, err)
	}
	c.recognizer = nil

	audioData, err := c.audio.StopCapture()
	if err != nil {
		log.Printf("[SESSION]: audio stop for meeting %s: %v", c.meeting.ID, err)
	}
	c.audio = nil

	c.stopTimer()

	now := c.clock()
	duration := int(now.Sub(c.startTime) / time.Second)

	// Audio upload failure is non-fatal: the transcript is the primary
	// artifact and the meeting must still complete
	audioURL := ""
	if audioData != nil && len(audioData.Bytes) > 0 && c.blobs != nil {
		filename := fmt.Sprintf("recording_%d%s", now.UnixMilli(), extensionFor(audioData.MIMEType))
		url, err := c.blobs.SaveAudio(c.meeting.ID, audioData.Bytes, filename)
		if err != nil {
			log.Printf("[SESSION]: audio upload failed for meeting %s: %v", c.meeting.ID, err)
		} else {
			audioURL = url
		}
	}

	result := &StopResult{DurationSeconds: duration, AudioURL: audioURL}

	update := map[string]any{
		"status":           meeting.StatusCompleted,
		"ended_at":         now,
		"duration_seconds": duration,
		"transcript":       c.asm.Transcript(),
		"audio_url":        audioURL,
	}
	c.state = StateStopped
	if err := c.store.UpdateMeeting(ctx, c.meeting.ID, update); err != nil {
		log.Printf("[SESSION]: failed to persist completed meeting %s: %v", c.meeting.ID, err)
		return result, &meeting.PersistenceError{Op: "stop_recording", Err: err}
	}

	c.meeting.Status = meeting.StatusCompleted
	c.meeting.EndedAt = &now
	c.meeting.DurationSeconds = duration
	c.meeting.Transcript = c.asm.Transcript()
	c.meeting.AudioURL = audioURL

	log.Printf("[SESSION]: recording stopped for meeting %s after %ds", c.meeting.ID, duration)
	return result, nil
}

// HandleTranscriptResult is the speech-source callback. Finalized text
// becomes a transcript entry; interim text is always forwarded to the
// interim observer for live display. This is the only path that creates
// transcript entries
func (c *Controller) HandleTranscriptResult(res capture.Result) {
	if final := strings.TrimSpace(res.Final); final != "" {
		c.appendEntry(final)
	}

	if f := c.interimObserver(); f != nil {
		f(res.Interim)
	}
}

func (c *Controller) interimObserver() func(string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.observers.OnInterimResult
}

// appendEntry records one finalized utterance: local append, best-effort
// persistence, observer notification. Appends are serialized by the
// controller lock, so entry order always matches arrival order
func (c *Controller) appendEntry(text string) {
	c.mu.Lock()

	if c.state != StateRecording || c.asm == nil {
		c.mu.Unlock()
		return
	}

	elapsed := int(c.clock().Sub(c.startTime) / time.Second)
	entry := c.asm.Append(text, elapsed)
	if entry == nil {
		log.Printf("[SESSION]: dropping utterance for meeting %s, no active speaker", c.meeting.ID)
		c.mu.Unlock()
		return
	}
	c.restarts = 0
	c.syncLanguageLocked()

	meetingID := c.meeting.ID
	notify := c.observers.OnNewEntry
	c.mu.Unlock()

	// The transcript is the primary artifact and lives locally; a failed
	// entry write is logged and the full transcript is re-persisted at
	// stop time anyway
	if err := c.store.CreateEntry(context.Background(), entry); err != nil {
		log.Printf("[SESSION]: failed to persist entry for meeting %s: %v", meetingID, err)
	}

	if notify != nil {
		notify(entry)
	}
}

// SetSpeaker changes the active speaker to the given roster index and
// requests a recognition-language switch if the speaker declares one
func (c *Controller) SetSpeaker(index int) (meeting.Speaker, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.asm == nil {
		return meeting.Speaker{}, &meeting.PreconditionError{Op: "set_speaker", Reason: "no active meeting"}
	}

	sp, ok := c.asm.SetSpeaker(index)
	if !ok {
		return meeting.Speaker{}, &meeting.NotFoundError{Kind: "speaker", ID: fmt.Sprintf("index %d", index)}
	}

	c.syncLanguageLocked()
	return sp, nil
}

// NextSpeaker advances the active speaker, wrapping around the roster
func (c *Controller) NextSpeaker() (meeting.Speaker, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.asm == nil {
		return meeting.Speaker{}, &meeting.PreconditionError{Op: "next_speaker", Reason: "no active meeting"}
	}

	sp, ok := c.asm.NextSpeaker()
	if !ok {
		return meeting.Speaker{}, &meeting.NotFoundError{Kind: "speaker", ID: "empty roster"}
	}

	c.syncLanguageLocked()
	return sp, nil
}

// SetAutoAlternate toggles automatic speaker rotation. Pure state toggle
func (c *Controller) SetAutoAlternate(enabled bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.autoAlternate = enabled
	if c.asm != nil {
		c.asm.SetAutoAlternate(enabled)
	}
	return c.autoAlternate
}

// syncLanguageLocked requests a recognition-language switch when the
// active speaker declares a different default language. Fire-and-forget:
// a failed switch never fails the calling operation
func (c *Controller) syncLanguageLocked() {
	sp, ok := c.asm.ActiveSpeaker()
	if !ok || sp.DefaultLanguage == "" || sp.DefaultLanguage == c.language {
		return
	}

	c.language = sp.DefaultLanguage
	if c.recognizer == nil {
		return
	}

	recognizer := c.recognizer
	code := sp.DefaultLanguage
	go func() {
		if err := recognizer.SetLanguage(code); err != nil {
			log.Printf("[SESSION]: language switch to %s failed: %v", code, err)
		}
	}()
}

// handleRecognizerEnd implements the bounded restart policy: while
// recording, an unexpected recognizer end triggers an immediate restart,
// then backs off on repeated failures. After the attempt cap the error is
// surfaced through the error observer instead of retrying forever
func (c *Controller) handleRecognizerEnd(cause error) {
	c.mu.Lock()

	if c.state != StateRecording {
		c.mu.Unlock()
		return
	}

	c.restarts++
	attempt := c.restarts
	if attempt > maxRecognizerRestarts {
		meetingID := c.meeting.ID
		notify := c.observers.OnError
		c.mu.Unlock()

		log.Printf("[SESSION]: recognizer for meeting %s gave up after %d restarts: %v", meetingID, maxRecognizerRestarts, cause)
		if notify != nil {
			notify(&meeting.CaptureError{Op: "recognizer_restart", Err: cause})
		}
		return
	}

	language := c.language
	c.mu.Unlock()

	// First attempt retries immediately, later ones back off
	if attempt > 1 {
		time.Sleep(restartBackoffBase << (attempt - 2))
	}

	log.Printf("[SESSION]: recognizer ended unexpectedly (%v), restart attempt %d", cause, attempt)

	recognizer := c.capture.NewSpeechSource(capture.RecognizerConfig{
		Language:       language,
		Continuous:     true,
		InterimResults: true,
		OnResult:       c.HandleTranscriptResult,
		OnEnd:          c.handleRecognizerEnd,
	})
	if err := recognizer.Start(context.Background()); err != nil {
		c.handleRecognizerEnd(err)
		return
	}

	c.mu.Lock()
	if c.state == StateRecording {
		c.recognizer = recognizer
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	// Recording stopped while we were reconnecting
	recognizer.Stop()
}

// startTimer begins the 1-second elapsed-time notifier
func (c *Controller) startTimer() {
	stop := make(chan struct{})
	c.timerStop = stop

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.mu.Lock()
				elapsed := int(c.clock().Sub(c.startTime) / time.Second)
				notify := c.observers.OnTimerUpdate
				c.mu.Unlock()

				if notify != nil {
					notify(elapsed)
				}
			}
		}
	}()
}

func (c *Controller) stopTimer() {
	if c.timerStop != nil {
		close(c.timerStop)
		c.timerStop = nil
	}
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "audio/wav":
		return ".wav"
	case "audio/webm":
		return ".webm"
	case "audio/ogg":
		return ".ogg"
	default:
		return ".bin"
	}
}
