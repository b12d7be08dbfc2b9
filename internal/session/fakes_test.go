package session

import (
	"context"
	"sync"

	"github.com/ethanbaker/scribe/internal/capture"
	"github.com/ethanbaker/scribe/internal/minutes"
	"github.com/ethanbaker/scribe/pkg/meeting"
	"github.com/google/uuid"
)

// fakeGateway records persistence calls and fails on demand
type fakeGateway struct {
	mu sync.Mutex

	meetings    map[uuid.UUID]*meeting.Meeting
	entries     []*meeting.TranscriptEntry
	actionItems []*meeting.ActionItem
	updates     map[uuid.UUID][]map[string]any
	highlighted map[uuid.UUID]bool

	createMeetingErr error
	updateMeetingErr error
	createEntryErr   error
	highlightErr     error
	actionItemErr    error
	listErr          error
	getErr           error

	listLimit int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		meetings:    make(map[uuid.UUID]*meeting.Meeting),
		updates:     make(map[uuid.UUID][]map[string]any),
		highlighted: make(map[uuid.UUID]bool),
	}
}

func (f *fakeGateway) CreateMeeting(ctx context.Context, m *meeting.Meeting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createMeetingErr != nil {
		return f.createMeetingErr
	}
	f.meetings[m.ID] = m
	return nil
}

func (f *fakeGateway) UpdateMeeting(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateMeetingErr != nil {
		return f.updateMeetingErr
	}
	f.updates[id] = append(f.updates[id], fields)
	return nil
}

func (f *fakeGateway) GetMeeting(ctx context.Context, id uuid.UUID) (*meeting.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	m, ok := f.meetings[id]
	if !ok {
		return nil, &meeting.NotFoundError{Kind: "meeting", ID: id.String()}
	}
	return m, nil
}

func (f *fakeGateway) ListMeetings(ctx context.Context, orgID uuid.UUID, limit int) ([]*meeting.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.listLimit = limit

	var out []*meeting.Meeting
	for _, m := range f.meetings {
		if m.OrganizationID == orgID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeGateway) CreateEntry(ctx context.Context, e *meeting.TranscriptEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createEntryErr != nil {
		return f.createEntryErr
	}
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeGateway) SetEntryHighlighted(ctx context.Context, id uuid.UUID, highlighted bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.highlightErr != nil {
		return f.highlightErr
	}
	f.highlighted[id] = highlighted
	return nil
}

func (f *fakeGateway) CreateActionItem(ctx context.Context, item *meeting.ActionItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.actionItemErr != nil {
		return f.actionItemErr
	}
	f.actionItems = append(f.actionItems, item)
	return nil
}

func (f *fakeGateway) persistedEntries() []*meeting.TranscriptEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*meeting.TranscriptEntry(nil), f.entries...)
}

func (f *fakeGateway) updatesFor(id uuid.UUID) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.updates[id]...)
}

// fakeBlobStore captures SaveAudio calls
type fakeBlobStore struct {
	saveErr  error
	saved    [][]byte
	filename string
}

func (f *fakeBlobStore) SaveAudio(meetingID uuid.UUID, data []byte, filename string) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.saved = append(f.saved, data)
	f.filename = filename
	return "/audio/" + meetingID.String() + "/" + filename, nil
}

// fakeEngine returns canned artifacts and records the requests it received
type fakeEngine struct {
	minutesArtifact *meeting.MinutesArtifact
	minutesErr      error
	answer          string
	analytics       *meeting.AnalyticsArtifact

	minutesReq  *minutes.MinutesRequest
	questionReq *minutes.ContextRequest
	question    string
}

func (f *fakeEngine) GenerateMinutes(ctx context.Context, req minutes.MinutesRequest) (*meeting.MinutesArtifact, error) {
	f.minutesReq = &req
	if f.minutesErr != nil {
		return nil, f.minutesErr
	}
	return f.minutesArtifact, nil
}

func (f *fakeEngine) AskQuestion(ctx context.Context, question string, req minutes.ContextRequest) string {
	f.question = question
	f.questionReq = &req
	return f.answer
}

func (f *fakeEngine) AnalyzeMeeting(ctx context.Context, entries []*meeting.TranscriptEntry, speakers []meeting.Speaker) *meeting.AnalyticsArtifact {
	return f.analytics
}

// fakeAudio is a scriptable audio capture device
type fakeAudio struct {
	startErr error
	stopErr  error
	data     *capture.AudioData

	started bool
	stopped bool
}

func (f *fakeAudio) StartCapture(ctx context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started = true
	return nil
}

func (f *fakeAudio) StopCapture() (*capture.AudioData, error) {
	f.stopped = true
	if f.stopErr != nil {
		return nil, f.stopErr
	}
	return f.data, nil
}

// fakeSource is a scriptable speech source
type fakeSource struct {
	startErr error

	started   bool
	stopped   bool
	languages []string
	cfg       capture.RecognizerConfig
}

func (f *fakeSource) Start(ctx context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started = true
	return nil
}

func (f *fakeSource) SetLanguage(code string) error {
	f.languages = append(f.languages, code)
	return nil
}

func (f *fakeSource) Stop() error {
	f.stopped = true
	return nil
}

// fakeFactory hands out pre-built devices, one per acquisition
type fakeFactory struct {
	audio   *fakeAudio
	sources []*fakeSource
	next    int
}

func (f *fakeFactory) NewAudioCapture() capture.AudioCapture {
	return f.audio
}

func (f *fakeFactory) NewSpeechSource(cfg capture.RecognizerConfig) capture.SpeechSource {
	src := f.sources[f.next%len(f.sources)]
	f.next++
	src.cfg = cfg
	return src
}
