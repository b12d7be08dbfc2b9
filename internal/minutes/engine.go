// Package minutes converts an assembled transcript into structured
// artifacts: minutes, ad-hoc answers and participation analytics. Each
// operation has an AI-backed path; answers and analytics also carry a
// deterministic fallback used whenever the backend is unconfigured, the
// call fails or its output cannot be parsed. Minutes generation has no
// fallback: a heuristic substitute for decisions and action items would
// be misleading, so that failure is surfaced to the caller.
package minutes

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/ethanbaker/scribe/pkg/meeting"
	"github.com/google/uuid"
)

const (
	minutesMaxTokens   = 4000
	minutesTemperature = 0.3

	questionMaxTokens      = 500
	questionTemperature    = 0.5
	questionContextEntries = 20

	analysisMaxTokens      = 1000
	analysisTemperature    = 0.3
	analysisContextEntries = 10
)

// Engine is a stateless request/response component over the AI backend
type Engine struct {
	client    CompletionClient
	model     string
	templates *TemplateSet
	now       func() time.Time
}

// NewEngine creates an engine. A nil client disables the AI path entirely;
// templates may be nil when no per-type guidance is configured
func NewEngine(client CompletionClient, model string, templates *TemplateSet) *Engine {
	return &Engine{
		client:    client,
		model:     model,
		templates: templates,
		now:       time.Now,
	}
}

// MinutesRequest carries the transcript snapshot minutes are generated from
type MinutesRequest struct {
	Title    string
	Type     string
	Speakers []meeting.Speaker
	Entries  []*meeting.TranscriptEntry
	Notes    string
}

// ContextRequest carries the transcript snapshot for questions and
// analytics
type ContextRequest struct {
	Entries     []*meeting.TranscriptEntry
	Speakers    []meeting.Speaker
	MeetingType string
}

// GenerateMinutes produces a structured minutes artifact from the given
// transcript snapshot. It fails with AIResponseError when the backend is
// unconfigured, the call fails, or the response contains no decodable JSON
// object
func (e *Engine) GenerateMinutes(ctx context.Context, req MinutesRequest) (*meeting.MinutesArtifact, error) {
	if e.client == nil {
		return nil, &meeting.AIResponseError{Op: "generate_minutes", Err: errors.New("ai backend not configured")}
	}

	raw, err := e.client.Complete(ctx, CompletionRequest{
		Model:       e.model,
		MaxTokens:   minutesMaxTokens,
		Temperature: minutesTemperature,
		Prompt:      e.minutesPrompt(req, e.now()),
	})
	if err != nil {
		return nil, &meeting.AIResponseError{Op: "generate_minutes", Err: err}
	}

	obj, err := extractJSONObject(raw)
	if err != nil {
		return nil, &meeting.AIResponseError{Op: "generate_minutes", Err: err}
	}

	wire, err := decodeWire[minutesWire](obj)
	if err != nil {
		return nil, &meeting.AIResponseError{Op: "generate_minutes", Err: err}
	}

	artifact := &meeting.MinutesArtifact{
		Summary:     wire.Summary,
		KeyPoints:   emptyIfNil(wire.KeyPoints),
		Decisions:   emptyIfNil(wire.Decisions),
		ActionItems: []meeting.MinutesAction{},
		Questions:   emptyIfNil(wire.Questions),
		NextSteps:   emptyIfNil(wire.NextSteps),
	}
	for _, a := range wire.ActionItems {
		artifact.ActionItems = append(artifact.ActionItems, meeting.MinutesAction{
			Text:       a.Text,
			AssignedTo: a.AssignedTo,
			Priority:   meeting.NormalizePriority(a.Priority),
		})
	}

	return artifact, nil
}

// AskQuestion answers an ad-hoc question about the meeting. It never
// fails: when the backend is absent or errors, a rule-based answer is
// synthesized from the transcript
func (e *Engine) AskQuestion(ctx context.Context, question string, req ContextRequest) string {
	if e.client == nil {
		return fallbackAnswer(question, req)
	}

	raw, err := e.client.Complete(ctx, CompletionRequest{
		Model:       e.model,
		MaxTokens:   questionMaxTokens,
		Temperature: questionTemperature,
		Prompt:      questionPrompt(question, req),
	})
	if err != nil {
		log.Printf("[MINUTES]: question call failed, using fallback: %v", err)
		return fallbackAnswer(question, req)
	}

	if answer := strings.TrimSpace(raw); answer != "" {
		return answer
	}
	return fallbackAnswer(question, req)
}

// AnalyzeMeeting produces participation analytics. Word and turn counts
// are always computed locally; the backend only adds qualitative
// interpretation. It never fails: any backend problem selects the
// heuristic fallback
func (e *Engine) AnalyzeMeeting(ctx context.Context, entries []*meeting.TranscriptEntry, speakers []meeting.Speaker) *meeting.AnalyticsArtifact {
	stats := computeStats(entries, speakers)

	if e.client == nil {
		return fallbackAnalysis(stats, len(entries))
	}

	raw, err := e.client.Complete(ctx, CompletionRequest{
		Model:       e.model,
		MaxTokens:   analysisMaxTokens,
		Temperature: analysisTemperature,
		Prompt:      analysisPrompt(stats, entries),
	})
	if err != nil {
		log.Printf("[MINUTES]: analysis call failed, using fallback: %v", err)
		return fallbackAnalysis(stats, len(entries))
	}

	obj, err := extractJSONObject(raw)
	if err != nil {
		log.Printf("[MINUTES]: analysis response unparseable, using fallback: %v", err)
		return fallbackAnalysis(stats, len(entries))
	}

	wire, err := decodeWire[analyticsWire](obj)
	if err != nil {
		log.Printf("[MINUTES]: analysis response malformed, using fallback: %v", err)
		return fallbackAnalysis(stats, len(entries))
	}

	return &meeting.AnalyticsArtifact{
		ParticipationBalance: clamp01(wire.ParticipationBalance),
		DominantSpeakers:     emptyIfNil(wire.DominantSpeakers),
		QuietParticipants:    emptyIfNil(wire.QuietParticipants),
		OverallSentiment:     normalizeSentiment(wire.OverallSentiment),
		EngagementLevel:      normalizeEngagement(wire.EngagementLevel),
		Insights:             emptyIfNil(wire.Insights),
	}
}

// ResolveAssignee matches an action-item assignee name against the roster
// by case-insensitive exact name match. No match yields nil rather than
// an error so an unrecognized name degrades to an unassigned item
func ResolveAssignee(name *string, roster []meeting.Speaker) *uuid.UUID {
	if name == nil {
		return nil
	}

	for _, s := range roster {
		if strings.EqualFold(s.Name, *name) {
			id := s.ID
			return &id
		}
	}
	return nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func normalizeSentiment(s string) meeting.Sentiment {
	switch meeting.Sentiment(s) {
	case meeting.SentimentPositive, meeting.SentimentNegative:
		return meeting.Sentiment(s)
	default:
		return meeting.SentimentNeutral
	}
}

func normalizeEngagement(s string) meeting.Engagement {
	switch meeting.Engagement(s) {
	case meeting.EngagementHigh, meeting.EngagementLow:
		return meeting.Engagement(s)
	default:
		return meeting.EngagementMedium
	}
}
