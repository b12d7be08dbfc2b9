package minutes

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// extractJSONObject locates the first decodable top-level JSON object in
// free-form model output. Candidate positions are tried at each opening
// brace, so prose containing a stray "{" before the object does not break
// the parse, and nested braces inside string values decode normally.
// Known limitation: if the model emits two objects, only the first
// decodable one is returned
func extractJSONObject(s string) (json.RawMessage, error) {
	offset := 0
	for {
		i := strings.IndexByte(s[offset:], '{')
		if i < 0 {
			break
		}
		start := offset + i

		dec := json.NewDecoder(strings.NewReader(s[start:]))
		var raw json.RawMessage
		if err := dec.Decode(&raw); err == nil {
			return raw, nil
		}

		offset = start + 1
	}

	return nil, errors.New("no JSON object found in response")
}

// wire shape for minutes as requested from the backend; decoding through
// it drops any extra fields the model invents
type minutesWire struct {
	Summary     string   `json:"summary"`
	KeyPoints   []string `json:"key_points"`
	Decisions   []string `json:"decisions"`
	ActionItems []struct {
		Text       string  `json:"text"`
		AssignedTo *string `json:"assigned_to"`
		Priority   string  `json:"priority"`
	} `json:"action_items"`
	Questions []string `json:"questions"`
	NextSteps []string `json:"next_steps"`
}

type analyticsWire struct {
	ParticipationBalance float64  `json:"participation_balance"`
	DominantSpeakers     []string `json:"dominant_speakers"`
	QuietParticipants    []string `json:"quiet_participants"`
	OverallSentiment     string   `json:"overall_sentiment"`
	EngagementLevel      string   `json:"engagement_level"`
	Insights             []string `json:"insights"`
}

func decodeWire[T any](raw json.RawMessage) (*T, error) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("response JSON has unexpected shape: %w", err)
	}
	return &out, nil
}
