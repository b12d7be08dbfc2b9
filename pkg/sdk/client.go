package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ethanbaker/api/pkg/api_types"
	"github.com/ethanbaker/scribe/internal/session"
	"github.com/ethanbaker/scribe/pkg/meeting"
)

// Client wraps calls to the meeting backend
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// Start a new meeting with the given roster
func (c *Client) StartMeeting(ctx context.Context, req *StartMeetingRequest) (*meeting.Meeting, error) {
	path := "/api/meetings"

	var out ApiResponse[*meeting.Meeting]
	if err := c.doJSON(ctx, http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	if err := out.asError(); err != nil {
		return nil, err
	}

	return out.Data, nil
}

// Start recording the current meeting
func (c *Client) StartRecording(ctx context.Context) error {
	var out ApiResponse[any]
	if err := c.doJSON(ctx, http.MethodPost, "/api/meetings/recording/start", nil, &out); err != nil {
		return err
	}
	return out.asError()
}

// Stop recording and finalize the current meeting
func (c *Client) StopRecording(ctx context.Context) (*StopResponse, error) {
	var out ApiResponse[StopResponse]
	if err := c.doJSON(ctx, http.MethodPost, "/api/meetings/recording/stop", nil, &out); err != nil {
		return nil, err
	}
	if err := out.asError(); err != nil {
		return nil, err
	}

	return &out.Data, nil
}

// Get the current session snapshot
func (c *Client) GetState(ctx context.Context) (*session.Snapshot, error) {
	var out ApiResponse[session.Snapshot]
	if err := c.doJSON(ctx, http.MethodGet, "/api/meetings/state", nil, &out); err != nil {
		return nil, err
	}
	if err := out.asError(); err != nil {
		return nil, err
	}

	return &out.Data, nil
}

// Set the active speaker by roster index
func (c *Client) SetSpeaker(ctx context.Context, index int) (*meeting.Speaker, error) {
	var out ApiResponse[SpeakerResponse]
	if err := c.doJSON(ctx, http.MethodPost, "/api/meetings/speaker", &SetSpeakerRequest{Index: index}, &out); err != nil {
		return nil, err
	}
	if err := out.asError(); err != nil {
		return nil, err
	}

	return &out.Data.Speaker, nil
}

// Advance the active speaker to the next roster entry
func (c *Client) NextSpeaker(ctx context.Context) (*meeting.Speaker, error) {
	var out ApiResponse[SpeakerResponse]
	if err := c.doJSON(ctx, http.MethodPost, "/api/meetings/speaker/next", nil, &out); err != nil {
		return nil, err
	}
	if err := out.asError(); err != nil {
		return nil, err
	}

	return &out.Data.Speaker, nil
}

// Toggle automatic speaker rotation
func (c *Client) SetAutoAlternate(ctx context.Context, enabled bool) (bool, error) {
	var out ApiResponse[AutoAlternateResponse]
	if err := c.doJSON(ctx, http.MethodPost, "/api/meetings/auto-alternate", &AutoAlternateRequest{Enabled: enabled}, &out); err != nil {
		return false, err
	}
	if err := out.asError(); err != nil {
		return false, err
	}

	return out.Data.Enabled, nil
}

// Highlight a transcript entry by UUID
func (c *Client) HighlightEntry(ctx context.Context, uuid string) error {
	path := fmt.Sprintf("/api/meetings/entries/%s/highlight", uuid)

	var out ApiResponse[any]
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &out); err != nil {
		return err
	}
	return out.asError()
}

// Generate AI minutes for the current meeting
func (c *Client) GenerateMinutes(ctx context.Context, notes string) (*meeting.MinutesArtifact, error) {
	var out ApiResponse[meeting.MinutesArtifact]
	if err := c.doJSON(ctx, http.MethodPost, "/api/meetings/minutes", &MinutesRequest{Notes: notes}, &out); err != nil {
		return nil, err
	}
	if err := out.asError(); err != nil {
		return nil, err
	}

	return &out.Data, nil
}

// Ask an ad-hoc question about the current meeting
func (c *Client) AskQuestion(ctx context.Context, question string) (string, error) {
	var out ApiResponse[AnswerResponse]
	if err := c.doJSON(ctx, http.MethodPost, "/api/meetings/question", &QuestionRequest{Question: question}, &out); err != nil {
		return "", err
	}
	if err := out.asError(); err != nil {
		return "", err
	}

	return out.Data.Answer, nil
}

// Get participation analytics for the current meeting
func (c *Client) GetAnalytics(ctx context.Context) (*meeting.AnalyticsArtifact, error) {
	var out ApiResponse[meeting.AnalyticsArtifact]
	if err := c.doJSON(ctx, http.MethodGet, "/api/meetings/analytics", nil, &out); err != nil {
		return nil, err
	}
	if err := out.asError(); err != nil {
		return nil, err
	}

	return &out.Data, nil
}

// List the organization's meetings, newest first
func (c *Client) ListMeetings(ctx context.Context, limit int) ([]*meeting.Meeting, error) {
	path := "/api/meetings"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}

	var out ApiResponse[MeetingListResponse]
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if err := out.asError(); err != nil {
		return nil, err
	}

	return out.Data.Meetings, nil
}

// Get a stored meeting by UUID
func (c *Client) GetMeeting(ctx context.Context, uuid string) (*meeting.Meeting, error) {
	path := fmt.Sprintf("/api/meetings/%s", uuid)

	var out ApiResponse[*meeting.Meeting]
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if err := out.asError(); err != nil {
		return nil, err
	}

	return out.Data, nil
}

// asError converts a non-success envelope into an error
func (r ApiResponse[T]) asError() error {
	switch r.Status {
	case api_types.StatusFail:
		return fmt.Errorf("request failed: %s", r.Message)
	case api_types.StatusError:
		return fmt.Errorf("request error (%s): %v", r.Message, r.Error)
	}
	return nil
}

// doJSON is a helper to perform JSON requests to the backend
func (c *Client) doJSON(ctx context.Context, method, path string, in any, out any) error {
	// Create request body if input is provided
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(b)
	}

	// Create the request
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	// Perform the request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// On error, read body and return error
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("[BACKEND]: backend '%s %s' failed: %d: %s", method, path, resp.StatusCode, string(b))
	}

	// If no output expected, return early
	if out == nil {
		return nil
	}

	// Decode the response body into the output struct
	dec := json.NewDecoder(resp.Body)
	return dec.Decode(out)
}
