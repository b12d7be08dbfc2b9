package sdk

import (
	"encoding/json"

	"github.com/ethanbaker/api/pkg/api_types"
	"github.com/ethanbaker/scribe/internal/session"
	"github.com/ethanbaker/scribe/pkg/meeting"
)

// ApiResponse represents a standard API response structure
type ApiResponse[T any] struct {
	Status  api_types.StatusType `json:"status"`          // Status message
	Code    int                  `json:"code"`            // Status code
	Message string               `json:"message"`         // Human-readable message
	Data    T                    `json:"data,omitempty"`  // Optional data field for successful responses
	Error   any                  `json:"error,omitempty"` // Optional errors field for error responses
}

// AsGinResponse converts the ApiResponse to a format suitable for Gin framework
func (r ApiResponse[T]) AsGinResponse() (int, any) {
	return r.Code, r
}

// AsJSON converts the ApiResponse to a format suitable for JSON responses
func (r ApiResponse[T]) AsJSON() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func NewSuccessResponse[T any](message string, data T) ApiResponse[T] {
	return ApiResponse[T]{
		Status:  api_types.StatusSuccess,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func NewErrorResponse(code int, message string, err any) ApiResponse[any] {
	return ApiResponse[any]{
		Status:  api_types.StatusError,
		Code:    code,
		Message: message,
		Error:   err,
	}
}

/* ---- REQUESTS ---- */

// SpeakerInput describes one roster member when starting a meeting
type SpeakerInput struct {
	Name            string `json:"name" binding:"required"`
	Color           string `json:"color"`
	DefaultLanguage string `json:"default_language"`
}

// StartMeetingRequest creates a new meeting and roster
type StartMeetingRequest struct {
	Title    string         `json:"title" binding:"required"`
	Type     string         `json:"type"`
	Speakers []SpeakerInput `json:"speakers"`
}

// SetSpeakerRequest changes the active speaker by roster index
type SetSpeakerRequest struct {
	Index int `json:"index"`
}

// AutoAlternateRequest toggles automatic speaker rotation
type AutoAlternateRequest struct {
	Enabled bool `json:"enabled"`
}

// MinutesRequest triggers AI minutes generation
type MinutesRequest struct {
	Notes string `json:"notes"`
}

// QuestionRequest asks an ad-hoc question about the meeting
type QuestionRequest struct {
	Question string `json:"question" binding:"required"`
}

/* ---- RESPONSES ---- */

// AnswerResponse carries the answer to an ad-hoc question
type AnswerResponse struct {
	Answer string `json:"answer"`
}

// SpeakerResponse reports the active speaker after a change
type SpeakerResponse struct {
	Speaker meeting.Speaker `json:"speaker"`
}

// AutoAlternateResponse reports the rotation mode after a toggle
type AutoAlternateResponse struct {
	Enabled bool `json:"enabled"`
}

// MeetingListResponse carries an organization's meetings
type MeetingListResponse struct {
	Meetings []*meeting.Meeting `json:"meetings"`
}

// StopResponse mirrors the controller's stop result
type StopResponse = session.StopResult
