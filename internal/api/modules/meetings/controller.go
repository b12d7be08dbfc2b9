package meetings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ethanbaker/scribe/internal/session"
	"github.com/ethanbaker/scribe/pkg/meeting"
	"github.com/ethanbaker/scribe/pkg/sdk"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// statusFor maps the domain error taxonomy onto HTTP status codes
func statusFor(err error) int {
	var precondition *meeting.PreconditionError
	var notFound *meeting.NotFoundError
	var aiResponse *meeting.AIResponseError

	switch {
	case errors.As(err, &precondition):
		return http.StatusConflict
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &aiResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// StartMeeting handles POST requests to create a new meeting
func StartMeeting(c *gin.Context) {
	// Parse request body
	var req sdk.StartMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err.Error()).AsGinResponse())
		return
	}

	roster := make([]meeting.Speaker, 0, len(req.Speakers))
	for _, s := range req.Speakers {
		roster = append(roster, meeting.NewSpeaker(s.Name, s.Color, s.DefaultLanguage))
	}

	m, err := GetController().StartMeeting(c.Request.Context(), session.StartMeetingRequest{
		Title:    req.Title,
		Type:     req.Type,
		Speakers: roster,
	})
	if err != nil {
		c.JSON(sdk.NewErrorResponse(statusFor(err), "Failed to start meeting", err.Error()).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Meeting created successfully", m).AsGinResponse())
}

// StartRecording handles POST requests to begin capture
func StartRecording(c *gin.Context) {
	if err := GetController().StartRecording(c.Request.Context()); err != nil {
		c.JSON(sdk.NewErrorResponse(statusFor(err), "Failed to start recording", err.Error()).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse[any]("Recording started", nil).AsGinResponse())
}

// StopRecording handles POST requests to end capture
func StopRecording(c *gin.Context) {
	result, err := GetController().StopRecording(c.Request.Context())
	if err != nil {
		c.JSON(sdk.NewErrorResponse(statusFor(err), "Failed to stop recording", err.Error()).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Recording stopped", result).AsGinResponse())
}

// GetState handles GET requests for the session snapshot
func GetState(c *gin.Context) {
	c.JSON(sdk.NewSuccessResponse("Session state", GetController().GetState()).AsGinResponse())
}

// SetSpeaker handles POST requests to change the active speaker
func SetSpeaker(c *gin.Context) {
	var req sdk.SetSpeakerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err.Error()).AsGinResponse())
		return
	}

	speaker, err := GetController().SetSpeaker(req.Index)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(statusFor(err), "Failed to set speaker", err.Error()).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Speaker updated", sdk.SpeakerResponse{Speaker: speaker}).AsGinResponse())
}

// NextSpeaker handles POST requests to advance the active speaker
func NextSpeaker(c *gin.Context) {
	speaker, err := GetController().NextSpeaker()
	if err != nil {
		c.JSON(sdk.NewErrorResponse(statusFor(err), "Failed to advance speaker", err.Error()).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Speaker advanced", sdk.SpeakerResponse{Speaker: speaker}).AsGinResponse())
}

// SetAutoAlternate handles POST requests to toggle speaker rotation
func SetAutoAlternate(c *gin.Context) {
	var req sdk.AutoAlternateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err.Error()).AsGinResponse())
		return
	}

	enabled := GetController().SetAutoAlternate(req.Enabled)
	c.JSON(sdk.NewSuccessResponse("Auto-alternate updated", sdk.AutoAlternateResponse{Enabled: enabled}).AsGinResponse())
}

// HighlightEntry handles POST requests to highlight a transcript entry
func HighlightEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Invalid entry id", err.Error()).AsGinResponse())
		return
	}

	if err := GetController().HighlightEntry(c.Request.Context(), id); err != nil {
		c.JSON(sdk.NewErrorResponse(statusFor(err), "Failed to highlight entry", err.Error()).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse[any]("Entry highlighted", nil).AsGinResponse())
}

// GenerateMinutes handles POST requests to generate AI minutes
func GenerateMinutes(c *gin.Context) {
	var req sdk.MinutesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err.Error()).AsGinResponse())
		return
	}

	artifact, err := GetController().GenerateAIMinutes(c.Request.Context(), req.Notes)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(statusFor(err), "Failed to generate minutes", err.Error()).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Minutes generated", artifact).AsGinResponse())
}

// AskQuestion handles POST requests for ad-hoc questions
func AskQuestion(c *gin.Context) {
	var req sdk.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err.Error()).AsGinResponse())
		return
	}

	answer := GetController().AskQuestion(c.Request.Context(), req.Question)
	c.JSON(sdk.NewSuccessResponse("Question answered", sdk.AnswerResponse{Answer: answer}).AsGinResponse())
}

// GetAnalytics handles GET requests for participation analytics
func GetAnalytics(c *gin.Context) {
	analytics := GetController().GetAnalytics(c.Request.Context())
	c.JSON(sdk.NewSuccessResponse("Meeting analytics", analytics).AsGinResponse())
}

// ListMeetings handles GET requests for the organization's meetings
func ListMeetings(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Invalid limit", err.Error()).AsGinResponse())
			return
		}
		limit = parsed
	}

	meetings, err := GetController().GetMeetings(c.Request.Context(), limit)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(statusFor(err), "Failed to list meetings", err.Error()).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Meetings retrieved", sdk.MeetingListResponse{Meetings: meetings}).AsGinResponse())
}

// GetMeeting handles GET requests to load a stored meeting
func GetMeeting(c *gin.Context) {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Invalid meeting id", err.Error()).AsGinResponse())
		return
	}

	m, err := GetController().LoadMeeting(c.Request.Context(), id)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(statusFor(err), "Failed to load meeting", err.Error()).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Meeting retrieved", m).AsGinResponse())
}
