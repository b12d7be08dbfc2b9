package meetings

import (
	"fmt"
	"log"

	"github.com/ethanbaker/api/pkg/api_key"
	"github.com/ethanbaker/scribe/internal/session"
	"github.com/ethanbaker/scribe/pkg/utils"
	"github.com/gin-gonic/gin"
)

var controller *session.Controller

// Init wires the module to its session controller instance
func Init(ctrl *session.Controller) {
	controller = ctrl
}

// GetController returns the module's session controller
func GetController() *session.Controller {
	return controller
}

// Register routes for the meetings module
func RegisterRoutes(g *gin.RouterGroup, cfg *utils.Config) {
	// Make api key validator
	validator, err := makeApiKeyValidator(cfg)
	if err != nil {
		log.Fatalf("failed to create API key validator: %v", err)
	}

	// Create base group for meeting routes
	group := g.Group("/meetings")
	group.Handlers = append(group.Handlers, api_key.APIKeyHeaderHandler(validator))

	// Meeting lifecycle routes
	group.POST("", StartMeeting)                     // Create a new meeting and roster
	group.POST("/recording/start", StartRecording)   // Begin capture for the active meeting
	group.POST("/recording/stop", StopRecording)     // End capture and persist the result

	// Active session routes
	group.GET("/state", GetState)                    // Session snapshot
	group.POST("/speaker", SetSpeaker)               // Set active speaker by roster index
	group.POST("/speaker/next", NextSpeaker)         // Advance the active speaker
	group.POST("/auto-alternate", SetAutoAlternate)  // Toggle speaker rotation
	group.POST("/entries/:uuid/highlight", HighlightEntry)

	// Derived artifact routes
	group.POST("/minutes", GenerateMinutes)          // Generate structured AI minutes
	group.POST("/question", AskQuestion)             // Ask an ad-hoc question
	group.GET("/analytics", GetAnalytics)            // Participation analytics

	// Stored meeting routes
	group.GET("", ListMeetings)                      // List meetings, newest first
	group.GET("/:uuid", GetMeeting)                  // Load a stored meeting
}

// makeApiKeyValidator checks if the provided API key is valid
func makeApiKeyValidator(cfg *utils.Config) (func(key string) bool, error) {
	// Get api key from config
	apiKey := cfg.Get("API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("API_KEY not set in environment")
	}

	return func(key string) bool {
		return apiKey == key
	}, nil
}
