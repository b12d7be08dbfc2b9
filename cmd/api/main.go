package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ethanbaker/scribe/internal/api"
	"github.com/ethanbaker/scribe/internal/capture"
	"github.com/ethanbaker/scribe/internal/janitor"
	"github.com/ethanbaker/scribe/internal/minutes"
	"github.com/ethanbaker/scribe/internal/session"
	"github.com/ethanbaker/scribe/internal/stores/blob"
	meetingstore "github.com/ethanbaker/scribe/internal/stores/meeting"
	"github.com/ethanbaker/scribe/pkg/utils"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

// Start the API server
func main() {
	// Find env file
	envFile := ".env"
	if os.Getenv("ENV_FILE") != "" {
		envFile = os.Getenv("ENV_FILE")
	}

	// Load global config
	cfg := utils.NewConfigFromEnv(envFile)

	// Initialize database connection to create the meeting store
	store, err := meetingstore.NewStore(databaseURL(cfg))
	if err != nil {
		log.Fatalf("[API-MAIN]: Failed to initialize meeting store: %v", err)
	}
	defer store.Close()

	// Initialize audio blob storage
	blobs, err := blob.NewStore(cfg.GetWithDefault("AUDIO_DIR", "./audio"))
	if err != nil {
		log.Fatalf("[API-MAIN]: Failed to initialize audio store: %v", err)
	}

	// Create the session controller over the real capture devices
	factory := capture.NewDeviceFactory(cfg.Get("SPEECH_WS_URL"))
	controller := session.NewController(store, blobs, newEngine(cfg), factory)

	if identity, ok := identityFromConfig(cfg); ok {
		controller.SetIdentity(identity)
	}

	// Start the background sweep for stale in-progress meetings
	maxAge := time.Duration(cfg.GetIntWithDefault("STALE_MEETING_MAX_AGE_HOURS", 24)) * time.Hour
	j, err := janitor.New(store, cfg.GetWithDefault("JANITOR_SCHEDULE", "@hourly"), maxAge)
	if err != nil {
		log.Fatalf("[API-MAIN]: Failed to initialize janitor: %v", err)
	}
	j.Start()
	defer j.Stop()

	// Start
	api.Start(cfg, controller)
}

// databaseURL resolves the DSN: an explicit DATABASE_URL wins, otherwise
// one is assembled from the individual MYSQL_* settings
func databaseURL(cfg *utils.Config) string {
	if url := cfg.Get("DATABASE_URL"); url != "" {
		return url
	}

	dbConfig := mysql.Config{
		User:      cfg.Get("MYSQL_USERNAME"),
		Passwd:    cfg.Get("MYSQL_ROOT_PASSWORD"),
		Net:       "tcp",
		Addr:      fmt.Sprintf("%s:%s", cfg.Get("MYSQL_HOST"), cfg.Get("MYSQL_PORT")),
		DBName:    cfg.Get("MYSQL_DATABASE"),
		ParseTime: true,
	}
	return dbConfig.FormatDSN()
}

// newEngine builds the minutes engine. Without an API key the engine runs
// with no completion backend and serves its deterministic fallbacks
func newEngine(cfg *utils.Config) *minutes.Engine {
	var client minutes.CompletionClient
	if key := cfg.Get("OPENAI_API_KEY"); key != "" {
		client = minutes.NewOpenAIClient(key, cfg.Get("OPENAI_BASE_URL"))
	} else {
		log.Printf("[API-MAIN]: OPENAI_API_KEY not set, AI minutes disabled")
	}

	var templates *minutes.TemplateSet
	if path := cfg.Get("PROMPT_TEMPLATES_PATH"); path != "" {
		loaded, err := minutes.LoadTemplates(path)
		if err != nil {
			log.Fatalf("[API-MAIN]: Failed to load prompt templates: %v", err)
		}
		templates = loaded
	}

	return minutes.NewEngine(client, cfg.GetWithDefault("OPENAI_MODEL", "gpt-4o-mini"), templates)
}

// identityFromConfig reads the deployment's fixed user and organization
// context. Meetings cannot start until both are present
func identityFromConfig(cfg *utils.Config) (session.Identity, bool) {
	orgID, err := uuid.Parse(cfg.Get("SCRIBE_ORG_ID"))
	if err != nil {
		log.Printf("[API-MAIN]: SCRIBE_ORG_ID missing or invalid, meetings cannot start until set")
		return session.Identity{}, false
	}

	userID, err := uuid.Parse(cfg.Get("SCRIBE_USER_ID"))
	if err != nil {
		log.Printf("[API-MAIN]: SCRIBE_USER_ID missing or invalid, meetings cannot start until set")
		return session.Identity{}, false
	}

	return session.Identity{UserID: userID, OrganizationID: orgID}, true
}
