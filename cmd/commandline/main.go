package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ethanbaker/scribe/internal/capture"
	"github.com/ethanbaker/scribe/internal/minutes"
	"github.com/ethanbaker/scribe/internal/session"
	meetingstore "github.com/ethanbaker/scribe/internal/stores/meeting"
	"github.com/ethanbaker/scribe/pkg/meeting"
	"github.com/ethanbaker/scribe/pkg/utils"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

var ctrl *session.Controller

func main() {
	// Find env file
	envFile := ".env"
	if os.Getenv("ENV_FILE") != "" {
		envFile = os.Getenv("ENV_FILE")
	}

	// Load global config
	cfg := utils.NewConfigFromEnv(envFile)

	// Create MySQL config
	dbConfig := mysql.Config{
		User:      cfg.Get("MYSQL_USERNAME"),
		Passwd:    cfg.Get("MYSQL_ROOT_PASSWORD"),
		Net:       "tcp",
		Addr:      fmt.Sprintf("%s:%s", cfg.Get("MYSQL_HOST"), cfg.Get("MYSQL_PORT")),
		DBName:    cfg.Get("MYSQL_DATABASE"),
		ParseTime: true,
	}

	dsn := cfg.Get("DATABASE_URL")
	if dsn == "" {
		dsn = dbConfig.FormatDSN()
	}

	// Initialize the database connection to create the meeting store
	store, err := meetingstore.NewStore(dsn)
	if err != nil {
		log.Fatalf("[COMMANDLINE]: Failed to initialize meeting store: %v", err)
	}
	defer store.Close()

	// Terminal sessions inject utterances directly, so capture devices are
	// no-ops and there is no audio artifact to store
	var client minutes.CompletionClient
	if key := cfg.Get("OPENAI_API_KEY"); key != "" {
		client = minutes.NewOpenAIClient(key, cfg.Get("OPENAI_BASE_URL"))
	}
	engine := minutes.NewEngine(client, cfg.GetWithDefault("OPENAI_MODEL", "gpt-4o-mini"), nil)

	ctrl = session.NewController(store, nil, engine, capture.ManualFactory{})
	ctrl.SetIdentity(session.Identity{
		UserID:         uuid.New(),
		OrganizationID: uuid.New(),
	})
	ctrl.SetObservers(session.Observers{
		OnNewEntry: func(e *meeting.TranscriptEntry) {
			fmt.Printf("  [%ds] %s: %s\n", e.TimestampSeconds, e.SpeakerName, e.Text)
		},
		OnError: func(err error) {
			fmt.Printf("Capture error: %v\n", err)
		},
	})

	if err := startInteractiveSession(context.Background()); err != nil {
		log.Fatalf("Failed to start interactive session: %v", err)
	}
}

// startInteractiveSession runs the command loop for terminal-driven meetings
func startInteractiveSession(ctx context.Context) error {
	fmt.Println("Meeting scribe started. Type 'help' for commands, 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\n> ")

		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())

		if input == "exit" {
			break
		}

		if input == "" {
			continue
		}

		command, arg, _ := strings.Cut(input, " ")
		if err := execute(ctx, command, strings.TrimSpace(arg)); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}

	return nil
}

func execute(ctx context.Context, command, arg string) error {
	switch command {
	case "help":
		printHelp()

	case "start":
		// start <title>; speakers are prompted afterwards
		if arg == "" {
			return fmt.Errorf("usage: start <title>")
		}
		return startMeeting(ctx, arg)

	case "record":
		if err := ctrl.StartRecording(ctx); err != nil {
			return err
		}
		fmt.Println("Recording. Use 'say <text>' to add utterances.")

	case "say":
		if arg == "" {
			return fmt.Errorf("usage: say <text>")
		}
		ctrl.HandleTranscriptResult(capture.Result{Final: arg})

	case "speaker":
		index, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("usage: speaker <index>")
		}
		sp, err := ctrl.SetSpeaker(index)
		if err != nil {
			return err
		}
		fmt.Printf("Active speaker: %s\n", sp.Name)

	case "next":
		sp, err := ctrl.NextSpeaker()
		if err != nil {
			return err
		}
		fmt.Printf("Active speaker: %s\n", sp.Name)

	case "auto":
		enabled := ctrl.SetAutoAlternate(arg == "on")
		fmt.Printf("Auto-alternate: %v\n", enabled)

	case "highlight":
		id, err := uuid.Parse(arg)
		if err != nil {
			return fmt.Errorf("usage: highlight <entry-uuid>")
		}
		if err := ctrl.HighlightEntry(ctx, id); err != nil {
			return err
		}
		fmt.Println("Entry highlighted.")

	case "stop":
		result, err := ctrl.StopRecording(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Recording stopped after %ds.\n", result.DurationSeconds)

	case "minutes":
		artifact, err := ctrl.GenerateAIMinutes(ctx, arg)
		if err != nil {
			return err
		}
		printMinutes(artifact)

	case "ask":
		if arg == "" {
			return fmt.Errorf("usage: ask <question>")
		}
		fmt.Println(ctrl.AskQuestion(ctx, arg))

	case "analytics":
		printAnalytics(ctrl.GetAnalytics(ctx))

	case "state":
		snap := ctrl.GetState()
		fmt.Printf("State: %s\n", snap.State)
		if snap.ActiveSpeaker != nil {
			fmt.Printf("Active speaker: %s\n", snap.ActiveSpeaker.Name)
		}
		if snap.Transcript != "" {
			fmt.Printf("Transcript:\n%s", snap.Transcript)
		}

	case "list":
		meetings, err := ctrl.GetMeetings(ctx, 0)
		if err != nil {
			return err
		}
		for _, m := range meetings {
			fmt.Printf("%s  %-10s %s\n", m.ID, m.Status, m.Title)
		}

	case "load":
		id, err := uuid.Parse(arg)
		if err != nil {
			return fmt.Errorf("usage: load <meeting-uuid>")
		}
		m, err := ctrl.LoadMeeting(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("Loaded %q with %d entries.\n", m.Title, len(m.Entries))

	default:
		return fmt.Errorf("unknown command %q, type 'help'", command)
	}

	return nil
}

// startMeeting prompts for a comma-separated roster and starts the meeting
func startMeeting(ctx context.Context, title string) error {
	fmt.Print("Speakers (comma-separated names): ")

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return fmt.Errorf("no speakers given")
	}

	var roster []meeting.Speaker
	for _, name := range strings.Split(scanner.Text(), ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			roster = append(roster, meeting.NewSpeaker(name, "", ""))
		}
	}

	m, err := ctrl.StartMeeting(ctx, session.StartMeetingRequest{
		Title:    title,
		Speakers: roster,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Meeting created: %s\n", m.ID)
	return nil
}

func printMinutes(a *meeting.MinutesArtifact) {
	fmt.Printf("Summary: %s\n", a.Summary)

	fmt.Println("Key points:")
	for _, p := range a.KeyPoints {
		fmt.Printf("  - %s\n", p)
	}

	fmt.Println("Decisions:")
	for _, d := range a.Decisions {
		fmt.Printf("  - %s\n", d)
	}

	fmt.Println("Action items:")
	for _, item := range a.ActionItems {
		assignee := "unassigned"
		if item.AssignedTo != nil {
			assignee = *item.AssignedTo
		}
		fmt.Printf("  - [%s] %s (%s)\n", item.Priority, item.Text, assignee)
	}

	fmt.Println("Next steps:")
	for _, s := range a.NextSteps {
		fmt.Printf("  - %s\n", s)
	}
}

func printAnalytics(a *meeting.AnalyticsArtifact) {
	fmt.Printf("Participation balance: %.2f\n", a.ParticipationBalance)
	fmt.Printf("Engagement: %s, sentiment: %s\n", a.EngagementLevel, a.OverallSentiment)

	if len(a.DominantSpeakers) > 0 {
		fmt.Printf("Dominant: %s\n", strings.Join(a.DominantSpeakers, ", "))
	}
	if len(a.QuietParticipants) > 0 {
		fmt.Printf("Quiet: %s\n", strings.Join(a.QuietParticipants, ", "))
	}

	for _, insight := range a.Insights {
		fmt.Printf("  - %s\n", insight)
	}
}

func printHelp() {
	fmt.Println(`Commands:
  start <title>        create a meeting (prompts for speakers)
  record               start recording
  say <text>           add an utterance for the active speaker
  speaker <index>      set the active speaker
  next                 advance the active speaker
  auto on|off          toggle automatic speaker rotation
  highlight <uuid>     highlight a transcript entry
  stop                 stop recording and finalize the meeting
  minutes [notes]      generate AI minutes
  ask <question>       ask a question about the meeting
  analytics            show participation analytics
  state                show the session snapshot
  list                 list stored meetings
  load <uuid>          load a stored meeting
  exit                 quit`)
}
