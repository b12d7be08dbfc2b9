package meeting

// MinutesAction is a single action entry inside generated minutes. The
// assignee is the raw name from the minutes text; resolution against the
// roster happens when action items are created
type MinutesAction struct {
	Text       string   `json:"text"`
	AssignedTo *string  `json:"assigned_to"`
	Priority   Priority `json:"priority"`
}

// MinutesArtifact is the structured minutes document for a meeting. A new
// generation overwrites any prior artifact for the same meeting
type MinutesArtifact struct {
	Summary     string          `json:"summary"`
	KeyPoints   []string        `json:"key_points"`
	Decisions   []string        `json:"decisions"`
	ActionItems []MinutesAction `json:"action_items"`
	Questions   []string        `json:"questions"`
	NextSteps   []string        `json:"next_steps"`
}

// Sentiment classifies the overall tone of a meeting
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Engagement classifies overall meeting activity
type Engagement string

const (
	EngagementHigh   Engagement = "high"
	EngagementMedium Engagement = "medium"
	EngagementLow    Engagement = "low"
)

// AnalyticsArtifact describes participation and tone for a meeting
type AnalyticsArtifact struct {
	// ParticipationBalance is in [0,1]; 1 means perfectly balanced
	ParticipationBalance float64    `json:"participation_balance"`
	DominantSpeakers     []string   `json:"dominant_speakers"`
	QuietParticipants    []string   `json:"quiet_participants"`
	OverallSentiment     Sentiment  `json:"overall_sentiment"`
	EngagementLevel      Engagement `json:"engagement_level"`
	Insights             []string   `json:"insights"`
}
