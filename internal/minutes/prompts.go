package minutes

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethanbaker/scribe/pkg/meeting"
)

func speakerNames(speakers []meeting.Speaker) string {
	names := make([]string, 0, len(speakers))
	for _, s := range speakers {
		names = append(names, s.Name)
	}
	return strings.Join(names, ", ")
}

// renderEntries flattens entries as "speaker: text" lines, one per entry,
// in arrival order
func renderEntries(entries []*meeting.TranscriptEntry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", e.SpeakerName, e.Text)
	}
	return b.String()
}

// lastEntries returns the trailing n entries, bounding prompt size
func lastEntries(entries []*meeting.TranscriptEntry, n int) []*meeting.TranscriptEntry {
	if len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}

func (e *Engine) minutesPrompt(req MinutesRequest, now time.Time) string {
	var b strings.Builder

	b.WriteString("You are an expert meeting analyst. Generate professional meeting minutes from the following meeting data.\n\n")
	fmt.Fprintf(&b, "Meeting Title: %s\n", req.Title)
	fmt.Fprintf(&b, "Meeting Type: %s\n", req.Type)
	fmt.Fprintf(&b, "Date: %s\n", now.Format("Monday, 2 January 2006"))
	fmt.Fprintf(&b, "Participants: %s\n\n", speakerNames(req.Speakers))

	if req.Notes != "" {
		fmt.Fprintf(&b, "Additional Notes:\n%s\n\n", req.Notes)
	}

	if guidance := e.templates.GuidanceFor(req.Type); guidance != "" {
		fmt.Fprintf(&b, "Type-specific guidance:\n%s\n\n", guidance)
	}

	fmt.Fprintf(&b, "Transcript:\n%s\n\n", renderEntries(req.Entries))

	b.WriteString(`Please generate meeting minutes in the following JSON structure:
{
  "summary": "Brief 2-3 sentence overview of the meeting",
  "key_points": ["point 1", "point 2", ...],
  "decisions": ["decision 1", "decision 2", ...],
  "action_items": [
    {
      "text": "action item description",
      "assigned_to": "person name or null",
      "priority": "high|medium|low"
    }
  ],
  "questions": ["question 1", "question 2", ...],
  "next_steps": ["next step 1", "next step 2", ...]
}

Focus on:
1. Extracting concrete decisions made
2. Identifying clear action items with owners
3. Highlighting important discussion points
4. Noting questions that need follow-up
5. Being concise but comprehensive

Return ONLY valid JSON, no markdown formatting.`)

	return b.String()
}

func questionPrompt(question string, ctx ContextRequest) string {
	var b strings.Builder

	b.WriteString("You are an AI assistant helping with meeting analysis.\n\n")
	b.WriteString("Meeting Context:\n")
	fmt.Fprintf(&b, "Participants: %s\n", speakerNames(ctx.Speakers))
	fmt.Fprintf(&b, "Transcript:\n%s\n\n", renderEntries(lastEntries(ctx.Entries, questionContextEntries)))
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	b.WriteString("Provide a concise, helpful answer based on the meeting context. If you cannot answer from the context, say so clearly.")

	return b.String()
}

func analysisPrompt(stats []speakerStat, entries []*meeting.TranscriptEntry) string {
	var b strings.Builder

	b.WriteString("Analyze the following meeting participation data and provide insights.\n\n")
	b.WriteString("Participants and their contributions:\n")
	for _, s := range stats {
		fmt.Fprintf(&b, "%s: %d words, %d turns speaking\n", s.Name, s.Words, s.Turns)
	}

	fmt.Fprintf(&b, "\nRecent exchanges:\n%s\n\n", renderEntries(lastEntries(entries, analysisContextEntries)))

	b.WriteString(`Provide analysis in JSON format:
{
  "participation_balance": 0.0 to 1.0 (1 = perfectly balanced),
  "dominant_speakers": ["name1", "name2"],
  "quiet_participants": ["name1", "name2"],
  "overall_sentiment": "positive|neutral|negative",
  "engagement_level": "high|medium|low",
  "insights": ["insight 1", "insight 2", ...]
}`)

	return b.String()
}
