package minutes

import (
	"fmt"
	"math"
	"strings"

	"github.com/ethanbaker/scribe/pkg/meeting"
)

// speakerStat holds locally computed participation numbers for one roster
// member
type speakerStat struct {
	Name  string
	Words int
	Turns int
}

// computeStats counts words and speaking turns per roster member, in
// roster order. Entries attributed to names outside the roster are counted
// under their own name at the end
func computeStats(entries []*meeting.TranscriptEntry, speakers []meeting.Speaker) []speakerStat {
	index := make(map[string]int, len(speakers))
	stats := make([]speakerStat, 0, len(speakers))
	for _, s := range speakers {
		index[s.Name] = len(stats)
		stats = append(stats, speakerStat{Name: s.Name})
	}

	for _, e := range entries {
		i, ok := index[e.SpeakerName]
		if !ok {
			i = len(stats)
			index[e.SpeakerName] = i
			stats = append(stats, speakerStat{Name: e.SpeakerName})
		}
		stats[i].Words += len(strings.Fields(e.Text))
		stats[i].Turns++
	}

	return stats
}

// fallbackAnswer synthesizes an answer without the AI backend by
// classifying the question and filtering the transcript. It always returns
// a non-empty string
func fallbackAnswer(question string, req ContextRequest) string {
	lower := strings.ToLower(question)

	if strings.Contains(lower, "decision") || strings.Contains(lower, "decided") {
		decisions := filterEntries(req.Entries, 3, "agree", "decided", "will")
		if len(decisions) > 0 {
			var b strings.Builder
			b.WriteString("Based on the transcript, potential decisions include:\n")
			for _, e := range decisions {
				fmt.Fprintf(&b, "\n* %s: %q", e.SpeakerName, e.Text)
			}
			return b.String()
		}
		return "No clear decisions identified yet in the transcript."
	}

	if strings.Contains(lower, "action") || strings.Contains(lower, "task") || strings.Contains(lower, "todo") {
		actions := filterEntries(req.Entries, 4, "will", "need to", "should")
		if len(actions) > 0 {
			var b strings.Builder
			b.WriteString("Potential action items:\n")
			for _, e := range actions {
				fmt.Fprintf(&b, "\n* %s: %s", e.SpeakerName, e.Text)
			}
			return b.String()
		}
		return "No clear action items identified yet."
	}

	if strings.Contains(lower, "summary") || strings.Contains(lower, "summarize") {
		meetingType := req.MeetingType
		if meetingType == "" {
			meetingType = "meeting"
		}
		names := make([]string, 0, len(req.Speakers))
		for _, s := range req.Speakers {
			names = append(names, s.Name)
		}
		return fmt.Sprintf("This %s has %d participants: %s. So far there have been %d exchanges recorded.",
			meetingType, len(req.Speakers), strings.Join(names, ", "), len(req.Entries))
	}

	status := "Recording hasn't started yet."
	if len(req.Entries) > 0 {
		status = fmt.Sprintf("There have been %d exchanges so far.", len(req.Entries))
	}
	return fmt.Sprintf("I'm analyzing the meeting with %d participants. %s Try asking about decisions, action items, or for a summary.",
		len(req.Speakers), status)
}

// filterEntries returns entries whose text contains any of the keywords,
// case-insensitively, capped at limit
func filterEntries(entries []*meeting.TranscriptEntry, limit int, keywords ...string) []*meeting.TranscriptEntry {
	var out []*meeting.TranscriptEntry
	for _, e := range entries {
		text := strings.ToLower(e.Text)
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				out = append(out, e)
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out
}

// fallbackAnalysis derives analytics heuristically: speakers above 1.5x
// the average word count are dominant, those below 0.5x are quiet.
// The participation balance is a fixed placeholder, not a measured value;
// no reliable local computation of balance is defined for this path
func fallbackAnalysis(stats []speakerStat, entryCount int) *meeting.AnalyticsArtifact {
	totalWords := 0
	for _, s := range stats {
		totalWords += s.Words
	}

	avgWords := 0.0
	if len(stats) > 0 {
		avgWords = float64(totalWords) / float64(len(stats))
	}

	dominant := []string{}
	quiet := []string{}
	for _, s := range stats {
		if float64(s.Words) > avgWords*1.5 {
			dominant = append(dominant, s.Name)
		}
		if float64(s.Words) < avgWords*0.5 {
			quiet = append(quiet, s.Name)
		}
	}

	engagement := meeting.EngagementLow
	switch {
	case entryCount > 20:
		engagement = meeting.EngagementHigh
	case entryCount > 10:
		engagement = meeting.EngagementMedium
	}

	contribution := "Balanced participation"
	if len(dominant) > 0 {
		contribution = fmt.Sprintf("%s contributed most to discussion", dominant[0])
	}

	return &meeting.AnalyticsArtifact{
		ParticipationBalance: 0.7,
		DominantSpeakers:     dominant,
		QuietParticipants:    quiet,
		OverallSentiment:     meeting.SentimentNeutral,
		EngagementLevel:      engagement,
		Insights: []string{
			fmt.Sprintf("Total of %d exchanges recorded", entryCount),
			fmt.Sprintf("Average %d words per speaker", int(math.Round(avgWords))),
			contribution,
		},
	}
}
