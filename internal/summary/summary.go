// Package summary produces a structured description of a clip from its
// transcript. Rule-based on purpose: no model dependency, deterministic
// output, good enough for history listings.
package summary

import "strings"

// Summary describes a clip for display alongside it.
type Summary struct {
	Summary   string `json:"summary"`
	Context   string `json:"context"`
	Topic     string `json:"topic"`
	Sentiment string `json:"sentiment"`
}

var positiveWords = []string{"great", "awesome", "excellent", "good", "love", "amazing"}
var negativeWords = []string{"bad", "terrible", "awful", "hate", "poor", "worst"}

// Generate builds a Summary from the clip transcript and the surrounding
// text. Empty transcript falls back to a keyword placeholder.
func Generate(clipTranscript, keyword, contextBefore, contextAfter string) Summary {
	if clipTranscript == "" {
		clipTranscript = "Clip containing '" + keyword + "'"
	}

	brief := clipTranscript
	if len(brief) > 150 {
		brief = truncate(brief, 150) + "..."
	}

	var ctx strings.Builder
	if contextBefore != "" {
		ctx.WriteString("Before: " + truncate(contextBefore, 100) + "... ")
	}
	if contextAfter != "" {
		ctx.WriteString("After: " + truncate(contextAfter, 100) + "...")
	}
	contextText := strings.TrimSpace(ctx.String())
	if contextText == "" {
		contextText = "No additional context available."
	}

	return Summary{
		Summary:   "Discussion about '" + keyword + "': " + brief,
		Context:   contextText,
		Topic:     keyword,
		Sentiment: sentiment(clipTranscript),
	}
}

func sentiment(text string) string {
	lower := strings.ToLower(text)
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			return "positive"
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			return "negative"
		}
	}
	return "informative"
}

// truncate cuts after at most n runes, never mid-rune, so the output stays
// valid UTF-8.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
