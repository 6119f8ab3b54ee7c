package transcript

import (
	"math"
	"strings"
)

// manualSecondsPerWord is the nominal speaking rate used when the caller
// supplies text with no timing at all (~150 words per minute).
const manualSecondsPerWord = 0.4

// SynthesizeWords distributes the interval [start, start+duration] uniformly
// across the whitespace-separated tokens of phrase. Caption feeds only carry
// phrase-level timing, so per-word timestamps inside a phrase are estimates,
// never measurements. Returns nil when the phrase has no tokens.
func SynthesizeWords(phrase string, start, duration float64) []Word {
	tokens := strings.Fields(phrase)
	if len(tokens) == 0 {
		return nil
	}

	perToken := duration / float64(len(tokens))
	words := make([]Word, 0, len(tokens))
	for i, tok := range tokens {
		ws := start + float64(i)*perToken
		words = append(words, Word{
			Text:       tok,
			Start:      round2(ws),
			End:        round2(ws + perToken),
			Confidence: 1.0,
			Estimated:  true,
		})
	}
	return words
}

// ManualWords assigns a placeholder timeline to user-pasted text, walking
// forward from zero at a fixed nominal rate. The timestamps carry no real
// timing information.
func ManualWords(text string) []Word {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil
	}

	words := make([]Word, 0, len(tokens))
	current := 0.0
	for _, tok := range tokens {
		words = append(words, Word{
			Text:       tok,
			Start:      round2(current),
			End:        round2(current + manualSecondsPerWord),
			Confidence: 1.0,
			Estimated:  true,
		})
		current += manualSecondsPerWord
	}
	return words
}

// round2 rounds to 2 decimal places for presentation stability.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
