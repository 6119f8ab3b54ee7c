package transcript

import "strings"

// Word is a single timestamped token of a transcript. Start and End are
// seconds from the beginning of the media. Confidence is a probability in
// [0,1]; sources that only carry phrase-level timing report 1.0 with
// Estimated set, while speech-to-text providers report their own value with
// Estimated false. The distinction matters: an estimated 1.0 is a placeholder,
// not a measurement.
type Word struct {
	Text       string  `json:"text"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
	Estimated  bool    `json:"estimated,omitempty"`
}

// Transcript is the normalized result of any acquisition method. FullText is
// derivable from Words but carried explicitly because some sources (manual
// input, phrase-level caption feeds) originate text first.
type Transcript struct {
	FullText string `json:"transcript"`
	Words    []Word `json:"words"`
	Method   string `json:"method"`
}

// JoinWords rebuilds the full text from a word list.
func JoinWords(words []Word) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}

// CaptionTrack is an intermediate entry produced while listing or scraping
// caption tracks. It is discarded once the preferred track is resolved.
type CaptionTrack struct {
	LanguageCode string
	Label        string
	URL          string
}

// PickTrack returns the English track if one exists, otherwise the first
// available track. The second return is false when tracks is empty.
func PickTrack(tracks []CaptionTrack) (CaptionTrack, bool) {
	if len(tracks) == 0 {
		return CaptionTrack{}, false
	}
	for _, t := range tracks {
		if t.LanguageCode == "en" || strings.Contains(strings.ToLower(t.Label), "english") {
			return t, true
		}
	}
	return tracks[0], true
}
