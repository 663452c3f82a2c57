package entities

// TimedToken is one transcribed unit of speech with start/end time in
// seconds. Tokens are produced once per audio file, ordered by start time,
// non-overlapping and collectively spanning the audio.
type TimedToken struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// TokensDuration returns the end time of the last token, or 0 for an
// empty transcript
func TokensDuration(tokens []TimedToken) float64 {
	if len(tokens) == 0 {
		return 0
	}
	return tokens[len(tokens)-1].End
}

// MinTokenDuration returns the shortest token duration, used as the
// epsilon for boundary tie-breaks. Falls back to 0.01s for degenerate
// zero-length tokens.
func MinTokenDuration(tokens []TimedToken) float64 {
	min := 0.0
	for _, t := range tokens {
		d := t.End - t.Start
		if d > 0 && (min == 0 || d < min) {
			min = d
		}
	}
	if min == 0 {
		min = 0.01
	}
	return min
}
