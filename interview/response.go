package interview

import "time"

// PlayerResponse is one player answer. Immutable once created; the caller
// produces exactly one per turn.
type PlayerResponse struct {
	QuestionID string
	Text       string
	Tone       Tone
	WordCount  int
	Timestamp  time.Time

	// Optional fields supplied by the caller.
	Topic               string
	ContradictsPrevious bool
	Position            string
}

// NewResponse builds a response, deriving WordCount from the text.
func NewResponse(questionID, text string, tone Tone, at time.Time) PlayerResponse {
	return PlayerResponse{
		QuestionID: questionID,
		Text:       text,
		Tone:       tone,
		WordCount:  countWords(text),
		Timestamp:  at,
	}
}

const (
	shortResponseWords     = 8
	overlongDefensiveWords = 50
)

// IsEvasion reports whether the response reads as avoidance: evasive tone,
// very short, or defensive-and-overlong.
func (r PlayerResponse) IsEvasion() bool {
	if r.Tone == ToneEvasive {
		return true
	}
	if r.WordCount < shortResponseWords {
		return true
	}
	if r.Tone == ToneDefensive && r.WordCount > overlongDefensiveWords {
		return true
	}
	return false
}

func (r PlayerResponse) isSubstantial() bool {
	return r.WordCount >= 12
}
