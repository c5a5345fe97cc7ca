// Package score derives the player's performance metrics from the turn
// stream. It is a pure observer: the engine reads the metrics through
// ConversationState but never writes them.
package score

import (
	"spinroom/interview"
)

// Weights for the overall blend.
const (
	confidenceWeight   = 0.25
	consistencyWeight  = 0.30
	authenticityWeight = 0.20
	engagementWeight   = 0.25
)

// Tracker accumulates running averages per dimension, one sample per turn.
type Tracker struct {
	turns int

	confidence   float64
	consistency  float64
	authenticity float64
	engagement   float64
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Observe folds one turn into the metrics and returns the updated set.
// Callers store the result in ConversationState.Metrics before the next
// Decide call.
func (t *Tracker) Observe(r interview.PlayerResponse, snap interview.Snapshot) interview.Metrics {
	t.turns++
	n := float64(t.turns)

	t.confidence += (confidenceSample(r) - t.confidence) / n
	t.consistency += (consistencySample(r, snap) - t.consistency) / n
	t.authenticity += (authenticitySample(r) - t.authenticity) / n
	t.engagement += (engagementSample(r) - t.engagement) / n

	return t.Metrics()
}

// Metrics returns the current clamped metric set.
func (t *Tracker) Metrics() interview.Metrics {
	overall := t.confidence*confidenceWeight +
		t.consistency*consistencyWeight +
		t.authenticity*authenticityWeight +
		t.engagement*engagementWeight
	return interview.Metrics{
		Confidence:   clamp(t.confidence),
		Consistency:  clamp(t.consistency),
		Authenticity: clamp(t.authenticity),
		Engagement:   clamp(t.engagement),
		Overall:      clamp(overall),
	}
}

func (t *Tracker) Turns() int { return t.turns }

var toneConfidence = map[interview.Tone]float64{
	interview.ToneConfident:       80,
	interview.ToneDiplomatic:      65,
	interview.ToneAggressive:      55,
	interview.ToneConfrontational: 50,
	interview.ToneDefensive:       35,
	interview.ToneEvasive:         20,
}

func confidenceSample(r interview.PlayerResponse) float64 {
	s := toneConfidence[r.Tone]
	switch {
	case r.WordCount >= 15 && r.WordCount <= 45:
		s += 10
	case r.WordCount < 8:
		s -= 10
	}
	return s
}

func consistencySample(r interview.PlayerResponse, snap interview.Snapshot) float64 {
	if r.ContradictsPrevious {
		return 15
	}
	s := 85.0
	s -= float64(snap.Memory.Contradictions) * 10
	s -= float64(snap.EvasionStreak) * 5
	if s < 0 {
		s = 0
	}
	return s
}

func authenticitySample(r interview.PlayerResponse) float64 {
	var s float64
	switch r.Tone {
	case interview.ToneConfident, interview.ToneDiplomatic:
		s = 70
	case interview.ToneAggressive, interview.ToneConfrontational:
		s = 55
	case interview.ToneDefensive:
		s = 40
	case interview.ToneEvasive:
		s = 25
	}
	if r.ContradictsPrevious {
		s -= 20
	}
	if s < 0 {
		s = 0
	}
	return s
}

func engagementSample(r interview.PlayerResponse) float64 {
	wc := r.WordCount
	switch {
	case wc < 8:
		return 25
	case wc > 80:
		// Filibuster territory.
		return 40
	default:
		s := 50 + float64(wc)/2
		if s > 85 {
			s = 85
		}
		return s
	}
}

func clamp(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}

// Grade maps the overall score onto the on-screen performance card.
func Grade(overall int) string {
	switch {
	case overall >= 85:
		return "commanding"
	case overall >= 70:
		return "solid"
	case overall >= 50:
		return "shaky"
	case overall >= 30:
		return "damaging"
	default:
		return "career-ending"
	}
}
