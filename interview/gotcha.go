package interview

import (
	"fmt"
	"math/rand"
	"time"

	"spinroom/arc"
)

// Evidence supports a gotcha moment on air.
type Evidence struct {
	Statement  string
	Source     string
	Confidence float64
}

// GotchaMoment is a detected high-impact inconsistency. Created once,
// appended to history, never mutated.
type GotchaMoment struct {
	ID             string
	Type           GotchaType
	Severity       Severity
	Evidence       []Evidence
	DramaticImpact int
	At             time.Time
}

// Confrontation is the on-air callout assembled for a gotcha moment.
type Confrontation struct {
	Line         string
	FollowUp     string
	Level        ConfrontationLevel
	VisualEffect string
}

// GotchaDetector runs the independent pattern detectors in fixed order and
// scores the resulting confrontation. Owned by the orchestrator.
type GotchaDetector struct {
	history       []GotchaMoment
	cooldown      time.Duration
	cooldownUntil time.Time
	seq           int

	// suppressEvasion skips the evasion-pattern detector for one turn,
	// right after an evasion-driven interruption: the interviewer escalates
	// to rapid-fire instead of re-confronting the same behavior.
	suppressEvasion bool

	rng *rand.Rand
	now func() time.Time
}

func newGotchaDetector(cooldown time.Duration, rng *rand.Rand, now func() time.Time) *GotchaDetector {
	return &GotchaDetector{
		cooldown: cooldown,
		rng:      rng,
		now:      now,
	}
}

const moralWindow = 5 * time.Minute

var moralTopics = map[string]bool{
	"ethics":     true,
	"integrity":  true,
	"values":     true,
	"principles": true,
}

// Detect runs the detectors in fixed order; first hit wins. Returns nil
// while in cooldown or when nothing matches.
func (gd *GotchaDetector) Detect(r PlayerResponse, state *ConversationState, ps *PersonalityState, q *arc.Question) *GotchaMoment {
	if gd.now().Before(gd.cooldownUntil) {
		return nil
	}

	if m := gd.detectDirectContradiction(r, state); m != nil {
		return gd.commit(m)
	}
	if m := gd.detectExpertiseFail(r, ps, q); m != nil {
		return gd.commit(m)
	}
	if m := gd.detectMoralInconsistency(r, state); m != nil {
		return gd.commit(m)
	}
	if !gd.suppressEvasion {
		if m := gd.detectEvasionPattern(r, ps); m != nil {
			return gd.commit(m)
		}
	}
	return nil
}

func (gd *GotchaDetector) commit(m *GotchaMoment) *GotchaMoment {
	gd.seq++
	m.ID = fmt.Sprintf("gotcha_%d", gd.seq)
	m.At = gd.now()
	gd.history = append(gd.history, *m)
	gd.cooldownUntil = gd.now().Add(gd.cooldown)
	return m
}

func (gd *GotchaDetector) detectDirectContradiction(r PlayerResponse, state *ConversationState) *GotchaMoment {
	if !r.ContradictsPrevious {
		return nil
	}
	prior, ok := state.priorOnTopic(r.Topic)
	if !ok {
		return nil
	}
	return &GotchaMoment{
		Type:           GotchaDirectContradiction,
		Severity:       SeverityMajor,
		DramaticImpact: 85,
		Evidence: []Evidence{
			{Statement: prior.Text, Source: "earlier in this interview", Confidence: 0.95},
			{Statement: r.Text, Source: "just now", Confidence: 1.0},
		},
	}
}

// detectExpertiseFail flags a thin answer to a question that tests subject
// depth. Low frustration stands in for "still early, no excuse yet".
func (gd *GotchaDetector) detectExpertiseFail(r PlayerResponse, ps *PersonalityState, q *arc.Question) *GotchaMoment {
	if q == nil {
		return nil
	}
	if !q.Expertise && q.Type != arc.QuestionChallenge {
		return nil
	}
	if ps.Frustration() >= 40 {
		return nil
	}
	if r.WordCount >= shortResponseWords && r.Tone != ToneEvasive {
		return nil
	}
	return &GotchaMoment{
		Type:           GotchaExpertiseFail,
		Severity:       SeverityMajor,
		DramaticImpact: 80,
		Evidence: []Evidence{
			{Statement: r.Text, Source: "response to " + q.ID, Confidence: 0.85},
		},
	}
}

func (gd *GotchaDetector) detectMoralInconsistency(r PlayerResponse, state *ConversationState) *GotchaMoment {
	if !moralTopics[r.Topic] {
		return nil
	}
	cutoff := r.Timestamp.Add(-moralWindow)
	var evidence []Evidence
	for i := 0; i < len(state.Responses)-1; i++ {
		prior := state.Responses[i]
		if !moralTopics[prior.Topic] {
			continue
		}
		if prior.Tone == r.Tone {
			continue
		}
		if prior.Timestamp.Before(cutoff) {
			continue
		}
		evidence = append(evidence, Evidence{
			Statement:  prior.Text,
			Source:     "earlier answer on " + prior.Topic,
			Confidence: 0.8,
		})
	}
	if len(evidence) < 2 {
		return nil
	}
	return &GotchaMoment{
		Type:           GotchaMoralInconsistency,
		Severity:       SeverityCritical,
		DramaticImpact: 90,
		Evidence:       evidence,
	}
}

func (gd *GotchaDetector) detectEvasionPattern(r PlayerResponse, ps *PersonalityState) *GotchaMoment {
	if r.Tone != ToneEvasive || r.Topic == "" {
		return nil
	}
	if ps.Memory().EvasionCountFor(r.Topic) < 3 {
		return nil
	}
	return &GotchaMoment{
		Type:           GotchaEvasionPattern,
		Severity:       SeverityMajor,
		DramaticImpact: 75,
		Evidence: []Evidence{
			{Statement: r.Text, Source: "repeated evasions on " + r.Topic, Confidence: 0.9},
		},
	}
}

var severityBase = map[Severity]int{
	SeverityMinor:    20,
	SeverityMajor:    50,
	SeverityCritical: 80,
}

// ConfrontationScore weighs severity, built-up frustration, prior gotchas
// and dramatic impact into a 0-100 harshness score.
func (gd *GotchaDetector) ConfrontationScore(m *GotchaMoment, frustration int) int {
	priorCount := len(gd.history) - 1 // the moment itself is already committed
	if priorCount < 0 {
		priorCount = 0
	}
	score := float64(severityBase[m.Severity]) +
		float64(frustration)*0.8 +
		float64(priorCount)*15 +
		float64(m.DramaticImpact)*0.3
	return clampScore(int(score))
}

func confrontationLevel(score int) ConfrontationLevel {
	switch {
	case score < 40:
		return ConfrontGentle
	case score < 70:
		return ConfrontFirm
	case score < 90:
		return ConfrontAggressive
	default:
		return ConfrontDevastating
	}
}

// Confront selects the themed callout line and follow-up for a moment.
func (gd *GotchaDetector) Confront(m *GotchaMoment, frustration int, lines *LinePack) Confrontation {
	level := confrontationLevel(gd.ConfrontationScore(m, frustration))
	return Confrontation{
		Line:         lines.confrontation(gd.rng, m.Type, level),
		FollowUp:     lines.gotchaFollowUp(gd.rng, m.Type),
		Level:        level,
		VisualEffect: lines.VisualEffects[ConfrontationLevelDictionary[level]],
	}
}

// History returns a defensive copy of detected moments.
func (gd *GotchaDetector) History() []GotchaMoment {
	out := make([]GotchaMoment, len(gd.history))
	copy(out, gd.history)
	return out
}

func (gd *GotchaDetector) InCooldown() bool {
	return gd.now().Before(gd.cooldownUntil)
}
