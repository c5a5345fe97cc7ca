package interview

import (
	"fmt"
	"math/rand"
	"time"
)

// PersonalityState wraps the mood machine and memory store behind the
// interviewer's background profile. It is the only writer of both.
type PersonalityState struct {
	profile ApproachProfile
	mood    *MoodMachine
	memory  *MemoryStore

	frustration int // 0-100
	approval    int // 0-100
	turn        int

	// Statement held on the current turn's topic before this turn's response
	// was recorded; Record overwrites the store with the new answer.
	priorTopic     string
	priorStatement string

	rng *rand.Rand
	now func() time.Time
}

func newPersonalityState(profile ApproachProfile, rng *rand.Rand, now func() time.Time) *PersonalityState {
	return &PersonalityState{
		profile:     profile,
		mood:        newMoodMachine(profile, rng, now),
		memory:      NewMemoryStore(),
		frustration: 10,
		approval:    50,
		rng:         rng,
		now:         now,
	}
}

// ProcessResponse folds one response into memory, adjusts frustration and
// approval, then runs the mood machine. Called exactly once per turn, before
// any decision stage reads personality state.
func (ps *PersonalityState) ProcessResponse(r PlayerResponse) {
	ps.turn++
	ps.priorTopic = r.Topic
	ps.priorStatement, _ = ps.memory.Statement(r.Topic)
	ps.memory.Record(r, ps.turn)

	skepticBoost := int(ps.profile.Skepticism * 4)
	switch r.Tone {
	case ToneEvasive:
		ps.frustration = clampScore(ps.frustration + 8 + skepticBoost)
		ps.approval = clampScore(ps.approval - 4)
	case ToneConfrontational, ToneAggressive:
		ps.frustration = clampScore(ps.frustration + 6)
		ps.approval = clampScore(ps.approval - 2)
	case ToneDefensive:
		ps.frustration = clampScore(ps.frustration + 3)
	case ToneConfident:
		ps.frustration = clampScore(ps.frustration - 2)
		ps.approval = clampScore(ps.approval + 4)
	case ToneDiplomatic:
		ps.frustration = clampScore(ps.frustration - 1)
		ps.approval = clampScore(ps.approval + 3)
	}

	if r.ContradictsPrevious {
		ps.frustration = clampScore(ps.frustration + 10)
		ps.approval = clampScore(ps.approval - 6)
	}

	if containsAnyFold(r.Text, admissionKeywords) {
		warmth := int(ps.profile.Empathy * 8)
		ps.approval = clampScore(ps.approval + 2 + warmth)
		ps.frustration = clampScore(ps.frustration - 3 - warmth/2)
	}

	ps.mood.ProcessTurn(r, ps.memory, ps.frustration)
}

// ShouldInterrupt is the profile-driven interruption decision: the last
// resort after pattern detectors and declared triggers have passed.
func (ps *PersonalityState) ShouldInterrupt(r PlayerResponse) (string, bool) {
	if !r.IsEvasion() && r.WordCount <= 60 {
		return "", false
	}
	chance := ps.profile.Aggressiveness * 0.25
	chance += float64(ps.frustration) / 100 * 0.25
	if ps.rng.Float64() >= chance {
		return "", false
	}

	msg := "Let me stop you there."
	if r.WordCount > 60 {
		msg = "Let me stop you there, we're short on time."
	}
	return ps.intensifyByMood(msg), true
}

// intensifyByMood sharpens a message to match the current mood.
func (ps *PersonalityState) intensifyByMood(msg string) string {
	switch ps.mood.Mood() {
	case MoodFrustrated:
		return msg + " A straight answer, please."
	case MoodHostile:
		return msg + " You are not answering the question and everyone watching knows it."
	case MoodSkeptical:
		return msg + " That isn't what I asked."
	case MoodExcited:
		return msg + " Because this is exactly the point."
	default:
		return msg
	}
}

// ContextualFollowUp asks memory for a grounded follow-up. Contradictions
// are left to the challenge stage; the persistence slider gates how often
// the interviewer digs in.
func (ps *PersonalityState) ContextualFollowUp(r PlayerResponse) string {
	if r.ContradictsPrevious {
		return ""
	}
	if ps.rng.Float64() >= 0.35+ps.profile.Persistence*0.35 {
		return ""
	}
	return ps.memory.GenerateReference(r, ps.rng)
}

const (
	accountabilityChance  = 0.70
	accountabilityMinimum = 3
	topicReferenceChance  = 0.60
)

// AccountabilityChallenge fires stochastically once the player has piled up
// enough problems (contradictions + evasions + weak moments).
func (ps *PersonalityState) AccountabilityChallenge(lines *LinePack) string {
	if ps.memory.problemCount() < accountabilityMinimum {
		return ""
	}
	if ps.rng.Float64() >= accountabilityChance {
		return ""
	}
	return lines.pick(ps.rng, lines.Accountability)
}

// TopicMemoryReference replays the statement the player made on this topic
// on an earlier turn, never the answer just given.
func (ps *PersonalityState) TopicMemoryReference(topic string) string {
	if topic == "" || topic != ps.priorTopic || ps.priorStatement == "" {
		return ""
	}
	if ps.rng.Float64() >= topicReferenceChance {
		return ""
	}
	return fmt.Sprintf("On %s, you told me %q. Do you stand by that tonight?",
		topic, truncateQuote(ps.priorStatement, quoteDisplayChars))
}

func (ps *PersonalityState) Frustration() int { return ps.frustration }
func (ps *PersonalityState) Approval() int    { return ps.approval }
func (ps *PersonalityState) Turn() int        { return ps.turn }

func (ps *PersonalityState) MoodState() MoodState      { return ps.mood.State() }
func (ps *PersonalityState) MoodHistory() []MoodChange { return ps.mood.History() }
func (ps *PersonalityState) Memory() *MemoryStore      { return ps.memory }
func (ps *PersonalityState) Profile() ApproachProfile  { return ps.profile }
