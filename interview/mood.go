package interview

import (
	"math/rand"
	"time"
)

// moodEdge is one legal transition. A trigger can only move the mood along
// an edge whose minIntensity is met by the post-trigger intensity.
type moodEdge struct {
	from, to     Mood
	minIntensity int
	speed        string // "instant" / "fast" / "gradual"
	cue          string // on-air tell for the presentation layer
}

var moodEdges = []moodEdge{
	{MoodNeutral, MoodProfessional, 20, "gradual", "straightens notes"},
	{MoodNeutral, MoodSkeptical, 35, "fast", "raised eyebrow"},
	{MoodNeutral, MoodSympathetic, 30, "gradual", "softened voice"},
	{MoodNeutral, MoodExcited, 45, "fast", "leans forward"},

	{MoodProfessional, MoodSkeptical, 35, "fast", "slow nod, narrowed eyes"},
	{MoodProfessional, MoodExcited, 50, "instant", "sits up sharply"},
	{MoodProfessional, MoodSympathetic, 30, "gradual", "lowers pen"},
	{MoodProfessional, MoodFrustrated, 55, "fast", "taps pen"},
	{MoodProfessional, MoodNeutral, 0, "gradual", "settles back"},

	{MoodSkeptical, MoodFrustrated, 50, "fast", "exhales audibly"},
	{MoodSkeptical, MoodExcited, 55, "instant", "eyes widen"},
	{MoodSkeptical, MoodProfessional, 25, "gradual", "unfolds arms"},
	{MoodSkeptical, MoodHostile, 75, "fast", "cold stare"},

	{MoodFrustrated, MoodHostile, 65, "fast", "voice rises"},
	{MoodFrustrated, MoodSkeptical, 40, "gradual", "shakes head"},
	{MoodFrustrated, MoodProfessional, 25, "gradual", "composes himself"},
	{MoodFrustrated, MoodExcited, 60, "instant", "pounces on the slip"},

	{MoodHostile, MoodFrustrated, 40, "gradual", "jaw unclenches slightly"},
	{MoodHostile, MoodProfessional, 20, "gradual", "takes a breath"},

	{MoodExcited, MoodProfessional, 25, "gradual", "recovers composure"},
	{MoodExcited, MoodSkeptical, 40, "fast", "smile fades"},
	{MoodExcited, MoodHostile, 80, "instant", "goes in for the kill"},

	{MoodSympathetic, MoodProfessional, 25, "gradual", "back to business"},
	{MoodSympathetic, MoodNeutral, 0, "gradual", "neutral reset"},
	{MoodSympathetic, MoodSkeptical, 45, "fast", "sympathy curdles"},
}

func findEdge(from, to Mood) (moodEdge, bool) {
	for _, e := range moodEdges {
		if e.from == from && e.to == to {
			return e, true
		}
	}
	return moodEdge{}, false
}

// triggerContext is what a trigger predicate may inspect: the current turn
// only, plus whatever the memory store retains.
type triggerContext struct {
	Response    PlayerResponse
	Memory      *MemoryStore
	Frustration int
	Consecutive map[Tone]int
	Evasions    int // consecutive evasion count (tracked specially)
}

// MoodTrigger is a candidate mood change evaluated each turn.
type MoodTrigger struct {
	ID          string
	Target      Mood
	Delta       int
	Probability float64
	When        func(tc triggerContext) bool
}

var admissionKeywords = []string{"mistake", "sorry", "i was wrong", "regret", "apologize"}

func baseMoodTriggers() []MoodTrigger {
	return []MoodTrigger{
		{
			ID: "contradiction-caught", Target: MoodExcited, Delta: 25, Probability: 0.85,
			When: func(tc triggerContext) bool { return tc.Response.ContradictsPrevious },
		},
		{
			ID: "authentic-admission", Target: MoodSympathetic, Delta: 15, Probability: 0.75,
			When: func(tc triggerContext) bool {
				return containsAnyFold(tc.Response.Text, admissionKeywords)
			},
		},
		{
			ID: "sustained-evasion", Target: MoodFrustrated, Delta: 20, Probability: 0.9,
			When: func(tc triggerContext) bool { return tc.Evasions >= 3 },
		},
		{
			ID: "repeated-evasion", Target: MoodSkeptical, Delta: 15, Probability: 0.8,
			When: func(tc triggerContext) bool { return tc.Evasions == 2 },
		},
		{
			ID: "open-hostility", Target: MoodHostile, Delta: 20, Probability: 0.7,
			When: func(tc triggerContext) bool {
				return tc.Consecutive[ToneAggressive]+tc.Consecutive[ToneConfrontational] >= 2
			},
		},
		{
			ID: "boiling-point", Target: MoodHostile, Delta: 15, Probability: 0.6,
			When: func(tc triggerContext) bool { return tc.Frustration >= 85 },
		},
		{
			ID: "steady-performance", Target: MoodProfessional, Delta: 10, Probability: 0.6,
			When: func(tc triggerContext) bool { return tc.Consecutive[ToneConfident] >= 3 },
		},
	}
}

// MoodChange is one entry in the mood history log.
type MoodChange struct {
	From      Mood
	To        Mood
	Trigger   string
	Intensity int
	At        time.Time
}

// MoodState is the mood machine's externally visible state.
type MoodState struct {
	Mood      Mood
	Intensity int
	Stability int
	Duration  int // turns in the current mood
}

// MoodMachine owns the interviewer's emotional trajectory: current mood,
// intensity, stability, and the per-tone consecutive-event counters the
// trigger predicates read.
type MoodMachine struct {
	mood        Mood
	intensity   int
	stability   int
	turnsInMood int

	consecutive map[Tone]int
	evasions    int

	highIntensityTurns int

	triggers []MoodTrigger
	history  []MoodChange

	rng *rand.Rand
	now func() time.Time
}

func newMoodMachine(profile ApproachProfile, rng *rand.Rand, now func() time.Time) *MoodMachine {
	triggers := baseMoodTriggers()
	triggers = append(triggers, profile.moodTriggers()...)
	return &MoodMachine{
		mood:        MoodNeutral,
		intensity:   25,
		stability:   50,
		consecutive: make(map[Tone]int),
		triggers:    triggers,
		rng:         rng,
		now:         now,
	}
}

// ProcessTurn evaluates triggers against one response and either applies the
// first legal firing transition or lets the mood decay naturally.
func (mm *MoodMachine) ProcessTurn(r PlayerResponse, mem *MemoryStore, frustration int) {
	// Consecutive-event counters: reset everything but the current tone.
	for tone := range mm.consecutive {
		if tone != r.Tone {
			mm.consecutive[tone] = 0
		}
	}
	mm.consecutive[r.Tone]++

	// Evasion counter is tracked specially: any evasion counts, not just
	// evasive tone.
	if r.IsEvasion() {
		mm.evasions++
	} else {
		mm.evasions = 0
	}

	tc := triggerContext{
		Response:    r,
		Memory:      mem,
		Frustration: frustration,
		Consecutive: mm.consecutive,
		Evasions:    mm.evasions,
	}

	for _, trig := range mm.triggers {
		if mm.rng.Float64() >= trig.Probability {
			continue
		}
		if trig.When != nil && !trig.When(tc) {
			continue
		}
		if mm.apply(trig) {
			return
		}
		// Illegal transition: trigger void this turn, keep scanning.
	}

	mm.decay()
}

// apply performs the transition if a legal edge exists; reports success.
func (mm *MoodMachine) apply(trig MoodTrigger) bool {
	edge, ok := findEdge(mm.mood, trig.Target)
	if !ok {
		return false
	}
	newIntensity := clampScore(mm.intensity + trig.Delta)
	if newIntensity < edge.minIntensity {
		return false
	}

	jump := trig.Delta
	if jump < 0 {
		jump = -jump
	}
	if jump > 40 {
		mm.stability -= 10
	} else {
		mm.stability += 5
	}
	if mm.stability < 20 {
		mm.stability = 20
	}
	if mm.stability > 80 {
		mm.stability = 80
	}

	mm.history = append(mm.history, MoodChange{
		From:      mm.mood,
		To:        trig.Target,
		Trigger:   trig.ID,
		Intensity: newIntensity,
		At:        mm.now(),
	})
	mm.mood = trig.Target
	mm.intensity = newIntensity
	mm.turnsInMood = 0
	mm.highIntensityTurns = 0
	return true
}

// decay cools the mood when no trigger fired this turn.
func (mm *MoodMachine) decay() {
	mm.turnsInMood++

	if mm.intensity > 70 {
		mm.highIntensityTurns++
		if mm.highIntensityTurns > 3 {
			mm.intensity = clampScore(mm.intensity - 5)
		}
	} else {
		mm.highIntensityTurns = 0
	}

	if (mm.mood == MoodHostile || mm.mood == MoodExcited) && mm.intensity < 40 {
		mm.history = append(mm.history, MoodChange{
			From:      mm.mood,
			To:        MoodProfessional,
			Trigger:   "natural-decay",
			Intensity: mm.intensity,
			At:        mm.now(),
		})
		mm.mood = MoodProfessional
		mm.turnsInMood = 0
	}
}

func (mm *MoodMachine) State() MoodState {
	return MoodState{
		Mood:      mm.mood,
		Intensity: mm.intensity,
		Stability: mm.stability,
		Duration:  mm.turnsInMood,
	}
}

func (mm *MoodMachine) Mood() Mood { return mm.mood }

func (mm *MoodMachine) EvasionStreak() int { return mm.evasions }

// History returns a defensive copy of the mood change log.
func (mm *MoodMachine) History() []MoodChange {
	out := make([]MoodChange, len(mm.history))
	copy(out, mm.history)
	return out
}
