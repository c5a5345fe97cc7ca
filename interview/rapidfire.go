package interview

import (
	"math"
	"math/rand"
	"strings"
	"time"
)

// rapidFireTrigger maps one escalation condition to a session shape.
type rapidFireTrigger struct {
	ID             string
	Tier           RapidFireTier
	QuestionCount  int
	TimeLimit      time.Duration // per question
	EscalationRate float64
	// Holds reports whether the trigger condition is met this turn.
	Holds func(r PlayerResponse, ps *PersonalityState, ev evasionStats) bool
}

// evasionStats is the orchestrator's per-turn evasion bookkeeping handed to
// the rapid-fire trigger checks.
type evasionStats struct {
	Counter     int            // decaying counter (floor 0)
	Streak      int            // consecutive evasions
	TopicCounts map[string]int // evasions per topic
}

func rapidFireTriggers() []rapidFireTrigger {
	return []rapidFireTrigger{
		{
			ID: "evasion-pressure", Tier: TierHigh, QuestionCount: 4,
			TimeLimit: 10 * time.Second, EscalationRate: 1.4,
			Holds: func(r PlayerResponse, ps *PersonalityState, ev evasionStats) bool {
				return r.Topic != "" && ev.Counter >= 3
			},
		},
		{
			ID: "topic-avoidance", Tier: TierMedium, QuestionCount: 3,
			TimeLimit: 15 * time.Second, EscalationRate: 1.3,
			Holds: func(r PlayerResponse, ps *PersonalityState, ev evasionStats) bool {
				return r.Topic != "" && ev.TopicCounts[r.Topic] >= 3
			},
		},
		{
			ID: "contradiction-pounce", Tier: TierExtreme, QuestionCount: 5,
			TimeLimit: 8 * time.Second, EscalationRate: 1.5,
			Holds: func(r PlayerResponse, ps *PersonalityState, ev evasionStats) bool {
				return r.ContradictsPrevious
			},
		},
		{
			ID: "frustration-burst", Tier: TierLow, QuestionCount: 3,
			TimeLimit: 20 * time.Second, EscalationRate: 1.2,
			Holds: func(r PlayerResponse, ps *PersonalityState, ev evasionStats) bool {
				return ps.Frustration() >= 70
			},
		},
	}
}

// RapidFireQuestion is one generated question within a session.
type RapidFireQuestion struct {
	Text         string
	Escalation   int
	FollowUpType string // clarification / challenge / contradiction / pressure
	Expected     string // yes-no / direct / specific-fact / detailed
	TimeLimit    time.Duration
}

// RapidFireSession is the nested session state. At most one is active
// system-wide; a new trigger cannot fire while one is active or during the
// cooldown window.
type RapidFireSession struct {
	Trigger   string
	Topic     string
	Tier      RapidFireTier
	Questions []RapidFireQuestion
	Next      int
	Remaining int
	MaxTurns  int
	Turns     int
	StartedAt time.Time
}

// RapidFire owns session lifecycle, trigger evaluation and cooldown.
type RapidFire struct {
	session       *RapidFireSession
	cooldown      time.Duration
	cooldownUntil time.Time
	triggers      []rapidFireTrigger
	lines         *LinePack

	rng *rand.Rand
	now func() time.Time
}

func newRapidFire(cooldown time.Duration, lines *LinePack, rng *rand.Rand, now func() time.Time) *RapidFire {
	return &RapidFire{
		cooldown: cooldown,
		triggers: rapidFireTriggers(),
		lines:    lines,
		rng:      rng,
		now:      now,
	}
}

func (rf *RapidFire) Active() bool { return rf.session != nil }

func (rf *RapidFire) InCooldown() bool {
	return rf.now().Before(rf.cooldownUntil)
}

// TryStart evaluates triggers in order and builds a session for the first
// that holds. Returns the opening question, or nil when nothing fires.
func (rf *RapidFire) TryStart(r PlayerResponse, ps *PersonalityState, ev evasionStats) *RapidFireQuestion {
	if rf.session != nil || rf.InCooldown() {
		return nil
	}
	for _, trig := range rf.triggers {
		if !trig.Holds(r, ps, ev) {
			continue
		}
		rf.session = rf.buildSession(trig, r.Topic)
		return rf.advance()
	}
	return nil
}

// buildSession generates exactly QuestionCount questions from the trigger's
// template list, reusing the last template when the list runs short.
func (rf *RapidFire) buildSession(trig rapidFireTrigger, topic string) *RapidFireSession {
	if topic == "" {
		topic = "this"
	}
	templates := rf.lines.RapidFire[trig.ID]
	if len(templates) == 0 {
		templates = []string{"Answer the question about {topic}."}
	}

	s := &RapidFireSession{
		Trigger:   trig.ID,
		Topic:     topic,
		Tier:      trig.Tier,
		Remaining: trig.QuestionCount,
		MaxTurns:  trig.QuestionCount + 2, // safety valve
		StartedAt: rf.now(),
	}

	for i := 0; i < trig.QuestionCount; i++ {
		tmpl := templates[len(templates)-1]
		if i < len(templates) {
			tmpl = templates[i]
		}
		text := strings.ReplaceAll(tmpl, "{topic}", topic)
		if i >= 2 {
			text = rf.lines.pick(rf.rng, rf.lines.Urgency) + " " + text
		}
		s.Questions = append(s.Questions, RapidFireQuestion{
			Text:         text,
			Escalation:   int(math.Round(math.Pow(trig.EscalationRate, float64(i)))),
			FollowUpType: followUpTypeFor(i, trig.QuestionCount),
			Expected:     expectedResponseFor(i, trig.Tier),
			TimeLimit:    trig.TimeLimit,
		})
	}
	return s
}

func followUpTypeFor(index, count int) string {
	switch {
	case index == 0:
		return "clarification"
	case index == count-1:
		return "contradiction"
	case index < count/2:
		return "challenge"
	default:
		return "pressure"
	}
}

func expectedResponseFor(index int, tier RapidFireTier) string {
	switch {
	case tier == TierExtreme || index == 0:
		return "yes-no"
	case tier == TierHigh && index < 2:
		return "direct"
	case index == 1:
		return "specific-fact"
	default:
		return "detailed"
	}
}

func (rf *RapidFire) advance() *RapidFireQuestion {
	q := &rf.session.Questions[rf.session.Next]
	rf.session.Next++
	return q
}

// HandleTurn consumes one response while a session is active. It returns
// the next question, or ended=true when the session terminates (naturally
// or by early exit). Calling it with no active session is a caller bug.
func (rf *RapidFire) HandleTurn(r PlayerResponse, mood Mood) (q *RapidFireQuestion, ended bool, err error) {
	if rf.session == nil {
		return nil, false, ErrNoActiveSession
	}
	s := rf.session
	s.Turns++
	s.Remaining--

	switch {
	case r.Tone == ToneConfident && r.WordCount >= 15 && r.WordCount <= 40:
		// Composed under fire: the burst stops working.
		rf.end()
		return nil, true, nil
	case mood == MoodSympathetic || mood == MoodExcited:
		rf.end()
		return nil, true, nil
	case s.Turns > s.MaxTurns:
		rf.end()
		return nil, true, nil
	case s.Remaining <= 0 || s.Next >= len(s.Questions):
		rf.end()
		return nil, true, nil
	}

	return rf.advance(), false, nil
}

func (rf *RapidFire) end() {
	rf.session = nil
	rf.cooldownUntil = rf.now().Add(rf.cooldown)
}

// RapidFireStatus is the read-only session snapshot.
type RapidFireStatus struct {
	Active        bool
	Trigger       string
	Topic         string
	Tier          RapidFireTier
	Remaining     int
	CooldownUntil time.Time
}

func (rf *RapidFire) Status() RapidFireStatus {
	st := RapidFireStatus{CooldownUntil: rf.cooldownUntil}
	if rf.session != nil {
		st.Active = true
		st.Trigger = rf.session.Trigger
		st.Topic = rf.session.Topic
		st.Tier = rf.session.Tier
		st.Remaining = rf.session.Remaining
	}
	return st
}
