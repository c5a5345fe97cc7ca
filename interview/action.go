package interview

import "time"

// ActionKind discriminates the engine's per-turn output.
type ActionKind byte

const (
	ActionQuestion      ActionKind = 0
	ActionFollowUp      ActionKind = 1
	ActionInterruption  ActionKind = 2
	ActionContradiction ActionKind = 3
	ActionConclusion    ActionKind = 4
)

var ActionKindDictionary = map[ActionKind]string{
	ActionQuestion:      "question",
	ActionFollowUp:      "follow-up",
	ActionInterruption:  "interruption",
	ActionContradiction: "contradiction-challenge",
	ActionConclusion:    "conclusion",
}

// QuestionMeta accompanies ActionQuestion.
type QuestionMeta struct {
	QuestionID string
	Topic      string

	// Rapid-fire fields; zero values for scripted questions.
	RapidFire  bool
	Trigger    string
	Escalation int
	Remaining  int
	Expected   string
	TimeLimit  time.Duration
}

// FollowUpMeta accompanies ActionFollowUp.
type FollowUpMeta struct {
	Trigger    string
	QuestionID string // question the player was answering

	// Gotcha fields; set when the follow-up is a confrontation.
	GotchaID     string
	GotchaType   GotchaType
	Severity     Severity
	Level        ConfrontationLevel
	VisualEffect string
	Evidence     []Evidence
}

// InterruptionMeta accompanies ActionInterruption.
type InterruptionMeta struct {
	Trigger  string
	Severity string
	Mood     Mood
}

// ContradictionMeta accompanies ActionContradiction.
type ContradictionMeta struct {
	Topic          string
	PriorStatement string
	Generic        bool // true when no memory reference was available
}

// ConclusionMeta accompanies ActionConclusion.
type ConclusionMeta struct {
	Reason string // "completed" / "walkout" / "early-excellence"
	Mood   Mood
}

// Action is the engine's single per-turn output: a tagged variant whose
// kind-specific metadata pointer matches Kind. Produced, never mutated.
type Action struct {
	Kind    ActionKind
	Content string

	Question      *QuestionMeta
	FollowUp      *FollowUpMeta
	Interruption  *InterruptionMeta
	Contradiction *ContradictionMeta
	Conclusion    *ConclusionMeta
}
