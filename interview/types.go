package interview

// Tone is the caller-supplied classification of a player response.
// The engine never infers tone from text.
type Tone byte

const (
	ToneConfident       Tone = 0
	ToneDiplomatic      Tone = 1
	ToneAggressive      Tone = 2
	ToneConfrontational Tone = 3
	ToneDefensive       Tone = 4
	ToneEvasive         Tone = 5
)

var ToneDictionary = map[Tone]string{
	ToneConfident:       "confident",
	ToneDiplomatic:      "diplomatic",
	ToneAggressive:      "aggressive",
	ToneConfrontational: "confrontational",
	ToneDefensive:       "defensive",
	ToneEvasive:         "evasive",
}

// ParseTone maps a tone label back to its Tone value.
func ParseTone(s string) (Tone, bool) {
	for t, label := range ToneDictionary {
		if label == s {
			return t, true
		}
	}
	return ToneConfident, false
}

// Mood is the interviewer's current emotional state.
type Mood byte

const (
	MoodNeutral      Mood = 0
	MoodProfessional Mood = 1
	MoodSkeptical    Mood = 2
	MoodExcited      Mood = 3
	MoodFrustrated   Mood = 4
	MoodHostile      Mood = 5
	MoodSympathetic  Mood = 6
)

var MoodDictionary = map[Mood]string{
	MoodNeutral:      "neutral",
	MoodProfessional: "professional",
	MoodSkeptical:    "skeptical",
	MoodExcited:      "excited",
	MoodFrustrated:   "frustrated",
	MoodHostile:      "hostile",
	MoodSympathetic:  "sympathetic",
}

// GotchaType classifies a detected on-air inconsistency.
type GotchaType byte

const (
	GotchaDirectContradiction   GotchaType = 0
	GotchaExpertiseFail         GotchaType = 1
	GotchaPolicyFlip            GotchaType = 2
	GotchaMoralInconsistency    GotchaType = 3
	GotchaFactError             GotchaType = 4
	GotchaEvasionPattern        GotchaType = 5
	GotchaFalseCredential       GotchaType = 6
	GotchaTimelineContradiction GotchaType = 7
)

var GotchaTypeDictionary = map[GotchaType]string{
	GotchaDirectContradiction:   "direct-contradiction",
	GotchaExpertiseFail:         "expertise-fail",
	GotchaPolicyFlip:            "policy-flip",
	GotchaMoralInconsistency:    "moral-inconsistency",
	GotchaFactError:             "fact-error",
	GotchaEvasionPattern:        "evasion-pattern",
	GotchaFalseCredential:       "false-credential",
	GotchaTimelineContradiction: "timeline-contradiction",
}

// Severity rates how damaging a gotcha moment is.
type Severity byte

const (
	SeverityMinor    Severity = 0
	SeverityMajor    Severity = 1
	SeverityCritical Severity = 2
)

var SeverityDictionary = map[Severity]string{
	SeverityMinor:    "minor",
	SeverityMajor:    "major",
	SeverityCritical: "critical",
}

// ConfrontationLevel selects how hard a gotcha callout lands.
type ConfrontationLevel byte

const (
	ConfrontGentle      ConfrontationLevel = 0
	ConfrontFirm        ConfrontationLevel = 1
	ConfrontAggressive  ConfrontationLevel = 2
	ConfrontDevastating ConfrontationLevel = 3
)

var ConfrontationLevelDictionary = map[ConfrontationLevel]string{
	ConfrontGentle:      "gentle",
	ConfrontFirm:        "firm",
	ConfrontAggressive:  "aggressive",
	ConfrontDevastating: "devastating",
}

// RapidFireTier sets the pace and volume of a rapid-fire session.
type RapidFireTier byte

const (
	TierLow     RapidFireTier = 0
	TierMedium  RapidFireTier = 1
	TierHigh    RapidFireTier = 2
	TierExtreme RapidFireTier = 3
)

var RapidFireTierDictionary = map[RapidFireTier]string{
	TierLow:     "low",
	TierMedium:  "medium",
	TierHigh:    "high",
	TierExtreme: "extreme",
}
