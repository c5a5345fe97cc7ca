package interview

import (
	"encoding/json"
	"fmt"
	"math/rand"
)

// LinePack holds every narrative string the engine can say, keyed by the
// labels writers see. The decision logic never embeds copy directly; it
// selects from here so the pack can be replaced wholesale from JSON.
type LinePack struct {
	// Confrontations: gotcha type label -> confrontation level label -> lines.
	Confrontations map[string]map[string][]string `json:"confrontations"`
	// GotchaFollowUps: gotcha type label -> themed follow-up questions.
	GotchaFollowUps map[string][]string `json:"gotchaFollowUps"`
	// Conclusions: mood label -> closing lines.
	Conclusions map[string][]string `json:"conclusions"`
	// RapidFire: trigger id -> question templates ({topic} is substituted).
	RapidFire map[string][]string `json:"rapidFire"`
	// Urgency prefixes applied to late rapid-fire questions.
	Urgency []string `json:"urgency"`
	// EvasionInterrupts: severity tier label -> interruption lines.
	EvasionInterrupts map[string][]string `json:"evasionInterrupts"`
	// Accountability challenge lines.
	Accountability []string `json:"accountability"`
	// GenericContradiction is the fallback when memory has nothing to quote.
	GenericContradiction []string `json:"genericContradiction"`
	// DynamicFollowUps: follow-up action name -> template ({topic} substituted).
	DynamicFollowUps map[string]string `json:"dynamicFollowUps"`
	// VisualEffects: confrontation level label -> presentation descriptor.
	VisualEffects map[string]string `json:"visualEffects"`
}

// LoadLinePack parses a writer-edited pack; fields left empty fall back to
// the built-in copy.
func LoadLinePack(data []byte) (*LinePack, error) {
	pack := DefaultLinePack()
	if err := json.Unmarshal(data, pack); err != nil {
		return nil, fmt.Errorf("parse line pack: %w", err)
	}
	return pack, nil
}

func (lp *LinePack) pick(rng *rand.Rand, lines []string) string {
	switch len(lines) {
	case 0:
		return ""
	case 1:
		return lines[0]
	default:
		return lines[rng.Intn(len(lines))]
	}
}

func (lp *LinePack) confrontation(rng *rand.Rand, gt GotchaType, lvl ConfrontationLevel) string {
	byLevel := lp.Confrontations[GotchaTypeDictionary[gt]]
	if byLevel == nil {
		byLevel = lp.Confrontations["default"]
	}
	lines := byLevel[ConfrontationLevelDictionary[lvl]]
	if len(lines) == 0 {
		lines = byLevel["firm"]
	}
	return lp.pick(rng, lines)
}

func (lp *LinePack) gotchaFollowUp(rng *rand.Rand, gt GotchaType) string {
	lines := lp.GotchaFollowUps[GotchaTypeDictionary[gt]]
	if len(lines) == 0 {
		lines = lp.GotchaFollowUps["default"]
	}
	return lp.pick(rng, lines)
}

func (lp *LinePack) conclusion(rng *rand.Rand, mood Mood) string {
	lines := lp.Conclusions[MoodDictionary[mood]]
	if len(lines) == 0 {
		lines = lp.Conclusions["professional"]
	}
	return lp.pick(rng, lines)
}

// DefaultLinePack returns the built-in copy.
func DefaultLinePack() *LinePack {
	return &LinePack{
		Confrontations: map[string]map[string][]string{
			"direct-contradiction": {
				"gentle": {
					"Hold on, that doesn't quite line up with what you said earlier.",
				},
				"firm": {
					"That directly contradicts what you told me a few minutes ago.",
					"You've just said the opposite of your earlier answer. Which is it?",
				},
				"aggressive": {
					"Stop. You said the exact opposite earlier in this interview, on camera.",
				},
				"devastating": {
					"We've got it on tape. Two answers, same question, completely opposed. Our viewers deserve to know which one was the lie.",
				},
			},
			"expertise-fail": {
				"gentle": {
					"That's a surprisingly thin answer on a subject you campaign on.",
				},
				"firm": {
					"This is supposed to be your area. Why can't you give me specifics?",
				},
				"aggressive": {
					"You wrote the policy paper on this and you can't answer a basic question about it?",
				},
				"devastating": {
					"A first-year staffer could answer that. You're asking to run this portfolio and you just drew a blank on live television.",
				},
			},
			"moral-inconsistency": {
				"gentle": {
					"Your tone shifts rather a lot when we move from principles to your own record.",
				},
				"firm": {
					"You speak about integrity very differently depending on who's being judged.",
				},
				"aggressive": {
					"One standard for your opponents, another for yourself. That's exactly what you just demonstrated.",
				},
				"devastating": {
					"Minutes ago you lectured this audience about principles. Asked to apply them to yourself, you fold. That tells people everything.",
				},
			},
			"evasion-pattern": {
				"gentle": {
					"I notice we keep sliding off this subject.",
				},
				"firm": {
					"That's the third time you've dodged this topic. What are you not telling us?",
				},
				"aggressive": {
					"You will not answer this question, and the audience is counting the dodges with me.",
				},
				"devastating": {
					"Every single time this comes up you run from it. At this point the evasion is the answer.",
				},
			},
			"default": {
				"gentle": {"Something about that answer doesn't sit right."},
				"firm":   {"That answer doesn't survive contact with your own record."},
				"aggressive": {
					"That is simply not consistent with the facts in front of me.",
				},
				"devastating": {
					"That answer collapses the moment anyone checks the record, and we have checked.",
				},
			},
		},
		GotchaFollowUps: map[string][]string{
			"direct-contradiction": {
				"So which statement should voters believe, the first one or this one?",
				"When did your position change, and why didn't you say so?",
			},
			"expertise-fail": {
				"Walk me through the specifics, then. Take your time.",
				"Give me one concrete number from your own proposal.",
			},
			"moral-inconsistency": {
				"Do those principles apply to you, yes or no?",
			},
			"evasion-pattern": {
				"I'll ask one more time, plainly. Will you answer it now?",
			},
			"default": {
				"Would you like to revise that answer?",
			},
		},
		Conclusions: map[string][]string{
			"neutral":      {"That's all we have time for. Thank you for joining us."},
			"professional": {"We'll leave it there. Thank you for your time tonight."},
			"skeptical":    {"We're out of time, though I suspect our viewers have more questions than answers. Thank you."},
			"excited":      {"A genuinely revealing conversation. We'll be playing those clips for days. Thank you."},
			"frustrated":   {"We have to leave it there. I'll let the viewers judge what was and wasn't answered tonight."},
			"hostile":      {"We're done here. The record of this interview speaks for itself."},
			"sympathetic":  {"Thank you for what was, at times, an unusually candid conversation."},
		},
		RapidFire: map[string][]string{
			"evasion-pressure": {
				"Yes or no: will you give a straight answer on {topic}?",
				"What exactly is your position on {topic}?",
				"Why does {topic} make you so uncomfortable?",
				"What are you not telling us about {topic}?",
			},
			"topic-avoidance": {
				"Let's stay on {topic}. What's your answer?",
				"Again: {topic}. One sentence.",
				"Why do you keep steering away from {topic}?",
			},
			"contradiction-pounce": {
				"Which of your two positions on {topic} is the real one?",
				"When did you change your mind about {topic}?",
				"Did you think nobody would compare your statements on {topic}?",
			},
			"frustration-burst": {
				"One more time: {topic}. Answer the question.",
				"Do you respect this audience enough to answer about {topic}?",
				"Is there any question about {topic} you will actually answer?",
			},
		},
		Urgency: []string{
			"Quickly now -",
			"No time to think -",
			"Straight answer -",
			"Last chance -",
		},
		EvasionInterrupts: map[string][]string{
			"elevated": {
				"I'm going to stop you - that's several non-answers in a row.",
			},
			"serious": {
				"Again you're not answering. This is becoming a pattern on air.",
			},
			"critical": {
				"Enough. Five dodges in a row. The audience can see exactly what's happening.",
			},
			"topic-avoidance": {
				"You keep walking away from this subject. Why?",
			},
			"filibuster": {
				"You're running the clock. I need an answer, not a speech.",
			},
			"deflection": {
				"You keep pointing at everyone else. I'm asking about you.",
			},
		},
		Accountability: []string{
			"Let's take stock: contradictions, dodged questions, vague answers. Why should anyone take the next answer at face value?",
			"At some point tonight you need to take responsibility for an answer. Is this that moment?",
		},
		GenericContradiction: []string{
			"That's not what you said before. Which version do you stand by?",
			"Your position appears to have changed mid-interview. Clarify it for us.",
		},
		DynamicFollowUps: map[string]string{
			"press_for_detail":  "Give me the detail on {topic}. Numbers, dates, names.",
			"challenge_claim":   "That's a big claim about {topic}. What's your evidence?",
			"personal_question": "Forget the talking points - what do you actually believe about {topic}?",
			"pivot_back":        "Before you move on: we were talking about {topic}.",
		},
		VisualEffects: map[string]string{
			"gentle":      "slow-push-in",
			"firm":        "cut-to-reaction",
			"aggressive":  "split-screen-replay",
			"devastating": "freeze-frame-quote",
		},
	}
}
