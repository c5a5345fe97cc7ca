package interview

import (
	"strconv"
	"strings"
)

// The content layer declares interruption triggers and follow-up rules as
// condition strings ("word_count>30", "tone:evasive", ...). They are parsed
// once into typed conditions; unrecognized strings stay condUnknown, which
// never matches (follow-up rules) or falls back to a raw probability roll
// (interruption triggers). That permissive default is deliberate.

type conditionKind byte

const (
	condUnknown conditionKind = iota
	condWordCountGT
	condWordCountLT
	condTone
	condContradicts
	condTopic
	condMood
	condEvasion
	condRepeatedEvasion
	condHighFrustration
	condLowConfidence
	condHighConsistency
)

type condition struct {
	kind  conditionKind
	n     int
	tone  Tone
	topic string
	mood  Mood
	raw   string
}

func parseCondition(s string) condition {
	c := condition{raw: s}
	s = strings.TrimSpace(s)

	switch s {
	case "evasion":
		c.kind = condEvasion
		return c
	case "repeated_evasion":
		c.kind = condRepeatedEvasion
		return c
	case "high_frustration":
		c.kind = condHighFrustration
		return c
	case "low_confidence":
		c.kind = condLowConfidence
		return c
	case "high_consistency":
		c.kind = condHighConsistency
		return c
	case "contradicts:previous":
		c.kind = condContradicts
		return c
	}

	if rest, ok := strings.CutPrefix(s, "word_count>"); ok {
		if n, err := strconv.Atoi(rest); err == nil {
			c.kind = condWordCountGT
			c.n = n
		}
		return c
	}
	if rest, ok := strings.CutPrefix(s, "word_count<"); ok {
		if n, err := strconv.Atoi(rest); err == nil {
			c.kind = condWordCountLT
			c.n = n
		}
		return c
	}
	if rest, ok := strings.CutPrefix(s, "tone:"); ok {
		if t, ok := ParseTone(rest); ok {
			c.kind = condTone
			c.tone = t
		}
		return c
	}
	if rest, ok := strings.CutPrefix(s, "topic:"); ok {
		c.kind = condTopic
		c.topic = rest
		return c
	}
	if rest, ok := strings.CutPrefix(s, "interviewer_mood:"); ok {
		for m, label := range MoodDictionary {
			if label == rest {
				c.kind = condMood
				c.mood = m
				return c
			}
		}
		return c
	}

	return c
}

// condContext carries everything a condition may reference.
type condContext struct {
	response      PlayerResponse
	mood          Mood
	frustration   int
	evasionStreak int
	metrics       Metrics
}

const (
	highFrustrationFloor = 70
	lowConfidenceCeiling = 35
	highConsistencyFloor = 80
)

func (c condition) eval(ctx condContext) bool {
	switch c.kind {
	case condWordCountGT:
		return ctx.response.WordCount > c.n
	case condWordCountLT:
		return ctx.response.WordCount < c.n
	case condTone:
		return ctx.response.Tone == c.tone
	case condContradicts:
		return ctx.response.ContradictsPrevious
	case condTopic:
		return ctx.response.Topic == c.topic
	case condMood:
		return ctx.mood == c.mood
	case condEvasion:
		return ctx.response.IsEvasion()
	case condRepeatedEvasion:
		return ctx.evasionStreak >= 2
	case condHighFrustration:
		return ctx.frustration >= highFrustrationFloor
	case condLowConfidence:
		return ctx.metrics.Confidence <= lowConfidenceCeiling
	case condHighConsistency:
		return ctx.metrics.Consistency >= highConsistencyFloor
	default:
		return false
	}
}

func (c condition) recognized() bool { return c.kind != condUnknown }
