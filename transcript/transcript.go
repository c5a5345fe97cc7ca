// Package transcript records an interview as an append-only event tape with
// a versioned JSON wire form for persistence and export.
package transcript

import (
	"fmt"
	"time"
)

// EventKind labels one tape entry.
type EventKind string

const (
	EventQuestion      EventKind = "question"
	EventResponse      EventKind = "response"
	EventInterruption  EventKind = "interruption"
	EventFollowUp      EventKind = "follow-up"
	EventContradiction EventKind = "contradiction-challenge"
	EventConclusion    EventKind = "conclusion"
	EventScore         EventKind = "score"
)

// Actor names the side of the desk an event came from.
type Actor string

const (
	ActorInterviewer Actor = "interviewer"
	ActorPlayer      Actor = "player"
	ActorProduction  Actor = "production"
)

// Event is one tape entry. Tags carries small kind-specific details
// (trigger, tone, mood, escalation) without a type per event kind.
type Event struct {
	Turn    int
	Kind    EventKind
	Actor   Actor
	Content string
	Tags    map[string]string
	At      time.Time
}

// Tape is the append-only record of one interview. Not safe for concurrent
// use; the booth serializes access through its run loop.
type Tape struct {
	ID       string
	Scenario string
	Started  time.Time

	events []Event
}

func NewTape(id, scenario string, started time.Time) *Tape {
	return &Tape{ID: id, Scenario: scenario, Started: started}
}

func (t *Tape) Append(e Event) {
	t.events = append(t.events, e)
}

// Record is the common-case append.
func (t *Tape) Record(turn int, kind EventKind, actor Actor, content string, tags map[string]string, at time.Time) {
	t.Append(Event{Turn: turn, Kind: kind, Actor: actor, Content: content, Tags: tags, At: at})
}

func (t *Tape) Len() int { return len(t.events) }

// Events returns a defensive copy of the tape entries.
func (t *Tape) Events() []Event {
	out := make([]Event, len(t.events))
	copy(out, t.events)
	return out
}

// Last returns the most recent event, if any.
func (t *Tape) Last() (Event, bool) {
	if len(t.events) == 0 {
		return Event{}, false
	}
	return t.events[len(t.events)-1], true
}

// Normalize returns a copy of the tape with volatile fields zeroed so two
// recordings of the same interview compare equal.
func (t *Tape) Normalize() *Tape {
	norm := NewTape(t.ID, t.Scenario, time.Time{})
	for _, e := range t.events {
		e.At = time.Time{}
		norm.Append(e)
	}
	return norm
}

// Summary is the one-line digest stored alongside the full tape.
type Summary struct {
	ID         string `json:"id"`
	Scenario   string `json:"scenario"`
	Turns      int    `json:"turns"`
	Conclusion string `json:"conclusion"`
	Overall    int    `json:"overall"`
	Grade      string `json:"grade"`
}

// Summarize digests the tape; conclusion reason comes from the final
// conclusion event's tags.
func (t *Tape) Summarize(overall int, grade string) Summary {
	s := Summary{
		ID:       t.ID,
		Scenario: t.Scenario,
		Overall:  overall,
		Grade:    grade,
	}
	for _, e := range t.events {
		if e.Turn > s.Turns {
			s.Turns = e.Turn
		}
		if e.Kind == EventConclusion {
			s.Conclusion = e.Tags["reason"]
		}
	}
	return s
}

func (t *Tape) String() string {
	return fmt.Sprintf("tape %s (%s): %d events", t.ID, t.Scenario, len(t.events))
}
