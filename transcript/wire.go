package transcript

import (
	"encoding/json"
	"fmt"
	"time"
)

// WireVersion is bumped on any incompatible tape format change. Decoders
// reject versions they do not know.
const WireVersion = 1

// wireEvent is the persisted form of one Event.
type wireEvent struct {
	Turn    int               `json:"turn"`
	Kind    EventKind         `json:"kind"`
	Actor   Actor             `json:"actor"`
	Content string            `json:"content"`
	Tags    map[string]string `json:"tags,omitempty"`
	At      time.Time         `json:"at,omitempty"`
}

// WireTape is the versioned JSON envelope for a full tape.
type WireTape struct {
	Version  int         `json:"v"`
	ID       string      `json:"id"`
	Scenario string      `json:"scenario"`
	Started  time.Time   `json:"started"`
	Events   []wireEvent `json:"events"`
}

// Encode serializes the tape into its wire envelope.
func (t *Tape) Encode() ([]byte, error) {
	wt := WireTape{
		Version:  WireVersion,
		ID:       t.ID,
		Scenario: t.Scenario,
		Started:  t.Started,
		Events:   make([]wireEvent, 0, len(t.events)),
	}
	for _, e := range t.events {
		wt.Events = append(wt.Events, wireEvent(e))
	}
	data, err := json.Marshal(wt)
	if err != nil {
		return nil, fmt.Errorf("encode tape %s: %w", t.ID, err)
	}
	return data, nil
}

// Decode parses a wire envelope back into a tape.
func Decode(data []byte) (*Tape, error) {
	var wt WireTape
	if err := json.Unmarshal(data, &wt); err != nil {
		return nil, fmt.Errorf("decode tape: %w", err)
	}
	if wt.Version != WireVersion {
		return nil, fmt.Errorf("decode tape %s: unsupported version %d", wt.ID, wt.Version)
	}
	t := NewTape(wt.ID, wt.Scenario, wt.Started)
	for _, e := range wt.Events {
		t.Append(Event(e))
	}
	return t, nil
}
