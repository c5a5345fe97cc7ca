package booth

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"spinroom/apps/server/internal/codec"
	"spinroom/apps/server/internal/ledger"
	"spinroom/arc"
	"spinroom/interview"
	"spinroom/transcript"
)

// wireCapture collects encoded envelopes pushed by the booth actor.
type wireCapture struct {
	mu   sync.Mutex
	msgs []codec.ServerEnvelope
}

func (w *wireCapture) push(userID uint64, data []byte) {
	var env codec.ServerEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return
	}
	w.mu.Lock()
	w.msgs = append(w.msgs, env)
	w.mu.Unlock()
}

func (w *wireCapture) byType(msgType string) []codec.ServerEnvelope {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []codec.ServerEnvelope
	for _, env := range w.msgs {
		if env.Type == msgType {
			out = append(out, env)
		}
	}
	return out
}

// captureLedger records SaveInterview calls for assertions.
type captureLedger struct {
	saved chan transcript.Summary
}

func newCaptureLedger() *captureLedger {
	return &captureLedger{saved: make(chan transcript.Summary, 1)}
}

func (c *captureLedger) Close() error { return nil }

func (c *captureLedger) SaveInterview(_ context.Context, _ uint64, sum transcript.Summary, _ *transcript.Tape, _ time.Time) error {
	c.saved <- sum
	return nil
}

func (c *captureLedger) ListRecent(context.Context, uint64, int) ([]ledger.HistoryItem, error) {
	return nil, nil
}

func (c *captureLedger) GetTape(context.Context, uint64, string) (*transcript.Tape, error) {
	return nil, ledger.ErrNotFound
}

func newTestBooth(t *testing.T, wire *wireCapture, store ledger.Service) *Booth {
	t.Helper()
	b, err := New("iv_test", 7, arc.Scandal(), interview.Config{Seed: 42}, wire.push, store)
	if err != nil {
		t.Fatalf("new booth: %v", err)
	}
	t.Cleanup(b.Stop)
	return b
}

func TestStartSendsOpeningQuestion(t *testing.T) {
	wire := &wireCapture{}
	b := newTestBooth(t, wire, nil)

	if err := b.SubmitEvent(Event{Type: EventStart}); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	actions := wire.byType(codec.ServerAction)
	if len(actions) != 1 {
		t.Fatalf("action envelopes = %d, want 1", len(actions))
	}
	if actions[0].Action.Kind != "question" {
		t.Fatalf("opening kind = %s", actions[0].Action.Kind)
	}
	if actions[0].Action.QuestionID == "" {
		t.Fatal("opening carries no question id")
	}
	if len(wire.byType(codec.ServerSnapshot)) != 1 {
		t.Fatal("expected a snapshot after the opening")
	}
}

func TestAnswerAdvancesTurn(t *testing.T) {
	wire := &wireCapture{}
	b := newTestBooth(t, wire, nil)

	if err := b.SubmitEvent(Event{Type: EventStart}); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	answer := codec.AnswerPayload{
		Text: "We looked at the evidence carefully and I stand by the decision we made together as a team.",
		Tone: "diplomatic",
	}
	if err := b.SubmitEvent(Event{Type: EventAnswer, Answer: answer}); err != nil {
		t.Fatalf("answer failed: %v", err)
	}

	snapshots := wire.byType(codec.ServerSnapshot)
	if len(snapshots) < 2 {
		t.Fatalf("snapshot envelopes = %d, want >= 2", len(snapshots))
	}
	last := snapshots[len(snapshots)-1]
	if last.Snapshot.Turn != 1 {
		t.Fatalf("turn = %d, want 1", last.Snapshot.Turn)
	}
}

func TestAnswerRejectsUnknownTone(t *testing.T) {
	wire := &wireCapture{}
	b := newTestBooth(t, wire, nil)

	if err := b.SubmitEvent(Event{Type: EventStart}); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	err := b.SubmitEvent(Event{Type: EventAnswer, Answer: codec.AnswerPayload{Text: "no comment", Tone: "sarcastic"}})
	if err == nil {
		t.Fatal("expected error for unknown tone")
	}
}

func TestAnswerBeforeStartFails(t *testing.T) {
	wire := &wireCapture{}
	b := newTestBooth(t, wire, nil)

	err := b.SubmitEvent(Event{Type: EventAnswer, Answer: codec.AnswerPayload{Text: "hello", Tone: "confident"}})
	if err == nil {
		t.Fatal("expected error before start")
	}
}

func TestInterviewRunsToConclusion(t *testing.T) {
	wire := &wireCapture{}
	store := newCaptureLedger()
	b := newTestBooth(t, wire, store)

	if err := b.SubmitEvent(Event{Type: EventStart}); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	answer := codec.AnswerPayload{
		Text: "That is a fair challenge and the record shows exactly where I stood on this from the beginning.",
		Tone: "confident",
	}
	for i := 0; i < 200 && !b.Concluded(); i++ {
		if err := b.SubmitEvent(Event{Type: EventAnswer, Answer: answer}); err != nil {
			if errors.Is(err, interview.ErrConcluded) {
				break
			}
			t.Fatalf("answer %d failed: %v", i, err)
		}
	}
	if !b.Concluded() {
		t.Fatal("interview never concluded")
	}

	cards := wire.byType(codec.ServerScorecard)
	if len(cards) != 1 {
		t.Fatalf("scorecard envelopes = %d, want 1", len(cards))
	}
	card := cards[0].Scorecard
	if card.InterviewID != "iv_test" || card.Scenario != "scandal" {
		t.Fatalf("scorecard = %+v", card)
	}
	if card.Grade == "" || card.Conclusion == "" {
		t.Fatalf("scorecard missing grade or conclusion: %+v", card)
	}

	select {
	case sum := <-store.saved:
		if sum.ID != "iv_test" {
			t.Fatalf("persisted id = %s", sum.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("interview was never persisted")
	}
}

func TestStoppedBoothRejectsEvents(t *testing.T) {
	wire := &wireCapture{}
	b := newTestBooth(t, wire, nil)

	b.Stop()
	if err := b.SubmitEvent(Event{Type: EventStart}); !errors.Is(err, ErrBoothClosed) {
		t.Fatalf("expected ErrBoothClosed, got %v", err)
	}
}
