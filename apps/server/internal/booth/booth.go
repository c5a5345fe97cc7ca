// Package booth runs one live interview as an actor: a single goroutine
// owns the engine, the scorer and the tape, and everything else talks to it
// through an event queue.
package booth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"spinroom/apps/server/internal/codec"
	"spinroom/apps/server/internal/ledger"
	"spinroom/arc"
	"spinroom/interview"
	"spinroom/score"
	"spinroom/transcript"
)

// Event types for the actor message queue
type EventType int

const (
	EventStart EventType = iota
	EventAnswer
	EventTimeout
	EventLeave
	EventClose
)

// Event represents a message to the booth actor
type Event struct {
	Type      EventType
	Answer    codec.AnswerPayload
	Timestamp time.Time
	Response  chan error
}

var ErrBoothClosed = errors.New("booth closed")

const (
	// Window for answering a scripted question. Rapid-fire questions carry
	// their own tighter limit.
	defaultAnswerWindow = 90 * time.Second
	saveTimeout         = 10 * time.Second
)

// Booth is a single live interview bound to one player.
type Booth struct {
	ID     string
	UserID uint64

	mu       sync.RWMutex
	orch     *interview.Orchestrator
	tracker  *score.Tracker
	state    *interview.ConversationState
	tape     *transcript.Tape
	scenario string

	started   bool
	concluded bool
	closed    bool
	stopOnce  sync.Once

	// Event channel for actor pattern
	events chan Event
	done   chan struct{}

	// Server sequence for event ordering
	serverSeq uint64

	// Question currently on the table and its answer deadline.
	currentQuestionID string
	answerDeadline    time.Time
	lastActivity      time.Time

	// Callback to push encoded envelopes to the player
	broadcast func(userID uint64, data []byte)
	ledger    ledger.Service
}

// New creates a booth and starts its actor goroutine.
func New(
	id string,
	userID uint64,
	a *arc.Arc,
	cfg interview.Config,
	broadcastFn func(userID uint64, data []byte),
	ledgerService ledger.Service,
) (*Booth, error) {
	orch, err := interview.NewOrchestrator(a, cfg)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	b := &Booth{
		ID:           id,
		UserID:       userID,
		orch:         orch,
		tracker:      score.NewTracker(),
		state:        interview.NewConversationState(),
		tape:         transcript.NewTape(id, string(a.Scenario), now.UTC()),
		scenario:     string(a.Scenario),
		events:       make(chan Event, 256),
		done:         make(chan struct{}),
		lastActivity: now,
		broadcast:    broadcastFn,
		ledger:       ledgerService,
	}

	go b.run()

	log.Printf("[Booth %s] Created (user=%d, scenario=%s)", id, userID, b.scenario)
	return b, nil
}

// run is the main actor loop
func (b *Booth) run() {
	// Sub-second heartbeat for the answer deadline.
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case event := <-b.events:
			err := b.handleEvent(event)
			if event.Response != nil {
				event.Response <- err
			}
		case <-ticker.C:
			b.tick()
		case <-b.done:
			log.Printf("[Booth %s] Actor stopped", b.ID)
			return
		}
	}
}

func (b *Booth) handleEvent(e Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed && e.Type != EventClose {
		return ErrBoothClosed
	}
	b.lastActivity = e.Timestamp

	switch e.Type {
	case EventStart:
		return b.handleStart()
	case EventAnswer:
		return b.handleAnswer(e.Answer, e.Timestamp)
	case EventTimeout:
		return b.handleTimeout(e.Timestamp)
	case EventLeave:
		b.handleLeave()
		return nil
	case EventClose:
		b.stopLocked()
		return nil
	default:
		return fmt.Errorf("unknown event type: %d", e.Type)
	}
}

func (b *Booth) handleStart() error {
	if b.started {
		// Reconnect: resend the pending question and the current state.
		b.sendSnapshot()
		return nil
	}
	b.started = true

	opening := b.orch.Opening()
	b.recordAction(opening, 1)
	b.trackQuestion(opening, time.Now())
	b.sendAction(opening)
	b.sendSnapshot()
	log.Printf("[Booth %s] Interview started with %q", b.ID, opening.Content)
	return nil
}

func (b *Booth) handleAnswer(p codec.AnswerPayload, at time.Time) error {
	if !b.started {
		return fmt.Errorf("interview not started")
	}
	if b.concluded {
		return interview.ErrConcluded
	}
	if at.IsZero() {
		at = time.Now()
	}

	r, err := codec.ParseAnswer(b.currentQuestionID, p, at)
	if err != nil {
		return err
	}
	return b.advance(r, at)
}

// advance runs one engine turn for a parsed response. Caller holds b.mu.
func (b *Booth) advance(r interview.PlayerResponse, at time.Time) error {
	action, err := b.orch.Decide(r, b.state)
	if err != nil {
		return err
	}

	// Score the answer against the post-decision state; the engine reads
	// the metrics on the next turn for its early wrap-up check.
	snap := b.orch.Snapshot()
	b.state.Metrics = b.tracker.Observe(r, snap)

	tags := map[string]string{"tone": interview.ToneDictionary[r.Tone]}
	if r.Topic != "" {
		tags["topic"] = r.Topic
	}
	b.tape.Record(snap.Turn, transcript.EventResponse, transcript.ActorPlayer, r.Text, tags, at)
	b.recordAction(action, snap.Turn)
	b.trackQuestion(action, at)

	b.sendAction(action)
	b.sendSnapshot()

	if action.Kind == interview.ActionConclusion {
		b.concludeLocked(action)
	}
	return nil
}

// concludeLocked finalizes scoring, persists the tape and pushes the
// scorecard. Caller holds b.mu.
func (b *Booth) concludeLocked(action interview.Action) {
	b.concluded = true
	b.answerDeadline = time.Time{}

	metrics := b.tracker.Metrics()
	grade := score.Grade(metrics.Overall)
	sum := b.tape.Summarize(metrics.Overall, grade)

	b.tape.Record(sum.Turns, transcript.EventScore, transcript.ActorProduction,
		fmt.Sprintf("overall %d (%s)", metrics.Overall, grade), nil, time.Now().UTC())

	reason := ""
	if action.Conclusion != nil {
		reason = action.Conclusion.Reason
	}
	log.Printf("[Booth %s] Interview concluded (reason=%s, turns=%d, grade=%s)",
		b.ID, reason, sum.Turns, grade)

	if b.ledger != nil {
		userID := b.UserID
		tape := b.tape
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
			defer cancel()
			if err := b.ledger.SaveInterview(ctx, userID, sum, tape, time.Now().UTC()); err != nil {
				log.Printf("[Booth %s] Failed to persist interview: %v", b.ID, err)
			}
		}()
	}

	b.sendScorecard(sum, metrics)
}

// handleTimeout auto-submits an evasive non-answer when the player sits on a
// question past its deadline.
func (b *Booth) handleTimeout(now time.Time) error {
	if !b.started || b.concluded {
		return nil
	}
	if b.answerDeadline.IsZero() || now.Before(b.answerDeadline) {
		return nil
	}

	log.Printf("[Booth %s] Answer timeout on question %s", b.ID, b.currentQuestionID)
	r := interview.NewResponse(b.currentQuestionID, "", interview.ToneEvasive, now)
	return b.advance(r, now)
}

func (b *Booth) handleLeave() {
	if b.started && !b.concluded {
		log.Printf("[Booth %s] Player %d left mid-interview", b.ID, b.UserID)
	}
	b.stopLocked()
}

func (b *Booth) tick() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	if err := b.handleTimeout(time.Now()); err != nil && !errors.Is(err, interview.ErrConcluded) {
		log.Printf("[Booth %s] timeout handler failed: %v", b.ID, err)
	}
}

// trackQuestion updates the question-on-the-table bookkeeping after an
// action. Follow-ups, interruptions and contradiction challenges all wait
// for an answer to the same underlying question.
func (b *Booth) trackQuestion(action interview.Action, now time.Time) {
	switch {
	case action.Kind == interview.ActionConclusion:
		b.currentQuestionID = ""
		b.answerDeadline = time.Time{}
	case action.Question != nil:
		b.currentQuestionID = action.Question.QuestionID
		window := defaultAnswerWindow
		if action.Question.TimeLimit > 0 {
			window = action.Question.TimeLimit
		}
		b.answerDeadline = now.Add(window)
	default:
		b.answerDeadline = now.Add(defaultAnswerWindow)
	}
}

func (b *Booth) recordAction(action interview.Action, turn int) {
	kind := transcript.EventKind(interview.ActionKindDictionary[action.Kind])
	var tags map[string]string
	switch {
	case action.Question != nil && action.Question.Topic != "":
		tags = map[string]string{"topic": action.Question.Topic}
		if action.Question.RapidFire {
			tags["trigger"] = action.Question.Trigger
		}
	case action.FollowUp != nil:
		tags = map[string]string{"trigger": action.FollowUp.Trigger}
	case action.Interruption != nil:
		tags = map[string]string{
			"trigger":  action.Interruption.Trigger,
			"severity": action.Interruption.Severity,
		}
	case action.Conclusion != nil:
		tags = map[string]string{"reason": action.Conclusion.Reason}
	}
	b.tape.Record(turn, kind, transcript.ActorInterviewer, action.Content, tags, time.Now().UTC())
}

// SubmitEvent sends an event to the actor and waits for the result.
func (b *Booth) SubmitEvent(e Event) error {
	e.Timestamp = time.Now()
	if e.Response == nil {
		e.Response = make(chan error, 1)
	}

	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		return ErrBoothClosed
	}

	select {
	case b.events <- e:
	case <-b.done:
		return ErrBoothClosed
	}

	select {
	case err := <-e.Response:
		return err
	case <-b.done:
		return ErrBoothClosed
	}
}

// Stop shuts down the booth actor
func (b *Booth) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopLocked()
}

func (b *Booth) stopLocked() {
	b.closed = true
	b.answerDeadline = time.Time{}
	b.stopOnce.Do(func() {
		close(b.done)
	})
}

func (b *Booth) IsClosed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.closed
}

func (b *Booth) Concluded() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.concluded
}

// IsIdleFor reports whether the booth is finished or has seen no traffic
// for ttl; the lobby reaps such booths.
func (b *Booth) IsIdleFor(ttl time.Duration) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return true
	}
	if b.concluded {
		return time.Since(b.lastActivity) >= ttl/4
	}
	return time.Since(b.lastActivity) >= ttl
}

// --- Outbound envelopes ---

func (b *Booth) nextSeq() uint64 {
	b.serverSeq++
	return b.serverSeq
}

func (b *Booth) sendEnvelope(env codec.ServerEnvelope) {
	env.BoothID = b.ID
	env.Seq = b.nextSeq()
	data, err := codec.Encode(env)
	if err != nil {
		log.Printf("[Booth %s] Failed to encode message: %v", b.ID, err)
		return
	}
	b.broadcast(b.UserID, data)
}

func (b *Booth) sendAction(action interview.Action) {
	view := codec.ActionToView(action)
	b.sendEnvelope(codec.ServerEnvelope{Type: codec.ServerAction, Action: &view})
}

func (b *Booth) sendSnapshot() {
	view := codec.SnapshotToView(b.orch.Snapshot(), b.tracker.Metrics())
	b.sendEnvelope(codec.ServerEnvelope{Type: codec.ServerSnapshot, Snapshot: &view})
}

func (b *Booth) sendScorecard(sum transcript.Summary, metrics interview.Metrics) {
	view := codec.ScorecardView{
		InterviewID: sum.ID,
		Scenario:    sum.Scenario,
		Turns:       sum.Turns,
		Conclusion:  sum.Conclusion,
		Metrics:     codec.MetricsToView(metrics),
		Grade:       sum.Grade,
	}
	b.sendEnvelope(codec.ServerEnvelope{Type: codec.ServerScorecard, Scorecard: &view})
}
