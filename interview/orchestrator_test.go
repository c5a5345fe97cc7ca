package interview

import (
	"errors"
	"strings"
	"testing"
	"time"

	"spinroom/arc"
)

// stoicProfile removes the background's own appetite for interruptions so
// pipeline-ordering tests observe the pattern detectors in isolation.
func stoicProfile() ApproachProfile {
	return ApproachProfile{
		ID:             "stoic",
		Name:           "Stoic Anchor",
		Aggressiveness: 0,
		Skepticism:     0,
		Empathy:        0,
		Persistence:    0,
		Formality:      0.5,
	}
}

func frozenClock() func() time.Time {
	at := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

// nwords builds a text of exactly n distinct words.
func nwords(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "w" + string(rune('a'+i%26))
	}
	return strings.Join(parts, " ")
}

func testResponse(questionID, topic string, tone Tone, wc int, at time.Time) PlayerResponse {
	r := NewResponse(questionID, nwords(wc), tone, at)
	r.Topic = topic
	return r
}

func TestNewOrchestratorValidation(t *testing.T) {
	if _, err := NewOrchestrator(nil, Config{}); err == nil {
		t.Fatal("expected error for nil arc")
	}
	if _, err := NewOrchestrator(arc.Scandal(), Config{RapidFireCooldown: -1}); err == nil {
		t.Fatal("expected error for negative cooldown")
	}
	if _, err := NewOrchestrator(arc.Scandal(), Config{Seed: 7}); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestOpeningReturnsFirstQuestion(t *testing.T) {
	a := arc.Scandal()
	o, err := NewOrchestrator(a, Config{Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	act := o.Opening()
	if act.Kind != ActionQuestion {
		t.Fatalf("opening kind = %v, want question", act.Kind)
	}
	if act.Question == nil || act.Question.QuestionID != a.Questions[0].ID {
		t.Fatalf("opening question meta = %+v", act.Question)
	}
}

// A cooperative player who answers everything confidently should walk the
// whole arc and end with a completed conclusion.
func TestFullInterviewRunsToCompletion(t *testing.T) {
	clock := frozenClock()
	o, err := NewOrchestrator(arc.Scandal(), Config{Seed: 42, Now: clock})
	if err != nil {
		t.Fatal(err)
	}
	state := NewConversationState()

	current := o.Opening().Question.QuestionID
	var conclusion *Action
	for turn := 0; turn < 60; turn++ {
		act, err := o.Decide(testResponse(current, "", ToneConfident, 20, clock()), state)
		if err != nil {
			t.Fatalf("turn %d: %v", turn, err)
		}
		switch act.Kind {
		case ActionQuestion:
			current = act.Question.QuestionID
		case ActionConclusion:
			conclusion = &act
		case ActionInterruption:
			t.Fatalf("turn %d: unexpected interruption %+v", turn, act.Interruption)
		}
		if conclusion != nil {
			break
		}
	}

	if conclusion == nil {
		t.Fatal("interview never concluded")
	}
	if conclusion.Conclusion.Reason != "completed" {
		t.Fatalf("conclusion reason = %q, want completed", conclusion.Conclusion.Reason)
	}
	if conclusion.Content == "" {
		t.Fatal("conclusion has no closing line")
	}
	if !o.Concluded() {
		t.Fatal("orchestrator not marked concluded")
	}

	if _, err := o.Decide(testResponse("late", "", ToneConfident, 20, clock()), state); !errors.Is(err, ErrConcluded) {
		t.Fatalf("post-conclusion Decide error = %v, want ErrConcluded", err)
	}
}

func TestConclusionPredicates(t *testing.T) {
	a := arc.Scandal()
	clock := frozenClock()

	newO := func() (*Orchestrator, *ConversationState) {
		o, err := NewOrchestrator(a, Config{Seed: 1, Now: clock})
		if err != nil {
			t.Fatal(err)
		}
		return o, NewConversationState()
	}

	t.Run("completed", func(t *testing.T) {
		o, state := newO()
		for _, q := range a.Questions {
			state.markAnswered(q.ID)
		}
		reason, done := o.conclusionReason(state)
		if !done || reason != "completed" {
			t.Fatalf("got (%q, %v)", reason, done)
		}
	})

	t.Run("walkout", func(t *testing.T) {
		o, state := newO()
		state.markAnswered(a.Questions[0].ID)
		o.personality.frustration = 95
		o.interruptions = make([]InterruptionRecord, 4)
		reason, done := o.conclusionReason(state)
		if !done || reason != "walkout" {
			t.Fatalf("got (%q, %v)", reason, done)
		}
	})

	t.Run("early excellence", func(t *testing.T) {
		o, state := newO()
		for _, q := range a.Questions[:4] {
			state.markAnswered(q.ID)
		}
		state.Metrics = Metrics{Overall: 90, Consistency: 95}
		reason, done := o.conclusionReason(state)
		if !done || reason != "early-excellence" {
			t.Fatalf("got (%q, %v)", reason, done)
		}
	})

	t.Run("unscripted ids do not count toward early excellence", func(t *testing.T) {
		o, state := newO()
		for _, q := range a.Questions {
			state.markAnswered(q.ID + "-offscript")
		}
		state.Metrics = Metrics{Overall: 90, Consistency: 95}
		if reason, done := o.conclusionReason(state); done {
			t.Fatalf("unexpected conclusion %q", reason)
		}
	})

	t.Run("no early exit on average play", func(t *testing.T) {
		o, state := newO()
		state.markAnswered(a.Questions[0].ID)
		if reason, done := o.conclusionReason(state); done {
			t.Fatalf("unexpected conclusion %q", reason)
		}
	})
}

// Three evasions in a row draw a consecutive-evasions interruption, and the
// turn right after an interruption is never interrupted again. The profile
// interruption roll makes early turns slightly noisy, so this asserts a rate
// over many seeds rather than a single run.
func TestConsecutiveEvasionsDrawInterruption(t *testing.T) {
	const trials = 300
	clock := frozenClock()

	hits := 0
	for seed := 1; seed <= trials; seed++ {
		o, err := NewOrchestrator(arc.Scandal(), Config{
			Profile: stoicProfile(),
			Seed:    int64(seed),
			Now:     clock,
		})
		if err != nil {
			t.Fatal(err)
		}
		state := NewConversationState()

		var third Action
		for turn := 0; turn < 3; turn++ {
			third, err = o.Decide(testResponse("freeform", "", ToneEvasive, 20, clock()), state)
			if err != nil {
				t.Fatal(err)
			}
		}
		if third.Kind != ActionInterruption || third.Interruption.Trigger != "consecutive-evasions" {
			continue
		}
		if third.Interruption.Severity != "elevated" {
			t.Fatalf("seed %d: severity = %q, want elevated", seed, third.Interruption.Severity)
		}
		hits++

		// Grace turn: the very next evasion must not be interrupted.
		fourth, err := o.Decide(testResponse("freeform", "", ToneEvasive, 20, clock()), state)
		if err != nil {
			t.Fatal(err)
		}
		if fourth.Kind == ActionInterruption {
			t.Fatalf("seed %d: interrupted on the grace turn", seed)
		}
	}

	if hits < trials*7/10 {
		t.Fatalf("consecutive-evasions fired in %d/%d runs, want >= 70%%", hits, trials)
	}
}

// A defensive answer blown far past the player's own running average reads
// as running out the clock.
func TestFilibusterDrawsInterruption(t *testing.T) {
	clock := frozenClock()
	o, err := NewOrchestrator(arc.Scandal(), Config{Profile: stoicProfile(), Seed: 11, Now: clock})
	if err != nil {
		t.Fatal(err)
	}
	state := NewConversationState()

	if _, err := o.Decide(testResponse("freeform", "", ToneConfident, 20, clock()), state); err != nil {
		t.Fatal(err)
	}
	act, err := o.Decide(testResponse("freeform", "", ToneDefensive, 120, clock()), state)
	if err != nil {
		t.Fatal(err)
	}
	if act.Kind != ActionInterruption || act.Interruption.Trigger != "filibuster" {
		t.Fatalf("turn 2 = %+v, want filibuster interruption", act)
	}
	if act.Interruption.Severity != "serious" {
		t.Fatalf("severity = %q, want serious", act.Interruption.Severity)
	}
}

// Three straight dodges on one topic draw a topic-avoidance interruption on
// the third turn, not before, and a fourth dodge escalates straight into an
// evasion-pressure rapid-fire burst instead of another interruption.
func TestTopicAvoidanceEscalatesToRapidFire(t *testing.T) {
	const trials = 200
	clock := frozenClock()

	hits := 0
	for seed := 1; seed <= trials; seed++ {
		o, err := NewOrchestrator(arc.Scandal(), Config{
			Profile: stoicProfile(),
			Seed:    int64(seed),
			Now:     clock,
		})
		if err != nil {
			t.Fatal(err)
		}
		state := NewConversationState()

		decide := func(tone Tone) Action {
			act, err := o.Decide(testResponse("freeform", "climate", tone, 5, clock()), state)
			if err != nil {
				t.Fatal(err)
			}
			return act
		}

		first := decide(ToneEvasive)
		second := decide(ToneEvasive)
		if first.Kind == ActionInterruption || second.Kind == ActionInterruption {
			continue // profile roll noise; the pattern detectors stayed quiet
		}

		third := decide(ToneEvasive)
		if third.Kind != ActionInterruption || third.Interruption.Trigger != "topic-avoidance" {
			t.Fatalf("seed %d: turn 3 = %+v, want topic-avoidance interruption", seed, third)
		}
		if third.Interruption.Severity != "serious" {
			t.Fatalf("seed %d: severity = %q, want serious", seed, third.Interruption.Severity)
		}

		fourth := decide(ToneEvasive)
		if fourth.Kind != ActionQuestion || fourth.Question == nil {
			t.Fatalf("seed %d: turn 4 kind = %v, want rapid-fire question", seed, fourth.Kind)
		}
		q := fourth.Question
		if !q.RapidFire || q.Trigger != "evasion-pressure" {
			t.Fatalf("seed %d: rapid-fire meta = %+v", seed, q)
		}
		if q.Remaining != 4 || q.Escalation != 1 {
			t.Fatalf("seed %d: remaining=%d escalation=%d", seed, q.Remaining, q.Escalation)
		}
		if q.Topic != "climate" || !strings.Contains(fourth.Content, "climate") {
			t.Fatalf("seed %d: question not on topic: %q", seed, fourth.Content)
		}
		hits++
	}

	if hits < trials*7/10 {
		t.Fatalf("escalation sequence held in %d/%d runs, want >= 70%%", hits, trials)
	}
}

// With both the gotcha detector and rapid-fire in cooldown, a contradiction
// falls through to the dedicated challenge stage, which quotes the stored
// prior statement rather than a generic line.
func TestContradictionChallengeAfterCooldowns(t *testing.T) {
	const trials = 300
	clock := frozenClock()

	challenges := 0
	for seed := 1; seed <= trials; seed++ {
		o, err := NewOrchestrator(arc.Scandal(), Config{
			Profile: stoicProfile(),
			Seed:    int64(seed),
			Now:     clock,
		})
		if err != nil {
			t.Fatal(err)
		}
		state := NewConversationState()

		contradict := func(text string) PlayerResponse {
			r := NewResponse("freeform", text, ToneConfident, clock())
			r.Topic = "economy"
			r.ContradictsPrevious = true
			return r
		}

		// Turn 1: statement of record.
		first := NewResponse("freeform", nwords(20), ToneConfident, clock())
		first.Topic = "economy"
		if _, err := o.Decide(first, state); err != nil {
			t.Fatal(err)
		}

		// Turn 2: contradiction -> direct-contradiction gotcha, deterministic.
		second, err := o.Decide(contradict(nwords(18)), state)
		if err != nil {
			t.Fatal(err)
		}
		if second.Kind != ActionFollowUp || second.FollowUp.GotchaType != GotchaDirectContradiction {
			t.Fatalf("seed %d: turn 2 = %+v, want direct-contradiction gotcha", seed, second)
		}
		if second.FollowUp.Severity != SeverityMajor || second.FollowUp.Level != ConfrontAggressive {
			t.Fatalf("seed %d: gotcha severity=%v level=%v", seed,
				second.FollowUp.Severity, second.FollowUp.Level)
		}

		// Turn 3: gotcha cooling down -> contradiction-pounce rapid-fire.
		third, err := o.Decide(contradict(nwords(19)), state)
		if err != nil {
			t.Fatal(err)
		}
		if third.Kind != ActionQuestion || !third.Question.RapidFire || third.Question.Trigger != "contradiction-pounce" {
			t.Fatalf("seed %d: turn 3 = %+v, want contradiction-pounce", seed, third)
		}

		// Turn 4: composed answer ends the burst; both cooldowns now hold.
		fourth, err := o.Decide(contradict(nwords(20)), state)
		if err != nil {
			t.Fatal(err)
		}
		if fourth.Kind != ActionContradiction {
			continue // stochastic memory follow-ups may claim the turn
		}
		meta := fourth.Contradiction
		if meta.Topic != "economy" || meta.Generic {
			t.Fatalf("seed %d: contradiction meta = %+v", seed, meta)
		}
		if meta.PriorStatement != nwords(19) {
			t.Fatalf("seed %d: prior statement = %q", seed, meta.PriorStatement)
		}
		if fourth.Content == "" {
			t.Fatalf("seed %d: empty challenge line", seed)
		}
		challenges++
	}

	// The challenge stage sits behind two stochastic memory follow-up gates;
	// it only needs to be reachable, not dominant.
	if challenges < 10 {
		t.Fatalf("contradiction challenge reached in %d/%d runs, want >= 10", challenges, trials)
	}
}

func TestSnapshotIsDefensive(t *testing.T) {
	clock := frozenClock()
	o, err := NewOrchestrator(arc.Scandal(), Config{Profile: stoicProfile(), Seed: 5, Now: clock})
	if err != nil {
		t.Fatal(err)
	}
	state := NewConversationState()
	for i := 0; i < 3; i++ {
		if _, err := o.Decide(testResponse("freeform", "taxes", ToneEvasive, 20, clock()), state); err != nil {
			t.Fatal(err)
		}
	}

	snap := o.Snapshot()
	if snap.Turn != 3 {
		t.Fatalf("snapshot turn = %d, want 3", snap.Turn)
	}
	if snap.EvasionStreak != 3 || snap.EvasionByTopic["taxes"] != 3 {
		t.Fatalf("evasion tracking = streak %d, topic %d", snap.EvasionStreak, snap.EvasionByTopic["taxes"])
	}

	snap.EvasionByTopic["taxes"] = 99
	snap.Interruptions = append(snap.Interruptions, InterruptionRecord{Trigger: "fake"})

	again := o.Snapshot()
	if again.EvasionByTopic["taxes"] != 3 {
		t.Fatal("snapshot map aliases internal state")
	}
	for _, rec := range again.Interruptions {
		if rec.Trigger == "fake" {
			t.Fatal("snapshot slice aliases internal state")
		}
	}
}
