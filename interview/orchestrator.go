package interview

import (
	"math/rand"
	"strings"
	"time"

	"spinroom/arc"
)

// InterruptionRecord is one history entry in the interruption log.
type InterruptionRecord struct {
	Trigger string
	Message string
	Turn    int
	Mood    Mood
	At      time.Time
}

// queuedFollowUp is a pending follow-up scheduled by a declared trigger.
type queuedFollowUp struct {
	TargetID string
	Action   string
	Topic    string
	Source   string
}

// evasionTracker is the per-turn evasion bookkeeping. The counter decays
// rather than resetting; the streak is strictly consecutive.
type evasionTracker struct {
	counter     int
	streak      int
	topicCounts map[string]int
}

func (ev *evasionTracker) update(r PlayerResponse) {
	if r.IsEvasion() {
		ev.counter++
		ev.streak++
		if r.Topic != "" {
			ev.topicCounts[r.Topic]++
		}
		return
	}
	if ev.counter > 0 {
		ev.counter--
	}
	ev.streak = 0
}

func (ev *evasionTracker) stats() evasionStats {
	counts := make(map[string]int, len(ev.topicCounts))
	for k, v := range ev.topicCounts {
		counts[k] = v
	}
	return evasionStats{Counter: ev.counter, Streak: ev.streak, TopicCounts: counts}
}

// Orchestrator is the top-level decision pipeline. One instance drives one
// interview; Decide is called exactly once per player turn and is never
// reentrant mid-turn.
type Orchestrator struct {
	cfg         Config
	arc         *arc.Arc
	personality *PersonalityState
	gotcha      *GotchaDetector
	rapid       *RapidFire
	lines       *LinePack

	evasion       evasionTracker
	interruptions []InterruptionRecord
	followQueue   []queuedFollowUp

	// Turn of the last interruption. The interviewer never cuts in on two
	// consecutive turns; sustained behavior escalates to rapid-fire instead.
	lastInterruptTurn int

	concluded bool

	rng *rand.Rand
	now func() time.Time
}

func NewOrchestrator(a *arc.Arc, cfg Config) (*Orchestrator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if a == nil || a.Len() == 0 {
		return nil, ErrInvalidState("empty question arc")
	}
	cfg = cfg.withDefaults()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	return &Orchestrator{
		cfg:               cfg,
		arc:               a,
		personality:       newPersonalityState(cfg.Profile, rng, cfg.Now),
		gotcha:            newGotchaDetector(cfg.GotchaCooldown, rng, cfg.Now),
		rapid:             newRapidFire(cfg.RapidFireCooldown, cfg.Lines, rng, cfg.Now),
		lines:             cfg.Lines,
		evasion:           evasionTracker{topicCounts: make(map[string]int)},
		lastInterruptTurn: -1,
		rng:               rng,
		now:               cfg.Now,
	}, nil
}

// Opening returns the arc's first question, before any response exists.
func (o *Orchestrator) Opening() Action {
	q := o.arc.Questions[0]
	return questionAction(&q)
}

// Decide consumes one player response and produces exactly one action.
// Stages are tried in strict priority order; the first applicable wins.
func (o *Orchestrator) Decide(r PlayerResponse, state *ConversationState) (Action, error) {
	if o.concluded {
		return Action{}, ErrConcluded
	}
	if state == nil {
		return Action{}, ErrInvalidState("nil conversation state")
	}

	// Per-turn side effects happen exactly once, before any stage runs.
	state.Responses = append(state.Responses, r)
	state.markAnswered(r.QuestionID)
	o.personality.ProcessResponse(r)
	o.evasion.update(r)
	state.Mood = o.personality.MoodState().Mood
	state.Contradictions = o.personality.Memory().Contradictions()

	q := o.arc.Get(r.QuestionID) // nil for unknown ids: stages skip, not fail

	// Stage 1: active rapid-fire session.
	if o.rapid.Active() {
		next, ended, err := o.rapid.HandleTurn(r, state.Mood)
		if err != nil {
			return Action{}, err
		}
		if !ended {
			return rapidQuestionAction(next, o.rapid.Status()), nil
		}
		// Session over: fall through to the rest of the pipeline.
	}

	grace := o.personality.Turn() == o.lastInterruptTurn+1

	// Stage 2: interruptions.
	if !grace {
		if act, ok := o.checkInterruptions(r, q, state); ok {
			return act, nil
		}
	}

	// Stage 3: gotcha detection.
	o.gotcha.suppressEvasion = grace
	if m := o.gotcha.Detect(r, state, o.personality, q); m != nil {
		conf := o.gotcha.Confront(m, o.personality.Frustration(), o.lines)
		return Action{
			Kind:    ActionFollowUp,
			Content: conf.Line + " " + conf.FollowUp,
			FollowUp: &FollowUpMeta{
				Trigger:      "gotcha",
				QuestionID:   r.QuestionID,
				GotchaID:     m.ID,
				GotchaType:   m.Type,
				Severity:     m.Severity,
				Level:        conf.Level,
				VisualEffect: conf.VisualEffect,
				Evidence:     m.Evidence,
			},
		}, nil
	}

	// Stage 4: rapid-fire trigger check.
	if first := o.rapid.TryStart(r, o.personality, o.evasion.stats()); first != nil {
		return rapidQuestionAction(first, o.rapid.Status()), nil
	}

	// Stage 5: memory-based follow-ups, first non-empty wins.
	if msg := o.personality.ContextualFollowUp(r); msg != "" {
		return followUpAction(msg, "memory-context", r.QuestionID), nil
	}
	if msg := o.personality.AccountabilityChallenge(o.lines); msg != "" {
		return followUpAction(msg, "accountability", r.QuestionID), nil
	}
	if msg := o.personality.TopicMemoryReference(r.Topic); msg != "" {
		return followUpAction(msg, "topic-memory", r.QuestionID), nil
	}

	// Stage 6: the question's declared follow-up rules.
	if q != nil {
		if act, ok := o.checkFollowUpRules(r, q, state); ok {
			return act, nil
		}
	}

	// Stage 7: contradiction challenge.
	if r.ContradictsPrevious {
		if act, ok := o.contradictionChallenge(r, state); ok {
			return act, nil
		}
	}

	// Stage 8: conclusion check.
	if reason, done := o.conclusionReason(state); done {
		return o.conclude(reason), nil
	}

	// Stage 9: queued follow-up, then next scripted question, else wrap up.
	if act, ok := o.popQueuedFollowUp(r); ok {
		return act, nil
	}
	if next := o.arc.NextUnanswered(state.isAnswered); next != nil {
		return questionAction(next), nil
	}
	return o.conclude("completed"), nil
}

// ──────────────────────────────────────────────
// Stage 2: interruptions
// ──────────────────────────────────────────────

var deflectionKeywords = []string{
	"my opponent", "what about", "the real issue", "previous administration",
	"blame", "look at what",
}

func (o *Orchestrator) checkInterruptions(r PlayerResponse, q *arc.Question, state *ConversationState) (Action, bool) {
	// Pattern detectors first. Topic avoidance outranks the raw streak:
	// dodging one subject is the sharper story. Two earlier dodges plus the
	// current one make the pattern.
	if r.IsEvasion() && r.Topic != "" && o.evasion.topicCounts[r.Topic] >= 3 {
		msg := o.lines.pick(o.rng, o.lines.EvasionInterrupts["topic-avoidance"])
		return o.interrupt("topic-avoidance", msg, "serious"), true
	}
	if o.evasion.streak >= 3 {
		tier := consecutiveSeverity(o.evasion.streak)
		msg := o.lines.pick(o.rng, o.lines.EvasionInterrupts[tier])
		return o.interrupt("consecutive-evasions", msg, tier), true
	}
	if o.isFilibuster(r, state) {
		msg := o.lines.pick(o.rng, o.lines.EvasionInterrupts["filibuster"])
		return o.interrupt("filibuster", msg, "serious"), true
	}
	if o.isDeflecting(state) {
		msg := o.lines.pick(o.rng, o.lines.EvasionInterrupts["deflection"])
		return o.interrupt("deflection", msg, "elevated"), true
	}

	// The current question's declared triggers.
	if q != nil {
		ctx := o.condContext(r, state)
		for _, trig := range q.Interruptions {
			cond := parseCondition(trig.Condition)
			if cond.recognized() && !cond.eval(ctx) {
				continue
			}
			// Unrecognized conditions fall back to the raw probability roll.
			if o.rng.Float64() >= trig.Probability {
				continue
			}
			if trig.Action != "" {
				o.followQueue = append(o.followQueue, queuedFollowUp{
					Action: trig.Action,
					Topic:  q.Topic,
					Source: trig.Condition,
				})
			}
			return o.interrupt(trig.Condition, trig.Message, "scripted"), true
		}
	}

	// Last resort: the background profile's own appetite for cutting in.
	if msg, ok := o.personality.ShouldInterrupt(r); ok {
		return o.interrupt("profile", msg, "elevated"), true
	}
	return Action{}, false
}

func consecutiveSeverity(streak int) string {
	switch {
	case streak >= 5:
		return "critical"
	case streak == 4:
		return "serious"
	default:
		return "elevated"
	}
}

const (
	filibusterRatio = 2.5
	filibusterFloor = 80
)

func (o *Orchestrator) isFilibuster(r PlayerResponse, state *ConversationState) bool {
	if r.Tone != ToneEvasive && r.Tone != ToneDefensive {
		return false
	}
	if r.WordCount <= filibusterFloor {
		return false
	}
	// Running average over earlier responses only; the current one is
	// already appended.
	avg := state.averageWordCount(len(state.Responses) - 1)
	return avg > 0 && float64(r.WordCount) > filibusterRatio*avg
}

// isDeflecting checks for deflection keywords sustained over at least two of
// the last three turns.
func (o *Orchestrator) isDeflecting(state *ConversationState) bool {
	recent := state.lastResponses(3)
	if len(recent) < 2 {
		return false
	}
	hits := 0
	for _, prev := range recent {
		if containsAnyFold(prev.Text, deflectionKeywords) {
			hits++
		}
	}
	return hits >= 2
}

func (o *Orchestrator) interrupt(trigger, msg, severity string) Action {
	if msg == "" {
		msg = o.personality.intensifyByMood("Let me stop you there.")
	}
	mood := o.personality.MoodState().Mood
	o.interruptions = append(o.interruptions, InterruptionRecord{
		Trigger: trigger,
		Message: msg,
		Turn:    o.personality.Turn(),
		Mood:    mood,
		At:      o.now(),
	})
	o.lastInterruptTurn = o.personality.Turn()
	return Action{
		Kind:    ActionInterruption,
		Content: msg,
		Interruption: &InterruptionMeta{
			Trigger:  trigger,
			Severity: severity,
			Mood:     mood,
		},
	}
}

// ──────────────────────────────────────────────
// Stage 6: declared follow-up rules
// ──────────────────────────────────────────────

func (o *Orchestrator) checkFollowUpRules(r PlayerResponse, q *arc.Question, state *ConversationState) (Action, bool) {
	ctx := o.condContext(r, state)
	for _, rule := range q.FollowUps {
		cond := parseCondition(rule.Condition)
		if !cond.recognized() || !cond.eval(ctx) {
			continue
		}
		if o.rng.Float64() >= rule.Probability {
			continue
		}
		if rule.TargetID != "" {
			target := o.arc.Get(rule.TargetID)
			if target == nil || state.isAnswered(target.ID) {
				continue
			}
			return questionAction(target), true
		}
		if rule.Action != "" {
			if msg := o.dynamicFollowUp(rule.Action, q.Topic); msg != "" {
				return followUpAction(msg, rule.Condition, q.ID), true
			}
		}
	}
	return Action{}, false
}

func (o *Orchestrator) dynamicFollowUp(action, topic string) string {
	tmpl, ok := o.lines.DynamicFollowUps[action]
	if !ok {
		return ""
	}
	if topic == "" {
		topic = "this"
	}
	return strings.ReplaceAll(tmpl, "{topic}", topic)
}

// ──────────────────────────────────────────────
// Stage 7: contradiction challenge
// ──────────────────────────────────────────────

func (o *Orchestrator) contradictionChallenge(r PlayerResponse, state *ConversationState) (Action, bool) {
	prior, ok := state.priorOnTopic(r.Topic)
	if !ok {
		return Action{}, false
	}

	generic := false
	content := o.personality.Memory().GenerateReference(r, o.rng)
	if content == "" {
		content = o.personality.ContextualFollowUp(r)
	}
	if content == "" {
		content = o.personality.AccountabilityChallenge(o.lines)
	}
	if content == "" {
		content = o.lines.pick(o.rng, o.lines.GenericContradiction)
		generic = true
	}

	return Action{
		Kind:    ActionContradiction,
		Content: content,
		Contradiction: &ContradictionMeta{
			Topic:          r.Topic,
			PriorStatement: prior.Text,
			Generic:        generic,
		},
	}, true
}

// ──────────────────────────────────────────────
// Stage 8: conclusion
// ──────────────────────────────────────────────

const (
	walkoutFrustration    = 90
	walkoutInterruptions  = 3
	excellenceAnswerShare = 0.7
	excellenceOverall     = 85
	excellenceConsistency = 90
)

func (o *Orchestrator) conclusionReason(state *ConversationState) (string, bool) {
	if o.arc.NextUnanswered(state.isAnswered) == nil {
		return "completed", true
	}
	if o.personality.Frustration() > walkoutFrustration && len(o.interruptions) > walkoutInterruptions {
		return "walkout", true
	}
	// Only scripted questions count toward the wrap-up share; freeform ids
	// recorded along the way do not.
	answered := 0
	for _, id := range state.Answered {
		if o.arc.Get(id) != nil {
			answered++
		}
	}
	share := float64(answered) / float64(o.arc.Len())
	if share >= excellenceAnswerShare &&
		state.Metrics.Overall > excellenceOverall &&
		state.Metrics.Consistency > excellenceConsistency {
		return "early-excellence", true
	}
	return "", false
}

func (o *Orchestrator) conclude(reason string) Action {
	o.concluded = true
	mood := o.personality.MoodState().Mood
	return Action{
		Kind:    ActionConclusion,
		Content: o.lines.conclusion(o.rng, mood),
		Conclusion: &ConclusionMeta{
			Reason: reason,
			Mood:   mood,
		},
	}
}

// ──────────────────────────────────────────────
// Stage 9 helpers
// ──────────────────────────────────────────────

func (o *Orchestrator) popQueuedFollowUp(r PlayerResponse) (Action, bool) {
	for len(o.followQueue) > 0 {
		item := o.followQueue[0]
		o.followQueue = o.followQueue[1:]

		if item.TargetID != "" {
			if target := o.arc.Get(item.TargetID); target != nil {
				return questionAction(target), true
			}
			continue
		}
		if msg := o.dynamicFollowUp(item.Action, item.Topic); msg != "" {
			return followUpAction(msg, item.Source, r.QuestionID), true
		}
	}
	return Action{}, false
}

func (o *Orchestrator) condContext(r PlayerResponse, state *ConversationState) condContext {
	return condContext{
		response:      r,
		mood:          o.personality.MoodState().Mood,
		frustration:   o.personality.Frustration(),
		evasionStreak: o.evasion.streak,
		metrics:       state.Metrics,
	}
}

func questionAction(q *arc.Question) Action {
	return Action{
		Kind:    ActionQuestion,
		Content: q.Text,
		Question: &QuestionMeta{
			QuestionID: q.ID,
			Topic:      q.Topic,
		},
	}
}

func rapidQuestionAction(q *RapidFireQuestion, st RapidFireStatus) Action {
	return Action{
		Kind:    ActionQuestion,
		Content: q.Text,
		Question: &QuestionMeta{
			Topic:      st.Topic,
			RapidFire:  true,
			Trigger:    st.Trigger,
			Escalation: q.Escalation,
			Remaining:  st.Remaining,
			Expected:   q.Expected,
			TimeLimit:  q.TimeLimit,
		},
	}
}

func followUpAction(content, trigger, questionID string) Action {
	return Action{
		Kind:    ActionFollowUp,
		Content: content,
		FollowUp: &FollowUpMeta{
			Trigger:    trigger,
			QuestionID: questionID,
		},
	}
}
