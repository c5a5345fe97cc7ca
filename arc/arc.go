// Package arc holds the question-arc content consumed by the interview
// engine: scripted questions with their declared interruption triggers and
// follow-up rules. It is a content layer; no decision logic lives here.
package arc

// ScenarioKind names the interview setting an arc was written for.
type ScenarioKind string

const (
	ScenarioScandal       ScenarioKind = "scandal"
	ScenarioPolicyLaunch  ScenarioKind = "policy-launch"
	ScenarioInvestigative ScenarioKind = "investigative"
	ScenarioLateCampaign  ScenarioKind = "late-campaign"
)

// QuestionType is a coarse classification used by the engine's heuristics.
type QuestionType string

const (
	QuestionOpening   QuestionType = "opening"
	QuestionPolicy    QuestionType = "policy"
	QuestionChallenge QuestionType = "challenge"
	QuestionPersonal  QuestionType = "personal"
	QuestionClosing   QuestionType = "closing"
)

// InterruptionTrigger is a writer-declared cut-in: if Condition holds (or,
// for unrecognized conditions, a Probability roll succeeds), the interviewer
// interrupts with Message and queues the named follow-up Action.
type InterruptionTrigger struct {
	Condition   string  `json:"condition"`
	Message     string  `json:"message"`
	Probability float64 `json:"probability"`
	Action      string  `json:"action,omitempty"`
}

// FollowUpRule either jumps to a named question (TargetID) or synthesizes a
// dynamic follow-up keyed by Action. Each rule carries its own probability.
type FollowUpRule struct {
	Condition   string  `json:"condition"`
	TargetID    string  `json:"targetId,omitempty"`
	Action      string  `json:"action,omitempty"`
	Probability float64 `json:"probability"`
}

type Question struct {
	ID            string                `json:"id"`
	Text          string                `json:"text"`
	Topic         string                `json:"topic"`
	Type          QuestionType          `json:"type"`
	Expertise     bool                  `json:"expertise,omitempty"`
	Interruptions []InterruptionTrigger `json:"interruptions,omitempty"`
	FollowUps     []FollowUpRule        `json:"followUps,omitempty"`
}

// Arc is an ordered question list for one interview.
type Arc struct {
	Scenario  ScenarioKind
	Questions []Question

	index map[string]int
}

func New(scenario ScenarioKind, questions []Question) *Arc {
	a := &Arc{
		Scenario:  scenario,
		Questions: questions,
		index:     make(map[string]int, len(questions)),
	}
	for i, q := range questions {
		a.index[q.ID] = i
	}
	return a
}

// Get returns the question by id, or nil for unknown ids.
func (a *Arc) Get(id string) *Question {
	i, ok := a.index[id]
	if !ok {
		return nil
	}
	return &a.Questions[i]
}

// NextUnanswered returns the first scripted question not yet answered.
func (a *Arc) NextUnanswered(answered func(id string) bool) *Question {
	for i := range a.Questions {
		if !answered(a.Questions[i].ID) {
			return &a.Questions[i]
		}
	}
	return nil
}

func (a *Arc) Len() int { return len(a.Questions) }
