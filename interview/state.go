package interview

// Metrics holds the performance scores owned by the external scorer.
// The engine only reads them (early wrap-up conclusion check).
type Metrics struct {
	Confidence   int
	Consistency  int
	Authenticity int
	Engagement   int
	Overall      int
}

// ConversationState is the per-interview context advanced one response at a
// time. The caller owns it and passes it into every Decide call.
type ConversationState struct {
	Answered  []string
	Responses []PlayerResponse
	Mood      Mood
	Metrics   Metrics

	// Contradictions detected so far, newest last.
	Contradictions []Contradiction

	answeredSet map[string]bool
}

func NewConversationState() *ConversationState {
	return &ConversationState{
		Mood:        MoodNeutral,
		answeredSet: make(map[string]bool),
	}
}

func (s *ConversationState) markAnswered(questionID string) {
	if questionID == "" {
		return
	}
	if s.answeredSet == nil {
		s.answeredSet = make(map[string]bool)
	}
	if s.answeredSet[questionID] {
		return
	}
	s.answeredSet[questionID] = true
	s.Answered = append(s.Answered, questionID)
}

func (s *ConversationState) isAnswered(questionID string) bool {
	return s.answeredSet[questionID]
}

// priorOnTopic returns the most recent earlier response sharing the topic,
// excluding the current turn's response (assumed already appended).
func (s *ConversationState) priorOnTopic(topic string) (PlayerResponse, bool) {
	if topic == "" || len(s.Responses) < 2 {
		return PlayerResponse{}, false
	}
	for i := len(s.Responses) - 2; i >= 0; i-- {
		if s.Responses[i].Topic == topic {
			return s.Responses[i], true
		}
	}
	return PlayerResponse{}, false
}

// averageWordCount is the mean over the first n responses.
func (s *ConversationState) averageWordCount(n int) float64 {
	if n > len(s.Responses) {
		n = len(s.Responses)
	}
	if n <= 0 {
		return 0
	}
	total := 0
	for _, r := range s.Responses[:n] {
		total += r.WordCount
	}
	return float64(total) / float64(n)
}

// lastResponses returns up to n most recent responses, oldest first.
func (s *ConversationState) lastResponses(n int) []PlayerResponse {
	if n <= 0 || len(s.Responses) == 0 {
		return nil
	}
	if n > len(s.Responses) {
		n = len(s.Responses)
	}
	return s.Responses[len(s.Responses)-n:]
}
