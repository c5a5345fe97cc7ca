package interview

import (
	"testing"
	"time"
)

func TestMarkAnsweredDeduplicates(t *testing.T) {
	s := NewConversationState()
	s.markAnswered("q1")
	s.markAnswered("q1")
	s.markAnswered("q2")
	s.markAnswered("")
	if len(s.Answered) != 2 {
		t.Fatalf("answered = %v", s.Answered)
	}
	if !s.isAnswered("q1") || s.isAnswered("q3") {
		t.Fatal("answered lookup wrong")
	}
}

func TestPriorOnTopicExcludesCurrentTurn(t *testing.T) {
	at := time.Now()
	s := NewConversationState()

	first := NewResponse("q1", nwords(10), ToneConfident, at)
	first.Topic = "health"
	current := NewResponse("q2", nwords(10), ToneConfident, at)
	current.Topic = "health"
	s.Responses = append(s.Responses, first, current)

	got, ok := s.priorOnTopic("health")
	if !ok || got.QuestionID != "q1" {
		t.Fatalf("prior = %+v, %v", got, ok)
	}

	if _, ok := s.priorOnTopic("economy"); ok {
		t.Fatal("found prior on untouched topic")
	}

	// The lone current response has no prior.
	s.Responses = s.Responses[1:]
	if _, ok := s.priorOnTopic("health"); ok {
		t.Fatal("current response treated as its own prior")
	}
}

func TestAverageWordCount(t *testing.T) {
	at := time.Now()
	s := NewConversationState()
	if got := s.averageWordCount(3); got != 0 {
		t.Fatalf("empty state average = %v", got)
	}
	for _, wc := range []int{10, 20, 30} {
		s.Responses = append(s.Responses, NewResponse("q", nwords(wc), ToneConfident, at))
	}
	if got := s.averageWordCount(2); got != 15 {
		t.Fatalf("first-two average = %v, want 15", got)
	}
	if got := s.averageWordCount(10); got != 20 {
		t.Fatalf("clamped average = %v, want 20", got)
	}
}

func TestIsEvasion(t *testing.T) {
	at := time.Now()
	cases := []struct {
		tone Tone
		wc   int
		want bool
	}{
		{ToneEvasive, 30, true},
		{ToneConfident, 3, true},
		{ToneDefensive, 60, true},
		{ToneDefensive, 40, false},
		{ToneConfident, 20, false},
		{ToneDiplomatic, 8, false},
	}
	for _, tc := range cases {
		r := NewResponse("q", nwords(tc.wc), tc.tone, at)
		if got := r.IsEvasion(); got != tc.want {
			t.Fatalf("IsEvasion(%v, %d words) = %v, want %v", tc.tone, tc.wc, got, tc.want)
		}
	}
}

func TestTruncateQuote(t *testing.T) {
	long := nwords(60)
	got := truncateQuote(long, 40)
	if len(got) > 44 {
		t.Fatalf("truncated quote too long: %q", got)
	}
	if got[len(got)-3:] != "..." {
		t.Fatalf("no ellipsis: %q", got)
	}
	if truncateQuote("short", 40) != "short" {
		t.Fatal("short quote altered")
	}
}

func TestClampScore(t *testing.T) {
	if clampScore(-5) != 0 || clampScore(105) != 100 || clampScore(50) != 50 {
		t.Fatal("clamp broken")
	}
}
