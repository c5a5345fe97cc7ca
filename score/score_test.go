package score

import (
	"strings"
	"testing"
	"time"

	"spinroom/interview"
)

func response(tone interview.Tone, wc int) interview.PlayerResponse {
	words := make([]string, wc)
	for i := range words {
		words[i] = "w"
	}
	return interview.NewResponse("q", strings.Join(words, " "), tone, time.Unix(0, 0))
}

func TestConfidentAnswersScoreHigh(t *testing.T) {
	tr := NewTracker()
	var m interview.Metrics
	for i := 0; i < 5; i++ {
		m = tr.Observe(response(interview.ToneConfident, 25), interview.Snapshot{})
	}
	if m.Confidence != 90 {
		t.Fatalf("confidence = %d, want 90", m.Confidence)
	}
	if m.Consistency != 85 || m.Authenticity != 70 {
		t.Fatalf("metrics = %+v", m)
	}
	if m.Overall < 70 {
		t.Fatalf("overall = %d, want >= 70", m.Overall)
	}
	if tr.Turns() != 5 {
		t.Fatalf("turns = %d", tr.Turns())
	}
}

func TestContradictionCratersConsistency(t *testing.T) {
	tr := NewTracker()
	tr.Observe(response(interview.ToneConfident, 25), interview.Snapshot{})

	r := response(interview.ToneConfident, 25)
	r.ContradictsPrevious = true
	m := tr.Observe(r, interview.Snapshot{Memory: interview.MemoryStats{Contradictions: 1}})

	// (85 + 15) / 2
	if m.Consistency != 50 {
		t.Fatalf("consistency = %d, want 50", m.Consistency)
	}
	if m.Authenticity >= 70 {
		t.Fatalf("authenticity = %d, should drop on contradiction", m.Authenticity)
	}
}

func TestEvasionDragsEverything(t *testing.T) {
	tr := NewTracker()
	var m interview.Metrics
	for i := 0; i < 4; i++ {
		m = tr.Observe(response(interview.ToneEvasive, 3), interview.Snapshot{EvasionStreak: i + 1})
	}
	if m.Confidence != 10 {
		t.Fatalf("confidence = %d, want 10", m.Confidence)
	}
	if m.Engagement != 25 || m.Authenticity != 25 {
		t.Fatalf("metrics = %+v", m)
	}
	if m.Overall >= 50 {
		t.Fatalf("overall = %d, want < 50", m.Overall)
	}
}

func TestMetricsStayInRange(t *testing.T) {
	tr := NewTracker()
	for i := 0; i < 20; i++ {
		r := response(interview.ToneEvasive, 2)
		r.ContradictsPrevious = true
		m := tr.Observe(r, interview.Snapshot{
			EvasionStreak: 20,
			Memory:        interview.MemoryStats{Contradictions: 20},
		})
		for name, v := range map[string]int{
			"confidence": m.Confidence, "consistency": m.Consistency,
			"authenticity": m.Authenticity, "engagement": m.Engagement,
			"overall": m.Overall,
		} {
			if v < 0 || v > 100 {
				t.Fatalf("%s = %d out of range", name, v)
			}
		}
	}
}

func TestGradeBands(t *testing.T) {
	cases := map[int]string{
		95: "commanding",
		85: "commanding",
		70: "solid",
		55: "shaky",
		35: "damaging",
		10: "career-ending",
	}
	for overall, want := range cases {
		if got := Grade(overall); got != want {
			t.Fatalf("Grade(%d) = %q, want %q", overall, got, want)
		}
	}
}
