package interview

import (
	"math/rand"
	"testing"
	"time"
)

func newTestMoodMachine(seed int64) *MoodMachine {
	return newMoodMachine(stoicProfile(), rand.New(rand.NewSource(seed)), frozenClock())
}

func TestMoodRejectsIllegalTransition(t *testing.T) {
	mm := newTestMoodMachine(1)
	// There is no neutral -> frustrated edge.
	if mm.apply(MoodTrigger{ID: "x", Target: MoodFrustrated, Delta: 30}) {
		t.Fatal("transition applied without a legal edge")
	}
	if mm.Mood() != MoodNeutral {
		t.Fatalf("mood changed to %v", mm.Mood())
	}
	if len(mm.History()) != 0 {
		t.Fatal("illegal transition logged")
	}
}

func TestMoodIntensityGate(t *testing.T) {
	mm := newTestMoodMachine(1)
	mm.intensity = 10
	// neutral -> excited requires intensity 45 after the delta.
	if mm.apply(MoodTrigger{ID: "x", Target: MoodExcited, Delta: 25}) {
		t.Fatal("transition applied below the edge's intensity floor")
	}
}

func TestMoodApplyUpdatesStability(t *testing.T) {
	mm := newTestMoodMachine(1)
	if !mm.apply(MoodTrigger{ID: "big", Target: MoodExcited, Delta: 45}) {
		t.Fatal("legal transition rejected")
	}
	st := mm.State()
	if st.Mood != MoodExcited || st.Intensity != 70 {
		t.Fatalf("state = %+v", st)
	}
	if st.Stability != 40 {
		t.Fatalf("big jump stability = %d, want 40", st.Stability)
	}
	hist := mm.History()
	if len(hist) != 1 || hist[0].Trigger != "big" || hist[0].From != MoodNeutral {
		t.Fatalf("history = %+v", hist)
	}

	mm = newTestMoodMachine(1)
	if !mm.apply(MoodTrigger{ID: "small", Target: MoodProfessional, Delta: 10}) {
		t.Fatal("legal transition rejected")
	}
	if got := mm.State().Stability; got != 55 {
		t.Fatalf("small jump stability = %d, want 55", got)
	}
}

func TestMoodStabilityBounds(t *testing.T) {
	mm := newTestMoodMachine(1)
	mm.stability = 25
	mm.apply(MoodTrigger{ID: "x", Target: MoodExcited, Delta: 45})
	if got := mm.State().Stability; got != 20 {
		t.Fatalf("stability floor: got %d, want 20", got)
	}

	mm = newTestMoodMachine(1)
	mm.stability = 78
	mm.apply(MoodTrigger{ID: "x", Target: MoodProfessional, Delta: 10})
	if got := mm.State().Stability; got != 80 {
		t.Fatalf("stability ceiling: got %d, want 80", got)
	}
}

func TestMoodHighIntensityDecay(t *testing.T) {
	mm := newTestMoodMachine(1)
	mm.mood = MoodSkeptical
	mm.intensity = 80

	for i := 0; i < 4; i++ {
		mm.decay()
	}
	if mm.intensity != 75 {
		t.Fatalf("after 4 quiet turns intensity = %d, want 75", mm.intensity)
	}
	mm.decay()
	mm.decay()
	if mm.intensity != 70 {
		t.Fatalf("intensity = %d, want 70", mm.intensity)
	}
}

func TestHostileMoodRevertsWhenCold(t *testing.T) {
	mm := newTestMoodMachine(1)
	mm.mood = MoodHostile
	mm.intensity = 39
	mm.decay()
	if mm.Mood() != MoodProfessional {
		t.Fatalf("mood = %v, want professional", mm.Mood())
	}
	hist := mm.History()
	if len(hist) == 0 || hist[len(hist)-1].Trigger != "natural-decay" {
		t.Fatalf("history = %+v", hist)
	}
}

// A caught contradiction should usually flip the interviewer into excited.
func TestContradictionExcitesMood(t *testing.T) {
	const trials = 400
	hits := 0
	for seed := 1; seed <= trials; seed++ {
		mm := newTestMoodMachine(int64(seed))
		r := NewResponse("q1", nwords(20), ToneConfident, time.Now())
		r.ContradictsPrevious = true
		mm.ProcessTurn(r, NewMemoryStore(), 20)
		if mm.Mood() == MoodExcited {
			hits++
		}
	}
	if hits < trials*7/10 {
		t.Fatalf("excited in %d/%d turns, want >= 70%%", hits, trials)
	}
}

// Two evasions in a row should usually turn the interviewer skeptical.
func TestRepeatedEvasionTurnsSkeptical(t *testing.T) {
	const trials = 400
	hits := 0
	for seed := 1; seed <= trials; seed++ {
		mm := newTestMoodMachine(int64(seed))
		mem := NewMemoryStore()
		mm.ProcessTurn(NewResponse("q1", nwords(20), ToneEvasive, time.Now()), mem, 20)
		mm.ProcessTurn(NewResponse("q2", nwords(20), ToneEvasive, time.Now()), mem, 28)
		if mm.Mood() == MoodSkeptical {
			hits++
		}
	}
	if hits < trials*6/10 {
		t.Fatalf("skeptical in %d/%d runs, want >= 60%%", hits, trials)
	}
}

func TestEvasionStreakResetsOnSubstantiveAnswer(t *testing.T) {
	mm := newTestMoodMachine(1)
	mem := NewMemoryStore()
	mm.ProcessTurn(NewResponse("q1", nwords(20), ToneEvasive, time.Now()), mem, 20)
	mm.ProcessTurn(NewResponse("q2", nwords(20), ToneEvasive, time.Now()), mem, 25)
	if mm.EvasionStreak() != 2 {
		t.Fatalf("streak = %d, want 2", mm.EvasionStreak())
	}
	mm.ProcessTurn(NewResponse("q3", nwords(20), ToneConfident, time.Now()), mem, 20)
	if mm.EvasionStreak() != 0 {
		t.Fatalf("streak = %d after substantive answer, want 0", mm.EvasionStreak())
	}
}
