package interview

import (
	"math/rand"
	"strings"
	"testing"
)

func TestLoadLinePackOverridesSelectively(t *testing.T) {
	pack, err := LoadLinePack([]byte(`{"urgency": ["Right now -"]}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(pack.Urgency) != 1 || pack.Urgency[0] != "Right now -" {
		t.Fatalf("urgency = %v", pack.Urgency)
	}
	// Untouched sections keep the built-in copy.
	if len(pack.Accountability) == 0 {
		t.Fatal("accountability lines lost")
	}
	if pack.Confrontations["direct-contradiction"] == nil {
		t.Fatal("confrontation lines lost")
	}
}

func TestLoadLinePackRejectsBadJSON(t *testing.T) {
	if _, err := LoadLinePack([]byte(`{`)); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestConfrontationFallsBackToDefaultTheme(t *testing.T) {
	lp := DefaultLinePack()
	rng := rand.New(rand.NewSource(1))

	// policy-flip has no dedicated section in the built-in pack.
	line := lp.confrontation(rng, GotchaPolicyFlip, ConfrontFirm)
	if line == "" {
		t.Fatal("no fallback confrontation line")
	}
	found := false
	for _, want := range lp.Confrontations["default"]["firm"] {
		if line == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("line %q not from the default theme", line)
	}
}

func TestGotchaFollowUpFallback(t *testing.T) {
	lp := DefaultLinePack()
	rng := rand.New(rand.NewSource(1))
	line := lp.gotchaFollowUp(rng, GotchaFactError)
	if line != lp.GotchaFollowUps["default"][0] {
		t.Fatalf("line = %q", line)
	}
}

func TestConclusionFallsBackToProfessional(t *testing.T) {
	lp := DefaultLinePack()
	rng := rand.New(rand.NewSource(1))
	line := lp.conclusion(rng, Mood(99))
	if !strings.Contains(line, "Thank you for your time") {
		t.Fatalf("line = %q", line)
	}
}

func TestPickEmptyAndSingle(t *testing.T) {
	lp := DefaultLinePack()
	rng := rand.New(rand.NewSource(1))
	if got := lp.pick(rng, nil); got != "" {
		t.Fatalf("pick(nil) = %q", got)
	}
	if got := lp.pick(rng, []string{"only"}); got != "only" {
		t.Fatalf("pick(single) = %q", got)
	}
}
