package interview

import "testing"

func TestDefaultProfilesValid(t *testing.T) {
	profiles := DefaultProfiles()
	if len(profiles) != 4 {
		t.Fatalf("built-in profiles = %d", len(profiles))
	}
	for id, p := range profiles {
		if err := p.validate(); err != nil {
			t.Fatalf("profile %s invalid: %v", id, err)
		}
	}
}

func TestProfileValidateBounds(t *testing.T) {
	p := ApproachProfile{ID: "x", Aggressiveness: 1.2}
	if err := p.validate(); err == nil {
		t.Fatal("out-of-range slider accepted")
	}
	p = ApproachProfile{Aggressiveness: 0.5}
	if err := p.validate(); err == nil {
		t.Fatal("empty id accepted")
	}
}

func TestProfileRegistryLoadFromJSON(t *testing.T) {
	reg := NewProfileRegistry()
	err := reg.LoadFromJSON([]byte(`[
		{"id": "podcast", "name": "Podcast Host",
		 "aggressiveness": 0.3, "skepticism": 0.4, "empathy": 0.8,
		 "persistence": 0.5, "formality": 0.1,
		 "hotTopics": ["culture"], "triggerWords": ["mainstream media"]}
	]`))
	if err != nil {
		t.Fatal(err)
	}
	p, ok := reg.Get("podcast")
	if !ok || p.Empathy != 0.8 {
		t.Fatalf("loaded profile = %+v, %v", p, ok)
	}
	// Built-ins survive a load.
	if _, ok := reg.Get("tabloid"); !ok {
		t.Fatal("built-in profile lost")
	}
	if len(reg.All()) != 5 {
		t.Fatalf("registry size = %d", len(reg.All()))
	}
}

func TestProfileRegistryRejectsInvalid(t *testing.T) {
	reg := NewProfileRegistry()
	if err := reg.LoadFromJSON([]byte(`[{"id": "bad", "skepticism": 3}]`)); err == nil {
		t.Fatal("invalid profile accepted")
	}
	if err := reg.LoadFromJSON([]byte(`{`)); err == nil {
		t.Fatal("malformed JSON accepted")
	}
}

func TestProfileMoodTriggersReactToSoreSpots(t *testing.T) {
	p := DefaultProfiles()["tabloid"]
	triggers := p.moodTriggers()
	if len(triggers) != 2 {
		t.Fatalf("triggers = %d", len(triggers))
	}

	r := NewResponse("q", "that is a private matter and I will not discuss it", ToneDefensive, frozenClock()())
	soreSpot := triggers[0]
	if soreSpot.Target != MoodSkeptical || !soreSpot.When(triggerContext{Response: r}) {
		t.Fatalf("sore-spot trigger did not match: %+v", soreSpot)
	}

	dodge := evasiveOn("scandal", 3, frozenClock()())
	beat := triggers[1]
	if beat.Target != MoodExcited || !beat.When(triggerContext{Response: dodge}) {
		t.Fatalf("beat-instinct trigger did not match: %+v", beat)
	}
	answered := NewResponse("q", nwords(20), ToneConfident, frozenClock()())
	answered.Topic = "scandal"
	if beat.When(triggerContext{Response: answered}) {
		t.Fatal("beat-instinct fired on a substantive answer")
	}
}
