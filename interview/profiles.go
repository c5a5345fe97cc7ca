package interview

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// ApproachProfile defines the tunable parameters of an interviewer
// background. All sliders are 0.0-1.0.
type ApproachProfile struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Aggressiveness float64  `json:"aggressiveness"` // appetite for interruptions
	Skepticism     float64  `json:"skepticism"`     // distrust of polished answers
	Empathy        float64  `json:"empathy"`        // warmth toward admissions
	Persistence    float64  `json:"persistence"`    // follow-up drive
	Formality      float64  `json:"formality"`      // register of phrasing
	HotTopics      []string `json:"hotTopics"`      // topics this background presses on
	TriggerWords   []string `json:"triggerWords"`   // phrases that set this background off
}

func (p ApproachProfile) validate() error {
	if p.ID == "" {
		return fmt.Errorf("profile id must not be empty")
	}
	for name, v := range map[string]float64{
		"aggressiveness": p.Aggressiveness,
		"skepticism":     p.Skepticism,
		"empathy":        p.Empathy,
		"persistence":    p.Persistence,
		"formality":      p.Formality,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("profile %s: %s must be in [0,1], got %v", p.ID, name, v)
		}
	}
	return nil
}

// moodTriggers returns the background-specific trigger set appended after
// the base set.
func (p ApproachProfile) moodTriggers() []MoodTrigger {
	var out []MoodTrigger
	if len(p.TriggerWords) > 0 {
		words := p.TriggerWords
		out = append(out, MoodTrigger{
			ID:          p.ID + "-sore-spot",
			Target:      MoodSkeptical,
			Delta:       12,
			Probability: 0.4 + p.Skepticism*0.4,
			When: func(tc triggerContext) bool {
				return containsAnyFold(tc.Response.Text, words)
			},
		})
	}
	if len(p.HotTopics) > 0 {
		topics := p.HotTopics
		out = append(out, MoodTrigger{
			ID:          p.ID + "-beat-instinct",
			Target:      MoodExcited,
			Delta:       18,
			Probability: 0.3 + p.Persistence*0.4,
			When: func(tc triggerContext) bool {
				for _, t := range topics {
					if tc.Response.Topic == t && tc.Response.IsEvasion() {
						return true
					}
				}
				return false
			},
		})
	}
	return out
}

// DefaultProfiles returns the built-in interviewer backgrounds.
func DefaultProfiles() map[string]ApproachProfile {
	return map[string]ApproachProfile{
		"tabloid": {
			ID: "tabloid", Name: "Tabloid Veteran",
			Aggressiveness: 0.85, Skepticism: 0.70, Empathy: 0.15,
			Persistence: 0.75, Formality: 0.20,
			HotTopics:    []string{"scandal", "finances", "personal-conduct"},
			TriggerWords: []string{"no comment", "private matter", "fake news"},
		},
		"broadsheet": {
			ID: "broadsheet", Name: "Broadsheet Political Editor",
			Aggressiveness: 0.55, Skepticism: 0.80, Empathy: 0.35,
			Persistence: 0.85, Formality: 0.75,
			HotTopics:    []string{"policy", "economy", "record"},
			TriggerWords: []string{"as i've always said", "taken out of context"},
		},
		"public-broadcaster": {
			ID: "public-broadcaster", Name: "Public Broadcaster Anchor",
			Aggressiveness: 0.40, Skepticism: 0.65, Empathy: 0.60,
			Persistence: 0.70, Formality: 0.90,
			HotTopics:    []string{"ethics", "integrity", "accountability"},
			TriggerWords: []string{"the real question is", "what people care about"},
		},
		"investigative": {
			ID: "investigative", Name: "Investigative Reporter",
			Aggressiveness: 0.70, Skepticism: 0.95, Empathy: 0.20,
			Persistence: 0.95, Formality: 0.50,
			HotTopics:    []string{"donors", "records", "timeline"},
			TriggerWords: []string{"i don't recall", "before my time", "not aware"},
		},
	}
}

// ProfileRegistry holds interviewer background definitions, loadable from
// JSON so writers can add backgrounds without touching engine code.
type ProfileRegistry struct {
	mu       sync.RWMutex
	profiles map[string]ApproachProfile
}

func NewProfileRegistry() *ProfileRegistry {
	r := &ProfileRegistry{profiles: make(map[string]ApproachProfile)}
	for id, p := range DefaultProfiles() {
		r.profiles[id] = p
	}
	return r
}

func (r *ProfileRegistry) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read profiles file: %w", err)
	}
	return r.LoadFromJSON(data)
}

func (r *ProfileRegistry) LoadFromJSON(data []byte) error {
	var list []ApproachProfile
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("parse profiles JSON: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range list {
		if err := p.validate(); err != nil {
			return err
		}
		r.profiles[p.ID] = p
	}
	return nil
}

func (r *ProfileRegistry) Get(id string) (ApproachProfile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[id]
	return p, ok
}

func (r *ProfileRegistry) All() []ApproachProfile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ApproachProfile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	return out
}
