package arc

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Registry holds loaded arcs keyed by name, so content packs can be edited
// without touching engine code.
type Registry struct {
	mu   sync.RWMutex
	arcs map[string]*Arc
}

func NewRegistry() *Registry {
	return &Registry{arcs: make(map[string]*Arc)}
}

type wireArc struct {
	Name      string       `json:"name"`
	Scenario  ScenarioKind `json:"scenario"`
	Questions []Question   `json:"questions"`
}

// LoadFromFile loads arcs from a JSON file containing a list of arcs.
func (r *Registry) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read arcs file: %w", err)
	}
	return r.LoadFromJSON(data)
}

func (r *Registry) LoadFromJSON(data []byte) error {
	var list []wireArc
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("parse arcs JSON: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range list {
		if w.Name == "" || len(w.Questions) == 0 {
			continue
		}
		r.arcs[w.Name] = New(w.Scenario, w.Questions)
	}
	return nil
}

func (r *Registry) Register(name string, a *Arc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.arcs[name] = a
}

func (r *Registry) Get(name string) *Arc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.arcs[name]
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.arcs))
	for name := range r.arcs {
		out = append(out, name)
	}
	return out
}

// ByScenario returns the first registered arc for a scenario kind, or nil.
func (r *Registry) ByScenario(kind ScenarioKind) *Arc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.arcs {
		if a.Scenario == kind {
			return a
		}
	}
	return nil
}
