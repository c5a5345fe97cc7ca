// Package lobby owns the live booths: one per player, created on demand
// from the scenario and profile catalogs and reaped once idle.
package lobby

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"spinroom/apps/server/internal/booth"
	"spinroom/apps/server/internal/ledger"
	"spinroom/arc"
	"spinroom/interview"
)

const (
	boothIdleTTL  = 10 * time.Minute
	reapInterval  = time.Minute
	defaultArc    = "scandal"
	defaultStance = "broadsheet"
)

// Lobby manages all booths and the content catalogs behind them.
type Lobby struct {
	mu     sync.RWMutex
	booths map[uint64]*booth.Booth // userID -> live booth

	arcs     *arc.Registry
	profiles *interview.ProfileRegistry
	ledger   ledger.Service

	done chan struct{}
}

// New creates a lobby with the built-in scenario and profile catalogs,
// optionally extended from content files named in the environment.
func New(ledgerService ledger.Service) *Lobby {
	l := &Lobby{
		booths:   make(map[uint64]*booth.Booth),
		arcs:     builtinArcs(),
		profiles: interview.NewProfileRegistry(),
		ledger:   ledgerService,
		done:     make(chan struct{}),
	}
	if path := strings.TrimSpace(os.Getenv("SPINROOM_ARCS_PATH")); path != "" {
		if err := l.arcs.LoadFromFile(path); err != nil {
			log.Printf("[Lobby] Failed to load arcs from %s: %v", path, err)
		}
	}
	if path := strings.TrimSpace(os.Getenv("SPINROOM_PROFILES_PATH")); path != "" {
		if err := l.profiles.LoadFromFile(path); err != nil {
			log.Printf("[Lobby] Failed to load profiles from %s: %v", path, err)
		}
	}
	go l.reapLoop()
	return l
}

func builtinArcs() *arc.Registry {
	r := arc.NewRegistry()
	r.Register("scandal", arc.Scandal())
	r.Register("policy-launch", arc.PolicyLaunch())
	r.Register("investigative", arc.Investigative())
	r.Register("late-campaign", arc.LateCampaign())
	return r
}

// StartInterview finds the player's live booth or creates one. A player has
// at most one interview running at a time; starting over an unfinished one
// resumes it.
func (l *Lobby) StartInterview(
	userID uint64,
	scenario, profile string,
	broadcastFn func(userID uint64, data []byte),
) (*booth.Booth, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.booths[userID]; ok && !b.IsClosed() && !b.Concluded() {
		log.Printf("[Lobby] user %d resuming booth %s", userID, b.ID)
		return b, nil
	}

	a, err := l.lookupArc(scenario)
	if err != nil {
		return nil, err
	}
	cfg, err := l.lookupProfile(profile)
	if err != nil {
		return nil, err
	}

	boothID := "iv_" + uuid.NewString()
	b, err := booth.New(boothID, userID, a, cfg, broadcastFn, l.ledger)
	if err != nil {
		return nil, err
	}
	l.booths[userID] = b

	log.Printf("[Lobby] user %d created booth %s (scenario=%s, profile=%s)",
		userID, boothID, a.Scenario, cfg.Profile.ID)
	return b, nil
}

// GetBooth returns the player's live booth, if any.
func (l *Lobby) GetBooth(userID uint64) *booth.Booth {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.booths[userID]
}

// LeaveInterview stops and removes the player's booth.
func (l *Lobby) LeaveInterview(userID uint64) {
	l.mu.Lock()
	b := l.booths[userID]
	delete(l.booths, userID)
	l.mu.Unlock()

	if b != nil {
		_ = b.SubmitEvent(booth.Event{Type: booth.EventLeave})
		log.Printf("[Lobby] user %d left booth %s", userID, b.ID)
	}
}

// Scenarios lists the available arc names.
func (l *Lobby) Scenarios() []string {
	return l.arcs.Names()
}

// Profiles lists the available interviewer profile ids.
func (l *Lobby) Profiles() []string {
	all := l.profiles.All()
	ids := make([]string, 0, len(all))
	for _, p := range all {
		ids = append(ids, p.ID)
	}
	return ids
}

// Close stops the reaper and every live booth.
func (l *Lobby) Close() {
	close(l.done)

	l.mu.Lock()
	booths := make([]*booth.Booth, 0, len(l.booths))
	for _, b := range l.booths {
		booths = append(booths, b)
	}
	l.booths = make(map[uint64]*booth.Booth)
	l.mu.Unlock()

	for _, b := range booths {
		b.Stop()
	}
}

func (l *Lobby) lookupArc(name string) (*arc.Arc, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = defaultArc
	}
	a := l.arcs.Get(name)
	if a == nil {
		return nil, fmt.Errorf("unknown scenario %q", name)
	}
	return a, nil
}

func (l *Lobby) lookupProfile(id string) (interview.Config, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		id = defaultStance
	}
	p, ok := l.profiles.Get(id)
	if !ok {
		return interview.Config{}, fmt.Errorf("unknown profile %q", id)
	}
	return interview.Config{Profile: p}, nil
}

func (l *Lobby) reapLoop() {
	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.reapIdle()
		case <-l.done:
			return
		}
	}
}

func (l *Lobby) reapIdle() {
	l.mu.Lock()
	var idle []*booth.Booth
	for userID, b := range l.booths {
		if b.IsIdleFor(boothIdleTTL) {
			idle = append(idle, b)
			delete(l.booths, userID)
		}
	}
	l.mu.Unlock()

	for _, b := range idle {
		log.Printf("[Lobby] Reaping idle booth %s", b.ID)
		b.Stop()
	}
}
