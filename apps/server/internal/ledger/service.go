// Package ledger persists finished interviews: a summary row per interview
// plus the full event tape, with a small LRU in front of tape reads.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"spinroom/transcript"
)

const (
	defaultRecentLimit   = 200
	defaultTapeCacheSize = 128
)

var ErrNotFound = errors.New("not found")

// HistoryItem is one row in a player's interview history.
type HistoryItem struct {
	Summary  transcript.Summary `json:"summary"`
	PlayedAt time.Time          `json:"played_at"`
}

type Service interface {
	Close() error

	// SaveInterview stores the summary and tape for one finished interview.
	// Called from the booth's run loop after the conclusion action.
	SaveInterview(ctx context.Context, userID uint64, sum transcript.Summary, tape *transcript.Tape, playedAt time.Time) error

	ListRecent(ctx context.Context, userID uint64, limit int) ([]HistoryItem, error)
	GetTape(ctx context.Context, userID uint64, interviewID string) (*transcript.Tape, error)
}

// NewServiceFromEnv picks the backend matching the auth mode, so a
// single-binary deployment gets one storage story.
func NewServiceFromEnv(authMode string) (Service, string, error) {
	mode := strings.ToLower(strings.TrimSpace(authMode))
	switch mode {
	case "memory", "mem":
		return &noopService{}, "memory-noop", nil
	case "postgres", "postgresql", "db":
		svc, err := NewPostgresServiceFromEnv()
		if err != nil {
			return nil, "", err
		}
		return withTapeCache(svc), "postgres", nil
	default:
		svc, err := NewSQLiteServiceFromEnv()
		if err != nil {
			return nil, "", err
		}
		return withTapeCache(svc), "sqlite", nil
	}
}

type noopService struct{}

func (n *noopService) Close() error { return nil }

func (n *noopService) SaveInterview(context.Context, uint64, transcript.Summary, *transcript.Tape, time.Time) error {
	return nil
}

func (n *noopService) ListRecent(context.Context, uint64, int) ([]HistoryItem, error) {
	return []HistoryItem{}, nil
}

func (n *noopService) GetTape(context.Context, uint64, string) (*transcript.Tape, error) {
	return nil, ErrNotFound
}

// cachedService fronts tape reads with an LRU. Replay viewers re-fetch the
// same tape repeatedly while scrubbing, which is pure cache traffic.
type cachedService struct {
	Service
	tapes *lru.Cache[tapeKey, *transcript.Tape]
}

type tapeKey struct {
	userID      uint64
	interviewID string
}

func withTapeCache(inner Service) Service {
	size := envIntOrDefault("SPINROOM_TAPE_CACHE_SIZE", defaultTapeCacheSize)
	cache, err := lru.New[tapeKey, *transcript.Tape](size)
	if err != nil {
		// Only fails for size <= 0; fall back to the raw service.
		return inner
	}
	return &cachedService{Service: inner, tapes: cache}
}

func (c *cachedService) SaveInterview(ctx context.Context, userID uint64, sum transcript.Summary, tape *transcript.Tape, playedAt time.Time) error {
	if err := c.Service.SaveInterview(ctx, userID, sum, tape, playedAt); err != nil {
		return err
	}
	c.tapes.Add(tapeKey{userID: userID, interviewID: sum.ID}, tape)
	return nil
}

func (c *cachedService) GetTape(ctx context.Context, userID uint64, interviewID string) (*transcript.Tape, error) {
	key := tapeKey{userID: userID, interviewID: interviewID}
	if tape, ok := c.tapes.Get(key); ok {
		return tape, nil
	}
	tape, err := c.Service.GetTape(ctx, userID, interviewID)
	if err != nil {
		return nil, err
	}
	c.tapes.Add(key, tape)
	return tape, nil
}

func validateSave(userID uint64, sum transcript.Summary, tape *transcript.Tape) error {
	if userID == 0 {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(sum.ID) == "" {
		return fmt.Errorf("interview id is required")
	}
	if tape == nil {
		return fmt.Errorf("tape is required")
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}

func envIntOrDefault(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
