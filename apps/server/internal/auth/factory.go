package auth

import (
	"fmt"
	"os"
	"strings"
)

const (
	ModeMemory   = "memory"
	ModeSQLite   = "sqlite"
	ModePostgres = "postgres"
)

func modeFromEnv() string {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv("SPINROOM_AUTH_MODE")))
	switch raw {
	case "", ModeSQLite, "local":
		return ModeSQLite
	case ModeMemory, "mem":
		return ModeMemory
	case ModePostgres, "postgresql", "db":
		return ModePostgres
	default:
		return raw
	}
}

// NewServiceFromEnv builds the backend named by SPINROOM_AUTH_MODE
// (memory, sqlite, postgres; default sqlite).
func NewServiceFromEnv() (Service, string, error) {
	mode := modeFromEnv()

	switch mode {
	case ModeMemory:
		return NewManager(), mode, nil
	case ModeSQLite:
		manager, err := NewSQLiteManagerFromEnv()
		if err != nil {
			return nil, mode, err
		}
		return manager, mode, nil
	case ModePostgres:
		manager, err := NewPostgresManagerFromEnv()
		if err != nil {
			return nil, mode, err
		}
		return manager, mode, nil
	default:
		return nil, mode, fmt.Errorf("invalid SPINROOM_AUTH_MODE %q (supported: %s, %s, %s)",
			mode, ModeMemory, ModeSQLite, ModePostgres)
	}
}
