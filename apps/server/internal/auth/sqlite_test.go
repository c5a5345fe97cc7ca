package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestSQLiteManager(t *testing.T) *SQLiteManager {
	t.Helper()
	m, err := NewSQLiteManager(":memory:", time.Hour)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestSQLiteRegisterLoginRoundTrip(t *testing.T) {
	m := newTestSQLiteManager(t)

	accountID, token, err := m.Register("bob_02", "hunter22")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if accountID == 0 || token == "" {
		t.Fatalf("got account=%d token=%q", accountID, token)
	}

	resolvedID, username, ok := m.ResolveSession(token)
	if !ok || resolvedID != accountID || username != "bob_02" {
		t.Fatalf("resolve = (%d, %q, %v)", resolvedID, username, ok)
	}

	loginID, loginToken, err := m.Login("bob_02", "hunter22")
	if err != nil || loginID != accountID || loginToken == "" {
		t.Fatalf("login = (%d, %q, %v)", loginID, loginToken, err)
	}
}

func TestSQLiteDuplicateUsername(t *testing.T) {
	m := newTestSQLiteManager(t)
	if _, _, err := m.Register("bob_02", "hunter22"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, err := m.Register("BOB_02", "hunter22"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestSQLiteLogoutRevokesSession(t *testing.T) {
	m := newTestSQLiteManager(t)
	_, token, err := m.Register("bob_02", "hunter22")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	m.Logout(token)
	if _, _, ok := m.ResolveSession(token); ok {
		t.Fatalf("revoked session still resolves")
	}
}

func TestSQLiteWrongPassword(t *testing.T) {
	m := newTestSQLiteManager(t)
	if _, _, err := m.Register("bob_02", "hunter22"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, err := m.Login("bob_02", "not-the-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
