package auth

import (
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Manager is the in-memory backend for single-binary and test deployments.
// Sessions use a sliding TTL: each successful resolve pushes expiry forward.
type Manager struct {
	mu sync.Mutex

	nextAccountID uint64
	sessionTTL    time.Duration
	sessions      map[string]sessionRecord
	accountsByID  map[uint64]accountRecord
	accountsByKey map[string]uint64 // normalized username -> account
}

type sessionRecord struct {
	AccountID uint64
	ExpiresAt time.Time
}

type accountRecord struct {
	AccountID     uint64
	Username      string
	PasswordHash  []byte
	LastLoginTime time.Time
}

func NewManager() *Manager {
	return &Manager{
		nextAccountID: 100000, // start from a readable non-trivial range
		sessionTTL:    defaultSessionTTL,
		sessions:      make(map[string]sessionRecord),
		accountsByID:  make(map[uint64]accountRecord),
		accountsByKey: make(map[string]uint64),
	}
}

func (m *Manager) Close() error { return nil }

func (m *Manager) issueSessionLocked(accountID uint64, now time.Time) string {
	token := mustToken()
	m.sessions[token] = sessionRecord{
		AccountID: accountID,
		ExpiresAt: now.Add(m.sessionTTL),
	}
	return token
}

// Register creates a new account and returns an authenticated session token.
func (m *Manager) Register(username, password string) (accountID uint64, sessionToken string, err error) {
	if err = validateUsername(username); err != nil {
		return 0, "", err
	}
	if err = validatePassword(password); err != nil {
		return 0, "", err
	}

	normalized := normalizeUsername(username)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.accountsByKey[normalized]; exists {
		return 0, "", ErrUsernameTaken
	}

	m.nextAccountID++
	accountID = m.nextAccountID
	now := time.Now()
	m.accountsByID[accountID] = accountRecord{
		AccountID:     accountID,
		Username:      normalized,
		PasswordHash:  passwordHash,
		LastLoginTime: now,
	}
	m.accountsByKey[normalized] = accountID

	return accountID, m.issueSessionLocked(accountID, now), nil
}

// Login validates credentials and returns a fresh session.
func (m *Manager) Login(username, password string) (accountID uint64, sessionToken string, err error) {
	normalized := normalizeUsername(username)
	if normalized == "" || password == "" {
		return 0, "", ErrInvalidCredentials
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	accountID, exists := m.accountsByKey[normalized]
	if !exists {
		return 0, "", ErrInvalidCredentials
	}
	profile := m.accountsByID[accountID]
	if len(profile.PasswordHash) == 0 {
		return 0, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(profile.PasswordHash, []byte(password)) != nil {
		return 0, "", ErrInvalidCredentials
	}

	now := time.Now()
	profile.LastLoginTime = now
	m.accountsByID[accountID] = profile
	return accountID, m.issueSessionLocked(accountID, now), nil
}

// ResolveSession validates and refreshes a session token.
func (m *Manager) ResolveSession(token string) (accountID uint64, username string, ok bool) {
	if token == "" {
		return 0, "", false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	rec, exists := m.sessions[token]
	if !exists {
		return 0, "", false
	}
	if !now.Before(rec.ExpiresAt) {
		delete(m.sessions, token)
		return 0, "", false
	}
	rec.ExpiresAt = now.Add(m.sessionTTL)
	m.sessions[token] = rec

	profile := m.accountsByID[rec.AccountID]
	return rec.AccountID, profile.Username, true
}

// Logout invalidates a session token.
func (m *Manager) Logout(token string) {
	if token == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}
