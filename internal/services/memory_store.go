package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"bcibizz-gateway/internal/models"
)

type memorySession struct {
	items     map[string]string
	accounts  map[string]*models.PayoutAccount
	expiresAt time.Time
}

type memoryCounter struct {
	count     int
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. It backs single-user desktop
// deployments and tests.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	counters map[string]*memoryCounter
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memorySession),
		counters: make(map[string]*memoryCounter),
		now:      time.Now,
	}
}

// session returns a live session, creating it when create is set. Callers hold mu.
func (s *MemoryStore) session(sessionID string, create bool) *memorySession {
	sess, ok := s.sessions[sessionID]
	if ok && !sess.expiresAt.IsZero() && s.now().After(sess.expiresAt) {
		delete(s.sessions, sessionID)
		ok = false
	}
	if !ok && create {
		sess = &memorySession{
			items:     make(map[string]string),
			accounts:  make(map[string]*models.PayoutAccount),
			expiresAt: s.now().Add(TTLSession),
		}
		s.sessions[sessionID] = sess
		ok = true
	}
	if !ok {
		return nil
	}
	return sess
}

func (s *MemoryStore) GetItem(_ context.Context, sessionID, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(sessionID, false)
	if sess == nil {
		return "", nil
	}
	return sess.items[key], nil
}

func (s *MemoryStore) SetItem(_ context.Context, sessionID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session(sessionID, true).items[key] = value
	return nil
}

func (s *MemoryStore) RemoveItem(_ context.Context, sessionID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess := s.session(sessionID, false); sess != nil {
		delete(sess.items, key)
	}
	return nil
}

func (s *MemoryStore) Expire(_ context.Context, sessionID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess := s.session(sessionID, false); sess != nil {
		sess.expiresAt = s.now().Add(ttl)
	}
	return nil
}

func (s *MemoryStore) Destroy(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

func (s *MemoryStore) AddPayoutAccount(_ context.Context, sessionID string, account *models.PayoutAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *account
	s.session(sessionID, true).accounts[account.ID] = &stored
	return nil
}

func (s *MemoryStore) PayoutAccounts(_ context.Context, sessionID string) ([]*models.PayoutAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(sessionID, false)
	if sess == nil {
		return []*models.PayoutAccount{}, nil
	}

	accounts := make([]*models.PayoutAccount, 0, len(sess.accounts))
	for _, account := range sess.accounts {
		copied := *account
		accounts = append(accounts, &copied)
	}
	sortPayoutAccounts(accounts)
	return accounts, nil
}

func (s *MemoryStore) CheckRateLimit(_ context.Context, sessionID, action string, limit int, window time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionID + ":" + action
	now := s.now()
	counter, ok := s.counters[key]
	if !ok || now.After(counter.expiresAt) {
		counter = &memoryCounter{expiresAt: now.Add(window)}
		s.counters[key] = counter
	}
	counter.count++

	return counter.count <= limit, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func sortPayoutAccounts(accounts []*models.PayoutAccount) {
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].ID < accounts[j].ID
	})
}
