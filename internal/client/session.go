package client

import "sync"

// Storage keys, fixed to match the names the web client persisted under.
const (
	KeySessionToken = "sessionToken"
	KeyUserID       = "userId"
	KeyUserFullName = "userFullName"
	KeyUserEmail    = "userEmail"
)

// Storage is session-scoped key/value storage for the credential and
// identity. Implementations need not be safe for concurrent use; the Store
// serializes access.
type Storage interface {
	Get(key string) string
	Set(key, value string)
	Clear()
}

// MemoryStorage is the in-process Storage used by the TUI.
type MemoryStorage struct {
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (s *MemoryStorage) Get(key string) string { return s.values[key] }

func (s *MemoryStorage) Set(key, value string) { s.values[key] = value }

func (s *MemoryStorage) Clear() { s.values = make(map[string]string) }

// Store holds the one live Session per process. Mutation happens only through
// Establish, Logout and Expire; every other component reads.
type Store struct {
	mu          sync.Mutex
	storage     Storage
	established []func(Session)
	expired     []func()
}

// NewStore creates a session store over the given storage.
func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Current returns the live session, if any.
func (s *Store) Current() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := s.storage.Get(KeySessionToken)
	userID := s.storage.Get(KeyUserID)
	if token == "" || userID == "" {
		return Session{}, false
	}
	return Session{
		UserID:   userID,
		Token:    token,
		FullName: s.storage.Get(KeyUserFullName),
		Email:    s.storage.Get(KeyUserEmail),
	}, true
}

// Token returns the bearer credential, or "" when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.Get(KeySessionToken)
}

// Establish records a session after a successful login or signup and fires
// the OnEstablished hooks (channel initialization hangs off these).
func (s *Store) Establish(sess Session) {
	s.mu.Lock()
	s.storage.Set(KeySessionToken, sess.Token)
	s.storage.Set(KeyUserID, sess.UserID)
	s.storage.Set(KeyUserFullName, sess.FullName)
	s.storage.Set(KeyUserEmail, sess.Email)
	hooks := append([]func(Session){}, s.established...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(sess)
	}
}

// Logout clears the session without firing expiry hooks.
func (s *Store) Logout() {
	s.mu.Lock()
	s.storage.Clear()
	s.mu.Unlock()
}

// Expire is the single path by which a 401 becomes a full logout: it clears
// the session and fires the OnExpired hooks.
func (s *Store) Expire() {
	s.mu.Lock()
	s.storage.Clear()
	hooks := append([]func(){}, s.expired...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// OnEstablished registers a hook run after every successful login or signup.
func (s *Store) OnEstablished(fn func(Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.established = append(s.established, fn)
}

// OnExpired registers a hook run when the gateway observes a 401.
func (s *Store) OnExpired(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expired = append(s.expired, fn)
}
