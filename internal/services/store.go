package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store holds generated download files per interactive session: a mapping
// from generated filename to bytes, scoped to a session ID. A new action in
// the same session replaces whatever the previous action produced. Sessions
// untouched for longer than ttl are dropped on the next write.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
}

type session struct {
	files   map[string][]byte
	order   []string
	touched time.Time
}

// NewStore creates a session store. ttl <= 0 disables expiry.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// NewSession allocates a fresh session ID.
func (s *Store) NewSession() string {
	return uuid.NewString()
}

// Put replaces the session's files with the given set. Stale sessions are
// swept on every write so the store cannot grow without bound.
func (s *Store) Put(sessionID string, files []OutputFile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	sess := &session{
		files:   make(map[string][]byte, len(files)),
		touched: s.now(),
	}
	for _, f := range files {
		if _, dup := sess.files[f.Name]; !dup {
			sess.order = append(sess.order, f.Name)
		}
		sess.files[f.Name] = f.Data
	}
	s.sessions[sessionID] = sess
}

// Get returns the named file from a session.
func (s *Store) Get(sessionID, name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	data, ok := sess.files[name]
	return data, ok
}

// List returns the session's filenames in the order they were produced.
func (s *Store) List(sessionID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	return append([]string(nil), sess.order...)
}

// Files returns the session's files in production order.
func (s *Store) Files(sessionID string) []OutputFile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	files := make([]OutputFile, 0, len(sess.order))
	for _, name := range sess.order {
		files = append(files, OutputFile{Name: name, Data: sess.files[name]})
	}
	return files
}

// Clear drops a session and everything it holds. This is the reset action.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// sweepLocked removes expired sessions; caller holds the write lock.
func (s *Store) sweepLocked() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.touched.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
