package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is the in-memory Store used by tests and single-process
// deployments. Each session carries its own lock, so concurrent
// AddQuestion/RecordAnswer calls on one session serialize without
// blocking unrelated sessions.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memEntry

	// now is swappable for deterministic time in tests.
	now func() time.Time
}

type memEntry struct {
	mu sync.Mutex
	s  *Session
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memEntry),
		now:      time.Now,
	}
}

func (m *MemoryStore) Create(_ context.Context, params CreateParams) (*Session, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	now := m.now()
	s := &Session{
		ID:         uuid.NewString(),
		Owner:      params.Owner,
		Type:       params.Type,
		Role:       params.Role,
		TechStack:  append([]string(nil), params.TechStack...),
		Experience: params.Experience,
		Persona:    params.Persona,
		Status:     StatusActive,
		Questions:  []Question{},
		Answers:    []Answer{},
		CreatedAt:  now,
		StartedAt:  now,
	}

	m.mu.Lock()
	m.sessions[s.ID] = &memEntry{s: s}
	m.mu.Unlock()

	return s.clone(), nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	entry, err := m.entry(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.s.clone(), nil
}

func (m *MemoryStore) AddQuestion(_ context.Context, id string, q Question) error {
	entry, err := m.entry(id)
	if err != nil {
		return err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.s.Questions = append(entry.s.Questions, q)
	return nil
}

func (m *MemoryStore) RecordAnswer(_ context.Context, id string, a Answer) (Progress, error) {
	entry, err := m.entry(id)
	if err != nil {
		return Progress{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	s := entry.s
	if len(s.Answers) >= len(s.Questions) {
		return Progress{}, &ValidationError{Field: "answer", Message: "no pending question to answer"}
	}

	s.Answers = append(s.Answers, a)
	s.CurrentQuestionIndex = len(s.Answers)

	return progressOf(s), nil
}

func (m *MemoryStore) Complete(_ context.Context, id string) (*Session, error) {
	entry, err := m.entry(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	s := entry.s
	if s.Status == StatusCompleted {
		// Idempotent: the end time and duration are never recomputed.
		return s.clone(), nil
	}

	s.Status = StatusCompleted
	s.EndedAt = m.now()
	s.Duration = FormatDuration(s.EndedAt.Sub(s.StartedAt))

	return s.clone(), nil
}

func (m *MemoryStore) ListByOwner(_ context.Context, owner string, limit, offset int) ([]*Session, error) {
	m.mu.RLock()
	var owned []*Session
	for _, entry := range m.sessions {
		entry.mu.Lock()
		if entry.s.Owner == owner {
			owned = append(owned, entry.s.clone())
		}
		entry.mu.Unlock()
	}
	m.mu.RUnlock()

	sort.Slice(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	return pageSlice(owned, limit, offset), nil
}

func (m *MemoryStore) entry(id string) (*memEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return entry, nil
}

func progressOf(s *Session) Progress {
	denom := len(s.Questions)
	if denom < 1 {
		denom = 1
	}
	return Progress{
		Ratio:        float64(len(s.Answers)) / float64(denom),
		CurrentIndex: s.CurrentQuestionIndex,
	}
}

func pageSlice(sessions []*Session, limit, offset int) []*Session {
	if offset >= len(sessions) {
		return []*Session{}
	}
	sessions = sessions[offset:]
	if limit > 0 && limit < len(sessions) {
		sessions = sessions[:limit]
	}
	return sessions
}
