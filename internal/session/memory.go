package session

import (
	"context"
	"sync"
	"time"

	"ticketqr/internal/models"
)

// sweepEvery is how many writes pass between full expiry scans.
const sweepEvery = 256

type memEntry struct {
	state   State
	touched time.Time
}

// MemoryStore keeps sessions in process. Entries idle longer than ttl are
// dropped when next read and by a scan every sweepEvery writes; ttl <= 0
// keeps them forever.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memEntry
	ttl      time.Duration
	now      func() time.Time
	writes   int
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (State, error) {
	if id == "" {
		return State{}, ErrNoID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.lookup(id)
	if e == nil {
		return State{}, nil
	}
	return e.state, nil
}

func (m *MemoryStore) Update(ctx context.Context, id string, fn func(*State) error) (State, error) {
	if id == "" {
		return State{}, ErrNoID
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var st State
	if e := m.lookup(id); e != nil {
		st = e.state
	}
	// fn works on a copy so a failed update leaves the stored state untouched.
	st.Errors = cloneErrors(st.Errors)
	if err := fn(&st); err != nil {
		return State{}, err
	}
	m.sessions[id] = &memEntry{state: st, touched: m.now()}
	m.writes++
	if m.writes%sweepEvery == 0 {
		m.sweep()
	}
	return st, nil
}

func (m *MemoryStore) lookup(id string) *memEntry {
	e, ok := m.sessions[id]
	if !ok {
		return nil
	}
	if m.expired(e) {
		delete(m.sessions, id)
		return nil
	}
	return e
}

func (m *MemoryStore) expired(e *memEntry) bool {
	return m.ttl > 0 && m.now().Sub(e.touched) > m.ttl
}

func (m *MemoryStore) sweep() {
	for id, e := range m.sessions {
		if m.expired(e) {
			delete(m.sessions, id)
		}
	}
}

func cloneErrors(errs models.ValidationErrors) models.ValidationErrors {
	if errs == nil {
		return nil
	}
	out := make(models.ValidationErrors, len(errs))
	for k, v := range errs {
		out[k] = v
	}
	return out
}
