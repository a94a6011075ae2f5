package session

import "sync"

// Pending marks what the conversation is waiting for from the user.
type Pending int

const (
	PendingNone Pending = iota
	PendingLocationForStart
)

// RowRef caches which ledger row holds the user's unfinished start.
// It is never authoritative: the date must match today before use,
// otherwise the caller falls back to a full ledger scan.
type RowRef struct {
	Index int    // 1-based sheet row, as returned by the append
	Date  string // YYYY-MM-DD the row was appended on
}

// Session is the per-identity conversation state. In-memory only;
// a process restart costs nothing but a re-authorization.
type Session struct {
	Authorized bool
	Phone      string
	Pending    Pending
	OpenRow    *RowRef
}

type entry struct {
	mu sync.Mutex
	s  Session
}

// Store holds one Session per telegram identity. Access goes through Do,
// which serializes all work for the same identity while letting different
// identities proceed independently.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// Do runs fn with exclusive ownership of the identity's Session, creating
// it on first contact. The per-key lock is held for the whole critical
// section, including any ledger check-then-act the caller performs inside.
func (st *Store) Do(id string, fn func(*Session)) {
	st.mu.Lock()
	e, ok := st.entries[id]
	if !ok {
		e = &entry{}
		st.entries[id] = e
	}
	st.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.s)
}

// Len reports how many identities have contacted the bot this run.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.entries)
}
