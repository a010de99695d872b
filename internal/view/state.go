package view

import (
	"sync"

	"fintrack/internal/core"
)

// Session holds the per-process view state: the transaction snapshot,
// the active filter and the pagination cursor. All mutation goes
// through its methods, serialized by the mutex, so derivation always
// sees a consistent state.
type Session struct {
	mu       sync.Mutex
	snapshot []core.Transaction
	filter   Filter
	page     int
	size     int
}

// NewSession returns a session with the default filter, page 1 and the
// given page size (falling back to DefaultPageSize when invalid).
func NewSession(size int) *Session {
	if !ValidPageSize(size) {
		size = DefaultPageSize
	}
	return &Session{filter: DefaultFilter(), page: 1, size: size}
}

// Load replaces the snapshot wholesale, keeping filter and page size
// but clamping the page against the new length.
func (s *Session) Load(snapshot []core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = append([]core.Transaction(nil), snapshot...)
	s.clampLocked()
}

// Snapshot returns a copy of the current snapshot.
func (s *Session) Snapshot() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.snapshot...)
}

// Find resolves a transaction by ID against the full snapshot.
func (s *Session) Find(id int64) (core.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.snapshot {
		if tx.ID == id {
			return tx, true
		}
	}
	return core.Transaction{}, false
}

// SetFilter replaces the filter and resets the page to 1. Invalid
// filter types fall back to "all".
func (s *Session) SetFilter(f Filter) {
	if !f.Type.Valid() {
		f.Type = FilterAll
	}
	if f.Category == "" {
		f.Category = CategoryAll
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
	s.page = 1
}

// ResetFilter restores the default filter on tab switch and resets the
// page to 1.
func (s *Session) ResetFilter() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = DefaultFilter()
	s.page = 1
}

// Filter returns the active filter.
func (s *Session) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// SetPageSize changes the page size and resets the page to 1. Sizes
// outside PageSizes are ignored.
func (s *Session) SetPageSize(size int) {
	if !ValidPageSize(size) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.size = size
	s.page = 1
}

// SetPage moves to the given page, clamped against the filtered length.
func (s *Session) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = page
	s.clampLocked()
}

// NextPage advances one page, clamped at the last page.
func (s *Session) NextPage() { s.shift(1) }

// PrevPage steps back one page, clamped at page 1.
func (s *Session) PrevPage() { s.shift(-1) }

func (s *Session) shift(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page += delta
	s.clampLocked()
}

// Page returns the current page and size.
func (s *Session) Page() (page, size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page, s.size
}

// Append adds a server-created transaction to the end of the snapshot.
func (s *Session) Append(tx core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = append(s.snapshot, tx)
}

// Patch replaces the snapshot entry with the same ID. The position is
// resolved by ID so it holds from any view, including the saved table.
// Returns false when the ID is not in the snapshot.
func (s *Session) Patch(tx core.Transaction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.snapshot {
		if s.snapshot[i].ID == tx.ID {
			s.snapshot[i] = tx
			return true
		}
	}
	return false
}

// Remove splices the transaction with the given ID out of the
// snapshot. Returns false when the ID is not present.
func (s *Session) Remove(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.snapshot {
		if s.snapshot[i].ID == id {
			s.snapshot = append(s.snapshot[:i], s.snapshot[i+1:]...)
			s.clampLocked()
			return true
		}
	}
	return false
}

// Tables derives all four render targets from the current state.
func (s *Session) Tables() map[Target]Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RenderAll(s.snapshot, s.filter, s.page, s.size)
}

// Table derives a single render target from the current state.
func (s *Session) Table(target Target) Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RenderTable(target, s.snapshot, s.filter, s.page, s.size)
}

func (s *Session) clampLocked() {
	n := len(DeriveVisible(s.snapshot, s.filter))
	s.page = ClampPage(s.page, n, s.size)
}
