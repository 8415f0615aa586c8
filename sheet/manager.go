package sheet

import (
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/maruel/natural"
)

// Manager holds the open sheets and which one is active. The registry is
// safe for concurrent use; the sheets it holds are not.
type Manager struct {
	mu     sync.RWMutex
	sheets map[uuid.UUID]*Sheet
	active uuid.UUID
}

func NewManager() *Manager {
	return &Manager{sheets: make(map[uuid.UUID]*Sheet)}
}

// Open loads path and registers the sheet. The first sheet becomes active.
func (m *Manager) Open(path string, opts Options) (*Sheet, error) {
	s, err := Load(path, opts)
	if err != nil {
		return nil, err
	}
	m.Add(s)
	return s, nil
}

// Add registers an already loaded sheet.
func (m *Manager) Add(s *Sheet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sheets[s.ID] = s
	if m.active == uuid.Nil {
		m.active = s.ID
	}
}

// Remove closes a sheet. When it was active another open sheet, if any,
// takes its place.
func (m *Manager) Remove(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sheets[id]; !ok {
		return false
	}
	delete(m.sheets, id)
	if m.active == id {
		m.active = uuid.Nil
		if rest := m.sortedLocked(); len(rest) > 0 {
			m.active = rest[0].ID
		}
	}
	return true
}

func (m *Manager) Get(id uuid.UUID) (*Sheet, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sheets[id]
	return s, ok
}

// Active returns the active sheet, or nil when none is open.
func (m *Manager) Active() *Sheet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sheets[m.active]
}

func (m *Manager) SetActive(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sheets[id]; !ok {
		return false
	}
	m.active = id
	return true
}

// List returns the open sheets ordered by name (natural, case-insensitive).
func (m *Manager) List() []*Sheet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedLocked()
}

func (m *Manager) sortedLocked() []*Sheet {
	out := make([]*Sheet, 0, len(m.sheets))
	for _, s := range m.sheets {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b *Sheet) int {
		an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
		switch {
		case an != bn && natural.Less(an, bn):
			return -1
		case an != bn:
			return 1
		default:
			return strings.Compare(a.ID.String(), b.ID.String())
		}
	})
	return out
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sheets)
}

// MemoryUsage sums the pixel buffers of every open sheet.
func (m *Manager) MemoryUsage() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0
	for _, s := range m.sheets {
		total += s.MemoryUsage()
	}
	return total
}

// ValidateAll returns the grid warnings of every sheet that has any.
func (m *Manager) ValidateAll() map[uuid.UUID][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[uuid.UUID][]string)
	for id, s := range m.sheets {
		if w := s.Validate(); len(w) > 0 {
			out[id] = w
		}
	}
	return out
}

func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.sheets)
	m.active = uuid.Nil
}
