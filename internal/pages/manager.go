package pages

import "sync"

// Manager serializes pollers per repository: starting a new poll for a
// repository cancels and joins any poller already tracking it.
type Manager struct {
	mu     sync.Mutex
	active map[string]*Poller
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{active: make(map[string]*Poller)}
}

// Track starts poller for the repository, replacing any existing one.
func (m *Manager) Track(repo string, poller *Poller) {
	m.mu.Lock()
	previous := m.active[repo]
	m.active[repo] = poller
	m.mu.Unlock()

	if previous != nil {
		previous.Cancel()
		previous.Wait()
	}
	poller.Start()
}

// Active returns the poller currently tracking the repository, if any.
func (m *Manager) Active(repo string) (*Poller, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	poller, ok := m.active[repo]
	return poller, ok
}

// CancelAll cancels and joins every tracked poller, e.g. at shutdown.
func (m *Manager) CancelAll() {
	m.mu.Lock()
	pollers := make([]*Poller, 0, len(m.active))
	for _, poller := range m.active {
		pollers = append(pollers, poller)
	}
	m.active = make(map[string]*Poller)
	m.mu.Unlock()

	for _, poller := range pollers {
		poller.Cancel()
		poller.Wait()
	}
}
