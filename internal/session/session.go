package session

import (
	"sync"

	"github.com/abhishekjatav/dukaan/internal/domain/models"
)

// State is one operator's in-progress checkout: the accumulating cart plus the
// optionally attached customer and coupon. It lives only between the first
// add-to-cart and the commit (or an explicit clear).
type State struct {
	Cart     models.Cart
	Customer *models.Customer
	Coupon   *models.Coupon
}

// Manager tracks checkout state per operator. State is process-local; there
// is no cross-process sharing.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]State
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]State)}
}

// Get retrieves the current state for an operator, empty when none exists.
func (m *Manager) Get(operatorID string) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[operatorID]
}

// Update replaces the state for an operator.
func (m *Manager) Update(operatorID string, state State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[operatorID] = state
}

// Clear removes an operator's state.
func (m *Manager) Clear(operatorID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, operatorID)
}
