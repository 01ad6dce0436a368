// Package state holds the process-wide UI selection: which body part is
// active and whether the sidebar is open. It is a plain in-memory container
// shared by the interaction layer; nothing here is persisted.
package state

import "sync"

type SelectionStore struct {
	mu           sync.RWMutex
	selectedPart string
	sidebarOpen  bool
}

func NewSelectionStore() *SelectionStore {
	return &SelectionStore{}
}

// SelectPart sets the active body part and opens the sidebar.
func (store *SelectionStore) SelectPart(partID string) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.selectedPart = partID
	store.sidebarOpen = true
}

// ClearSelection resets the selection and closes the sidebar.
func (store *SelectionStore) ClearSelection() {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.selectedPart = ""
	store.sidebarOpen = false
}

func (store *SelectionStore) ToggleSidebar() {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.sidebarOpen = !store.sidebarOpen
}

// SelectedPart returns the active body part id, empty when none is selected.
func (store *SelectionStore) SelectedPart() string {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.selectedPart
}

func (store *SelectionStore) SidebarOpen() bool {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.sidebarOpen
}
