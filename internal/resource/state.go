package resource

import "context"

// Items returns a copy of the mirrored records in backend order
func (m *Manager[T]) Items() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]T(nil), m.items...)
}

// Find returns the record with id
func (m *Manager[T]) Find(id string) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.indexOf(id); i >= 0 {
		return m.items[i], true
	}
	var zero T
	return zero, false
}

func (m *Manager[T]) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Loading is true only while the collection is being fetched
func (m *Manager[T]) Loading() bool {
	return m.Status() == StatusLoading
}

// Pending reports whether a mutation of id is in flight
func (m *Manager[T]) Pending(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pending[id]
}

// Alert is the last message meant for the user, or ""
func (m *Manager[T]) Alert() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.alert
}

// SetAlert shows message to the user
func (m *Manager[T]) SetAlert(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alert = message
}

func (m *Manager[T]) DismissAlert() {
	m.SetAlert("")
}

// Draft returns a copy of the form being edited
func (m *Manager[T]) Draft() T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.draft
}

// EditDraft changes the form in place
func (m *Manager[T]) EditDraft(fn func(*T)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.draft)
}

// Editing is the id whose form is open, or "" for a new record
func (m *Manager[T]) Editing() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.editing
}

// BeginCreate opens an empty form
func (m *Manager[T]) BeginCreate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.editing = ""
	m.draft = m.blank()
}

// BeginEdit opens the form on a copy of id
func (m *Manager[T]) BeginEdit(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return false
	}
	m.editing = id
	m.draft = m.items[i]
	return true
}

// Save submits the open form as an insert or an update
func (m *Manager[T]) Save(ctx context.Context) error {
	m.mu.RLock()
	draft, editing := m.draft, m.editing
	m.mu.RUnlock()

	if editing != "" {
		return m.Update(ctx, editing, draft)
	}
	_, err := m.Create(ctx, draft)
	return err
}
