// Package history keeps a bounded stack of whole-document snapshots for
// undo and redo.
package history

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"InkBoard/internal/logging"
)

const DefaultMaxStates = 50

var ErrNoHost = errors.New("history has no host")

// Host is the document being recorded. Snapshots are opaque to the manager.
type Host interface {
	ExportState() ([]byte, error)
	ImportState([]byte) error
}

// Snapshot is one captured document state. It is never modified after it
// is pushed.
type Snapshot []byte

type Manager struct {
	mu       sync.Mutex
	host     Host
	stack    []Snapshot
	cursor   int
	max      int
	onChange func(canUndo, canRedo bool)
	log      *slog.Logger
}

// New creates an empty manager. maxStates <= 0 selects DefaultMaxStates.
func New(host Host, maxStates int) *Manager {
	if maxStates <= 0 {
		maxStates = DefaultMaxStates
	}
	return &Manager{
		host:   host,
		cursor: -1,
		max:    maxStates,
		log:    logging.For("history"),
	}
}

// OnChange registers a callback run after every change of the undo/redo
// availability inputs. It is called without the manager's lock held.
func (m *Manager) OnChange(fn func(canUndo, canRedo bool)) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// Record captures the current document on top of the cursor, dropping any
// redo branch and the oldest entry once the stack is full.
func (m *Manager) Record() error {
	m.mu.Lock()
	if m.host == nil {
		m.mu.Unlock()
		return ErrNoHost
	}
	data, err := m.host.ExportState()
	if err != nil {
		m.mu.Unlock()
		m.log.Error("snapshot failed", "err", err)
		return fmt.Errorf("record snapshot: %w", err)
	}

	if m.cursor < len(m.stack)-1 {
		clear(m.stack[m.cursor+1:])
		m.stack = m.stack[:m.cursor+1]
	}
	m.stack = append(m.stack, Snapshot(append([]byte(nil), data...)))
	if len(m.stack) > m.max {
		m.stack[0] = nil
		m.stack = m.stack[1:]
	}
	m.cursor = len(m.stack) - 1
	m.log.Debug("history recorded", "size", len(m.stack), "cursor", m.cursor)
	m.unlockAndNotify()
	return nil
}

// Undo materializes the previous snapshot. It reports false at the oldest
// entry. If the host rejects the snapshot the cursor is left where it was.
func (m *Manager) Undo() (bool, error) {
	return m.step(-1)
}

// Redo materializes the next snapshot. It reports false at the newest entry.
func (m *Manager) Redo() (bool, error) {
	return m.step(1)
}

func (m *Manager) step(dir int) (bool, error) {
	m.mu.Lock()
	next := m.cursor + dir
	if next < 0 || next >= len(m.stack) || m.cursor < 0 {
		m.mu.Unlock()
		return false, nil
	}
	if m.host == nil {
		m.mu.Unlock()
		return false, ErrNoHost
	}
	if err := m.host.ImportState(m.stack[next]); err != nil {
		m.mu.Unlock()
		m.log.Error("restore failed", "cursor", next, "err", err)
		return false, fmt.Errorf("restore snapshot %d: %w", next, err)
	}
	m.cursor = next
	m.log.Debug("history moved", "cursor", m.cursor, "size", len(m.stack))
	m.unlockAndNotify()
	return true, nil
}

// Reset empties the stack.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.stack = nil
	m.cursor = -1
	m.unlockAndNotify()
}

func (m *Manager) unlockAndNotify() {
	canUndo, canRedo := m.cursor > 0, m.cursor < len(m.stack)-1
	fn := m.onChange
	m.mu.Unlock()
	if fn != nil {
		fn(canUndo, canRedo)
	}
}

func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor > 0
}

func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor < len(m.stack)-1
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stack)
}

func (m *Manager) Cursor() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor
}

// Current returns a copy of the snapshot at the cursor.
func (m *Manager) Current() (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cursor < 0 {
		return nil, false
	}
	return append(Snapshot(nil), m.stack[m.cursor]...), true
}
