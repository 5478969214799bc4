package history

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterHost is a document whose whole state is one integer.
type counterHost struct {
	n         int
	exportErr error
	importErr error
	imports   int
}

func (h *counterHost) ExportState() ([]byte, error) {
	if h.exportErr != nil {
		return nil, h.exportErr
	}
	return []byte(strconv.Itoa(h.n)), nil
}

func (h *counterHost) ImportState(b []byte) error {
	if h.importErr != nil {
		return h.importErr
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return err
	}
	h.n = n
	h.imports++
	return nil
}

func TestRecordGrowsStack(t *testing.T) {
	h := &counterHost{}
	m := New(h, 0)
	for i := 0; i < 10; i++ {
		h.n = i
		require.NoError(t, m.Record())
	}
	assert.Equal(t, 10, m.Len())
	assert.Equal(t, 9, m.Cursor())
	assert.True(t, m.CanUndo())
	assert.False(t, m.CanRedo())
}

func TestUndoRedo(t *testing.T) {
	h := &counterHost{}
	m := New(h, 0)
	for i := 0; i < 3; i++ {
		h.n = i
		require.NoError(t, m.Record())
	}

	ok, err := m.Undo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, h.n)

	ok, _ = m.Undo()
	assert.True(t, ok)
	assert.Equal(t, 0, h.n)

	ok, err = m.Undo()
	require.NoError(t, err)
	assert.False(t, ok, "cannot undo past the first state")
	assert.Equal(t, 0, m.Cursor())

	ok, _ = m.Redo()
	assert.True(t, ok)
	assert.Equal(t, 1, h.n)
	ok, _ = m.Redo()
	assert.True(t, ok)
	ok, _ = m.Redo()
	assert.False(t, ok)
	assert.Equal(t, 2, h.n)
}

func TestRecordAfterUndoTruncates(t *testing.T) {
	h := &counterHost{}
	m := New(h, 0)
	const n = 6
	for i := 0; i < n; i++ {
		h.n = i
		require.NoError(t, m.Record())
	}
	for i := 0; i < n-1; i++ {
		ok, err := m.Undo()
		require.NoError(t, err)
		require.True(t, ok)
	}
	h.n = 100
	require.NoError(t, m.Record())

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 1, m.Cursor())
	ok, err := m.Redo()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMaxStatesEvictsOldest(t *testing.T) {
	h := &counterHost{}
	m := New(h, 50)
	for i := 0; i < 51; i++ {
		h.n = i
		require.NoError(t, m.Record())
	}
	assert.Equal(t, 50, m.Len())
	assert.Equal(t, 49, m.Cursor())

	for m.CanUndo() {
		_, err := m.Undo()
		require.NoError(t, err)
	}
	assert.Equal(t, 1, h.n, "state 0 was evicted")
}

func TestSnapshotsAreCopied(t *testing.T) {
	buf := []byte("7")
	host := &sliceHost{data: buf}
	m := New(host, 0)
	require.NoError(t, m.Record())
	buf[0] = '9'

	cur, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, Snapshot("7"), cur)
}

type sliceHost struct{ data []byte }

func (h *sliceHost) ExportState() ([]byte, error) { return h.data, nil }
func (h *sliceHost) ImportState(b []byte) error   { h.data = b; return nil }

func TestHostFailuresSurface(t *testing.T) {
	boom := errors.New("boom")
	h := &counterHost{}
	m := New(h, 0)
	require.NoError(t, m.Record())
	h.n = 1
	require.NoError(t, m.Record())

	h.exportErr = boom
	err := m.Record()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, m.Len())

	h.importErr = boom
	ok, err := m.Undo()
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, m.Cursor())

	assert.ErrorIs(t, New(nil, 0).Record(), ErrNoHost)
}

func TestResetAndOnChange(t *testing.T) {
	h := &counterHost{}
	m := New(h, 0)
	var calls [][2]bool
	m.OnChange(func(u, r bool) { calls = append(calls, [2]bool{u, r}) })

	require.NoError(t, m.Record())
	require.NoError(t, m.Record())
	_, _ = m.Undo()
	m.Reset()

	assert.Equal(t, [][2]bool{{false, false}, {true, false}, {false, true}, {false, false}}, calls)
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, -1, m.Cursor())
	ok, err := m.Undo()
	assert.False(t, ok)
	assert.NoError(t, err)
}
