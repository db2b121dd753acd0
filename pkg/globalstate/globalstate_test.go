package globalstate

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_ZeroValue(t *testing.T) {
	var m Memory

	_, ok := m.Get("missing")
	assert.False(t, ok)
	assert.Empty(t, m.Keys())
}

func TestMemory_UpdateAndDelete(t *testing.T) {
	m := &Memory{}

	require.NoError(t, m.Update("b", true))
	require.NoError(t, m.Update("a", "x"))

	v, ok := m.Get("b")
	require.True(t, ok)
	assert.Equal(t, true, v)
	assert.Equal(t, []string{"a", "b"}, m.Keys())

	require.NoError(t, m.Update("b", nil))
	_, ok = m.Get("b")
	assert.False(t, ok)
}

func TestMemory_Concurrent(t *testing.T) {
	m := &Memory{}

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.Update("k", i)
			_, _ = m.Get("k")
		}(i)
	}
	wg.Wait()

	_, ok := m.Get("k")
	assert.True(t, ok)
}

func TestBoolAndString(t *testing.T) {
	m := &Memory{}
	require.NoError(t, m.Update("flag", false))
	require.NoError(t, m.Update("name", "x"))

	v, present := Bool(m, "flag")
	assert.True(t, present)
	assert.False(t, v)

	_, present = Bool(m, "name")
	assert.False(t, present, "non-bool values are not present")

	_, present = Bool(m, "missing")
	assert.False(t, present)

	s, ok := String(m, "name")
	assert.True(t, ok)
	assert.Equal(t, "x", s)
}

func TestFile_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "globalState.json")

	f, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Update("hasBeenInstalled", true))
	require.NoError(t, f.Update("telemetry.distinctId", "abc"))
	require.NoError(t, f.Update("telemetry.distinctId", nil))

	reopened, err := OpenFile(path)
	require.NoError(t, err)

	v, present := Bool(reopened, "hasBeenInstalled")
	assert.True(t, present)
	assert.True(t, v)
	assert.Equal(t, []string{"hasBeenInstalled"}, reopened.Keys())
}

func TestFile_EmptyAndCorrupt(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte("  \n"), 0o600))
	f, err := OpenFile(empty)
	require.NoError(t, err)
	assert.Empty(t, f.Keys())

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{nope"), 0o600))
	_, err = OpenFile(corrupt)
	assert.Error(t, err)
}

func TestSQLite_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.vscdb")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Update("hasBeenInstalled", true))
	require.NoError(t, s.Update("continue.showRefactorMigrationMessage", false))
	require.NoError(t, s.Update("gone", "x"))
	require.NoError(t, s.Update("gone", nil))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	assert.Equal(t, []string{"continue.showRefactorMigrationMessage", "hasBeenInstalled"}, reopened.Keys())

	v, present := Bool(reopened, "continue.showRefactorMigrationMessage")
	assert.True(t, present)
	assert.False(t, v)
}

func TestOpen_PicksBackend(t *testing.T) {
	dir := t.TempDir()

	m, err := Open(filepath.Join(dir, "state.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, m)
	require.NoError(t, Close(m))

	m, err = Open(filepath.Join(dir, "state.json"))
	require.NoError(t, err)
	assert.IsType(t, &File{}, m)
	require.NoError(t, Close(m))
}
