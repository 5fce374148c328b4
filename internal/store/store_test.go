package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/paperpin/internal/item"
)

var sample = []item.Item{
	item.NewPaper("p1"),
	item.NewPassage("p1", "Neural networks learn."),
	item.NewPaper("p2"),
}

func assertItems(t *testing.T, want, got []item.Item) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, item.Equal(want[i], got[i]), "element %d: want %#v got %#v", i, want[i], got[i])
	}
}

func gateways(t *testing.T) map[string]Gateway {
	t.Helper()
	dir := t.TempDir()
	sqlite, err := OpenSQLite(filepath.Join(dir, "db", "paperpin.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })
	return map[string]Gateway{
		"json":   NewJSONFile(filepath.Join(dir, "state", "paperpin.json")),
		"sqlite": sqlite,
		"memory": NewMemory(),
	}
}

func TestGatewaysRoundTripSlots(t *testing.T) {
	t.Parallel()

	for name, gw := range gateways(t) {
		gw := gw
		t.Run(name, func(t *testing.T) {
			got, err := gw.Load(Saved)
			require.NoError(t, err)
			assert.Empty(t, got, "absent slot is empty")

			require.NoError(t, gw.Save(Saved, sample))
			require.NoError(t, gw.Save(Builder, sample[1:2]))

			saved, err := gw.Load(Saved)
			require.NoError(t, err)
			assertItems(t, sample, saved)

			builder, err := gw.Load(Builder)
			require.NoError(t, err)
			assertItems(t, sample[1:2], builder)

			require.NoError(t, gw.Save(Saved, nil))
			saved, err = gw.Load(Saved)
			require.NoError(t, err)
			assert.Empty(t, saved)

			builder, err = gw.Load(Builder)
			require.NoError(t, err)
			assertItems(t, sample[1:2], builder)
		})
	}
}

func TestJSONFileUsesStorageKeys(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "paperpin.json")
	gw := NewJSONFile(path)
	require.NoError(t, gw.Save(Saved, []item.Item{item.NewPaper("p1")}))
	require.NoError(t, gw.Save(Builder, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"paperPinSavedItems": [{"kind":"paper","paperId":"p1"}],
		"paperPinBuilderItems": []
	}`, string(data))
}

func TestJSONFileSkipsBadRecords(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "paperpin.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"paperPinSavedItems": [
			{"kind":"paper","paperId":"p1","note":"extra"},
			{"kind":"passage","paperId":"p1"},
			{"kind":"video","paperId":"p2"}
		]
	}`), 0o644))

	got, err := NewJSONFile(path).Load(Saved)
	require.NoError(t, err)
	assertItems(t, []item.Item{item.NewPaper("p1")}, got)
}

func TestJSONFileMovesCorruptDocumentAside(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "paperpin.json")
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0o644))
	gw := NewJSONFile(path)
	_, err := gw.Load(Saved)
	assert.ErrorIs(t, err, ErrCorrupt)

	require.NoError(t, gw.Save(Saved, sample))
	require.NoError(t, gw.Save(Builder, sample[:1]))

	kept, err := os.ReadFile(path + ".corrupt")
	require.NoError(t, err)
	assert.Equal(t, "{oops", string(kept), "unreadable document is preserved")

	saved, err := gw.Load(Saved)
	require.NoError(t, err)
	assertItems(t, sample, saved)
	builder, err := gw.Load(Builder)
	require.NoError(t, err)
	assertItems(t, sample[:1], builder)
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "paperpin.db")
	gw, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, gw.Save(Builder, sample))
	require.NoError(t, gw.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.Load(Builder)
	require.NoError(t, err)
	assertItems(t, sample, got)
}

func TestMemoryFailureInjection(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk full")
	m := NewMemory()
	m.SaveErr = boom
	assert.ErrorIs(t, m.Save(Saved, sample), boom)
	assert.Zero(t, m.Saves)

	m.SaveErr = nil
	require.NoError(t, m.Save(Saved, sample))
	assert.Equal(t, 1, m.Saves)

	m.LoadErr = boom
	_, err := m.Load(Saved)
	assert.ErrorIs(t, err, boom)
}

func TestOpenBackends(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	gw, err := Open(BackendJSON, filepath.Join(dir, "a.json"))
	require.NoError(t, err)
	assert.IsType(t, &JSONFile{}, gw)

	gw, err = Open(BackendSQLite, filepath.Join(dir, "a.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, gw)
	require.NoError(t, gw.Close())

	_, err = Open("redis", dir)
	assert.Error(t, err)
}

func TestSlotKeys(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "paperPinSavedItems", Saved.Key())
	assert.Equal(t, "paperPinBuilderItems", Builder.Key())
}
