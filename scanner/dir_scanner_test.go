package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"temperature_report/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu      sync.Mutex
	sources map[string]models.RecordTable
	failOn  string
}

func (m *memoryStore) SaveReadings(source string, table models.RecordTable) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if source == m.failOn {
		return 0, errors.New("disk full")
	}
	if m.sources == nil {
		m.sources = make(map[string]models.RecordTable)
	}
	m.sources[source] = append(m.sources[source], table...)
	return int64(table.Len()), nil
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestScanDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fridge.csv", "MM.DD.YYYY  HH:MM:SS   T\n01.15.2024 08:30:00 4.5\n01.15.2024 09:00:00 4.7\nbad line\n")
	writeFile(t, dir, "lab.TXT", "MM.DD.YYYY  HH:MM:SS   T\n01.16.2024 10:00:00 21.0\n")
	writeFile(t, dir, "notes.md", "MM.DD.YYYY\n01.16.2024 10:00:00 21.0\n")
	writeFile(t, dir, "broken.csv", "no header here\n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0755))

	store := &memoryStore{}
	ds := NewDirScanner(store, nil)
	ds.SetWorkerCount(2)

	results, err := ds.ScanDirectory(dir)
	require.NoError(t, err)
	require.Len(t, results, 3)

	sort.Slice(results, func(i, j int) bool { return results[i].FilePath < results[j].FilePath })

	assert.ErrorIs(t, results[0].Error, ErrHeaderNotFound)

	assert.NoError(t, results[1].Error)
	assert.Equal(t, 2, results[1].RecordCount)
	assert.Equal(t, int64(2), results[1].Inserted)
	assert.Equal(t, 1, results[1].Dropped)

	assert.NoError(t, results[2].Error)
	assert.Equal(t, 1, results[2].RecordCount)

	assert.Len(t, store.sources["fridge.csv"], 2)
	assert.Len(t, store.sources["lab.TXT"], 1)
	assert.NotContains(t, store.sources, "notes.md")
}

func TestScanDirectoryStoreFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "MM.DD.YYYY\n01.15.2024 08:30:00 4.5\n")

	ds := NewDirScanner(&memoryStore{failOn: "a.csv"}, []string{".csv"})
	results, err := ds.ScanDirectory(dir)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.ErrorContains(t, results[0].Error, "failed to store readings")
}

func TestScanDirectoryMissing(t *testing.T) {
	ds := NewDirScanner(&memoryStore{}, nil)
	_, err := ds.ScanDirectory(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestScanDirectoryEmpty(t *testing.T) {
	ds := NewDirScanner(&memoryStore{}, nil)
	results, err := ds.ScanDirectory(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, results)
}
