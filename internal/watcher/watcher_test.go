package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twopane/internal/explorer"
	"twopane/internal/fileops"
)

// mockLister is a minimal Lister implementation for tests
type mockLister struct {
	entries []explorer.Entry
	err     error
}

func (m *mockLister) Content(string) ([]explorer.Entry, error) {
	return append([]explorer.Entry(nil), m.entries...), m.err
}

func entry(name, modified string) explorer.Entry {
	return explorer.Entry{Name: name, Modified: modified, Kind: fileops.KindFile}
}

func TestDetectChanges_AddedDeletedModified(t *testing.T) {
	m := &mockLister{}
	dw := NewDirectoryWatcher(m, nil, nil)
	dw.path = "/tmp"

	// previous: a (old time), b
	m.entries = []explorer.Entry{
		entry("a.txt", "2024/01/01 00:00:00"),
		entry("b.txt", "2024/01/01 00:00:00"),
	}
	dw.updateSnapshot()

	// current: a (modified), c (added)
	current := map[string]explorer.Entry{
		"a.txt": entry("a.txt", "2024/01/02 00:00:00"),
		"c.txt": entry("c.txt", "2024/01/02 00:00:00"),
	}

	added, deleted, modified := dw.detectChanges(current)
	if len(added) != 1 || added[0].Name != "c.txt" {
		t.Fatalf("expected 1 added c.txt, got %#v", added)
	}
	if len(deleted) != 1 || deleted[0].Name != "b.txt" {
		t.Fatalf("expected 1 deleted b.txt, got %#v", deleted)
	}
	if len(modified) != 1 || modified[0].Name != "a.txt" {
		t.Fatalf("expected 1 modified a.txt, got %#v", modified)
	}
}

func TestDetectChanges_KindChangeIsModification(t *testing.T) {
	m := &mockLister{entries: []explorer.Entry{entry("x", "2024/01/01 00:00:00")}}
	dw := NewDirectoryWatcher(m, nil, nil)
	dw.path = "/tmp"
	dw.updateSnapshot()

	dir := explorer.Entry{Name: "x", Modified: "2024/01/01 00:00:00", Kind: fileops.KindDirectory}
	_, _, modified := dw.detectChanges(map[string]explorer.Entry{"x": dir})
	assert.Equal(t, []explorer.Entry{dir}, modified)
}

func TestUpdateSnapshot_ListingErrorClearsSnapshot(t *testing.T) {
	m := &mockLister{entries: []explorer.Entry{entry("keep.txt", "2024/01/01 00:00:00")}}
	dw := NewDirectoryWatcher(m, nil, nil)
	dw.path = "/tmp"
	dw.updateSnapshot()
	if _, ok := dw.previousEntries["keep.txt"]; !ok {
		t.Fatalf("snapshot should include keep.txt")
	}

	m.err = errors.New("gone")
	dw.updateSnapshot()
	if len(dw.previousEntries) != 0 {
		t.Fatalf("snapshot should be empty after a failed listing, got %#v", dw.previousEntries)
	}
}

func TestCheckForChanges_QueuesOnlyRealChanges(t *testing.T) {
	m := &mockLister{entries: []explorer.Entry{entry("a.txt", "2024/01/01 00:00:00")}}
	dw := NewDirectoryWatcher(m, nil, nil)
	dw.path = "/tmp"
	dw.updateSnapshot()

	changes := make(chan *Changes, 1)
	dw.checkForChanges(changes)
	assert.Len(t, changes, 0, "identical listing must not queue anything")

	m.entries = append(m.entries, entry("b.txt", "2024/01/01 00:00:00"))
	dw.checkForChanges(changes)
	require.Len(t, changes, 1)
	c := <-changes
	assert.Equal(t, []explorer.Entry{entry("b.txt", "2024/01/01 00:00:00")}, c.Added)

	// the snapshot advanced, so the same listing is quiet again
	dw.checkForChanges(changes)
	assert.Len(t, changes, 0)
}

func TestCheckForChanges_FullChannelDefersChanges(t *testing.T) {
	m := &mockLister{entries: []explorer.Entry{entry("a.txt", "2024/01/01 00:00:00")}}
	dw := NewDirectoryWatcher(m, nil, nil)
	dw.path = "/tmp"
	dw.updateSnapshot()

	changes := make(chan *Changes, 1)
	changes <- &Changes{}
	m.entries = append(m.entries, entry("b.txt", "2024/01/01 00:00:00"))
	assert.False(t, dw.checkForChanges(changes), "a full channel must ask for a retry")
	_, kept := dw.previousEntries["b.txt"]
	assert.False(t, kept, "the snapshot must not advance past undelivered changes")

	<-changes
	assert.True(t, dw.checkForChanges(changes))
	require.Len(t, changes, 1)
	c := <-changes
	assert.Equal(t, []explorer.Entry{entry("b.txt", "2024/01/01 00:00:00")}, c.Added)
}

func TestStopIsIdempotent(t *testing.T) {
	dw := NewDirectoryWatcher(&mockLister{}, nil, nil)
	dw.Stop()
	require.NoError(t, dw.Start())
	require.NoError(t, dw.Start())
	dw.Stop()
	dw.Stop()
}

func TestStartFailsForMissingDirectory(t *testing.T) {
	dw := NewDirectoryWatcher(&mockLister{}, nil, nil)
	require.NoError(t, dw.Watch(filepath.Join(t.TempDir(), "missing")))
	assert.Error(t, dw.Start())
}

func TestWatcherReportsNewFile(t *testing.T) {
	dir := t.TempDir()
	facade := explorer.New(fileops.NewOS())

	var (
		mu   sync.Mutex
		seen []string
	)
	dw := NewDirectoryWatcher(facade, func(c *Changes) {
		mu.Lock()
		defer mu.Unlock()
		for _, e := range c.Added {
			seen = append(seen, e.Name)
		}
	}, nil)
	require.NoError(t, dw.Watch(dir))
	require.NoError(t, dw.Start())
	defer dw.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("n"), 0o644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, name := range seen {
			if name == "new.txt" {
				return true
			}
		}
		return false
	}, 5*time.Second, 50*time.Millisecond)
}
