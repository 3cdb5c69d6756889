package cleanup

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greglamb/gemini-pr-reviewer/internal/config"
	"github.com/greglamb/gemini-pr-reviewer/internal/manifest"
	"github.com/greglamb/gemini-pr-reviewer/internal/store"
	"github.com/greglamb/gemini-pr-reviewer/internal/uploader"
)

func newTestManifest(t *testing.T) *manifest.Manifest {
	t.Helper()
	m, err := manifest.Open(filepath.Join(t.TempDir(), "manifest.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

// uploadFiles pushes files through a real orchestrator so the mock store and
// the manifest agree on remote names.
func uploadFiles(t *testing.T, mock *store.Mock, mf *manifest.Manifest, sessionID string, names ...string) {
	t.Helper()
	cfg := config.UploadConfig{
		MaxAttempts:      1,
		RetryBackoffBase: time.Millisecond,
		RetryBackoffMax:  time.Millisecond,
		PollInterval:     time.Millisecond,
		ReadyTimeout:     time.Second,
		DefaultSizeLimit: 1024 * 1024,
	}
	orch := uploader.New(mock, mf, cfg, sessionID, nil)
	files := make([]uploader.LocalFile, len(names))
	for i, n := range names {
		files[i] = uploader.LocalFile{Name: n, Data: []byte("data")}
	}
	_, err := orch.UploadAll(context.Background(), files)
	require.NoError(t, err)
}

func TestCleanupAllTimeEmptiesManifest(t *testing.T) {
	mock := store.NewMock()
	mf := newTestManifest(t)
	uploadFiles(t, mock, mf, "s1", "a.zip")
	uploadFiles(t, mock, mf, "s2", "b.zip")

	engine := New(mock, mf, nil)
	report, err := engine.Run(context.Background(), ScopeAllTime, "s2")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Deleted)
	assert.Empty(t, report.Failures)
	assert.Empty(t, report.Inventory.Owned, "known-owned list must be empty after full cleanup")

	entries, err := mf.All()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCleanupSessionScopeLeavesOtherSessions(t *testing.T) {
	mock := store.NewMock()
	mf := newTestManifest(t)
	uploadFiles(t, mock, mf, "s1", "old.zip")
	uploadFiles(t, mock, mf, "s2", "current.zip")

	engine := New(mock, mf, nil)
	report, err := engine.Run(context.Background(), ScopeSession, "s2")
	require.NoError(t, err)

	assert.Equal(t, 1, report.Deleted)

	entries, err := mf.All()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "old.zip", entries[0].DisplayName)

	// The surviving entry shows up as known-owned in the inventory.
	require.Len(t, report.Inventory.Owned, 1)
	assert.Equal(t, "old.zip", report.Inventory.Owned[0].DisplayName)
	assert.Equal(t, "s1", report.Inventory.Owned[0].SessionID)
}

func TestDeleteFailureIsIsolated(t *testing.T) {
	mock := store.NewMock()
	mf := newTestManifest(t)
	uploadFiles(t, mock, mf, "s1", "a.zip", "b.zip", "c.zip")

	entries, err := mf.All()
	require.NoError(t, err)
	require.Len(t, entries, 3)

	var stuck manifest.Entry
	for _, e := range entries {
		if e.DisplayName == "b.zip" {
			stuck = e
		}
	}
	mock.DeleteErr[stuck.RemoteName] = fmt.Errorf("transient network error")

	engine := New(mock, mf, nil)
	report, err := engine.Run(context.Background(), ScopeAllTime, "s1")
	require.NoError(t, err, "per-asset failures must not abort the pass")

	assert.Equal(t, 2, report.Deleted)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, stuck.RemoteName, report.Failures[0].Entry.RemoteName)

	// The failed entry stays tracked for a retry on the next run.
	remaining, err := mf.All()
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "b.zip", remaining[0].DisplayName)
	require.Len(t, report.Inventory.Owned, 1)
}

func TestCleanupReportsUntrackedStrays(t *testing.T) {
	mock := store.NewMock()
	mock.Unlisted = []*store.Asset{
		{RemoteName: "files/stray", DisplayName: "stray.zip", State: store.StateActive},
	}
	mf := newTestManifest(t)
	uploadFiles(t, mock, mf, "s1", "a.zip")

	engine := New(mock, mf, nil)
	report, err := engine.Run(context.Background(), ScopeAllTime, "s1")
	require.NoError(t, err)

	require.Len(t, report.Inventory.Strays, 1)
	assert.Equal(t, "files/stray", report.Inventory.Strays[0].RemoteName)
	assert.Empty(t, report.Inventory.Owned)
}
