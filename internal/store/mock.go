package store

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// Mock is an in-memory Client for tests in sibling packages. Upload failures,
// per-file state sequences, and delete failures are all scriptable.
type Mock struct {
	mu sync.Mutex

	// UploadErrs is consumed once per Upload call; a nil entry means success.
	UploadErrs []error

	// StateSequence maps a remote name to the states successive Stat calls
	// report. The last state repeats once the sequence is exhausted.
	StateSequence map[string][]RemoteState

	// DeleteErr maps a remote name to the error its Delete call returns.
	DeleteErr map[string]error

	// Extra assets reported by List beyond whatever was uploaded.
	Unlisted []*Asset

	assets    map[string]*Asset
	statCalls map[string]int
	uploads   int
	deleted   []string
}

// NewMock returns an empty mock store.
func NewMock() *Mock {
	return &Mock{
		StateSequence: make(map[string][]RemoteState),
		DeleteErr:     make(map[string]error),
		assets:        make(map[string]*Asset),
		statCalls:     make(map[string]int),
	}
}

// Upload records the bytes' display name and mints a handle. The asset starts
// in the first scripted state for its name, or ACTIVE when unscripted.
func (m *Mock) Upload(ctx context.Context, r io.Reader, displayName, mimeType string) (*Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.UploadErrs) > 0 {
		err := m.UploadErrs[0]
		m.UploadErrs = m.UploadErrs[1:]
		if err != nil {
			return nil, err
		}
	}

	m.uploads++
	a := &Asset{
		RemoteName:  fmt.Sprintf("files/mock-%d", m.uploads),
		DisplayName: displayName,
		URI:         fmt.Sprintf("https://mock.store/v1/files/mock-%d", m.uploads),
		State:       StateUploading,
		CreatedAt:   time.Now(),
	}
	m.assets[a.RemoteName] = a
	return a, nil
}

// Stat replays the scripted state sequence for the asset.
func (m *Mock) Stat(ctx context.Context, remoteName string) (*Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.assets[remoteName]
	if !ok {
		return nil, fmt.Errorf("mock: unknown asset %s", remoteName)
	}

	seq := m.StateSequence[a.DisplayName]
	call := m.statCalls[remoteName]
	m.statCalls[remoteName] = call + 1

	state := StateActive
	if len(seq) > 0 {
		if call >= len(seq) {
			call = len(seq) - 1
		}
		state = seq[call]
	}

	copied := *a
	copied.State = state
	return &copied, nil
}

// List returns every non-deleted asset plus any scripted unlisted strays.
func (m *Mock) List(ctx context.Context) ([]*Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Asset
	for _, a := range m.assets {
		copied := *a
		copied.State = StateActive
		out = append(out, &copied)
	}
	out = append(out, m.Unlisted...)
	return out, nil
}

// Delete removes the asset unless a failure is scripted for it.
func (m *Mock) Delete(ctx context.Context, remoteName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.DeleteErr[remoteName]; err != nil {
		return err
	}
	if _, ok := m.assets[remoteName]; !ok {
		return fmt.Errorf("mock: unknown asset %s", remoteName)
	}
	delete(m.assets, remoteName)
	m.deleted = append(m.deleted, remoteName)
	return nil
}

// UploadCount reports how many Upload calls reached the mock.
func (m *Mock) UploadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploads
}

// Deleted reports the remote names removed so far, in deletion order.
func (m *Mock) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}
