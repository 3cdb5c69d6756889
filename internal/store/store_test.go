package store

import (
	"bytes"
	"context"
	"testing"
)

func TestRemoteStateStrings(t *testing.T) {
	cases := map[RemoteState]string{
		StateUnknown:    "UNKNOWN",
		StateUploading:  "UPLOADING",
		StateProcessing: "PROCESSING",
		StateActive:     "ACTIVE",
		StateFailed:     "FAILED",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("State %d: expected %q, got %q", int(state), want, got)
		}
	}
}

func TestMockRoundTrip(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	a, err := m.Upload(ctx, bytes.NewReader([]byte("data")), "a.zip", "application/zip")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if a.RemoteName == "" || a.URI == "" {
		t.Errorf("Upload should mint a handle, got %+v", a)
	}

	stat, err := m.Stat(ctx, a.RemoteName)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if stat.State != StateActive {
		t.Errorf("Unscripted asset should be ACTIVE, got %s", stat.State)
	}

	if err := m.Delete(ctx, a.RemoteName); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	listed, err := m.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("Expected empty listing after delete, got %d", len(listed))
	}
}
