package manifest

import (
	"path/filepath"
	"testing"
)

func TestRegisterAndQuery(t *testing.T) {
	m, err := Open(filepath.Join(t.TempDir(), "manifest.db"))
	if err != nil {
		t.Fatalf("Failed to open manifest: %v", err)
	}
	defer m.Close()

	err = m.Register(Entry{RemoteName: "files/a", DisplayName: "a.zip", SessionID: "s1"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	err = m.Register(Entry{RemoteName: "files/b", DisplayName: "b.zip", SessionID: "s2"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	all, err := m.All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(all))
	}

	s1, err := m.ForSession("s1")
	if err != nil {
		t.Fatalf("ForSession failed: %v", err)
	}
	if len(s1) != 1 || s1[0].RemoteName != "files/a" {
		t.Errorf("Unexpected session entries: %+v", s1)
	}
}

func TestRegisterDuplicateFails(t *testing.T) {
	m, err := Open(filepath.Join(t.TempDir(), "manifest.db"))
	if err != nil {
		t.Fatalf("Failed to open manifest: %v", err)
	}
	defer m.Close()

	if err := m.Register(Entry{RemoteName: "files/a", DisplayName: "a.zip", SessionID: "s1"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := m.Register(Entry{RemoteName: "files/a", DisplayName: "other.zip", SessionID: "s2"}); err == nil {
		t.Error("Expected duplicate register to fail")
	}

	// Prior state preserved
	all, _ := m.All()
	if len(all) != 1 || all[0].DisplayName != "a.zip" {
		t.Errorf("Original entry should be untouched, got %+v", all)
	}
}

func TestUnregister(t *testing.T) {
	m, err := Open(filepath.Join(t.TempDir(), "manifest.db"))
	if err != nil {
		t.Fatalf("Failed to open manifest: %v", err)
	}
	defer m.Close()

	if err := m.Register(Entry{RemoteName: "files/a", DisplayName: "a.zip", SessionID: "s1"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := m.Unregister("files/a"); err != nil {
		t.Fatalf("Unregister failed: %v", err)
	}

	all, _ := m.All()
	if len(all) != 0 {
		t.Errorf("Expected empty manifest, got %+v", all)
	}

	if err := m.Unregister("files/a"); err == nil {
		t.Error("Expected unregister of missing entry to fail")
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.db")

	m, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to open manifest: %v", err)
	}
	if err := m.Register(Entry{RemoteName: "files/a", DisplayName: "a.zip", SessionID: "s1"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Simulated restart: a fresh handle must still see the entry.
	m2, err := Open(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer m2.Close()

	all, err := m2.All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 1 || all[0].RemoteName != "files/a" || all[0].SessionID != "s1" {
		t.Errorf("Entry did not survive reopen: %+v", all)
	}
	if all[0].RegisteredAt.IsZero() {
		t.Error("RegisteredAt should round-trip")
	}
}
