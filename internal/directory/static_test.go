package directory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestStaticHasRole(t *testing.T) {
	dir := NewStatic(map[string][]string{
		"alice": {"re_analyst", "legal_reviewer"},
		"bob":   {"surveyor"},
	})
	ctx := context.Background()

	tests := []struct {
		reviewer string
		role     string
		want     bool
	}{
		{"alice", "re_analyst", true},
		{"alice", "legal_reviewer", true},
		{"alice", "surveyor", false},
		{"bob", "surveyor", true},
		{"carol", "surveyor", false},
		{"", "surveyor", false},
	}
	for _, tt := range tests {
		got, err := dir.HasRole(ctx, tt.reviewer, tt.role)
		if err != nil {
			t.Fatalf("HasRole(%q, %q): %v", tt.reviewer, tt.role, err)
		}
		if got != tt.want {
			t.Fatalf("HasRole(%q, %q) = %v, want %v", tt.reviewer, tt.role, got, tt.want)
		}
	}
}

func TestEmptyDirectoryDeniesEverything(t *testing.T) {
	dir := NewStatic(nil)
	ok, err := dir.HasRole(context.Background(), "alice", "re_analyst")
	if err != nil {
		t.Fatalf("HasRole: %v", err)
	}
	if ok {
		t.Fatal("an empty directory must deny every role")
	}
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviewers.yaml")
	payload := []byte("reviewers:\n  alice: [re_analyst]\n  bob: [surveyor, legal_reviewer]\n")
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	dir, err := NewFromFile(path)
	if err != nil {
		t.Fatalf("NewFromFile: %v", err)
	}
	ok, err := dir.HasRole(context.Background(), "bob", "legal_reviewer")
	if err != nil || !ok {
		t.Fatalf("expected bob to hold legal_reviewer, got ok=%v err=%v", ok, err)
	}
	ok, _ = dir.HasRole(context.Background(), "alice", "surveyor")
	if ok {
		t.Fatal("alice must not hold surveyor")
	}
}

func TestNewFromFileErrors(t *testing.T) {
	if _, err := NewFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for a missing file")
	}

	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("reviewers: [not, a, map"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := NewFromFile(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}
