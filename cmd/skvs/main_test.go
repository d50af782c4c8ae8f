package main

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kisom/skvs/internal/config"
	"github.com/kisom/skvs/internal/observability"
	"github.com/kisom/skvs/internal/store"
)

func testLogger() *observability.Logger {
	return observability.NewLogger("test", &bytes.Buffer{}, slog.LevelError)
}

func TestOpenStore_FileBackend(t *testing.T) {
	cfg := &config.Config{
		StorePath: filepath.Join(t.TempDir(), "store.json"),
		Backend:   config.BackendFile,
	}
	ops := observability.NewCollector()

	s, cleanup, err := openStore(cfg, testLogger(), ops)
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()

	if _, err := s.Insert("a", "b"); err != nil {
		t.Fatal(err)
	}
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}

	// A second open sees the flushed state.
	s2, cleanup2, err := openStore(cfg, testLogger(), ops)
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup2()
	if s2.Len() != 1 {
		t.Errorf("Len = %d after reopen, want 1", s2.Len())
	}
}

func TestOpenStore_SQLiteBackend(t *testing.T) {
	cfg := &config.Config{
		StorePath: filepath.Join(t.TempDir(), "store.db"),
		Backend:   config.BackendSQLite,
	}
	ops := observability.NewCollector()

	s, cleanup, err := openStore(cfg, testLogger(), ops)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.Insert("a", "b"); err != nil {
		t.Fatal(err)
	}
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	cleanup()

	s2, cleanup2, err := openStore(cfg, testLogger(), ops)
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup2()
	if s2.Len() != 1 {
		t.Errorf("Len = %d after reopen, want 1", s2.Len())
	}
}

func TestRunOneShot_UsageErrors(t *testing.T) {
	s := store.New("")
	ops := observability.NewCollector()

	cases := []struct {
		cmd  string
		args []string
	}{
		{"get", nil},
		{"set", []string{"key-only"}},
		{"update", []string{"key-only"}},
		{"del", nil},
		{"bogus", nil},
	}
	for _, tc := range cases {
		if err := runOneShot(s, ops, tc.cmd, tc.args); err == nil {
			t.Errorf("runOneShot(%s, %v): expected error", tc.cmd, tc.args)
		}
	}
}

func TestRunOneShot_MissingKey(t *testing.T) {
	s := store.New("")
	ops := observability.NewCollector()

	if err := runOneShot(s, ops, "get", []string{"nope"}); err == nil {
		t.Error("expected error for missing key")
	}
}

func TestRunOneShot_SetGet(t *testing.T) {
	s := store.New(filepath.Join(t.TempDir(), "store.json"))
	ops := observability.NewCollector()

	if err := runOneShot(s, ops, "set", []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	if err := runOneShot(s, ops, "get", []string{"a"}); err != nil {
		t.Fatal(err)
	}
	if err := runOneShot(s, ops, "del", []string{"a"}); err != nil {
		t.Fatal(err)
	}

	// The set and del one-shots flushed; the store file must exist.
	if _, err := store.Load(s.Path()); err != nil {
		t.Errorf("snapshot not written: %v", err)
	}
}

func TestPrintMetrics(t *testing.T) {
	s := store.New("")
	ops := observability.NewCollector()
	s.SetCollector(ops)

	if _, err := s.Insert("a", "b"); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	printMetrics(&buf, s, ops)

	out := buf.String()
	if !strings.Contains(out, "size:        1") {
		t.Errorf("output missing size: %s", out)
	}
	if !strings.Contains(out, "op insert") {
		t.Errorf("output missing op summary: %s", out)
	}
}
