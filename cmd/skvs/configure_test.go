package main

import (
	"bufio"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kisom/skvs/internal/config"
)

func TestPromptString_Default(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("\n"))
	got := promptString(reader, "Listen address", "localhost:8000")
	if got != "localhost:8000" {
		t.Errorf("promptString = %q, want default", got)
	}
}

func TestPromptString_Answer(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("0.0.0.0:9000\n"))
	got := promptString(reader, "Listen address", "localhost:8000")
	if got != "0.0.0.0:9000" {
		t.Errorf("promptString = %q", got)
	}
}

func TestPromptChoice_RejectsInvalid(t *testing.T) {
	// First answer is invalid, second is accepted.
	reader := bufio.NewReader(strings.NewReader("etcd\nsqlite\n"))
	got := promptChoice(reader, "Backend", config.BackendFile, config.BackendFile, config.BackendSQLite)
	if got != config.BackendSQLite {
		t.Errorf("promptChoice = %q, want sqlite", got)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	t.Setenv("SKVS_ADDR", "")
	t.Setenv("SKVS_STORE", "")
	t.Setenv("SKVS_BACKEND", "")
	t.Setenv("SKVS_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "skvs.yaml")
	want := &config.Config{
		Addr:      "localhost:4000",
		StorePath: "cameras.json",
		Backend:   config.BackendFile,
		LogLevel:  "debug",
	}

	if err := saveConfig(path, want); err != nil {
		t.Fatal(err)
	}

	got, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *want {
		t.Errorf("Load = %+v, want %+v", got, want)
	}
}
