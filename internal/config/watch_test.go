package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.json")

	if err := os.WriteFile(path, []byte(`{"chunk_size": 8192}`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.ChunkSize != 8192 {
		t.Errorf("ChunkSize = %d, want 8192", cfg.ChunkSize)
	}
}

func TestLoadFileRejectsInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.json")

	if err := os.WriteFile(path, []byte(`not json`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Fatal("LoadFile() on malformed JSON should fail")
	}
}

func TestWatchPublishesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.json")

	if err := os.WriteFile(path, []byte(`{"chunk_size": 4096}`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	w, err := Watch(path)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte(`{"chunk_size": 16384}`), 0o644); err != nil {
		t.Fatalf("rewrite WriteFile() error = %v", err)
	}

	select {
	case cfg := <-w.Updates():
		if cfg.ChunkSize != 16384 {
			t.Errorf("ChunkSize = %d, want 16384", cfg.ChunkSize)
		}
	case err := <-w.Errors():
		t.Fatalf("Watcher reported an error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a config update")
	}
}
