package main

import (
	"path/filepath"
	"testing"

	persistlog "bedrockdescent.io/internal/persistence/log"
	"bedrockdescent.io/internal/sim/world"
)

func TestSummarizeEvents(t *testing.T) {
	dir := t.TempDir()
	l := persistlog.NewTickLogger(dir)
	for _, e := range []world.TickLogEntry{
		{Tick: 0, Dt: 0.016, Start: true, Digest: "a"},
		{Tick: 1, Dt: 0.016, Digest: "b"},
		{Tick: 0, Dt: 0.016, Digest: "c"},
	} {
		if err := l.WriteTick(e); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "events", "events-*.jsonl.zst"))
	if err != nil || len(files) != 1 {
		t.Fatalf("files: %v %v", files, err)
	}
	s, err := summarizeEvents(files[0])
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if s.Ticks != 3 || s.Starts != 1 || s.Restarts != 1 || s.LastTick != 0 {
		t.Fatalf("summary: %+v", s)
	}
}
