package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"

	"bedrockdescent.io/internal/sim/kernel/model"
	"bedrockdescent.io/internal/sim/world"
)

func readLines(t *testing.T, path string) [][]byte {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd: %v", err)
	}
	defer dec.Close()
	var out [][]byte
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		out = append(out, append([]byte(nil), sc.Bytes()...))
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return out
}

func TestTickLogger_WritesCompressedJSONL(t *testing.T) {
	dir := t.TempDir()
	l := NewTickLogger(dir)
	l.seg.now = func() time.Time { return time.Date(2026, 3, 1, 14, 5, 0, 0, time.UTC) }

	for i := uint64(0); i < 3; i++ {
		e := world.TickLogEntry{
			Tick:   i,
			Dt:     1.0 / 60,
			Start:  i == 0,
			Input:  world.Input{Axis: 1, MouseX: 200, MouseY: 150, MouseDown: true, Craft: model.CraftStone},
			Digest: "d",
		}
		if err := l.WriteTick(e); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	path := filepath.Join(dir, "events", "events-2026-03-01-14.jsonl.zst")
	lines := readLines(t, path)
	if len(lines) != 3 {
		t.Fatalf("lines: got %d want 3", len(lines))
	}
	var got world.TickLogEntry
	if err := json.Unmarshal(lines[2], &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Tick != 2 || got.Start || got.Input.Axis != 1 || got.Input.Craft != model.CraftStone {
		t.Fatalf("unexpected entry: %+v", got)
	}
}

func TestSegmentWriter_RotatesHourly(t *testing.T) {
	dir := t.TempDir()
	w := NewSegmentWriter(dir, RoundStream)
	now := time.Date(2026, 3, 1, 14, 59, 0, 0, time.UTC)
	w.now = func() time.Time { return now }

	if err := w.Append(map[string]int{"round": 1}); err != nil {
		t.Fatalf("write: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if err := w.Append(map[string]int{"round": 2}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	for _, name := range []string{"rounds-2026-03-01-14.jsonl.zst", "rounds-2026-03-01-15.jsonl.zst"} {
		if lines := readLines(t, filepath.Join(dir, name)); len(lines) != 1 {
			t.Fatalf("%s: got %d lines", name, len(lines))
		}
	}
}

func TestSegmentWriter_AppendAfterCloseFails(t *testing.T) {
	l := NewRoundLogger(t.TempDir())
	if err := l.RecordRound(world.RoundSummary{Round: 1, Outcome: world.OutcomeWon}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := l.RecordRound(world.RoundSummary{Round: 2}); !errors.Is(err, ErrClosed) {
		t.Fatalf("record after close: got %v want ErrClosed", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestSegments_ListsOneStreamInHourOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"events-2026-03-02-00.jsonl.zst",
		"events-2026-03-01-23.jsonl.zst",
		"rounds-2026-03-01-22.jsonl.zst",
		"events-2026-03-01-23.jsonl",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	got, err := Segments(dir, TickStream)
	if err != nil {
		t.Fatalf("segments: %v", err)
	}
	want := []string{
		SegmentPath(dir, TickStream, "2026-03-01-23"),
		SegmentPath(dir, TickStream, "2026-03-02-00"),
	}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("segments: got %v want %v", got, want)
	}
}
