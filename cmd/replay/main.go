package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	persistlog "bedrockdescent.io/internal/persistence/log"
	"bedrockdescent.io/internal/sim/catalogs"
	"bedrockdescent.io/internal/sim/tuning"
	"bedrockdescent.io/internal/sim/world"
)

func main() {
	var (
		eventsDir  = flag.String("events", "./data/events", "events dir containing events-*.jsonl.zst")
		configDir  = flag.String("configs", "./configs", "config directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		fromTick   = flag.Uint64("from_tick", 0, "start verifying from tick (inclusive, optional)")
		toTick     = flag.Uint64("to_tick", 0, "stop at tick (inclusive, optional)")
	)
	flag.Parse()

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load catalogs:", err)
		os.Exit(1)
	}
	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintln(os.Stderr, "load tuning:", err)
			os.Exit(1)
		}
		tune = tuning.Defaults()
	}

	files, err := persistlog.Segments(*eventsDir, persistlog.TickStream)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list events:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no events files found in", *eventsDir)
		os.Exit(1)
	}

	r := &replayer{tune: tune, cats: cats, verifyFrom: *fromTick, toTick: *toTick}
	for _, path := range files {
		done, err := r.replayFile(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "replay:", err)
			os.Exit(1)
		}
		if done {
			break
		}
	}
	fmt.Printf("replay ok: checked=%d ticks sessions=%d rounds=%d\n", r.checked, r.sessions, r.rounds)
}

// replayer re-runs logged ticks against a fresh world. A log line at tick 0
// after earlier ticks marks a server restart and begins a new session.
type replayer struct {
	tune       tuning.Tuning
	cats       *catalogs.Catalogs
	verifyFrom uint64
	toTick     uint64

	w        *world.World
	checked  uint64
	sessions int
	rounds   int
}

func (r *replayer) replayFile(path string) (done bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return false, err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	for sc.Scan() {
		var entry world.TickLogEntry
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			return false, fmt.Errorf("%s: unmarshal: %w", filepath.Base(path), err)
		}
		if r.w == nil || (entry.Tick == 0 && r.w.CurrentTick() != 0) {
			w, err := world.New(r.tune, r.cats)
			if err != nil {
				return false, fmt.Errorf("world: %w", err)
			}
			r.w = w
			r.sessions++
		}
		if r.toTick != 0 && entry.Tick > r.toTick {
			return true, nil
		}
		if entry.Tick != r.w.CurrentTick() {
			return false, fmt.Errorf("tick mismatch: want=%d got=%d (file=%s)", r.w.CurrentTick(), entry.Tick, filepath.Base(path))
		}
		if entry.Start {
			r.rounds++
		}

		tick, gotDigest := r.w.StepOnce(entry.Dt, entry.Input, entry.Start)
		if tick != entry.Tick {
			return false, fmt.Errorf("internal tick mismatch: stepped=%d entry=%d (file=%s)", tick, entry.Tick, filepath.Base(path))
		}
		if tick >= r.verifyFrom {
			r.checked++
			if gotDigest != entry.Digest {
				return false, fmt.Errorf("digest mismatch at tick %d: got=%s want=%s", tick, gotDigest, entry.Digest)
			}
		}
	}
	return false, sc.Err()
}
