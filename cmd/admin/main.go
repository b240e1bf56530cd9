package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	persistlog "bedrockdescent.io/internal/persistence/log"
	"bedrockdescent.io/internal/sim/world"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "db":
			dbCmd(os.Args[2:])
			return
		case "state":
			stateCmd(os.Args[2:])
			return
		case "metrics":
			metricsCmd(os.Args[2:])
			return
		case "events":
			eventsCmd(os.Args[2:])
			return
		}
	}
	listCmd(os.Args[1:])
}

func listCmd(args []string) {
	fs := flag.NewFlagSet("admin", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	_ = fs.Parse(args)

	for _, sub := range []string{"events", "rounds", "index"} {
		entries, err := os.ReadDir(filepath.Join(*dataDir, sub))
		if err != nil {
			continue
		}
		for _, e := range entries {
			fmt.Println(filepath.Join(sub, e.Name()))
		}
	}
}

// eventsSummary describes one hourly tick log file.
type eventsSummary struct {
	File      string `json:"file"`
	Ticks     int    `json:"ticks"`
	FirstTick uint64 `json:"first_tick"`
	LastTick  uint64 `json:"last_tick"`
	Starts    int    `json:"starts"`
	Restarts  int    `json:"restarts"`
}

func eventsCmd(args []string) {
	fs := flag.NewFlagSet("events", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	_ = fs.Parse(args)

	files, err := persistlog.Segments(filepath.Join(*dataDir, persistlog.TickStream), persistlog.TickStream)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		os.Exit(1)
	}
	for _, path := range files {
		s, err := summarizeEvents(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, filepath.Base(path)+":", err)
			os.Exit(1)
		}
		printJSON(s)
	}
}

func summarizeEvents(path string) (eventsSummary, error) {
	out := eventsSummary{File: filepath.Base(path)}
	f, err := os.Open(path)
	if err != nil {
		return out, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return out, err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	for sc.Scan() {
		var e world.TickLogEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return out, err
		}
		if out.Ticks == 0 {
			out.FirstTick = e.Tick
		} else if e.Tick == 0 {
			out.Restarts++
		}
		out.Ticks++
		out.LastTick = e.Tick
		if e.Start {
			out.Starts++
		}
	}
	return out, sc.Err()
}

func printJSON(v any) {
	b, _ := json.Marshal(v)
	fmt.Println(string(b))
}
