package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	persistlog "bedrockdescent.io/internal/persistence/log"
	"bedrockdescent.io/internal/sim/catalogs"
	"bedrockdescent.io/internal/sim/tuning"
	"bedrockdescent.io/internal/sim/world"
	"bedrockdescent.io/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		configDir  = flag.String("configs", "./configs", "config directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite round index")
		autoStart  = flag.Bool("autostart", false, "start a round immediately instead of waiting for START")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", tp)
		tune = tuning.Defaults()
	}

	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		logger.Fatalf("data dir: %v", err)
	}

	// Optional: read-model index (does not affect sim determinism).
	idx, err := openRuntimeIndex(*dataDir, *disableDB)
	if err != nil {
		logger.Fatalf("open index: %v", err)
	}
	if idx != nil {
		if err := idx.UpsertCatalogs(cats, tune); err != nil {
			logger.Printf("index: upsert catalogs: %v", err)
		}
	}

	w, err := world.New(tune, cats)
	if err != nil {
		logger.Fatalf("world: %v", err)
	}
	if *autoStart {
		// Through the inbox so the start lands in the tick log and replays.
		w.Inbox() <- world.Command{Start: true}
	}

	tickLog := persistlog.NewTickLogger(*dataDir)
	roundLog := persistlog.NewRoundLogger(*dataDir)
	if idx != nil {
		w.SetTickLogger(multiTickLogger{a: tickLog, b: idx})
		w.SetRoundRecorder(multiRoundRecorder{a: roundLog, b: idx, log: logger})
	} else {
		w.SetTickLogger(tickLog)
		w.SetRoundRecorder(multiRoundRecorder{a: roundLog, log: logger})
	}

	ctx, cancel := signalContext()
	defer cancel()

	runDone := startWorld(ctx, w, logger)

	mux := http.NewServeMux()
	registerHandlers(mux, w, idx)
	if envBool("BD_ENABLE_PPROF_HTTP", false) {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	} else {
		logger.Printf("pprof endpoints disabled (BD_ENABLE_PPROF_HTTP=false)")
	}
	mux.HandleFunc("/v1/ws", ws.NewServer(w, logger).Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s tick_rate=%dHz tuning=%s recipes=%s", *addr, tune.TickRateHz, short(tune.Digest()), short(cats.Recipes.Digest))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}

	// The sinks are closed only after Run has returned, so no tick can write to them.
	cancel()
	<-runDone
	if err := tickLog.Close(); err != nil {
		logger.Printf("close tick log: %v", err)
	}
	if err := roundLog.Close(); err != nil {
		logger.Printf("close round log: %v", err)
	}
	if idx != nil {
		if err := idx.Close(); err != nil {
			logger.Printf("close index: %v", err)
		}
	}
}

// startWorld runs the tick loop and returns a channel closed once Run has returned.
func startWorld(ctx context.Context, w *world.World, logger *log.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := w.Run(ctx); err != nil && err != context.Canceled {
			logger.Printf("world stopped: %v", err)
		}
	}()
	return done
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

func short(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

type multiTickLogger struct {
	a world.TickLogger
	b world.TickLogger
}

func (m multiTickLogger) WriteTick(entry world.TickLogEntry) error {
	if m.a != nil {
		_ = m.a.WriteTick(entry)
	}
	if m.b != nil {
		_ = m.b.WriteTick(entry)
	}
	return nil
}

type multiRoundRecorder struct {
	a   world.RoundRecorder
	b   world.RoundRecorder
	log *log.Logger
}

func (m multiRoundRecorder) RecordRound(s world.RoundSummary) error {
	if m.log != nil {
		m.log.Printf("round %d %s depth=%dm tool=%s mined=%d elapsed=%.1fs", s.Round, s.Outcome, s.Stats.MaxDepth, s.Tool, s.Stats.TotalMined(), s.Stats.Elapsed)
	}
	if m.a != nil {
		_ = m.a.RecordRound(s)
	}
	if m.b != nil {
		_ = m.b.RecordRound(s)
	}
	return nil
}
