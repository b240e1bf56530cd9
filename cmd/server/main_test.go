package main

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"bedrockdescent.io/internal/sim/catalogs"
	"bedrockdescent.io/internal/sim/tuning"
	"bedrockdescent.io/internal/sim/world"
)

type closableTickLogger struct {
	mu         sync.Mutex
	closed     bool
	afterClose int
	writes     int
}

func (l *closableTickLogger) WriteTick(world.TickLogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writes++
	if l.closed {
		l.afterClose++
	}
	return nil
}

func (l *closableTickLogger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
}

func TestStartWorld_NoTicksAfterDone(t *testing.T) {
	w, err := world.New(tuning.Defaults(), catalogs.Defaults())
	if err != nil {
		t.Fatalf("world: %v", err)
	}
	sink := &closableTickLogger{}
	w.SetTickLogger(sink)

	ctx, cancel := context.WithCancel(context.Background())
	done := startWorld(ctx, w, log.New(io.Discard, "", 0))
	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
	sink.Close()
	time.Sleep(100 * time.Millisecond)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.writes == 0 {
		t.Fatalf("no ticks were logged while running")
	}
	if sink.afterClose != 0 {
		t.Fatalf("%d ticks written after the sink closed", sink.afterClose)
	}
}

func TestStartWorld_IndexClosesAfterDone(t *testing.T) {
	idx, err := openRuntimeIndex(t.TempDir(), false)
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	w, err := world.New(tuning.Defaults(), catalogs.Defaults())
	if err != nil {
		t.Fatalf("world: %v", err)
	}
	w.SetTickLogger(idx)
	w.SetRoundRecorder(idx)
	w.Inbox() <- world.Command{Start: true}

	ctx, cancel := context.WithCancel(context.Background())
	done := startWorld(ctx, w, log.New(io.Discard, "", 0))
	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done
	if err := idx.Close(); err != nil {
		t.Fatalf("close index: %v", err)
	}
}
