package world

import (
	"context"
	"encoding/json"
	"time"

	"bedrockdescent.io/internal/protocol"
	"bedrockdescent.io/internal/sim/kernel/model"
)

// Command is one control message for the runtime loop. Commands received
// between ticks are applied in arrival order at the next tick boundary.
type Command struct {
	// Start begins a new round (regenerating the world) before the tick runs.
	Start bool
	// Input replaces the held control state. A pending craft request survives
	// a later Input that carries none.
	Input *Input
}

type SubscribeRequest struct {
	ID  string
	Out chan []byte
}

type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

type TickLogEntry struct {
	Tick   uint64  `json:"tick"`
	Dt     float64 `json:"dt"`
	Start  bool    `json:"start,omitempty"`
	Input  Input   `json:"input"`
	Digest string  `json:"digest"`
}

type Metrics struct {
	Tick        uint64  `json:"tick"`
	Round       uint64  `json:"round"`
	Mode        string  `json:"mode"`
	Subscribers int     `json:"subscribers"`
	StepMS      float64 `json:"step_ms"`
}

func (w *World) Inbox() chan<- Command              { return w.inbox }
func (w *World) Subscribe() chan<- SubscribeRequest { return w.subscribe }
func (w *World) Unsubscribe() chan<- string         { return w.unsubscribe }

func (w *World) Metrics() Metrics {
	m, _ := w.metrics.Load().(Metrics)
	return m
}

// Run drives the world from a ticker at TickRateHz until ctx is done or Stop
// is called. The measured wall time between ticks becomes dt, so hitches are
// bounded by MaxStepSeconds inside Update.
func (w *World) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(w.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pending []Command
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case req := <-w.subscribe:
			w.handleSubscribe(req)
		case id := <-w.unsubscribe:
			delete(w.subs, id)
		case cmd := <-w.inbox:
			pending = append(pending, cmd)
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			w.runTick(dt, pending)
			pending = pending[:0]
		}
	}
}

func (w *World) Stop() { w.stopOnce.Do(func() { close(w.stop) }) }

func (w *World) handleSubscribe(req SubscribeRequest) {
	if req.ID == "" || req.Out == nil {
		return
	}
	w.subs[req.ID] = req.Out
	if b := w.stateFrame(w.tick.Load(), w.LatestText()); b != nil {
		sendLatest(req.Out, b)
	}
}

// mergeCommands folds queued commands over the held input.
func (w *World) mergeCommands(cmds []Command) (in Input, start bool) {
	in = w.input
	for _, c := range cmds {
		if c.Start {
			start = true
			in = Input{}
		}
		if c.Input != nil {
			craft := in.Craft
			in = *c.Input
			if in.Craft == model.CraftNone {
				in.Craft = craft
			}
		}
	}
	return in, start
}

func (w *World) runTick(dt float64, cmds []Command) {
	stepStart := time.Now()
	in, start := w.mergeCommands(cmds)

	tick, digest := w.StepOnce(dt, in, start)
	if w.tickLogger != nil {
		_ = w.tickLogger.WriteTick(TickLogEntry{Tick: tick, Dt: dt, Start: start, Input: in, Digest: digest})
	}

	w.publish()
	if len(w.subs) > 0 {
		if b := w.stateFrame(tick, w.LatestText()); b != nil {
			for _, out := range w.subs {
				sendLatest(out, b)
			}
		}
	}

	w.metrics.Store(Metrics{
		Tick:        w.tick.Load(),
		Round:       w.round,
		Mode:        w.mode.String(),
		Subscribers: len(w.subs),
		StepMS:      float64(time.Since(stepStart).Microseconds()) / 1000.0,
	})
}

func (w *World) stateFrame(tick uint64, text []byte) []byte {
	if len(text) == 0 {
		return nil
	}
	b, err := json.Marshal(protocol.StateMsg{
		Type:            protocol.TypeState,
		ProtocolVersion: protocol.Version,
		Tick:            tick,
		State:           json.RawMessage(text),
	})
	if err != nil {
		return nil
	}
	return b
}

// sendLatest never blocks: when out is full the oldest frame is dropped.
func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
