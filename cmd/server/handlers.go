package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"bedrockdescent.io/internal/persistence/indexdb"
	"bedrockdescent.io/internal/sim/world"
)

func registerHandlers(mux *http.ServeMux, w *world.World, idx runtimeIndex) {
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})

	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")

		m := w.Metrics()
		tick := w.CurrentTick()
		if m.Tick != 0 {
			tick = m.Tick
		}

		// Minimal Prometheus exposition format.
		fmt.Fprintf(rw, "# HELP bedrock_world_tick Current world tick.\n")
		fmt.Fprintf(rw, "# TYPE bedrock_world_tick gauge\n")
		fmt.Fprintf(rw, "bedrock_world_tick %d\n", tick)

		fmt.Fprintf(rw, "# HELP bedrock_world_round Current round number.\n")
		fmt.Fprintf(rw, "# TYPE bedrock_world_round gauge\n")
		fmt.Fprintf(rw, "bedrock_world_round{mode=%q} %d\n", m.Mode, m.Round)

		fmt.Fprintf(rw, "# HELP bedrock_world_subscribers Connected STATE subscribers.\n")
		fmt.Fprintf(rw, "# TYPE bedrock_world_subscribers gauge\n")
		fmt.Fprintf(rw, "bedrock_world_subscribers %d\n", m.Subscribers)

		fmt.Fprintf(rw, "# HELP bedrock_world_step_ms Last tick step duration in milliseconds.\n")
		fmt.Fprintf(rw, "# TYPE bedrock_world_step_ms gauge\n")
		fmt.Fprintf(rw, "bedrock_world_step_ms %.3f\n", m.StepMS)

		if idx != nil {
			st := idx.Stats()
			fmt.Fprintf(rw, "# HELP bedrock_index_queue_depth Index writer backlog.\n")
			fmt.Fprintf(rw, "# TYPE bedrock_index_queue_depth gauge\n")
			fmt.Fprintf(rw, "bedrock_index_queue_depth %d\n", st.QueueDepth)
			fmt.Fprintf(rw, "# HELP bedrock_index_dropped_total Index writes dropped because the queue was full.\n")
			fmt.Fprintf(rw, "# TYPE bedrock_index_dropped_total counter\n")
			fmt.Fprintf(rw, "bedrock_index_dropped_total{kind=%q} %d\n", "tick", st.DropTickTotal)
			fmt.Fprintf(rw, "bedrock_index_dropped_total{kind=%q} %d\n", "round", st.DropRoundTotal)
		}
	})

	// Latest text snapshot, the same document STATE frames carry.
	mux.HandleFunc("/v1/state", func(rw http.ResponseWriter, r *http.Request) {
		b := w.LatestText()
		if len(b) == 0 {
			rw.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		_, _ = rw.Write(b)
	})

	mux.HandleFunc("/v1/rounds", func(rw http.ResponseWriter, r *http.Request) {
		if idx == nil {
			http.Error(rw, "round index disabled", http.StatusNotFound)
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		rows, err := idx.RecentRounds(r.Context(), limit)
		if err != nil {
			http.Error(rw, err.Error(), http.StatusInternalServerError)
			return
		}
		if rows == nil {
			rows = []indexdb.RoundRow{}
		}
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(map[string]any{"rounds": rows})
	})
}
