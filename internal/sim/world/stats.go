package world

import (
	"bedrockdescent.io/internal/sim/kernel/model"
)

// RoundStats accumulates per-round bookkeeping. Elapsed counts only playing time.
type RoundStats struct {
	Elapsed  float64            `json:"elapsed"`
	MaxDepth int                `json:"maxDepth"`
	Mined    map[model.Tile]int `json:"mined"`
	Damage   map[string]int     `json:"damage"`
	Crafted  int                `json:"crafted"`
}

func newRoundStats() RoundStats {
	return RoundStats{
		Mined:  map[model.Tile]int{},
		Damage: map[string]int{},
	}
}

func (s RoundStats) clone() RoundStats {
	out := s
	out.Mined = make(map[model.Tile]int, len(s.Mined))
	for k, v := range s.Mined {
		out.Mined[k] = v
	}
	out.Damage = make(map[string]int, len(s.Damage))
	for k, v := range s.Damage {
		out.Damage[k] = v
	}
	return out
}

func (s RoundStats) TotalMined() int {
	n := 0
	for _, v := range s.Mined {
		n += v
	}
	return n
}

// Round outcomes reported to a RoundRecorder.
const (
	OutcomeWon       = "won"
	OutcomeLost      = "lost"
	OutcomeAbandoned = "abandoned"
)

// RoundSummary is emitted once per finished round.
type RoundSummary struct {
	Round     uint64     `json:"round"`
	Outcome   string     `json:"outcome"`
	StartTick uint64     `json:"start_tick"`
	EndTick   uint64     `json:"end_tick"`
	Depth     int        `json:"depth"`
	Tool      model.Tool `json:"tool"`
	Health    int        `json:"health"`
	Stats     RoundStats `json:"stats"`
	Digest    string     `json:"digest"`
}

type RoundRecorder interface {
	RecordRound(s RoundSummary) error
}
