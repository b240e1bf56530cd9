package world

import "math"

// AdvanceTime runs ms of simulated time as equal sub-steps of about
// AdvanceStepMs each, at least one. It returns the number of Updates run.
func (w *World) AdvanceTime(ms float64) int {
	if !(ms > 0) || math.IsInf(ms, 1) {
		return 0
	}
	steps := int(math.Round(ms / w.cfg.AdvanceStepMs))
	if steps < 1 {
		steps = 1
	}
	dt := ms / 1000 / float64(steps)
	for i := 0; i < steps; i++ {
		w.Update(dt)
	}
	return steps
}

// StepOnce runs one tick with the given input, optionally starting a new round
// first, using the same ordering as the runtime loop. It is intended for
// deterministic replays and tests.
func (w *World) StepOnce(dt float64, in Input, start bool) (tick uint64, digest string) {
	if start {
		w.StartRound()
	}
	w.SetInput(in)
	tick = w.tick.Load()
	w.Update(dt)
	return tick, w.StateDigest()
}
