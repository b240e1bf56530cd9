package world

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"

	"bedrockdescent.io/internal/sim/kernel/model"
)

type hashWriter interface {
	Write(p []byte) (n int, err error)
}

// StateDigest hashes everything that influences future ticks: grid, player,
// inventory, tool, mode, held input, mining session and progress bookkeeping.
func (w *World) StateDigest() string {
	h := sha256.New()
	var tmp [8]byte

	digestWriteU64(h, &tmp, w.tick.Load())
	digestWriteU64(h, &tmp, w.round)
	h.Write([]byte{byte(w.mode), byte(w.tool), boolByte(w.lavaContact)})

	gd := w.grid.Digest()
	h.Write(gd[:])

	p := w.player
	for _, f := range []float64{p.X, p.Y, p.VX, p.VY, p.W, p.H, p.DamageCooldown, p.HurtFlash} {
		digestWriteF64(h, &tmp, f)
	}
	h.Write([]byte{boolByte(p.OnGround)})
	digestWriteI64(h, &tmp, int64(p.Health))
	digestWriteI64(h, &tmp, int64(p.MaxHealth))

	for r := model.Resource(0); r < model.NumResources; r++ {
		digestWriteI64(h, &tmp, int64(w.inv.Get(r)))
	}

	in := w.input
	digestWriteI64(h, &tmp, int64(in.Axis))
	digestWriteF64(h, &tmp, in.MouseX)
	digestWriteF64(h, &tmp, in.MouseY)
	h.Write([]byte{boolByte(in.Jump), boolByte(in.MouseDown), byte(in.Craft), boolByte(in.CraftPanel)})
	digestWriteF64(h, &tmp, w.jumpBuffer)

	s := w.session
	h.Write([]byte{boolByte(s.Active), byte(s.Target.Tile)})
	digestWriteI64(h, &tmp, int64(s.Target.TX))
	digestWriteI64(h, &tmp, int64(s.Target.TY))
	digestWriteF64(h, &tmp, s.Progress)

	digestWriteI64(h, &tmp, int64(w.tracker.Last))
	digestWriteF64(h, &tmp, w.tracker.Milestone.Remaining)
	digestWriteF64(h, &tmp, w.toast.Remaining)
	h.Write([]byte(w.toast.Text))
	digestWriteF64(h, &tmp, w.stats.Elapsed)

	return hex.EncodeToString(h.Sum(nil))
}

func digestWriteU64(h hashWriter, tmp *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(tmp[:], v)
	h.Write(tmp[:])
}

func digestWriteI64(h hashWriter, tmp *[8]byte, v int64) {
	digestWriteU64(h, tmp, uint64(v))
}

func digestWriteF64(h hashWriter, tmp *[8]byte, v float64) {
	digestWriteU64(h, tmp, math.Float64bits(v))
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
