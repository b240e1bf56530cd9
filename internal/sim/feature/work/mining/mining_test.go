package mining

import (
	"testing"

	"bedrockdescent.io/internal/sim/kernel/model"
)

type fakeGrid map[[2]int]model.Tile

func (f fakeGrid) At(tx, ty int) model.Tile { return f[[2]int{tx, ty}] }

func (f fakeGrid) Set(tx, ty int, t model.Tile) bool {
	if f[[2]int{tx, ty}] == model.TileBedrock {
		return false
	}
	f[[2]int{tx, ty}] = t
	return true
}

func testParams() Params {
	return NewParams(32, 3.4,
		map[string]float64{"grass": 0.35, "dirt": 0.45, "stone": 1.0, "coal_ore": 1.15, "iron_ore": 1.7, "bedrock": 9},
		map[string]float64{"hand": 1.0, "stone_pick": 1.8, "iron_pick": 2.8},
	)
}

func TestParams_Ordering(t *testing.T) {
	p := testParams()
	if !(p.Hardness(model.TileGrass) < p.Hardness(model.TileStone) && p.Hardness(model.TileStone) < p.Hardness(model.TileIronOre)) {
		t.Fatalf("hardness ordering broken")
	}
	if !(p.Power(model.ToolHand) < p.Power(model.ToolStonePick) && p.Power(model.ToolStonePick) < p.Power(model.ToolIronPick)) {
		t.Fatalf("tool power ordering broken")
	}
	if h := p.Hardness(model.TileBedrock); h < 1e300 {
		t.Fatalf("bedrock must be unbreakable, hardness=%v", h)
	}
}

func TestFindTarget_ClosestBreakableInReach(t *testing.T) {
	g := fakeGrid{
		{3, 3}: model.TileDirt,
		{4, 3}: model.TileStone,
		{5, 3}: model.TileBedrock,
	}
	p := testParams()
	// Cursor in cell (4,3), nearest to its center.
	got, ok := FindTarget(g, p, 4*32+16, 3*32+16, 4*32, 2*32)
	if !ok || got.TX != 4 || got.TY != 3 || got.Tile != model.TileStone {
		t.Fatalf("expected stone at 4,3, got %+v ok=%v", got, ok)
	}
	// Cursor on bedrock cell falls back to the nearest breakable neighbour.
	got, ok = FindTarget(g, p, 5*32+16, 3*32+16, 4*32, 2*32)
	if !ok || got.TX != 4 {
		t.Fatalf("expected fallback to 4,3, got %+v ok=%v", got, ok)
	}
}

func TestFindTarget_OutOfReach(t *testing.T) {
	g := fakeGrid{{20, 20}: model.TileDirt}
	if _, ok := FindTarget(g, testParams(), 20*32+16, 20*32+16, 0, 0); ok {
		t.Fatalf("expected no target beyond reach")
	}
}

func TestFindTarget_TieKeepsScanOrder(t *testing.T) {
	g := fakeGrid{
		{2, 2}: model.TileDirt,
		{4, 2}: model.TileDirt,
	}
	// Cursor exactly between the two tile centers.
	got, ok := FindTarget(g, testParams(), 3*32+16, 2*32+16, 3*32+16, 2*32+16)
	if !ok || got.TX != 2 {
		t.Fatalf("expected first scanned tile on tie, got %+v", got)
	}
}

func TestSession_ProgressAndReset(t *testing.T) {
	p := testParams()
	var s Session
	a := Target{TX: 1, TY: 1, Tile: model.TileStone}
	b := Target{TX: 2, TY: 1, Tile: model.TileStone}

	prev := 0.0
	for i := 0; i < 5; i++ {
		if s.Advance(p, a, true, true, 0.1, model.ToolHand) {
			t.Fatalf("stone broke too early at step %d", i)
		}
		if s.Progress <= prev {
			t.Fatalf("progress did not increase: %v -> %v", prev, s.Progress)
		}
		prev = s.Progress
	}
	s.Advance(p, b, true, true, 0.1, model.ToolHand)
	if s.Target != b || s.Progress > 0.1+1e-9 {
		t.Fatalf("switching target must restart progress, got %+v", s)
	}
	s.Advance(p, b, true, false, 0.1, model.ToolHand)
	if s.Active || s.Progress != 0 {
		t.Fatalf("release must reset session, got %+v", s)
	}
}

func TestSession_BreaksAtHardness(t *testing.T) {
	p := testParams()
	var s Session
	a := Target{TX: 1, TY: 1, Tile: model.TileDirt}
	// dirt 0.45 with hand power 1.0 at 0.1s steps breaks on the 5th step.
	for i := 1; i <= 5; i++ {
		broke := s.Advance(p, a, true, true, 0.1, model.ToolHand)
		if broke != (i == 5) {
			t.Fatalf("step %d: broke=%v progress=%v", i, broke, s.Progress)
		}
	}
	if s.Ratio() != 1 {
		t.Fatalf("ratio at break should clamp to 1, got %v", s.Ratio())
	}
}

func TestBreak_GrantsResource(t *testing.T) {
	g := fakeGrid{{1, 1}: model.TileCoalOre, {2, 1}: model.TileBedrock}
	var inv model.Inventory
	res, dropped, ok := Break(g, &inv, Target{TX: 1, TY: 1, Tile: model.TileCoalOre})
	if !ok || !dropped || res != model.ResourceCoal || inv.Get(model.ResourceCoal) != 1 {
		t.Fatalf("unexpected break result res=%v dropped=%v ok=%v inv=%v", res, dropped, ok, inv)
	}
	if g.At(1, 1) != model.TileAir {
		t.Fatalf("tile not removed")
	}
	if _, _, ok := Break(g, &inv, Target{TX: 2, TY: 1, Tile: model.TileBedrock}); ok {
		t.Fatalf("bedrock must not break")
	}
	// Stale target (tile changed since targeting) is refused.
	if _, _, ok := Break(g, &inv, Target{TX: 1, TY: 1, Tile: model.TileCoalOre}); ok {
		t.Fatalf("stale target must not break")
	}
}
