package model

import "testing"

func TestTileAttributes(t *testing.T) {
	for _, tl := range AllTiles() {
		wantSolid := tl != TileAir && tl != TileLava
		if tl.Solid() != wantSolid {
			t.Fatalf("%s solid=%v want %v", tl, tl.Solid(), wantSolid)
		}
		wantBreak := tl != TileAir && tl != TileLava && tl != TileBedrock
		if tl.Breakable() != wantBreak {
			t.Fatalf("%s breakable=%v want %v", tl, tl.Breakable(), wantBreak)
		}
		if _, ok := tl.Resource(); ok != wantBreak {
			t.Fatalf("%s resource mapping=%v want %v", tl, ok, wantBreak)
		}
		back, ok := ParseTile(tl.String())
		if !ok || back != tl {
			t.Fatalf("ParseTile(%q)=%v,%v", tl.String(), back, ok)
		}
	}
	if Tile(200).Solid() || Tile(200).Breakable() {
		t.Fatalf("invalid tile code must be neither solid nor breakable")
	}
}

func TestGrassDropsDirt(t *testing.T) {
	r, ok := TileGrass.Resource()
	if !ok || r != ResourceDirt {
		t.Fatalf("grass should drop dirt, got %v %v", r, ok)
	}
}

func TestInventoryNeverNegative(t *testing.T) {
	var inv Inventory
	inv.Add(ResourceCoal, -3)
	inv.Set(ResourceIron, -1)
	if inv.Get(ResourceCoal) != 0 || inv.Get(ResourceIron) != 0 {
		t.Fatalf("inventory went negative: %+v", inv)
	}
	inv.Add(ResourceStone, 2)
	if got := inv.Counts()["stone"]; got != 2 {
		t.Fatalf("stone count: %d", got)
	}
}

func TestCraftKindParse(t *testing.T) {
	if ParseCraftKind("iron") != CraftIron || ParseCraftKind("stone") != CraftStone || ParseCraftKind("gold") != CraftNone {
		t.Fatalf("ParseCraftKind mismatch")
	}
	if tool, ok := CraftIron.Tool(); !ok || tool != ToolIronPick {
		t.Fatalf("CraftIron.Tool mismatch")
	}
}

func TestInventoryGetOnValue(t *testing.T) {
	// Get must work on non-addressable values such as World.Inventory() results.
	if got := (Inventory{ResourceDirt: 2}).Get(ResourceDirt); got != 2 {
		t.Fatalf("Get on value: got %d want 2", got)
	}
	if got := (Inventory{}).Get(NumResources); got != 0 {
		t.Fatalf("Get out of range: got %d want 0", got)
	}
}
