package game

import "testing"

// openWorld builds a world over an all-floor test map.
func openWorld(t *testing.T, w, h int) *World {
	t.Helper()
	world := NewWorld(1)
	m := NewMap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetTile(x, y, TileFloor)
		}
	}
	world.Map = m
	return world
}

func spawnBlocker(w *World, x, y int) EntityID {
	return w.Spawn(&Entity{
		Name:       "blocker",
		HasPos:     true,
		Pos:        Position{x, y},
		BlocksMove: true,
		MaxHP:      5,
		HP:         5,
	})
}

func TestMap_OutOfBoundsIsOpaqueAndBlocked(t *testing.T) {
	m := NewMap(5, 5)
	if !m.IsOpaque(-1, 0) || !m.IsOpaque(5, 0) {
		t.Fatal("out-of-bounds tiles should read as opaque")
	}
	if !m.IsBlocked(0, -1) || !m.IsBlocked(0, 5) {
		t.Fatal("out-of-bounds tiles should read as blocked")
	}
	if m.TileAt(99, 99) != TileWall {
		t.Fatal("out-of-bounds TileAt should return wall")
	}
}

func TestMap_BlockingEntityBlocksCell(t *testing.T) {
	w := openWorld(t, 5, 5)
	if w.Map.IsBlocked(2, 2) {
		t.Fatal("open floor should not be blocked")
	}
	id := spawnBlocker(w, 2, 2)
	if !w.Map.IsBlocked(2, 2) {
		t.Fatal("cell with a blocking entity should be blocked")
	}
	w.Despawn(id)
	if w.Map.IsBlocked(2, 2) {
		t.Fatal("cell still blocked after despawn")
	}
}

func TestMap_MoveEntityUpdatesBothCaches(t *testing.T) {
	w := openWorld(t, 6, 6)
	id := spawnBlocker(w, 1, 1)

	w.MoveEntity(id, Position{4, 2})

	if e := w.Entity(id); e.Pos != (Position{4, 2}) {
		t.Fatalf("entity position = %v after move", e.Pos)
	}
	if len(w.Map.EntitiesAt(1, 1)) != 0 {
		t.Fatal("old cell still indexes the entity")
	}
	found := false
	for _, other := range w.Map.EntitiesAt(4, 2) {
		if other == id {
			found = true
		}
	}
	if !found {
		t.Fatal("new cell does not index the entity")
	}
	if w.Map.IsBlocked(1, 1) {
		t.Fatal("old cell still blocked")
	}
	if !w.Map.IsBlocked(4, 2) {
		t.Fatal("new cell not blocked")
	}
}

func TestMap_StackedBlockersKeepCellBlocked(t *testing.T) {
	w := openWorld(t, 5, 5)
	a := spawnBlocker(w, 2, 2)
	b := w.Spawn(&Entity{Name: "second", HasPos: true, Pos: Position{2, 2}, BlocksMove: true})

	w.Despawn(a)
	if !w.Map.IsBlocked(2, 2) {
		t.Fatal("cell unblocked while a second blocker remains")
	}
	w.Despawn(b)
	if w.Map.IsBlocked(2, 2) {
		t.Fatal("cell blocked with no blockers left")
	}
}
