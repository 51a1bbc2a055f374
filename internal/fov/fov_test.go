package fov

import "testing"

type testMap struct {
	w, h   int
	opaque map[[2]int]bool
}

func newTestMap(w, h int, walls ...[2]int) *testMap {
	m := &testMap{w: w, h: h, opaque: make(map[[2]int]bool)}
	for _, wall := range walls {
		m.opaque[wall] = true
	}
	return m
}

func (m *testMap) Bounds() (int, int, int, int) {
	return 0, 0, m.w - 1, m.h - 1
}

func (m *testMap) IsOpaque(x, y int) bool {
	return m.opaque[[2]int{x, y}]
}

// collect runs the iterator to completion, recording for each tile whether
// any emission was symmetric.
func collect(m Map, x, y, radius int, shape Shape) map[[2]int]bool {
	out := make(map[[2]int]bool)
	it := New(m, x, y, radius, shape)
	for {
		tx, ty, symmetric, ok := it.Next()
		if !ok {
			return out
		}
		out[[2]int{tx, ty}] = out[[2]int{tx, ty}] || symmetric
	}
}

func TestFov_OriginFirstAndSymmetric(t *testing.T) {
	m := newTestMap(9, 9)
	it := New(m, 4, 4, 3, CirclePlus)
	x, y, symmetric, ok := it.Next()
	if !ok {
		t.Fatal("no emissions")
	}
	if x != 4 || y != 4 || !symmetric {
		t.Fatalf("first emission = (%d, %d, %v), want (4, 4, true)", x, y, symmetric)
	}
}

func TestFov_ZeroRadius(t *testing.T) {
	m := newTestMap(5, 5)
	got := collect(m, 2, 2, 0, CirclePlus)
	if len(got) != 1 || !got[[2]int{2, 2}] {
		t.Fatalf("radius 0 emitted %v, want only the origin", got)
	}
}

func TestFov_RadiusBound(t *testing.T) {
	m := newTestMap(21, 21)
	const r = 4
	for pos := range collect(m, 10, 10, r, CirclePlus) {
		dx, dy := pos[0]-10, pos[1]-10
		if dx*dx+dy*dy > r*(r+1) {
			t.Fatalf("(%d, %d) outside circle-plus radius %d", pos[0], pos[1], r)
		}
	}
}

func TestFov_OpenFieldAllSymmetric(t *testing.T) {
	m := newTestMap(21, 21)
	const r = 4
	got := collect(m, 10, 10, r, CirclePlus)
	for y := 0; y < 21; y++ {
		for x := 0; x < 21; x++ {
			dx, dy := x-10, y-10
			inRange := dx*dx+dy*dy <= r*(r+1)
			if inRange && !got[[2]int{x, y}] {
				t.Fatalf("(%d, %d) in range but not symmetrically visible", x, y)
			}
			if !inRange {
				if _, emitted := got[[2]int{x, y}]; emitted {
					t.Fatalf("(%d, %d) out of range but emitted", x, y)
				}
			}
		}
	}
}

func TestFov_SquareShape(t *testing.T) {
	m := newTestMap(11, 11)
	got := collect(m, 5, 5, 2, Square)
	for y := 3; y <= 7; y++ {
		for x := 3; x <= 7; x++ {
			if _, ok := got[[2]int{x, y}]; !ok {
				t.Fatalf("square fov missing (%d, %d)", x, y)
			}
		}
	}
	if len(got) != 25 {
		t.Fatalf("square fov emitted %d tiles, want 25", len(got))
	}
}

func TestFov_PillarWallVisibleSymmetric(t *testing.T) {
	// 5x5 room, single pillar at (2, 2), viewed from (0, 2).
	m := newTestMap(5, 5, [2]int{2, 2})
	got := collect(m, 0, 2, 4, CirclePlus)

	for _, want := range [][2]int{{0, 2}, {1, 2}, {2, 2}} {
		if !got[want] {
			t.Fatalf("(%d, %d) not symmetrically visible", want[0], want[1])
		}
	}
}

func TestFov_TilesBehindPillarNotSymmetric(t *testing.T) {
	m := newTestMap(5, 5, [2]int{2, 2})
	got := collect(m, 0, 2, 4, CirclePlus)

	// The cardinal shadow directly behind the pillar: emitting these tiles
	// asymmetrically is allowed, but never symmetrically.
	for _, shadowed := range [][2]int{{3, 2}, {4, 2}} {
		if got[shadowed] {
			t.Fatalf("occluded tile (%d, %d) reported symmetrically visible", shadowed[0], shadowed[1])
		}
	}
}

func TestFov_WallRowBlocksRoom(t *testing.T) {
	// Solid wall row across the middle; nothing past it is symmetric.
	m := newTestMap(7, 7, [2]int{0, 3}, [2]int{1, 3}, [2]int{2, 3},
		[2]int{3, 3}, [2]int{4, 3}, [2]int{5, 3}, [2]int{6, 3})
	got := collect(m, 3, 1, 5, CirclePlus)
	for pos, symmetric := range got {
		if pos[1] > 3 && symmetric {
			t.Fatalf("(%d, %d) behind a solid wall but symmetric", pos[0], pos[1])
		}
	}
	if !got[[2]int{3, 3}] {
		t.Fatal("wall segment straight ahead should be symmetrically visible")
	}
}

func TestFov_SymmetryForPassableTiles(t *testing.T) {
	m := newTestMap(8, 8,
		[2]int{2, 2}, [2]int{5, 2}, [2]int{3, 4}, [2]int{6, 5}, [2]int{1, 6})
	const r = 7

	type pair struct{ x, y int }
	var passable []pair
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if !m.IsOpaque(x, y) {
				passable = append(passable, pair{x, y})
			}
		}
	}

	fovFrom := make(map[pair]map[[2]int]bool)
	for _, p := range passable {
		fovFrom[p] = collect(m, p.x, p.y, r, CirclePlus)
	}

	for _, a := range passable {
		for _, b := range passable {
			dx, dy := b.x-a.x, b.y-a.y
			if dx*dx+dy*dy > r*(r+1) {
				continue
			}
			ab := fovFrom[a][[2]int{b.x, b.y}]
			ba := fovFrom[b][[2]int{a.x, a.y}]
			if ab != ba {
				t.Fatalf("asymmetric visibility between passable (%d, %d) and (%d, %d): %v vs %v",
					a.x, a.y, b.x, b.y, ab, ba)
			}
		}
	}
}

func TestFov_OriginOutsideMapEmitsNothing(t *testing.T) {
	m := newTestMap(5, 5)
	it := New(m, 20, 20, 3, CirclePlus)
	if x, y, _, ok := it.Next(); ok {
		t.Fatalf("emitted (%d, %d) for an origin far outside the map", x, y)
	}
}
