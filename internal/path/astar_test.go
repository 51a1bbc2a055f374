package path

import "testing"

type testMap struct {
	w, h    int
	blocked map[[2]int]bool
}

func newTestMap(w, h int, blocked ...[2]int) *testMap {
	m := &testMap{w: w, h: h, blocked: make(map[[2]int]bool)}
	for _, b := range blocked {
		m.blocked[b] = true
	}
	return m
}

func (m *testMap) Bounds() (int, int, int, int) {
	return 0, 0, m.w - 1, m.h - 1
}

func (m *testMap) IsBlocked(x, y int) bool {
	return m.blocked[[2]int{x, y}]
}

func steps(it *Iter) [][2]int {
	var out [][2]int
	for {
		x, y, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, [2]int{x, y})
	}
}

func pathCost(t *testing.T, path [][2]int) int {
	t.Helper()
	cost := 0
	for i := 1; i < len(path); i++ {
		dx := path[i][0] - path[i-1][0]
		dy := path[i][1] - path[i-1][1]
		if dx < -1 || dx > 1 || dy < -1 || dy > 1 || (dx == 0 && dy == 0) {
			t.Fatalf("steps %v and %v are not 8-neighbors", path[i-1], path[i])
		}
		if dx != 0 && dy != 0 {
			cost += diagonalCost
		} else {
			cost += cardinalCost
		}
	}
	return cost
}

// dijkstraCost is a reference shortest-path cost under the same edge costs,
// bounded to the same search rectangle.
func dijkstraCost(m Map, sx, sy, dx, dy, pad int) int {
	mapMinX, mapMinY, mapMaxX, mapMaxY := m.Bounds()
	minX := max(min(sx, dx)-pad, mapMinX)
	minY := max(min(sy, dy)-pad, mapMinY)
	maxX := min(max(sx, dx)+pad, mapMaxX)
	maxY := min(max(sy, dy)+pad, mapMaxY)

	const inf = int(^uint(0) >> 1)
	dist := map[[2]int]int{{sx, sy}: 0}
	done := map[[2]int]bool{}
	for {
		best := [2]int{}
		bestCost := inf
		for pos, c := range dist {
			if !done[pos] && c < bestCost {
				best, bestCost = pos, c
			}
		}
		if bestCost == inf {
			return inf
		}
		if best == [2]int{dx, dy} {
			return bestCost
		}
		done[best] = true
		for i, d := range adjacentTiles {
			nx, ny := best[0]+d[0], best[1]+d[1]
			if nx < minX || nx > maxX || ny < minY || ny > maxY {
				continue
			}
			if (nx != dx || ny != dy) && m.IsBlocked(nx, ny) {
				continue
			}
			step := cardinalCost
			if i >= 4 {
				step = diagonalCost
			}
			if old, ok := dist[[2]int{nx, ny}]; !ok || bestCost+step < old {
				dist[[2]int{nx, ny}] = bestCost + step
			}
		}
	}
}

func TestFindPath_FirstStepIsSource(t *testing.T) {
	m := newTestMap(10, 10)
	got := steps(FindPath(m, 3, 7, 8, 1, 0, false))
	if len(got) == 0 {
		t.Fatal("expected a path on an open map")
	}
	if got[0] != [2]int{3, 7} {
		t.Fatalf("first step = %v, want (3, 7)", got[0])
	}
}

func TestFindPath_AxisAlignedTail(t *testing.T) {
	// Open 10x10 map: the heuristic spends diagonals early so the tail of
	// the path runs straight along the axis.
	m := newTestMap(10, 10)
	got := steps(FindPath(m, 0, 0, 9, 4, 0, false))

	if len(got) != 10 {
		t.Fatalf("path length = %d, want 10", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i][0] < got[i-1][0] {
			t.Fatalf("x decreased from %v to %v", got[i-1], got[i])
		}
	}
	for i := len(got) - 5; i < len(got); i++ {
		if got[i][1] != got[i-1][1] {
			t.Fatalf("move into %v is not purely cardinal in x", got[i])
		}
	}
	if got[len(got)-1] != [2]int{9, 4} {
		t.Fatalf("path ends at %v, want (9, 4)", got[len(got)-1])
	}
}

func TestFindPath_OptimalAroundWalls(t *testing.T) {
	m := newTestMap(12, 12,
		[2]int{4, 0}, [2]int{4, 1}, [2]int{4, 2}, [2]int{4, 3}, [2]int{4, 4},
		[2]int{7, 11}, [2]int{7, 10}, [2]int{7, 9}, [2]int{7, 8})
	const pad = 3
	got := steps(FindPath(m, 1, 1, 10, 10, pad, false))
	if len(got) == 0 {
		t.Fatal("expected a path")
	}
	want := dijkstraCost(m, 1, 1, 10, 10, pad)
	if cost := pathCost(t, got); cost != want {
		t.Fatalf("path cost = %d, want optimal %d", cost, want)
	}
}

func TestFindPath_NoPathWithoutFallback(t *testing.T) {
	// Destination sealed in a wall ring.
	m := newTestMap(10, 10,
		[2]int{4, 4}, [2]int{5, 4}, [2]int{6, 4},
		[2]int{4, 5}, [2]int{6, 5},
		[2]int{4, 6}, [2]int{5, 6}, [2]int{6, 6})
	got := steps(FindPath(m, 0, 0, 5, 5, 4, false))
	if len(got) != 0 {
		t.Fatalf("expected empty path, got %v", got)
	}
}

func TestFindPath_FallbackReachesClosestTile(t *testing.T) {
	m := newTestMap(10, 10,
		[2]int{4, 4}, [2]int{5, 4}, [2]int{6, 4},
		[2]int{4, 5}, [2]int{6, 5},
		[2]int{4, 6}, [2]int{5, 6}, [2]int{6, 6})
	got := steps(FindPath(m, 0, 0, 5, 5, 4, true))
	if len(got) == 0 {
		t.Fatal("expected a fallback path")
	}
	if got[0] != [2]int{0, 0} {
		t.Fatalf("first step = %v, want (0, 0)", got[0])
	}
	for _, p := range got {
		if m.IsBlocked(p[0], p[1]) {
			t.Fatalf("fallback path steps on blocked tile %v", p)
		}
	}
	// The closest explorable tiles sit two cardinal steps from the sealed
	// destination, just outside the ring.
	last := got[len(got)-1]
	if h := heuristic(last[0], last[1], 5, 5); h != 2*99 {
		t.Fatalf("fallback ends at %v with heuristic %d, want %d", last, h, 2*99)
	}
	pathCost(t, got)
}

func TestFindPath_BlockedDestinationIsReachable(t *testing.T) {
	// The destination itself is blocked, as when pathing to a creature.
	m := newTestMap(10, 10, [2]int{5, 5})
	got := steps(FindPath(m, 2, 5, 5, 5, 0, false))
	if len(got) == 0 {
		t.Fatal("expected a path onto the blocked destination")
	}
	if got[len(got)-1] != [2]int{5, 5} {
		t.Fatalf("path ends at %v, want (5, 5)", got[len(got)-1])
	}
	for _, p := range got[:len(got)-1] {
		if m.IsBlocked(p[0], p[1]) {
			t.Fatalf("intermediate step %v is blocked", p)
		}
	}
}

func TestFindPath_BoundPadGatesDetours(t *testing.T) {
	// A wall spans the exact bounding box of source and destination, so
	// the path must detour outside it.
	m := newTestMap(12, 12,
		[2]int{3, 2}, [2]int{3, 3}, [2]int{3, 4}, [2]int{3, 5}, [2]int{3, 6})
	if got := steps(FindPath(m, 1, 4, 6, 4, 0, false)); len(got) != 0 {
		t.Fatalf("pad 0 should find no path, got %v", got)
	}
	got := steps(FindPath(m, 1, 4, 6, 4, 3, false))
	if len(got) == 0 {
		t.Fatal("pad 3 should find a detour")
	}
	if got[len(got)-1] != [2]int{6, 4} {
		t.Fatalf("path ends at %v, want (6, 4)", got[len(got)-1])
	}
}

func TestFindPath_SourceEqualsDestination(t *testing.T) {
	m := newTestMap(5, 5)
	got := steps(FindPath(m, 2, 2, 2, 2, 0, false))
	if len(got) != 1 || got[0] != [2]int{2, 2} {
		t.Fatalf("path = %v, want just (2, 2)", got)
	}
}
