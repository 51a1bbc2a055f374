// Package path finds shortest paths on a tile map using A* over a bounded
// search window.  Steps may be any of the 8 neighbors; cardinal steps cost
// 100 and diagonal steps 141 so that returned paths look like paths a person
// would walk even though gameplay treats both step kinds as one turn.
package path

import "container/heap"

// Map is the minimal view of a map needed to find paths.
type Map interface {
	// Bounds returns the inclusive map bounds.
	Bounds() (minX, minY, maxX, maxY int)
	// IsBlocked reports whether the tile at the given coordinates cannot
	// be stepped on, either because it is a wall or because something
	// blocking stands on it.
	IsBlocked(x, y int) bool
}

const (
	cardinalCost = 100
	diagonalCost = 141
)

var adjacentTiles = [8][2]int{
	{-1, 0}, // cardinals
	{1, 0},
	{0, -1},
	{0, 1},
	{-1, -1}, // diagonals
	{-1, 1},
	{1, -1},
	{1, 1},
}

type node struct {
	x, y     int
	priority int
	seq      int // insertion order breaks priority ties
}

type frontier []node

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if f[i].priority != f[j].priority {
		return f[i].priority < f[j].priority
	}
	return f[i].seq < f[j].seq
}
func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(v any)   { *f = append(*f, v.(node)) }
func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	v := old[n-1]
	*f = old[:n-1]
	return v
}

// heuristic estimates the remaining cost from (x, y) to (dx, dy).  Diagonals
// are counted at full cost while the straight remainder is counted at 99,
// one below the true cardinal cost, so that otherwise-equal paths spend
// their diagonal moves early and finish along an axis-aligned line.
func heuristic(x, y, dx, dy int) int {
	ax := dx - x
	if ax < 0 {
		ax = -ax
	}
	ay := dy - y
	if ay < 0 {
		ay = -ay
	}
	a, b := ax, ay
	if a > b {
		a, b = b, a
	}
	return a*diagonalCost + (b-a)*99
}

// Iter steps lazily through a found path.  The first step is the source;
// callers typically read only the first step or two per turn.
type Iter struct {
	steps []pos
	i     int
}

type pos struct {
	x, y int
}

// Next returns the next step of the path.  ok is false when the path is
// exhausted or none was found.
func (it *Iter) Next() (x, y int, ok bool) {
	if it.i >= len(it.steps) {
		return 0, 0, false
	}
	p := it.steps[it.i]
	it.i++
	return p.x, p.y, true
}

// Len returns the number of steps remaining.
func (it *Iter) Len() int {
	return len(it.steps) - it.i
}

// FindPath searches for a shortest path from (sx, sy) to (dx, dy) inside the
// bounding box of the two points expanded by pad tiles on every side and
// clipped to the map bounds.  No step lands on a blocked tile except possibly
// the destination itself, so paths can be found to a blocked target such as
// an occupied tile.
//
// If the destination cannot be reached and fallback is set, the returned path
// leads to the explored tile closest to the destination; otherwise the
// returned iterator is empty.
func FindPath(m Map, sx, sy, dx, dy, pad int, fallback bool) *Iter {
	mapMinX, mapMinY, mapMaxX, mapMaxY := m.Bounds()

	minX := min(sx, dx) - pad
	minY := min(sy, dy) - pad
	maxX := max(sx, dx) + pad
	maxY := max(sy, dy) + pad
	minX = max(minX, mapMinX)
	minY = max(minY, mapMinY)
	maxX = min(maxX, mapMaxX)
	maxY = min(maxY, mapMaxY)

	if sx < minX || sx > maxX || sy < minY || sy > maxY {
		return &Iter{}
	}

	costSoFar := map[pos]int{{sx, sy}: 0}
	cameFrom := map[pos]pos{}

	f := frontier{{sx, sy, heuristic(sx, sy, dx, dy), 0}}
	seq := 1

	closest := pos{sx, sy}
	closestCost := 0
	closestH := heuristic(sx, sy, dx, dy)
	found := false

	for f.Len() > 0 {
		cur := heap.Pop(&f).(node)
		curPos := pos{cur.x, cur.y}
		curCost := costSoFar[curPos]

		if cur.x == dx && cur.y == dy {
			found = true
			break
		}

		if h := heuristic(cur.x, cur.y, dx, dy); h < closestH || (h == closestH && curCost < closestCost) {
			closest = curPos
			closestCost = curCost
			closestH = h
		}

		for i, d := range adjacentTiles {
			nx := cur.x + d[0]
			ny := cur.y + d[1]
			if nx < minX || nx > maxX || ny < minY || ny > maxY {
				continue
			}
			if (nx != dx || ny != dy) && m.IsBlocked(nx, ny) {
				continue
			}

			stepCost := cardinalCost
			if i >= 4 {
				stepCost = diagonalCost
			}
			nextCost := curCost + stepCost
			np := pos{nx, ny}
			if old, seen := costSoFar[np]; !seen || nextCost < old {
				costSoFar[np] = nextCost
				cameFrom[np] = curPos
				heap.Push(&f, node{nx, ny, nextCost + heuristic(nx, ny, dx, dy), seq})
				seq++
			}
		}
	}

	var target pos
	switch {
	case found:
		target = pos{dx, dy}
	case fallback:
		target = closest
	default:
		return &Iter{}
	}

	// Rebuild by walking the back-pointers, then reverse in place so the
	// path runs source-first.
	steps := []pos{target}
	for target != (pos{sx, sy}) {
		target = cameFrom[target]
		steps = append(steps, target)
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}

	return &Iter{steps: steps}
}
