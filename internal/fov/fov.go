// Package fov computes fields of view on a tile map using iterative
// shadow-casting with diamond-shaped walls.  Visibility is symmetric for
// passable tiles; opaque tiles may additionally be visible one-way so that
// walls look consistent when seen from one side.
package fov

// Shape selects the outline of a field of view.
type Shape int

const (
	// Square covers the full square of side 2*radius+1.
	Square Shape = iota
	// Circle is an exact circle of the given radius.  Leaves single-tile
	// bumps of vision at the cardinal edges.
	Circle
	// CirclePlus extends the circle by half a tile to round out the
	// cardinal bumps.
	CirclePlus
)

// Map is the minimal view of a map needed to compute a field of view.
type Map interface {
	// Bounds returns the inclusive map bounds.
	Bounds() (minX, minY, maxX, maxY int)
	// IsOpaque reports whether the tile at the given coordinates blocks
	// sight.
	IsOpaque(x, y int) bool
}

// angle is a slope from the origin center in half-tile units, compared by
// cross-multiplication only; never divide.
type angle struct {
	rise, run int
}

// le reports a <= b.
func (a angle) le(b angle) bool {
	return a.rise*b.run <= b.rise*a.run
}

type sight struct {
	low, high angle
}

// Transform coefficients per octant; octants that own their shared diagonal
// edges emit the y == 0 and y == x tiles, the others skip them.
var octantData = [8]struct {
	xx, xy, yx, yy int
	includeEdges   bool
}{
	{1, 0, 0, 1, true},
	{0, 1, 1, 0, false},
	{0, -1, 1, 0, true},
	{-1, 0, 0, 1, false},
	{-1, 0, 0, -1, true},
	{0, -1, -1, 0, false},
	{0, 1, -1, 0, true},
	{1, 0, 0, -1, false},
}

// Iter iterates over every tile in a field of view.  Each call to Next
// performs a bounded amount of work; the full iteration state is the octant,
// column, sight index and row below plus the two sight lists, so the
// iteration can be suspended and resumed at any point.
type Iter struct {
	m              Map
	startX, startY int
	radius         int
	shape          Shape

	minX, minY, maxX, maxY int
	maxDist2               int
	sightsEven, sightsOdd  []sight
	lowY, highY            int
	lowSight               angle
	hasLowSight            bool

	octant int // -2 before start, -1 origin, 0..7 octants, 8 done
	x      int // 0 when unset; columns run 1..radius
	s      int // -1 when unset; index into the current sight list
	y      int
	ySet   bool
}

// New creates a field of view iterator from the given origin.  radius must be
// non-negative.
func New(m Map, startX, startY, radius int, shape Shape) *Iter {
	if radius < 0 {
		panic("fov: radius must be non-negative")
	}

	maxDist2 := 0
	switch shape {
	case Circle:
		maxDist2 = radius * radius
	case CirclePlus:
		// radius plus half a tile: (r + 0.5)^2 rounds to r*(r+1) in
		// integers, avoiding single-tile cardinal spikes.
		maxDist2 = radius * (radius + 1)
	}

	minX, minY, maxX, maxY := m.Bounds()

	return &Iter{
		m:          m,
		startX:     startX,
		startY:     startY,
		radius:     radius,
		shape:      shape,
		minX:       minX,
		minY:       minY,
		maxX:       maxX,
		maxY:       maxY,
		maxDist2:   maxDist2,
		sightsEven: make([]sight, 0, radius),
		sightsOdd:  make([]sight, 0, radius),
		octant:     -2,
		s:          -1,
	}
}

func (it *Iter) inBounds(x, y int) bool {
	return x >= it.minX && x <= it.maxX && y >= it.minY && y <= it.maxY
}

// advance performs one step of the calculation.  The nested iterations over
// octant, column, sight and row are flattened into resumable state, so there
// is no looping here at all.
func (it *Iter) advance() (outX, outY int, symmetric, emitted bool) {
	if it.octant == -2 {
		// Exit early if the field of view cannot intersect the map.
		if it.startX+it.radius < it.minX || it.startX-it.radius > it.maxX ||
			it.startY+it.radius < it.minY || it.startY-it.radius > it.maxY {
			it.octant = 8
		} else {
			it.octant = -1
		}
	}

	if it.octant == -1 {
		// Visit the origin first.
		it.octant = 0
		return it.startX, it.startY, true, true
	}
	if it.octant >= 8 {
		return 0, 0, false, false
	}

	if it.x == 0 {
		// Kick off the octant with a sight of its full wedge.
		it.sightsOdd = it.sightsOdd[:0]
		it.sightsOdd = append(it.sightsOdd, sight{angle{0, 1}, angle{1, 1}})
		it.x = 1
	}

	if it.x > it.radius {
		it.octant++
		it.x = 0
		return 0, 0, false, false
	}

	// Alternate between the even and odd lists for input and output.
	cur, next := &it.sightsEven, &it.sightsOdd
	if it.x%2 != 0 {
		cur, next = next, cur
	}

	if it.s == -1 {
		*next = (*next)[:0]
		it.s = 0
	}

	if it.s >= len(*cur) {
		it.x++
		it.s = -1
		return 0, 0, false, false
	}

	sg := (*cur)[it.s]

	if sg.low.run <= 0 || sg.high.run <= 0 {
		// Degenerate slope; treat the sight as empty.
		it.s++
		it.ySet = false
		return 0, 0, false, false
	}

	if !it.ySet {
		// The low and high rows are those whose mid-lines are cut by the
		// sight's bounding slopes.
		it.lowY = (2*it.x*sg.low.rise/sg.low.run + 1) / 2
		it.highY = (2*it.x*sg.high.rise/sg.high.run + 1) / 2
		it.hasLowSight = false
		it.y = it.lowY
		it.ySet = true
	}

	inShape := true
	if it.shape != Square {
		inShape = it.x*it.x+it.y*it.y <= it.maxDist2
	}

	if !inShape || it.y > it.highY {
		// Close any sight left dangling at the end of the run.
		if it.hasLowSight {
			*next = append(*next, sight{it.lowSight, sg.high})
			it.hasLowSight = false
		}
		it.s++
		it.ySet = false
		return 0, 0, false, false
	}

	od := octantData[it.octant]
	realX := it.startX + it.x*od.xx + it.y*od.xy
	realY := it.startY + it.x*od.yx + it.y*od.yy

	// Slope through the center of the tile's bottom edge; the extra half
	// tile accounts for the origin sitting at the center of its tile.
	lowMid := angle{it.y*2 - 1, it.x * 2}

	if it.inBounds(realX, realY) && it.m.IsOpaque(realX, realY) {
		// An opaque tile closes the working sight at its low mid-line.
		if it.hasLowSight {
			*next = append(*next, sight{it.lowSight, lowMid})
			it.hasLowSight = false
		}
	} else if !it.hasLowSight {
		// A passable tile opens a new sight at the higher of its low
		// mid-line and the sight's low bound.
		if sg.low.le(lowMid) {
			it.lowSight = lowMid
		} else {
			it.lowSight = sg.low
		}
		it.hasLowSight = true
	}

	y := it.y
	it.y++

	if (od.includeEdges || (y > 0 && y < it.x)) && it.inBounds(realX, realY) {
		center := angle{y, it.x}
		return realX, realY, sg.low.le(center) && center.le(sg.high), true
	}
	return 0, 0, false, false
}

// Next returns the next visible tile and whether the origin and the tile are
// in each other's fields of view.  ok is false once the field of view has
// been fully iterated.
func (it *Iter) Next() (x, y int, symmetric, ok bool) {
	for {
		x, y, symmetric, ok = it.advance()
		if ok {
			if it.inBounds(x, y) {
				return x, y, symmetric, true
			}
			continue
		}
		if it.octant >= 8 {
			return 0, 0, false, false
		}
	}
}
