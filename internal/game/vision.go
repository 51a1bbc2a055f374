package game

import "github.com/thornevale/runedelve/internal/fov"

// defaultSightRange is how far creatures can see, in tiles.
const defaultSightRange = 8

// FieldOfView is an entity's current visibility: a square bitmap of side
// 2*Range+1 centered on the origin.  Invalidated whenever the origin or the
// map changes.
type FieldOfView struct {
	tiles  *BitGrid
	cx, cy int
	Range  int
	Dirty  bool
}

// NewFieldOfView creates an empty field of view with the given radius.
func NewFieldOfView(sightRange int) *FieldOfView {
	side := 2*sightRange + 1
	return &FieldOfView{
		tiles: NewBitGrid(side, side),
		Range: sightRange,
		Dirty: true,
	}
}

// Visible reports whether the map position is currently visible.
func (f *FieldOfView) Visible(x, y int) bool {
	return f.tiles.Get(x-f.cx+f.Range, y-f.cy+f.Range)
}

// Refresh recomputes visibility from the given origin.  A tile counts as
// visible when it is symmetrically visible, or when it is a wall reached
// asymmetrically, so walls read consistently from the open side.
func (f *FieldOfView) Refresh(m *Map, x, y int) {
	f.tiles.ZeroOut()
	f.cx = x
	f.cy = y
	it := fov.New(m, x, y, f.Range, fov.CirclePlus)
	for {
		tx, ty, symmetric, ok := it.Next()
		if !ok {
			break
		}
		if symmetric || m.IsOpaque(tx, ty) {
			f.tiles.Set(tx-x+f.Range, ty-y+f.Range, true)
		}
	}
	f.Dirty = false
}

// MarkSeen applies every visible tile onto the map's seen bitmap.
func (f *FieldOfView) MarkSeen(m *Map) {
	f.tiles.ApplyOnto(m.Seen, f.cx-f.Range, f.cy-f.Range)
}
