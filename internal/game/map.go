package game

import "github.com/thornevale/runedelve/internal/gridview"

// Tile is one map cell's terrain.
type Tile uint8

const (
	TileWall Tile = iota
	TileFloor
	TileFloorScuffed
	TileFloorMossy
	TileDownStairs
)

// Position is a map coordinate.
type Position struct {
	X, Y int
}

// Map is the dungeon level: terrain, the seen-tile bitmap, and an occupancy
// cache indexing every positioned entity by cell.  Cells with at least one
// movement-blocking entity carry a positive blocking count so pathing can
// treat them as solid without walking entity lists.
type Map struct {
	Width, Height int
	Depth         int32
	tiles         []Tile
	Seen          *BitGrid
	byPosition    map[Position][]EntityID
	blockedCount  []int
}

// NewMap creates an all-wall map of the given dimensions.
func NewMap(width, height int) *Map {
	return &Map{
		Width:        width,
		Height:       height,
		tiles:        make([]Tile, width*height),
		Seen:         NewBitGrid(width, height),
		byPosition:   make(map[Position][]EntityID),
		blockedCount: make([]int, width*height),
	}
}

// InBounds reports whether (x, y) lies on the map.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// TileAt returns the terrain at (x, y); out-of-bounds reads return wall.
func (m *Map) TileAt(x, y int) Tile {
	if !m.InBounds(x, y) {
		return TileWall
	}
	return m.tiles[y*m.Width+x]
}

// SetTile writes terrain; out-of-bounds writes are ignored.
func (m *Map) SetTile(x, y int, t Tile) {
	if m.InBounds(x, y) {
		m.tiles[y*m.Width+x] = t
	}
}

// Bounds returns the inclusive map bounds.
func (m *Map) Bounds() (minX, minY, maxX, maxY int) {
	return 0, 0, m.Width - 1, m.Height - 1
}

// IsOpaque reports whether the tile blocks sight.  Out-of-bounds tiles are
// opaque.
func (m *Map) IsOpaque(x, y int) bool {
	return m.TileAt(x, y) == TileWall
}

// IsBlocked reports whether the tile cannot be stepped on: wall terrain or
// any blocking entity standing there.  Out-of-bounds tiles are blocked.
func (m *Map) IsBlocked(x, y int) bool {
	if m.IsOpaque(x, y) {
		return true
	}
	return m.blockedCount[y*m.Width+x] > 0
}

// Walkable reports whether terrain alone permits standing at (x, y).
func (m *Map) Walkable(x, y int) bool {
	return m.InBounds(x, y) && m.TileAt(x, y) != TileWall
}

// EntitiesAt returns the entities indexed at (x, y).  The returned slice is
// shared; callers must not modify it.
func (m *Map) EntitiesAt(x, y int) []EntityID {
	return m.byPosition[Position{x, y}]
}

// placeEntity indexes an entity at a cell and bumps the blocking count when
// it blocks movement.
func (m *Map) placeEntity(id EntityID, pos Position, blocks bool) {
	m.byPosition[pos] = append(m.byPosition[pos], id)
	if blocks && m.InBounds(pos.X, pos.Y) {
		m.blockedCount[pos.Y*m.Width+pos.X]++
	}
}

// removeEntity unindexes an entity from a cell.
func (m *Map) removeEntity(id EntityID, pos Position, blocks bool) {
	ids := m.byPosition[pos]
	for i, other := range ids {
		if other == id {
			m.byPosition[pos] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(m.byPosition[pos]) == 0 {
		delete(m.byPosition, pos)
	}
	if blocks && m.InBounds(pos.X, pos.Y) {
		m.blockedCount[pos.Y*m.Width+pos.X]--
	}
}

// TileSym returns the drawable symbol and color for terrain.
func TileSym(t Tile) (GameSym, gridview.Color) {
	switch t {
	case TileWall:
		return SymWall, gridview.Color{R: 134, G: 126, B: 112}
	case TileFloor:
		return SymFloor, gridview.Color{R: 128, G: 128, B: 128}
	case TileFloorScuffed:
		return SymFloorScuffed, gridview.Color{R: 118, G: 110, B: 96}
	case TileFloorMossy:
		return SymFloorMossy, gridview.Color{R: 96, G: 138, B: 96}
	case TileDownStairs:
		return SymDownStairs, gridview.Color{R: 220, G: 220, B: 120}
	default:
		return SymFloor, gridview.White
	}
}
