package game

import (
	"github.com/aquilax/go-perlin"

	"github.com/thornevale/runedelve/internal/rng"
)

const (
	mapWidth  = 80
	mapHeight = 50

	maxRooms    = 30
	minRoomSize = 6
	maxRoomSize = 10
)

// GenerateMap carves a rooms-and-corridors level for the given depth and
// returns it along with the rooms, in carve order, for the spawner.  All
// randomness derives from the campaign seed and the depth, so the same seed
// always produces the same dungeon.
func GenerateMap(seed uint64, depth int32) (*Map, []Rect) {
	h := rng.NewHasher(rng.GenerateRoomsAndCorridors, seed)
	h.WriteInt32(depth)
	gen := h.Gen()

	m := NewMap(mapWidth, mapHeight)
	m.Depth = depth

	var rooms []Rect
	for i := 0; i < maxRooms; i++ {
		w := gen.IntRange(minRoomSize, maxRoomSize+1)
		hgt := gen.IntRange(minRoomSize, maxRoomSize+1)
		x := gen.IntRange(1, m.Width-w-1)
		y := gen.IntRange(1, m.Height-hgt-1)
		room := NewRect(x, y, w, hgt)

		overlaps := false
		for _, other := range rooms {
			if room.Intersects(other, 1) {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}

		carveRoom(m, room)
		if len(rooms) > 0 {
			// Connect to the previous room with an L-shaped corridor,
			// horizontal-first or vertical-first at random.
			px, py := rooms[len(rooms)-1].Center()
			cx, cy := room.Center()
			if gen.IntRange(0, 2) == 0 {
				carveHorizontalTunnel(m, px, cx, py)
				carveVerticalTunnel(m, py, cy, cx)
			} else {
				carveVerticalTunnel(m, py, cy, px)
				carveHorizontalTunnel(m, px, cx, cy)
			}
		}
		rooms = append(rooms, room)
	}

	if len(rooms) > 0 {
		sx, sy := rooms[len(rooms)-1].Center()
		m.SetTile(sx, sy, TileDownStairs)
	}

	decorateFloors(m, seed, depth)

	return m, rooms
}

func carveRoom(m *Map, room Rect) {
	for y := room.Y1; y <= room.Y2; y++ {
		for x := room.X1; x <= room.X2; x++ {
			m.SetTile(x, y, TileFloor)
		}
	}
}

func carveHorizontalTunnel(m *Map, x1, x2, y int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		m.SetTile(x, y, TileFloor)
	}
}

func carveVerticalTunnel(m *Map, y1, y2, x int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		m.SetTile(x, y, TileFloor)
	}
}

// decorateFloors replaces stretches of plain floor with scuffed and mossy
// variants following a noise field, purely for visual texture.
func decorateFloors(m *Map, seed uint64, depth int32) {
	h := rng.NewHasher(rng.GroundDecoration, seed)
	h.WriteInt32(depth)
	noise := perlin.NewPerlin(2, 2, 3, int64(h.Gen().IntRange(0, 1<<30)))

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.TileAt(x, y) != TileFloor {
				continue
			}
			v := noise.Noise2D(float64(x)/10, float64(y)/10)
			switch {
			case v > 0.25:
				m.SetTile(x, y, TileFloorMossy)
			case v < -0.25:
				m.SetTile(x, y, TileFloorScuffed)
			}
		}
	}
}
