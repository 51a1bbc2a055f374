package game

import "testing"

func TestGenerateMap_Deterministic(t *testing.T) {
	m1, rooms1 := GenerateMap(0x9542716676452101, 1)
	m2, rooms2 := GenerateMap(0x9542716676452101, 1)

	if len(rooms1) != len(rooms2) {
		t.Fatalf("room counts differ: %d vs %d", len(rooms1), len(rooms2))
	}
	for i := range m1.tiles {
		if m1.tiles[i] != m2.tiles[i] {
			t.Fatalf("tile %d differs between identical generations", i)
		}
	}
}

func TestGenerateMap_DepthChangesLayout(t *testing.T) {
	m1, _ := GenerateMap(42, 1)
	m2, _ := GenerateMap(42, 2)
	same := true
	for i := range m1.tiles {
		if m1.tiles[i] != m2.tiles[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different depths generated identical maps")
	}
}

func TestGenerateMap_RoomsDoNotOverlap(t *testing.T) {
	_, rooms := GenerateMap(7, 1)
	if len(rooms) < 2 {
		t.Fatalf("only %d rooms generated", len(rooms))
	}
	for i, a := range rooms {
		for _, b := range rooms[i+1:] {
			if a.Intersects(b, 0) {
				t.Fatalf("rooms %v and %v overlap", a, b)
			}
		}
	}
}

func TestGenerateMap_StairsReachableFromStart(t *testing.T) {
	m, rooms := GenerateMap(1234, 1)

	stairs := Position{-1, -1}
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.TileAt(x, y) == TileDownStairs {
				stairs = Position{x, y}
			}
		}
	}
	if stairs.X < 0 {
		t.Fatal("no stairs generated")
	}

	// Flood fill over walkable tiles from the starting room.
	sx, sy := rooms[0].Center()
	reached := map[Position]bool{{sx, sy}: true}
	frontier := []Position{{sx, sy}}
	for len(frontier) > 0 {
		p := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			n := Position{p.X + d[0], p.Y + d[1]}
			if !reached[n] && m.Walkable(n.X, n.Y) {
				reached[n] = true
				frontier = append(frontier, n)
			}
		}
	}
	if !reached[stairs] {
		t.Fatalf("stairs at %v unreachable from start (%d, %d)", stairs, sx, sy)
	}
}

func TestGenerateMap_EdgesStaySolid(t *testing.T) {
	m, _ := GenerateMap(99, 1)
	for x := 0; x < m.Width; x++ {
		if m.TileAt(x, 0) != TileWall || m.TileAt(x, m.Height-1) != TileWall {
			t.Fatalf("map edge opened at x=%d", x)
		}
	}
	for y := 0; y < m.Height; y++ {
		if m.TileAt(0, y) != TileWall || m.TileAt(m.Width-1, y) != TileWall {
			t.Fatalf("map edge opened at y=%d", y)
		}
	}
}
