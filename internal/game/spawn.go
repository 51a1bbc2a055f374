package game

import (
	"github.com/thornevale/runedelve/internal/gridview"
	"github.com/thornevale/runedelve/internal/rng"
)

type monsterKind struct {
	name     string
	sym      GameSym
	fg       gridview.Color
	hp       int
	attack   int
	weight   int
	minDepth int32
}

var monsterKinds = []monsterKind{
	{"rat", SymRat, gridview.Color{R: 160, G: 120, B: 90}, 4, 2, 10, 1},
	{"bat", SymBat, gridview.Color{R: 140, G: 140, B: 170}, 3, 2, 8, 1},
	{"goblin", SymGoblin, gridview.Color{R: 110, G: 170, B: 90}, 8, 3, 6, 2},
	{"orc", SymOrc, gridview.Color{R: 90, G: 150, B: 70}, 14, 5, 4, 4},
	{"troll", SymTroll, gridview.Color{R: 90, G: 110, B: 160}, 24, 7, 2, 6},
}

type itemKind struct {
	name   string
	sym    GameSym
	fg     gridview.Color
	heal   int
	weight int
}

var itemKinds = []itemKind{
	{"health potion", SymHealthPotion, gridview.Color{R: 220, G: 90, B: 120}, 10, 6},
	{"ration", SymRation, gridview.Color{R: 190, G: 160, B: 110}, 4, 4},
}

// SpawnPlayer creates the player in the first room.
func SpawnPlayer(w *World, rooms []Rect) EntityID {
	x, y := 1, 1
	if len(rooms) > 0 {
		x, y = rooms[0].Center()
	}
	id := w.Spawn(&Entity{
		Name:       "you",
		HasPos:     true,
		Pos:        Position{x, y},
		Sym:        SymPlayer,
		Fg:         gridview.Color{R: 255, G: 255, B: 120},
		BlocksMove: true,
		MaxHP:      30,
		HP:         30,
		Attack:     5,
		FOV:        NewFieldOfView(defaultSightRange),
	})
	w.PlayerID = id
	return id
}

// FillRooms populates every room but the first with monsters and items.
// Spawn randomness derives from the campaign seed, the depth and the room
// index, in that order.
func FillRooms(w *World, rooms []Rect, depth int32) {
	for i, room := range rooms {
		if i == 0 {
			continue
		}
		h := rng.NewHasher(rng.FillRoomWithSpawns, w.Seed)
		h.WriteInt32(depth)
		h.WriteInt32(int32(i))
		gen := h.Gen()

		fillRoom(w, gen, room, depth)
	}
}

func fillRoom(w *World, gen *rng.Gen, room Rect, depth int32) {
	monsters := gen.IntRange(0, 3)
	for i := 0; i < monsters; i++ {
		x := gen.IntRange(room.X1, room.X2+1)
		y := gen.IntRange(room.Y1, room.Y2+1)
		if w.Map.IsBlocked(x, y) {
			continue
		}
		spawnMonster(w, gen, Position{x, y}, depth)
	}

	if gen.Float64() < 0.4 {
		x := gen.IntRange(room.X1, room.X2+1)
		y := gen.IntRange(room.Y1, room.Y2+1)
		if w.Map.Walkable(x, y) {
			spawnItem(w, gen, Position{x, y})
		}
	}
}

func spawnMonster(w *World, gen *rng.Gen, pos Position, depth int32) {
	weights := make([]int, len(monsterKinds))
	total := 0
	for i, k := range monsterKinds {
		if depth >= k.minDepth {
			weights[i] = k.weight
			total += k.weight
		}
	}
	if total == 0 {
		return
	}
	k := monsterKinds[gen.WeightedChoice(weights)]
	w.Spawn(&Entity{
		Name:       k.name,
		HasPos:     true,
		Pos:        pos,
		Sym:        k.sym,
		Fg:         k.fg,
		BlocksMove: true,
		MaxHP:      k.hp,
		HP:         k.hp,
		Attack:     k.attack,
		FOV:        NewFieldOfView(defaultSightRange),
	})
}

func spawnItem(w *World, gen *rng.Gen, pos Position) {
	weights := make([]int, len(itemKinds))
	for i, k := range itemKinds {
		weights[i] = k.weight
	}
	k := itemKinds[gen.WeightedChoice(weights)]
	w.Spawn(&Entity{
		Name:       k.name,
		HasPos:     true,
		Pos:        pos,
		Sym:        k.sym,
		Fg:         k.fg,
		Item:       true,
		HealAmount: k.heal,
	})
}
