package game

import (
	"fmt"

	"github.com/thornevale/runedelve/internal/path"
	"github.com/thornevale/runedelve/internal/rng"
)

// monsterBoundPad is how far the pathfinding rectangle extends beyond the
// monster-to-player bounding box, giving paths room to route around walls.
const monsterBoundPad = 5

// DoMonsterTurns runs one turn for every monster that can see the player:
// step along a path toward the player, or attack when adjacent.  Occupancy
// updates land before the next monster reads the map, so two monsters never
// pile onto one cell.
func DoMonsterTurns(w *World) {
	player := w.Entity(w.PlayerID)
	if player == nil || !player.HasPos {
		return
	}

	for _, e := range w.sortedEntities() {
		if e.ID == w.PlayerID || !e.HasPos || e.Item || e.HP <= 0 {
			continue
		}
		if e.FOV == nil {
			continue
		}
		e.FOV.Refresh(w.Map, e.Pos.X, e.Pos.Y)
		if !e.FOV.Visible(player.Pos.X, player.Pos.Y) {
			continue
		}

		it := path.FindPath(w.Map, e.Pos.X, e.Pos.Y, player.Pos.X, player.Pos.Y, monsterBoundPad, true)
		if _, _, ok := it.Next(); !ok {
			continue
		}
		nx, ny, ok := it.Next()
		if !ok {
			continue
		}

		if nx == player.Pos.X && ny == player.Pos.Y {
			MeleeAttack(w, e, player)
			continue
		}
		if w.Map.IsBlocked(nx, ny) {
			continue
		}
		dx, dy := nx-e.Pos.X, ny-e.Pos.Y
		if dx != 0 && dy != 0 && w.Map.IsBlocked(e.Pos.X+dx, e.Pos.Y) && w.Map.IsBlocked(e.Pos.X, e.Pos.Y+dy) {
			// Don't squeeze diagonally between two blocked cardinals.
			continue
		}
		w.MoveEntity(e.ID, Position{nx, ny})
	}
}

// sortedEntities returns live entities in ID order so turn processing is
// deterministic regardless of map iteration order.
func (w *World) sortedEntities() []*Entity {
	out := make([]*Entity, 0, len(w.entities))
	for id := EntityID(1); id < w.nextID; id++ {
		if e := w.entities[id]; e != nil {
			out = append(out, e)
		}
	}
	return out
}

// MeleeAttack resolves one melee hit.  The damage roll derives from the
// campaign seed, the turn count and both combatants' positions, in that
// order, so replaying a save replays the same rolls.
func MeleeAttack(w *World, attacker, defender *Entity) {
	h := rng.NewHasher(rng.MeleeAttack, w.Seed)
	h.WriteUint64(w.TurnCount)
	h.WriteInt32(int32(attacker.Pos.X))
	h.WriteInt32(int32(attacker.Pos.Y))
	h.WriteInt32(int32(defender.Pos.X))
	h.WriteInt32(int32(defender.Pos.Y))
	gen := h.Gen()

	damage := attacker.Attack + gen.IntRange(0, attacker.Attack/2+1)
	if def := w.Entity(defender.Armor); def != nil {
		damage -= damage / 4
	}
	if damage < 1 {
		damage = 1
	}

	defender.HP -= damage
	w.Messages.Add(fmt.Sprintf("%s hits %s for %d damage.", attacker.Name, defender.Name, damage))

	if defender.HP <= 0 && defender.ID != w.PlayerID {
		w.Messages.Add(fmt.Sprintf("%s dies!", defender.Name))
		w.Despawn(defender.ID)
	}
}
