package game

import "fmt"

// maxAutoRunSteps caps auto-run as a fail-safe, not a semantic bound.
const maxAutoRunSteps = 200

// TryMovePlayer attempts one player step.  Bumping a creature attacks it;
// bumping an item steps onto it.  Returns whether a turn was spent.
func TryMovePlayer(w *World, dx, dy int) bool {
	player := w.Entity(w.PlayerID)
	if player == nil || !player.HasPos || player.HP <= 0 {
		return false
	}
	nx, ny := player.Pos.X+dx, player.Pos.Y+dy

	for _, id := range w.Map.EntitiesAt(nx, ny) {
		if e := w.Entity(id); e != nil && e.BlocksMove && e.HP > 0 {
			MeleeAttack(w, player, e)
			return true
		}
	}

	if w.Map.IsBlocked(nx, ny) {
		return false
	}
	if dx != 0 && dy != 0 && w.Map.IsBlocked(player.Pos.X+dx, player.Pos.Y) && w.Map.IsBlocked(player.Pos.X, player.Pos.Y+dy) {
		return false
	}

	w.MoveEntity(w.PlayerID, Position{nx, ny})
	player.FOV.Dirty = true
	return true
}

// PickUpItem moves the top item under the player into the inventory.
func PickUpItem(w *World) bool {
	player := w.Entity(w.PlayerID)
	if player == nil || !player.HasPos {
		return false
	}
	for _, id := range w.Map.EntitiesAt(player.Pos.X, player.Pos.Y) {
		e := w.Entity(id)
		if e == nil || !e.Item {
			continue
		}
		w.Map.removeEntity(id, e.Pos, e.BlocksMove)
		e.HasPos = false
		player.Inventory = append(player.Inventory, id)
		w.Messages.Add(fmt.Sprintf("You pick up the %s.", e.Name))
		return true
	}
	return false
}

// UseFirstItem consumes the first inventory item, healing by its amount.
func UseFirstItem(w *World) bool {
	player := w.Entity(w.PlayerID)
	if player == nil || len(player.Inventory) == 0 {
		return false
	}
	id := player.Inventory[0]
	item := w.Entity(id)
	if item == nil {
		player.Inventory = player.Inventory[1:]
		return false
	}
	player.HP += item.HealAmount
	if player.HP > player.MaxHP {
		player.HP = player.MaxHP
	}
	w.Messages.Add(fmt.Sprintf("You use the %s.", item.Name))
	w.Despawn(id)
	return true
}

// DescendStairs regenerates the world one level deeper when the player
// stands on the stairs.
func DescendStairs(w *World) bool {
	player := w.Entity(w.PlayerID)
	if player == nil || !player.HasPos {
		return false
	}
	if w.Map.TileAt(player.Pos.X, player.Pos.Y) != TileDownStairs {
		return false
	}

	depth := w.Map.Depth + 1

	// Drop every positioned entity except the player; carried items come
	// along through the inventory.
	for _, e := range w.sortedEntities() {
		if e.ID != w.PlayerID && e.HasPos {
			w.Despawn(e.ID)
		}
	}
	w.Map.removeEntity(w.PlayerID, player.Pos, player.BlocksMove)

	m, rooms := GenerateMap(w.Seed, depth)
	w.Map = m
	if len(rooms) > 0 {
		player.Pos.X, player.Pos.Y = rooms[0].Center()
	}
	w.Map.placeEntity(w.PlayerID, player.Pos, player.BlocksMove)
	player.FOV.Dirty = true
	FillRooms(w, rooms, depth)

	w.Messages.Add(fmt.Sprintf("You descend to depth %d.", depth))
	return true
}
