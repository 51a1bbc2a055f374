package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/thornevale/runedelve/internal/chunked"
	"github.com/thornevale/runedelve/internal/gridview"
)

const (
	sidebarCells = 20 // sidebar width in text cells
	messageRows  = 5  // message log height in text cells
)

// Game drives the turn loop and the rendering pipeline: one map TileGrid
// drawn through a chunked grid, a sidebar and a message grid, stacked into
// layers and displayed back to front each frame.
type Game struct {
	world    *World
	opts     Options
	tilesets []*gridview.Tileset[GameSym]

	layers       []gridview.Layer[GameSym]
	mapGrid      *gridview.TileGrid[GameSym]
	sidebarGrid  *gridview.TileGrid[GameSym]
	messageGrid  *gridview.TileGrid[GameSym]
	dialogGrid   *gridview.TileGrid[GameSym]
	chunkedMap   *chunked.MapGrid[GameSym]
	camera       Position
	winW, winH   int
	gameOver     bool
	gameOverSeen bool

	autoRunDX, autoRunDY, autoRunLeft int
}

// New creates a game for the given campaign seed.  tilesets must hold at
// least one tileset; out-of-range indexes in opts are replaced by 0.
func New(seed uint64, opts Options, tilesets []*gridview.Tileset[GameSym]) *Game {
	if opts.Tileset < 0 || opts.Tileset >= len(tilesets) {
		opts.Tileset = 0
	}
	if opts.Font < 0 || opts.Font >= len(tilesets) {
		opts.Font = 0
	}

	w := NewWorld(seed)
	m, rooms := GenerateMap(seed, 1)
	w.Map = m
	SpawnPlayer(w, rooms)
	FillRooms(w, rooms, 1)

	player := w.Entity(w.PlayerID)
	player.FOV.Refresh(w.Map, player.Pos.X, player.Pos.Y)
	player.FOV.MarkSeen(w.Map)

	w.Messages.Add("You descend into the delve. Good luck.")

	g := &Game{
		world:       w,
		opts:        opts,
		tilesets:    tilesets,
		mapGrid:     gridview.NewTileGrid(chunked.ChunkTileWidth, chunked.ChunkTileHeight, tilesets, opts.Tileset),
		sidebarGrid: gridview.NewTileGrid[GameSym](sidebarCells, 10, tilesets, opts.Font),
		messageGrid: gridview.NewTileGrid[GameSym](40, messageRows, tilesets, opts.Font),
		dialogGrid:  gridview.NewTileGrid[GameSym](24, 5, tilesets, opts.Font),
		chunkedMap:  chunked.NewMapGrid[GameSym](),
		camera:      player.Pos,
	}
	g.mapGrid.View.ClearColor = nil
	g.sidebarGrid.View.ClearColor = nil
	g.messageGrid.View.ClearColor = nil
	g.dialogGrid.View.Visible = false
	g.layers = []gridview.Layer[GameSym]{
		{Grids: []*gridview.TileGrid[GameSym]{g.mapGrid, g.sidebarGrid, g.messageGrid}},
		{DrawBehind: true, Grids: []*gridview.TileGrid[GameSym]{g.dialogGrid}},
	}
	return g
}

// World exposes the game world, mainly for the save path.
func (g *Game) World() *World { return g.world }

// RecoverTextures re-uploads every grid after the render device or its
// targets were reset; stale textures survive for at most one frame.
func (g *Game) RecoverTextures(recreate bool) {
	if recreate {
		gridview.FlagTextureRecreateAll(g.layers)
	}
	gridview.FlagTextureResetAll(g.layers)
}

var moveKeys = map[ebiten.Key][2]int{
	ebiten.KeyArrowLeft:  {-1, 0},
	ebiten.KeyArrowRight: {1, 0},
	ebiten.KeyArrowUp:    {0, -1},
	ebiten.KeyArrowDown:  {0, 1},
	ebiten.KeyH:          {-1, 0},
	ebiten.KeyL:          {1, 0},
	ebiten.KeyK:          {0, -1},
	ebiten.KeyJ:          {0, 1},
	ebiten.KeyY:          {-1, -1},
	ebiten.KeyU:          {1, -1},
	ebiten.KeyB:          {-1, 1},
	ebiten.KeyN:          {1, 1},
}

// Update runs at most one game turn per frame: player input first, then the
// monsters, then visibility and camera bookkeeping.
func (g *Game) Update() error {
	if g.gameOver {
		if !g.gameOverSeen {
			g.showGameOver()
		}
		return nil
	}

	turnSpent := false
	player := g.world.Entity(g.world.PlayerID)

	if g.autoRunLeft > 0 {
		if g.anyMonsterVisible() || !TryMovePlayer(g.world, g.autoRunDX, g.autoRunDY) {
			g.autoRunLeft = 0
		} else {
			g.autoRunLeft--
			turnSpent = true
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			g.autoRunLeft = 0
		}
	} else {
		for key, dir := range moveKeys {
			if !inpututil.IsKeyJustPressed(key) {
				continue
			}
			if ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
				g.autoRunDX, g.autoRunDY = dir[0], dir[1]
				g.autoRunLeft = maxAutoRunSteps
				break
			}
			turnSpent = TryMovePlayer(g.world, dir[0], dir[1])
			break
		}
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyPeriod):
			turnSpent = true // wait
		case inpututil.IsKeyJustPressed(ebiten.KeyG):
			turnSpent = PickUpItem(g.world)
		case inpututil.IsKeyJustPressed(ebiten.KeyA):
			turnSpent = UseFirstItem(g.world)
		case inpututil.IsKeyJustPressed(ebiten.KeyE):
			if DescendStairs(g.world) {
				turnSpent = true
				g.chunkedMap.MarkAllDirty()
			}
		}
	}

	if turnSpent {
		g.world.TurnCount++
		g.markFOVRegionDirty()
		g.afterTurn(player)
	}
	return nil
}

// afterTurn settles visibility, monster turns and the camera after the
// player has acted.  Occupancy mutations happen here, before any rendering
// reads the map.
func (g *Game) afterTurn(player *Entity) {
	if player.FOV.Dirty {
		player.FOV.Refresh(g.world.Map, player.Pos.X, player.Pos.Y)
		player.FOV.MarkSeen(g.world.Map)
	}

	before := g.entityPositions()
	DoMonsterTurns(g.world)
	after := g.entityPositions()
	for id, pos := range before {
		if now, ok := after[id]; !ok || now != pos {
			g.chunkedMap.MarkDirtyTile(pos.X, pos.Y)
		}
	}
	for id, pos := range after {
		if was, ok := before[id]; !ok || was != pos {
			g.chunkedMap.MarkDirtyTile(pos.X, pos.Y)
		}
	}

	g.camera = player.Pos
	g.markFOVRegionDirty()

	if player.HP <= 0 {
		g.gameOver = true
	}
}

// markFOVRegionDirty flags the chunks the player can currently see, since
// visibility dimming changes with every player move.
func (g *Game) markFOVRegionDirty() {
	player := g.world.Entity(g.world.PlayerID)
	if player == nil || !player.HasPos {
		return
	}
	r := player.FOV.Range
	g.chunkedMap.MarkDirty(player.Pos.X-r, player.Pos.Y-r, 2*r+1, 2*r+1)
}

func (g *Game) entityPositions() map[EntityID]Position {
	out := make(map[EntityID]Position)
	g.world.ForEachEntity(func(e *Entity) {
		if e.HasPos {
			out[e.ID] = e.Pos
		}
	})
	return out
}

func (g *Game) anyMonsterVisible() bool {
	player := g.world.Entity(g.world.PlayerID)
	visible := false
	g.world.ForEachEntity(func(e *Entity) {
		if e.ID != g.world.PlayerID && e.HasPos && !e.Item && player.FOV.Visible(e.Pos.X, e.Pos.Y) {
			visible = true
		}
	})
	return visible
}

func (g *Game) showGameOver() {
	g.gameOverSeen = true
	g.dialogGrid.View.Visible = true
	g.dialogGrid.DrawBox(0, 0, 24, 5, gridview.White, gridview.Black)
	g.dialogGrid.Print(6, 2, "You have died.")
	// Dim everything beneath the dialog layer.
	g.mapGrid.View.ColorMod = gridview.White.Dim(1, 2)
	g.sidebarGrid.View.ColorMod = gridview.White.Dim(1, 2)
	g.messageGrid.View.ColorMod = gridview.White.Dim(1, 2)
}

// mapView adapts the world for chunked drawing: creatures and items on top
// of terrain inside the player's field of view, dimmed remembered terrain
// outside it, nothing where the player has never been.
type mapView struct {
	g *Game
}

func (v mapView) TileAt(x, y int) (GameSym, gridview.Color, bool) {
	w := v.g.world
	if !w.Map.InBounds(x, y) {
		return 0, gridview.Color{}, false
	}
	player := w.Entity(w.PlayerID)
	if player != nil && player.FOV.Visible(x, y) {
		if sym, fg, ok := v.topEntityAt(x, y); ok {
			return sym, fg, true
		}
		sym, fg := TileSym(w.Map.TileAt(x, y))
		return sym, fg, true
	}
	if w.Map.Seen.Get(x, y) {
		sym, fg := TileSym(w.Map.TileAt(x, y))
		gray := uint8((int(fg.R)*30 + int(fg.G)*59 + int(fg.B)*11) / 200)
		return sym, gridview.Color{R: gray, G: gray, B: gray}, true
	}
	return 0, gridview.Color{}, false
}

// topEntityAt picks the entity to draw at a cell: creatures over items.
func (v mapView) topEntityAt(x, y int) (GameSym, gridview.Color, bool) {
	var itemSym GameSym
	var itemFg gridview.Color
	itemFound := false
	for _, id := range v.g.world.Map.EntitiesAt(x, y) {
		e := v.g.world.Entity(id)
		if e == nil {
			continue
		}
		if !e.Item {
			return e.Sym, e.Fg, true
		}
		if !itemFound {
			itemSym, itemFg = e.Sym, e.Fg
			itemFound = true
		}
	}
	return itemSym, itemFg, itemFound
}

// Draw runs the frame's draw, render, upload and display phases in order.
func (g *Game) Draw(screen *ebiten.Image) {
	g.layoutGrids()

	g.chunkedMap.Draw(mapView{g}, g.mapGrid, g.camera.X, g.camera.Y)
	g.drawSidebar()
	g.drawMessages()

	gridview.DisplayLayers(g.tilesets, g.layers, screen)
}

// layoutGrids positions every grid for the current window size: the map
// fills the space left of the sidebar and above the message log.
func (g *Game) layoutGrids() {
	font := g.tilesets[g.opts.Font]
	sidebarPxW := sidebarCells * font.TileWidth() * g.opts.TextZoom
	messagePxH := messageRows * font.TileHeight() * g.opts.TextZoom
	mapPxW := g.winW - sidebarPxW
	mapPxH := g.winH - messagePxH
	if mapPxW < 1 {
		mapPxW = 1
	}
	if mapPxH < 1 {
		mapPxH = 1
	}

	g.chunkedMap.PrepareGrid(g.mapGrid, g.tilesets, g.opts.Tileset, g.opts.MapZoom, 0, 0, mapPxW, mapPxH)

	g.sidebarGrid.Resize(sidebarCells, mapPxH/(font.TileHeight()*g.opts.TextZoom)+1)
	g.sidebarGrid.View.X = mapPxW
	g.sidebarGrid.View.Y = 0
	g.sidebarGrid.View.W = sidebarPxW
	g.sidebarGrid.View.H = mapPxH
	g.sidebarGrid.View.Zoom = g.opts.TextZoom

	msgCols := g.winW / (font.TileWidth() * g.opts.TextZoom)
	if msgCols < 1 {
		msgCols = 1
	}
	g.messageGrid.Resize(msgCols, messageRows)
	g.messageGrid.View.X = 0
	g.messageGrid.View.Y = mapPxH
	g.messageGrid.View.W = g.winW
	g.messageGrid.View.H = messagePxH
	g.messageGrid.View.Zoom = g.opts.TextZoom

	g.dialogGrid.ViewCentered(g.tilesets, g.opts.TextZoom, 0, 0, g.winW, g.winH)
}

// Layout reports the game's logical screen size; resizes flow into the next
// layoutGrids call.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth < 1 {
		outsideWidth = 1
	}
	if outsideHeight < 1 {
		outsideHeight = 1
	}
	g.winW = outsideWidth
	g.winH = outsideHeight
	return outsideWidth, outsideHeight
}
