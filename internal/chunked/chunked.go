// Package chunked draws a map onto a TileGrid in fixed-size chunks with
// per-chunk dirty flags, so that unchanged regions of the map cost nothing
// to redraw.  Combined with the grid's wrapped draw offset, a camera move
// only redraws the chunks that scrolled into view.
package chunked

import (
	"github.com/thornevale/runedelve/internal/gridview"
)

// Chunk side lengths in tiles.
const (
	ChunkTileWidth  = 8
	ChunkTileHeight = 8
)

// MapView supplies tiles for chunk redraws.  ok is false for positions with
// nothing to draw, which are painted as blank cells.
type MapView[Y gridview.Symbol] interface {
	TileAt(x, y int) (sym Y, fg gridview.Color, ok bool)
}

type screenChunk struct {
	dirty                bool
	mapChunkX, mapChunkY int
}

type dirtyRect struct {
	x, y, w, h int
}

// MapGrid tracks which chunks of a TileGrid need redrawing.  The grid keeps
// its drawn contents between frames; a chunk is only redrawn when it is
// assigned a different map chunk or is flagged dirty.  The view stays
// centered on the camera's map position.
type MapGrid[Y gridview.Symbol] struct {
	screenChunks             []screenChunk
	chunksAcross, chunksDown int
	tilePxW, tilePxH         int
	screenW, screenH         int
	dirtyRects               []dirtyRect
}

// NewMapGrid creates an empty chunked map grid; call PrepareGrid before
// drawing.
func NewMapGrid[Y gridview.Symbol]() *MapGrid[Y] {
	return &MapGrid[Y]{}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// screenTopLeftMapChunk is the map chunk shown at the top-left corner of the
// screen for the given camera position, placing the camera's tile center at
// the screen center.
func (c *MapGrid[Y]) screenTopLeftMapChunk(cameraX, cameraY int) (int, int) {
	chunkPxW := ChunkTileWidth * c.tilePxW
	chunkPxH := ChunkTileHeight * c.tilePxH
	return floorDiv(c.tilePxW*(2*cameraX+1)-c.screenW, 2*chunkPxW),
		floorDiv(c.tilePxH*(2*cameraY+1)-c.screenH, 2*chunkPxH)
}

// PrepareGrid sizes the TileGrid and its view to cover the given screen
// rectangle with whole chunks plus a margin chunk on each axis, so that
// camera shifts never expose a partially-drawn edge.
func (c *MapGrid[Y]) PrepareGrid(grid *gridview.TileGrid[Y], tilesets []*gridview.Tileset[Y], tilesetIndex, zoom, posX, posY, sizeW, sizeH int) {
	ts := tilesets[tilesetIndex]
	tilePxW := zoom * ts.TileWidth()
	tilePxH := zoom * ts.TileHeight()
	chunkPxW := ChunkTileWidth * tilePxW
	chunkPxH := ChunkTileHeight * tilePxH

	// (chunkPx - 1) is counted twice: once to allow offsets in
	// (chunkPx, 0], and again to round the chunk count up so the far edge
	// of the screen is always covered.
	newAcross := (sizeW + 2*(chunkPxW-1)) / chunkPxW
	newDown := (sizeH + 2*(chunkPxH-1)) / chunkPxH

	if newAcross != c.chunksAcross || newDown != c.chunksDown {
		c.screenChunks = make([]screenChunk, newAcross*newDown)
		for i := range c.screenChunks {
			c.screenChunks[i].dirty = true
		}
		c.chunksAcross = newAcross
		c.chunksDown = newDown
	}

	c.tilePxW = tilePxW
	c.tilePxH = tilePxH
	c.screenW = sizeW
	c.screenH = sizeH

	grid.Resize(c.chunksAcross*ChunkTileWidth, c.chunksDown*ChunkTileHeight)
	grid.SetTileset(tilesets, tilesetIndex)
	grid.View.X = posX
	grid.View.Y = posY
	grid.View.W = sizeW
	grid.View.H = sizeH
	grid.View.Visible = true
	grid.View.Zoom = zoom
}

// MarkDirty flags the chunks covering the given tile rectangle for redraw on
// the next Draw.
func (c *MapGrid[Y]) MarkDirty(x, y, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	c.dirtyRects = append(c.dirtyRects, dirtyRect{x, y, w, h})
}

// MarkDirtyTile flags the chunk containing one tile, as when a creature
// moves off a cell.
func (c *MapGrid[Y]) MarkDirtyTile(x, y int) {
	c.MarkDirty(x, y, 1, 1)
}

// MarkAllDirty flags every chunk, as after a map change.
func (c *MapGrid[Y]) MarkAllDirty() {
	c.dirtyRects = c.dirtyRects[:0]
	for i := range c.screenChunks {
		c.screenChunks[i].dirty = true
	}
}

// MapToGridPos converts a map position to a grid cell position, or ok=false
// when the position is outside the chunk tiling.
func (c *MapGrid[Y]) MapToGridPos(cameraX, cameraY, mapX, mapY int) (int, int, bool) {
	tlChunkX, tlChunkY := c.screenTopLeftMapChunk(cameraX, cameraY)
	tlX := tlChunkX * ChunkTileWidth
	tlY := tlChunkY * ChunkTileHeight
	if mapX < tlX || mapY < tlY ||
		mapX >= tlX+c.chunksAcross*ChunkTileWidth ||
		mapY >= tlY+c.chunksDown*ChunkTileHeight {
		return 0, 0, false
	}
	return mapX - tlX, mapY - tlY, true
}

// Draw reassigns screen chunks to map chunks for the camera position,
// applies pending dirty rectangles, redraws every dirty chunk from src and
// clears the flags.  Returns the number of chunks redrawn.
func (c *MapGrid[Y]) Draw(src MapView[Y], grid *gridview.TileGrid[Y], cameraX, cameraY int) int {
	cameraChunkX := floorDiv(cameraX, ChunkTileWidth)
	cameraChunkY := floorDiv(cameraY, ChunkTileHeight)
	chunkPxW := c.tilePxW * ChunkTileWidth
	chunkPxH := c.tilePxH * ChunkTileHeight
	// Center pixel of the camera tile within its map chunk.
	cameraInChunkX := (floorMod(cameraX, ChunkTileWidth)*2 + 1) * c.tilePxW / 2
	cameraInChunkY := (floorMod(cameraY, ChunkTileHeight)*2 + 1) * c.tilePxH / 2
	tlChunkX, tlChunkY := c.screenTopLeftMapChunk(cameraX, cameraY)
	tlTileX := tlChunkX * ChunkTileWidth
	tlTileY := tlChunkY * ChunkTileHeight

	// Shift the view so the camera pixel lands at the screen center, then
	// anchor the top-left chunk through the wrapped draw offset.
	grid.View.DX = c.screenW/2 - (cameraChunkX-tlChunkX)*chunkPxW - cameraInChunkX
	grid.View.DY = c.screenH/2 - (cameraChunkY-tlChunkY)*chunkPxH - cameraInChunkY
	grid.SetDrawOffset(tlTileX, tlTileY)

	// Dirty any screen chunk now assigned to a different map chunk.
	for chunkY := 0; chunkY < c.chunksDown; chunkY++ {
		for chunkX := 0; chunkX < c.chunksAcross; chunkX++ {
			screenChunkX := floorMod(tlChunkX+chunkX, c.chunksAcross)
			screenChunkY := floorMod(tlChunkY+chunkY, c.chunksDown)
			sc := &c.screenChunks[screenChunkY*c.chunksAcross+screenChunkX]
			newX := tlChunkX + chunkX
			newY := tlChunkY + chunkY
			if sc.mapChunkX != newX || sc.mapChunkY != newY {
				sc.mapChunkX = newX
				sc.mapChunkY = newY
				sc.dirty = true
			}
		}
	}

	// Fold in the dirty rectangles.
	for _, r := range c.dirtyRects {
		startChunkX := floorDiv(r.x, ChunkTileWidth)
		startChunkY := floorDiv(r.y, ChunkTileHeight)
		endChunkX := floorDiv(r.x+r.w-1, ChunkTileWidth)
		endChunkY := floorDiv(r.y+r.h-1, ChunkTileHeight)
		for cy := startChunkY; cy <= endChunkY; cy++ {
			for cx := startChunkX; cx <= endChunkX; cx++ {
				sx := floorMod(cx, c.chunksAcross)
				sy := floorMod(cy, c.chunksDown)
				c.screenChunks[sy*c.chunksAcross+sx].dirty = true
			}
		}
	}
	c.dirtyRects = c.dirtyRects[:0]

	redrawn := 0
	for i := range c.screenChunks {
		sc := &c.screenChunks[i]
		if !sc.dirty {
			continue
		}
		for ty := sc.mapChunkY * ChunkTileHeight; ty < (sc.mapChunkY+1)*ChunkTileHeight; ty++ {
			for tx := sc.mapChunkX * ChunkTileWidth; tx < (sc.mapChunkX+1)*ChunkTileWidth; tx++ {
				if sym, fg, ok := src.TileAt(tx, ty); ok {
					grid.PutSymColorRaw(tx-tlTileX, ty-tlTileY, sym, fg, gridview.Black)
				} else {
					grid.PutCharColorRaw(tx-tlTileX, ty-tlTileY, ' ', gridview.White, gridview.Black)
				}
			}
		}
		sc.dirty = false
		redrawn++
	}
	return redrawn
}
