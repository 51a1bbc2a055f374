package gridview

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// View is where and how a TileGrid appears on screen.
type View struct {
	// X, Y is the top-left pixel of the clipping rectangle.
	X, Y int
	// W, H is the pixel size of the clipping rectangle.
	W, H int
	// DX, DY position the grid itself relative to (X, Y).
	DX, DY int
	// Visible gates display entirely.
	Visible bool
	// ClearColor fills the clipping rectangle before the grid is drawn;
	// nil skips the fill.
	ClearColor *Color
	// ColorMod multiplies the texture as it is displayed; used to dim
	// layers shown behind the active one.
	ColorMod Color
	// Zoom is the integer scale factor; must be at least 1 to display.
	Zoom int
}

// TileGrid is a drawable grid of cells displayed through a tileset.  Drawing
// mutates the front grid; rendering repaints only cells that differ from the
// back grid into a CPU pixel buffer; uploading copies the buffer into a GPU
// texture; displaying composes the texture onto the screen through the view
// and the wrapped draw offset.
type TileGrid[Y Symbol] struct {
	front        rawGrid[Y]
	back         rawGrid[Y]
	forceRender  bool
	needsUpload  bool
	tilesetIndex int
	buffer       []byte
	bufW, bufH   int
	texture      *ebiten.Image
	View         View
}

// NewTileGrid creates a grid of w by h cells rendered with the tileset at
// tilesetIndex.  The default view shows the grid at (0, 0) in a 640 by 480
// rectangle cleared to black.
func NewTileGrid[Y Symbol](w, h int, tilesets []*Tileset[Y], tilesetIndex int) *TileGrid[Y] {
	if tilesetIndex < 0 || tilesetIndex >= len(tilesets) {
		panic("gridview: tileset index out of range")
	}
	clearTo := Black
	return &TileGrid[Y]{
		front:        newRawGrid[Y](w, h),
		back:         newRawGrid[Y](w, h),
		forceRender:  true,
		needsUpload:  true,
		tilesetIndex: tilesetIndex,
		View: View{
			W: 640, H: 480,
			Visible:    true,
			ClearColor: &clearTo,
			ColorMod:   White,
			Zoom:       1,
		},
	}
}

// Width returns the grid width in cells.
func (g *TileGrid[Y]) Width() int { return g.front.w }

// Height returns the grid height in cells.
func (g *TileGrid[Y]) Height() int { return g.front.h }

// Resize changes the cell dimensions, skipping when identical.  A resize
// discards the pixel buffer and texture and forces a full redraw.
func (g *TileGrid[Y]) Resize(w, h int) {
	if g.front.w == w && g.front.h == h {
		return
	}
	g.front.resize(w, h)
	g.back.resize(w, h)
	g.forceRender = true
	g.needsUpload = true
	g.buffer = nil
	g.texture = nil
}

// FlagTextureReset re-uploads the pixel buffer on the next display.  Call
// after a render-targets-reset event.
func (g *TileGrid[Y]) FlagTextureReset() {
	g.needsUpload = true
}

// FlagTextureRecreate recreates the texture on the next display.  Call after
// a render-device-reset event.
func (g *TileGrid[Y]) FlagTextureRecreate() {
	g.texture = nil
}

// TilesetIndex returns the index of the tileset the grid renders with.
func (g *TileGrid[Y]) TilesetIndex() int { return g.tilesetIndex }

// SetTileset switches the grid to another tileset, forcing a full rerender.
func (g *TileGrid[Y]) SetTileset(tilesets []*Tileset[Y], index int) {
	if index < 0 || index >= len(tilesets) {
		panic("gridview: tileset index out of range")
	}
	if g.tilesetIndex != index {
		g.tilesetIndex = index
		g.forceRender = true
	}
}

// ViewCentered positions the view so the grid appears centered inside the
// given pixel rectangle, clipped when it does not fit.
func (g *TileGrid[Y]) ViewCentered(tilesets []*Tileset[Y], zoom, rectX, rectY, rectW, rectH int) {
	ts := tilesets[g.tilesetIndex]
	pxW := g.front.w * ts.tileW * zoom
	pxH := g.front.h * ts.tileH * zoom

	if pxW <= rectW {
		g.View.W = pxW
		g.View.X = rectX + (rectW-pxW)/2
		g.View.DX = 0
	} else {
		g.View.W = rectW
		g.View.X = rectX
		g.View.DX = -((pxW - rectW) / 2)
	}
	if pxH <= rectH {
		g.View.H = pxH
		g.View.Y = rectY + (rectH-pxH)/2
		g.View.DY = 0
	} else {
		g.View.H = rectH
		g.View.Y = rectY
		g.View.DY = -((pxH - rectH) / 2)
	}
	g.View.Zoom = zoom
}

// SetDrawOffset sets the wrapped draw offset.  Setting it to the camera
// position before drawing keeps a mostly-static map still in storage while
// the camera moves, so only newly exposed cells rerender; the display phase
// undoes the offset exactly.
func (g *TileGrid[Y]) SetDrawOffset(x, y int) {
	g.front.setDrawOffset(x, y)
}

// Clear clears the grid to the default colors.
func (g *TileGrid[Y]) Clear() {
	g.ClearColor(White, Black)
}

// ClearColor clears the grid with the given colors.
func (g *TileGrid[Y]) ClearColor(fg, bg Color) {
	g.front.clearColor(fg, bg)
}

// PutChar places a character with the default colors.
func (g *TileGrid[Y]) PutChar(x, y int, ch rune) {
	g.PutCharColor(x, y, ch, White, Black)
}

// PutCharColor places a character with the given colors.
func (g *TileGrid[Y]) PutCharColor(x, y int, ch rune, fg, bg Color) {
	g.front.put(x, y, charSym[Y](ch), fg, bg)
}

// PutSym places a symbol with the default colors.
func (g *TileGrid[Y]) PutSym(x, y int, sym Y) {
	g.PutSymColor(x, y, sym, White, Black)
}

// PutSymColor places a symbol with the given colors.
func (g *TileGrid[Y]) PutSymColor(x, y int, sym Y, fg, bg Color) {
	g.front.put(x, y, symSym[Y](sym), fg, bg)
}

// PutCharColorRaw is PutCharColor without bounds checking, for callers that
// already clip, like chunked map drawing.
func (g *TileGrid[Y]) PutCharColorRaw(x, y int, ch rune, fg, bg Color) {
	g.front.putRaw(x, y, charSym[Y](ch), fg, bg)
}

// PutSymColorRaw is PutSymColor without bounds checking.
func (g *TileGrid[Y]) PutSymColorRaw(x, y int, sym Y, fg, bg Color) {
	g.front.putRaw(x, y, symSym[Y](sym), fg, bg)
}

// Recolor changes the colors at a position, leaving the content alone.
func (g *TileGrid[Y]) Recolor(x, y int, fg, bg Color) {
	g.front.recolor(x, y, fg, bg)
}

// Print writes a string with the default colors, truncated at the grid edge.
func (g *TileGrid[Y]) Print(x, y int, s string) {
	g.PrintColor(x, y, s, true, White, Black)
}

// PrintColor writes a string with the given colors.  When drawSpace is
// false, spaces preserve the cells they cover.
func (g *TileGrid[Y]) PrintColor(x, y int, s string, drawSpace bool, fg, bg Color) {
	g.front.print(x, y, s, drawSpace, fg, bg)
}

// DrawBox draws a box with the given outer size, clearing its interior.
func (g *TileGrid[Y]) DrawBox(x, y, w, h int, fg, bg Color) {
	g.front.drawBox(x, y, w, h, fg, bg)
}

// DrawBar draws a partially-filled bar, for health and progress readouts.
func (g *TileGrid[Y]) DrawBar(vertical bool, x, y, length, offset, amount, barMax int, fg, bg Color) {
	g.front.drawBar(vertical, x, y, length, offset, amount, barMax, fg, bg)
}

// render repaints every cell that changed since the last render into the
// pixel buffer, then mirrors front into back.  Returns whether the buffer
// changed.
func (g *TileGrid[Y]) render(ts *Tileset[Y], force bool) bool {
	updated := false

	pxW := g.front.w * ts.tileW
	pxH := g.front.h * ts.tileH
	if g.buffer != nil && (g.bufW != pxW || g.bufH != pxH) {
		g.buffer = nil
		g.texture = nil
	}
	if g.buffer == nil {
		g.buffer = make([]byte, pxW*pxH*4)
		g.bufW = pxW
		g.bufH = pxH
		force = true
	}

	for i := range g.front.cells {
		fc := &g.front.cells[i]
		if !force && !fc.visibleDiff(g.back.cells[i]) {
			continue
		}
		cellX := i % g.front.w * ts.tileW
		cellY := i / g.front.w * ts.tileH
		for y := 0; y < ts.tileH; y++ {
			row := ((cellY+y)*g.bufW + cellX) * 4
			for x := 0; x < ts.tileW; x++ {
				g.buffer[row+x*4+0] = fc.bg.R
				g.buffer[row+x*4+1] = fc.bg.G
				g.buffer[row+x*4+2] = fc.bg.B
				g.buffer[row+x*4+3] = 255
			}
		}
		if !fc.cs.isSpace() {
			ts.drawTile(g.buffer, g.bufW, cellX, cellY, fc.cs, fc.fg)
		}
		updated = true
	}

	copy(g.back.cells, g.front.cells)
	g.front.dirty = false
	return updated
}

// blit is one sub-rectangle copy from the texture to the screen, in pixels;
// dest coordinates are unzoomed and relative to the grid position.
type blit struct {
	srcX, srcY, srcW, srcH int
	destX, destY           int
}

// wrappedBlits returns the texture copies that undo a wrapped draw offset:
// one when the offset is zero, two when one axis is offset, four when both
// are.
func wrappedBlits(bufW, bufH, offXPx, offYPx int) []blit {
	blits := make([]blit, 0, 4)
	blits = append(blits, blit{offXPx, offYPx, bufW - offXPx, bufH - offYPx, 0, 0})
	if offXPx > 0 {
		blits = append(blits, blit{0, offYPx, offXPx, bufH - offYPx, bufW - offXPx, 0})
		if offYPx > 0 {
			blits = append(blits, blit{0, 0, offXPx, offYPx, bufW - offXPx, bufH - offYPx})
		}
	}
	if offYPx > 0 {
		blits = append(blits, blit{offXPx, 0, bufW - offXPx, offYPx, 0, bufH - offYPx})
	}
	return blits
}

// Display renders pending changes, uploads the buffer to the texture when
// needed, and composes the grid onto the screen through its view.
func (g *TileGrid[Y]) Display(tilesets []*Tileset[Y], screen *ebiten.Image) {
	if !g.View.Visible || g.View.Zoom < 1 {
		return
	}
	ts := tilesets[g.tilesetIndex]

	if g.buffer == nil {
		g.forceRender = true
	}
	if g.front.dirty || g.forceRender {
		if g.render(ts, g.forceRender) {
			g.needsUpload = true
			g.forceRender = false
		}
	}

	if g.texture == nil || g.texture.Bounds().Dx() != g.bufW || g.texture.Bounds().Dy() != g.bufH {
		g.texture = ebiten.NewImage(g.bufW, g.bufH)
		g.needsUpload = true
	}
	if g.needsUpload {
		g.texture.WritePixels(g.buffer)
		g.needsUpload = false
	}

	clip := image.Rect(g.View.X, g.View.Y, g.View.X+g.View.W, g.View.Y+g.View.H)
	clip = clip.Intersect(screen.Bounds())
	if clip.Empty() {
		return
	}
	dst := screen.SubImage(clip).(*ebiten.Image)

	if g.View.ClearColor != nil {
		c := g.View.ClearColor
		dst.Fill(color.RGBA{c.R, c.G, c.B, 255})
	}

	zoom := g.View.Zoom
	offXPx := g.front.offX * ts.tileW
	offYPx := g.front.offY * ts.tileH

	for _, b := range wrappedBlits(g.bufW, g.bufH, offXPx, offYPx) {
		if b.srcW <= 0 || b.srcH <= 0 {
			continue
		}
		src := g.texture.SubImage(image.Rect(b.srcX, b.srcY, b.srcX+b.srcW, b.srcY+b.srcH)).(*ebiten.Image)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(zoom), float64(zoom))
		op.GeoM.Translate(
			float64(g.View.X+g.View.DX+b.destX*zoom),
			float64(g.View.Y+g.View.DY+b.destY*zoom),
		)
		op.ColorScale.Scale(
			float32(g.View.ColorMod.R)/255,
			float32(g.View.ColorMod.G)/255,
			float32(g.View.ColorMod.B)/255,
			1,
		)
		dst.DrawImage(src, op)
	}
}
