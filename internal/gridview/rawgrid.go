package gridview

// rawGrid is the logical cell storage behind a TileGrid.  Addressing wraps
// through a draw offset so that the storage behaves like a torus: drawers
// write logical coordinates and stay oblivious to where cells land, and the
// display phase undoes the offset exactly.
type rawGrid[Y Symbol] struct {
	w, h       int
	offX, offY int
	cells      []cell[Y]
	dirty      bool
}

func newRawGrid[Y Symbol](w, h int) rawGrid[Y] {
	if w <= 0 || h <= 0 {
		panic("gridview: grid dimensions must be positive")
	}
	g := rawGrid[Y]{w: w, h: h, cells: make([]cell[Y], w*h)}
	g.fill(cell[Y]{cs: charSym[Y](' '), fg: White, bg: Black})
	return g
}

func (g *rawGrid[Y]) fill(c cell[Y]) {
	for i := range g.cells {
		g.cells[i] = c
	}
}

func (g *rawGrid[Y]) resize(w, h int) {
	if g.w == w && g.h == h {
		return
	}
	if w <= 0 || h <= 0 {
		panic("gridview: grid dimensions must be positive")
	}
	g.w = w
	g.h = h
	g.offX = 0
	g.offY = 0
	g.cells = make([]cell[Y], w*h)
	g.fill(cell[Y]{cs: charSym[Y](' '), fg: White, bg: Black})
	g.dirty = true
}

// setDrawOffset wraps the offset into grid bounds; negative offsets wrap
// from the far edge.
func (g *rawGrid[Y]) setDrawOffset(x, y int) {
	if x >= 0 {
		g.offX = x % g.w
	} else {
		g.offX = (g.w - (-x % g.w)) % g.w
	}
	if y >= 0 {
		g.offY = y % g.h
	} else {
		g.offY = (g.h - (-y % g.h)) % g.h
	}
}

// index maps a logical position to cell storage through the draw offset.
func (g *rawGrid[Y]) index(x, y int) int {
	realX := x + g.offX
	realY := y + g.offY
	if realX >= g.w {
		realX -= g.w
	}
	if realY >= g.h {
		realY -= g.h
	}
	return realY*g.w + realX
}

// putRaw writes a cell without bounds checking.  The grid is flagged dirty
// only when the stored cell actually changes.
func (g *rawGrid[Y]) putRaw(x, y int, cs cellSym[Y], fg, bg Color) {
	i := g.index(x, y)
	c := cell[Y]{cs: cs, fg: fg, bg: bg}
	if g.cells[i] != c {
		g.cells[i] = c
		g.dirty = true
	}
}

func (g *rawGrid[Y]) put(x, y int, cs cellSym[Y], fg, bg Color) {
	if x >= 0 && y >= 0 && x < g.w && y < g.h {
		g.putRaw(x, y, cs, fg, bg)
	}
}

func (g *rawGrid[Y]) recolor(x, y int, fg, bg Color) {
	if x >= 0 && y >= 0 && x < g.w && y < g.h {
		i := g.index(x, y)
		if g.cells[i].fg != fg || g.cells[i].bg != bg {
			g.cells[i].fg = fg
			g.cells[i].bg = bg
			g.dirty = true
		}
	}
}

func (g *rawGrid[Y]) clearColor(fg, bg Color) {
	g.fill(cell[Y]{cs: charSym[Y](' '), fg: fg, bg: bg})
	g.dirty = true
}

// print writes a row of characters starting at (x, y), truncated at the grid
// edges.  When drawSpace is false, space characters leave the cells they
// cover untouched.
func (g *rawGrid[Y]) print(x, y int, s string, drawSpace bool, fg, bg Color) {
	if y < 0 || y >= g.h || x >= g.w {
		return
	}
	i := 0
	for _, ch := range s {
		cx := x + i
		i++
		if cx < 0 {
			continue
		}
		if cx >= g.w {
			break
		}
		if !drawSpace && ch == ' ' {
			continue
		}
		g.putRaw(cx, y, charSym[Y](ch), fg, bg)
	}
}

// drawBox draws a single-line box with the given outer size, clearing the
// interior.  Parts outside the grid are clipped.
func (g *rawGrid[Y]) drawBox(x, y, w, h int, fg, bg Color) {
	if w <= 0 || h <= 0 || x+w <= 0 || y+h <= 0 || x >= g.w || y >= g.h {
		return
	}
	if y >= 0 {
		if x >= 0 {
			g.putRaw(x, y, charSym[Y]('┌'), fg, bg)
		}
		for xx := max(0, x+1); xx < min(g.w, x+w-1); xx++ {
			g.putRaw(xx, y, charSym[Y]('─'), fg, bg)
		}
		if x+w-1 < g.w {
			g.putRaw(x+w-1, y, charSym[Y]('┐'), fg, bg)
		}
	}
	for yy := max(0, y+1); yy < min(g.h, y+h-1); yy++ {
		if x >= 0 {
			g.putRaw(x, yy, charSym[Y]('│'), fg, bg)
		}
		for xx := max(0, x+1); xx < min(g.w, x+w-1); xx++ {
			g.putRaw(xx, yy, charSym[Y](' '), fg, bg)
		}
		if x+w-1 < g.w {
			g.putRaw(x+w-1, yy, charSym[Y]('│'), fg, bg)
		}
	}
	if y+h-1 < g.h {
		if x >= 0 {
			g.putRaw(x, y+h-1, charSym[Y]('└'), fg, bg)
		}
		for xx := max(0, x+1); xx < min(g.w, x+w-1); xx++ {
			g.putRaw(xx, y+h-1, charSym[Y]('─'), fg, bg)
		}
		if x+w-1 < g.w {
			g.putRaw(x+w-1, y+h-1, charSym[Y]('┘'), fg, bg)
		}
	}
}

// drawBar draws a partially-filled bar of the given length.  The filled span
// is proportional to amount out of max, positioned by offset.
func (g *rawGrid[Y]) drawBar(vertical bool, x, y, length, offset, amount, barMax int, fg, bg Color) {
	if length <= 0 || barMax < 0 {
		return
	}
	fillLength := 0
	if barMax > 0 {
		fillLength = length * amount / barMax
		if fillLength < 0 {
			fillLength = 0
		} else if fillLength > length {
			fillLength = length
		}
	}
	gap := length - fillLength
	fillStart := 0
	if gap > 0 && amount < barMax {
		fillStart = gap * offset / (barMax - amount)
	}

	if vertical {
		if x < 0 || x >= g.w || y >= g.h || y+length < 0 {
			return
		}
		for i := max(0, y); i < min(g.h, y+fillStart); i++ {
			g.putRaw(x, i, charSym[Y]('░'), fg, bg)
		}
		for i := max(0, y+fillStart); i < min(g.h, y+fillStart+fillLength); i++ {
			g.putRaw(x, i, charSym[Y](' '), bg, fg)
		}
		for i := max(0, y+fillStart+fillLength); i < min(g.h, y+length); i++ {
			g.putRaw(x, i, charSym[Y]('░'), fg, bg)
		}
		return
	}
	if y < 0 || y >= g.h || x >= g.w || x+length < 0 {
		return
	}
	for i := max(0, x); i < min(g.w, x+fillStart); i++ {
		g.putRaw(i, y, charSym[Y]('░'), fg, bg)
	}
	for i := max(0, x+fillStart); i < min(g.w, x+fillStart+fillLength); i++ {
		g.putRaw(i, y, charSym[Y](' '), bg, fg)
	}
	for i := max(0, x+fillStart+fillLength); i < min(g.w, x+length); i++ {
		g.putRaw(i, y, charSym[Y]('░'), fg, bg)
	}
}
