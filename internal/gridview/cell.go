package gridview

// Symbol is implemented by domain tile symbol types stored in grid cells.
// A symbol without a tile in the active tileset falls back to the glyph for
// its text representation.
type Symbol interface {
	comparable
	TextFallback() rune
}

// cellSym is the tagged character-or-symbol content of a cell.
type cellSym[Y Symbol] struct {
	ch    rune
	sym   Y
	isSym bool
}

func charSym[Y Symbol](ch rune) cellSym[Y] {
	return cellSym[Y]{ch: ch}
}

func symSym[Y Symbol](sym Y) cellSym[Y] {
	return cellSym[Y]{sym: sym, isSym: true}
}

func (cs cellSym[Y]) isSpace() bool {
	return !cs.isSym && cs.ch == ' '
}

type cell[Y Symbol] struct {
	cs cellSym[Y]
	fg Color
	bg Color
}

// visibleDiff reports whether the two cells would render differently.  A
// foreground change on a space cell is invisible.
func (c cell[Y]) visibleDiff(o cell[Y]) bool {
	return c.cs != o.cs || (!c.cs.isSpace() && c.fg != o.fg) || c.bg != o.bg
}
