package gridview

import (
	"fmt"
	"image"
	"os"
	"sort"

	_ "image/png" // tileset images are PNG
)

// TileIndex is the column/row position of a tile inside a tile image.
type TileIndex struct {
	X, Y int
}

// TilesetInfo describes a tileset to be loaded from an image.
type TilesetInfo[Y Symbol] struct {
	// ImagePath is the tile image on disk.  Ignored by
	// NewTilesetFromImage.
	ImagePath string
	// TileW, TileH are the pixel dimensions of each tile.
	TileW, TileH int
	// StartX, StartY is the pixel offset of the top-left tile.
	StartX, StartY int
	// GapX, GapY are the pixels between adjacent tiles.
	GapX, GapY int
	// FontMap assigns characters to tile positions.
	FontMap map[rune]TileIndex
	// SymbolMap assigns domain symbols to tile positions.
	SymbolMap map[Y]TileIndex
}

// MapCodePage437 returns a font map for a 16-by-16 grid of IBM Code Page 437
// glyphs, the layout of most classic tile fonts.
func MapCodePage437() map[rune]TileIndex {
	const codePage437 = " ☺☻♥♦♣♠•◘○◙♂♀♪♫☼" +
		"►◄↕‼¶§▬↨↑↓→←∟↔▲▼ " +
		"!\"#$%&'()*+,-./" +
		"0123456789:;<=>?" +
		"@ABCDEFGHIJKLMNO" +
		"PQRSTUVWXYZ[\\]^_" +
		"`abcdefghijklmno" +
		"pqrstuvwxyz{|}~⌂" +
		"ÇüéâäàåçêëèïîìÄÅ" +
		"ÉæÆôöòûùÿÖÜ¢£¥₧ƒ" +
		"áíóúñÑªº¿⌐¬½¼¡«»" +
		"░▒▓│┤╡╢╖╕╣║╗╝╜╛┐" +
		"└┴┬├─┼╞╟╚╔╩╦╠═╬╧" +
		"╨╤╥╙╘╒╓╫╪┘┌█▄▌▐▀" +
		"αßΓπΣσµτΦΘΩδ∞φε∩" +
		"≡±≥≤⌠⌡÷≈°∙·√ⁿ²■"
	fontMap := make(map[rune]TileIndex)
	i := 0
	for _, ch := range codePage437 {
		fontMap[ch] = TileIndex{i % 16, i / 16}
		i++
	}
	return fontMap
}

// Tileset holds the tiles referenced by a font map and a symbol map,
// rearranged into a one-tile-wide column for cache-friendly blits.  Pixels
// are stored as white with alpha carrying the source grayness, so a blit
// with a color multiplier recolors the glyph.  Immutable after creation
// apart from the fallback lookup cache.
type Tileset[Y Symbol] struct {
	pixels       []byte // RGBA, TileW wide, rows*TileH tall
	tileW, tileH int
	rows         int
	yPos         map[cellSym[Y]]int // pixel y of each tile; -1 when unmapped
}

// NewTileset loads a tileset from the image file named by info.  Errors name
// the failing path; a load failure is fatal at startup by policy.
func NewTileset[Y Symbol](info TilesetInfo[Y]) (*Tileset[Y], error) {
	f, err := os.Open(info.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("load tileset %s: %w", info.ImagePath, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load tileset %s: %w", info.ImagePath, err)
	}
	ts, err := NewTilesetFromImage(img, info)
	if err != nil {
		return nil, fmt.Errorf("load tileset %s: %w", info.ImagePath, err)
	}
	return ts, nil
}

// NewTilesetFromImage builds a tileset from an already-decoded image.
func NewTilesetFromImage[Y Symbol](img image.Image, info TilesetInfo[Y]) (*Tileset[Y], error) {
	if len(info.FontMap) == 0 && len(info.SymbolMap) == 0 {
		return nil, fmt.Errorf("tileset maps no tiles")
	}
	if info.TileW <= 0 || info.TileH <= 0 {
		return nil, fmt.Errorf("tile size %dx%d not positive", info.TileW, info.TileH)
	}

	imgW := img.Bounds().Dx()
	imgH := img.Bounds().Dy()
	validate := func(ti TileIndex) error {
		spanX := info.TileW + info.GapX
		spanY := info.TileH + info.GapY
		if ti.X < 0 || ti.Y < 0 ||
			info.StartX+ti.X*spanX+info.TileW > imgW ||
			info.StartY+ti.Y*spanY+info.TileH > imgH {
			return fmt.Errorf("tile (%d, %d) outside image bounds", ti.X, ti.Y)
		}
		return nil
	}

	// Collect every referenced tile index, sorted so that tiles adjacent
	// in the image stay adjacent in the column.
	var indexes []TileIndex
	seen := make(map[TileIndex]bool)
	collect := func(ti TileIndex) error {
		if err := validate(ti); err != nil {
			return err
		}
		if !seen[ti] {
			seen[ti] = true
			indexes = append(indexes, ti)
		}
		return nil
	}
	for _, ti := range info.FontMap {
		if err := collect(ti); err != nil {
			return nil, err
		}
	}
	for _, ti := range info.SymbolMap {
		if err := collect(ti); err != nil {
			return nil, err
		}
	}
	sort.Slice(indexes, func(i, j int) bool {
		if indexes[i].Y != indexes[j].Y {
			return indexes[i].Y < indexes[j].Y
		}
		return indexes[i].X < indexes[j].X
	})

	indexToY := make(map[TileIndex]int, len(indexes))
	for row, ti := range indexes {
		indexToY[ti] = row * info.TileH
	}

	ts := &Tileset[Y]{
		pixels: make([]byte, info.TileW*info.TileH*len(indexes)*4),
		tileW:  info.TileW,
		tileH:  info.TileH,
		rows:   len(indexes),
		yPos:   make(map[cellSym[Y]]int),
	}

	// Transfer referenced tiles, converting grayness to alpha on white so
	// that color modulation recolors the glyph at blit time.
	for ti, destY := range indexToY {
		srcX := info.StartX + ti.X*(info.TileW+info.GapX)
		srcY := info.StartY + ti.Y*(info.TileH+info.GapY)
		for y := 0; y < info.TileH; y++ {
			for x := 0; x < info.TileW; x++ {
				r, g, b, a := img.At(img.Bounds().Min.X+srcX+x, img.Bounds().Min.Y+srcY+y).RGBA()
				gray := ((r>>8)*30 + (g>>8)*59 + (b>>8)*11) / 100
				if a == 0 {
					gray = 0
				}
				di := ((destY+y)*info.TileW + x) * 4
				if gray == 0 {
					// Transparent black.
					ts.pixels[di+0] = 0
					ts.pixels[di+1] = 0
					ts.pixels[di+2] = 0
					ts.pixels[di+3] = 0
				} else {
					ts.pixels[di+0] = 255
					ts.pixels[di+1] = 255
					ts.pixels[di+2] = 255
					ts.pixels[di+3] = byte(gray)
				}
			}
		}
	}

	for ch, ti := range info.FontMap {
		ts.yPos[charSym[Y](ch)] = indexToY[ti]
	}
	for sym, ti := range info.SymbolMap {
		ts.yPos[symSym[Y](sym)] = indexToY[ti]
	}

	return ts, nil
}

// TileWidth returns the pixel width of each tile.
func (ts *Tileset[Y]) TileWidth() int { return ts.tileW }

// TileHeight returns the pixel height of each tile.
func (ts *Tileset[Y]) TileHeight() int { return ts.tileH }

// yPosFor resolves cell content to a tile, falling back to the glyph for a
// symbol's text representation.  Fallback lookups are cached.
func (ts *Tileset[Y]) yPosFor(cs cellSym[Y]) int {
	if y, ok := ts.yPos[cs]; ok {
		return y
	}
	if !cs.isSym {
		return -1
	}
	y, ok := ts.yPos[charSym[Y](cs.sym.TextFallback())]
	if !ok {
		y = -1
	}
	ts.yPos[cs] = y
	return y
}

// drawTile alpha-blends the tile for cs, tinted with fg, onto the RGBA
// buffer dst of row width dstW at pixel position (destX, destY).  The
// destination is assumed to be pre-filled with the cell background.
func (ts *Tileset[Y]) drawTile(dst []byte, dstW, destX, destY int, cs cellSym[Y], fg Color) {
	srcY := ts.yPosFor(cs)
	if srcY < 0 {
		return
	}
	for y := 0; y < ts.tileH; y++ {
		srcRow := (srcY + y) * ts.tileW * 4
		dstRow := ((destY+y)*dstW + destX) * 4
		for x := 0; x < ts.tileW; x++ {
			a := int(ts.pixels[srcRow+x*4+3])
			if a == 0 {
				continue
			}
			di := dstRow + x*4
			dst[di+0] = byte((int(fg.R)*a + int(dst[di+0])*(255-a)) / 255)
			dst[di+1] = byte((int(fg.G)*a + int(dst[di+1])*(255-a)) / 255)
			dst[di+2] = byte((int(fg.B)*a + int(dst[di+2])*(255-a)) / 255)
			dst[di+3] = 255
		}
	}
}
