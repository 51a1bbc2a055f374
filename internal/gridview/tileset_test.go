package gridview

import (
	"image"
	"image/color"
	"testing"
)

// fallbackSym always falls back to 'A'.
type fallbackSym uint8

func (fallbackSym) TextFallback() rune { return 'A' }

// testTileImage builds a 2-tile source image: tile (0, 0) solid white, tile
// (1, 0) solid mid-gray.
func testTileImage(tileW, tileH int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, tileW*2, tileH))
	for y := 0; y < tileH; y++ {
		for x := 0; x < tileW; x++ {
			img.Set(x, y, color.NRGBA{255, 255, 255, 255})
			img.Set(tileW+x, y, color.NRGBA{128, 128, 128, 255})
		}
	}
	return img
}

func testTileset(t *testing.T) *Tileset[fallbackSym] {
	t.Helper()
	ts, err := NewTilesetFromImage(testTileImage(4, 4), TilesetInfo[fallbackSym]{
		TileW: 4,
		TileH: 4,
		FontMap: map[rune]TileIndex{
			'A': {0, 0},
			'B': {1, 0},
		},
	})
	if err != nil {
		t.Fatalf("NewTilesetFromImage: %v", err)
	}
	return ts
}

func TestTileset_GraynessBecomesAlpha(t *testing.T) {
	ts := testTileset(t)

	yA := ts.yPosFor(charSym[fallbackSym]('A'))
	if yA < 0 {
		t.Fatal("'A' not mapped")
	}
	if a := ts.pixels[(yA*4)*4+3]; a != 255 {
		t.Fatalf("white source pixel alpha = %d, want 255", a)
	}

	yB := ts.yPosFor(charSym[fallbackSym]('B'))
	if yB < 0 {
		t.Fatal("'B' not mapped")
	}
	if a := ts.pixels[(yB*4)*4+3]; a != 128 {
		t.Fatalf("mid-gray source pixel alpha = %d, want 128", a)
	}
	if r := ts.pixels[(yB*4)*4+0]; r != 255 {
		t.Fatalf("stored pixel red = %d, want white", r)
	}
}

func TestTileset_DrawTileRecolorsWithForeground(t *testing.T) {
	ts := testTileset(t)
	dst := make([]byte, 4*4*4) // one tile, pre-filled black
	for i := 3; i < len(dst); i += 4 {
		dst[i] = 255
	}

	ts.drawTile(dst, 4, 0, 0, charSym[fallbackSym]('A'), Color{R: 200, G: 100, B: 50})
	if dst[0] != 200 || dst[1] != 100 || dst[2] != 50 {
		t.Fatalf("opaque pixel = (%d, %d, %d), want the foreground color", dst[0], dst[1], dst[2])
	}

	// The mid-gray tile blends half the foreground over the background.
	for i := 0; i < 3; i++ {
		dst[i] = 0
	}
	ts.drawTile(dst, 4, 0, 0, charSym[fallbackSym]('B'), Color{R: 200, G: 100, B: 50})
	if dst[0] != 200*128/255 {
		t.Fatalf("blended pixel red = %d, want %d", dst[0], 200*128/255)
	}
}

func TestTileset_SymbolFallsBackToGlyph(t *testing.T) {
	ts := testTileset(t)
	wantY := ts.yPosFor(charSym[fallbackSym]('A'))
	gotY := ts.yPosFor(symSym[fallbackSym](fallbackSym(7)))
	if gotY != wantY {
		t.Fatalf("fallback tile y = %d, want 'A' tile y %d", gotY, wantY)
	}
}

func TestTileset_UnmappedCharHasNoTile(t *testing.T) {
	ts := testTileset(t)
	if y := ts.yPosFor(charSym[fallbackSym]('Z')); y != -1 {
		t.Fatalf("unmapped char resolved to tile y %d", y)
	}
}

func TestTileset_RejectsEmptyMaps(t *testing.T) {
	_, err := NewTilesetFromImage(testTileImage(4, 4), TilesetInfo[fallbackSym]{TileW: 4, TileH: 4})
	if err == nil {
		t.Fatal("expected error for a tileset mapping no tiles")
	}
}

func TestTileset_RejectsOutOfBoundsIndex(t *testing.T) {
	_, err := NewTilesetFromImage(testTileImage(4, 4), TilesetInfo[fallbackSym]{
		TileW:   4,
		TileH:   4,
		FontMap: map[rune]TileIndex{'A': {5, 0}},
	})
	if err == nil {
		t.Fatal("expected error for a tile index outside the image")
	}
}

func TestMapCodePage437_Layout(t *testing.T) {
	fm := MapCodePage437()
	if got := fm['A']; got != (TileIndex{1, 4}) {
		t.Fatalf("'A' mapped to %v, want {1, 4}", got)
	}
	if got := fm['!']; got != (TileIndex{1, 2}) {
		t.Fatalf("'!' mapped to %v, want {1, 2}", got)
	}
	if got := fm['░']; got != (TileIndex{0, 11}) {
		t.Fatalf("'░' mapped to %v, want {0, 11}", got)
	}
}
