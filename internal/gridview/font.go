package gridview

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// builtinFontRunes are the glyphs rasterized into the built-in tileset:
// printable ASCII plus the box and bar glyphs the grid drawing helpers use.
const builtinFontRunes = "!\"#$%&'()*+,-./0123456789:;<=>?" +
	"@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_" +
	"`abcdefghijklmnopqrstuvwxyz{|}~" +
	"─│┌┐└┘├┤┬┴┼░▒▓█·"

// NewBuiltinFontTileset rasterizes a tileset from the bundled monospace font
// so that the engine can run without any tileset image on disk.
func NewBuiltinFontTileset[Y Symbol](tileW, tileH int) (*Tileset[Y], error) {
	parsed, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse builtin font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(tileH),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("builtin font face: %w", err)
	}
	defer face.Close()

	const columns = 16
	runes := []rune(builtinFontRunes)
	rows := (len(runes) + columns - 1) / columns

	img := image.NewNRGBA(image.Rect(0, 0, columns*tileW, rows*tileH))
	drawer := font.Drawer{Dst: img, Src: image.White, Face: face}
	ascent := face.Metrics().Ascent

	fontMap := make(map[rune]TileIndex, len(runes)+1)
	for i, r := range runes {
		col := i % columns
		row := i / columns
		fontMap[r] = TileIndex{col, row}

		advance, ok := face.GlyphAdvance(r)
		if !ok {
			continue
		}
		drawer.Dot = fixed.Point26_6{
			X: fixed.I(col*tileW) + (fixed.I(tileW)-advance)/2,
			Y: fixed.I(row*tileH) + ascent,
		}
		drawer.DrawString(string(r))
	}
	// Space has no pixels but still needs a mapping so symbol fallbacks to
	// it resolve; point it at an untouched cell if one is free, else reuse
	// the last cell, which rendering skips for spaces anyway.
	if len(runes) < columns*rows {
		fontMap[' '] = TileIndex{len(runes) % columns, len(runes) / columns}
	} else {
		fontMap[' '] = TileIndex{columns - 1, rows - 1}
	}

	return NewTilesetFromImage(img, TilesetInfo[Y]{
		TileW:   tileW,
		TileH:   tileH,
		FontMap: fontMap,
	})
}
