package gridview

import "testing"

func testGridAndTileset(t *testing.T, w, h int) (*TileGrid[fallbackSym], []*Tileset[fallbackSym]) {
	t.Helper()
	tilesets := []*Tileset[fallbackSym]{testTileset(t)}
	return NewTileGrid(w, h, tilesets, 0), tilesets
}

func TestWrappedBlits_NoOffset(t *testing.T) {
	blits := wrappedBlits(80, 80, 0, 0)
	if len(blits) != 1 {
		t.Fatalf("got %d blits, want 1", len(blits))
	}
	if blits[0] != (blit{0, 0, 80, 80, 0, 0}) {
		t.Fatalf("blit = %+v", blits[0])
	}
}

func TestWrappedBlits_XOffset(t *testing.T) {
	// Cell (0, 0) drawn with draw offset 9 on a 10-cell-wide grid of
	// 8-pixel tiles lands at storage pixel 72 and must display at 0.
	blits := wrappedBlits(80, 80, 72, 0)
	if len(blits) != 2 {
		t.Fatalf("got %d blits, want 2", len(blits))
	}
	if blits[0] != (blit{72, 0, 8, 80, 0, 0}) {
		t.Fatalf("near blit = %+v", blits[0])
	}
	if blits[1] != (blit{0, 0, 72, 80, 8, 0}) {
		t.Fatalf("far blit = %+v", blits[1])
	}
}

func TestWrappedBlits_YOffset(t *testing.T) {
	blits := wrappedBlits(80, 80, 0, 16)
	if len(blits) != 2 {
		t.Fatalf("got %d blits, want 2", len(blits))
	}
	if blits[0] != (blit{0, 16, 80, 64, 0, 0}) {
		t.Fatalf("near blit = %+v", blits[0])
	}
	if blits[1] != (blit{0, 0, 80, 16, 0, 64}) {
		t.Fatalf("far blit = %+v", blits[1])
	}
}

func TestWrappedBlits_BothOffsets(t *testing.T) {
	blits := wrappedBlits(80, 80, 72, 16)
	if len(blits) != 4 {
		t.Fatalf("got %d blits, want 4", len(blits))
	}

	// Every source pixel must be covered exactly once, and source/dest
	// must be related by the wrap on both axes.
	covered := make([][]bool, 80)
	for i := range covered {
		covered[i] = make([]bool, 80)
	}
	for _, b := range blits {
		for y := 0; y < b.srcH; y++ {
			for x := 0; x < b.srcW; x++ {
				sx, sy := b.srcX+x, b.srcY+y
				if covered[sy][sx] {
					t.Fatalf("source pixel (%d, %d) covered twice", sx, sy)
				}
				covered[sy][sx] = true
				dx, dy := b.destX+x, b.destY+y
				if (sx+80-72)%80 != (dx+80)%80 || (sy+80-16)%80 != (dy+80)%80 {
					t.Fatalf("source (%d, %d) mapped to dest (%d, %d)", sx, sy, dx, dy)
				}
			}
		}
	}
	for y := range covered {
		for x := range covered[y] {
			if !covered[y][x] {
				t.Fatalf("source pixel (%d, %d) never displayed", x, y)
			}
		}
	}
}

func TestTileGrid_RenderPaintsChangedCellsOnly(t *testing.T) {
	grid, tilesets := testGridAndTileset(t, 4, 4)
	ts := tilesets[0]

	grid.render(ts, true)

	// Draw one glyph, repaint, and confirm only that cell's pixels moved.
	grid.PutCharColor(2, 1, 'A', Color{R: 250, G: 0, B: 0}, Black)
	before := append([]byte(nil), grid.buffer...)
	if !grid.render(ts, false) {
		t.Fatal("render reported no change after a draw")
	}

	tileW, tileH := ts.TileWidth(), ts.TileHeight()
	for y := 0; y < grid.bufH; y++ {
		for x := 0; x < grid.bufW; x++ {
			i := (y*grid.bufW + x) * 4
			inCell := x >= 2*tileW && x < 3*tileW && y >= tileH && y < 2*tileH
			changed := grid.buffer[i] != before[i]
			if changed && !inCell {
				t.Fatalf("pixel (%d, %d) outside the drawn cell changed", x, y)
			}
		}
	}
	if grid.buffer[(tileH*grid.bufW+2*tileW)*4] != 250 {
		t.Fatal("drawn cell did not take the foreground color")
	}
}

func TestTileGrid_RenderIdempotentPerChange(t *testing.T) {
	grid, tilesets := testGridAndTileset(t, 4, 4)
	ts := tilesets[0]
	grid.render(ts, true)

	grid.PutCharColor(0, 0, 'A', White, Black)
	if !grid.render(ts, false) {
		t.Fatal("first render after a change did nothing")
	}
	if grid.render(ts, false) {
		t.Fatal("second render repainted with no new changes")
	}
	if grid.front.dirty {
		t.Fatal("front grid still dirty after render")
	}
}

func TestTileGrid_ViewCentered(t *testing.T) {
	grid, tilesets := testGridAndTileset(t, 10, 10)

	// 10 cells of 4px tiles at zoom 1 is 40px; centered in 100x60.
	grid.ViewCentered(tilesets, 1, 0, 0, 100, 60)
	if grid.View.X != 30 || grid.View.Y != 10 {
		t.Fatalf("view pos = (%d, %d), want (30, 10)", grid.View.X, grid.View.Y)
	}
	if grid.View.W != 40 || grid.View.H != 40 {
		t.Fatalf("view size = (%d, %d), want (40, 40)", grid.View.W, grid.View.H)
	}
	if grid.View.DX != 0 || grid.View.DY != 0 {
		t.Fatalf("view dx/dy = (%d, %d), want (0, 0)", grid.View.DX, grid.View.DY)
	}

	// Larger than the rectangle: clipped and centered by negative dx.
	grid.ViewCentered(tilesets, 2, 0, 0, 60, 60)
	if grid.View.W != 60 || grid.View.DX != -10 {
		t.Fatalf("clipped view w/dx = (%d, %d), want (60, -10)", grid.View.W, grid.View.DX)
	}
}

func TestTileGrid_ResizeForcesRedraw(t *testing.T) {
	grid, tilesets := testGridAndTileset(t, 4, 4)
	grid.render(tilesets[0], true)
	grid.Resize(6, 3)
	if grid.buffer != nil {
		t.Fatal("resize kept a stale pixel buffer")
	}
	if !grid.forceRender {
		t.Fatal("resize did not force a rerender")
	}
	if grid.Width() != 6 || grid.Height() != 3 {
		t.Fatalf("size = (%d, %d) after resize", grid.Width(), grid.Height())
	}
}

func TestDisplayStart_SkipsOpaqueLayers(t *testing.T) {
	mk := func(drawBehind bool) Layer[fallbackSym] {
		return Layer[fallbackSym]{DrawBehind: drawBehind}
	}
	if got := displayStart([]Layer[fallbackSym]{mk(false), mk(false), mk(true)}); got != 1 {
		t.Fatalf("displayStart = %d, want 1", got)
	}
	if got := displayStart([]Layer[fallbackSym]{mk(false), mk(true), mk(true)}); got != 0 {
		t.Fatalf("displayStart = %d, want 0", got)
	}
	if got := displayStart([]Layer[fallbackSym]{mk(true), mk(true)}); got != 0 {
		t.Fatalf("displayStart with all transparent = %d, want 0", got)
	}
}
