package gridview

import "github.com/hajimehoshi/ebiten/v2"

// Layer groups the TileGrids of one screen, menu or dialog.  Layers are
// stacked bottom to top; a layer with DrawBehind set lets the layers below
// it show through, dimmed by their views' color mods.
type Layer[Y Symbol] struct {
	DrawBehind bool
	Grids      []*TileGrid[Y]
}

// displayStart returns the index of the bottom-most layer to display: the
// highest layer that does not draw behind itself, or the lowest layer when
// every layer does.
func displayStart[Y Symbol](layers []Layer[Y]) int {
	for i := len(layers) - 1; i >= 0; i-- {
		if !layers[i].DrawBehind {
			return i
		}
	}
	return 0
}

// DisplayLayers composes a layer stack onto the screen back to front,
// starting from the highest layer that does not draw behind itself.
func DisplayLayers[Y Symbol](tilesets []*Tileset[Y], layers []Layer[Y], screen *ebiten.Image) {
	for _, layer := range layers[displayStart(layers):] {
		for _, grid := range layer.Grids {
			grid.Display(tilesets, screen)
		}
	}
}

// FlagTextureResetAll re-uploads every grid's pixel buffer on its next
// display, recovering from a render-targets-reset event.
func FlagTextureResetAll[Y Symbol](layers []Layer[Y]) {
	for _, layer := range layers {
		for _, grid := range layer.Grids {
			grid.FlagTextureReset()
		}
	}
}

// FlagTextureRecreateAll recreates every grid's texture on its next display,
// recovering from a render-device-reset event.
func FlagTextureRecreateAll[Y Symbol](layers []Layer[Y]) {
	for _, layer := range layers {
		for _, grid := range layer.Grids {
			grid.FlagTextureRecreate()
		}
	}
}
