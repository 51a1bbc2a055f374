package gridview

// Color is an 8-bit-per-channel RGB triple.  Cell colors are multiplied into
// tileset pixels at render time, and view color mods are multiplied in again
// at display time.
type Color struct {
	R, G, B uint8
}

var (
	White = Color{255, 255, 255}
	Black = Color{0, 0, 0}
)

// Dim scales the color by num/den per channel.  Used for dimming the views
// of layers shown behind the active one.
func (c Color) Dim(num, den int) Color {
	return Color{
		R: uint8(int(c.R) * num / den),
		G: uint8(int(c.G) * num / den),
		B: uint8(int(c.B) * num / den),
	}
}
