package terminal

import (
	"github.com/gdamore/tcell/v2"
)

// Image is an off-screen RGBA frame that is sampled onto the terminal.
type Image struct {
	width  int
	height int
	pix    []byte
	text   string
}

// Resize sets the logical frame size, keeping the allocation when it fits.
func (i *Image) Resize(width, height int) {
	i.width, i.height = width, height
	n := width * height * 4
	if cap(i.pix) < n {
		i.pix = make([]byte, n)
	}
	i.pix = i.pix[:n]
	i.text = ""
}

// Size returns the logical size in pixels.
func (i *Image) Size() (width, height int) {
	return i.width, i.height
}

// WritePixels copies a full frame. Frames of the wrong length are ignored.
func (i *Image) WritePixels(pix []byte) {
	if len(pix) != len(i.pix) {
		return
	}
	copy(i.pix, pix)
}

// DebugText sets the overlay drawn on the first terminal row.
func (i *Image) DebugText(text string) {
	i.text = text
}

// Present samples the frame onto every cell of s with nearest-neighbour
// scaling. Alpha is composited over black.
func (i *Image) Present(s tcell.Screen) {
	cols, rows := s.Size()
	if cols == 0 || rows == 0 || i.width == 0 || i.height == 0 {
		return
	}
	for cy := 0; cy < rows; cy++ {
		top := (2 * cy) * i.height / (2 * rows)
		bottom := (2*cy + 1) * i.height / (2 * rows)
		for cx := 0; cx < cols; cx++ {
			px := cx * i.width / cols
			style := tcell.StyleDefault.
				Foreground(i.color(px, top)).
				Background(i.color(px, bottom))
			s.SetContent(cx, cy, halfBlock, nil, style)
		}
	}

	overlay := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	for n, r := range []rune(i.text) {
		if n >= cols {
			break
		}
		s.SetContent(n, 0, r, nil, overlay)
	}
}

func (i *Image) color(x, y int) tcell.Color {
	off := x*4 + y*i.width*4
	a := int32(i.pix[off+3])
	r := int32(i.pix[off]) * a / 255
	g := int32(i.pix[off+1]) * a / 255
	b := int32(i.pix[off+2]) * a / 255
	return tcell.NewRGBColor(r, g, b)
}
