package render

import "image/color"

// PixelBuffer is a flat row-major RGBA byte buffer, 4 bytes per pixel.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []byte
}

// NewPixelBuffer allocates a zeroed buffer of width*height pixels.
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}
}

// Clear zeroes every byte. Called once per frame before any line draws.
func (b *PixelBuffer) Clear() {
	clear(b.Pix)
}

// Fill sets every pixel to clr.
func (b *PixelBuffer) Fill(clr color.RGBA) {
	for i := 0; i < len(b.Pix); i += 4 {
		b.Pix[i] = clr.R
		b.Pix[i+1] = clr.G
		b.Pix[i+2] = clr.B
		b.Pix[i+3] = clr.A
	}
}

// VerLine writes clr into column x for rows [start, end).
func (b *PixelBuffer) VerLine(x, start, end int, clr color.RGBA) {
	stride := b.Width * 4
	base := x * 4
	for y := start; y < end; y++ {
		i := base + y*stride
		b.Pix[i] = clr.R
		b.Pix[i+1] = clr.G
		b.Pix[i+2] = clr.B
		b.Pix[i+3] = clr.A
	}
}

// At returns the pixel at (x, y).
func (b *PixelBuffer) At(x, y int) color.RGBA {
	i := y*b.Width*4 + x*4
	return color.RGBA{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2], A: b.Pix[i+3]}
}

// Bytes returns the backing slice for upload to a display surface.
func (b *PixelBuffer) Bytes() []byte {
	return b.Pix
}

// Premultiply writes src, straight-alpha RGBA, into dst as premultiplied
// RGBA and returns dst. dst is grown when it is too short.
func Premultiply(dst, src []byte) []byte {
	if cap(dst) < len(src) {
		dst = make([]byte, len(src))
	}
	dst = dst[:len(src)]
	for i := 0; i+3 < len(src); i += 4 {
		a := uint16(src[i+3])
		dst[i] = uint8(uint16(src[i]) * a / 255)
		dst[i+1] = uint8(uint16(src[i+1]) * a / 255)
		dst[i+2] = uint8(uint16(src[i+2]) * a / 255)
		dst[i+3] = src[i+3]
	}
	return dst
}
