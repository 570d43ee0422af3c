package render

import (
	"errors"
	"fmt"
)

// BytesPerPixel is the size of one encoded pixel.
//
// Encoded frames are row-major with channel order R, G, B, A, the same
// layout as image.RGBA.Pix and ebiten's WritePixels.
const BytesPerPixel = 4

// ErrSizeMismatch is returned when a payload does not match the frame size.
var ErrSizeMismatch = errors.New("pixel payload size mismatch")

// Encode returns the raw byte form of the frame.
func (fb *Framebuffer) Encode() []byte {
	return fb.EncodeInto(nil)
}

// EncodeInto writes the raw byte form into dst, reallocating only when dst
// is too small, and returns the written slice.
func (fb *Framebuffer) EncodeInto(dst []byte) []byte {
	n := len(fb.Pixels) * BytesPerPixel
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	for i, p := range fb.Pixels {
		o := i * BytesPerPixel
		dst[o] = p.R
		dst[o+1] = p.G
		dst[o+2] = p.B
		dst[o+3] = p.A
	}
	return dst
}

// Decode rebuilds a framebuffer from its raw byte form.
func Decode(width, height int, data []byte) (*Framebuffer, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("decode %dx%d: negative size", width, height)
	}
	fb := NewFramebuffer(width, height)
	if !fb.WriteBytes(data) {
		return nil, fmt.Errorf("decode %dx%d from %d bytes: %w", width, height, len(data), ErrSizeMismatch)
	}
	return fb, nil
}

// WriteBytes overwrites the pixels from a raw payload. A payload of the
// wrong length is ignored and WriteBytes reports false; the frame is never
// partially written.
func (fb *Framebuffer) WriteBytes(data []byte) bool {
	if len(data) != len(fb.Pixels)*BytesPerPixel {
		return false
	}
	for i := range fb.Pixels {
		o := i * BytesPerPixel
		fb.Pixels[i] = Color{R: data[o], G: data[o+1], B: data[o+2], A: data[o+3]}
	}
	return true
}
