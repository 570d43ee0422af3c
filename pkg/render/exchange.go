package render

import "sync"

// FrameExchange hands completed frames from a render goroutine to a
// presenter. Both sides copy under a single mutex, so a reader never sees a
// partially written frame.
type FrameExchange struct {
	mu  sync.Mutex
	buf *Framebuffer
	seq uint64
}

// NewFrameExchange creates an exchange holding a width x height frame.
func NewFrameExchange(width, height int) *FrameExchange {
	return &FrameExchange{buf: NewFramebuffer(width, height)}
}

// Publish copies fb into the shared buffer. Frames whose size differs from
// the exchange are dropped and Publish reports false.
func (e *FrameExchange) Publish(fb *Framebuffer) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.buf.CopyFrom(fb) {
		return false
	}
	e.seq++
	return true
}

// CopyTo copies the latest frame into dst and returns its sequence number.
// ok is false when dst has a different size.
func (e *FrameExchange) CopyTo(dst *Framebuffer) (seq uint64, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !dst.CopyFrom(e.buf) {
		return e.seq, false
	}
	return e.seq, true
}

// EncodeInto writes the latest frame's raw bytes into dst.
func (e *FrameExchange) EncodeInto(dst []byte) ([]byte, uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.EncodeInto(dst), e.seq
}

// Frame returns a snapshot of the latest frame.
func (e *FrameExchange) Frame() *Framebuffer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Snapshot()
}

// Resize replaces the shared buffer. Producers publishing the old size are
// rejected until they resize too.
func (e *FrameExchange) Resize(width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.buf.Width == width && e.buf.Height == height {
		return
	}
	e.buf = NewFramebuffer(width, height)
}

// Size returns the dimensions of the shared buffer.
func (e *FrameExchange) Size() (width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Width, e.buf.Height
}

// Seq returns the number of frames published so far.
func (e *FrameExchange) Seq() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seq
}
