package ops

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gsk/geom"
)

// FinishFunc is called when a BufferWriter span is committed or aborted.
// The span is w.Span() while the callback runs.
type FinishFunc func(w *BufferWriter, committed bool)

// BufferWriter packs little-endian uniform and vertex data into a growing
// byte buffer. Writes happen in spans: a span is either committed as a
// whole, padded to the writer's alignment, or discarded by Abort.
type BufferWriter struct {
	data    []byte
	initial int
	align   int
	finish  FinishFunc
}

// NewBufferWriter returns a writer whose committed spans start at
// multiples of align. finish may be nil.
func NewBufferWriter(align int, finish FinishFunc) *BufferWriter {
	if align <= 0 {
		align = 1
	}
	return &BufferWriter{align: align, finish: finish}
}

// Align returns the span alignment.
func (w *BufferWriter) Align() int {
	return w.align
}

// EnsureSize makes room for n more bytes without further allocation.
func (w *BufferWriter) EnsureSize(n int) {
	need := len(w.data) + n
	if need <= cap(w.data) {
		return
	}
	c := max(2*cap(w.data), 256)
	for c < need {
		c *= 2
	}
	buf := make([]byte, len(w.data), c)
	copy(buf, w.data)
	w.data = buf
}

func (w *BufferWriter) pad(align int) {
	if align <= 1 {
		return
	}
	off := len(w.data) - w.initial
	if rem := off % align; rem != 0 {
		w.EnsureSize(align - rem)
		for i := rem; i < align; i++ {
			w.data = append(w.data, 0)
		}
	}
}

// Append writes b after padding the span to align bytes.
func (w *BufferWriter) Append(align int, b []byte) {
	w.pad(align)
	w.EnsureSize(len(b))
	w.data = append(w.data, b...)
}

// AppendFloat writes a float32.
func (w *BufferWriter) AppendFloat(f float32) {
	w.pad(4)
	w.EnsureSize(4)
	w.data = binary.LittleEndian.AppendUint32(w.data, math.Float32bits(f))
}

// AppendInt writes an int32.
func (w *BufferWriter) AppendInt(i int32) {
	w.AppendUint(uint32(i))
}

// AppendUint writes a uint32.
func (w *BufferWriter) AppendUint(u uint32) {
	w.pad(4)
	w.EnsureSize(4)
	w.data = binary.LittleEndian.AppendUint32(w.data, u)
}

// AppendVec4 writes four floats aligned to 16 bytes.
func (w *BufferWriter) AppendVec4(x, y, z, a float32) {
	w.pad(16)
	w.AppendFloat(x)
	w.AppendFloat(y)
	w.AppendFloat(z)
	w.AppendFloat(a)
}

// AppendMatrix writes m as a column-major mat4x4<f32>.
func (w *BufferWriter) AppendMatrix(m geom.Matrix) {
	w.pad(16)
	w.EnsureSize(64)
	for _, f := range m.Float32() {
		w.data = binary.LittleEndian.AppendUint32(w.data, math.Float32bits(f))
	}
}

// AppendRect writes a rectangle as vec4 (x, y, w, h).
func (w *BufferWriter) AppendRect(r geom.Rect) {
	w.AppendVec4(float32(r.X), float32(r.Y), float32(r.W), float32(r.H))
}

// AppendRoundedRect writes the bounds followed by the corner sizes as
// three vec4s: bounds, widths, heights.
func (w *BufferWriter) AppendRoundedRect(rr geom.RoundedRect) {
	w.AppendRect(rr.Bounds)
	c := rr.Corner
	w.AppendVec4(float32(c[0].W), float32(c[1].W), float32(c[2].W), float32(c[3].W))
	w.AppendVec4(float32(c[0].H), float32(c[1].H), float32(c[2].H), float32(c[3].H))
}

// AppendColor writes a color as vec4.
func (w *BufferWriter) AppendColor(c geom.Color) {
	w.AppendVec4(c.R, c.G, c.B, c.A)
}

// Span returns the bytes written since the last Commit or Abort.
func (w *BufferWriter) Span() []byte {
	return w.data[w.initial:]
}

// Commit pads the span to the writer alignment and keeps it. It returns
// the offset of the span in Bytes and its size.
func (w *BufferWriter) Commit() (offset, size int) {
	w.pad(w.align)
	offset, size = w.initial, len(w.data)-w.initial
	if w.finish != nil {
		w.finish(w, true)
	}
	w.initial = len(w.data)
	return offset, size
}

// Abort discards the span.
func (w *BufferWriter) Abort() {
	if w.finish != nil {
		w.finish(w, false)
	}
	w.data = w.data[:w.initial]
}

// Bytes returns all committed data.
func (w *BufferWriter) Bytes() []byte {
	return w.data[:w.initial]
}

// Reset drops all data, committed or not.
func (w *BufferWriter) Reset() {
	w.data = w.data[:0]
	w.initial = 0
}
