package cpu

import (
	"image"
	"math"
	"sync"
)

// gaussianKernel returns a normalized 1D kernel of half size ceil(3σ).
func gaussianKernel(sigma float64) []float32 {
	if sigma <= 0 {
		return []float32{1}
	}
	half := int(math.Ceil(sigma * 3))
	k := make([]float32, 2*half+1)
	twoSigmaSq := 2 * sigma * sigma
	var sum float64
	for i := range k {
		x := float64(i - half)
		v := math.Exp(-x * x / twoSigmaSq)
		k[i] = float32(v)
		sum += v
	}
	inv := float32(1 / sum)
	for i := range k {
		k[i] *= inv
	}
	return k
}

var tempPool = sync.Pool{New: func() any { return new([]float32) }}

// blurRGBA blurs the premultiplied pixels of img in place with separate
// horizontal and vertical standard deviations. Pixels outside img count as
// transparent.
func blurRGBA(img *image.RGBA, sigmaX, sigmaY float64) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 || (sigmaX <= 0 && sigmaY <= 0) {
		return
	}

	bufp := tempPool.Get().(*[]float32)
	defer tempPool.Put(bufp)
	n := w * h * 4
	if cap(*bufp) < 2*n {
		*bufp = make([]float32, 2*n)
	}
	src, tmp := (*bufp)[:n], (*bufp)[n:2*n]
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for i, v := range row {
			src[y*w*4+i] = float32(v)
		}
	}

	convolve(src, tmp, w, h, gaussianKernel(sigmaX), 4, w*4)
	convolve(tmp, src, h, w, gaussianKernel(sigmaY), w*4, 4)

	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for i := range row {
			v := src[y*w*4+i]
			switch {
			case v <= 0:
				row[i] = 0
			case v >= 255:
				row[i] = 255
			default:
				row[i] = uint8(v + 0.5)
			}
		}
	}
}

// convolve runs a 1D kernel along lines of length samples. step is the
// distance between neighbouring samples on a line, lineStep the distance
// between lines.
func convolve(src, dst []float32, length, lines int, k []float32, step, lineStep int) {
	half := len(k) / 2
	for line := 0; line < lines; line++ {
		base := line * lineStep
		for i := 0; i < length; i++ {
			var r, g, b, a float32
			for j, kv := range k {
				p := i + j - half
				if p < 0 || p >= length {
					continue
				}
				o := base + p*step
				r += src[o] * kv
				g += src[o+1] * kv
				b += src[o+2] * kv
				a += src[o+3] * kv
			}
			o := base + i*step
			dst[o], dst[o+1], dst[o+2], dst[o+3] = r, g, b, a
		}
	}
}
