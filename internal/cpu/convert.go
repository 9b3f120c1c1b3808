package cpu

import (
	"image"
	"math"

	"github.com/gogpu/gsk/geom"
)

// 8-bit transfer function tables, indexed by the encoded value.
var (
	srgbToLinear8 [256]uint8
	linearToSRGB8 [256]uint8
)

func init() {
	for i := range 256 {
		v := float64(i) / 255
		var l, s float64
		if v <= 0.04045 {
			l = v / 12.92
		} else {
			l = math.Pow((v+0.055)/1.055, 2.4)
		}
		if v <= 0.0031308 {
			s = v * 12.92
		} else {
			s = 1.055*math.Pow(v, 1/2.4) - 0.055
		}
		srgbToLinear8[i] = uint8(math.Round(l * 255))
		linearToSRGB8[i] = uint8(math.Round(s * 255))
	}
}

// ConvertImage re-encodes the premultiplied pixels of img from one color
// state to another in place.
func ConvertImage(img *image.RGBA, from, to geom.ColorState) {
	var lut *[256]uint8
	switch {
	case from == to:
		return
	case from == geom.ColorStateSRGB && to == geom.ColorStateSRGBLinear:
		lut = &srgbToLinear8
	case from == geom.ColorStateSRGBLinear && to == geom.ColorStateSRGB:
		lut = &linearToSRGB8
	default:
		return
	}
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		for i := 0; i+3 < len(row); i += 4 {
			a := row[i+3]
			switch a {
			case 0:
				continue
			case 0xff:
				row[i], row[i+1], row[i+2] = lut[row[i]], lut[row[i+1]], lut[row[i+2]]
			default:
				for c := 0; c < 3; c++ {
					straight := min(255, (int(row[i+c])*255+int(a)/2)/int(a))
					row[i+c] = uint8((int(lut[straight])*int(a) + 127) / 255)
				}
			}
		}
	}
}
