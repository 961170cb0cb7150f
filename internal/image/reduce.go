package image

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/ericpauley/go-quantize/quantize"
)

// Reduce quantizes img down to at most 256 colors with median-cut palette
// selection and Floyd-Steinberg dithering. Fully opaque images come back
// paletted; images with transparency keep their original alpha channel on
// top of the quantized colors.
func Reduce(img image.Image) image.Image {
	bounds := img.Bounds()
	if hasTransparency(img) {
		reduced := quantizeDithered(flatten(img))
		out := image.NewNRGBA(bounds)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				c := color.NRGBAModel.Convert(reduced.At(x, y)).(color.NRGBA)
				c.A = color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA).A
				out.SetNRGBA(x, y, c)
			}
		}
		return out
	}
	return quantizeDithered(img)
}

// quantizeDithered builds a median-cut palette for img and dithers it down.
func quantizeDithered(img image.Image) *image.Paletted {
	var q quantize.MedianCutQuantizer
	palette := q.Quantize(make(color.Palette, 0, 256), img)
	out := image.NewPaletted(img.Bounds(), palette)
	draw.FloydSteinberg.Draw(out, img.Bounds(), img, img.Bounds().Min)
	return out
}

// flatten strips the alpha channel so quantization sees the stored colors
// rather than premultiplied ones.
func flatten(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	out := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			c.A = 0xff
			out.SetNRGBA(x, y, c)
		}
	}
	return out
}

func hasTransparency(img image.Image) bool {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a < 0xffff {
				return true
			}
		}
	}
	return false
}
