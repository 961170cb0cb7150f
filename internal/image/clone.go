package image

import (
	"image"
	"image/color"
	"image/draw"
)

// Clone returns a deep copy of img. The common concrete types keep their
// pixel layout so a restored snapshot encodes identically to the original;
// anything else is redrawn into NRGBA.
func Clone(img image.Image) image.Image {
	switch src := img.(type) {
	case *image.RGBA:
		cp := *src
		cp.Pix = append([]uint8(nil), src.Pix...)
		return &cp
	case *image.NRGBA:
		cp := *src
		cp.Pix = append([]uint8(nil), src.Pix...)
		return &cp
	case *image.Gray:
		cp := *src
		cp.Pix = append([]uint8(nil), src.Pix...)
		return &cp
	case *image.Paletted:
		cp := *src
		cp.Pix = append([]uint8(nil), src.Pix...)
		cp.Palette = append(color.Palette(nil), src.Palette...)
		return &cp
	default:
		bounds := img.Bounds()
		cp := image.NewNRGBA(bounds)
		draw.Draw(cp, bounds, img, bounds.Min, draw.Src)
		return cp
	}
}
