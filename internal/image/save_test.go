package image

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddSuffix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.png", "photo_bc.png"},
		{"/tmp/scan.jpeg", "/tmp/scan_bc.jpeg"},
		{"photo_bc.png", "photo_bc.png"},
		{"dir.v2/photo.tif", "dir.v2/photo_bc.tif"},
		{"noext", "noext_bc"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, AddSuffix(tt.in), "AddSuffix(%q)", tt.in)
	}
}

// testImage builds a small gradient with enough color variety to make
// encode/decode problems visible.
func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: uint8((x + y) * 255 / (w + h)),
				A: 0xff,
			})
		}
	}
	return img
}

func TestSaveLoadPNGRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	src := testImage(64, 48)

	require.NoError(t, Save(path, src, Meta{}, 80))

	got, meta, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Meta{}, meta)
	require.Equal(t, 64, got.Bounds().Dx())
	require.Equal(t, 48, got.Bounds().Dy())

	r, g, b, _ := got.At(10, 20).RGBA()
	wr, wg, wb, _ := src.At(10, 20).RGBA()
	require.Equal(t, wr, r)
	require.Equal(t, wg, g)
	require.Equal(t, wb, b)
}

func TestSaveJPEGRecordsQuality(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")

	require.NoError(t, Save(path, testImage(32, 32), Meta{JPEGQuality: 60}, 80))

	_, meta, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 60, meta.JPEGQuality)
}

func TestSaveJPEGFallbackQuality(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")

	require.NoError(t, Save(path, testImage(32, 32), Meta{}, 75))

	_, meta, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 75, meta.JPEGQuality)
}

func TestSaveTIFFRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tiff")

	require.NoError(t, Save(path, testImage(40, 30), Meta{TIFFCompression: 5}, 80))

	got, meta, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 40, got.Bounds().Dx())
	require.Equal(t, 30, got.Bounds().Dy())
	// Deflate output reports the deflate scheme on reload.
	require.EqualValues(t, 8, meta.TIFFCompression)
}

func TestSaveTIFFFaxBecomesBilevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fax.tif")

	require.NoError(t, Save(path, testImage(20, 20), Meta{TIFFCompression: TIFFCompressionGroup4}, 80))

	got, _, err := Load(path)
	require.NoError(t, err)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			r, g, b, _ := got.At(x, y).RGBA()
			black := r == 0 && g == 0 && b == 0
			white := r == 0xffff && g == 0xffff && b == 0xffff
			require.True(t, black || white, "pixel (%d,%d) is not bilevel", x, y)
		}
	}
}

func TestSaveBMP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bmp")

	require.NoError(t, Save(path, testImage(16, 16), Meta{}, 80))

	got, _, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 16, got.Bounds().Dx())
}

func TestSaveUnsupportedFormat(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "out.gif"), testImage(8, 8), Meta{}, 80)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported image format")
}
