package image

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsSupportedFormat(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"photo.jpg", true},
		{"photo.JPEG", true},
		{"scan.tif", true},
		{"scan.tiff", true},
		{"icon.png", true},
		{"icon.bmp", true},
		{"anim.gif", false},
		{"doc.pdf", false},
		{"noext", false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, IsSupportedFormat(tt.path), "IsSupportedFormat(%q)", tt.path)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
}

func TestLoadGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))

	_, _, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to decode image")
}
