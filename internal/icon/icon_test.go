// SPDX-License-Identifier: AGPL-3.0-or-later
package icon

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBoundsAndPalette(t *testing.T) {
	img := Generate(64)
	require.Equal(t, 64, img.Rect.Dx())
	require.Equal(t, 64, img.Rect.Dy())

	// Top-left corner is the gradient start color.
	corner := img.NRGBAAt(0, 0)
	assert.EqualValues(t, 26, corner.R)
	assert.EqualValues(t, 26, corner.G)
	assert.EqualValues(t, 46, corner.B)
	assert.EqualValues(t, 255, corner.A)

	// The orb center carries the phoenix fire color.
	center := img.NRGBAAt(32, 32)
	assert.EqualValues(t, 255, center.R)
	assert.EqualValues(t, 200, center.G)
	assert.EqualValues(t, 100, center.B)
}

func TestGenerateOrbRimKeepsStraightAlpha(t *testing.T) {
	img := Generate(64)

	// At the orb rim the fire color is fully transparent but must keep its
	// straight RGB so the fade survives PNG encoding.
	orbSize := 64 / 3
	rim := img.NRGBAAt(32+orbSize, 32)
	assert.EqualValues(t, 255, rim.R)
	assert.EqualValues(t, 200, rim.G)
	assert.EqualValues(t, 100, rim.B)
	assert.EqualValues(t, 0, rim.A)
}

func TestGenerateDefaultSize(t *testing.T) {
	img := Generate(0)
	assert.Equal(t, DefaultSize, img.Rect.Dx())
}

func TestWritePNGRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icon.png")
	require.NoError(t, WritePNG(path, Generate(32)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	decoded, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 32, decoded.Bounds().Dx())
}
