package water

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallNormalMap(seed int64, workers int) NormalMapConfig {
	return NormalMapConfig{Size: 32, Seed: seed, Scale: 4, Strength: 4, Workers: workers}
}

func TestBakeNormalMapIsDeterministic(t *testing.T) {
	a := BakeNormalMap(smallNormalMap(7, 1))
	b := BakeNormalMap(smallNormalMap(7, 4))
	c := BakeNormalMap(smallNormalMap(8, 4))

	require.Equal(t, 32, a.Bounds().Dx())
	require.Equal(t, 32, a.Bounds().Dy())
	assert.Equal(t, a.Pix, b.Pix, "worker count must not change the result")
	assert.NotEqual(t, a.Pix, c.Pix)
}

func TestBakeNormalMapEncodesUpwardNormals(t *testing.T) {
	img := BakeNormalMap(smallNormalMap(3, 0))
	varied := false
	first := img.RGBAAt(0, 0)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			c := img.RGBAAt(x, y)
			assert.Equal(t, uint8(255), c.A)
			// Encoded y is above the 0.5 midpoint.
			assert.Greater(t, c.G, uint8(127))
			if c != first {
				varied = true
			}
		}
	}
	assert.True(t, varied, "normal map is flat")
}

func TestEncodeNormal(t *testing.T) {
	c := encodeNormal(DecodeNormal(flatNormal))
	assert.Equal(t, uint8(128), c.R)
	assert.Equal(t, uint8(255), c.G)
	assert.Equal(t, uint8(128), c.B)
}
