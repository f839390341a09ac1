package water

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, int32(512), cfg.TextureWidth)
	assert.Equal(t, int32(512), cfg.TextureHeight)
	assert.Equal(t, float32(0), cfg.ClipBias)
	assert.InDelta(t, 1, mgl32.Vec3(cfg.SunDirection).Len(), 1e-5)
	assert.Len(t, cfg.Waves, MaxWaves)
	assert.Equal(t, HeightFieldGerstner, cfg.HeightField)
}

func TestParseConfigKeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
exposure: 0.8
clip_bias: 0.05
ocean_color: [0.1, 0.2, 0.3]
screen_plane:
  height: 2
`))
	require.NoError(t, err)

	assert.Equal(t, float32(0.8), cfg.Exposure)
	assert.Equal(t, float32(0.05), cfg.ClipBias)
	assert.Equal(t, [3]float32{0.1, 0.2, 0.3}, cfg.OceanColor)
	assert.Equal(t, float32(2), cfg.ScreenPlane.Height)
	assert.Equal(t, 256, cfg.ScreenPlane.Resolution)
	assert.Equal(t, float32(150000), cfg.ScreenPlane.Infinite)
	assert.Equal(t, int32(512), cfg.TextureWidth)
	assert.Len(t, cfg.Waves, MaxWaves)
}

func TestParseConfigAcceptsJSON(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"texture_width": 256, "height_field": "flat", "waves": []}`))
	require.NoError(t, err)
	assert.Equal(t, int32(256), cfg.TextureWidth)
	assert.Equal(t, HeightFieldFlat, cfg.HeightField)
	assert.Empty(t, cfg.Waves)
}

func TestValidateNormalisesDirections(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SunDirection = [3]float32{0, 4, 0}
	cfg.Waves = []WaveConfig{{Direction: [2]float32{3, 4}, Amplitude: 1, Frequency: 0.1}}
	cfg.HeightField = ""

	require.NoError(t, cfg.Validate())
	assert.Equal(t, [3]float32{0, 1, 0}, cfg.SunDirection)
	assert.InDelta(t, 0.6, cfg.Waves[0].Direction[0], 1e-6)
	assert.InDelta(t, 0.8, cfg.Waves[0].Direction[1], 1e-6)
	assert.Equal(t, HeightFieldFlat, cfg.HeightField)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TextureWidth = 0
	cfg.Exposure = -1
	cfg.SunDirection = [3]float32{}
	cfg.HeightField = "fft"
	cfg.Waves = append(cfg.Waves, WaveConfig{Direction: [2]float32{1, 0}})

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	for _, want := range []string{"texture size", "exposure", "sun direction", "unknown height field", "at most 4"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestParseConfigRejectsBadYAML(t *testing.T) {
	_, err := ParseConfig([]byte("texture_width: [1, 2"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = ParseConfig([]byte("ocean_color: [1, 2]"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ocean.yaml")
	require.NoError(t, os.WriteFile(path, []byte("exposure: 0.5\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), cfg.Exposure)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfigHelpers(t *testing.T) {
	cfg := DefaultConfig()
	m := cfg.Material()
	assert.Equal(t, cfg.OceanColorVec(), m.OceanColor)
	assert.Equal(t, cfg.SunDirectionVec(), m.SunDirection)
	assert.Equal(t, cfg.Exposure, m.Exposure)

	plane := cfg.Plane()
	assert.Equal(t, DefaultScreenPlane(), plane)
}
