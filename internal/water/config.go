package water

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

const (
	// MaxWaves is the maximum number of Gerstner waves
	MaxWaves = 4

	HeightFieldFlat     = "flat"
	HeightFieldGerstner = "gerstner"
)

var ErrInvalidConfig = errors.New("invalid ocean config")

// Config is the ocean and mirror setup. It loads from YAML; JSON files work
// too since JSON is a YAML subset.
type Config struct {
	TextureWidth  int32   `yaml:"texture_width"`
	TextureHeight int32   `yaml:"texture_height"`
	ClipBias      float32 `yaml:"clip_bias"`
	// DoubleBuffer alternates captures between the two reflection targets.
	DoubleBuffer bool `yaml:"double_buffer"`

	OceanColor   [3]float32 `yaml:"ocean_color"`
	SunDirection [3]float32 `yaml:"sun_direction"`
	Exposure     float32    `yaml:"exposure"`

	NormalMap   NormalMapConfig   `yaml:"normal_map"`
	ScreenPlane ScreenPlaneConfig `yaml:"screen_plane"`
	HeightField string            `yaml:"height_field"`
	Waves       []WaveConfig      `yaml:"waves"`
}

type NormalMapConfig struct {
	// Path loads the map from an image instead of baking it.
	Path     string  `yaml:"path"`
	Size     int     `yaml:"size"`
	Seed     int64   `yaml:"seed"`
	Scale    float64 `yaml:"scale"`
	Strength float64 `yaml:"strength"`
	Workers  int     `yaml:"workers"`
}

type ScreenPlaneConfig struct {
	Resolution  int     `yaml:"resolution"`
	Infinite    float32 `yaml:"infinite"`
	ScreenScale float32 `yaml:"screen_scale"`
	Height      float32 `yaml:"height"`
}

type WaveConfig struct {
	Direction [2]float32 `yaml:"direction"` // xz
	Amplitude float32    `yaml:"amplitude"`
	Frequency float32    `yaml:"frequency"`
	// Speed is the angular speed. Zero means deep water dispersion sqrt(g*k).
	Speed     float32 `yaml:"speed"`
	Steepness float32 `yaml:"steepness"`
}

func DefaultConfig() Config {
	return Config{
		TextureWidth:  512,
		TextureHeight: 512,
		ClipBias:      0,
		DoubleBuffer:  true,
		OceanColor:    [3]float32{0.06, 0.22, 0.45},
		SunDirection:  [3]float32(mgl32.Vec3{0.3, 1.0, 0.5}.Normalize()),
		Exposure:      0.35,
		NormalMap: NormalMapConfig{
			Size:     256,
			Seed:     1,
			Scale:    8,
			Strength: 4,
		},
		ScreenPlane: ScreenPlaneConfig{
			Resolution:  256,
			Infinite:    150000,
			ScreenScale: 1.2,
			Height:      0,
		},
		HeightField: HeightFieldGerstner,
		Waves:       DefaultWaves(2.0),
	}
}

// DefaultWaves spreads MaxWaves waves 45 degrees apart, long swell first.
func DefaultWaves(baseAmplitude float32) []WaveConfig {
	amplitudes := [MaxWaves]float32{1.2, 0.8, 0.6, 0.4}
	frequencies := [MaxWaves]float32{0.008, 0.015, 0.04, 0.08}

	waves := make([]WaveConfig, MaxWaves)
	for i := range waves {
		angle := float64(i) * 45.0
		dir := mgl32.Vec2{
			float32(cosDeg(angle)),
			float32(sinDeg(angle)),
		}
		waves[i] = WaveConfig{
			Direction: [2]float32(dir.Normalize()),
			Amplitude: baseAmplitude * amplitudes[i],
			Frequency: frequencies[i],
			Steepness: 0.2 + float32(i)*0.1,
		}
	}
	return waves
}

// LoadConfig reads path over the defaults and validates the result.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes data over DefaultConfig. Keys left out keep their
// default value.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field and normalises the sun direction and wave
// directions in place. All problems are reported together.
func (c *Config) Validate() error {
	var err error
	if c.TextureWidth <= 0 || c.TextureHeight <= 0 {
		err = multierr.Append(err, fmt.Errorf("texture size %dx%d must be positive", c.TextureWidth, c.TextureHeight))
	}
	if c.Exposure <= 0 {
		err = multierr.Append(err, fmt.Errorf("exposure %v must be positive", c.Exposure))
	}

	sun := mgl32.Vec3(c.SunDirection)
	if sun.Len() < 1e-6 {
		err = multierr.Append(err, errors.New("sun direction must not be zero"))
	} else {
		c.SunDirection = [3]float32(sun.Normalize())
	}

	if c.NormalMap.Path == "" && c.NormalMap.Size <= 0 {
		err = multierr.Append(err, fmt.Errorf("normal map size %d must be positive", c.NormalMap.Size))
	}
	if c.NormalMap.Workers < 0 {
		err = multierr.Append(err, fmt.Errorf("normal map workers %d must not be negative", c.NormalMap.Workers))
	}
	if c.ScreenPlane.Resolution < 2 {
		err = multierr.Append(err, fmt.Errorf("screen plane resolution %d must be at least 2", c.ScreenPlane.Resolution))
	}
	if c.ScreenPlane.Infinite <= 0 {
		err = multierr.Append(err, fmt.Errorf("screen plane infinite distance %v must be positive", c.ScreenPlane.Infinite))
	}
	if c.ScreenPlane.ScreenScale <= 0 {
		err = multierr.Append(err, fmt.Errorf("screen scale %v must be positive", c.ScreenPlane.ScreenScale))
	}

	switch c.HeightField {
	case "":
		c.HeightField = HeightFieldFlat
	case HeightFieldFlat, HeightFieldGerstner:
	default:
		err = multierr.Append(err, fmt.Errorf("unknown height field %q", c.HeightField))
	}

	if len(c.Waves) > MaxWaves {
		err = multierr.Append(err, fmt.Errorf("%d waves configured, at most %d supported", len(c.Waves), MaxWaves))
	}
	for i := range c.Waves {
		dir := mgl32.Vec2(c.Waves[i].Direction)
		if dir.Len() < 1e-6 {
			err = multierr.Append(err, fmt.Errorf("wave %d has no direction", i))
			continue
		}
		c.Waves[i].Direction = [2]float32(dir.Normalize())
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) OceanColorVec() mgl32.Vec3 {
	return mgl32.Vec3(c.OceanColor)
}

func (c Config) SunDirectionVec() mgl32.Vec3 {
	return mgl32.Vec3(c.SunDirection)
}

// Material returns the shading parameters of the config.
func (c Config) Material() Material {
	return Material{
		OceanColor:   c.OceanColorVec(),
		SunDirection: c.SunDirectionVec(),
		Exposure:     c.Exposure,
	}
}

// Plane returns the screen plane reconstruction parameters.
func (c Config) Plane() ScreenPlane {
	return ScreenPlane{
		Infinite:    c.ScreenPlane.Infinite,
		ScreenScale: c.ScreenPlane.ScreenScale,
		Normal:      mgl32.Vec3{0, 1, 0},
		Height:      c.ScreenPlane.Height,
	}
}
