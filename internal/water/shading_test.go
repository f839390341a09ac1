package water

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func constant(c mgl32.Vec3) Sampler {
	return SamplerFunc(func(mgl32.Vec2) mgl32.Vec3 { return c })
}

// flatNormal decodes to straight up.
var flatNormal = mgl32.Vec3{0.5, 1, 0.5}

func testMaterial() Material {
	return Material{
		OceanColor:   mgl32.Vec3{0.06, 0.22, 0.45},
		SunDirection: mgl32.Vec3{0.3, 1, 0.5}.Normalize(),
		Exposure:     0.35,
	}
}

func TestDecodeNormal(t *testing.T) {
	assertVecNear(t, mgl32.Vec3{0, 1, 0}, DecodeNormal(flatNormal), 1e-6)
	assertVecNear(t, mgl32.Vec3{-1, -1, -1}, DecodeNormal(mgl32.Vec3{}), 1e-6)
}

func TestToneMapBounds(t *testing.T) {
	assert.Equal(t, mgl32.Vec3{}, ToneMap(mgl32.Vec3{}, 1))

	out := ToneMap(mgl32.Vec3{0.5, 5, 20}, 0.35)
	for i, c := range out {
		assert.GreaterOrEqual(t, c, float32(0), "channel %d", i)
		assert.Less(t, c, float32(1), "channel %d", i)
	}
	assert.Less(t, out[0], out[1])
	assert.Less(t, out[1], out[2])

	// float32 rounds 1 - exp(-x) to exactly 1 from about x = 17.
	bright := ToneMap(mgl32.Vec3{50, 500, 1e6}, 0.35)
	for i, c := range bright {
		assert.LessOrEqual(t, c, float32(1), "channel %d", i)
		assert.InDelta(t, 1, c, 1e-6, "channel %d", i)
	}
}

func TestDistanceRatio(t *testing.T) {
	assert.InDelta(t, 1, DistanceRatio(1), 1e-6)
	assert.InDelta(t, minDistanceRatio, DistanceRatio(1e9), 1e-3)

	near, far := DistanceRatio(2000), DistanceRatio(20000)
	assert.Greater(t, near, far)
	assert.Greater(t, far, float32(minDistanceRatio))
}

func TestShadeWithoutReflectionIsAmbientWater(t *testing.T) {
	m := testMaterial()
	in := FragmentInput{
		WorldPosition:      mgl32.Vec3{0, 0, 0},
		CameraPosition:     mgl32.Vec3{0, 10, 0},
		ReflectCoordinates: mgl32.Vec4{0.5, 0.5, 0, 1},
		NormalMap:          constant(flatNormal),
		Reflection:         constant(mgl32.Vec3{}),
	}

	// Looking straight down at a flat normal: no fresnel, so only the
	// ambient water term survives a black reflection.
	expected := ToneMap(m.OceanColor.Mul(waterAmbientFactor), m.Exposure)
	assertVecNear(t, expected, Shade(in, m), 1e-5)
}

func TestShadeBrightReflectionStaysInRange(t *testing.T) {
	m := testMaterial()
	dark := FragmentInput{
		WorldPosition:      mgl32.Vec3{100, 0, 40},
		CameraPosition:     mgl32.Vec3{0, 20, 0},
		ReflectCoordinates: mgl32.Vec4{0.4, 0.6, 0.2, 1},
		NormalMap:          constant(mgl32.Vec3{0.55, 0.9, 0.45}),
		Reflection:         constant(mgl32.Vec3{}),
	}
	bright := dark
	bright.Reflection = constant(mgl32.Vec3{1, 1, 1})

	darkColor := Shade(dark, m)
	brightColor := Shade(bright, m)
	for i := range brightColor {
		assert.Less(t, brightColor[i], float32(1))
		assert.GreaterOrEqual(t, brightColor[i], float32(0))
		assert.Greater(t, brightColor[i], darkColor[i])
	}
}

func TestShadeSamplesReflectionProjectively(t *testing.T) {
	var sampled []mgl32.Vec2
	in := FragmentInput{
		WorldPosition:      mgl32.Vec3{500, 0, -250},
		CameraPosition:     mgl32.Vec3{0, 10, 0},
		ReflectCoordinates: mgl32.Vec4{2, 1, 3, 4},
		NormalMap:          constant(flatNormal),
		Reflection: SamplerFunc(func(uv mgl32.Vec2) mgl32.Vec3 {
			sampled = append(sampled, uv)
			return mgl32.Vec3{}
		}),
	}
	Shade(in, testMaterial())

	// A flat normal has no x or z component, so there is no distortion.
	if assert.Len(t, sampled, 1) {
		assert.InDelta(t, 0.5, sampled[0].X(), 1e-6)
		assert.InDelta(t, 0.25, sampled[0].Y(), 1e-6)
	}
}

func TestShadeDistortsAlongNormal(t *testing.T) {
	var sampled mgl32.Vec2
	in := FragmentInput{
		CameraPosition:     mgl32.Vec3{0, 10, 0},
		ReflectCoordinates: mgl32.Vec4{0, 0, 0, 1000},
		// Decodes to (0.5, 0, 0).
		NormalMap: constant(mgl32.Vec3{0.75, 0.5, 0.5}),
		Reflection: SamplerFunc(func(uv mgl32.Vec2) mgl32.Vec3 {
			sampled = uv
			return mgl32.Vec3{}
		}),
	}
	Shade(in, testMaterial())

	assert.InDelta(t, distortionScale*0.5/1000, sampled.X(), 1e-5)
	assert.InDelta(t, 0, sampled.Y(), 1e-6)
}

func TestImageSamplerWrapsAndReadsRows(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{G: 255, A: 255})
	img.SetRGBA(0, 1, color.RGBA{B: 255, A: 255})
	s := ImageSampler{Image: img}

	assertVecNear(t, mgl32.Vec3{1, 0, 0}, s.Sample(mgl32.Vec2{0.1, 0.1}), 1e-6)
	assertVecNear(t, mgl32.Vec3{0, 1, 0}, s.Sample(mgl32.Vec2{0.9, 0.1}), 1e-6)
	assertVecNear(t, mgl32.Vec3{0, 0, 1}, s.Sample(mgl32.Vec2{0.1, 0.9}), 1e-6)
	// Repeat wrapping.
	assertVecNear(t, mgl32.Vec3{1, 0, 0}, s.Sample(mgl32.Vec2{1.1, -0.9}), 1e-6)
}
