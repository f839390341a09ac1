package water

import (
	"OceanMirror/internal/renderer"
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Shading constants shared by Shade and the ocean fragment chunk.
const (
	normalMapScale     = 0.002
	specularPower      = 500.0
	specularScale      = 20.0
	distortionScale    = 200.0
	distanceFalloff    = 3000.0
	minDistanceRatio   = 0.3
	skyBase            = 0.2
	skyScale           = 10.0
	waterAmbientFactor = 0.5
)

var distortionMask = mgl32.Vec3{1.0, 0.0, 0.1}

// Material holds the user-tunable water uniforms.
type Material struct {
	OceanColor   mgl32.Vec3
	SunDirection mgl32.Vec3 // unit, pointing toward the sun
	Exposure     float32
}

// Sampler is a 2D texture lookup with repeating coordinates.
type Sampler interface {
	Sample(uv mgl32.Vec2) mgl32.Vec3
}

// SamplerFunc adapts a function to Sampler.
type SamplerFunc func(uv mgl32.Vec2) mgl32.Vec3

func (f SamplerFunc) Sample(uv mgl32.Vec2) mgl32.Vec3 {
	return f(uv)
}

// ImageSampler reads an image with nearest filtering and repeat wrapping.
// Channels come back in [0,1].
type ImageSampler struct {
	Image image.Image
}

func (s ImageSampler) Sample(uv mgl32.Vec2) mgl32.Vec3 {
	b := s.Image.Bounds()
	x := wrap(uv.X(), b.Dx()) + b.Min.X
	// Row 0 sits at v = 0, as TexImage2D uploads it.
	y := wrap(uv.Y(), b.Dy()) + b.Min.Y
	r, g, bl, _ := s.Image.At(x, y).RGBA()
	return mgl32.Vec3{float32(r) / 0xffff, float32(g) / 0xffff, float32(bl) / 0xffff}
}

func wrap(coord float32, size int) int {
	f := float64(coord) - math.Floor(float64(coord))
	i := int(f * float64(size))
	if i >= size {
		i = size - 1
	}
	return i
}

// FragmentInput is what the ocean fragment stage receives per pixel.
type FragmentInput struct {
	WorldPosition      mgl32.Vec3
	CameraPosition     mgl32.Vec3
	ReflectCoordinates mgl32.Vec4 // texture matrix times world position
	NormalMap          Sampler
	Reflection         Sampler
}

// DecodeNormal maps an 8 bit normal map texel from [0,1] to [-1,1].
func DecodeNormal(rgb mgl32.Vec3) mgl32.Vec3 {
	return rgb.Mul(2).Sub(mgl32.Vec3{1, 1, 1})
}

// ToneMap is the exponential exposure curve 1 - exp(-color * exposure).
func ToneMap(color mgl32.Vec3, exposure float32) mgl32.Vec3 {
	var out mgl32.Vec3
	for i := range color {
		out[i] = 1 - float32(math.Exp(float64(-color[i]*exposure)))
	}
	return out
}

// DistanceRatio is the weight kept by the sampled normal at distance from
// the camera. Far fragments lean toward a flat +Y normal.
func DistanceRatio(distance float32) float32 {
	ratio := math.Min(1, math.Log(distanceFalloff/float64(distance)+1))
	ratio *= ratio
	return float32(ratio*(1-minDistanceRatio) + minDistanceRatio)
}

// Shade is the ocean fragment stage evaluated on the CPU.
func Shade(in FragmentInput, m Material) mgl32.Vec3 {
	uv := mgl32.Vec2{in.WorldPosition.X(), in.WorldPosition.Z()}.Mul(normalMapScale)
	normal := DecodeNormal(in.NormalMap.Sample(uv))
	toCamera := in.CameraPosition.Sub(in.WorldPosition)
	view := toCamera.Normalize()

	sunReflection := renderer.Reflect(m.SunDirection.Mul(-1), normal).Normalize()
	specular := float32(math.Pow(math.Max(0, float64(view.Dot(sunReflection))), specularPower)) * specularScale

	distortion := normal.Mul(distortionScale)
	distortion = mgl32.Vec3{distortion[0] * distortionMask[0], distortion[1] * distortionMask[1], distortion[2] * distortionMask[2]}
	coords := in.ReflectCoordinates.Vec3().Add(distortion)
	reflectionUV := mgl32.Vec2{coords.X(), coords.Y()}.Mul(1 / in.ReflectCoordinates.W())
	reflection := in.Reflection.Sample(reflectionUV)

	ratio := DistanceRatio(toCamera.Len())
	normal = normal.Mul(ratio).Add(mgl32.Vec3{0, 1 - ratio, 0}).Mul(0.5).Normalize()

	fresnel := 1 - normal.Dot(view)
	fresnel *= fresnel

	sky := (fresnel + skyBase) * skyScale
	water := m.OceanColor.Mul(1 - fresnel)

	color := mgl32.Vec3{
		(sky + specular + water[0]) * reflection[0],
		(sky + specular + water[1]) * reflection[1],
		(sky + specular + water[2]) * reflection[2],
	}.Add(water.Mul(waterAmbientFactor))

	return ToneMap(color, m.Exposure)
}
