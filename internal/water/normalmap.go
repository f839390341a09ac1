package water

import (
	"OceanMirror/internal/logger"
	"image"
	"image/color"
	"runtime"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const (
	perlinAlpha  = 2.0
	perlinBeta   = 2.0
	perlinOctave = 3
)

// BakeNormalMap bakes a tileable ripple normal map from Perlin noise. The
// same config always yields the same image. Texels store n*0.5+0.5 with
// x in red, world up in green and z in blue.
func BakeNormalMap(cfg NormalMapConfig) *image.RGBA {
	start := time.Now()
	size := cfg.Size
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	noise := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctave, cfg.Seed)
	heights := make([]float64, size*size)
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	pool := pond.NewPool(workers)
	defer pool.StopAndWait()

	rows := pool.NewGroup()
	for y := 0; y < size; y++ {
		rows.Submit(func() {
			for x := 0; x < size; x++ {
				heights[y*size+x] = tileableNoise(noise, float64(x)/float64(size), float64(y)/float64(size), cfg.Scale)
			}
		})
	}
	rows.Wait()

	normals := pool.NewGroup()
	for y := 0; y < size; y++ {
		normals.Submit(func() {
			for x := 0; x < size; x++ {
				img.SetRGBA(x, y, encodeNormal(heightNormal(heights, size, x, y, cfg.Strength)))
			}
		})
	}
	normals.Wait()

	logger.Log.Debug("Normal map baked",
		zap.Int("size", size),
		zap.Int64("seed", cfg.Seed),
		zap.Int("workers", workers),
		zap.Duration("took", time.Since(start)))
	return img
}

// tileableNoise blends four shifted noise samples so the result repeats
// over the unit square. period is the noise frequency across one tile.
func tileableNoise(noise *perlin.Perlin, u, v, period float64) float64 {
	x, y := u*period, v*period
	a := noise.Noise2D(x, y)
	b := noise.Noise2D(x-period, y)
	c := noise.Noise2D(x, y-period)
	d := noise.Noise2D(x-period, y-period)
	return a*(1-u)*(1-v) + b*u*(1-v) + c*(1-u)*v + d*u*v
}

func heightNormal(heights []float64, size, x, y int, strength float64) mgl32.Vec3 {
	at := func(i, j int) float64 {
		i = (i + size) % size
		j = (j + size) % size
		return heights[j*size+i]
	}
	dx := (at(x+1, y) - at(x-1, y)) * 0.5 * strength
	dz := (at(x, y+1) - at(x, y-1)) * 0.5 * strength
	return mgl32.Vec3{float32(-dx), 1, float32(-dz)}.Normalize()
}

func encodeNormal(n mgl32.Vec3) color.RGBA {
	channel := func(v float32) uint8 {
		c := (v*0.5 + 0.5) * 255
		if c < 0 {
			c = 0
		} else if c > 255 {
			c = 255
		}
		return uint8(c + 0.5)
	}
	return color.RGBA{R: channel(n[0]), G: channel(n[1]), B: channel(n[2]), A: 255}
}
