package loader

import (
	"OceanMirror/internal/logger"
	"OceanMirror/internal/renderer"
	"errors"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// LoadScreenPlane builds a resolution x resolution grid of screen
// coordinates. Positions are placeholders; the ocean vertex stage projects
// each uv onto the water plane, so only the uv attribute matters.
func LoadScreenPlane(resolution int) (*renderer.Model, error) {
	if resolution < 2 {
		return nil, errors.New("resolution must be at least 2")
	}

	vertices := make([]mgl32.Vec3, 0, resolution*resolution)
	uvs := make([]mgl32.Vec2, 0, resolution*resolution)
	step := 1.0 / float32(resolution-1)

	for y := 0; y < resolution; y++ {
		for x := 0; x < resolution; x++ {
			u := float32(x) * step
			v := float32(y) * step
			vertices = append(vertices, mgl32.Vec3{u, 0, v})
			uvs = append(uvs, mgl32.Vec2{u, v})
		}
	}

	model := renderer.CreateModelWithAttributes(vertices, uvs, nil, gridIndices(resolution))
	model.Name = "Screen Plane"
	// Vertices move in the shader, bounds on the CPU side are meaningless.
	model.SkipCulling = true

	logger.Log.Info("Screen plane created",
		zap.Int("vertices", len(vertices)),
		zap.Int("triangles", len(model.Faces)/3),
		zap.Int("resolution", resolution))
	return model, nil
}

// LoadPlane builds a flat gridSize x gridSize grid on y = 0 centred on the
// origin.
func LoadPlane(gridSize int, gridSpacing float32) (*renderer.Model, error) {
	if gridSize < 2 {
		return nil, errors.New("gridSize must be at least 2")
	}

	half := float32(gridSize-1) * gridSpacing * 0.5
	vertices := make([]mgl32.Vec3, 0, gridSize*gridSize)
	uvs := make([]mgl32.Vec2, 0, gridSize*gridSize)
	for z := 0; z < gridSize; z++ {
		for x := 0; x < gridSize; x++ {
			vertices = append(vertices, mgl32.Vec3{
				float32(x)*gridSpacing - half,
				0,
				float32(z)*gridSpacing - half,
			})
			uvs = append(uvs, mgl32.Vec2{
				float32(x) / float32(gridSize-1),
				float32(z) / float32(gridSize-1),
			})
		}
	}

	model := renderer.CreateModelWithAttributes(vertices, uvs, nil, gridIndices(gridSize))
	model.Name = "Plane"
	model.CalculateBoundingSphere()
	return model, nil
}

// gridIndices triangulates a row-major size x size vertex grid with
// counter-clockwise winding seen from +Y.
func gridIndices(size int) []int32 {
	indices := make([]int32, 0, (size-1)*(size-1)*6)
	for row := 0; row < size-1; row++ {
		for col := 0; col < size-1; col++ {
			topLeft := int32(row*size + col)
			topRight := topLeft + 1
			bottomLeft := int32((row+1)*size + col)
			bottomRight := bottomLeft + 1

			indices = append(indices, topLeft, bottomLeft, bottomRight, topLeft, bottomRight, topRight)
		}
	}
	return indices
}

var boxFaces = [6]struct {
	normal, u, v mgl32.Vec3
}{
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
}

// LoadBox builds an axis aligned box with flat normals, four vertices per
// face.
func LoadBox(size mgl32.Vec3) (*renderer.Model, error) {
	if size.X() <= 0 || size.Y() <= 0 || size.Z() <= 0 {
		return nil, errors.New("box size must be positive")
	}

	half := size.Mul(0.5)
	scale := func(v mgl32.Vec3) mgl32.Vec3 {
		return mgl32.Vec3{v[0] * half[0], v[1] * half[1], v[2] * half[2]}
	}

	vertices := make([]mgl32.Vec3, 0, 24)
	uvs := make([]mgl32.Vec2, 0, 24)
	normals := make([]mgl32.Vec3, 0, 24)
	indices := make([]int32, 0, 36)

	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, face := range boxFaces {
		base := int32(len(vertices))
		for _, c := range corners {
			p := face.normal.Add(face.u.Mul(c[0])).Add(face.v.Mul(c[1]))
			vertices = append(vertices, scale(p))
			uvs = append(uvs, mgl32.Vec2{(c[0] + 1) * 0.5, (c[1] + 1) * 0.5})
			normals = append(normals, face.normal)
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	model := renderer.CreateModelWithAttributes(vertices, uvs, normals, indices)
	model.Name = "Box"
	model.CalculateBoundingSphere()
	return model, nil
}
