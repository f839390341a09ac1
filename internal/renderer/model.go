package renderer

import (
	"OceanMirror/internal/logger"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultMaterial provides a basic material to fall back on
var DefaultMaterial = &Material{
	Name:          "default",
	DiffuseColor:  [3]float32{1.0, 1.0, 1.0},
	SpecularColor: [3]float32{1.0, 1.0, 1.0},
	Shininess:     32.0,
	Exposure:      1.0,
}

type Model struct {
	// HOT DATA - Accessed every frame in render loop
	ModelMatrix mgl32.Mat4
	Position    mgl32.Vec3
	Scale       mgl32.Vec3
	Rotation    mgl32.Quat
	Material    *Material
	VAO         uint32
	VBO         uint32
	EBO         uint32
	IsDirty     bool

	// MEDIUM DATA - Conditional/periodic access
	BoundingSphereCenter mgl32.Vec3
	BoundingSphereRadius float32
	// SkipCulling keeps models whose shader moves vertices (the screen
	// space ocean) out of CPU frustum tests.
	SkipCulling    bool
	Shader         Shader
	CustomUniforms map[string]interface{}
	Metadata       map[string]interface{}

	// COLD DATA - Initialization only
	Id              int
	Name            string
	Vertices        []float32
	Faces           []int32
	InterleavedData []float32 // position(3) uv(2) normal(3)
}

type Material struct {
	DiffuseColor  [3]float32
	SpecularColor [3]float32
	Shininess     float32
	Exposure      float32
	TextureID     uint32
	Name          string
}

func (m *Model) X() float32 {
	return m.Position[0]
}

func (m *Model) Y() float32 {
	return m.Position[1]
}

func (m *Model) Z() float32 {
	return m.Position[2]
}

func (m *Model) Rotate(angleX, angleY, angleZ float32) {
	if m.Rotation == (mgl32.Quat{}) {
		m.Rotation = mgl32.QuatIdent()
	}
	rotationX := mgl32.QuatRotate(mgl32.DegToRad(angleX), mgl32.Vec3{1, 0, 0})
	rotationY := mgl32.QuatRotate(mgl32.DegToRad(angleY), mgl32.Vec3{0, 1, 0})
	rotationZ := mgl32.QuatRotate(mgl32.DegToRad(angleZ), mgl32.Vec3{0, 0, 1})
	m.Rotation = m.Rotation.Mul(rotationX).Mul(rotationY).Mul(rotationZ)
	m.updateModelMatrix()
}

func (m *Model) SetPosition(x, y, z float32) {
	m.Position = mgl32.Vec3{x, y, z}
	m.updateModelMatrix()
}

func (m *Model) SetScale(x, y, z float32) {
	m.Scale = mgl32.Vec3{x, y, z}
	m.updateModelMatrix()
}

func (m *Model) SetRotation(rotation mgl32.Quat) {
	m.Rotation = rotation
	m.updateModelMatrix()
}

func (m *Model) CalculateBoundingSphere() {
	numVertices := len(m.Vertices) / 3
	if numVertices == 0 {
		return
	}

	var center mgl32.Vec3
	for i := 0; i < numVertices; i++ {
		vertex := mgl32.Vec3{m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]}
		center = center.Add(ApplyModelTransformation(vertex, m.Position, m.Scale, m.Rotation))
	}
	center = center.Mul(1.0 / float32(numVertices))

	var maxDistanceSq float32
	for i := 0; i < numVertices; i++ {
		vertex := mgl32.Vec3{m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]}
		distanceSq := ApplyModelTransformation(vertex, m.Position, m.Scale, m.Rotation).Sub(center).LenSqr()
		if distanceSq > maxDistanceSq {
			maxDistanceSq = distanceSq
		}
	}

	m.BoundingSphereCenter = center
	m.BoundingSphereRadius = float32(math.Sqrt(float64(maxDistanceSq)))
}

func (m *Model) rotation() mgl32.Quat {
	if m.Rotation == (mgl32.Quat{}) {
		return mgl32.QuatIdent()
	}
	return m.Rotation
}

func (m *Model) updateModelMatrix() {
	// ModelMatrix = translation * rotation * scale (TRS order)
	scaleMatrix := mgl32.Scale3D(m.Scale[0], m.Scale[1], m.Scale[2])
	rotationMatrix := m.rotation().Mat4()
	translationMatrix := mgl32.Translate3D(m.Position[0], m.Position[1], m.Position[2])
	m.ModelMatrix = translationMatrix.Mul4(rotationMatrix).Mul4(scaleMatrix)
	m.IsDirty = false

	if !m.SkipCulling {
		m.CalculateBoundingSphere()
	}
}

func ApplyModelTransformation(vertex, position, scale mgl32.Vec3, rotation mgl32.Quat) mgl32.Vec3 {
	if rotation == (mgl32.Quat{}) {
		rotation = mgl32.QuatIdent()
	}
	scaledVertex := mgl32.Vec3{vertex[0] * scale[0], vertex[1] * scale[1], vertex[2] * scale[2]}
	return rotation.Rotate(scaledVertex).Add(position)
}

// ensureMaterial gives the model its own material instead of the shared default
func (m *Model) ensureMaterial() {
	if m.Material == nil || m.Material == DefaultMaterial {
		copied := *DefaultMaterial
		m.Material = &copied
		logger.Log.Debug("Creating unique material copy")
	}
}

func (m *Model) SetDiffuseColor(r, g, b float32) {
	m.ensureMaterial()
	m.Material.DiffuseColor = [3]float32{r, g, b}
}

func (m *Model) SetSpecularColor(r, g, b float32) {
	m.ensureMaterial()
	m.Material.SpecularColor = [3]float32{r, g, b}
}

func (m *Model) SetExposure(exposure float32) {
	m.ensureMaterial()
	m.Material.Exposure = exposure
}

// SetUniform stores a value uploaded before every draw of this model.
func (m *Model) SetUniform(name string, value interface{}) {
	if m.CustomUniforms == nil {
		m.CustomUniforms = make(map[string]interface{})
	}
	m.CustomUniforms[name] = value
}

func CreateModel(vertices []mgl32.Vec3, indices []int32) *Model {
	return CreateModelWithAttributes(vertices, nil, nil, indices)
}

// CreateModelWithAttributes interleaves position, uv and normal. Missing uvs
// default to zero and missing normals to +Y.
func CreateModelWithAttributes(vertices []mgl32.Vec3, uvs []mgl32.Vec2, normals []mgl32.Vec3, indices []int32) *Model {
	interleavedData := make([]float32, 0, len(vertices)*8)

	for i, v := range vertices {
		interleavedData = append(interleavedData, v.X(), v.Y(), v.Z())

		if i < len(uvs) {
			interleavedData = append(interleavedData, uvs[i].X(), uvs[i].Y())
		} else {
			interleavedData = append(interleavedData, 0.0, 0.0)
		}

		if i < len(normals) {
			interleavedData = append(interleavedData, normals[i].X(), normals[i].Y(), normals[i].Z())
		} else {
			interleavedData = append(interleavedData, 0.0, 1.0, 0.0)
		}
	}

	model := &Model{
		Position:        mgl32.Vec3{0, 0, 0},
		Rotation:        mgl32.QuatIdent(),
		Scale:           mgl32.Vec3{1.0, 1.0, 1.0},
		Vertices:        flattenVertices(vertices),
		Faces:           indices,
		InterleavedData: interleavedData,
	}
	model.updateModelMatrix()
	return model
}

func flattenVertices(vertices []mgl32.Vec3) []float32 {
	flat := make([]float32, 0, len(vertices)*3)
	for _, v := range vertices {
		flat = append(flat, v.X(), v.Y(), v.Z())
	}
	return flat
}
