package water

import (
	"bytes"
	"embed"
	"fmt"
	"strconv"
	"text/template"

	"github.com/go-gl/mathgl/mgl32"
)

//go:embed shaders/*.glsl
var shaderFiles embed.FS

// ShaderModule is one named chunk of GLSL text.
type ShaderModule struct {
	Name   string
	Source string
}

// HeightField displaces the reconstructed plane in the vertex stage.
// Declarations is spliced before main, Displacement inside it where
// worldPosition is in scope.
type HeightField struct {
	Name         string
	Declarations string
	Displacement string
}

// FlatHeightField leaves the plane untouched.
var FlatHeightField *HeightField

var GerstnerHeightField = mustHeightField(HeightFieldGerstner, "gerstner_pars_vertex", "gerstner_vertex")

// HeightFieldFor maps a config name to its chunk.
func HeightFieldFor(name string) (*HeightField, error) {
	switch name {
	case HeightFieldFlat, "":
		return FlatHeightField, nil
	case HeightFieldGerstner:
		return GerstnerHeightField, nil
	}
	return nil, fmt.Errorf("%w: unknown height field %q", ErrInvalidConfig, name)
}

type shadingConstants struct {
	NormalMapScale   float32
	SpecularPower    float32
	SpecularScale    float32
	DistortionScale  float32
	DistortionMask   mgl32.Vec3
	DistanceFalloff  float32
	DistanceRange    float32
	MinDistanceRatio float32
	SkyBase          float32
	SkyScale         float32
	WaterAmbient     float32
}

type programData struct {
	Plane       ScreenPlane
	HeightField *HeightField
	Shading     shadingConstants
	MaxWaves    int
}

var shaderTemplates = template.Must(template.New("water").Funcs(template.FuncMap{
	"glslFloat": glslFloat,
	"glslVec3":  glslVec3,
}).ParseFS(shaderFiles, "shaders/*.glsl"))

// glslFloat always prints a decimal point so GLSL reads a float literal.
func glslFloat(v float32) string {
	s := strconv.FormatFloat(float64(v), 'f', -1, 32)
	for _, c := range s {
		if c == '.' {
			return s
		}
	}
	return s + ".0"
}

func glslVec3(v mgl32.Vec3) string {
	return fmt.Sprintf("vec3(%s, %s, %s)", glslFloat(v[0]), glslFloat(v[1]), glslFloat(v[2]))
}

func mustHeightField(name, declarations, displacement string) *HeightField {
	data := programData{MaxWaves: MaxWaves}
	decl, err := executeChunk(declarations, data)
	if err != nil {
		panic(err)
	}
	disp, err := executeChunk(displacement, data)
	if err != nil {
		panic(err)
	}
	return &HeightField{Name: name, Declarations: decl, Displacement: disp}
}

func executeChunk(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := shaderTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("shader chunk %s: %w", name, err)
	}
	return buf.String(), nil
}

// ScreenPlaneModule returns the reconstruction chunk for params, the GLSL
// twin of ReconstructPosition.
func ScreenPlaneModule(params ScreenPlane) (ShaderModule, error) {
	src, err := executeChunk("screenplane_pars_vertex", params)
	if err != nil {
		return ShaderModule{}, err
	}
	return ShaderModule{Name: "screenplane_pars_vertex", Source: src}, nil
}

// BuildProgram assembles the ocean vertex and fragment sources. A nil
// height field builds the variant without displacement. Sources are NUL
// terminated for gl.Strs.
func BuildProgram(params ScreenPlane, hf *HeightField) (vertex, fragment string, err error) {
	data := programData{
		Plane:       params,
		HeightField: hf,
		MaxWaves:    MaxWaves,
		Shading: shadingConstants{
			NormalMapScale:   normalMapScale,
			SpecularPower:    specularPower,
			SpecularScale:    specularScale,
			DistortionScale:  distortionScale,
			DistortionMask:   distortionMask,
			DistanceFalloff:  distanceFalloff,
			DistanceRange:    1 - minDistanceRatio,
			MinDistanceRatio: minDistanceRatio,
			SkyBase:          skyBase,
			SkyScale:         skyScale,
			WaterAmbient:     waterAmbientFactor,
		},
	}

	vertex, err = executeChunk("ocean_vertex", data)
	if err != nil {
		return "", "", err
	}
	fragment, err = executeChunk("ocean_fragment", data)
	if err != nil {
		return "", "", err
	}
	return vertex + "\x00", fragment + "\x00", nil
}
