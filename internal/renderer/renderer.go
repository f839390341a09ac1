package renderer

import (
	"image"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

type LightType int

var FaceCullingEnabled bool = false
var FrustumCullingEnabled bool = false
var Debug bool = false
var DepthTestEnabled bool = true

const (
	STATIC_LIGHT LightType = iota
	DYNAMIC_LIGHT
)

type Light struct {
	Position        mgl32.Vec3
	Direction       mgl32.Vec3
	Color           mgl32.Vec3
	Intensity       float32
	AmbientStrength float32
	Type            LightType
	Mode            string // "directional", "point"
}

// Scene is what a render pass draws: the models, the light and the clear colour.
type Scene struct {
	Models     []*Model
	Light      *Light
	ClearColor mgl32.Vec3
}

func (s *Scene) Add(model *Model) {
	s.Models = append(s.Models, model)
}

func (s *Scene) Remove(model *Model) {
	for i, m := range s.Models {
		if m == model {
			s.Models = append(s.Models[:i], s.Models[i+1:]...)
			return
		}
	}
}

// Excluding returns a shallow copy of the scene without the given models.
// The reflective surface uses it so it never draws into its own reflection.
func (s *Scene) Excluding(models ...*Model) *Scene {
	filtered := &Scene{Light: s.Light, ClearColor: s.ClearColor}
	for _, m := range s.Models {
		skip := false
		for _, excluded := range models {
			if m == excluded {
				skip = true
				break
			}
		}
		if !skip {
			filtered.Models = append(filtered.Models, m)
		}
	}
	return filtered
}

// SceneRenderer draws a scene from a camera into an offscreen target.
// A nil target means the default framebuffer.
type SceneRenderer interface {
	RenderTo(scene *Scene, camera Camera, target *RenderTarget, clearFirst bool)
}

type Render interface {
	SceneRenderer
	Init(width, height int32, window *glfw.Window) error
	Render(camera Camera)
	Scene() *Scene
	AddModel(model *Model)
	RemoveModel(model *Model)
	CreateTextureFromImage(img image.Image) (uint32, error)
	LoadTexture(path string) (uint32, error)
	UpdateViewport(width, height int32)
	Cleanup()
}
