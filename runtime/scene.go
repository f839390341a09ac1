package main

import (
	"OceanMirror/internal/behaviour"
	"OceanMirror/internal/loader"
	"OceanMirror/internal/logger"
	"OceanMirror/internal/renderer"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	mgl "github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var ErrInvalidScene = errors.New("invalid scene")

// SceneData is the YAML description of what stands around the ocean.
type SceneData struct {
	Camera     *SceneCamera `yaml:"camera"`
	ClearColor *[3]float32  `yaml:"clear_color"`
	Lights     []SceneLight `yaml:"lights"`
	Models     []SceneModel `yaml:"models"`
}

type SceneCamera struct {
	Position    [3]float32 `yaml:"position"`
	Yaw         float32    `yaml:"yaw"`
	Pitch       float32    `yaml:"pitch"`
	Speed       float32    `yaml:"speed"`
	FOV         float32    `yaml:"fov"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	InvertMouse bool       `yaml:"invert_mouse"`
}

type SceneLight struct {
	Name            string     `yaml:"name"`
	Mode            string     `yaml:"mode"` // directional or point
	Position        [3]float32 `yaml:"position"`
	Direction       [3]float32 `yaml:"direction"`
	Color           [3]float32 `yaml:"color"`
	Intensity       float32    `yaml:"intensity"`
	AmbientStrength float32    `yaml:"ambient_strength"`
}

// SceneModel is one prop. Type picks the mesh source: box, plane or obj.
type SceneModel struct {
	Name         string      `yaml:"name"`
	Type         string      `yaml:"type"`
	Path         string      `yaml:"path"`
	Size         [3]float32  `yaml:"size"`
	GridSize     int         `yaml:"grid_size"`
	Spacing      float32     `yaml:"spacing"`
	Position     [3]float32  `yaml:"position"`
	Scale        *[3]float32 `yaml:"scale"`
	Rotation     [3]float32  `yaml:"rotation"`
	DiffuseColor *[3]float32 `yaml:"diffuse_color"`
	Texture      string      `yaml:"texture"`
	Scripts      []string    `yaml:"scripts"`
}

// Prop is a built scene model with the behaviours attached to it.
type Prop struct {
	Model      *renderer.Model
	Texture    string
	Behaviours []behaviour.PlayerBehaviour
}

func LoadScene(path string) (*SceneData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	scene, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scene, nil
}

func ParseScene(data []byte) (*SceneData, error) {
	var scene SceneData
	if err := yaml.Unmarshal(data, &scene); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	var err error
	for i, m := range scene.Models {
		switch m.Type {
		case "box", "plane":
		case "obj":
			if m.Path == "" {
				err = multierr.Append(err, fmt.Errorf("model %d (%s) has type obj and no path", i, m.Name))
			}
		default:
			err = multierr.Append(err, fmt.Errorf("model %d (%s) has unknown type %q", i, m.Name, m.Type))
		}
	}
	for i, l := range scene.Lights {
		if l.Mode != "" && l.Mode != "directional" && l.Mode != "point" {
			err = multierr.Append(err, fmt.Errorf("light %d has unknown mode %q", i, l.Mode))
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	return &scene, nil
}

// DefaultScene is a handful of moving boxes, so the reflection has
// something to show.
func DefaultScene() *SceneData {
	white := [3]float32{0.9, 0.9, 0.9}
	red := [3]float32{0.8, 0.2, 0.15}
	yellow := [3]float32{0.9, 0.75, 0.2}
	sky := [3]float32{0.55, 0.7, 0.85}
	return &SceneData{
		Camera:     &SceneCamera{Position: [3]float32{0, 30, 120}, Yaw: -90, Pitch: -10, Speed: 70, FOV: 45},
		ClearColor: &sky,
		Lights: []SceneLight{{
			Name:            "Sun",
			Mode:            "directional",
			Direction:       [3]float32{-0.3, -1, -0.4},
			Color:           [3]float32{1, 0.95, 0.8},
			Intensity:       1.2,
			AmbientStrength: 0.2,
		}},
		Models: []SceneModel{
			{Name: "Tower", Type: "box", Size: [3]float32{8, 40, 8}, Position: [3]float32{-30, 20, -40}, DiffuseColor: &white, Scripts: []string{"RotateScript"}},
			{Name: "Buoy", Type: "box", Size: [3]float32{4, 4, 4}, Position: [3]float32{10, 3, 0}, DiffuseColor: &red, Scripts: []string{"BounceScript"}},
			{Name: "Boat", Type: "box", Size: [3]float32{12, 4, 5}, Position: [3]float32{0, 3, -20}, DiffuseColor: &yellow, Scripts: []string{"OrbitScript"}},
		},
	}
}

// BuildProps creates every model and its scripts. Paths are resolved
// against dir. Models that fail to build are skipped and reported together.
func (s *SceneData) BuildProps(dir string) ([]Prop, error) {
	var props []Prop
	var errs error
	for _, m := range s.Models {
		model, err := buildModel(m, dir)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("model %s: %w", m.Name, err))
			continue
		}
		prop := Prop{Model: model}
		if m.Texture != "" {
			prop.Texture = resolvePath(m.Texture, dir)
		} else if tex, ok := model.Metadata[loader.MetadataTexture].(string); ok {
			prop.Texture = tex
		}
		for _, name := range m.Scripts {
			script, err := behaviour.CreateScript(name, model)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("model %s: %w (available: %v)", m.Name, err, behaviour.GetAvailableScripts()))
				continue
			}
			prop.Behaviours = append(prop.Behaviours, script)
		}
		props = append(props, prop)
	}
	return props, errs
}

func buildModel(m SceneModel, dir string) (*renderer.Model, error) {
	var model *renderer.Model
	var err error
	switch m.Type {
	case "box":
		size := mgl.Vec3(m.Size)
		if size == (mgl.Vec3{}) {
			size = mgl.Vec3{1, 1, 1}
		}
		model, err = loader.LoadBox(size)
	case "plane":
		gridSize, spacing := m.GridSize, m.Spacing
		if gridSize == 0 {
			gridSize = 2
		}
		if spacing == 0 {
			spacing = 1
		}
		model, err = loader.LoadPlane(gridSize, spacing)
	case "obj":
		model, err = loader.LoadModel(resolvePath(m.Path, dir), true)
	default:
		err = fmt.Errorf("%w: unknown type %q", ErrInvalidScene, m.Type)
	}
	if err != nil {
		return nil, err
	}

	model.Name = m.Name
	model.SetPosition(m.Position[0], m.Position[1], m.Position[2])
	if m.Scale != nil {
		model.SetScale(m.Scale[0], m.Scale[1], m.Scale[2])
	}
	if m.Rotation != ([3]float32{}) {
		model.Rotate(m.Rotation[0], m.Rotation[1], m.Rotation[2])
	}
	if m.DiffuseColor != nil {
		model.SetDiffuseColor(m.DiffuseColor[0], m.DiffuseColor[1], m.DiffuseColor[2])
	}
	return model, nil
}

func resolvePath(path, dir string) string {
	if filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}

func (l SceneLight) build() *renderer.Light {
	var light *renderer.Light
	if l.Mode == "point" {
		light = renderer.CreateLight()
		light.Position = mgl.Vec3(l.Position)
	} else {
		light = renderer.CreateDirectionalLight(mgl.Vec3(l.Direction), mgl.Vec3{1, 1, 1}, 1)
	}
	if l.Color != ([3]float32{}) {
		light.Color = mgl.Vec3(l.Color)
	}
	if l.Intensity > 0 {
		light.Intensity = l.Intensity
	}
	if l.AmbientStrength > 0 {
		light.AmbientStrength = l.AmbientStrength
	}
	return light
}

// applyTo copies the scene camera over cam, keeping defaults for
// fields left at zero.
func (c *SceneCamera) applyTo(cam *renderer.Camera) {
	// Same limit as mouse look, so the camera never faces straight up or down.
	pitch := mgl.Clamp(c.Pitch, -89, 89)
	cam.Position = mgl.Vec3(c.Position)
	cam.Yaw = c.Yaw
	cam.Pitch = pitch
	cam.InvertMouse = c.InvertMouse
	if c.Speed > 0 {
		cam.Speed = c.Speed
	}
	if c.FOV > 0 {
		cam.Fov = c.FOV
	}
	if c.Near > 0 {
		cam.Near = c.Near
	}
	if c.Far > 0 {
		cam.Far = c.Far
	}
	cam.SetOrientation(yawPitchFront(c.Yaw, pitch), mgl.Vec3{0, 1, 0})
	cam.UpdateProjection()
}

func yawPitchFront(yaw, pitch float32) mgl.Vec3 {
	y, p := float64(mgl.DegToRad(yaw)), float64(mgl.DegToRad(pitch))
	return mgl.Vec3{
		float32(math.Cos(y) * math.Cos(p)),
		float32(math.Sin(p)),
		float32(math.Sin(y) * math.Cos(p)),
	}.Normalize()
}

func logSceneErrors(err error) {
	for _, e := range multierr.Errors(err) {
		logger.Log.Warn("Scene entry skipped", zap.Error(e))
	}
}
