// Package water renders a reflective ocean: a screen-space grid projected
// onto the water plane, shaded with a planar reflection captured every frame.
package water

import (
	"OceanMirror/internal/loader"
	"OceanMirror/internal/logger"
	"OceanMirror/internal/mirror"
	"OceanMirror/internal/renderer"
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Texture units used by the ocean material. Unit 0 belongs to the
// renderer's default sampler.
const (
	reflectionUnit = 1
	normalMapUnit  = 2
)

var ErrNotInitialised = errors.New("ocean surface not initialised")

// Host is what the surface needs from the engine.
type Host interface {
	GetRenderer() renderer.Render
	GetCamera() *renderer.Camera
}

// Surface is the ocean behaviour. Each Update captures the reflection from
// the mirrored viewer and feeds it to the ocean material.
type Surface struct {
	Config Config
	Pose   mirror.SurfacePose
	Model  *renderer.Model
	Mirror *mirror.Renderer

	// NewTarget overrides reflection buffer allocation.
	NewTarget mirror.TargetFactory

	host        Host
	heightField *HeightField
	normalMap   uint32
	frames      uint64
	startTime   time.Time
}

func NewSurface(host Host, cfg Config) *Surface {
	return &Surface{
		Config: cfg,
		Pose:   mirror.NewSurfacePose(mgl32.Vec3{0, cfg.ScreenPlane.Height, 0}),
		host:   host,
	}
}

// Init builds the shader, the screen grid, the reflection buffers and the
// normal map, and adds the grid to the renderer's scene.
func (s *Surface) Init() error {
	if s.Model != nil {
		return nil
	}
	if err := s.Config.Validate(); err != nil {
		return err
	}
	rend := s.host.GetRenderer()

	shader, hf, err := s.buildShader(s.Config)
	if err != nil {
		return err
	}

	model, err := loader.LoadScreenPlane(s.Config.ScreenPlane.Resolution)
	if err != nil {
		return fmt.Errorf("ocean grid: %w", err)
	}
	model.Name = "Ocean"
	model.Shader = shader
	model.Material = &renderer.Material{Name: "ocean", Exposure: s.Config.Exposure}
	model.SetDiffuseColor(s.Config.OceanColor[0], s.Config.OceanColor[1], s.Config.OceanColor[2])
	model.Metadata = map[string]interface{}{"type": "water"}

	mirrorRenderer, err := mirror.NewRenderer(rend, s.host.GetCamera(), mirror.Options{
		TextureWidth:  s.Config.TextureWidth,
		TextureHeight: s.Config.TextureHeight,
		ClipBias:      s.Config.ClipBias,
		NewTarget:     s.NewTarget,
	})
	if err != nil {
		return err
	}

	normalMap, err := s.loadNormalMap(rend)
	if err != nil {
		mirrorRenderer.Destroy()
		return err
	}

	s.Model = model
	s.Mirror = mirrorRenderer
	s.heightField = hf
	s.normalMap = normalMap
	s.startTime = time.Now()
	s.setUniforms(mirror.Frame{})

	rend.AddModel(model)
	logger.Log.Info("Ocean surface ready",
		zap.String("heightField", s.Config.HeightField),
		zap.Int("resolution", s.Config.ScreenPlane.Resolution),
		zap.Bool("doubleBuffer", s.Config.DoubleBuffer))
	return nil
}

func (s *Surface) buildShader(cfg Config) (renderer.Shader, *HeightField, error) {
	hf, err := HeightFieldFor(cfg.HeightField)
	if err != nil {
		return renderer.Shader{}, nil, err
	}
	vertex, fragment, err := BuildProgram(cfg.Plane(), hf)
	if err != nil {
		return renderer.Shader{}, nil, err
	}
	return renderer.NewShader("ocean", vertex, fragment), hf, nil
}

func (s *Surface) loadNormalMap(rend renderer.Render) (uint32, error) {
	if s.Config.NormalMap.Path != "" {
		id, err := rend.LoadTexture(s.Config.NormalMap.Path)
		if err != nil {
			return 0, fmt.Errorf("normal map: %w", err)
		}
		return id, nil
	}
	id, err := rend.CreateTextureFromImage(BakeNormalMap(s.Config.NormalMap))
	if err != nil {
		return 0, fmt.Errorf("normal map: %w", err)
	}
	return id, nil
}

// Start implements behaviour.PlayerBehaviour.
func (s *Surface) Start() {
	if err := s.Init(); err != nil {
		logger.Log.Error("Ocean surface init failed", zap.Error(err))
	}
}

// Update captures the reflection and refreshes the material uniforms. The
// ocean grid itself is left out of the reflection pass.
func (s *Surface) Update() {
	if s.Mirror == nil {
		return
	}
	s.Mirror.SetViewer(s.host.GetCamera())

	scene := s.host.GetRenderer().Scene().Excluding(s.Model)
	useSecondary := s.Config.DoubleBuffer && s.frames%2 == 1
	frame := s.Mirror.Render(scene, s.Pose, useSecondary)
	s.frames++

	s.setUniforms(frame)
}

func (s *Surface) UpdateFixed() {}

func (s *Surface) setUniforms(frame mirror.Frame) {
	if s.Model.CustomUniforms == nil {
		s.Model.CustomUniforms = make(map[string]interface{})
	}
	u := s.Model.CustomUniforms
	u["u_mirrorMatrix"] = frame.TextureMatrix
	u["u_reflection"] = renderer.Sampler{Unit: reflectionUnit, TextureID: s.Mirror.Texture()}
	u["u_normalMap"] = renderer.Sampler{Unit: normalMapUnit, TextureID: s.normalMap}
	u["u_oceanColor"] = s.Config.OceanColorVec()
	u["u_sunDirection"] = s.Config.SunDirectionVec()
	u["u_exposure"] = s.Config.Exposure

	if s.heightField == nil {
		return
	}
	u["time"] = float32(time.Since(s.startTime).Seconds())
	for name, value := range waveUniforms(s.Config.Waves) {
		u[name] = value
	}
}

// ApplyConfig swaps in a new config at runtime. Material values and clip
// bias apply immediately; changed plane parameters or a new height field
// rebuild the shader. Reflection buffers and the grid keep their size until
// the surface is recreated.
func (s *Surface) ApplyConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if s.Model == nil {
		s.Config = cfg
		s.Pose = mirror.NewSurfacePose(mgl32.Vec3{0, cfg.ScreenPlane.Height, 0})
		return nil
	}
	if cfg.TextureWidth != s.Config.TextureWidth || cfg.TextureHeight != s.Config.TextureHeight {
		logger.Log.Warn("Reflection texture size changes need a restart",
			zap.Int32("width", cfg.TextureWidth),
			zap.Int32("height", cfg.TextureHeight))
	}
	if cfg.NormalMap != s.Config.NormalMap {
		logger.Log.Warn("Normal map changes need a restart")
	}
	if cfg.ScreenPlane.Resolution != s.Config.ScreenPlane.Resolution {
		logger.Log.Warn("Ocean grid resolution changes need a restart",
			zap.Int("resolution", cfg.ScreenPlane.Resolution))
	}

	if cfg.Plane() != s.Config.Plane() || cfg.HeightField != s.Config.HeightField {
		shader, hf, err := s.buildShader(cfg)
		if err != nil {
			return err
		}
		s.Model.Shader.Delete()
		s.Model.Shader = shader
		s.heightField = hf
		logger.Log.Info("Ocean shader rebuilt", zap.String("heightField", cfg.HeightField))
	}

	s.Config = cfg
	s.Pose.Position = mgl32.Vec3{s.Pose.Position.X(), cfg.ScreenPlane.Height, s.Pose.Position.Z()}
	s.Mirror.SetClipBias(cfg.ClipBias)
	s.Model.SetExposure(cfg.Exposure)
	s.Model.SetDiffuseColor(cfg.OceanColor[0], cfg.OceanColor[1], cfg.OceanColor[2])
	s.setUniforms(s.Mirror.Frame())
	return nil
}

// Destroy releases the reflection buffers and removes the grid.
func (s *Surface) Destroy() {
	if s.Mirror != nil {
		s.Mirror.Destroy()
		s.Mirror = nil
	}
	if s.Model != nil {
		s.host.GetRenderer().RemoveModel(s.Model)
		s.Model.Shader.Delete()
		s.Model = nil
	}
}

// Frame returns the last reflection frame.
func (s *Surface) Frame() (mirror.Frame, error) {
	if s.Mirror == nil {
		return mirror.Frame{}, ErrNotInitialised
	}
	return s.Mirror.Frame(), nil
}
