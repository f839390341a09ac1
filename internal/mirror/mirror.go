package mirror

import (
	"OceanMirror/internal/logger"
	"OceanMirror/internal/renderer"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var ErrInvalidTargetSize = errors.New("mirror render target size must be positive")

// TargetFactory allocates one offscreen reflection buffer.
type TargetFactory func(width, height int32) (*renderer.RenderTarget, error)

type Options struct {
	TextureWidth  int32
	TextureHeight int32
	ClipBias      float32
	// NewTarget defaults to renderer.NewRenderTarget.
	NewTarget TargetFactory
}

func DefaultOptions() Options {
	return Options{
		TextureWidth:  512,
		TextureHeight: 512,
		ClipBias:      0,
	}
}

// Frame is everything one reflection pass needs. It is a value, so a frame
// that is still being submitted is not affected by the next Update.
type Frame struct {
	Plane         renderer.Plane
	Point         mgl32.Vec3
	Camera        renderer.Camera // mirror camera with the oblique projection
	TextureMatrix mgl32.Mat4
	Eye           mgl32.Vec3
}

// Renderer owns the two reflection buffers and renders the scene into them
// from the mirror camera.
type Renderer struct {
	scenes   renderer.SceneRenderer
	viewer   *renderer.Camera
	clipBias float32

	primary   *renderer.RenderTarget
	secondary *renderer.RenderTarget
	current   *renderer.RenderTarget
	frame     Frame
}

func NewRenderer(scenes renderer.SceneRenderer, viewer *renderer.Camera, opts Options) (*Renderer, error) {
	if opts.TextureWidth <= 0 || opts.TextureHeight <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidTargetSize, opts.TextureWidth, opts.TextureHeight)
	}
	newTarget := opts.NewTarget
	if newTarget == nil {
		newTarget = renderer.NewRenderTarget
	}

	primary, err := newTarget(opts.TextureWidth, opts.TextureHeight)
	if err != nil {
		return nil, fmt.Errorf("primary reflection target: %w", err)
	}
	secondary, err := newTarget(opts.TextureWidth, opts.TextureHeight)
	if err != nil {
		primary.Destroy()
		return nil, fmt.Errorf("secondary reflection target: %w", err)
	}

	logger.Log.Info("Mirror renderer created",
		zap.Int32("width", opts.TextureWidth),
		zap.Int32("height", opts.TextureHeight),
		zap.Float32("clipBias", opts.ClipBias))

	return &Renderer{
		scenes:    scenes,
		viewer:    viewer,
		clipBias:  opts.ClipBias,
		primary:   primary,
		secondary: secondary,
	}, nil
}

// Update recomputes the mirror for the viewer's current pose and the
// surface's current transform. Nothing is carried over from earlier frames.
func (r *Renderer) Update(surface SurfacePose) Frame {
	plane, point := TrackPlane(surface, r.viewer)
	camera := SolveReflection(r.viewer, plane, point)

	view := camera.GetViewMatrix()
	textureMatrix := TextureMatrix(camera.Projection, view)
	camera.Projection = ObliqueProjection(camera.Projection, view, plane, r.clipBias)

	r.frame = Frame{
		Plane:         plane,
		Point:         point,
		Camera:        camera,
		TextureMatrix: textureMatrix,
		Eye:           r.viewer.Position,
	}
	return r.frame
}

// Capture renders scene from camera into the primary or secondary buffer,
// always clearing it first. The written buffer becomes Current.
func (r *Renderer) Capture(scene *renderer.Scene, camera renderer.Camera, useSecondary bool) *renderer.RenderTarget {
	target := r.primary
	if useSecondary {
		target = r.secondary
	}
	r.scenes.RenderTo(scene, camera, target, true)
	r.current = target

	logger.Log.Debug("Reflection captured",
		zap.Bool("secondary", useSecondary),
		zap.Uint32("texture", target.ColorTexture))
	return target
}

// Render runs Update and captures the resulting mirror view.
func (r *Renderer) Render(scene *renderer.Scene, surface SurfacePose, useSecondary bool) Frame {
	frame := r.Update(surface)
	r.Capture(scene, frame.Camera, useSecondary)
	return frame
}

// Current is the buffer written by the last Capture, nil before the first.
func (r *Renderer) Current() *renderer.RenderTarget {
	return r.current
}

// Texture is the colour texture of Current, zero before the first capture.
func (r *Renderer) Texture() uint32 {
	if r.current == nil {
		return 0
	}
	return r.current.ColorTexture
}

func (r *Renderer) Primary() *renderer.RenderTarget {
	return r.primary
}

func (r *Renderer) Secondary() *renderer.RenderTarget {
	return r.secondary
}

// Frame returns the snapshot computed by the last Update.
func (r *Renderer) Frame() Frame {
	return r.frame
}

func (r *Renderer) SetViewer(viewer *renderer.Camera) {
	r.viewer = viewer
}

func (r *Renderer) SetClipBias(clipBias float32) {
	r.clipBias = clipBias
}

func (r *Renderer) Destroy() {
	if r.primary != nil {
		r.primary.Destroy()
	}
	if r.secondary != nil {
		r.secondary.Destroy()
	}
	r.current = nil
	logger.Log.Info("Mirror renderer destroyed")
}
