package mirror

import (
	"OceanMirror/internal/renderer"
	"errors"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-3

func newViewer(position, target mgl32.Vec3) *renderer.Camera {
	return renderer.NewLookAtCamera(position, target, mgl32.Vec3{0, 1, 0}, 45, 16.0/9.0, 0.1, 1000)
}

func assertVecNear(t *testing.T, expected, actual mgl32.Vec3) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, expected[i], actual[i], tolerance, "component %d of %v", i, actual)
	}
}

func project(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	clip := m.Mul4x1(p.Vec4(1))
	return clip.Vec3().Mul(1 / clip.W())
}

func TestTrackPlaneHorizontalSurface(t *testing.T) {
	viewer := newViewer(mgl32.Vec3{0, 5, 10}, mgl32.Vec3{})
	surface := NewSurfacePose(mgl32.Vec3{0, 2, 0})

	plane, point := TrackPlane(surface, viewer)

	assertVecNear(t, mgl32.Vec3{0, 1, 0}, plane.Normal)
	assert.InDelta(t, -2, plane.Distance, tolerance)
	assert.Equal(t, surface.Position, point)
}

func TestTrackPlaneZeroRotationIsIdentity(t *testing.T) {
	viewer := newViewer(mgl32.Vec3{0, 5, 10}, mgl32.Vec3{})
	plane, _ := TrackPlane(SurfacePose{}, viewer)
	assertVecNear(t, mgl32.Vec3{0, 1, 0}, plane.Normal)
}

func TestTrackPlaneRotatedSurface(t *testing.T) {
	surface := SurfacePose{Rotation: mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{1, 0, 0})}

	front := newViewer(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{})
	plane, _ := TrackPlane(surface, front)
	assertVecNear(t, mgl32.Vec3{0, 0, 1}, plane.Normal)

	// From behind the normal faces away; the forward-axis reflection keeps it.
	behind := newViewer(mgl32.Vec3{0, 0, -10}, mgl32.Vec3{})
	plane, _ = TrackPlane(surface, behind)
	assertVecNear(t, mgl32.Vec3{0, 0, 1}, plane.Normal)
	assert.InDelta(t, 1, plane.Normal.Len(), tolerance)
}

func TestSolveReflectionAcrossGround(t *testing.T) {
	viewer := newViewer(mgl32.Vec3{0, 5, 10}, mgl32.Vec3{})
	plane, point := TrackPlane(NewSurfacePose(mgl32.Vec3{}), viewer)

	mirror := SolveReflection(viewer, plane, point)

	assertVecNear(t, mgl32.Vec3{0, -5, 10}, mirror.Position)
	// The mirror camera looks at the reflected target, which is the origin again.
	toOrigin := mgl32.Vec3{}.Sub(mirror.Position).Normalize()
	assertVecNear(t, toOrigin, mirror.Front)
	assert.Equal(t, viewer.Fov, mirror.Fov)
	assert.Equal(t, viewer.AspectRatio, mirror.AspectRatio)
	assert.Equal(t, viewer.Near, mirror.Near)
	assert.Equal(t, viewer.Far, mirror.Far)
	assert.Equal(t, viewer.Projection, mirror.Projection)
}

func TestSolveReflectionDoesNotTouchViewer(t *testing.T) {
	viewer := newViewer(mgl32.Vec3{3, 4, 5}, mgl32.Vec3{1, 0, -2})
	before := *viewer
	plane, point := TrackPlane(NewSurfacePose(mgl32.Vec3{}), viewer)

	SolveReflection(viewer, plane, point)
	assert.Equal(t, before, *viewer)
}

func TestReflectedUpStaysOrthogonal(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	randomVec := func(scale float32) mgl32.Vec3 {
		return mgl32.Vec3{
			(rng.Float32()*2 - 1) * scale,
			(rng.Float32()*2 - 1) * scale,
			(rng.Float32()*2 - 1) * scale,
		}
	}

	for i := 0; i < 200; i++ {
		eye := randomVec(50)
		eye[1] = 1 + rng.Float32()*50
		viewer := newViewer(eye, randomVec(20))

		axis := randomVec(1)
		if axis.Len() < 1e-3 {
			continue
		}
		surface := SurfacePose{
			Position: randomVec(5),
			Rotation: mgl32.QuatRotate(rng.Float32()*0.6, axis.Normalize()),
		}

		plane, point := TrackPlane(surface, viewer)
		mirror := SolveReflection(viewer, plane, point)

		look := mirror.Front
		assert.InDelta(t, 0, mirror.Up.Dot(look), tolerance, "iteration %d", i)

		// The raw reflected up, before the camera rebuilds its basis.
		rotation := viewer.Rotation()
		rawUp := renderer.Reflect(rotation.Mul3x1(mgl32.Vec3{0, -1, 0}), plane.Normal).Mul(-1)
		assert.InDelta(t, 0, rawUp.Dot(look), tolerance, "iteration %d", i)
		assert.InDelta(t, 1, rawUp.Dot(mirror.Up), tolerance, "iteration %d", i)
	}
}

func TestTextureMatrixCentersLookTarget(t *testing.T) {
	viewer := newViewer(mgl32.Vec3{0, 5, 10}, mgl32.Vec3{})
	plane, point := TrackPlane(NewSurfacePose(mgl32.Vec3{}), viewer)
	mirror := SolveReflection(viewer, plane, point)

	m := TextureMatrix(mirror.Projection, mirror.GetViewMatrix())

	uv := project(m, mirror.Position.Add(mirror.Front.Mul(12)))
	assert.InDelta(t, 0.5, uv.X(), tolerance)
	assert.InDelta(t, 0.5, uv.Y(), tolerance)

	uv = project(m, mgl32.Vec3{})
	assert.InDelta(t, 0.5, uv.X(), tolerance)
	assert.InDelta(t, 0.5, uv.Y(), tolerance)
}

func TestObliqueNearPlaneCoincidesWithMirror(t *testing.T) {
	viewer := newViewer(mgl32.Vec3{0, 5, 10}, mgl32.Vec3{})
	plane, point := TrackPlane(NewSurfacePose(mgl32.Vec3{}), viewer)
	mirror := SolveReflection(viewer, plane, point)
	view := mirror.GetViewMatrix()

	oblique := ObliqueProjection(mirror.Projection, view, plane, 0)
	viewProjection := oblique.Mul4(view)

	for _, p := range []mgl32.Vec3{point, {3, 0, -2}, {-4, 0, 1}} {
		ndc := project(viewProjection, p)
		assert.InDelta(t, -1, ndc.Z(), tolerance, "coplanar point %v", p)
	}

	below := project(viewProjection, mgl32.Vec3{0, -1, 0})
	assert.Less(t, below.Z(), float32(-1), "points behind the mirror are clipped")

	above := project(viewProjection, mgl32.Vec3{0, 1, 0})
	assert.Greater(t, above.Z(), float32(-1))
}

func TestObliqueProjectionKeepsOtherRows(t *testing.T) {
	viewer := newViewer(mgl32.Vec3{0, 5, 10}, mgl32.Vec3{})
	plane, point := TrackPlane(NewSurfacePose(mgl32.Vec3{}), viewer)
	mirror := SolveReflection(viewer, plane, point)

	proj := mirror.Projection
	before := proj
	oblique := ObliqueProjection(proj, mirror.GetViewMatrix(), plane, 0)

	assert.Equal(t, before, proj, "input projection must not change")
	for _, i := range []int{0, 1, 3, 4, 5, 7, 8, 9, 11, 12, 13, 15} {
		assert.Equal(t, proj[i], oblique[i], "element %d", i)
	}
}

func TestObliqueClipBiasPullsNearPlane(t *testing.T) {
	viewer := newViewer(mgl32.Vec3{0, 5, 10}, mgl32.Vec3{})
	plane, point := TrackPlane(NewSurfacePose(mgl32.Vec3{}), viewer)
	mirror := SolveReflection(viewer, plane, point)
	view := mirror.GetViewMatrix()

	oblique := ObliqueProjection(mirror.Projection, view, plane, 0.1)
	ndc := project(oblique.Mul4(view), point)
	assert.InDelta(t, -0.9, ndc.Z(), tolerance)
}

func TestSign(t *testing.T) {
	assert.Equal(t, float32(1), sign(3))
	assert.Equal(t, float32(-1), sign(-0.5))
	assert.Equal(t, float32(0), sign(0))
}

type renderCall struct {
	scene  *renderer.Scene
	camera renderer.Camera
	target *renderer.RenderTarget
	clear  bool
}

type fakeSceneRenderer struct {
	calls []renderCall
}

func (f *fakeSceneRenderer) RenderTo(scene *renderer.Scene, camera renderer.Camera, target *renderer.RenderTarget, clearFirst bool) {
	f.calls = append(f.calls, renderCall{scene, camera, target, clearFirst})
}

func fakeTargets() (TargetFactory, *[][2]int32) {
	var next uint32
	sizes := [][2]int32{}
	return func(width, height int32) (*renderer.RenderTarget, error) {
		next++
		sizes = append(sizes, [2]int32{width, height})
		return &renderer.RenderTarget{
			FBO:          next,
			ColorTexture: 100 + next,
			Width:        width,
			Height:       height,
			Mipmaps:      renderer.IsPowerOfTwo(width) && renderer.IsPowerOfTwo(height),
		}, nil
	}, &sizes
}

func newTestRenderer(t *testing.T, viewer *renderer.Camera) (*Renderer, *fakeSceneRenderer) {
	t.Helper()
	factory, _ := fakeTargets()
	opts := DefaultOptions()
	opts.NewTarget = factory
	scenes := &fakeSceneRenderer{}
	r, err := NewRenderer(scenes, viewer, opts)
	require.NoError(t, err)
	return r, scenes
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, int32(512), opts.TextureWidth)
	assert.Equal(t, int32(512), opts.TextureHeight)
	assert.Equal(t, float32(0), opts.ClipBias)
}

func TestNewRendererAllocatesTwoEqualTargets(t *testing.T) {
	factory, sizes := fakeTargets()
	opts := Options{TextureWidth: 300, TextureHeight: 200, NewTarget: factory}

	r, err := NewRenderer(&fakeSceneRenderer{}, newViewer(mgl32.Vec3{0, 5, 10}, mgl32.Vec3{}), opts)
	require.NoError(t, err)

	assert.Equal(t, [][2]int32{{300, 200}, {300, 200}}, *sizes)
	assert.NotSame(t, r.Primary(), r.Secondary())
	assert.False(t, r.Primary().Mipmaps, "non power of two disables mipmaps")
	assert.Nil(t, r.Current())
	assert.Zero(t, r.Texture())
}

func TestNewRendererRejectsInvalidSize(t *testing.T) {
	factory, sizes := fakeTargets()
	_, err := NewRenderer(&fakeSceneRenderer{}, newViewer(mgl32.Vec3{0, 5, 10}, mgl32.Vec3{}),
		Options{TextureWidth: 0, TextureHeight: 512, NewTarget: factory})
	assert.ErrorIs(t, err, ErrInvalidTargetSize)
	assert.Empty(t, *sizes)
}

func TestNewRendererPropagatesTargetError(t *testing.T) {
	calls := 0
	failing := func(width, height int32) (*renderer.RenderTarget, error) {
		calls++
		if calls == 2 {
			return nil, renderer.ErrFramebufferIncomplete
		}
		// Zero handles so Destroy has nothing to free.
		return &renderer.RenderTarget{Width: width, Height: height}, nil
	}
	_, err := NewRenderer(&fakeSceneRenderer{}, newViewer(mgl32.Vec3{0, 5, 10}, mgl32.Vec3{}),
		Options{TextureWidth: 64, TextureHeight: 64, NewTarget: failing})
	require.Error(t, err)
	assert.True(t, errors.Is(err, renderer.ErrFramebufferIncomplete))
}

func TestCaptureSelectsTargetAndClears(t *testing.T) {
	viewer := newViewer(mgl32.Vec3{0, 5, 10}, mgl32.Vec3{})
	r, scenes := newTestRenderer(t, viewer)
	scene := &renderer.Scene{}
	frame := r.Update(NewSurfacePose(mgl32.Vec3{}))

	written := r.Capture(scene, frame.Camera, false)
	assert.Same(t, r.Primary(), written)
	assert.Same(t, r.Primary(), r.Current())
	assert.Equal(t, r.Primary().ColorTexture, r.Texture())

	written = r.Capture(scene, frame.Camera, true)
	assert.Same(t, r.Secondary(), written)
	assert.Equal(t, r.Secondary().ColorTexture, r.Texture())

	require.Len(t, scenes.calls, 2)
	for _, call := range scenes.calls {
		assert.True(t, call.clear, "capture always clears")
		assert.Same(t, scene, call.scene)
		assert.Equal(t, frame.Camera, call.camera)
	}
	assert.Same(t, r.Primary(), scenes.calls[0].target)
	assert.Same(t, r.Secondary(), scenes.calls[1].target)
}

func TestUpdateBuildsObliqueFrame(t *testing.T) {
	viewer := newViewer(mgl32.Vec3{0, 5, 10}, mgl32.Vec3{})
	r, _ := newTestRenderer(t, viewer)

	frame := r.Update(NewSurfacePose(mgl32.Vec3{}))

	assertVecNear(t, mgl32.Vec3{0, -5, 10}, frame.Camera.Position)
	assert.Equal(t, viewer.Position, frame.Eye)
	assert.NotEqual(t, viewer.Projection, frame.Camera.Projection)

	standard := mgl32.Perspective(mgl32.DegToRad(viewer.Fov), viewer.AspectRatio, viewer.Near, viewer.Far)
	assert.Equal(t, TextureMatrix(standard, frame.Camera.GetViewMatrix()), frame.TextureMatrix)

	ndc := project(frame.Camera.GetViewProjection(), frame.Point)
	assert.InDelta(t, -1, ndc.Z(), tolerance)
	assert.Equal(t, frame, r.Frame())
}

func TestUpdateIsIdempotent(t *testing.T) {
	viewer := newViewer(mgl32.Vec3{7, 12, -3}, mgl32.Vec3{1, 0, 4})
	r, _ := newTestRenderer(t, viewer)
	surface := SurfacePose{
		Position: mgl32.Vec3{0, 1, 0},
		Rotation: mgl32.QuatRotate(0.2, mgl32.Vec3{1, 0, 1}.Normalize()),
	}

	first := r.Update(surface)
	second := r.Update(surface)
	assert.Equal(t, first, second)
}

func TestRenderUpdatesThenCaptures(t *testing.T) {
	viewer := newViewer(mgl32.Vec3{0, 5, 10}, mgl32.Vec3{})
	r, scenes := newTestRenderer(t, viewer)

	frame := r.Render(&renderer.Scene{}, NewSurfacePose(mgl32.Vec3{}), true)

	require.Len(t, scenes.calls, 1)
	assert.Equal(t, frame.Camera, scenes.calls[0].camera)
	assert.Same(t, r.Secondary(), r.Current())
}

func TestClipBiasOption(t *testing.T) {
	viewer := newViewer(mgl32.Vec3{0, 5, 10}, mgl32.Vec3{})
	r, _ := newTestRenderer(t, viewer)
	r.SetClipBias(0.1)

	frame := r.Update(NewSurfacePose(mgl32.Vec3{}))
	ndc := project(frame.Camera.GetViewProjection(), frame.Point)
	assert.InDelta(t, -0.9, ndc.Z(), tolerance)
}

func TestViewerOnPlaneDoesNotPanic(t *testing.T) {
	viewer := newViewer(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, 0})
	r, _ := newTestRenderer(t, viewer)
	assert.NotPanics(t, func() {
		r.Update(NewSurfacePose(mgl32.Vec3{}))
	})
}
