package water

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ScreenPlane parameterises the projection of a screen-aligned grid onto
// the ground plane.
type ScreenPlane struct {
	// Infinite caps the distance of reconstructed points from the origin.
	Infinite float32
	// ScreenScale widens the grid past the screen edges.
	ScreenScale float32
	Normal      mgl32.Vec3
	Height      float32
}

func DefaultScreenPlane() ScreenPlane {
	return ScreenPlane{
		Infinite:    150000,
		ScreenScale: 1.2,
		Normal:      mgl32.Vec3{0, 1, 0},
		Height:      0,
	}
}

// CameraPosition recovers the eye from a view matrix: -Rᵀt.
func CameraPosition(view mgl32.Mat4) mgl32.Vec3 {
	rotation := view.Mat3()
	translation := mgl32.Vec3{view[12], view[13], view[14]}
	return rotation.Transpose().Mul3x1(translation).Mul(-1)
}

// ReconstructPosition casts the ray through grid coordinate uv (0..1) and
// returns where it meets the plane, along with the eye position. A camera
// below the plane collapses every vertex to the origin. Rays that miss the
// plane are pushed to the horizon.
func ReconstructPosition(view, proj mgl32.Mat4, uv mgl32.Vec2, params ScreenPlane) (mgl32.Vec3, mgl32.Vec3) {
	rotation := view.Mat3()
	eye := CameraPosition(view)

	if eye.Y() < params.Height {
		return mgl32.Vec3{}, eye
	}

	// proj[0] is the focal term, proj[5] the focal term over aspect.
	imagePlane := mgl32.Vec2{
		(uv.X() - 0.5) * params.ScreenScale * proj[5],
		(uv.Y() - 0.5) * params.ScreenScale * proj[0],
	}
	ray := rotation.Transpose().Mul3x1(mgl32.Vec3{imagePlane.X(), imagePlane.Y(), -proj[0]})

	position := interceptPlane(eye, ray, params)

	if distance := position.Len(); distance > params.Infinite {
		position = position.Mul(params.Infinite / distance)
	}
	return position, eye
}

func interceptPlane(source, dir mgl32.Vec3, params ScreenPlane) mgl32.Vec3 {
	t := (params.Height - params.Normal.Dot(source)) / params.Normal.Dot(dir)
	if t >= 0 {
		return source.Add(dir.Mul(t))
	}
	horizon := mgl32.Vec3{dir.X(), 0, dir.Z()}.Mul(params.Infinite)
	return mgl32.Vec3{source.X(), params.Height, source.Z()}.Add(horizon)
}
