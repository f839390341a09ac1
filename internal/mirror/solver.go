package mirror

import (
	"OceanMirror/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

// SolveReflection returns the viewer mirrored across plane. point must lie on
// the plane. The result keeps the viewer's lens (fov, aspect, near, far) and
// carries a standard perspective projection.
//
// A viewer exactly on the plane yields a degenerate pose; nothing guards it.
func SolveReflection(viewer *renderer.Camera, plane renderer.Plane, point mgl32.Vec3) renderer.Camera {
	normal := plane.Normal
	rotation := viewer.Rotation()
	eye := viewer.Position

	position := mirrorPoint(eye, point, normal)

	lookAt := eye.Add(rotation.Mul3x1(mgl32.Vec3{0, 0, -1}))
	target := mirrorPoint(lookAt, point, normal)

	up := renderer.Reflect(rotation.Mul3x1(mgl32.Vec3{0, -1, 0}), normal).Mul(-1)

	mirror := *viewer
	mirror.Name = "mirror"
	mirror.IsActive = false
	mirror.Position = position
	mirror.SetOrientation(target.Sub(position), up)
	mirror.UpdateProjection()
	return mirror
}

// mirrorPoint reflects p across the plane through point with unit normal.
func mirrorPoint(p, point, normal mgl32.Vec3) mgl32.Vec3 {
	view := point.Sub(p)
	return renderer.Reflect(view, normal).Mul(-1).Add(point)
}
