// Package mirror computes planar reflections: it tracks the reflective
// plane, mirrors the viewer across it, clips the mirror camera obliquely at
// the plane and builds the matrix that projects its image back onto the
// surface.
package mirror

import (
	"OceanMirror/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	surfaceUp      = mgl32.Vec3{0, 1, 0}
	surfaceForward = mgl32.Vec3{0, 0, 1}
)

// SurfacePose is the world transform of the reflective surface for the
// current frame.
type SurfacePose struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// NewSurfacePose returns an unrotated surface at position.
func NewSurfacePose(position mgl32.Vec3) SurfacePose {
	return SurfacePose{Position: position, Rotation: mgl32.QuatIdent()}
}

func (s SurfacePose) rotation() mgl32.Quat {
	if s.Rotation == (mgl32.Quat{}) {
		return mgl32.QuatIdent()
	}
	return s.Rotation.Normalize()
}

// TrackPlane derives the world-space mirror plane of the surface and its
// coplanar point. The normal is the surface's local up axis. When it faces
// away from the viewer's local +Z axis it is reflected across the surface's
// local forward axis.
//
// Up and forward stay orthogonal under any rotation, so the reflection
// leaves the normal unchanged.
func TrackPlane(surface SurfacePose, viewer *renderer.Camera) (renderer.Plane, mgl32.Vec3) {
	rotation := surface.rotation()
	normal := rotation.Rotate(surfaceUp)

	lookAxis := viewer.Rotation().Col(2)
	if normal.Dot(lookAxis) < 0 {
		normal = renderer.Reflect(normal, rotation.Rotate(surfaceForward))
	}

	point := surface.Position
	return renderer.NewPlaneFromNormalAndPoint(normal.Normalize(), point), point
}
