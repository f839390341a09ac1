package mirror

import (
	"OceanMirror/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

// ObliqueProjection replaces the near plane of proj with plane, given in
// world space and moved into camera space by view. The far plane keeps the
// same orientation relative to the new near plane. clipBias pulls the near
// plane toward the camera to hide self clipping from rounding.
//
// proj is not modified. A clip plane that makes dot(c, q) zero is not
// guarded and produces Inf/NaN entries.
func ObliqueProjection(proj, view mgl32.Mat4, plane renderer.Plane, clipBias float32) mgl32.Mat4 {
	clipPlane := plane.Transform(view).Vec4()

	// Clip-space corner opposite the clip plane, brought back into camera space.
	q := mgl32.Vec4{
		(sign(clipPlane.X()) + proj[8]) / proj[0],
		(sign(clipPlane.Y()) + proj[9]) / proj[5],
		-1,
		(1 + proj[10]) / proj[14],
	}

	c := clipPlane.Mul(2 / clipPlane.Dot(q))

	oblique := proj
	oblique[2] = c.X()
	oblique[6] = c.Y()
	oblique[10] = c.Z() + 1 - clipBias
	oblique[14] = c.W()
	return oblique
}

func sign(v float32) float32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
