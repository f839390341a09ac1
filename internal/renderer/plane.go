package renderer

import "github.com/go-gl/mathgl/mgl32"

// Plane is the set of points p with Normal·p + Distance = 0.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

type Frustum struct {
	Planes [6]Plane
}

// NewPlaneFromNormalAndPoint expects a unit normal.
func NewPlaneFromNormalAndPoint(normal, point mgl32.Vec3) Plane {
	return Plane{
		Normal:   normal,
		Distance: -point.Dot(normal),
	}
}

func (p *Plane) DistanceToPoint(point mgl32.Vec3) float32 {
	return p.Normal.Dot(point) + p.Distance
}

// CoplanarPoint is the point of the plane closest to the origin.
func (p Plane) CoplanarPoint() mgl32.Vec3 {
	return p.Normal.Mul(-p.Distance)
}

// Vec4 packs the plane as (a, b, c, d).
func (p Plane) Vec4() mgl32.Vec4 {
	return p.Normal.Vec4(p.Distance)
}

// Transform maps the plane through an affine matrix. The normal goes through
// the inverse transpose so non-uniform scale keeps it perpendicular.
func (p Plane) Transform(m mgl32.Mat4) Plane {
	point := m.Mul4x1(p.CoplanarPoint().Vec4(1)).Vec3()
	normalMatrix := m.Mat3().Inv().Transpose()
	normal := normalMatrix.Mul3x1(p.Normal).Normalize()
	return NewPlaneFromNormalAndPoint(normal, point)
}

// Reflect mirrors v across the plane through the origin with unit normal n.
func Reflect(v, n mgl32.Vec3) mgl32.Vec3 {
	return v.Sub(n.Mul(2 * v.Dot(n)))
}

// FrustumFromMatrix extracts the six clip planes of a view-projection matrix.
func FrustumFromMatrix(vp mgl32.Mat4) Frustum {
	var frustum Frustum

	// Left Plane
	frustum.Planes[0] = Plane{
		Normal:   mgl32.Vec3{vp[3] + vp[0], vp[7] + vp[4], vp[11] + vp[8]},
		Distance: vp[15] + vp[12],
	}

	// Right Plane
	frustum.Planes[1] = Plane{
		Normal:   mgl32.Vec3{vp[3] - vp[0], vp[7] - vp[4], vp[11] - vp[8]},
		Distance: vp[15] - vp[12],
	}

	// Bottom Plane
	frustum.Planes[2] = Plane{
		Normal:   mgl32.Vec3{vp[3] + vp[1], vp[7] + vp[5], vp[11] + vp[9]},
		Distance: vp[15] + vp[13],
	}

	// Top Plane
	frustum.Planes[3] = Plane{
		Normal:   mgl32.Vec3{vp[3] - vp[1], vp[7] - vp[5], vp[11] - vp[9]},
		Distance: vp[15] - vp[13],
	}

	// Near Plane
	frustum.Planes[4] = Plane{
		Normal:   mgl32.Vec3{vp[3] + vp[2], vp[7] + vp[6], vp[11] + vp[10]},
		Distance: vp[15] + vp[14],
	}

	// Far Plane
	frustum.Planes[5] = Plane{
		Normal:   mgl32.Vec3{vp[3] - vp[2], vp[7] - vp[6], vp[11] - vp[10]},
		Distance: vp[15] - vp[14],
	}

	for i := 0; i < 6; i++ {
		length := frustum.Planes[i].Normal.Len()
		frustum.Planes[i].Normal = frustum.Planes[i].Normal.Mul(1.0 / length)
		frustum.Planes[i].Distance /= length
	}

	return frustum
}

func (f *Frustum) IntersectsSphere(center mgl32.Vec3, radius float32) bool {
	for _, plane := range f.Planes {
		if plane.DistanceToPoint(center) < -radius {
			return false
		}
	}
	return true
}
