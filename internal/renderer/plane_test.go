package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestPlaneFromNormalAndPoint(t *testing.T) {
	plane := NewPlaneFromNormalAndPoint(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{7, 3, -2})

	if plane.Distance != -3 {
		t.Errorf("Distance = %f, want -3", plane.Distance)
	}

	if d := plane.DistanceToPoint(mgl32.Vec3{0, 5, 0}); d != 2 {
		t.Errorf("DistanceToPoint = %f, want 2", d)
	}

	if !plane.CoplanarPoint().ApproxEqual(mgl32.Vec3{0, 3, 0}) {
		t.Errorf("CoplanarPoint = %v", plane.CoplanarPoint())
	}
}

func TestPlaneTransformTranslation(t *testing.T) {
	plane := NewPlaneFromNormalAndPoint(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 0})

	moved := plane.Transform(mgl32.Translate3D(0, 4, 0))

	if !moved.Normal.ApproxEqual(mgl32.Vec3{0, 1, 0}) {
		t.Errorf("Normal = %v, want +Y", moved.Normal)
	}
	if math.Abs(float64(moved.Distance)+4) > 1e-5 {
		t.Errorf("Distance = %f, want -4", moved.Distance)
	}
}

func TestPlaneTransformKeepsPointsOnPlane(t *testing.T) {
	normal := mgl32.Vec3{1, 2, -1}.Normalize()
	point := mgl32.Vec3{3, -1, 2}
	plane := NewPlaneFromNormalAndPoint(normal, point)

	m := mgl32.Translate3D(5, -2, 1).Mul4(mgl32.HomogRotate3DY(0.7)).Mul4(mgl32.Scale3D(2, 1, 0.5))
	moved := plane.Transform(m)

	// Any point on the original plane must land on the transformed one
	tangent := normal.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	for _, s := range []float32{-3, 0, 2.5} {
		p := point.Add(tangent.Mul(s))
		q := m.Mul4x1(p.Vec4(1)).Vec3()
		if d := moved.DistanceToPoint(q); math.Abs(float64(d)) > 1e-4 {
			t.Errorf("transformed point %v off plane by %f", q, d)
		}
	}
}

func TestReflect(t *testing.T) {
	got := Reflect(mgl32.Vec3{1, -2, 3}, mgl32.Vec3{0, 1, 0})
	if !got.ApproxEqual(mgl32.Vec3{1, 2, 3}) {
		t.Errorf("Reflect = %v, want (1,2,3)", got)
	}
}

func TestFrustumIntersectsSphere(t *testing.T) {
	cam := NewLookAtCamera(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}, 45, 1, 0.1, 100)
	frustum := cam.CalculateFrustum()

	if !frustum.IntersectsSphere(mgl32.Vec3{0, 0, 0}, 1) {
		t.Error("Sphere in front of the camera should intersect")
	}
	if frustum.IntersectsSphere(mgl32.Vec3{0, 0, 20}, 1) {
		t.Error("Sphere behind the camera should be culled")
	}
}
