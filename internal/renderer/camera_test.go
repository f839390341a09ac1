package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewDefaultCamera(t *testing.T) {
	cam := NewDefaultCamera(800, 600)

	if cam == nil {
		t.Fatal("NewDefaultCamera returned nil")
	}

	if cam.Position == (mgl32.Vec3{0, 0, 0}) {
		t.Error("Camera position should not be at origin")
	}

	if math.Abs(float64(cam.AspectRatio)-800.0/600.0) > 1e-6 {
		t.Errorf("Aspect ratio should be width/height, got %f", cam.AspectRatio)
	}

	if cam.Speed <= 0 {
		t.Error("Camera speed should be positive")
	}
}

func TestCameraGetViewMatrix(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	cam.Position = mgl32.Vec3{0, 0, 5}
	cam.Front = mgl32.Vec3{0, 0, -1}
	cam.Up = mgl32.Vec3{0, 1, 0}

	view := cam.GetViewMatrix()

	if view.At(3, 3) != 1.0 {
		t.Error("View matrix should be valid (w component = 1)")
	}

	origin := view.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if math.Abs(float64(origin.Z())+5) > 1e-5 {
		t.Errorf("Origin should be 5 units in front of the camera, got z=%f", origin.Z())
	}
}

func TestCameraGetProjectionMatrix(t *testing.T) {
	cam := NewDefaultCamera(800, 600)

	proj := cam.GetProjectionMatrix()

	if proj.At(3, 3) != 0.0 {
		t.Error("Perspective projection should have w=0 at (3,3)")
	}
}

func TestCameraLookAt(t *testing.T) {
	cam := NewLookAtCamera(mgl32.Vec3{0, 5, 10}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}, 45, 1.5, 0.1, 1000)

	want := mgl32.Vec3{0, -5, -10}.Normalize()
	if !cam.Front.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("Front = %v, want %v", cam.Front, want)
	}

	if d := cam.Front.Dot(cam.Up); math.Abs(float64(d)) > 1e-5 {
		t.Errorf("Up should be orthogonal to Front, dot=%f", d)
	}

	if cam.Up.Y() <= 0 {
		t.Errorf("Up should keep the roll reference, got %v", cam.Up)
	}
}

func TestCameraLookStraightDown(t *testing.T) {
	cam := NewLookAtCamera(mgl32.Vec3{3, 50, -2}, mgl32.Vec3{3, 0, -2}, mgl32.Vec3{0, 1, 0}, 45, 1, 0.1, 1000)

	for i, v := range []mgl32.Vec3{cam.Front, cam.Up, cam.Right} {
		if math.IsNaN(float64(v.X())) || math.IsNaN(float64(v.Y())) || math.IsNaN(float64(v.Z())) {
			t.Fatalf("basis vector %d is NaN", i)
		}
	}

	if !cam.Front.ApproxEqualThreshold(mgl32.Vec3{0, -1, 0}, 1e-6) {
		t.Errorf("Front = %v, want straight down", cam.Front)
	}
}

func TestCameraRotationIsOrthonormal(t *testing.T) {
	cam := NewLookAtCamera(mgl32.Vec3{4, 7, -3}, mgl32.Vec3{-2, 1, 5}, mgl32.Vec3{0.2, 1, 0}, 60, 1, 0.1, 500)
	rot := cam.Rotation()

	forward := rot.Mul3x1(mgl32.Vec3{0, 0, -1})
	if !forward.ApproxEqualThreshold(cam.Front.Normalize(), 1e-5) {
		t.Errorf("local -Z should map to Front, got %v", forward)
	}

	det := rot.Det()
	if math.Abs(float64(det)-1) > 1e-4 {
		t.Errorf("rotation determinant = %f, want 1", det)
	}
}

func TestCameraUpdateVectors(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	cam.Yaw = -90
	cam.Pitch = 0

	cam.updateCameraVectors()

	frontLen := cam.Front.Len()
	if math.Abs(float64(frontLen)-1.0) > 0.01 {
		t.Errorf("Front vector should be normalized, length=%f", frontLen)
	}

	want := mgl32.Vec3{1, 0, 0}
	for i := range want {
		if math.Abs(float64(cam.Right[i]-want[i])) > 1e-5 {
			t.Errorf("Right should point along +X when facing -Z, got %v", cam.Right)
			break
		}
	}
}
