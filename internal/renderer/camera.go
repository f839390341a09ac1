// camera.go
package renderer

import (
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

type Camera struct {
	// HOT DATA - Accessed every frame for view/projection calculations
	Position   mgl32.Vec3 // Camera position in world space
	Front      mgl32.Vec3 // Forward direction vector
	Up         mgl32.Vec3 // Up direction vector
	Right      mgl32.Vec3 // Right direction vector
	Projection mgl32.Mat4 // Projection matrix
	Pitch      float32    // Pitch angle (vertical rotation)
	Yaw        float32    // Yaw angle (horizontal rotation)

	// COLD DATA - Configuration and input handling, accessed less frequently
	WorldUp      mgl32.Vec3 // World up vector (usually (0,1,0))
	Speed        float32    // Movement speed
	Sensitivity  float32    // Mouse sensitivity
	Fov          float32    // Field of view in degrees
	Near         float32    // Near clipping plane
	Far          float32    // Far clipping plane
	AspectRatio  float32    // Width / height
	LastX, LastY float32    // Last mouse position
	InvertMouse  bool       // Invert mouse Y axis
	firstMouse   bool       // First mouse movement flag

	// Identification
	Name     string
	IsActive bool
}

func NewDefaultCamera(width int32, height int32) *Camera {
	camera := Camera{
		Position:    mgl32.Vec3{0, 30, 120},
		Front:       mgl32.Vec3{0, 0, -1},
		Up:          mgl32.Vec3{0, 1, 0},
		WorldUp:     mgl32.Vec3{0, 1, 0},
		Pitch:       -10.0,
		Yaw:         -90.0,
		Speed:       70,
		Sensitivity: 0.1,
		Fov:         45.0,
		Near:        0.1,
		Far:         10000.0,
		LastX:       float32(width) / 2,
		LastY:       float32(height) / 2,
		AspectRatio: float32(width) / float32(height),
		firstMouse:  true,
		InvertMouse: true,
		Name:        "main",
		IsActive:    true,
	}
	camera.updateCameraVectors()
	camera.UpdateProjection()
	return &camera
}

// NewLookAtCamera builds a camera at position looking at target. up only
// needs to be roughly perpendicular to the view direction.
func NewLookAtCamera(position, target, up mgl32.Vec3, fov, aspect, near, far float32) *Camera {
	camera := Camera{
		Position:    position,
		Up:          up,
		WorldUp:     mgl32.Vec3{0, 1, 0},
		Speed:       70,
		Sensitivity: 0.1,
		Fov:         fov,
		Near:        near,
		Far:         far,
		AspectRatio: aspect,
		firstMouse:  true,
	}
	camera.LookAt(target)
	camera.UpdateProjection()
	return &camera
}

func (c *Camera) UpdateProjection() {
	c.Projection = mgl32.Perspective(mgl32.DegToRad(c.Fov), c.AspectRatio, c.Near, c.Far)
}

// Setter methods that automatically update projection
func (c *Camera) SetNear(near float32) {
	c.Near = near
	c.UpdateProjection()
}

func (c *Camera) SetFar(far float32) {
	c.Far = far
	c.UpdateProjection()
}

func (c *Camera) SetFov(fov float32) {
	c.Fov = fov
	c.UpdateProjection()
}

func (c *Camera) SetAspectRatio(aspectRatio float32) {
	c.AspectRatio = aspectRatio
	c.UpdateProjection()
}

func (c *Camera) GetViewProjection() mgl32.Mat4 {
	return c.Projection.Mul4(c.GetViewMatrix())
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return c.Projection
}

// Target is the world-space point one unit along the view direction.
func (c *Camera) Target() mgl32.Vec3 {
	return c.Position.Add(c.Front)
}

// LookAt points the camera at target keeping the current up vector as the
// roll reference.
func (c *Camera) LookAt(target mgl32.Vec3) {
	c.SetOrientation(target.Sub(c.Position), c.Up)
}

// SetOrientation sets Front from direction and rebuilds an orthonormal
// Right/Up pair around it. If up is parallel to direction the world Z axis
// is used as the roll reference instead.
func (c *Camera) SetOrientation(direction, up mgl32.Vec3) {
	front := direction.Normalize()
	right := front.Cross(up)
	if right.Len() < 1e-6 {
		right = front.Cross(mgl32.Vec3{0, 0, -1})
	}
	c.Front = front
	c.Right = right.Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()

	c.Pitch = mgl32.RadToDeg(float32(math.Asin(float64(mgl32.Clamp(front.Y(), -1, 1)))))
	c.Yaw = mgl32.RadToDeg(float32(math.Atan2(float64(front.Z()), float64(front.X()))))
}

// Rotation is the camera-to-world rotation. Its columns are the camera's
// right, up and backward axes, so local -Z is the view direction.
func (c *Camera) Rotation() mgl32.Mat3 {
	front := c.Front.Normalize()
	right := front.Cross(c.Up)
	if right.Len() < 1e-6 {
		right = front.Cross(mgl32.Vec3{0, 0, -1})
	}
	right = right.Normalize()
	up := right.Cross(front)
	return mgl32.Mat3FromCols(right, up, front.Mul(-1))
}

func (c *Camera) ProcessKeyboard(window *glfw.Window, deltaTime float32) {
	// Looking straight up or down keeps the previous Right.
	if right := c.Front.Cross(c.WorldUp); right.Len() > 1e-6 {
		c.Right = right.Normalize()
	}
	baseVelocity := c.Speed * deltaTime

	if window.GetKey(glfw.KeyLeftShift) == glfw.Press || window.GetKey(glfw.KeyRightShift) == glfw.Press {
		baseVelocity *= 2.5
	}

	if window.GetKey(glfw.KeyW) == glfw.Press {
		c.Position = c.Position.Add(c.Front.Mul(baseVelocity))
	}
	if window.GetKey(glfw.KeyS) == glfw.Press {
		c.Position = c.Position.Sub(c.Front.Mul(baseVelocity))
	}
	if window.GetKey(glfw.KeyA) == glfw.Press {
		c.Position = c.Position.Sub(c.Right.Mul(baseVelocity))
	}
	if window.GetKey(glfw.KeyD) == glfw.Press {
		c.Position = c.Position.Add(c.Right.Mul(baseVelocity))
	}
	if window.GetKey(glfw.KeySpace) == glfw.Press {
		c.Position = c.Position.Add(c.WorldUp.Mul(baseVelocity))
	}
	if window.GetKey(glfw.KeyLeftControl) == glfw.Press {
		c.Position = c.Position.Sub(c.WorldUp.Mul(baseVelocity))
	}
}

func (c *Camera) ProcessMouseMovement(xoffset, yoffset float32, constrainPitch bool) {
	xoffset *= c.Sensitivity
	yoffset *= c.Sensitivity

	c.Yaw += xoffset

	if c.InvertMouse {
		c.Pitch -= yoffset
	} else {
		c.Pitch += yoffset
	}
	if constrainPitch {
		c.Pitch = mgl32.Clamp(c.Pitch, -89.0, 89.0) // Prevent extreme pitch values
	}
	c.updateCameraVectors()
}

func (c *Camera) updateCameraVectors() {
	yawRad := mgl32.DegToRad(c.Yaw)
	pitchRad := mgl32.DegToRad(c.Pitch)

	front := mgl32.Vec3{
		float32(math.Cos(float64(yawRad)) * math.Cos(float64(pitchRad))),
		float32(math.Sin(float64(pitchRad))),
		float32(math.Sin(float64(yawRad)) * math.Cos(float64(pitchRad))),
	}

	c.Front = front.Normalize()
	c.Right = c.Front.Cross(c.WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}

func (c *Camera) CalculateFrustum() Frustum {
	return FrustumFromMatrix(c.GetViewProjection())
}
