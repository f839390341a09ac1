package engine

import (
	behaviour "OceanMirror/internal/behaviour"
	"OceanMirror/internal/logger"
	"OceanMirror/internal/renderer"
	"fmt"
	"runtime"

	mgl "github.com/go-gl/mathgl/mgl32"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

// Initialize to the center of the window
var lastX, lastY float64
var firstMouse bool = true

// fixedUpdateEvery is the number of frames between fixed updates.
const fixedUpdateEvery = 2

type Gopher struct {
	Width             int32
	Height            int32
	Title             string
	Camera            *renderer.Camera
	Behaviours        *behaviour.BehaviourManager
	EnableCameraInput bool // keyboard and right-drag mouse look

	rendererAPI      renderer.Render
	window           *glfw.Window
	light            *renderer.Light
	frameTrackId     int
	onReady          func()
	onRenderCallback func(deltaTime float64)
	onShutdown       func()
}

func NewGopher() *Gopher {
	logger.Init()
	logger.Log.Info("Engine initializing...")
	return &Gopher{
		rendererAPI:       renderer.NewOpenGLRenderer(),
		Behaviours:        behaviour.GlobalBehaviourManager,
		Width:             1280,
		Height:            720,
		Title:             "OceanMirror",
		EnableCameraInput: true,
	}
}

// Render opens the window, initialises GL and runs the frame loop until the
// window closes. It must be called from the main goroutine.
func (gopher *Gopher) Render(x, y int) error {
	lastX, lastY = float64(gopher.Width/2), float64(gopher.Height/2)
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Decorated, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 32)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(int(gopher.Width), int(gopher.Height), gopher.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("glfw window: %w", err)
	}
	gopher.window = window
	window.MakeContextCurrent()
	logger.Log.Info("Window created",
		zap.String("title", gopher.Title),
		zap.Int32("width", gopher.Width),
		zap.Int32("height", gopher.Height))
	if x >= 0 && y >= 0 {
		window.SetPos(x, y)
	}

	// Framebuffer size differs from window size on HiDPI displays.
	fbWidth, fbHeight := window.GetFramebufferSize()
	if err := gopher.rendererAPI.Init(int32(fbWidth), int32(fbHeight), window); err != nil {
		return err
	}
	if gopher.light != nil {
		gopher.rendererAPI.Scene().Light = gopher.light
	}

	if gopher.Camera == nil {
		gopher.Camera = renderer.NewDefaultCamera(gopher.Width, gopher.Height)
	}

	window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	window.SetCursorPosCallback(gopher.mouseCallback)

	if gopher.onReady != nil {
		gopher.onReady()
	}

	gopher.RenderLoop()
	return nil
}

// RenderLoop runs behaviours and then draws the scene once per frame.
// Behaviours that render offscreen, like the ocean reflection, do so before
// the main pass reads their targets.
func (gopher *Gopher) RenderLoop() {
	var lastTime = glfw.GetTime()
	lastWidth, lastHeight := gopher.window.GetFramebufferSize()

	for !gopher.window.ShouldClose() {
		currentTime := glfw.GetTime()
		deltaTime := currentTime - lastTime
		lastTime = currentTime

		gopher.Width, gopher.Height = gopher.windowSize()
		fbWidth, fbHeight := gopher.window.GetFramebufferSize()
		if fbWidth != lastWidth || fbHeight != lastHeight {
			gopher.rendererAPI.UpdateViewport(int32(fbWidth), int32(fbHeight))
			if fbHeight > 0 {
				gopher.Camera.SetAspectRatio(float32(fbWidth) / float32(fbHeight))
			}
			lastWidth, lastHeight = fbWidth, fbHeight
		}

		if gopher.EnableCameraInput {
			gopher.Camera.ProcessKeyboard(gopher.window, float32(deltaTime))
		}

		if gopher.frameTrackId >= fixedUpdateEvery {
			gopher.Behaviours.UpdateAllFixed()
			gopher.frameTrackId = 0
		}
		gopher.Behaviours.UpdateAll()

		gopher.rendererAPI.Render(*gopher.Camera)

		if gopher.onRenderCallback != nil {
			gopher.onRenderCallback(deltaTime)
		}

		gopher.window.SwapBuffers()
		gopher.frameTrackId++
		glfw.PollEvents()
	}
	gopher.shutdown()
	logger.Log.Info("Render loop finished")
}

// shutdown runs while the GL context is still current.
func (gopher *Gopher) shutdown() {
	if gopher.onShutdown != nil {
		gopher.onShutdown()
	}
	gopher.rendererAPI.Cleanup()
}

func (gopher *Gopher) windowSize() (int32, int32) {
	w, h := gopher.window.GetSize()
	return int32(w), int32(h)
}

// SetOnReady sets a callback run once GL is up and before the first frame.
// Scene setup that creates GPU resources belongs here.
func (gopher *Gopher) SetOnReady(callback func()) {
	gopher.onReady = callback
}

// SetOnShutdown sets a callback run once the window closes, before the
// renderer is cleaned up. GPU resources owned outside the renderer are
// released here.
func (gopher *Gopher) SetOnShutdown(callback func()) {
	gopher.onShutdown = callback
}

// SetOnRenderCallback sets a callback that will be called each frame after the 3D scene is rendered
func (gopher *Gopher) SetOnRenderCallback(callback func(deltaTime float64)) {
	gopher.onRenderCallback = callback
}

func (gopher *Gopher) SetDebugMode(debug bool) {
	renderer.Debug = debug
}

func (gopher *Gopher) SetFrustumCulling(enabled bool) {
	renderer.FrustumCullingEnabled = enabled
}

func (gopher *Gopher) SetFaceCulling(enabled bool) {
	renderer.FaceCullingEnabled = enabled
}

// SetLight sets the scene light. It can be called before Render.
func (gopher *Gopher) SetLight(light *renderer.Light) {
	gopher.light = light
	gopher.rendererAPI.Scene().Light = light
}

func (gopher *Gopher) SetClearColor(color mgl.Vec3) {
	gopher.rendererAPI.Scene().ClearColor = color
}

func (gopher *Gopher) AddModel(model *renderer.Model) {
	gopher.rendererAPI.AddModel(model)
}

func (gopher *Gopher) RemoveModel(model *renderer.Model) {
	gopher.rendererAPI.RemoveModel(model)
}

func (gopher *Gopher) AddBehaviour(b behaviour.PlayerBehaviour) {
	gopher.Behaviours.Add(b)
}

// GetWindow returns the GLFW window
func (gopher *Gopher) GetWindow() *glfw.Window {
	return gopher.window
}

func (gopher *Gopher) GetRenderer() renderer.Render {
	return gopher.rendererAPI
}

func (gopher *Gopher) GetCamera() *renderer.Camera {
	return gopher.Camera
}

// Mouse callback function
func (gopher *Gopher) mouseCallback(w *glfw.Window, xpos, ypos float64) {
	// Mouse look only while the right button is held in a focused window
	if gopher.EnableCameraInput && w.GetAttrib(glfw.Focused) == glfw.True && w.GetMouseButton(glfw.MouseButtonRight) == glfw.Press {
		if firstMouse {
			lastX = xpos
			lastY = ypos
			firstMouse = false
			return
		}

		xoffset := xpos - lastX
		yoffset := lastY - ypos // Reversed since y-coordinates go from bottom to top
		lastX = xpos
		lastY = ypos

		gopher.Camera.ProcessMouseMovement(float32(xoffset), float32(yoffset), true)
	} else {
		firstMouse = true
	}
}
