package renderer

import (
	"OceanMirror/internal/logger"
	"fmt"
	"image"
	"image/color"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

type OpenGLRenderer struct {
	defaultShader        Shader
	scene                *Scene
	textures             *TextureManager
	defaultTextureID     uint32
	currentShaderProgram uint32 // Track currently bound shader to avoid unnecessary switches
	width, height        int32
}

func NewOpenGLRenderer() *OpenGLRenderer {
	return &OpenGLRenderer{
		scene:    &Scene{},
		textures: NewTextureManager(),
	}
}

func (rend *OpenGLRenderer) Init(width, height int32, _ *glfw.Window) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("opengl init: %w", err)
	}

	if Debug {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}
	if rend.scene == nil {
		rend.scene = &Scene{}
	}
	if rend.textures == nil {
		rend.textures = NewTextureManager()
	}

	defaultTexture, err := rend.textures.CreateTextureFromImage(whiteImage(), "default", TextureOptions{})
	if err != nil {
		return err
	}
	rend.defaultTextureID = defaultTexture

	rend.width, rend.height = width, height
	gl.Viewport(0, 0, width, height)

	rend.defaultShader = InitShader()
	if err := rend.defaultShader.Compile(); err != nil {
		return err
	}
	logger.Log.Info("OpenGL render initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.Int32("width", width),
		zap.Int32("height", height))
	return nil
}

func whiteImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.White)
	return img
}

func (rend *OpenGLRenderer) Scene() *Scene {
	return rend.scene
}

func (rend *OpenGLRenderer) Textures() *TextureManager {
	return rend.textures
}

func (rend *OpenGLRenderer) AddModel(model *Model) {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(model.InterleavedData)*4, gl.Ptr(model.InterleavedData), gl.STATIC_DRAW)

	var ebo uint32
	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(model.Faces)*4, gl.Ptr(model.Faces), gl.STATIC_DRAW)

	stride := int32((8) * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)

	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)

	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, stride, gl.PtrOffset(5*4))
	gl.EnableVertexAttribArray(2)
	gl.BindVertexArray(0)

	model.VAO = vao
	model.VBO = vbo
	model.EBO = ebo

	// Calculate the initial model matrix based on position, rotation, and scale
	model.updateModelMatrix()

	rend.scene.Add(model)
	logger.Log.Debug("Model added", zap.String("name", model.Name), zap.Int("indices", len(model.Faces)))
}

func (rend *OpenGLRenderer) RemoveModel(model *Model) {
	rend.scene.Remove(model)
	deleteModelBuffers(model)
}

func deleteModelBuffers(model *Model) {
	if model.VAO != 0 {
		gl.DeleteVertexArrays(1, &model.VAO)
		model.VAO = 0
	}
	if model.VBO != 0 {
		gl.DeleteBuffers(1, &model.VBO)
		model.VBO = 0
	}
	if model.EBO != 0 {
		gl.DeleteBuffers(1, &model.EBO)
		model.EBO = 0
	}
}

// Render draws the renderer's own scene to the default framebuffer.
func (rend *OpenGLRenderer) Render(camera Camera) {
	rend.RenderTo(rend.scene, camera, nil, true)
}

// RenderTo draws scene from camera into target, or the default framebuffer
// when target is nil. The window viewport is restored afterwards.
func (rend *OpenGLRenderer) RenderTo(scene *Scene, camera Camera, target *RenderTarget, clearFirst bool) {
	if target != nil {
		target.Bind()
	} else {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, rend.width, rend.height)
	}

	if clearFirst {
		gl.ClearColor(scene.ClearColor.X(), scene.ClearColor.Y(), scene.ClearColor.Z(), 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	}

	rend.drawScene(scene, camera)

	if target != nil {
		target.Unbind()
		target.GenerateMipmaps()
		gl.Viewport(0, 0, rend.width, rend.height)
	}
}

func (rend *OpenGLRenderer) drawScene(scene *Scene, camera Camera) {
	if DepthTestEnabled {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthMask(true)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	viewProjection := camera.GetViewProjection()

	// Culling : https://learnopengl.com/Advanced-OpenGL/Face-culling
	if FaceCullingEnabled {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
		gl.FrontFace(gl.CCW)
	}

	// The frustum is per pass: the mirror camera's oblique near plane also
	// culls everything behind the water.
	var frustum Frustum
	if FrustumCullingEnabled {
		frustum = FrustumFromMatrix(viewProjection)
	}

	for _, model := range scene.Models {
		if FrustumCullingEnabled && !model.SkipCulling &&
			!frustum.IntersectsSphere(model.BoundingSphereCenter, model.BoundingSphereRadius) {
			continue
		}

		if model.IsDirty {
			model.updateModelMatrix()
		}

		shader, err := rend.shaderFor(model)
		if err != nil {
			logger.Log.Error("Skipping model with broken shader", zap.String("model", model.Name), zap.Error(err))
			continue
		}

		if rend.currentShaderProgram != shader.program {
			shader.Use()
			rend.currentShaderProgram = shader.program
		}

		rend.setCommonUniforms(shader, viewProjection, model, scene.Light, camera)
		rend.setMaterialUniforms(shader, model)
		rend.setShaderSpecificUniforms(shader, model)

		textureID := rend.defaultTextureID
		if model.Material != nil && model.Material.TextureID != 0 {
			textureID = model.Material.TextureID
		}
		// Render target mipmap generation rebinds unit 0, so no bind caching here.
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, textureID)
		shader.SetInt("textureSampler", 0)

		gl.BindVertexArray(model.VAO)
		gl.DrawElements(gl.TRIANGLES, int32(len(model.Faces)), gl.UNSIGNED_INT, nil)
		gl.BindVertexArray(0)
	}
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
}

func (rend *OpenGLRenderer) shaderFor(model *Model) (*Shader, error) {
	if !model.Shader.IsValid() {
		return &rend.defaultShader, nil
	}
	if !model.Shader.isCompiled {
		if err := model.Shader.Compile(); err != nil {
			// Fall back so the model does not retry every frame
			model.Shader = rend.defaultShader
			return nil, err
		}
	}
	return &model.Shader, nil
}

// setCommonUniforms sets uniforms that are common to most shaders
func (rend *OpenGLRenderer) setCommonUniforms(shader *Shader, viewProjection mgl32.Mat4, model *Model, light *Light, camera Camera) {
	shader.SetMat4("viewProjection", viewProjection)
	shader.SetMat4("model", model.ModelMatrix)
	shader.SetMat4("viewMatrix", camera.GetViewMatrix())
	shader.SetMat4("projectionMatrix", camera.Projection)
	shader.SetVec3("viewPos", camera.Position)

	if light != nil {
		shader.SetVec3("light.position", light.Position)
		shader.SetVec3("light.direction", light.Direction)
		shader.SetVec3("light.color", light.Color)
		shader.SetFloat("light.intensity", light.Intensity)
		shader.SetFloat("light.ambientStrength", light.AmbientStrength)
		shader.SetBool("light.isDirectional", light.Mode == "directional")
	}
}

// setMaterialUniforms sets material-specific uniforms
func (rend *OpenGLRenderer) setMaterialUniforms(shader *Shader, model *Model) {
	if model.Material == nil {
		model.Material = DefaultMaterial
	}

	shader.SetVec3("diffuseColor", mgl32.Vec3(model.Material.DiffuseColor))
	shader.SetVec3("specularColor", mgl32.Vec3(model.Material.SpecularColor))
	shader.SetFloat("shininess", model.Material.Shininess)
	shader.SetFloat("exposure", model.Material.Exposure)
}

// setShaderSpecificUniforms allows models to set custom uniforms for their shaders
func (rend *OpenGLRenderer) setShaderSpecificUniforms(shader *Shader, model *Model) {
	if model.CustomUniforms == nil {
		return
	}

	for name, value := range model.CustomUniforms {
		switch v := value.(type) {
		case float32:
			shader.SetFloat(name, v)
		case int32:
			shader.SetInt(name, v)
		case bool:
			shader.SetBool(name, v)
		case mgl32.Vec3:
			shader.SetVec3(name, v)
		case mgl32.Mat4:
			shader.SetMat4(name, v)
		case Vec3Array:
			shader.SetVec3Array(name, v)
		case []float32:
			shader.SetFloats(name, v)
		case Sampler:
			shader.SetSampler(name, v)
		default:
			logger.Log.Debug("Skipping custom uniform of unsupported type", zap.String("name", name))
		}
	}
}

// UpdateViewport updates the OpenGL viewport to match the current window size
func (rend *OpenGLRenderer) UpdateViewport(width, height int32) {
	rend.width, rend.height = width, height
	gl.Viewport(0, 0, width, height)
}

func (rend *OpenGLRenderer) CreateTextureFromImage(img image.Image) (uint32, error) {
	return rend.textures.CreateTextureFromImage(img, fmt.Sprintf("image-%p", img), TextureOptions{Repeat: true, Mipmaps: true})
}

// LoadTexture loads a tiling texture from disk through the texture cache.
func (rend *OpenGLRenderer) LoadTexture(path string) (uint32, error) {
	return rend.textures.LoadTexture(path, TextureOptions{Repeat: true, Mipmaps: true})
}

func (rend *OpenGLRenderer) Cleanup() {
	for _, model := range rend.scene.Models {
		deleteModelBuffers(model)
	}
	rend.textures.Clear()
	if rend.defaultShader.program != 0 {
		gl.DeleteProgram(rend.defaultShader.program)
	}
	logger.Log.Info("OpenGL renderer cleaned up")
}

func CreateLight() *Light {
	return &Light{
		Position:        mgl32.Vec3{0.0, 1500.0, 0.0},
		Color:           mgl32.Vec3{1.0, 1.0, 1.0},
		Intensity:       1.0,
		Mode:            "point",
		AmbientStrength: 0.1,
		Direction:       mgl32.Vec3{0, -1, 0},
	}
}

// CreateDirectionalLight creates a directional light (like the sun)
func CreateDirectionalLight(direction mgl32.Vec3, color mgl32.Vec3, intensity float32) *Light {
	light := CreateLight()
	light.Mode = "directional"
	light.Direction = direction.Normalize()
	light.Color = color
	light.Intensity = intensity
	light.AmbientStrength = 0.15
	return light
}

// CreateSunlight builds the sun from the direction light travels in.
func CreateSunlight(direction mgl32.Vec3) *Light {
	light := CreateDirectionalLight(direction, mgl32.Vec3{1.0, 0.95, 0.8}, 1.2)
	light.AmbientStrength = 0.2
	return light
}
