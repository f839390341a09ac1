package renderer

import (
	"OceanMirror/internal/logger"
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

var ErrFramebufferIncomplete = errors.New("framebuffer incomplete")

// RenderTarget is an offscreen colour buffer with its own depth buffer.
// Its size is fixed for its whole lifetime.
type RenderTarget struct {
	FBO          uint32
	ColorTexture uint32
	DepthBuffer  uint32
	Width        int32
	Height       int32
	Mipmaps      bool
}

func IsPowerOfTwo(n int32) bool {
	return n > 0 && n&(n-1) == 0
}

// NewRenderTarget allocates an RGBA8 colour texture and a 24 bit depth
// renderbuffer. Mipmaps are only generated when both sides are powers of two.
func NewRenderTarget(width, height int32) (*RenderTarget, error) {
	rt := &RenderTarget{
		Width:   width,
		Height:  height,
		Mipmaps: IsPowerOfTwo(width) && IsPowerOfTwo(height),
	}

	gl.GenTextures(1, &rt.ColorTexture)
	gl.BindTexture(gl.TEXTURE_2D, rt.ColorTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	if rt.Mipmaps {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.GenerateMipmap(gl.TEXTURE_2D)
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		logger.Log.Debug("Render target is not power of two, mipmaps disabled",
			zap.Int32("width", width), zap.Int32("height", height))
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.GenRenderbuffers(1, &rt.DepthBuffer)
	gl.BindRenderbuffer(gl.RENDERBUFFER, rt.DepthBuffer)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, width, height)

	gl.GenFramebuffers(1, &rt.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, rt.FBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, rt.ColorTexture, 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, rt.DepthBuffer)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		rt.Destroy()
		return nil, fmt.Errorf("%w: status=0x%X", ErrFramebufferIncomplete, status)
	}

	logger.Log.Info("Render target created",
		zap.Int32("width", width),
		zap.Int32("height", height),
		zap.Bool("mipmaps", rt.Mipmaps))
	return rt, nil
}

func (rt *RenderTarget) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, rt.FBO)
	gl.Viewport(0, 0, rt.Width, rt.Height)
}

func (rt *RenderTarget) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// GenerateMipmaps refreshes the mip chain after a pass wrote the target.
func (rt *RenderTarget) GenerateMipmaps() {
	if !rt.Mipmaps {
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, rt.ColorTexture)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Destroy frees GPU resources.
func (rt *RenderTarget) Destroy() {
	if rt.FBO != 0 {
		gl.DeleteFramebuffers(1, &rt.FBO)
		rt.FBO = 0
	}
	if rt.DepthBuffer != 0 {
		gl.DeleteRenderbuffers(1, &rt.DepthBuffer)
		rt.DepthBuffer = 0
	}
	if rt.ColorTexture != 0 {
		gl.DeleteTextures(1, &rt.ColorTexture)
		rt.ColorTexture = 0
	}
}
