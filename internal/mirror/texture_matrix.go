package mirror

import (
	"github.com/go-gl/mathgl/mgl32"
)

// clipToTexture maps clip space [-1,1] onto texture space [0,1].
var clipToTexture = mgl32.Mat4{
	0.5, 0.0, 0.0, 0.0,
	0.0, 0.5, 0.0, 0.0,
	0.0, 0.0, 0.5, 0.0,
	0.5, 0.5, 0.5, 1.0,
}

// TextureMatrix projects world positions into the mirror image. After the
// perspective divide the xy of the result is the texel coordinate.
func TextureMatrix(proj, view mgl32.Mat4) mgl32.Mat4 {
	return clipToTexture.Mul4(proj).Mul4(view)
}
