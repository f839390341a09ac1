package scripts

import (
	"OceanMirror/internal/behaviour"
	"OceanMirror/internal/renderer"
	"math"
)

// BounceScript bobs a prop through the water line, which shows the oblique
// near plane clipping the submerged part out of the reflection.
type BounceScript struct {
	Target *renderer.Model
	Height float32
	Speed  float32
	startY float32
	time   float32
}

func init() {
	behaviour.RegisterScript("BounceScript", func(target *renderer.Model) behaviour.PlayerBehaviour {
		return &BounceScript{Target: target, Height: 5.0, Speed: 2.0}
	})
}

func (b *BounceScript) Start() {
	b.startY = b.Target.Y()
}

func (b *BounceScript) Update() {
	b.time += frameTime * b.Speed
	offset := float32(math.Sin(float64(b.time))) * b.Height
	b.Target.SetPosition(b.Target.X(), b.startY+offset, b.Target.Z())
}

func (b *BounceScript) UpdateFixed() {}
