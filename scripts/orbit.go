package scripts

import (
	"OceanMirror/internal/behaviour"
	"OceanMirror/internal/renderer"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// frameTime is the fixed step scripts advance by each Update.
const frameTime = float32(0.016)

type OrbitScript struct {
	Target *renderer.Model
	Radius float32
	Speed  float32
	center mgl32.Vec3
	time   float32
}

func init() {
	behaviour.RegisterScript("OrbitScript", func(target *renderer.Model) behaviour.PlayerBehaviour {
		return &OrbitScript{Target: target, Radius: 10.0, Speed: 1.0}
	})
}

// Start takes the current position as the orbit centre.
func (o *OrbitScript) Start() {
	o.center = o.Target.Position
}

func (o *OrbitScript) Update() {
	o.time += frameTime * o.Speed

	x := float32(math.Cos(float64(o.time))) * o.Radius
	z := float32(math.Sin(float64(o.time))) * o.Radius

	o.Target.SetPosition(o.center.X()+x, o.Target.Y(), o.center.Z()+z)
}

func (o *OrbitScript) UpdateFixed() {}
