package scripts

import (
	"OceanMirror/internal/behaviour"
	"OceanMirror/internal/renderer"
)

type RotateScript struct {
	Target *renderer.Model
	Speed  float32 // degrees per second
}

func init() {
	behaviour.RegisterScript("RotateScript", func(target *renderer.Model) behaviour.PlayerBehaviour {
		return &RotateScript{Target: target, Speed: 45.0}
	})
}

func (r *RotateScript) Start() {}

func (r *RotateScript) Update() {
	r.Target.Rotate(0, r.Speed*frameTime, 0)
}

func (r *RotateScript) UpdateFixed() {}
