package effects

import (
	"math"
	"time"

	"github.com/coreman2200/lightscene/internal/light"
	"github.com/coreman2200/lightscene/internal/store"
)

func init() {
	light.RegisterEffect("rainbow", func() light.Effect {
		return &Rainbow{Speed: 0.1, Spread: 0.25, Saturation: 1, Value: 0.8}
	})
}

// Rainbow sweeps hue through the room along X. Speed is hue cycles per
// second; Spread is hue cycles per meter of room space.
type Rainbow struct {
	Speed      float64
	Spread     float64
	Saturation float64
	Value      float64

	phase float64
}

func (e *Rainbow) Name() string { return "rainbow" }

func (e *Rainbow) Tick(dt time.Duration) {
	e.phase = math.Mod(e.phase+e.Speed*dt.Seconds(), 1.0)
}

func (e *Rainbow) Update(boxes []light.Box, colors []light.Color) {
	for i := range colors {
		h := e.phase + boxes[i].Center.X*e.Spread
		colors[i] = light.Color{H: h, S: e.Saturation, V: e.Value}
	}
}

func (e *Rainbow) Save(n *store.Node) {
	n.SetFloat("speed", e.Speed)
	n.SetFloat("spread", e.Spread)
	n.SetFloat("sat", e.Saturation)
	n.SetFloat("val", e.Value)
}

func (e *Rainbow) Load(n *store.Node) {
	e.Speed = n.Float("speed")
	e.Spread = n.Float("spread")
	e.Saturation = n.Float("sat")
	e.Value = n.Float("val")
}
