package effects

import (
	"math"
	"time"

	"github.com/coreman2200/lightscene/internal/light"
	"github.com/coreman2200/lightscene/internal/store"
)

func init() {
	light.RegisterEffect("pulse", func() light.Effect {
		return &Pulse{Color: light.Color{H: 0.6, S: 1, V: 1}, Period: 2 * time.Second, Floor: 0.1}
	})
}

// Pulse breathes a single color: value swings sinusoidally between Floor and
// the configured color's value over Period.
type Pulse struct {
	Color  light.Color
	Period time.Duration
	Floor  float64

	t float64
}

func (e *Pulse) Name() string { return "pulse" }

func (e *Pulse) Tick(dt time.Duration) {
	if e.Period <= 0 {
		e.Period = 2 * time.Second
	}
	e.t = math.Mod(e.t+dt.Seconds()/e.Period.Seconds(), 1.0)
}

func (e *Pulse) Update(boxes []light.Box, colors []light.Color) {
	// 0..1..0 over one period
	level := 0.5 - 0.5*math.Cos(2*math.Pi*e.t)
	v := e.Floor + (e.Color.V-e.Floor)*level
	c := light.Color{H: e.Color.H, S: e.Color.S, V: v}
	for i := range colors {
		colors[i] = c
	}
}

func (e *Pulse) Save(n *store.Node) {
	n.SetFloat("h", e.Color.H)
	n.SetFloat("s", e.Color.S)
	n.SetFloat("v", e.Color.V)
	n.SetFloat("periodS", e.Period.Seconds())
	n.SetFloat("floor", e.Floor)
}

func (e *Pulse) Load(n *store.Node) {
	e.Color = light.Color{H: n.Float("h"), S: n.Float("s"), V: n.Float("v")}
	e.Period = time.Duration(n.Float("periodS") * float64(time.Second))
	e.Floor = n.Float("floor")
}
