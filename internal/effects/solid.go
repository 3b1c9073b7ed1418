// Package effects holds the built-in scene effects. Each effect registers a
// factory by name so scenes can be reloaded from the settings store.
package effects

import (
	"time"

	"github.com/coreman2200/lightscene/internal/light"
	"github.com/coreman2200/lightscene/internal/store"
)

func init() {
	light.RegisterEffect("solid", func() light.Effect {
		return &Solid{Color: light.Color{H: 0, S: 0, V: 1}}
	})
}

// Solid paints every light element one fixed color.
type Solid struct {
	Color light.Color
}

func (e *Solid) Name() string { return "solid" }

func (e *Solid) Tick(dt time.Duration) {}

func (e *Solid) Update(boxes []light.Box, colors []light.Color) {
	for i := range colors {
		colors[i] = e.Color
	}
}

func (e *Solid) Save(n *store.Node) {
	n.SetFloat("h", e.Color.H)
	n.SetFloat("s", e.Color.S)
	n.SetFloat("v", e.Color.V)
}

func (e *Solid) Load(n *store.Node) {
	e.Color = light.Color{H: n.Float("h"), S: n.Float("s"), V: n.Float("v")}
}
