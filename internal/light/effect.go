package light

import (
	"fmt"
	"time"

	"github.com/coreman2200/lightscene/internal/store"
)

// Effect is one animation unit in a scene. Tick advances internal state by
// the elapsed wall time since the previous tick (variable, not fixed, delta);
// Update then writes colors for the given boxes. Effects see the full
// flattened arrays, not per-provider slices, and run in scene list order, so
// a later effect overwrites an earlier one where they touch the same index.
type Effect interface {
	Name() string
	Tick(dt time.Duration)
	Update(boxes []Box, colors []Color)
	Save(n *store.Node)
	Load(n *store.Node)
}

var effectFactories = map[string]func() Effect{}

// RegisterEffect makes an effect constructible by name, for LoadEffect.
// Typically called from an init in the effect's package.
func RegisterEffect(name string, fn func() Effect) {
	effectFactories[name] = fn
}

// NewEffect constructs a registered effect with its default parameters.
func NewEffect(name string) (Effect, bool) {
	fn, ok := effectFactories[name]
	if !ok {
		return nil, false
	}
	return fn(), true
}

// LoadEffect reads the "type" tag from a settings node, constructs the
// matching effect, and lets it load its parameters.
func LoadEffect(n *store.Node) (Effect, error) {
	name := n.String("type")
	e, ok := NewEffect(name)
	if !ok {
		return nil, fmt.Errorf("unknown effect type %q", name)
	}
	e.Load(n)
	return e, nil
}

// SaveEffect writes the "type" tag and the effect's parameters to a node.
func SaveEffect(n *store.Node, e Effect) {
	n.SetString("type", e.Name())
	e.Save(n)
}
