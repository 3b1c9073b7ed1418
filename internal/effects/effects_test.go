package effects

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/lightscene/internal/light"
	"github.com/coreman2200/lightscene/internal/store"
)

func boxesAt(xs ...float64) []light.Box {
	out := make([]light.Box, len(xs))
	for i, x := range xs {
		out[i] = light.Box{Center: light.Vec3{X: x}}
	}
	return out
}

func TestSolidPaintsEverything(t *testing.T) {
	e := &Solid{Color: light.Color{H: 0.1, S: 0.2, V: 0.3}}
	colors := make([]light.Color, 4)

	e.Tick(16 * time.Millisecond)
	e.Update(boxesAt(0, 1, 2, 3), colors)

	for _, c := range colors {
		assert.Equal(t, e.Color, c)
	}
}

func TestRainbowVariesAlongX(t *testing.T) {
	e := &Rainbow{Speed: 0, Spread: 0.25, Saturation: 1, Value: 1}
	colors := make([]light.Color, 2)

	e.Update(boxesAt(0, 1), colors)

	assert.InDelta(t, 0.0, colors[0].H, 1e-9)
	assert.InDelta(t, 0.25, colors[1].H, 1e-9)
}

func TestRainbowPhaseAdvancesWithTime(t *testing.T) {
	e := &Rainbow{Speed: 0.5, Spread: 0, Saturation: 1, Value: 1}
	colors := make([]light.Color, 1)

	e.Tick(time.Second)
	e.Update(boxesAt(0), colors)
	assert.InDelta(t, 0.5, colors[0].H, 1e-9)

	// phase wraps at 1
	e.Tick(time.Second)
	e.Update(boxesAt(0), colors)
	assert.InDelta(t, 0.0, colors[0].H, 1e-9)
}

func TestPulseBreathes(t *testing.T) {
	e := &Pulse{Color: light.Color{H: 0.6, S: 1, V: 1}, Period: 2 * time.Second, Floor: 0}
	colors := make([]light.Color, 1)

	e.Update(boxesAt(0), colors)
	assert.InDelta(t, 0.0, colors[0].V, 1e-9, "starts at the floor")

	e.Tick(time.Second) // half period
	e.Update(boxesAt(0), colors)
	assert.InDelta(t, 1.0, colors[0].V, 1e-9, "peaks mid-period")
}

var saveLoadCases = []struct {
	name string
	make func() light.Effect
}{
	{"solid", func() light.Effect { return &Solid{Color: light.Color{H: 0.3, S: 0.4, V: 0.5}} }},
	{"rainbow", func() light.Effect { return &Rainbow{Speed: 1, Spread: 2, Saturation: 0.5, Value: 0.25} }},
	{"pulse", func() light.Effect { return &Pulse{Color: light.Color{H: 0.9, S: 1, V: 0.8}, Period: 3 * time.Second, Floor: 0.2} }},
}

func TestSaveLoadThroughFactory(t *testing.T) {
	for _, tc := range saveLoadCases {
		t.Run(tc.name, func(t *testing.T) {
			src := tc.make()
			n := store.NewNode()
			light.SaveEffect(n, src)

			got, err := light.LoadEffect(n)
			require.NoError(t, err)
			assert.Equal(t, tc.name, got.Name())
			assert.Equal(t, src, got)
		})
	}
}

func TestBuiltinsAreRegistered(t *testing.T) {
	for _, name := range []string{"solid", "rainbow", "pulse"} {
		_, ok := light.NewEffect(name)
		assert.True(t, ok, name)
	}
}
