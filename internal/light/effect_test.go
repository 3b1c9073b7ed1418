package light

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/lightscene/internal/store"
)

type gainEffect struct {
	Gain float64
}

func (e *gainEffect) Name() string                            { return "gain" }
func (e *gainEffect) Tick(dt time.Duration)                   {}
func (e *gainEffect) Update(boxes []Box, colors []Color)      {}
func (e *gainEffect) Save(n *store.Node)                      { n.SetFloat("gain", e.Gain) }
func (e *gainEffect) Load(n *store.Node)                      { e.Gain = n.Float("gain") }

func TestEffectFactoryRoundTrip(t *testing.T) {
	RegisterEffect("gain", func() Effect { return &gainEffect{} })

	n := store.NewNode()
	SaveEffect(n, &gainEffect{Gain: 2.5})
	assert.Equal(t, "gain", n.String("type"))

	e, err := LoadEffect(n)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, e.(*gainEffect).Gain, 1e-9)
}

func TestLoadEffectUnknownType(t *testing.T) {
	n := store.NewNode()
	n.SetString("type", "never-registered")
	_, err := LoadEffect(n)
	assert.Error(t, err)

	_, ok := NewEffect("never-registered")
	assert.False(t, ok)
}
