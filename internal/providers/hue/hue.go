// Package hue pushes scene colors to lights behind a Hue-style bridge. The
// bridge network protocol lives behind the Bridge interface so the provider
// can be driven against a real bridge, a demo bridge, or a test double.
package hue

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/lightscene/internal/light"
	"github.com/coreman2200/lightscene/internal/store"
)

// Bridge is the subset of bridge operations the provider needs.
type Bridge interface {
	// SetLightColor pushes one light's color as CIE xy + brightness 0..1.
	SetLightColor(ctx context.Context, lightID string, x, y, brightness float64) error
}

// Provider owns the bridge's lights and translates dispatched color ranges
// into per-light bridge calls. Dispatch runs on the scheduler goroutine; a
// short per-call timeout keeps a wedged bridge from stalling ticks forever.
type Provider struct {
	mu     sync.Mutex
	lights map[string]*Light

	bridge  Bridge
	timeout time.Duration
	log     zerolog.Logger
}

func New(bridge Bridge, log zerolog.Logger) *Provider {
	return &Provider{
		lights:  map[string]*Light{},
		bridge:  bridge,
		timeout: 500 * time.Millisecond,
		log:     log,
	}
}

func (p *Provider) Type() light.ProviderType { return light.ProviderHue }

func (p *Provider) Start() error { return nil }

func (p *Provider) Stop() error { return nil }

// AddLight registers a light the bridge reported. lightID is the bridge's
// own id; the device's unique id is namespaced under "hue:".
func (p *Provider) AddLight(lightID, name string) *Light {
	l := &Light{id: "hue:" + lightID, bridgeID: lightID, name: name}
	p.mu.Lock()
	p.lights[l.id] = l
	p.mu.Unlock()
	return l
}

func (p *Provider) DeviceByUniqueID(id string) (light.Device, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.lights[id]
	return l, ok
}

func (p *Provider) Less(a, b light.DeviceInScene) bool {
	return a.Device.UniqueID() < b.Device.UniqueID()
}

// Update pushes the dispatched range to the bridge, one call per element.
// Errors are logged and dropped; the scheduler never sees them.
func (p *Provider) Update(params light.UpdateParams) {
	if p.bridge == nil {
		return
	}
	for i := 0; i < params.Len(); i++ {
		l, ok := params.Devices[i].(*Light)
		if !ok {
			continue
		}
		x, y, bri := xyFromColor(params.Colors[i])

		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		err := p.bridge.SetLightColor(ctx, l.bridgeID, x, y, bri)
		cancel()
		if err != nil {
			p.log.Debug().Err(err).Str("light", l.bridgeID).Msg("bridge update failed")
		}
	}
}

func (p *Provider) Save(n *store.Node) {
	p.mu.Lock()
	lights := make([]*Light, 0, len(p.lights))
	for _, l := range p.lights {
		lights = append(lights, l)
	}
	p.mu.Unlock()
	sort.Slice(lights, func(i, j int) bool { return lights[i].id < lights[j].id })

	nodes := n.CreateArray("hueLights", len(lights))
	for i, l := range lights {
		nodes[i].SetString("id", l.bridgeID)
		nodes[i].SetString("name", l.name)
	}
}

func (p *Provider) Load(n *store.Node) {
	for _, ln := range n.Array("hueLights") {
		id := ln.String("id")
		if id == "" {
			continue
		}
		p.AddLight(id, ln.String("name"))
	}
}

// Light is one bulb. A bulb is a single addressable element: one bounding
// box at the placement's location, sized by its scale.
type Light struct {
	id       string
	bridgeID string
	name     string
}

func (l *Light) Type() light.ProviderType { return light.ProviderHue }

func (l *Light) UniqueID() string { return l.id }

func (l *Light) Name() string { return l.name }

func (l *Light) LightBoundingBoxes(t light.Transform) []light.Box {
	return []light.Box{t.ApplyBox(light.Box{HalfExtents: light.Vec3{X: 0.5, Y: 0.5, Z: 0.5}})}
}

// xyFromColor converts to the CIE xy + brightness triple bridges expect.
// sRGB primaries, D65; good enough for bulb gamuts.
func xyFromColor(c light.Color) (float64, float64, float64) {
	r, g, b := c.RGB()
	X := 0.4124*r + 0.3576*g + 0.1805*b
	Y := 0.2126*r + 0.7152*g + 0.0722*b
	Z := 0.0193*r + 0.1192*g + 0.9505*b
	sum := X + Y + Z
	if sum == 0 {
		// Off: park the chromaticity at the white point.
		return 0.3127, 0.3290, 0
	}
	return X / sum, Y / sum, Y
}
