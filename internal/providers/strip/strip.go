// Package strip drives addressable LED strips (WS2812 class) over SPI via
// periph.io. When no SPI port is available the provider falls back to a
// console drawer so scenes stay visible on development machines.
package strip

import (
	"fmt"
	"image"
	"image/color"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"

	"github.com/coreman2200/lightscene/internal/light"
	"github.com/coreman2200/lightscene/internal/store"
)

const refreshRate = 800 * physic.KiloHertz

// Provider owns one device per configured strip and writes frames through a
// display.Drawer per strip.
type Provider struct {
	mu     sync.Mutex
	strips map[string]*Strip

	drawers map[string]display.Drawer
	ports   map[string]spi.PortCloser

	log zerolog.Logger
}

func New(log zerolog.Logger) *Provider {
	return &Provider{
		strips:  map[string]*Strip{},
		drawers: map[string]display.Drawer{},
		ports:   map[string]spi.PortCloser{},
		log:     log,
	}
}

func (p *Provider) Type() light.ProviderType { return light.ProviderStrip }

// AddStrip registers a strip on an SPI port ("/dev/spidev0.0") with a given
// LED count. Must happen before Start so the port gets opened.
func (p *Provider) AddStrip(port string, count int) *Strip {
	s := &Strip{id: "strip:" + port, port: port, count: count}
	p.mu.Lock()
	p.strips[s.id] = s
	p.mu.Unlock()
	return s
}

// Start initializes periph host drivers and opens a drawer per strip. A strip
// whose port cannot be opened renders to the console instead of failing the
// provider.
func (p *Provider) Start() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("periph host init: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for id, s := range p.strips {
		if _, ok := p.drawers[id]; ok {
			continue
		}
		port, err := spireg.Open(s.port)
		if err != nil {
			p.log.Warn().Err(err).Str("port", s.port).Msg("no SPI port, using console drawer")
			p.drawers[id] = screen.New(s.count)
			continue
		}
		dev, err := nrzled.NewSPI(port, &nrzled.Opts{
			NumPixels: s.count,
			Channels:  3,
			Freq:      (refreshRate * 3) + 100*physic.KiloHertz,
		})
		if err != nil {
			port.Close()
			return fmt.Errorf("nrzled on %s: %w", s.port, err)
		}
		p.ports[id] = port
		p.drawers[id] = dev
	}
	return nil
}

func (p *Provider) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var first error
	for id, d := range p.drawers {
		if err := d.Halt(); err != nil && first == nil {
			first = err
		}
		delete(p.drawers, id)
	}
	for id, port := range p.ports {
		if err := port.Close(); err != nil && first == nil {
			first = err
		}
		delete(p.ports, id)
	}
	return first
}

func (p *Provider) DeviceByUniqueID(id string) (light.Device, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.strips[id]
	return s, ok
}

func (p *Provider) Less(a, b light.DeviceInScene) bool {
	return a.Device.UniqueID() < b.Device.UniqueID()
}

// Update walks the dispatched range. Each placement of a strip contributes a
// run of exactly count elements, so runs are consumed strip by strip.
func (p *Provider) Update(params light.UpdateParams) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := 0; i < params.Len(); {
		s, ok := params.Devices[i].(*Strip)
		if !ok || s.count == 0 {
			i++
			continue
		}
		end := i + s.count
		if end > params.Len() {
			end = params.Len()
		}
		if d := p.drawers[s.id]; d != nil {
			img := frameImage(params.Colors[i:end])
			if err := d.Draw(d.Bounds(), img, image.Point{}); err != nil {
				p.log.Debug().Err(err).Str("strip", s.port).Msg("strip draw failed")
			}
		}
		i = end
	}
}

func (p *Provider) Save(n *store.Node) {
	p.mu.Lock()
	strips := make([]*Strip, 0, len(p.strips))
	for _, s := range p.strips {
		strips = append(strips, s)
	}
	p.mu.Unlock()
	sort.Slice(strips, func(i, j int) bool { return strips[i].id < strips[j].id })

	nodes := n.CreateArray("strips", len(strips))
	for i, s := range strips {
		nodes[i].SetString("port", s.port)
		nodes[i].SetInt("count", s.count)
	}
}

func (p *Provider) Load(n *store.Node) {
	for _, sn := range n.Array("strips") {
		port := sn.String("port")
		if port == "" {
			continue
		}
		p.AddStrip(port, sn.Int("count"))
	}
}

// frameImage packs a color run into the 1-pixel-tall image nrzled consumes.
func frameImage(colors []light.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, len(colors), 1))
	for i, c := range colors {
		r, g, b := c.RGB8()
		img.SetNRGBA(i, 0, color.NRGBA{R: r, G: g, B: b, A: 255})
	}
	return img
}

// Strip is one LED strip. Its elements lie on a unit line along local X,
// stretched into the room by the placement transform.
type Strip struct {
	id    string
	port  string
	count int
}

func (s *Strip) Type() light.ProviderType { return light.ProviderStrip }

func (s *Strip) UniqueID() string { return s.id }

func (s *Strip) Count() int { return s.count }

func (s *Strip) LightBoundingBoxes(t light.Transform) []light.Box {
	boxes := make([]light.Box, s.count)
	den := s.count - 1
	if den < 1 {
		den = 1
	}
	half := 0.5 / float64(den)
	for i := range boxes {
		boxes[i] = t.ApplyBox(light.Box{
			Center:      light.Vec3{X: float64(i) / float64(den)},
			HalfExtents: light.Vec3{X: half, Y: half, Z: half},
		})
	}
	return boxes
}
