// Package preview is a hardware-free provider: virtual panels whose frames
// are broadcast to WebSocket clients, so a UI can show what a scene renders
// without any lights attached.
package preview

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/coreman2200/lightscene/internal/light"
	"github.com/coreman2200/lightscene/internal/store"
)

const writeDeadline = 200 * time.Millisecond

// Provider owns virtual panel devices and a set of subscribed clients.
type Provider struct {
	mu      sync.Mutex
	panels  map[string]*Panel
	clients map[*websocket.Conn]bool

	frameID uint64
	log     zerolog.Logger
}

func New(log zerolog.Logger) *Provider {
	return &Provider{
		panels:  map[string]*Panel{},
		clients: map[*websocket.Conn]bool{},
		log:     log,
	}
}

func (p *Provider) Type() light.ProviderType { return light.ProviderPreview }

func (p *Provider) Start() error { return nil }

func (p *Provider) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for c := range p.clients {
		c.Close()
		delete(p.clients, c)
	}
	return nil
}

// AddPanel creates a virtual w×h panel with a fresh id.
func (p *Provider) AddPanel(w, h int) *Panel {
	return p.addPanel("preview:"+uuid.NewString(), w, h)
}

func (p *Provider) addPanel(id string, w, h int) *Panel {
	panel := &Panel{id: id, w: w, h: h}
	p.mu.Lock()
	p.panels[id] = panel
	p.mu.Unlock()
	return panel
}

func (p *Provider) DeviceByUniqueID(id string) (light.Device, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	panel, ok := p.panels[id]
	return panel, ok
}

func (p *Provider) Less(a, b light.DeviceInScene) bool {
	return a.Device.UniqueID() < b.Device.UniqueID()
}

type frame struct {
	T       int64    `json:"t"`
	FrameID uint64   `json:"frame_id"`
	Panels  []pframe `json:"panels"`
}

type pframe struct {
	ID  string `json:"id"`
	W   int    `json:"w"`
	H   int    `json:"h"`
	RGB []byte `json:"rgb"`
}

// Update packs the dispatched range into per-panel RGB byte frames and
// broadcasts them. With no clients connected it is close to free.
func (p *Provider) Update(params light.UpdateParams) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.clients) == 0 {
		return
	}

	f := frame{T: time.Now().UnixNano(), FrameID: p.frameID}
	p.frameID++

	for i := 0; i < params.Len(); {
		panel, ok := params.Devices[i].(*Panel)
		if !ok || panel.Count() == 0 {
			i++
			continue
		}
		end := i + panel.Count()
		if end > params.Len() {
			end = params.Len()
		}
		rgb := make([]byte, 0, (end-i)*3)
		for _, c := range params.Colors[i:end] {
			r, g, b := c.RGB8()
			rgb = append(rgb, r, g, b)
		}
		f.Panels = append(f.Panels, pframe{ID: panel.id, W: panel.w, H: panel.h, RGB: rgb})
		i = end
	}

	b, _ := json.Marshal(f)
	for c := range p.clients {
		c.SetWriteDeadline(time.Now().Add(writeDeadline))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			p.log.Debug().Err(err).Msg("preview frame write failed")
		}
	}
}

// HandleWS subscribes an HTTP client to the frame stream.
func (p *Provider) HandleWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	p.mu.Lock()
	p.clients[conn] = true
	p.mu.Unlock()

	go func() {
		defer func() {
			p.mu.Lock()
			delete(p.clients, conn)
			p.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (p *Provider) Save(n *store.Node) {
	p.mu.Lock()
	panels := make([]*Panel, 0, len(p.panels))
	for _, panel := range p.panels {
		panels = append(panels, panel)
	}
	p.mu.Unlock()
	sort.Slice(panels, func(i, j int) bool { return panels[i].id < panels[j].id })

	nodes := n.CreateArray("previewPanels", len(panels))
	for i, panel := range panels {
		nodes[i].SetString("id", panel.id)
		nodes[i].SetInt("w", panel.w)
		nodes[i].SetInt("h", panel.h)
	}
}

func (p *Provider) Load(n *store.Node) {
	for _, pn := range n.Array("previewPanels") {
		id := pn.String("id")
		if id == "" {
			continue
		}
		p.addPanel(id, pn.Int("w"), pn.Int("h"))
	}
}

// Panel is a virtual w×h grid of light elements on a unit lattice in the
// local XY plane.
type Panel struct {
	id   string
	w, h int
}

func (pl *Panel) Type() light.ProviderType { return light.ProviderPreview }

func (pl *Panel) UniqueID() string { return pl.id }

func (pl *Panel) Count() int { return pl.w * pl.h }

func (pl *Panel) LightBoundingBoxes(t light.Transform) []light.Box {
	boxes := make([]light.Box, 0, pl.Count())
	dx, dy := pl.w-1, pl.h-1
	if dx < 1 {
		dx = 1
	}
	if dy < 1 {
		dy = 1
	}
	for y := 0; y < pl.h; y++ {
		for x := 0; x < pl.w; x++ {
			boxes = append(boxes, t.ApplyBox(light.Box{
				Center: light.Vec3{
					X: float64(x) / float64(dx),
					Y: float64(y) / float64(dy),
				},
				HalfExtents: light.Vec3{X: 0.5 / float64(dx), Y: 0.5 / float64(dy), Z: 0.01},
			}))
		}
	}
	return boxes
}
