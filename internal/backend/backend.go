// Package backend runs the scene scheduler: one background goroutine renders
// the active scene at a fixed cadence and dispatches per-element colors to
// every registered provider. Control goroutines edit the canonical scene list
// through a Writer; the render goroutine works against a private snapshot and
// only takes the scene lock long enough to copy it.
package backend

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/lightscene/internal/light"
)

// tickPeriod targets ~60 Hz. The loop sleeps whatever is left of the period
// after tick work, floored at 1ms; sustained overruns drift rather than skip.
const tickPeriod = 16670 * time.Microsecond

const minSleep = time.Millisecond

// Backend owns the canonical scene list and the provider registry.
// Register providers before calling Start; the render goroutine reads the
// provider map without locking.
type Backend struct {
	mu          sync.Mutex
	scenes      []light.Scene
	activeScene int

	// dirty is set by mutators after releasing mu, read once per tick by the
	// scheduler. Staleness by one tick is fine; the atomic orders the flag
	// against the guarded scene data.
	dirty atomic.Bool

	providers map[light.ProviderType]light.Provider
	order     []light.ProviderType

	// lifecycle serializes Start/Stop; running answers IsRunning without it.
	lifecycle sync.Mutex
	running   atomic.Bool
	stopc     chan struct{}
	done      chan struct{}

	log zerolog.Logger
}

func New(log zerolog.Logger) *Backend {
	return &Backend{
		providers: map[light.ProviderType]light.Provider{},
		log:       log,
	}
}

// RegisterProvider adds a provider to the registry. Dispatch order is
// registration order.
func (b *Backend) RegisterProvider(p light.Provider) {
	b.providers[p.Type()] = p
	b.order = append(b.order, p.Type())
}

// Provider returns the provider for a type, or nil for an unsupported one.
// The lookup never mutates the registry, so any goroutine may call it while
// the scheduler runs.
func (b *Backend) Provider(t light.ProviderType) light.Provider {
	return b.providers[t]
}

// IsRunning reports whether the scheduling goroutine is alive.
func (b *Backend) IsRunning() bool { return b.running.Load() }

// Start spins up every provider and then the scheduling goroutine. No-op if
// already running. Start does not touch the canonical scene list beyond
// flagging it dirty so the first tick takes a snapshot.
func (b *Backend) Start() {
	b.lifecycle.Lock()
	defer b.lifecycle.Unlock()
	if b.running.Load() {
		return
	}

	for _, t := range b.order {
		p := b.providers[t]
		if p == nil {
			continue
		}
		if err := p.Start(); err != nil {
			b.log.Warn().Err(err).Stringer("provider", t).Msg("provider start failed")
		}
	}

	b.dirty.Store(true)
	b.stopc = make(chan struct{})
	b.done = make(chan struct{})
	b.running.Store(true)
	go b.run()
}

// Stop signals the scheduling goroutine, waits for it to exit, then stops
// every provider. No-op if not running; returns immediately in that case.
func (b *Backend) Stop() {
	b.lifecycle.Lock()
	defer b.lifecycle.Unlock()
	if !b.running.Load() {
		return
	}

	close(b.stopc)
	<-b.done
	b.running.Store(false)

	for _, t := range b.order {
		p := b.providers[t]
		if p == nil {
			continue
		}
		if err := p.Stop(); err != nil {
			b.log.Warn().Err(err).Stringer("provider", t).Msg("provider stop failed")
		}
	}
}

func (b *Backend) run() {
	defer close(b.done)

	rs := newRenderState()
	lastStart := time.Now()

	for {
		select {
		case <-b.stopc:
			return
		default:
		}

		start := time.Now()
		dt := start.Sub(lastStart)
		lastStart = start

		b.tick(rs, dt)

		// Sleep out the rest of the period, or at least a little, so an
		// expensive tick never busy-spins and Stop is observed promptly.
		sleep := tickPeriod - time.Since(start)
		if sleep < minSleep {
			sleep = minSleep
		}
		time.Sleep(sleep)
	}
}

// tick renders exactly one frame: refresh the snapshot if the canonical list
// changed, run every effect over the shared buffers, then hand each provider
// its slice. Once begun, a tick always runs to completion.
func (b *Backend) tick(rs *renderState, dt time.Duration) {
	if b.dirty.Swap(false) {
		b.mu.Lock()
		if b.activeScene >= 0 && b.activeScene < len(b.scenes) {
			rs.scene = b.scenes[b.activeScene].Clone()
		} else {
			rs.scene = light.Scene{}
		}
		b.mu.Unlock()

		b.rebuild(rs)
	}

	for _, e := range rs.scene.Effects {
		e.Tick(dt)
		e.Update(rs.boxes, rs.colors)
	}

	for _, t := range b.order {
		p := b.providers[t]
		if p == nil {
			continue
		}
		p.Update(rs.updates[t])
	}
}

// Scenes returns a copy of the canonical scene list.
func (b *Backend) Scenes() []light.Scene {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]light.Scene, len(b.scenes))
	for i := range b.scenes {
		out[i] = b.scenes[i].Clone()
	}
	return out
}

// ActiveScene returns the index of the scene the scheduler renders.
func (b *Backend) ActiveScene() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.activeScene
}

// Writer is the mutation handle for the canonical scene list. Every edit
// happens under the scene lock and flags the list dirty so the scheduler
// re-snapshots on its next tick.
type Writer struct{ b *Backend }

func (b *Backend) Writer() Writer { return Writer{b} }

// Edit applies fn to the scene list and active index under the lock.
func (w Writer) Edit(fn func(scenes *[]light.Scene, active *int)) {
	w.b.mu.Lock()
	fn(&w.b.scenes, &w.b.activeScene)
	w.b.mu.Unlock()
	w.b.dirty.Store(true)
}

// AddScene appends a scene and returns its index.
func (w Writer) AddScene(s light.Scene) int {
	idx := 0
	w.Edit(func(scenes *[]light.Scene, active *int) {
		*scenes = append(*scenes, s)
		idx = len(*scenes) - 1
	})
	return idx
}

// SetActiveScene selects which scene the scheduler renders. Out-of-range
// indices render as an empty scene rather than failing.
func (w Writer) SetActiveScene(i int) {
	w.Edit(func(scenes *[]light.Scene, active *int) { *active = i })
}

// providerLess is the sort predicate that groups same-provider devices into
// one contiguous block. Within a type the provider's own ordering applies;
// across types the provider-independent ordering does. The predicate must be
// a strict weak ordering or partition ranges silently come out wrong.
func (b *Backend) providerLess(a, c light.DeviceInScene) bool {
	at, ct := a.Device.Type(), c.Device.Type()
	if at == ct {
		if p := b.providers[at]; p != nil {
			return p.Less(a, c)
		}
		return false
	}
	return light.CompareDevices(a.Device, c.Device)
}

func sortDevices(devs []light.DeviceInScene, less func(a, b light.DeviceInScene) bool) {
	sort.SliceStable(devs, func(i, j int) bool { return less(devs[i], devs[j]) })
}
