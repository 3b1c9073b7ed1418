package backend

import "github.com/coreman2200/lightscene/internal/light"

// renderState is the scheduler goroutine's private working set: the scene
// snapshot plus the flattened parallel buffers and per-provider views derived
// from it. Nothing here is shared; only tick touches it.
type renderState struct {
	scene light.Scene

	// Parallel arrays, always index-aligned: colors[i] is the current color
	// for boxes[i], which belongs to devices[i].
	boxes   []light.Box
	devices []light.Device
	colors  []light.Color

	updates map[light.ProviderType]light.UpdateParams
}

func newRenderState() *renderState {
	return &renderState{
		updates: map[light.ProviderType]light.UpdateParams{},
	}
}

// rebuild re-derives the flattened buffers and provider views from the
// snapshot. Runs only on a dirty tick, never while effects or dispatch are
// in flight.
func (b *Backend) rebuild(rs *renderState) {
	// Group same-provider devices contiguously. The partition scan below
	// depends on this sort, so it runs even for a single-provider scene.
	sortDevices(rs.scene.Devices, b.providerLess)

	rs.boxes = rs.boxes[:0]
	rs.devices = rs.devices[:0]
	for _, d := range rs.scene.Devices {
		boxes := d.LightBoundingBoxes()
		rs.boxes = append(rs.boxes, boxes...)
		for range boxes {
			rs.devices = append(rs.devices, d.Device)
		}
	}

	// Match the color buffer to the new length. Entries that survive the
	// resize keep their color; new entries start neutral so a provider never
	// sees undefined data before the first effect pass.
	if n := len(rs.boxes); n <= len(rs.colors) {
		rs.colors = rs.colors[:n]
	} else {
		for len(rs.colors) < n {
			rs.colors = append(rs.colors, light.Color{})
		}
	}

	// One contiguous view per registered provider: advance to the first
	// device of the type, then to the first past it. Providers absent from
	// the scene get an empty (begin == end) view, not an error.
	for t := range rs.updates {
		delete(rs.updates, t)
	}
	for _, t := range b.order {
		begin := 0
		for begin < len(rs.devices) && rs.devices[begin].Type() != t {
			begin++
		}
		end := begin
		for end < len(rs.devices) && rs.devices[end].Type() == t {
			end++
		}
		rs.updates[t] = light.UpdateParams{
			BoundingBoxes:      rs.boxes[begin:end],
			Colors:             rs.colors[begin:end],
			Devices:            rs.devices[begin:end],
			BoundingBoxesDirty: true,
			ColorsDirty:        true,
			DevicesDirty:       true,
		}
	}
}
