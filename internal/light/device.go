package light

import (
	"strings"

	"github.com/coreman2200/lightscene/internal/store"
)

// ProviderType identifies which backend owns a device. Values double as the
// cross-provider sort order that keeps flattened buffers contiguous.
type ProviderType int

const (
	ProviderNone ProviderType = iota
	ProviderHue
	ProviderStrip
	ProviderPreview
)

func (t ProviderType) String() string {
	switch t {
	case ProviderHue:
		return "hue"
	case ProviderStrip:
		return "strip"
	case ProviderPreview:
		return "preview"
	default:
		return "none"
	}
}

// ProviderTypeFromUniqueID decodes the owning provider from a device id.
// Ids are "<provider>:<provider-specific>"; unknown prefixes map to ProviderNone.
func ProviderTypeFromUniqueID(id string) ProviderType {
	prefix, _, ok := strings.Cut(id, ":")
	if !ok {
		return ProviderNone
	}
	switch prefix {
	case "hue":
		return ProviderHue
	case "strip":
		return ProviderStrip
	case "preview":
		return ProviderPreview
	default:
		return ProviderNone
	}
}

// Device is one addressable lighting endpoint. Devices are owned by their
// provider; scenes hold shared references resolved through the provider.
type Device interface {
	Type() ProviderType
	UniqueID() string
	// LightBoundingBoxes yields one box per addressable light element of the
	// device, already mapped into room space by the given transform.
	LightBoundingBoxes(t Transform) []Box
}

// DeviceInScene pairs a device with its placement. The same device may appear
// more than once in a scene; each entry is an independent placement.
type DeviceInScene struct {
	Device    Device
	Transform Transform
}

// LightBoundingBoxes queries the device under this entry's transform.
func (d DeviceInScene) LightBoundingBoxes() []Box {
	return d.Device.LightBoundingBoxes(d.Transform)
}

// CompareDevices orders devices that belong to different providers. Ordering
// within one provider is that provider's Less.
func CompareDevices(a, b Device) bool {
	if a.Type() != b.Type() {
		return a.Type() < b.Type()
	}
	return a.UniqueID() < b.UniqueID()
}

// Provider is a backend that can start/stop, resolve devices, and push color
// updates for devices of its type.
type Provider interface {
	Type() ProviderType
	Start() error
	Stop() error
	// Update receives this provider's slice of the flattened buffers after
	// effects have run. Errors are the provider's to log; the scheduler does
	// not inspect dispatch results.
	Update(params UpdateParams)
	Save(n *store.Node)
	Load(n *store.Node)
	// Less orders two placements of this provider's devices. Only called for
	// devices whose Type matches the provider.
	Less(a, b DeviceInScene) bool
	DeviceByUniqueID(id string) (Device, bool)
}

// UpdateParams is one provider's view into the shared flattened buffers: the
// contiguous sub-range holding that provider's devices. The slices alias the
// scheduler's arrays and are recomputed whenever the scene is rebuilt; they
// must not be retained across ticks.
type UpdateParams struct {
	BoundingBoxes []Box
	Colors        []Color
	Devices       []Device

	// Dirty flags signal that the sub-range changed since the last rebuild
	// and must be re-read. They are set when the scene is re-flattened.
	BoundingBoxesDirty bool
	ColorsDirty        bool
	DevicesDirty       bool
}

// Len reports the number of light elements in the view.
func (p UpdateParams) Len() int { return len(p.Colors) }
