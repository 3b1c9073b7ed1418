package light

// Scene is one complete lighting configuration: an ordered list of placed
// devices plus an ordered list of effects. Device order is mutated by the
// scheduler's provider sort; effect order is the execution (and overwrite)
// order.
type Scene struct {
	Devices []DeviceInScene
	Effects []Effect
}

// Clone copies the scene's slices so the render goroutine can sort and
// iterate without touching the canonical lists. Device and effect instances
// themselves are shared: devices are owned by their providers, and effects
// carry animation state that must survive a re-copy.
func (s Scene) Clone() Scene {
	out := Scene{}
	if len(s.Devices) > 0 {
		out.Devices = make([]DeviceInScene, len(s.Devices))
		copy(out.Devices, s.Devices)
	}
	if len(s.Effects) > 0 {
		out.Effects = make([]Effect, len(s.Effects))
		copy(out.Effects, s.Effects)
	}
	return out
}
