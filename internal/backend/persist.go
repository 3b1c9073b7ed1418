package backend

import (
	"github.com/coreman2200/lightscene/internal/light"
	"github.com/coreman2200/lightscene/internal/store"
)

// Transform keys. Location and rotation use distinct keys throughout;
// rotation yaw is "t.yw", never "t.y".
const (
	keyLocX   = "t.x"
	keyLocY   = "t.y"
	keyLocZ   = "t.z"
	keyScaleX = "t.sx"
	keyScaleY = "t.sy"
	keyScaleZ = "t.sz"
	keyPitch  = "t.p"
	keyYaw    = "t.yw"
	keyRoll   = "t.r"
)

// Save writes every provider's state and then the scene list to the settings
// tree. The tree is cleared first; callers persist it to disk afterwards.
func (b *Backend) Save(root *store.Node) {
	root.Clear()

	for _, t := range b.order {
		if p := b.providers[t]; p != nil {
			p.Save(root)
		}
	}

	scenes := b.Scenes()
	active := b.ActiveScene()
	root.SetInt("activeScene", active)

	sceneNodes := root.CreateArray("scenes", len(scenes))
	for i, s := range scenes {
		n := sceneNodes[i]

		for _, e := range s.Effects {
			light.SaveEffect(n.AppendArray("effects"), e)
		}

		for _, d := range s.Devices {
			dn := n.AppendArray("devices")
			dn.SetString("id", d.Device.UniqueID())

			t := d.Transform
			dn.SetFloat(keyLocX, t.Location.X)
			dn.SetFloat(keyLocY, t.Location.Y)
			dn.SetFloat(keyLocZ, t.Location.Z)
			dn.SetFloat(keyScaleX, t.Scale.X)
			dn.SetFloat(keyScaleY, t.Scale.Y)
			dn.SetFloat(keyScaleZ, t.Scale.Z)
			dn.SetFloat(keyPitch, t.Rotation.Pitch)
			dn.SetFloat(keyYaw, t.Rotation.Yaw)
			dn.SetFloat(keyRoll, t.Rotation.Roll)
		}
	}
}

// Load lets every provider restore its state first, then rebuilds the scene
// list. A device whose id resolves to no provider or no live device is
// dropped; the rest of the scene loads normally. Missing transform keys read
// as zero.
func (b *Backend) Load(root *store.Node) {
	for _, t := range b.order {
		if p := b.providers[t]; p != nil {
			p.Load(root)
		}
	}

	var scenes []light.Scene
	for _, n := range root.Array("scenes") {
		var s light.Scene

		for _, en := range n.Array("effects") {
			e, err := light.LoadEffect(en)
			if err != nil {
				b.log.Warn().Err(err).Msg("skipping effect")
				continue
			}
			s.Effects = append(s.Effects, e)
		}

		for _, dn := range n.Array("devices") {
			id := dn.String("id")
			p := b.Provider(light.ProviderTypeFromUniqueID(id))
			if p == nil {
				b.log.Warn().Str("id", id).Msg("skipping device with unknown provider")
				continue
			}
			d, ok := p.DeviceByUniqueID(id)
			if !ok {
				b.log.Warn().Str("id", id).Msg("skipping unresolvable device")
				continue
			}

			s.Devices = append(s.Devices, light.DeviceInScene{
				Device: d,
				Transform: light.Transform{
					Location: light.Vec3{X: dn.Float(keyLocX), Y: dn.Float(keyLocY), Z: dn.Float(keyLocZ)},
					Scale:    light.Vec3{X: dn.Float(keyScaleX), Y: dn.Float(keyScaleY), Z: dn.Float(keyScaleZ)},
					Rotation: light.Rotation{Pitch: dn.Float(keyPitch), Yaw: dn.Float(keyYaw), Roll: dn.Float(keyRoll)},
				},
			})
		}

		scenes = append(scenes, s)
	}

	b.mu.Lock()
	b.scenes = scenes
	b.activeScene = root.Int("activeScene")
	b.mu.Unlock()
	b.dirty.Store(true)
}
