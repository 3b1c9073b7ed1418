package backend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/lightscene/internal/light"
	"github.com/coreman2200/lightscene/internal/store"
)

// paramEffect carries one saved parameter so round trips are observable.
type paramEffect struct {
	Level float64
}

func (e *paramEffect) Name() string                                       { return "param" }
func (e *paramEffect) Tick(dt time.Duration)                              {}
func (e *paramEffect) Update(boxes []light.Box, colors []light.Color)     {}
func (e *paramEffect) Save(n *store.Node)                                 { n.SetFloat("level", e.Level) }
func (e *paramEffect) Load(n *store.Node)                                 { e.Level = n.Float("level") }

func init() {
	light.RegisterEffect("param", func() light.Effect { return &paramEffect{} })
}

func TestSaveLoadRoundTrip(t *testing.T) {
	da := &fakeDevice{typ: light.ProviderHue, id: "hue:a", boxes: 1}
	db := &fakeDevice{typ: light.ProviderHue, id: "hue:b", boxes: 2}
	ph := newFakeProvider(light.ProviderHue, da, db)

	src := newTestBackend(ph)
	tr := light.Transform{
		Location: light.Vec3{X: 1.5, Y: -2, Z: 0.25},
		Scale:    light.Vec3{X: 2, Y: 1, Z: 1},
		Rotation: light.Rotation{Pitch: 0.1, Yaw: 0.2, Roll: 0.3},
	}
	src.Writer().AddScene(light.Scene{
		Devices: []light.DeviceInScene{
			{Device: da, Transform: tr},
			{Device: db, Transform: light.IdentityTransform()},
		},
		Effects: []light.Effect{&paramEffect{Level: 0.75}},
	})
	src.Writer().SetActiveScene(0)

	root := store.NewNode()
	src.Save(root)

	dst := newTestBackend(newFakeProvider(light.ProviderHue, da, db))
	dst.Load(root)

	scenes := dst.Scenes()
	require.Len(t, scenes, 1)
	require.Len(t, scenes[0].Devices, 2)
	require.Len(t, scenes[0].Effects, 1)
	assert.Equal(t, 0, dst.ActiveScene())

	assert.Equal(t, "hue:a", scenes[0].Devices[0].Device.UniqueID())
	assert.Equal(t, "hue:b", scenes[0].Devices[1].Device.UniqueID())

	got := scenes[0].Devices[0].Transform
	assert.InDelta(t, tr.Location.X, got.Location.X, 1e-9)
	assert.InDelta(t, tr.Location.Y, got.Location.Y, 1e-9)
	assert.InDelta(t, tr.Location.Z, got.Location.Z, 1e-9)
	assert.InDelta(t, tr.Scale.X, got.Scale.X, 1e-9)
	assert.InDelta(t, tr.Rotation.Pitch, got.Rotation.Pitch, 1e-9)
	assert.InDelta(t, tr.Rotation.Yaw, got.Rotation.Yaw, 1e-9)
	assert.InDelta(t, tr.Rotation.Roll, got.Rotation.Roll, 1e-9)

	assert.InDelta(t, 0.75, scenes[0].Effects[0].(*paramEffect).Level, 1e-9)
}

// Location y and rotation yaw persist under distinct keys; a transform with
// differing values must survive a round trip unconfused.
func TestLocationYAndYawDoNotCollide(t *testing.T) {
	da := &fakeDevice{typ: light.ProviderHue, id: "hue:a", boxes: 1}
	src := newTestBackend(newFakeProvider(light.ProviderHue, da))
	src.Writer().AddScene(light.Scene{
		Devices: []light.DeviceInScene{{
			Device: da,
			Transform: light.Transform{
				Location: light.Vec3{Y: 4},
				Rotation: light.Rotation{Yaw: 9},
			},
		}},
	})

	root := store.NewNode()
	src.Save(root)

	dst := newTestBackend(newFakeProvider(light.ProviderHue, da))
	dst.Load(root)

	got := dst.Scenes()[0].Devices[0].Transform
	assert.InDelta(t, 4.0, got.Location.Y, 1e-9)
	assert.InDelta(t, 9.0, got.Rotation.Yaw, 1e-9)
}

func TestLoadSkipsUnresolvableDevices(t *testing.T) {
	da := &fakeDevice{typ: light.ProviderHue, id: "hue:a", boxes: 1}
	ph := newFakeProvider(light.ProviderHue, da)
	b := newTestBackend(ph)

	root := store.NewNode()
	sceneNodes := root.CreateArray("scenes", 1)
	devs := sceneNodes[0].CreateArray("devices", 3)
	devs[0].SetString("id", "nosuch:x") // unknown provider
	devs[1].SetString("id", "hue:gone") // provider cannot resolve
	devs[2].SetString("id", "hue:a")    // resolves
	devs[2].SetFloat("t.x", 3)

	b.Load(root)

	scenes := b.Scenes()
	require.Len(t, scenes, 1)
	require.Len(t, scenes[0].Devices, 1)
	assert.Equal(t, "hue:a", scenes[0].Devices[0].Device.UniqueID())
	assert.InDelta(t, 3.0, scenes[0].Devices[0].Transform.Location.X, 1e-9)
}

func TestLoadSkipsUnknownEffects(t *testing.T) {
	b := newTestBackend(newFakeProvider(light.ProviderHue))

	root := store.NewNode()
	sceneNodes := root.CreateArray("scenes", 1)
	effs := sceneNodes[0].CreateArray("effects", 2)
	effs[0].SetString("type", "nonexistent")
	effs[1].SetString("type", "param")
	effs[1].SetFloat("level", 0.5)

	b.Load(root)

	scenes := b.Scenes()
	require.Len(t, scenes, 1)
	require.Len(t, scenes[0].Effects, 1)
	assert.Equal(t, "param", scenes[0].Effects[0].Name())
}

func TestLoadMarksDirtyForNextTick(t *testing.T) {
	da := &fakeDevice{typ: light.ProviderHue, id: "hue:a", boxes: 2}
	ph := newFakeProvider(light.ProviderHue, da)
	b := newTestBackend(ph)

	root := store.NewNode()
	root.SetInt("activeScene", 0)
	sceneNodes := root.CreateArray("scenes", 1)
	devs := sceneNodes[0].CreateArray("devices", 1)
	devs[0].SetString("id", "hue:a")

	b.Load(root)

	rs := newRenderState()
	b.tick(rs, time.Millisecond)
	assert.Equal(t, 2, len(rs.colors))
}
