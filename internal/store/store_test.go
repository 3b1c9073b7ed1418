package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValuesReadBackTyped(t *testing.T) {
	n := NewNode()
	n.SetString("name", "living room")
	n.SetFloat("x", 1.5)
	n.SetInt("count", 26)

	assert.Equal(t, "living room", n.String("name"))
	assert.InDelta(t, 1.5, n.Float("x"), 1e-9)
	assert.Equal(t, 26, n.Int("count"))
}

func TestMissingKeysReadAsZero(t *testing.T) {
	n := NewNode()
	assert.Equal(t, "", n.String("nope"))
	assert.Equal(t, 0.0, n.Float("nope"))
	assert.Equal(t, 0, n.Int("nope"))
	assert.Nil(t, n.Array("nope"))
}

func TestMistypedKeysReadAsZero(t *testing.T) {
	n := NewNode()
	n.SetString("s", "text")
	assert.Equal(t, 0.0, n.Float("s"))
	n.SetFloat("f", 3)
	assert.Equal(t, "", n.String("f"))
}

func TestArrays(t *testing.T) {
	n := NewNode()
	arr := n.CreateArray("scenes", 2)
	arr[0].SetString("name", "a")
	arr[1].SetString("name", "b")

	got := n.Array("scenes")
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].String("name"))
	assert.Equal(t, "b", got[1].String("name"))

	extra := n.AppendArray("scenes")
	extra.SetString("name", "c")
	assert.Len(t, n.Array("scenes"), 3)
}

func TestClear(t *testing.T) {
	n := NewNode()
	n.SetString("k", "v")
	n.CreateArray("a", 1)
	n.Clear()
	assert.Equal(t, "", n.String("k"))
	assert.Nil(t, n.Array("a"))
}

func TestFileRoundTrip(t *testing.T) {
	root := NewNode()
	root.SetInt("activeScene", 1)
	scenes := root.CreateArray("scenes", 2)
	devs := scenes[0].CreateArray("devices", 1)
	devs[0].SetString("id", "hue:a")
	devs[0].SetFloat("t.x", -1.25)
	scenes[1].SetString("name", "empty")

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, Save(path, root))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1, got.Int("activeScene"))
	gotScenes := got.Array("scenes")
	require.Len(t, gotScenes, 2)
	gotDevs := gotScenes[0].Array("devices")
	require.Len(t, gotDevs, 1)
	assert.Equal(t, "hue:a", gotDevs[0].String("id"))
	assert.InDelta(t, -1.25, gotDevs[0].Float("t.x"), 1e-9)
	assert.Equal(t, "empty", gotScenes[1].String("name"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
