package script

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/pixart"
	"github.com/gogpu/pixart/tool"
)

func session(t *testing.T, s *Script) *tool.Session {
	t.Helper()
	img, err := s.NewImage(16, 16)
	require.NoError(t, err)
	ctx := tool.NewContext(tool.WithRand(rand.New(rand.NewPCG(7, 7))))
	return tool.NewSession(img, ctx)
}

func pixel(t *testing.T, img *pixart.Image, x, y int) pixart.RGBA {
	t.Helper()
	c, ok := img.ActiveLayer().Pixel(x, y)
	require.True(t, ok)
	return c
}

func TestParseAndRun(t *testing.T) {
	s, err := Parse([]byte(`
canvas: {width: 8, height: 8}
steps:
  - {tool: pencil, color: "#ff0000", points: [[0,0],[7,0]]}
  - {tool: paint bucket, color: "#00ff00", points: [[4,4]]}
`))
	require.NoError(t, err)
	require.Len(t, s.Steps, 2)

	sess := session(t, s)
	require.NoError(t, s.Run(sess))

	img := sess.Image()
	assert.Equal(t, 8, img.Width())
	assert.Equal(t, pixart.Red, pixel(t, img, 3, 0))
	assert.Equal(t, pixart.Green, pixel(t, img, 4, 4))
	assert.Equal(t, 3, sess.History().Len())
	assert.Equal(t, "Paint Bucket", sess.History().Label())
}

func TestLayerOpsAndHistory(t *testing.T) {
	s, err := Parse([]byte(`
canvas: {width: 4, height: 4, background: "#0000ff"}
steps:
  - {op: add-layer, name: sketch}
  - {tool: pencil, color: "#ffffff", points: [[1,1]]}
  - {op: select-layer, index: 0}
  - {op: undo}
  - {op: undo}
  - {op: redo}
`))
	require.NoError(t, err)
	sess := session(t, s)
	require.NoError(t, s.Run(sess))

	img := sess.Image()
	require.Equal(t, 2, img.Len())
	top := img.Layers()[1]
	assert.Equal(t, "sketch", top.Name())
	c, _ := top.Pixel(1, 1)
	assert.Equal(t, pixart.Transparent, c, "pencil stroke was undone")
	assert.Equal(t, pixart.Blue, img.Layers()[0].Pixels()[0])
}

func TestRemoveLayer(t *testing.T) {
	s, err := Parse([]byte(`
steps:
  - {op: add-layer, name: a}
  - {op: add-layer, name: b}
  - {op: remove-layer, index: 1}
  - {op: remove-layer}
`))
	require.NoError(t, err)
	sess := session(t, s)
	require.NoError(t, s.Run(sess))
	assert.Equal(t, 1, sess.Image().Len())
	assert.Equal(t, 16, sess.Image().Width(), "fallback size")
}

func TestRunErrorsNameTheStep(t *testing.T) {
	s, err := Parse([]byte(`
steps:
  - {op: select-layer, index: 3}
`))
	require.NoError(t, err)
	err = s.Run(session(t, s))
	require.Error(t, err)
	assert.ErrorIs(t, err, pixart.ErrLayerNotFound)
	assert.Contains(t, err.Error(), "step 0")

	s, err = Parse([]byte(`
steps:
  - {op: remove-layer}
`))
	require.NoError(t, err)
	err = s.Run(session(t, s))
	assert.ErrorIs(t, err, pixart.ErrLastLayer)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
		step string
	}{
		{"unknown key", "steps:\n  - {tool: pencil, points: [[0,0]], size: 3}\n", ""},
		{"unknown tool", "steps:\n  - {tool: lasso, points: [[0,0]]}\n", "step 0"},
		{"no points", "steps:\n  - {op: undo}\n  - {tool: pencil}\n", "step 1"},
		{"short point", "steps:\n  - {tool: pencil, points: [[0]]}\n", "step 0"},
		{"both", "steps:\n  - {tool: pencil, op: undo, points: [[0,0]]}\n", "step 0"},
		{"neither", "steps:\n  - {color: \"#fff\"}\n", "step 0"},
		{"unknown op", "steps:\n  - {op: flip}\n", "step 0"},
		{"select without index", "steps:\n  - {op: select-layer}\n", "step 0"},
		{"bad colour", "steps:\n  - {tool: pencil, color: red, points: [[0,0]]}\n", "step 0"},
		{"source and canvas", "source: a.png\ncanvas: {width: 2}\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			require.Error(t, err)
			if tt.step != "" {
				assert.ErrorIs(t, err, ErrInvalid)
				assert.Contains(t, err.Error(), tt.step)
			}
		})
	}
}

func TestLoadResolvesSource(t *testing.T) {
	dir := t.TempDir()
	src, err := pixart.NewImage(3, 2, pixart.WithBackground(pixart.Red))
	require.NoError(t, err)
	require.NoError(t, src.Save(filepath.Join(dir, "in.png")))

	path := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source: in.png
steps:
  - {tool: eraser, points: [[0,0]]}
`), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	sess := session(t, s)
	assert.Equal(t, 3, sess.Image().Width())
	assert.Equal(t, 2, sess.Image().Height())
	require.NoError(t, s.Run(sess))
	assert.Equal(t, pixart.Transparent, pixel(t, sess.Image(), 0, 0))
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
