// Package script replays YAML descriptions of editing sessions.
//
// A script names a starting canvas and a list of steps. Tool steps are
// single gestures: press on the first point, drag through the rest and
// release on the last. Op steps edit the layer stack or walk the history.
//
//	canvas: {width: 64, height: 64}
//	steps:
//	  - {tool: pencil, color: "#ff0000", points: [[0,0],[10,10]]}
//	  - {tool: paint bucket, color: "#00ff00", points: [[30,30]]}
//	  - {op: add-layer, name: sketch}
//	  - {op: undo}
package script

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/pixart"
	"github.com/gogpu/pixart/tool"
)

// ErrInvalid is wrapped by every script validation failure.
var ErrInvalid = errors.New("script: invalid")

// Op names a non-drawing step.
type Op string

// Supported ops.
const (
	OpAddLayer    Op = "add-layer"
	OpRemoveLayer Op = "remove-layer"
	OpSelectLayer Op = "select-layer"
	OpUndo        Op = "undo"
	OpRedo        Op = "redo"
)

// Script is a decoded script file.
type Script struct {
	// Canvas gives the size of a new blank document.
	Canvas Canvas `yaml:"canvas"`

	// Source opens an image file instead. Relative paths are resolved
	// against the script's directory.
	Source string `yaml:"source"`

	Steps []Step `yaml:"steps"`

	dir string
}

// Canvas describes a blank document.
type Canvas struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Background string `yaml:"background"`
}

// Step is one gesture or op. Exactly one of Tool and Op is set.
type Step struct {
	Tool   string  `yaml:"tool"`
	Op     Op      `yaml:"op"`
	Color  string  `yaml:"color"`
	Points [][]int `yaml:"points"`
	Name   string  `yaml:"name"`
	Index  *int    `yaml:"index"`

	tool  tool.Tool
	color *pixart.RGBA
}

// Load reads and validates the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("script: read: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.dir = filepath.Dir(path)
	return s, nil
}

// Parse decodes and validates a script. Unknown keys are rejected.
func Parse(data []byte) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("script: decode: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Script) validate() error {
	if s.Source != "" && (s.Canvas.Width != 0 || s.Canvas.Height != 0) {
		return fmt.Errorf("%w: both canvas and source given", ErrInvalid)
	}
	if s.Canvas.Width < 0 || s.Canvas.Height < 0 {
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalid, s.Canvas.Width, s.Canvas.Height)
	}
	if s.Canvas.Background != "" {
		if _, err := pixart.Hex(s.Canvas.Background); err != nil {
			return fmt.Errorf("%w: background: %w", ErrInvalid, err)
		}
	}
	for i := range s.Steps {
		if err := s.Steps[i].validate(); err != nil {
			return fmt.Errorf("script: step %d: %w", i, err)
		}
	}
	return nil
}

func (st *Step) validate() error {
	switch {
	case st.Tool != "" && st.Op != "":
		return fmt.Errorf("%w: both tool and op given", ErrInvalid)
	case st.Tool == "" && st.Op == "":
		return fmt.Errorf("%w: neither tool nor op given", ErrInvalid)
	}

	if st.Color != "" {
		c, err := pixart.Hex(st.Color)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		st.color = &c
	}

	if st.Tool != "" {
		t, err := tool.ParseTool(st.Tool)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		st.tool = t
		if len(st.Points) == 0 {
			return fmt.Errorf("%w: %s needs at least one point", ErrInvalid, t)
		}
		for j, p := range st.Points {
			if len(p) != 2 {
				return fmt.Errorf("%w: point %d has %d coordinates", ErrInvalid, j, len(p))
			}
		}
		return nil
	}

	switch st.Op {
	case OpAddLayer, OpRemoveLayer, OpUndo, OpRedo:
	case OpSelectLayer:
		if st.Index == nil {
			return fmt.Errorf("%w: %s needs an index", ErrInvalid, st.Op)
		}
	default:
		return fmt.Errorf("%w: unknown op %q", ErrInvalid, st.Op)
	}
	return nil
}

// NewImage creates the starting document. Without a source or canvas size
// the fallback size is used.
func (s *Script) NewImage(fallbackWidth, fallbackHeight int) (*pixart.Image, error) {
	if s.Source != "" {
		src := s.Source
		if !filepath.IsAbs(src) && s.dir != "" {
			src = filepath.Join(s.dir, src)
		}
		return pixart.LoadImage(src)
	}

	w, h := s.Canvas.Width, s.Canvas.Height
	if w == 0 {
		w = fallbackWidth
	}
	if h == 0 {
		h = fallbackHeight
	}
	var opts []pixart.ImageOption
	if s.Canvas.Background != "" {
		bg, err := pixart.Hex(s.Canvas.Background)
		if err != nil {
			return nil, fmt.Errorf("%w: background: %w", ErrInvalid, err)
		}
		opts = append(opts, pixart.WithBackground(bg))
	}
	return pixart.NewImage(w, h, opts...)
}

// Run replays every step on sess. It stops at the first failing step and
// names it in the error.
func (s *Script) Run(sess *tool.Session) error {
	for i := range s.Steps {
		if err := s.Steps[i].apply(sess); err != nil {
			return fmt.Errorf("script: step %d: %w", i, err)
		}
	}
	pixart.Logger().Info("script finished", "steps", len(s.Steps),
		"history", sess.History().Len())
	return nil
}

func (st *Step) apply(sess *tool.Session) error {
	if st.color != nil {
		sess.Context().Color = *st.color
	}
	if st.Op == "" {
		sess.SetTool(st.tool)
		first := st.Points[0]
		sess.Press(first[0], first[1])
		for _, p := range st.Points[1:] {
			sess.Drag(p[0], p[1])
		}
		last := st.Points[len(st.Points)-1]
		sess.Release(last[0], last[1])
		return nil
	}

	img := sess.Image()
	switch st.Op {
	case OpAddLayer:
		img.AddLayer(st.Name)
		sess.Commit(string(st.Op))
	case OpRemoveLayer:
		id := img.ActiveLayer().ID()
		if st.Index != nil {
			layers := img.Layers()
			if *st.Index < 0 || *st.Index >= len(layers) {
				return fmt.Errorf("%w: index %d", pixart.ErrLayerNotFound, *st.Index)
			}
			id = layers[*st.Index].ID()
		}
		if err := img.RemoveLayer(id); err != nil {
			return err
		}
		sess.Commit(string(st.Op))
	case OpSelectLayer:
		if err := img.SetActiveIndex(*st.Index); err != nil {
			return err
		}
	case OpUndo:
		if !sess.Undo() {
			pixart.Logger().Warn("nothing to undo")
		}
	case OpRedo:
		if !sess.Redo() {
			pixart.Logger().Warn("nothing to redo")
		}
	}
	return nil
}
