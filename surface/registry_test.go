// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"slices"
	"testing"
)

func textureFactory(w, h int) (Surface, error) {
	return NewTexture(w, h), nil
}

// TestRegistryPriority tests selection order.
func TestRegistryPriority(t *testing.T) {
	r := NewRegistry()
	r.Register("low", 10, textureFactory, nil)
	r.Register("high", 100, textureFactory, nil)
	r.Register("mid", 50, textureFactory, nil)

	want := []string{"high", "mid", "low"}
	if got := r.Available(); !slices.Equal(got, want) {
		t.Errorf("Available() = %v, want %v", got, want)
	}
}

// TestRegistryUnavailableSkipped tests that unavailable backends are
// neither listed nor selected.
func TestRegistryUnavailableSkipped(t *testing.T) {
	r := NewRegistry()
	picked := ""
	r.Register("gpu", 100, func(w, h int) (Surface, error) {
		picked = "gpu"
		return NewTexture(w, h), nil
	}, func() bool { return false })
	r.Register("cpu", 10, func(w, h int) (Surface, error) {
		picked = "cpu"
		return NewTexture(w, h), nil
	}, nil)

	s, err := r.NewSurface(4, 3)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	if picked != "cpu" || s.Width() != 4 || s.Height() != 3 {
		t.Errorf("picked %q size %dx%d", picked, s.Width(), s.Height())
	}

	var unavailable *BackendUnavailableError
	if _, err := r.NewSurfaceByName("gpu", 1, 1); !errors.As(err, &unavailable) {
		t.Errorf("NewSurfaceByName(gpu) error = %v", err)
	}
}

// TestRegistryFallsBackOnError tests that a failing backend is skipped.
func TestRegistryFallsBackOnError(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	r.Register("broken", 100, func(int, int) (Surface, error) { return nil, boom }, nil)
	r.Register("cpu", 10, textureFactory, nil)

	if _, err := r.NewSurface(2, 2); err != nil {
		t.Fatalf("NewSurface: %v", err)
	}

	r.Unregister("cpu")
	if _, err := r.NewSurface(2, 2); !errors.Is(err, boom) {
		t.Errorf("NewSurface error = %v, want boom", err)
	}
}

// TestRegistryErrors tests lookup failures.
func TestRegistryErrors(t *testing.T) {
	r := NewRegistry()
	if _, err := r.NewSurface(1, 1); !errors.Is(err, ErrNoBackendAvailable) {
		t.Errorf("empty registry error = %v", err)
	}
	var notFound *BackendNotFoundError
	if _, err := r.NewSurfaceByName("nope", 1, 1); !errors.As(err, &notFound) || notFound.Name != "nope" {
		t.Errorf("unknown backend error = %v", err)
	}
}

// TestGlobalRegistryHasCPU tests the built-in backend.
func TestGlobalRegistryHasCPU(t *testing.T) {
	if !slices.Contains(Available(), "cpu") {
		t.Fatalf("Available() = %v, missing cpu", Available())
	}
	s, err := NewSurfaceByName("cpu", 8, 8)
	if err != nil {
		t.Fatalf("NewSurfaceByName: %v", err)
	}
	if _, ok := s.(*Texture); !ok {
		t.Errorf("cpu backend returned %T", s)
	}
}
