package fluid

import (
	"errors"
	"math"
	"testing"
)

func TestNewStoreRejectsBadSizes(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		max           int
	}{
		{"zero width", 0, 64, 0},
		{"negative height", 64, -1, 0},
		{"over default max", DefaultMaxSize + 1, 64, 0},
		{"over explicit max", 128, 64, 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewStore(tc.width, tc.height, tc.max)
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
			if cfgErr.Width != tc.width || cfgErr.Height != tc.height {
				t.Errorf("error reports %dx%d, want %dx%d", cfgErr.Width, cfgErr.Height, tc.width, tc.height)
			}
		})
	}
}

func TestFieldSwap(t *testing.T) {
	store, err := NewStore(8, 4, 0)
	if err != nil {
		t.Fatal(err)
	}

	f := store.NewField("velocity", LayoutVec2, true)
	if !f.DoubleBuffered() {
		t.Fatal("expected double-buffered field")
	}
	r, w := f.Read(), f.Write()
	f.Swap()
	if f.Read() != w || f.Write() != r {
		t.Error("swap did not exchange roles")
	}
	f.Swap()
	if f.Read() != r || f.Write() != w {
		t.Error("second swap did not restore roles")
	}

	single := store.NewField("divergence", LayoutScalar, false)
	if single.DoubleBuffered() {
		t.Fatal("expected single-buffered field")
	}
	before := single.Read()
	single.Swap()
	if single.Read() != before || single.Write() != before {
		t.Error("swap changed a single-buffered field")
	}

	if n := len(store.Fields()); n != 2 {
		t.Errorf("expected 2 fields, got %d", n)
	}
	// vec2 double = 2 * 8*4*2 floats, scalar single = 8*4 floats.
	if got, want := store.Bytes(), (2*64+32)*4; got != want {
		t.Errorf("expected %d bytes, got %d", want, got)
	}
}

func TestFieldClearZeroesBothBuffers(t *testing.T) {
	store, _ := NewStore(4, 4, 0)
	f := store.NewField("density", LayoutRGBA, true)

	f.Read().Set(1, 1, 0, 3)
	f.Write().Set(2, 2, 3, -1)
	f.Clear()

	for _, g := range []*Grid{f.Read(), f.Write()} {
		if g.AbsSum() != 0 {
			t.Errorf("buffer not cleared: sum %f", g.AbsSum())
		}
	}
}

func TestGridSampleClampsToEdge(t *testing.T) {
	g := NewGrid(4, 4, 1)
	for j := 0; j < 4; j++ {
		for i := 0; i < 4; i++ {
			g.Set(i, j, 0, float32(i+10*j))
		}
	}

	tests := []struct {
		u, v float32
		want float32
	}{
		{0.125, 0.125, 0},  // centre of (0,0)
		{0.375, 0.125, 1},  // centre of (1,0)
		{0.25, 0.125, 0.5}, // halfway between (0,0) and (1,0)
		{-1, -1, 0},        // clamped low
		{2, 2, 33},         // clamped high
		{0.125, 0.375, 10}, // centre of (0,1)
		{0.875, 0.875, 33}, // centre of (3,3)
		{0.875, 0.625, 23}, // centre of (3,2)
		{0.5, 0.5, 16.5},   // middle of (1..2, 1..2)
	}
	for _, tc := range tests {
		got := g.Sample(tc.u, tc.v, 0)
		if math.Abs(float64(got-tc.want)) > 1e-4 {
			t.Errorf("Sample(%f, %f) = %f, want %f", tc.u, tc.v, got, tc.want)
		}
	}
}

func TestGridSampleNaN(t *testing.T) {
	g := NewGrid(4, 4, 1)
	for j := 0; j < 4; j++ {
		for i := 0; i < 4; i++ {
			g.Set(i, j, 0, float32(i+10*j))
		}
	}
	nan := float32(math.NaN())
	if got := g.Sample(nan, nan, 0); got != 0 {
		t.Errorf("Sample(NaN, NaN) = %f, want the (0,0) value", got)
	}
	if got := g.Sample(2, nan, 0); got != 3 {
		t.Errorf("Sample(2, NaN) = %f, want the (3,0) value", got)
	}
}

func TestGridBulkOps(t *testing.T) {
	g := NewGrid(2, 2, 1)
	copy(g.Data, []float32{3, -4, 0, 0})

	if n := g.Norm(); math.Abs(float64(n-5)) > 1e-5 {
		t.Errorf("expected norm 5, got %f", n)
	}
	if s := g.AbsSum(); s != 7 {
		t.Errorf("expected abs sum 7, got %f", s)
	}

	g.Scale(2)
	if g.Data[0] != 6 || g.Data[1] != -8 {
		t.Errorf("scale failed: %v", g.Data)
	}

	h := NewGrid(2, 2, 1)
	h.CopyFrom(g)
	if h.Data[1] != -8 {
		t.Errorf("copy failed: %v", h.Data)
	}
	h.Clear()
	if h.AbsSum() != 0 || g.AbsSum() == 0 {
		t.Error("clear touched the wrong grid")
	}
}
