package gifenc

import (
	"errors"
	"image/color"
	"testing"
)

func TestNewPalette(t *testing.T) {
	p, err := NewPalette([]color.Color{
		color.RGBA{255, 0, 0, 255},
		color.RGBA{0, 255, 0, 255},
		color.RGBA{0, 0, 255, 255},
	})
	if err != nil {
		t.Fatal(err)
	}
	if p.Len() != 3 || p.Transparent() != -1 {
		t.Fatalf("len %d, transparent %d", p.Len(), p.Transparent())
	}
	if p.At(1) != [3]uint8{0, 255, 0} {
		t.Fatalf("palette[1] = %v", p.At(1))
	}
}

func TestNewPaletteTransparent(t *testing.T) {
	p, err := NewPalette([]color.Color{
		color.RGBA{255, 0, 0, 255},
		color.RGBA{},
		color.RGBA{0, 0, 255, 255},
	})
	if err != nil {
		t.Fatal(err)
	}
	if p.Transparent() != 1 {
		t.Fatalf("transparent slot = %d, want 1", p.Transparent())
	}
}

func TestNewPaletteErrors(t *testing.T) {
	if _, err := NewPalette(nil); !errors.Is(err, ErrInvalidPaletteSize) {
		t.Fatalf("empty: got %v, want ErrInvalidPaletteSize", err)
	}
	big := make([]color.Color, 257)
	for i := range big {
		big[i] = color.RGBA{uint8(i), uint8(i >> 8), 0, 255}
	}
	if _, err := NewPalette(big); !errors.Is(err, ErrPaletteOverflow) {
		t.Fatalf("oversized: got %v, want ErrPaletteOverflow", err)
	}
	if _, err := NewPalette([]color.Color{nil}); err == nil {
		t.Fatal("nil entry: expected an error")
	}
}

func TestPaletteIndex(t *testing.T) {
	p, err := NewPalette([]color.Color{
		color.RGBA{0, 0, 0, 255},
		color.RGBA{255, 255, 255, 255},
		color.RGBA{255, 0, 0, 255},
	})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		r, g, b uint8
		want    int
	}{
		{0, 0, 0, 0},
		{255, 255, 255, 1},
		{250, 5, 5, 2},
		{10, 10, 10, 0},
		{200, 200, 200, 1},
	}
	for _, tt := range tests {
		if got := p.Index(tt.r, tt.g, tt.b); got != tt.want {
			t.Fatalf("Index(%d,%d,%d) = %d, want %d", tt.r, tt.g, tt.b, got, tt.want)
		}
	}
}

// Ties resolve to the lowest palette index.
func TestPaletteIndexTies(t *testing.T) {
	p, err := NewPalette([]color.Color{
		color.RGBA{0, 0, 0, 255},
		color.RGBA{2, 0, 0, 255},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Index(1, 0, 0); got != 0 {
		t.Fatalf("Index(1,0,0) = %d, want 0", got)
	}
}

func TestPaletteIndexSkipsTransparent(t *testing.T) {
	p, err := NewPalette([]color.Color{
		color.RGBA{255, 0, 0, 255},
		color.RGBA{},
		color.RGBA{0, 0, 255, 255},
	})
	if err != nil {
		t.Fatal(err)
	}
	// Black is closest to the transparent slot's stored color, but
	// that slot must never win a color lookup.
	if got := p.Index(0, 0, 1); got != 2 {
		t.Fatalf("Index(0,0,1) = %d, want 2", got)
	}
}

func TestPaletteEqual(t *testing.T) {
	a, _ := NewPalette([]color.Color{color.RGBA{1, 2, 3, 255}, color.RGBA{4, 5, 6, 255}})
	b, _ := NewPalette([]color.Color{color.RGBA{1, 2, 3, 255}, color.RGBA{4, 5, 6, 255}})
	c, _ := NewPalette([]color.Color{color.RGBA{1, 2, 3, 255}, color.RGBA{4, 5, 7, 255}})
	d, _ := NewPalette([]color.Color{color.RGBA{1, 2, 3, 255}})

	if !a.Equal(a) || !a.Equal(b) {
		t.Fatal("equal palettes reported unequal")
	}
	if a.Equal(c) || a.Equal(d) || a.Equal(nil) {
		t.Fatal("unequal palettes reported equal")
	}
}

func TestPaletteSizing(t *testing.T) {
	tests := []struct {
		colors   int
		litWidth int
		padded   int
	}{
		{1, 2, 2},
		{2, 2, 2},
		{3, 2, 4},
		{4, 2, 4},
		{5, 3, 8},
		{16, 4, 16},
		{17, 5, 32},
		{255, 8, 256},
		{256, 8, 256},
	}
	for _, tt := range tests {
		cc := make([]color.Color, tt.colors)
		for i := range cc {
			cc[i] = color.RGBA{uint8(i), uint8(i >> 8), 1, 255}
		}
		p, err := NewPalette(cc)
		if err != nil {
			t.Fatal(err)
		}
		if got := p.litWidth(); got != tt.litWidth {
			t.Fatalf("litWidth(%d colors) = %d, want %d", tt.colors, got, tt.litWidth)
		}
		if got := p.paddedLen(); got != tt.padded {
			t.Fatalf("paddedLen(%d colors) = %d, want %d", tt.colors, got, tt.padded)
		}
	}
}
