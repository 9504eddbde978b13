package gifenc

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func grayPalette(t *testing.T, n int) *Palette {
	t.Helper()
	cc := make([]color.Color, n)
	for i := range cc {
		cc[i] = color.RGBA{uint8(i), uint8(i), uint8(i), 255}
	}
	p, err := NewPalette(cc)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestAssembleFrame(t *testing.T) {
	pal := grayPalette(t, 5)
	idx := &IndexedFrame{Width: 10, Height: 10, Pix: make([]uint8, 100), Palette: pal}
	screen := image.Rect(0, 0, 64, 64)

	ef, err := assembleFrame(idx, GraphicControl{Delay: 25, Transparent: -1}, image.Pt(3, 4), nil, screen)
	if err != nil {
		t.Fatal(err)
	}
	if ef.Bounds != image.Rect(3, 4, 13, 14) {
		t.Fatalf("bounds = %v", ef.Bounds)
	}
	if ef.MinCodeSize != 3 {
		t.Fatalf("min code size = %d, want 3", ef.MinCodeSize)
	}
	if ef.Palette == nil {
		t.Fatal("expected a local palette without a global one")
	}
	if len(ef.Data) == 0 {
		t.Fatal("no image data")
	}
}

func TestAssembleFrameOutOfBounds(t *testing.T) {
	pal := grayPalette(t, 2)
	idx := &IndexedFrame{Width: 10, Height: 10, Pix: make([]uint8, 100), Palette: pal}
	screen := image.Rect(0, 0, 64, 64)

	tests := []struct {
		name string
		at   image.Point
	}{
		{"right overflow", image.Pt(60, 0)},
		{"bottom overflow", image.Pt(0, 60)},
		{"negative origin", image.Pt(-1, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := assembleFrame(idx, GraphicControl{Transparent: -1}, tt.at, nil, screen)
			if !errors.Is(err, ErrFrameOutOfBounds) {
				t.Fatalf("got %v, want ErrFrameOutOfBounds", err)
			}
		})
	}
}

// A frame palette equal to the global one is elided from the output.
func TestAssembleFrameLocalPaletteElision(t *testing.T) {
	global := grayPalette(t, 4)
	same := grayPalette(t, 4)
	other := grayPalette(t, 3)
	idx := &IndexedFrame{Width: 2, Height: 2, Pix: make([]uint8, 4), Palette: same}
	screen := image.Rect(0, 0, 8, 8)

	ef, err := assembleFrame(idx, GraphicControl{Transparent: -1}, image.Point{}, global, screen)
	if err != nil {
		t.Fatal(err)
	}
	if ef.Palette != nil {
		t.Fatal("frame palette matching the global table should be dropped")
	}

	idx.Palette = other
	ef, err = assembleFrame(idx, GraphicControl{Transparent: -1}, image.Point{}, global, screen)
	if err != nil {
		t.Fatal(err)
	}
	if ef.Palette != other {
		t.Fatal("differing frame palette must be kept local")
	}
}

func TestFrameFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(2, 3, 6, 5))
	img.Set(2, 3, color.RGBA{255, 0, 0, 255})
	img.Set(5, 4, color.RGBA{0, 0, 255, 40})

	f := FrameFromImage(img, 12)
	if f.Width != 4 || f.Height != 2 {
		t.Fatalf("size %dx%d, want 4x2", f.Width, f.Height)
	}
	if f.Delay != 12 {
		t.Fatalf("delay = %d", f.Delay)
	}
	if !f.Transparency {
		t.Fatal("low alpha pixel should mark the frame transparent")
	}
	if f.Pix[0] != 255 || f.Pix[3] != 255 {
		t.Fatalf("first pixel = %v", f.Pix[:4])
	}
	last := f.Pix[len(f.Pix)-4:]
	if last[3] >= opaqueAlpha {
		t.Fatalf("last pixel alpha = %d", last[3])
	}
}

func TestFrameValidate(t *testing.T) {
	tests := []struct {
		name  string
		frame *Frame
		want  error
	}{
		{"valid", &Frame{Width: 2, Height: 2, Pix: make([]uint8, 16)}, nil},
		{"zero size", &Frame{}, ErrEmptyInput},
		{"zero width", &Frame{Height: 3}, ErrEmptyInput},
		{"negative height", &Frame{Width: 2, Height: -2}, ErrMalformedFrameDimensions},
		{"pix too short", &Frame{Width: 2, Height: 2, Pix: make([]uint8, 15)}, ErrMalformedFrameDimensions},
		{"pix too long", &Frame{Width: 2, Height: 2, Pix: make([]uint8, 17)}, ErrMalformedFrameDimensions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.frame.validate(); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}
