// Package gifenc encodes animated GIF89a images from RGBA frames.
//
// Frames are quantized to color tables of at most 256 entries,
// compressed with the GIF flavor of LZW and assembled into a complete
// byte stream that standard decoders accept. Palettes can be computed
// per frame, shared globally when every frame fits one losslessly, or
// fixed by the caller.
package gifenc

import (
	"errors"
	"image"
)

var (
	ErrInvalidPaletteSize       = errors.New("gifenc: palette size must be between 1 and 256")
	ErrFrameOutOfBounds         = errors.New("gifenc: frame does not fit the logical screen")
	ErrEmptyInput               = errors.New("gifenc: nothing to encode")
	ErrPaletteOverflow          = errors.New("gifenc: palette cannot hold more than 256 colors")
	ErrMalformedFrameDimensions = errors.New("gifenc: frame pixel data does not match its dimensions")
)

// Disposal tells the decoder what to do with a frame's area before the
// next frame is drawn.
type Disposal byte

const (
	DisposalUnspecified Disposal = iota
	DisposalNone
	DisposalBackground
	DisposalPrevious
)

// Alpha values below this mark a pixel as transparent.
const opaqueAlpha = 0x80

// Frame is a single animation frame: RGBA pixels (4 bytes per pixel,
// row-major), placement on the logical screen, a delay in hundredths
// of a second and a disposal method. Transparency declares that the
// alpha channel is meaningful; pixels with alpha below 128 then map to
// the palette's transparent slot.
type Frame struct {
	Width, Height int
	X, Y          int
	Pix           []uint8
	Delay         int
	Disposal      Disposal
	Transparency  bool
}

// FrameFromImage converts any image to a frame at the origin.
// Transparency is enabled when the image contains non-opaque pixels.
func FrameFromImage(img image.Image, delay int) *Frame {
	bounds := img.Bounds()
	f := &Frame{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pix:    make([]uint8, 4*bounds.Dx()*bounds.Dy()),
		Delay:  delay,
	}
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			f.Pix[i+0] = uint8(r >> 8)
			f.Pix[i+1] = uint8(g >> 8)
			f.Pix[i+2] = uint8(b >> 8)
			f.Pix[i+3] = uint8(a >> 8)
			if f.Pix[i+3] < opaqueAlpha {
				f.Transparency = true
			}
			i += 4
		}
	}
	return f
}

func (f *Frame) validate() error {
	if f.Width < 0 || f.Height < 0 {
		return ErrMalformedFrameDimensions
	}
	if f.Width*f.Height == 0 {
		return ErrEmptyInput
	}
	if len(f.Pix) != 4*f.Width*f.Height {
		return ErrMalformedFrameDimensions
	}
	return nil
}

func (f *Frame) bounds() image.Rectangle {
	return image.Rect(f.X, f.Y, f.X+f.Width, f.Y+f.Height)
}
