package gifenc

import (
	"bufio"
	"bytes"
	"errors"
	"image"
	"io"
	"runtime"
	"sync"
)

// PaletteStrategy selects how color tables are assigned to frames.
type PaletteStrategy int

const (
	// PaletteAuto emits a single global color table when the union of
	// all frame colors fits the palette size losslessly, and falls
	// back to per-frame tables otherwise.
	PaletteAuto PaletteStrategy = iota
	// PaletteLocal gives every frame its own color table.
	PaletteLocal
)

// Animation describes a complete GIF: the logical screen, the frames
// and the encoding options.
type Animation struct {
	Width, Height int
	Frames        []*Frame
	// LoopCount selects the NETSCAPE looping extension: 0 loops
	// forever, a positive count loops that many times, a negative
	// count omits the extension.
	LoopCount int
	// MaxColors caps palette sizes; 0 means 256.
	MaxColors int
	Strategy  PaletteStrategy
	// GlobalPalette, when set, becomes the fixed global color table
	// and every frame is mapped onto it, overriding Strategy.
	GlobalPalette *Palette
	// Background is the background color index in the global table.
	Background uint8
	// Workers bounds the number of frames quantized and compressed
	// concurrently; 0 or less means one per CPU.
	Workers int
}

// AddFrame appends a frame.
func (a *Animation) AddFrame(f *Frame) {
	a.Frames = append(a.Frames, f)
}

// AddImage converts an image to a frame at the origin and appends it.
func (a *Animation) AddImage(img image.Image, delay int) {
	a.AddFrame(FrameFromImage(img, delay))
}

// EncodeAll encodes the animation and writes the complete byte stream
// to w in a single call. On error nothing is written.
func EncodeAll(w io.Writer, a *Animation) error {
	out, err := a.encode()
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func (a *Animation) encode() ([]byte, error) {
	maxColors := a.MaxColors
	if maxColors == 0 {
		maxColors = 256
	}
	if maxColors < 1 || maxColors > 256 {
		return nil, ErrInvalidPaletteSize
	}
	if a.Width >= 1<<16 || a.Height >= 1<<16 {
		return nil, errors.New("gifenc: logical screen is too large to encode")
	}
	if len(a.Frames) == 0 {
		return nil, ErrEmptyInput
	}
	screen := image.Rect(0, 0, a.Width, a.Height)
	for _, f := range a.Frames {
		if err := f.validate(); err != nil {
			return nil, err
		}
		if !f.bounds().In(screen) {
			return nil, ErrFrameOutOfBounds
		}
	}

	global, err := a.globalPalette(maxColors)
	if err != nil {
		return nil, err
	}
	frames, err := a.encodeFrames(global, maxColors, screen)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	e := &encoder{w: bufio.NewWriter(&buf)}
	e.writeHeader(a.Width, a.Height, global, a.Background, a.LoopCount)
	for _, ef := range frames {
		e.writeFrame(ef)
	}
	e.writeByte(sTrailer)
	e.flush()
	if e.err != nil {
		return nil, e.err
	}
	return buf.Bytes(), nil
}

// globalPalette decides the global color table: the caller-fixed one,
// none for the local strategy, or the lossless union palette when all
// frames fit it.
func (a *Animation) globalPalette(maxColors int) (*Palette, error) {
	if a.GlobalPalette != nil {
		return a.GlobalPalette, nil
	}
	if a.Strategy == PaletteLocal {
		return nil, nil
	}
	h := newHistogram(maxColors + 1)
	for _, f := range a.Frames {
		h.add(f)
	}
	budget := maxColors
	if h.trans {
		budget--
	}
	if h.over || len(h.entries) > budget {
		return nil, nil
	}
	return paletteFromHistogram(h, maxColors)
}

// encodeFrames quantizes and compresses all frames on a bounded worker
// pool. Results keep the input order; the first error in frame order
// wins.
func (a *Animation) encodeFrames(global *Palette, maxColors int, screen image.Rectangle) ([]*EncodedFrame, error) {
	workers := a.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(a.Frames) {
		workers = len(a.Frames)
	}

	frames := make([]*EncodedFrame, len(a.Frames))
	errs := make([]error, len(a.Frames))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()
			for i := start; i < len(a.Frames); i += workers {
				frames[i], errs[i] = a.encodeFrame(a.Frames[i], global, maxColors, screen)
			}
		}(w)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return frames, nil
}

func (a *Animation) encodeFrame(f *Frame, global *Palette, maxColors int, screen image.Rectangle) (*EncodedFrame, error) {
	var (
		idx      *IndexedFrame
		hasTrans bool
		err      error
	)
	if global != nil {
		idx, hasTrans, err = indexFrame(f, global)
	} else {
		idx, err = Quantize(f, maxColors)
		if err == nil {
			hasTrans = idx.Palette.Transparent() >= 0
		}
	}
	if err != nil {
		return nil, err
	}
	gc := GraphicControl{
		Disposal:    f.Disposal,
		Delay:       f.Delay,
		Transparent: -1,
	}
	if hasTrans {
		gc.Transparent = idx.Palette.Transparent()
	}
	return assembleFrame(idx, gc, image.Pt(f.X, f.Y), global, screen)
}
