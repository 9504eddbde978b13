package gifenc

import (
	"errors"
	"image"
)

// GraphicControl carries the per-frame presentation settings written
// into the graphic control extension.
type GraphicControl struct {
	Disposal    Disposal
	Delay       int
	Transparent int // palette index, -1 when unused
}

// EncodedFrame is a fully prepared frame section: placement, the local
// color table (nil when the global table serves), control settings and
// the compressed, sub-blocked pixel payload.
type EncodedFrame struct {
	Bounds      image.Rectangle
	Palette     *Palette
	Control     GraphicControl
	MinCodeSize uint8
	Data        []byte
}

// assembleFrame compresses an indexed frame and decides whether it
// needs a local color table. A frame shares the global table only when
// its palette matches it entry for entry.
func assembleFrame(idx *IndexedFrame, gc GraphicControl, at image.Point, global *Palette, screen image.Rectangle) (*EncodedFrame, error) {
	bounds := image.Rectangle{Min: at, Max: at.Add(image.Pt(idx.Width, idx.Height))}
	if !bounds.In(screen) {
		return nil, ErrFrameOutOfBounds
	}
	pal := idx.Palette
	if pal == nil || pal.Len() == 0 {
		return nil, errors.New("gifenc: cannot encode a frame with an empty palette")
	}
	local := pal
	if global != nil && pal.Equal(global) {
		local, pal = nil, global
	}
	data, err := compressFrame(idx.Pix, pal.litWidth())
	if err != nil {
		return nil, err
	}
	return &EncodedFrame{
		Bounds:      bounds,
		Palette:     local,
		Control:     gc,
		MinCodeSize: uint8(pal.litWidth()),
		Data:        data,
	}, nil
}
