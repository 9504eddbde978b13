package gifenc

import (
	"errors"
	"image/color"
)

// Palette is an ordered GIF color table of at most 256 entries, with an
// optional slot reserved for transparent pixels. The entry order is
// stable: indices written into a frame stay valid for its lifetime.
type Palette struct {
	colors      [][3]uint8
	transparent int
}

// NewPalette builds a palette from the given colors, keeping their
// order. The first fully transparent entry becomes the transparent
// slot. Returns ErrPaletteOverflow for more than 256 entries.
func NewPalette(colors []color.Color) (*Palette, error) {
	if len(colors) == 0 {
		return nil, ErrInvalidPaletteSize
	}
	if len(colors) > 256 {
		return nil, ErrPaletteOverflow
	}
	p := &Palette{
		colors:      make([][3]uint8, len(colors)),
		transparent: -1,
	}
	for i, c := range colors {
		if c == nil {
			return nil, errors.New("gifenc: palette has nil entries")
		}
		r, g, b, a := c.RGBA()
		if a == 0 && p.transparent < 0 {
			p.transparent = i
		}
		p.colors[i] = [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
	}
	return p, nil
}

func newPalette(colors [][3]uint8, transparent int) *Palette {
	return &Palette{colors: colors, transparent: transparent}
}

// Len returns the number of table entries, the transparent slot
// included.
func (p *Palette) Len() int {
	return len(p.colors)
}

// At returns the RGB components of entry i.
func (p *Palette) At(i int) [3]uint8 {
	return p.colors[i]
}

// Transparent returns the index of the transparent slot, or -1 when
// the palette has none.
func (p *Palette) Transparent() int {
	return p.transparent
}

// Equal reports whether two palettes hold the same entries in the same
// order, with the same transparent slot.
func (p *Palette) Equal(q *Palette) bool {
	if p == q {
		return true
	}
	if p == nil || q == nil {
		return false
	}
	if len(p.colors) != len(q.colors) || p.transparent != q.transparent {
		return false
	}
	for i := range p.colors {
		if p.colors[i] != q.colors[i] {
			return false
		}
	}
	return true
}

// Index returns the entry nearest to the given color by squared
// Euclidean distance. Ties resolve to the lowest index. The
// transparent slot never matches; -1 means the palette has no opaque
// entries.
func (p *Palette) Index(r, g, b uint8) int {
	best, bestDist := -1, uint32(1<<31)
	for i, c := range p.colors {
		if i == p.transparent {
			continue
		}
		d := sqDist(c, r, g, b)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func sqDist(c [3]uint8, r, g, b uint8) uint32 {
	dr := int32(c[0]) - int32(r)
	dg := int32(c[1]) - int32(g)
	db := int32(c[2]) - int32(b)
	return uint32(dr*dr + dg*dg + db*db)
}

// sizeField is the n in the GIF flags byte; the table is written with
// 2^(n+1) entries.
func (p *Palette) sizeField() int {
	return log2(len(p.colors))
}

func (p *Palette) paddedLen() int {
	return log2Lookup[p.sizeField()]
}

// litWidth is the LZW minimum code size for this palette.
func (p *Palette) litWidth() int {
	if w := p.sizeField() + 1; w > 2 {
		return w
	}
	return 2
}
