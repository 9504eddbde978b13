package gifenc

import (
	"errors"
	"sort"
)

// IndexedFrame is a frame reduced to palette indices, one byte per
// pixel in row-major order.
type IndexedFrame struct {
	Width, Height int
	Pix           []uint8
	Palette       *Palette
}

// Quantize reduces a frame to a palette of at most maxColors entries
// and maps every pixel to its nearest entry. Frames with no more
// distinct colors than maxColors keep their exact color set.
func Quantize(f *Frame, maxColors int) (*IndexedFrame, error) {
	if maxColors < 1 || maxColors > 256 {
		return nil, ErrInvalidPaletteSize
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	h := newHistogram(0)
	h.add(f)
	p, err := paletteFromHistogram(h, maxColors)
	if err != nil {
		return nil, err
	}
	idx, _, err := indexFrame(f, p)
	return idx, err
}

type histEntry struct {
	c [3]uint8
	n uint32
}

// histogram counts distinct opaque colors in first-seen order.
// A non-zero limit stops tracking once the count cannot matter
// anymore; over reports that it was hit.
type histogram struct {
	entries []histEntry
	lookup  map[uint32]int
	trans   bool
	limit   int
	over    bool
}

func newHistogram(limit int) *histogram {
	return &histogram{
		lookup: make(map[uint32]int),
		limit:  limit,
	}
}

func pack(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

func (h *histogram) add(f *Frame) {
	for i := 0; i < len(f.Pix); i += 4 {
		if f.Transparency && f.Pix[i+3] < opaqueAlpha {
			h.trans = true
			continue
		}
		if h.over {
			continue
		}
		key := pack(f.Pix[i], f.Pix[i+1], f.Pix[i+2])
		if j, ok := h.lookup[key]; ok {
			h.entries[j].n++
			continue
		}
		if h.limit > 0 && len(h.entries) == h.limit {
			h.over = true
			continue
		}
		h.lookup[key] = len(h.entries)
		h.entries = append(h.entries, histEntry{
			c: [3]uint8{f.Pix[i], f.Pix[i+1], f.Pix[i+2]},
			n: 1,
		})
	}
}

// paletteFromHistogram turns a histogram into a palette of at most
// maxColors entries, appending a transparent slot when the histogram
// saw transparent pixels.
func paletteFromHistogram(h *histogram, maxColors int) (*Palette, error) {
	budget := maxColors
	if h.trans {
		budget--
		if budget == 0 && len(h.entries) > 0 {
			return nil, ErrInvalidPaletteSize
		}
	}
	var colors [][3]uint8
	if len(h.entries) <= budget {
		colors = make([][3]uint8, len(h.entries))
		for i, e := range h.entries {
			colors[i] = e.c
		}
	} else {
		colors = medianCut(h.entries, budget)
	}
	transparent := -1
	if h.trans {
		colors = append(colors, [3]uint8{})
		transparent = len(colors) - 1
	}
	return newPalette(colors, transparent), nil
}

// colorBox is a half-open range into the shared histogram arena.
type colorBox struct {
	lo, hi int
}

// medianCut splits the color space into k boxes and returns their
// population-weighted average colors in box creation order.
func medianCut(entries []histEntry, k int) [][3]uint8 {
	arena := make([]histEntry, len(entries))
	copy(arena, entries)

	boxes := make([]colorBox, 1, k)
	boxes[0] = colorBox{0, len(arena)}
	for len(boxes) < k {
		bi := -1
		var best uint64
		for i, b := range boxes {
			if b.hi-b.lo < 2 {
				continue
			}
			if pr := boxPriority(arena[b.lo:b.hi]); bi < 0 || pr > best {
				bi, best = i, pr
			}
		}
		if bi < 0 {
			break
		}
		b := boxes[bi]
		mid := splitBox(arena, b)
		boxes[bi] = colorBox{b.lo, mid}
		boxes = append(boxes, colorBox{mid, b.hi})
	}

	colors := make([][3]uint8, len(boxes))
	for i, b := range boxes {
		colors[i] = boxAverage(arena[b.lo:b.hi])
	}
	return colors
}

// boxStats returns the longest axis, its spread and the box
// population.
func boxStats(seg []histEntry) (axis, spread int, pop uint64) {
	min := seg[0].c
	max := seg[0].c
	for _, e := range seg {
		pop += uint64(e.n)
		for c := 0; c < 3; c++ {
			if e.c[c] < min[c] {
				min[c] = e.c[c]
			}
			if e.c[c] > max[c] {
				max[c] = e.c[c]
			}
		}
	}
	for c := 0; c < 3; c++ {
		if d := int(max[c]) - int(min[c]); d > spread {
			axis, spread = c, d
		}
	}
	return
}

func boxPriority(seg []histEntry) uint64 {
	_, spread, pop := boxStats(seg)
	return uint64(spread) * pop
}

// splitBox sorts the box along its longest axis and cuts it at the
// population median, keeping both halves non-empty.
func splitBox(arena []histEntry, b colorBox) int {
	seg := arena[b.lo:b.hi]
	axis, _, total := boxStats(seg)
	sort.Slice(seg, func(i, j int) bool {
		if seg[i].c[axis] != seg[j].c[axis] {
			return seg[i].c[axis] < seg[j].c[axis]
		}
		return pack(seg[i].c[0], seg[i].c[1], seg[i].c[2]) < pack(seg[j].c[0], seg[j].c[1], seg[j].c[2])
	})
	var acc uint64
	mid := b.lo
	for mid < b.hi-1 {
		acc += uint64(arena[mid].n)
		mid++
		if acc*2 >= total {
			break
		}
	}
	return mid
}

func boxAverage(seg []histEntry) [3]uint8 {
	var sum [3]uint64
	var pop uint64
	for _, e := range seg {
		pop += uint64(e.n)
		for c := 0; c < 3; c++ {
			sum[c] += uint64(e.c[c]) * uint64(e.n)
		}
	}
	var avg [3]uint8
	for c := 0; c < 3; c++ {
		avg[c] = uint8((sum[c] + pop/2) / pop)
	}
	return avg
}

// indexFrame maps every pixel of f onto p. The bool reports whether
// any pixel used the transparent slot.
func indexFrame(f *Frame, p *Palette) (*IndexedFrame, bool, error) {
	out := make([]uint8, f.Width*f.Height)
	cache := make(map[uint32]uint8)
	hasTrans := false
	for i, j := 0, 0; i < len(f.Pix); i, j = i+4, j+1 {
		if f.Transparency && f.Pix[i+3] < opaqueAlpha && p.transparent >= 0 {
			out[j] = uint8(p.transparent)
			hasTrans = true
			continue
		}
		key := pack(f.Pix[i], f.Pix[i+1], f.Pix[i+2])
		idx, ok := cache[key]
		if !ok {
			n := p.Index(f.Pix[i], f.Pix[i+1], f.Pix[i+2])
			if n < 0 {
				return nil, false, errors.New("gifenc: palette has no opaque entries")
			}
			idx = uint8(n)
			cache[key] = idx
		}
		out[j] = idx
	}
	idx := &IndexedFrame{
		Width:   f.Width,
		Height:  f.Height,
		Pix:     out,
		Palette: p,
	}
	return idx, hasTrans, nil
}
