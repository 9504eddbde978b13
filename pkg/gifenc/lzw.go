package gifenc

import (
	"bytes"
	"io"
)

const (
	maxCodeWidth = 12
	tableLimit   = 1 << maxCodeWidth
)

// bitWriter packs variable-width codes LSB-first, the GIF bit order.
type bitWriter struct {
	b   io.ByteWriter
	acc uint32
	n   uint
}

func (w *bitWriter) writeCode(code uint16, width uint) {
	w.acc |= uint32(code) << w.n
	w.n += width
	for w.n >= 8 {
		w.b.WriteByte(byte(w.acc))
		w.acc >>= 8
		w.n -= 8
	}
}

// flush zero-pads the pending bits to a full byte.
func (w *bitWriter) flush() {
	if w.n > 0 {
		w.b.WriteByte(byte(w.acc))
		w.acc, w.n = 0, 0
	}
}

// subBlockWriter frames bytes into length-prefixed sub-blocks of at
// most 255 bytes each.
type subBlockWriter struct {
	out *bytes.Buffer
	buf [256]byte
}

func (b *subBlockWriter) WriteByte(c byte) error {
	b.buf[0]++
	b.buf[b.buf[0]] = c
	if b.buf[0] == 255 {
		b.out.Write(b.buf[:256])
		b.buf[0] = 0
	}
	return nil
}

// close writes the block terminator, either by itself or along with a
// pending sub-block.
func (b *subBlockWriter) close() {
	if n := b.buf[0]; n > 0 {
		b.buf[n+1] = 0
		b.out.Write(b.buf[:n+2])
		b.buf[0] = 0
	} else {
		b.out.WriteByte(0)
	}
}

// compressFrame encodes palette indices with the GIF flavor of LZW:
// a leading Clear code, code width growing from litWidth+1 to at most
// 12 bits, and a trailing end-of-information code. The width grows as
// soon as the next free code stops fitting the current width, which
// keeps the stream in step with the decoder's dictionary. The returned
// payload is sub-block framed and terminated.
func compressFrame(pix []uint8, litWidth int) ([]byte, error) {
	if len(pix) == 0 {
		return nil, ErrEmptyInput
	}
	out := new(bytes.Buffer)
	sw := &subBlockWriter{out: out}
	bw := &bitWriter{b: sw}

	clear := uint16(1) << uint(litWidth)
	end := clear + 1
	width := uint(litWidth) + 1
	next := end + 1
	table := make(map[uint32]uint16)

	bw.writeCode(clear, width)
	run := uint16(pix[0])
	for _, p := range pix[1:] {
		key := uint32(run)<<8 | uint32(p)
		if code, ok := table[key]; ok {
			run = code
			continue
		}
		bw.writeCode(run, width)
		if next == tableLimit {
			// Dictionary full: reset without dropping the pending run.
			bw.writeCode(clear, width)
			width = uint(litWidth) + 1
			next = end + 1
			table = make(map[uint32]uint16)
		} else {
			if next == 1<<width && width < maxCodeWidth {
				width++
			}
			table[key] = next
			next++
		}
		run = uint16(p)
	}
	bw.writeCode(run, width)
	if next < tableLimit && next == 1<<width && width < maxCodeWidth {
		width++
	}
	bw.writeCode(end, width)
	bw.flush()
	sw.close()
	return out.Bytes(), nil
}
