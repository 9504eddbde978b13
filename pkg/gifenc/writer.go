// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gifenc

import (
	"io"
)

// Graphic control extension fields.
const (
	gcLabel     = 0xF9
	gcBlockSize = 0x04
)

// Logical screen descriptor and color table flags.
const (
	fColorTable      = 1 << 7
	fColorResolution = 7 << 4
)

// Section indicators.
const (
	sExtension       = 0x21
	sImageDescriptor = 0x2C
	sTrailer         = 0x3B
)

var log2Lookup = [8]int{2, 4, 8, 16, 32, 64, 128, 256}

func log2(x int) int {
	for i, v := range log2Lookup {
		if x <= v {
			return i
		}
	}
	return -1
}

// Little-endian.
func writeUint16(b []uint8, u uint16) {
	b[0] = uint8(u)
	b[1] = uint8(u >> 8)
}

// writer is a buffered writer.
type writer interface {
	Flush() error
	io.Writer
	io.ByteWriter
}

// encoder serializes prepared frame sections into the GIF container.
// err is the first error encountered during writing; all attempted
// writes after the first error become no-ops.
type encoder struct {
	w     writer
	err   error
	buf   [256]byte
	table [3 * 256]byte
}

func (e *encoder) flush() {
	if e.err != nil {
		return
	}
	e.err = e.w.Flush()
}

func (e *encoder) write(p []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(p)
}

func (e *encoder) writeByte(b byte) {
	if e.err != nil {
		return
	}
	e.err = e.w.WriteByte(b)
}

// writeHeader emits the signature, the logical screen descriptor, the
// global color table when one exists, and the NETSCAPE2.0 looping
// extension for non-negative loop counts (0 loops forever).
func (e *encoder) writeHeader(width, height int, global *Palette, background byte, loopCount int) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, "GIF89a")
	if e.err != nil {
		return
	}

	// Logical screen width and height.
	writeUint16(e.buf[0:2], uint16(width))
	writeUint16(e.buf[2:4], uint16(height))
	e.write(e.buf[:4])

	if global != nil {
		e.buf[0] = fColorTable | fColorResolution | uint8(global.sizeField())
		e.buf[1] = background
		e.buf[2] = 0x00 // Pixel Aspect Ratio.
		e.write(e.buf[:3])
		e.writeColorTable(global)
	} else {
		// Every frame carries a local color table.
		e.buf[0] = 0x00
		e.buf[1] = 0x00 // Background Color Index.
		e.buf[2] = 0x00 // Pixel Aspect Ratio.
		e.write(e.buf[:3])
	}

	if loopCount >= 0 {
		if loopCount > 0xFFFF {
			loopCount = 0xFFFF
		}
		e.buf[0] = sExtension
		e.buf[1] = 0xFF // Application Label.
		e.buf[2] = 0x0B // Block Size.
		e.write(e.buf[:3])
		_, err := io.WriteString(e.w, "NETSCAPE2.0") // Application Identifier.
		if err != nil && e.err == nil {
			e.err = err
			return
		}
		e.buf[0] = 0x03 // Block Size.
		e.buf[1] = 0x01 // Sub-block Index.
		writeUint16(e.buf[2:4], uint16(loopCount))
		e.buf[4] = 0x00 // Block Terminator.
		e.write(e.buf[:5])
	}
}

// writeColorTable emits the palette padded with black to 2^(n+1)
// entries.
func (e *encoder) writeColorTable(p *Palette) {
	for i, c := range p.colors {
		e.table[3*i+0] = c[0]
		e.table[3*i+1] = c[1]
		e.table[3*i+2] = c[2]
	}
	n := p.paddedLen()
	if n > len(p.colors) {
		fill := e.table[3*len(p.colors) : 3*n]
		for i := range fill {
			fill[i] = 0
		}
	}
	e.write(e.table[:3*n])
}

// writeFrame emits the graphic control extension, the image descriptor,
// the local color table when the frame has one, and the compressed
// image data.
func (e *encoder) writeFrame(f *EncodedFrame) {
	if e.err != nil {
		return
	}

	delay := f.Control.Delay
	if delay < 0 {
		delay = 0
	} else if delay > 0xFFFF {
		delay = 0xFFFF
	}
	e.buf[0] = sExtension
	e.buf[1] = gcLabel
	e.buf[2] = gcBlockSize
	e.buf[3] = uint8(f.Control.Disposal&7) << 2
	if f.Control.Transparent >= 0 {
		e.buf[3] |= 0x01
	}
	writeUint16(e.buf[4:6], uint16(delay)) // Delay Time (1/100ths of a second).
	if f.Control.Transparent >= 0 {
		e.buf[6] = uint8(f.Control.Transparent)
	} else {
		e.buf[6] = 0x00
	}
	e.buf[7] = 0x00 // Block Terminator.
	e.write(e.buf[:8])

	b := f.Bounds
	e.buf[0] = sImageDescriptor
	writeUint16(e.buf[1:3], uint16(b.Min.X))
	writeUint16(e.buf[3:5], uint16(b.Min.Y))
	writeUint16(e.buf[5:7], uint16(b.Dx()))
	writeUint16(e.buf[7:9], uint16(b.Dy()))
	e.write(e.buf[:9])

	if f.Palette != nil {
		e.writeByte(fColorTable | uint8(f.Palette.sizeField()))
		e.writeColorTable(f.Palette)
	} else {
		e.writeByte(0) // Use the global color table.
	}

	e.writeByte(f.MinCodeSize)
	e.write(f.Data)
}
