package gifenc

import (
	"bytes"
	"compress/lzw"
	"errors"
	"io"
	"math/rand"
	"testing"
)

// deframe strips the sub-block framing and verifies its shape:
// length-prefixed blocks of at most 255 bytes, then a 0 terminator.
func deframe(t *testing.T, data []byte) []byte {
	t.Helper()
	var out []byte
	i := 0
	for {
		if i >= len(data) {
			t.Fatal("missing block terminator")
		}
		n := int(data[i])
		i++
		if n == 0 {
			if i != len(data) {
				t.Fatalf("%d trailing bytes after terminator", len(data)-i)
			}
			return out
		}
		if i+n > len(data) {
			t.Fatalf("sub-block of %d bytes overruns the payload", n)
		}
		out = append(out, data[i:i+n]...)
		i += n
	}
}

func randomPix(rng *rand.Rand, n, alphabet int) []uint8 {
	pix := make([]uint8, n)
	for i := range pix {
		pix[i] = uint8(rng.Intn(alphabet))
	}
	return pix
}

func alternatingPix(n int) []uint8 {
	pix := make([]uint8, n)
	for i := range pix {
		pix[i] = uint8(i & 1)
	}
	return pix
}

func gradientPix(n int) []uint8 {
	pix := make([]uint8, n)
	for i := range pix {
		pix[i] = uint8(i)
	}
	return pix
}

func TestCompressRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tests := []struct {
		name     string
		litWidth int
		pix      []uint8
	}{
		{"single pixel", 2, []uint8{3}},
		{"two pixels", 2, []uint8{0, 1}},
		{"solid run", 2, bytes.Repeat([]uint8{1}, 400)},
		{"alternating", 2, alternatingPix(300)},
		{"gradient", 8, gradientPix(1024)},
		{"random small alphabet", 3, randomPix(rng, 4096, 7)},
		{"random medium alphabet", 5, randomPix(rng, 20000, 30)},
		// Large enough to fill the 4096-entry dictionary several
		// times over, exercising the reset path.
		{"random full alphabet", 8, randomPix(rng, 1<<16, 256)},
		{"long solid run", 8, bytes.Repeat([]uint8{200}, 1<<16)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := compressFrame(tt.pix, tt.litWidth)
			if err != nil {
				t.Fatal(err)
			}
			r := lzw.NewReader(bytes.NewReader(deframe(t, data)), lzw.LSB, tt.litWidth)
			defer r.Close()
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !bytes.Equal(got, tt.pix) {
				t.Fatalf("round trip mismatch: got %d pixels, want %d", len(got), len(tt.pix))
			}
		})
	}
}

func TestCompressEmpty(t *testing.T) {
	if _, err := compressFrame(nil, 2); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("got %v, want ErrEmptyInput", err)
	}
}

// TestCompressWireFormat pins the exact bit layout for a one-pixel
// stream: Clear (100b), literal 0 (000b) and EOI (101b) packed
// LSB-first into two bytes.
func TestCompressWireFormat(t *testing.T) {
	data, err := compressFrame([]uint8{0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x02, 0x44, 0x01, 0x00}
	if !bytes.Equal(data, want) {
		t.Fatalf("got % X, want % X", data, want)
	}
}

func TestSubBlockSizes(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	data, err := compressFrame(randomPix(rng, 10000, 250), 8)
	if err != nil {
		t.Fatal(err)
	}
	i := 0
	blocks := 0
	for data[i] != 0 {
		n := int(data[i])
		if n > 255 {
			t.Fatalf("block %d has impossible size %d", blocks, n)
		}
		// Every block except the last one must be full.
		if next := i + 1 + n; data[next] != 0 && n != 255 {
			t.Fatalf("non-final block %d holds %d bytes", blocks, n)
		}
		i += 1 + n
		blocks++
	}
	if blocks < 2 {
		t.Fatalf("expected multiple sub-blocks, got %d", blocks)
	}
}
