package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/razzie/razgif/pkg/gifenc"
	"github.com/razzie/razgif/pkg/razgif"
)

func main() {
	out := flag.String("o", "demo.gif", "output file")
	size := flag.Int("size", 256, "animation size in pixels")
	frames := flag.Int("frames", 12, "number of frames")
	delay := flag.Int("delay", 7, "frame delay in 1/100ths of a second")
	loop := flag.Int("loop", 0, "loop count (0 = forever, negative = play once)")
	colors := flag.Int("colors", 0, "palette size limit, 1-256 (0 = default)")
	local := flag.Bool("local", false, "force per-frame color tables")
	flag.Parse()

	anim := &gifenc.Animation{
		Width:     *size,
		Height:    *size,
		LoopCount: *loop,
		MaxColors: *colors,
	}
	if *local {
		anim.Strategy = gifenc.PaletteLocal
	}
	for _, img := range razgif.DemoAnimation(*size, *frames) {
		anim.AddImage(img, *delay)
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer f.Close()
	if err := gifenc.EncodeAll(f, anim); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	fmt.Println("wrote", *out)
}
