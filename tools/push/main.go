package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/razzie/razgif/pkg/connector"
	"golang.org/x/image/draw"

	_ "image/gif"
	_ "image/jpeg"
)

func main() {
	delay := flag.Int("delay", 10, "frame delay in 1/100ths of a second")
	loop := flag.Int("loop", 0, "loop count (0 = forever, negative = play once)")
	colors := flag.Int("colors", 0, "palette size limit, 1-256 (0 = default)")
	fit := flag.Bool("fit", false, "rescale images to the canvas size")
	out := flag.String("out", "", "download the rendered GIF to this file")
	flag.Parse()

	if flag.NArg() < 2 {
		fmt.Println("Usage: push [flags] [session URL] [image files...]")
		flag.PrintDefaults()
		os.Exit(1)
	}
	sessionURL := flag.Arg(0)

	conn, err := connector.NewConnection(sessionURL)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer conn.Close()

	var canvas image.Point
	select {
	case update := <-conn.C:
		if update.Frames > 0 {
			canvas = image.Pt(update.Width, update.Height)
		}
	case <-time.After(5 * time.Second):
		fmt.Println("no state update from the session")
		os.Exit(1)
	}

	for _, path := range flag.Args()[1:] {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if *fit {
			data, canvas, err = fitImage(data, canvas)
			if err != nil {
				fmt.Println(path+":", err)
				os.Exit(1)
			}
		}
		count, err := conn.AddFrame(data, *delay)
		if err != nil {
			fmt.Println(path+":", err)
			os.Exit(1)
		}
		fmt.Println("pushed", path, "as frame", count)
	}

	if err := conn.SetLoop(*loop); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if *colors != 0 {
		if err := conn.SetPaletteSize(*colors); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}

	if *out != "" {
		if err := download(sessionURL, *out); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Println("saved", *out)
	}
}

// fitImage rescales an encoded image to the canvas. An empty canvas
// adopts the image's own size, so the first pushed image decides it.
func fitImage(data []byte, canvas image.Point) ([]byte, image.Point, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, canvas, err
	}
	bounds := img.Bounds()
	if canvas == (image.Point{}) {
		canvas = image.Pt(bounds.Dx(), bounds.Dy())
	}
	if bounds.Dx() == canvas.X && bounds.Dy() == canvas.Y {
		return data, canvas, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, canvas.X, canvas.Y))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, canvas, err
	}
	return buf.Bytes(), canvas, nil
}

func download(sessionURL, path string) error {
	gifURL := strings.Replace(sessionURL, "/session/", "/gif/", 1)
	resp, err := http.Get(gifURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: %s", gifURL, resp.Status)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, resp.Body)
	return err
}
