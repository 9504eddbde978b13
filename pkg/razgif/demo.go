package razgif

import (
	"bytes"
	"image"
	"image/png"
	"math"

	"github.com/fogleman/gg"
)

const (
	demoSize   = 256
	demoFrames = 12
	demoDelay  = 7
)

// DemoAnimation renders a short looping scene of two dots orbiting a
// ring, one full revolution across the given number of frames.
func DemoAnimation(size, frames int) []image.Image {
	images := make([]image.Image, frames)
	for i := range images {
		dc := gg.NewContext(size, size)
		dc.SetRGB(0.08, 0.09, 0.12)
		dc.Clear()

		angle := 2 * math.Pi * float64(i) / float64(frames)
		cx, cy := float64(size)/2, float64(size)/2
		orbit := float64(size) / 3

		dc.SetRGB(0.22, 0.25, 0.33)
		dc.SetLineWidth(float64(size) / 48)
		dc.DrawCircle(cx, cy, orbit)
		dc.Stroke()

		dc.SetRGB(0.86, 0.32, 0.22)
		dc.DrawCircle(cx+orbit*math.Cos(angle), cy+orbit*math.Sin(angle), float64(size)/12)
		dc.Fill()

		dc.SetRGB(0.93, 0.79, 0.26)
		dc.DrawCircle(cx-orbit*math.Cos(angle), cy-orbit*math.Sin(angle), float64(size)/18)
		dc.Fill()

		images[i] = dc.Image()
	}
	return images
}

func demoState() (*sessionState, error) {
	state := &sessionState{
		Width:  demoSize,
		Height: demoSize,
	}
	for _, img := range DemoAnimation(demoSize, demoFrames) {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
		state.Frames = append(state.Frames, storedFrame{
			Data:   buf.Bytes(),
			Delay:  demoDelay,
			Width:  demoSize,
			Height: demoSize,
		})
	}
	return state, nil
}
