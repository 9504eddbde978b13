package razgif

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"log"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/razzie/jsonrpc"
	"github.com/razzie/razgif/pkg/gifenc"
	"golang.org/x/net/websocket"

	_ "image/gif"
	_ "image/jpeg"
)

// FrameData is the payload of the AddFrame RPC: an encoded image
// (PNG, JPEG or GIF) and its display delay in 1/100ths of a second.
type FrameData struct {
	Data  []byte `json:"data"`
	Delay int    `json:"delay"`
}

type storedFrame struct {
	Data   []byte `json:"data"`
	Delay  int    `json:"delay"`
	Width  int    `json:"w"`
	Height int    `json:"h"`
}

type sessionState struct {
	Width     int           `json:"w"`
	Height    int           `json:"h"`
	Loop      int           `json:"loop"`
	MaxColors int           `json:"colors"`
	Frames    []storedFrame `json:"frames"`
}

func (state *sessionState) hash() uint64 {
	d := xxhash.New()
	fmt.Fprintf(d, "%d|%d|%d|%d", state.Width, state.Height, state.Loop, state.MaxColors)
	for _, frame := range state.Frames {
		fmt.Fprintf(d, "|%d|", frame.Delay)
		d.Write(frame.Data)
	}
	return d.Sum64()
}

type Session struct {
	slc      *sessionLifecycle
	mtx      sync.Mutex
	state    sessionState
	clients  []*jsonrpc.JsonRPC
	cacheSum uint64
	cache    []byte
}

func newSession(slc *sessionLifecycle, blob []byte) (*Session, error) {
	sess := &Session{}
	if err := sess.init(slc, blob); err != nil {
		return nil, err
	}
	return sess, nil
}

func (sess *Session) init(slc *sessionLifecycle, blob []byte) error {
	sess.slc = slc
	if len(blob) > 0 {
		if err := unmarshalState(blob, &sess.state); err != nil {
			return err
		}
	}
	return nil
}

// Session.AddFrame is an RPC function that appends an encoded image
// (PNG, JPEG or GIF) to the animation and reports the new frame count.
// The first frame decides the canvas size.
func (sess *Session) AddFrame(frame FrameData, count *int) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(frame.Data))
	if err != nil {
		return err
	}

	sess.mtx.Lock()
	defer sess.mtx.Unlock()

	if len(sess.state.Frames) == 0 {
		sess.state.Width, sess.state.Height = cfg.Width, cfg.Height
	} else if cfg.Width > sess.state.Width || cfg.Height > sess.state.Height {
		return fmt.Errorf("frame %dx%d does not fit the %dx%d canvas",
			cfg.Width, cfg.Height, sess.state.Width, sess.state.Height)
	}
	sess.state.Frames = append(sess.state.Frames, storedFrame{
		Data:   frame.Data,
		Delay:  frame.Delay,
		Width:  cfg.Width,
		Height: cfg.Height,
	})
	*count = len(sess.state.Frames)

	sess.updateClients()
	sess.persist()

	return nil
}

// Session.SetLoop is an RPC function that sets the animation loop
// count: 0 loops forever, positive values loop that many times and
// negative values disable looping.
func (sess *Session) SetLoop(loop int, unused *bool) error {
	sess.mtx.Lock()
	defer sess.mtx.Unlock()

	sess.state.Loop = loop
	sess.updateClients()
	sess.persist()

	return nil
}

// Session.SetPaletteSize is an RPC function that limits the number of
// colors per palette (1-256, 0 restores the default).
func (sess *Session) SetPaletteSize(size int, unused *bool) error {
	if size != 0 && (size < 1 || size > 256) {
		return gifenc.ErrInvalidPaletteSize
	}

	sess.mtx.Lock()
	defer sess.mtx.Unlock()

	sess.state.MaxColors = size
	sess.updateClients()
	sess.persist()

	return nil
}

// Session.Clear is an RPC function that drops every frame and resets
// the canvas. Loop and palette settings survive.
func (sess *Session) Clear(unused bool, cleared *bool) error {
	sess.mtx.Lock()
	defer sess.mtx.Unlock()

	sess.state = sessionState{
		Loop:      sess.state.Loop,
		MaxColors: sess.state.MaxColors,
	}
	*cleared = true

	sess.updateClients()
	sess.persist()

	return nil
}

func (sess *Session) render(w io.Writer) error {
	sess.mtx.Lock()
	defer sess.mtx.Unlock()

	if len(sess.state.Frames) == 0 {
		return gifenc.ErrEmptyInput
	}

	if sum := sess.state.hash(); sum != sess.cacheSum || sess.cache == nil {
		anim := &gifenc.Animation{
			Width:     sess.state.Width,
			Height:    sess.state.Height,
			LoopCount: sess.state.Loop,
			MaxColors: sess.state.MaxColors,
		}
		for _, frame := range sess.state.Frames {
			img, _, err := image.Decode(bytes.NewReader(frame.Data))
			if err != nil {
				return err
			}
			anim.AddImage(img, frame.Delay)
		}
		var buf bytes.Buffer
		if err := gifenc.EncodeAll(&buf, anim); err != nil {
			return err
		}
		sess.cacheSum, sess.cache = sum, buf.Bytes()
	}

	_, err := w.Write(sess.cache)
	return err
}

func (sess *Session) persist() {
	blob, err := marshalState(&sess.state)
	if err != nil {
		log.Println("failed to serialize session:", err)
		return
	}
	go sess.slc.update(blob)
}

func (sess *Session) currentUpdate() *Update {
	sess.mtx.Lock()
	defer sess.mtx.Unlock()
	return newUpdate(&sess.state)
}

func (sess *Session) addClient(client *jsonrpc.JsonRPC) {
	sess.mtx.Lock()
	defer sess.mtx.Unlock()
	sess.clients = append(sess.clients, client)
	sess.slc.stopTimer()
}

func (sess *Session) removeClient(client *jsonrpc.JsonRPC) {
	sess.mtx.Lock()
	defer sess.mtx.Unlock()
	if len(sess.clients) == 1 {
		sess.clients = nil
		sess.slc.startTimer()
		return
	}
	for i, cl := range sess.clients {
		if cl == client {
			sess.clients = append(sess.clients[:i], sess.clients[i+1:]...)
			return
		}
	}
}

func (sess *Session) updateClient(client *jsonrpc.JsonRPC, update *Update) {
	client.Notify("Session.Update", update)
}

func (sess *Session) updateClients() {
	update := newUpdate(&sess.state)
	for _, client := range sess.clients {
		sess.updateClient(client, update)
	}
}

func (sess *Session) serve(ws *websocket.Conn) {
	client := jsonrpc.NewJsonRpc(ws)
	client.Register(sess, "")

	sess.addClient(client)

	sess.updateClient(client, sess.currentUpdate())
	client.Serve()

	sess.removeClient(client)
}
