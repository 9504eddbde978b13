package connector

import (
	"io"
	"strings"
	"sync/atomic"

	"github.com/razzie/jsonrpc"
	"github.com/razzie/razgif/pkg/razgif"
	"golang.org/x/net/websocket"
)

type Connection struct {
	ws      io.Closer
	client  *jsonrpc.JsonRPC
	updates chan *razgif.Update
	C       <-chan *razgif.Update
	State   atomic.Pointer[razgif.Update]
}

func NewConnection(sessionURL string) (*Connection, error) {
	wsURL := strings.NewReplacer("http://", "ws://", "https://", "wss://", "/session/", "/ws/").Replace(sessionURL)
	ws, err := websocket.Dial(wsURL, "", wsURL)
	if err != nil {
		return nil, err
	}
	conn := &Connection{
		ws:      ws,
		client:  jsonrpc.NewJsonRpc(ws),
		updates: make(chan *razgif.Update),
	}
	conn.C = conn.updates
	conn.client.Register(&Session{conn: conn}, "")
	go conn.client.Serve()
	return conn, nil
}

// AddFrame uploads an encoded image (PNG, JPEG or GIF) and returns
// the session's new frame count.
func (conn *Connection) AddFrame(data []byte, delay int) (count int, err error) {
	err = conn.client.Call("Session.AddFrame", razgif.FrameData{Data: data, Delay: delay}, &count)
	return
}

func (conn *Connection) SetLoop(loop int) error {
	var unused bool
	return conn.client.Call("Session.SetLoop", loop, &unused)
}

func (conn *Connection) SetPaletteSize(size int) error {
	var unused bool
	return conn.client.Call("Session.SetPaletteSize", size, &unused)
}

func (conn *Connection) Clear() error {
	var cleared bool
	return conn.client.Call("Session.Clear", false, &cleared)
}

func (conn *Connection) Close() error {
	return conn.ws.Close()
}

func (conn *Connection) update(update *razgif.Update) {
	conn.State.Store(update)
	go func() {
		conn.updates <- update
	}()
}
