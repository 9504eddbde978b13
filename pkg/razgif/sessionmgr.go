package razgif

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/websocket"
)

const DefaultKillTimeout = time.Hour

type SessionMgr struct {
	killTimeout time.Duration
	sessions    sync.Map
	db          *DB
}

func NewSessionMgr(redisURL string, killTimeout time.Duration) *SessionMgr {
	if killTimeout == 0 {
		killTimeout = DefaultKillTimeout
	}
	mgr := &SessionMgr{
		killTimeout: killTimeout,
	}
	if len(redisURL) > 0 {
		db, err := NewDB(redisURL)
		if err != nil {
			log.Println("Redis error:", err)
		} else {
			mgr.db = db
			mgr.loadSessions()
		}
	}
	return mgr
}

func (mgr *SessionMgr) GetSession(roomID string) *Session {
	sess, loaded := mgr.sessions.LoadOrStore(roomID, &Session{})
	if !loaded {
		sess.(*Session).init(newSessionLifecycle(mgr, roomID), nil)
		log.Printf("[new session: %s]", roomID)
	}
	return sess.(*Session)
}

func (mgr *SessionMgr) ServeRPC(w http.ResponseWriter, r *http.Request, roomID string) {
	websocket.Handler(mgr.GetSession(roomID).serve).ServeHTTP(w, r)
}

// NewDemoSession spins up a session preloaded with a sample animation.
func (mgr *SessionMgr) NewDemoSession() (string, error) {
	state, err := demoState()
	if err != nil {
		return "", err
	}
	slc := newSessionLifecycle(mgr, "")
	sess := &Session{slc: slc, state: *state}
	for {
		roomID := "demo-" + GenerateID(6)
		if _, loaded := mgr.sessions.LoadOrStore(roomID, sess); !loaded {
			slc.resetRoomID(roomID)
			sess.persist()
			log.Printf("[new demo session: %s]", roomID)
			return roomID, nil
		}
	}
}

// RenderGIF encodes the animation of an existing session.
func (mgr *SessionMgr) RenderGIF(w io.Writer, roomID string) error {
	sess, ok := mgr.sessions.Load(roomID)
	if !ok {
		return fmt.Errorf("no such session: %s", roomID)
	}
	return sess.(*Session).render(w)
}

func (mgr *SessionMgr) loadSessions() {
	for roomID, blob := range mgr.db.LoadSessions() {
		log.Printf("[loading session from persistent storage: %s]", roomID)
		sess, err := newSession(newSessionLifecycle(mgr, roomID), blob)
		if err != nil {
			log.Println(err)
			continue
		}
		mgr.sessions.Store(roomID, sess)
	}
}

func (mgr *SessionMgr) updateSession(roomID string, state []byte) {
	if mgr.db != nil && len(roomID) > 0 {
		mgr.db.SaveSession(roomID, state, mgr.killTimeout)
	}
}

func (mgr *SessionMgr) killSession(roomID string) {
	log.Printf("[session expired: %s]", roomID)
	mgr.sessions.Delete(roomID)
}
