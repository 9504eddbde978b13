package razgif

import (
	"time"
)

type sessionLifecycle struct {
	mgr         *SessionMgr
	roomID      string
	killTimer   *time.Timer
	killTimeout time.Duration
}

func newSessionLifecycle(mgr *SessionMgr, roomID string) *sessionLifecycle {
	slc := &sessionLifecycle{
		mgr:         mgr,
		roomID:      roomID,
		killTimer:   time.NewTimer(mgr.killTimeout),
		killTimeout: mgr.killTimeout,
	}
	go func() {
		<-slc.killTimer.C
		mgr.killSession(slc.roomID)
	}()
	return slc
}

func (slc *sessionLifecycle) resetRoomID(roomID string) {
	slc.roomID = roomID
}

func (slc *sessionLifecycle) update(state []byte) {
	slc.mgr.updateSession(slc.roomID, state)
}

func (slc *sessionLifecycle) startTimer() {
	slc.killTimer.Reset(slc.killTimeout)
}

func (slc *sessionLifecycle) stopTimer() {
	slc.killTimer.Stop()
}
