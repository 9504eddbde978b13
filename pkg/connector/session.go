package connector

import (
	"github.com/razzie/razgif/pkg/razgif"
)

type Session struct {
	conn *Connection
}

func (sess *Session) Update(update *razgif.Update, unused *bool) error {
	sess.conn.update(update)
	return nil
}
