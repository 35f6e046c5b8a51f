package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	cserrors "github.com/matzehuels/colorsplash/pkg/errors"
	"github.com/matzehuels/colorsplash/pkg/session"
)

// handleSocket streams input events into a session. Each message gets an
// outcome reply; cues and downloads are pushed as they happen. The socket is
// closed with a going-away frame once the session's studio stops.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	replies := make(chan outcome, 16)
	writerDone := make(chan struct{})
	go s.writePump(conn, sess, replies, writerDone)

	quit := make(chan struct{})
	defer close(quit)
	go func() {
		select {
		case <-sess.Studio.Done():
			s.closeSocket(conn, sess)
		case <-quit:
		}
	}()

	for {
		var msg inbound
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("socket read", "session", sess.ID, "err", err)
			}
			close(replies)
			return
		}
		sess.Touch()

		reply := outcome{Type: "outcome", Seq: msg.Seq}
		stopped := false
		if ev, err := msg.event(); err != nil {
			reply.Error = &wireError{Code: string(cserrors.ErrCodeInvalidInput), Message: err.Error()}
		} else {
			out := sess.Studio.Dispatch(ev)
			reply.PreventDefault = out.PreventDefault
			if out.Err != nil {
				code := cserrors.GetCode(out.Err)
				if code == "" {
					code = cserrors.ErrCodeInternal
				}
				stopped = code == cserrors.ErrCodeStopped
				reply.Error = &wireError{Code: string(code), Message: cserrors.UserMessage(out.Err)}
			}
		}

		select {
		case replies <- reply:
		case <-writerDone:
			return
		}
		if stopped {
			// Let the writer flush the last reply before the close frame.
			close(replies)
			<-writerDone
			s.closeSocket(conn, sess)
			return
		}
	}
}

func (s *Server) closeSocket(conn *websocket.Conn, sess *session.Session) {
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "session ended")
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)); err != nil {
		s.logger.Debug("socket close", "session", sess.ID, "err", err)
	}
	conn.Close()
}

// writePump owns all writes to conn. It exits when replies is closed or a
// write fails, closing conn in the latter case so the reader stops too.
func (s *Server) writePump(conn *websocket.Conn, sess *session.Session, replies <-chan outcome, done chan<- struct{}) {
	defer close(done)
	for {
		var err error
		select {
		case reply, ok := <-replies:
			if !ok {
				return
			}
			err = conn.WriteJSON(reply)
		case n := <-sess.Notices():
			err = conn.WriteJSON(n)
		}
		if err != nil {
			s.logger.Debug("socket write", "session", sess.ID, "err", err)
			conn.Close()
			return
		}
	}
}
