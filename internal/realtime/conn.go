package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/campushub/portal-backend/pkg/auth"
	"github.com/campushub/portal-backend/pkg/config"
	"github.com/campushub/portal-backend/pkg/logger"
)

const (
	actionJoinCourse  = "join_course"
	actionLeaveCourse = "leave_course"
)

// clientFrame is the only client→server message shape: explicit course room
// membership changes.
type clientFrame struct {
	Action   string `json:"action"`
	CourseID string `json:"courseId"`
}

// Conn wraps one authenticated websocket. The identity is fixed at handshake
// and discarded when the connection closes.
type Conn struct {
	hub      *Hub
	ws       *websocket.Conn
	identity auth.Identity
	cfg      config.RealtimeConfig
	logg     *logger.Logger

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newConn(hub *Hub, ws *websocket.Conn, identity auth.Identity, cfg config.RealtimeConfig, logg *logger.Logger) *Conn {
	buffer := cfg.SendBufferSize
	if buffer <= 0 {
		buffer = 32
	}
	return &Conn{
		hub:      hub,
		ws:       ws,
		identity: identity,
		cfg:      cfg,
		logg:     logg,
		send:     make(chan []byte, buffer),
		done:     make(chan struct{}),
	}
}

// Identity returns the verified connection identity.
func (c *Conn) Identity() auth.Identity {
	return c.identity
}

// Enqueue hands a frame to the write pump without blocking.
func (c *Conn) Enqueue(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Conn) close() {
	c.closeOnce.Do(func() {
		c.hub.Remove(c)
		close(c.done)
		_ = c.ws.Close()
	})
}

// readPump consumes client frames until the socket closes. join/leave are
// idempotent; malformed frames are logged and skipped.
func (c *Conn) readPump(ctx context.Context) {
	defer c.close()

	if c.cfg.MaxMessageBytes > 0 {
		c.ws.SetReadLimit(c.cfg.MaxMessageBytes)
	}
	deadline := func() {
		if c.cfg.PongTimeout > 0 {
			_ = c.ws.SetReadDeadline(time.Now().Add(c.cfg.PongTimeout))
		}
	}
	deadline()
	c.ws.SetPongHandler(func(string) error {
		deadline()
		return nil
	})

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			return
		}

		var frame clientFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.logg.Warn(ctx, "unreadable client frame skipped")
			continue
		}

		switch frame.Action {
		case actionJoinCourse, actionLeaveCourse:
			courseID, err := uuid.Parse(frame.CourseID)
			if err != nil {
				c.logg.Warn(ctx, "client frame carried invalid course id")
				continue
			}
			room := CourseRoom(courseID)
			if frame.Action == actionJoinCourse {
				c.hub.Join(c, room)
				c.logg.Info(c.logg.WithRoom(ctx, room), "joined course room")
			} else {
				c.hub.Leave(c, room)
				c.logg.Info(c.logg.WithRoom(ctx, room), "left course room")
			}
		default:
			c.logg.Warn(ctx, "unknown client action skipped")
		}
	}
}

// writePump drains the send queue onto the socket and keeps the connection
// alive with pings.
func (c *Conn) writePump() {
	interval := c.cfg.PingInterval
	if interval <= 0 {
		interval = 25 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	writeDeadline := func() time.Time {
		if c.cfg.WriteTimeout > 0 {
			return time.Now().Add(c.cfg.WriteTimeout)
		}
		return time.Time{}
	}

	for {
		select {
		case <-c.done:
			_ = c.ws.SetWriteDeadline(writeDeadline())
			_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case frame := <-c.send:
			_ = c.ws.SetWriteDeadline(writeDeadline())
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(writeDeadline())
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
