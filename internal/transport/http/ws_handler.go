package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/shinehub-server/internal/core"
	"github.com/vovakirdan/shinehub-server/internal/proto"
)

const writeTimeout = 10 * time.Second

var errConnSuperseded = errors.New("connection closed by server")

// WSHandler upgrades HTTP connections and drives one core.Session per connection.
type WSHandler struct {
	hub       *core.Hub
	log       *zerolog.Logger
	readLimit int64
	rateLimit int
}

// NewWSHandler builds a new WebSocket handler. readLimit caps a single inbound
// frame; rateLimit caps sends per connection per minute (0 disables it).
func NewWSHandler(hub *core.Hub, readLimit int64, rateLimit int, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{hub: hub, log: logger, readLimit: readLimit, rateLimit: rateLimit}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.CloseNow()

	if h.readLimit > 0 {
		conn.SetReadLimit(h.readLimit)
	}

	session := h.hub.NewSession()
	defer session.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, session)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, session.Conn())
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	session.Close()
	h.closeConn(conn, session, err)
}

// closeConn ends a connection the client or a read error brought down.
// Server-initiated closes already sent their frame from the writer.
func (h *WSHandler) closeConn(conn *websocket.Conn, session *core.Session, err error) {
	if session.Conn().Reason() != core.CloseNormal {
		return
	}

	status := websocket.StatusNormalClosure
	msg := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != -1 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			msg = "read error"
			h.log.Warn().Err(err).Msg("ws connection closed with error")
		}
	}
	_ = conn.Close(status, msg)
}

// readLoop processes frames strictly in arrival order. Frames that cannot be
// decoded or mapped are dropped and the connection stays open.
func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, session *core.Session) error {
	limiter := newRateLimiter(h.rateLimit)
	// Persistence and fan-out run to completion even if the connection goes away mid-send.
	opCtx := context.WithoutCancel(ctx)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		var inbound proto.Inbound
		if err := json.Unmarshal(data, &inbound); err != nil {
			h.log.Debug().Err(err).Msg("drop undecodable frame")
			continue
		}

		cmd, ok := inboundToCommand(inbound)
		if !ok {
			h.log.Debug().Str("type", inbound.Type).Msg("drop unknown frame")
			continue
		}
		if cmd.Kind == core.CommandSend && !limiter.allow() {
			h.log.Debug().Msg("drop frame over rate limit")
			continue
		}

		if err := session.Handle(opCtx, cmd); err != nil {
			ev := h.log.Debug().Err(err).Str("type", inbound.Type)
			if id, ok := session.Identity(); ok {
				ev = ev.Int64("user_id", id.ID)
			}
			ev.Msg("frame not applied")
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, out *core.Conn) error {
	for {
		select {
		case event := <-out.Events():
			outbound, ok := outboundFromEvent(event)
			if !ok {
				continue
			}
			if err := h.write(ctx, conn, outbound); err != nil {
				h.log.Error().Err(err).Int64("user_id", out.UserID()).Msg("write ws event")
				return err
			}
		case <-out.Done():
			h.closeByServer(conn, out)
			return errConnSuperseded
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// closeByServer tells the client why the server dropped it.
func (h *WSHandler) closeByServer(conn *websocket.Conn, out *core.Conn) {
	var code websocket.StatusCode
	switch out.Reason() {
	case core.CloseReplaced:
		code = proto.CloseCodeReplaced
	case core.CloseKicked:
		code = proto.CloseCodeKicked
	default:
		return
	}

	h.log.Debug().Int64("user_id", out.UserID()).Str("reason", out.Reason().String()).Msg("closing superseded connection")
	_ = conn.Close(code, out.Reason().String())
}

func (h *WSHandler) write(ctx context.Context, conn *websocket.Conn, v any) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, v)
}
