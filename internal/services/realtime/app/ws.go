package server

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	apperrors "github.com/louisbranch/clubhouse/internal/platform/errors"
	"github.com/louisbranch/clubhouse/internal/platform/requestctx"
	"github.com/louisbranch/clubhouse/internal/platform/timeouts"
	"github.com/louisbranch/clubhouse/internal/services/realtime/fanout"
	"github.com/louisbranch/clubhouse/internal/services/realtime/wire"
	"golang.org/x/net/websocket"
)

const (
	maxFramePayloadBytes   = 16 * 1024
	maxFramesPerSecond     = 40
	maxDecodeErrorsPerConn = 3

	// maxSocketFrameBytes leaves room for the envelope around a full payload.
	maxSocketFrameBytes = 2 * maxFramePayloadBytes
	wsWriteTimeout      = 10 * time.Second
)

// wsSession is the per-socket state owned by the reader goroutine.
type wsSession struct {
	connectionID string
	// tokenUserID is the verified token subject; empty when tokens are off.
	tokenUserID string
	userID      string
	peer        *wsPeer
}

func (h *handler) handleWSConn(conn *websocket.Conn) {
	connectionID, err := h.newID()
	if err != nil {
		h.logf("realtime: websocket rejected, connection id failed: %v", err)
		_ = conn.Close()
		return
	}

	conn.MaxPayloadBytes = maxSocketFrameBytes
	peer := newWSPeer()
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		peer.writeLoop(func(frame wire.Frame) error {
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			return websocket.JSON.Send(conn, frame)
		})
	}()
	h.services.connections.add(connectionID, peer)

	session := &wsSession{connectionID: connectionID, peer: peer}
	baseCtx := context.Background()
	if request := conn.Request(); request != nil {
		baseCtx = request.Context()
		session.tokenUserID = requestctx.UserIDFromContext(baseCtx)
	}
	baseCtx = requestctx.WithConnectionID(baseCtx, connectionID)

	defer func() {
		h.services.Disconnect(connectionID)
		peer.close()
		<-writerDone
		_ = conn.Close()
	}()

	windowStart := time.Now()
	framesInWindow := 0
	decodeErrors := 0

	for {
		var frame wire.Frame
		if err := websocket.JSON.Receive(conn, &frame); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			message := "invalid frame payload"
			switch {
			case errors.Is(err, websocket.ErrFrameTooLarge):
				message = "payload too large"
			case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
			default:
				// EOF, reset, or a closed peer.
				return
			}
			decodeErrors++
			h.reply(session, wire.ErrorFrame("", apperrors.New(apperrors.CodeInvalidInput, message)))
			if decodeErrors >= maxDecodeErrorsPerConn {
				return
			}
			continue
		}
		decodeErrors = 0

		if len(frame.Payload) > maxFramePayloadBytes {
			h.reply(session, wire.ErrorFrame(frame.RequestID, apperrors.New(apperrors.CodeInvalidInput, "payload too large")))
			continue
		}

		now := time.Now()
		if now.Sub(windowStart) >= time.Second {
			windowStart = now
			framesInWindow = 0
		}
		framesInWindow++
		if framesInWindow > maxFramesPerSecond {
			h.reply(session, wire.ErrorFrame(frame.RequestID, apperrors.New(apperrors.CodeRateLimited, "rate limit exceeded")))
			return
		}

		event, err := wire.DecodeInbound(frame)
		if err != nil {
			h.reply(session, wire.ErrorFrame(frame.RequestID, err))
			continue
		}
		ack, err := h.handleInbound(baseCtx, session, event)
		if err != nil {
			h.logf("realtime: frame failed conn=%q type=%q err=%v", connectionID, frame.Type, err)
			h.reply(session, wire.ErrorFrame(frame.RequestID, err))
			continue
		}
		h.reply(session, wire.AckFrame(frame.RequestID, ack))
	}
}

func (h *handler) reply(session *wsSession, frame wire.Frame) {
	if err := session.peer.enqueue(frame); err != nil {
		h.logf("realtime: reply dropped conn=%q type=%q err=%v", session.connectionID, frame.Type, err)
	}
}

func (h *handler) handleInbound(ctx context.Context, session *wsSession, event wire.Inbound) (wire.Ack, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.StoreCall)
	defer cancel()

	switch event := event.(type) {
	case wire.Register:
		return h.handleRegister(ctx, session, event)
	case wire.JoinRoom:
		return h.handleJoin(ctx, session, event)
	case wire.LeaveRoom:
		return h.handleLeave(ctx, session, event)
	case wire.SendMessage:
		return h.handleSend(ctx, session, event)
	default:
		return wire.Ack{}, apperrors.New(apperrors.CodeInvalidInput, "unsupported event")
	}
}

// handleRegister binds the connection to a user. Re-registering as another
// user closes every room the connection had joined for the previous user.
func (h *handler) handleRegister(ctx context.Context, session *wsSession, event wire.Register) (wire.Ack, error) {
	if session.tokenUserID != "" && session.tokenUserID != event.UserID {
		return wire.Ack{}, apperrors.New(apperrors.CodeUnauthorized, "userId does not match access token")
	}
	h.services.RegisterConnection(ctx, event.UserID, session.connectionID)
	session.userID = event.UserID
	return wire.Ack{Event: wire.EventRegister}, nil
}

// handleJoin subscribes the connection and marks the room read, since
// joining means the user is looking at it.
func (h *handler) handleJoin(ctx context.Context, session *wsSession, event wire.JoinRoom) (wire.Ack, error) {
	if session.userID == "" {
		return wire.Ack{}, apperrors.New(apperrors.CodeUnauthorized, "register before joining a room")
	}
	if err := h.services.Rooms.Join(ctx, session.connectionID, session.userID, event.ClubID); err != nil {
		if apperrors.IsCode(err, apperrors.CodeUnauthorized) {
			h.logf("realtime: join denied user=%q club=%q", session.userID, event.ClubID)
		}
		return wire.Ack{}, err
	}
	marked, err := h.services.Unread.MarkRoomRead(ctx, session.userID, event.ClubID)
	if err != nil {
		h.logf("realtime: mark read on join failed user=%q club=%q err=%v", session.userID, event.ClubID, err)
	}
	return wire.Ack{Event: wire.EventJoinRoom, Count: marked}, nil
}

// handleLeave unsubscribes the connection and closes out the room's unread
// messages.
func (h *handler) handleLeave(ctx context.Context, session *wsSession, event wire.LeaveRoom) (wire.Ack, error) {
	if !h.services.Rooms.Leave(session.connectionID, event.ClubID) || session.userID == "" {
		return wire.Ack{Event: wire.EventLeaveRoom}, nil
	}
	marked, err := h.services.Unread.MarkRoomRead(ctx, session.userID, event.ClubID)
	if err != nil {
		return wire.Ack{}, err
	}
	return wire.Ack{Event: wire.EventLeaveRoom, Count: marked}, nil
}

func (h *handler) handleSend(ctx context.Context, session *wsSession, event wire.SendMessage) (wire.Ack, error) {
	if session.userID == "" {
		return wire.Ack{}, apperrors.New(apperrors.CodeUnauthorized, "register before sending")
	}
	if event.Sender != "" && event.Sender != session.userID {
		return wire.Ack{}, apperrors.New(apperrors.CodeUnauthorized, "sender does not match registered user")
	}
	result, err := h.services.Fanout.Send(ctx, fanout.SendInput{
		SenderID:  session.userID,
		ClubID:    event.ClubID,
		Body:      event.Message,
		DedupeKey: event.DID,
	})
	if err != nil {
		return wire.Ack{}, err
	}
	return wire.Ack{
		Event:     wire.EventSendMessage,
		DID:       result.Message.DedupeKey,
		Duplicate: result.Duplicate,
		Count:     result.Delivered,
	}, nil
}

func (h *handler) newID() (string, error) {
	connectionID, err := h.idGen()
	if err != nil {
		return "", err
	}
	connectionID = strings.TrimSpace(connectionID)
	if connectionID == "" {
		return "", errors.New("empty connection id")
	}
	return connectionID, nil
}
