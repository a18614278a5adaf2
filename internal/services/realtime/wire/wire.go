// Package wire defines the client-facing realtime events and the frame
// envelope that carries them over the websocket.
//
// Event names are part of the client contract and must not change.
package wire

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	apperrors "github.com/louisbranch/clubhouse/internal/platform/errors"
)

const (
	EventRegister    = "register"
	EventJoinRoom    = "joinRoom"
	EventLeaveRoom   = "leaveRoom"
	EventSendMessage = "sendMessage"

	EventMessage           = "message"
	EventNotification      = "notification"
	EventUpdateUnreadCount = "updateUnreadCount"

	// EventAck and EventError are transport replies to inbound frames.
	EventAck   = "ack"
	EventError = "error"
)

// Frame is the JSON envelope for every websocket message.
type Frame struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Inbound is one validated client event.
type Inbound interface {
	EventName() string
	inbound()
}

// Register binds the connection to a user.
type Register struct {
	UserID string `json:"userId"`
}

// JoinRoom subscribes the connection to a club room.
type JoinRoom struct {
	ClubID string `json:"clubId"`
}

// LeaveRoom unsubscribes the connection from a club room.
type LeaveRoom struct {
	ClubID string `json:"clubId"`
}

// SendMessage posts a chat message. Room and ClubID name the same club;
// DID is the client dedupe key.
type SendMessage struct {
	Room    string `json:"room,omitempty"`
	Message string `json:"message"`
	Sender  string `json:"sender,omitempty"`
	DID     string `json:"dID,omitempty"`
	ClubID  string `json:"clubId"`
}

func (Register) EventName() string    { return EventRegister }
func (JoinRoom) EventName() string    { return EventJoinRoom }
func (LeaveRoom) EventName() string   { return EventLeaveRoom }
func (SendMessage) EventName() string { return EventSendMessage }

func (Register) inbound()    {}
func (JoinRoom) inbound()    {}
func (LeaveRoom) inbound()   {}
func (SendMessage) inbound() {}

// Outbound is one server-pushed event.
type Outbound interface {
	EventName() string
	outbound()
}

// Message is a chat message pushed to room subscribers.
type Message struct {
	Message   string    `json:"message"`
	Sender    string    `json:"sender"`
	CreatedAt time.Time `json:"createdAt"`
	DID       string    `json:"dID"`
}

// Notification is a live alert for a new notification record.
type Notification struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Club    string `json:"club"`
}

// UpdateUnreadCount tells the client to re-fetch its unread counts. It
// carries no data.
type UpdateUnreadCount struct{}

func (Message) EventName() string           { return EventMessage }
func (Notification) EventName() string      { return EventNotification }
func (UpdateUnreadCount) EventName() string { return EventUpdateUnreadCount }

func (Message) outbound()           {}
func (Notification) outbound()      {}
func (UpdateUnreadCount) outbound() {}

// Emitter delivers outbound events to one live connection.
type Emitter interface {
	Emit(ctx context.Context, connectionID string, event Outbound) error
}

// Ack acknowledges an inbound frame.
type Ack struct {
	Event     string `json:"event"`
	DID       string `json:"dID,omitempty"`
	Duplicate bool   `json:"duplicate,omitempty"`
	Count     int    `json:"count,omitempty"`
}

// ErrorPayload reports a failed inbound frame. The connection stays open.
type ErrorPayload struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// DecodeInbound validates a frame and returns its typed event.
func DecodeInbound(frame Frame) (Inbound, error) {
	switch strings.TrimSpace(frame.Type) {
	case EventRegister:
		var payload Register
		if err := decodePayload(frame, &payload); err != nil {
			return nil, err
		}
		payload.UserID = strings.TrimSpace(payload.UserID)
		if payload.UserID == "" {
			return nil, apperrors.New(apperrors.CodeInvalidInput, "userId is required")
		}
		return payload, nil
	case EventJoinRoom:
		var payload JoinRoom
		if err := decodePayload(frame, &payload); err != nil {
			return nil, err
		}
		payload.ClubID = strings.TrimSpace(payload.ClubID)
		if payload.ClubID == "" {
			return nil, apperrors.New(apperrors.CodeInvalidInput, "clubId is required")
		}
		return payload, nil
	case EventLeaveRoom:
		var payload LeaveRoom
		if err := decodePayload(frame, &payload); err != nil {
			return nil, err
		}
		payload.ClubID = strings.TrimSpace(payload.ClubID)
		if payload.ClubID == "" {
			return nil, apperrors.New(apperrors.CodeInvalidInput, "clubId is required")
		}
		return payload, nil
	case EventSendMessage:
		var payload SendMessage
		if err := decodePayload(frame, &payload); err != nil {
			return nil, err
		}
		payload.Room = strings.TrimSpace(payload.Room)
		payload.ClubID = strings.TrimSpace(payload.ClubID)
		payload.Sender = strings.TrimSpace(payload.Sender)
		payload.DID = strings.TrimSpace(payload.DID)
		if payload.ClubID == "" {
			payload.ClubID = payload.Room
		}
		if payload.ClubID == "" {
			return nil, apperrors.New(apperrors.CodeInvalidInput, "clubId is required")
		}
		if payload.Room != "" && payload.Room != payload.ClubID {
			return nil, apperrors.New(apperrors.CodeInvalidInput, "room and clubId must match")
		}
		return payload, nil
	default:
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidInput, "unknown event", map[string]string{"type": frame.Type})
	}
}

func decodePayload(frame Frame, target any) error {
	if len(frame.Payload) == 0 {
		return apperrors.New(apperrors.CodeInvalidInput, "payload is required")
	}
	if err := json.Unmarshal(frame.Payload, target); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "invalid payload", err)
	}
	return nil
}

// EncodeOutbound wraps an outbound event in a frame.
func EncodeOutbound(event Outbound) (Frame, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Type: event.EventName(), Payload: payload}, nil
}

// AckFrame builds the reply for a handled inbound frame.
func AckFrame(requestID string, ack Ack) Frame {
	payload, _ := json.Marshal(ack)
	return Frame{Type: EventAck, RequestID: requestID, Payload: payload}
}

// ErrorFrame builds the reply for a failed inbound frame.
func ErrorFrame(requestID string, err error) Frame {
	code := apperrors.GetCode(err)
	payload, _ := json.Marshal(ErrorPayload{
		Code:      string(code),
		Message:   apperrors.PublicMessage(err),
		Retryable: code == apperrors.CodePersistenceFailure,
	})
	return Frame{Type: EventError, RequestID: requestID, Payload: payload}
}
