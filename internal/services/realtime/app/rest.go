package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/louisbranch/clubhouse/internal/platform/errors"
	"github.com/louisbranch/clubhouse/internal/platform/requestctx"
	"github.com/louisbranch/clubhouse/internal/services/realtime/dispatch"
	"github.com/louisbranch/clubhouse/internal/services/realtime/fanout"
	"github.com/louisbranch/clubhouse/internal/services/realtime/storage"
	"github.com/louisbranch/clubhouse/internal/services/realtime/wire"
)

const maxRequestBodyBytes = 64 * 1024

type messageJSON struct {
	ID        string    `json:"id"`
	ClubID    string    `json:"clubId"`
	Sender    string    `json:"sender"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	DID       string    `json:"dID"`
}

type notificationJSON struct {
	ID        string     `json:"id"`
	Kind      string     `json:"kind"`
	ClubID    string     `json:"clubId"`
	EntityID  string     `json:"entityId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
}

type sendMessageRequest struct {
	Message string `json:"message"`
	DID     string `json:"dID"`
}

type sendMessageResponse struct {
	Message   messageJSON `json:"message"`
	Duplicate bool        `json:"duplicate"`
}

type unreadResponse struct {
	Rooms         map[string]int `json:"rooms"`
	Notifications int            `json:"notifications"`
}

type listNotificationsResponse struct {
	Notifications []notificationJSON `json:"notifications"`
	NextPageToken string             `json:"nextPageToken,omitempty"`
}

type markMessagesReadRequest struct {
	IDs []string `json:"ids"`
}

type countResponse struct {
	Count int `json:"count"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error wire.ErrorPayload `json:"error"`
}

func (h *handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var body sendMessageRequest
	if err := decodeJSONBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.services.Fanout.Send(r.Context(), fanout.SendInput{
		SenderID:  requestctx.UserIDFromContext(r.Context()),
		ClubID:    r.PathValue("clubID"),
		Body:      body.Message,
		DedupeKey: body.DID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, sendMessageResponse{
		Message:   toMessageJSON(result.Message),
		Duplicate: result.Duplicate,
	})
}

func (h *handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}
	records, err := h.services.Fanout.History(r.Context(), requestctx.UserIDFromContext(r.Context()), r.PathValue("clubID"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	messages := make([]messageJSON, 0, len(records))
	for _, record := range records {
		messages = append(messages, toMessageJSON(record))
	}
	writeJSON(w, http.StatusOK, map[string][]messageJSON{"messages": messages})
}

// handleMarkRoomRead is the pull-side room close for clients without a
// socket. Only members may mark a room.
func (h *handler) handleMarkRoomRead(w http.ResponseWriter, r *http.Request) {
	userID := requestctx.UserIDFromContext(r.Context())
	clubID := strings.TrimSpace(r.PathValue("clubID"))
	member, err := h.services.Clubs.IsMember(r.Context(), clubID, userID)
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.CodePersistenceFailure, "club membership lookup failed", err))
		return
	}
	if !member {
		writeError(w, apperrors.WithMetadata(apperrors.CodeForbidden, "club membership required", map[string]string{"club_id": clubID}))
		return
	}
	marked, err := h.services.Unread.MarkRoomRead(r.Context(), userID, clubID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: marked})
}

// handleMarkMessagesRead marks the listed messages the client has shown.
func (h *handler) handleMarkMessagesRead(w http.ResponseWriter, r *http.Request) {
	userID := requestctx.UserIDFromContext(r.Context())
	clubID := strings.TrimSpace(r.PathValue("clubID"))
	var req markMessagesReadRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	member, err := h.services.Clubs.IsMember(r.Context(), clubID, userID)
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.CodePersistenceFailure, "club membership lookup failed", err))
		return
	}
	if !member {
		writeError(w, apperrors.WithMetadata(apperrors.CodeForbidden, "club membership required", map[string]string{"club_id": clubID}))
		return
	}
	marked, err := h.services.Unread.MarkMessagesRead(r.Context(), userID, clubID, req.IDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: marked})
}

func (h *handler) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	err := h.services.Fanout.MarkDeletedForSelf(r.Context(), requestctx.UserIDFromContext(r.Context()), r.PathValue("dedupeKey"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, statusResponse{Status: "deleted"})
	case apperrors.IsCode(err, apperrors.CodeAlreadyDone):
		writeJSON(w, http.StatusOK, statusResponse{Status: "already_deleted"})
	default:
		writeError(w, err)
	}
}

func (h *handler) handleUnread(w http.ResponseWriter, r *http.Request) {
	userID := requestctx.UserIDFromContext(r.Context())
	var clubIDs []string
	for _, raw := range r.URL.Query()["clubs"] {
		clubIDs = append(clubIDs, strings.Split(raw, ",")...)
	}
	rooms, err := h.services.Unread.UnreadCountsForRooms(r.Context(), userID, clubIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	notifications, err := h.services.Unread.UnreadNotifications(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, unreadResponse{Rooms: rooms, Notifications: notifications})
}

func (h *handler) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	pageSize, err := intQuery(r, "page_size")
	if err != nil {
		writeError(w, err)
		return
	}
	unreadOnly := false
	if raw := strings.TrimSpace(query.Get("unread_only")); raw != "" {
		unreadOnly, err = strconv.ParseBool(raw)
		if err != nil {
			writeError(w, apperrors.New(apperrors.CodeInvalidInput, "unread_only must be a boolean"))
			return
		}
	}
	page, err := h.services.Dispatch.ListInbox(r.Context(), dispatch.ListInboxInput{
		RecipientID: requestctx.UserIDFromContext(r.Context()),
		PageSize:    pageSize,
		PageToken:   query.Get("page_token"),
		Filter:      query.Get("filter"),
		UnreadOnly:  unreadOnly,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	resp := listNotificationsResponse{
		Notifications: make([]notificationJSON, 0, len(page.Notifications)),
		NextPageToken: page.NextPageToken,
	}
	for _, record := range page.Notifications {
		resp.Notifications = append(resp.Notifications, toNotificationJSON(record))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleMarkNotificationsRead(w http.ResponseWriter, r *http.Request) {
	marked, err := h.services.Dispatch.MarkAllRead(r.Context(), requestctx.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: marked})
}

func (h *handler) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	if err := h.services.Dispatch.Delete(r.Context(), requestctx.UserIDFromContext(r.Context()), r.PathValue("notificationID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleDeleteAllNotifications(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.services.Dispatch.DeleteAll(r.Context(), requestctx.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: deleted})
}

func decodeJSONBody(r *http.Request, target any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.New(apperrors.CodeInvalidInput, "request body is required")
		}
		return apperrors.Wrap(apperrors.CodeInvalidInput, "invalid request body", err)
	}
	return nil
}

func intQuery(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.WithMetadata(apperrors.CodeInvalidInput, key+" must be an integer", map[string]string{"param": key})
	}
	return value, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	writeJSON(w, code.HTTPStatus(), errorResponse{Error: wire.ErrorPayload{
		Code:      string(code),
		Message:   apperrors.PublicMessage(err),
		Retryable: code == apperrors.CodePersistenceFailure,
	}})
}

func toMessageJSON(record storage.MessageRecord) messageJSON {
	return messageJSON{
		ID:        record.ID,
		ClubID:    record.ClubID,
		Sender:    record.SenderID,
		Message:   record.Body,
		CreatedAt: record.CreatedAt.UTC(),
		DID:       record.DedupeKey,
	}
}

func toNotificationJSON(record storage.NotificationRecord) notificationJSON {
	out := notificationJSON{
		ID:        record.ID,
		Kind:      string(record.Kind),
		ClubID:    record.ClubID,
		EntityID:  record.RelatedEntityID,
		CreatedAt: record.CreatedAt.UTC(),
	}
	if record.ReadAt != nil {
		readAt := record.ReadAt.UTC()
		out.ReadAt = &readAt
	}
	return out
}
