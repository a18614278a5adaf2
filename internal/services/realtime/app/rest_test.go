package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/clubhouse/internal/services/realtime/dispatch"
	"github.com/louisbranch/clubhouse/internal/services/realtime/storage"
)

type restResponse struct {
	status int
	body   []byte
}

func (e *testEnv) do(t *testing.T, method, path, userID string, body any) restResponse {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = strings.NewReader(string(raw))
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if userID != "" {
		req.Header.Set(userIDHeader, userID)
	}
	resp, err := e.server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return restResponse{status: resp.StatusCode, body: raw}
}

func decodeBody[T any](t *testing.T, resp restResponse) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(resp.body, &out); err != nil {
		t.Fatalf("decode body %s: %v", resp.body, err)
	}
	return out
}

func expectStatus(t *testing.T, resp restResponse, want int) {
	t.Helper()
	if resp.status != want {
		t.Fatalf("status = %d, want %d (body %s)", resp.status, want, resp.body)
	}
}

func expectErrorCode(t *testing.T, resp restResponse, status int, code string) {
	t.Helper()
	expectStatus(t, resp, status)
	if got := decodeBody[errorResponse](t, resp); got.Error.Code != code {
		t.Fatalf("error code = %q, want %q", got.Error.Code, code)
	}
}

func TestRESTRequiresIdentity(t *testing.T) {
	env := newTestEnv(t, "")
	expectErrorCode(t, env.do(t, http.MethodGet, "/unread", "", nil), http.StatusUnauthorized, "UNAUTHORIZED")
}

func TestRESTMessageFlow(t *testing.T) {
	env := newTestEnv(t, "")
	messagesPath := "/clubs/" + testClubID + "/messages"

	created := env.do(t, http.MethodPost, messagesPath, "alice", sendMessageRequest{Message: "meeting at 5", DID: "r1"})
	expectStatus(t, created, http.StatusCreated)
	sent := decodeBody[sendMessageResponse](t, created)
	if sent.Message.DID != "r1" || sent.Message.Sender != "alice" || sent.Duplicate {
		t.Fatalf("send response = %+v", sent)
	}

	again := env.do(t, http.MethodPost, messagesPath, "alice", sendMessageRequest{Message: "meeting at 6", DID: "r1"})
	expectStatus(t, again, http.StatusOK)
	if !decodeBody[sendMessageResponse](t, again).Duplicate {
		t.Fatal("expected duplicate on resend")
	}

	expectErrorCode(t, env.do(t, http.MethodPost, messagesPath, "bob", sendMessageRequest{Message: "mine", DID: "r1"}), http.StatusConflict, "CONFLICT")
	expectErrorCode(t, env.do(t, http.MethodPost, messagesPath, "carol", sendMessageRequest{Message: "let me in"}), http.StatusForbidden, "FORBIDDEN")
	expectErrorCode(t, env.do(t, http.MethodPost, messagesPath, "alice", sendMessageRequest{Message: " "}), http.StatusBadRequest, "INVALID_INPUT")

	history := decodeBody[map[string][]messageJSON](t, env.do(t, http.MethodGet, messagesPath+"?limit=10", "bob", nil))
	if got := history["messages"]; len(got) != 1 || got[0].Message != "meeting at 6" {
		t.Fatalf("history = %+v, want the updated message", got)
	}
	expectErrorCode(t, env.do(t, http.MethodGet, messagesPath+"?limit=ten", "bob", nil), http.StatusBadRequest, "INVALID_INPUT")
	expectErrorCode(t, env.do(t, http.MethodGet, messagesPath, "carol", nil), http.StatusForbidden, "FORBIDDEN")

	unread := decodeBody[unreadResponse](t, env.do(t, http.MethodGet, "/unread?clubs="+testClubID+",club-2", "bob", nil))
	if unread.Rooms[testClubID] != 1 || unread.Rooms["club-2"] != 0 || len(unread.Rooms) != 2 {
		t.Fatalf("bob unread rooms = %v, want club-1:1 club-2:0", unread.Rooms)
	}

	read := env.do(t, http.MethodPost, "/clubs/"+testClubID+"/read", "bob", nil)
	expectStatus(t, read, http.StatusOK)
	if got := decodeBody[countResponse](t, read); got.Count != 1 {
		t.Fatalf("marked = %d, want 1", got.Count)
	}
	expectErrorCode(t, env.do(t, http.MethodPost, "/clubs/"+testClubID+"/read", "carol", nil), http.StatusForbidden, "FORBIDDEN")

	unread = decodeBody[unreadResponse](t, env.do(t, http.MethodGet, "/unread?clubs="+testClubID, "bob", nil))
	if unread.Rooms[testClubID] != 0 {
		t.Fatalf("bob unread after read = %d, want 0", unread.Rooms[testClubID])
	}
}

func TestRESTMarkMessagesRead(t *testing.T) {
	env := newTestEnv(t, "")
	messagesPath := "/clubs/" + testClubID + "/messages"

	var ids []string
	for _, body := range []string{"one", "two"} {
		created := env.do(t, http.MethodPost, messagesPath, "alice", sendMessageRequest{Message: body, DID: body})
		expectStatus(t, created, http.StatusCreated)
		ids = append(ids, decodeBody[sendMessageResponse](t, created).Message.ID)
	}

	read := env.do(t, http.MethodPost, messagesPath+"/read", "bob", markMessagesReadRequest{IDs: ids[:1]})
	expectStatus(t, read, http.StatusOK)
	if got := decodeBody[countResponse](t, read); got.Count != 1 {
		t.Fatalf("marked = %d, want 1", got.Count)
	}
	unread := decodeBody[unreadResponse](t, env.do(t, http.MethodGet, "/unread?clubs="+testClubID, "bob", nil))
	if unread.Rooms[testClubID] != 1 {
		t.Fatalf("bob unread = %d, want 1", unread.Rooms[testClubID])
	}

	expectErrorCode(t, env.do(t, http.MethodPost, messagesPath+"/read", "carol", markMessagesReadRequest{IDs: ids}), http.StatusForbidden, "FORBIDDEN")
	expectErrorCode(t, env.do(t, http.MethodPost, messagesPath+"/read", "bob", nil), http.StatusBadRequest, "INVALID_INPUT")
}

func TestRESTDeleteForMe(t *testing.T) {
	env := newTestEnv(t, "")
	if _, err := env.services.Fanout.Send(context.Background(), sendInput("alice", "oops", "d1")); err != nil {
		t.Fatalf("send: %v", err)
	}

	first := env.do(t, http.MethodDelete, "/messages/d1", "bob", nil)
	expectStatus(t, first, http.StatusOK)
	if got := decodeBody[statusResponse](t, first); got.Status != "deleted" {
		t.Fatalf("status = %q, want deleted", got.Status)
	}
	second := env.do(t, http.MethodDelete, "/messages/d1", "bob", nil)
	expectStatus(t, second, http.StatusOK)
	if got := decodeBody[statusResponse](t, second); got.Status != "already_deleted" {
		t.Fatalf("status = %q, want already_deleted", got.Status)
	}
	expectErrorCode(t, env.do(t, http.MethodDelete, "/messages/missing", "bob", nil), http.StatusNotFound, "NOT_FOUND")

	history := decodeBody[map[string][]messageJSON](t, env.do(t, http.MethodGet, "/clubs/"+testClubID+"/messages", "bob", nil))
	if len(history["messages"]) != 0 {
		t.Fatalf("bob history = %+v, want empty", history["messages"])
	}
	history = decodeBody[map[string][]messageJSON](t, env.do(t, http.MethodGet, "/clubs/"+testClubID+"/messages", "alice", nil))
	if len(history["messages"]) != 1 {
		t.Fatalf("alice history = %+v, want the message", history["messages"])
	}
}

func TestRESTInbox(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	for _, kind := range []storage.NotificationKind{storage.NotificationKindEvent, storage.NotificationKindAnnouncement} {
		if _, err := env.services.Dispatch.FanOutDomainEvent(ctx, dispatch.DomainEvent{
			Kind:            kind,
			ActorID:         "alice",
			ClubID:          testClubID,
			RelatedEntityID: "entity-" + string(kind),
		}); err != nil {
			t.Fatalf("fan out %s: %v", kind, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	unread := decodeBody[unreadResponse](t, env.do(t, http.MethodGet, "/unread", "bob", nil))
	if unread.Notifications != 2 || len(unread.Rooms) != 0 {
		t.Fatalf("bob unread = %+v, want 2 notifications and no rooms", unread)
	}

	filtered := decodeBody[listNotificationsResponse](t, env.do(t, http.MethodGet, "/notifications?filter="+url.QueryEscape(`kind = "event"`), "bob", nil))
	if len(filtered.Notifications) != 1 || filtered.Notifications[0].EntityID != "entity-event" {
		t.Fatalf("filtered inbox = %+v, want the event notification", filtered.Notifications)
	}
	expectErrorCode(t, env.do(t, http.MethodGet, "/notifications?filter="+url.QueryEscape(`color = "red"`), "bob", nil), http.StatusBadRequest, "INVALID_INPUT")
	expectErrorCode(t, env.do(t, http.MethodGet, "/notifications?unread_only=maybe", "bob", nil), http.StatusBadRequest, "INVALID_INPUT")

	paged := decodeBody[listNotificationsResponse](t, env.do(t, http.MethodGet, "/notifications?page_size=1", "bob", nil))
	if len(paged.Notifications) != 1 || paged.NextPageToken == "" {
		t.Fatalf("first page = %+v, want one record and a token", paged)
	}
	next := decodeBody[listNotificationsResponse](t, env.do(t, http.MethodGet, "/notifications?page_size=1&page_token="+url.QueryEscape(paged.NextPageToken), "bob", nil))
	if len(next.Notifications) != 1 || next.Notifications[0].ID == paged.Notifications[0].ID {
		t.Fatalf("second page = %+v", next)
	}

	if got := decodeBody[countResponse](t, env.do(t, http.MethodPost, "/notifications/read", "bob", nil)); got.Count != 2 {
		t.Fatalf("marked = %d, want 2", got.Count)
	}
	unreadOnly := decodeBody[listNotificationsResponse](t, env.do(t, http.MethodGet, "/notifications?unread_only=true", "bob", nil))
	if len(unreadOnly.Notifications) != 0 {
		t.Fatalf("unread inbox = %+v, want empty", unreadOnly.Notifications)
	}

	target := paged.Notifications[0].ID
	expectErrorCode(t, env.do(t, http.MethodDelete, "/notifications/"+target, "alice", nil), http.StatusNotFound, "NOT_FOUND")
	expectStatus(t, env.do(t, http.MethodDelete, "/notifications/"+target, "bob", nil), http.StatusNoContent)
	if got := decodeBody[countResponse](t, env.do(t, http.MethodDelete, "/notifications", "bob", nil)); got.Count != 1 {
		t.Fatalf("deleted = %d, want 1", got.Count)
	}
}

func TestRESTBearerToken(t *testing.T) {
	const secret = "rest-secret"
	env := newTestEnv(t, secret)

	req, err := http.NewRequest(http.MethodGet, env.server.URL+"/unread", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set(userIDHeader, "alice")
	resp, err := env.server.Client().Do(req)
	if err != nil {
		t.Fatalf("get unread: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status without token = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}

	req.Header.Set("Authorization", "Bearer "+signTestToken(t, secret, "alice", time.Hour))
	resp, err = env.server.Client().Do(req)
	if err != nil {
		t.Fatalf("get unread: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status with token = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}
