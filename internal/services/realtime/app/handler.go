package server

import (
	"net/http"
	"strconv"

	"github.com/louisbranch/clubhouse/internal/platform/id"
	"github.com/louisbranch/clubhouse/internal/platform/requestctx"
	"golang.org/x/net/websocket"
)

const onlineUsersHeader = "X-Online-Users"

// handler serves the websocket and REST surfaces over one Services.
type handler struct {
	services *Services
	auth     authenticator
	idGen    func() (string, error)
	logf     func(format string, args ...any)
}

type handlerConfig struct {
	services *Services
	verifier *tokenVerifier
	newID    func() (string, error)
	logf     func(format string, args ...any)
}

func newHandler(cfg handlerConfig) http.Handler {
	h := &handler{
		services: cfg.services,
		auth:     authenticator{verifier: cfg.verifier},
		idGen:    cfg.newID,
		logf:     cfg.logf,
	}
	if h.idGen == nil {
		h.idGen = id.NewID
	}
	if h.logf == nil {
		h.logf = func(string, ...any) {}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(onlineUsersHeader, strconv.Itoa(h.services.Presence.OnlineUsers()))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	wsHandler := websocket.Handler(h.handleWSConn)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		userID, err := h.auth.tokenUser(r)
		if err != nil {
			h.logf("realtime: websocket unauthorized host=%q remote=%s err=%v", r.Host, r.RemoteAddr, err)
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		if userID != "" {
			r = r.WithContext(requestctx.WithUserID(r.Context(), userID))
		}
		wsHandler.ServeHTTP(w, r)
	})

	mux.HandleFunc("POST /clubs/{clubID}/messages", h.authed(h.handleSendMessage))
	mux.HandleFunc("GET /clubs/{clubID}/messages", h.authed(h.handleHistory))
	mux.HandleFunc("POST /clubs/{clubID}/read", h.authed(h.handleMarkRoomRead))
	mux.HandleFunc("POST /clubs/{clubID}/messages/read", h.authed(h.handleMarkMessagesRead))
	mux.HandleFunc("DELETE /messages/{dedupeKey}", h.authed(h.handleDeleteMessage))
	mux.HandleFunc("GET /unread", h.authed(h.handleUnread))
	mux.HandleFunc("GET /notifications", h.authed(h.handleListNotifications))
	mux.HandleFunc("POST /notifications/read", h.authed(h.handleMarkNotificationsRead))
	mux.HandleFunc("DELETE /notifications/{notificationID}", h.authed(h.handleDeleteNotification))
	mux.HandleFunc("DELETE /notifications", h.authed(h.handleDeleteAllNotifications))
	return mux
}

// authed resolves the caller and stores it in the request context.
func (h *handler) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := h.auth.requestUser(r)
		if err != nil {
			writeError(w, err)
			return
		}
		next(w, r.WithContext(requestctx.WithUserID(r.Context(), userID)))
	}
}
