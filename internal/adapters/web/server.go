// Package web serves the browser chat widget and its JSON API.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"time"

	"github.com/bnema/notesgit/internal/application"
	"github.com/bnema/notesgit/internal/domain"
	"github.com/gorilla/mux"
)

const (
	SessionCookie   = "notesgit_session"
	maxMessageBytes = 1 << 20
	shutdownTimeout = 5 * time.Second
)

//go:embed templates/chat.html
var templateFS embed.FS

var chatPage = template.Must(template.ParseFS(templateFS, "templates/chat.html"))

type Server struct {
	assistant   *application.Assistant
	ledger      *application.LedgerService
	sessions    *application.SessionRegistry
	logger      *slog.Logger
	crossOrigin *http.CrossOriginProtection
}

type messageRequest struct {
	Text string `json:"text"`
}

type messageResponse struct {
	Session string `json:"session"`
	Kind    string `json:"kind"`
	Intent  string `json:"intent,omitempty"`
	Text    string `json:"text"`
}

type pageData struct {
	Lang           string
	UserLabel      string
	AssistantLabel string
	Transcript     []application.Exchange
}

func NewServer(assistant *application.Assistant, ledger *application.LedgerService, sessions *application.SessionRegistry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	server := &Server{
		assistant:   assistant,
		ledger:      ledger,
		sessions:    sessions,
		logger:      logger,
		crossOrigin: http.NewCrossOriginProtection(),
	}
	// Browsers attach Sec-Fetch-Site or Origin to cross-site posts; those are
	// refused so other pages cannot write to the ledger through this server.
	server.crossOrigin.SetDenyHandler(http.HandlerFunc(server.denyCrossOrigin))

	return server
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.Use(s.crossOrigin.Handler)
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/messages", s.handleMessage).Methods(http.MethodPost)
	r.HandleFunc("/ledger", s.handleLedger).Methods(http.MethodGet)
	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	return r
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	return s.Serve(ctx, listener)
}

func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(listener)
	}()

	s.logger.Info("chat server listening", "addr", listener.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	s.renderPage(w, http.StatusOK, session.Transcript())
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	r.Body = http.MaxBytesReader(w, r.Body, maxMessageBytes)

	if isJSON(r) {
		var req messageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
			return
		}

		reply := s.assistant.Handle(r.Context(), session, req.Text)
		writeJSON(w, replyStatus(reply), messageResponse{
			Session: session.ID,
			Kind:    string(reply.Kind),
			Intent:  string(reply.Intent),
			Text:    reply.Text,
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	reply := s.assistant.Handle(r.Context(), session, r.PostFormValue("text"))

	s.renderPage(w, replyStatus(reply), session.Transcript())
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)

	session.Lock()
	content, err := s.ledger.Read(r.Context(), session)
	session.Unlock()
	if err != nil {
		s.logger.Error("read ledger", "session", session.ID, "error", err)
		http.Error(w, "failed to read ledger", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(content))
}

func (s *Server) denyCrossOrigin(w http.ResponseWriter, r *http.Request) {
	s.logger.Warn("cross-origin request refused",
		"method", r.Method,
		"path", r.URL.Path,
		"origin", r.Header.Get("Origin"),
		"sec_fetch_site", r.Header.Get("Sec-Fetch-Site"),
	)
	http.Error(w, "cross-origin request refused", http.StatusForbidden)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// session returns the caller's session and refreshes the cookie when a new
// one had to be created.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *application.Session {
	var id string
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		id = cookie.Value
	}

	session := s.sessions.Get(id)
	if session.ID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    session.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	return session
}

func (s *Server) renderPage(w http.ResponseWriter, status int, transcript []application.Exchange) {
	locale := s.assistant.Locale()
	data := pageData{
		Lang:           locale.Tag.String(),
		UserLabel:      locale.UserLabel,
		AssistantLabel: locale.AssistantLabel,
		Transcript:     transcript,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := chatPage.Execute(w, data); err != nil {
		s.logger.Error("render chat page", "error", err)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration", time.Since(started),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func replyStatus(reply application.Reply) int {
	if reply.Kind != application.ReplyFailed {
		return http.StatusOK
	}
	if errors.Is(reply.Err, domain.ErrEmptyInput) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
