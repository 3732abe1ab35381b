package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

const callbackPath = "/oauth2/callback"

var (
	ErrStateMismatch   = errors.New("oauth callback state mismatch")
	ErrCallbackTimeout = errors.New("timed out waiting for oauth callback")
	ErrMissingState    = errors.New("expected state is required")
)

func NewState() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// BrowserFlow runs the installed-app authorization code flow with PKCE
// against a loopback redirect.
type BrowserFlow struct {
	Config     *oauth2.Config
	ListenAddr string
	Timeout    time.Duration
}

// Start opens the callback server and returns the URL the user has to visit.
// The returned Pending must be completed or closed.
func (f BrowserFlow) Start() (*Pending, error) {
	if f.Config == nil {
		return nil, errors.New("oauth client config is required")
	}

	state, err := NewState()
	if err != nil {
		return nil, fmt.Errorf("generate oauth state: %w", err)
	}

	server, err := StartCallbackServer(f.ListenAddr, state)
	if err != nil {
		return nil, err
	}

	cfg := *f.Config
	cfg.RedirectURL = server.RedirectURI()
	verifier := oauth2.GenerateVerifier()

	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	return &Pending{
		AuthURL: cfg.AuthCodeURL(state,
			oauth2.AccessTypeOffline,
			oauth2.ApprovalForce,
			oauth2.S256ChallengeOption(verifier),
		),
		config:   &cfg,
		server:   server,
		verifier: verifier,
		timeout:  timeout,
	}, nil
}

type Pending struct {
	AuthURL string

	config   *oauth2.Config
	server   *CallbackServer
	verifier string
	timeout  time.Duration
}

// Complete waits for the redirect and exchanges the code for a token.
func (p *Pending) Complete(ctx context.Context) (*oauth2.Token, error) {
	code, err := p.server.WaitForCode(p.timeout)
	if err != nil {
		return nil, fmt.Errorf("wait for oauth callback: %w", err)
	}

	token, err := p.config.Exchange(ctx, code, oauth2.VerifierOption(p.verifier))
	if err != nil {
		return nil, fmt.Errorf("exchange code for token: %w", err)
	}
	if token.RefreshToken == "" {
		return nil, errors.New("token response has no refresh token")
	}

	return token, nil
}

func (p *Pending) Close() error {
	return p.server.Close()
}

type CallbackServer struct {
	expectedState string
	listener      net.Listener
	server        *http.Server
	resultCh      chan callbackResult
	resultOnce    sync.Once
	closeOnce     sync.Once
}

type callbackResult struct {
	code string
	err  error
}

func StartCallbackServer(listenAddr string, expectedState string) (*CallbackServer, error) {
	if expectedState == "" {
		return nil, ErrMissingState
	}
	if listenAddr == "" {
		listenAddr = "127.0.0.1:0"
	}

	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("listen callback server: %w", err)
	}

	cb := &CallbackServer{
		expectedState: expectedState,
		listener:      listener,
		resultCh:      make(chan callbackResult, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, cb.handleCallback)

	cb.server = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if serveErr := cb.server.Serve(cb.listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			cb.trySendResult(callbackResult{err: serveErr})
		}
	}()

	return cb, nil
}

func (c *CallbackServer) RedirectURI() string {
	if tcpAddr, ok := c.listener.Addr().(*net.TCPAddr); ok {
		return fmt.Sprintf("http://127.0.0.1:%d%s", tcpAddr.Port, callbackPath)
	}
	return "http://127.0.0.1" + callbackPath
}

func (c *CallbackServer) WaitForCode(timeout time.Duration) (string, error) {
	defer func() { _ = c.Close() }()

	select {
	case result := <-c.resultCh:
		return result.code, result.err
	case <-time.After(timeout):
		return "", ErrCallbackTimeout
	}
}

func (c *CallbackServer) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		closeErr = c.server.Close()
	})
	return closeErr
}

func (c *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if query.Get("state") != c.expectedState {
		c.trySendResult(callbackResult{err: ErrStateMismatch})
		http.Error(w, "state mismatch", http.StatusBadRequest)
		return
	}
	if oauthError := query.Get("error"); oauthError != "" {
		if description := query.Get("error_description"); description != "" {
			oauthError = oauthError + ": " + description
		}
		c.trySendResult(callbackResult{err: errors.New(oauthError)})
		http.Error(w, "oauth error", http.StatusBadRequest)
		return
	}

	code := query.Get("code")
	if code == "" {
		c.trySendResult(callbackResult{err: errors.New("missing authorization code")})
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	c.trySendResult(callbackResult{code: code})
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Google Drive access granted. You can close this window."))
}

func (c *CallbackServer) trySendResult(result callbackResult) {
	c.resultOnce.Do(func() {
		c.resultCh <- result
	})
}
