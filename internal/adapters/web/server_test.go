package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bnema/notesgit/internal/adapters/storage/local"
	"github.com/bnema/notesgit/internal/application"
	"github.com/bnema/notesgit/internal/domain"
	"github.com/bnema/notesgit/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	server    *httptest.Server
	client    *http.Client
	store     *local.Store
	sessions  *application.SessionRegistry
	generator *mocks.MockTextGenerator
}

func newFixture(t *testing.T, format domain.LedgerFormat) *fixture {
	t.Helper()

	store, err := local.NewStore(t.TempDir())
	require.NoError(t, err)

	generator := mocks.NewMockTextGenerator(t)
	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC)).Maybe()

	var counter atomic.Int64
	sessions := application.NewSessionRegistry(func() string {
		return fmt.Sprintf("session-%d", counter.Add(1))
	})

	ledger := application.NewLedgerService(store, "notes.txt", nil)
	assistant := application.NewAssistant(ledger, generator, clock, application.AssistantConfig{
		Locale:       domain.EnglishLocale,
		Format:       format,
		HistoryTurns: 3,
	}, nil)

	server := httptest.NewServer(NewServer(assistant, ledger, sessions, nil).Handler())
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &fixture{
		server:    server,
		client:    &http.Client{Jar: jar},
		store:     store,
		sessions:  sessions,
		generator: generator,
	}
}

func (f *fixture) postJSON(t *testing.T, text string) (int, messageResponse) {
	t.Helper()

	body, err := json.Marshal(messageRequest{Text: text})
	require.NoError(t, err)

	resp, err := f.client.Post(f.server.URL+"/messages", "application/json", strings.NewReader(string(body)))
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded messageResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func (f *fixture) get(t *testing.T, path string) (int, string) {
	t.Helper()

	resp, err := f.client.Get(f.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, domain.LedgerFormatNotes)

	status, body := f.get(t, "/healthz")

	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestSaveThenAskOverJSONKeepsOneSession(t *testing.T) {
	f := newFixture(t, domain.LedgerFormatNotes)
	f.generator.EXPECT().
		Generate(mock.Anything, mock.MatchedBy(func(prompt string) bool {
			return strings.Contains(prompt, "buy milk") && strings.HasSuffix(prompt, "QUESTION: what should I buy?")
		})).
		Return("Milk.", nil).
		Once()

	status, saved := f.postJSON(t, "Save: buy milk")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, string(application.ReplySaved), saved.Kind)
	assert.Equal(t, domain.EnglishLocale.NoteSaved, saved.Text)

	status, answered := f.postJSON(t, "what should I buy?")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, string(application.ReplyAnswered), answered.Kind)
	assert.Equal(t, "Milk.", answered.Text)

	assert.Equal(t, saved.Session, answered.Session)
	assert.Equal(t, 1, f.sessions.Len())

	handles, err := f.store.Find(context.Background(), "notes.txt")
	require.NoError(t, err)
	assert.Len(t, handles, 1)
}

func TestEmptyMessageIsBadRequest(t *testing.T) {
	f := newFixture(t, domain.LedgerFormatNotes)

	status, reply := f.postJSON(t, "   ")

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, string(application.ReplyFailed), reply.Kind)
	assert.Equal(t, domain.EnglishLocale.EmptyInput, reply.Text)
}

func TestGeneratorFailureIsVisibleReply(t *testing.T) {
	f := newFixture(t, domain.LedgerFormatNotes)
	f.generator.EXPECT().Generate(mock.Anything, mock.Anything).Return("", errors.New("quota exceeded")).Once()

	_, _ = f.postJSON(t, "save the date: 12 May")
	status, reply := f.postJSON(t, "when is it?")

	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, string(application.ReplyFailed), reply.Kind)
	assert.Contains(t, reply.Text, "quota exceeded")
}

func TestInvalidJSONIsRejected(t *testing.T) {
	f := newFixture(t, domain.LedgerFormatNotes)

	resp, err := f.client.Post(f.server.URL+"/messages", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFormPostRendersReplyAndHistory(t *testing.T) {
	f := newFixture(t, domain.LedgerFormatChat)
	f.generator.EXPECT().Generate(mock.Anything, mock.Anything).Return("On the <hook>.", nil).Once()

	_, _ = f.postJSON(t, "remember: keys on the hook")

	resp, err := f.client.PostForm(f.server.URL+"/messages", url.Values{"text": {"where are my keys?"}})
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "You: where are my keys?")
	assert.Contains(t, string(body), "On the &lt;hook&gt;.")

	status, page := f.get(t, "/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, `lang="en"`)
	assert.Contains(t, page, "On the &lt;hook&gt;.")
}

func TestLedgerEndpointReturnsRawContent(t *testing.T) {
	f := newFixture(t, domain.LedgerFormatNotes)

	_, _ = f.postJSON(t, "note: dentist on Friday")
	status, body := f.get(t, "/ledger")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "[DATE: 2024-03-09]\nnote: dentist on Friday\n---", body)
}

func TestSessionCookieIsHTTPOnly(t *testing.T) {
	f := newFixture(t, domain.LedgerFormatNotes)

	resp, err := http.Get(f.server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestUnknownMethodIsRejected(t *testing.T) {
	f := newFixture(t, domain.LedgerFormatNotes)

	req, err := http.NewRequest(http.MethodDelete, f.server.URL+"/ledger", nil)
	require.NoError(t, err)
	resp, err := f.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServeStopsOnContextCancel(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := NewServer(nil, nil, application.NewSessionRegistry(func() string { return "s" }), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, listener) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + listener.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestCrossSiteFormPostIsRefused(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
	}{
		{name: "sec-fetch-site cross-site", headers: map[string]string{"Sec-Fetch-Site": "cross-site", "Origin": "https://evil.example"}},
		{name: "foreign origin only", headers: map[string]string{"Origin": "https://evil.example"}},
		{name: "opaque origin", headers: map[string]string{"Origin": "null"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, domain.LedgerFormatNotes)

			req, err := http.NewRequest(http.MethodPost, f.server.URL+"/messages",
				strings.NewReader(url.Values{"text": {"remember: someone else was here"}}.Encode()))
			require.NoError(t, err)
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			for key, value := range tc.headers {
				req.Header.Set(key, value)
			}

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
			assert.Zero(t, f.sessions.Len())

			handles, err := f.store.Find(context.Background(), "notes.txt")
			require.NoError(t, err)
			assert.Empty(t, handles)
		})
	}
}

func TestSameOriginFormPostIsAccepted(t *testing.T) {
	f := newFixture(t, domain.LedgerFormatNotes)

	req, err := http.NewRequest(http.MethodPost, f.server.URL+"/messages",
		strings.NewReader(url.Values{"text": {"note: water the plants"}}.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", f.server.URL)
	req.Header.Set("Sec-Fetch-Site", "same-origin")

	resp, err := f.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSavedNotesStayInTranscriptAfterReload(t *testing.T) {
	f := newFixture(t, domain.LedgerFormatNotes)

	_, _ = f.postJSON(t, "note: dentist on Friday")

	status, page := f.get(t, "/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, "You: note: dentist on Friday")
	assert.Contains(t, page, domain.EnglishLocale.NoteSaved)
}
