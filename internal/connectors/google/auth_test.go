package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// tokenServer fakes Google's token endpoint.
type tokenServer struct {
	mu    sync.Mutex
	forms []url.Values
	fail  bool
}

func (s *tokenServer) handler(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	s.mu.Lock()
	s.forms = append(s.forms, r.PostForm)
	fail := s.fail
	n := len(s.forms)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if fail {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
		return
	}
	_, _ = fmt.Fprintf(w, `{"access_token":"access-%d","token_type":"Bearer","refresh_token":"refresh","expires_in":3600}`, n)
}

func (s *tokenServer) lastForm() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.forms) == 0 {
		return nil
	}
	return s.forms[len(s.forms)-1]
}

func writeCredentials(t *testing.T, tokenURL string) string {
	t.Helper()
	creds := map[string]any{
		"installed": map[string]any{
			"client_id":     "client-id.apps.googleusercontent.com",
			"client_secret": "secret",
			"auth_uri":      "https://accounts.example.com/o/oauth2/auth",
			"token_uri":     tokenURL,
			"redirect_uris": []string{"http://localhost"},
		},
	}
	data, err := json.Marshal(creds)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

type fakeReceiver struct {
	state   string
	code    string
	err     error
	started bool
	stopped bool
}

func (f *fakeReceiver) Start() error        { f.started = true; return nil }
func (f *fakeReceiver) RedirectURI() string { return "http://localhost:49152/callback" }
func (f *fakeReceiver) Stop() error         { f.stopped = true; return nil }
func (f *fakeReceiver) WaitForCode(context.Context) (string, error) {
	return f.code, f.err
}

func setup(t *testing.T) (*tokenServer, string, string) {
	t.Helper()
	ts := &tokenServer{}
	srv := httptest.NewServer(http.HandlerFunc(ts.handler))
	t.Cleanup(srv.Close)
	return ts, writeCredentials(t, srv.URL+"/token"), filepath.Join(t.TempDir(), "token.json")
}

func TestLoadClientConfig(t *testing.T) {
	_, credPath, _ := setup(t)

	cfg, err := LoadClientConfig(credPath)
	require.NoError(t, err)
	assert.Equal(t, "client-id.apps.googleusercontent.com", cfg.ClientID)
	assert.Equal(t, []string{DriveScope}, cfg.Scopes)
}

func TestLoadClientConfig_Errors(t *testing.T) {
	_, err := LoadClientConfig(filepath.Join(t.TempDir(), "credentials.json"))
	assert.ErrorIs(t, err, domain.ErrMissingCredential)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"web":`), 0o600))
	_, err = LoadClientConfig(bad)
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}

func TestAuthorizer_BrowserFlow(t *testing.T) {
	server, credPath, tokenPath := setup(t)
	receiver := &fakeReceiver{code: "auth-code"}
	var shownURL string

	auth, err := NewAuthorizer(credPath, tokenPath, func(state string) CodeReceiver {
		receiver.state = state
		return receiver
	}, func(u string) { shownURL = u })
	require.NoError(t, err)

	src, err := auth.TokenSource(context.Background())
	require.NoError(t, err)
	tok, err := src.Token()
	require.NoError(t, err)
	assert.Equal(t, "access-1", tok.AccessToken)

	assert.True(t, receiver.started)
	assert.True(t, receiver.stopped)

	u, err := url.Parse(shownURL)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, receiver.state, q.Get("state"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.NotEmpty(t, q.Get("code_challenge"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "http://localhost:49152/callback", q.Get("redirect_uri"))

	form := server.lastForm()
	assert.Equal(t, "auth-code", form.Get("code"))
	assert.NotEmpty(t, form.Get("code_verifier"))

	cached, err := NewTokenCache(tokenPath).Load()
	require.NoError(t, err)
	assert.Equal(t, "access-1", cached.AccessToken)
	assert.Equal(t, "refresh", cached.RefreshToken)
}

func TestAuthorizer_UsesValidCachedToken(t *testing.T) {
	server, credPath, tokenPath := setup(t)
	require.NoError(t, NewTokenCache(tokenPath).Save(&oauth2.Token{
		AccessToken: "cached",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}))

	auth, err := NewAuthorizer(credPath, tokenPath, nil, nil)
	require.NoError(t, err)

	src, err := auth.TokenSource(context.Background())
	require.NoError(t, err)
	tok, err := src.Token()
	require.NoError(t, err)
	assert.Equal(t, "cached", tok.AccessToken)
	assert.Nil(t, server.lastForm())
}

func TestAuthorizer_RefreshesExpiredToken(t *testing.T) {
	server, credPath, tokenPath := setup(t)
	require.NoError(t, NewTokenCache(tokenPath).Save(&oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(-time.Hour),
	}))

	auth, err := NewAuthorizer(credPath, tokenPath, nil, nil)
	require.NoError(t, err)

	_, err = auth.TokenSource(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "refresh_token", server.lastForm().Get("grant_type"))

	cached, err := NewTokenCache(tokenPath).Load()
	require.NoError(t, err)
	assert.Equal(t, "access-1", cached.AccessToken)
}

func TestAuthorizer_FailedRefreshFallsBackToBrowser(t *testing.T) {
	server, credPath, tokenPath := setup(t)
	server.fail = true
	require.NoError(t, NewTokenCache(tokenPath).Save(&oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "revoked",
		Expiry:       time.Now().Add(-time.Hour),
	}))

	receiver := &fakeReceiver{err: errors.New("user closed the browser")}
	auth, err := NewAuthorizer(credPath, tokenPath, func(string) CodeReceiver { return receiver }, nil)
	require.NoError(t, err)

	_, err = auth.TokenSource(context.Background())
	require.Error(t, err)
	assert.True(t, receiver.started)
	assert.ErrorContains(t, err, "user closed the browser")
}

func TestAuthorizer_NoReceiver(t *testing.T) {
	_, credPath, tokenPath := setup(t)

	auth, err := NewAuthorizer(credPath, tokenPath, nil, nil)
	require.NoError(t, err)

	_, err = auth.TokenSource(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}
