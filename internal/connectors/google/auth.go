package google

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/logger"
)

// DriveScope is the only scope docchat requests.
const DriveScope = drive.DriveReadonlyScope

// DefaultAuthTimeout bounds how long the browser flow waits for a callback.
const DefaultAuthTimeout = 5 * time.Minute

// CodeReceiver receives the authorization code from the OAuth redirect.
type CodeReceiver interface {
	// Start begins listening for the redirect.
	Start() error

	// RedirectURI is registered with the authorization request.
	RedirectURI() string

	// WaitForCode blocks until a code arrives, the state check fails or
	// ctx is done.
	WaitForCode(ctx context.Context) (string, error)

	// Stop shuts the receiver down.
	Stop() error
}

// ReceiverFactory creates a receiver that accepts only the given state.
type ReceiverFactory func(state string) CodeReceiver

// Authorizer obtains Drive tokens for an installed app. It reuses the
// cached token, refreshing it when expired, and falls back to the browser
// flow with PKCE when there is no usable token.
type Authorizer struct {
	config   *oauth2.Config
	cache    *TokenCache
	receiver ReceiverFactory
	prompt   func(authURL string)
	timeout  time.Duration
}

// LoadClientConfig reads an OAuth client credentials file downloaded from
// the Google Cloud Console.
func LoadClientConfig(credentialsPath string, scopes ...string) (*oauth2.Config, error) {
	data, err := os.ReadFile(credentialsPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: credentials file %s not found", domain.ErrMissingCredential, credentialsPath)
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	if len(scopes) == 0 {
		scopes = []string{DriveScope}
	}
	cfg, err := googleoauth.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: parse credentials %s: %v", domain.ErrMissingCredential, credentialsPath, err)
	}
	return cfg, nil
}

// NewAuthorizer loads the client credentials and prepares the token cache.
// prompt is shown the authorization URL when the browser flow runs.
func NewAuthorizer(credentialsPath, tokenPath string, receiver ReceiverFactory, prompt func(string)) (*Authorizer, error) {
	cfg, err := LoadClientConfig(credentialsPath)
	if err != nil {
		return nil, err
	}
	return NewAuthorizerWithConfig(cfg, NewTokenCache(tokenPath), receiver, prompt), nil
}

// NewAuthorizerWithConfig builds an Authorizer from an existing config.
func NewAuthorizerWithConfig(cfg *oauth2.Config, cache *TokenCache, receiver ReceiverFactory, prompt func(string)) *Authorizer {
	if prompt == nil {
		prompt = func(string) {}
	}
	return &Authorizer{
		config:   cfg,
		cache:    cache,
		receiver: receiver,
		prompt:   prompt,
		timeout:  DefaultAuthTimeout,
	}
}

// SetTimeout changes how long the browser flow waits for the redirect.
func (a *Authorizer) SetTimeout(d time.Duration) {
	a.timeout = d
}

// TokenSource returns a token source for Drive requests. The token in use
// is written to the cache.
func (a *Authorizer) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	cached, err := a.cache.Load()
	if err != nil {
		logger.Warn("Ignoring token cache: %v", err)
		cached = nil
	}

	if cached != nil && (cached.Valid() || cached.RefreshToken != "") {
		ts := NewCachingTokenSource(a.config.TokenSource(ctx, cached), a.cache, cached)
		_, err := ts.Token()
		if err == nil {
			return ts, nil
		}
		logger.Warn("Cached token could not be refreshed: %v", err)
	}

	tok, err := a.browserFlow(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.cache.Save(tok); err != nil {
		return nil, err
	}
	return NewCachingTokenSource(a.config.TokenSource(ctx, tok), a.cache, tok), nil
}

// browserFlow runs the authorization code flow with state and PKCE.
func (a *Authorizer) browserFlow(ctx context.Context) (*oauth2.Token, error) {
	if a.receiver == nil {
		return nil, fmt.Errorf("%w: no cached token and no way to receive an authorization code", domain.ErrAuthRequired)
	}

	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}
	receiver := a.receiver(state)
	if err := receiver.Start(); err != nil {
		return nil, fmt.Errorf("start callback server: %w", err)
	}
	defer func() { _ = receiver.Stop() }()

	cfg := *a.config
	cfg.RedirectURL = receiver.RedirectURI()
	verifier := oauth2.GenerateVerifier()
	a.prompt(cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier)))

	waitCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	code, err := receiver.WaitForCode(waitCtx)
	if err != nil {
		return nil, fmt.Errorf("authorization: %w", err)
	}

	tok, err := cfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	logger.Debug("Obtained new Drive token (expires %s)", tok.Expiry.Format(time.RFC3339))
	return tok, nil
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
