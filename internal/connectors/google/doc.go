// Package google provides the Google API plumbing behind the Drive
// downloader.
//
// It contains:
//   - Installed-app OAuth (credentials file, token cache, PKCE callback flow)
//   - A token source that writes refreshed tokens back to the cache
//   - The Drive service factory
//   - Error mapping for common Google API errors (401, 403, 404, 429)
//   - Rate limiting to respect Google API quotas
//
// # Usage
//
//	auth, err := google.NewAuthorizer(credentialsPath, tokenPath, receivers, prompt)
//	ts, err := auth.TokenSource(ctx)
//	svc, err := google.NewDriveService(ctx, ts)
//
// # OAuth2 Scopes
//
// Only https://www.googleapis.com/auth/drive.readonly is requested.
package google
