// Package auth runs the Gmail OAuth2 consent flow. Tokens are held in
// memory only; unlike the usual desktop-app pattern there is no token cache
// file, which is the point.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"runtime"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"

	"github.com/Ratnaditya-J/GmailWithLlm/logging"
)

// Manager performs the browser consent flow and owns the resulting token
// until cleanup.
type Manager struct {
	config *oauth2.Config
	token  *oauth2.Token
	logger *slog.Logger
}

// NewManager reads the OAuth client secret file and prepares a read-only
// Gmail flow.
func NewManager(credentialsFile string, logger *slog.Logger) (*Manager, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file %s: %w", credentialsFile, err)
	}
	cfg, err := google.ConfigFromJSON(b, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file: %w", err)
	}
	return &Manager{config: cfg, logger: logger}, nil
}

// Authenticate opens the user's browser for consent and waits for the
// redirect on a loopback listener bound to a random port. The authorization
// code is exchanged for a token that lives only in this process.
func (m *Manager) Authenticate(ctx context.Context) (oauth2.TokenSource, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("unable to start callback listener: %w", err)
	}
	defer ln.Close()

	state, err := randomState()
	if err != nil {
		return nil, err
	}
	m.config.RedirectURL = fmt.Sprintf("http://%s/", ln.Addr().String())

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			errCh <- fmt.Errorf("authorization response state mismatch")
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "missing authorization code", http.StatusBadRequest)
			errCh <- fmt.Errorf("authorization response missing code")
			return
		}
		fmt.Fprintln(w, "Authentication successful! You can close this window.")
		codeCh <- code
	})}
	go srv.Serve(ln)
	defer srv.Close()

	authURL := m.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
	fmt.Printf("Opening your browser for Gmail authorization.\nIf it does not open, visit:\n%v\n", authURL)
	if err := openBrowser(authURL); err != nil {
		m.logger.Warn("could not open browser", logging.Err(err))
	}

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	tok, err := m.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("unable to exchange authorization code: %w", err)
	}
	m.token = tok
	m.logger.Info("Gmail authorization complete", logging.Operation("oauth"))
	return m.config.TokenSource(ctx, tok), nil
}

// Cleanup drops the token and flow config from memory. Called on every exit
// path.
func (m *Manager) Cleanup() {
	m.token = nil
	m.config = nil
	if m.logger != nil {
		m.logger.Info("OAuth credentials cleaned from memory", logging.Operation("cleanup"))
	}
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("unable to generate state token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
