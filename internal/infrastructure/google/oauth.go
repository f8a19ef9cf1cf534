package google

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

const (
	// DefaultRedirectURL is where the local listener waits for the OAuth redirect.
	DefaultRedirectURL = "http://localhost:6789/oauth2callback"

	defaultSignInTimeout = 5 * time.Minute
)

// Authorizer obtains a token for cfg, usually by asking the user to sign in.
type Authorizer func(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error)

// oauthConfig builds the OAuth client for read-only calendar access.
func oauthConfig(clientID, clientSecret, redirectURL string) (*oauth2.Config, error) {
	if redirectURL == "" {
		redirectURL = DefaultRedirectURL
	}
	parsed, err := url.Parse(redirectURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect url %q: %w", redirectURL, err)
	}
	if parsed.Host == "" || parsed.Port() == "" {
		return nil, fmt.Errorf("redirect url %q must include host and port", redirectURL)
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     googleoauth.Endpoint,
		RedirectURL:  redirectURL,
		Scopes:       []string{calendar.CalendarReadonlyScope},
	}, nil
}

// WebAuthorizer runs the authorization-code flow through a local redirect listener.
// The consent URL is logged; the flow ends on redirect, ctx cancellation or timeout.
func WebAuthorizer(timeout time.Duration, logger *zap.Logger) Authorizer {
	if timeout <= 0 {
		timeout = defaultSignInTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
		redirect, err := url.Parse(cfg.RedirectURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redirect url: %w", err)
		}

		listener, err := net.Listen("tcp", redirect.Host)
		if err != nil {
			return nil, fmt.Errorf("failed to start listener on %s: %w", redirect.Host, err)
		}
		defer listener.Close()

		state := uuid.NewString()
		codeCh := make(chan string, 1)
		errCh := make(chan error, 1)

		server := &fasthttp.Server{
			Handler: func(rc *fasthttp.RequestCtx) {
				if string(rc.Path()) != redirect.Path {
					rc.SetStatusCode(fasthttp.StatusNotFound)
					return
				}
				if string(rc.QueryArgs().Peek("state")) != state {
					rc.Error("state mismatch", fasthttp.StatusBadRequest)
					sendErr(errCh, fmt.Errorf("oauth state mismatch"))
					return
				}
				code := string(rc.QueryArgs().Peek("code"))
				if code == "" {
					rc.Error("authorization code not found", fasthttp.StatusBadRequest)
					sendErr(errCh, fmt.Errorf("authorization code not found in redirect: %s", rc.QueryArgs().Peek("error")))
					return
				}
				rc.SetBodyString("Authentication successful! You can close this window.")
				select {
				case codeCh <- code:
				default:
				}
			},
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  15 * time.Second,
		}
		go func() {
			if err := server.Serve(listener); err != nil {
				sendErr(errCh, fmt.Errorf("oauth callback server: %w", err))
			}
		}()
		defer server.Shutdown()

		authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
		logger.Info("open the consent url to connect the calendar",
			zap.String("url", authURL),
			zap.String("redirect", cfg.RedirectURL),
		)

		timer := time.NewTimer(timeout)
		defer timer.Stop()

		select {
		case code := <-codeCh:
			exchangeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			tok, err := cfg.Exchange(exchangeCtx, code)
			if err != nil {
				return nil, fmt.Errorf("unable to retrieve token from Google: %w", err)
			}
			return tok, nil
		case err := <-errCh:
			return nil, err
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			return nil, fmt.Errorf("authorization timed out after %s", timeout)
		}
	}
}

func sendErr(ch chan<- error, err error) {
	select {
	case ch <- err:
	default:
	}
}
