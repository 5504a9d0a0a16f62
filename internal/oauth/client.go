package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	apperrors "taskmanager/internal/errors"
)

// DefaultTimeout bounds every round trip to a provider.
const DefaultTimeout = 10 * time.Second

const maxBodyBytes = 1 << 20

// Client runs the provider side of the authorization code flow.
type Client struct {
	providers  map[string]Provider
	httpClient *http.Client
}

// NewClient creates a client for the given providers. Each provider request
// is bounded by timeout (DefaultTimeout when zero).
func NewClient(providers map[string]Provider, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		providers:  providers,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Providers returns the configured provider names.
func (c *Client) Providers() []string {
	return Names(c.providers)
}

// Provider returns the named provider or ErrUnknownProvider.
func (c *Client) Provider(name string) (Provider, error) {
	p, ok := c.providers[name]
	if !ok {
		return Provider{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownProvider, name)
	}
	return p, nil
}

// AuthCodeURL returns the provider authorization URL carrying client id,
// redirect URI, scopes and state.
func (c *Client) AuthCodeURL(name, state string) (string, error) {
	p, err := c.Provider(name)
	if err != nil {
		return "", err
	}
	return oauth2Config(p).AuthCodeURL(state), nil
}

// Exchange trades an authorization code for a provider access token.
func (c *Client) Exchange(ctx context.Context, name, code string) (*oauth2.Token, error) {
	p, err := c.Provider(name)
	if err != nil {
		return nil, err
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := oauth2Config(p).Exchange(ctx, code)
	if err != nil {
		return nil, upstreamError("token exchange", err)
	}
	return token, nil
}

// FetchProfile loads the user profile with the provider access token.
// A profile without a provider user id or email is rejected.
func (c *Client) FetchProfile(ctx context.Context, name string, token *oauth2.Token) (Profile, error) {
	p, err := c.Provider(name)
	if err != nil {
		return Profile{}, err
	}

	var raw map[string]any
	if err := c.getJSON(ctx, p.UserInfoURL, token, &raw, true); err != nil {
		return Profile{}, upstreamError("fetch profile", err)
	}
	profile := parseProfile(p.Name, raw)

	if profile.Email == "" && p.EmailsURL != "" {
		var emails []providerEmail
		if err := c.getJSON(ctx, p.EmailsURL, token, &emails, false); err != nil {
			return Profile{}, upstreamError("fetch emails", err)
		}
		profile.Email = pickEmail(emails)
	}

	if profile.ProviderUserID == "" {
		return Profile{}, fmt.Errorf("%w: profile has no user id", apperrors.ErrUpstream)
	}
	if profile.Email == "" {
		return Profile{}, fmt.Errorf("%w: profile has no email", apperrors.ErrUpstream)
	}
	return profile, nil
}

func (c *Client) getJSON(ctx context.Context, url string, token *oauth2.Token, dst any, useNumber bool) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	token.SetAuthHeader(req)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("GET %s returned status: %d", url, resp.StatusCode)
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes))
	if useNumber {
		dec.UseNumber()
	}
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

func oauth2Config(p Provider) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     p.ClientID,
		ClientSecret: p.ClientSecret,
		RedirectURL:  p.RedirectURI,
		Scopes:       p.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   p.AuthURL,
			TokenURL:  p.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// upstreamError classifies a provider failure: no answer (timeout, refused
// connection) is ErrUpstreamUnavailable, anything else is ErrUpstream.
func upstreamError(op string, err error) error {
	var netErr net.Error
	var opErr *net.OpError
	if errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) ||
		errors.As(err, &opErr) {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrUpstreamUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %v", apperrors.ErrUpstream, op, err)
}
