package oauth

import (
	"sort"

	"taskmanager/internal/config"
)

// Provider names with built-in endpoint defaults.
const (
	Google = "google"
	GitHub = "github"
)

// Provider describes an external OAuth provider configuration.
type Provider struct {
	Name         string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	// EmailsURL lists the account's addresses; used when the profile has no public email.
	EmailsURL string
	Scopes    []string
}

// ProvidersFromConfig builds the enabled providers keyed by name.
// A provider is enabled when client id, secret and redirect URI are set.
func ProvidersFromConfig(cfg *config.Config) map[string]Provider {
	providers := make(map[string]Provider)
	if cfg.Google.Enabled() {
		providers[Google] = withDefaults(Provider{
			Name:         Google,
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURI:  cfg.Google.RedirectURI,
			AuthURL:      cfg.Google.AuthURL,
			TokenURL:     cfg.Google.TokenURL,
			UserInfoURL:  cfg.Google.UserInfoURL,
			EmailsURL:    cfg.Google.EmailsURL,
			Scopes:       cfg.Google.Scopes,
		})
	}
	if cfg.GitHub.Enabled() {
		providers[GitHub] = withDefaults(Provider{
			Name:         GitHub,
			ClientID:     cfg.GitHub.ClientID,
			ClientSecret: cfg.GitHub.ClientSecret,
			RedirectURI:  cfg.GitHub.RedirectURI,
			AuthURL:      cfg.GitHub.AuthURL,
			TokenURL:     cfg.GitHub.TokenURL,
			UserInfoURL:  cfg.GitHub.UserInfoURL,
			EmailsURL:    cfg.GitHub.EmailsURL,
			Scopes:       cfg.GitHub.Scopes,
		})
	}
	return providers
}

// Names returns the provider names in a stable order.
func Names(providers map[string]Provider) []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func withDefaults(p Provider) Provider {
	var def Provider
	switch p.Name {
	case Google:
		def = Provider{
			AuthURL:     "https://accounts.google.com/o/oauth2/v2/auth",
			TokenURL:    "https://oauth2.googleapis.com/token",
			UserInfoURL: "https://openidconnect.googleapis.com/v1/userinfo",
			Scopes:      []string{"openid", "email", "profile"},
		}
	case GitHub:
		def = Provider{
			AuthURL:     "https://github.com/login/oauth/authorize",
			TokenURL:    "https://github.com/login/oauth/access_token",
			UserInfoURL: "https://api.github.com/user",
			EmailsURL:   "https://api.github.com/user/emails",
			Scopes:      []string{"read:user", "user:email"},
		}
	}
	if p.AuthURL == "" {
		p.AuthURL = def.AuthURL
	}
	if p.TokenURL == "" {
		p.TokenURL = def.TokenURL
	}
	if p.UserInfoURL == "" {
		p.UserInfoURL = def.UserInfoURL
	}
	if p.EmailsURL == "" {
		p.EmailsURL = def.EmailsURL
	}
	if len(p.Scopes) == 0 {
		p.Scopes = def.Scopes
	}
	return p
}
