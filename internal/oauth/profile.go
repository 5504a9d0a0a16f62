package oauth

import (
	"encoding/json"
	"strings"
)

// Profile is the provider's user profile reduced to what a local account needs.
type Profile struct {
	Provider       string
	ProviderUserID string
	Email          string
	Name           string
	Login          string
}

// DisplayName returns the name, falling back to the account handle and then the email.
func (p Profile) DisplayName() string {
	return firstNonEmpty(p.Name, p.Login, p.Email)
}

// Username returns the preferred local username: the account handle when the
// provider has one, otherwise the local part of the email.
func (p Profile) Username() string {
	if login := strings.TrimSpace(p.Login); login != "" {
		return login
	}
	local, _, _ := strings.Cut(p.Email, "@")
	return strings.TrimSpace(local)
}

// parseProfile reads a userinfo payload. Google (OpenID Connect) uses sub;
// GitHub and Google's v2 endpoint use id, which GitHub sends as a number.
func parseProfile(provider string, raw map[string]any) Profile {
	p := Profile{
		Provider:       provider,
		ProviderUserID: firstNonEmpty(stringField(raw, "sub"), stringField(raw, "id")),
		Email:          stringField(raw, "email"),
		Name:           stringField(raw, "name"),
		Login:          firstNonEmpty(stringField(raw, "login"), stringField(raw, "preferred_username")),
	}
	return p
}

func stringField(raw map[string]any, key string) string {
	switch v := raw[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

type providerEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// pickEmail prefers the primary verified address, then any verified one.
func pickEmail(emails []providerEmail) string {
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
