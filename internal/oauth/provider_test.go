package oauth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskmanager/internal/config"
)

func TestProvidersFromConfig(t *testing.T) {
	cfg := &config.Config{
		Google: config.ProviderEnv{ClientID: "gid", ClientSecret: "gsecret", RedirectURI: "http://localhost/auth/google/callback"},
		GitHub: config.ProviderEnv{
			ClientID:     "hid",
			ClientSecret: "hsecret",
			RedirectURI:  "http://localhost/auth/github/callback",
			TokenURL:     "http://github.test/token",
			Scopes:       []string{"user:email"},
		},
	}

	providers := ProvidersFromConfig(cfg)
	assert.Equal(t, []string{"github", "google"}, Names(providers))

	google := providers[Google]
	assert.Equal(t, "https://accounts.google.com/o/oauth2/v2/auth", google.AuthURL)
	assert.Equal(t, "https://openidconnect.googleapis.com/v1/userinfo", google.UserInfoURL)
	assert.Equal(t, []string{"openid", "email", "profile"}, google.Scopes)
	assert.Empty(t, google.EmailsURL)

	github := providers[GitHub]
	assert.Equal(t, "http://github.test/token", github.TokenURL, "explicit URL wins over the default")
	assert.Equal(t, "https://api.github.com/user", github.UserInfoURL)
	assert.Equal(t, []string{"user:email"}, github.Scopes)
}

func TestProvidersFromConfig_IncompleteProviderDisabled(t *testing.T) {
	cfg := &config.Config{
		Google: config.ProviderEnv{ClientID: "gid"},
	}
	assert.Empty(t, ProvidersFromConfig(cfg))
}

func TestProfile_Names(t *testing.T) {
	tests := []struct {
		name        string
		profile     Profile
		wantDisplay string
		wantUser    string
	}{
		{"github without name", Profile{Login: "octocat", Email: "octo@github.test"}, "octocat", "octocat"},
		{"github with name", Profile{Name: "The Octocat", Login: "octocat"}, "The Octocat", "octocat"},
		{"google", Profile{Name: "Alice A", Email: "alice.a@gmail.test"}, "Alice A", "alice.a"},
		{"email only", Profile{Email: "bob@x.test"}, "bob@x.test", "bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantDisplay, tt.profile.DisplayName())
			assert.Equal(t, tt.wantUser, tt.profile.Username())
		})
	}
}

func TestPickEmail(t *testing.T) {
	emails := []providerEmail{
		{Email: "unverified@x.test", Primary: false, Verified: false},
		{Email: "secondary@x.test", Primary: false, Verified: true},
		{Email: "primary@x.test", Primary: true, Verified: true},
	}
	assert.Equal(t, "primary@x.test", pickEmail(emails))
	assert.Equal(t, "secondary@x.test", pickEmail(emails[:2]))
	assert.Empty(t, pickEmail(emails[:1]))
}
