package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"taskmanager/internal/auth"
	apperrors "taskmanager/internal/errors"
	"taskmanager/internal/kv"
	"taskmanager/internal/model"
	"taskmanager/internal/oauth"
)

var githubProfile = oauth.Profile{
	Provider:       oauth.GitHub,
	ProviderUserID: "583231",
	Email:          "octocat@github.io",
	Login:          "octocat",
}

func TestOAuthService_LoginURL(t *testing.T) {
	t.Run("without state verification", func(t *testing.T) {
		client := new(MockProviderClient)
		client.On("AuthCodeURL", "github", mock.AnythingOfType("string")).Return("https://github.test/authorize?state=x", nil)

		service := NewOAuthService(client, new(MockUserRepository), newTestJWT(t), nil, OAuthOptions{})
		url, err := service.LoginURL(context.Background(), "github")
		require.NoError(t, err)
		assert.Equal(t, "https://github.test/authorize?state=x", url)
	})

	t.Run("stores state when verifying", func(t *testing.T) {
		client := new(MockProviderClient)
		client.On("AuthCodeURL", "github", "").Return("", nil).Once()
		client.On("AuthCodeURL", "github", "state-1").Return("https://github.test/authorize?state=state-1", nil).Once()
		states := new(MockStateStore)
		states.On("Create", mock.Anything, "github", 5*time.Minute).Return("state-1", nil)

		service := NewOAuthService(client, new(MockUserRepository), newTestJWT(t), states, OAuthOptions{VerifyState: true, StateTTL: 5 * time.Minute})
		url, err := service.LoginURL(context.Background(), "github")
		require.NoError(t, err)
		assert.Contains(t, url, "state=state-1")
		client.AssertExpectations(t)
		states.AssertExpectations(t)
	})

	t.Run("unknown provider", func(t *testing.T) {
		client := new(MockProviderClient)
		client.On("AuthCodeURL", "myspace", mock.Anything).Return("", apperrors.ErrUnknownProvider)
		states := new(MockStateStore)

		service := NewOAuthService(client, new(MockUserRepository), newTestJWT(t), states, OAuthOptions{VerifyState: true})
		_, err := service.LoginURL(context.Background(), "myspace")
		assert.ErrorIs(t, err, apperrors.ErrUnknownProvider)
		states.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestOAuthService_Callback(t *testing.T) {
	providerToken := &oauth2.Token{AccessToken: "provider-token"}

	tests := []struct {
		name          string
		code          string
		setupMock     func(*MockProviderClient, *MockUserRepository)
		expectedError error
		wantSubject   string
	}{
		{
			name: "creates a new user",
			code: "good-code",
			setupMock: func(c *MockProviderClient, u *MockUserRepository) {
				c.On("Exchange", mock.Anything, "github", "good-code").Return(providerToken, nil)
				c.On("FetchProfile", mock.Anything, "github", providerToken).Return(githubProfile, nil)
				u.On("FindByEmail", mock.Anything, "octocat@github.io").Return(nil, gorm.ErrRecordNotFound)
				u.On("FindByUsername", mock.Anything, "octocat").Return(nil, gorm.ErrRecordNotFound)
				u.On("Create", mock.Anything, mock.MatchedBy(func(user *model.User) bool {
					return user.Username == "octocat" && user.Name == "octocat" &&
						!user.HasPassword() && *user.OAuthProvider == "github" && *user.OAuthID == "583231"
				})).Return(nil)
			},
			wantSubject: "octocat",
		},
		{
			name: "suffixes a taken username",
			code: "good-code",
			setupMock: func(c *MockProviderClient, u *MockUserRepository) {
				c.On("Exchange", mock.Anything, "github", "good-code").Return(providerToken, nil)
				c.On("FetchProfile", mock.Anything, "github", providerToken).Return(githubProfile, nil)
				u.On("FindByEmail", mock.Anything, "octocat@github.io").Return(nil, gorm.ErrRecordNotFound)
				u.On("FindByUsername", mock.Anything, "octocat").Return(&model.User{ID: 9}, nil)
				u.On("FindByUsername", mock.Anything, "octocat-2").Return(&model.User{ID: 10}, nil)
				u.On("FindByUsername", mock.Anything, "octocat-3").Return(nil, gorm.ErrRecordNotFound)
				u.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			wantSubject: "octocat-3",
		},
		{
			name: "links an existing password user by email",
			code: "good-code",
			setupMock: func(c *MockProviderClient, u *MockUserRepository) {
				c.On("Exchange", mock.Anything, "github", "good-code").Return(providerToken, nil)
				c.On("FetchProfile", mock.Anything, "github", providerToken).Return(githubProfile, nil)
				u.On("FindByEmail", mock.Anything, "octocat@github.io").
					Return(&model.User{ID: 4, Username: "alice", PasswordHash: strPtr("hash")}, nil)
				u.On("LinkOAuth", mock.Anything, uint(4), "github", "583231").Return(nil)
			},
			wantSubject: "alice",
		},
		{
			name: "keeps an existing link from another provider",
			code: "good-code",
			setupMock: func(c *MockProviderClient, u *MockUserRepository) {
				c.On("Exchange", mock.Anything, "github", "good-code").Return(providerToken, nil)
				c.On("FetchProfile", mock.Anything, "github", providerToken).Return(githubProfile, nil)
				u.On("FindByEmail", mock.Anything, "octocat@github.io").
					Return(&model.User{ID: 4, Username: "alice", OAuthProvider: strPtr("google"), OAuthID: strPtr("g-1")}, nil)
			},
			wantSubject: "alice",
		},
		{
			name:          "missing code",
			code:          "",
			setupMock:     func(c *MockProviderClient, u *MockUserRepository) {},
			expectedError: apperrors.ErrValidation,
		},
		{
			name: "exchange rejected",
			code: "bad-code",
			setupMock: func(c *MockProviderClient, u *MockUserRepository) {
				c.On("Exchange", mock.Anything, "github", "bad-code").Return(nil, apperrors.ErrUpstream)
			},
			expectedError: apperrors.ErrUpstream,
		},
		{
			name: "provider timeout",
			code: "good-code",
			setupMock: func(c *MockProviderClient, u *MockUserRepository) {
				c.On("Exchange", mock.Anything, "github", "good-code").Return(providerToken, nil)
				c.On("FetchProfile", mock.Anything, "github", providerToken).Return(oauth.Profile{}, apperrors.ErrUpstreamUnavailable)
			},
			expectedError: apperrors.ErrUpstreamUnavailable,
		},
		{
			name: "storage failure",
			code: "good-code",
			setupMock: func(c *MockProviderClient, u *MockUserRepository) {
				c.On("Exchange", mock.Anything, "github", "good-code").Return(providerToken, nil)
				c.On("FetchProfile", mock.Anything, "github", providerToken).Return(githubProfile, nil)
				u.On("FindByEmail", mock.Anything, "octocat@github.io").Return(nil, errors.New("too many connections"))
			},
			expectedError: apperrors.ErrPersistence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(MockProviderClient)
			client.On("AuthCodeURL", "github", "").Return("", nil).Maybe()
			users := new(MockUserRepository)
			tt.setupMock(client, users)

			jwtService := newTestJWT(t)
			service := NewOAuthService(client, users, jwtService, nil, OAuthOptions{})
			accessToken, err := service.Callback(context.Background(), "github", tt.code, "")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, accessToken)
			} else {
				require.NoError(t, err)
				claims, err := jwtService.Verify(accessToken)
				require.NoError(t, err)
				assert.Equal(t, tt.wantSubject, claims.Subject)
			}

			client.AssertExpectations(t)
			users.AssertExpectations(t)
		})
	}
}

func TestOAuthService_CallbackState(t *testing.T) {
	opts := OAuthOptions{VerifyState: true}

	t.Run("rejects unknown state before exchanging", func(t *testing.T) {
		client := new(MockProviderClient)
		client.On("AuthCodeURL", "github", "").Return("", nil)
		states := new(MockStateStore)
		states.On("Consume", mock.Anything, "forged", "github").Return(false, nil)

		service := NewOAuthService(client, new(MockUserRepository), newTestJWT(t), states, opts)
		_, err := service.Callback(context.Background(), "github", "good-code", "forged")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		client.AssertNotCalled(t, "Exchange", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("accepts issued state", func(t *testing.T) {
		providerToken := &oauth2.Token{AccessToken: "provider-token"}
		client := new(MockProviderClient)
		client.On("AuthCodeURL", "github", "").Return("", nil)
		client.On("Exchange", mock.Anything, "github", "good-code").Return(providerToken, nil)
		client.On("FetchProfile", mock.Anything, "github", providerToken).Return(githubProfile, nil)
		states := new(MockStateStore)
		states.On("Consume", mock.Anything, "state-1", "github").Return(true, nil)
		users := new(MockUserRepository)
		users.On("FindByEmail", mock.Anything, "octocat@github.io").
			Return(&model.User{ID: 3, Username: "octocat", OAuthProvider: strPtr("github"), OAuthID: strPtr("583231")}, nil)

		service := NewOAuthService(client, users, newTestJWT(t), states, opts)
		accessToken, err := service.Callback(context.Background(), "github", "good-code", "state-1")
		require.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		users.AssertNotCalled(t, "LinkOAuth", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestOAuthService_StateStoreDown(t *testing.T) {
	srv := miniredis.RunT(t)
	client := kv.New(srv.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })
	states := auth.NewStateStore(client)
	opts := OAuthOptions{VerifyState: true}

	providers := new(MockProviderClient)
	providers.On("AuthCodeURL", "github", mock.Anything).Return("https://github.test/authorize", nil)

	service := NewOAuthService(providers, new(MockUserRepository), newTestJWT(t), states, opts)
	state, err := states.Create(context.Background(), "github", time.Minute)
	require.NoError(t, err)
	srv.Close()

	_, err = service.LoginURL(context.Background(), "github")
	assert.ErrorIs(t, err, apperrors.ErrPersistence)

	_, err = service.Callback(context.Background(), "github", "good-code", state)
	assert.ErrorIs(t, err, apperrors.ErrPersistence)
	assert.NotErrorIs(t, err, apperrors.ErrValidation)
	providers.AssertNotCalled(t, "Exchange", mock.Anything, mock.Anything, mock.Anything)
}

func TestOAuthService_CallbackUsernameRace(t *testing.T) {
	providerToken := &oauth2.Token{AccessToken: "provider-token"}
	newMocks := func() (*MockProviderClient, *MockUserRepository) {
		client := new(MockProviderClient)
		client.On("AuthCodeURL", "github", "").Return("", nil)
		client.On("Exchange", mock.Anything, "github", "good-code").Return(providerToken, nil)
		client.On("FetchProfile", mock.Anything, "github", providerToken).Return(githubProfile, nil)
		users := new(MockUserRepository)
		users.On("FindByEmail", mock.Anything, "octocat@github.io").Return(nil, gorm.ErrRecordNotFound)
		return client, users
	}

	t.Run("retries with a fresh username", func(t *testing.T) {
		client, users := newMocks()
		users.On("FindByUsername", mock.Anything, "octocat").Return(nil, gorm.ErrRecordNotFound).Once()
		users.On("FindByUsername", mock.Anything, "octocat").Return(&model.User{ID: 8}, nil).Once()
		users.On("FindByUsername", mock.Anything, "octocat-2").Return(nil, gorm.ErrRecordNotFound)
		users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(apperrors.ErrAlreadyRegistered).Once()
		users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil).Once()

		jwtService := newTestJWT(t)
		service := NewOAuthService(client, users, jwtService, nil, OAuthOptions{})
		accessToken, err := service.Callback(context.Background(), "github", "good-code", "")
		require.NoError(t, err)

		claims, err := jwtService.Verify(accessToken)
		require.NoError(t, err)
		assert.Equal(t, "octocat-2", claims.Subject)
		users.AssertExpectations(t)
	})

	t.Run("repeated conflict is a server error", func(t *testing.T) {
		client, users := newMocks()
		users.On("FindByUsername", mock.Anything, "octocat").Return(nil, gorm.ErrRecordNotFound)
		users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(apperrors.ErrAlreadyRegistered)

		service := NewOAuthService(client, users, newTestJWT(t), nil, OAuthOptions{})
		_, err := service.Callback(context.Background(), "github", "good-code", "")

		assert.ErrorIs(t, err, apperrors.ErrPersistence)
		assert.NotErrorIs(t, err, apperrors.ErrAlreadyRegistered)
		assert.Equal(t, 500, apperrors.MapErrorToHTTP(err).StatusCode)
		users.AssertNumberOfCalls(t, "Create", 2)
	})
}
