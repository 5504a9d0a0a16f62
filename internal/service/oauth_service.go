package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"taskmanager/internal/auth"
	apperrors "taskmanager/internal/errors"
	"taskmanager/internal/model"
	"taskmanager/internal/oauth"
	"taskmanager/internal/repository"
)

// maxUsernameAttempts bounds the numeric suffixes tried for a new OAuth user.
const maxUsernameAttempts = 50

// ProviderClient is the provider side of the authorization code flow.
type ProviderClient interface {
	AuthCodeURL(name, state string) (string, error)
	Exchange(ctx context.Context, name, code string) (*oauth2.Token, error)
	FetchProfile(ctx context.Context, name string, token *oauth2.Token) (oauth.Profile, error)
}

var _ ProviderClient = (*oauth.Client)(nil)

// OAuthOptions tunes the callback checks.
type OAuthOptions struct {
	// VerifyState rejects callbacks whose state was not issued by LoginURL.
	VerifyState bool
	StateTTL    time.Duration
}

// OAuthService handles third-party login.
type OAuthService interface {
	LoginURL(ctx context.Context, provider string) (string, error)
	Callback(ctx context.Context, provider, code, state string) (accessToken string, err error)
}

type oauthService struct {
	client     ProviderClient
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	states     auth.StateStoreInterface
	opts       OAuthOptions
}

// NewOAuthService creates a new OAuth login service. states may be nil when
// opts.VerifyState is false.
func NewOAuthService(
	client ProviderClient,
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	states auth.StateStoreInterface,
	opts OAuthOptions,
) OAuthService {
	if opts.StateTTL <= 0 {
		opts.StateTTL = 10 * time.Minute
	}
	return &oauthService{
		client:     client,
		userRepo:   userRepo,
		jwtService: jwtService,
		states:     states,
		opts:       opts,
	}
}

// LoginURL returns the provider authorization URL the client should visit.
func (s *oauthService) LoginURL(ctx context.Context, provider string) (string, error) {
	state := uuid.NewString()
	if s.opts.VerifyState {
		// Resolve the provider first so unknown names do not leave states behind.
		if _, err := s.client.AuthCodeURL(provider, ""); err != nil {
			return "", err
		}
		var err error
		state, err = s.states.Create(ctx, provider, s.opts.StateTTL)
		if err != nil {
			return "", apperrors.Persistence("store oauth state", err)
		}
	}
	return s.client.AuthCodeURL(provider, state)
}

// Callback completes the flow: it exchanges code, fetches the profile,
// resolves or creates the local user and issues an access token for it.
func (s *oauthService) Callback(ctx context.Context, provider, code, state string) (string, error) {
	if code == "" {
		return "", apperrors.Validation("missing authorization code")
	}
	if _, err := s.client.AuthCodeURL(provider, ""); err != nil {
		return "", err
	}

	if s.opts.VerifyState {
		ok, err := s.states.Consume(ctx, state, provider)
		if err != nil {
			return "", apperrors.Persistence("consume oauth state", err)
		}
		if !ok {
			return "", apperrors.Validation("invalid or expired oauth state")
		}
	}

	token, err := s.client.Exchange(ctx, provider, code)
	if err != nil {
		return "", err
	}
	profile, err := s.client.FetchProfile(ctx, provider, token)
	if err != nil {
		return "", err
	}

	user, err := s.resolveUser(ctx, profile)
	if err != nil {
		return "", err
	}

	accessToken, err := s.jwtService.Issue(user.Username, 0)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// resolveUser matches the profile to a local user by email, creating one on
// first login. An existing provider link is never replaced.
func (s *oauthService) resolveUser(ctx context.Context, profile oauth.Profile) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, profile.Email)
	if err == nil {
		s.link(ctx, user, profile)
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Persistence("find user by email", err)
	}

	// One retry covers a concurrent signup taking the chosen username.
	for attempt := 0; ; attempt++ {
		user, err = s.createUser(ctx, profile)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, apperrors.ErrAlreadyRegistered) {
			return nil, err
		}
		// A concurrent callback for the same email won.
		if existing, findErr := s.userRepo.FindByEmail(ctx, profile.Email); findErr == nil {
			return existing, nil
		}
		if attempt == 1 {
			// %v drops ErrAlreadyRegistered from the chain so this maps to 500.
			return nil, fmt.Errorf("%w: create oauth user: %v", apperrors.ErrPersistence, err)
		}
	}
}

func (s *oauthService) createUser(ctx context.Context, profile oauth.Profile) (*model.User, error) {
	username, err := s.availableUsername(ctx, profile.Username())
	if err != nil {
		return nil, err
	}

	provider, providerID := profile.Provider, profile.ProviderUserID
	user := &model.User{
		Name:          profile.DisplayName(),
		Username:      username,
		Email:         profile.Email,
		OAuthProvider: &provider,
		OAuthID:       &providerID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyRegistered) {
			return nil, err
		}
		return nil, apperrors.Persistence("create oauth user", err)
	}

	log.Printf("oauth: created user %q from %s profile %s", user.Username, provider, providerID)
	return user, nil
}

func (s *oauthService) link(ctx context.Context, user *model.User, profile oauth.Profile) {
	if user.HasOAuth() {
		if *user.OAuthProvider != profile.Provider || user.OAuthID == nil || *user.OAuthID != profile.ProviderUserID {
			log.Printf("oauth: user %d matched by email via %s but is linked to %s; keeping existing link",
				user.ID, profile.Provider, *user.OAuthProvider)
		}
		return
	}

	err := s.userRepo.LinkOAuth(ctx, user.ID, profile.Provider, profile.ProviderUserID)
	switch {
	case err == nil:
		provider, providerID := profile.Provider, profile.ProviderUserID
		user.OAuthProvider = &provider
		user.OAuthID = &providerID
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Linked concurrently.
	default:
		log.Printf("oauth: link user %d to %s: %v", user.ID, profile.Provider, err)
	}
}

// availableUsername returns base, or base with the first free numeric suffix.
func (s *oauthService) availableUsername(ctx context.Context, base string) (string, error) {
	if base == "" {
		base = "user"
	}
	for i := 1; i <= maxUsernameAttempts; i++ {
		candidate := base
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		_, err := s.userRepo.FindByUsername(ctx, candidate)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", apperrors.Persistence("check username", err)
		}
	}
	return base + "-" + uuid.NewString()[:8], nil
}
