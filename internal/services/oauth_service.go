package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/craftlink/craftlink-backend/internal/config"
	"github.com/craftlink/craftlink-backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

const (
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
)

var ErrUnknownProvider = errors.New("unknown oauth provider")

const (
	googleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
	facebookUserInfoURL = "https://graph.facebook.com/me?fields=id,name,email"
)

// OAuthService holds one oauth2.Config per provider, built at startup
// and injected where needed.
type OAuthService struct {
	db        *gorm.DB
	providers map[string]*oauth2.Config
}

func NewOAuthService(db *gorm.DB, cfg *config.Config) *OAuthService {
	return &OAuthService{
		db: db,
		providers: map[string]*oauth2.Config{
			ProviderGoogle: {
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				RedirectURL:  cfg.OAuthRedirectBase + "/api/auth/google/callback",
				Scopes:       []string{"openid", "profile", "email"},
				Endpoint:     google.Endpoint,
			},
			ProviderFacebook: {
				ClientID:     cfg.FacebookClientID,
				ClientSecret: cfg.FacebookClientSecret,
				RedirectURL:  cfg.OAuthRedirectBase + "/api/auth/facebook/callback",
				Scopes:       []string{"email", "public_profile"},
				Endpoint:     facebook.Endpoint,
			},
		},
	}
}

// AuthURL returns the provider's consent page URL for the given state.
func (s *OAuthService) AuthURL(provider, state string) (string, error) {
	conf, ok := s.providers[provider]
	if !ok {
		return "", ErrUnknownProvider
	}
	return conf.AuthCodeURL(state), nil
}

type providerProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Exchange trades the callback code for a token, fetches the provider
// profile, and finds or creates the matching user. Accounts created this
// way carry no password hash.
func (s *OAuthService) Exchange(ctx context.Context, provider, code string) (*models.User, error) {
	conf, ok := s.providers[provider]
	if !ok {
		return nil, ErrUnknownProvider
	}

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	profile, err := s.fetchProfile(ctx, conf, token, provider)
	if err != nil {
		return nil, err
	}

	email := profile.Email
	if email == "" {
		// Facebook accounts without a verified email expose none.
		email = profile.ID + "@" + provider + ".local"
	}

	var user models.User
	err = s.db.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user = models.User{
		ID:           uuid.New(),
		FullName:     profile.Name,
		Email:        email,
		Role:         models.RoleClient,
		AuthProvider: provider,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create oauth user: %w", err)
	}

	return &user, nil
}

func (s *OAuthService) fetchProfile(ctx context.Context, conf *oauth2.Config, token *oauth2.Token, provider string) (*providerProfile, error) {
	url := googleUserInfoURL
	if provider == ProviderFacebook {
		url = facebookUserInfoURL
	}

	resp, err := conf.Client(ctx, token).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s profile: %w", provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("%s profile endpoint returned status %d", provider, resp.StatusCode)
	}

	var profile providerProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode %s profile: %w", provider, err)
	}
	return &profile, nil
}
