package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-client/internal/authstore"
	"github.com/stemsi/exstem-client/internal/model"
	"github.com/stemsi/exstem-client/internal/roles"
)

// ErrNoToken is returned when the backend accepts a login but issues no token.
var ErrNoToken = errors.New("backend returned no token")

// AuthService signs the local user in and out. The backend issues and
// verifies tokens; this side only keeps them.
type AuthService struct {
	api   AuthAPI
	store authstore.Store
	log   zerolog.Logger
	now   func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(api AuthAPI, store authstore.Store, log zerolog.Logger) *AuthService {
	return &AuthService{
		api:   api,
		store: store,
		log:   log.With().Str("component", "auth_service").Logger(),
		now:   time.Now,
	}
}

// Login signs in and stores the issued credentials.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*authstore.Credentials, error) {
	resp, err := s.api.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	if resp.Username == "" {
		resp.Username = req.Username
	}
	return s.keep(ctx, resp)
}

// Register creates an account and stores the issued credentials.
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*authstore.Credentials, error) {
	resp, err := s.api.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Username == "" {
		resp.Username = req.Username
	}
	return s.keep(ctx, resp)
}

// Logout forgets the stored credentials.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	s.log.Info().Msg("Signed out")
	return nil
}

// Current returns the stored credentials, or nil when signed out.
func (s *AuthService) Current(ctx context.Context) (*authstore.Credentials, error) {
	return authstore.LoadOptional(ctx, s.store)
}

// Guard loads the stored credentials and applies roles.Guard to them.
func (s *AuthService) Guard(ctx context.Context, allowed ...model.Role) (roles.Decision, *authstore.Credentials, error) {
	creds, err := s.Current(ctx)
	if err != nil {
		return roles.Decision{}, nil, err
	}
	return roles.Guard(creds, s.now(), allowed...), creds, nil
}

func (s *AuthService) keep(ctx context.Context, resp *model.AuthResponse) (*authstore.Credentials, error) {
	if resp.Token == "" {
		return nil, ErrNoToken
	}
	creds := &authstore.Credentials{
		Token:   resp.Token,
		User:    resp.User(),
		SavedAt: s.now().UTC(),
	}
	if err := s.store.Save(ctx, creds); err != nil {
		return nil, fmt.Errorf("save credentials: %w", err)
	}
	s.log.Info().
		Str("username", creds.User.Username).
		Str("role", string(creds.User.Role)).
		Msg("Signed in")
	return creds, nil
}
