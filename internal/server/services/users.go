package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cheatsync/internal/common"
	"github.com/dmitrijs2005/cheatsync/internal/server/auth"
	"github.com/dmitrijs2005/cheatsync/internal/server/config"
	"github.com/dmitrijs2005/cheatsync/internal/server/models"
	"github.com/dmitrijs2005/cheatsync/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// TokenPair bundles a short-lived access token and the refresh token that
// renews it for the same user.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type UserService struct {
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	now                          func() time.Time
}

// UserOption tunes a UserService.
type UserOption func(*UserService)

// WithClock replaces time.Now for token issue and expiry checks.
func WithClock(now func() time.Time) UserOption {
	return func(s *UserService) { s.now = now }
}

func NewUserService(m repomanager.RepositoryManager, cfg *config.Config, opts ...UserOption) *UserService {
	s := &UserService{
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		now:                          time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SignInAnonymously creates a fresh identity and returns it with its tokens.
func (s *UserService) SignInAnonymously(ctx context.Context) (*models.User, *TokenPair, error) {
	user := &models.User{ID: uuid.NewString(), CreatedAt: s.now().UTC()}

	var pair *TokenPair
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repos) error {
		if _, err := r.Users.Create(ctx, user); err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}

		var err error
		pair, err = s.generateTokenPair(ctx, r, user.ID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// RefreshToken rotates refreshToken and returns a new pair for the user it
// belongs to. Unknown, expired or orphaned refresh tokens wrap
// common.ErrUnauthorized.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (string, *TokenPair, error) {
	var (
		userID string
		pair   *TokenPair
	)

	err := s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repos) error {
		token, err := r.RefreshTokens.Find(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("%w: unknown refresh token", common.ErrUnauthorized)
			}
			return fmt.Errorf("error searching refresh token: %w", err)
		}

		if !s.now().Before(token.Expires) {
			return fmt.Errorf("%w: %w", common.ErrUnauthorized, common.ErrRefreshTokenExpired)
		}

		ok, err := r.Users.Exists(ctx, token.UserID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: unknown user", common.ErrUnauthorized)
		}

		if err := r.RefreshTokens.Delete(ctx, refreshToken); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				// a concurrent refresh already consumed it
				return fmt.Errorf("%w: unknown refresh token", common.ErrUnauthorized)
			}
			return fmt.Errorf("error deleting refresh token: %w", err)
		}

		userID = token.UserID
		pair, err = s.generateTokenPair(ctx, r, userID)
		return err
	})
	if err != nil {
		return "", nil, err
	}

	return userID, pair, nil
}

// Authenticate resolves a token to the id of an existing user.
func (s *UserService) Authenticate(ctx context.Context, token string) (string, error) {
	userID, err := auth.GetUserIDFromTokenAt(token, s.jwtSecret, s.now())
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrUnauthorized, err)
	}

	ok, err := s.repomanager.Repos().Users.Exists(ctx, userID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: unknown user", common.ErrUnauthorized)
	}

	return userID, nil
}

// IsAuthError reports whether err means the caller has to sign in again.
func IsAuthError(err error) bool {
	return errors.Is(err, common.ErrUnauthorized)
}

func (s *UserService) generateTokenPair(ctx context.Context, r repomanager.Repos, userID string) (*TokenPair, error) {
	now := s.now()

	access, err := auth.GenerateTokenAt(userID, s.jwtSecret, now, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, fmt.Errorf("error generating refresh token: %w", err)
	}

	if err := r.RefreshTokens.Create(ctx, userID, refresh, now.Add(s.refreshTokenValidityDuration)); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
