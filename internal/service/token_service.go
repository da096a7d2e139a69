package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/dtroode/evalca-server/internal/logger"
	"github.com/dtroode/evalca-server/internal/model"
	"github.com/dtroode/evalca-server/internal/telemetry"
)

// TokenService issues, verifies and revokes tokens.
// It composes the TokenManager and the BlacklistStore.
type TokenService struct {
	manager   model.TokenManager
	blacklist model.BlacklistStore
	metrics   *telemetry.Metrics
	logger    *logger.Logger
	now       func() time.Time
}

func NewTokenService(manager model.TokenManager, blacklist model.BlacklistStore, metrics *telemetry.Metrics, logger *logger.Logger) *TokenService {
	return &TokenService{
		manager:   manager,
		blacklist: blacklist,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Issue mints an access and a refresh token for the user.
func (s *TokenService) Issue(ctx context.Context, userID int64) (model.TokenPair, error) {
	access, _, err := s.manager.GenerateAccessToken(userID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("issue access: %w", err)
	}

	refresh, _, err := s.manager.GenerateRefreshToken(userID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("issue refresh: %w", err)
	}

	return model.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    model.BearerTokenType,
	}, nil
}

// IssueAccess mints an access token only.
func (s *TokenService) IssueAccess(ctx context.Context, userID int64) (string, error) {
	access, _, err := s.manager.GenerateAccessToken(userID)
	if err != nil {
		return "", fmt.Errorf("issue access: %w", err)
	}
	return access, nil
}

// Verify checks signature, expiry and kind, then consults the blacklist.
// It returns the subject user id.
func (s *TokenService) Verify(ctx context.Context, token string, kind model.TokenKind) (int64, error) {
	claims, err := s.manager.Parse(token, kind)
	if err != nil {
		return 0, err
	}

	revoked, err := s.IsRevoked(ctx, token)
	if err != nil {
		return 0, err
	}
	if revoked {
		return 0, model.ErrTokenRevoked
	}

	return claims.UserID, nil
}

// Revoke blacklists the token until its own expiry. The token must carry a valid
// signature; it may already be expired. Revoking twice is not an error.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	claims, err := s.manager.ParseIgnoringExpiry(token)
	if err != nil {
		return err
	}

	return s.blacklistToken(ctx, token, claims)
}

// RevokeAccess revokes token only if it is an access token issued to userID,
// expired or not. It reports whether the token was revoked.
func (s *TokenService) RevokeAccess(ctx context.Context, token string, userID int64) (bool, error) {
	claims, err := s.manager.ParseIgnoringExpiry(token)
	if err != nil {
		return false, err
	}
	if claims.Kind != model.TokenKindAccess || claims.UserID != userID {
		return false, nil
	}

	if err := s.blacklistToken(ctx, token, claims); err != nil {
		return false, err
	}
	return true, nil
}

func (s *TokenService) blacklistToken(ctx context.Context, token string, claims model.TokenClaims) error {
	entry := model.BlacklistedToken{
		Fingerprint: Fingerprint(token),
		ExpiresAt:   claims.ExpiresAt,
		IsActive:    true,
	}
	if err := s.blacklist.Add(ctx, entry); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}

	s.metrics.TokenRevoked()
	s.logger.Debug("Token service: token revoked",
		"user_id", claims.UserID,
		"kind", claims.Kind,
		"expires_at", claims.ExpiresAt)

	return nil
}

// IsRevoked reports whether the token is blacklisted.
func (s *TokenService) IsRevoked(ctx context.Context, token string) (bool, error) {
	revoked, err := s.blacklist.Exists(ctx, Fingerprint(token))
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}
	return revoked, nil
}

// PurgeExpired removes blacklist entries whose tokens have expired.
func (s *TokenService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.blacklist.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("purge blacklist: %w", err)
	}

	s.metrics.TokensPurged(n)

	return n, nil
}

// Fingerprint returns the hex SHA-256 of a raw token.
func Fingerprint(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// isTokenError reports whether err is a token validation failure rather than an infrastructure error.
func isTokenError(err error) bool {
	return errors.Is(err, model.ErrTokenInvalid) ||
		errors.Is(err, model.ErrTokenExpired) ||
		errors.Is(err, model.ErrTokenKind) ||
		errors.Is(err, model.ErrTokenRevoked)
}
