package model

import (
	"time"
)

// TokenKind distinguishes access tokens from refresh tokens.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// TokenClaims is the verified content of a token.
type TokenClaims struct {
	UserID    int64
	Kind      TokenKind
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenManager generates and validates signed tokens.
type TokenManager interface {
	GenerateAccessToken(userID int64) (string, TokenClaims, error)
	GenerateRefreshToken(userID int64) (string, TokenClaims, error)
	// Parse verifies signature, expiry and kind.
	Parse(token string, kind TokenKind) (TokenClaims, error)
	// ParseIgnoringExpiry verifies the signature only and returns the claims even if expired.
	ParseIgnoringExpiry(token string) (TokenClaims, error)
}

// TokenPair is returned after a successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// BearerTokenType is the token_type reported to clients.
const BearerTokenType = "bearer"
