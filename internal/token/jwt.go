package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/evalca-server/internal/model"
)

// Claims represents JWT claims with token type.
type Claims struct {
	jwt.RegisteredClaims
	TokenType model.TokenKind `json:"type"`
}

// Options configure the JWT manager.
type Options struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// Now overrides the clock, mostly for tests.
	Now func() time.Time
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey  []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

var _ model.TokenManager = (*JWT)(nil)

const (
	defaultAccessTTL  = 30 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// NewJWT creates a new JWT token manager.
func NewJWT(opts Options) *JWT {
	j := &JWT{
		secretKey:  []byte(opts.Secret),
		issuer:     opts.Issuer,
		accessTTL:  opts.AccessTTL,
		refreshTTL: opts.RefreshTTL,
		now:        opts.Now,
	}
	if j.accessTTL <= 0 {
		j.accessTTL = defaultAccessTTL
	}
	if j.refreshTTL <= 0 {
		j.refreshTTL = defaultRefreshTTL
	}
	if j.now == nil {
		j.now = time.Now
	}
	return j
}

// GenerateAccessToken creates a short-lived access token.
func (j *JWT) GenerateAccessToken(userID int64) (string, model.TokenClaims, error) {
	return j.generate(userID, model.TokenKindAccess, j.accessTTL)
}

// GenerateRefreshToken creates a long-lived refresh token.
func (j *JWT) GenerateRefreshToken(userID int64) (string, model.TokenClaims, error) {
	return j.generate(userID, model.TokenKindRefresh, j.refreshTTL)
}

func (j *JWT) generate(userID int64, kind model.TokenKind, ttl time.Duration) (string, model.TokenClaims, error) {
	now := j.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    j.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: kind,
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
	if err != nil {
		return "", model.TokenClaims{}, fmt.Errorf("failed to sign %s token: %w", kind, err)
	}

	return tokenString, toModel(claims, userID), nil
}

// Parse validates signature, expiry and token type.
func (j *JWT) Parse(tokenString string, kind model.TokenKind) (model.TokenClaims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, j.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.TokenClaims{}, fmt.Errorf("failed to parse %s token: %w", kind, model.ErrTokenExpired)
		}
		return model.TokenClaims{}, fmt.Errorf("failed to parse %s token: %w: %v", kind, model.ErrTokenInvalid, err)
	}
	if claims.TokenType != kind {
		return model.TokenClaims{}, fmt.Errorf("token type mismatch %q: %w", claims.TokenType, model.ErrTokenKind)
	}

	return j.claimsToModel(claims)
}

// ParseIgnoringExpiry validates the signature and returns claims even for expired tokens.
func (j *JWT) ParseIgnoringExpiry(tokenString string) (model.TokenClaims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, j.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return model.TokenClaims{}, fmt.Errorf("failed to parse token: %w: %v", model.ErrTokenInvalid, err)
	}
	if claims.ExpiresAt == nil {
		return model.TokenClaims{}, fmt.Errorf("token has no expiry: %w", model.ErrTokenInvalid)
	}

	return j.claimsToModel(claims)
}

func (j *JWT) keyFunc(_ *jwt.Token) (interface{}, error) {
	return j.secretKey, nil
}

func (j *JWT) claimsToModel(claims *Claims) (model.TokenClaims, error) {
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return model.TokenClaims{}, fmt.Errorf("invalid subject %q: %w", claims.Subject, model.ErrTokenInvalid)
	}
	return toModel(*claims, userID), nil
}

func toModel(claims Claims, userID int64) model.TokenClaims {
	tc := model.TokenClaims{
		UserID: userID,
		Kind:   claims.TokenType,
		ID:     claims.ID,
	}
	if claims.IssuedAt != nil {
		tc.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		tc.ExpiresAt = claims.ExpiresAt.Time
	}
	return tc
}
