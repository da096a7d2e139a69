package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dtroode/evalca-server/internal/apierror"
	"github.com/dtroode/evalca-server/internal/logger"
	"github.com/dtroode/evalca-server/internal/model"
	"github.com/dtroode/evalca-server/internal/telemetry"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// dummyPassword is hashed once and verified against when a login email is unknown,
// so both failure paths cost one hash verification.
const dummyPassword = "evalca-dummy-password"

type Auth struct {
	userStore    model.UserStore
	roles        *model.RoleCatalog
	hasher       model.PasswordHasher
	tokenService *TokenService
	metrics      *telemetry.Metrics
	tracer       trace.Tracer
	logger       *logger.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuth(
	userStore model.UserStore,
	roles *model.RoleCatalog,
	hasher model.PasswordHasher,
	tokenService *TokenService,
	metrics *telemetry.Metrics,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		roles:        roles,
		hasher:       hasher,
		tokenService: tokenService,
		metrics:      metrics,
		tracer:       otel.Tracer("github.com/dtroode/evalca-server/internal/service"),
		logger:       logger,
	}
}

func (a *Auth) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return a.tracer.Start(ctx, "Auth."+name)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Signup validates the payload and creates a user with the given role.
func (a *Auth) Signup(ctx context.Context, params model.SignupParams, role model.RoleName) (user model.PublicUser, err error) {
	ctx, span := a.startSpan(ctx, "Signup")
	span.SetAttributes(attribute.String("role", string(role)))
	defer func() {
		a.metrics.AuthOperation("signup", err)
		endSpan(span, err)
	}()

	params.Email = model.NormalizeEmail(params.Email)
	params.FirstName = strings.TrimSpace(params.FirstName)
	params.LastName = strings.TrimSpace(params.LastName)

	a.logger.Debug("Auth service: starting user registration",
		"email", params.Email,
		"role", role)

	if err := validateSignup(params); err != nil {
		return model.PublicUser{}, err
	}

	_, err = a.userStore.GetByEmail(ctx, params.Email)
	switch {
	case err == nil:
		a.logger.Info("Auth service: user already exists",
			"email", params.Email)
		return model.PublicUser{}, apierror.NewErrEmailIsTaken(params.Email)
	case !errors.Is(err, model.ErrNotFound):
		a.logger.Error("Auth service: failed to get user by email",
			"email", params.Email,
			"error", err.Error())
		return model.PublicUser{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	roleID, ok := a.roles.ID(role)
	if !ok {
		return model.PublicUser{}, fmt.Errorf("role %q is not configured", role)
	}

	hashed, err := a.hasher.Hash(params.Password)
	if errors.Is(err, model.ErrPasswordTooLong) {
		v := apierror.ValidationErrors{}
		v.Add("password", "Password is too long")
		return model.PublicUser{}, v.Err()
	}
	if err != nil {
		return model.PublicUser{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := a.userStore.Create(ctx, model.User{
		Email:          params.Email,
		HashedPassword: hashed,
		FirstName:      params.FirstName,
		LastName:       params.LastName,
		RoleID:         roleID,
		Role:           role,
		IsActive:       true,
	})
	if errors.Is(err, model.ErrAlreadyExists) {
		a.logger.Info("Auth service: user created concurrently",
			"email", params.Email)
		return model.PublicUser{}, apierror.NewErrEmailIsTaken(params.Email)
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", params.Email,
			"error", err.Error())
		return model.PublicUser{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registration completed successfully",
		"user_id", created.ID,
		"role", created.Role)

	return created.Public(), nil
}

func validateSignup(params model.SignupParams) error {
	v := apierror.ValidationErrors{}

	if params.Email == "" {
		v.Add("email", "Field required")
	} else if addr, err := mail.ParseAddress(params.Email); err != nil || addr.Address != params.Email {
		v.Add("email", "Value is not a valid email address")
	}
	if len(params.Password) < MinPasswordLength {
		v.Add("password", fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}
	if params.FirstName == "" {
		v.Add("first_name", "Field required")
	}
	if params.LastName == "" {
		v.Add("last_name", "Field required")
	}

	return v.Err()
}

// Login checks credentials and issues a token pair. Every credential failure
// yields the same error so callers cannot probe for registered emails.
func (a *Auth) Login(ctx context.Context, email, password string) (result model.LoginResult, err error) {
	ctx, span := a.startSpan(ctx, "Login")
	defer func() {
		a.metrics.AuthOperation("login", err)
		endSpan(span, err)
	}()

	email = model.NormalizeEmail(email)

	a.logger.Debug("Auth service: starting user login",
		"email", email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		a.hasher.Verify(password, a.dummy())
		a.logger.Info("Auth service: invalid credentials, unknown email")
		return model.LoginResult{}, apierror.NewErrInvalidCredentials()
	}
	if err != nil {
		return model.LoginResult{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	verified := a.hasher.Verify(password, user.HashedPassword)
	if !verified || !user.IsActive {
		a.logger.Info("Auth service: invalid credentials",
			"user_id", user.ID)
		return model.LoginResult{}, apierror.NewErrInvalidCredentials()
	}

	pair, err := a.tokenService.Issue(ctx, user.ID)
	if err != nil {
		return model.LoginResult{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: login completed successfully",
		"user_id", user.ID)

	return model.LoginResult{TokenPair: pair, User: user.Public()}, nil
}

// dummy returns a hash produced by the configured hasher, computed on first use.
func (a *Auth) dummy() string {
	a.dummyOnce.Do(func() {
		hash, err := a.hasher.Hash(dummyPassword)
		if err != nil {
			a.logger.Error("Auth service: failed to prepare dummy hash",
				"error", err.Error())
			return
		}
		a.dummyHash = hash
	})
	return a.dummyHash
}

// Logout revokes the access token the request was authenticated with.
func (a *Auth) Logout(ctx context.Context, accessToken string) (err error) {
	ctx, span := a.startSpan(ctx, "Logout")
	defer func() {
		a.metrics.AuthOperation("logout", err)
		endSpan(span, err)
	}()

	if err := a.tokenService.Revoke(ctx, accessToken); err != nil {
		a.logger.Error("Auth service: logout failed",
			"error", err.Error())
		return apierror.NewErrLogoutFailed(err)
	}

	a.logger.Info("Auth service: logout completed successfully")

	return nil
}

// Refresh issues a new access token for the subject of refreshToken. The refresh
// token itself is returned unchanged. When accessToken is an access token of the
// same subject it is revoked on a best-effort basis; anything else is left alone.
func (a *Auth) Refresh(ctx context.Context, refreshToken, accessToken string) (pair model.TokenPair, err error) {
	ctx, span := a.startSpan(ctx, "Refresh")
	defer func() {
		a.metrics.AuthOperation("refresh", err)
		endSpan(span, err)
	}()

	userID, err := a.tokenService.Verify(ctx, refreshToken, model.TokenKindRefresh)
	if err != nil {
		if isTokenError(err) {
			a.logger.Info("Auth service: refresh token rejected",
				"error", err.Error())
			return model.TokenPair{}, apierror.NewErrInvalidAuthorizationToken()
		}
		return model.TokenPair{}, fmt.Errorf("failed to verify refresh token: %w", err)
	}

	if _, err := a.userStore.GetActiveByID(ctx, userID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.TokenPair{}, apierror.NewErrUserNotFound()
		}
		return model.TokenPair{}, fmt.Errorf("failed to get user: %w", err)
	}

	if accessToken != "" {
		revoked, err := a.tokenService.RevokeAccess(ctx, accessToken, userID)
		switch {
		case err != nil:
			a.logger.Warn("Auth service: failed to revoke previous access token",
				"user_id", userID,
				"error", err.Error())
		case !revoked:
			a.logger.Debug("Auth service: bearer is not an access token of the refresh subject, not revoked",
				"user_id", userID)
		}
	}

	access, err := a.tokenService.IssueAccess(ctx, userID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: token refreshed",
		"user_id", userID)

	return model.TokenPair{
		AccessToken:  access,
		RefreshToken: refreshToken,
		TokenType:    model.BearerTokenType,
	}, nil
}

// Authenticate resolves a bearer access token to an active user.
func (a *Auth) Authenticate(ctx context.Context, bearer string) (user model.User, err error) {
	ctx, span := a.startSpan(ctx, "Authenticate")
	defer func() { endSpan(span, err) }()

	if bearer == "" {
		return model.User{}, apierror.NewErrMissingAuthorizationToken()
	}

	userID, err := a.tokenService.Verify(ctx, bearer, model.TokenKindAccess)
	if err != nil {
		if isTokenError(err) {
			a.logger.Debug("Auth service: access token rejected",
				"error", err.Error())
			return model.User{}, apierror.NewErrInvalidAuthorizationToken()
		}
		return model.User{}, fmt.Errorf("failed to verify access token: %w", err)
	}

	user, err = a.userStore.GetActiveByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apierror.NewErrUserNotFound()
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	span.SetAttributes(attribute.Int64("user_id", user.ID))

	return user, nil
}

// Authorize checks that the user holds the required role.
func (a *Auth) Authorize(user model.User, role model.RoleName) (model.User, error) {
	if user.Role != role {
		a.logger.Info("Auth service: permission denied",
			"user_id", user.ID,
			"role", user.Role,
			"required_role", role)
		return model.User{}, apierror.NewErrNotAuthorized()
	}
	return user, nil
}
