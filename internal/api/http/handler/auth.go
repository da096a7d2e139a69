package handler

import (
	"context"
	"net/http"

	"github.com/dtroode/evalca-server/internal/api/http/middleware"
	"github.com/dtroode/evalca-server/internal/api/http/response"
	"github.com/dtroode/evalca-server/internal/apierror"
	"github.com/dtroode/evalca-server/internal/logger"
	"github.com/dtroode/evalca-server/internal/model"
)

// AuthService defines account and session operations.
type AuthService interface {
	Signup(ctx context.Context, params model.SignupParams, role model.RoleName) (model.PublicUser, error)
	Login(ctx context.Context, email, password string) (model.LoginResult, error)
	Logout(ctx context.Context, accessToken string) error
	Refresh(ctx context.Context, refreshToken, accessToken string) (model.TokenPair, error)
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type signupRequest struct {
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

type loginRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type refreshRequest struct {
	RefreshToken *string `json:"refresh_token"`
}

// Signup registers a teacher account.
func (h *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	h.signup(w, r, model.RoleTeacher)
}

// SignupAdmin registers an admin account.
func (h *Auth) SignupAdmin(w http.ResponseWriter, r *http.Request) {
	h.signup(w, r, model.RoleAdmin)
}

func (h *Auth) signup(w http.ResponseWriter, r *http.Request, role model.RoleName) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	if err := required(map[string]*string{
		"email":      req.Email,
		"password":   req.Password,
		"first_name": req.FirstName,
		"last_name":  req.LastName,
	}); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	h.logger.Debug("Auth handler: processing signup request",
		"role", role)

	user, err := h.authService.Signup(r.Context(), model.SignupParams{
		Email:     *req.Email,
		Password:  *req.Password,
		FirstName: *req.FirstName,
		LastName:  *req.LastName,
	}, role)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, "User created successfully", user)
}

// Login exchanges credentials for a token pair.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	if err := required(map[string]*string{
		"email":    req.Email,
		"password": req.Password,
	}); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	result, err := h.authService.Login(r.Context(), *req.Email, *req.Password)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, "Login successful", result)
}

// Logout revokes the access token the request was authenticated with.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.BearerToken(r)
	if !ok {
		response.Error(w, r, h.logger, apierror.NewErrMissingAuthorizationToken())
		return
	}

	if err := h.authService.Logout(r.Context(), token); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, "Logout successful", nil)
}

// Refresh issues a new access token. A bearer access token, when sent, is revoked.
func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	if err := required(map[string]*string{"refresh_token": req.RefreshToken}); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	accessToken, _ := middleware.BearerToken(r)
	pair, err := h.authService.Refresh(r.Context(), *req.RefreshToken, accessToken)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, "Token refreshed successfully", pair)
}

// Me returns the authenticated user.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		response.Error(w, r, h.logger, apierror.NewErrMissingAuthorizationToken())
		return
	}

	response.JSON(w, http.StatusOK, "Record retrieved successfully", user.Public())
}
