package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dtroode/evalca-server/internal/apierror"
	"github.com/dtroode/evalca-server/internal/mocks"
	"github.com/dtroode/evalca-server/internal/model"
	"github.com/dtroode/evalca-server/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuth_Signup(t *testing.T) {
	t.Parallel()

	valid := `{"email":"a@x.com","password":"secret123","first_name":"Ada","last_name":"Lovelace"}`
	params := model.SignupParams{Email: "a@x.com", Password: "secret123", FirstName: "Ada", LastName: "Lovelace"}
	public := model.PublicUser{ID: 1, Email: "a@x.com", FirstName: "Ada", LastName: "Lovelace", RoleID: 1, Role: model.RoleTeacher}

	tests := []struct {
		name       string
		body       string
		svcErr     error
		callSvc    bool
		wantStatus int
		wantFields map[string][]string
	}{
		{
			name:       "created",
			body:       valid,
			callSvc:    true,
			wantStatus: http.StatusOK,
		},
		{
			name:       "email taken",
			body:       valid,
			callSvc:    true,
			svcErr:     apierror.NewErrEmailIsTaken("a@x.com"),
			wantStatus: http.StatusBadRequest,
			wantFields: map[string][]string{apierror.NonFieldErrors: {"User with this email already exists"}},
		},
		{
			name:       "missing fields",
			body:       `{"email":"a@x.com"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantFields: map[string][]string{
				"password":   {msgRequired},
				"first_name": {msgRequired},
				"last_name":  {msgRequired},
			},
		},
		{
			name:       "malformed json",
			body:       `{"email":`,
			wantStatus: http.StatusUnprocessableEntity,
			wantFields: map[string][]string{apierror.NonFieldErrors: {"Request body must be a valid JSON object"}},
		},
		{
			name:       "empty body",
			body:       ``,
			wantStatus: http.StatusUnprocessableEntity,
			wantFields: map[string][]string{apierror.NonFieldErrors: {"Request body must not be empty"}},
		},
		{
			name:       "wrong type",
			body:       `{"email":1,"password":"secret123","first_name":"Ada","last_name":"Lovelace"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantFields: map[string][]string{"email": {"Invalid value type."}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewAuthService(t)
			if tt.callSvc {
				svc.On("Signup", mock.Anything, params, model.RoleTeacher).Return(public, tt.svcErr)
			}
			h := NewAuth(svc, mocks.NewContextManager(t), testutil.MakeNoopLogger())

			rec := httptest.NewRecorder()
			h.Signup(rec, httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(tt.body)))

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantFields != nil {
				assert.Equal(t, tt.wantFields, decodeFields(t, rec))
				return
			}

			body := decodeEnvelope(t, rec)
			assert.NotContains(t, string(body.Data), "password")
			var got model.PublicUser
			require.NoError(t, json.Unmarshal(body.Data, &got))
			assert.Equal(t, public, got)
		})
	}
}

func TestAuth_SignupAdmin(t *testing.T) {
	t.Parallel()

	svc := mocks.NewAuthService(t)
	svc.On("Signup", mock.Anything, mock.AnythingOfType("model.SignupParams"), model.RoleAdmin).
		Return(model.PublicUser{ID: 2, Role: model.RoleAdmin}, nil)
	h := NewAuth(svc, mocks.NewContextManager(t), testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	body := `{"email":"root@x.com","password":"secret123","first_name":"R","last_name":"T"}`
	h.SignupAdmin(rec, httptest.NewRequest(http.MethodPost, "/auth/signup/admin", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_Login(t *testing.T) {
	t.Parallel()

	result := model.LoginResult{
		TokenPair: model.TokenPair{AccessToken: "acc", RefreshToken: "ref", TokenType: model.BearerTokenType},
		User:      model.PublicUser{ID: 1, Email: "a@x.com"},
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		svc := mocks.NewAuthService(t)
		svc.On("Login", mock.Anything, "a@x.com", "secret123").Return(result, nil)
		h := NewAuth(svc, mocks.NewContextManager(t), testutil.MakeNoopLogger())

		rec := httptest.NewRecorder()
		h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"a@x.com","password":"secret123"}`)))

		require.Equal(t, http.StatusOK, rec.Code)
		var data map[string]any
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
		assert.Equal(t, "acc", data["access_token"])
		assert.Equal(t, "ref", data["refresh_token"])
		assert.Equal(t, "bearer", data["token_type"])
		assert.NotNil(t, data["user"])
	})

	t.Run("invalid credentials", func(t *testing.T) {
		t.Parallel()

		svc := mocks.NewAuthService(t)
		svc.On("Login", mock.Anything, "a@x.com", "wrong").Return(model.LoginResult{}, apierror.NewErrInvalidCredentials())
		h := NewAuth(svc, mocks.NewContextManager(t), testutil.MakeNoopLogger())

		rec := httptest.NewRecorder()
		h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"a@x.com","password":"wrong"}`)))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, map[string][]string{apierror.NonFieldErrors: {"Invalid email or password"}}, decodeFields(t, rec))
	})

	t.Run("missing password", func(t *testing.T) {
		t.Parallel()

		h := NewAuth(mocks.NewAuthService(t), mocks.NewContextManager(t), testutil.MakeNoopLogger())

		rec := httptest.NewRecorder()
		h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"a@x.com"}`)))

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, map[string][]string{"password": {msgRequired}}, decodeFields(t, rec))
	})
}

func TestAuth_Logout(t *testing.T) {
	t.Parallel()

	t.Run("revokes bearer token", func(t *testing.T) {
		t.Parallel()

		svc := mocks.NewAuthService(t)
		svc.On("Logout", mock.Anything, "T1").Return(nil)
		h := NewAuth(svc, mocks.NewContextManager(t), testutil.MakeNoopLogger())

		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		req.Header.Set("Authorization", "Bearer T1")
		rec := httptest.NewRecorder()
		h.Logout(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("ledger failure", func(t *testing.T) {
		t.Parallel()

		svc := mocks.NewAuthService(t)
		svc.On("Logout", mock.Anything, "T1").Return(apierror.NewErrLogoutFailed(assert.AnError))
		h := NewAuth(svc, mocks.NewContextManager(t), testutil.MakeNoopLogger())

		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		req.Header.Set("Authorization", "Bearer T1")
		rec := httptest.NewRecorder()
		h.Logout(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, map[string][]string{apierror.NonFieldErrors: {"Logout failed"}}, decodeFields(t, rec))
	})

	t.Run("no bearer", func(t *testing.T) {
		t.Parallel()

		h := NewAuth(mocks.NewAuthService(t), mocks.NewContextManager(t), testutil.MakeNoopLogger())

		rec := httptest.NewRecorder()
		h.Logout(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuth_Refresh(t *testing.T) {
	t.Parallel()

	pair := model.TokenPair{AccessToken: "T2", RefreshToken: "R1", TokenType: model.BearerTokenType}

	tests := []struct {
		name       string
		body       string
		bearer     string
		wantAccess string
		svcErr     error
		callSvc    bool
		wantStatus int
	}{
		{name: "with old access token", body: `{"refresh_token":"R1"}`, bearer: "T1", wantAccess: "T1", callSvc: true, wantStatus: http.StatusOK},
		{name: "without access token", body: `{"refresh_token":"R1"}`, callSvc: true, wantStatus: http.StatusOK},
		{name: "invalid refresh token", body: `{"refresh_token":"R1"}`, callSvc: true, svcErr: apierror.NewErrInvalidAuthorizationToken(), wantStatus: http.StatusUnauthorized},
		{name: "missing refresh token", body: `{}`, wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewAuthService(t)
			if tt.callSvc {
				ret := pair
				if tt.svcErr != nil {
					ret = model.TokenPair{}
				}
				svc.On("Refresh", mock.Anything, "R1", tt.wantAccess).Return(ret, tt.svcErr)
			}
			h := NewAuth(svc, mocks.NewContextManager(t), testutil.MakeNoopLogger())

			req := httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(tt.body))
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}
			rec := httptest.NewRecorder()
			h.Refresh(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			var got model.TokenPair
			require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &got))
			assert.Equal(t, pair, got)
		})
	}
}

func TestAuth_Me(t *testing.T) {
	t.Parallel()

	user := model.User{ID: 5, Email: "a@x.com", HashedPassword: "$argon2id$secret", Role: model.RoleTeacher, RoleID: 1}

	cm := mocks.NewContextManager(t)
	cm.On("GetUserFromContext", mock.Anything).Return(user, true)
	h := NewAuth(mocks.NewAuthService(t), cm, testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.NotContains(t, string(body.Data), "argon2id")
	var got model.PublicUser
	require.NoError(t, json.Unmarshal(body.Data, &got))
	assert.Equal(t, user.Public(), got)
}
