package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/domain"
)

type fakeAuthService struct {
	signUpToken string
	signUpErr   error
	logInToken  string
	logInErr    error

	gotEmail    string
	gotPassword string
}

func (f *fakeAuthService) SignUp(_ context.Context, email, password string) (string, error) {
	f.gotEmail = email
	f.gotPassword = password
	if f.signUpErr != nil {
		return "", f.signUpErr
	}
	return f.signUpToken, nil
}

func (f *fakeAuthService) LogIn(_ context.Context, email, password string) (string, error) {
	f.gotEmail = email
	f.gotPassword = password
	if f.logInErr != nil {
		return "", f.logInErr
	}
	return f.logInToken, nil
}

func testAuthController(svc domain.AuthService) *AuthController {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuthController(logger, svc)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) helpers.APIResponse {
	t.Helper()
	var resp helpers.APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestAuthController_SignUp(t *testing.T) {
	t.Run("returns 201 with bearer token", func(t *testing.T) {
		svc := &fakeAuthService{signUpToken: "tok-abc"}
		ctrl := testAuthController(svc)

		req := httptest.NewRequest(http.MethodPost, "/auth/signup",
			strings.NewReader(`{"email":"ana@example.com","password":"longenough"}`))
		rec := httptest.NewRecorder()
		ctrl.SignUp(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeResponse(t, rec)
		require.Nil(t, resp.Error)
		data, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "tok-abc", data["token"])
		assert.Equal(t, "Bearer", data["token_type"])
		assert.Equal(t, "ana@example.com", svc.gotEmail)
	})

	t.Run("rejects short password before calling service", func(t *testing.T) {
		svc := &fakeAuthService{signUpToken: "tok-abc"}
		ctrl := testAuthController(svc)

		req := httptest.NewRequest(http.MethodPost, "/auth/signup",
			strings.NewReader(`{"email":"ana@example.com","password":"short"}`))
		rec := httptest.NewRecorder()
		ctrl.SignUp(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, helpers.ErrCodeBadRequest, resp.Error.Code)
		assert.Empty(t, svc.gotEmail)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		ctrl := testAuthController(&fakeAuthService{})

		req := httptest.NewRequest(http.MethodPost, "/auth/signup",
			strings.NewReader(`{"email":"not-an-email","password":"longenough"}`))
		rec := httptest.NewRecorder()
		ctrl.SignUp(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate email maps to 400", func(t *testing.T) {
		ctrl := testAuthController(&fakeAuthService{signUpErr: domain.ErrDuplicateEmail})

		req := httptest.NewRequest(http.MethodPost, "/auth/signup",
			strings.NewReader(`{"email":"ana@example.com","password":"longenough"}`))
		rec := httptest.NewRecorder()
		ctrl.SignUp(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, helpers.ErrCodeBadRequest, resp.Error.Code)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		ctrl := testAuthController(&fakeAuthService{})

		req := httptest.NewRequest(http.MethodPost, "/auth/signup",
			strings.NewReader(`{"email":"ana@example.com","password":"longenough","admin":true}`))
		rec := httptest.NewRecorder()
		ctrl.SignUp(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthController_Login(t *testing.T) {
	t.Run("returns 200 with bearer token", func(t *testing.T) {
		ctrl := testAuthController(&fakeAuthService{logInToken: "tok-xyz"})

		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"email":"ana@example.com","password":"longenough"}`))
		rec := httptest.NewRecorder()
		ctrl.Login(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		require.Nil(t, resp.Error)
		data, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "tok-xyz", data["token"])
		assert.Equal(t, "Bearer", data["token_type"])
	})

	t.Run("invalid credentials map to 401", func(t *testing.T) {
		ctrl := testAuthController(&fakeAuthService{logInErr: domain.ErrInvalidCredentials})

		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"email":"ana@example.com","password":"wrongpass"}`))
		rec := httptest.NewRecorder()
		ctrl.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		resp := decodeResponse(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, helpers.ErrCodeUnauthorized, resp.Error.Code)
	})

	t.Run("missing fields map to 400", func(t *testing.T) {
		ctrl := testAuthController(&fakeAuthService{})

		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		ctrl.Login(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
