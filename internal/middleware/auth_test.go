package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthApp(auth *Authenticator) *fiber.App {
	app := fiber.New()
	app.Use(auth.Optional())
	app.Get("/whoami", func(c *fiber.Ctx) error {
		id, ok := UserID(c)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(id.String())
	})
	app.Get("/private", RequireUser, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestOptionalAuth(t *testing.T) {
	auth := NewAuthenticator("test-secret")
	userID := uuid.New()
	valid, err := auth.GenerateToken(userID, time.Hour)
	require.NoError(t, err)
	expired, err := auth.GenerateToken(userID, -time.Minute)
	require.NoError(t, err)
	foreign, err := NewAuthenticator("other-secret").GenerateToken(userID, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		cookie     string
		wantStatus int
		wantBody   string
	}{
		{name: "anonymous", wantStatus: http.StatusOK, wantBody: "anonymous"},
		{name: "bearer token", header: "Bearer " + valid, wantStatus: http.StatusOK, wantBody: userID.String()},
		{name: "cookie token", cookie: valid, wantStatus: http.StatusOK, wantBody: userID.String()},
		{name: "expired token", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "wrong signature", header: "Bearer " + foreign, wantStatus: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized},
	}

	app := newAuthApp(auth)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, readBody(t, resp))
			}
		})
	}
}

func TestOptionalAuth_RejectsNonUUIDSubject(t *testing.T) {
	secret := []byte("test-secret")
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "42"}).SignedString(secret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := newAuthApp(NewAuthenticator(string(secret))).Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOptionalAuth_NoSecretIsAnonymous(t *testing.T) {
	token, err := NewAuthenticator("whatever").GenerateToken(uuid.New(), time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := newAuthApp(NewAuthenticator("")).Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "anonymous", readBody(t, resp))
}

func TestRequireUser(t *testing.T) {
	auth := NewAuthenticator("test-secret")
	app := newAuthApp(auth)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/private", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := auth.GenerateToken(uuid.New(), time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
