package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager(testSecret)
	token, err := m.Issue(42)
	require.NoError(t, err)

	id, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestTokenManager_RejectsExpiredAndForeign(t *testing.T) {
	m := NewTokenManager(testSecret)
	m.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	expired, err := m.Issue(1)
	require.NoError(t, err)

	fresh := NewTokenManager(testSecret)
	_, err = fresh.Parse(expired)
	assert.Error(t, err)

	other := NewTokenManager("another-secret-another-secret-another")
	token, err := other.Issue(1)
	require.NoError(t, err)
	_, err = fresh.Parse(token)
	assert.Error(t, err)

	noAudience, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = fresh.Parse(noAudience)
	assert.Error(t, err)
}

func TestAuthRequired(t *testing.T) {
	m := NewTokenManager(testSecret)
	valid, err := m.Issue(123)
	require.NoError(t, err)

	app := fiber.New()
	handler := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userID": c.Locals(LocalUserID)})
	}
	app.Get("/header", AuthRequired(m, false), handler)
	app.Get("/ws", AuthRequired(m, true), handler)

	tests := []struct {
		name           string
		target         string
		authHeader     string
		expectedStatus int
		expectedUserID uint
	}{
		{"happy path", "/header", "Bearer " + valid, http.StatusOK, 123},
		{"missing header", "/header", "", http.StatusUnauthorized, 0},
		{"invalid format", "/header", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, 0},
		{"garbage token", "/header", "Bearer not-a-token", http.StatusUnauthorized, 0},
		{"query token ignored on header route", "/header?token=" + valid, "", http.StatusUnauthorized, 0},
		{"query token accepted on ws route", "/ws?token=" + valid, "", http.StatusOK, 123},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, float64(tt.expectedUserID), body["userID"])
			} else {
				assert.Equal(t, false, body["success"])
				assert.Equal(t, "UNAUTHORIZED", body["code"])
			}
		})
	}
}
