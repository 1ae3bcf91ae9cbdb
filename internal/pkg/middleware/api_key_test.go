package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extractedKeyFor(t *testing.T, mutate func(*http.Request)) string {
	t.Helper()
	app := fiber.New()
	var got string
	app.Get("/", func(c *fiber.Ctx) error {
		got = extractAPIKeyFromHeader(c)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	mutate(req)
	_, err := app.Test(req, -1)
	require.NoError(t, err)
	return got
}

func TestExtractAPIKeyFromHeader(t *testing.T) {
	assert.Equal(t, "cb_key_1", extractedKeyFor(t, func(r *http.Request) {
		r.Header.Set("X-API-Key", "cb_key_1")
	}))
	assert.Equal(t, "cb_key_2", extractedKeyFor(t, func(r *http.Request) {
		r.Header.Set("X-API-Key", "  cb_key_2  ")
	}))
	assert.Equal(t, "cb_key_3", extractedKeyFor(t, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer cb_key_3")
	}))
	assert.Equal(t, "cb_key_4", extractedKeyFor(t, func(r *http.Request) {
		r.Header.Set("Authorization", "bearer cb_key_4")
	}))
	// X-API-Key wins over Authorization when both are present.
	assert.Equal(t, "cb_key_5", extractedKeyFor(t, func(r *http.Request) {
		r.Header.Set("X-API-Key", "cb_key_5")
		r.Header.Set("Authorization", "Bearer other")
	}))
	assert.Empty(t, extractedKeyFor(t, func(r *http.Request) {}))
	assert.Empty(t, extractedKeyFor(t, func(r *http.Request) {
		r.Header.Set("Authorization", "Basic dXNlcjpwdw==")
	}))
}

func TestAPIOrSessionAuthRejectsAnonymous(t *testing.T) {
	app := fiber.New()
	app.Get("/protected", APIOrSessionAuth(nil), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
