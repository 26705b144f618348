package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirasaad/payauth/pkg/config"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedApp(cfg *config.Jwt) *fiber.App {
	app := fiber.New()
	app.Use(JwtProtected(cfg))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(Subject(c)) })
	return app
}

func TestJwtProtected(t *testing.T) {
	cfg := &config.Jwt{Secret: "s3cret", Expiry: time.Hour}
	valid, err := IssueToken(cfg, "ops")
	require.NoError(t, err)
	foreign, err := IssueToken(&config.Jwt{Secret: "other", Expiry: time.Hour}, "ops")
	require.NoError(t, err)
	expired, err := IssueToken(&config.Jwt{Secret: "s3cret", Expiry: -time.Minute}, "ops")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing", "", fiber.StatusBadRequest},
		{"valid", "Bearer " + valid, fiber.StatusOK},
		{"wrong key", "Bearer " + foreign, fiber.StatusUnauthorized},
		{"expired", "Bearer " + expired, fiber.StatusUnauthorized},
	}
	app := protectedApp(cfg)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close() //nolint:errcheck
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus == fiber.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, "ops", string(body))
			}
		})
	}
}

func TestJwtError_Invalid(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		return jwtError(c, errors.New("any other error"))
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("expected %d, got %d", fiber.StatusUnauthorized, resp.StatusCode)
	}
}

func TestIssueToken_NoSecret(t *testing.T) {
	_, err := IssueToken(&config.Jwt{}, "ops")
	assert.Error(t, err)
}
