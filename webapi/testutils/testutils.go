// Package testutils builds an in-memory payauth API for HTTP tests.
package testutils

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/amirasaad/payauth/infra/initializer"
	"github.com/amirasaad/payauth/pkg/app"
	"github.com/amirasaad/payauth/pkg/config"
	"github.com/amirasaad/payauth/pkg/middleware"
	"github.com/amirasaad/payauth/webapi"
	"github.com/amirasaad/payauth/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
)

// Seed accounts available in every test.
var DefaultSeed = []string{
	"alice:USD:1000:true",
	"bob:USD:0:true",
	"carol:USD:0",
	"dave:EUR:0:true",
	"mallory:USD:600",
}

// TestConfig returns an in-memory configuration with JWT auth enabled.
func TestConfig() *config.App {
	return &config.App{
		Env:    "test",
		Server: &config.Server{Host: "localhost", Port: 0},
		Log:    &config.Log{Level: 8, Format: "text"},
		DB:     &config.DB{Seed: DefaultSeed},
		Auth:   &config.Auth{Jwt: &config.Jwt{Secret: "test-secret", Expiry: time.Hour}},
		EventBus: &config.EventBus{
			Driver: initializer.DriverMemory,
		},
		RateLimit: &config.RateLimit{MaxRequests: 1000, Window: time.Minute},
		ExchangeRate: &config.ExchangeRate{
			Fixed:    map[string]string{"USD_EUR": "0.5"},
			CacheTTL: time.Minute,
		},
		Fee:        &config.Fee{Default: "none", FlatAmount: 2, Percentage: 0.01},
		Compliance: &config.Compliance{Threshold: 500, Approve: true, BlockedAccounts: []string{"mallory"}},
		Retry:      &config.Retry{MaxRetries: 3},
	}
}

// E2ETestSuite serves a fresh in-memory API per test.
type E2ETestSuite struct {
	suite.Suite
	Cfg   *config.App
	Deps  *app.Deps
	App   *fiber.App
	Token string
	// Configure, when set, adjusts the config before the app is built.
	Configure func(*config.App)
}

func (s *E2ETestSuite) SetupTest() {
	s.Cfg = TestConfig()
	if s.Configure != nil {
		s.Configure(s.Cfg)
	}
	deps, err := initializer.InitializeDependencies(s.Cfg)
	s.Require().NoError(err)
	s.Deps = deps
	s.App = webapi.SetupApp(deps)
	if s.Cfg.Auth != nil && s.Cfg.Auth.Jwt != nil && s.Cfg.Auth.Jwt.Secret != "" {
		s.Token, err = middleware.IssueToken(s.Cfg.Auth.Jwt, "tester")
		s.Require().NoError(err)
	}
}

func (s *E2ETestSuite) TearDownTest() {
	if s.Deps != nil {
		s.Require().NoError(s.Deps.Close())
	}
}

// MakeRequest is a helper for making HTTP requests in tests
func (s *E2ETestSuite) MakeRequest(method, path, body, token string) *http.Response {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.App.Test(req, -1)
	s.Require().NoError(err)
	return resp
}

// DecodeData decodes a success response and returns its data field.
func (s *E2ETestSuite) DecodeData(resp *http.Response) map[string]any {
	var body common.Response
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	data, ok := body.Data.(map[string]any)
	s.Require().True(ok, "unexpected data type %T", body.Data)
	return data
}

// DecodeProblem decodes an RFC 9457 problem response.
func (s *E2ETestSuite) DecodeProblem(resp *http.Response) common.ProblemDetails {
	var pd common.ProblemDetails
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&pd))
	return pd
}
