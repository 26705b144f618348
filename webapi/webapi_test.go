package webapi_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"testing"

	"github.com/amirasaad/payauth/pkg/config"
	"github.com/amirasaad/payauth/pkg/domain/payment"
	"github.com/amirasaad/payauth/webapi"
	"github.com/amirasaad/payauth/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
)

type PaymentTestSuite struct {
	testutils.E2ETestSuite
}

func TestPaymentTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentTestSuite))
}

func paymentBody(sender, receiver, amount, mode string) string {
	return fmt.Sprintf(`{"sender_id":%q,"receiver_id":%q,"amount":%s,"mode":%q}`, sender, receiver, amount, mode)
}

func (s *PaymentTestSuite) TestHealthIsPublic() {
	resp := s.MakeRequest(fiber.MethodGet, "/health", "", "")
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)
}

func (s *PaymentTestSuite) TestAuth() {
	resp := s.MakeRequest(fiber.MethodPost, "/payments", paymentBody("alice", "bob", "1", "REGULAR"), "")
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)

	resp = s.MakeRequest(fiber.MethodGet, "/accounts/alice", "", "not-a-token")
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusUnauthorized, resp.StatusCode)
}

func (s *PaymentTestSuite) TestDecisions() {
	testCases := []struct {
		desc            string
		body            string
		wantStatus      string
		wantTransferred string
		wantFee         string
		wantReason      string
	}{
		{
			desc:            "same currency",
			body:            paymentBody("alice", "bob", "100", "REGULAR"),
			wantStatus:      string(payment.StatusSuccess),
			wantTransferred: "100",
			wantFee:         "0",
		},
		{
			desc:            "cross currency",
			body:            paymentBody("alice", "dave", "100", "INSTANT"),
			wantStatus:      string(payment.StatusSuccess),
			wantTransferred: "50",
			wantFee:         "0",
		},
		{
			desc:            "whole balance passes compliance",
			body:            paymentBody("alice", "bob", "1000", "regular"),
			wantStatus:      string(payment.StatusSuccess),
			wantTransferred: "1000",
			wantFee:         "0",
		},
		{
			desc:            "percentage fee",
			body:            `{"sender_id":"alice","receiver_id":"bob","amount":"100","fee_strategy":"percentage"}`,
			wantStatus:      string(payment.StatusSuccess),
			wantTransferred: "100",
			wantFee:         "1",
		},
		{
			desc:            "flat fee",
			body:            `{"sender_id":"alice","receiver_id":"bob","amount":100,"fee_strategy":"flat","notes":"rent"}`,
			wantStatus:      string(payment.StatusSuccess),
			wantTransferred: "100",
			wantFee:         "2",
		},
		{
			desc:       "insufficient funds",
			body:       paymentBody("alice", "bob", "1001", "REGULAR"),
			wantStatus: string(payment.StatusFailure),
			wantReason: payment.ReasonInsufficientFunds,
		},
		{
			desc:       "receiver without instant",
			body:       paymentBody("alice", "carol", "10", "INSTANT"),
			wantStatus: string(payment.StatusFailure),
			wantReason: payment.ReasonInstantNotSupported,
		},
		{
			desc:       "blocked sender below threshold",
			body:       paymentBody("mallory", "bob", "200", "REGULAR"),
			wantStatus: string(payment.StatusFailure),
			wantReason: payment.ReasonVerificationFailed,
		},
		{
			desc:            "blocked sender above threshold",
			body:            paymentBody("mallory", "bob", "50", "REGULAR"),
			wantStatus:      string(payment.StatusSuccess),
			wantTransferred: "50",
			wantFee:         "0",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.desc, func() {
			// Each case starts from the seeded balances.
			s.TearDownTest()
			s.SetupTest()

			resp := s.MakeRequest(fiber.MethodPost, "/payments", tc.body, s.Token)
			defer resp.Body.Close() //nolint:errcheck
			s.Require().Equal(fiber.StatusOK, resp.StatusCode)

			data := s.DecodeData(resp)
			s.Equal(tc.wantStatus, data["status"])
			if tc.wantStatus == string(payment.StatusSuccess) {
				s.Equal(tc.wantTransferred, data["transferred_amount"])
				s.Equal(tc.wantFee, data["fee"])
				s.EqualValues(1, data["attempts"])
			} else {
				s.Equal(tc.wantReason, data["reason"])
				s.NotContains(data, "transferred_amount")
			}
		})
	}
}

func (s *PaymentTestSuite) TestRejectedRequests() {
	testCases := []struct {
		desc       string
		body       string
		wantStatus int
	}{
		{"negative amount", paymentBody("alice", "bob", "-5", "REGULAR"), fiber.StatusBadRequest},
		{"missing amount", `{"sender_id":"alice","receiver_id":"bob"}`, fiber.StatusBadRequest},
		{"unknown receiver", paymentBody("alice", "zed", "1", "REGULAR"), fiber.StatusNotFound},
		{"unknown sender", paymentBody("zed", "bob", "1", "REGULAR"), fiber.StatusNotFound},
		{"same account", paymentBody("alice", "alice", "1", "REGULAR"), fiber.StatusBadRequest},
		{"invalid mode", paymentBody("alice", "bob", "1", "FAST"), fiber.StatusBadRequest},
		{"missing sender", `{"receiver_id":"bob","amount":1}`, fiber.StatusBadRequest},
		{"unknown fee strategy", `{"sender_id":"alice","receiver_id":"bob","amount":1,"fee_strategy":"tithe"}`, fiber.StatusBadRequest},
		{"malformed body", `{"sender_id":`, fiber.StatusBadRequest},
	}

	for _, tc := range testCases {
		s.Run(tc.desc, func() {
			resp := s.MakeRequest(fiber.MethodPost, "/payments", tc.body, s.Token)
			defer resp.Body.Close() //nolint:errcheck
			s.Equal(tc.wantStatus, resp.StatusCode)
			s.Equal("application/problem+json", resp.Header.Get(fiber.HeaderContentType))
			pd := s.DecodeProblem(resp)
			s.Equal(tc.wantStatus, pd.Status)
			s.Equal("/payments", pd.Instance)
		})
	}
}

func (s *PaymentTestSuite) TestAccountsReflectSettlement() {
	resp := s.MakeRequest(fiber.MethodPost, "/payments",
		`{"sender_id":"alice","receiver_id":"dave","amount":100,"notes":"invoice 7"}`, s.Token)
	resp.Body.Close() //nolint:errcheck
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)

	resp = s.MakeRequest(fiber.MethodGet, "/accounts/alice", "", s.Token)
	defer resp.Body.Close() //nolint:errcheck
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	alice := s.DecodeData(resp)
	s.Equal("900", alice["balance"])
	s.Equal("USD", alice["currency"])
	s.Equal(true, alice["instant_transfers"])

	resp = s.MakeRequest(fiber.MethodGet, "/accounts/dave", "", s.Token)
	defer resp.Body.Close() //nolint:errcheck
	s.Equal("50", s.DecodeData(resp)["balance"])

	resp = s.MakeRequest(fiber.MethodGet, "/accounts/dave/transactions", "", s.Token)
	defer resp.Body.Close() //nolint:errcheck
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var body struct {
		Data []map[string]any `json:"data"`
	}
	s.Require().NoError(decodeJSON(resp, &body))
	s.Require().Len(body.Data, 1)
	s.Equal("alice", body.Data[0]["sender_id"])
	s.Equal("50", body.Data[0]["credited"])
	s.Equal("0.5", body.Data[0]["rate"])
	s.Equal("invoice 7", body.Data[0]["notes"])
}

func (s *PaymentTestSuite) TestPaymentLogCarriesTokenSubject() {
	var buf bytes.Buffer
	s.Deps.Logger = slog.New(slog.NewJSONHandler(&buf, nil))
	s.App = webapi.SetupApp(s.Deps)

	resp := s.MakeRequest(fiber.MethodPost, "/payments", paymentBody("alice", "bob", "10", "REGULAR"), s.Token)
	defer resp.Body.Close() //nolint:errcheck
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)

	var entry map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var m map[string]any
		if json.Unmarshal(line, &m) == nil && m["msg"] == "Payment processed" {
			entry = m
		}
	}
	s.Require().NotNil(entry, "no payment log in %s", buf.String())
	s.Equal("tester", entry["subject"])
	s.Equal(string(payment.StatusSuccess), entry["status"])
}

func (s *PaymentTestSuite) TestUnknownAccount() {
	for _, path := range []string{"/accounts/zed", "/accounts/zed/transactions"} {
		resp := s.MakeRequest(fiber.MethodGet, path, "", s.Token)
		defer resp.Body.Close() //nolint:errcheck
		s.Equal(fiber.StatusNotFound, resp.StatusCode, path)
	}
}

type RateLimitTestSuite struct {
	testutils.E2ETestSuite
}

func TestRateLimitTestSuite(t *testing.T) {
	s := new(RateLimitTestSuite)
	s.Configure = func(cfg *config.App) {
		cfg.RateLimit.MaxRequests = 2
		cfg.Auth = nil
	}
	suite.Run(t, s)
}

func (s *RateLimitTestSuite) TestRateLimit() {
	for i := range 3 {
		resp := s.MakeRequest(fiber.MethodGet, "/health", "", "")
		resp.Body.Close() //nolint:errcheck
		if i < 2 {
			s.Equal(fiber.StatusOK, resp.StatusCode, "request %d", i+1)
		} else {
			s.Equal(fiber.StatusTooManyRequests, resp.StatusCode, "request %d", i+1)
		}
	}
}

func (s *RateLimitTestSuite) TestUnauthenticatedWithoutSecret() {
	resp := s.MakeRequest(fiber.MethodGet, "/accounts/alice", "", "")
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)
}

func decodeJSON(resp *http.Response, v any) error {
	return json.NewDecoder(resp.Body).Decode(v)
}
