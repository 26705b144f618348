// Package webapi exposes the payment authorizer over HTTP.
// It is organized into sub-packages per resource:
// - payment: POST /payments
// - account: account snapshots and settled transaction history
package webapi

import (
	"errors"
	"strings"

	"github.com/amirasaad/payauth/pkg/app"
	"github.com/amirasaad/payauth/pkg/middleware"
	accountweb "github.com/amirasaad/payauth/webapi/account"
	"github.com/amirasaad/payauth/webapi/common"
	paymentweb "github.com/amirasaad/payauth/webapi/payment"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(deps *app.Deps) *fiber.App {
	cfg := deps.Config

	fiberApp := fiber.New(fiber.Config{
		AppName: "payauth",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
			return common.ProblemDetailsJSON(c, "Internal Server Error", err, status)
		},
	})

	if cfg.RateLimit != nil && cfg.RateLimit.MaxRequests > 0 {
		fiberApp.Use(limiter.New(limiter.Config{
			Max:          cfg.RateLimit.MaxRequests,
			Expiration:   cfg.RateLimit.Window,
			KeyGenerator: clientIP,
			LimitReached: func(c *fiber.Ctx) error {
				return common.ProblemDetailsJSON(
					c,
					"Too Many Requests",
					errors.New("rate limit exceeded"),
					fiber.StatusTooManyRequests,
				)
			},
		}))
	}
	fiberApp.Use(recover.New())
	if cfg.Env != "test" {
		fiberApp.Use(logger.New())
	}

	// Health check endpoint
	fiberApp.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := fiberApp.Group("/")
	if cfg.Auth != nil && cfg.Auth.Jwt != nil && cfg.Auth.Jwt.Secret != "" {
		api = fiberApp.Group("/", middleware.JwtProtected(cfg.Auth.Jwt))
	} else {
		deps.Logger.Warn("AUTH_JWT_SECRET not set; API routes are unauthenticated")
	}

	paymentweb.Routes(api, deps)
	accountweb.Routes(api, deps)
	return fiberApp
}

// clientIP keys the limiter on the first X-Forwarded-For hop, then X-Real-IP,
// then the socket address.
func clientIP(c *fiber.Ctx) string {
	if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
		if first, _, found := strings.Cut(forwardedFor, ","); found {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(forwardedFor)
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.IP()
}
