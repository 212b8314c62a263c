package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/config"
)

// NewServerConfig builds the fiber settings. X-Forwarded-For is read only when proxy headers
// are trusted, and then only from the listed proxies; malformed entries fall back to the
// socket peer.
func NewServerConfig(app config.AppConfig) fiber.Config {
	cfg := fiber.Config{
		AppName:            app.Name,
		EnableIPValidation: true,
	}
	if app.TrustProxyHeaders {
		cfg.ProxyHeader = fiber.HeaderXForwardedFor
		cfg.EnableTrustedProxyCheck = true
		cfg.TrustedProxies = app.TrustedProxies
	}
	return cfg
}
