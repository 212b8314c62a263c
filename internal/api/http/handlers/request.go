package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/spec-kit/blog-service/internal/service"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// IPResolver returns the caller address used for view and like deduplication.
type IPResolver func(*fiber.Ctx) string

// ClientIP returns c.IP() as an owned string. The app decides whether a proxy header is
// honoured (ProxyHeader, TrustedProxies, EnableIPValidation); without Immutable the value
// aliases the pooled request buffer and must be copied before it outlives the request.
func ClientIP(c *fiber.Ctx) string {
	return utils.CopyString(c.IP())
}

func (r IPResolver) resolve(c *fiber.Ctx) string {
	if r == nil {
		return ClientIP(c)
	}
	return r(c)
}

func parseID(c *fiber.Ctx, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+param, map[string]any{param: c.Params(param)})
	}
	return id, nil
}

func parsePage(c *fiber.Ctx) service.Page {
	return service.Page{Number: c.QueryInt("page", 0), Size: c.QueryInt("size", 0)}
}

func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}
