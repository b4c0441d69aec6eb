// middleware/auth.go
package middleware

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v2"
)

// WalletContextMiddleware extracts the connected wallet address the gateway
// forwards with each request and attaches it to the request context. The
// address is informational here — authorization for admin actions rests on
// the signature check, not this header.
func WalletContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		address := c.Get("X-Wallet-Address")
		if address != "" {
			if !common.IsHexAddress(address) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"code":    "bad_request",
					"message": "X-Wallet-Address is not a hex address",
				})
			}
			c.Locals("wallet_address", strings.ToLower(address))
		}
		return c.Next()
	}
}
