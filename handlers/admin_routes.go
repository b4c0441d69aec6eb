package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bounty-board-service/middleware"
	"bounty-board-service/services"
)

// SetupAdminRoutes wires the ban mutations — gateway token plus per-request
// signature verification inside the service.
func SetupAdminRoutes(app *fiber.App, adminService *services.AdminService) {
	admin := app.Group("/admin", middleware.GatewayAuthMiddleware(), middleware.WalletContextMiddleware())
	admin.Post("/ban/bounty", adminService.BanBounty)
	admin.Post("/ban/claim", adminService.BanClaim)
}
