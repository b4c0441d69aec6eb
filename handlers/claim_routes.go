package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bounty-board-service/middleware"
	"bounty-board-service/services"
)

// SetupClaimRoutes wires claim reads (public) and proof metadata upload
// (gateway-authenticated).
func SetupClaimRoutes(app *fiber.App, claimService *services.ClaimService, metadataService *services.MetadataService) {
	app.Get("/claim", claimService.GetClaim)
	app.Get("/claim/image", metadataService.GetClaimImage)
	app.Get("/claims", claimService.ListClaimsForBounty)
	app.Get("/claims/user", claimService.ListUserClaims)
	app.Get("/claims/owned", claimService.ListUserOwnedClaims)

	app.Post("/claims/metadata",
		middleware.GatewayAuthMiddleware(), middleware.WalletContextMiddleware(),
		metadataService.UploadProofMetadata)
}
