package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bounty-board-service/middleware"
	"bounty-board-service/services"
)

// SetupSyncRoutes wires the reconciliation task surface. Creation and
// cancellation sit behind the gateway token, attached per-route so the
// snapshot and SSE reads stay public: they are keyed by unguessable task
// id because EventSource cannot set an Authorization header.
func SetupSyncRoutes(app *fiber.App, syncService *services.SyncService) {
	app.Get("/sync/:id", syncService.GetTask)
	app.Get("/sync/:id/stream", syncService.StreamTask)

	gateway := middleware.GatewayAuthMiddleware()
	wallet := middleware.WalletContextMiddleware()
	app.Post("/sync/bounty", gateway, wallet, syncService.StartBountySync)
	app.Post("/sync/claim", gateway, wallet, syncService.StartClaimSync)
	app.Post("/sync/claim-accepted", gateway, wallet, syncService.StartClaimAcceptedSync)
	app.Post("/sync/bounty-canceled", gateway, wallet, syncService.StartBountyCanceledSync)
	app.Post("/sync/participation", gateway, wallet, syncService.StartParticipationSync)
	app.Delete("/sync/:id", gateway, wallet, syncService.CancelTask)
}
