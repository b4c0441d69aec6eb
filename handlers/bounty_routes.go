package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bounty-board-service/services"
)

// SetupBountyRoutes wires the public bounty projection reads.
func SetupBountyRoutes(app *fiber.App, bountyService *services.BountyService, voteService *services.VoteService) {
	app.Get("/bounty", bountyService.GetBounty)
	app.Get("/bounty/participations", bountyService.ListParticipations)
	app.Get("/bounty/voting", voteService.GetVotingState)
	app.Get("/bounties", bountyService.ListBounties)
	app.Get("/bounties/user", bountyService.ListUserBounties)
}
