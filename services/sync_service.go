// services/sync_service.go
package services

import (
	"context"
	"log"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v2"

	"bounty-board-service/chains"
	"bounty-board-service/utils"
	"bounty-board-service/workers"
)

// SyncService is the HTTP surface over the reconciliation worker. After the
// wallet reports a transaction hash, the client creates one task per
// mutation and watches it until the indexer has materialized the row (or
// the attempt budget runs out). An IndexingTimeout is surfaced as-is, never
// retried automatically: a slow indexer and a silently reverted transaction
// look identical from here.
type SyncService struct {
	Probes   *ProbeStore
	Registry *workers.Registry
	Chains   *chains.Table

	// Task goroutines outlive individual requests, so they hang off the
	// process context, not the request context.
	BaseCtx context.Context
}

func NewSyncService(baseCtx context.Context, probes *ProbeStore, registry *workers.Registry, table *chains.Table) *SyncService {
	return &SyncService{Probes: probes, Registry: registry, Chains: table, BaseCtx: baseCtx}
}

type syncRequest struct {
	ChainID string `json:"chainId"` // decimal string
	ID      string `json:"id"`      // on-chain id, decimal string
	Address string `json:"address"` // participation sync only
}

// StartBountySync handles POST /sync/bounty — waits for BountyCreated to be
// indexed.
func (s *SyncService) StartBountySync(c *fiber.Ctx) error {
	return s.start(c, "bounty", func(chainID, onChainID uint64, _ string) workers.Probe {
		return func(ctx context.Context) (bool, error) {
			return s.Probes.BountyExists(ctx, chainID, onChainID)
		}
	})
}

// StartClaimSync handles POST /sync/claim.
func (s *SyncService) StartClaimSync(c *fiber.Ctx) error {
	return s.start(c, "claim", func(chainID, onChainID uint64, _ string) workers.Probe {
		return func(ctx context.Context) (bool, error) {
			return s.Probes.ClaimExists(ctx, chainID, onChainID)
		}
	})
}

// StartClaimAcceptedSync handles POST /sync/claim-accepted.
func (s *SyncService) StartClaimAcceptedSync(c *fiber.Ctx) error {
	return s.start(c, "claim-accepted", func(chainID, onChainID uint64, _ string) workers.Probe {
		return func(ctx context.Context) (bool, error) {
			return s.Probes.ClaimIsAccepted(ctx, chainID, onChainID)
		}
	})
}

// StartBountyCanceledSync handles POST /sync/bounty-canceled.
func (s *SyncService) StartBountyCanceledSync(c *fiber.Ctx) error {
	return s.start(c, "bounty-canceled", func(chainID, onChainID uint64, _ string) workers.Probe {
		return func(ctx context.Context) (bool, error) {
			return s.Probes.BountyIsCanceled(ctx, chainID, onChainID)
		}
	})
}

// StartParticipationSync handles POST /sync/participation — waits for the
// address's BountyJoined row.
func (s *SyncService) StartParticipationSync(c *fiber.Ctx) error {
	return s.start(c, "participation", func(chainID, onChainID uint64, address string) workers.Probe {
		return func(ctx context.Context) (bool, error) {
			return s.Probes.ParticipationExists(ctx, chainID, onChainID, address)
		}
	})
}

func (s *SyncService) start(c *fiber.Ctx, kind string, makeProbe func(chainID, onChainID uint64, address string) workers.Probe) error {
	var req syncRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed sync request body")
	}

	chainID, err := strconv.ParseUint(req.ChainID, 10, 64)
	if err != nil {
		return badRequest(c, "chainId must be a decimal string")
	}
	if _, err := s.Chains.ByID(chainID); err != nil {
		return badRequest(c, err.Error())
	}

	onChainID, err := utils.ParseDecimalID(req.ID)
	if err != nil {
		return badRequest(c, "id must be a decimal string")
	}

	// Target composite key also validates the on-chain id range up front.
	targetID, err := utils.CalcID(chainID, onChainID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if kind == "participation" && !common.IsHexAddress(req.Address) {
		return badRequest(c, "address must be a hex address")
	}

	task := s.Registry.Start(s.BaseCtx, kind, chainID, targetID, makeProbe(chainID, onChainID, req.Address))
	log.Printf("🔁 [RECONCILE] task %s started (%s chainId=%d targetId=%d)", task.ID, kind, chainID, targetID)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"taskId": task.ID})
}

// GetTask handles GET /sync/:id — one snapshot of the task state machine.
func (s *SyncService) GetTask(c *fiber.Ctx) error {
	task, ok := s.Registry.Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"code":    "not_found",
			"message": "unknown task",
		})
	}
	return c.JSON(task.Snapshot())
}

// CancelTask handles DELETE /sync/:id. Cancellation is cooperative: the
// worker notices at the top of its next iteration and stops probing.
func (s *SyncService) CancelTask(c *fiber.Ctx) error {
	if !s.Registry.Cancel(c.Params("id")) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"code":    "not_found",
			"message": "unknown task",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
