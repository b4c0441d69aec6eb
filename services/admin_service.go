// services/admin_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"bounty-board-service/chains"
	"bounty-board-service/models"
	"bounty-board-service/utils"
)

// AdminService applies the only mutation this service owns: flipping
// is_banned on exactly one bounty or claim row. The gate is defense in
// depth — the UI hides the action from non-admins, and the service still
// checks the allow-list, the canonical message and the signature itself.
type AdminService struct {
	DB     *gorm.DB
	Chains *chains.Table
	admins map[string]bool
}

// NewAdminService builds the service with an explicit allow-list
// (lowercased hex addresses).
func NewAdminService(db *gorm.DB, table *chains.Table, adminAddrs []string) *AdminService {
	admins := make(map[string]bool, len(adminAddrs))
	for _, a := range adminAddrs {
		a = strings.ToLower(strings.TrimSpace(a))
		if a != "" {
			admins[a] = true
		}
	}
	return &AdminService{DB: db, Chains: table, admins: admins}
}

// AdminAddressesFromEnv reads ADMIN_ADDRESSES (comma-separated).
func AdminAddressesFromEnv() []string {
	raw := os.Getenv("ADMIN_ADDRESSES")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

// BanRequest is the ban mutation input.
type BanRequest struct {
	ID        string `json:"id"`      // composite id, decimal string
	ChainID   uint64 `json:"chainId"` // numeric
	Address   string `json:"address"` // EIP-55 hex, the acting admin
	Signature string `json:"signature"`
	ChainName string `json:"chainName"` // slug from the closed chain set
	Message   string `json:"message"`
}

// BanBounty handles POST /admin/ban/bounty.
func (s *AdminService) BanBounty(c *fiber.Ctx) error {
	return s.handleBan(c, "bounty")
}

// BanClaim handles POST /admin/ban/claim.
func (s *AdminService) BanClaim(c *fiber.Ctx) error {
	return s.handleBan(c, "claim")
}

func (s *AdminService) handleBan(c *fiber.Ctx, kind string) error {
	var req BanRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed ban request body")
	}

	if err := s.Ban(c.Context(), kind, req); err != nil {
		log.Printf("🚫 [ADMIN] ban %s rejected (id=%s chainId=%d by=%s): %v", kind, req.ID, req.ChainID, req.Address, err)
		return respondError(c, err)
	}

	log.Printf("✅ [ADMIN] banned %s id=%s chainId=%d by=%s", kind, req.ID, req.ChainID, req.Address)
	return c.SendStatus(fiber.StatusNoContent)
}

// Ban verifies allow-list membership, canonical message and signature, then
// flips is_banned on the one matching row. No check passing partially ever
// mutates anything.
func (s *AdminService) Ban(ctx context.Context, kind string, req BanRequest) error {
	if !s.admins[strings.ToLower(req.Address)] {
		return fmt.Errorf("%w: address not on admin allow-list", utils.ErrUnauthorized)
	}

	chain, err := s.Chains.BySlug(req.ChainName)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrInvalidSignature, err)
	}
	if chain.ID != req.ChainID {
		return fmt.Errorf("%w: chainName %s does not match chainId %d", utils.ErrInvalidSignature, req.ChainName, req.ChainID)
	}

	id, err := utils.ParseDecimalID(req.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrInvalidSignature, err)
	}

	if err := utils.VerifyBanSignature(kind, id, req.ChainID, req.Address, req.Message, req.Signature); err != nil {
		return err
	}

	var model any
	switch kind {
	case "bounty":
		model = &models.Bounty{}
	case "claim":
		model = &models.Claim{}
	default:
		return fmt.Errorf("%w: unknown ban target kind %q", utils.ErrInvalidSignature, kind)
	}

	res := s.DB.WithContext(ctx).Model(model).
		Where("id = ? AND chain_id = ?", id, req.ChainID).
		Update("is_banned", 1)
	if res.Error != nil {
		return fmt.Errorf("%w: ban update: %v", utils.ErrUpstream, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s %d on chain %d", utils.ErrNotFound, kind, id, req.ChainID)
	}
	return nil
}
