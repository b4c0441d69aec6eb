// services/claim_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"bounty-board-service/models"
	"bounty-board-service/utils"
)

type ClaimService struct {
	DB *gorm.DB
}

func NewClaimService(db *gorm.DB) *ClaimService {
	return &ClaimService{DB: db}
}

type ClaimPage struct {
	Items      []models.ClaimView `json:"items"`
	NextCursor *string            `json:"nextCursor,omitempty"`
}

func (s *ClaimService) claimByKey(ctx context.Context, id uint64) (models.ClaimView, error) {
	var claim models.Claim
	if err := s.DB.WithContext(ctx).First(&claim, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ClaimView{}, fmt.Errorf("%w: claim %d", utils.ErrNotFound, id)
		}
		return models.ClaimView{}, fmt.Errorf("%w: claim lookup: %v", utils.ErrUpstream, err)
	}
	return claim.View(), nil
}

// listClaimsForBounty pages a bounty's claims newest-first, banned claims
// excluded, same cursor contract as the bounty listing.
func (s *ClaimService) listClaimsForBounty(ctx context.Context, bountyID uint64, limit int, cursor *uint64) (ClaimPage, error) {
	q := s.DB.WithContext(ctx).Model(&models.Claim{}).
		Where("bounty_id = ? AND is_banned = 0", bountyID).
		Order("id DESC")

	if cursor != nil {
		q = q.Where("id < ?", *cursor)
	}

	var rows []models.Claim
	if err := q.Limit(limit).Find(&rows).Error; err != nil {
		return ClaimPage{}, fmt.Errorf("%w: claim listing: %v", utils.ErrUpstream, err)
	}

	page := ClaimPage{Items: make([]models.ClaimView, len(rows))}
	for i := range rows {
		page.Items[i] = rows[i].View()
	}
	if len(rows) == limit {
		next := utils.FormatID(rows[len(rows)-1].ID)
		page.NextCursor = &next
	}
	return page, nil
}

// GetClaim handles GET /claim?id=&chainId=.
func (s *ClaimService) GetClaim(c *fiber.Ctx) error {
	id, _, ok := parseCompositeQuery(c)
	if !ok {
		return badRequest(c, "id and chainId must be decimal strings with matching chain")
	}

	view, err := s.claimByKey(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// ListClaimsForBounty handles GET /claims?bountyId=&chainId=&limit=&cursor=.
func (s *ClaimService) ListClaimsForBounty(c *fiber.Ctx) error {
	bountyID, err := utils.ParseDecimalID(c.Query("bountyId"))
	if err != nil {
		return badRequest(c, "bountyId must be a decimal string")
	}

	limit := parseLimit(c)

	var cursor *uint64
	if raw := c.Query("cursor"); raw != "" {
		parsed, err := utils.ParseDecimalID(raw)
		if err != nil {
			return badRequest(c, "cursor must be a decimal string")
		}
		cursor = &parsed
	}

	page, err := s.listClaimsForBounty(c.Context(), bountyID, limit, cursor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// ListUserClaims handles GET /claims/user?address=&chainId= — claims the
// address submitted.
func (s *ClaimService) ListUserClaims(c *fiber.Ctx) error {
	return s.listByAddressColumn(c, false)
}

// ListUserOwnedClaims handles GET /claims/owned?address=&chainId= — accepted
// claims whose NFT the address now owns.
func (s *ClaimService) ListUserOwnedClaims(c *fiber.Ctx) error {
	return s.listByAddressColumn(c, true)
}

func (s *ClaimService) listByAddressColumn(c *fiber.Ctx, owned bool) error {
	address := c.Query("address")
	if address == "" {
		return badRequest(c, "address is required")
	}
	chainID, err := strconv.ParseUint(c.Query("chainId"), 10, 64)
	if err != nil {
		return badRequest(c, "chainId must be a decimal string")
	}

	var views []models.ClaimView
	if owned {
		views, err = s.userOwnedClaims(c.Context(), address, chainID)
	} else {
		views, err = s.userClaims(c.Context(), address, chainID)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(views)
}

// userClaims lists claims the address submitted, newest first.
func (s *ClaimService) userClaims(ctx context.Context, address string, chainID uint64) ([]models.ClaimView, error) {
	q := s.DB.WithContext(ctx).
		Where("chain_id = ? AND is_banned = 0 AND LOWER(issuer) = ?", chainID, strings.ToLower(address)).
		Order("id DESC")
	return collectClaims(q)
}

// userOwnedClaims lists accepted claims whose collectible the address owns.
func (s *ClaimService) userOwnedClaims(ctx context.Context, address string, chainID uint64) ([]models.ClaimView, error) {
	q := s.DB.WithContext(ctx).
		Where("chain_id = ? AND is_banned = 0 AND accepted = 1 AND LOWER(owner) = ?", chainID, strings.ToLower(address)).
		Order("id DESC")
	return collectClaims(q)
}

func collectClaims(q *gorm.DB) ([]models.ClaimView, error) {
	var rows []models.Claim
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: user claim listing: %v", utils.ErrUpstream, err)
	}
	views := make([]models.ClaimView, len(rows))
	for i := range rows {
		views[i] = rows[i].View()
	}
	return views, nil
}
