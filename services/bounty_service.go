// services/bounty_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"bounty-board-service/models"
	"bounty-board-service/utils"
)

type BountyService struct {
	DB *gorm.DB
}

func NewBountyService(db *gorm.DB) *BountyService {
	return &BountyService{DB: db}
}

// BountyPage is one cursor page of bounties. NextCursor is present iff the
// page came back full — a "maybe more" signal, not a guarantee: an
// exact-multiple final page costs the client one harmless empty follow-up.
type BountyPage struct {
	Items      []models.BountyView `json:"items"`
	NextCursor *string             `json:"nextCursor,omitempty"`
}

const (
	defaultPageSize = 10
	maxPageSize     = 100

	StatusOpen     = "open"
	StatusProgress = "progress"
	StatusPast     = "past"

	SortByID     = "id"
	SortByAmount = "amount"
)

// bountyByKey is the rich point lookup behind GET /bounty: the full row plus
// the hasClaims enrichment. Missing row fails with ErrNotFound.
func (s *BountyService) bountyByKey(ctx context.Context, id uint64) (models.BountyView, error) {
	var bounty models.Bounty
	if err := s.DB.WithContext(ctx).First(&bounty, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.BountyView{}, fmt.Errorf("%w: bounty %d", utils.ErrNotFound, id)
		}
		return models.BountyView{}, fmt.Errorf("%w: bounty lookup: %v", utils.ErrUpstream, err)
	}

	var claimCount int64
	if err := s.DB.WithContext(ctx).Model(&models.Claim{}).Where("bounty_id = ?", id).Limit(1).Count(&claimCount).Error; err != nil {
		return models.BountyView{}, fmt.Errorf("%w: claim count: %v", utils.ErrUpstream, err)
	}

	view := bounty.View()
	view.HasClaims = claimCount > 0
	return view, nil
}

// listBounties applies the status filter and sort, then walks by cursor.
// Filter semantics: open = inProgress; progress = inProgress AND isVoting
// AND deadline >= now; past = NOT inProgress. Banned bounties never appear.
func (s *BountyService) listBounties(ctx context.Context, chainID uint64, status, sortType string, limit int, cursor *uint64) (BountyPage, error) {
	q := s.DB.WithContext(ctx).Model(&models.Bounty{}).
		Where("chain_id = ? AND is_banned = 0", chainID)

	switch status {
	case StatusOpen:
		q = q.Where("in_progress = 1")
	case StatusProgress:
		q = q.Where("in_progress = 1 AND is_voting = 1 AND deadline >= ?", time.Now().Unix())
	case StatusPast:
		q = q.Where("in_progress = 0")
	default:
		return BountyPage{}, fmt.Errorf("unknown status filter %q", status)
	}

	// Cursor is the previous page's last primary key. Under amount ordering
	// the key alone does not locate the page boundary, so the predicate is
	// keyset on (amount, id), with the cursor row's amount looked up here.
	switch sortType {
	case SortByAmount:
		q = q.Order("amount DESC").Order("id DESC")
		if cursor != nil {
			var row models.Bounty
			if err := s.DB.WithContext(ctx).Select("amount").First(&row, "id = ?", *cursor).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return BountyPage{}, fmt.Errorf("unknown cursor %d", *cursor)
				}
				return BountyPage{}, fmt.Errorf("%w: cursor lookup: %v", utils.ErrUpstream, err)
			}
			q = q.Where("amount < ? OR (amount = ? AND id < ?)", row.Amount, row.Amount, *cursor)
		}
	case SortByID, "":
		q = q.Order("id DESC")
		if cursor != nil {
			q = q.Where("id < ?", *cursor)
		}
	default:
		return BountyPage{}, fmt.Errorf("unknown sort type %q", sortType)
	}

	var rows []models.Bounty
	if err := q.Limit(limit).Find(&rows).Error; err != nil {
		return BountyPage{}, fmt.Errorf("%w: bounty listing: %v", utils.ErrUpstream, err)
	}

	page := BountyPage{Items: make([]models.BountyView, len(rows))}
	for i := range rows {
		page.Items[i] = rows[i].View()
	}
	if len(rows) == limit {
		next := utils.FormatID(rows[len(rows)-1].ID)
		page.NextCursor = &next
	}
	return page, nil
}

// GetBounty handles GET /bounty?id=&chainId= — composite lookup input, both
// decimal strings.
func (s *BountyService) GetBounty(c *fiber.Ctx) error {
	id, chainID, ok := parseCompositeQuery(c)
	if !ok {
		return badRequest(c, "id and chainId must be decimal strings with matching chain")
	}
	_ = chainID

	view, err := s.bountyByKey(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// ListBounties handles GET /bounties?chainId=&status=&sortType=&limit=&cursor=.
func (s *BountyService) ListBounties(c *fiber.Ctx) error {
	chainID, err := strconv.ParseUint(c.Query("chainId"), 10, 64)
	if err != nil {
		return badRequest(c, "chainId must be a decimal string")
	}

	status := c.Query("status", StatusOpen)
	sortType := c.Query("sortType", SortByID)
	limit := parseLimit(c)

	var cursor *uint64
	if raw := c.Query("cursor"); raw != "" {
		parsed, err := utils.ParseDecimalID(raw)
		if err != nil {
			return badRequest(c, "cursor must be a decimal string")
		}
		cursor = &parsed
	}

	page, err := s.listBounties(c.Context(), chainID, status, sortType, limit, cursor)
	if err != nil {
		if errors.Is(err, utils.ErrUpstream) {
			return respondError(c, err)
		}
		return badRequest(c, err.Error())
	}
	return c.JSON(page)
}

// ListUserBounties handles GET /bounties/user?address=&chainId= — the
// unpaginated account-page listing.
func (s *BountyService) ListUserBounties(c *fiber.Ctx) error {
	address := c.Query("address")
	if address == "" {
		return badRequest(c, "address is required")
	}
	chainID, err := strconv.ParseUint(c.Query("chainId"), 10, 64)
	if err != nil {
		return badRequest(c, "chainId must be a decimal string")
	}

	var rows []models.Bounty
	err = s.DB.WithContext(c.Context()).
		Where("chain_id = ? AND is_banned = 0 AND LOWER(issuer) = ?", chainID, strings.ToLower(address)).
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return respondError(c, fmt.Errorf("%w: user bounty listing: %v", utils.ErrUpstream, err))
	}

	views := make([]models.BountyView, len(rows))
	for i := range rows {
		views[i] = rows[i].View()
	}
	return c.JSON(views)
}

// ListParticipations handles GET /bounty/participations?id=&chainId= — the
// full unpaginated participant list (bounded by real-world join counts).
func (s *BountyService) ListParticipations(c *fiber.Ctx) error {
	id, _, ok := parseCompositeQuery(c)
	if !ok {
		return badRequest(c, "id and chainId must be decimal strings with matching chain")
	}

	var rows []models.Participation
	if err := s.DB.WithContext(c.Context()).Where("bounty_id = ?", id).Find(&rows).Error; err != nil {
		return respondError(c, fmt.Errorf("%w: participation listing: %v", utils.ErrUpstream, err))
	}

	views := make([]models.ParticipationView, len(rows))
	for i := range rows {
		views[i] = rows[i].View()
	}
	return c.JSON(views)
}

// parseCompositeQuery reads the {id, chainId} composite lookup input and
// checks the id actually belongs to the named chain.
func parseCompositeQuery(c *fiber.Ctx) (id, chainID uint64, ok bool) {
	id, err := utils.ParseDecimalID(c.Query("id"))
	if err != nil {
		return 0, 0, false
	}
	chainID, err = strconv.ParseUint(c.Query("chainId"), 10, 64)
	if err != nil {
		return 0, 0, false
	}
	if embedded, _ := utils.SplitID(id); embedded != chainID {
		return 0, 0, false
	}
	return id, chainID, true
}

func parseLimit(c *fiber.Ctx) int {
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit <= 0 || limit > maxPageSize {
		return defaultPageSize
	}
	return limit
}
