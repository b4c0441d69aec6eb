// services/probe_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"bounty-board-service/models"
	"bounty-board-service/utils"
)

// ProbeStore holds the narrow point-existence queries the reconciliation
// worker polls with. They are deliberately separate from the rich getters:
// a probe firing every second for up to a minute must stay a cheap indexed
// lookup, never a relational join. Absence is the expected steady state
// while the indexer catches up, so it comes back as a value, not an error.
type ProbeStore struct {
	DB *gorm.DB
}

func NewProbeStore(db *gorm.DB) *ProbeStore {
	return &ProbeStore{DB: db}
}

// BountyExists reports whether the indexer has materialized the bounty row
// for (chainID, onChainID).
func (p *ProbeStore) BountyExists(ctx context.Context, chainID, onChainID uint64) (bool, error) {
	return p.exists(ctx, &models.Bounty{}, "id = ?", chainID, onChainID)
}

// BountyIsCanceled reports whether the cancel event has been indexed.
func (p *ProbeStore) BountyIsCanceled(ctx context.Context, chainID, onChainID uint64) (bool, error) {
	return p.exists(ctx, &models.Bounty{}, "id = ? AND is_canceled = 1", chainID, onChainID)
}

// ClaimExists reports whether the claim row has been materialized.
func (p *ProbeStore) ClaimExists(ctx context.Context, chainID, onChainID uint64) (bool, error) {
	return p.exists(ctx, &models.Claim{}, "id = ?", chainID, onChainID)
}

// ClaimIsAccepted reports whether the acceptance event has been indexed.
func (p *ProbeStore) ClaimIsAccepted(ctx context.Context, chainID, onChainID uint64) (bool, error) {
	return p.exists(ctx, &models.Claim{}, "id = ? AND accepted = 1", chainID, onChainID)
}

func (p *ProbeStore) exists(ctx context.Context, model any, cond string, chainID, onChainID uint64) (bool, error) {
	id, err := utils.CalcID(chainID, onChainID)
	if err != nil {
		return false, err
	}

	var n int64
	if err := p.DB.WithContext(ctx).Model(model).Where(cond, id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("%w: projection probe: %v", utils.ErrUpstream, err)
	}
	return n > 0, nil
}

// ParticipationExists reports whether the join of address into the bounty
// has been indexed.
func (p *ProbeStore) ParticipationExists(ctx context.Context, chainID, onChainID uint64, address string) (bool, error) {
	bountyID, err := utils.CalcID(chainID, onChainID)
	if err != nil {
		return false, err
	}

	var n int64
	err = p.DB.WithContext(ctx).Model(&models.Participation{}).
		Where("bounty_id = ? AND LOWER(address) = ?", bountyID, strings.ToLower(address)).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("%w: projection probe: %v", utils.ErrUpstream, err)
	}
	return n > 0, nil
}
