// models/claim.go
package models

import (
	"strconv"
	"time"
)

// Claim mirrors one on-chain claim (proof-of-completion submitted against a
// bounty). Created on ClaimCreated, accepted flag flipped on ClaimAccepted,
// immutable otherwise except for the ban flag.
// Table name: claims
type Claim struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement:false" json:"id"`
	BountyID    uint64 `gorm:"not null;index" json:"bounty_id"`
	ChainID     uint64 `gorm:"not null;index" json:"chain_id"`
	Title       string `gorm:"type:text;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	// Off-chain metadata JSON holding the proof image reference.
	ProofURL  string    `gorm:"column:url;type:text" json:"url"`
	Issuer    string    `gorm:"type:varchar(42);not null;index" json:"issuer"`
	Owner     string    `gorm:"type:varchar(42);index" json:"owner"` // NFT owner post-acceptance
	Accepted  int       `gorm:"not null;default:0" json:"accepted"`
	IsBanned  int       `gorm:"not null;default:0;index" json:"is_banned"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type ClaimView struct {
	ID          string    `json:"id"`
	BountyID    string    `json:"bountyId"`
	ChainID     uint64    `json:"chainId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ProofURL    string    `json:"url"`
	Issuer      string    `json:"issuer"`
	Owner       string    `json:"owner,omitempty"`
	Accepted    bool      `json:"accepted"`
	IsBanned    bool      `json:"isBanned"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (c *Claim) View() ClaimView {
	return ClaimView{
		ID:          formatID(c.ID),
		BountyID:    formatID(c.BountyID),
		ChainID:     c.ChainID,
		Title:       c.Title,
		Description: c.Description,
		ProofURL:    c.ProofURL,
		Issuer:      c.Issuer,
		Owner:       c.Owner,
		Accepted:    c.Accepted != 0,
		IsBanned:    c.IsBanned != 0,
		CreatedAt:   c.CreatedAt,
	}
}

func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
