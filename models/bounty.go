// models/bounty.go
package models

import "time"

// Bounty mirrors one on-chain bounty, materialized by the external indexer
// when a BountyCreated event is observed. Rows are never deleted; the only
// column this service writes is is_banned. Flags are stored as 0/1 integers
// (the projection store's native representation) and coerced to booleans in
// exactly one place: View().
// Table name: bounties
type Bounty struct {
	// Composite key: chainId*100_000 + onChainId (see utils.CalcID).
	ID          uint64 `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ChainID     uint64 `gorm:"not null;index" json:"chain_id"`
	Title       string `gorm:"type:text;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	// Smallest-unit amount; numeric column so ORDER BY amount is numeric, not lexical.
	Amount        string `gorm:"type:numeric(78,0);not null" json:"amount"`
	Issuer        string `gorm:"type:varchar(42);not null;index" json:"issuer"`
	InProgress    int    `gorm:"not null;default:1" json:"in_progress"`
	IsMultiplayer int    `gorm:"not null;default:0" json:"is_multiplayer"`
	IsCanceled    int    `gorm:"not null;default:0" json:"is_canceled"`
	IsVoting      int    `gorm:"not null;default:0" json:"is_voting"`
	IsBanned      int    `gorm:"not null;default:0;index" json:"is_banned"`
	Deadline      *int64 `json:"deadline,omitempty"` // epoch seconds
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`

	Claims         []Claim         `gorm:"foreignKey:BountyID" json:"claims,omitempty"`
	Participations []Participation `gorm:"foreignKey:BountyID" json:"participations,omitempty"`
}

// BountyView is the wire shape: composite id as a decimal string, flags as
// real booleans. Everything past this boundary only ever sees booleans.
type BountyView struct {
	ID            string `json:"id"`
	ChainID       uint64 `json:"chainId"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	Issuer        string `json:"issuer"`
	InProgress    bool   `json:"inProgress"`
	IsMultiplayer bool   `json:"isMultiplayer"`
	IsCanceled    bool   `json:"isCanceled"`
	IsVoting      bool   `json:"isVoting"`
	IsBanned      bool   `json:"isBanned"`
	Deadline      *int64 `json:"deadline,omitempty"`
	HasClaims     bool   `json:"hasClaims"`
}

func (b *Bounty) View() BountyView {
	return BountyView{
		ID:            formatID(b.ID),
		ChainID:       b.ChainID,
		Title:         b.Title,
		Description:   b.Description,
		Amount:        b.Amount,
		Issuer:        b.Issuer,
		InProgress:    b.InProgress != 0,
		IsMultiplayer: b.IsMultiplayer != 0,
		IsCanceled:    b.IsCanceled != 0,
		IsVoting:      b.IsVoting != 0,
		IsBanned:      b.IsBanned != 0,
		Deadline:      b.Deadline,
	}
}
