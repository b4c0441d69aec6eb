// models/participation.go
package models

import "time"

// Participation mirrors a user joining a multiplayer bounty, created on
// BountyJoined. Never mutated or deleted.
// Table name: participations
type Participation struct {
	BountyID uint64 `gorm:"primaryKey;autoIncrement:false" json:"bounty_id"`
	Address  string `gorm:"primaryKey;type:varchar(42)" json:"address"`
	ChainID  uint64 `gorm:"not null;index" json:"chain_id"`
	// Contributed amount in smallest units.
	Amount    string    `gorm:"type:numeric(78,0);not null" json:"amount"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type ParticipationView struct {
	BountyID string `json:"bountyId"`
	Address  string `json:"address"`
	ChainID  uint64 `json:"chainId"`
	Amount   string `json:"amount"`
}

func (p *Participation) View() ParticipationView {
	return ParticipationView{
		BountyID: formatID(p.BountyID),
		Address:  p.Address,
		ChainID:  p.ChainID,
		Amount:   p.Amount,
	}
}
