package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"bounty-board-service/models"
	"bounty-board-service/utils"
)

const (
	alice = "0xAAAAaaaaAAAAaaaaAAAAaaaaAAAAaaaaAAAAaaaa"
	bob   = "0xBBBBbbbbBBBBbbbbBBBBbbbbBBBBbbbbBBBBbbbb"
)

func seedClaim(t *testing.T, db *gorm.DB, onChainID uint64, bountyID uint64, mutate func(*models.Claim)) models.Claim {
	t.Helper()

	claim := models.Claim{
		ID:       mustCalcID(t, 8453, onChainID),
		BountyID: bountyID,
		ChainID:  8453,
		Title:    "proof",
		ProofURL: "https://cdn.example.com/claims/meta/proof.json",
		Issuer:   alice,
	}
	if mutate != nil {
		mutate(&claim)
	}
	require.NoError(t, db.Create(&claim).Error)
	return claim
}

func TestListClaimsForBountyPagination(t *testing.T) {
	db := newTestDB(t)
	svc := NewClaimService(db)

	bounty := seedBounty(t, db, bountyFixture{onChainID: 1, inProgress: 1})
	for n := uint64(10); n <= 14; n++ {
		seedClaim(t, db, n, bounty.ID, nil)
	}
	seedClaim(t, db, 15, bounty.ID, func(c *models.Claim) { c.IsBanned = 1 })

	first, err := svc.listClaimsForBounty(context.Background(), bounty.ID, 3, nil)
	require.NoError(t, err)
	require.Len(t, first.Items, 3)
	require.NotNil(t, first.NextCursor)
	assert.Equal(t, utils.FormatID(mustCalcID(t, 8453, 14)), first.Items[0].ID)

	cursor, err := utils.ParseDecimalID(*first.NextCursor)
	require.NoError(t, err)
	second, err := svc.listClaimsForBounty(context.Background(), bounty.ID, 3, &cursor)
	require.NoError(t, err)
	require.Len(t, second.Items, 2)
	assert.Nil(t, second.NextCursor)

	// Banned claim never appears on either page.
	for _, page := range []ClaimPage{first, second} {
		for _, item := range page.Items {
			assert.False(t, item.IsBanned)
			assert.NotEqual(t, utils.FormatID(mustCalcID(t, 8453, 15)), item.ID)
		}
	}
}

func TestClaimByKey(t *testing.T) {
	db := newTestDB(t)
	svc := NewClaimService(db)

	bounty := seedBounty(t, db, bountyFixture{onChainID: 1, inProgress: 1})
	claim := seedClaim(t, db, 2, bounty.ID, func(c *models.Claim) { c.Accepted = 1; c.Owner = bob })

	view, err := svc.claimByKey(context.Background(), claim.ID)
	require.NoError(t, err)
	assert.True(t, view.Accepted)
	assert.Equal(t, bob, view.Owner)
	assert.Equal(t, utils.FormatID(bounty.ID), view.BountyID)

	_, err = svc.claimByKey(context.Background(), mustCalcID(t, 8453, 999))
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestUserClaimListings(t *testing.T) {
	db := newTestDB(t)

	bounty := seedBounty(t, db, bountyFixture{onChainID: 1, inProgress: 1})
	seedClaim(t, db, 2, bounty.ID, nil) // issued by alice
	seedClaim(t, db, 3, bounty.ID, func(c *models.Claim) { c.Issuer = bob })
	seedClaim(t, db, 4, bounty.ID, func(c *models.Claim) { c.Accepted = 1; c.Owner = bob })
	seedClaim(t, db, 5, bounty.ID, func(c *models.Claim) { c.Owner = bob }) // not accepted yet

	svc := NewClaimService(db)

	issued, err := svc.userClaims(context.Background(), strings.ToUpper(alice), 8453)
	require.NoError(t, err)
	require.Len(t, issued, 3, "case-insensitive issuer match")
	assert.Equal(t, utils.FormatID(mustCalcID(t, 8453, 5)), issued[0].ID, "newest first")

	owned, err := svc.userOwnedClaims(context.Background(), strings.ToUpper(bob), 8453)
	require.NoError(t, err)
	require.Len(t, owned, 1, "ownership listing requires acceptance")
	assert.Equal(t, utils.FormatID(mustCalcID(t, 8453, 4)), owned[0].ID)
}
