package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bounty-board-service/models"
	"bounty-board-service/utils"
)

func TestListBountiesCursorWalk(t *testing.T) {
	db := newTestDB(t)
	svc := NewBountyService(db)

	for n := uint64(1); n <= 10; n++ {
		seedBounty(t, db, bountyFixture{onChainID: n, inProgress: 1})
	}

	first, err := svc.listBounties(context.Background(), 8453, StatusOpen, SortByID, 6, nil)
	require.NoError(t, err)
	require.Len(t, first.Items, 6)
	require.NotNil(t, first.NextCursor)

	// Newest first: on-chain ids 10..5, cursor is the 6th item's key.
	assert.Equal(t, utils.FormatID(mustCalcID(t, 8453, 10)), first.Items[0].ID)
	assert.Equal(t, utils.FormatID(mustCalcID(t, 8453, 5)), first.Items[5].ID)
	assert.Equal(t, utils.FormatID(mustCalcID(t, 8453, 5)), *first.NextCursor)

	cursor, err := utils.ParseDecimalID(*first.NextCursor)
	require.NoError(t, err)
	second, err := svc.listBounties(context.Background(), 8453, StatusOpen, SortByID, 6, &cursor)
	require.NoError(t, err)
	require.Len(t, second.Items, 4)
	assert.Nil(t, second.NextCursor, "an unfull page signals end of data")
	assert.Equal(t, utils.FormatID(mustCalcID(t, 8453, 4)), second.Items[0].ID)
	assert.Equal(t, utils.FormatID(mustCalcID(t, 8453, 1)), second.Items[3].ID)
}

func TestListBountiesStatusFilterExclusivity(t *testing.T) {
	db := newTestDB(t)
	svc := NewBountyService(db)

	open := seedBounty(t, db, bountyFixture{onChainID: 1, inProgress: 1})
	voting := seedBounty(t, db, bountyFixture{onChainID: 2, inProgress: 1, isVoting: 1, deadlineDelta: time.Hour})
	expiredVote := seedBounty(t, db, bountyFixture{onChainID: 3, inProgress: 1, isVoting: 1, deadlineDelta: -time.Hour})
	past := seedBounty(t, db, bountyFixture{onChainID: 4, inProgress: 0})
	banned := seedBounty(t, db, bountyFixture{onChainID: 5, inProgress: 1, isBanned: 1})

	ids := func(page BountyPage) []string {
		out := make([]string, len(page.Items))
		for i, item := range page.Items {
			out[i] = item.ID
		}
		return out
	}

	openPage, err := svc.listBounties(context.Background(), 8453, StatusOpen, SortByID, 50, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		utils.FormatID(open.ID),
		utils.FormatID(voting.ID),
		utils.FormatID(expiredVote.ID),
	}, ids(openPage))

	progressPage, err := svc.listBounties(context.Background(), 8453, StatusProgress, SortByID, 50, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{utils.FormatID(voting.ID)}, ids(progressPage))

	pastPage, err := svc.listBounties(context.Background(), 8453, StatusPast, SortByID, 50, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{utils.FormatID(past.ID)}, ids(pastPage))

	// A bounty that is not in progress never shows up in open or progress,
	// and a banned bounty shows up nowhere regardless of filter.
	for _, status := range []string{StatusOpen, StatusProgress, StatusPast} {
		page, err := svc.listBounties(context.Background(), 8453, status, SortByID, 50, nil)
		require.NoError(t, err)
		for _, item := range page.Items {
			assert.NotEqual(t, utils.FormatID(banned.ID), item.ID, "status=%s", status)
			if status != StatusPast {
				assert.NotEqual(t, utils.FormatID(past.ID), item.ID, "status=%s", status)
			}
		}
	}

	_, err = svc.listBounties(context.Background(), 8453, "everything", SortByID, 50, nil)
	assert.Error(t, err)
}

func TestListBountiesAmountSort(t *testing.T) {
	db := newTestDB(t)
	svc := NewBountyService(db)

	seedBounty(t, db, bountyFixture{onChainID: 1, inProgress: 1, amount: "50"})
	seedBounty(t, db, bountyFixture{onChainID: 2, inProgress: 1, amount: "5000"})
	seedBounty(t, db, bountyFixture{onChainID: 3, inProgress: 1, amount: "500"})

	page, err := svc.listBounties(context.Background(), 8453, StatusOpen, SortByAmount, 10, nil)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "5000", page.Items[0].Amount)
	assert.Equal(t, "500", page.Items[1].Amount)
	assert.Equal(t, "50", page.Items[2].Amount)
}

func TestListBountiesAmountSortCursorWalk(t *testing.T) {
	db := newTestDB(t)
	svc := NewBountyService(db)

	// Amounts deliberately collide so the page boundary falls inside a tie.
	amounts := []string{"100", "300", "300", "300", "200", "100", "500"}
	for i, amount := range amounts {
		seedBounty(t, db, bountyFixture{onChainID: uint64(i + 1), inProgress: 1, amount: amount})
	}

	seen := map[string]int{}
	var order []string
	var cursor *uint64
	pages := 0
	for {
		page, err := svc.listBounties(context.Background(), 8453, StatusOpen, SortByAmount, 2, cursor)
		require.NoError(t, err)
		for _, item := range page.Items {
			seen[item.ID]++
			order = append(order, item.Amount)
		}
		pages++
		require.LessOrEqual(t, pages, len(amounts), "cursor walk must terminate")
		if page.NextCursor == nil {
			break
		}
		next, err := utils.ParseDecimalID(*page.NextCursor)
		require.NoError(t, err)
		cursor = &next
	}

	require.Len(t, seen, len(amounts), "every row appears")
	for id, n := range seen {
		assert.Equal(t, 1, n, "row %s appears exactly once", id)
	}
	assert.Equal(t, []string{"500", "300", "300", "300", "200", "100", "100"}, order)

	bogus := uint64(1)
	_, err := svc.listBounties(context.Background(), 8453, StatusOpen, SortByAmount, 2, &bogus)
	assert.Error(t, err, "a cursor that never was a row is rejected")
}

func TestBountyByKeyEnrichment(t *testing.T) {
	db := newTestDB(t)
	svc := NewBountyService(db)

	bounty := seedBounty(t, db, bountyFixture{onChainID: 1, inProgress: 1, isVoting: 1})
	bare := seedBounty(t, db, bountyFixture{onChainID: 2, inProgress: 1})

	claimID := mustCalcID(t, 8453, 1)
	require.NoError(t, db.Create(&models.Claim{
		ID:       claimID,
		BountyID: bounty.ID,
		ChainID:  8453,
		Title:    "proof",
		Issuer:   "0x2222222222222222222222222222222222222222",
	}).Error)

	view, err := svc.bountyByKey(context.Background(), bounty.ID)
	require.NoError(t, err)
	assert.True(t, view.HasClaims)
	assert.True(t, view.InProgress, "integer-backed flag coerced to bool")
	assert.True(t, view.IsVoting)
	assert.False(t, view.IsCanceled)

	bareView, err := svc.bountyByKey(context.Background(), bare.ID)
	require.NoError(t, err)
	assert.False(t, bareView.HasClaims)

	_, err = svc.bountyByKey(context.Background(), mustCalcID(t, 8453, 999))
	assert.ErrorIs(t, err, utils.ErrNotFound)
}
