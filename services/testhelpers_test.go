package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bounty-board-service/models"
	"bounty-board-service/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Bounty{}, &models.Claim{}, &models.Participation{}))
	return db
}

func mustCalcID(t *testing.T, chainID, onChainID uint64) uint64 {
	t.Helper()
	id, err := utils.CalcID(chainID, onChainID)
	require.NoError(t, err)
	return id
}

type bountyFixture struct {
	onChainID     uint64
	chainID       uint64
	amount        string
	inProgress    int
	isVoting      int
	isCanceled    int
	isBanned      int
	deadlineDelta time.Duration // relative to now; zero means no deadline
}

func seedBounty(t *testing.T, db *gorm.DB, f bountyFixture) models.Bounty {
	t.Helper()

	if f.chainID == 0 {
		f.chainID = 8453
	}
	if f.amount == "" {
		f.amount = "1000"
	}

	b := models.Bounty{
		ID:         mustCalcID(t, f.chainID, f.onChainID),
		ChainID:    f.chainID,
		Title:      fmt.Sprintf("bounty %d", f.onChainID),
		Amount:     f.amount,
		Issuer:     "0x1111111111111111111111111111111111111111",
		InProgress: f.inProgress,
		IsVoting:   f.isVoting,
		IsCanceled: f.isCanceled,
		IsBanned:   f.isBanned,
	}
	if f.deadlineDelta != 0 {
		deadline := time.Now().Add(f.deadlineDelta).Unix()
		b.Deadline = &deadline
	}

	require.NoError(t, db.Create(&b).Error)
	return b
}
