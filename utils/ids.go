// utils/ids.go
package utils

import (
	"fmt"
	"strconv"
)

// On-chain ids are only unique per chain, so the projection keys rows by
// chainId*100_000 + onChainId. The multiplier caps on-chain ids at 99_999;
// going past it would silently collide with the next chain's key space, so
// CalcID rejects it outright instead.
const chainKeySpan = 100_000

// CalcID derives the composite projection key for an (chainID, onChainID) pair.
func CalcID(chainID, onChainID uint64) (uint64, error) {
	if onChainID >= chainKeySpan {
		return 0, fmt.Errorf("on-chain id %d out of range (max %d)", onChainID, chainKeySpan-1)
	}
	return chainID*chainKeySpan + onChainID, nil
}

// SplitID is the inverse of CalcID.
func SplitID(id uint64) (chainID, onChainID uint64) {
	return id / chainKeySpan, id % chainKeySpan
}

// ParseDecimalID parses the decimal-string form used on the wire.
func ParseDecimalID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return id, nil
}

func FormatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
