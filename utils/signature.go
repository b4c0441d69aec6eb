// utils/signature.go
package utils

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// BanMessageFirstLine is the canonical first line of the message an admin
// signs to ban a bounty or claim. The submitting client and this verifier
// must produce byte-identical strings — the id/chainId binding is what stops
// a captured signature from being replayed against a different target.
func BanMessageFirstLine(kind string, id, chainID uint64) string {
	return fmt.Sprintf("Ban %s id: %d chainId: %d\n", kind, id, chainID)
}

// RecoverPersonalSign recovers the signer of an EIP-191 personal_sign
// message. Accepts both 0/1 and 27/28 recovery id encodings.
func RecoverPersonalSign(message, signature string) (common.Address, error) {
	sig, err := hex.DecodeString(strings.TrimPrefix(signature, "0x"))
	if err != nil {
		return common.Address{}, fmt.Errorf("signature is not hex: %w", err)
	}
	if len(sig) != 65 {
		return common.Address{}, fmt.Errorf("signature length %d, want 65", len(sig))
	}
	if sig[64] >= 27 {
		sig = append([]byte(nil), sig...)
		sig[64] -= 27
	}

	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)
	hash := crypto.Keccak256Hash([]byte(prefixed))

	pub, err := crypto.SigToPub(hash.Bytes(), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("pubkey recovery failed: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// VerifyBanSignature checks that message carries the exact canonical first
// line for (kind, id, chainID) and that signature recovers to address for
// that exact message. Every failure mode collapses to ErrInvalidSignature —
// the check fails closed and leaks nothing about which step broke.
func VerifyBanSignature(kind string, id, chainID uint64, address, message, signature string) error {
	if !common.IsHexAddress(address) {
		return fmt.Errorf("%w: malformed address", ErrInvalidSignature)
	}
	if !strings.HasPrefix(message, BanMessageFirstLine(kind, id, chainID)) {
		return fmt.Errorf("%w: message does not match ban target", ErrInvalidSignature)
	}
	recovered, err := RecoverPersonalSign(message, signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if !strings.EqualFold(recovered.Hex(), address) {
		return fmt.Errorf("%w: signer mismatch", ErrInvalidSignature)
	}
	return nil
}
