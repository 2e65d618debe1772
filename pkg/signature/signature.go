package signature

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrSignerMismatch   = errors.New("signature does not match claimed address")
)

// Recover returns the address that produced an EIP-191 personal
// signature over the given message.
func Recover(message []byte, sigHex string) (string, error) {
	sig, err := hex.DecodeString(strings.TrimPrefix(sigHex, "0x"))
	if err != nil || len(sig) != crypto.SignatureLength {
		return "", ErrInvalidSignature
	}

	// Wallets return V as 27/28, crypto.SigToPub expects 0/1.
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig = append([]byte(nil), sig...)
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash(message), sig)
	if err != nil {
		return "", ErrInvalidSignature
	}
	return crypto.PubkeyToAddress(*pub).Hex(), nil
}

// Verify checks that sigHex is a personal signature over message by the
// claimed address.
func Verify(message []byte, sigHex, address string) error {
	recovered, err := Recover(message, sigHex)
	if err != nil {
		return err
	}
	if common.HexToAddress(recovered) != common.HexToAddress(address) {
		return ErrSignerMismatch
	}
	return nil
}

// Sign produces an EIP-191 personal signature over message. Used by
// tests and client tooling.
func Sign(message []byte, key *ecdsa.PrivateKey) (string, error) {
	sig, err := crypto.Sign(accounts.TextHash(message), key)
	if err != nil {
		return "", err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return "0x" + hex.EncodeToString(sig), nil
}
