package wallet

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"
)

const signatureLength = 65

var ErrInvalidSignature = errors.New("invalid signature")

// Verifier checks that signature over message was produced by address.
type Verifier interface {
	VerifySignature(message, signature, address string) bool
}

// PersonalSignVerifier verifies EIP-191 personal_sign signatures by public key recovery.
type PersonalSignVerifier struct{}

func (PersonalSignVerifier) VerifySignature(message, signature, address string) bool {
	recovered, err := RecoverAddress(message, signature)
	if err != nil {
		return false
	}
	return strings.EqualFold(recovered, address)
}

// HashPersonalMessage is keccak256("\x19Ethereum Signed Message:\n" + len(message) + message).
func HashPersonalMessage(message []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte("\x19Ethereum Signed Message:\n" + strconv.Itoa(len(message))))
	h.Write(message)
	return h.Sum(nil)
}

// RecoverAddress returns the lowercase address whose key produced the r||s||v signature.
// v may be 0/1 or 27/28.
func RecoverAddress(message, signature string) (string, error) {
	sig, err := hex.DecodeString(strings.TrimPrefix(signature, "0x"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if len(sig) != signatureLength {
		return "", fmt.Errorf("%w: length %d", ErrInvalidSignature, len(sig))
	}

	v := sig[64]
	if v >= 27 {
		v -= 27
	}
	if v > 1 {
		return "", fmt.Errorf("%w: recovery id %d", ErrInvalidSignature, sig[64])
	}

	compact := make([]byte, signatureLength)
	compact[0] = 27 + v
	copy(compact[1:], sig[:64])

	pub, _, err := ecdsa.RecoverCompact(compact, HashPersonalMessage([]byte(message)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return PubKeyToAddress(pub), nil
}

func PubKeyToAddress(pub *secp256k1.PublicKey) string {
	h := sha3.NewLegacyKeccak256()
	h.Write(pub.SerializeUncompressed()[1:])
	return "0x" + hex.EncodeToString(h.Sum(nil)[12:])
}

// KeySigner signs personal messages with a local private key.
type KeySigner struct {
	key     *secp256k1.PrivateKey
	address string
}

func NewKeySigner(hexKey string) (*KeySigner, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("decode private key: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("private key must be 32 bytes, got %d", len(raw))
	}
	key := secp256k1.PrivKeyFromBytes(raw)
	return &KeySigner{key: key, address: PubKeyToAddress(key.PubKey())}, nil
}

func (s *KeySigner) Address() string {
	return s.address
}

// SignMessage returns a 0x-prefixed r||s||v signature with v in {27, 28}.
func (s *KeySigner) SignMessage(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	compact := ecdsa.SignCompact(s.key, HashPersonalMessage([]byte(message)), false)

	sig := make([]byte, signatureLength)
	copy(sig, compact[1:])
	sig[64] = compact[0]
	return "0x" + hex.EncodeToString(sig), nil
}

// Signer is the wallet capability the authenticator needs: sign a message, return the signature.
type Signer interface {
	SignMessage(ctx context.Context, message string) (string, error)
}
