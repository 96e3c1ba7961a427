package wallet

import (
	"context"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey     = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	testAddress = "0x2c7536e3605d9c16a7a3d7b1898e529396a65c23"
)

func TestKeySigner_Address(t *testing.T) {
	signer, err := NewKeySigner(testKey)
	require.NoError(t, err)
	assert.Equal(t, testAddress, signer.Address())
}

func TestNewKeySigner_RejectsBadKeys(t *testing.T) {
	_, err := NewKeySigner("0xzz")
	assert.Error(t, err)

	_, err = NewKeySigner("0x1234")
	assert.Error(t, err)
}

func TestSignAndRecover(t *testing.T) {
	signer, err := NewKeySigner(testKey)
	require.NoError(t, err)

	msg := ChallengeMessage("0x2c7536E3605D9C16a7a3D7b1898e529396a65c23", time.UnixMilli(1700000000000))
	sig, err := signer.SignMessage(context.Background(), msg)
	require.NoError(t, err)
	assert.Len(t, sig, 2+2*signatureLength)

	recovered, err := RecoverAddress(msg, sig)
	require.NoError(t, err)
	assert.Equal(t, testAddress, recovered)

	v := PersonalSignVerifier{}
	assert.True(t, v.VerifySignature(msg, sig, "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"))
	assert.False(t, v.VerifySignature(msg+"!", sig, testAddress))
	assert.False(t, v.VerifySignature(msg, sig, "0x0000000000000000000000000000000000000001"))
}

func TestRecoverAddress_AcceptsZeroBasedRecoveryID(t *testing.T) {
	signer, err := NewKeySigner(testKey)
	require.NoError(t, err)

	sig, err := signer.SignMessage(context.Background(), "hello")
	require.NoError(t, err)
	raw, err := hex.DecodeString(strings.TrimPrefix(sig, "0x"))
	require.NoError(t, err)
	raw[64] -= 27

	recovered, err := RecoverAddress("hello", hex.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, testAddress, recovered)
}

func TestRecoverAddress_Malformed(t *testing.T) {
	_, err := RecoverAddress("hello", "0x1234")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = RecoverAddress("hello", "not-hex")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	bad := "0x" + strings.Repeat("11", 64) + "05"
	_, err = RecoverAddress("hello", bad)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestAddressHelpers(t *testing.T) {
	assert.True(t, IsValidAddress("0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"))
	assert.False(t, IsValidAddress("not-an-address"))
	assert.False(t, IsValidAddress("0x2c7536E3605D9C16a7a3D7b1898e529396a65c2"))
	assert.False(t, IsValidAddress("2c7536E3605D9C16a7a3D7b1898e529396a65c23aa"))

	assert.Equal(t, testAddress, NormalizeAddress(" 0x2C7536E3605D9C16A7A3D7B1898E529396A65C23 "))
	assert.Equal(t, "0x2c75...5c23", FormatAddress(testAddress))
	assert.Equal(t, "a65c23", AddressSuffix(testAddress))
	assert.Equal(t,
		"Sign in to BUILDRS with your wallet: 0xabc\nTimestamp: 1700000000000",
		ChallengeMessage("0xabc", time.UnixMilli(1700000000000)))
}
