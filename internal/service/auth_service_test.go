package service

import (
	"Buildrs/internal/model"
	"Buildrs/internal/pkg/consts"
	"Buildrs/internal/pkg/security"
	"Buildrs/internal/pkg/wallet"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*fixture, AuthService) {
	setupRedis(t)
	f := newFixture(t)
	return f, NewAuthService(f.profileRepo, wallet.PersonalSignVerifier{}, 5*time.Minute)
}

func TestAuthenticate_ProvisionsOnceAndReloads(t *testing.T) {
	ctx := context.Background()
	f, svc := newAuthFixture(t)
	signer := testSigner(t, aliceKey)

	user, first, err := svc.Authenticate(ctx, "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23", signer)
	require.NoError(t, err)
	assert.Equal(t, aliceAddress, user.Address)
	assert.NotEmpty(t, user.Signature)
	assert.Equal(t, "builder_a65c23", first.Username)
	assert.Equal(t, "Builder a65c23", first.DisplayName)
	assert.False(t, first.OnboardingCompleted)
	assert.Zero(t, first.BuilderScore)

	time.Sleep(5 * time.Millisecond)
	_, second, err := svc.Authenticate(ctx, aliceAddress, signer)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))

	n, err := f.store.Count(ctx, model.ProfileCollection)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestAuthenticate_KeepsExistingProfile(t *testing.T) {
	ctx := context.Background()
	f, svc := newAuthFixture(t)
	f.addProfile(t, &model.Profile{WalletAddress: aliceAddress, Username: "alice", BuilderScore: 42})

	_, profile, err := svc.Authenticate(ctx, aliceAddress, testSigner(t, aliceKey))
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, int64(42), profile.BuilderScore)
}

func TestAuthenticate_InvalidAddressIsNoop(t *testing.T) {
	ctx := context.Background()
	f, svc := newAuthFixture(t)
	called := false
	signer := signerFunc(func(ctx context.Context, message string) (string, error) {
		called = true
		return "", nil
	})

	_, _, err := svc.Authenticate(ctx, "not-an-address", signer)
	assert.ErrorIs(t, err, ErrInvalidAddress)
	assert.False(t, called)

	n, err := f.store.Count(ctx, model.ProfileCollection)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAuthenticate_SignerRejects(t *testing.T) {
	ctx := context.Background()
	f, svc := newAuthFixture(t)
	signer := signerFunc(func(ctx context.Context, message string) (string, error) {
		return "", errors.New("user rejected the request")
	})

	_, _, err := svc.Authenticate(ctx, aliceAddress, signer)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	n, err := f.store.Count(ctx, model.ProfileCollection)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAuthenticate_SignatureFromAnotherWallet(t *testing.T) {
	ctx := context.Background()
	_, svc := newAuthFixture(t)

	_, _, err := svc.Authenticate(ctx, aliceAddress, testSigner(t, bobKey))
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestAuthenticate_ChallengeTextAndDistinctTimestamps(t *testing.T) {
	ctx := context.Background()
	_, svc := newAuthFixture(t)
	signer := testSigner(t, aliceKey)

	var messages []string
	recording := signerFunc(func(ctx context.Context, message string) (string, error) {
		messages = append(messages, message)
		return signer.SignMessage(ctx, message)
	})

	for i := 0; i < 3; i++ {
		_, _, err := svc.Authenticate(ctx, aliceAddress, recording)
		require.NoError(t, err)
	}
	require.Len(t, messages, 3)
	assert.True(t, strings.HasPrefix(messages[0], "Sign in to BUILDRS with your wallet: "+aliceAddress+"\nTimestamp: "))
	assert.NotEqual(t, messages[0], messages[1])
	assert.NotEqual(t, messages[1], messages[2])
}

func TestAuthenticate_ConcurrentFirstContact(t *testing.T) {
	ctx := context.Background()
	f, svc := newAuthFixture(t)
	signer := testSigner(t, aliceKey)

	var wg sync.WaitGroup
	profiles := make([]*model.Profile, 10)
	for i := range profiles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, p, err := svc.Authenticate(ctx, aliceAddress, signer)
			assert.NoError(t, err)
			profiles[i] = p
		}(i)
	}
	wg.Wait()

	n, err := f.store.Count(ctx, model.ProfileCollection)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	for _, p := range profiles {
		require.NotNil(t, p)
		assert.True(t, profiles[0].CreatedAt.Equal(p.CreatedAt))
	}
}

func TestLogin_ConsumesChallengeOnce(t *testing.T) {
	ctx := context.Background()
	_, svc := newAuthFixture(t)
	signer := testSigner(t, aliceKey)

	message, err := svc.IssueChallenge(ctx, aliceAddress)
	require.NoError(t, err)
	signature, err := signer.SignMessage(ctx, message)
	require.NoError(t, err)

	token, profile, err := svc.Login(ctx, aliceAddress, signature)
	require.NoError(t, err)
	assert.Equal(t, aliceAddress, profile.WalletAddress)

	claims, err := security.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, aliceAddress, claims.Address)

	_, _, err = svc.Login(ctx, aliceAddress, signature)
	assert.ErrorIs(t, err, ErrChallengeExpired)
}

func TestLogin_WrongSignature(t *testing.T) {
	ctx := context.Background()
	_, svc := newAuthFixture(t)

	message, err := svc.IssueChallenge(ctx, aliceAddress)
	require.NoError(t, err)
	signature, err := testSigner(t, bobKey).SignMessage(ctx, message)
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, aliceAddress, signature)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	_, err = svc.IssueChallenge(ctx, "0x123")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestLogout_RevokesToken(t *testing.T) {
	ctx := context.Background()
	mr := setupRedis(t)
	f := newFixture(t)
	svc := NewAuthService(f.profileRepo, wallet.PersonalSignVerifier{}, time.Minute)

	token, err := security.GenerateToken(aliceAddress)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, token))

	sig, err := security.ExtractSignature(token)
	require.NoError(t, err)
	assert.True(t, mr.Exists(consts.TokenRevokedKey+sig))

	assert.ErrorIs(t, svc.Logout(ctx, "garbage"), ErrUnauthorized)
}
