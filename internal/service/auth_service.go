package service

import (
	"Buildrs/internal/model"
	"Buildrs/internal/pkg/consts"
	"Buildrs/internal/pkg/docstore"
	"Buildrs/internal/pkg/redis"
	"Buildrs/internal/pkg/security"
	"Buildrs/internal/pkg/wallet"
	"Buildrs/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"sync/atomic"
	"time"
)

type AuthService interface {
	// Authenticate signs a fresh challenge with signer and provisions the profile on first contact.
	Authenticate(ctx context.Context, address string, signer wallet.Signer) (*model.SessionUser, *model.Profile, error)
	IssueChallenge(ctx context.Context, address string) (string, error)
	Login(ctx context.Context, address, signature string) (string, *model.Profile, error)
	Logout(ctx context.Context, token string) error
}

type authServiceImpl struct {
	profileRepo  repository.ProfileRepo
	verifier     wallet.Verifier
	challengeTTL time.Duration
	now          func() time.Time
	lastMillis   atomic.Int64
}

func NewAuthService(profileRepo repository.ProfileRepo, verifier wallet.Verifier, challengeTTL time.Duration) AuthService {
	return &authServiceImpl{
		profileRepo:  profileRepo,
		verifier:     verifier,
		challengeTTL: challengeTTL,
		now:          time.Now,
	}
}

func (s *authServiceImpl) Authenticate(ctx context.Context, address string, signer wallet.Signer) (*model.SessionUser, *model.Profile, error) {
	if !wallet.IsValidAddress(address) {
		log.WarnContext(ctx, "authenticate called with invalid wallet address", "address", address)
		return nil, nil, ErrInvalidAddress
	}

	message := wallet.ChallengeMessage(address, s.challengeTime())
	signature, err := signer.SignMessage(ctx, message)
	if err != nil {
		log.WarnContext(ctx, "wallet signing failed", "address", address, "err", err)
		return nil, nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	if !s.verifier.VerifySignature(message, signature, address) {
		log.WarnContext(ctx, "wallet signature mismatch", "address", address)
		return nil, nil, ErrAuthenticationFailed
	}

	profile, err := s.provisionProfile(ctx, address)
	if err != nil {
		return nil, nil, err
	}
	return &model.SessionUser{Address: profile.WalletAddress, Signature: signature}, profile, nil
}

// IssueChallenge stores a single-use challenge for the address and returns the text to sign.
func (s *authServiceImpl) IssueChallenge(ctx context.Context, address string) (string, error) {
	if !wallet.IsValidAddress(address) {
		return "", ErrInvalidAddress
	}
	message := wallet.ChallengeMessage(address, s.challengeTime())
	key := consts.AuthChallengeKey + wallet.NormalizeAddress(address)
	if err := redis.SetWithExpiration(ctx, key, message, s.challengeTTL); err != nil {
		return "", storeError(err)
	}
	return message, nil
}

// Login consumes the issued challenge, verifies the signature over it and returns a session token.
func (s *authServiceImpl) Login(ctx context.Context, address, signature string) (string, *model.Profile, error) {
	if !wallet.IsValidAddress(address) {
		return "", nil, ErrInvalidAddress
	}
	if signature == "" {
		return "", nil, ErrParamInvalid
	}

	message, err := redis.GetDel(ctx, consts.AuthChallengeKey+wallet.NormalizeAddress(address))
	if err != nil {
		return "", nil, storeError(err)
	}
	if message == "" {
		return "", nil, ErrChallengeExpired
	}
	if !s.verifier.VerifySignature(message, signature, address) {
		log.WarnContext(ctx, "login signature mismatch", "address", address)
		return "", nil, ErrAuthenticationFailed
	}

	profile, err := s.provisionProfile(ctx, address)
	if err != nil {
		return "", nil, err
	}
	token, err := security.GenerateToken(profile.WalletAddress)
	if err != nil {
		return "", nil, err
	}
	return token, profile, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *authServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return ErrUnauthorized
	}
	if err = redis.SetWithExpiration(ctx, consts.TokenRevokedKey+signature, true, security.TokenExpiration()); err != nil {
		return storeError(err)
	}
	return nil
}

// provisionProfile loads the profile or creates the default one. Creation is conditional on the
// address, so a concurrent first login loads the winner's document instead of overwriting it.
func (s *authServiceImpl) provisionProfile(ctx context.Context, address string) (*model.Profile, error) {
	key := wallet.NormalizeAddress(address)

	profile, err := s.profileRepo.GetProfileByAddress(ctx, key)
	if err != nil {
		return nil, storeError(err)
	}
	if profile != nil {
		return profile, nil
	}

	profile = NewDefaultProfile(key, s.now())
	err = s.profileRepo.CreateProfile(ctx, profile)
	if errors.Is(err, docstore.ErrDuplicate) {
		profile, err = s.profileRepo.GetProfileByAddress(ctx, key)
		if err == nil && profile == nil {
			err = docstore.ErrNotFound
		}
	}
	if err != nil {
		return nil, storeError(err)
	}

	log.InfoContext(ctx, "profile provisioned", "address", key)
	return profile, nil
}

// challengeTime returns a timestamp strictly later, at millisecond precision, than any previous one.
func (s *authServiceImpl) challengeTime() time.Time {
	for {
		now := s.now().UnixMilli()
		last := s.lastMillis.Load()
		if now <= last {
			now = last + 1
		}
		if s.lastMillis.CompareAndSwap(last, now) {
			return time.UnixMilli(now)
		}
	}
}

// NewDefaultProfile is the profile a wallet gets on its first successful sign in.
func NewDefaultProfile(address string, now time.Time) *model.Profile {
	suffix := wallet.AddressSuffix(address)
	now = storeTime(now)
	return &model.Profile{
		ID:            address,
		WalletAddress: address,
		Username:      "builder_" + suffix,
		DisplayName:   "Builder " + suffix,
		Skills:        []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
