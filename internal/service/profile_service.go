package service

import (
	"Buildrs/internal/api/dto"
	"Buildrs/internal/model"
	"Buildrs/internal/pkg/consts"
	"Buildrs/internal/pkg/docstore"
	"Buildrs/internal/pkg/redis"
	"Buildrs/internal/pkg/util"
	"Buildrs/internal/pkg/wallet"
	"Buildrs/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ProfileService interface {
	GetProfile(ctx context.Context, address string) (*dto.ProfileDTO, error)
	GetProfileByUsername(ctx context.Context, username string) (*dto.ProfileDTO, error)
	UpdateProfile(ctx context.Context, address string, req *dto.ProfileUpdateDTO) (*dto.ProfileDTO, error)
	CompleteOnboarding(ctx context.Context, address string) error
	SyncProfileAggregates(ctx context.Context, address string) error
	ListStreakingAddresses(ctx context.Context) ([]string, error)
}

type profileServiceImpl struct {
	profileRepo repository.ProfileRepo
	buildRepo   repository.BuildRepo
	followRepo  repository.FollowRepo
	now         func() time.Time
}

func NewProfileService(profileRepo repository.ProfileRepo, buildRepo repository.BuildRepo, followRepo repository.FollowRepo) ProfileService {
	return &profileServiceImpl{
		profileRepo: profileRepo,
		buildRepo:   buildRepo,
		followRepo:  followRepo,
		now:         time.Now,
	}
}

func (s *profileServiceImpl) GetProfile(ctx context.Context, address string) (*dto.ProfileDTO, error) {
	profile, err := s.profileRepo.GetProfileByAddress(ctx, wallet.NormalizeAddress(address))
	if err != nil {
		return nil, storeError(err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return s.toDTO(ctx, profile)
}

func (s *profileServiceImpl) GetProfileByUsername(ctx context.Context, username string) (*dto.ProfileDTO, error) {
	profile, err := s.profileRepo.GetProfileByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, storeError(err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return s.toDTO(ctx, profile)
}

func (s *profileServiceImpl) UpdateProfile(ctx context.Context, address string, req *dto.ProfileUpdateDTO) (*dto.ProfileDTO, error) {
	if address == "" {
		return nil, ErrUnauthorized
	}
	if err := util.ValidateDTO(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParamInvalid, err)
	}
	address = wallet.NormalizeAddress(address)

	fields := map[string]any{}
	if req.DisplayName != nil {
		fields["displayName"] = strings.TrimSpace(*req.DisplayName)
	}
	if req.Bio != nil {
		fields["bio"] = strings.TrimSpace(*req.Bio)
	}
	if req.Avatar != nil {
		fields["avatar"] = strings.TrimSpace(*req.Avatar)
	}
	if req.Skills != nil {
		fields["skills"] = util.NormalizeSet(req.Skills)
	}
	if req.SocialLinks != nil {
		links := model.SocialLinks{}
		if err := copier.Copy(&links, req.SocialLinks); err != nil {
			return nil, err
		}
		fields["socialLinks"] = links
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		release, err := s.claimUsername(ctx, address, username)
		if err != nil {
			return nil, err
		}
		defer release()
		fields["username"] = username
	}

	if len(fields) > 0 {
		fields["updatedAt"] = storeTime(s.now())
		if err := s.profileRepo.UpdateProfile(ctx, address, fields); err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				return nil, ErrProfileNotFound
			}
			return nil, storeError(err)
		}
	}
	return s.GetProfile(ctx, address)
}

// claimUsername holds a short lock on the name so two profiles cannot take it at once.
func (s *profileServiceImpl) claimUsername(ctx context.Context, address, username string) (func(), error) {
	lockKey := consts.UsernameLock + strings.ToLower(username)
	token := uuid.NewString()
	locked, err := redis.TryLock(ctx, lockKey, token, 5*time.Second, 10)
	if err != nil {
		return nil, storeError(err)
	}
	if !locked {
		return nil, ErrUsernameTaken
	}
	release := func() { redis.UnLock(context.WithoutCancel(ctx), lockKey, token) }

	owner, err := s.profileRepo.GetProfileByUsername(ctx, username)
	if err != nil {
		release()
		return nil, storeError(err)
	}
	if owner != nil && owner.ID != address {
		release()
		return nil, ErrUsernameTaken
	}
	return release, nil
}

func (s *profileServiceImpl) CompleteOnboarding(ctx context.Context, address string) error {
	err := s.profileRepo.UpdateProfile(ctx, wallet.NormalizeAddress(address), map[string]any{
		"onboardingCompleted": true,
		"updatedAt":           storeTime(s.now()),
	})
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrProfileNotFound
	}
	if err != nil {
		return storeError(err)
	}
	return nil
}

// SyncProfileAggregates recomputes totalUpvotes and buildStreak from the owner's builds.
func (s *profileServiceImpl) SyncProfileAggregates(ctx context.Context, address string) error {
	builds, err := s.buildRepo.ListBuildsByUser(ctx, address, 0)
	if err != nil {
		return storeError(err)
	}

	var upvotes int64
	created := make([]time.Time, 0, len(builds))
	for _, b := range builds {
		upvotes += b.Upvotes
		created = append(created, b.CreatedAt)
	}

	err = s.profileRepo.UpdateProfile(ctx, address, map[string]any{
		"totalUpvotes": max(upvotes, 0),
		"buildStreak":  CurrentStreak(created, s.now(), 0),
	})
	if errors.Is(err, docstore.ErrNotFound) {
		log.WarnContext(ctx, "aggregate target profile missing", "address", address)
		return nil
	}
	if err != nil {
		return storeError(err)
	}
	return nil
}

// ListStreakingAddresses returns the profiles whose stored buildStreak is at least 1.
func (s *profileServiceImpl) ListStreakingAddresses(ctx context.Context) ([]string, error) {
	profiles, err := s.profileRepo.ListActiveProfiles(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	addresses := make([]string, 0, len(profiles))
	for _, p := range profiles {
		addresses = append(addresses, p.ID)
	}
	return addresses, nil
}

func (s *profileServiceImpl) toDTO(ctx context.Context, profile *model.Profile) (*dto.ProfileDTO, error) {
	out := &dto.ProfileDTO{}
	if err := copier.Copy(out, profile); err != nil {
		return nil, err
	}
	out.ShortAddress = wallet.FormatAddress(profile.WalletAddress)
	if out.Skills == nil {
		out.Skills = []string{}
	}

	followers, err := s.followRepo.CountFollowers(ctx, profile.ID)
	if err != nil {
		return nil, storeError(err)
	}
	following, err := s.followRepo.CountFollowing(ctx, profile.ID)
	if err != nil {
		return nil, storeError(err)
	}
	out.FollowerCount = followers
	out.FollowingCount = following
	return out, nil
}
