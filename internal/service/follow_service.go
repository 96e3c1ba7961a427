package service

import (
	"Buildrs/internal/model"
	"Buildrs/internal/pkg/consts"
	"Buildrs/internal/pkg/docstore"
	"Buildrs/internal/pkg/wallet"
	"Buildrs/internal/repository"
	"context"
	"errors"
	"time"
)

type FollowService interface {
	Follow(ctx context.Context, followerID, followingID string) error
	Unfollow(ctx context.Context, followerID, followingID string) error
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	ListFollowers(ctx context.Context, userID string, limit int64) ([]*model.Follow, error)
	ListFollowing(ctx context.Context, userID string, limit int64) ([]*model.Follow, error)
}

type followServiceImpl struct {
	followRepo  repository.FollowRepo
	profileRepo repository.ProfileRepo
	now         func() time.Time
}

func NewFollowService(followRepo repository.FollowRepo, profileRepo repository.ProfileRepo) FollowService {
	return &followServiceImpl{
		followRepo:  followRepo,
		profileRepo: profileRepo,
		now:         time.Now,
	}
}

// Follow is idempotent; following an already followed profile succeeds.
func (s *followServiceImpl) Follow(ctx context.Context, followerID, followingID string) error {
	if followerID == "" {
		return ErrUnauthorized
	}
	followerID = wallet.NormalizeAddress(followerID)
	followingID = wallet.NormalizeAddress(followingID)
	if !wallet.IsValidAddress(followingID) {
		return ErrInvalidAddress
	}
	if followerID == followingID {
		return ErrFollowSelf
	}

	target, err := s.profileRepo.GetProfileByAddress(ctx, followingID)
	if err != nil {
		return storeError(err)
	}
	if target == nil {
		return ErrProfileNotFound
	}

	err = s.followRepo.CreateFollow(ctx, &model.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   storeTime(s.now()),
	})
	if err != nil && !errors.Is(err, docstore.ErrDuplicate) {
		return storeError(err)
	}
	return nil
}

func (s *followServiceImpl) Unfollow(ctx context.Context, followerID, followingID string) error {
	if followerID == "" {
		return ErrUnauthorized
	}
	err := s.followRepo.DeleteFollow(ctx, wallet.NormalizeAddress(followerID), wallet.NormalizeAddress(followingID))
	if err != nil {
		return storeError(err)
	}
	return nil
}

func (s *followServiceImpl) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == "" {
		return false, nil
	}
	follow, err := s.followRepo.GetFollow(ctx, wallet.NormalizeAddress(followerID), wallet.NormalizeAddress(followingID))
	if err != nil {
		return false, storeError(err)
	}
	return follow != nil, nil
}

func (s *followServiceImpl) ListFollowers(ctx context.Context, userID string, limit int64) ([]*model.Follow, error) {
	follows, err := s.followRepo.ListFollowers(ctx, wallet.NormalizeAddress(userID),
		clampLimit(limit, consts.DefaultBuildListLimit, consts.MaxBuildListLimit))
	if err != nil {
		return nil, storeError(err)
	}
	return follows, nil
}

func (s *followServiceImpl) ListFollowing(ctx context.Context, userID string, limit int64) ([]*model.Follow, error) {
	follows, err := s.followRepo.ListFollowing(ctx, wallet.NormalizeAddress(userID),
		clampLimit(limit, consts.DefaultBuildListLimit, consts.MaxBuildListLimit))
	if err != nil {
		return nil, storeError(err)
	}
	return follows, nil
}
