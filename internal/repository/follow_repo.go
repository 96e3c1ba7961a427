package repository

import (
	"Buildrs/internal/model"
	"Buildrs/internal/pkg/docstore"
	"context"
	"errors"
)

type FollowRepo interface {
	GetFollow(ctx context.Context, followerID, followingID string) (*model.Follow, error)
	CreateFollow(ctx context.Context, follow *model.Follow) error
	DeleteFollow(ctx context.Context, followerID, followingID string) error
	ListFollowers(ctx context.Context, userID string, limit int64) ([]*model.Follow, error)
	ListFollowing(ctx context.Context, userID string, limit int64) ([]*model.Follow, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
}

type FollowRepoImpl struct {
	store docstore.Store
}

func NewFollowRepo(store docstore.Store) FollowRepo {
	return &FollowRepoImpl{store: store}
}

func (s *FollowRepoImpl) GetFollow(ctx context.Context, followerID, followingID string) (*model.Follow, error) {
	follow := &model.Follow{}
	err := s.store.Get(ctx, model.FollowCollection, model.FollowID(followerID, followingID), follow)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return follow, nil
}

// CreateFollow returns docstore.ErrDuplicate if the edge already exists.
func (s *FollowRepoImpl) CreateFollow(ctx context.Context, follow *model.Follow) error {
	follow.ID = model.FollowID(follow.FollowerID, follow.FollowingID)
	return s.store.Create(ctx, model.FollowCollection, follow.ID, follow)
}

func (s *FollowRepoImpl) DeleteFollow(ctx context.Context, followerID, followingID string) error {
	return s.store.Delete(ctx, model.FollowCollection, model.FollowID(followerID, followingID))
}

// ListFollowers lists edges pointing at userID, newest first.
func (s *FollowRepoImpl) ListFollowers(ctx context.Context, userID string, limit int64) ([]*model.Follow, error) {
	return s.list(ctx, docstore.Eq("followingId", userID), limit)
}

// ListFollowing lists edges leaving userID, newest first.
func (s *FollowRepoImpl) ListFollowing(ctx context.Context, userID string, limit int64) ([]*model.Follow, error) {
	return s.list(ctx, docstore.Eq("followerId", userID), limit)
}

func (s *FollowRepoImpl) CountFollowers(ctx context.Context, userID string) (int64, error) {
	return s.store.Count(ctx, model.FollowCollection, docstore.Eq("followingId", userID))
}

func (s *FollowRepoImpl) CountFollowing(ctx context.Context, userID string) (int64, error) {
	return s.store.Count(ctx, model.FollowCollection, docstore.Eq("followerId", userID))
}

func (s *FollowRepoImpl) list(ctx context.Context, filter docstore.Filter, limit int64) ([]*model.Follow, error) {
	follows := make([]*model.Follow, 0)
	err := s.store.Query(ctx, model.FollowCollection, docstore.Query{
		Filters: []docstore.Filter{filter},
		OrderBy: "createdAt",
		Desc:    true,
		Limit:   limit,
	}, &follows)
	if err != nil {
		return nil, err
	}
	return follows, nil
}
