package repository

import (
	"Buildrs/internal/model"
	"Buildrs/internal/pkg/docstore"
	"context"
	"errors"
)

type ProfileRepo interface {
	GetProfileByAddress(ctx context.Context, address string) (*model.Profile, error)
	GetProfileByUsername(ctx context.Context, username string) (*model.Profile, error)
	CreateProfile(ctx context.Context, profile *model.Profile) error
	UpdateProfile(ctx context.Context, address string, fields map[string]any) error
	ListProfiles(ctx context.Context) ([]*model.Profile, error)
	CountProfiles(ctx context.Context) (int64, error)
	CountActiveProfiles(ctx context.Context) (int64, error)
	ListActiveProfiles(ctx context.Context) ([]*model.Profile, error)
}

type ProfileRepoImpl struct {
	store docstore.Store
}

func NewProfileRepo(store docstore.Store) ProfileRepo {
	return &ProfileRepoImpl{store: store}
}

// GetProfileByAddress returns nil, nil when no profile exists.
func (s *ProfileRepoImpl) GetProfileByAddress(ctx context.Context, address string) (*model.Profile, error) {
	profile := &model.Profile{}
	err := s.store.Get(ctx, model.ProfileCollection, address, profile)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}

func (s *ProfileRepoImpl) GetProfileByUsername(ctx context.Context, username string) (*model.Profile, error) {
	var profiles []*model.Profile
	err := s.store.Query(ctx, model.ProfileCollection, docstore.Query{
		Filters: []docstore.Filter{docstore.Eq("username", username)},
		Limit:   1,
	}, &profiles)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, nil
	}
	return profiles[0], nil
}

// CreateProfile is conditional on the address; a concurrent winner surfaces as docstore.ErrDuplicate.
func (s *ProfileRepoImpl) CreateProfile(ctx context.Context, profile *model.Profile) error {
	return s.store.Create(ctx, model.ProfileCollection, profile.ID, profile)
}

func (s *ProfileRepoImpl) UpdateProfile(ctx context.Context, address string, fields map[string]any) error {
	return s.store.Update(ctx, model.ProfileCollection, address, fields)
}

func (s *ProfileRepoImpl) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	profiles := make([]*model.Profile, 0)
	if err := s.store.Query(ctx, model.ProfileCollection, docstore.Query{}, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (s *ProfileRepoImpl) CountProfiles(ctx context.Context) (int64, error) {
	return s.store.Count(ctx, model.ProfileCollection)
}

// CountActiveProfiles counts profiles with a running build streak.
func (s *ProfileRepoImpl) CountActiveProfiles(ctx context.Context) (int64, error) {
	return s.store.Count(ctx, model.ProfileCollection, docstore.Gte("buildStreak", 1))
}

func (s *ProfileRepoImpl) ListActiveProfiles(ctx context.Context) ([]*model.Profile, error) {
	profiles := make([]*model.Profile, 0)
	err := s.store.Query(ctx, model.ProfileCollection, docstore.Query{
		Filters: []docstore.Filter{docstore.Gte("buildStreak", 1)},
	}, &profiles)
	if err != nil {
		return nil, err
	}
	return profiles, nil
}
