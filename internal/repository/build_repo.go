package repository

import (
	"Buildrs/internal/model"
	"Buildrs/internal/pkg/docstore"
	"context"
	"errors"
)

type BuildFilter struct {
	Type  model.BuildType
	Tag   string
	Limit int64
}

type BuildRepo interface {
	CreateBuild(ctx context.Context, build *model.Build) error
	GetBuildByID(ctx context.Context, id string) (*model.Build, error)
	ListLatestBuilds(ctx context.Context, filter BuildFilter) ([]*model.Build, error)
	ListBuildsByUser(ctx context.Context, userID string, limit int64) ([]*model.Build, error)
	ListBuilds(ctx context.Context) ([]*model.Build, error)
	CountBuilds(ctx context.Context) (int64, error)
	IncrementCounters(ctx context.Context, id string, deltas map[string]int64) error
	SetVoteCounts(ctx context.Context, id string, upvotes, downvotes int64) error
}

type BuildRepoImpl struct {
	store docstore.Store
}

func NewBuildRepo(store docstore.Store) BuildRepo {
	return &BuildRepoImpl{store: store}
}

func (s *BuildRepoImpl) CreateBuild(ctx context.Context, build *model.Build) error {
	return s.store.Create(ctx, model.BuildCollection, build.ID, build)
}

// GetBuildByID returns nil, nil for an unknown id.
func (s *BuildRepoImpl) GetBuildByID(ctx context.Context, id string) (*model.Build, error) {
	build := &model.Build{}
	err := s.store.Get(ctx, model.BuildCollection, id, build)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return build, nil
}

// ListLatestBuilds returns builds newest first, optionally narrowed to one type and one tag.
func (s *BuildRepoImpl) ListLatestBuilds(ctx context.Context, filter BuildFilter) ([]*model.Build, error) {
	q := docstore.Query{OrderBy: "createdAt", Desc: true, Limit: filter.Limit}
	if filter.Type != "" {
		q.Filters = append(q.Filters, docstore.Eq("type", filter.Type))
	}
	if filter.Tag != "" {
		q.Filters = append(q.Filters, docstore.Eq("tags", filter.Tag))
	}

	builds := make([]*model.Build, 0)
	if err := s.store.Query(ctx, model.BuildCollection, q, &builds); err != nil {
		return nil, err
	}
	return builds, nil
}

func (s *BuildRepoImpl) ListBuildsByUser(ctx context.Context, userID string, limit int64) ([]*model.Build, error) {
	builds := make([]*model.Build, 0)
	err := s.store.Query(ctx, model.BuildCollection, docstore.Query{
		Filters: []docstore.Filter{docstore.Eq("userId", userID)},
		OrderBy: "createdAt",
		Desc:    true,
		Limit:   limit,
	}, &builds)
	if err != nil {
		return nil, err
	}
	return builds, nil
}

func (s *BuildRepoImpl) ListBuilds(ctx context.Context) ([]*model.Build, error) {
	builds := make([]*model.Build, 0)
	if err := s.store.Query(ctx, model.BuildCollection, docstore.Query{}, &builds); err != nil {
		return nil, err
	}
	return builds, nil
}

func (s *BuildRepoImpl) CountBuilds(ctx context.Context) (int64, error) {
	return s.store.Count(ctx, model.BuildCollection)
}

// IncrementCounters applies all deltas to one build in a single atomic write.
func (s *BuildRepoImpl) IncrementCounters(ctx context.Context, id string, deltas map[string]int64) error {
	return s.store.Increment(ctx, model.BuildCollection, id, deltas)
}

func (s *BuildRepoImpl) SetVoteCounts(ctx context.Context, id string, upvotes, downvotes int64) error {
	return s.store.Update(ctx, model.BuildCollection, id, map[string]any{
		"upvotes":   upvotes,
		"downvotes": downvotes,
	})
}
