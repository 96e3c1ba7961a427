package repository

import (
	"Buildrs/internal/model"
	"Buildrs/internal/pkg/docstore"
	"context"
	"time"
)

type ActivityRepo interface {
	AppendActivity(ctx context.Context, activity *model.Activity) error
	ListActivitiesSince(ctx context.Context, since time.Time) ([]*model.Activity, error)
}

type ActivityRepoImpl struct {
	store docstore.Store
}

func NewActivityRepo(store docstore.Store) ActivityRepo {
	return &ActivityRepoImpl{store: store}
}

// AppendActivity upserts by id, so a redelivered event is stored once.
func (s *ActivityRepoImpl) AppendActivity(ctx context.Context, activity *model.Activity) error {
	return s.store.Set(ctx, model.ActivityCollection, activity.ID, activity)
}

// ListActivitiesSince returns entries with createdAt >= since, oldest first.
func (s *ActivityRepoImpl) ListActivitiesSince(ctx context.Context, since time.Time) ([]*model.Activity, error) {
	activities := make([]*model.Activity, 0)
	err := s.store.Query(ctx, model.ActivityCollection, docstore.Query{
		Filters: []docstore.Filter{docstore.Gte("createdAt", since)},
		OrderBy: "createdAt",
	}, &activities)
	if err != nil {
		return nil, err
	}
	return activities, nil
}
