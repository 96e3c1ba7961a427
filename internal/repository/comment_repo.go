package repository

import (
	"Buildrs/internal/model"
	"Buildrs/internal/pkg/docstore"
	"context"
)

type CommentRepo interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	DeleteComment(ctx context.Context, id string) error
	ListCommentsByBuild(ctx context.Context, buildID string, limit int64) ([]*model.Comment, error)
}

type CommentRepoImpl struct {
	store docstore.Store
}

func NewCommentRepo(store docstore.Store) CommentRepo {
	return &CommentRepoImpl{store: store}
}

func (s *CommentRepoImpl) CreateComment(ctx context.Context, comment *model.Comment) error {
	return s.store.Create(ctx, model.CommentCollection, comment.ID, comment)
}

func (s *CommentRepoImpl) DeleteComment(ctx context.Context, id string) error {
	return s.store.Delete(ctx, model.CommentCollection, id)
}

// ListCommentsByBuild returns comments oldest first.
func (s *CommentRepoImpl) ListCommentsByBuild(ctx context.Context, buildID string, limit int64) ([]*model.Comment, error) {
	comments := make([]*model.Comment, 0)
	err := s.store.Query(ctx, model.CommentCollection, docstore.Query{
		Filters: []docstore.Filter{docstore.Eq("buildId", buildID)},
		OrderBy: "createdAt",
		Limit:   limit,
	}, &comments)
	if err != nil {
		return nil, err
	}
	return comments, nil
}
