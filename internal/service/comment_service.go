package service

import (
	"Buildrs/internal/api/dto"
	"Buildrs/internal/model"
	"Buildrs/internal/pkg/consts"
	"Buildrs/internal/pkg/docstore"
	"Buildrs/internal/pkg/redis"
	"Buildrs/internal/pkg/wallet"
	"Buildrs/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CommentService interface {
	CreateComment(ctx context.Context, userID, buildID string, req *dto.CommentCreateDTO) (*model.Comment, error)
	ListComments(ctx context.Context, buildID string, limit int64) ([]*model.Comment, error)
}

type commentServiceImpl struct {
	commentRepo repository.CommentRepo
	buildRepo   repository.BuildRepo
	now         func() time.Time
}

func NewCommentService(commentRepo repository.CommentRepo, buildRepo repository.BuildRepo) CommentService {
	return &commentServiceImpl{
		commentRepo: commentRepo,
		buildRepo:   buildRepo,
		now:         time.Now,
	}
}

func (s *commentServiceImpl) CreateComment(ctx context.Context, userID, buildID string, req *dto.CommentCreateDTO) (*model.Comment, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrParamInvalid
	}

	build, err := s.buildRepo.GetBuildByID(ctx, buildID)
	if err != nil {
		return nil, storeError(err)
	}
	if build == nil {
		return nil, ErrBuildNotFound
	}

	now := storeTime(s.now())
	comment := &model.Comment{
		ID:        uuid.NewString(),
		UserID:    wallet.NormalizeAddress(userID),
		BuildID:   buildID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = s.commentRepo.CreateComment(ctx, comment); err != nil {
		return nil, storeError(err)
	}

	if err = s.buildRepo.IncrementCounters(ctx, buildID, map[string]int64{"commentCount": 1}); err != nil {
		if delErr := s.commentRepo.DeleteComment(context.WithoutCancel(ctx), comment.ID); delErr != nil {
			log.ErrorContext(ctx, "remove comment after counter failure failed", "comment_id", comment.ID, "err", delErr)
		}
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrBuildNotFound
		}
		return nil, storeError(err)
	}

	if err = redis.SAdd(ctx, consts.ProfileAggregateDirtyKey, build.UserID); err != nil {
		log.WarnContext(ctx, "mark profile aggregate dirty failed", "address", build.UserID, "err", err)
	}
	return comment, nil
}

func (s *commentServiceImpl) ListComments(ctx context.Context, buildID string, limit int64) ([]*model.Comment, error) {
	comments, err := s.commentRepo.ListCommentsByBuild(ctx, buildID,
		clampLimit(limit, consts.DefaultBuildListLimit, consts.MaxBuildListLimit))
	if err != nil {
		return nil, storeError(err)
	}
	return comments, nil
}
