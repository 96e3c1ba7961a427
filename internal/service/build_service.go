package service

import (
	"Buildrs/internal/api/dto"
	"Buildrs/internal/model"
	"Buildrs/internal/pkg/consts"
	"Buildrs/internal/pkg/events"
	"Buildrs/internal/pkg/redis"
	"Buildrs/internal/pkg/util"
	"Buildrs/internal/pkg/wallet"
	"Buildrs/internal/repository"
	"context"
	log "log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BuildService interface {
	CreateBuild(ctx context.Context, userID string, req *dto.BuildCreateDTO) (*model.Build, error)
	GetBuild(ctx context.Context, id string) (*model.Build, error)
	ListLatestBuilds(ctx context.Context, query *dto.BuildListQuery) ([]*model.Build, error)
	ListBuildsByUser(ctx context.Context, userID string, limit int64) ([]*model.Build, error)
}

type buildServiceImpl struct {
	buildRepo   repository.BuildRepo
	profileRepo repository.ProfileRepo
	publisher   events.Publisher
	now         func() time.Time
}

func NewBuildService(buildRepo repository.BuildRepo, profileRepo repository.ProfileRepo, publisher events.Publisher) BuildService {
	return &buildServiceImpl{
		buildRepo:   buildRepo,
		profileRepo: profileRepo,
		publisher:   publisher,
		now:         time.Now,
	}
}

func (s *buildServiceImpl) CreateBuild(ctx context.Context, userID string, req *dto.BuildCreateDTO) (*model.Build, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	buildType := model.BuildType(strings.TrimSpace(req.Type))
	if !buildType.Valid() {
		return nil, ErrInvalidBuildType
	}
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		return nil, ErrParamInvalid
	}
	tags := util.NormalizeTags(req.Tags)
	if len(tags) > consts.MaxBuildTags {
		return nil, ErrTooManyTags
	}
	if err := util.ValidateDTO(&req.Links); err != nil {
		return nil, ErrParamInvalid
	}

	userID = wallet.NormalizeAddress(userID)
	owner, err := s.profileRepo.GetProfileByAddress(ctx, userID)
	if err != nil {
		return nil, storeError(err)
	}
	if owner == nil {
		return nil, ErrProfileNotFound
	}

	build := &model.Build{}
	if err = copier.Copy(build, req); err != nil {
		return nil, err
	}
	now := storeTime(s.now())
	build.ID = uuid.NewString()
	build.UserID = userID
	build.Type = buildType
	build.Title = title
	build.Description = description
	build.Tags = tags
	build.Links = model.BuildLinks(req.Links)
	build.Media = util.NormalizeSet(req.Media)
	build.Upvotes, build.Downvotes, build.CommentCount = 0, 0, 0
	build.CreatedAt = now
	build.UpdatedAt = now

	if err = s.buildRepo.CreateBuild(ctx, build); err != nil {
		return nil, storeError(err)
	}

	if req.CompleteOnboarding && !owner.OnboardingCompleted {
		err = s.profileRepo.UpdateProfile(ctx, userID, map[string]any{
			"onboardingCompleted": true,
			"updatedAt":           now,
		})
		if err != nil {
			log.WarnContext(ctx, "complete onboarding after first build failed", "address", userID, "err", err)
		}
	}

	if err = redis.SAdd(ctx, consts.ProfileAggregateDirtyKey, userID); err != nil {
		log.WarnContext(ctx, "mark profile aggregate dirty failed", "address", userID, "err", err)
	}
	activity := events.NewActivity(model.ActivityBuildCreated, userID, userID, build.ID, model.VoteNone, 0, now)
	if err = s.publisher.Publish(ctx, activity); err != nil {
		log.WarnContext(ctx, "publish build activity failed", "build_id", build.ID, "err", err)
	}

	return build, nil
}

func (s *buildServiceImpl) GetBuild(ctx context.Context, id string) (*model.Build, error) {
	build, err := s.buildRepo.GetBuildByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if build == nil {
		return nil, ErrBuildNotFound
	}
	return build, nil
}

func (s *buildServiceImpl) ListLatestBuilds(ctx context.Context, query *dto.BuildListQuery) ([]*model.Build, error) {
	filter := repository.BuildFilter{
		Tag:   strings.ToLower(strings.TrimLeft(strings.TrimSpace(query.Tag), "#")),
		Limit: clampLimit(query.Limit, consts.DefaultBuildListLimit, consts.MaxBuildListLimit),
	}
	if query.Type != "" {
		filter.Type = model.BuildType(query.Type)
		if !filter.Type.Valid() {
			return nil, ErrInvalidBuildType
		}
	}

	builds, err := s.buildRepo.ListLatestBuilds(ctx, filter)
	if err != nil {
		return nil, storeError(err)
	}
	return builds, nil
}

func (s *buildServiceImpl) ListBuildsByUser(ctx context.Context, userID string, limit int64) ([]*model.Build, error) {
	builds, err := s.buildRepo.ListBuildsByUser(ctx, wallet.NormalizeAddress(userID),
		clampLimit(limit, consts.DefaultBuildListLimit, consts.MaxBuildListLimit))
	if err != nil {
		return nil, storeError(err)
	}
	return builds, nil
}
