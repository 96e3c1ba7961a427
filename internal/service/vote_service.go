package service

import (
	"Buildrs/internal/model"
	"Buildrs/internal/pkg/consts"
	"Buildrs/internal/pkg/events"
	"Buildrs/internal/pkg/redis"
	"Buildrs/internal/pkg/wallet"
	"Buildrs/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	voteLockTTL     = 5 * time.Second
	voteLockRetries = 20
)

type VoteService interface {
	CastVote(ctx context.Context, buildID, userID string, voteType model.VoteType) (*model.VoteState, error)
	GetVoteState(ctx context.Context, buildID, userID string) (*model.VoteState, error)
	ReconcileBuildVotes(ctx context.Context, buildID string) (string, error)
}

type voteServiceImpl struct {
	buildRepo repository.BuildRepo
	voteRepo  repository.VoteRepo
	publisher events.Publisher
	now       func() time.Time
}

func NewVoteService(buildRepo repository.BuildRepo, voteRepo repository.VoteRepo, publisher events.Publisher) VoteService {
	return &voteServiceImpl{
		buildRepo: buildRepo,
		voteRepo:  voteRepo,
		publisher: publisher,
		now:       time.Now,
	}
}

// CastVote applies the toggle/switch rules for one (user, build) pair: the same type again removes
// the vote, the opposite type replaces it. Counter deltas go to the build in one atomic increment.
func (s *voteServiceImpl) CastVote(ctx context.Context, buildID, userID string, voteType model.VoteType) (*model.VoteState, error) {
	userID = wallet.NormalizeAddress(userID)
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if !voteType.Valid() {
		return nil, ErrInvalidVoteType
	}
	if buildID == "" {
		return nil, ErrParamInvalid
	}

	lockKey := consts.VoteLock + model.VoteID(userID, buildID)
	token := uuid.NewString()
	locked, err := redis.TryLock(ctx, lockKey, token, voteLockTTL, voteLockRetries)
	if err != nil {
		return nil, storeError(err)
	}
	if !locked {
		return nil, ErrVoteInProgress
	}
	defer redis.UnLock(context.WithoutCancel(ctx), lockKey, token)

	build, err := s.buildRepo.GetBuildByID(ctx, buildID)
	if err != nil {
		return nil, storeError(err)
	}
	if build == nil {
		return nil, ErrBuildNotFound
	}

	existing, err := s.voteRepo.GetVote(ctx, userID, buildID)
	if err != nil {
		return nil, storeError(err)
	}

	prior := model.VoteNone
	if existing != nil {
		prior = existing.VoteType
	}
	final := voteType
	if prior == voteType {
		final = model.VoteNone
	}

	deltas := make(map[string]int64, 2)
	if prior != model.VoteNone {
		deltas[prior.CounterField()]--
	}
	if final != model.VoteNone {
		deltas[final.CounterField()]++
	}

	// Mark before writing so a crash between the two writes is still reconciled.
	if err = redis.SAdd(ctx, consts.BuildVoteDirtyKey, buildID); err != nil {
		log.WarnContext(ctx, "mark build vote dirty failed", "build_id", buildID, "err", err)
	}

	if final == model.VoteNone {
		err = s.voteRepo.DeleteVote(ctx, userID, buildID)
	} else {
		err = s.voteRepo.SaveVote(ctx, &model.Vote{
			UserID:    userID,
			BuildID:   buildID,
			VoteType:  final,
			CreatedAt: storeTime(s.now()),
		})
	}
	if err != nil {
		return nil, storeError(err)
	}

	if err = s.buildRepo.IncrementCounters(ctx, buildID, deltas); err != nil {
		s.restoreVote(ctx, existing, userID, buildID)
		return nil, storeError(err)
	}

	s.publishVoteActivity(ctx, build, userID, existing, final)

	state := &model.VoteState{
		Upvotes:   max(build.Upvotes+deltas["upvotes"], 0),
		Downvotes: max(build.Downvotes+deltas["downvotes"], 0),
		UserVote:  final,
	}
	if updated, err := s.buildRepo.GetBuildByID(ctx, buildID); err == nil && updated != nil {
		state.Upvotes = max(updated.Upvotes, 0)
		state.Downvotes = max(updated.Downvotes, 0)
	}
	return state, nil
}

func (s *voteServiceImpl) GetVoteState(ctx context.Context, buildID, userID string) (*model.VoteState, error) {
	build, err := s.buildRepo.GetBuildByID(ctx, buildID)
	if err != nil {
		return nil, storeError(err)
	}
	if build == nil {
		return nil, ErrBuildNotFound
	}

	state := &model.VoteState{Upvotes: build.Upvotes, Downvotes: build.Downvotes}
	userID = wallet.NormalizeAddress(userID)
	if userID == "" {
		return state, nil
	}
	vote, err := s.voteRepo.GetVote(ctx, userID, buildID)
	if err != nil {
		return nil, storeError(err)
	}
	if vote != nil {
		state.UserVote = vote.VoteType
	}
	return state, nil
}

// ReconcileBuildVotes recounts a build's counters from its Vote records and returns the owner.
// A missing build returns "", nil.
func (s *voteServiceImpl) ReconcileBuildVotes(ctx context.Context, buildID string) (string, error) {
	build, err := s.buildRepo.GetBuildByID(ctx, buildID)
	if err != nil {
		return "", storeError(err)
	}
	if build == nil {
		return "", nil
	}

	upvotes, err := s.voteRepo.CountVotes(ctx, buildID, model.Upvote)
	if err != nil {
		return "", storeError(err)
	}
	downvotes, err := s.voteRepo.CountVotes(ctx, buildID, model.Downvote)
	if err != nil {
		return "", storeError(err)
	}

	if upvotes != build.Upvotes || downvotes != build.Downvotes {
		log.InfoContext(ctx, "build vote counters drifted",
			"build_id", buildID,
			"upvotes", build.Upvotes, "actual_upvotes", upvotes,
			"downvotes", build.Downvotes, "actual_downvotes", downvotes)
	}
	if err = s.buildRepo.SetVoteCounts(ctx, buildID, upvotes, downvotes); err != nil {
		return "", storeError(err)
	}
	return build.UserID, nil
}

// restoreVote puts the vote record back the way it was before a failed counter write.
func (s *voteServiceImpl) restoreVote(ctx context.Context, previous *model.Vote, userID, buildID string) {
	ctx = context.WithoutCancel(ctx)
	var err error
	if previous == nil {
		err = s.voteRepo.DeleteVote(ctx, userID, buildID)
	} else {
		err = s.voteRepo.SaveVote(ctx, previous)
	}
	if err != nil {
		log.ErrorContext(ctx, "restore vote record failed, left for reconciliation",
			"build_id", buildID, "user_id", userID, "err", err)
	}
}

func (s *voteServiceImpl) publishVoteActivity(ctx context.Context, build *model.Build, userID string, previous *model.Vote, final model.VoteType) {
	now := storeTime(s.now())
	var entries []*model.Activity
	if previous != nil {
		removed := events.NewActivity(model.ActivityVoteRemoved, userID, build.UserID, build.ID, previous.VoteType, -1, now)
		castAt := storeTime(previous.CreatedAt)
		removed.CastAt = &castAt
		entries = append(entries, removed)
	}
	if final != model.VoteNone {
		entries = append(entries, events.NewActivity(model.ActivityVoteCast, userID, build.UserID, build.ID, final, 1, now))
	}
	for _, a := range entries {
		if err := s.publisher.Publish(ctx, a); err != nil {
			log.WarnContext(ctx, "publish vote activity failed", "build_id", build.ID, "kind", a.Kind, "err", err)
		}
	}
}
