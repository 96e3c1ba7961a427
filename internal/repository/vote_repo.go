package repository

import (
	"Buildrs/internal/model"
	"Buildrs/internal/pkg/docstore"
	"context"
	"errors"
)

type VoteRepo interface {
	GetVote(ctx context.Context, userID, buildID string) (*model.Vote, error)
	SaveVote(ctx context.Context, vote *model.Vote) error
	DeleteVote(ctx context.Context, userID, buildID string) error
	CountVotes(ctx context.Context, buildID string, voteType model.VoteType) (int64, error)
}

type VoteRepoImpl struct {
	store docstore.Store
}

func NewVoteRepo(store docstore.Store) VoteRepo {
	return &VoteRepoImpl{store: store}
}

// GetVote returns nil, nil when the user has no active vote on the build.
func (s *VoteRepoImpl) GetVote(ctx context.Context, userID, buildID string) (*model.Vote, error) {
	vote := &model.Vote{}
	err := s.store.Get(ctx, model.VoteCollection, model.VoteID(userID, buildID), vote)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return vote, nil
}

// SaveVote replaces whatever vote the pair had.
func (s *VoteRepoImpl) SaveVote(ctx context.Context, vote *model.Vote) error {
	vote.ID = model.VoteID(vote.UserID, vote.BuildID)
	return s.store.Set(ctx, model.VoteCollection, vote.ID, vote)
}

func (s *VoteRepoImpl) DeleteVote(ctx context.Context, userID, buildID string) error {
	return s.store.Delete(ctx, model.VoteCollection, model.VoteID(userID, buildID))
}

func (s *VoteRepoImpl) CountVotes(ctx context.Context, buildID string, voteType model.VoteType) (int64, error) {
	return s.store.Count(ctx, model.VoteCollection,
		docstore.Eq("buildId", buildID),
		docstore.Eq("voteType", voteType),
	)
}
