package job

import (
	"Buildrs/internal/model"
	"Buildrs/internal/pkg/consts"
	"Buildrs/internal/pkg/docstore"
	"Buildrs/internal/pkg/events"
	"Buildrs/internal/pkg/redis"
	"Buildrs/internal/repository"
	"Buildrs/internal/service"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ownerAddress = "0x1111111111111111111111111111111111111111"
	voterAddress = "0x2222222222222222222222222222222222222222"
)

type jobFixture struct {
	mr          *miniredis.Miniredis
	profileRepo repository.ProfileRepo
	buildRepo   repository.BuildRepo
	voteRepo    repository.VoteRepo
	voteJob     *VoteReconcileJob
	profileJob  *ProfileAggregateJob
}

func newJobFixture(t *testing.T) *jobFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	redis.Rdb = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = redis.Rdb.Close()
	})

	store := docstore.NewMemoryStore()
	profileRepo := repository.NewProfileRepo(store)
	buildRepo := repository.NewBuildRepo(store)
	voteRepo := repository.NewVoteRepo(store)
	publisher := events.NewLedgerPublisher(repository.NewActivityRepo(store))

	return &jobFixture{
		mr:          mr,
		profileRepo: profileRepo,
		buildRepo:   buildRepo,
		voteRepo:    voteRepo,
		voteJob:     NewVoteReconcileJob(service.NewVoteService(buildRepo, voteRepo, publisher)),
		profileJob:  NewProfileAggregateJob(service.NewProfileService(profileRepo, buildRepo, repository.NewFollowRepo(store))),
	}
}

func TestVoteReconcileJob_FixesDriftAndQueuesOwner(t *testing.T) {
	f := newJobFixture(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	require.NoError(t, f.profileRepo.CreateProfile(ctx, service.NewDefaultProfile(ownerAddress, now)))
	require.NoError(t, f.buildRepo.CreateBuild(ctx, &model.Build{
		ID: "b1", UserID: ownerAddress, Type: model.BuildTypeLaunch, Title: "t", Description: "d",
		Tags: []string{}, Media: []string{}, Upvotes: 5, Downvotes: 2, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, f.voteRepo.SaveVote(ctx, &model.Vote{
		ID: model.VoteID(voterAddress, "b1"), UserID: voterAddress, BuildID: "b1", VoteType: model.Upvote, CreatedAt: now,
	}))
	require.NoError(t, redis.SAdd(ctx, consts.BuildVoteDirtyKey, "b1", "missing-build"))

	f.voteJob.Run()

	b, err := f.buildRepo.GetBuildByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.Upvotes)
	assert.Equal(t, int64(0), b.Downvotes)

	assert.False(t, f.mr.Exists(consts.BuildVoteDirtyKey))
	assert.False(t, f.mr.Exists(consts.BuildVoteDirtyKey+":processing"))
	members, err := f.mr.Members(consts.ProfileAggregateDirtyKey)
	require.NoError(t, err)
	assert.Equal(t, []string{ownerAddress}, members)

	f.profileJob.Run()

	p, err := f.profileRepo.GetProfileByAddress(ctx, ownerAddress)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.TotalUpvotes)
	assert.Equal(t, int64(1), p.BuildStreak)
	assert.False(t, f.mr.Exists(consts.ProfileAggregateDirtyKey))
}

func TestProfileAggregateJob_EndsLapsedStreak(t *testing.T) {
	f := newJobFixture(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	old := now.AddDate(0, 0, -20)

	require.NoError(t, f.profileRepo.CreateProfile(ctx, service.NewDefaultProfile(ownerAddress, old)))
	require.NoError(t, f.profileRepo.UpdateProfile(ctx, ownerAddress, map[string]any{"buildStreak": int64(5)}))
	require.NoError(t, f.buildRepo.CreateBuild(ctx, &model.Build{
		ID: "b1", UserID: ownerAddress, Type: model.BuildTypeLaunch, Title: "t", Description: "d",
		Tags: []string{}, Media: []string{}, CreatedAt: old, UpdatedAt: old,
	}))

	f.voteJob.Run()
	f.profileJob.Run()

	p, err := f.profileRepo.GetProfileByAddress(ctx, ownerAddress)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.BuildStreak)
	active, err := f.profileRepo.CountActiveProfiles(ctx)
	require.NoError(t, err)
	assert.Zero(t, active)
}

func TestJobs_NoDirtySetIsNoop(t *testing.T) {
	f := newJobFixture(t)

	f.voteJob.Run()
	f.profileJob.Run()

	assert.False(t, f.mr.Exists(consts.ProfileAggregateDirtyKey))
	assert.False(t, f.mr.Exists(consts.BuildVoteDirtyKey+":processing"))
}
