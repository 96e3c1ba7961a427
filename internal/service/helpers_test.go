package service

import (
	"Buildrs/internal/model"
	"Buildrs/internal/pkg/docstore"
	"Buildrs/internal/pkg/events"
	"Buildrs/internal/pkg/redis"
	"Buildrs/internal/pkg/wallet"
	"Buildrs/internal/repository"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const (
	aliceKey     = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	aliceAddress = "0x2c7536e3605d9c16a7a3d7b1898e529396a65c23"
	bobKey       = "0x0000000000000000000000000000000000000000000000000000000000000001"
)

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	redis.Rdb = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = redis.Rdb.Close()
	})
	return mr
}

// flakyStore fails Increment calls while failIncrement is set.
type flakyStore struct {
	*docstore.MemoryStore
	failIncrement atomic.Bool
}

func (s *flakyStore) Increment(ctx context.Context, collection, key string, deltas map[string]int64) error {
	if s.failIncrement.Load() {
		return errors.New("connection reset")
	}
	return s.MemoryStore.Increment(ctx, collection, key, deltas)
}

type fixture struct {
	store        *flakyStore
	profileRepo  repository.ProfileRepo
	buildRepo    repository.BuildRepo
	voteRepo     repository.VoteRepo
	activityRepo repository.ActivityRepo
	followRepo   repository.FollowRepo
	commentRepo  repository.CommentRepo
	publisher    events.Publisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := &flakyStore{MemoryStore: docstore.NewMemoryStore()}
	activityRepo := repository.NewActivityRepo(store)
	return &fixture{
		store:        store,
		profileRepo:  repository.NewProfileRepo(store),
		buildRepo:    repository.NewBuildRepo(store),
		voteRepo:     repository.NewVoteRepo(store),
		activityRepo: activityRepo,
		followRepo:   repository.NewFollowRepo(store),
		commentRepo:  repository.NewCommentRepo(store),
		publisher:    events.NewLedgerPublisher(activityRepo),
	}
}

func (f *fixture) addProfile(t *testing.T, p *model.Profile) *model.Profile {
	t.Helper()
	if p.ID == "" {
		p.ID = p.WalletAddress
	}
	require.NoError(t, f.profileRepo.CreateProfile(context.Background(), p))
	return p
}

func (f *fixture) addBuild(t *testing.T, id, owner string) *model.Build {
	t.Helper()
	b := &model.Build{
		ID:        id,
		UserID:    owner,
		Type:      model.BuildTypeLaunch,
		Title:     "build " + id,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, f.buildRepo.CreateBuild(context.Background(), b))
	return b
}

func (f *fixture) build(t *testing.T, id string) *model.Build {
	t.Helper()
	b, err := f.buildRepo.GetBuildByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, b)
	return b
}

func testSigner(t *testing.T, key string) *wallet.KeySigner {
	t.Helper()
	s, err := wallet.NewKeySigner(key)
	require.NoError(t, err)
	return s
}

type signerFunc func(ctx context.Context, message string) (string, error)

func (f signerFunc) SignMessage(ctx context.Context, message string) (string, error) {
	return f(ctx, message)
}

func docstoreAll() docstore.Query {
	return docstore.Query{OrderBy: "createdAt"}
}
