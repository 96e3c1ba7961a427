package service

import (
	"Buildrs/internal/model"
	"Buildrs/internal/pkg/events"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) GetProfileByAddress(ctx context.Context, address string) (*model.Profile, error) {
	args := m.Called(ctx, address)
	p, _ := args.Get(0).(*model.Profile)
	return p, args.Error(1)
}

func (m *mockProfileRepo) GetProfileByUsername(ctx context.Context, username string) (*model.Profile, error) {
	args := m.Called(ctx, username)
	p, _ := args.Get(0).(*model.Profile)
	return p, args.Error(1)
}

func (m *mockProfileRepo) CreateProfile(ctx context.Context, profile *model.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *mockProfileRepo) UpdateProfile(ctx context.Context, address string, fields map[string]any) error {
	return m.Called(ctx, address, fields).Error(0)
}

func (m *mockProfileRepo) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).([]*model.Profile)
	return p, args.Error(1)
}

func (m *mockProfileRepo) CountProfiles(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProfileRepo) CountActiveProfiles(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProfileRepo) ListActiveProfiles(ctx context.Context) ([]*model.Profile, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).([]*model.Profile)
	return p, args.Error(1)
}

func TestFinalScore(t *testing.T) {
	assert.Equal(t, int64(78), FinalScore(100, 50, 3))
	assert.Equal(t, int64(0), FinalScore(0, 0, 0))
	assert.Equal(t, int64(10), FinalScore(0, 0, 10))
	// 1*0.6 + 0*0.3 + 0 = 0.6 rounds up
	assert.Equal(t, int64(1), FinalScore(1, 0, 0))
}

func TestStreakBonus_Capped(t *testing.T) {
	assert.Equal(t, int64(30), StreakBonus(3))
	assert.Equal(t, StreakBonus(10), StreakBonus(50))
	assert.Equal(t, int64(100), StreakBonus(50))
	assert.Equal(t, int64(0), StreakBonus(-2))
}

func TestRankEntries_DistinctRanksWithAddressTieBreak(t *testing.T) {
	entries := []*model.LeaderboardEntry{
		{Profile: model.Profile{WalletAddress: "0xd"}, FinalScore: 50},
		{Profile: model.Profile{WalletAddress: "0xc"}, FinalScore: 78},
		{Profile: model.Profile{WalletAddress: "0xa"}, FinalScore: 90},
		{Profile: model.Profile{WalletAddress: "0xb"}, FinalScore: 78},
	}
	RankEntries(entries)

	var ranks []int
	var addrs []string
	for _, e := range entries {
		ranks = append(ranks, e.Rank)
		addrs = append(addrs, e.WalletAddress)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, ranks)
	assert.Equal(t, []string{"0xa", "0xb", "0xc", "0xd"}, addrs)
}

func TestCurrentStreak(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	day := func(offset int) time.Time { return now.AddDate(0, 0, -offset) }

	assert.Equal(t, int64(3), CurrentStreak([]time.Time{day(0), day(1), day(2), day(4)}, now, 0))
	assert.Equal(t, int64(2), CurrentStreak([]time.Time{day(1), day(2)}, now, 0), "streak may end yesterday")
	assert.Equal(t, int64(0), CurrentStreak([]time.Time{day(2), day(3)}, now, 0))
	assert.Equal(t, int64(2), CurrentStreak([]time.Time{day(0), day(0), day(1)}, now, 0))
	assert.Equal(t, int64(7), CurrentStreak([]time.Time{day(0), day(1), day(2), day(3), day(4), day(5), day(6), day(7), day(8)}, now, 7))
	assert.Equal(t, int64(0), CurrentStreak(nil, now, 0))
}

func TestComputeLeaderboard_AllTime(t *testing.T) {
	ctx := context.Background()
	setupRedis(t)
	f := newFixture(t)
	f.addProfile(t, &model.Profile{WalletAddress: "0xaaa", BuilderScore: 100, TotalUpvotes: 50, BuildStreak: 3})
	f.addProfile(t, &model.Profile{WalletAddress: "0xbbb", BuilderScore: 150})
	f.addProfile(t, &model.Profile{WalletAddress: "0xccc", BuilderScore: 10, BuildStreak: 50})

	svc := NewLeaderboardService(f.profileRepo, f.buildRepo, f.activityRepo, 0)
	board := svc.ComputeLeaderboard(ctx, model.PeriodAll)

	require.Len(t, board, 3)
	assert.Equal(t, "0xbbb", board[0].WalletAddress)
	assert.Equal(t, int64(90), board[0].FinalScore)
	assert.Equal(t, "0xaaa", board[1].WalletAddress)
	assert.Equal(t, int64(78), board[1].FinalScore)
	assert.Equal(t, "0xccc", board[2].WalletAddress)
	assert.Equal(t, int64(16), board[2].FinalScore)
	assert.Equal(t, 3, board[2].Rank)
}

func TestComputeLeaderboard_WeekUsesLedger(t *testing.T) {
	ctx := context.Background()
	setupRedis(t)
	f := newFixture(t)
	f.addProfile(t, &model.Profile{WalletAddress: "0xaaa", BuilderScore: 10, TotalUpvotes: 1000, BuildStreak: 40})

	now := time.Now()
	pub := events.NewLedgerPublisher(f.activityRepo)
	entries := []*model.Activity{
		events.NewActivity(model.ActivityVoteCast, "0xv1", "0xaaa", "b1", model.Upvote, 1, now.Add(-time.Hour)),
		events.NewActivity(model.ActivityVoteCast, "0xv2", "0xaaa", "b1", model.Upvote, 1, now.Add(-2*time.Hour)),
		events.NewActivity(model.ActivityVoteRemoved, "0xv2", "0xaaa", "b1", model.Upvote, -1, now.Add(-time.Minute)),
		events.NewActivity(model.ActivityVoteCast, "0xv3", "0xaaa", "b1", model.Downvote, 1, now.Add(-time.Minute)),
		events.NewActivity(model.ActivityVoteCast, "0xv4", "0xaaa", "b0", model.Upvote, 1, now.AddDate(0, 0, -10)),
		events.NewActivity(model.ActivityBuildCreated, "0xaaa", "0xaaa", "b1", model.VoteNone, 0, now),
		events.NewActivity(model.ActivityBuildCreated, "0xaaa", "0xaaa", "b2", model.VoteNone, 0, now.AddDate(0, 0, -1)),
	}
	for _, a := range entries {
		require.NoError(t, pub.Publish(ctx, a))
	}

	svc := NewLeaderboardService(f.profileRepo, f.buildRepo, f.activityRepo, 0)

	week := svc.ComputeLeaderboard(ctx, model.PeriodWeek)
	require.Len(t, week, 1)
	assert.Equal(t, int64(1), week[0].TotalUpvotes)
	assert.Equal(t, int64(2), week[0].BuildStreak)
	assert.Equal(t, FinalScore(10, 1, 2), week[0].FinalScore)

	month := svc.ComputeLeaderboard(ctx, model.PeriodMonth)
	require.Len(t, month, 1)
	assert.Equal(t, int64(2), month[0].TotalUpvotes)

	all := svc.ComputeLeaderboard(ctx, model.PeriodAll)
	assert.Equal(t, int64(1000), all[0].TotalUpvotes)
	assert.Equal(t, FinalScore(10, 1000, 40), all[0].FinalScore)
}

func TestComputeLeaderboard_IgnoresRemovalOfVoteCastBeforeWindow(t *testing.T) {
	ctx := context.Background()
	setupRedis(t)
	f := newFixture(t)
	f.addProfile(t, &model.Profile{WalletAddress: "0xaaa", BuilderScore: 10})

	now := time.Now()
	oldCast := now.AddDate(0, 0, -20)
	removed := events.NewActivity(model.ActivityVoteRemoved, "0xv2", "0xaaa", "b1", model.Upvote, -1, now.Add(-time.Minute))
	removed.CastAt = &oldCast
	inWindow := now.Add(-2 * time.Hour)
	recent := events.NewActivity(model.ActivityVoteRemoved, "0xv3", "0xaaa", "b1", model.Upvote, -1, now.Add(-time.Minute))
	recent.CastAt = &inWindow

	pub := events.NewLedgerPublisher(f.activityRepo)
	for _, a := range []*model.Activity{
		events.NewActivity(model.ActivityVoteCast, "0xv2", "0xaaa", "b1", model.Upvote, 1, oldCast),
		events.NewActivity(model.ActivityVoteCast, "0xv1", "0xaaa", "b1", model.Upvote, 1, now.Add(-time.Hour)),
		events.NewActivity(model.ActivityVoteCast, "0xv3", "0xaaa", "b1", model.Upvote, 1, inWindow),
		events.NewActivity(model.ActivityVoteCast, "0xv4", "0xaaa", "b1", model.Upvote, 1, inWindow),
		removed,
		recent,
	} {
		require.NoError(t, pub.Publish(ctx, a))
	}

	svc := NewLeaderboardService(f.profileRepo, f.buildRepo, f.activityRepo, 0)
	week := svc.ComputeLeaderboard(ctx, model.PeriodWeek)
	require.Len(t, week, 1)
	// v1 and v4 remain; v3 was cast and removed inside the week.
	assert.Equal(t, int64(2), week[0].TotalUpvotes)

	month := svc.ComputeLeaderboard(ctx, model.PeriodMonth)
	require.Len(t, month, 1)
	assert.Equal(t, int64(2), month[0].TotalUpvotes)
}

func TestComputeLeaderboard_StoreFailureYieldsEmpty(t *testing.T) {
	ctx := context.Background()
	setupRedis(t)
	f := newFixture(t)
	repo := &mockProfileRepo{}
	repo.On("ListProfiles", mock.Anything).Return(nil, errors.New("store down"))

	svc := NewLeaderboardService(repo, f.buildRepo, f.activityRepo, time.Minute)
	board := svc.ComputeLeaderboard(ctx, model.PeriodAll)

	assert.NotNil(t, board)
	assert.Empty(t, board)
	repo.AssertExpectations(t)
}

func TestComputeLeaderboard_ServesSnapshot(t *testing.T) {
	ctx := context.Background()
	mr := setupRedis(t)
	f := newFixture(t)
	f.addProfile(t, &model.Profile{WalletAddress: "0xaaa", BuilderScore: 100})

	svc := NewLeaderboardService(f.profileRepo, f.buildRepo, f.activityRepo, time.Minute)
	first := svc.ComputeLeaderboard(ctx, model.PeriodAll)
	require.Len(t, first, 1)

	f.addProfile(t, &model.Profile{WalletAddress: "0xbbb", BuilderScore: 200})
	cached := svc.ComputeLeaderboard(ctx, model.PeriodAll)
	require.Len(t, cached, 1)
	assert.Equal(t, "0xaaa", cached[0].WalletAddress)
	assert.Equal(t, 1, cached[0].Rank)

	mr.FastForward(2 * time.Minute)
	fresh := svc.ComputeLeaderboard(ctx, model.PeriodAll)
	require.Len(t, fresh, 2)
	assert.Equal(t, "0xbbb", fresh[0].WalletAddress)
}

func TestComputeStats(t *testing.T) {
	ctx := context.Background()
	setupRedis(t)
	f := newFixture(t)
	f.addProfile(t, &model.Profile{WalletAddress: "0xaaa", BuildStreak: 2})
	f.addProfile(t, &model.Profile{WalletAddress: "0xbbb"})
	f.addBuild(t, "b1", "0xaaa")
	f.addBuild(t, "b2", "0xaaa")
	require.NoError(t, f.buildRepo.IncrementCounters(ctx, "b1", map[string]int64{"upvotes": 4}))
	require.NoError(t, f.buildRepo.IncrementCounters(ctx, "b2", map[string]int64{"upvotes": 3, "downvotes": 9}))

	stats := NewLeaderboardService(f.profileRepo, f.buildRepo, f.activityRepo, 0).ComputeStats(ctx)
	assert.Equal(t, &model.PlatformStats{
		TotalBuilders:  2,
		TotalBuilds:    2,
		TotalUpvotes:   7,
		ActiveBuilders: 1,
	}, stats)
}

func TestComputeStats_StoreFailureYieldsZero(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	repo := &mockProfileRepo{}
	repo.On("CountProfiles", mock.Anything).Return(int64(0), errors.New("store down"))
	repo.On("CountActiveProfiles", mock.Anything).Return(int64(3), nil).Maybe()

	stats := NewLeaderboardService(repo, f.buildRepo, f.activityRepo, 0).ComputeStats(ctx)
	assert.Equal(t, &model.PlatformStats{}, stats)
}
