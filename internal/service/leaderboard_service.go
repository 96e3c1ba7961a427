package service

import (
	"Buildrs/internal/model"
	"Buildrs/internal/pkg/consts"
	"Buildrs/internal/pkg/redis"
	"Buildrs/internal/repository"
	"context"
	log "log/slog"
	"math"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
)

const (
	builderScoreWeight = 0.6
	upvotesWeight      = 0.3
	streakWeight       = 0.1
	streakPointsPerDay = 10
	maxStreakBonus     = 100
)

type LeaderboardService interface {
	// ComputeLeaderboard never fails; store errors yield an empty board and a log line.
	ComputeLeaderboard(ctx context.Context, period model.Period) []*model.LeaderboardEntry
	// ComputeStats never fails; store errors yield zeroed stats and a log line.
	ComputeStats(ctx context.Context) *model.PlatformStats
}

type leaderboardServiceImpl struct {
	profileRepo  repository.ProfileRepo
	buildRepo    repository.BuildRepo
	activityRepo repository.ActivityRepo
	snapshotTTL  time.Duration
	now          func() time.Time
}

func NewLeaderboardService(
	profileRepo repository.ProfileRepo,
	buildRepo repository.BuildRepo,
	activityRepo repository.ActivityRepo,
	snapshotTTL time.Duration,
) LeaderboardService {
	return &leaderboardServiceImpl{
		profileRepo:  profileRepo,
		buildRepo:    buildRepo,
		activityRepo: activityRepo,
		snapshotTTL:  snapshotTTL,
		now:          time.Now,
	}
}

// StreakBonus is capped, so every streak of 10 days or more scores the same.
func StreakBonus(buildStreak int64) int64 {
	return min(max(buildStreak, 0)*streakPointsPerDay, maxStreakBonus)
}

func FinalScore(builderScore, totalUpvotes, buildStreak int64) int64 {
	score := float64(builderScore)*builderScoreWeight +
		float64(totalUpvotes)*upvotesWeight +
		float64(StreakBonus(buildStreak))*streakWeight
	return int64(math.Round(score))
}

// RankEntries sorts by score descending, then wallet address ascending, and assigns distinct
// 1-based ranks in that order.
func RankEntries(entries []*model.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].FinalScore != entries[j].FinalScore {
			return entries[i].FinalScore > entries[j].FinalScore
		}
		return entries[i].WalletAddress < entries[j].WalletAddress
	})
	for i, e := range entries {
		e.Rank = i + 1
	}
}

// CurrentStreak counts consecutive UTC days holding a build, ending today, or yesterday when today
// has none yet. limit > 0 caps the count at that many days.
func CurrentStreak(buildTimes []time.Time, now time.Time, limit int) int64 {
	days := make(map[string]struct{}, len(buildTimes))
	for _, t := range buildTimes {
		days[dayKey(t)] = struct{}{}
	}

	day := now.UTC()
	if _, ok := days[dayKey(day)]; !ok {
		day = day.AddDate(0, 0, -1)
	}

	var streak int64
	for {
		if _, ok := days[dayKey(day)]; !ok {
			break
		}
		streak++
		if limit > 0 && streak >= int64(limit) {
			break
		}
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func dayKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// WindowDays is the length of a period's window; 0 means unbounded.
func WindowDays(period model.Period) int {
	switch period {
	case model.PeriodWeek:
		return consts.WeekWindowDays
	case model.PeriodMonth:
		return consts.MonthWindowDays
	}
	return 0
}

func (s *leaderboardServiceImpl) ComputeLeaderboard(ctx context.Context, period model.Period) []*model.LeaderboardEntry {
	if !period.Valid() {
		log.WarnContext(ctx, "unknown leaderboard period, using all", "period", period)
		period = model.PeriodAll
	}

	if cached, ok := s.loadSnapshot(ctx, period); ok {
		return cached
	}

	entries, err := s.compute(ctx, period)
	if err != nil {
		log.ErrorContext(ctx, "compute leaderboard failed", "period", period, "err", err)
		return []*model.LeaderboardEntry{}
	}

	s.saveSnapshot(ctx, period, entries)
	return entries
}

func (s *leaderboardServiceImpl) compute(ctx context.Context, period model.Period) ([]*model.LeaderboardEntry, error) {
	profiles, err := s.profileRepo.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	windowDays := WindowDays(period)
	var window *windowTotals
	if windowDays > 0 {
		now := s.now()
		since := now.UTC().AddDate(0, 0, -windowDays)
		activities, err := s.activityRepo.ListActivitiesSince(ctx, since)
		if err != nil {
			return nil, err
		}
		window = aggregateWindow(activities, now, since, windowDays)
	}

	entries := make([]*model.LeaderboardEntry, 0, len(profiles))
	for _, p := range profiles {
		entry := &model.LeaderboardEntry{Profile: *p}
		if window != nil {
			entry.TotalUpvotes = max(window.upvotes[p.ID], 0)
			entry.BuildStreak = window.streaks[p.ID]
		}
		entry.FinalScore = FinalScore(entry.BuilderScore, entry.TotalUpvotes, entry.BuildStreak)
		entries = append(entries, entry)
	}

	RankEntries(entries)
	return entries, nil
}

type windowTotals struct {
	upvotes map[string]int64
	streaks map[string]int64
}

func aggregateWindow(activities []*model.Activity, now, since time.Time, windowDays int) *windowTotals {
	totals := &windowTotals{
		upvotes: make(map[string]int64),
		streaks: make(map[string]int64),
	}
	buildTimes := make(map[string][]time.Time)
	for _, a := range activities {
		if !a.CountsSince(since) {
			continue
		}
		totals.upvotes[a.OwnerID] += a.UpvoteDelta()
		if a.Kind == model.ActivityBuildCreated {
			buildTimes[a.OwnerID] = append(buildTimes[a.OwnerID], a.CreatedAt)
		}
	}
	for owner, times := range buildTimes {
		totals.streaks[owner] = CurrentStreak(times, now, windowDays)
	}
	return totals
}

func (s *leaderboardServiceImpl) ComputeStats(ctx context.Context) *model.PlatformStats {
	stats := &model.PlatformStats{}
	var builds []*model.Build

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalBuilders, err = s.profileRepo.CountProfiles(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveBuilders, err = s.profileRepo.CountActiveProfiles(gctx)
		return err
	})
	g.Go(func() (err error) {
		builds, err = s.buildRepo.ListBuilds(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		log.ErrorContext(ctx, "compute platform stats failed", "err", err)
		return &model.PlatformStats{}
	}

	stats.TotalBuilds = int64(len(builds))
	for _, b := range builds {
		stats.TotalUpvotes += b.Upvotes
	}
	return stats
}

func (s *leaderboardServiceImpl) loadSnapshot(ctx context.Context, period model.Period) ([]*model.LeaderboardEntry, bool) {
	if s.snapshotTTL <= 0 {
		return nil, false
	}
	value, err := redis.GetValue(ctx, consts.LeaderboardSnapshotKey+string(period))
	if err != nil {
		log.WarnContext(ctx, "read leaderboard snapshot failed", "period", period, "err", err)
		return nil, false
	}
	if value == "" {
		return nil, false
	}
	var entries []*model.LeaderboardEntry
	if err = json.Unmarshal([]byte(value), &entries); err != nil {
		log.WarnContext(ctx, "decode leaderboard snapshot failed", "period", period, "err", err)
		return nil, false
	}
	return entries, true
}

func (s *leaderboardServiceImpl) saveSnapshot(ctx context.Context, period model.Period, entries []*model.LeaderboardEntry) {
	if s.snapshotTTL <= 0 {
		return
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err = redis.SetWithExpiration(ctx, consts.LeaderboardSnapshotKey+string(period), data, s.snapshotTTL); err != nil {
		log.WarnContext(ctx, "write leaderboard snapshot failed", "period", period, "err", err)
	}
}
