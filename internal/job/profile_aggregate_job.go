package job

import (
	"Buildrs/internal/pkg/consts"
	"Buildrs/internal/pkg/logger"
	"Buildrs/internal/pkg/redis"
	"Buildrs/internal/service"
	"context"
	log "log/slog"
)

// ProfileAggregateJob refreshes totalUpvotes and buildStreak for profiles whose builds changed,
// then recomputes every running streak so builders who stopped posting lose it.
type ProfileAggregateJob struct {
	profileSvc service.ProfileService
}

func NewProfileAggregateJob(profileSvc service.ProfileService) *ProfileAggregateJob {
	return &ProfileAggregateJob{profileSvc: profileSvc}
}

func (s *ProfileAggregateJob) Run() {
	ctx := logger.JobContext("job-profile")

	synced := s.syncDirty(ctx)
	s.decayStreaks(ctx, synced)
}

func (s *ProfileAggregateJob) syncDirty(ctx context.Context) map[string]struct{} {
	synced := make(map[string]struct{})
	processingKey := consts.ProfileAggregateDirtyKey + ":processing"
	err := redis.Rename(ctx, consts.ProfileAggregateDirtyKey, processingKey)
	if err != nil {
		return synced
	}

	addresses, err := redis.GetSet(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "get profile dirty set error", "err", err)
		return synced
	}

	for _, address := range addresses {
		if err = s.profileSvc.SyncProfileAggregates(ctx, address); err != nil {
			log.ErrorContext(ctx, "sync profile aggregates error", "address", address, "err", err)
			if err = redis.SAdd(ctx, consts.ProfileAggregateDirtyKey, address); err != nil {
				log.ErrorContext(ctx, "requeue profile error", "address", address, "err", err)
			}
			continue
		}
		synced[address] = struct{}{}
	}

	if err = redis.DeleteKey(ctx, processingKey); err != nil {
		log.ErrorContext(ctx, "delete profile processing set error", "err", err)
	}

	log.InfoContext(ctx, "sync profile aggregates success", "profile_count", len(synced))
	return synced
}

func (s *ProfileAggregateJob) decayStreaks(ctx context.Context, skip map[string]struct{}) {
	addresses, err := s.profileSvc.ListStreakingAddresses(ctx)
	if err != nil {
		log.ErrorContext(ctx, "list streaking profiles error", "err", err)
		return
	}

	refreshed := 0
	for _, address := range addresses {
		if _, ok := skip[address]; ok {
			continue
		}
		if err = s.profileSvc.SyncProfileAggregates(ctx, address); err != nil {
			log.ErrorContext(ctx, "refresh build streak error", "address", address, "err", err)
			continue
		}
		refreshed++
	}
	if refreshed > 0 {
		log.InfoContext(ctx, "refresh build streaks success", "profile_count", refreshed)
	}
}
