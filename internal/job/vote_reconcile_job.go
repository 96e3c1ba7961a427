package job

import (
	"Buildrs/internal/pkg/consts"
	"Buildrs/internal/pkg/logger"
	"Buildrs/internal/pkg/redis"
	"Buildrs/internal/service"
	log "log/slog"
)

// VoteReconcileJob recounts vote records for every build voted on since the last run and writes
// the exact totals back onto the build. Owners of touched builds are queued for aggregation.
type VoteReconcileJob struct {
	voteSvc service.VoteService
}

func NewVoteReconcileJob(voteSvc service.VoteService) *VoteReconcileJob {
	return &VoteReconcileJob{voteSvc: voteSvc}
}

func (s *VoteReconcileJob) Run() {
	ctx := logger.JobContext("job-vote")

	processingKey := consts.BuildVoteDirtyKey + ":processing"
	err := redis.Rename(ctx, consts.BuildVoteDirtyKey, processingKey)
	if err != nil {
		return
	}

	buildIDs, err := redis.GetSet(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "get build vote dirty set error", "err", err)
		return
	}

	owners := make(map[string]struct{})
	failed := make([]interface{}, 0)
	for _, id := range buildIDs {
		ownerID, err := s.voteSvc.ReconcileBuildVotes(ctx, id)
		if err != nil {
			log.ErrorContext(ctx, "reconcile build votes error", "build_id", id, "err", err)
			failed = append(failed, id)
			continue
		}
		if ownerID != "" {
			owners[ownerID] = struct{}{}
		}
	}

	if len(owners) > 0 {
		members := make([]interface{}, 0, len(owners))
		for id := range owners {
			members = append(members, id)
		}
		if err = redis.SAdd(ctx, consts.ProfileAggregateDirtyKey, members...); err != nil {
			log.ErrorContext(ctx, "mark profile aggregates dirty error", "err", err)
		}
	}

	if len(failed) > 0 {
		if err = redis.SAdd(ctx, consts.BuildVoteDirtyKey, failed...); err != nil {
			log.ErrorContext(ctx, "requeue failed builds error", "err", err)
		}
	}

	if err = redis.DeleteKey(ctx, processingKey); err != nil {
		log.ErrorContext(ctx, "delete build vote processing set error", "err", err)
	}

	log.InfoContext(ctx, "reconcile build votes success",
		"build_count", len(buildIDs),
		"owner_count", len(owners),
		"failed_count", len(failed))
}
