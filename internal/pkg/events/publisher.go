// Package events carries activity ledger entries from the services that produce them to the ledger.
package events

import (
	"Buildrs/internal/model"
	"Buildrs/internal/repository"
	"context"
	"time"

	"github.com/google/uuid"
)

type Publisher interface {
	Publish(ctx context.Context, activity *model.Activity) error
}

// LedgerPublisher writes straight to the ledger when no broker is configured.
type LedgerPublisher struct {
	activityRepo repository.ActivityRepo
}

func NewLedgerPublisher(activityRepo repository.ActivityRepo) *LedgerPublisher {
	return &LedgerPublisher{activityRepo: activityRepo}
}

func (p *LedgerPublisher) Publish(ctx context.Context, activity *model.Activity) error {
	return p.activityRepo.AppendActivity(ctx, activity)
}

func NewActivity(kind model.ActivityKind, actorID, ownerID, buildID string, voteType model.VoteType, delta int64, at time.Time) *model.Activity {
	return &model.Activity{
		ID:        uuid.NewString(),
		Kind:      kind,
		ActorID:   actorID,
		OwnerID:   ownerID,
		BuildID:   buildID,
		VoteType:  voteType,
		Delta:     delta,
		CreatedAt: at,
	}
}
