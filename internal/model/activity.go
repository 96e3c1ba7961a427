package model

import "time"

type ActivityKind string

const (
	ActivityVoteCast     ActivityKind = "vote_cast"
	ActivityVoteRemoved  ActivityKind = "vote_removed"
	ActivityBuildCreated ActivityKind = "build_created"
)

// Activity is one entry of the timestamped ledger used for windowed leaderboards. OwnerID is the
// profile credited: the build owner for votes, the author for builds. CastAt is set on
// vote_removed entries to the time the removed vote was cast.
type Activity struct {
	ID        string       `bson:"_id" json:"id"`
	Kind      ActivityKind `bson:"kind" json:"kind"`
	ActorID   string       `bson:"actorId" json:"actorId"`
	OwnerID   string       `bson:"ownerId" json:"ownerId"`
	BuildID   string       `bson:"buildId" json:"buildId"`
	VoteType  VoteType     `bson:"voteType,omitempty" json:"voteType,omitempty"`
	Delta     int64        `bson:"delta" json:"delta"`
	CreatedAt time.Time    `bson:"createdAt" json:"createdAt"`
	CastAt    *time.Time   `bson:"castAt,omitempty" json:"castAt,omitempty"`
}

// UpvoteDelta is the change this entry makes to the owner's upvote total.
func (a *Activity) UpvoteDelta() int64 {
	if a.VoteType != Upvote {
		return 0
	}
	switch a.Kind {
	case ActivityVoteCast, ActivityVoteRemoved:
		return a.Delta
	}
	return 0
}

// CountsSince reports whether the entry's upvote delta belongs to a window starting at since.
// A removal only counts when the vote it cancels was cast inside the window too.
func (a *Activity) CountsSince(since time.Time) bool {
	if a.CreatedAt.Before(since) {
		return false
	}
	if a.Kind == ActivityVoteRemoved && a.CastAt != nil && a.CastAt.Before(since) {
		return false
	}
	return true
}

const ActivityCollection = "activities"
