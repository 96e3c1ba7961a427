package model

import "time"

type VoteType string

const (
	VoteNone VoteType = ""
	Upvote   VoteType = "upvote"
	Downvote VoteType = "downvote"
)

func (t VoteType) Valid() bool {
	return t == Upvote || t == Downvote
}

// CounterField is the build field this vote type is aggregated into.
func (t VoteType) CounterField() string {
	switch t {
	case Upvote:
		return "upvotes"
	case Downvote:
		return "downvotes"
	}
	return ""
}

// Vote is the current vote of one user on one build. ID is VoteID(userID, buildID), so the store
// key itself enforces one record per pair.
type Vote struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"userId" json:"userId"`
	BuildID   string    `bson:"buildId" json:"buildId"`
	VoteType  VoteType  `bson:"voteType" json:"voteType"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

func VoteID(userID, buildID string) string {
	return userID + ":" + buildID
}

// VoteState is what the UI renders after a vote.
type VoteState struct {
	Upvotes   int64    `json:"upvotes"`
	Downvotes int64    `json:"downvotes"`
	UserVote  VoteType `json:"userVote"`
}

const VoteCollection = "votes"
