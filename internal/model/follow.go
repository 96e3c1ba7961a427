package model

import "time"

type Follow struct {
	ID          string    `bson:"_id" json:"id"`
	FollowerID  string    `bson:"followerId" json:"followerId"`
	FollowingID string    `bson:"followingId" json:"followingId"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

func FollowID(followerID, followingID string) string {
	return followerID + "->" + followingID
}

const FollowCollection = "follows"
