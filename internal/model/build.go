package model

import "time"

type BuildType string

const (
	BuildTypeLaunch     BuildType = "launch"
	BuildTypeUpdate     BuildType = "update"
	BuildTypeExperiment BuildType = "experiment"
)

func (t BuildType) Valid() bool {
	switch t {
	case BuildTypeLaunch, BuildTypeUpdate, BuildTypeExperiment:
		return true
	}
	return false
}

type BuildLinks struct {
	Demo    string `bson:"demo,omitempty" json:"demo,omitempty"`
	Github  string `bson:"github,omitempty" json:"github,omitempty"`
	Website string `bson:"website,omitempty" json:"website,omitempty"`
}

// Build is a project post. Upvotes, Downvotes and CommentCount are aggregates of Vote and Comment
// records and only move through atomic increments (or the reconcile job).
type Build struct {
	ID           string     `bson:"_id" json:"id"`
	UserID       string     `bson:"userId" json:"userId"`
	Type         BuildType  `bson:"type" json:"type"`
	Title        string     `bson:"title" json:"title"`
	Description  string     `bson:"description" json:"description"`
	Tags         []string   `bson:"tags" json:"tags"`
	Links        BuildLinks `bson:"links" json:"links"`
	Media        []string   `bson:"media" json:"media"`
	Upvotes      int64      `bson:"upvotes" json:"upvotes"`
	Downvotes    int64      `bson:"downvotes" json:"downvotes"`
	CommentCount int64      `bson:"commentCount" json:"commentCount"`
	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time  `bson:"updatedAt" json:"updatedAt"`
}

const BuildCollection = "builds"
