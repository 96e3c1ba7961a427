package model

import "time"

// SocialLinks optional handles shown on a profile.
type SocialLinks struct {
	Github    string `bson:"github,omitempty" json:"github,omitempty"`
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Farcaster string `bson:"farcaster,omitempty" json:"farcaster,omitempty"`
}

// Profile is keyed by the lowercase wallet address; ID and WalletAddress always match.
type Profile struct {
	ID                  string      `bson:"_id" json:"id"`
	WalletAddress       string      `bson:"walletAddress" json:"walletAddress"`
	Username            string      `bson:"username" json:"username"`
	DisplayName         string      `bson:"displayName" json:"displayName"`
	Bio                 string      `bson:"bio" json:"bio"`
	Avatar              string      `bson:"avatar" json:"avatar"`
	Skills              []string    `bson:"skills" json:"skills"`
	BuilderScore        int64       `bson:"builderScore" json:"builderScore"`
	TotalUpvotes        int64       `bson:"totalUpvotes" json:"totalUpvotes"`
	BuildStreak         int64       `bson:"buildStreak" json:"buildStreak"`
	SocialLinks         SocialLinks `bson:"socialLinks" json:"socialLinks"`
	OnboardingCompleted bool        `bson:"onboardingCompleted" json:"onboardingCompleted"`
	CreatedAt           time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time   `bson:"updatedAt" json:"updatedAt"`
}

const ProfileCollection = "profiles"
