package dto

import (
	"Buildrs/internal/model"
	"time"
)

type SocialLinksDTO struct {
	Github    string `json:"github,omitempty" validate:"omitempty,max=100"`
	Twitter   string `json:"twitter,omitempty" validate:"omitempty,max=100"`
	Farcaster string `json:"farcaster,omitempty" validate:"omitempty,max=100"`
}

// ProfileDTO is the public view of a profile.
type ProfileDTO struct {
	WalletAddress       string            `json:"walletAddress"`
	ShortAddress        string            `json:"shortAddress"`
	Username            string            `json:"username"`
	DisplayName         string            `json:"displayName"`
	Bio                 string            `json:"bio"`
	Avatar              string            `json:"avatar"`
	Skills              []string          `json:"skills"`
	BuilderScore        int64             `json:"builderScore"`
	TotalUpvotes        int64             `json:"totalUpvotes"`
	BuildStreak         int64             `json:"buildStreak"`
	SocialLinks         model.SocialLinks `json:"socialLinks"`
	OnboardingCompleted bool              `json:"onboardingCompleted"`
	FollowerCount       int64             `json:"followerCount"`
	FollowingCount      int64             `json:"followingCount"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}

// ProfileUpdateDTO holds editable fields; nil leaves a field unchanged.
type ProfileUpdateDTO struct {
	Username    *string         `json:"username,omitempty" validate:"omitempty,min=3,max=32,username"`
	DisplayName *string         `json:"displayName,omitempty" validate:"omitempty,min=1,max=64"`
	Bio         *string         `json:"bio,omitempty" validate:"omitempty,max=500"`
	Avatar      *string         `json:"avatar,omitempty" validate:"omitempty,max=512"`
	Skills      []string        `json:"skills,omitempty" validate:"omitempty,max=20,dive,max=32"`
	SocialLinks *SocialLinksDTO `json:"socialLinks,omitempty"`
}
