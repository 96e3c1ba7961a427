package dto

type VoteDTO struct {
	VoteType string `json:"voteType" binding:"required"`
}
