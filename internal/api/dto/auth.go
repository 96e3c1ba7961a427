package dto

// ChallengeDTO is the message a wallet must sign to log in.
type ChallengeDTO struct {
	Address   string `json:"address"`
	Message   string `json:"message"`
	ExpiresIn int64  `json:"expiresIn"`
}

type LoginDTO struct {
	Address   string `json:"address" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

type LoginResultDTO struct {
	Token   string      `json:"token"`
	Profile *ProfileDTO `json:"profile"`
}
