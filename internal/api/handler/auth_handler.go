package handler

import (
	"Buildrs/internal/api/dto"
	"Buildrs/internal/api/middleware"
	"Buildrs/internal/pkg/response"
	"Buildrs/internal/pkg/wallet"
	"Buildrs/internal/service"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authSvc      service.AuthService
	profileSvc   service.ProfileService
	challengeTTL time.Duration
}

func NewAuthHandler(authSvc service.AuthService, profileSvc service.ProfileService, challengeTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authSvc:      authSvc,
		profileSvc:   profileSvc,
		challengeTTL: challengeTTL,
	}
}

// Challenge issues the message the wallet signs for POST /auth/login.
func (s *AuthHandler) Challenge(c *gin.Context) {
	address := c.Query("address")
	message, err := s.authSvc.IssueChallenge(c.Request.Context(), address)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ChallengeDTO{
		Address:   wallet.NormalizeAddress(address),
		Message:   message,
		ExpiresIn: int64(s.challengeTTL.Seconds()),
	})
}

func (s *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	token, profile, err := s.authSvc.Login(c.Request.Context(), req.Address, req.Signature)
	if err != nil {
		response.Error(c, err)
		return
	}

	profileDTO, err := s.profileSvc.GetProfile(c.Request.Context(), profile.WalletAddress)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.LoginResultDTO{Token: token, Profile: profileDTO})
}

func (s *AuthHandler) Logout(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if err := s.authSvc.Logout(c.Request.Context(), token); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *AuthHandler) Me(c *gin.Context) {
	profile, err := s.profileSvc.GetProfile(c.Request.Context(), middleware.CurrentAddress(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}
