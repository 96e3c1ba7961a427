package handler

import (
	"Buildrs/internal/api/dto"
	"Buildrs/internal/api/middleware"
	"Buildrs/internal/pkg/response"
	"Buildrs/internal/pkg/wallet"
	"Buildrs/internal/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileSvc service.ProfileService
	buildSvc   service.BuildService
}

func NewProfileHandler(profileSvc service.ProfileService, buildSvc service.BuildService) *ProfileHandler {
	return &ProfileHandler{
		profileSvc: profileSvc,
		buildSvc:   buildSvc,
	}
}

func (s *ProfileHandler) GetProfile(c *gin.Context) {
	address := c.Param("address")
	if !wallet.IsValidAddress(address) {
		response.Error(c, service.ErrInvalidAddress)
		return
	}
	profile, err := s.profileSvc.GetProfile(c.Request.Context(), address)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

func (s *ProfileHandler) GetProfileByUsername(c *gin.Context) {
	profile, err := s.profileSvc.GetProfileByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

// GetProfileBuilds lists a builder's builds, newest first.
func (s *ProfileHandler) GetProfileBuilds(c *gin.Context) {
	var query dto.BuildListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	builds, err := s.buildSvc.ListBuildsByUser(c.Request.Context(), c.Param("address"), query.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, builds)
}

func (s *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req dto.ProfileUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	profile, err := s.profileSvc.UpdateProfile(c.Request.Context(), middleware.CurrentAddress(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

func (s *ProfileHandler) CompleteOnboarding(c *gin.Context) {
	if err := s.profileSvc.CompleteOnboarding(c.Request.Context(), middleware.CurrentAddress(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
