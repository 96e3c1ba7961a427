package handler

import (
	"Buildrs/internal/api/middleware"
	"Buildrs/internal/pkg/response"
	"Buildrs/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	followSvc service.FollowService
}

func NewFollowHandler(followSvc service.FollowService) *FollowHandler {
	return &FollowHandler{followSvc: followSvc}
}

func (s *FollowHandler) Follow(c *gin.Context) {
	if err := s.followSvc.Follow(c.Request.Context(), middleware.CurrentAddress(c), c.Param("address")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *FollowHandler) Unfollow(c *gin.Context) {
	if err := s.followSvc.Unfollow(c.Request.Context(), middleware.CurrentAddress(c), c.Param("address")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *FollowHandler) IsFollowing(c *gin.Context) {
	following, err := s.followSvc.IsFollowing(c.Request.Context(), middleware.CurrentAddress(c), c.Param("address"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"following": following})
}

func (s *FollowHandler) ListFollowers(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "0"), 10, 64)
	follows, err := s.followSvc.ListFollowers(c.Request.Context(), c.Param("address"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, follows)
}

func (s *FollowHandler) ListFollowing(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "0"), 10, 64)
	follows, err := s.followSvc.ListFollowing(c.Request.Context(), c.Param("address"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, follows)
}
