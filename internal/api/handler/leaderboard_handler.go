package handler

import (
	"Buildrs/internal/model"
	"Buildrs/internal/pkg/response"
	"Buildrs/internal/service"

	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	leaderboardSvc service.LeaderboardService
}

func NewLeaderboardHandler(leaderboardSvc service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardSvc: leaderboardSvc}
}

// GetLeaderboard ranks builders for ?period=week|month|all, defaulting to all.
func (s *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	period := model.Period(c.DefaultQuery("period", string(model.PeriodAll)))
	if !period.Valid() {
		response.Error(c, service.ErrInvalidPeriod)
		return
	}
	response.Success(c, s.leaderboardSvc.ComputeLeaderboard(c.Request.Context(), period))
}

func (s *LeaderboardHandler) GetStats(c *gin.Context) {
	response.Success(c, s.leaderboardSvc.ComputeStats(c.Request.Context()))
}
