package handler

import (
	"Buildrs/internal/api/dto"
	"Buildrs/internal/api/middleware"
	"Buildrs/internal/model"
	"Buildrs/internal/pkg/response"
	"Buildrs/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type BuildHandler struct {
	buildSvc   service.BuildService
	voteSvc    service.VoteService
	commentSvc service.CommentService
}

func NewBuildHandler(buildSvc service.BuildService, voteSvc service.VoteService, commentSvc service.CommentService) *BuildHandler {
	return &BuildHandler{
		buildSvc:   buildSvc,
		voteSvc:    voteSvc,
		commentSvc: commentSvc,
	}
}

func (s *BuildHandler) CreateBuild(c *gin.Context) {
	var req dto.BuildCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	build, err := s.buildSvc.CreateBuild(c.Request.Context(), middleware.CurrentAddress(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, build)
}

func (s *BuildHandler) GetBuild(c *gin.Context) {
	build, err := s.buildSvc.GetBuild(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, build)
}

func (s *BuildHandler) ListBuilds(c *gin.Context) {
	var query dto.BuildListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	builds, err := s.buildSvc.ListLatestBuilds(c.Request.Context(), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, builds)
}

// Vote toggles or switches the caller's vote on a build.
func (s *BuildHandler) Vote(c *gin.Context) {
	var req dto.VoteDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	state, err := s.voteSvc.CastVote(c.Request.Context(), c.Param("id"), middleware.CurrentAddress(c), model.VoteType(req.VoteType))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, state)
}

// GetVoteState works without a token; userVote is then empty.
func (s *BuildHandler) GetVoteState(c *gin.Context) {
	state, err := s.voteSvc.GetVoteState(c.Request.Context(), c.Param("id"), middleware.CurrentAddress(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, state)
}

func (s *BuildHandler) CreateComment(c *gin.Context) {
	var req dto.CommentCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	comment, err := s.commentSvc.CreateComment(c.Request.Context(), middleware.CurrentAddress(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment)
}

func (s *BuildHandler) ListComments(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "0"), 10, 64)
	comments, err := s.commentSvc.ListComments(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comments)
}
