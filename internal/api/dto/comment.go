package dto

type CommentCreateDTO struct {
	Content string `json:"content" binding:"required,max=1000"`
}
