package dto

type BuildLinksDTO struct {
	Demo    string `json:"demo,omitempty" validate:"omitempty,url"`
	Github  string `json:"github,omitempty" validate:"omitempty,url"`
	Website string `json:"website,omitempty" validate:"omitempty,url"`
}

type BuildCreateDTO struct {
	Type               string        `json:"type" binding:"required"`
	Title              string        `json:"title" binding:"required,max=120"`
	Description        string        `json:"description" binding:"required,max=5000"`
	Tags               []string      `json:"tags"`
	Links              BuildLinksDTO `json:"links"`
	Media              []string      `json:"media"`
	CompleteOnboarding bool          `json:"completeOnboarding"`
}

type BuildListQuery struct {
	Type  string `form:"type"`
	Tag   string `form:"tag"`
	Limit int64  `form:"limit"`
}
