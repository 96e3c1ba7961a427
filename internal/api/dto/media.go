package dto

type MediaUploadDTO struct {
	URL       string `json:"url"`
	ObjectKey string `json:"objectKey"`
	MimeType  string `json:"mimeType"`
	Size      int64  `json:"size"`
}
