package dto

// Response is the envelope every endpoint answers with; Code is the business code.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}
