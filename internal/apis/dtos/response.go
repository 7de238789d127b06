package dtos

// Response is the envelope every handler returns.
type Response struct {
	Success bool    `json:"success"`
	Data    any     `json:"data,omitempty"`
	Error   *string `json:"error,omitempty"`
}
