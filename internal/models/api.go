package models

// BasicResponse is the generic message/status envelope for simple endpoints
type BasicResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}
