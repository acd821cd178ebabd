package http_common

// ErrorResponse is the error body every controller returns.
type ErrorResponse struct {
	Message string `json:"message"`
}

// Envelope is the uniform success body: a human message plus the payload.
type Envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}
