package model

// ListResponse is the standard envelope for list endpoints.
type ListResponse struct {
	Resource interface{}   `json:"resource"`
	Meta     *ResponseMeta `json:"meta,omitempty"`
}

// ResponseMeta carries pagination information for list responses.
type ResponseMeta struct {
	Count  int    `json:"count"`
	Total  *int64 `json:"total,omitempty"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// ErrorResponse is the standard envelope for error responses.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail is the structured error body returned by the API.
type ErrorDetail struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}
