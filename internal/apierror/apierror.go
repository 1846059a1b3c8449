// Package apierror provides the standardized response envelope for the API.
// Every response body has the shape {success, data?, error?} so the front-end
// can branch on a single flag; internal details (stack traces, SQL errors)
// never reach the client.
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func New(msg string) *APIError {
	return &APIError{Success: false, Error: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Success: false, Error: "Erreur de validation", Fields: fields}
}

// Envelope is the success counterpart of APIError.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

func OK(data interface{}) *Envelope {
	return &Envelope{Success: true, Data: data}
}
