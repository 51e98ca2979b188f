package domain

// ErrorKind classifies a failed prediction.
type ErrorKind string

const (
	ErrorKindValidation       ErrorKind = "validation"
	ErrorKindModelUnavailable ErrorKind = "model_unavailable"
	ErrorKindInference        ErrorKind = "inference"
)

// ErrorPayload is the caller-facing description of a failed prediction.
type ErrorPayload struct {
	Kind    ErrorKind `json:"kind"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
}

// Response carries either a prediction or an error, never both.
type Response struct {
	Prediction *PredictionResult `json:"prediction,omitempty"`
	Error      *ErrorPayload     `json:"error,omitempty"`
}

// OK reports whether the response holds a prediction.
func (r Response) OK() bool {
	return r.Error == nil && r.Prediction != nil
}

// ErrorResponse builds a failed response.
func ErrorResponse(kind ErrorKind, field, message string) Response {
	return Response{Error: &ErrorPayload{Kind: kind, Field: field, Message: message}}
}
