package model

import "errors"

// ErrModelUnavailable is returned when the fitted artifacts could not be
// loaded, or when a prediction is requested from a predictor that was never loaded.
var ErrModelUnavailable = errors.New("model unavailable")

// InferenceError wraps an unexpected failure while transforming or scoring a
// feature vector.
type InferenceError struct {
	Stage string // "transform" or "predict"
	Err   error
}

func (e *InferenceError) Error() string {
	return "inference failed during " + e.Stage + ": " + e.Err.Error()
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}
