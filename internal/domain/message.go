package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// RawMessage is an unprocessed prediction request read from the source topic.
type RawMessage struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputMessage is the serialized response destined for the sink topic.
type OutputMessage struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// DecodeRequest parses a raw message value into a PredictionRequest.
// Unknown fields are ignored. Missing or null fields are not an error here;
// Validate rejects them by name.
func DecodeRequest(raw RawMessage) (PredictionRequest, error) {
	var req PredictionRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return PredictionRequest{}, fmt.Errorf("decode prediction request: %w", err)
	}
	return req, nil
}

// SerializeResponse marshals a response into an output message keyed like the
// request it answers.
func SerializeResponse(key []byte, resp Response) (OutputMessage, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return OutputMessage{}, fmt.Errorf("serialize response: %w", err)
	}

	headers := map[string]string{
		"outcome":   "success",
		"scored_at": clock.Now().UTC().Format(time.RFC3339),
	}
	if resp.OK() {
		headers["risk_tier"] = string(resp.Prediction.Tier)
	} else {
		headers["outcome"] = "error"
	}

	return OutputMessage{Key: key, Value: data, Headers: headers}, nil
}
