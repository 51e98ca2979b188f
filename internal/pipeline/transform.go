package pipeline

import (
	"context"

	"github.com/couchcryptid/fwi-risk-service/internal/domain"
)

// Scorer implements Transformer by decoding a request, handing it to a
// Handler and serializing the response under the source key.
type Scorer struct {
	handler Handler
}

// NewScorer creates a Scorer backed by the given Handler.
func NewScorer(handler Handler) *Scorer {
	return &Scorer{handler: handler}
}

// Transform returns an error only when the message cannot be decoded. Failed
// predictions are published as error responses.
func (s *Scorer) Transform(ctx context.Context, raw domain.RawMessage) (domain.OutputMessage, error) {
	req, err := domain.DecodeRequest(raw)
	if err != nil {
		return domain.OutputMessage{}, err
	}

	resp := s.handler.Handle(ctx, req)
	return domain.SerializeResponse(raw.Key, resp)
}
