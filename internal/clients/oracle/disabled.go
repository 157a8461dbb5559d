package oracle

import (
	"context"

	"github.com/KirkDiggler/rpg-encounter/internal/errors"
)

type disabled struct{}

// NewDisabled returns a client that reports the oracle as unavailable on
// every call. The server uses it when no API key is configured.
func NewDisabled() Client {
	return disabled{}
}

func (disabled) Complete(_ context.Context, _ *CompleteInput) (*CompleteOutput, error) {
	return nil, errors.OracleUnavailable(nil).WithMeta("reason", "no api key configured")
}
