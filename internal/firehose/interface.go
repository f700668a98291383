package firehose

import (
	"context"

	"github.com/stationv/relay/internal/domain"
)

// Producer exports posted channel messages to an external stream. Delivery
// is best-effort; the relay never blocks or fails an operation on it.
type Producer interface {
	Produce(ctx context.Context, channel string, msg domain.Message) error
	Close() error
}
