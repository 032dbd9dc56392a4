package wallet

import (
	"context"

	"github.com/sirupsen/logrus"
)

type requestIDKey struct{}

// WithRequestID tags ctx so ledger log lines carry the request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id set by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (l *ledger) logger(ctx context.Context) logrus.FieldLogger {
	if id := RequestID(ctx); id != "" {
		return l.log.WithField("request_id", id)
	}
	return l.log
}
