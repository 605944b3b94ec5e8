package audit

import "context"

// Sink accepts audit events. Implementations must tolerate being called after
// the originating request finished; the context carries delivery deadlines,
// not request scope.
type Sink interface {
	Record(ctx context.Context, e Event) error
	Close(ctx context.Context) error
}
