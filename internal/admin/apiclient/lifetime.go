package apiclient

import (
	"context"
	"sync"
)

// Lifetime ties the requests of one component to that component. Close
// cancels every request started through Bind and any started afterwards.
type Lifetime struct {
	once   sync.Once
	ctx    context.Context
	cancel context.CancelFunc
}

func (l *Lifetime) init() {
	l.once.Do(func() {
		l.ctx, l.cancel = context.WithCancel(context.Background())
	})
}

// Bind derives a context that is done when either ctx or the lifetime ends.
func (l *Lifetime) Bind(ctx context.Context) (context.Context, context.CancelFunc) {
	l.init()
	derived, cancel := context.WithCancel(ctx)
	if l.ctx.Err() != nil {
		cancel()
		return derived, cancel
	}
	stop := context.AfterFunc(l.ctx, cancel)
	return derived, func() {
		stop()
		cancel()
	}
}

func (l *Lifetime) Close() {
	l.init()
	l.cancel()
}

func (l *Lifetime) Closed() bool {
	l.init()
	return l.ctx.Err() != nil
}
