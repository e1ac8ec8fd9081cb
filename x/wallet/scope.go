package wallet

import (
	"context"

	"github.com/iov-one/quorum"
)

type scopeKey struct{}

// callScope marks a context as running inside an Engine call. Engine
// methods invoked with such a context, for example from a payout hook,
// reuse the store of the running call instead of taking the lock again.
type callScope struct {
	engine *Engine
	db     quorum.KVStore
}

func withScope(ctx context.Context, e *Engine, db quorum.KVStore) context.Context {
	return context.WithValue(ctx, scopeKey{}, &callScope{engine: e, db: db})
}

// narrowScope points a running call at a nested savepoint. Contexts not
// created by an Engine are returned unchanged.
func narrowScope(ctx context.Context, db quorum.KVStore) context.Context {
	s, ok := ctx.Value(scopeKey{}).(*callScope)
	if !ok {
		return ctx
	}
	return withScope(ctx, s.engine, db)
}

// scopeStore returns the store of the running call of e, if any.
func scopeStore(ctx context.Context, e *Engine) (quorum.KVStore, bool) {
	s, ok := ctx.Value(scopeKey{}).(*callScope)
	if !ok || s.engine != e {
		return nil, false
	}
	return s.db, true
}
