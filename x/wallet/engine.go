package wallet

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/x/cash"
	"github.com/tendermint/tendermint/libs/log"
)

// Observer is notified of every event after the call producing it was
// committed.
type Observer func(Event)

// ReceiverRegistry is implemented by payouts that can notify the wallet
// about incoming payments.
type ReceiverRegistry interface {
	AddReceiver(cash.Receiver)
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for every call.
func WithLogger(logger log.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithObserver subscribes o for the lifetime of the engine.
func WithObserver(o Observer) EngineOption {
	return func(e *Engine) {
		e.subscribe(o)
	}
}

type subscription struct {
	id int
	fn Observer
}

// Engine runs a wallet against a single backing store. All calls, reads
// included, are serialized by one mutex. Each mutating call works on a
// cache of the store that is written back only when the call succeeds.
//
// A context passed to the payout carries the running call. Engine methods
// called with it, for example by a recipient hook, run inside that call
// without locking. A hook calling the engine with an unrelated context
// blocks forever on the lock held by the running call.
type Engine struct {
	mu        sync.Mutex
	db        quorum.CacheableKVStore
	registry  *Registry
	ledger    *Ledger
	logger    log.Logger
	observers []subscription
	nextID    int
}

// NewEngine initialises the registry in db, or makes sure the one already
// stored is identical. If payout implements ReceiverRegistry, the engine
// subscribes to it so that payments into the wallet account are recorded
// as deposits.
func NewEngine(db quorum.CacheableKVStore, reg *Registry, payout Payout, opts ...EngineOption) (*Engine, error) {
	if reg == nil {
		return nil, errors.Wrap(ErrInvalidRegistry, "missing registry")
	}
	e := &Engine{
		db:       db,
		registry: reg,
		ledger:   NewLedger(payout),
		logger:   log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}

	stored, err := e.ledger.Registry(db)
	switch {
	case errors.ErrNotFound.Is(err):
		cache := db.CacheWrap()
		if err := InitRegistry(cache, reg); err != nil {
			cache.Discard()
			return nil, err
		}
		if err := cache.Write(); err != nil {
			return nil, errors.Wrap(err, "store registry")
		}
	case err != nil:
		return nil, err
	case !stored.Equals(reg):
		return nil, errors.Wrap(errors.ErrImmutable, "store holds a different registry")
	}

	if rr, ok := payout.(ReceiverRegistry); ok {
		rr.AddReceiver(e.ledger)
	}
	e.logger.Info("wallet ready", "address", reg.Address(), "owners", len(reg.owners), "required", reg.Required())
	return e, nil
}

// Ledger returns the ledger the engine runs on.
func (e *Engine) Ledger() *Ledger {
	return e.ledger
}

// Submit proposes a transfer and returns its index.
func (e *Engine) Submit(ctx context.Context, caller, recipient quorum.Address, amount coin.Amount, payload []byte) (uint64, []Event, error) {
	var idx uint64
	events, err := e.mutate(ctx, "submit", caller, func(ctx context.Context, db quorum.KVStore) error {
		var err error
		idx, err = e.ledger.Submit(ctx, db, caller, recipient, amount, payload)
		return err
	})
	if err != nil {
		return 0, nil, err
	}
	return idx, events, nil
}

// Confirm approves a pending transaction.
func (e *Engine) Confirm(ctx context.Context, caller quorum.Address, index uint64) ([]Event, error) {
	return e.mutate(ctx, "confirm", caller, func(ctx context.Context, db quorum.KVStore) error {
		return e.ledger.Confirm(ctx, db, caller, index)
	})
}

// Revoke withdraws an approval of a pending transaction.
func (e *Engine) Revoke(ctx context.Context, caller quorum.Address, index uint64) ([]Event, error) {
	return e.mutate(ctx, "revoke", caller, func(ctx context.Context, db quorum.KVStore) error {
		return e.ledger.Revoke(ctx, db, caller, index)
	})
}

// Execute pays out a confirmed transaction.
func (e *Engine) Execute(ctx context.Context, caller quorum.Address, index uint64) ([]Event, error) {
	return e.mutate(ctx, "execute", caller, func(ctx context.Context, db quorum.KVStore) error {
		return e.ledger.Execute(ctx, db, caller, index)
	})
}

// Deposit moves funds from sender into the wallet account.
func (e *Engine) Deposit(ctx context.Context, sender quorum.Address, amount coin.Amount) ([]Event, error) {
	return e.mutate(ctx, "deposit", sender, func(ctx context.Context, db quorum.KVStore) error {
		return e.ledger.Deposit(ctx, db, sender, amount)
	})
}

// Transaction returns a snapshot of the transaction with given index.
func (e *Engine) Transaction(ctx context.Context, index uint64) (*Transaction, error) {
	var tx *Transaction
	err := e.read(ctx, func(db quorum.ReadOnlyKVStore) error {
		var err error
		tx, err = e.ledger.Transaction(db, index)
		return err
	})
	return tx, err
}

// TransactionCount returns the number of transactions ever submitted.
func (e *Engine) TransactionCount(ctx context.Context) (uint64, error) {
	var n uint64
	err := e.read(ctx, func(db quorum.ReadOnlyKVStore) error {
		var err error
		n, err = e.ledger.TransactionCount(db)
		return err
	})
	return n, err
}

// IsConfirmed reports whether owner approves the transaction.
func (e *Engine) IsConfirmed(ctx context.Context, index uint64, owner quorum.Address) (bool, error) {
	var ok bool
	err := e.read(ctx, func(db quorum.ReadOnlyKVStore) error {
		var err error
		ok, err = e.ledger.IsConfirmed(db, index, owner)
		return err
	})
	return ok, err
}

// Confirmers lists the owners approving the transaction.
func (e *Engine) Confirmers(ctx context.Context, index uint64) ([]quorum.Address, error) {
	var owners []quorum.Address
	err := e.read(ctx, func(db quorum.ReadOnlyKVStore) error {
		var err error
		owners, err = e.ledger.Confirmers(db, index)
		return err
	})
	return owners, err
}

// Balance returns the funds held by the wallet account.
func (e *Engine) Balance(ctx context.Context) (coin.Amount, error) {
	var amount coin.Amount
	err := e.read(ctx, func(db quorum.ReadOnlyKVStore) error {
		var err error
		amount, err = e.ledger.Balance(db)
		return err
	})
	return amount, err
}

// Events returns the log starting with given sequence.
func (e *Engine) Events(ctx context.Context, since uint64) ([]Event, error) {
	var events []Event
	err := e.read(ctx, func(db quorum.ReadOnlyKVStore) error {
		var err error
		events, err = e.ledger.Events(db, since)
		return err
	})
	return events, err
}

// Owners returns a copy of the owner list. The registry is immutable and
// can be read without locking.
func (e *Engine) Owners() []quorum.Address {
	return e.registry.Owners()
}

// Required returns the confirmation threshold.
func (e *Engine) Required() uint32 {
	return e.registry.Required()
}

// Address returns the wallet account address.
func (e *Engine) Address() quorum.Address {
	return e.registry.Address()
}

// Subscribe registers an observer and returns a function removing it.
// Observers are called in subscription order while the engine lock is
// held, so they must not call the engine or the returned function.
func (e *Engine) Subscribe(o Observer) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.subscribe(o)
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, s := range e.observers {
			if s.id == id {
				e.observers = append(e.observers[:i], e.observers[i+1:]...)
				return
			}
		}
	}
}

func (e *Engine) subscribe(o Observer) int {
	e.nextID++
	e.observers = append(e.observers, subscription{id: e.nextID, fn: o})
	return e.nextID
}

func (e *Engine) read(ctx context.Context, fn func(quorum.ReadOnlyKVStore) error) error {
	if db, ok := scopeStore(ctx, e); ok {
		return fn(db)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.db)
}

func (e *Engine) mutate(ctx context.Context, op string, caller quorum.Address, fn func(context.Context, quorum.KVStore) error) ([]Event, error) {
	if db, ok := scopeStore(ctx, e); ok {
		return e.nested(ctx, db, fn)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	logger := e.logger.With("call", uuid.New().String(), "op", op, "caller", caller)
	cache := e.db.CacheWrap()
	ctx = withScope(quorum.WithLogger(ctx, logger), e, cache)

	events, err := e.ledger.Record(cache, func() error { return fn(ctx, cache) })
	if err != nil {
		cache.Discard()
		logger.Debug("call rejected", "err", err)
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	logger.Debug("call committed", "events", len(events))

	for _, ev := range events {
		for _, s := range e.observers {
			s.fn(ev)
		}
	}
	return events, nil
}

// nested runs a call made from inside a running call on its own cache of
// the running call's store. A failed nested call leaves nothing behind,
// even when the caller ignores the error. Observers are notified once the
// outermost call commits.
func (e *Engine) nested(ctx context.Context, db quorum.KVStore, fn func(context.Context, quorum.KVStore) error) ([]Event, error) {
	cstore, ok := db.(quorum.CacheableKVStore)
	if !ok {
		return nil, errors.Wrapf(errors.ErrDatabase, "nested call requires a cacheable store, got %T", db)
	}
	cache := cstore.CacheWrap()
	ctx = narrowScope(ctx, cache)

	events, err := e.ledger.Record(cache, func() error { return fn(ctx, cache) })
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "commit nested call")
	}
	return events, nil
}
