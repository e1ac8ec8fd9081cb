package orm

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	amino "github.com/tendermint/go-amino"
)

var (
	isBucketName = regexp.MustCompile(`^[a-z_]{3,20}$`).MatchString

	cdc = amino.NewCodec()
)

// Model is anything that can be persisted in a bucket.
type Model interface {
	// Validate is called before every write.
	Validate() error
}

// Bucket is a prefixed subspace of the DB. All values stored in a bucket
// must be of the same type.
//
// This is a generic building block that should generally
// be embedded in a type-safe wrapper to ensure all data
// is the same type.
type Bucket struct {
	name   string
	prefix []byte
}

var _ quorum.QueryHandler = Bucket{}

// NewBucket creates a bucket to store data
func NewBucket(name string) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
	}
}

// Name returns the name this bucket was created with.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix.
// A new array is always allocated so that consecutive calls never share
// memory.
func (b Bucket) DBKey(key []byte) []byte {
	out := make([]byte, len(b.prefix)+len(key))
	copy(out, b.prefix)
	copy(out[len(b.prefix):], key)
	return out
}

// Has returns true if a value is stored under given key.
func (b Bucket) Has(db quorum.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// One loads the model stored under given key into dest. It returns
// ErrNotFound if there is no such entity.
func (b Bucket) One(db quorum.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot load")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	return decode(raw, dest)
}

// Save validates and writes the model under given key.
func (b Bucket) Save(db quorum.KVStore, key []byte, m Model) error {
	if err := m.Validate(); err != nil {
		return errors.Wrapf(err, "invalid %s", b.name)
	}
	raw, err := encode(m)
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot encode %s: %s", b.name, err)
	}
	return db.Set(b.DBKey(key), raw)
}

// SetRaw stores a value without any encoding. Use it for relation buckets
// where the presence of a key is the information.
func (b Bucket) SetRaw(db quorum.KVStore, key, value []byte) error {
	return db.Set(b.DBKey(key), value)
}

// Delete will remove the value at a key
func (b Bucket) Delete(db quorum.KVStore, key []byte) error {
	return db.Delete(b.DBKey(key))
}

// Keys returns all keys, without the bucket prefix, that start with given
// prefix, in ascending order.
func (b Bucket) Keys(db quorum.ReadOnlyKVStore, prefix []byte) ([][]byte, error) {
	models, err := b.scan(db, prefix)
	if err != nil {
		return nil, err
	}
	keys := make([][]byte, len(models))
	for i, m := range models {
		keys[i] = m.Key[len(b.prefix):]
	}
	return keys, nil
}

// Iterate calls fn for every entity with a key starting with given prefix,
// in ascending key order. Iteration stops at the first error.
// Given dest is reused for every entity.
func (b Bucket) Iterate(db quorum.ReadOnlyKVStore, prefix []byte, dest Model, fn func(key []byte) error) error {
	models, err := b.scan(db, prefix)
	if err != nil {
		return err
	}
	for _, m := range models {
		if err := decode(m.Value, dest); err != nil {
			return err
		}
		if err := fn(m.Key[len(b.prefix):]); err != nil {
			return err
		}
	}
	return nil
}

// IterateFrom is like Iterate, but visits every entity with a key greater
// than or equal to start instead of a prefix.
func (b Bucket) IterateFrom(db quorum.ReadOnlyKVStore, start []byte, dest Model, fn func(key []byte) error) error {
	models, err := b.scanRange(db, b.DBKey(start), prefixEnd(b.prefix))
	if err != nil {
		return err
	}
	for _, m := range models {
		if err := decode(m.Value, dest); err != nil {
			return err
		}
		if err := fn(m.Key[len(b.prefix):]); err != nil {
			return err
		}
	}
	return nil
}

func (b Bucket) scan(db quorum.ReadOnlyKVStore, prefix []byte) ([]quorum.Model, error) {
	start := b.DBKey(prefix)
	return b.scanRange(db, start, prefixEnd(start))
}

func (b Bucket) scanRange(db quorum.ReadOnlyKVStore, start, end []byte) ([]quorum.Model, error) {
	it, err := db.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var res []quorum.Model
	for {
		key, value, err := it.Next()
		switch {
		case err == nil:
			res = append(res, quorum.Pair(key, value))
		case errors.ErrIteratorDone.Is(err):
			return res, nil
		default:
			return nil, err
		}
	}
}

// Query handles queries from the QueryRouter
func (b Bucket) Query(db quorum.ReadOnlyKVStore, mod string, data []byte) ([]quorum.Model, error) {
	switch mod {
	case quorum.KeyQueryMod:
		key := b.DBKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		// return nothing on miss
		if value == nil {
			return nil, nil
		}
		return []quorum.Model{quorum.Pair(key, value)}, nil
	case quorum.PrefixQueryMod:
		return b.scan(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod: %q", mod)
	}
}

// Register registers this Bucket for queries. You can define a name here
// for queries, which is different than the bucket name used to prefix the
// data
func (b Bucket) Register(name string, r quorum.QueryRouter) {
	if name == "" {
		name = b.name
	}
	r.Register("/"+name, b)
}

// Sequence returns a Sequence by name
func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}

// prefixEnd returns the smallest key that is greater than all keys starting
// with given prefix, or nil if there is no such key.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

// Decode unmarshals a value stored by a bucket. Use it to read the values
// returned by a query.
func Decode(raw []byte, dest Model) error {
	return decode(raw, dest)
}

func decode(raw []byte, dest Model) error {
	// Zero value fields are not serialized, so a reused destination must
	// be cleared first.
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return errors.Wrapf(errors.ErrType, "destination must be a non nil pointer, got %T", dest)
	}
	v.Elem().Set(reflect.Zero(v.Elem().Type()))

	var err error
	if p, ok := dest.(quorum.Persistent); ok {
		err = p.Unmarshal(raw)
	} else {
		err = cdc.UnmarshalBinaryBare(raw, dest)
	}
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot decode %T: %s", dest, err)
	}
	return nil
}

// encode uses the model's own encoding when it has one and amino
// otherwise.
func encode(m Model) ([]byte, error) {
	if p, ok := m.(quorum.Persistent); ok {
		return p.Marshal()
	}
	return cdc.MarshalBinaryBare(m)
}
