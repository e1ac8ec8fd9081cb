package store

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"sort"
	"testing"

	"github.com/iov-one/quorum/quorumtest/assert"
)

// TestSuite runs the same checks against any CacheableKVStore
// implementation. It is shared by the btree and iavl store tests.
type TestSuite struct {
	makeBase TestStoreConstructor
}

type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// GetSet checks that writes to a cache are visible in the cache only until
// they are written to the parent.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	owner, flag := []byte("owner:alice"), []byte("1")
	s.AssertGetHas(t, base, owner, nil, false)
	assert.Nil(t, base.Set(owner, flag))
	s.AssertGetHas(t, base, owner, flag, true)

	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, owner, flag, true)

	tx, body := []byte("tx:0"), []byte("pay bob 100")
	assert.Nil(t, cache.Set(tx, body))
	s.AssertGetHas(t, cache, tx, body, true)
	s.AssertGetHas(t, base, tx, nil, false)

	assert.Nil(t, cache.Write())
	s.AssertGetHas(t, base, owner, flag, true)
	s.AssertGetHas(t, base, tx, body, true)

	// A discarded cache leaves the parent untouched.
	conf := []byte("conf:0:alice")
	discarded := base.CacheWrap()
	assert.Nil(t, discarded.Set(conf, flag))
	discarded.Discard()
	s.AssertGetHas(t, base, conf, nil, false)

	removal := base.CacheWrap()
	assert.Nil(t, removal.Delete(owner))
	s.AssertGetHas(t, removal, owner, nil, false)
	s.AssertGetHas(t, base, owner, flag, true)
	assert.Nil(t, removal.Write())
	s.AssertGetHas(t, base, owner, nil, false)
	s.AssertGetHas(t, base, tx, body, true)
}

// NestedRollback checks that a discarded savepoint nested inside another one
// leaves no trace, while the outer savepoint keeps its own changes.
func (s *TestSuite) NestedRollback(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	flag, payout := []byte("tx:0:executed"), []byte("balance:bob")
	assert.Nil(t, base.Set(flag, []byte("false")))

	outer := base.CacheWrap()
	assert.Nil(t, outer.Set(flag, []byte("true")))

	inner := outer.CacheWrap()
	assert.Nil(t, inner.Set(payout, []byte("100")))
	assert.Nil(t, inner.Delete(flag))
	s.AssertGetHas(t, inner, flag, nil, false)
	inner.Discard()

	s.AssertGetHas(t, outer, flag, []byte("true"), true)
	s.AssertGetHas(t, outer, payout, nil, false)

	outer.Discard()
	s.AssertGetHas(t, base, flag, []byte("false"), true)
	s.AssertGetHas(t, base, payout, nil, false)
}

// CacheConflicts checks that a child overwriting and deleting parent values
// only affects the parent once written.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	cases := map[string]struct {
		parent []Op
		child  []Op
	}{
		"overwrite, delete and insert": {
			parent: []Op{SetOp([]byte("owner:a"), []byte("1")), SetOp([]byte("owner:b"), []byte("1"))},
			child:  []Op{SetOp([]byte("owner:a"), []byte("2")), DelOp([]byte("owner:b")), SetOp([]byte("owner:c"), []byte("1"))},
		},
		"delete then set again": {
			parent: []Op{SetOp([]byte("tx:0"), []byte("pending"))},
			child:  []Op{DelOp([]byte("tx:0")), SetOp([]byte("tx:0"), []byte("executed"))},
		},
		"set then delete a key unknown to the parent": {
			parent: []Op{SetOp([]byte("tx:0"), []byte("pending"))},
			child:  []Op{SetOp([]byte("tx:1"), []byte("pending")), DelOp([]byte("tx:1"))},
		},
		"random keys": {
			parent: randSetOps(10),
			child:  append(randSetOps(10), randDelOps(5)...),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := s.makeBase()
			defer cleanup()
			applyAll(t, parent, tc.parent)

			child := parent.CacheWrap()
			applyAll(t, child, tc.child)

			before := replay(tc.parent)
			after := replay(tc.parent, tc.child)
			s.assertMatches(t, parent, before, after)
			s.assertMatches(t, child, after, before)

			assert.Nil(t, child.Write())
			s.assertMatches(t, parent, after, before)
		})
	}
}

// FuzzIterator writes random keys to a parent and a child cache and
// compares range iteration of the child with a plain map of the expected
// content.
func (s *TestSuite) FuzzIterator(t *testing.T) {
	cases := map[string]struct {
		parent []Op
		child  []Op
	}{
		"child only": {
			child: append(randSetOps(50), randDelOps(20)...),
		},
		"parent only": {
			parent: append(randSetOps(50), randDelOps(20)...),
		},
		"parent and child": {
			parent: append(randSetOps(50), randDelOps(20)...),
			child:  append(randSetOps(50), randDelOps(20)...),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()
			s.checkRanges(t, base, tc.parent, tc.child)
		})
	}
}

// IteratorWithConflicts iterates a child that overwrites and deletes keys
// of its parent.
func (s *TestSuite) IteratorWithConflicts(t *testing.T) {
	keys := randKeys(4, 20)
	a, b, c, d := keys[0], keys[1], keys[2], keys[3]

	cases := map[string]struct {
		parent []Op
		child  []Op
	}{
		"overwritten values come from the child": {
			parent: []Op{SetOp(a, []byte("1")), SetOp(b, []byte("1")), SetOp(c, []byte("1"))},
			child:  []Op{SetOp(a, []byte("2")), SetOp(b, []byte("2")), SetOp(d, []byte("2"))},
		},
		"deleted keys are skipped": {
			parent: []Op{SetOp(a, []byte("1")), SetOp(c, []byte("1")), SetOp(d, []byte("1"))},
			child:  []Op{DelOp(a), DelOp(b), DelOp(d)},
		},
		"everything deleted": {
			parent: []Op{SetOp(a, []byte("1")), SetOp(b, []byte("1"))},
			child:  []Op{DelOp(a), DelOp(b)},
		},
		"deleted and set again": {
			parent: []Op{SetOp(a, []byte("1"))},
			child:  []Op{DelOp(a), SetOp(a, []byte("3")), SetOp(c, []byte("3"))},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()
			s.checkRanges(t, base, tc.parent, tc.child)
		})
	}
}

// AssertGetHas checks both Get and Has of a single key.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

// assertMatches checks every key of want, and that the keys only present
// in other are missing.
func (s *TestSuite) assertMatches(t testing.TB, kv ReadOnlyKVStore, want, other map[string][]byte) {
	t.Helper()
	for k, v := range want {
		s.AssertGetHas(t, kv, []byte(k), v, true)
	}
	for k := range other {
		if _, ok := want[k]; !ok {
			s.AssertGetHas(t, kv, []byte(k), nil, false)
		}
	}
}

// checkRanges applies parent ops to base and child ops to a cache of it,
// then iterates the cache over several ranges in both directions.
func (s *TestSuite) checkRanges(t *testing.T, base CacheableKVStore, parent, child []Op) {
	t.Helper()
	applyAll(t, base, parent)
	cache := base.CacheWrap()
	applyAll(t, cache, child)

	want := sorted(replay(parent, child))
	for _, r := range ranges(want) {
		t.Run(r.name, func(t *testing.T) {
			var (
				it  Iterator
				err error
			)
			if r.reverse {
				it, err = cache.ReverseIterator(r.start, r.end)
			} else {
				it, err = cache.Iterator(r.start, r.end)
			}
			assert.Nil(t, err)
			got, err := ReadAll(it)
			assert.Nil(t, err)

			expected := r.filter(want)
			if len(got) != len(expected) {
				t.Fatalf("want %d models, got %d", len(expected), len(got))
			}
			for i := range expected {
				if !bytes.Equal(expected[i].Key, got[i].Key) {
					t.Fatalf("model %d: want key %X, got %X", i, expected[i].Key, got[i].Key)
				}
				assert.Equal(t, expected[i].Value, got[i].Value)
			}
		})
	}
}

type keyRange struct {
	name       string
	start, end []byte
	reverse    bool
}

// filter returns the models of sorted within the range, in iteration order.
func (r keyRange) filter(sorted []Model) []Model {
	var res []Model
	for _, m := range sorted {
		if r.start != nil && bytes.Compare(m.Key, r.start) < 0 {
			continue
		}
		if r.end != nil && bytes.Compare(m.Key, r.end) >= 0 {
			continue
		}
		res = append(res, m)
	}
	if r.reverse {
		for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
			res[i], res[j] = res[j], res[i]
		}
	}
	return res
}

// ranges returns open, half open and closed ranges with bounds taken from
// the expected keys, so that bounds fall both on and between keys.
func ranges(want []Model) []keyRange {
	bounds := [][]byte{nil}
	if n := len(want); n > 0 {
		bounds = append(bounds, want[0].Key, want[n/2].Key, want[n-1].Key)
	}
	bounds = append(bounds, []byte{0x80})

	var res []keyRange
	for _, reverse := range []bool{false, true} {
		for i, start := range bounds {
			for j, end := range bounds {
				if start != nil && end != nil && bytes.Compare(start, end) >= 0 {
					continue
				}
				res = append(res, keyRange{
					name:    fmt.Sprintf("reverse=%v start=%d end=%d", reverse, i, j),
					start:   start,
					end:     end,
					reverse: reverse,
				})
			}
		}
	}
	return res
}

func applyAll(t testing.TB, db SetDeleter, ops []Op) {
	t.Helper()
	for _, op := range ops {
		assert.Nil(t, op.Apply(db))
	}
}

// replay returns the content a store holds after applying every batch of
// ops in order.
func replay(batches ...[]Op) map[string][]byte {
	content := make(map[string][]byte)
	for _, ops := range batches {
		for _, op := range ops {
			switch op.kind {
			case setKind:
				content[string(op.key)] = op.value
			case delKind:
				delete(content, string(op.key))
			}
		}
	}
	return content
}

func sorted(content map[string][]byte) []Model {
	res := make([]Model, 0, len(content))
	for k, v := range content {
		res = append(res, Pair([]byte(k), v))
	}
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}

func randBytes(length int) []byte {
	res := make([]byte, length)
	rand.Read(res)
	return res
}

func randKeys(count, size int) [][]byte {
	res := make([][]byte, count)
	for i := range res {
		res[i] = randBytes(size)
	}
	return res
}

func randSetOps(count int) []Op {
	ops := make([]Op, count)
	for i := range ops {
		ops[i] = SetOp(randBytes(8), randBytes(40))
	}
	return ops
}

// randDelOps deletes random keys, which are almost never present.
func randDelOps(count int) []Op {
	ops := make([]Op, count)
	for i := range ops {
		ops[i] = DelOp(randBytes(8))
	}
	return ops
}
