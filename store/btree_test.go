package store

import (
	"testing"

	"github.com/iov-one/quorum/quorumtest/assert"
)

func btreeBase() (CacheableKVStore, func()) {
	// devnull is a black hole... just to keep our types proper
	devnull := BTreeCacheable{EmptyKVStore{}}
	return devnull.CacheWrap(), func() {}
}

var suite = NewTestSuite(btreeBase)

func TestBTreeCacheGetSet(t *testing.T)       { suite.GetSet(t) }
func TestBTreeCacheConflicts(t *testing.T)    { suite.CacheConflicts(t) }
func TestBTreeFuzzIterator(t *testing.T)      { suite.FuzzIterator(t) }
func TestBTreeIteratorConflicts(t *testing.T) { suite.IteratorWithConflicts(t) }
func TestBTreeNestedRollback(t *testing.T)    { suite.NestedRollback(t) }

func TestBTreeWriteToDevNull(t *testing.T) {
	devnull := BTreeCacheable{EmptyKVStore{}}
	base := devnull.CacheWrap()

	k, v := []byte("french"), []byte("fry")
	assert.Nil(t, base.Set(k, v))
	assert.Nil(t, base.Write())

	// Write empties the cache, and the black hole kept nothing.
	got, err := devnull.Get(k)
	assert.Nil(t, err)
	assert.Nil(t, got)
	got, err = base.Get(k)
	assert.Nil(t, err)
	assert.Nil(t, got)
}

func TestBTreeRangeBoundaries(t *testing.T) {
	db := MemStore()
	for _, k := range []string{"a", "b", "c", "d"} {
		assert.Nil(t, db.Set([]byte(k), []byte(k)))
	}
	child := db.CacheWrap()
	assert.Nil(t, child.Delete([]byte("b")))
	assert.Nil(t, child.Set([]byte("bb"), []byte("bb")))

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []string
	}{
		"full ascending":  {want: []string{"a", "bb", "c", "d"}},
		"full descending": {reverse: true, want: []string{"d", "c", "bb", "a"}},
		"end is exclusive": {
			end:  []byte("c"),
			want: []string{"a", "bb"},
		},
		"start is inclusive, descending": {
			start:   []byte("bb"),
			reverse: true,
			want:    []string{"d", "c", "bb"},
		},
		"empty range": {
			start: []byte("x"),
			end:   []byte("z"),
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var it Iterator
			var err error
			if tc.reverse {
				it, err = child.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = child.Iterator(tc.start, tc.end)
			}
			assert.Nil(t, err)
			models, err := ReadAll(it)
			assert.Nil(t, err)
			var got []string
			for _, m := range models {
				got = append(got, string(m.Key))
			}
			assert.Equal(t, tc.want, got)
		})
	}
}
