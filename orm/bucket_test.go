package orm

import (
	"testing"

	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest/assert"
	"github.com/iov-one/quorum/store"
)

type note struct {
	Text   string
	Weight uint64
	Tags   []string
}

func (n *note) Validate() error {
	if n.Text == "" {
		return errors.Wrap(errors.ErrEmpty, "text")
	}
	return nil
}

func TestBucketSaveLoad(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("notes")

	assert.Nil(t, b.Save(db, []byte("a"), &note{Text: "first", Weight: 7, Tags: []string{"x"}}))

	var got note
	assert.Nil(t, b.One(db, []byte("a"), &got))
	assert.Equal(t, note{Text: "first", Weight: 7, Tags: []string{"x"}}, got)

	err := b.One(db, []byte("missing"), &got)
	assert.IsErr(t, errors.ErrNotFound, err)

	err = b.Save(db, []byte("b"), &note{})
	assert.IsErr(t, errors.ErrEmpty, err)
	has, err := b.Has(db, []byte("b"))
	assert.Nil(t, err)
	assert.Equal(t, false, has)

	assert.Nil(t, b.Delete(db, []byte("a")))
	assert.IsErr(t, errors.ErrNotFound, b.One(db, []byte("a"), &got))
}

func TestBucketIterate(t *testing.T) {
	db := store.MemStore()
	notes := NewBucket("notes")
	other := NewBucket("notesx")

	assert.Nil(t, notes.Save(db, []byte{1, 2}, &note{Text: "one-two", Weight: 3}))
	assert.Nil(t, notes.Save(db, []byte{1, 1}, &note{Text: "one-one"}))
	assert.Nil(t, notes.Save(db, []byte{2, 0}, &note{Text: "two", Tags: []string{"t"}}))
	// Same prefix characters but a different bucket must never be listed.
	assert.Nil(t, other.Save(db, []byte{1, 0}, &note{Text: "other"}))

	var (
		n     note
		texts []string
	)
	err := notes.Iterate(db, []byte{1}, &n, func(key []byte) error {
		texts = append(texts, n.Text)
		// A reused destination never keeps values of a previous entity.
		if n.Text == "one-one" && n.Weight != 0 {
			t.Fatalf("stale weight: %d", n.Weight)
		}
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, []string{"one-one", "one-two"}, texts)

	keys, err := notes.Keys(db, nil)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{{1, 1}, {1, 2}, {2, 0}}, keys)

	stop := errors.Wrap(errors.ErrHuman, "stop")
	err = notes.Iterate(db, nil, &n, func([]byte) error { return stop })
	assert.IsErr(t, errors.ErrHuman, err)
}

func TestBucketIterateFrom(t *testing.T) {
	db := store.MemStore()
	notes := NewBucket("notes")
	for i, text := range []string{"zero", "one", "two", "three"} {
		assert.Nil(t, notes.Save(db, EncodeSequence(uint64(i)), &note{Text: text}))
	}
	assert.Nil(t, NewBucket("notesx").Save(db, EncodeSequence(9), &note{Text: "other"}))

	var (
		n     note
		texts []string
	)
	err := notes.IterateFrom(db, EncodeSequence(2), &n, func([]byte) error {
		texts = append(texts, n.Text)
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, []string{"two", "three"}, texts)
}

func TestBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("notes")
	assert.Nil(t, b.Save(db, []byte("k1"), &note{Text: "a"}))
	assert.Nil(t, b.Save(db, []byte("k2"), &note{Text: "b"}))

	res, err := b.Query(db, "", []byte("k1"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, []byte("notes:k1"), res[0].Key)
	var n note
	assert.Nil(t, Decode(res[0].Value, &n))
	assert.Equal(t, "a", n.Text)

	res, err = b.Query(db, "", []byte("nope"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(res))

	res, err = b.Query(db, "prefix", []byte("k"))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))

	_, err = b.Query(db, "range", nil)
	assert.IsErr(t, errors.ErrInput, err)
}

func TestBucketName(t *testing.T) {
	assert.Panics(t, func() { NewBucket("X") })
	assert.Panics(t, func() { NewBucket("with:colon") })
	assert.Equal(t, "wallet_tx", NewBucket("wallet_tx").Name())
}

func TestPrefixEnd(t *testing.T) {
	assert.Equal(t, []byte{1, 3}, prefixEnd([]byte{1, 2}))
	assert.Equal(t, []byte{2}, prefixEnd([]byte{1, 0xff}))
	assert.Nil(t, prefixEnd([]byte{0xff, 0xff}))
}
