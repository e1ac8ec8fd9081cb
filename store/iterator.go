package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/quorum/errors"
)

// collectRange returns all btree items with a key in [start, end) in
// ascending order. A nil boundary means no limit on that side.
func collectRange(bt *btree.BTree, start, end []byte) []btree.Item {
	var items []btree.Item
	collect := func(i btree.Item) bool {
		items = append(items, i)
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return items
}

// mergeItems combines the parent state with the local btree changes. Both
// slices must be sorted in the iteration order. Local items take precedence
// over the parent ones and a deleted item hides the parent value.
func mergeItems(parent []Model, local []btree.Item, descending bool) []Model {
	res := make([]Model, 0, len(parent)+len(local))
	var i, j int
	for i < len(parent) || j < len(local) {
		if j == len(local) {
			res = append(res, parent[i])
			i++
			continue
		}

		key := local[j].(keyer).Key()
		if i < len(parent) {
			cmp := bytes.Compare(parent[i].Key, key)
			if descending {
				cmp = -cmp
			}
			if cmp < 0 {
				res = append(res, parent[i])
				i++
				continue
			}
			if cmp == 0 {
				// Shadowed by the local change.
				i++
			}
		}

		if s, ok := local[j].(setItem); ok {
			res = append(res, Pair(s.key, s.value))
		}
		j++
	}
	return res
}

// ReadAll consumes given iterator and returns all its content. The iterator
// is released.
func ReadAll(it Iterator) ([]Model, error) {
	defer it.Release()

	var res []Model
	for {
		key, value, err := it.Next()
		switch {
		case err == nil:
			res = append(res, Pair(key, value))
		case errors.ErrIteratorDone.Is(err):
			return res, nil
		default:
			return nil, err
		}
	}
}
