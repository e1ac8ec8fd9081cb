package wallet

import (
	"strconv"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
	cmn "github.com/tendermint/tendermint/libs/common"
)

const eventBucketName = "wallet_events"

// EventType names the state change an event records.
type EventType string

const (
	EventSubmitTransaction  EventType = "SubmitTransaction"
	EventConfirmTransaction EventType = "ConfirmTransaction"
	EventRevokeConfirmation EventType = "RevokeConfirmation"
	EventExecuteTransaction EventType = "ExecuteTransaction"
	EventDeposit            EventType = "Deposit"
)

// Tag keys used when events are exposed as ABCI tags.
const (
	TagEvent = "wallet.event"
	TagTx    = "wallet.tx"
	TagOwner = "wallet.owner"
)

// Event is a single entry of the wallet log. Only the fields relevant to
// the type are set.
type Event struct {
	Sequence uint64         `json:"sequence"`
	Type     EventType      `json:"type"`
	Owner    quorum.Address `json:"owner,omitempty"`
	TxIndex  uint64         `json:"txIndex"`
	To       quorum.Address `json:"to,omitempty"`
	Amount   coin.Amount    `json:"amount"`
	Data     []byte         `json:"data,omitempty"`
	// Sender and Balance are set for deposits only.
	Sender  quorum.Address `json:"sender,omitempty"`
	Balance coin.Amount    `json:"balance"`
}

var _ orm.Model = (*Event)(nil)

// Validate checks the event has a known type.
func (e *Event) Validate() error {
	switch e.Type {
	case EventSubmitTransaction, EventConfirmTransaction, EventRevokeConfirmation, EventExecuteTransaction:
		return errors.Wrap(e.Owner.Validate(), "owner")
	case EventDeposit:
		return errors.Wrap(e.Sender.Validate(), "sender")
	default:
		return errors.Wrapf(errors.ErrInput, "unknown event type %q", e.Type)
	}
}

// Tags returns the ABCI tags describing the events.
func Tags(events []Event) []cmn.KVPair {
	var tags []cmn.KVPair
	for _, e := range events {
		tags = append(tags, cmn.KVPair{Key: []byte(TagEvent), Value: []byte(e.Type)})
		if e.Type == EventDeposit {
			continue
		}
		tags = append(tags,
			cmn.KVPair{Key: []byte(TagTx), Value: []byte(strconv.FormatUint(e.TxIndex, 10))},
			cmn.KVPair{Key: []byte(TagOwner), Value: []byte(e.Owner.String())},
		)
	}
	return tags
}

// EventBucket is the append only event log.
type EventBucket struct {
	orm.Bucket
	seq orm.Sequence
}

// NewEventBucket returns a bucket with the default name.
func NewEventBucket() EventBucket {
	b := orm.NewBucket(eventBucketName)
	return EventBucket{
		Bucket: b,
		seq:    b.Sequence("id"),
	}
}

// Count returns the number of events ever recorded. It is the sequence the
// next event will get.
func (b EventBucket) Count(db quorum.ReadOnlyKVStore) (uint64, error) {
	return b.seq.Current(db)
}

// Append assigns the next sequence to the event and stores it.
func (b EventBucket) Append(db quorum.KVStore, e *Event) error {
	seq, err := b.seq.NextVal(db)
	if err != nil {
		return errors.Wrap(err, "event sequence")
	}
	e.Sequence = seq
	return b.Save(db, orm.EncodeSequence(seq), e)
}

// Since returns every event with a sequence greater or equal to given one,
// oldest first.
func (b EventBucket) Since(db quorum.ReadOnlyKVStore, since uint64) ([]Event, error) {
	var (
		events []Event
		e      Event
	)
	err := b.IterateFrom(db, orm.EncodeSequence(since), &e, func([]byte) error {
		events = append(events, e)
		return nil
	})
	return events, err
}

// DecodeEvent decodes an event returned by a "/wallet/events" query.
func DecodeEvent(raw []byte) (*Event, error) {
	var e Event
	if err := orm.Decode(raw, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
