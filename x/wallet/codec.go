package wallet

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
)

// Wallet models are persisted as protobuf messages. The records below
// carry the wire layout, amounts are stored as big-endian bytes.

type transactionRecord struct {
	Index         uint64 `protobuf:"varint,1,opt,name=index,proto3"`
	Recipient     []byte `protobuf:"bytes,2,opt,name=recipient,proto3"`
	Amount        []byte `protobuf:"bytes,3,opt,name=amount,proto3"`
	Payload       []byte `protobuf:"bytes,4,opt,name=payload,proto3"`
	Confirmations uint32 `protobuf:"varint,5,opt,name=confirmations,proto3"`
	Executed      bool   `protobuf:"varint,6,opt,name=executed,proto3"`
	Submitter     []byte `protobuf:"bytes,7,opt,name=submitter,proto3"`
}

func (m *transactionRecord) Reset()         { *m = transactionRecord{} }
func (m *transactionRecord) String() string { return proto.CompactTextString(m) }
func (*transactionRecord) ProtoMessage()    {}

type eventRecord struct {
	Sequence uint64 `protobuf:"varint,1,opt,name=sequence,proto3"`
	Type     string `protobuf:"bytes,2,opt,name=type,proto3"`
	Owner    []byte `protobuf:"bytes,3,opt,name=owner,proto3"`
	TxIndex  uint64 `protobuf:"varint,4,opt,name=tx_index,json=txIndex,proto3"`
	To       []byte `protobuf:"bytes,5,opt,name=to,proto3"`
	Amount   []byte `protobuf:"bytes,6,opt,name=amount,proto3"`
	Data     []byte `protobuf:"bytes,7,opt,name=data,proto3"`
	Sender   []byte `protobuf:"bytes,8,opt,name=sender,proto3"`
	Balance  []byte `protobuf:"bytes,9,opt,name=balance,proto3"`
}

func (m *eventRecord) Reset()         { *m = eventRecord{} }
func (m *eventRecord) String() string { return proto.CompactTextString(m) }
func (*eventRecord) ProtoMessage()    {}

type registryWire struct {
	Owners   [][]byte `protobuf:"bytes,1,rep,name=owners,proto3"`
	Required uint32   `protobuf:"varint,2,opt,name=required,proto3"`
	Address  []byte   `protobuf:"bytes,3,opt,name=address,proto3"`
}

func (m *registryWire) Reset()         { *m = registryWire{} }
func (m *registryWire) String() string { return proto.CompactTextString(m) }
func (*registryWire) ProtoMessage()    {}

var (
	_ quorum.Persistent = (*Transaction)(nil)
	_ quorum.Persistent = (*Event)(nil)
	_ quorum.Persistent = (*registryRecord)(nil)
)

// Marshal encodes the transaction as a protobuf message.
func (t *Transaction) Marshal() ([]byte, error) {
	return proto.Marshal(&transactionRecord{
		Index:         t.Index,
		Recipient:     t.Recipient,
		Amount:        t.Amount.Bytes(),
		Payload:       t.Payload,
		Confirmations: t.Confirmations,
		Executed:      t.Executed,
		Submitter:     t.Submitter,
	})
}

// Unmarshal decodes the output of Marshal.
func (t *Transaction) Unmarshal(raw []byte) error {
	var rec transactionRecord
	if err := proto.Unmarshal(raw, &rec); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	amount, err := coin.AmountFromBytes(rec.Amount)
	if err != nil {
		return errors.Wrap(err, "amount")
	}
	*t = Transaction{
		Index:         rec.Index,
		Recipient:     address(rec.Recipient),
		Amount:        amount,
		Payload:       rec.Payload,
		Confirmations: rec.Confirmations,
		Executed:      rec.Executed,
		Submitter:     address(rec.Submitter),
	}
	return nil
}

// Marshal encodes the event as a protobuf message.
func (e *Event) Marshal() ([]byte, error) {
	return proto.Marshal(&eventRecord{
		Sequence: e.Sequence,
		Type:     string(e.Type),
		Owner:    e.Owner,
		TxIndex:  e.TxIndex,
		To:       e.To,
		Amount:   e.Amount.Bytes(),
		Data:     e.Data,
		Sender:   e.Sender,
		Balance:  e.Balance.Bytes(),
	})
}

// Unmarshal decodes the output of Marshal.
func (e *Event) Unmarshal(raw []byte) error {
	var rec eventRecord
	if err := proto.Unmarshal(raw, &rec); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	amount, err := coin.AmountFromBytes(rec.Amount)
	if err != nil {
		return errors.Wrap(err, "amount")
	}
	balance, err := coin.AmountFromBytes(rec.Balance)
	if err != nil {
		return errors.Wrap(err, "balance")
	}
	*e = Event{
		Sequence: rec.Sequence,
		Type:     EventType(rec.Type),
		Owner:    address(rec.Owner),
		TxIndex:  rec.TxIndex,
		To:       address(rec.To),
		Amount:   amount,
		Data:     rec.Data,
		Sender:   address(rec.Sender),
		Balance:  balance,
	}
	return nil
}

// Marshal encodes the registry as a protobuf message.
func (r *registryRecord) Marshal() ([]byte, error) {
	owners := make([][]byte, len(r.Owners))
	for i, o := range r.Owners {
		owners[i] = o
	}
	return proto.Marshal(&registryWire{
		Owners:   owners,
		Required: r.Required,
		Address:  r.Address,
	})
}

// Unmarshal decodes the output of Marshal.
func (r *registryRecord) Unmarshal(raw []byte) error {
	var w registryWire
	if err := proto.Unmarshal(raw, &w); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	owners := make([]quorum.Address, len(w.Owners))
	for i, o := range w.Owners {
		owners[i] = quorum.Address(o)
	}
	*r = registryRecord{
		Owners:   owners,
		Required: w.Required,
		Address:  address(w.Address),
	}
	return nil
}

// address keeps an absent field nil.
func address(b []byte) quorum.Address {
	if len(b) == 0 {
		return nil
	}
	return quorum.Address(b)
}
