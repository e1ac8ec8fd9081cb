package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
)

type balanceRecord struct {
	Amount []byte `protobuf:"bytes,1,opt,name=amount,proto3"`
}

func (m *balanceRecord) Reset()         { *m = balanceRecord{} }
func (m *balanceRecord) String() string { return proto.CompactTextString(m) }
func (*balanceRecord) ProtoMessage()    {}

var _ quorum.Persistent = (*Balance)(nil)

// Marshal encodes the balance as a protobuf message holding the big-endian
// amount.
func (b *Balance) Marshal() ([]byte, error) {
	return proto.Marshal(&balanceRecord{Amount: b.Amount.Bytes()})
}

// Unmarshal decodes the output of Marshal.
func (b *Balance) Unmarshal(raw []byte) error {
	var rec balanceRecord
	if err := proto.Unmarshal(raw, &rec); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	amount, err := coin.AmountFromBytes(rec.Amount)
	if err != nil {
		return errors.Wrap(err, "balance")
	}
	b.Amount = amount
	return nil
}
