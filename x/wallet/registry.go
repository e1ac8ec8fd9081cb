package wallet

import (
	"encoding/binary"
	"encoding/json"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
)

const (
	registryBucketName = "wallet"
	registryKey        = "registry"

	addressDomain = "quorum/wallet"
)

// Registry is the fixed set of owners together with the number of
// confirmations a transaction needs before it can be executed. A registry
// never changes once created.
type Registry struct {
	owners   []quorum.Address
	required uint32
	address  quorum.Address
}

// NewRegistry validates the owner set and the threshold. The address is
// the account the engine pays from. When nil, it is derived from the
// owners and the threshold with DeriveAddress.
func NewRegistry(owners []quorum.Address, required uint32, address quorum.Address) (*Registry, error) {
	if len(owners) == 0 {
		return nil, errors.Wrap(ErrInvalidRegistry, "no owners")
	}
	seen := make(map[string]struct{}, len(owners))
	cp := make([]quorum.Address, len(owners))
	for i, o := range owners {
		if err := o.Validate(); err != nil {
			return nil, errors.Append(errors.Wrapf(ErrInvalidRegistry, "owner %d", i), err)
		}
		if o.IsZero() {
			return nil, errors.Wrapf(ErrInvalidRegistry, "owner %d is the zero address", i)
		}
		if _, ok := seen[string(o)]; ok {
			return nil, errors.Wrapf(ErrInvalidRegistry, "duplicated owner %s", o)
		}
		seen[string(o)] = struct{}{}
		cp[i] = o.Clone()
	}
	if required == 0 || int(required) > len(owners) {
		return nil, errors.Wrapf(ErrInvalidRegistry, "required %d of %d owners", required, len(owners))
	}

	if address == nil {
		address = DeriveAddress(cp, required)
	} else {
		if err := address.Validate(); err != nil {
			return nil, errors.Append(errors.Wrap(ErrInvalidRegistry, "address"), err)
		}
		if address.IsZero() {
			return nil, errors.Wrap(ErrInvalidRegistry, "zero address")
		}
	}

	return &Registry{
		owners:   cp,
		required: required,
		address:  address.Clone(),
	}, nil
}

// DeriveAddress returns the default account address of a registry.
func DeriveAddress(owners []quorum.Address, required uint32) quorum.Address {
	data := []byte(addressDomain)
	for _, o := range owners {
		data = append(data, o...)
	}
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], required)
	return quorum.NewAddress(append(data, n[:]...))
}

// IsOwner reports whether p is one of the owners.
func (r *Registry) IsOwner(p quorum.Address) bool {
	for _, o := range r.owners {
		if o.Equals(p) {
			return true
		}
	}
	return false
}

// Required returns the confirmation threshold.
func (r *Registry) Required() uint32 {
	return r.required
}

// Owners returns a copy of the owner list in registration order.
func (r *Registry) Owners() []quorum.Address {
	out := make([]quorum.Address, len(r.owners))
	for i, o := range r.owners {
		out[i] = o.Clone()
	}
	return out
}

// Address returns the account address the wallet pays from.
func (r *Registry) Address() quorum.Address {
	return r.address.Clone()
}

// Equals returns true if both registries hold the same owners in the same
// order, the same threshold and the same address.
func (r *Registry) Equals(o *Registry) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.required != o.required || !r.address.Equals(o.address) || len(r.owners) != len(o.owners) {
		return false
	}
	for i := range r.owners {
		if !r.owners[i].Equals(o.owners[i]) {
			return false
		}
	}
	return true
}

// MarshalJSON renders the registry the same way the genesis file
// declares it.
func (r *Registry) MarshalJSON() ([]byte, error) {
	return json.Marshal(registryRecord{
		Owners:   r.owners,
		Required: r.required,
		Address:  r.address,
	})
}

// registryRecord is the persisted form of a Registry.
type registryRecord struct {
	Owners   []quorum.Address `json:"owners"`
	Required uint32           `json:"required"`
	Address  quorum.Address   `json:"address"`
}

var _ orm.Model = (*registryRecord)(nil)

func (r *registryRecord) Validate() error {
	if r.Address == nil {
		return errors.Wrap(ErrInvalidRegistry, "missing address")
	}
	_, err := NewRegistry(r.Owners, r.Required, r.Address)
	return err
}

func (r *registryRecord) registry() (*Registry, error) {
	return NewRegistry(r.Owners, r.Required, r.Address)
}

// RegistryBucket stores the single registry of a wallet.
type RegistryBucket struct {
	orm.Bucket
}

// NewRegistryBucket returns a bucket with the default name.
func NewRegistryBucket() RegistryBucket {
	return RegistryBucket{Bucket: orm.NewBucket(registryBucketName)}
}

// Init persists the registry. A wallet can be initialised only once.
func (b RegistryBucket) Init(db quorum.KVStore, reg *Registry) error {
	switch ok, err := b.Has(db, []byte(registryKey)); {
	case err != nil:
		return err
	case ok:
		return errors.Wrap(errors.ErrImmutable, "registry already initialised")
	}
	rec := registryRecord{
		Owners:   reg.owners,
		Required: reg.required,
		Address:  reg.address,
	}
	return b.Save(db, []byte(registryKey), &rec)
}

// Load returns the stored registry or ErrNotFound.
func (b RegistryBucket) Load(db quorum.ReadOnlyKVStore) (*Registry, error) {
	var rec registryRecord
	if err := b.One(db, []byte(registryKey), &rec); err != nil {
		return nil, err
	}
	return rec.registry()
}

// DecodeRegistry decodes a registry returned by a "/wallet/registry"
// query.
func DecodeRegistry(raw []byte) (*Registry, error) {
	var rec registryRecord
	if err := orm.Decode(raw, &rec); err != nil {
		return nil, err
	}
	return rec.registry()
}

// InitRegistry persists the registry in the default bucket.
func InitRegistry(db quorum.KVStore, reg *Registry) error {
	return NewRegistryBucket().Init(db, reg)
}

// LoadRegistry reads the registry from the default bucket.
func LoadRegistry(db quorum.ReadOnlyKVStore) (*Registry, error) {
	return NewRegistryBucket().Load(db)
}
