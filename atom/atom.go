// Package atom implements the smallest operational record of a molecule: an
// isotope-typed, immutable-once-signed entry.
package atom

import (
	"math/big"

	"github.com/shadowy/molecule/encode"
)

// Isotope is a one-letter tag categorizing what operation an atom performs.
type Isotope string

// The stable isotope alphabet. Vendor-reserved future codes are passed
// through as opaque Isotope values by callers that know about them; this
// package only enforces the constraints of the ones listed here.
const (
	IsotopeValue         Isotope = "V" // value transfer
	IsotopeCreate        Isotope = "C" // wallet creation
	IsotopeMeta          Isotope = "M" // meta write
	IsotopeToken         Isotope = "T" // token issuance
	IsotopeAuthorization Isotope = "U" // authorization
	IsotopeIdentity      Isotope = "I" // identity / ContinuID
	IsotopeRule          Isotope = "R" // rule / policy
	IsotopeProfile       Isotope = "P" // profile / identifier
)

// MetaPair is one (key, value) entry of an atom's meta list, order-preserved.
type MetaPair struct {
	Key   string
	Value string
}

// Atom is one isotope-typed entry of a molecule. Atoms are built with NewAtom
// and the Set* builders, then frozen by Molecule.Sign; no builder may be
// called on an atom belonging to a signed molecule.
type Atom struct {
	Position      string
	WalletAddress string
	Isotope       Isotope
	Token         string
	Value         *big.Rat // nil means null
	BatchID       string   // "" means null
	MetaType      string   // "" means null
	MetaID        string   // "" means null
	Meta          []MetaPair
	OTSFragment   string
	Index         int
	CreatedAt     string // decimal milliseconds since epoch, as a string
}

// NewAtom constructs an atom with its four immutable identity fields. All
// other fields are set through the Set* builders before the owning molecule
// is signed.
func NewAtom(position, walletAddress string, isotope Isotope, token string) *Atom {
	return &Atom{
		Position:      position,
		WalletAddress: walletAddress,
		Isotope:       isotope,
		Token:         token,
		Index:         UnsetIndex,
	}
}

// UnsetIndex marks an atom whose index has not yet been assigned by a
// molecule; Molecule.AddAtom replaces it with the atom's position in the
// molecule. A caller may instead set an explicit index before adding the
// atom, in which case AddAtom honors it (and rejects a duplicate).
const UnsetIndex = -1

func (a *Atom) SetValue(v *big.Rat) *Atom {
	a.Value = v
	return a
}

func (a *Atom) SetMetaType(metaType string) *Atom {
	a.MetaType = metaType
	return a
}

func (a *Atom) SetMetaID(metaID string) *Atom {
	a.MetaID = metaID
	return a
}

func (a *Atom) SetMeta(meta []MetaPair) *Atom {
	a.Meta = meta
	return a
}

func (a *Atom) SetBatchID(batchID string) *Atom {
	a.BatchID = batchID
	return a
}

func (a *Atom) SetIndex(index int) *Atom {
	a.Index = index
	return a
}

func (a *Atom) SetCreatedAt(createdAt string) *Atom {
	a.CreatedAt = createdAt
	return a
}

func (a *Atom) SetOTSFragment(fragment string) *Atom {
	a.OTSFragment = fragment
	return a
}

// Equal reports whether two atoms have identical canonical fields, including
// otsFragment (unlike the molecular hash, which always treats otsFragment as
// empty).
func (a *Atom) Equal(b *Atom) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Position != b.Position ||
		a.WalletAddress != b.WalletAddress ||
		a.Isotope != b.Isotope ||
		a.Token != b.Token ||
		a.BatchID != b.BatchID ||
		a.MetaType != b.MetaType ||
		a.MetaID != b.MetaID ||
		a.OTSFragment != b.OTSFragment ||
		a.Index != b.Index ||
		a.CreatedAt != b.CreatedAt {
		return false
	}
	if (a.Value == nil) != (b.Value == nil) {
		return false
	}
	if a.Value != nil && a.Value.Cmp(b.Value) != 0 {
		return false
	}
	if len(a.Meta) != len(b.Meta) {
		return false
	}
	for i := range a.Meta {
		if a.Meta[i] != b.Meta[i] {
			return false
		}
	}
	return true
}

// Fields projects the atom into its canonical pre-serialization form, the
// exact tuple the molecular hash is computed over.
func (a *Atom) Fields() encode.AtomFields {
	meta := make([]encode.MetaPair, len(a.Meta))
	for i, m := range a.Meta {
		meta[i] = encode.MetaPair{Key: m.Key, Value: m.Value}
	}
	value := ""
	if a.Value != nil {
		value = a.Value.RatString()
	}
	return encode.AtomFields{
		Position:      a.Position,
		WalletAddress: a.WalletAddress,
		Isotope:       string(a.Isotope),
		Token:         a.Token,
		Value:         value,
		BatchID:       a.BatchID,
		MetaType:      a.MetaType,
		MetaID:        a.MetaID,
		Meta:          meta,
		OTSFragment:   a.OTSFragment,
		Index:         a.Index,
		CreatedAt:     a.CreatedAt,
	}
}

// requiredMetaKeys names the meta keys an isotope's required(meta) column
// pins to specific names; isotopes whose required field is just "meta" with
// no named keys (U, I, R) are validated only for non-emptiness, elsewhere in
// the molecule package.
var requiredMetaKeys = map[Isotope][]string{
	IsotopeToken: {"name", "fungibility", "supply", "decimals"},
}

// RequiredMetaKeys returns the meta keys an isotope requires by name, or nil
// if the isotope only requires a non-empty meta list (or none at all).
func RequiredMetaKeys(iso Isotope) []string {
	return requiredMetaKeys[iso]
}

// requiresNonEmptyMeta is the set of isotopes whose required-fields column
// includes "meta", regardless of whether specific keys are pinned.
var requiresNonEmptyMeta = map[Isotope]bool{
	IsotopeCreate:        true,
	IsotopeMeta:          true,
	IsotopeToken:         true,
	IsotopeAuthorization: true,
	IsotopeIdentity:      true,
	IsotopeRule:          true,
}

// RequiresMeta reports whether isotope iso's required-fields column names
// meta at all.
func RequiresMeta(iso Isotope) bool {
	return requiresNonEmptyMeta[iso]
}

// valueForbidden is the set of isotopes whose value rule is "value = null".
var valueForbidden = map[Isotope]bool{
	IsotopeCreate:        true,
	IsotopeMeta:          true,
	IsotopeAuthorization: true,
	IsotopeIdentity:      true,
	IsotopeRule:          true,
}

// ValueForbidden reports whether isotope iso must carry a nil value.
func ValueForbidden(iso Isotope) bool {
	return valueForbidden[iso]
}
