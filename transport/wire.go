package transport

import (
	"math/big"

	"github.com/shadowy/molecule/atom"
)

// WireMetaPair mirrors one {"key":...,"value":...} entry of an atom's meta
// list.
type WireMetaPair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// WireAtom mirrors the canonical atom wire JSON field for field.
type WireAtom struct {
	Position      string         `json:"position"`
	WalletAddress string         `json:"walletAddress"`
	Isotope       string         `json:"isotope"`
	Token         string         `json:"token"`
	Value         string         `json:"value"`
	BatchID       string         `json:"batchId"`
	MetaType      string         `json:"metaType"`
	MetaID        string         `json:"metaId"`
	Meta          []WireMetaPair `json:"meta"`
	OTSFragment   string         `json:"otsFragment"`
	Index         int            `json:"index"`
	CreatedAt     string         `json:"createdAt"`
}

// WireMolecule mirrors the molecule wire JSON.
type WireMolecule struct {
	CellSlug      string     `json:"cellSlug"`
	Bundle        string     `json:"bundle"`
	Status        string     `json:"status"`
	CreatedAt     string     `json:"createdAt"`
	MolecularHash string     `json:"molecularHash"`
	Atoms         []WireAtom `json:"atoms"`
}

// ToAtom converts a WireAtom into the in-memory atom.Atom type.
func (w WireAtom) ToAtom() (*atom.Atom, error) {
	a := atom.NewAtom(w.Position, w.WalletAddress, atom.Isotope(w.Isotope), w.Token)
	if w.Value != "" {
		v, ok := new(big.Rat).SetString(w.Value)
		if !ok {
			return nil, &TransportError{Err: errInvalidValue(w.Value)}
		}
		a.SetValue(v)
	}
	meta := make([]atom.MetaPair, len(w.Meta))
	for i, m := range w.Meta {
		meta[i] = atom.MetaPair{Key: m.Key, Value: m.Value}
	}
	a.SetMeta(meta).
		SetMetaType(w.MetaType).
		SetMetaID(w.MetaID).
		SetBatchID(w.BatchID).
		SetOTSFragment(w.OTSFragment).
		SetIndex(w.Index).
		SetCreatedAt(w.CreatedAt)
	return a, nil
}

// FromAtom converts an atom.Atom into its wire representation.
func FromAtom(a *atom.Atom) WireAtom {
	meta := make([]WireMetaPair, len(a.Meta))
	for i, m := range a.Meta {
		meta[i] = WireMetaPair{Key: m.Key, Value: m.Value}
	}
	value := ""
	if a.Value != nil {
		value = a.Value.RatString()
	}
	return WireAtom{
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

type valueError string

func (e valueError) Error() string { return "invalid decimal value " + string(e) }

func errInvalidValue(v string) error { return valueError(v) }
