// Package molecule composes atoms into molecules, the engine's unit of
// signing and verification. A molecule is built in draft, signed exactly
// once, and checked by any party holding its atoms.
package molecule

import (
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shadowy/molecule/atom"
	"github.com/shadowy/molecule/encode"
	"github.com/shadowy/molecule/hasher"
	"github.com/shadowy/molecule/signer"
	"github.com/shadowy/molecule/wallet"
)

// Status is a molecule's position in its draft → signed lifecycle.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusSigned   Status = "signed"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// PositionStore guards against signing two molecules from the same
// (secret, token, position) triple, which would break WOTS+'s one-time-use
// security. Reserve returns true the first time a fingerprint is seen and
// false on every subsequent call for the same fingerprint.
type PositionStore interface {
	Reserve(fingerprint string) (bool, error)
}

// New constructs a draft molecule. SourceWallet is the wallet whose position
// will sign the molecule; Secret is the private material Sign derives chain
// seeds from. RemainderWallet, Bundle, CellSlug, and Version are optional.
type NewParams struct {
	Secret          []byte
	Bundle          string
	SourceWallet    *wallet.Wallet
	RemainderWallet *wallet.Wallet
	CellSlug        string
	Version         string
	PositionStore   PositionStore
	KeyWidthBits    int
}

// Molecule is an ordered, isotope-typed container of atoms that signs and
// verifies as one unit.
type Molecule struct {
	CellSlug      string
	Bundle        string
	Status        Status
	CreatedAt     string
	Atoms         []*atom.Atom
	MolecularHash string
	LocalError    error

	secret          []byte
	sourceWallet    *wallet.Wallet
	remainderWallet *wallet.Wallet
	version         string
	keyWidthBits    int
	positionStore   PositionStore
	signed          bool
}

// New creates a draft molecule.
func New(p NewParams) *Molecule {
	return &Molecule{
		CellSlug:        p.CellSlug,
		Bundle:          p.Bundle,
		Status:          StatusDraft,
		secret:          p.Secret,
		sourceWallet:    p.SourceWallet,
		remainderWallet: p.RemainderWallet,
		version:         p.Version,
		keyWidthBits:    p.KeyWidthBits,
		positionStore:   p.PositionStore,
	}
}

func currentMillis() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

// generateIndex returns the index the next appended atom would receive.
func (m *Molecule) generateIndex() int {
	return len(m.Atoms)
}

// AddAtom appends a to the molecule if it is still a draft. It assigns a.Index
// from generateIndex() unless the caller already set one explicitly (via
// atom.SetIndex), in which case a duplicate index is rejected. It stamps
// a.CreatedAt with the current time unless the caller already set one.
func (m *Molecule) AddAtom(a *atom.Atom) error {
	if m.signed {
		return newErr(AlreadySigned, "cannot add atoms to a signed molecule")
	}
	if a.Index == atom.UnsetIndex {
		a.Index = m.generateIndex()
	} else {
		for _, existing := range m.Atoms {
			if existing.Index == a.Index {
				return newErr(IndexConflict, "duplicate atom index %d", a.Index)
			}
		}
	}
	if a.CreatedAt == "" {
		a.CreatedAt = currentMillis()
	}
	if m.CreatedAt == "" {
		m.CreatedAt = a.CreatedAt
	}
	m.Atoms = append(m.Atoms, a)
	return nil
}

func (m *Molecule) newAtomFor(w *wallet.Wallet, iso atom.Isotope, token string) *atom.Atom {
	return atom.NewAtom(w.Position, w.Address, iso, token)
}

// InitValue emits a V-isotope transfer: a debit atom on the source wallet, a
// credit atom on recipient, and a remainder atom returning the source
// wallet's residual balance to remainderWallet (the position the source
// wallet may never reuse once signed).
func (m *Molecule) InitValue(recipient *wallet.Wallet, amount *big.Rat) error {
	if m.sourceWallet == nil {
		return newErr(UnknownIsotope, "initValue requires a source wallet")
	}
	if m.remainderWallet == nil {
		return newErr(UnknownIsotope, "initValue requires a remainder wallet for the residual balance")
	}
	token := m.sourceWallet.Token

	balance := new(big.Rat)
	if m.sourceWallet.Balance != nil {
		balance.Set(m.sourceWallet.Balance)
	}

	// The entire source position's balance is dissolved: amount moves to
	// recipient, and whatever is left returns to remainderWallet, since the
	// source position can never sign again once this molecule is sent.
	debit := m.newAtomFor(m.sourceWallet, atom.IsotopeValue, token).
		SetValue(new(big.Rat).Neg(balance))
	if err := m.AddAtom(debit); err != nil {
		return err
	}

	credit := m.newAtomFor(recipient, atom.IsotopeValue, token).SetValue(amount)
	if err := m.AddAtom(credit); err != nil {
		return err
	}

	residual := new(big.Rat).Sub(balance, amount)
	remainder := m.newAtomFor(m.remainderWallet, atom.IsotopeValue, token).SetValue(residual)
	return m.AddAtom(remainder)
}

// InitTokenCreation emits a single T atom issuing amount units of a new token
// into recipient's wallet, with meta carrying at least name/fungibility/
// supply/decimals.
func (m *Molecule) InitTokenCreation(recipient *wallet.Wallet, amount *big.Rat, meta []atom.MetaPair) error {
	if err := requireMetaKeys(atom.IsotopeToken, meta); err != nil {
		return err
	}
	a := m.newAtomFor(recipient, atom.IsotopeToken, recipient.Token).
		SetValue(amount).
		SetMeta(meta)
	return m.AddAtom(a)
}

// InitMeta emits a single M atom against the source wallet.
func (m *Molecule) InitMeta(meta []atom.MetaPair, metaType, metaID string) error {
	if m.sourceWallet == nil {
		return newErr(UnknownIsotope, "initMeta requires a source wallet")
	}
	if len(meta) == 0 {
		return newErr(MissingMeta, "meta atom requires a non-empty meta list")
	}
	a := m.newAtomFor(m.sourceWallet, atom.IsotopeMeta, m.sourceWallet.Token).
		SetMetaType(metaType).
		SetMetaID(metaID).
		SetMeta(meta)
	return m.AddAtom(a)
}

// InitAuthorization emits a single U atom against the source wallet.
func (m *Molecule) InitAuthorization(meta []atom.MetaPair) error {
	if m.sourceWallet == nil {
		return newErr(UnknownIsotope, "initAuthorization requires a source wallet")
	}
	if len(meta) == 0 {
		return newErr(MissingMeta, "authorization atom requires a non-empty permission list")
	}
	a := m.newAtomFor(m.sourceWallet, atom.IsotopeAuthorization, m.sourceWallet.Token).SetMeta(meta)
	return m.AddAtom(a)
}

// InitIdentifierCreation emits a single I atom establishing a ContinuID.
func (m *Molecule) InitIdentifierCreation(meta []atom.MetaPair) error {
	if m.sourceWallet == nil {
		return newErr(UnknownIsotope, "initIdentifierCreation requires a source wallet")
	}
	if len(meta) == 0 {
		return newErr(MissingMeta, "identity atom requires a non-empty meta list")
	}
	a := m.newAtomFor(m.sourceWallet, atom.IsotopeIdentity, m.sourceWallet.Token).SetMeta(meta)
	return m.AddAtom(a)
}

// InitContinuId is an alias of InitIdentifierCreation, named for the
// ContinuID continuity mechanism it establishes.
func (m *Molecule) InitContinuId(meta []atom.MetaPair) error {
	return m.InitIdentifierCreation(meta)
}

// AddContinuIdAtom appends an identity carry-over atom pointing at
// remainderWallet's position, linking the wallet's next position to its
// current ContinuID.
func (m *Molecule) AddContinuIdAtom() error {
	if m.remainderWallet == nil {
		return newErr(UnknownIsotope, "addContinuIdAtom requires a remainder wallet")
	}
	a := m.newAtomFor(m.remainderWallet, atom.IsotopeIdentity, "").
		SetMeta([]atom.MetaPair{{Key: "continuIdPosition", Value: m.remainderWallet.Position}})
	return m.AddAtom(a)
}

func requireMetaKeys(iso atom.Isotope, meta []atom.MetaPair) error {
	keys := atom.RequiredMetaKeys(iso)
	if len(keys) == 0 {
		return nil
	}
	have := make(map[string]bool, len(meta))
	for _, m := range meta {
		have[m.Key] = true
	}
	for _, k := range keys {
		if !have[k] {
			return newErr(MissingMeta, "isotope %s requires meta key %q", iso, k)
		}
	}
	return nil
}

// requiresMetaTypeAndID is the set of isotopes whose required fields name
// metaType and metaId explicitly, not just meta (create and meta records).
var requiresMetaTypeAndID = map[atom.Isotope]bool{
	atom.IsotopeCreate: true,
	atom.IsotopeMeta:   true,
}

func isKnownIsotope(iso atom.Isotope) bool {
	switch iso {
	case atom.IsotopeValue, atom.IsotopeCreate, atom.IsotopeMeta, atom.IsotopeToken,
		atom.IsotopeAuthorization, atom.IsotopeIdentity, atom.IsotopeRule, atom.IsotopeProfile:
		return true
	default:
		return false
	}
}

// validateComposition checks the structural invariants Sign and Check both
// rely on, stopping at the first violation.
func (m *Molecule) validateComposition() error {
	if len(m.Atoms) == 0 {
		return newErr(EmptyAtoms, "molecule has no atoms")
	}
	valueSum := new(big.Rat)
	for i, a := range m.Atoms {
		if !isKnownIsotope(a.Isotope) {
			return newErr(UnknownIsotope, "atom %d has unknown isotope %q", i, a.Isotope)
		}
		if atom.ValueForbidden(a.Isotope) && a.Value != nil {
			return newErr(ValueImbalance, "atom %d: isotope %s must have a null value", i, a.Isotope)
		}
		if atom.RequiresMeta(a.Isotope) && len(a.Meta) == 0 {
			return newErr(MissingMeta, "atom %d: isotope %s requires a non-empty meta list", i, a.Isotope)
		}
		if requiresMetaTypeAndID[a.Isotope] && (a.MetaType == "" || a.MetaID == "") {
			return newErr(MissingMeta, "atom %d: isotope %s requires metaType and metaId", i, a.Isotope)
		}
		if err := requireMetaKeys(a.Isotope, a.Meta); err != nil {
			return err
		}
		if a.Isotope == atom.IsotopeValue && a.Value != nil {
			valueSum.Add(valueSum, a.Value)
		}
		if a.Position == "" || a.WalletAddress == "" {
			return newErr(UnknownIsotope, "atom %d: position and walletAddress must be non-empty", i)
		}
	}
	if valueSum.Sign() != 0 {
		return newErr(ValueImbalance, "V atoms do not sum to zero: %s", valueSum.RatString())
	}
	for i, a := range m.Atoms {
		if a.Index != i {
			return newErr(IndexConflict, "atom %d: index %d is not monotonic", i, a.Index)
		}
	}
	for i := 1; i < len(m.Atoms); i++ {
		if less, err := createdAtLess(m.Atoms[i].CreatedAt, m.Atoms[i-1].CreatedAt); err == nil && less {
			return newErr(IndexConflict, "atom %d: createdAt is not monotonic", i)
		}
	}
	return nil
}

func createdAtLess(a, b string) (bool, error) {
	av, err := strconv.ParseInt(a, 10, 64)
	if err != nil {
		return false, err
	}
	bv, err := strconv.ParseInt(b, 10, 64)
	if err != nil {
		return false, err
	}
	return av < bv, nil
}

func (m *Molecule) fields() []encode.AtomFields {
	fields := make([]encode.AtomFields, len(m.Atoms))
	for i, a := range m.Atoms {
		fields[i] = a.Fields()
	}
	return fields
}

func (m *Molecule) computeHash() (string, error) {
	serialized, err := encode.SerializeAtoms(m.fields())
	if err != nil {
		return "", err
	}
	return hasher.Hex(serialized, 256), nil
}

// Sign computes the molecular hash, derives the source wallet's one-time
// WOTS+ chain seeds from secret, signs the hash, and distributes the
// resulting fragments across the molecule's atoms. If idempotency is true,
// signing an already-signed molecule is a no-op instead of an error.
// anonymous, when true, skips recording the position in the configured
// PositionStore (for test/preview molecules that are never broadcast).
// compressed is accepted but does not change the output: both settings
// write the same concatenated hex fragment string across the atoms; there is
// no separate structured (uncompressed) form.
func (m *Molecule) Sign(idempotency, anonymous, compressed bool) error {
	if m.signed {
		if idempotency {
			return nil
		}
		return newErr(AlreadySigned, "molecule has already been signed")
	}
	if m.sourceWallet == nil {
		return newErr(UnknownIsotope, "sign requires a source wallet")
	}
	if err := m.validateComposition(); err != nil {
		return err
	}

	hash, err := m.computeHash()
	if err != nil {
		return err
	}

	keyWidthBits := m.keyWidthBits
	if keyWidthBits == 0 {
		keyWidthBits = wallet.DefaultKeyWidthBits
	}

	if !anonymous && m.positionStore != nil {
		fingerprint := hasher.HexMulti(256, m.secret, []byte(m.sourceWallet.Token), []byte(m.sourceWallet.Position))
		reserved, err := m.positionStore.Reserve(fingerprint)
		if err != nil {
			return fmt.Errorf("molecule: position store: %w", err)
		}
		if !reserved {
			return newErr(AlreadySigned, "wallet position %s has already signed a molecule", m.sourceWallet.Position)
		}
	}

	km, err := wallet.DeriveKeyMaterial(m.secret, m.sourceWallet.Token, m.sourceWallet.Position, keyWidthBits)
	if err != nil {
		return err
	}
	if km.Address != m.sourceWallet.Address {
		km.Zero()
		return newErr(UnknownIsotope, "derived key material does not match source wallet address")
	}

	fragments, err := signer.SignFragments(hash, km.ChainSeeds)
	km.Zero()
	if err != nil {
		return err
	}

	hexFragments := make([]string, signer.Chains)
	for i, f := range fragments {
		hexFragments[i] = encode.Base256ToHex(f)
	}
	// Both compressed settings produce this one concatenation of the 16
	// per-chain fragments (16*512 hex digits), which Check reassembles.
	combined := strings.Join(hexFragments, "")

	lens := signer.DistributeLengths(len(combined), len(m.Atoms))
	offset := 0
	for i, a := range m.Atoms {
		a.SetOTSFragment(combined[offset : offset+lens[i]])
		offset += lens[i]
	}

	m.MolecularHash = hash
	m.Status = StatusSigned
	m.signed = true
	return nil
}

// Check verifies a signed molecule end to end: it recomputes the molecular
// hash, reassembles and verifies the WOTS+ signature against the source
// wallet's address, and validates every composition invariant. It returns
// the first violated rule as a *CheckError, or nil if the molecule is
// valid.
func (m *Molecule) Check() error {
	if m.sourceWallet == nil {
		return newCheckErr("sourceWallet", fmt.Errorf("check requires a source wallet"))
	}
	if err := m.validateComposition(); err != nil {
		return newCheckErr("composition", err)
	}

	hash, err := m.computeHash()
	if err != nil {
		return newCheckErr("molecularHash", err)
	}
	if hash != m.MolecularHash {
		return newCheckErr("molecularHash", fmt.Errorf("recomputed hash %s does not match stored hash %s", hash, m.MolecularHash))
	}

	combined := make([]string, len(m.Atoms))
	for i, a := range m.Atoms {
		combined[i] = a.OTSFragment
	}
	fragmentHex := strings.Join(combined, "")
	if len(fragmentHex)%signer.Chains != 0 {
		return newCheckErr("otsFragment", fmt.Errorf("reassembled fragment length %d does not divide evenly across %d chains", len(fragmentHex), signer.Chains))
	}
	chainHexLen := len(fragmentHex) / signer.Chains

	var fragments [signer.Chains][]byte
	for c := 0; c < signer.Chains; c++ {
		chainHex := fragmentHex[c*chainHexLen : (c+1)*chainHexLen]
		b, err := encode.HexToBase256(chainHex)
		if err != nil {
			return newCheckErr("otsFragment", err)
		}
		fragments[c] = b
	}

	heads, err := signer.VerifyFragments(hash, fragments)
	if err != nil {
		return newCheckErr("signature", err)
	}

	concatHeads := make([]byte, 0, signer.Chains*signer.ChainSeedBytes)
	for _, h := range heads {
		concatHeads = append(concatHeads, h...)
	}
	address := hasher.Hex(concatHeads, 256)
	if address != m.sourceWallet.Address {
		return newCheckErr("sourceWalletAddress", &signer.SignatureError{
			Kind: signer.AddressMismatch,
			Msg:  fmt.Sprintf("recovered address %s does not match source wallet address %s", address, m.sourceWallet.Address),
		})
	}
	return nil
}

// SortByIndex stabilizes atom order by index, useful after atoms are
// gathered from an unordered source (e.g. a transport response) and before
// Check is called.
func (m *Molecule) SortByIndex() {
	sort.Slice(m.Atoms, func(i, j int) bool { return m.Atoms[i].Index < m.Atoms[j].Index })
}
