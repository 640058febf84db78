package transport

import (
	"math/big"
	"net/http/httptest"
	"testing"

	"github.com/shadowy/molecule/molecule"
	"github.com/shadowy/molecule/wallet"
)

func mustWallet(t *testing.T, secret []byte, token, position string) *wallet.Wallet {
	t.Helper()
	w, err := wallet.Derive(secret, token, position, 0)
	if err != nil {
		t.Fatalf("wallet.Derive: %v", err)
	}
	return w
}

func proposeMoleculeVariables(m *molecule.Molecule, sourceAddress string) map[string]interface{} {
	wireAtoms := make([]WireAtom, len(m.Atoms))
	for i, a := range m.Atoms {
		wireAtoms[i] = FromAtom(a)
	}
	return map[string]interface{}{
		"molecule": WireMolecule{
			CellSlug:      m.CellSlug,
			Bundle:        m.Bundle,
			Status:        string(m.Status),
			CreatedAt:     m.CreatedAt,
			MolecularHash: m.MolecularHash,
			Atoms:         wireAtoms,
		},
		"sourceWalletAddress": sourceAddress,
	}
}

func TestSignSubmitAndVerifyRoundTrip(t *testing.T) {
	secret := []byte("transport-test-secret")
	source := mustWallet(t, secret, "CRZY", "2121212121212121212121212121212121212121212121212121212121212121"[:64])
	remainder := mustWallet(t, secret, "CRZY", "2222222222222222222222222222222222222222222222222222222222222222"[:64])
	recipient := mustWallet(t, []byte("recipient-secret"), "CRZY", "2323232323232323232323232323232323232323232323232323232323232323"[:64])

	m := molecule.New(molecule.NewParams{
		Secret:          secret,
		SourceWallet:    source,
		RemainderWallet: remainder,
		CellSlug:        "test-cell",
	})
	if err := m.InitValue(recipient, big.NewRat(25, 1)); err != nil {
		t.Fatalf("InitValue: %v", err)
	}
	if err := m.Sign(false, false, true); err != nil {
		t.Fatalf("Sign: %v", err)
	}

	srv := httptest.NewServer(NewMockServer().Handler())
	defer srv.Close()

	node := NewHTTPNode(srv.URL + "/api/v1/node")
	resp, err := node.ExecuteMutation(MutationProposeMolecule, proposeMoleculeVariables(m, source.Address))
	if err != nil {
		t.Fatalf("ExecuteMutation: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected the mock server to accept the signed molecule, got reason: %s", resp.Reason)
	}
	if resp.Data["molecularHash"] != m.MolecularHash {
		t.Fatalf("expected echoed molecularHash %s, got %v", m.MolecularHash, resp.Data["molecularHash"])
	}
}

func TestMockServerRejectsTamperedMolecule(t *testing.T) {
	secret := []byte("transport-test-secret-two")
	source := mustWallet(t, secret, "CRZY", "2424242424242424242424242424242424242424242424242424242424242424"[:64])
	remainder := mustWallet(t, secret, "CRZY", "2525252525252525252525252525252525252525252525252525252525252525"[:64])
	recipient := mustWallet(t, []byte("recipient-secret-two"), "CRZY", "2626262626262626262626262626262626262626262626262626262626262626"[:64])

	m := molecule.New(molecule.NewParams{
		Secret:          secret,
		SourceWallet:    source,
		RemainderWallet: remainder,
	})
	if err := m.InitValue(recipient, big.NewRat(5, 1)); err != nil {
		t.Fatal(err)
	}
	if err := m.Sign(false, false, true); err != nil {
		t.Fatal(err)
	}
	// Tamper with a value after signing: the server's Check must catch it.
	m.Atoms[1].SetValue(big.NewRat(999, 1))

	srv := httptest.NewServer(NewMockServer().Handler())
	defer srv.Close()

	node := NewHTTPNode(srv.URL + "/api/v1/node")
	resp, err := node.ExecuteMutation(MutationProposeMolecule, proposeMoleculeVariables(m, source.Address))
	if err != nil {
		t.Fatalf("ExecuteMutation: %v", err)
	}
	if resp.Success {
		t.Fatal("expected the mock server to reject the tampered molecule")
	}
}

func TestMockServerRejectsUnsupportedOperation(t *testing.T) {
	srv := httptest.NewServer(NewMockServer().Handler())
	defer srv.Close()

	node := NewHTTPNode(srv.URL + "/api/v1/node")
	resp, err := node.ExecuteQuery(QueryBalance, map[string]interface{}{"bundle": "abc"})
	if err != nil {
		t.Fatalf("ExecuteQuery: %v", err)
	}
	if resp.Success {
		t.Fatal("expected the mock server to reject an operation it does not implement")
	}
}
