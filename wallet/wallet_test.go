package wallet

import "testing"

func testSecret() []byte {
	return []byte("00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff")
}

func TestDeriveDeterministic(t *testing.T) {
	secret := testSecret()
	w1, err := Derive(secret, "USER", "a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0", 0)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	w2, err := Derive(secret, "USER", "a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0", 0)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if w1.Address != w2.Address {
		t.Fatalf("same (secret,token,position) produced different addresses: %s != %s", w1.Address, w2.Address)
	}
	if len(w1.Address) != 64 {
		t.Fatalf("expected 64-hex address, got %d chars", len(w1.Address))
	}
	if w1.Bundle != Bundle(secret) {
		t.Fatalf("wallet bundle does not match direct Bundle(secret)")
	}
}

func TestDeriveIndependentForDifferentInputs(t *testing.T) {
	secret := testSecret()
	pos := "b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1b1"
	base, err := Derive(secret, "USER", pos, 0)
	if err != nil {
		t.Fatal(err)
	}
	diffToken, err := Derive(secret, "CRZY", pos, 0)
	if err != nil {
		t.Fatal(err)
	}
	if base.Address == diffToken.Address {
		t.Fatal("changing token did not change address")
	}

	diffPos, err := Derive(secret, "USER", "c2c2c2c2c2c2c2c2c2c2c2c2c2c2c2c2c2c2c2c2c2c2c2c2c2c2c2c2c2c2c2c2", 0)
	if err != nil {
		t.Fatal(err)
	}
	if base.Address == diffPos.Address {
		t.Fatal("changing position did not change address")
	}

	diffSecret, err := Derive([]byte("a different secret entirely"), "USER", pos, 0)
	if err != nil {
		t.Fatal(err)
	}
	if base.Address == diffSecret.Address {
		t.Fatal("changing secret did not change address")
	}
}

func TestDeriveRandomPositionWhenOmitted(t *testing.T) {
	secret := testSecret()
	w1, err := Derive(secret, "USER", "", 0)
	if err != nil {
		t.Fatal(err)
	}
	w2, err := Derive(secret, "USER", "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if w1.Position == w2.Position {
		t.Fatal("expected distinct random positions across calls")
	}
}

func TestDeriveRejectsEmptyToken(t *testing.T) {
	_, err := Derive(testSecret(), "", "", 0)
	if err == nil {
		t.Fatal("expected WalletError for empty token")
	}
}

func TestDeriveRejectsMalformedPosition(t *testing.T) {
	_, err := Derive(testSecret(), "USER", "not-hex", 0)
	if err == nil {
		t.Fatal("expected WalletError for malformed position")
	}
}

func TestDeriveKeyMaterialChainSeedWidth(t *testing.T) {
	km, err := DeriveKeyMaterial(testSecret(), "USER", "d3d3d3d3d3d3d3d3d3d3d3d3d3d3d3d3d3d3d3d3d3d3d3d3d3d3d3d3d3d3d3d3", DefaultKeyWidthBits)
	if err != nil {
		t.Fatal(err)
	}
	for i, seed := range km.ChainSeeds {
		if len(seed) != 64 {
			t.Fatalf("chain %d: expected 64-byte seed, got %d", i, len(seed))
		}
	}
	km.Zero()
	for i, seed := range km.ChainSeeds {
		for j, b := range seed {
			if b != 0 {
				t.Fatalf("Zero did not clear chain %d byte %d", i, j)
			}
		}
	}
}

func TestDeriveKeyMaterialRejectsBadKeyWidth(t *testing.T) {
	if _, err := DeriveKeyMaterial(testSecret(), "USER", "e4e4e4e4e4e4e4e4e4e4e4e4e4e4e4e4e4e4e4e4e4e4e4e4e4e4e4e4e4e4e4e4", 100); err == nil {
		t.Fatal("expected WalletError for non-16-chain-aligned key width")
	}
}
