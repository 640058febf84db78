package encode

import (
	"strings"
	"testing"
)

func TestSerializeAtomsDeterministic(t *testing.T) {
	atoms := []AtomFields{
		{
			Position:      strings.Repeat("a", 64),
			WalletAddress: strings.Repeat("b", 64),
			Isotope:       "V",
			Token:         "USER",
			Value:         "-100",
			Meta:          []MetaPair{{Key: "k", Value: "v"}},
			OTSFragment:   "deadbeef", // must be hashed as if empty
			Index:         0,
			CreatedAt:     "1700000000000",
		},
	}
	a, err := SerializeAtoms(atoms)
	if err != nil {
		t.Fatalf("SerializeAtoms: %v", err)
	}
	b, err := SerializeAtoms(atoms)
	if err != nil {
		t.Fatalf("SerializeAtoms: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("serialization not deterministic")
	}
	if strings.Contains(string(a), "deadbeef") {
		t.Fatalf("otsFragment leaked into the hashed serialization: %s", a)
	}
	if strings.ContainsAny(string(a), " \t\n") {
		t.Fatalf("serialization introduced whitespace: %s", a)
	}
}

func TestSerializeAtomsNullAsEmptyString(t *testing.T) {
	atoms := []AtomFields{{Isotope: "M", Index: 0}}
	out, err := SerializeAtoms(atoms)
	if err != nil {
		t.Fatalf("SerializeAtoms: %v", err)
	}
	if strings.Contains(string(out), "null") {
		t.Fatalf("expected empty strings rather than null, got %s", out)
	}
}

func TestSerializeAtomsEscaping(t *testing.T) {
	atoms := []AtomFields{{MetaType: "a\"b\\c\nd", Index: 0}}
	out, err := SerializeAtoms(atoms)
	if err != nil {
		t.Fatalf("SerializeAtoms: %v", err)
	}
	want := `\"b\\c\n`
	if !strings.Contains(string(out), want) {
		t.Fatalf("expected escaped sequence %q in %s", want, out)
	}
}

func TestSerializeAtomsRejectsInvalidUTF8(t *testing.T) {
	atoms := []AtomFields{{MetaType: string([]byte{0xff, 0xfe}), Index: 0}}
	if _, err := SerializeAtoms(atoms); err == nil {
		t.Fatal("expected EncodingError for invalid UTF-8")
	} else if _, ok := err.(*EncodingError); !ok {
		t.Fatalf("expected *EncodingError, got %T", err)
	}
}

func TestBase17RoundTrip(t *testing.T) {
	hexes := []string{"0", "ff", "deadbeef", strings.Repeat("f", 64)}
	for _, h := range hexes {
		b17, err := HexToBase17(h)
		if err != nil {
			t.Fatalf("HexToBase17(%s): %v", h, err)
		}
		back, err := Base17ToHex(b17)
		if err != nil {
			t.Fatalf("Base17ToHex(%s): %v", b17, err)
		}
		// compare as big integers (leading zero padding isn't preserved)
		if trimLeadingZeros(back) != trimLeadingZeros(h) {
			t.Fatalf("round trip mismatch: %s -> %s -> %s", h, b17, back)
		}
	}
}

func TestBase17Alphabet(t *testing.T) {
	b17, err := HexToBase17("10") // decimal 16
	if err != nil {
		t.Fatal(err)
	}
	if b17 != "g" {
		t.Fatalf("expected decimal 16 to encode as 'g', got %q", b17)
	}
}

func TestHexToBase256RoundTrip(t *testing.T) {
	h := "deadbeef"
	b, err := HexToBase256(h)
	if err != nil {
		t.Fatal(err)
	}
	if Base256ToHex(b) != h {
		t.Fatalf("base-256 round trip mismatch")
	}
}

func trimLeadingZeros(s string) string {
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "0"
	}
	return s
}
