package engine

import (
	"encoding/hex"
	"path/filepath"
	"testing"
)

func TestDefaultConfigDefaults(t *testing.T) {
	c := DefaultConfig()
	if !c.CompressedSignature {
		t.Fatal("expected compressedSignature to default true")
	}
	if c.KeyWidthBits != 8192 {
		t.Fatalf("expected default keyWidthBits 8192, got %d", c.KeyWidthBits)
	}
}

func TestValidateRejectsMissingCellSlug(t *testing.T) {
	c := DefaultConfig()
	c.NodeURIs = []string{"https://node.example"}
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error for missing cellSlug")
	}
}

func TestValidateRejectsMissingNodes(t *testing.T) {
	c := DefaultConfig()
	c.CellSlug = "test-cell"
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error for missing nodeUris")
	}
}

func TestValidateRejectsBadKeyWidth(t *testing.T) {
	c := DefaultConfig()
	c.CellSlug = "test-cell"
	c.NodeURIs = []string{"https://node.example"}
	c.KeyWidthBits = 100
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error for misaligned keyWidthBits")
	}
}

func TestValidateRejectsNonHexSecret(t *testing.T) {
	c := DefaultConfig()
	c.CellSlug = "test-cell"
	c.NodeURIs = []string{"https://node.example"}
	c.Secret = "not-hex!"
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error for non-hex secret")
	}
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	c := DefaultConfig()
	c.CellSlug = "test-cell"
	c.NodeURIs = []string{"https://node.example"}
	c.Secret = hex.EncodeToString([]byte("a secret"))
	if err := c.Validate(); err != nil {
		t.Fatalf("expected well-formed config to validate, got %v", err)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	c := DefaultConfig()
	c.CellSlug = "round-trip-cell"
	c.NodeURIs = []string{"https://a.example", "https://b.example"}
	c.Secret = hex.EncodeToString([]byte("round trip secret"))

	if err := c.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if loaded.CellSlug != c.CellSlug || len(loaded.NodeURIs) != 2 || loaded.Secret != c.Secret {
		t.Fatalf("round-tripped config mismatch: %+v", loaded)
	}
}

func TestSecretBytesDecodesHex(t *testing.T) {
	c := DefaultConfig()
	c.Secret = hex.EncodeToString([]byte("hello"))
	b, err := c.SecretBytes()
	if err != nil {
		t.Fatalf("SecretBytes: %v", err)
	}
	if string(b) != "hello" {
		t.Fatalf("got %q, want %q", b, "hello")
	}
}
