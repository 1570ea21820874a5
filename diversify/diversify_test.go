package diversify

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex fixture %q: %v", s, err)
	}
	return b
}

func TestDeriveUndiversifiedKeyLength(t *testing.T) {
	master := mustHex(t, "47BBB68AFA73F31310BEEFCE5DDA692DBAD671A03FEAD5A9BBDBCF3CD6D4C521")
	key, err := DeriveUndiversifiedKey(master, 1)
	if err != nil {
		t.Fatalf("DeriveUndiversifiedKey: %v", err)
	}
	if len(key) != 16 {
		t.Fatalf("key length = %d, want 16", len(key))
	}
}

func TestDeriveTagKeyLength(t *testing.T) {
	master := mustHex(t, "47BBB68AFA73F31310BEEFCE5DDA692DBAD671A03FEAD5A9BBDBCF3CD6D4C521")
	uid := mustHex(t, "04C24EDA926980")
	key, err := DeriveTagKey(master, uid, 2)
	if err != nil {
		t.Fatalf("DeriveTagKey: %v", err)
	}
	if len(key) != 16 {
		t.Fatalf("key length = %d, want 16", len(key))
	}
}

func TestFactoryKeyPassthrough(t *testing.T) {
	zero := make([]byte, 16)
	uid := mustHex(t, "04C24EDA926980")

	undiv, err := DeriveUndiversifiedKey(zero, 1)
	if err != nil {
		t.Fatalf("DeriveUndiversifiedKey: %v", err)
	}
	if !bytes.Equal(undiv, zero) {
		t.Fatalf("expected zero passthrough, got %x", undiv)
	}

	tag, err := DeriveTagKey(zero, uid, 2)
	if err != nil {
		t.Fatalf("DeriveTagKey: %v", err)
	}
	if !bytes.Equal(tag, zero) {
		t.Fatalf("expected zero passthrough, got %x", tag)
	}
}

func TestFactoryKeyPassthroughStillValidatesArguments(t *testing.T) {
	zero := make([]byte, 16)
	if _, err := DeriveTagKey(zero, []byte{1, 2, 3}, 2); err == nil {
		t.Fatal("expected validation error for short UID even with factory key")
	}
	if _, err := DeriveUndiversifiedKey(zero, 7); err == nil {
		t.Fatal("expected validation error for bad key number even with factory key")
	}
}

func TestDeriveUndiversifiedKeyRejectsBadLengths(t *testing.T) {
	if _, err := DeriveUndiversifiedKey(make([]byte, 10), 1); err == nil {
		t.Fatal("expected error for short master key")
	}
	if _, err := DeriveUndiversifiedKey(make([]byte, 16), 2); err == nil {
		t.Fatal("expected error for bad key number")
	}
}

func TestDeriveTagKeyRejectsBadLengths(t *testing.T) {
	master := make([]byte, 16)
	master[0] = 1
	if _, err := DeriveTagKey(master, make([]byte, 6), 1); err == nil {
		t.Fatal("expected error for short uid")
	}
	if _, err := DeriveTagKey(master, make([]byte, 7), 3); err == nil {
		t.Fatal("expected error for bad key number")
	}
}

func TestDeriveTagKeyDeterministic(t *testing.T) {
	master := mustHex(t, "000102030405060708090A0B0C0D0E0F101112131415161718191A1B1C1D1E")
	uid := mustHex(t, "0401020304050680")[:7]
	k1, err := DeriveTagKey(master, uid, 1)
	if err != nil {
		t.Fatalf("DeriveTagKey: %v", err)
	}
	k2, err := DeriveTagKey(master, uid, 1)
	if err != nil {
		t.Fatalf("DeriveTagKey: %v", err)
	}
	if !bytes.Equal(k1, k2) {
		t.Fatalf("not deterministic: %x vs %x", k1, k2)
	}
	k3, err := DeriveTagKey(master, uid, 2)
	if err != nil {
		t.Fatalf("DeriveTagKey: %v", err)
	}
	if bytes.Equal(k1, k3) {
		t.Fatal("expected different key numbers to diversify differently")
	}
}
