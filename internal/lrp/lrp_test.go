package lrp

import (
	"bytes"
	"testing"
)

func testKey() []byte {
	return []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
}

func TestGeneratePlaintextsShapeAndDeterminism(t *testing.T) {
	p1, err := GeneratePlaintexts(testKey())
	if err != nil {
		t.Fatalf("GeneratePlaintexts: %v", err)
	}
	if len(p1) != 16 {
		t.Fatalf("want 16 entries, got %d", len(p1))
	}
	for i, e := range p1 {
		if len(e) != 16 {
			t.Fatalf("entry %d has length %d, want 16", i, len(e))
		}
	}

	p2, err := GeneratePlaintexts(testKey())
	if err != nil {
		t.Fatalf("GeneratePlaintexts (2nd): %v", err)
	}
	for i := range p1 {
		if !bytes.Equal(p1[i], p2[i]) {
			t.Fatalf("entry %d not deterministic", i)
		}
	}
}

func TestGenerateUpdatedKeysShapeAndDeterminism(t *testing.T) {
	uk1, err := GenerateUpdatedKeys(testKey())
	if err != nil {
		t.Fatalf("GenerateUpdatedKeys: %v", err)
	}
	if len(uk1) != 4 {
		t.Fatalf("want 4 entries, got %d", len(uk1))
	}
	for i, e := range uk1 {
		if len(e) != 16 {
			t.Fatalf("entry %d has length %d, want 16", i, len(e))
		}
	}

	uk2, err := GenerateUpdatedKeys(testKey())
	if err != nil {
		t.Fatalf("GenerateUpdatedKeys (2nd): %v", err)
	}
	for i := range uk1 {
		if !bytes.Equal(uk1[i], uk2[i]) {
			t.Fatalf("entry %d not deterministic", i)
		}
	}
}

func TestLRICBRoundTripUnpadded(t *testing.T) {
	key := testKey()
	plain := bytes.Repeat([]byte{0xAB}, 48) // 3 blocks

	enc, err := New(key, 0, nil, 8, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cipherText, err := enc.EncryptLRICB(plain)
	if err != nil {
		t.Fatalf("EncryptLRICB: %v", err)
	}

	dec, err := New(key, 0, nil, 8, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	roundTrip, err := dec.DecryptLRICB(cipherText)
	if err != nil {
		t.Fatalf("DecryptLRICB: %v", err)
	}
	if !bytes.Equal(roundTrip, plain) {
		t.Fatalf("round trip mismatch: got %x want %x", roundTrip, plain)
	}
}

func TestLRICBRoundTripPadded(t *testing.T) {
	key := testKey()
	plain := []byte("this message is not block aligned")

	enc, err := New(key, 1, nil, 6, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cipherText, err := enc.EncryptLRICB(plain)
	if err != nil {
		t.Fatalf("EncryptLRICB: %v", err)
	}
	if len(cipherText)%16 != 0 {
		t.Fatalf("ciphertext not block aligned: %d", len(cipherText))
	}

	dec, err := New(key, 1, nil, 6, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	roundTrip, err := dec.DecryptLRICB(cipherText)
	if err != nil {
		t.Fatalf("DecryptLRICB: %v", err)
	}
	if !bytes.Equal(roundTrip, plain) {
		t.Fatalf("round trip mismatch: got %q want %q", roundTrip, plain)
	}
}

func TestLRICBPaddedRejectsEmptyInput(t *testing.T) {
	c, err := New(testKey(), 0, nil, 8, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.EncryptLRICB(nil); err != ErrCryptoFailure {
		t.Fatalf("expected ErrCryptoFailure, got %v", err)
	}
}

func TestCounterWrapsFromAllFFToAllZero(t *testing.T) {
	key := testKey()
	counter := bytes.Repeat([]byte{0xFF}, 8)
	c, err := New(key, 0, counter, 8, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.EncryptLRICB(make([]byte, 16)); err != nil {
		t.Fatalf("EncryptLRICB: %v", err)
	}
	if !bytes.Equal(c.Counter(), make([]byte, 8)) {
		t.Fatalf("counter did not wrap to zero: %x", c.Counter())
	}
}

func TestCMACDeterministicAndLength16(t *testing.T) {
	key := testKey()
	c1, err := New(key, 2, nil, 16, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	mac1, err := c1.CMAC([]byte("some SDM mac input"))
	if err != nil {
		t.Fatalf("CMAC: %v", err)
	}
	if len(mac1) != 16 {
		t.Fatalf("CMAC length = %d, want 16", len(mac1))
	}

	c2, err := New(key, 2, nil, 16, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	mac2, err := c2.CMAC([]byte("some SDM mac input"))
	if err != nil {
		t.Fatalf("CMAC: %v", err)
	}
	if !bytes.Equal(mac1, mac2) {
		t.Fatalf("CMAC not deterministic: %x vs %x", mac1, mac2)
	}
}

func TestCMACEmptyMessage(t *testing.T) {
	c, err := New(testKey(), 0, nil, 16, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	mac, err := c.CMAC(nil)
	if err != nil {
		t.Fatalf("CMAC: %v", err)
	}
	if len(mac) != 16 {
		t.Fatalf("CMAC length = %d, want 16", len(mac))
	}
}
