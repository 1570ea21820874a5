package cmac

import (
	"bytes"
	"encoding/hex"
	"testing"
)

// NIST SP 800-38B example vectors for AES-128-CMAC.
func TestSumNISTVectors(t *testing.T) {
	key, _ := hex.DecodeString("2b7e151628aed2a6abf7158809cf4f3c")
	msg, _ := hex.DecodeString(
		"6bc1bee22e409f96e93d7e117393172a" +
			"ae2d8a571e03ac9c9eb76fac45af8e51" +
			"30c81c46a35ce411e5fbc1191a0a52ef" +
			"f69f2445df4f9b17ad2b417be66c3710")

	cases := []struct {
		name string
		in   []byte
		want string
	}{
		{"empty", nil, "bb1d6929e95937287fa37d129b756746"},
		{"16 bytes", msg[:16], "070a16b46b4d4144f79bdd9dd04a287c"},
		{"40 bytes", msg[:40], "dfa66747de9ae63030ca32611497c827"},
		{"64 bytes", msg[:64], "51f0bebf7e3b9d92fc49741779363cfe"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Sum(key, c.in)
			if err != nil {
				t.Fatalf("Sum: %v", err)
			}
			want, err := hex.DecodeString(c.want)
			if err != nil {
				t.Fatalf("bad fixture: %v", err)
			}
			if !bytes.Equal(got, want) {
				t.Fatalf("Sum(%s) = %x, want %x", c.name, got, want)
			}
		})
	}
}

func TestTruncateOddBytes(t *testing.T) {
	full := make([]byte, 16)
	for i := range full {
		full[i] = byte(i)
	}
	got := TruncateOddBytes(full)
	want := []byte{1, 3, 5, 7, 9, 11, 13, 15}
	if !bytes.Equal(got, want) {
		t.Fatalf("TruncateOddBytes = %x, want %x", got, want)
	}
}
