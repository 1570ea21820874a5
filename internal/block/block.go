// Package block implements the AES-128 single-block and CBC glue the SUN
// protocol and its MAC constructions are built on: ECB for key-schedule
// steps, CBC (no padding) for the PICC and file payloads, plus the
// constant-time XOR and GF(2^128) doubling primitives CMAC and LRP share.
package block

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"errors"
)

// ErrCryptoFailure is returned for any invalid key or data length passed to
// a block primitive. It deliberately carries no detail about which
// constraint failed, so a caller in the SUN protocol's failure path can
// surface it without leaking which internal step rejected the input.
var ErrCryptoFailure = errors.New("crypto failure")

// EncryptECB encrypts a single 16-byte block under AES-128.
func EncryptECB(key, in []byte) ([]byte, error) {
	if len(key) != 16 || len(in) != 16 {
		return nil, ErrCryptoFailure
	}
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrCryptoFailure
	}
	out := make([]byte, 16)
	c.Encrypt(out, in)
	return out, nil
}

// DecryptECB decrypts a single 16-byte block under AES-128.
func DecryptECB(key, in []byte) ([]byte, error) {
	if len(key) != 16 || len(in) != 16 {
		return nil, ErrCryptoFailure
	}
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrCryptoFailure
	}
	out := make([]byte, 16)
	c.Decrypt(out, in)
	return out, nil
}

// EncryptCBC encrypts plain under AES-128-CBC with no padding. len(plain)
// must be a non-zero multiple of 16.
func EncryptCBC(key, iv, plain []byte) ([]byte, error) {
	if len(key) != 16 || len(plain) == 0 || len(plain)%16 != 0 || len(iv) != 16 {
		return nil, ErrCryptoFailure
	}
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrCryptoFailure
	}
	out := make([]byte, len(plain))
	cipher.NewCBCEncrypter(c, iv).CryptBlocks(out, plain)
	return out, nil
}

// DecryptCBC decrypts cipherText under AES-128-CBC with no padding.
// len(cipherText) must be a non-zero multiple of 16.
func DecryptCBC(key, iv, cipherText []byte) ([]byte, error) {
	if len(key) != 16 || len(cipherText) == 0 || len(cipherText)%16 != 0 || len(iv) != 16 {
		return nil, ErrCryptoFailure
	}
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrCryptoFailure
	}
	out := make([]byte, len(cipherText))
	cipher.NewCBCDecrypter(c, iv).CryptBlocks(out, cipherText)
	return out, nil
}

// Xor writes a XOR b into dst. dst may alias a or b.
func Xor(dst, a, b []byte) {
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}

// leftShift1 left-shifts src by one bit into dst (same length).
func leftShift1(dst, src []byte) {
	var carry byte
	for i := len(src) - 1; i >= 0; i-- {
		b := src[i]
		dst[i] = (b << 1) | carry
		carry = (b >> 7) & 1
	}
}

// Rb is the CMAC/LRP GF(2^128) reduction constant for a 16-byte block.
const Rb = 0x87

// GFDouble computes the GF(2^128) doubling of a 16-byte value, used both
// for CMAC subkey generation and LRP's K1/K2 derivation.
func GFDouble(in []byte) []byte {
	out := make([]byte, len(in))
	leftShift1(out, in)
	if in[0]&0x80 != 0 {
		out[len(out)-1] ^= Rb
	}
	return out
}

// ConstantTimeEqual compares two byte slices in constant time, aggregating
// the comparison across the whole length regardless of where (or whether)
// a mismatch occurs. Used for every SDMMAC comparison in the SUN protocol.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
