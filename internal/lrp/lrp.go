// Package lrp implements the Leakage-Resilient Primitive (NXP AN12304):
// the plaintexts/updated-keys key schedule, the nibble-wise LRP
// evaluation, LRICB block encryption, and LRP-CMAC. This is the LRP-mode
// counterpart to internal/block + internal/cmac, used whenever a SUN
// message's PICC blob is 24 bytes (spec §4.4).
package lrp

import (
	"errors"

	"github.com/guideapparel/sdmcore/internal/block"
)

// ErrCryptoFailure mirrors internal/block.ErrCryptoFailure for LRP-local
// failures (bad key length, empty input to a padded LRICB encrypt, ...).
var ErrCryptoFailure = errors.New("crypto failure")

const (
	numPlaintexts  = 16
	numUpdatedKeys = 4
	blockSize      = 16
)

// seed55 and seedAA are the fixed generator seeds for the plaintexts and
// updated-keys tables (spec §4.3.1/§4.3.2).
var (
	seed55 = bytes16(0x55)
	seedAA = bytes16(0xAA)
)

func bytes16(b byte) []byte {
	out := make([]byte, 16)
	for i := range out {
		out[i] = b
	}
	return out
}

// GeneratePlaintexts derives the 16-entry plaintexts table P from key,
// per AN12304 Algorithm 1:
//
//	h = AES_ECB(key, 0x55^16)
//	for i in 0..15: P[i] = AES_ECB(h, 0xAA^16); h = AES_ECB(h, 0x55^16)
func GeneratePlaintexts(key []byte) ([][]byte, error) {
	h, err := block.EncryptECB(key, seed55)
	if err != nil {
		return nil, err
	}
	p := make([][]byte, numPlaintexts)
	for i := 0; i < numPlaintexts; i++ {
		pi, err := block.EncryptECB(h, seedAA)
		if err != nil {
			return nil, err
		}
		p[i] = pi
		h, err = block.EncryptECB(h, seed55)
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

// GenerateUpdatedKeys derives the 4-entry updated-keys table UK from key,
// per AN12304 Algorithm 2:
//
//	h = AES_ECB(key, 0xAA^16)
//	for i in 0..3: UK[i] = AES_ECB(h, 0xAA^16); h = AES_ECB(h, 0x55^16)
func GenerateUpdatedKeys(key []byte) ([][]byte, error) {
	h, err := block.EncryptECB(key, seedAA)
	if err != nil {
		return nil, err
	}
	uk := make([][]byte, numUpdatedKeys)
	for i := 0; i < numUpdatedKeys; i++ {
		uki, err := block.EncryptECB(h, seedAA)
		if err != nil {
			return nil, err
		}
		uk[i] = uki
		h, err = block.EncryptECB(h, seed55)
		if err != nil {
			return nil, err
		}
	}
	return uk, nil
}

// Eval runs AN12304 Algorithm 3: the LRP evaluation function. It consumes
// iv as a stream of 4-bit nibbles in big-endian order (high nibble of each
// byte first), updating y <- AES_ECB(y, P[nibble]) starting from y = uk.
// If finalize, a final y <- AES_ECB(y, 0^16) is applied.
func Eval(p [][]byte, uk []byte, iv []byte, finalize bool) ([]byte, error) {
	y := uk
	for _, b := range iv {
		hi := b >> 4
		lo := b & 0x0F
		next, err := block.EncryptECB(y, p[hi])
		if err != nil {
			return nil, err
		}
		y = next
		next, err = block.EncryptECB(y, p[lo])
		if err != nil {
			return nil, err
		}
		y = next
	}
	if finalize {
		zero := make([]byte, 16)
		final, err := block.EncryptECB(y, zero)
		if err != nil {
			return nil, err
		}
		y = final
	}
	return y, nil
}

// incrementCounter performs a modular increment of a variable-width
// counter, wrapping to all-zero on overflow (spec §4.3.4/§4.3 "Counter
// length").
func incrementCounter(counter []byte) {
	for i := len(counter) - 1; i >= 0; i-- {
		counter[i]++
		if counter[i] != 0 {
			return
		}
	}
}
