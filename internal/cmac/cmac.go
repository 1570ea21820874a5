// Package cmac implements AES-128-CMAC per NIST SP 800-38B, the
// authentication primitive the SUN protocol's AES-mode MAC and session-key
// derivations are built on.
package cmac

import (
	"github.com/guideapparel/sdmcore/internal/block"
)

// Sum computes the 16-byte AES-CMAC of msg under key. key must be a valid
// AES-128 key (16 bytes).
func Sum(key, msg []byte) ([]byte, error) {
	zero := make([]byte, 16)
	l, err := block.EncryptECB(key, zero)
	if err != nil {
		return nil, err
	}
	k1 := block.GFDouble(l)
	k2 := block.GFDouble(k1)

	n := (len(msg) + 15) / 16
	if n == 0 {
		n = 1
	}
	lastIsFull := len(msg) != 0 && len(msg)%16 == 0

	last := make([]byte, 16)
	if lastIsFull {
		copy(last, msg[(n-1)*16:])
		block.Xor(last, last, k1)
	} else {
		remain := len(msg) - (n-1)*16
		if remain > 0 {
			copy(last, msg[(n-1)*16:])
		}
		last[remain] = 0x80
		block.Xor(last, last, k2)
	}

	x := make([]byte, 16)
	y := make([]byte, 16)
	for i := 0; i < n-1; i++ {
		start := i * 16
		block.Xor(y, x, msg[start:start+16])
		enc, err := block.EncryptECB(key, y)
		if err != nil {
			return nil, err
		}
		x = enc
	}
	block.Xor(y, x, last)
	return block.EncryptECB(key, y)
}

// TruncateOddBytes extracts the 8-byte SDMMAC from a full 16-byte CMAC
// digest, taking the bytes at indexes 1,3,5,7,9,11,13,15 (spec §3/§4.2).
func TruncateOddBytes(full []byte) []byte {
	out := make([]byte, 8)
	for i := 0; i < 8; i++ {
		out[i] = full[1+i*2]
	}
	return out
}
