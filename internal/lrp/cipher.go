package lrp

import (
	"github.com/guideapparel/sdmcore/internal/block"
)

// Cipher is the mutable, single-threaded, short-lived LRP cipher instance
// described in spec §3/§5: it owns its key-derived plaintexts/updated-keys
// tables, the currently selected updated key, and a variable-length
// counter (1..16 bytes). It must not be shared across goroutines.
type Cipher struct {
	plaintexts  [][]byte
	updatedKeys [][]byte
	currentKey  []byte
	counter     []byte
	padCounter  bool
}

// New instantiates an LRP cipher for key, selecting update mode m (0..3)
// as the current key, with the given initial counter (copied) and padding
// policy. If counter is nil, it defaults to all-zero bytes of width
// counterWidth.
func New(key []byte, updateMode int, counter []byte, counterWidth int, padCounter bool) (*Cipher, error) {
	if updateMode < 0 || updateMode > 3 {
		return nil, ErrCryptoFailure
	}
	p, err := GeneratePlaintexts(key)
	if err != nil {
		return nil, err
	}
	uk, err := GenerateUpdatedKeys(key)
	if err != nil {
		return nil, err
	}

	c := make([]byte, counterWidth)
	if counter != nil {
		if len(counter) != counterWidth {
			return nil, ErrCryptoFailure
		}
		copy(c, counter)
	}

	return &Cipher{
		plaintexts:  p,
		updatedKeys: uk,
		currentKey:  uk[updateMode],
		counter:     c,
		padCounter:  padCounter,
	}, nil
}

// Counter returns a copy of the cipher's current counter value.
func (c *Cipher) Counter() []byte {
	out := make([]byte, len(c.counter))
	copy(out, c.counter)
	return out
}

func (c *Cipher) evalFinal(iv []byte) ([]byte, error) {
	return Eval(c.plaintexts, c.currentKey, iv, true)
}

// EncryptLRICB encrypts plain under LRICB mode (spec §4.3.4), block by
// block, advancing the cipher's counter after each block. When padCounter
// is set, plain must be non-empty and is padded with ISO/IEC 9797-1
// method 2 before encryption; when unset, len(plain) must already be a
// non-zero multiple of 16.
func (c *Cipher) EncryptLRICB(plain []byte) ([]byte, error) {
	var in []byte
	if c.padCounter {
		if len(plain) == 0 {
			return nil, ErrCryptoFailure
		}
		in = padISO97972(plain)
	} else {
		if len(plain) == 0 || len(plain)%16 != 0 {
			return nil, ErrCryptoFailure
		}
		in = plain
	}

	out := make([]byte, len(in))
	for off := 0; off < len(in); off += 16 {
		y, err := c.evalFinal(c.counter)
		if err != nil {
			return nil, err
		}
		enc, err := block.EncryptECB(y, in[off:off+16])
		if err != nil {
			return nil, err
		}
		copy(out[off:off+16], enc)
		incrementCounter(c.counter)
	}
	return out, nil
}

// DecryptLRICB decrypts cipherText under LRICB mode, stripping ISO/IEC
// 9797-1 method 2 padding when padCounter is set.
func (c *Cipher) DecryptLRICB(cipherText []byte) ([]byte, error) {
	if len(cipherText) == 0 || len(cipherText)%16 != 0 {
		return nil, ErrCryptoFailure
	}

	out := make([]byte, len(cipherText))
	for off := 0; off < len(cipherText); off += 16 {
		y, err := c.evalFinal(c.counter)
		if err != nil {
			return nil, err
		}
		dec, err := block.DecryptECB(y, cipherText[off:off+16])
		if err != nil {
			return nil, err
		}
		copy(out[off:off+16], dec)
		incrementCounter(c.counter)
	}

	if c.padCounter {
		return unpadISO97972(out)
	}
	return out, nil
}

func padISO97972(data []byte) []byte {
	padLen := 16 - (len(data) % 16)
	out := make([]byte, len(data)+padLen)
	copy(out, data)
	out[len(data)] = 0x80
	return out
}

func unpadISO97972(data []byte) ([]byte, error) {
	idx := len(data) - 1
	for idx >= 0 && data[idx] == 0x00 {
		idx--
	}
	if idx < 0 || data[idx] != 0x80 {
		return nil, ErrCryptoFailure
	}
	return data[:idx], nil
}

// CMAC computes the LRP-CMAC of msg under this cipher's current key
// (spec §4.3.5): K0 = evalLRP(0^16, finalize), K1/K2 its GF(2^128)
// doublings, message processed in 16-byte blocks exactly as AES-CMAC but
// with evalLRP replacing the AES-ECB chaining step.
func (c *Cipher) CMAC(msg []byte) ([]byte, error) {
	k0, err := c.evalFinal(make([]byte, 16))
	if err != nil {
		return nil, err
	}
	k1 := block.GFDouble(k0)
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

	state := make([]byte, 16)
	for i := 0; i < n-1; i++ {
		start := i * 16
		input := make([]byte, 16)
		block.Xor(input, state, msg[start:start+16])
		next, err := c.evalFinal(input)
		if err != nil {
			return nil, err
		}
		state = next
	}
	block.Xor(state, state, last)
	return c.evalFinal(state)
}
