package sun

import (
	"github.com/guideapparel/sdmcore/internal/cmac"
	"github.com/guideapparel/sdmcore/internal/lrp"
)

// zeroPadTo16 zero-pads data to the next 16-byte boundary, returning data
// unchanged if it is already block aligned.
func zeroPadTo16(data []byte) []byte {
	rem := len(data) % 16
	if rem == 0 {
		return data
	}
	out := make([]byte, len(data)+16-rem)
	copy(out, data)
	return out
}

// aesSessionKey derives an AES-mode session key: AES-CMAC(fileReadKey,
// svPrefix || piccData, zero-padded to 16) (spec §4.4.3).
func aesSessionKey(fileReadKey, svPrefix, piccData []byte) ([]byte, error) {
	stream := zeroPadTo16(append(append([]byte{}, svPrefix...), piccData...))
	mac, err := cmac.Sum(fileReadKey, stream)
	if err != nil {
		return nil, &CryptoFailureError{}
	}
	return mac, nil
}

// lrpSessionKey derives an LRP-mode session key. The input is
// 00 01 00 80 || piccData, zero-padded until (len+2) mod 16 == 0, with a
// 2-byte trailer 1E E1 appended; the session key is LRP-CMAC(fileReadKey,
// stream) from an LRP instance in update mode 0 (spec §4.4.3). LRP's
// construction does not distinguish SV1 from SV2 by prefix — both session
// keys are derived identically; the SV1/SV2 distinction lives entirely in
// how the derived key is used downstream (spec §4.4.3/§4.4.5).
func lrpSessionKey(fileReadKey, piccData []byte) ([]byte, error) {
	base := append(append([]byte{}, lrpPrefix...), piccData...)
	padLen := 0
	for (len(base)+padLen+len(lrpTrailer))%16 != 0 {
		padLen++
	}
	stream := make([]byte, len(base)+padLen+len(lrpTrailer))
	copy(stream, base)
	copy(stream[len(base)+padLen:], lrpTrailer)

	cipher, err := lrp.New(fileReadKey, 0, nil, 16, false)
	if err != nil {
		return nil, &CryptoFailureError{}
	}
	mac, err := cipher.CMAC(stream)
	if err != nil {
		return nil, &CryptoFailureError{}
	}
	return mac, nil
}

// deriveSV1 derives the file-encryption session key for piccData under
// mode.
func deriveSV1(fileReadKey, piccData []byte, mode EncryptionMode) ([]byte, error) {
	if mode == LRP {
		return lrpSessionKey(fileReadKey, piccData)
	}
	return aesSessionKey(fileReadKey, sv1Prefix, piccData)
}

// deriveSV2 derives the MAC session key (AES mode) or MAC master key (LRP
// mode) for piccData under mode.
func deriveSV2(fileReadKey, piccData []byte, mode EncryptionMode) ([]byte, error) {
	if mode == LRP {
		return lrpSessionKey(fileReadKey, piccData)
	}
	return aesSessionKey(fileReadKey, sv2Prefix, piccData)
}
