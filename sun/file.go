package sun

import (
	"github.com/guideapparel/sdmcore/internal/block"
	"github.com/guideapparel/sdmcore/internal/lrp"
)

// DecryptFileData decrypts an SDM encrypted file payload under the
// session key derived from fileReadKey and piccData (spec §4.4.5).
// readCtr is the 3-byte little-endian read counter. No padding is
// stripped: the returned plaintext has the same length as encFile.
func DecryptFileData(fileReadKey, piccData []byte, readCtr [3]byte, encFile []byte, mode EncryptionMode) ([]byte, error) {
	if len(encFile) == 0 || len(encFile)%16 != 0 {
		return nil, &MalformedInputError{Field: "encrypted file data length"}
	}

	if mode == LRP {
		masterKey, err := deriveSV1(fileReadKey, piccData, LRP)
		if err != nil {
			return nil, err
		}
		counter := append(append([]byte{}, readCtr[:]...), 0x00, 0x00, 0x00)
		cipher, err := lrp.New(masterKey, 1, counter, 6, false)
		if err != nil {
			return nil, &CryptoFailureError{}
		}
		plain, err := cipher.DecryptLRICB(encFile)
		if err != nil {
			return nil, &CryptoFailureError{}
		}
		return plain, nil
	}

	encSessionKey, err := deriveSV1(fileReadKey, piccData, AES)
	if err != nil {
		return nil, err
	}
	ivIn := make([]byte, 16)
	copy(ivIn, readCtr[:])
	iv, err := block.EncryptECB(encSessionKey, ivIn)
	if err != nil {
		return nil, &CryptoFailureError{}
	}
	plain, err := block.DecryptCBC(encSessionKey, iv, encFile)
	if err != nil {
		return nil, &CryptoFailureError{}
	}
	return plain, nil
}
