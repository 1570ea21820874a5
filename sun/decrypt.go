package sun

import (
	"github.com/guideapparel/sdmcore/internal/block"
	"github.com/guideapparel/sdmcore/internal/lrp"
)

// decryptPICC recovers the 16-byte decrypted PICC data block from piccEnc
// under the detected mode (spec §4.4.1 "Decryption of PICC").
func decryptPICC(mode EncryptionMode, metaKey, piccEnc []byte) ([]byte, error) {
	if mode == LRP {
		piccRandom := piccEnc[:8]
		cipherBlock := piccEnc[8:]
		cipher, err := lrp.New(metaKey, 0, piccRandom, 8, false)
		if err != nil {
			return nil, &CryptoFailureError{}
		}
		plain, err := cipher.DecryptLRICB(cipherBlock)
		if err != nil {
			return nil, &CryptoFailureError{}
		}
		return plain, nil
	}

	iv := make([]byte, 16)
	plain, err := block.DecryptCBC(metaKey, iv, piccEnc)
	if err != nil {
		return nil, &CryptoFailureError{}
	}
	return plain, nil
}

func le24(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

// parsedPICC holds the fields recovered from a decrypted PICC block, plus
// the sanitized substitutes used when a structural check fails, so the
// caller can drive a single constant-timing MAC computation regardless of
// whether the message is well formed (spec §4.4.1/§4.4.6).
type parsedPICC struct {
	tag            byte
	uid            [7]byte
	readCtr        uint32
	readCtrPresent bool
	dataStream     []byte // UID || readCtr(LE), or a zero-filled substitute
	structuralErr  string // non-empty if a structural check failed
}

func parsePICC(plain []byte) parsedPICC {
	tag := plain[0]
	uidMirror := tag&0x80 != 0
	ctrMirror := tag&0x40 != 0
	uidLen := tag & 0x0F

	var reason string
	switch {
	case !uidMirror:
		reason = "uid mirror disabled"
	case uidLen != 7:
		reason = "unsupported UID length"
	}

	if reason != "" {
		return parsedPICC{
			tag:           tag,
			dataStream:    make([]byte, 10),
			structuralErr: reason,
		}
	}

	var uid [7]byte
	copy(uid[:], plain[1:8])
	dataStream := append([]byte{}, uid[:]...)

	p := parsedPICC{tag: tag, uid: uid, dataStream: dataStream}
	if ctrMirror {
		ctrBytes := plain[8:11]
		p.dataStream = append(p.dataStream, ctrBytes...)
		p.readCtr = le24(ctrBytes)
		p.readCtrPresent = true
	}
	return p
}

// DecryptSunMessage decrypts and authenticates a SUN message triple,
// recovering the tag UID, monotonic read counter, and (if present)
// plaintext file bytes (spec §4.4.1).
//
// fileKeyFor is invoked exactly once, with the decrypted UID on the
// success path or a zero-filled UID on the timing-uniform rejection path
// driven by a structural PICC-parsing failure.
func DecryptSunMessage(paramMode ParamMode, metaKey []byte, fileKeyFor FileKeyFunc, piccEnc, sdmmac, encFile []byte, sdmmacParam string) (*Result, error) {
	if len(sdmmac) != 8 {
		return nil, &MalformedInputError{Field: "SDMMAC length"}
	}
	if encFile != nil && (len(encFile) == 0 || len(encFile)%16 != 0) {
		return nil, &MalformedInputError{Field: "encrypted file data length"}
	}
	mode, err := DetectMode(piccEnc)
	if err != nil {
		return nil, err
	}

	plain, err := decryptPICC(mode, metaKey, piccEnc)
	if err != nil {
		return nil, err
	}
	parsed := parsePICC(plain)

	fileKey, err := fileKeyFor(parsed.uid)
	if err != nil {
		return nil, err
	}

	calc, err := CalculateSDMMAC(paramMode, fileKey, parsed.dataStream, encFile, sdmmacParam, mode)
	if err != nil {
		return nil, err
	}

	if parsed.structuralErr != "" {
		return nil, &DecryptionFailureError{Reason: parsed.structuralErr}
	}

	if !block.ConstantTimeEqual(calc, sdmmac) {
		return nil, &ValidationFailureError{Reason: "SDMMAC mismatch"}
	}

	var fileData []byte
	if encFile != nil {
		if !parsed.readCtrPresent {
			return nil, &DecryptionFailureError{Reason: "read counter missing"}
		}
		var ctrLE [3]byte
		ctrLE[0] = byte(parsed.readCtr)
		ctrLE[1] = byte(parsed.readCtr >> 8)
		ctrLE[2] = byte(parsed.readCtr >> 16)
		fileData, err = DecryptFileData(fileKey, parsed.dataStream, ctrLE, encFile, mode)
		if err != nil {
			return nil, err
		}
	}

	return &Result{
		PICCDataTag:    parsed.tag,
		UID:            parsed.uid,
		ReadCtr:        parsed.readCtr,
		FileData:       fileData,
		EncryptionMode: mode,
	}, nil
}
