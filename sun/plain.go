package sun

import "github.com/guideapparel/sdmcore/internal/block"

// reverseBytes returns a new slice with the bytes of in reversed.
func reverseBytes(in []byte) []byte {
	out := make([]byte, len(in))
	for i, b := range in {
		out[len(in)-1-i] = b
	}
	return out
}

// ValidatePlainSun validates a "plain SUN" message, where the UID and
// read counter travel in the clear and only the SDMMAC is cryptographic
// (spec §4.4.2).
//
// readCtr is the 3-byte counter exactly as carried in the URL (the order
// a caller decoded directly from hex, matching the tag's own "ctr"
// parameter). It is reversed internally to bring it to the canonical
// little-endian order the MAC construction uses after the UID, and the
// un-reversed bytes are interpreted as a big-endian integer for the
// returned counter value, per spec.md §9 Open Question (b).
func ValidatePlainSun(uid [7]byte, readCtr [3]byte, sdmmac [8]byte, fileReadKey []byte, mode EncryptionMode) (*PlainResult, error) {
	reversed := reverseBytes(readCtr[:])
	dataStream := append(append([]byte{}, uid[:]...), reversed...)

	calc, err := CalculateSDMMAC(Separated, fileReadKey, dataStream, nil, "", mode)
	if err != nil {
		return nil, err
	}
	if !block.ConstantTimeEqual(calc, sdmmac[:]) {
		return nil, &ValidationFailureError{Reason: "SDMMAC mismatch"}
	}

	ctrValue := uint32(readCtr[0])<<16 | uint32(readCtr[1])<<8 | uint32(readCtr[2])
	return &PlainResult{
		EncryptionMode: mode,
		UID:            uid,
		ReadCtr:        ctrValue,
	}, nil
}
