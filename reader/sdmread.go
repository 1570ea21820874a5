package reader

import (
	"encoding/hex"
	"fmt"

	"github.com/guideapparel/sdmcore/sun"
)

func hexDecodeExact(s string, wantLen int) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(b) != wantLen {
		return nil, fmt.Errorf("want %d bytes, got %d", wantLen, len(b))
	}
	return b, nil
}

// ReadSDMFile reads the NDEF message from a tapped tag and returns the
// full SDM URL it carries (File 2, the default SDM-configured NDEF file).
func ReadSDMFile(card Card) (string, error) {
	ndef, err := ReadNDEF(card)
	if err != nil {
		return "", err
	}
	uri, err := extractURIFromNDEF(ndef)
	if err != nil {
		return "", err
	}
	return uri, nil
}

func extractURIFromNDEF(ndef []byte) (string, error) {
	if len(ndef) < 6 {
		return "", fmt.Errorf("NDEF message too short")
	}
	// TNFFLAGS(1) TYPELEN(1) PAYLOADLEN(1) TYPE(1) PREFIX(1) URI...
	payloadLen := int(ndef[2])
	if payloadLen < 1 || len(ndef) < 4+payloadLen {
		return "", fmt.Errorf("NDEF payload length out of range")
	}
	prefixCode := ndef[4]
	uri := string(ndef[5 : 4+payloadLen])

	prefixes := map[byte]string{
		0x00: "",
		0x01: "http://www.",
		0x02: "https://www.",
		0x03: "http://",
		0x04: "https://",
	}
	prefix, ok := prefixes[prefixCode]
	if !ok {
		return "", fmt.Errorf("unsupported URI prefix code 0x%02X", prefixCode)
	}
	return prefix + uri, nil
}

// ExtractSDMTap parses a tapped SDM URL and validates it against
// fileReadKey, delegating the SUN verification itself to the sun package.
// It returns the validated UID and read counter, suitable for freshness
// checking against a stored high-water mark.
func ExtractSDMTap(rawURL string, fileReadKey []byte) (*sun.PlainResult, error) {
	uidStr, ctrStr, macStr, err := ParseSDMURL(rawURL)
	if err != nil {
		return nil, err
	}
	if len(uidStr) != 14 || len(ctrStr) != 6 || len(macStr) != 16 {
		return nil, fmt.Errorf("invalid parameter lengths: uid=%d ctr=%d mac=%d (want 14,6,16)", len(uidStr), len(ctrStr), len(macStr))
	}

	uidBytes, ctrBytes, macBytes, err := decodeSDMHexParams(uidStr, ctrStr, macStr)
	if err != nil {
		return nil, err
	}

	var uid [7]byte
	copy(uid[:], uidBytes)
	var ctr [3]byte
	copy(ctr[:], ctrBytes)
	var mac [8]byte
	copy(mac[:], macBytes)

	return sun.ValidatePlainSun(uid, ctr, mac, fileReadKey, sun.AES)
}

func decodeSDMHexParams(uidStr, ctrStr, macStr string) (uid, ctr, mac []byte, err error) {
	uid, err = hexDecodeExact(uidStr, 7)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("uid: %w", err)
	}
	ctr, err = hexDecodeExact(ctrStr, 3)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("ctr: %w", err)
	}
	mac, err = hexDecodeExact(macStr, 8)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("mac: %w", err)
	}
	return uid, ctr, mac, nil
}
