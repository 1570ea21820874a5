package reader

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"github.com/guideapparel/sdmcore/sun"
)

// ParseSDMURL extracts uid, ctr, and mac parameters from an SDM URL.
//
// Returns:
//   - uid: 14-character hex string (7 bytes)
//   - ctr: 6-character hex string (3 bytes, as the tag wrote it)
//   - mac: 16-character hex string (8 bytes truncated CMAC)
//   - error if parsing fails or parameters are missing
func ParseSDMURL(rawURL string) (uid, ctr, mac string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", "", err
	}
	q := u.Query()
	uid = q.Get("uid")
	ctr = q.Get("ctr")
	mac = q.Get("mac")
	if uid == "" || ctr == "" || mac == "" {
		return uid, ctr, mac, fmt.Errorf("missing uid/ctr/mac parameters")
	}
	return uid, ctr, mac, nil
}

// VerifySDMMACDetailed parses a plain-SUN URL and validates its SDMMAC
// against sdmFileKey, delegating the cryptography to the sun package.
//
// Returns:
//   - match: true if MAC matches
//   - counter: read counter value, as carried by the URL; 0 when the MAC
//     does not match
//   - computedMAC: the verified MAC as an upper-case hex string; empty when
//     the MAC does not match
//   - error: if parsing, decoding, or derivation fails
func VerifySDMMACDetailed(rawURL string, sdmFileKey []byte) (match bool, counter uint32, computedMAC string, err error) {
	uidStr, ctrStr, macStr, err := ParseSDMURL(rawURL)
	if err != nil {
		return false, 0, "", err
	}
	if len(uidStr) != 14 || len(ctrStr) != 6 || len(macStr) != 16 {
		return false, 0, "", fmt.Errorf("invalid parameter lengths: uid=%d ctr=%d mac=%d (want 14,6,16)", len(uidStr), len(ctrStr), len(macStr))
	}

	uidBytes, err := hex.DecodeString(uidStr)
	if err != nil || len(uidBytes) != 7 {
		return false, 0, "", fmt.Errorf("UID decode: %v", err)
	}
	ctrBytes, err := hex.DecodeString(ctrStr)
	if err != nil || len(ctrBytes) != 3 {
		return false, 0, "", fmt.Errorf("CTR decode: %v", err)
	}
	macBytes, err := hex.DecodeString(macStr)
	if err != nil || len(macBytes) != 8 {
		return false, 0, "", fmt.Errorf("MAC decode: %v", err)
	}

	var uid [7]byte
	copy(uid[:], uidBytes)
	var ctr [3]byte
	copy(ctr[:], ctrBytes)
	var mac [8]byte
	copy(mac[:], macBytes)

	res, err := sun.ValidatePlainSun(uid, ctr, mac, sdmFileKey, sun.AES)
	if err != nil {
		if _, ok := err.(*sun.ValidationFailureError); ok {
			return false, 0, "", nil
		}
		return false, 0, "", err
	}
	return true, res.ReadCtr, strings.ToUpper(macStr), nil
}

// GenerateSDMURL builds an SDM URL by simulating what the NTAG 424 DNA
// tag does on tap, for testing against readers offline.
//
// Parameters:
//   - baseURL: base URL (e.g., "https://api.guideapparel.com/tap")
//   - uid: 7-byte tag UID
//   - counter: SDM read counter value (0-0xFFFFFF)
//   - sdmFileKey: 16-byte SDM file read key
func GenerateSDMURL(baseURL string, uid []byte, counter uint32, sdmFileKey []byte) (string, error) {
	if len(uid) != 7 {
		return "", fmt.Errorf("UID must be 7 bytes, got %d", len(uid))
	}
	if len(sdmFileKey) != 16 {
		return "", fmt.Errorf("SDM file key must be 16 bytes, got %d", len(sdmFileKey))
	}
	if counter > 0xFFFFFF {
		return "", fmt.Errorf("counter must be <= 0xFFFFFF, got %d", counter)
	}

	uidHex := strings.ToUpper(hex.EncodeToString(uid))
	ctrBytes := [3]byte{byte(counter >> 16), byte(counter >> 8), byte(counter)}
	ctrHex := strings.ToUpper(hex.EncodeToString(ctrBytes[:]))

	var uidArr [7]byte
	copy(uidArr[:], uid)
	dataStream := append(append([]byte{}, uidArr[:]...), ctrBytes[2], ctrBytes[1], ctrBytes[0])
	mac, err := sun.CalculateSDMMAC(sun.Separated, sdmFileKey, dataStream, nil, "", sun.AES)
	if err != nil {
		return "", err
	}
	macHex := strings.ToUpper(hex.EncodeToString(mac))

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %v", err)
	}
	q := parsedURL.Query()
	q.Set("uid", uidHex)
	q.Set("ctr", ctrHex)
	q.Set("mac", macHex)
	parsedURL.RawQuery = q.Encode()
	return parsedURL.String(), nil
}
