// Package diversify implements the NIST SP 800-108-style key
// diversification function the SUN protocol's meta/file keys are bound to
// a tag's UID with: nested HMAC-SHA-256 over fixed ASCII labels, folded
// into a 16-byte AES key with AES-CMAC (spec §4/§6).
package diversify

import (
	"crypto/hmac"
	"crypto/sha256"

	"github.com/guideapparel/sdmcore/internal/cmac"
)

// InvalidArgumentError reports that an argument's length or range is
// outside the contract the diversifier requires, as distinct from a
// malformed protocol message (spec §7).
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return "invalid argument: " + e.Reason
}

var (
	labelPICCDataKey   = []byte("PICCDataKey")
	labelSlotMasterKey = []byte("SlotMasterKey")
	labelDivBaseKey    = []byte("DivBaseKey")
)

func validateMasterKey(masterKey []byte) error {
	if len(masterKey) < 16 || len(masterKey) > 32 {
		return &InvalidArgumentError{Reason: "master key must be 16-32 bytes"}
	}
	return nil
}

func truncate16(full []byte) []byte {
	out := make([]byte, 16)
	copy(out, full[:16])
	return out
}

func hmacSHA256(key, msg []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(msg)
	return mac.Sum(nil)
}

func isAllZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// DeriveUndiversifiedKey derives K_SDMMetaReadKey-style keys that are not
// bound to a UID: truncate16(HMAC-SHA-256(masterKey, "PICCDataKey")).
// keyNumber must be 1. If masterKey is 16 zero bytes, the factory-key
// passthrough applies and 16 zero bytes are returned (after validation).
func DeriveUndiversifiedKey(masterKey []byte, keyNumber int) ([]byte, error) {
	if err := validateMasterKey(masterKey); err != nil {
		return nil, err
	}
	if keyNumber != 1 {
		return nil, &InvalidArgumentError{Reason: "key number must be 1"}
	}
	if len(masterKey) == 16 && isAllZero(masterKey) {
		return make([]byte, 16), nil
	}
	return truncate16(hmacSHA256(masterKey, labelPICCDataKey)), nil
}

// DeriveTagKey derives a UID-diversified key:
//
//	cmacKey = truncate16(HMAC-SHA-256(masterKey, "SlotMasterKey" || byte(keyNumber)))
//	inner   = HMAC-SHA-256(masterKey, "DivBaseKey")             (32 bytes)
//	mid     = truncate16(HMAC-SHA-256(inner, uid))
//	return AES-CMAC(cmacKey, 0x01 || mid)
//
// uid must be 7 bytes and keyNumber in {1,2}. If masterKey is 16 zero
// bytes, the factory-key passthrough applies and 16 zero bytes are
// returned regardless of uid/keyNumber, after the same validation.
func DeriveTagKey(masterKey, uid []byte, keyNumber int) ([]byte, error) {
	if err := validateMasterKey(masterKey); err != nil {
		return nil, err
	}
	if len(uid) != 7 {
		return nil, &InvalidArgumentError{Reason: "uid must be 7 bytes"}
	}
	if keyNumber != 1 && keyNumber != 2 {
		return nil, &InvalidArgumentError{Reason: "key number must be 1 or 2"}
	}
	if len(masterKey) == 16 && isAllZero(masterKey) {
		return make([]byte, 16), nil
	}

	slotLabel := append(append([]byte{}, labelSlotMasterKey...), byte(keyNumber))
	cmacKey := truncate16(hmacSHA256(masterKey, slotLabel))

	inner := hmacSHA256(masterKey, labelDivBaseKey)
	mid := truncate16(hmacSHA256(inner, uid))

	msg := append([]byte{0x01}, mid...)
	return cmac.Sum(cmacKey, msg)
}
