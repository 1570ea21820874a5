package sun

import "fmt"

// MalformedInputError reports that a protocol message part (PICC block,
// SDMMAC, encrypted file) has the wrong length (spec §7).
type MalformedInputError struct {
	Field string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input: %s", e.Field)
}

// CryptoFailureError reports that an underlying block operation failed.
// Its message is deliberately generic so a caller cannot learn which
// internal step rejected the input (spec §7).
type CryptoFailureError struct{}

func (e *CryptoFailureError) Error() string {
	return "crypto failure"
}

// DecryptionFailureError reports that a SUN message decrypted into
// something structurally impossible: an unsupported UID length, a
// disabled UID mirror, or a read counter required but absent. The MAC
// computation always completes against sanitized data before this error
// is raised, so the rejection timing matches a successful MAC-then-reject
// path (spec §4.4.1/§7).
type DecryptionFailureError struct {
	Reason string
}

func (e *DecryptionFailureError) Error() string {
	return fmt.Sprintf("decryption failure: %s", e.Reason)
}

// ValidationFailureError reports that the SDMMAC did not match, or that
// ValidatePlainSun received malformed input; both share one outward class
// (spec §7).
type ValidationFailureError struct {
	Reason string
}

func (e *ValidationFailureError) Error() string {
	return fmt.Sprintf("validation failure: %s", e.Reason)
}
