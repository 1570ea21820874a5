package reader

import "fmt"

// Status word constants for ISO 7816 and DESFire responses.
const (
	SWSuccess              = 0x9000
	SWSecurityNotSatisfied = 0x6982
	SWFileNotFound         = 0x6A82
	SWWrongP1P2            = 0x6A86
	SWWrongLength          = 0x6700
	SWWrongLe              = 0x6C00 // mask: 0x6C00, correct Le in SW2

	SWDESFireOK     = 0x9100
	SWMoreData      = 0x91AF
	SWLengthError   = 0x917E
	SWAuthError     = 0x91AE
	SWPermDenied    = 0x919D
	SWParameterErr  = 0x919E
	SWBoundaryError = 0x911C
	SWNoChanges     = 0x9140
	SWCommandAbort  = 0x91CA
)

// SWError represents a status word error from the card.
type SWError struct {
	Cmd byte
	SW  uint16
}

func (e *SWError) Error() string {
	return fmt.Sprintf("card command 0x%02X failed with SW=0x%04X (%s)", e.Cmd, e.SW, swDescription(e.SW))
}

func swDescription(sw uint16) string {
	switch sw {
	case SWSuccess:
		return "success"
	case SWDESFireOK:
		return "DESFire OK"
	case SWMoreData:
		return "more data expected"
	case SWLengthError:
		return "length error"
	case SWAuthError:
		return "authentication error"
	case SWPermDenied:
		return "permission denied"
	case SWParameterErr:
		return "parameter error"
	case SWBoundaryError:
		return "boundary error"
	case SWNoChanges:
		return "no changes"
	case SWCommandAbort:
		return "command aborted"
	case SWSecurityNotSatisfied:
		return "security not satisfied"
	case SWFileNotFound:
		return "file not found"
	case SWWrongP1P2:
		return "wrong P1/P2"
	case SWWrongLength:
		return "wrong length"
	default:
		if (sw & 0xFF00) == SWWrongLe {
			return fmt.Sprintf("wrong Le (correct Le=%d)", sw&0xFF)
		}
		return "unknown error"
	}
}

// IsLengthError reports whether err is a length-related status word error,
// the class of failure worth distinguishing from a rejected SUN message
// when a tap read goes wrong.
func IsLengthError(err error) bool {
	if swErr, ok := err.(*SWError); ok {
		return swErr.SW == SWLengthError || swErr.SW == SWWrongLength || (swErr.SW&0xFF00) == SWWrongLe
	}
	return false
}

// SwOK reports whether sw indicates success (ISO 9000 or DESFire 9100).
func SwOK(sw uint16) bool {
	return sw == SWSuccess || sw == SWDESFireOK
}
