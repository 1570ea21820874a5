package reader

import "fmt"

// Card abstracts card transmit behavior so the SDM read path can run
// against a real PC/SC connection or a fake in tests.
type Card interface {
	Transmit(apdu []byte) ([]byte, error)
}

// Transmit sends an APDU and splits the response into body and status word.
// The returned data does not include the trailing SW1/SW2 bytes.
func Transmit(card Card, apdu []byte) ([]byte, uint16, error) {
	resp, err := card.Transmit(apdu)
	if err != nil {
		return nil, 0, err
	}
	if len(resp) < 2 {
		return nil, 0, fmt.Errorf("short response: %d bytes", len(resp))
	}
	sw := uint16(resp[len(resp)-2])<<8 | uint16(resp[len(resp)-1])
	return resp[:len(resp)-2], sw, nil
}

// GetUID reads the card UID via the ISO 7816 GET DATA command (FF CA 00 00),
// trying both the wildcard and fixed-length Le values PC/SC readers expect.
func GetUID(card Card) ([]byte, error) {
	for _, le := range []byte{0x00, 0x04} {
		apdu := []byte{0xFF, 0xCA, 0x00, 0x00, le}
		data, sw, err := Transmit(card, apdu)
		if err == nil && SwOK(sw) && len(data) > 0 {
			return data, nil
		}
	}
	return nil, fmt.Errorf("UID not available via GET DATA")
}
