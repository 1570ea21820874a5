package reader

import "fmt"

// TagVersion holds the hardware and software identification a DESFire
// GetVersion exchange returns. Reading it requires no authentication, so
// it doubles as a connectivity probe before a tap attempt.
type TagVersion struct {
	HWVendorID    byte
	HWType        byte
	HWSubType     byte
	HWMajorVer    byte
	HWMinorVer    byte
	HWStorageSize byte
	HWProtocol    byte
	SWVendorID    byte
	SWType        byte
	SWSubType     byte
	SWMajorVer    byte
	SWMinorVer    byte
	SWStorageSize byte
	SWProtocol    byte
	UID           []byte
	BatchNo       []byte
	FabKey        byte
	ProdYear      byte
	ProdWeek      byte
}

// GetVersion runs the three-part DESFire GetVersion (INS 0x60) exchange at
// PICC level and assembles the hardware, software, and production fields.
func GetVersion(card Card) (*TagVersion, error) {
	apdu1 := []byte{0x90, 0x60, 0x00, 0x00, 0x00}
	resp1, sw, err := Transmit(card, apdu1)
	if err != nil {
		return nil, err
	}
	if sw != SWMoreData || len(resp1) != 7 {
		return nil, fmt.Errorf("GetVersion part 1 failed (SW=%04X len=%d)", sw, len(resp1))
	}

	apdu2 := []byte{0x90, 0xAF, 0x00, 0x00, 0x00}
	resp2, sw, err := Transmit(card, apdu2)
	if err != nil {
		return nil, err
	}
	if sw != SWMoreData || len(resp2) != 7 {
		return nil, fmt.Errorf("GetVersion part 2 failed (SW=%04X len=%d)", sw, len(resp2))
	}

	apdu3 := []byte{0x90, 0xAF, 0x00, 0x00, 0x00}
	resp3, sw, err := Transmit(card, apdu3)
	if err != nil {
		return nil, err
	}
	if !SwOK(sw) || len(resp3) != 14 {
		return nil, fmt.Errorf("GetVersion part 3 failed (SW=%04X len=%d)", sw, len(resp3))
	}

	return &TagVersion{
		HWVendorID:    resp1[0],
		HWType:        resp1[1],
		HWSubType:     resp1[2],
		HWMajorVer:    resp1[3],
		HWMinorVer:    resp1[4],
		HWStorageSize: resp1[5],
		HWProtocol:    resp1[6],
		SWVendorID:    resp2[0],
		SWType:        resp2[1],
		SWSubType:     resp2[2],
		SWMajorVer:    resp2[3],
		SWMinorVer:    resp2[4],
		SWStorageSize: resp2[5],
		SWProtocol:    resp2[6],
		UID:           resp3[0:7],
		BatchNo:       resp3[7:12],
		FabKey:        resp3[12],
		ProdYear:      resp3[13] >> 4,
		ProdWeek:      resp3[13] & 0x0F,
	}, nil
}
