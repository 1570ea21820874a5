package sun

import (
	"encoding/hex"
	"strings"

	"github.com/guideapparel/sdmcore/internal/cmac"
	"github.com/guideapparel/sdmcore/internal/lrp"
)

// CalculateSDMMAC computes the 8-byte SDMMAC over piccData (and, if
// present, encFile) per spec §4.4.4.
//
// When encFile is present, its uppercase hex encoding is appended to the
// MAC input; in Separated param mode with a non-empty sdmmacParam, the
// literal "&<sdmmacParam>=" is appended after it (the tag's own firmware
// includes this trailing query-key marker because it is part of the URL
// text as the tag itself constructs it). Bulk mode never appends this
// marker, regardless of sdmmacParam.
func CalculateSDMMAC(paramMode ParamMode, fileReadKey, piccData, encFile []byte, sdmmacParam string, mode EncryptionMode) ([]byte, error) {
	var inputBuf []byte
	if encFile != nil {
		inputBuf = append(inputBuf, []byte(strings.ToUpper(hex.EncodeToString(encFile)))...)
		if paramMode == Separated && sdmmacParam != "" {
			inputBuf = append(inputBuf, []byte("&"+sdmmacParam+"=")...)
		}
	}

	if mode == LRP {
		masterKey, err := deriveSV2(fileReadKey, piccData, LRP)
		if err != nil {
			return nil, err
		}
		cipher, err := lrp.New(masterKey, 0, nil, 16, false)
		if err != nil {
			return nil, &CryptoFailureError{}
		}
		full, err := cipher.CMAC(inputBuf)
		if err != nil {
			return nil, &CryptoFailureError{}
		}
		return cmac.TruncateOddBytes(full), nil
	}

	c2, err := deriveSV2(fileReadKey, piccData, AES)
	if err != nil {
		return nil, err
	}
	full, err := cmac.Sum(c2, inputBuf)
	if err != nil {
		return nil, &CryptoFailureError{}
	}
	return cmac.TruncateOddBytes(full), nil
}
