package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guideapparel/sdmcore/diversify"
	"github.com/guideapparel/sdmcore/reader"
	"github.com/guideapparel/sdmcore/store"
	"github.com/guideapparel/sdmcore/sun"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <captured-url>",
	Short: "Decode and verify a previously captured SDM tap URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}
	cfg = c
	rawURL := args[0]

	masterKey, err := reader.LoadKeyHexFile(cfg.Keys.MasterKeyHexFile)
	if err != nil {
		return fmt.Errorf("load master key: %w", err)
	}

	st, err := store.Open(cfg.Store.SQLitePath)
	if err != nil {
		return err
	}
	defer st.Close()

	var uid [7]byte
	var readCtr uint32

	if hasBulkParams(rawURL) {
		res, err := verifyEncrypted(rawURL, masterKey)
		if err != nil {
			return err
		}
		uid, readCtr = res.UID, res.ReadCtr
		printDecryptResult(res)
	} else {
		res, err := verifyPlain(rawURL, masterKey)
		if err != nil {
			return err
		}
		uid, readCtr = res.UID, res.ReadCtr
		printPlainResult(res)
	}

	fresh, err := st.Observe(uid, readCtr)
	if err != nil {
		return fmt.Errorf("check counter freshness: %w", err)
	}
	if fresh {
		fmt.Println("    Freshness:        fresh (counter advanced)")
	} else {
		fmt.Println("    Freshness:        REPLAY (counter did not advance)")
	}
	return nil
}

// hasBulkParams reports whether rawURL carries the full encrypted-PICC
// query layout (picc_data/enc/sdmmac) rather than the ASCII uid/ctr/mac
// cleartext mirror layout.
func hasBulkParams(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return parsed.Query().Get("picc_data") != ""
}

func verifyPlain(rawURL string, masterKey []byte) (*sun.PlainResult, error) {
	uidStr, _, _, err := reader.ParseSDMURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse SDM URL: %w", err)
	}
	uid, err := hex.DecodeString(uidStr)
	if err != nil || len(uid) != 7 {
		return nil, fmt.Errorf("SDM URL carries a malformed uid parameter")
	}

	fileKey, err := diversify.DeriveTagKey(masterKey, uid, *cfg.Keys.FileKeyNo)
	if err != nil {
		return nil, fmt.Errorf("derive file read key: %w", err)
	}

	res, err := reader.ExtractSDMTap(rawURL, fileKey)
	var validationErr *sun.ValidationFailureError
	if errors.As(err, &validationErr) {
		return nil, fmt.Errorf("invalid tap: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("decode plain SUN message: %w", err)
	}
	return res, nil
}

func verifyEncrypted(rawURL string, masterKey []byte) (*sun.Result, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse SDM URL: %w", err)
	}
	q := parsed.Query()

	piccEnc, err := hex.DecodeString(q.Get("picc_data"))
	if err != nil {
		return nil, fmt.Errorf("decode picc_data: %w", err)
	}
	sdmmac, err := hex.DecodeString(q.Get("sdmmac"))
	if err != nil {
		return nil, fmt.Errorf("decode sdmmac: %w", err)
	}
	var encFile []byte
	if encHex := q.Get("enc"); encHex != "" {
		encFile, err = hex.DecodeString(encHex)
		if err != nil {
			return nil, fmt.Errorf("decode enc: %w", err)
		}
	}

	paramMode := sun.Separated
	if strings.EqualFold(cfg.SDM.ParamMode, "bulk") {
		paramMode = sun.Bulk
	}

	metaKey, err := diversify.DeriveUndiversifiedKey(masterKey, 1)
	if err != nil {
		return nil, fmt.Errorf("derive meta key: %w", err)
	}
	fileKeyNo := *cfg.Keys.FileKeyNo
	fileKeyFor := func(uid [7]byte) ([]byte, error) {
		return diversify.DeriveTagKey(masterKey, uid[:], fileKeyNo)
	}

	res, err := sun.DecryptSunMessage(paramMode, metaKey, fileKeyFor, piccEnc, sdmmac, encFile, cfg.SDM.SDMMACParam)
	var validationErr *sun.ValidationFailureError
	if errors.As(err, &validationErr) {
		return nil, fmt.Errorf("invalid tap: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("decode SUN message: %w", err)
	}
	return res, nil
}

func printPlainResult(res *sun.PlainResult) {
	fmt.Printf("  Tap verified          [mode: %s, plain-SUN]\n", res.EncryptionMode)
	fmt.Printf("    UID:              %s\n", hex.EncodeToString(res.UID[:]))
	fmt.Printf("    Read counter:     %d\n", res.ReadCtr)
}

func printDecryptResult(res *sun.Result) {
	fmt.Printf("  Tap verified          [mode: %s]\n", res.EncryptionMode)
	fmt.Printf("    UID:              %s\n", hex.EncodeToString(res.UID[:]))
	fmt.Printf("    Read counter:     %d\n", res.ReadCtr)
	if res.FileData != nil {
		fmt.Printf("    File data:        %s\n", hex.EncodeToString(res.FileData))
	}
}
