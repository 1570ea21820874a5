package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/guideapparel/sdmcore/config"
	"github.com/guideapparel/sdmcore/diversify"
	"github.com/guideapparel/sdmcore/reader"
	"github.com/guideapparel/sdmcore/store"
	"github.com/guideapparel/sdmcore/sun"
)

var promptKey bool

var tapCmd = &cobra.Command{
	Use:   "tap",
	Short: "Read and verify one tap of an SDM-provisioned tag",
	RunE:  runTap,
}

func init() {
	tapCmd.Flags().BoolVar(&promptKey, "prompt-key", false, "enter the master key interactively instead of reading it from the configured file")
}

func runTap(cmd *cobra.Command, args []string) error {
	c, err := loadConfig(config.ValidationFull)
	if err != nil {
		return err
	}
	cfg = c

	masterKey, err := resolveMasterKey()
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Store.SQLitePath)
	if err != nil {
		return err
	}
	defer st.Close()

	conn, err := reader.Connect(*cfg.Runtime.ReaderIndex)
	if err != nil {
		return fmt.Errorf("connect reader: %w", err)
	}
	defer conn.Close()

	rawURL, err := reader.ReadSDMFile(conn)
	if err != nil {
		return fmt.Errorf("read SDM NDEF: %w", err)
	}

	uidStr, _, _, err := reader.ParseSDMURL(rawURL)
	if err != nil {
		return fmt.Errorf("parse SDM URL: %w", err)
	}
	uid, err := hex.DecodeString(uidStr)
	if err != nil || len(uid) != 7 {
		return fmt.Errorf("SDM URL carries a malformed uid parameter")
	}

	fileKey, err := diversify.DeriveTagKey(masterKey, uid, *cfg.Keys.FileKeyNo)
	if err != nil {
		return fmt.Errorf("derive file read key: %w", err)
	}

	result, err := reader.ExtractSDMTap(rawURL, fileKey)
	var validationErr *sun.ValidationFailureError
	if errors.As(err, &validationErr) {
		slog.Warn("SDMMAC did not verify, rejecting tap", "uid", uidStr)
		return fmt.Errorf("invalid tap: %w", err)
	}
	if err != nil {
		return fmt.Errorf("decode SUN message: %w", err)
	}

	fresh, err := st.Observe(result.UID, result.ReadCtr)
	if err != nil {
		return fmt.Errorf("check counter freshness: %w", err)
	}

	printTapResult(result, fresh)

	if !*cfg.Runtime.ForcePlain {
		if err := printVersionDiagnostic(conn); err != nil {
			slog.Warn("could not read version info for diagnostics", "error", err)
		}
	}
	return nil
}

func resolveMasterKey() ([]byte, error) {
	if promptKey {
		hexKey, err := promptMasterKeyHex("Master key (hex): ")
		if err != nil {
			return nil, err
		}
		key, err := hex.DecodeString(hexKey)
		if err != nil {
			return nil, fmt.Errorf("master key is not valid hex: %w", err)
		}
		return key, nil
	}
	return reader.LoadKeyHexFile(cfg.Keys.MasterKeyHexFile)
}

func printTapResult(res *sun.PlainResult, fresh bool) {
	uidHex := hex.EncodeToString(res.UID[:])
	fmt.Printf("  Tap verified          [mode: %s]\n", res.EncryptionMode)
	fmt.Printf("    UID:              %s\n", uidHex)
	fmt.Printf("    Read counter:     %d\n", res.ReadCtr)
	if fresh {
		fmt.Println("    Freshness:        fresh (counter advanced)")
	} else {
		fmt.Println("    Freshness:        REPLAY (counter did not advance)")
	}
}

// printVersionDiagnostic prints the tag's unauthenticated GetVersion
// response alongside a verified tap, as a connectivity/identity sanity
// check — it touches no keys and does not gate the tap result.
func printVersionDiagnostic(conn *reader.Connection) error {
	version, err := reader.GetVersion(conn)
	if err != nil {
		return err
	}
	fmt.Printf("    HW/SW version:    %d.%d / %d.%d\n",
		version.HWMajorVer, version.HWMinorVer, version.SWMajorVer, version.SWMinorVer)
	return nil
}
