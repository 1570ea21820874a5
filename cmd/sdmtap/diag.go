package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guideapparel/sdmcore/config"
	"github.com/guideapparel/sdmcore/reader"
)

var diagCmd = &cobra.Command{
	Use:   "diag",
	Short: "Probe a tag's version info without touching its keys",
	RunE:  runDiag,
}

func init() {
	rootCmd.AddCommand(diagCmd)
}

func runDiag(cmd *cobra.Command, args []string) error {
	c, err := loadConfig(config.ValidationFull)
	if err != nil {
		return err
	}
	cfg = c

	conn, err := reader.Connect(*cfg.Runtime.ReaderIndex)
	if err != nil {
		return fmt.Errorf("connect reader: %w", err)
	}
	defer conn.Close()

	version, err := reader.GetVersion(conn)
	if err != nil {
		if reader.IsLengthError(err) {
			return fmt.Errorf("get version: tag returned an unexpected response length: %w", err)
		}
		return fmt.Errorf("get version: %w", err)
	}
	fmt.Printf("  UID:                %s\n", hex.EncodeToString(version.UID))
	fmt.Printf("  HW version:         %d.%d\n", version.HWMajorVer, version.HWMinorVer)
	fmt.Printf("  SW version:         %d.%d\n", version.SWMajorVer, version.SWMinorVer)
	fmt.Printf("  Batch number:       %s\n", hex.EncodeToString(version.BatchNo))
	return nil
}
