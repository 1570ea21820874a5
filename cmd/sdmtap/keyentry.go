package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// promptMasterKeyHex reads a hex-encoded master key from the terminal with
// echo disabled, the way keyswap/main.go puts stdin into raw mode for the
// duration of a sensitive prompt before restoring it.
func promptMasterKeyHex(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read master key: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}
