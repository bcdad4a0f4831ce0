package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xuri/ooxmlcrypt"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <container>",
	Short: "Print the encryption scheme and parameters without a password",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	info, err := ooxmlcrypt.Inspect(raw)
	if err != nil {
		return err
	}
	fmt.Printf("scheme:          %s\n", info.Scheme)
	fmt.Printf("cipherAlgorithm: %s\n", info.CipherAlgorithm)
	fmt.Printf("cipherChaining:  %s\n", info.CipherChaining)
	fmt.Printf("hashAlgorithm:   %s\n", info.HashAlgorithm)
	fmt.Printf("keyBits:         %d\n", info.KeyBits)
	return nil
}
