package main

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xuri/ooxmlcrypt"
)

var decryptCmd = &cobra.Command{
	Use:   "decrypt <container>",
	Short: "Decrypt an encrypted OOXML container and write the plaintext ZIP",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecrypt,
}

func init() {
	decryptCmd.Flags().StringVarP(&c.Output, "output", "o", "", "output file path (default: stdout)")
	decryptCmd.Flags().BoolVar(&c.Overwrite, "overwrite", false, "allow --output to replace an existing file")
	decryptCmd.Flags().StringVar(&c.Password, "password", "", "password (prefer --password-env)")
	decryptCmd.Flags().StringVar(&c.PasswordEnv, "password-env", "", "environment variable to read the password from")
	decryptCmd.Flags().BoolVar(&c.NoVerifyZIP, "no-verify-zip", false, "skip the post-decrypt ZIP signature sniff")
	decryptCmd.Flags().BoolVar(&c.CheckIntegrity, "check-integrity", false, "verify the Agile dataIntegrity HMAC after decrypting")
	rootCmd.AddCommand(decryptCmd)
}

func runDecrypt(cmd *cobra.Command, args []string) error {
	viper.Unmarshal(c)
	input := args[0]

	log.WithField("input", input).Info("reading container")
	raw, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}

	password := c.ResolvePassword(os.LookupEnv)

	info, _ := ooxmlcrypt.Inspect(raw)
	log.WithFields(log.Fields{
		"scheme": info.Scheme,
		"cipher": info.CipherAlgorithm,
		"hash":   info.HashAlgorithm,
	}).Info("detected encryption scheme")

	plaintext, err := ooxmlcrypt.DecryptXLSX(raw, password)
	if err != nil {
		var oe *ooxmlcrypt.Error
		if errors.As(err, &oe) && oe.Kind == ooxmlcrypt.BadPassword {
			return fmt.Errorf("incorrect password")
		}
		return err
	}
	log.WithField("bytes", len(plaintext)).Info("decrypted package")

	if !c.NoVerifyZIP && !ooxmlcrypt.LooksLikeZIP(plaintext) {
		log.Warn("decrypted plaintext does not begin with the ZIP signature")
	}

	if c.CheckIntegrity {
		var ie *ooxmlcrypt.Error
		switch err := ooxmlcrypt.VerifyIntegrity(raw, password, plaintext); {
		case err == nil:
			log.Info("dataIntegrity check passed")
		case errors.As(err, &ie) && ie.Kind == ooxmlcrypt.Unsupported:
			log.Debug("dataIntegrity check not applicable to this scheme")
		default:
			log.WithError(err).Warn("dataIntegrity check failed")
		}
	}

	if c.Output == "" {
		_, err := os.Stdout.Write(plaintext)
		return err
	}
	if !c.Overwrite {
		if _, err := os.Stat(c.Output); err == nil {
			return fmt.Errorf("%s already exists; pass --overwrite to replace it", c.Output)
		}
	}
	return os.WriteFile(c.Output, plaintext, 0o644)
}
