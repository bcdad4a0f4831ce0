// Package config defines the Config struct used by the cmd package to bind
// cobra flags and viper configuration values into a single typed
// structure, the same separation the retrieved newsgo tool uses between
// its cmd and config packages.
package config

// Config holds the values populated by viper from cobra flags, environment
// variables (prefixed OOXMLCRYPT_), or an optional config file.
type Config struct {
	// Input is the path to the encrypted OOXML container. The subcommands
	// take the path as their positional argument and do not read this field.
	Input string `mapstructure:"input"`
	// Output is the path the decrypted ZIP bytes are written to. Empty
	// means write to stdout.
	Output string `mapstructure:"output"`
	// Overwrite allows Output to replace an existing file.
	Overwrite bool `mapstructure:"overwrite"`
	// Password is the cleartext password. Prefer PasswordEnv over putting
	// this directly in a config file or on a shared shell history.
	Password string `mapstructure:"password"`
	// PasswordEnv names an environment variable to read the password from,
	// taking precedence over Password when set.
	PasswordEnv string `mapstructure:"password-env"`
	// Verbose raises the CLI's logging level to debug.
	Verbose bool `mapstructure:"verbose"`
	// CheckIntegrity runs the Agile dataIntegrity HMAC cross-check (and,
	// for Standard containers, is a no-op) after a successful decrypt.
	CheckIntegrity bool `mapstructure:"check-integrity"`
	// NoVerifyZIP skips the post-decrypt ZIP-signature sniff the decrypt
	// subcommand otherwise runs.
	NoVerifyZIP bool `mapstructure:"no-verify-zip"`
}

// ResolvePassword returns the password to use: the environment variable
// named by PasswordEnv if set and non-empty, otherwise the literal
// Password field.
func (c Config) ResolvePassword(lookupEnv func(string) (string, bool)) string {
	if c.PasswordEnv != "" {
		if v, ok := lookupEnv(c.PasswordEnv); ok && v != "" {
			return v
		}
	}
	return c.Password
}
