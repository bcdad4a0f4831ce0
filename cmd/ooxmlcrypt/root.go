// Command ooxmlcrypt decrypts password-protected OOXML spreadsheet
// containers from the command line: decrypt, inspect, and
// verify-integrity subcommands over the ooxmlcrypt library.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xuri/ooxmlcrypt/config"
)

var (
	cfgFile string
	c       = &config.Config{}
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ooxmlcrypt",
	Short: "Decrypt password-protected OOXML (xlsx/xlsm) containers",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ooxmlcrypt.yaml)")
	rootCmd.PersistentFlags().BoolVar(&c.Verbose, "verbose", false, "enable debug logging")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName(".ooxmlcrypt")
		}
	}

	viper.SetEnvPrefix("OOXMLCRYPT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.WithField("file", viper.ConfigFileUsed()).Debug("using config file")
	}

	if c.Verbose {
		log.SetLevel(log.DebugLevel)
	}
}
