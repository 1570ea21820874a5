package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"hermannm.dev/devlog"

	"github.com/guideapparel/sdmcore/config"
)

var (
	cfgPath  string
	debug    bool
	logLevel slog.LevelVar

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	Use:   "sdmtap",
	Short: "Read and verify taps of NTAG 424 DNA SDM tags",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	slog.SetDefault(slog.New(devlog.NewHandler(os.Stdout, &devlog.Options{
		Level: &logLevel,
	})))

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to the SDM decoder config YAML file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "print debug logging")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.SetEnvPrefix("SDMTAP")
	viper.AutomaticEnv()

	rootCmd.AddCommand(tapCmd)
}

// loadConfig resolves --config (flag, then SDMTAP_CONFIG env) and loads it
// with the given validation mode, installing the debug log level.
func loadConfig(mode config.ValidationMode) (*config.Config, error) {
	if debug {
		logLevel.Set(slog.LevelDebug)
	}
	path := viper.GetString("config")
	if path == "" {
		return nil, errors.New("missing required --config path")
	}
	return config.LoadWithMode(path, mode)
}
