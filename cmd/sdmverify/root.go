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
	Use:   "sdmverify",
	Short: "Verify a previously captured SDM tap URL offline",
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
	viper.SetEnvPrefix("SDMVERIFY")
	viper.AutomaticEnv()

	rootCmd.AddCommand(verifyCmd)
}

func loadConfig() (*config.Config, error) {
	if debug {
		logLevel.Set(slog.LevelDebug)
	}
	path := viper.GetString("config")
	if path == "" {
		path = cfgPath
	}
	if path == "" {
		return nil, errors.New("missing required --config path")
	}
	return config.LoadWithMode(path, config.ValidationVerifyOnly)
}
