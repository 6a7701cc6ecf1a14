// Package cmd contains all CLI commands for kosh.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/f3rmion/kosh/internal/config"
	"github.com/f3rmion/kosh/internal/dictionary"
	"github.com/f3rmion/kosh/internal/logging"
)

// DefaultDataFile is where extract writes and the readers look by default.
const DefaultDataFile = "data.json"

var (
	cfgFile string
	logger  = logging.Discard()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kosh",
	Short: "Extract and browse a Gujarati-English dictionary",
	Long: `kosh turns the character stream of a typeset Gujarati-English dictionary
into structured entries and lets you browse them.

Each entry has five fields, told apart by the typeface and ink of the print:
  - Word           (Gujarati head-word typeface)
  - Pronunciation  (red ink)
  - Transcription  (black phonetic alphabet)
  - Part of speech (green ink)
  - Gloss          (black roman or italic prose)

Running 'kosh' without arguments browses the default data file.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBrowse(cmd, nil)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config directory (default is $HOME/.config/kosh)")
	flags.Bool("verbose", false, "verbose output (same as --log-level debug)")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")
	flags.String("log-format", "text", "log format: text or json")
	flags.String("data", DefaultDataFile, "dictionary data file (.json or .db)")

	for _, name := range []string{"verbose", "log-level", "log-format", "data"} {
		viper.BindPFlag(name, flags.Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.Set("config_dir", cfgFile)
	} else {
		dir, err := config.GetConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}
		viper.Set("config_dir", dir)
	}

	viper.SetEnvPrefix("KOSH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Optional defaults for the persistent flags, e.g. "data: ~/gujarati.db".
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(getConfigDir())
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Warning: reading config:", err)
		}
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level := viper.GetString("log-level")
	if viper.GetBool("verbose") {
		level = "debug"
	}

	l, err := logging.New(cmd.ErrOrStderr(), logging.Options{
		Level:  level,
		Format: viper.GetString("log-format"),
	})
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	return viper.GetString("config_dir")
}

// loadProfile reads the profile at path, or the one in the config directory
// when path is empty.
func loadProfile(path string) (config.Profile, error) {
	if path != "" {
		return config.LoadProfile(path)
	}

	cfg, err := config.LoadConfig(getConfigDir())
	if err != nil {
		return config.Profile{}, err
	}
	return cfg.Profile, nil
}

// dataFile picks the data file: an explicit argument wins over --data.
func dataFile(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	if p := viper.GetString("data"); p != "" {
		return expandHome(p)
	}
	return DefaultDataFile
}

func expandHome(p string) string {
	if rest, ok := strings.CutPrefix(p, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return p
}

func loadDictionary(ctx context.Context, path string) (*dictionary.Dictionary, error) {
	dict, err := dictionary.LoadFromFile(ctx, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no dictionary at %s: run 'kosh extract' first: %w", path, err)
		}
		return nil, err
	}
	logger.Debug("dictionary loaded", slog.String("path", path), slog.Int("entries", dict.Size()))
	return dict, nil
}
