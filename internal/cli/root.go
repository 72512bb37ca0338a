package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"reflect"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/bookrel/internal/model"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
)

// UsageError reports invalid command-line usage
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

func usageErrorf(format string, a ...any) error {
	return &UsageError{Err: fmt.Errorf(format, a...)}
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bookrel",
	Short: "bookrel - character co-occurrence graphs from novels",
	Long: `bookrel turns a plain-text novel into a character co-occurrence graph.

Characters are people named in the text. Two characters are linked when they
are named in the same sentence; links are weighted by how often that happens
and annotated with the chapters in which it was observed.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command. SIGINT and SIGTERM cancel its context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "bookrel %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.bookrel/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in .env, the config file and BOOKREL_* variables
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: .env not loaded: %v\n", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(model.ConfigDir())
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	setDefaults(viper.GetViper(), "", reflect.ValueOf(*model.DefaultConfig()))

	// BOOKREL_HTTP_TIMEOUT overrides http.timeout
	viper.SetEnvPrefix("BOOKREL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every leaf of the default config under its
// mapstructure key so that environment variables can override it
func setDefaults(v *viper.Viper, prefix string, val reflect.Value) {
	t := val.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		key := field.Tag.Get("mapstructure")
		if key == "" || key == "-" {
			continue
		}
		if prefix != "" {
			key = prefix + "." + key
		}

		fv := val.Field(i)
		if fv.Kind() == reflect.Struct && fv.Type() != reflect.TypeOf(time.Duration(0)) {
			setDefaults(v, key, fv)
			continue
		}
		v.SetDefault(key, fv.Interface())
	}
}

// loadConfig builds the effective configuration: defaults, config file,
// environment and bound flags
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	applyProviderEnv(cfg)
	if cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		if abs, err := filepath.Abs(cfg.Cache.Dir); err == nil {
			cfg.Cache.Dir = abs
		}
	}
	return cfg, nil
}

// applyProviderEnv fills recognizer credentials from the providers' usual
// environment variables
func applyProviderEnv(cfg *model.Config) {
	rc := &cfg.Recognizer
	switch strings.ToLower(rc.Provider) {
	case "openai":
		if rc.APIKey == "" {
			rc.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	case "anthropic", "claude":
		if rc.APIKey == "" {
			rc.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && rc.BaseURL == "" {
			rc.BaseURL = baseURL
		}
	}
}
