package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cgoiri "iri2020/cgo/iri"
	"iri2020/internal/config"
	"iri2020/internal/fetchers"
	"iri2020/internal/iri"
	"iri2020/internal/logger"
	"iri2020/internal/mocks"
	"iri2020/internal/native"
	"iri2020/internal/settings"
	"iri2020/internal/storage"
)

// Global flags shared by every command.
var (
	dataDir  string
	useMock  bool
	logLevel string

	// cfg is loaded from the environment before any command runs
	cfg *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "reference data directory (default $IRI_DATA_DIR)")
	rootCmd.PersistentFlags().BoolVar(&useMock, "mock", false, "use the synthetic solver instead of the native library")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default $LOG_LEVEL)")
}

var rootCmd = &cobra.Command{
	Use:   "iri",
	Short: "Evaluate the IRI-2020 ionosphere model",
	Long: `iri compiles model settings, runs the IRI-2020 model for a location,
time and altitude grid, and prints the labeled result as JSON.
It also keeps the model's reference data files up to date.`,
	SilenceUsage:      true,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}
		c, err := config.Load(cmd.Context())
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("data-dir") {
			c.DataDir = dataDir
		}
		if useMock {
			c.MockupMode = true
		}
		if cmd.Flags().Changed("log-level") {
			c.LogLevel = logLevel
		}
		cfg = c

		// stdout carries the JSON output
		logger.SetGlobalLogger(logger.New(logger.Config{
			Level:  logger.ParseLevel(cfg.LogLevel),
			Format: logger.TextFormat,
			Output: cmd.ErrOrStderr(),
		}))
		return nil
	},
}

func newSolver() native.Solver {
	if cfg.MockupMode {
		return mocks.NewMockSolver()
	}
	return cgoiri.New()
}

// openModel initializes a model whose default settings come from
// settingsFile, or the built-in defaults when it is empty.
func openModel(settingsFile string, benchmark bool) (*iri.Model, error) {
	opts := iri.Options{DataDir: cfg.DataDir, Benchmark: benchmark}
	if settingsFile != "" {
		s, err := settings.LoadFile(settingsFile)
		if err != nil {
			return nil, err
		}
		opts.Settings = &s
	}
	model := iri.New(newSolver(), opts)
	if err := model.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize IRI model: %w", err)
	}
	return model, nil
}

func openStore() (*storage.LocalStorageClient, error) {
	store, err := storage.NewLocalStorageClient(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open data directory: %w", err)
	}
	return store, nil
}

func newFetcher(store storage.StorageClient) *fetchers.DataFetcher {
	return fetchers.NewDataFetcher(store, fetchers.Options{
		BaseURL: cfg.ReferenceURL,
		MaxAge:  cfg.ReferenceMaxAge,
		Timeout: cfg.FetchTimeout,
	})
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
