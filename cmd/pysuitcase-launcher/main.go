package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Metaphorme/pysuitcase/internal/config"
	"github.com/Metaphorme/pysuitcase/internal/launcher"
	"github.com/Metaphorme/pysuitcase/internal/process"
	"github.com/Metaphorme/pysuitcase/pkg/suitcase"
)

// Set by the packager at build time:
//
//	go build -ldflags "-X main.appFolder=app -X 'main.commandLine=python\python.exe app.py'"
//
// Add -H=windowsgui to build the windowed launcher.
var (
	appFolder   = "app"
	commandLine = ""
)

var (
	verbose    bool
	configFile string
	logger     *zap.Logger
	cfg        *config.Config
	exitCode   int
)

var rootCmd = &cobra.Command{
	Use:   "pysuitcase-launcher",
	Short: "Run a packaged application from its app folder",
	Long: `pysuitcase-launcher changes into the packaged application's folder and runs
its command. Console builds relay the command's output; windowed builds reuse
the parent console when there is one and run hidden otherwise.`,
	Args:               cobra.ArbitraryArgs,
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(config.LoadOptions{
			File:       configFile,
			SearchDirs: sidecarDirs(),
			Defaults: config.Defaults{
				AppFolder: appFolder,
				Command:   commandLine,
			},
		})
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		logger, err = newLogger(verbose, cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		defer func() {
			_ = logger.Sync()
		}()

		if len(args) > 0 {
			logger.Debug("Ignoring launcher arguments", zap.Strings("args", args))
		}

		exitCode = launcher.New(cfg, logger).Run()
		return nil
	},
}

func init() {
	// Disable Cobra's mousetrap feature on Windows
	// By default, Cobra shows a warning when launched from File Explorer instead of cmd.exe
	// Setting this to empty string allows the program to run normally from File Explorer
	// See: https://github.com/spf13/cobra/issues/844
	cobra.MousetrapHelpText = ""
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: "+suitcase.ConfigFileName+" next to the executable)")
}

// newLogger builds the launcher logger. Verbose mode uses zap's development
// config; otherwise a compact console encoder at the configured level.
func newLogger(verbose bool, logCfg config.LogConfig) (*zap.Logger, error) {
	var zc zap.Config
	if verbose {
		// Development mode with console encoder for better readability
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		// Production mode with custom config for cleaner output
		zc = zap.NewProductionConfig()

		zc.DisableCaller = true
		zc.DisableStacktrace = true
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

		level, err := zap.ParseAtomicLevel(logCfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", logCfg.Level, err)
		}
		zc.Level = level
	}

	if logCfg.File != "" {
		// No color escapes in files
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zc.OutputPaths = append(zc.OutputPaths, logCfg.File)
		zc.ErrorOutputPaths = append(zc.ErrorOutputPaths, logCfg.File)
	}

	return zc.Build()
}

// sidecarDirs is where an optional config file is looked up
func sidecarDirs() []string {
	exe, err := os.Executable()
	if err != nil {
		return nil
	}
	return []string{filepath.Dir(exe)}
}

// reportStartupError tells the user the launcher could not even be set up
func reportStartupError(err error) {
	subsystem, _ := process.DetectSelf()
	launcher.ReporterFor(subsystem, zap.NewNop()).Fatal(launcher.MsgStartup, err)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		reportStartupError(err)
		os.Exit(suitcase.ExitFailure)
	}
	os.Exit(exitCode)
}
