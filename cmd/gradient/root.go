package main

import (
	"fmt"
	"io"

	"github.com/banshee-data/gradient.report/internal/config"
	"github.com/banshee-data/gradient.report/internal/monitoring"
	"github.com/banshee-data/gradient.report/internal/pipeline"
	"github.com/banshee-data/gradient.report/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapio"
)

// app is the state shared by every subcommand once the root has parsed its
// persistent flags.
type app struct {
	configPath string
	envFile    string
	verbose    bool
	trace      bool

	logger *zap.Logger
	cfg    *config.ProfileConfig
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "gradient",
		Short:         "Slope-coloured elevation profiles",
		Long:          `gradient reads a GPX track, optionally samples elevations from a DEM raster, simplifies the distance/elevation curve and renders it with every segment coloured by its slope.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetVersionTemplate(version.String() + "\n")

	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "JSON profile config file")
	f.StringVar(&a.envFile, "env-file", ".env", "dotenv file with GRADIENT_* overrides")
	f.BoolVarP(&a.verbose, "verbose", "v", false, "enable diagnostic logging")
	f.BoolVar(&a.trace, "trace", false, "log every assembled segment")

	root.AddCommand(
		newProfileCmd(a),
		newEnrichCmd(a),
		newRunsCmd(a),
		newPaletteCmd(a),
	)
	return root
}

func (a *app) setup(stderr io.Writer) error {
	logger, err := newLogger(a.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	sugar := logger.Sugar()
	monitoring.SetLogger(sugar.Infof)

	var diag, trace io.Writer
	if a.verbose {
		diag = &zapio.Writer{Log: logger.Named("diag"), Level: zap.DebugLevel}
	}
	if a.trace {
		trace = &zapio.Writer{Log: logger.Named("trace"), Level: zap.DebugLevel}
	}
	pipeline.SetLogWriters(stderr, diag, trace)

	if err := config.LoadDotEnv(a.envFile); err != nil {
		return fmt.Errorf("failed to load %s: %w", a.envFile, err)
	}
	a.cfg, err = loadConfig(a.configPath)
	return err
}

// newLogger returns a development logger in verbose mode and a quiet console
// logger otherwise.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.EncoderConfig.TimeKey = ""
	return cfg.Build()
}

// loadConfig layers defaults, the optional config file and GRADIENT_*
// environment variables, in that order.
func loadConfig(path string) (*config.ProfileConfig, error) {
	cfg := config.DefaultProfileConfig()
	if path != "" {
		fileCfg, err := config.LoadProfileConfig(path)
		if err != nil {
			return nil, err
		}
		cfg.Merge(fileCfg)
	}
	if err := cfg.ApplyEnv(nil); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	return cfg, nil
}
