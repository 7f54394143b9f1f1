// Package main provides the bim2city binary entry point.
// bim2city converts a building information model into a CityGML LOD4
// document.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazu/bim2city/pkg/config"
	"github.com/chazu/bim2city/pkg/engine"
	"github.com/chazu/bim2city/pkg/kernel/sdfx"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "bim2city"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	var g globalFlags

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Convert building models to CityGML",
		Long: `bim2city walks the spatial structure of a building information model
and writes a CityGML LOD4 document: buildings, rooms, boundary surfaces,
openings and furniture, each with triangulated geometry.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config")

	cmd.AddCommand(convertCmd(&g))
	cmd.AddCommand(validateCmd(&g))
	cmd.AddCommand(inspectCmd(&g))
	cmd.AddCommand(initConfigCmd())

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

// setup resolves the configuration for a model file and installs the
// default logger.
func (g *globalFlags) setup(cmd *cobra.Command, modelPath string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(g.configPath, filepath.Dir(modelPath))
	if err != nil {
		return nil, nil, err
	}
	level := cfg.Log.Level
	if g.logLevel != "" {
		level = g.logLevel
	}
	logger := setupLogging(cmd.ErrOrStderr(), level)
	return cfg, logger, nil
}

func setupLogging(w io.Writer, level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// newEngine builds the geometry engine over the sdfx kernel.
func newEngine(cfg *config.Config) *engine.Engine {
	k := sdfx.New(sdfx.WithMeshCells(cfg.Engine.MeshCells))
	return engine.New(k, engine.WithParseTimeout(cfg.Engine.ParseTimeout))
}
