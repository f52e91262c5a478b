// Package cli wires configuration, storage and the TUI behind the tick command.
package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/tgienger/tick/internal/config"
	"github.com/tgienger/tick/internal/db"
	"github.com/tgienger/tick/internal/logging"
)

// BuildInfo is stamped into the binary via ldflags
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCmd builds the command tree
func NewRootCmd(info BuildInfo) *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "tick",
		Short:         "Terminal task manager",
		Long:          `tick keeps a list of tasks with a status, a priority and an optional description.`,
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(configPath)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/tick/config.toml)")

	rootCmd.AddCommand(newThemeCmd(&configPath))
	rootCmd.AddCommand(newVersionCmd(info))
	return rootCmd
}

// Execute runs the root command.
func Execute(info BuildInfo) error {
	err := NewRootCmd(info).Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

// env is everything a command needs once config is resolved
type env struct {
	cfg     *config.Config
	logger  *log.Logger
	logFile *os.File
	db      *db.DB
}

func openEnv(configPath string) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	opts := logging.DefaultOptions()
	opts.Level = cfg.LogLevel
	logger, logFile, err := logging.OpenFile(cfg.DataDir, opts)
	if err != nil {
		return nil, err
	}

	database, err := db.New(cfg.DataDir)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	return &env{cfg: cfg, logger: logger, logFile: logFile, db: database}, nil
}

func (e *env) Close() {
	if err := e.db.Close(); err != nil {
		e.logger.Error("closing database", "err", err)
	}
	e.logFile.Close()
}
