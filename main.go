package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"temperature_report/config"
	"temperature_report/logger"

	"github.com/spf13/cobra"
)

var (
	configPath string
	cfg        *config.Config
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
// Command errors always reach stderr and are also written to the log file.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err != nil {
		logger.LogError(err)
		root.PrintErrln("Error:", err)
	}
	if closeErr := logger.Close(); closeErr != nil {
		fmt.Fprintf(stderr, "Failed to close logging: %v\n", closeErr)
	}
	if err != nil {
		return 1
	}
	return 0
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "temperature_report",
		Short: "Temperature logger export analysis and reporting",
		Long: `Analyze temperature logger exports: filter readings by date range, compute
statistics, render charts and produce PDF or XLSX reports.

Export format:
  <preamble lines>
  MM.DD.YYYY  HH:MM:SS   T
  01.15.2024 08:30:00 22.50
  ...`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to the YAML configuration file")

	root.AddCommand(
		newAnalyzeCommand(),
		newChartCommand(),
		newReportCommand(),
		newExportCommand(),
		newImportCommand(),
		newHistoryCommand(),
		newConnectCommand(),
		newMigrateCommand(),
		newMigrateCreateCommand(),
		newMigrateStatusCommand(),
		newDBInfoCommand(),
	)

	return root
}

// setup loads the configuration and starts logging for commands that need it
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.LoadOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if !needsLogging(cmd) {
		return nil
	}
	if err := logger.Init(cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.LogCommand(cmd.CommandPath(), args)
	return nil
}

// needsLogging determines which commands write to the log file
func needsLogging(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "db:info", "help", "temperature_report":
		return false
	}
	return !strings.HasPrefix(cmd.Name(), "__")
}
