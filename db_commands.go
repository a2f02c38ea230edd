package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"temperature_report/analysis"
	"temperature_report/database"
	"temperature_report/models"
	"temperature_report/scanner"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func connectDatabase() (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <directory>",
		Short: "Import every logger export in a directory into the database (non-recursive)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connectDatabase()
			if err != nil {
				return err
			}
			defer database.Close()

			if cfg.Migration.AutoMigrate {
				if err := db.AutoMigrate(models.GetAllModels()...); err != nil {
					return fmt.Errorf("failed to migrate models: %w", err)
				}
			}

			ds := scanner.NewDirScanner(database.NewReadingRepository(db), cfg.Import.Extensions)
			ds.SetWorkerCount(cfg.Import.Workers)

			results, err := ds.ScanDirectory(args[0])
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			failed := 0
			for _, r := range results {
				if r.Error != nil {
					failed++
				}
			}
			printResult(cmd, "import", failed == 0, fmt.Sprintf("%d file(s), %d failed", len(results), failed))
			return nil
		},
	}
}

func newHistoryCommand() *cobra.Command {
	rf := &rangeFlags{}
	var source string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Analyze readings stored by import",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connectDatabase()
			if err != nil {
				return err
			}
			defer database.Close()

			repo := database.NewReadingRepository(db)
			if source == "" {
				return listSources(cmd, repo)
			}

			table, err := repo.LoadReadings(source, nil)
			if err != nil {
				return err
			}
			rng, err := rf.selection(table)
			if err != nil {
				return err
			}

			printAnalysis(cmd.OutOrStdout(), &pipeline{
				source: source,
				table:  table,
				result: analysis.Analyze(table, rng),
				mode:   analysis.ModeByDay,
			}, cfg.Report.PreviewRows, cfg.Report.VariationThreshold)
			return nil
		},
	}
	rf.register(cmd, false)
	cmd.Flags().StringVarP(&source, "source", "s", "", "imported file name to analyze (lists sources when empty)")
	return cmd
}

func listSources(cmd *cobra.Command, repo *database.ReadingRepository) error {
	sources, err := repo.Sources()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(sources) == 0 {
		fmt.Fprintln(w, "No readings imported yet")
		return nil
	}

	fmt.Fprintf(w, "%-30s %12s  %-10s  %-10s\n", "Source", "Readings", "First", "Last")
	fmt.Fprintln(w, strings.Repeat("-", 68))
	for _, s := range sources {
		fmt.Fprintf(w, "%-30s %12s  %-10s  %-10s\n", s.Source, humanize.Comma(s.Count),
			s.First.Format(models.DayLayout), s.Last.Format(models.DayLayout))
	}
	return nil
}

func newConnectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "connect",
		Short: "Test database connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printf(cmd, "Testing database connection...\n")

			if _, err := connectDatabase(); err != nil {
				return err
			}
			defer database.Close()

			printf(cmd, "✓ Successfully connected to %s database\n", cfg.Database.Driver)

			infoJSON, _ := json.MarshalIndent(database.GetDatabaseInfo(cfg), "", "  ")
			printf(cmd, "Connection info: %s\n", infoJSON)
			return nil
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the readings table and run pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printf(cmd, "Running database migrations...\n")

			db, err := connectDatabase()
			if err != nil {
				return err
			}
			defer database.Close()

			if err := database.NewMigrationRunner(db, cfg).RunMigrations(); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			printResult(cmd, "migrate", true, "")
			return nil
		},
	}
}

func newMigrateCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:create <name>",
		Short: "Create a new migration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printf(cmd, "Creating migration: %s\n", args[0])

			// No connection needed to create files
			filePath, err := database.NewMigrationRunner(nil, cfg).CreateMigration(args[0])
			if err != nil {
				return fmt.Errorf("failed to create migration: %w", err)
			}

			printf(cmd, "✓ Migration created: %s\n", filePath)
			return nil
		},
	}
}

func newMigrateStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:status",
		Short: "Show migration status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printf(cmd, "Checking migration status...\n")

			db, err := connectDatabase()
			if err != nil {
				return err
			}
			defer database.Close()

			migrations, err := database.NewMigrationRunner(db, cfg).GetMigrationStatus()
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			if len(migrations) == 0 {
				printf(cmd, "No migrations found\n")
				return nil
			}

			printf(cmd, "%-20s %-40s %s\n", "Version", "Name", "Status")
			printf(cmd, "%s\n", strings.Repeat("-", 67))
			for _, m := range migrations {
				status := "Pending"
				if m.Applied {
					status = "Applied"
				}
				printf(cmd, "%-20s %-40s %s\n", m.Version, m.Name, status)
			}
			return nil
		},
	}
}

func newDBInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "db:info",
		Short: "Show database information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "Database Information:")
			fmt.Fprintln(w, strings.Repeat("=", 50))

			db, err := connectDatabase()
			if err != nil {
				return err
			}
			defer database.Close()

			info := database.GetDatabaseInfo(cfg)
			fmt.Fprintf(w, "Database Type:     %v\n", info["driver"])
			fmt.Fprintf(w, "Connection Status: %v\n", connectionStatusText(info["connected"]))

			switch cfg.Database.Driver {
			case "mysql", "postgres":
				fmt.Fprintf(w, "Host:              %v\n", info["host"])
				fmt.Fprintf(w, "Port:              %v\n", info["port"])
				fmt.Fprintf(w, "Database:          %v\n", info["database"])
			case "sqlite":
				fmt.Fprintf(w, "File Path:         %v\n", info["path"])
			}

			fmt.Fprintln(w, "\nConnection Pool:")
			fmt.Fprintf(w, "  Max Connections: %v\n", info["max_open_connections"])
			fmt.Fprintf(w, "  Open Connections:%v\n", info["open_connections"])
			fmt.Fprintf(w, "  In Use:          %v\n", info["in_use"])
			fmt.Fprintf(w, "  Idle:            %v\n", info["idle"])

			if db.Migrator().HasTable(&models.TemperatureReading{}) {
				repo := database.NewReadingRepository(db)
				count, err := repo.Count()
				if err != nil {
					return err
				}
				sources, err := repo.Sources()
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "\nData Information:")
				fmt.Fprintf(w, "  Total Readings:  %s\n", humanize.Comma(count))
				fmt.Fprintf(w, "  Sources:         %d\n", len(sources))
			}

			fmt.Fprintln(w, strings.Repeat("=", 50))
			return nil
		},
	}
}

func connectionStatusText(connected interface{}) string {
	if conn, ok := connected.(bool); ok && conn {
		return "✓ Connected"
	}
	return "✗ Disconnected"
}
