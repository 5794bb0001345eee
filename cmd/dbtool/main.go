// Command dbtool manages the NAPO planning schema: it creates and drops the
// tables, loads seed data from a JSON file and imports CSV exports.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"napo-service/internal/infrastructure/config"
	"napo-service/internal/infrastructure/persistence"
	gormRepo "napo-service/internal/interface/repository"
	"napo-service/pkg/logger"

	"github.com/spf13/cobra"
)

type app struct {
	log  logger.Logger
	open func(ctx context.Context) (*persistence.Database, error)
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	log := logger.NewLogger(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	a := &app{
		log: log,
		open: func(ctx context.Context) (*persistence.Database, error) {
			return persistence.Open(ctx, persistence.OptionsFromConfig(cfg), log)
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "dbtool",
		Short:        "Manage the NAPO planning database",
		SilenceUsage: true,
	}
	root.AddCommand(
		a.createTablesCmd(),
		a.dropTablesCmd(),
		a.seedCmd(),
		a.importCSVCmd(),
	)
	return root
}

// withDatabase opens the database for the duration of fn
func (a *app) withDatabase(ctx context.Context, fn func(db *persistence.Database) error) error {
	db, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			a.log.Warn("Failed to close database", "error", err)
		}
	}()
	return fn(db)
}

func (a *app) createTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-tables",
		Short: "Create every planning table, index and constraint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDatabase(cmd.Context(), func(db *persistence.Database) error {
				if err := db.CreateTables(cmd.Context(), gormRepo.Models()...); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "tables created")
				return nil
			})
		},
	}
}

func (a *app) dropTablesCmd() *cobra.Command {
	var confirmed bool
	cmd := &cobra.Command{
		Use:   "drop-tables",
		Short: "Drop every planning table and all of its data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirmed {
				return errors.New("refusing to drop tables without --yes")
			}
			return a.withDatabase(cmd.Context(), func(db *persistence.Database) error {
				if err := db.DropTables(cmd.Context(), gormRepo.Models()...); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "tables dropped")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm that all planning data is deleted")
	return cmd
}

func (a *app) seedCmd() *cobra.Command {
	var createTables bool
	cmd := &cobra.Command{
		Use:   "seed <file.json>",
		Short: "Load zones, nodes, fleet and pricing data in one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			data, err := readSeedFile(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			return a.withDatabase(cmd.Context(), func(db *persistence.Database) error {
				if createTables {
					if err := db.CreateTables(cmd.Context(), gormRepo.Models()...); err != nil {
						return err
					}
				}
				summary, err := seed(cmd.Context(), db, data, a.log)
				if err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), summary)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&createTables, "create-tables", false, "create missing tables before seeding")
	return cmd
}

func (a *app) importCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "import-csv <zones|nodes|transporters> <file.csv>",
		Short:     "Import zones, nodes or transporters from a CSV file in one transaction",
		Args:      cobra.ExactArgs(2),
		ValidArgs: csvKinds(),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, path := args[0], args[1]
			if _, ok := csvImporters[kind]; !ok {
				return fmt.Errorf("unknown import kind %q, want one of %v", kind, csvKinds())
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			table, err := readCSV(f)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			return a.withDatabase(cmd.Context(), func(db *persistence.Database) error {
				n, err := importCSV(cmd.Context(), db, kind, table, a.log)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d %s\n", n, kind)
				return nil
			})
		},
	}
}

func printSummary(w io.Writer, s *seedSummary) {
	fmt.Fprintf(w, "seeded %d zones, %d nodes, %d time windows, %d distances\n",
		s.Zones, s.Nodes, s.TimeWindows, s.Distances)
	fmt.Fprintf(w, "seeded %d transporters, %d vehicles, %d routes, %d assignments\n",
		s.Transporters, s.Vehicles, s.Routes, s.Assignments)
	fmt.Fprintf(w, "seeded %d pricing rules, %d start fees\n", s.PricingRules, s.StartFees)
}
