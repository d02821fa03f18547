package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/noah-isme/enroll-etl/internal/repository"
	"github.com/noah-isme/enroll-etl/internal/service"
	"github.com/noah-isme/enroll-etl/internal/source"
	"github.com/noah-isme/enroll-etl/pkg/config"
	"github.com/noah-isme/enroll-etl/pkg/database"
	appErrors "github.com/noah-isme/enroll-etl/pkg/errors"
	"github.com/noah-isme/enroll-etl/pkg/logger"
)

// LoadOptions holds flags for the load command.
type LoadOptions struct {
	DBPath string
}

// NewLoadCommand creates the load command.
func NewLoadCommand() *cobra.Command {
	opts := &LoadOptions{}

	cmd := &cobra.Command{
		Use:   "load <csv>",
		Short: "Rebuild the normalized store from a flat enrollment CSV",
		Long: `Read flat enrollment records from the given CSV, project the
deduplicated student, teacher and course entities, rebuild the normalized
schema and load everything in a single transaction.

The target store comes from configuration (.env or environment) and can be
overridden with --db for the default SQLite driver.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "path to the SQLite store (overrides DB_PATH)")

	return cmd
}

func runLoad(cmd *cobra.Command, opts *LoadOptions, csvPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.DBPath != "" {
		cfg.Store.Driver = config.DriverSQLite
		cfg.Store.Path = opts.DBPath
	}

	log, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	records, err := source.NewCSVReader(csvPath).ReadAll()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Store)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.PhaseSchema, "open normalized store")
	}
	defer db.Close()

	svc := service.NewLoadService(
		repository.NewSchemaRepository(db),
		repository.NewLoadRepository(db),
		service.NewProjectorService(nil, log),
		log,
	)

	summary, err := svc.Run(cmd.Context(), records)
	if err != nil {
		return err
	}

	target := cfg.Store.Path
	if cfg.Store.Driver == config.DriverPostgres {
		target = cfg.Store.Name
	}
	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "loaded %s\n", target)
	fmt.Fprintf(cmd.OutOrStdout(), "  student     %d\n", summary.Students)
	fmt.Fprintf(cmd.OutOrStdout(), "  teacher     %d\n", summary.Teachers)
	fmt.Fprintf(cmd.OutOrStdout(), "  course      %d\n", summary.Courses)
	fmt.Fprintf(cmd.OutOrStdout(), "  enrollment  %d\n", summary.Enrollments)

	return nil
}
