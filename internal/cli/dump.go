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

// DumpOptions holds flags for the dump command.
type DumpOptions struct {
	DBPath string
	Table  string
}

// NewDumpCommand creates the dump command.
func NewDumpCommand() *cobra.Command {
	opts := &DumpOptions{}

	cmd := &cobra.Command{
		Use:   "dump <csv>",
		Short: "Write the flat CSV verbatim into a single unconstrained table",
		Long: `Write the flat record set as-is into one table with no keys or
constraints. This is the legacy comparison artifact; it has no integrity
guarantees and is kept separate from the normalized store.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "path to the raw SQLite store (overrides RAW_DB_PATH)")
	cmd.Flags().StringVar(&opts.Table, "table", "", "raw table name (overrides RAW_TABLE_NAME)")

	return cmd
}

func runDump(cmd *cobra.Command, opts *DumpOptions, csvPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.DBPath != "" {
		cfg.Raw.Path = opts.DBPath
	}
	if opts.Table != "" {
		cfg.Raw.Table = opts.Table
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

	db, err := database.Open(config.StoreConfig{Driver: config.DriverSQLite, Path: cfg.Raw.Path})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.PhaseRawDump, "open raw store")
	}
	defer db.Close()

	sink, err := repository.NewRawRepository(db, cfg.Raw.Table)
	if err != nil {
		return err
	}

	if err := service.NewDumpService(sink, log).Run(cmd.Context(), records); err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "dumped %d records into %s (table %s)\n",
		len(records), cfg.Raw.Path, cfg.Raw.Table)

	return nil
}
