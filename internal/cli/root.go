package cli

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewRootCommand assembles the enroll-etl command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "enroll-etl",
		Short: "Load a flat enrollment CSV into a normalized relational store",
		Long: `enroll-etl rebuilds a normalized four-table enrollment database
(student, teacher, course, enrollment) from a single denormalized CSV,
deduplicating entities and resolving foreign keys on the way in.

Examples:

  enroll-etl load student_data.csv
  enroll-etl load student_data.csv --db ./enrollments.db
  enroll-etl dump student_data.csv
  enroll-etl describe student_data.csv
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(NewLoadCommand())
	root.AddCommand(NewDumpCommand())
	root.AddCommand(NewDescribeCommand())

	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
