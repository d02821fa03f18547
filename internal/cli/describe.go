package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/noah-isme/enroll-etl/internal/models"
	"github.com/noah-isme/enroll-etl/internal/source"
)

const describePreview = 5

// NewDescribeCommand creates the describe command, a quick look at a source
// file before loading it: shape, columns, first and last rows.
func NewDescribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "describe <csv>",
		Short:         "Print the shape, columns and head/tail of a flat CSV",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(cmd, args[0])
		},
	}
}

func runDescribe(cmd *cobra.Command, csvPath string) error {
	records, err := source.NewCSVReader(csvPath).ReadAll()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	bold := color.New(color.Bold)

	bold.Fprintf(out, "shape: %d rows x %d columns\n", len(records), len(models.FlatRecordColumns))

	bold.Fprintln(out, "columns:")
	for _, col := range models.FlatRecordColumns {
		fmt.Fprintf(out, "  %s\n", col)
	}

	// Head and tail are both always printed, overlapping for small files,
	// the same shape as a head()+tail() dump.
	head := records
	if len(head) > describePreview {
		head = head[:describePreview]
	}
	bold.Fprintf(out, "first %d rows:\n", len(head))
	for _, record := range head {
		printRecord(out, record)
	}

	tail := records
	if len(tail) > describePreview {
		tail = tail[len(tail)-describePreview:]
	}
	bold.Fprintf(out, "last %d rows:\n", len(tail))
	for _, record := range tail {
		printRecord(out, record)
	}

	return nil
}

func printRecord(out io.Writer, r models.FlatEnrollmentRecord) {
	fmt.Fprintf(out, "  %s <%s> | %s <%s> | %s (%d) %s %s\n",
		r.StudentName, r.StudentEmail,
		r.TeacherName, r.TeacherEmail,
		r.CourseName, r.CourseCode, r.CourseSchedule, r.CourseLocation)
}
