package repository

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/enroll-etl/internal/models"
	appErrors "github.com/noah-isme/enroll-etl/pkg/errors"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// RawRepository writes the flat record set verbatim into a single table with
// no keys or constraints. It is a comparison artifact only and carries no
// integrity guarantees.
type RawRepository struct {
	db    *sqlx.DB
	table string
}

// NewRawRepository constructs the repository for a caller-specified table
// name. The name must be a plain identifier; it is interpolated into DDL.
func NewRawRepository(db *sqlx.DB, table string) (*RawRepository, error) {
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid raw table name %q", table)
	}
	return &RawRepository{db: db, table: table}, nil
}

// Replace drops any existing table of the configured name and rewrites it
// with the given records, in one transaction.
func (r *RawRepository) Replace(ctx context.Context, records []models.FlatEnrollmentRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.PhaseRawDump, "begin raw dump")
	}

	if err := r.replaceTx(ctx, tx, records); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if err := tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.PhaseRawDump, "commit raw dump")
	}
	return nil
}

func (r *RawRepository) replaceTx(ctx context.Context, tx *sqlx.Tx, records []models.FlatEnrollmentRecord) error {
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", r.table)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.PhaseRawDump, fmt.Sprintf("drop table %s", r.table))
	}

	if _, err := tx.ExecContext(ctx, rawDDL(r.table)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.PhaseRawDump, fmt.Sprintf("create table %s", r.table))
	}

	insert := rawInsert(r.table)
	for i, record := range records {
		if _, err := tx.NamedExecContext(ctx, insert, record); err != nil {
			return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.PhaseRawDump, fmt.Sprintf("insert raw record %d", i+1))
		}
	}

	return nil
}

// rawDDL and rawInsert derive their column lists from FlatRecordColumns so
// the raw table cannot drift from the canonical source columns.
func rawDDL(table string) string {
	cols := make([]string, len(models.FlatRecordColumns))
	for i, col := range models.FlatRecordColumns {
		typ := "TEXT"
		if col == "course_code" {
			typ = "INTEGER"
		}
		cols[i] = fmt.Sprintf("%s %s", col, typ)
	}
	return fmt.Sprintf("CREATE TABLE %s (\n    %s\n)", table, strings.Join(cols, ",\n    "))
}

func rawInsert(table string) string {
	placeholders := make([]string, len(models.FlatRecordColumns))
	for i, col := range models.FlatRecordColumns {
		placeholders[i] = ":" + col
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(models.FlatRecordColumns, ", "),
		strings.Join(placeholders, ", "))
}
