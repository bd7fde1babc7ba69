package snowflake

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/artie-labs/csvload/clients/snowflake/dialect"
	"github.com/artie-labs/csvload/lib/config/constants"
	"github.com/artie-labs/csvload/lib/csvfile"
)

// TableNameFromFile derives a table name from the file name, /tmp/SalesQ1.csv becomes SALESQ1_TABLE.
func TableNameFromFile(fp string) string {
	base := filepath.Base(fp)
	return strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base))) + constants.DerivedTableSuffix
}

func ResolveTableName(table, fp string) string {
	if table == "" {
		return TableNameFromFile(fp)
	}

	return strings.ToUpper(table)
}

func (s *Store) EnsureDatabaseAndSchema(ctx context.Context, database, schema string) error {
	queries := []string{
		s.dialect().BuildCreateDatabaseQuery(database),
		s.dialect().BuildUseDatabaseQuery(database),
		s.dialect().BuildCreateSchemaQuery(database, schema),
		s.dialect().BuildUseSchemaQuery(database, schema),
	}

	for _, query := range queries {
		if _, err := s.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to run %q: %w", query, err)
		}
	}

	return nil
}

func (s *Store) buildColumnDefinitions(cols []csvfile.Column) []string {
	colSQLParts := make([]string, len(cols))
	for i, col := range cols {
		colSQLParts[i] = fmt.Sprintf("%s %s", s.dialect().QuoteIdentifier(col.Name), s.dialect().DataTypeForDType(col.DType))
	}

	return colSQLParts
}

type PrepareTableArgs struct {
	Database   string
	Schema     string
	Table      string
	File       string
	ParseDates bool
}

// PrepareTable creates the database, schema and table if they don't exist and then truncates the table.
func (s *Store) PrepareTable(ctx context.Context, args PrepareTableArgs) (*csvfile.Dataset, dialect.TableIdentifier, error) {
	if err := s.EnsureDatabaseAndSchema(ctx, args.Database, args.Schema); err != nil {
		return nil, dialect.TableIdentifier{}, err
	}

	tableID := dialect.NewTableIdentifier(args.Database, args.Schema, ResolveTableName(args.Table, args.File))
	dataset, err := csvfile.Read(args.File, csvfile.Options{ParseDates: args.ParseDates})
	if err != nil {
		return nil, dialect.TableIdentifier{}, err
	}

	createTableQuery := s.dialect().BuildCreateTableQuery(tableID, s.buildColumnDefinitions(dataset.Columns()))
	if _, err = s.ExecContext(ctx, createTableQuery); err != nil {
		return nil, dialect.TableIdentifier{}, fmt.Errorf("failed to create table: %w", err)
	}

	if _, err = s.ExecContext(ctx, s.dialect().BuildTruncateTableQuery(tableID)); err != nil {
		return nil, dialect.TableIdentifier{}, fmt.Errorf("failed to truncate table: %w", err)
	}

	slog.Info("Table is ready",
		slog.String("table", tableID.FullyQualifiedName()),
		slog.Int("columns", len(dataset.Columns())),
	)
	return dataset, tableID, nil
}
