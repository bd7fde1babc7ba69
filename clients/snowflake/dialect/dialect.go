package dialect

import (
	"fmt"
	"strings"

	"github.com/artie-labs/csvload/lib/sql"
	"github.com/artie-labs/csvload/lib/typing"
)

// fileFormat matches how [csvwriter.GzipWriter] writes staged files.
const fileFormat = `FILE_FORMAT = (TYPE = 'csv' FIELD_DELIMITER = '\t' FIELD_OPTIONALLY_ENCLOSED_BY = '"' NULL_IF = ('\\N') EMPTY_FIELD_AS_NULL = FALSE ESCAPE_UNENCLOSED_FIELD = NONE)`

type SnowflakeDialect struct{}

// QuoteIdentifier upper cases [identifier] so it resolves the same way an unquoted identifier would.
func (SnowflakeDialect) QuoteIdentifier(identifier string) string {
	return fmt.Sprintf(`"%s"`, strings.ReplaceAll(strings.ToUpper(identifier), `"`, `""`))
}

func (SnowflakeDialect) DataTypeForDType(dtype typing.DType) string {
	if dtype.IsInteger() {
		return "int"
	}

	switch dtype {
	case typing.Datetime64:
		return "datetime"
	case typing.Float64:
		return "float8"
	case typing.Bool:
		return "boolean"
	default:
		// object, category and anything else we don't recognize.
		return fmt.Sprintf("varchar(%d)", typing.MaxVarcharLength)
	}
}

func (sd SnowflakeDialect) BuildCreateDatabaseQuery(database string) string {
	return "CREATE DATABASE IF NOT EXISTS " + sd.QuoteIdentifier(database)
}

func (sd SnowflakeDialect) BuildUseDatabaseQuery(database string) string {
	return "USE DATABASE " + sd.QuoteIdentifier(database)
}

func (sd SnowflakeDialect) BuildCreateSchemaQuery(database, schema string) string {
	return fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s.%s", sd.QuoteIdentifier(database), sd.QuoteIdentifier(schema))
}

func (sd SnowflakeDialect) BuildUseSchemaQuery(database, schema string) string {
	return fmt.Sprintf("USE SCHEMA %s.%s", sd.QuoteIdentifier(database), sd.QuoteIdentifier(schema))
}

func (SnowflakeDialect) BuildCreateTableQuery(tableID TableIdentifier, colSQLParts []string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", tableID.FullyQualifiedName(), strings.Join(colSQLParts, ","))
}

func (SnowflakeDialect) BuildTruncateTableQuery(tableID TableIdentifier) string {
	return "TRUNCATE TABLE IF EXISTS " + tableID.FullyQualifiedName()
}

// BuildPutQuery uploads an already compressed file into [stage].
func (SnowflakeDialect) BuildPutQuery(fp string, stage string) string {
	return fmt.Sprintf("PUT %s @%s AUTO_COMPRESS=FALSE", sql.QuoteLiteral("file://"+fp), stage)
}

func (sd SnowflakeDialect) BuildCopyIntoTableQuery(tableID TableIdentifier, cols []string, stage string, fileName string) string {
	escapedCols := make([]string, len(cols))
	for i, col := range cols {
		escapedCols[i] = sd.QuoteIdentifier(col)
	}

	return fmt.Sprintf(`COPY INTO %s (%s) FROM @%s FILES = (%s) %s PURGE = TRUE`,
		tableID.FullyQualifiedName(), strings.Join(escapedCols, ","), stage, sql.QuoteLiteral(fileName), fileFormat,
	)
}

func (SnowflakeDialect) BuildRemoveFilesFromStage(stage string, path string) string {
	return fmt.Sprintf("REMOVE @%s%s", stage, path)
}
