package snowflake

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/artie-labs/csvload/clients/snowflake/dialect"
	"github.com/artie-labs/csvload/lib/config/constants"
	"github.com/artie-labs/csvload/lib/csvfile"
	"github.com/artie-labs/csvload/lib/csvwriter"
	"github.com/artie-labs/csvload/lib/maputil"
	"github.com/artie-labs/csvload/lib/sql"
	"github.com/artie-labs/csvload/lib/stringutil"
	"github.com/artie-labs/csvload/lib/typing"
)

func castColValStaging(colVal any) (string, error) {
	switch castedVal := colVal.(type) {
	case nil:
		return constants.NullValuePlaceholder, nil
	case string:
		// https://community.snowflake.com/s/article/Max-LOB-size-exceeded
		if len(castedVal) > typing.MaxVarcharLength {
			return "", fmt.Errorf("value is %d bytes, which exceeds the max varchar length", len(castedVal))
		}
		return castedVal, nil
	case int64:
		return strconv.FormatInt(castedVal, 10), nil
	case float64:
		switch {
		case math.IsInf(castedVal, 1):
			return "inf", nil
		case math.IsInf(castedVal, -1):
			return "-inf", nil
		}
		return strconv.FormatFloat(castedVal, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(castedVal), nil
	case time.Time:
		return typing.FormatDatetime(castedVal), nil
	default:
		return "", fmt.Errorf("unsupported value type: %T", colVal)
	}
}

func stagingFileName(tableID dialect.TableIdentifier) string {
	table := strings.Map(func(r rune) rune {
		if r == '_' || r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, tableID.Table())

	return fmt.Sprintf("%s_%s.csv.gz", table, stringutil.Random(10))
}

func (s *Store) writeStagingFile(dataset *csvfile.Dataset, tableID dialect.TableIdentifier) (string, error) {
	fp := filepath.Join(s.stagingDir, stagingFileName(tableID))
	writer, err := csvwriter.NewGzipWriter(fp)
	if err != nil {
		return "", err
	}

	columns := dataset.ColumnNames()
	row := make([]string, len(columns))
	for rowIdx, values := range dataset.Rows() {
		for colIdx, value := range values {
			castedValue, err := castColValStaging(value)
			if err != nil {
				_ = writer.Close()
				return fp, fmt.Errorf("failed to cast value for column %q in row %d: %w", columns[colIdx], rowIdx+1, err)
			}

			row[colIdx] = castedValue
		}

		if err = writer.Write(row); err != nil {
			_ = writer.Close()
			return fp, fmt.Errorf("failed to write row: %w", err)
		}
	}

	if err = writer.Close(); err != nil {
		return fp, fmt.Errorf("failed to close staging file: %w", err)
	}

	return fp, nil
}

// LoadDataIntoTable stages [dataset] as a file and copies it into the table, returning the number of rows loaded.
func (s *Store) LoadDataIntoTable(ctx context.Context, tableID dialect.TableIdentifier, dataset *csvfile.Dataset) (int64, error) {
	if dataset.NumRows() == 0 {
		slog.Info("There are no rows to load, skipping", slog.String("table", tableID.FullyQualifiedName()))
		return 0, nil
	}

	fp, err := s.writeStagingFile(dataset, tableID)
	if fp != "" {
		defer func() {
			// In the case where PUT or COPY fails, we'll at least delete the staging file.
			if deleteErr := os.RemoveAll(fp); deleteErr != nil {
				slog.Warn("Failed to delete staging file", slog.Any("err", deleteErr), slog.String("filePath", fp))
			}
		}()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to write staging file: %w", err)
	}

	fileName := filepath.Base(fp)
	stage := tableID.TableStage()
	if s.useExternalStage() {
		s3Client, err := s.getS3Client(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to get S3 client: %w", err)
		}

		if _, err = s3Client.UploadLocalFileToS3(ctx, s.config.ExternalStage.Bucket, s.config.ExternalStage.Prefix, fp); err != nil {
			return 0, fmt.Errorf("failed to upload file to S3: %w", err)
		}

		stage = tableID.NamedStage(s.config.ExternalStage.Name)
	} else {
		if _, err = s.ExecContext(ctx, s.dialect().BuildPutQuery(fp, stage)); err != nil {
			return 0, fmt.Errorf("failed to run PUT: %w", err)
		}
	}

	// COPY INTO does not implement [RowsAffected]. Instead, we'll treat this as a query and then parse the output:
	// https://docs.snowflake.com/en/sql-reference/sql/copy-into-table#output
	sqlRows, err := s.QueryContext(ctx, s.dialect().BuildCopyIntoTableQuery(tableID, dataset.ColumnNames(), stage, fileName))
	if err != nil {
		// [PURGE = TRUE] only deletes the staged file after a successful COPY INTO.
		if !s.useExternalStage() {
			if _, deleteErr := s.ExecContext(ctx, s.dialect().BuildRemoveFilesFromStage(stage, "/"+fileName)); deleteErr != nil {
				slog.Warn("Failed to remove file from stage", slog.Any("deleteErr", deleteErr))
			}
		}

		return 0, fmt.Errorf("failed to run COPY INTO: %w", err)
	}

	rows, err := sql.RowsToObjectsLowercase(sqlRows)
	if err != nil {
		return 0, fmt.Errorf("failed to convert rows to objects: %w", err)
	}

	var rowsLoaded int64
	for _, row := range rows {
		_rowsLoaded, err := maputil.GetInt64FromMap(row, "rows_loaded")
		if err != nil {
			return 0, fmt.Errorf("failed to get rows loaded: %w", err)
		}

		rowsLoaded += _rowsLoaded
	}

	if expectedRows := int64(dataset.NumRows()); rowsLoaded != expectedRows {
		return rowsLoaded, fmt.Errorf("expected %d rows to be loaded, but got %d", expectedRows, rowsLoaded)
	}

	return rowsLoaded, nil
}
