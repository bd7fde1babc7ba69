package snowflake

import (
	"context"
	"errors"
	"io"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/artie-labs/csvload/clients/snowflake/dialect"
	"github.com/artie-labs/csvload/lib/config"
	"github.com/artie-labs/csvload/lib/csvfile"
)

func stringsReader(contents string) io.Reader {
	return strings.NewReader(contents)
}

type fakeS3Uploader struct {
	bucket string
	prefix string
	fp     string
	err    error
}

func (f *fakeS3Uploader) UploadLocalFileToS3(_ context.Context, bucket, prefix, fp string) (string, error) {
	f.bucket = bucket
	f.prefix = prefix
	f.fp = fp
	return "s3://" + bucket + "/" + prefix, f.err
}

func copyResult(rowsLoaded ...any) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"file", "status", "rows_parsed", "rows_loaded"})
	for _, loaded := range rowsLoaded {
		rows.AddRow("file.csv.gz", "LOADED", loaded, loaded)
	}

	return rows
}

func (s *SnowflakeTestSuite) dataset(contents string) *csvfile.Dataset {
	dataset, err := csvfile.Parse(stringsReader(contents), csvfile.Options{ParseDates: true})
	s.Require().NoError(err)
	return dataset
}

func (s *SnowflakeTestSuite) TestCastColValStaging() {
	testCases := []struct {
		value    any
		expected string
	}{
		{value: nil, expected: `\N`},
		{value: "hello", expected: "hello"},
		{value: int64(-42), expected: "-42"},
		{value: 10.5, expected: "10.5"},
		{value: 20.0, expected: "20"},
		{value: math.Inf(1), expected: "inf"},
		{value: math.Inf(-1), expected: "-inf"},
		{value: true, expected: "true"},
		{value: time.Date(2024, time.March, 5, 13, 4, 5, 0, time.UTC), expected: "2024-03-05 13:04:05"},
	}

	for _, testCase := range testCases {
		value, err := castColValStaging(testCase.value)
		s.NoError(err)
		s.Equal(testCase.expected, value)
	}

	_, err := castColValStaging([]string{"a"})
	s.ErrorContains(err, "unsupported value type: []string")
}

func (s *SnowflakeTestSuite) TestStagingFileName() {
	fileName := stagingFileName(dialect.NewTableIdentifier("db", "schema", "MY-FILE.2024_TABLE"))
	s.True(strings.HasPrefix(fileName, "MY_FILE_2024_TABLE_"), fileName)
	s.True(strings.HasSuffix(fileName, ".csv.gz"), fileName)
}

func (s *SnowflakeTestSuite) TestLoadDataIntoTable() {
	tableID := dialect.NewTableIdentifier("sales", "public", "SALESQ1_TABLE")
	dataset := s.dataset("id,revenue,created_at\n1,10.5,2024-03-05 13:04:05\n2,,2024-03-06\n")

	s.mock.ExpectExec(`^PUT 'file://.+/SALESQ1_TABLE_\w{10}\.csv\.gz' @` + regexp.QuoteMeta(`"SALES"."PUBLIC"."%SALESQ1_TABLE" AUTO_COMPRESS=FALSE`) + "$").
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectQuery(`^` + regexp.QuoteMeta(`COPY INTO "SALES"."PUBLIC"."SALESQ1_TABLE" ("ID","REVENUE","CREATED_AT") FROM @"SALES"."PUBLIC"."%SALESQ1_TABLE" FILES = ('SALESQ1_TABLE_`)).
		WillReturnRows(copyResult("2"))

	rowsLoaded, err := s.store.LoadDataIntoTable(s.T().Context(), tableID, dataset)
	s.NoError(err)
	s.Equal(int64(2), rowsLoaded)
	s.Empty(s.stagedFiles())
}

func (s *SnowflakeTestSuite) TestLoadDataIntoTable_NoRows() {
	rowsLoaded, err := s.store.LoadDataIntoTable(s.T().Context(), dialect.NewTableIdentifier("sales", "public", "EMPTY"), s.dataset("id,name\n"))
	s.NoError(err)
	s.Zero(rowsLoaded)
}

func (s *SnowflakeTestSuite) TestLoadDataIntoTable_PutFails() {
	s.mock.ExpectExec(`^PUT `).WillReturnError(errors.New("stage does not exist"))

	_, err := s.store.LoadDataIntoTable(s.T().Context(), dialect.NewTableIdentifier("sales", "public", "T"), s.dataset("id\n1\n"))
	s.ErrorContains(err, "failed to run PUT: stage does not exist")
	s.Empty(s.stagedFiles())
}

func (s *SnowflakeTestSuite) TestLoadDataIntoTable_CopyFails() {
	s.mock.ExpectExec(`^PUT `).WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectQuery(`^COPY INTO `).WillReturnError(errors.New("Numeric value 'abc' is not recognized"))
	s.mock.ExpectExec(`^` + regexp.QuoteMeta(`REMOVE @"SALES"."PUBLIC"."%T"/T_`) + `\w{10}\.csv\.gz$`).WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := s.store.LoadDataIntoTable(s.T().Context(), dialect.NewTableIdentifier("sales", "public", "T"), s.dataset("id\n1\n"))
	s.ErrorContains(err, "failed to run COPY INTO: Numeric value 'abc' is not recognized")
	s.Empty(s.stagedFiles())
}

func (s *SnowflakeTestSuite) TestLoadDataIntoTable_RowsLoadedMismatch() {
	s.mock.ExpectExec(`^PUT `).WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectQuery(`^COPY INTO `).WillReturnRows(copyResult(int64(1)))

	rowsLoaded, err := s.store.LoadDataIntoTable(s.T().Context(), dialect.NewTableIdentifier("sales", "public", "T"), s.dataset("id\n1\n2\n"))
	s.ErrorContains(err, "expected 2 rows to be loaded, but got 1")
	s.Equal(int64(1), rowsLoaded)
}

func (s *SnowflakeTestSuite) TestLoadDataIntoTable_ExternalStage() {
	uploader := &fakeS3Uploader{}
	s.store.s3Client = uploader
	s.store.config.ExternalStage = &config.ExternalStage{Enabled: true, Name: "csvload_stage", Bucket: "bucket", Prefix: "loads"}

	s.mock.ExpectQuery(`^` + regexp.QuoteMeta(`COPY INTO "SALES"."PUBLIC"."T" ("ID") FROM @"SALES"."PUBLIC"."CSVLOAD_STAGE"/ FILES = ('T_`)).
		WillReturnRows(copyResult("1"))

	rowsLoaded, err := s.store.LoadDataIntoTable(s.T().Context(), dialect.NewTableIdentifier("sales", "public", "T"), s.dataset("id\n1\n"))
	s.NoError(err)
	s.Equal(int64(1), rowsLoaded)
	s.Equal("bucket", uploader.bucket)
	s.Equal("loads", uploader.prefix)
	s.True(strings.HasSuffix(uploader.fp, ".csv.gz"))
}

func (s *SnowflakeTestSuite) TestLoadDataIntoTable_ExternalStageUploadFails() {
	s.store.s3Client = &fakeS3Uploader{err: errors.New("access denied")}
	s.store.config.ExternalStage = &config.ExternalStage{Enabled: true, Name: "csvload_stage", Bucket: "bucket"}

	_, err := s.store.LoadDataIntoTable(s.T().Context(), dialect.NewTableIdentifier("sales", "public", "T"), s.dataset("id\n1\n"))
	s.ErrorContains(err, "failed to upload file to S3: access denied")
	s.Empty(s.stagedFiles())
}

func (s *SnowflakeTestSuite) TestWriteStagingFile() {
	dataset := s.dataset("id,name,active\n1,\"tab\there\",true\n2,,false\n")
	fp, err := s.store.writeStagingFile(dataset, dialect.NewTableIdentifier("sales", "public", "T"))
	s.NoError(err)
	s.Equal([][]string{{"1", "tab\there", "true"}, {"2", `\N`, "false"}}, readStagingFile(s.T(), fp))
}
