package snowflake

import (
	"compress/gzip"
	"encoding/csv"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func readStagingFile(t *testing.T, fp string) [][]string {
	file, err := os.Open(fp)
	require.NoError(t, err)
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	require.NoError(t, err)
	defer gzipReader.Close()

	reader := csv.NewReader(gzipReader)
	reader.Comma = '\t'
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	return rows
}

func (s *SnowflakeTestSuite) TestStore_Close() {
	s.mock.ExpectClose()
	s.NoError(s.store.Close())
}
