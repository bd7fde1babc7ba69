package csvwriter

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRows(t *testing.T, filePath string) [][]string {
	file, err := os.Open(filePath)
	require.NoError(t, err)
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	require.NoError(t, err)
	defer gzipReader.Close()

	csvReader := csv.NewReader(gzipReader)
	csvReader.Comma = '\t'
	csvReader.FieldsPerRecord = -1
	rows, err := csvReader.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestGzipWriter(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "SALES_TABLE.csv.gz")
	writer, err := NewGzipWriter(filePath)
	assert.NoError(t, err)

	rows := [][]string{
		{"1", "Acme"},
		{`\N`, "2024-01-02 03:04:05"},
		{"tab\tvalue", "newline\nvalue"},
		{`say "hi"`, "3.5"},
	}

	for _, row := range rows {
		assert.NoError(t, writer.Write(row))
	}

	assert.NoError(t, writer.Close())
	assert.ErrorContains(t, writer.Close(), "already closed")
	assert.Equal(t, "SALES_TABLE.csv.gz", writer.FileName())
	assert.Equal(t, rows, readRows(t, filePath))
}

func TestGzipWriterLargeData(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "large.csv.gz")
	writer, err := NewGzipWriter(filePath)
	assert.NoError(t, err)

	largeRows := make([][]string, 1_000)
	for i := range largeRows {
		largeRows[i] = []string{fmt.Sprintf("value%d", i), fmt.Sprint(i)}
		assert.NoError(t, writer.Write(largeRows[i]))
	}

	assert.NoError(t, writer.Flush())
	assert.NoError(t, writer.Close())
	assert.Equal(t, largeRows, readRows(t, filePath))
}

func TestNewGzipWriter_BadPath(t *testing.T) {
	_, err := NewGzipWriter(filepath.Join(t.TempDir(), "missing", "file.csv.gz"))
	assert.ErrorContains(t, err, "failed to create file")
}
