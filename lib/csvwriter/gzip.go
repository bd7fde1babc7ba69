package csvwriter

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// GzipWriter writes tab separated rows into a gzip compressed file.
type GzipWriter struct {
	fp     string
	file   *os.File
	gzip   *gzip.Writer
	writer *csv.Writer
	closed bool
}

func NewGzipWriter(fp string) (*GzipWriter, error) {
	file, err := os.Create(fp)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	gzipWriter := gzip.NewWriter(file)
	csvWriter := csv.NewWriter(gzipWriter)
	csvWriter.Comma = '\t'
	return &GzipWriter{
		fp:     fp,
		file:   file,
		gzip:   gzipWriter,
		writer: csvWriter,
	}, nil
}

func (g *GzipWriter) FileName() string {
	return filepath.Base(g.fp)
}

func (g *GzipWriter) Write(row []string) error {
	return g.writer.Write(row)
}

func (g *GzipWriter) Flush() error {
	g.writer.Flush()
	return g.writer.Error()
}

func (g *GzipWriter) Close() error {
	if g.closed {
		return fmt.Errorf("writer for %q is already closed", g.fp)
	}

	g.closed = true
	g.writer.Flush()
	if err := g.writer.Error(); err != nil {
		_ = g.gzip.Close()
		_ = g.file.Close()
		return err
	}

	if err := g.gzip.Close(); err != nil {
		_ = g.file.Close()
		return err
	}

	return g.file.Close()
}
