package importer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"librarian/internal/models"
	"librarian/internal/storage"
)

// FieldCount is the number of comma-separated fields on each line:
// id,title,pageCount,authorFirstName,authorLastName,genre
const FieldCount = 6

// ErrMalformedRecord is returned for a line with the wrong field count or a bad numeric field
var ErrMalformedRecord = errors.New("malformed import record")

// LineError ties a rejected record to its position in the source
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Report is the outcome of reading an import source
type Report struct {
	Books    []models.Book
	Rejected []*LineError
}

// Err combines every rejected line into one error, nil when all lines parsed
func (r Report) Err() error {
	var errs error
	for _, le := range r.Rejected {
		errs = multierr.Append(errs, le)
	}
	return errs
}

// ParseLine converts one import line into an available book
func ParseLine(line string) (models.Book, error) {
	fields := strings.Split(line, ",")
	if len(fields) != FieldCount {
		return models.Book{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRecord, FieldCount, len(fields))
	}

	id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return models.Book{}, fmt.Errorf("%w: id %q is not a number", ErrMalformedRecord, fields[0])
	}
	if id <= 0 {
		return models.Book{}, fmt.Errorf("%w: id %d must be positive", ErrMalformedRecord, id)
	}

	pageCount, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil {
		return models.Book{}, fmt.Errorf("%w: page count %q is not a number", ErrMalformedRecord, fields[2])
	}
	if pageCount < 0 {
		return models.Book{}, fmt.Errorf("%w: page count %d is negative", ErrMalformedRecord, pageCount)
	}

	author := fields[3] + " " + fields[4]
	return models.NewBook(id, fields[1], author, fields[5], pageCount), nil
}

// Read parses every line of r. Bad lines are collected in the report and
// reading carries on; only an I/O failure stops it.
func Read(r io.Reader) (Report, error) {
	var report Report

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		book, err := ParseLine(line)
		if err != nil {
			report.Rejected = append(report.Rejected, &LineError{Line: lineNo, Text: line, Err: err})
			continue
		}
		report.Books = append(report.Books, book)
	}
	if err := scanner.Err(); err != nil {
		return report, fmt.Errorf("reading import source: %w", err)
	}

	return report, nil
}

// Summary describes a finished import into the catalogue
type Summary struct {
	Loaded   int
	Rejected []error
}

// Import reads r and bulk-loads the valid records into the catalogue.
// Parse rejections and records the catalogue refuses are both reported in the summary.
func Import(cat storage.Catalogue, r io.Reader, logger *zap.Logger) (Summary, error) {
	report, err := Read(r)
	if err != nil {
		return Summary{}, err
	}

	for _, le := range report.Rejected {
		logger.Warn("Rejected import record",
			zap.Int("line", le.Line),
			zap.String("text", le.Text),
			zap.Error(le.Err),
		)
	}

	loaded, loadErr := cat.Load(report.Books)
	for _, e := range multierr.Errors(loadErr) {
		logger.Warn("Catalogue refused import record", zap.Error(e))
	}

	summary := Summary{
		Loaded:   loaded,
		Rejected: multierr.Errors(multierr.Append(report.Err(), loadErr)),
	}

	logger.Info("Import finished",
		zap.Int("loaded", summary.Loaded),
		zap.Int("rejected", len(summary.Rejected)),
	)
	return summary, nil
}

// ImportFile opens path and imports it with Import
func ImportFile(cat storage.Catalogue, path string, logger *zap.Logger) (Summary, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return Summary{}, fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	logger.Info("Importing books", zap.String("file", path))
	return Import(cat, f, logger)
}
