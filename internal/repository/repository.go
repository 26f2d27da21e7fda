package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/Dan9191/loan-registry/internal/models"
	"github.com/sirupsen/logrus"
)

// HeaderStatus describes what EnsureInitialized found in the records file
type HeaderStatus int

const (
	HeaderValid HeaderStatus = iota
	HeaderMissingFile
	HeaderMalformed
)

func (s HeaderStatus) String() string {
	switch s {
	case HeaderValid:
		return "valid"
	case HeaderMissingFile:
		return "missing file"
	case HeaderMalformed:
		return "malformed header"
	default:
		return "unknown"
	}
}

// ErrMalformedHeader is returned when the first row of a non-empty file is not the column header.
var ErrMalformedHeader = errors.New("records file header does not match columns")

// Repository provides record file operations
type Repository struct {
	path string
	log  *logrus.Logger
}

// NewRepository initializes a new repository backed by the file at path
func NewRepository(path string, log *logrus.Logger) *Repository {
	return &Repository{path: path, log: log}
}

// Path returns the backing file path
func (r *Repository) Path() string {
	return r.path
}

// EnsureInitialized creates the file with the header row if it is absent or its header
// does not match the column schema. Calling it repeatedly leaves the file unchanged.
func (r *Repository) EnsureInitialized() (HeaderStatus, error) {
	status, err := r.checkHeader()
	if err != nil {
		return status, err
	}
	if status == HeaderValid {
		return status, nil
	}
	if err := r.rewrite(nil); err != nil {
		return status, fmt.Errorf("failed to initialize records file: %w", err)
	}
	return status, nil
}

func (r *Repository) checkHeader() (HeaderStatus, error) {
	file, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return HeaderMissingFile, nil
	}
	if err != nil {
		return HeaderValid, fmt.Errorf("failed to open records file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err == io.EOF {
		return HeaderMalformed, nil
	}
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return HeaderMalformed, nil
		}
		return HeaderValid, fmt.Errorf("failed to read records header: %w", err)
	}
	if !slices.Equal(header, models.Columns) {
		return HeaderMalformed, nil
	}
	return HeaderValid, nil
}

// readRows returns the data rows below the header. An empty file has no rows.
func (r *Repository) readRows() ([][]string, error) {
	file, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open records file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read records file: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if !slices.Equal(rows[0], models.Columns) {
		return nil, ErrMalformedHeader
	}
	return rows[1:], nil
}

// LoadAll returns every record in file order. Rows that cannot be decoded are
// skipped with a warning and left in the file untouched.
func (r *Repository) LoadAll() ([]models.LoanRecord, error) {
	rows, err := r.readRows()
	if err != nil {
		return nil, err
	}

	records := make([]models.LoanRecord, 0, len(rows))
	for i, row := range rows {
		record, err := decodeRow(row)
		if err != nil {
			r.log.WithFields(logrus.Fields{"path": r.path, "line": i + 2}).Warnf("Skipping malformed record: %v", err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// ExistsEmail reports whether a row with the given email is stored, ignoring case.
// A missing file holds no records.
func (r *Repository) ExistsEmail(email string) (bool, error) {
	rows, err := r.readRows()
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	for _, row := range rows {
		if rowMatches(row, email) {
			return true, nil
		}
	}
	return false, nil
}

// Append adds a record as the last row, writing the header first when the file is empty
func (r *Repository) Append(record models.LoanRecord) error {
	file, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open records file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat records file: %w", err)
	}

	writer := csv.NewWriter(file)
	if info.Size() == 0 {
		if err := writer.Write(models.Columns); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	if err := writer.Write(record.Row()); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return file.Close()
}

// DeleteByEmail removes every row whose email matches, ignoring case, and rewrites
// the file. Other rows are written back as read. It reports whether anything was removed.
func (r *Repository) DeleteByEmail(email string) (bool, error) {
	rows, err := r.readRows()
	if err != nil {
		return false, err
	}

	kept := make([][]string, 0, len(rows))
	for _, row := range rows {
		if rowMatches(row, email) {
			continue
		}
		kept = append(kept, row)
	}
	if len(kept) == len(rows) {
		return false, nil
	}

	if err := r.rewrite(kept); err != nil {
		return false, fmt.Errorf("failed to rewrite records file: %w", err)
	}
	return true, nil
}

// rewrite replaces the file with the header and rows via a temp file and rename
func (r *Repository) rewrite(rows [][]string) error {
	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	writer := csv.NewWriter(tmp)
	if err := writer.Write(models.Columns); err != nil {
		tmp.Close()
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, r.path)
}

func rowMatches(row []string, email string) bool {
	return len(row) > 1 && strings.EqualFold(strings.TrimSpace(row[1]), email)
}

func decodeRow(row []string) (models.LoanRecord, error) {
	if len(row) != len(models.Columns) {
		return models.LoanRecord{}, fmt.Errorf("expected %d fields, got %d", len(models.Columns), len(row))
	}

	var (
		record models.LoanRecord
		err    error
	)
	record.Name = row[0]
	record.Email = row[1]
	record.DateOfBirth = row[2]
	if record.LoanAmount, err = parseAmount(row[3], "$"); err != nil {
		return record, fmt.Errorf("loan amount: %w", err)
	}
	if record.InterestRate, err = parseAmount(row[4], "%"); err != nil {
		return record, fmt.Errorf("interest amount: %w", err)
	}
	if record.InterestAmount, err = parseAmount(row[5], "$"); err != nil {
		return record, fmt.Errorf("interest money: %w", err)
	}
	if record.TermMonths, err = parseAmount(row[6], "months"); err != nil {
		return record, fmt.Errorf("month: %w", err)
	}
	if record.TotalInterest, err = parseAmount(row[7], "$"); err != nil {
		return record, fmt.Errorf("interest money per month: %w", err)
	}
	return record, nil
}

func parseAmount(field, unit string) (int64, error) {
	value := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(field), unit))
	return strconv.ParseInt(value, 10, 64)
}
