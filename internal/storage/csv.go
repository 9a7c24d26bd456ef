package storage

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"simplecrm/internal/apperr"
	"simplecrm/internal/models"
)

// csvHeader is the fixed column set for both import and export. id and
// created_at are deliberately excluded: imported rows are always inserted
// as brand-new contacts.
var csvHeader = []string{"name", "email", "phone", "company", "tags", "notes"}

func (s *SQLiteStore) ExportCSV(path string) (int, error) {
	contacts, err := s.List("")
	if err != nil {
		return 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, &apperr.StorageError{Op: "create export file", Err: err}
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return 0, &apperr.StorageError{Op: "write csv header", Err: err}
	}
	for _, c := range contacts {
		row := []string{c.Name, c.Email, c.Phone, c.Company, c.Tags, c.Notes}
		if err := w.Write(row); err != nil {
			f.Close()
			return 0, &apperr.StorageError{Op: "write csv row", Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return 0, &apperr.StorageError{Op: "write csv", Err: err}
	}
	if err := f.Close(); err != nil {
		return 0, &apperr.StorageError{Op: "close export file", Err: err}
	}
	return len(contacts), nil
}

func (s *SQLiteStore) ImportCSV(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, &apperr.StorageError{Op: "open import file", Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return 0, &apperr.StorageError{Op: "read csv header", Err: err}
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	added := 0
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return added, &apperr.StorageError{Op: "read csv row", Err: err}
		}

		fields := models.ContactFields{
			Name:    field(row, "name"),
			Email:   field(row, "email"),
			Phone:   field(row, "phone"),
			Company: field(row, "company"),
			Tags:    field(row, "tags"),
			Notes:   field(row, "notes"),
		}
		// Rows without a name are skipped, not treated as errors.
		if fields.Name == "" {
			continue
		}
		// A validation failure aborts the import; rows inserted before it
		// stay committed.
		if _, err := s.Add(fields); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
