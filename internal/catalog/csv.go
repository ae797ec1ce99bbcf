package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ImportResult summarizes a CSV import run.
type ImportResult struct {
	Rows       int // data rows read
	Imported   int // new records written
	Duplicates int // rows already present (content hash)
	Skipped    int // rows without a usable name
}

// columnMap holds resolved column indexes, -1 when the column is absent.
type columnMap struct {
	name, brand, accords, description, gender, ratingValue, ratingCount int
}

// columnCandidates lists accepted header spellings per field, covering both
// the small curated base and the large Fragrantica export.
var columnCandidates = map[string][]string{
	"name":        {"name"},
	"brand":       {"brand"},
	"accords":     {"main accords", "main_accords", "accords"},
	"description": {"description"},
	"gender":      {"gender"},
	"ratingValue": {"rating value", "rating_value", "rating"},
	"ratingCount": {"rating count", "rating_count"},
}

// resolveColumns maps the header row to record fields, case-insensitively.
// Only the name column is mandatory.
func resolveColumns(headers []string) (columnMap, error) {
	index := func(field string) int {
		for _, candidate := range columnCandidates[field] {
			for i, h := range headers {
				if strings.EqualFold(strings.TrimSpace(h), candidate) {
					return i
				}
			}
		}
		return -1
	}

	cm := columnMap{
		name:        index("name"),
		brand:       index("brand"),
		accords:     index("accords"),
		description: index("description"),
		gender:      index("gender"),
		ratingValue: index("ratingValue"),
		ratingCount: index("ratingCount"),
	}
	if cm.name < 0 {
		return cm, fmt.Errorf("no name column found in headers: %v", headers)
	}
	return cm, nil
}

// ImportCSV streams a CSV file into the catalog. The first row is the
// header; rows without a name are skipped, rows already present are counted
// as duplicates. The reader tolerates ragged rows and stray quotes since
// scraped fragrance data is rarely clean.
func (s *Store) ImportCSV(ctx context.Context, path string) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}
	cols, err := resolveColumns(headers)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, fmt.Errorf("reading %s row %d: %w", path, result.Rows+2, err)
		}
		result.Rows++

		rec := recordFromRow(row, cols)
		if strings.TrimSpace(rec.Name) == "" {
			result.Skipped++
			continue
		}

		if _, err := s.Add(ctx, &rec); err != nil {
			if errors.Is(err, ErrDuplicate) {
				result.Duplicates++
				continue
			}
			return result, err
		}
		result.Imported++
	}

	return result, nil
}

func recordFromRow(row []string, cols columnMap) Record {
	field := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rec := Record{
		Name:        field(cols.name),
		Brand:       field(cols.brand),
		MainAccords: field(cols.accords),
		Description: field(cols.description),
		Gender:      field(cols.gender),
	}
	if v := field(cols.ratingValue); v != "" {
		rec.RatingValue, _ = strconv.ParseFloat(v, 64)
	}
	if v := field(cols.ratingCount); v != "" {
		rec.RatingCount, _ = strconv.Atoi(v)
	}
	return rec
}
