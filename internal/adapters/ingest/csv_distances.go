package ingest

import (
	"delivery-scheduler/internal/adapters/distance"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadDistancesCSV reads the lower-triangular distance table.
//
// Each row is "name,key,d0,d1,...,di" where dj is the distance from this row's
// location to row j's location. The first empty cell ends a row. Every value
// populates both directions of the index.
func LoadDistancesCSV(path string) (*distance.Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load distances: open %q: %w", path, err)
	}
	defer f.Close()

	idx, err := ReadDistances(f)
	if err != nil {
		return nil, fmt.Errorf("load distances: %q: %w", path, err)
	}
	return idx, nil
}

// ReadDistances parses a distance table from r.
func ReadDistances(r io.Reader) (*distance.Index, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	// Gather all locations first; a row may reference any earlier location.
	locations := make([]string, 0, len(rows))
	for i, row := range rows {
		if len(row) < 2 || strings.TrimSpace(row[1]) == "" {
			return nil, fmt.Errorf("row %d: missing location key", i+1)
		}
		locations = append(locations, strings.TrimSpace(row[1]))
	}

	idx := distance.NewIndex()
	for i, row := range rows {
		for j, cell := range row[2:] {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				break
			}
			if j >= len(locations) {
				return nil, fmt.Errorf("row %d: %d distances for %d locations", i+1, j+1, len(locations))
			}
			miles, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: invalid distance %q", i+1, j+3, cell)
			}
			idx.Set(locations[i], locations[j], miles)
		}
	}

	return idx, nil
}
