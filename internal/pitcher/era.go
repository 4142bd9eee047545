package pitcher

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ERA table column names, as written by the offline stats export.
const (
	ColKeyRetro = "key_retro"
	ColERA      = "ERA"
)

// ReadERAFile parses a season ERA table such as data/2024era.csv.
func ReadERAFile(path string) (map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ERA table: %w", err)
	}
	defer f.Close()

	era, err := ParseERA(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return era, nil
}

// ParseERA reads a CSV with key_retro and ERA columns into a map keyed by
// Retrosheet ID. Rows with an empty ID, an empty ERA or a NaN ERA are
// skipped; the first row wins when an ID repeats. An infinite ERA (runs
// allowed without an out recorded) is kept.
func ParseERA(r io.Reader) (map[string]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty ERA table")
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	keyCol, eraCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case ColKeyRetro:
			keyCol = i
		case ColERA:
			eraCol = i
		}
	}
	if keyCol < 0 || eraCol < 0 {
		return nil, fmt.Errorf("ERA table needs %q and %q columns", ColKeyRetro, ColERA)
	}

	era := make(map[string]float64)
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if keyCol >= len(rec) || eraCol >= len(rec) {
			continue
		}

		key := strings.TrimSpace(rec[keyCol])
		value := strings.TrimSpace(rec[eraCol])
		if key == "" || value == "" {
			continue
		}
		if _, dup := era[key]; dup {
			continue
		}

		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid ERA %q for %s", line, value, key)
		}
		if math.IsNaN(f) {
			continue
		}
		era[key] = f
	}

	return era, nil
}

// JoinERA returns a copy of records with ERA set from era. Pitchers missing
// from era keep a nil ERA.
func JoinERA(records []Record, era map[string]float64) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		if v, ok := era[r.PitcherID]; ok {
			v := v
			r.ERA = &v
		} else {
			r.ERA = nil
		}
		out[i] = r
	}
	return out
}
