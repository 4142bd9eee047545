package gamelog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Column names of the scraped game log.
const (
	ColDate             = "Date"
	ColVisitor          = "VT"
	ColHome             = "HT"
	ColVisitorSPName    = "VT Starting Pitcher Name"
	ColVisitorSPID      = "VT Starting Pitcher ID"
	ColHomeSPName       = "HT Starting Pitcher Name"
	ColHomeSPID         = "HT Starting Pitcher ID"
	ColWinningPitcherNm = "Winning Pitcher Name"
	ColWinningPitcherID = "Winning Pitcher ID"
	ColLosingPitcherNm  = "Losing Pitcher Name"
	ColLosingPitcherID  = "Losing Pitcher ID"
	ColVisitorScore     = "VT Score"
	ColHomeScore        = "HT Score"
	ColVisitorErrors    = "VT Errors"
	ColHomeErrors       = "HT Errors"
)

var requiredColumns = []string{
	ColDate, ColVisitor, ColHome,
	ColVisitorSPName, ColVisitorSPID, ColHomeSPName, ColHomeSPID,
	ColWinningPitcherID, ColLosingPitcherID,
	ColVisitorScore, ColHomeScore, ColVisitorErrors, ColHomeErrors,
}

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// Side identifies the visiting or home club of a game.
type Side struct {
	Team        string
	StarterName string
	StarterID   string
	Runs        float64 // NaN when the cell was empty
	Errors      float64 // NaN when the cell was empty
}

// Game is one row of the game log.
type Game struct {
	Date             int // YYYYMMDD
	Visitor          Side
	Home             Side
	WinningPitcherID string
	LosingPitcherID  string
}

// Year returns the season the game was played in.
func (g Game) Year() int {
	return g.Date / 10000
}

// Start is a single pitcher's start, seen from the pitcher's own club.
type Start struct {
	Date        int
	Team        string
	PitcherID   string
	PitcherName string
	Runs        float64
	Errors      float64
	Won         bool
	Lost        bool
}

// Starts returns the visiting and home starts of the game. Sides without a
// starting pitcher name are skipped.
func (g Game) Starts() []Start {
	starts := make([]Start, 0, 2)
	for _, side := range []Side{g.Visitor, g.Home} {
		if side.StarterName == "" {
			continue
		}
		starts = append(starts, Start{
			Date:        g.Date,
			Team:        side.Team,
			PitcherID:   side.StarterID,
			PitcherName: side.StarterName,
			Runs:        side.Runs,
			Errors:      side.Errors,
			Won:         side.StarterID != "" && side.StarterID == g.WinningPitcherID,
			Lost:        side.StarterID != "" && side.StarterID == g.LosingPitcherID,
		})
	}
	return starts
}

// ReadFile parses the game log at path.
func ReadFile(path string) ([]Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening game log: %w", err)
	}
	defer f.Close()

	games, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return games, nil
}

// Parse reads a game log CSV. Columns are found by header name, so extra
// columns and any column order are accepted.
func Parse(r io.Reader) ([]Game, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty game log")
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}

	var games []Game
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

		row := rowReader{rec: rec, index: index, line: line}
		g := Game{
			Date:             row.integer(ColDate),
			WinningPitcherID: row.str(ColWinningPitcherID),
			LosingPitcherID:  row.str(ColLosingPitcherID),
			Visitor: Side{
				Team:        row.str(ColVisitor),
				StarterName: row.str(ColVisitorSPName),
				StarterID:   row.str(ColVisitorSPID),
				Runs:        row.number(ColVisitorScore),
				Errors:      row.number(ColVisitorErrors),
			},
			Home: Side{
				Team:        row.str(ColHome),
				StarterName: row.str(ColHomeSPName),
				StarterID:   row.str(ColHomeSPID),
				Runs:        row.number(ColHomeScore),
				Errors:      row.number(ColHomeErrors),
			},
		}
		if row.err != nil {
			return nil, row.err
		}
		games = append(games, g)
	}

	return games, nil
}

// rowReader pulls typed cells out of one CSV record, remembering the first
// conversion error.
type rowReader struct {
	rec   []string
	index map[string]int
	line  int
	err   error
}

func (r *rowReader) str(col string) string {
	i := r.index[col]
	if i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r *rowReader) integer(col string) int {
	s := r.str(col)
	n, err := strconv.Atoi(s)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("line %d: column %q: invalid integer %q", r.line, col, s)
	}
	return n
}

func (r *rowReader) number(col string) float64 {
	s := r.str(col)
	if s == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if r.err == nil {
			r.err = fmt.Errorf("line %d: column %q: invalid number %q", r.line, col, s)
		}
		return math.NaN()
	}
	return f
}
