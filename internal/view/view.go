package view

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/pfrederiksen/pitcher-luck/internal/pitcher"
)

// DefaultLimit is how many rows show when ShowAll is off.
const DefaultLimit = 14

// SortKey names a sortable numeric column.
type SortKey string

const (
	SortWins         SortKey = "wins"
	SortGamesStarted SortKey = "games_started"
	SortRunSupport   SortKey = "run_support"
	SortERA          SortKey = "era"
	SortTeamErrors   SortKey = "team_errors"
)

// SortOption pairs a sort key with its label in the sort selector.
type SortOption struct {
	Key   SortKey
	Label string
}

// SortOptions lists the sort keys in selector order.
var SortOptions = []SortOption{
	{SortWins, "Wins"},
	{SortGamesStarted, "Games Started"},
	{SortRunSupport, "Run Support"},
	{SortERA, "ERA"},
	{SortTeamErrors, "Team Errors"},
}

// ParseSortKey validates a sort key.
func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	for _, opt := range SortOptions {
		if opt.Key == key {
			return key, nil
		}
	}
	return "", fmt.Errorf("unknown sort key: %q", s)
}

// Label returns the display label of the key.
func (k SortKey) Label() string {
	for _, opt := range SortOptions {
		if opt.Key == k {
			return opt.Label
		}
	}
	return string(k)
}

// Value extracts the key's column from a record. ok is false when the
// record has no value (a pitcher without ERA) or the value is NaN, which
// has no place in an ordering.
func (k SortKey) Value(r pitcher.Record) (v float64, ok bool) {
	switch k {
	case SortWins:
		v = float64(r.Wins)
	case SortGamesStarted:
		v = float64(r.GamesStarted)
	case SortRunSupport:
		v = r.RunSupport
	case SortTeamErrors:
		v = r.TeamErrors
	case SortERA:
		if r.ERA == nil {
			return 0, false
		}
		v = *r.ERA
	default:
		return 0, false
	}
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Selection is the widget state of one viewer.
type Selection struct {
	Year       int      `json:"year"`
	Teams      []string `json:"teams,omitempty"` // empty selects every team
	SortKey    SortKey  `json:"sort"`
	Descending bool     `json:"descending"`
	ShowAll    bool     `json:"show_all"`
}

// Default returns the initial selection for year: every team, most wins
// first, top DefaultLimit rows.
func Default(year int) Selection {
	return Selection{
		Year:       year,
		Teams:      []string{},
		SortKey:    SortWins,
		Descending: true,
	}
}

// MatchesTeam reports whether team is selected.
func (s Selection) MatchesTeam(team string) bool {
	if len(s.Teams) == 0 {
		return true
	}
	for _, t := range s.Teams {
		if strings.EqualFold(t, team) {
			return true
		}
	}
	return false
}

// Matches reports whether the record belongs to the selected season and
// teams.
func (s Selection) Matches(r pitcher.Record) bool {
	return r.Year == s.Year && s.MatchesTeam(r.Team)
}

// Apply returns the visible rows: records matching the selection, ordered
// by the sort key and cut to DefaultLimit unless ShowAll is set. Records
// without a value for the key come last in either direction; ties are
// ordered by pitcher name, then ID. The input is not modified. An empty
// result is valid.
func Apply(records []pitcher.Record, sel Selection) []pitcher.Record {
	rows := make([]pitcher.Record, 0, len(records))
	for _, r := range records {
		if sel.Matches(r) {
			rows = append(rows, r)
		}
	}

	key := sel.SortKey
	if key == "" {
		key = SortWins
	}
	sort.SliceStable(rows, func(i, j int) bool {
		vi, oki := key.Value(rows[i])
		vj, okj := key.Value(rows[j])
		if oki != okj {
			return oki
		}
		if oki && vi != vj {
			if sel.Descending {
				return vi > vj
			}
			return vi < vj
		}
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].PitcherID < rows[j].PitcherID
	})

	if !sel.ShowAll && len(rows) > DefaultLimit {
		rows = rows[:DefaultLimit]
	}
	return rows
}

// Query parameter names.
const (
	ParamYear  = "year"
	ParamTeam  = "team"
	ParamSort  = "sort"
	ParamOrder = "order"
	ParamAll   = "all"
)

// Query encodes the selection as URL parameters.
func (s Selection) Query() url.Values {
	q := url.Values{}
	q.Set(ParamYear, strconv.Itoa(s.Year))
	for _, t := range s.Teams {
		q.Add(ParamTeam, t)
	}
	q.Set(ParamSort, string(s.SortKey))
	if s.Descending {
		q.Set(ParamOrder, "desc")
	} else {
		q.Set(ParamOrder, "asc")
	}
	if s.ShowAll {
		q.Set(ParamAll, "1")
	}
	return q
}

// FromQuery decodes widget state. Values that are missing or invalid fall
// back to the defaults; a year outside years falls back to the latest.
func FromQuery(q url.Values, years []int) Selection {
	latest := 0
	for _, y := range years {
		if y > latest {
			latest = y
		}
	}
	sel := Default(latest)

	if y, err := strconv.Atoi(q.Get(ParamYear)); err == nil {
		for _, known := range years {
			if y == known {
				sel.Year = y
				break
			}
		}
	}

	seen := make(map[string]bool)
	for _, v := range q[ParamTeam] {
		for _, t := range strings.Split(v, ",") {
			t = strings.ToUpper(strings.TrimSpace(t))
			if t != "" && !seen[t] {
				seen[t] = true
				sel.Teams = append(sel.Teams, t)
			}
		}
	}

	if key, err := ParseSortKey(q.Get(ParamSort)); err == nil {
		sel.SortKey = key
	}
	if strings.EqualFold(q.Get(ParamOrder), "asc") {
		sel.Descending = false
	}
	switch strings.ToLower(q.Get(ParamAll)) {
	case "1", "true", "on", "yes":
		sel.ShowAll = true
	}

	return sel
}

// HasQuery reports whether q carries any selection parameter.
func HasQuery(q url.Values) bool {
	for _, p := range []string{ParamYear, ParamTeam, ParamSort, ParamOrder, ParamAll} {
		if _, ok := q[p]; ok {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the selection.
func (s Selection) Clone() Selection {
	c := s
	c.Teams = append([]string{}, s.Teams...)
	return c
}

// String describes the selection, e.g.
// "2024 | Teams: NYA, BOS | Sort: ERA ascending | Top 14".
func (s Selection) String() string {
	parts := []string{strconv.Itoa(s.Year)}
	if len(s.Teams) > 0 {
		parts = append(parts, "Teams: "+strings.Join(s.Teams, ", "))
	} else {
		parts = append(parts, "All teams")
	}

	dir := "descending"
	if !s.Descending {
		dir = "ascending"
	}
	parts = append(parts, fmt.Sprintf("Sort: %s %s", s.SortKey.Label(), dir))

	if s.ShowAll {
		parts = append(parts, "All rows")
	} else {
		parts = append(parts, fmt.Sprintf("Top %d", DefaultLimit))
	}
	return strings.Join(parts, " | ")
}
