package pitcher

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pfrederiksen/pitcher-luck/internal/gamelog"
)

// StartersPerTeam is how many starters per club make the table.
const StartersPerTeam = 5

// Decision is the pitcher's result in one start.
type Decision string

const (
	Win        Decision = "W"
	Loss       Decision = "L"
	NoDecision Decision = "ND"
)

// Record is one pitcher-season row of the dashboard.
type Record struct {
	PitcherID    string     `json:"pitcher_id"`
	Name         string     `json:"name"`
	Year         int        `json:"year"`
	Team         string     `json:"team"`
	GamesStarted int        `json:"games_started"`
	Wins         int        `json:"wins"`
	Losses       int        `json:"losses"`
	Decisions    []Decision `json:"decisions"`
	RunSupport   float64    `json:"run_support"` // mean runs scored by the pitcher's club in the pitcher's starts
	TeamErrors   float64    `json:"team_errors"` // mean errors made by the pitcher's club in the pitcher's starts
	ERA          *float64   `json:"era,omitempty"`
}

// WinLoss formats the record as "W-L".
func (r Record) WinLoss() string {
	return fmt.Sprintf("%d-%d", r.Wins, r.Losses)
}

// HasERA reports whether an ERA was joined for the pitcher.
func (r Record) HasERA() bool {
	return r.ERA != nil
}

// LogoKey is the asset key of the club logo.
func (r Record) LogoKey() string {
	return r.Team
}

// HeadshotKey is the asset key of the pitcher's headshot.
func (r Record) HeadshotKey() string {
	return r.PitcherID
}

// WinPct returns wins over decisions, or 0 without decisions.
func (r Record) WinPct() float64 {
	if r.Wins+r.Losses == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Wins+r.Losses)
}

type accumulator struct {
	rec                Record
	runs, errs         float64
	runsSeen, errsSeen int
}

func (a *accumulator) add(s gamelog.Start) {
	a.rec.GamesStarted++
	switch {
	case s.Won:
		a.rec.Wins++
		a.rec.Decisions = append(a.rec.Decisions, Win)
	case s.Lost:
		a.rec.Losses++
		a.rec.Decisions = append(a.rec.Decisions, Loss)
	default:
		a.rec.Decisions = append(a.rec.Decisions, NoDecision)
	}
	if !math.IsNaN(s.Runs) {
		a.runs += s.Runs
		a.runsSeen++
	}
	if !math.IsNaN(s.Errors) {
		a.errs += s.Errors
		a.errsSeen++
	}
}

func (a *accumulator) record() Record {
	r := a.rec
	r.RunSupport = meanRounded(a.runs, a.runsSeen)
	r.TeamErrors = meanRounded(a.errs, a.errsSeen)
	return r
}

func meanRounded(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return math.Round(sum/float64(n)*10) / 10
}

// Aggregate builds the season table for year from the game log:
//   - every start of the season is credited to (club, pitcher);
//   - each club keeps its StartersPerTeam busiest starters, ties broken by
//     pitcher ID;
//   - a pitcher who started for several clubs keeps only the club with
//     the most starts, ties broken by club code.
//
// The result is ordered by club, then games started descending.
func Aggregate(games []gamelog.Game, year int) []Record {
	type key struct{ team, pitcher string }

	groups := make(map[key]*accumulator)
	var order []key

	for _, g := range games {
		if g.Year() != year {
			continue
		}
		for _, s := range g.Starts() {
			id := s.PitcherID
			if id == "" {
				id = s.PitcherName
			}
			k := key{team: s.Team, pitcher: id}
			acc, ok := groups[k]
			if !ok {
				acc = &accumulator{rec: Record{
					PitcherID: id,
					Name:      s.PitcherName,
					Year:      year,
					Team:      s.Team,
				}}
				groups[k] = acc
				order = append(order, k)
			}
			acc.add(s)
		}
	}

	byTeam := make(map[string][]Record)
	for _, k := range order {
		byTeam[k.team] = append(byTeam[k.team], groups[k].record())
	}

	var top []Record
	for _, recs := range byTeam {
		sort.Slice(recs, func(i, j int) bool {
			if recs[i].GamesStarted != recs[j].GamesStarted {
				return recs[i].GamesStarted > recs[j].GamesStarted
			}
			return recs[i].PitcherID < recs[j].PitcherID
		})
		if len(recs) > StartersPerTeam {
			recs = recs[:StartersPerTeam]
		}
		top = append(top, recs...)
	}

	best := make(map[string]Record)
	for _, r := range top {
		cur, ok := best[r.PitcherID]
		if !ok || r.GamesStarted > cur.GamesStarted ||
			(r.GamesStarted == cur.GamesStarted && r.Team < cur.Team) {
			best[r.PitcherID] = r
		}
	}

	out := make([]Record, 0, len(best))
	for _, r := range best {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Team != out[j].Team {
			return out[i].Team < out[j].Team
		}
		if out[i].GamesStarted != out[j].GamesStarted {
			return out[i].GamesStarted > out[j].GamesStarted
		}
		return out[i].PitcherID < out[j].PitcherID
	})
	return out
}

// Teams returns the distinct club codes in records, sorted by display
// abbreviation.
func Teams(records []Record) []string {
	seen := make(map[string]bool)
	var teams []string
	for _, r := range records {
		if !seen[r.Team] {
			seen[r.Team] = true
			teams = append(teams, r.Team)
		}
	}
	sort.Slice(teams, func(i, j int) bool {
		ai, aj := Abbreviation(teams[i]), Abbreviation(teams[j])
		if ai != aj {
			return ai < aj
		}
		return teams[i] < teams[j]
	})
	return teams
}

// teamAbbreviations maps Retrosheet club codes to the abbreviations fans
// know. Codes not listed display as-is.
var teamAbbreviations = map[string]string{
	"NYA": "NYY",
	"NYN": "NYM",
	"SFN": "SF",
	"SDN": "SD",
	"TBA": "TB",
	"KCA": "KC",
	"CHA": "CWS",
	"CHN": "CHC",
	"ANA": "LAA",
	"LAN": "LAD",
	"SLN": "STL",
}

// Abbreviation returns the display abbreviation of a club code.
func Abbreviation(team string) string {
	if abbr, ok := teamAbbreviations[strings.ToUpper(team)]; ok {
		return abbr
	}
	return team
}
