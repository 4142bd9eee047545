package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/pfrederiksen/pitcher-luck/internal/luckbar"
	"github.com/pfrederiksen/pitcher-luck/internal/pitcher"
	"github.com/pfrederiksen/pitcher-luck/internal/render"
	"github.com/pfrederiksen/pitcher-luck/internal/view"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatCSV  OutputFormat = "csv"
)

// ParseFormat validates an output format name.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("invalid format: %s (must be 'text', 'json' or 'csv')", s)
}

// TableResult contains the rows of one view
type TableResult struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Selection   view.Selection   `json:"selection"`
	Description string           `json:"description"`
	Count       int              `json:"count"`
	Rows        []pitcher.Record `json:"rows"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *TableResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatCSV:
		return writeCSV(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs v as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

var csvHeader = []string{
	"year", "team", "pitcher_id", "pitcher", "games_started", "wins", "losses",
	"record", "era", "run_support", "team_errors", "decisions",
}

// writeCSV outputs one row per pitcher
func writeCSV(w io.Writer, result *TableResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range result.Rows {
		era := ""
		if r.ERA != nil {
			era = strconv.FormatFloat(*r.ERA, 'f', 2, 64)
		}
		decisions := make([]string, len(r.Decisions))
		for i, d := range r.Decisions {
			decisions[i] = string(d)
		}
		record := []string{
			strconv.Itoa(r.Year),
			r.Team,
			r.PitcherID,
			r.Name,
			strconv.Itoa(r.GamesStarted),
			strconv.Itoa(r.Wins),
			strconv.Itoa(r.Losses),
			r.WinLoss(),
			era,
			strconv.FormatFloat(r.RunSupport, 'f', 1, 64),
			strconv.FormatFloat(r.TeamErrors, 'f', 1, 64),
			strings.Join(decisions, " "),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#777777"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
	winStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#1f77b4"))
	lossStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff8c00"))
	errorsStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff0000"))
	runsStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#006400"))
)

// luckHalfWidth is the number of cells per half of the text luck bar.
const luckHalfWidth = 8

// writeText outputs the view as a terminal table
func writeText(w io.Writer, result *TableResult) error {
	fmt.Fprintln(w, titleStyle.Render(render.Title))
	fmt.Fprintln(w, mutedStyle.Render(result.Description))
	fmt.Fprintln(w)

	if result.Count == 0 {
		fmt.Fprintln(w, render.EmptyTable)
		return nil
	}

	rows := make([][]string, 0, len(result.Rows))
	for _, r := range result.Rows {
		rows = append(rows, []string{
			pitcher.Abbreviation(r.Team),
			r.Name,
			eraText(r.ERA),
			r.WinLoss(),
			strconv.Itoa(r.GamesStarted),
			fmt.Sprintf("%.1f", r.RunSupport),
			fmt.Sprintf("%.1f", r.TeamErrors),
			luckText(r.TeamErrors, r.RunSupport),
			decisionsText(r.Decisions),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("Team", "Pitcher", "ERA", "Record", "GS", "Run Sup.", "Errors", "Luck", "Starts").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "\nTotal: %d pitchers\n", result.Count)
	return nil
}

// eraText colours the ERA like the web table's colour box.
func eraText(era *float64) string {
	if era == nil {
		return "N/A"
	}
	c := render.ERAColor(*era)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(fmt.Sprintf("%.2f", *era))
}

// luckText draws the split luck bar with block characters: team errors
// grow left of the divider, run support right of it.
func luckText(errors, runs float64) string {
	left, right := luckbar.Fractions(errors, runs, luckbar.DefaultScale)
	l := int(math.Round(left * luckHalfWidth))
	r := int(math.Round(right * luckHalfWidth))
	return strings.Repeat(" ", luckHalfWidth-l) +
		errorsStyle.Render(strings.Repeat("█", l)) +
		"│" +
		runsStyle.Render(strings.Repeat("█", r)) +
		strings.Repeat(" ", luckHalfWidth-r)
}

// decisionsText renders the win/loss strip: ▲ win, ▼ loss, · no decision.
func decisionsText(decisions []pitcher.Decision) string {
	var b strings.Builder
	for _, d := range decisions {
		switch d {
		case pitcher.Win:
			b.WriteString(winStyle.Render("▲"))
		case pitcher.Loss:
			b.WriteString(lossStyle.Render("▼"))
		default:
			b.WriteString(mutedStyle.Render("·"))
		}
	}
	return b.String()
}
