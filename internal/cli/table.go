package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/pitcher-luck/internal/view"
)

var (
	flagYear   int
	flagTeams  []string
	flagSort   string
	flagAsc    bool
	flagAll    bool
	flagFormat string
)

func newTableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the pitcher table",
		Long: `Print one view of the dashboard table in the terminal, or as JSON or CSV
for other tools. Filters and sorting work as in the live dashboard.`,
		Example: `  pitcher-luck table
  pitcher-luck table --year 2023 --team NYA --team BOS --sort era --asc
  pitcher-luck table --all --format csv > pitchers.csv`,
		Args: cobra.NoArgs,
		RunE: runTable,
	}

	cmd.Flags().IntVar(&flagYear, "year", 0, "Season (default: latest loaded)")
	cmd.Flags().StringSliceVar(&flagTeams, "team", nil, "Team code, repeatable or comma-separated (default: all teams)")
	cmd.Flags().StringVar(&flagSort, "sort", string(view.SortWins), "Sort by: "+sortKeyList())
	cmd.Flags().BoolVar(&flagAsc, "asc", false, "Sort ascending instead of descending")
	cmd.Flags().BoolVar(&flagAll, "all", false, fmt.Sprintf("Show every row instead of the top %d", view.DefaultLimit))
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text, json or csv")

	return cmd
}

func runTable(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(flagFormat)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := loadStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	sel, err := selectionFromFlags(store.Years())
	if err != nil {
		return err
	}

	season, err := store.Season(sel.Year)
	if err != nil {
		return err
	}
	rows := view.Apply(season, sel)

	result := &TableResult{
		GeneratedAt: time.Now().UTC(),
		Selection:   sel,
		Description: sel.String(),
		Count:       len(rows),
		Rows:        rows,
	}
	if err := WriteOutput(cmd.OutOrStdout(), result, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// selectionFromFlags builds the selection from the table flags. Unlike
// query parameters, invalid flag values are errors.
func selectionFromFlags(years []int) (view.Selection, error) {
	if len(years) == 0 {
		return view.Selection{}, fmt.Errorf("no seasons loaded")
	}

	sel := view.Default(years[len(years)-1])
	if flagYear != 0 {
		found := false
		for _, y := range years {
			if y == flagYear {
				found = true
				break
			}
		}
		if !found {
			return view.Selection{}, fmt.Errorf("season %d is not loaded (loaded: %s)", flagYear, joinInts(years))
		}
		sel.Year = flagYear
	}

	key, err := view.ParseSortKey(flagSort)
	if err != nil {
		return view.Selection{}, fmt.Errorf("%w (must be one of %s)", err, sortKeyList())
	}
	sel.SortKey = key
	sel.Descending = !flagAsc
	sel.ShowAll = flagAll

	for _, t := range flagTeams {
		if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
			sel.Teams = append(sel.Teams, t)
		}
	}
	return sel, nil
}

func sortKeyList() string {
	keys := make([]string, len(view.SortOptions))
	for i, opt := range view.SortOptions {
		keys[i] = string(opt.Key)
	}
	return strings.Join(keys, ", ")
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
