package render

import (
	"fmt"
	"strconv"

	"github.com/a-h/templ"

	"github.com/pfrederiksen/pitcher-luck/internal/pitcher"
	"github.com/pfrederiksen/pitcher-luck/internal/view"
)

// Table header and footer text.
const (
	Title      = "MLB Pitcher Win-Loss Records: Skill or Luck?"
	Subtitle   = "Win-loss records are often as influenced by 'luck' (run support and team errors) as by pitcher skill (ERA)."
	SourceURL  = "https://github.com/juleswg23/baseball"
	EmptyTable = "No pitchers match the selected filters."
)

// PageTitle is the browser title of the dashboard.
const PageTitle = "MLB Pitchers Dashboard"

var columnLabels = []string{"", "", "Pitcher", "ERA", "Record", "Games Started", "Luck"}

var (
	colspan  = strconv.Itoa(len(columnLabels))
	styleTag = "<style>" + stylesheet + "</style>"
)

// PageData is everything a dashboard page shows.
type PageData struct {
	Selection view.Selection
	Years     []int
	Teams     []string // club codes of the selected season
	Rows      []pitcher.Record
	Links     Linker

	// TeamFilter renders the team multi-select form. Static bundles have
	// no server to submit to and link between pre-rendered pages instead.
	TeamFilter bool
	Chart      bool
}

// choice is one <option> of a select.
type choice struct {
	Value    string
	Label    string
	Selected bool
}

type navLink struct {
	Href   string
	Label  string
	Active bool
}

type navGroup struct {
	Heading string
	Links   []navLink
}

func sortChoices(sel view.Selection) []choice {
	out := make([]choice, 0, len(view.SortOptions))
	for _, opt := range view.SortOptions {
		out = append(out, choice{Value: string(opt.Key), Label: opt.Label, Selected: opt.Key == sel.SortKey})
	}
	return out
}

func orderChoices(sel view.Selection) []choice {
	return []choice{
		{Value: "desc", Label: "Descending", Selected: sel.Descending},
		{Value: "asc", Label: "Ascending", Selected: !sel.Descending},
	}
}

func yearChoices(d PageData) []choice {
	out := make([]choice, 0, len(d.Years))
	for _, y := range d.Years {
		out = append(out, choice{Value: strconv.Itoa(y), Label: strconv.Itoa(y), Selected: y == d.Selection.Year})
	}
	return out
}

// teamChoices marks nothing selected when the selection has no team
// filter, so an empty multi-select keeps meaning "every team".
func teamChoices(d PageData) []choice {
	sel := d.Selection
	out := make([]choice, 0, len(d.Teams))
	for _, team := range d.Teams {
		out = append(out, choice{
			Value:    team,
			Label:    pitcher.Abbreviation(team),
			Selected: len(sel.Teams) > 0 && sel.MatchesTeam(team),
		})
	}
	return out
}

// navGroups lists, per control, a link to every selection one change away
// from the current one.
func navGroups(d PageData) []navGroup {
	sel := d.Selection
	link := func(next view.Selection, label string, active bool) navLink {
		return navLink{Href: d.Links.PageURL(next), Label: label, Active: active}
	}

	var sorts navGroup
	sorts.Heading = "Sort by"
	for _, opt := range view.SortOptions {
		next := sel.Clone()
		next.SortKey = opt.Key
		sorts.Links = append(sorts.Links, link(next, opt.Label, opt.Key == sel.SortKey))
	}

	order := navGroup{Heading: "Order"}
	for _, desc := range []bool{true, false} {
		next := sel.Clone()
		next.Descending = desc
		label := "Descending"
		if !desc {
			label = "Ascending"
		}
		order.Links = append(order.Links, link(next, label, desc == sel.Descending))
	}

	rows := navGroup{Heading: "Rows"}
	for _, all := range []bool{false, true} {
		next := sel.Clone()
		next.ShowAll = all
		label := "Top " + strconv.Itoa(view.DefaultLimit)
		if all {
			label = "Show all"
		}
		rows.Links = append(rows.Links, link(next, label, all == sel.ShowAll))
	}

	years := navGroup{Heading: "Year"}
	for _, y := range d.Years {
		next := sel.Clone()
		next.Year = y
		years.Links = append(years.Links, link(next, strconv.Itoa(y), y == sel.Year))
	}

	return []navGroup{sorts, order, rows, years}
}

// chartURL is the scatter image source, or "" when the page shows no chart.
func chartURL(d PageData) string {
	if !d.Chart || len(d.Rows) == 0 || d.Links == nil {
		return ""
	}
	return d.Links.ChartURL(d.Selection)
}

func eraStyle(era float64) templ.SafeCSS {
	bg := ERAColor(era)
	return templ.SafeCSS(fmt.Sprintf("background-color:%s;color:%s;", bg.Hex(), TextColor(bg)))
}

func eraText(era float64) string {
	return fmt.Sprintf("%.2f", era)
}
