// Package view turns the dashboard's widget state into the visible rows.
//
// A Selection holds the season, the selected teams, the sort column and
// direction, and whether every row or only the top rows are shown. Apply
// recomputes the row set from the full season table on every interaction;
// nothing else is kept between requests. Selections round-trip through URL
// query parameters so links and form submissions carry the whole state.
//
// Example usage:
//
//	sel := view.FromQuery(r.URL.Query(), store.Years())
//	rows := view.Apply(store.Season(sel.Year), sel)
package view
