// Package gamelog parses the pre-scraped MLB game log.
//
// The game log is a CSV file with one row per game: the date as YYYYMMDD,
// the visiting and home club codes, each club's starting pitcher (name and
// Retrosheet ID), the winning and losing pitcher IDs, and each club's runs
// and errors. The package turns rows into Games and each Game into the two
// Starts it contains, which is what the pitcher package aggregates.
package gamelog
