// Package cli implements the command-line interface for pitcher-luck.
//
// The cli package provides the Cobra-based commands that stand in for the
// build script: run the live dashboard, export it as a static site, preview
// an export, clean up, check links, and print the table in the terminal
// (text, JSON or CSV). It loads configuration, builds the dataset and hands
// it to the server, export and render packages.
package cli
