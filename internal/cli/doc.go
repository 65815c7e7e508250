// Package cli implements the command-line interface for sb-box-scores.
//
// The cli package provides the Cobra root command that runs the whole pipeline: it loads
// the configuration, fetches the Super Bowl history page, extracts one game per score
// table and writes each game to its own CSV file. A summary of the games is printed as
// text or JSON. A page without the score container exits with status 1 after a one-line
// diagnostic.
package cli
