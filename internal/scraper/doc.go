// Package scraper fetches the footballdb.com Super Bowl history page and extracts box scores.
//
// The page lists every Super Bowl as a small table inside a single content column. Each
// table has a header row followed by one row per team; the first cell of a team row holds
// the team label and the next four cells hold the points scored in each quarter. The
// scraper locates the column by its element id, walks every table in document order and
// turns each one into a boxscore.Game.
//
// Malformed markup is never repaired. A table with the wrong number of rows, a row with
// missing cells, a non-numeric score or a label without a conference stops the parse with
// a *ParseError describing where it happened.
package scraper
