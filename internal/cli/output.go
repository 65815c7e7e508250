package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/pfrederiksen/sb-box-scores/internal/boxscore"
	"github.com/pfrederiksen/sb-box-scores/internal/storage"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt time.Time       `json:"checked_at"`
	Source    string          `json:"source"`
	OutputDir string          `json:"output_dir"`
	DryRun    bool            `json:"dry_run,omitempty"`
	Games     []boxscore.Game `json:"games"`
	GameCount int             `json:"game_count"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

var textColumns = []string{"File", "Team", "Conf", "Q1", "Q2", "Q3", "Q4", "Total"}

// writeText outputs results as an aligned table, one line per team
func writeText(w io.Writer, result *OutputResult) error {
	if result.GameCount == 0 {
		fmt.Fprintln(w, "No games found.")
		return nil
	}

	rows := [][]string{textColumns}
	for _, game := range result.Games {
		for i, team := range game.Teams {
			file := ""
			if i == 0 {
				file = storage.FileName(game.Number)
			}
			row := []string{file, team.Name, string(team.Conference)}
			for _, s := range team.BoxScore {
				row = append(row, strconv.Itoa(s))
			}
			row = append(row, strconv.Itoa(team.Total()))
			rows = append(rows, row)
		}
	}

	widths := make([]int, len(textColumns))
	for _, row := range rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			// Names left-aligned, scores right-aligned
			if i < 3 {
				cells[i] = runewidth.FillRight(cell, widths[i])
			} else {
				cells[i] = runewidth.FillLeft(cell, widths[i])
			}
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
	}

	if result.DryRun {
		fmt.Fprintf(w, "\nTotal: %d games (dry run, nothing written)\n", result.GameCount)
	} else {
		fmt.Fprintf(w, "\nTotal: %d games written to %s\n", result.GameCount, result.OutputDir)
	}

	return nil
}
