package scraper

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/sb-box-scores/internal/boxscore"
	"github.com/pfrederiksen/sb-box-scores/internal/logger"
)

// rowsPerTable is the header row plus one row per team
const rowsPerTable = 3

// TransformRow maps one team row to a Team.
// The label is the second span of the first cell; cells 1 through 4 are the quarter scores.
// The label is classified before any score is read, so a row with an unknown conference
// reports that label even when its score cells are also bad.
func TransformRow(row *goquery.Selection) (boxscore.Team, error) {
	cells := row.Find("td")
	spans := cells.First().Find("span")
	if spans.Length() < 2 {
		return boxscore.Team{}, &ParseError{
			Kind:   KindMalformedRow,
			Detail: fmt.Sprintf("found %d spans in team cell, need 2", spans.Length()),
		}
	}
	label := spans.Eq(1).Text()

	conf, matches, err := boxscore.MatchConference(label)
	if err != nil {
		return boxscore.Team{}, &ParseError{
			Kind:   KindUnknownConference,
			Detail: label,
			Err:    err,
		}
	}
	if len(matches) > 1 {
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = string(m)
		}
		logger.Warn("Label matches more than one conference", logger.Fields{
			"label":   label,
			"chosen":  string(conf),
			"matches": names,
		})
	}

	if cells.Length() < 1+boxscore.Quarters {
		return boxscore.Team{}, &ParseError{
			Kind:   KindMalformedRow,
			Detail: fmt.Sprintf("found %d cells, need %d", cells.Length(), 1+boxscore.Quarters),
		}
	}

	var scores [boxscore.Quarters]int
	for q := 0; q < boxscore.Quarters; q++ {
		text := cells.Eq(q + 1).Text()
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return boxscore.Team{}, &ParseError{
				Kind:   KindBadScore,
				Detail: fmt.Sprintf("Q%d %q", q+1, text),
				Err:    err,
			}
		}
		scores[q] = n
	}

	return boxscore.Team{
		Name:       boxscore.TeamName(label),
		BoxScore:   scores,
		Conference: conf,
	}, nil
}

// TransformTable maps a score table to a Game.
// The table must have exactly three rows; the first is the header and is skipped.
func TransformTable(table *goquery.Selection) (boxscore.Game, error) {
	rows := table.Find("tr")
	if rows.Length() != rowsPerTable {
		return boxscore.Game{}, &ParseError{
			Kind:   KindRowCount,
			Detail: fmt.Sprintf("found %d rows, need %d", rows.Length(), rowsPerTable),
		}
	}

	var teams [2]boxscore.Team
	for i := range teams {
		rowNum := i + 2
		team, err := TransformRow(rows.Eq(i + 1))
		if err != nil {
			return boxscore.Game{}, atRow(err, rowNum)
		}
		teams[i] = team
	}

	return boxscore.NewGame(teams[0], teams[1]), nil
}

func atRow(err error, row int) error {
	var pe *ParseError
	if errors.As(err, &pe) && pe.Row == 0 {
		pe.Row = row
	}
	return err
}

func atTable(err error, table int) error {
	var pe *ParseError
	if errors.As(err, &pe) && pe.Table == 0 {
		pe.Table = table
	}
	return err
}
