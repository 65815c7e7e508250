package boxscore

import (
	"strconv"
	"strings"
)

// Quarters is the number of period scores recorded per team
const Quarters = 4

// Header is the first line of every game CSV file. The OT column is declared but never
// populated.
var Header = []string{"Name", "Conference", "Q1", "Q2", "Q3", "Q4", "OT"}

// Team represents one side of a championship game
type Team struct {
	Name       string        `json:"name"`
	BoxScore   [Quarters]int `json:"box_score"`
	Conference Conference    `json:"conference"`
}

// Game is the pair of teams from one score table, in page order
type Game struct {
	Number int     `json:"number,omitempty"`
	Teams  [2]Team `json:"teams"`
}

// TeamName returns the label up to, not including, the first space
func TeamName(label string) string {
	name, _, _ := strings.Cut(label, " ")
	return name
}

// NewGame pairs two teams in the order they were read
func NewGame(first, second Team) Game {
	return Game{Teams: [2]Team{first, second}}
}

// Record returns the team's CSV fields: name, conference, then Q1 through Q4
func (t Team) Record() []string {
	fields := make([]string, 0, 2+Quarters)
	fields = append(fields, t.Name, string(t.Conference))
	for _, s := range t.BoxScore {
		fields = append(fields, strconv.Itoa(s))
	}
	return fields
}

// Serialize joins Record with commas. There is no trailing OT field.
func (t Team) Serialize() string {
	return strings.Join(t.Record(), ",")
}

// Total returns the sum of the quarter scores
func (t Team) Total() int {
	total := 0
	for _, s := range t.BoxScore {
		total += s
	}
	return total
}
