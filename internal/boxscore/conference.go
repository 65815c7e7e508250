package boxscore

import (
	"fmt"
	"strings"
)

// Conference identifies the league conference a team represented
type Conference string

const (
	AFC Conference = "AFC"
	NFC Conference = "NFC"
	NFL Conference = "NFL" // pre-merger NFL champion
	AFL Conference = "AFL" // pre-merger AFL champion
)

// Conferences lists every conference in matching order. The first literal found in a
// label wins.
var Conferences = []Conference{AFC, NFC, NFL, AFL}

// UnknownConferenceError is returned when a label contains no conference literal
type UnknownConferenceError struct {
	Label string
}

func (e *UnknownConferenceError) Error() string {
	return fmt.Sprintf("unexpected conference, %s", e.Label)
}

// MatchConference classifies a raw team label.
// It returns the winning conference and every conference whose literal occurs in the
// label, so callers can report ambiguous labels.
func MatchConference(label string) (Conference, []Conference, error) {
	var matches []Conference
	for _, c := range Conferences {
		if strings.Contains(label, string(c)) {
			matches = append(matches, c)
		}
	}

	if len(matches) == 0 {
		return "", nil, &UnknownConferenceError{Label: label}
	}

	return matches[0], matches, nil
}
