// Package boxscore provides the typed records extracted from the Super Bowl history page.
//
// A Team carries a display name, its conference, and the points it scored in each of the
// four quarters. A Game pairs the two teams of one championship table in the order they
// appear on the page. Conference classification is done by substring matching against a
// fixed, ordered list of conference literals.
package boxscore
