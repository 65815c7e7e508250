// Package storage writes extracted games to per-game CSV files.
//
// Each game is written to sb_<N>.csv in the output directory, where N is the game index.
// The file holds a fixed header followed by one line per team. The header declares an OT
// column that is never filled, and every team line ends with an empty trailing field.
package storage
