package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/sb-box-scores/internal/boxscore"
	"github.com/pfrederiksen/sb-box-scores/internal/logger"
)

// LatestGame is the index given to the first table on the page
const LatestGame = 58

// Storage handles writing game CSV files
type Storage struct {
	dataDir string
}

// New creates a new Storage instance, creating dataDir if needed
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Dir returns the output directory
func (s *Storage) Dir() string {
	return s.dataDir
}

// FileName returns the file name for a game index
func FileName(index int) string {
	return fmt.Sprintf("sb_%d.csv", index)
}

// GamePath returns the path of the CSV file for a game index
func (s *Storage) GamePath(index int) string {
	return filepath.Join(s.dataDir, FileName(index))
}

// WriteCSV writes the header and one line per team
func WriteCSV(w io.Writer, game boxscore.Game) error {
	if _, err := fmt.Fprintf(w, "%s\n", strings.Join(boxscore.Header, ",")); err != nil {
		return err
	}
	for _, team := range game.Teams {
		if _, err := fmt.Fprintf(w, "%s,\n", team.Serialize()); err != nil {
			return err
		}
	}
	return nil
}

// WriteGame creates or truncates the CSV file for index and writes the game to it.
// The file is closed whether or not the write succeeds.
func (s *Storage) WriteGame(game boxscore.Game, index int) (err error) {
	path := s.GamePath(index)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	if err := WriteCSV(f, game); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	logger.IncrCounter("files.written")
	logger.Debug("Wrote game file", logger.Fields{
		"path":  path,
		"index": index,
	})

	return nil
}

// Indexes returns the game index for each of count games, counting down from start.
// The countdown is not clamped: a page with more games than start yields zero and
// negative indexes, which are logged at WARN.
func Indexes(start, count int) []int {
	indexes := make([]int, count)
	for i := range indexes {
		indexes[i] = start - i
	}

	if count > 0 && indexes[count-1] < 1 {
		logger.Warn("Game index counts below 1", logger.Fields{
			"start":  start,
			"games":  count,
			"lowest": indexes[count-1],
		})
	}

	return indexes
}

// WriteGames writes games in order, the first as start and each next one index lower.
// It returns the games with Number set. Files written before a failure are kept.
func (s *Storage) WriteGames(games []boxscore.Game, start int) ([]boxscore.Game, error) {
	indexes := Indexes(start, len(games))

	written := make([]boxscore.Game, 0, len(games))
	for i, game := range games {
		game.Number = indexes[i]
		if err := s.WriteGame(game, game.Number); err != nil {
			return written, err
		}
		written = append(written, game)
	}

	return written, nil
}
