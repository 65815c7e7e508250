package scraper

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/sb-box-scores/internal/boxscore"
	"github.com/pfrederiksen/sb-box-scores/internal/logger"
	"golang.org/x/net/html"
)

// LocateContainer finds the first div whose id attribute equals id
func LocateContainer(doc *goquery.Document, id string) (*goquery.Selection, error) {
	container := doc.Find("div").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		v, ok := sel.Attr("id")
		return ok && v == id
	}).First()

	if container.Length() == 0 {
		return nil, fmt.Errorf("%w: div with id=%s", ErrContainerNotFound, id)
	}

	if err := checkElement(container); err != nil {
		return nil, err
	}

	return container, nil
}

// checkElement rejects a selection whose first node is text, a comment or anything else
// that cannot hold tables
func checkElement(sel *goquery.Selection) error {
	if len(sel.Nodes) == 0 {
		return ErrContainerNotFound
	}
	if node := sel.Nodes[0]; node.Type != html.ElementNode {
		return fmt.Errorf("%w: found node type %d", ErrContainerNotElement, node.Type)
	}
	return nil
}

// FindTables returns every table under the container in document order
func FindTables(container *goquery.Selection) []*goquery.Selection {
	tables := make([]*goquery.Selection, 0)
	container.Find("table").Each(func(_ int, table *goquery.Selection) {
		tables = append(tables, table)
	})
	return tables
}

// ParsePage extracts one Game per table inside the container.
// The first malformed table stops the parse; no partial result is returned.
func ParsePage(r io.Reader, containerID string) ([]boxscore.Game, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	container, err := LocateContainer(doc, containerID)
	if err != nil {
		return nil, err
	}

	tables := FindTables(container)
	logger.Debug("Located score tables", logger.Fields{
		"container_id": containerID,
		"tables":       len(tables),
	})

	games := make([]boxscore.Game, 0, len(tables))
	for i, table := range tables {
		game, err := TransformTable(table)
		if err != nil {
			return nil, atTable(err, i+1)
		}
		games = append(games, game)
	}

	return games, nil
}
