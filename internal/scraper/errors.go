package scraper

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrContainerNotFound is returned when the page has no div with the container id
	ErrContainerNotFound = errors.New("container not found")
	// ErrContainerNotElement is returned when the container lookup lands on a non-element node
	ErrContainerNotElement = errors.New("container is not an element")
)

// Kind classifies a ParseError
type Kind string

const (
	KindMalformedRow      Kind = "malformed row"
	KindBadScore          Kind = "bad score"
	KindUnknownConference Kind = "unknown conference"
	KindRowCount          Kind = "unexpected row count"
)

// ParseError reports markup that does not have the expected score table shape.
// Table and Row are 1-based positions; zero means the position is not known at the
// level where the error was raised.
type ParseError struct {
	Kind   Kind
	Table  int
	Row    int
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse")
	if e.Table > 0 {
		fmt.Fprintf(&b, " table %d", e.Table)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, " row %d", e.Row)
	}
	fmt.Fprintf(&b, ": %s", e.Kind)
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a ParseError of the given kind
func IsKind(err error, kind Kind) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Kind == kind
}
