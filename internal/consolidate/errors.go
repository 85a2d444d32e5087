package consolidate

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBoundaryMismatch matches any *BoundaryError.
	ErrBoundaryMismatch = errors.New("boundary mismatch")
	// ErrConsistency matches any *ConsistencyWarning.
	ErrConsistency = errors.New("consistency check failed")
)

// Mismatch is one failed boundary assertion.
type Mismatch struct {
	// Label names the plan entry the assertion belongs to; empty for
	// document-wide assertions.
	Label string
	// Line is the 1-based line the assertion looked at, 0 when not tied to
	// a single line.
	Line     int
	Expected string
	Got      string
}

func (m Mismatch) String() string {
	var b strings.Builder
	if m.Label != "" {
		fmt.Fprintf(&b, "%s: ", m.Label)
	}
	if m.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", m.Line)
	}
	fmt.Fprintf(&b, "expected %s, got %s", m.Expected, m.Got)
	return b.String()
}

// BoundaryError aborts a run before anything is written.
type BoundaryError struct {
	Path       string
	Mismatches []Mismatch
}

func (e *BoundaryError) Error() string {
	parts := make([]string, len(e.Mismatches))
	for i, m := range e.Mismatches {
		parts[i] = m.String()
	}
	return fmt.Sprintf("%s: %d boundary assertion(s) failed:\n- %s", e.Path, len(e.Mismatches), strings.Join(parts, "\n- "))
}

func (e *BoundaryError) Is(target error) bool {
	return target == ErrBoundaryMismatch
}

// ConsistencyWarning reports an unexpected opening marker count in output
// that has already been produced.
type ConsistencyWarning struct {
	Path     string
	Marker   string
	Expected int
	Got      int
}

func (w *ConsistencyWarning) Error() string {
	return fmt.Sprintf("%s: expected %d occurrence(s) of %q, got %d", w.Path, w.Expected, w.Marker, w.Got)
}

func (w *ConsistencyWarning) Is(target error) bool {
	return target == ErrConsistency
}
