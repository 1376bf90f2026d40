// Package overlap decides whether a candidate span may join a
// segment's existing spans. Disjoint and fully nested spans are
// allowed; partial ("crossing") overlaps are rejected because they
// cannot be rendered unambiguously.
package overlap

import (
	"errors"
	"fmt"

	"github.com/okian/glossa/internal/domain/model"
)

// ErrCrossing is the sentinel wrapped by every Conflict.
var ErrCrossing = errors.New("crossing overlap")

// Conflict reports the existing span a rejected candidate crosses, so
// the UI can surface it in a transient warning.
type Conflict struct {
	CandidateID   string
	ConflictingID string
}

func (c *Conflict) Error() string {
	return fmt.Sprintf("span %q crosses existing span %q", c.CandidateID, c.ConflictingID)
}

func (c *Conflict) Unwrap() error {
	return ErrCrossing
}

// Class is the relation between two spans' offset ranges.
type Class int

// Overlap classes.
const (
	Disjoint Class = iota
	Nested
	Crossing
)

func (c Class) String() string {
	switch c {
	case Disjoint:
		return "disjoint"
	case Nested:
		return "nested"
	default:
		return "crossing"
	}
}

// Classify computes the overlap class of two spans. The relation is
// symmetric: Classify(a, b) == Classify(b, a).
func Classify(a, b model.Span) Class {
	if a.End <= b.Start || a.Start >= b.End {
		return Disjoint
	}
	if (a.Start >= b.Start && a.End <= b.End) || (b.Start >= a.Start && b.End <= a.End) {
		return Nested
	}
	return Crossing
}

// Validate accepts the candidate iff it crosses none of the existing
// spans. Every existing span is checked, not just the nearest one; a
// single crossing conflict anywhere rejects the whole candidate. No
// state is mutated on rejection.
func Validate(candidate model.Span, existing []model.Span) error {
	if err := candidate.Validate(); err != nil {
		return err
	}
	for _, e := range existing {
		if Classify(candidate, e) == Crossing {
			return &Conflict{CandidateID: candidate.ID, ConflictingID: e.ID}
		}
	}
	return nil
}

// Revalidate checks the accepted-set post-condition: every pair of
// spans is either disjoint or nested. Used by tests and defensive
// callers after restoring archived spans.
func Revalidate(spans []model.Span) error {
	for i := range spans {
		for j := i + 1; j < len(spans); j++ {
			if Classify(spans[i], spans[j]) == Crossing {
				return &Conflict{CandidateID: spans[i].ID, ConflictingID: spans[j].ID}
			}
		}
	}
	return nil
}
