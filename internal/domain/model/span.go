// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for model invariants.
var (
	ErrEmptySpan       = errors.New("span start must be before end")
	ErrUnknownSegment  = errors.New("segment not found")
	ErrSegmentStraddle = errors.New("span straddles a segment boundary")
	ErrBadSegment      = errors.New("segment length must be positive")
)

// SpanKind tells which medium a span annotates.
type SpanKind string

// Span kinds.
const (
	KindText  SpanKind = "text"
	KindAudio SpanKind = "audio"
	KindVideo SpanKind = "video"
)

// Span is a labeled, offset-bounded annotation over text or time.
// Offsets are global (already adjusted by the segment prefix sum) and
// unitless: characters for text, milliseconds for audio/video time.
// End is exclusive.
type Span struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Color string   `json:"color"`
	Start int      `json:"start"`
	End   int      `json:"end"`
	Kind  SpanKind `json:"kind"`
}

// Validate checks the span invariant Start < End.
func (s Span) Validate() error {
	if s.Start >= s.End {
		return fmt.Errorf("%w: [%d,%d)", ErrEmptySpan, s.Start, s.End)
	}
	return nil
}

// Length returns the number of offset units the span covers.
func (s Span) Length() int {
	return s.End - s.Start
}

// Overlaps reports whether the two offset ranges intersect numerically.
// Nesting counts as overlap here; the overlap package distinguishes
// nested from crossing.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Segment is a contiguous, non-overlapping chunk (sentence, subtitle
// line) that owns a set of spans. Start is derived from the lengths of
// the preceding segments and is never stored as mutable state; see
// SegmentList.
type Segment struct {
	ID     string `json:"id"`
	Start  int    `json:"start"`
	Length int    `json:"length"`
}

// End returns the exclusive end offset of the segment.
func (g Segment) End() int {
	return g.Start + g.Length
}

// Contains reports whether the span lies entirely inside the segment.
func (g Segment) Contains(s Span) bool {
	return s.Start >= g.Start && s.End <= g.End()
}

// SegmentList keeps the ordered segments of a document and derives
// their global offsets as a prefix sum over segment lengths. Offsets
// are recomputed on every change rather than patched in place.
type SegmentList struct {
	segs []Segment
}

// NewSegmentList builds a list from ordered segment ids and lengths.
// Each length must be positive.
func NewSegmentList(ids []string, lengths []int) (*SegmentList, error) {
	if len(ids) != len(lengths) {
		return nil, fmt.Errorf("%w: %d ids for %d lengths", ErrBadSegment, len(ids), len(lengths))
	}
	l := &SegmentList{}
	for i, id := range ids {
		if lengths[i] <= 0 {
			return nil, fmt.Errorf("%w: segment %q has length %d", ErrBadSegment, id, lengths[i])
		}
		l.segs = append(l.segs, Segment{ID: id, Length: lengths[i]})
	}
	l.rebuild()
	return l, nil
}

// rebuild recomputes the prefix-sum offsets after any change.
func (l *SegmentList) rebuild() {
	offset := 0
	for i := range l.segs {
		l.segs[i].Start = offset
		offset += l.segs[i].Length
	}
}

// Append adds one segment at the end of the document.
func (l *SegmentList) Append(id string, length int) error {
	if length <= 0 {
		return fmt.Errorf("%w: segment %q has length %d", ErrBadSegment, id, length)
	}
	l.segs = append(l.segs, Segment{ID: id, Length: length})
	l.rebuild()
	return nil
}

// Len returns the number of segments.
func (l *SegmentList) Len() int {
	return len(l.segs)
}

// TotalLength returns the summed length of all segments.
func (l *SegmentList) TotalLength() int {
	n := 0
	for _, g := range l.segs {
		n += g.Length
	}
	return n
}

// Segments returns a copy of the segments with derived offsets.
func (l *SegmentList) Segments() []Segment {
	out := make([]Segment, len(l.segs))
	copy(out, l.segs)
	return out
}

// ByID returns the segment with the given id.
func (l *SegmentList) ByID(id string) (Segment, error) {
	for _, g := range l.segs {
		if g.ID == id {
			return g, nil
		}
	}
	return Segment{}, fmt.Errorf("%w: %q", ErrUnknownSegment, id)
}

// GlobalOffset maps a local in-segment offset to the stable global
// coordinate usable across segments.
func (l *SegmentList) GlobalOffset(segmentID string, local int) (int, error) {
	g, err := l.ByID(segmentID)
	if err != nil {
		return 0, err
	}
	if local < 0 || local > g.Length {
		return 0, fmt.Errorf("%w: offset %d outside segment %q", ErrSegmentStraddle, local, segmentID)
	}
	return g.Start + local, nil
}

// Owner returns the segment that fully contains the span. A span that
// straddles two segments is a caller error: selections are always made
// within one rendered segment, so straddling indicates a violated
// precondition rather than recoverable input.
func (l *SegmentList) Owner(s Span) (Segment, error) {
	if err := s.Validate(); err != nil {
		return Segment{}, err
	}
	for _, g := range l.segs {
		if g.Contains(s) {
			return g, nil
		}
		if s.Start >= g.Start && s.Start < g.End() {
			return Segment{}, fmt.Errorf("%w: span [%d,%d) starts in segment %q ending at %d",
				ErrSegmentStraddle, s.Start, s.End, g.ID, g.End())
		}
	}
	return Segment{}, fmt.Errorf("%w: no segment contains span [%d,%d)", ErrUnknownSegment, s.Start, s.End)
}
