package api

import "fmt"

// ValidateSegment checks a single segment's bounds.
func ValidateSegment(seg Segment) error {
	if seg.Start < 0 || seg.End < 0 {
		return fmt.Errorf("segment times must be non-negative (start=%g end=%g)", seg.Start, seg.End)
	}
	if seg.End < seg.Start {
		return fmt.Errorf("segment end %g is before start %g", seg.End, seg.Start)
	}
	return nil
}

// ValidateSegments checks that segments are individually valid, ordered by
// start, and non-overlapping. Touching boundaries are allowed.
func ValidateSegments(segments []Segment) error {
	for i, seg := range segments {
		if err := ValidateSegment(seg); err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
		if i == 0 {
			continue
		}
		prev := segments[i-1]
		if seg.Start < prev.Start {
			return fmt.Errorf("segment %d starts at %g before segment %d at %g", i, seg.Start, i-1, prev.Start)
		}
		if seg.Start < prev.End {
			return fmt.Errorf("segment %d overlaps segment %d", i, i-1)
		}
	}
	return nil
}

// Overlaps reports whether candidate intersects any of segments.
func Overlaps(segments []Segment, candidate Segment) bool {
	for _, seg := range segments {
		if candidate.Start < seg.End && seg.Start < candidate.End {
			return true
		}
	}
	return false
}
