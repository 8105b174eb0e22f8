package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// VersionSpec is a parsed target-version pattern. Two forms exist: an exact
// version ("1.2.3" or "1.2.3.4", every segment numeric) and an X-pattern
// ("1.2.X", case-insensitive) where the last supplied segment is a placeholder
// resolved to one greater than the highest published value at that position.
type VersionSpec struct {
	Raw      string
	Segments []string
	XIndex   int // index of the X segment, -1 for exact specs
}

const (
	minSegments = 2
	maxSegments = 4
)

// ParseVersionSpec parses and validates a version spec string.
func ParseVersionSpec(raw string) (*VersionSpec, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty version", ErrInvalidVersionSpec)
	}

	segments := strings.Split(trimmed, ".")
	if len(segments) < minSegments || len(segments) > maxSegments {
		return nil, fmt.Errorf(
			"%w: %q must have between %d and %d segments",
			ErrInvalidVersionSpec, raw, minSegments, maxSegments,
		)
	}

	xIndex := -1
	for i, seg := range segments {
		if isNumericSegment(seg) {
			continue
		}
		if !strings.EqualFold(seg, "x") {
			return nil, fmt.Errorf(
				"%w: segment %q of %q is neither numeric nor X",
				ErrInvalidVersionSpec, seg, raw,
			)
		}
		if xIndex >= 0 {
			return nil, fmt.Errorf(
				"%w: %q has more than one X segment", ErrInvalidVersionSpec, raw,
			)
		}
		xIndex = i
	}

	// The placeholder must be the last segment actually supplied; the fixed
	// segments before it scope the published-version query.
	if xIndex >= 0 && xIndex != len(segments)-1 {
		return nil, fmt.Errorf(
			"%w: X segment of %q must be the last segment", ErrInvalidVersionSpec, raw,
		)
	}

	if xIndex < 0 && len(segments) < 3 {
		return nil, fmt.Errorf(
			"%w: exact version %q must have at least three segments",
			ErrInvalidVersionSpec, raw,
		)
	}

	return &VersionSpec{Raw: trimmed, Segments: segments, XIndex: xIndex}, nil
}

// IsExact reports whether the spec carries no placeholder.
func (s *VersionSpec) IsExact() bool { return s.XIndex < 0 }

// FixedPrefix returns the numeric segments preceding the X placeholder.
func (s *VersionSpec) FixedPrefix() []string {
	if s.IsExact() {
		return s.Segments
	}
	return s.Segments[:s.XIndex]
}

// WithResolved returns the concrete version string with the X placeholder
// replaced by the given value.
func (s *VersionSpec) WithResolved(value int) string {
	if s.IsExact() {
		return s.Raw
	}
	parts := make([]string, len(s.Segments))
	copy(parts, s.Segments)
	parts[s.XIndex] = strconv.Itoa(value)
	return strings.Join(parts, ".")
}

func isNumericSegment(seg string) bool {
	if seg == "" {
		return false
	}
	for _, r := range seg {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
