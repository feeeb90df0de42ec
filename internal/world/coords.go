package world

import (
	"fmt"
	"strconv"
	"strings"
)

// Coordinate strings are fixed-width "QQQ.RRR" with a +50 offset on each
// axis, so coordinates down to -50 render as non-negative three-digit runs.
// FormatCoords and ParseCoords are exact inverses for all q, r >= -50.
const coordOffset = 50

// FormatCoords renders an axial coordinate pair as its canonical string key.
func FormatCoords(q, r int) string {
	return fmt.Sprintf("%03d.%03d", q+coordOffset, r+coordOffset)
}

// ParseCoords parses a canonical coordinate string back into a HexCoord.
// Malformed input is an error, never a default coordinate.
func ParseCoords(s string) (HexCoord, error) {
	left, right, ok := strings.Cut(s, ".")
	if !ok {
		return HexCoord{}, fmt.Errorf("parse coords %q: missing separator", s)
	}
	q, err := parseCoordPart(s, left)
	if err != nil {
		return HexCoord{}, err
	}
	r, err := parseCoordPart(s, right)
	if err != nil {
		return HexCoord{}, err
	}
	return HexCoord{Q: q - coordOffset, R: r - coordOffset}, nil
}

func parseCoordPart(whole, part string) (int, error) {
	if len(part) < 3 {
		return 0, fmt.Errorf("parse coords %q: component %q too short", whole, part)
	}
	for _, c := range part {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("parse coords %q: component %q is not all digits", whole, part)
		}
	}
	n, err := strconv.Atoi(part)
	if err != nil {
		return 0, fmt.Errorf("parse coords %q: component %q: %w", whole, part, err)
	}
	return n, nil
}
