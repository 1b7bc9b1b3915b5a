// Package dental defines the tooth numbering systems, quadrants, and the
// clinical enumerations shared across the charting subsystem.
package dental

import (
	"strconv"
	"strings"
)

// System identifies one of the three supported tooth numbering conventions.
type System string

const (
	SystemUniversal System = "universal"
	SystemFDI       System = "fdi"
	SystemPalmer    System = "palmer"
)

// ValidSystem reports whether s is a known numbering system.
func ValidSystem(s System) bool {
	switch s {
	case SystemUniversal, SystemFDI, SystemPalmer:
		return true
	}
	return false
}

// ParseSystem normalizes a user-supplied system name. Unknown values fall
// back to Universal.
func ParseSystem(raw string) System {
	switch System(strings.ToLower(strings.TrimSpace(raw))) {
	case SystemFDI:
		return SystemFDI
	case SystemPalmer:
		return SystemPalmer
	default:
		return SystemUniversal
	}
}

// Quadrant is one of the four anatomical dental regions.
type Quadrant string

const (
	QuadrantUpperRight Quadrant = "UR"
	QuadrantUpperLeft  Quadrant = "UL"
	QuadrantLowerLeft  Quadrant = "LL"
	QuadrantLowerRight Quadrant = "LR"
)

// Quadrants lists all four quadrants in FDI order (1 through 4).
var Quadrants = []Quadrant{QuadrantUpperRight, QuadrantUpperLeft, QuadrantLowerLeft, QuadrantLowerRight}

// QuadrantOf maps a Universal tooth number (1-32) to its quadrant.
// Out-of-range input returns the empty Quadrant.
func QuadrantOf(universal int) Quadrant {
	switch {
	case universal >= 1 && universal <= 8:
		return QuadrantUpperRight
	case universal >= 9 && universal <= 16:
		return QuadrantUpperLeft
	case universal >= 17 && universal <= 24:
		return QuadrantLowerLeft
	case universal >= 25 && universal <= 32:
		return QuadrantLowerRight
	}
	return ""
}

// fdiDigit is the leading digit of an FDI code for each quadrant.
func fdiDigit(q Quadrant) int {
	switch q {
	case QuadrantUpperRight:
		return 1
	case QuadrantUpperLeft:
		return 2
	case QuadrantLowerLeft:
		return 3
	case QuadrantLowerRight:
		return 4
	}
	return 0
}

func quadrantForFDIDigit(d int) (Quadrant, bool) {
	switch d {
	case 1:
		return QuadrantUpperRight, true
	case 2:
		return QuadrantUpperLeft, true
	case 3:
		return QuadrantLowerLeft, true
	case 4:
		return QuadrantLowerRight, true
	}
	return "", false
}

// PositionInQuadrant returns the 1-8 position from the midline for a
// Universal tooth number, or 0 when the input is out of range.
func PositionInQuadrant(universal int) int {
	switch QuadrantOf(universal) {
	case QuadrantUpperRight:
		return 9 - universal
	case QuadrantUpperLeft:
		return universal - 8
	case QuadrantLowerLeft:
		return 25 - universal
	case QuadrantLowerRight:
		return universal - 24
	}
	return 0
}

// ConvertToothNumber renders a Universal tooth number (1-32) as a display
// label in the target system. Out-of-range input is passed through unchanged
// as a decimal string: callers feed this function data loaded from the remote
// store, which may predate validation, and a chart with an odd label is more
// useful than a chart that refuses to render.
func ConvertToothNumber(universal int, target System) string {
	q := QuadrantOf(universal)
	if q == "" {
		return strconv.Itoa(universal)
	}
	pos := PositionInQuadrant(universal)
	switch target {
	case SystemFDI:
		return strconv.Itoa(fdiDigit(q)*10 + pos)
	case SystemPalmer:
		return string(q) + strconv.Itoa(pos)
	default:
		return strconv.Itoa(universal)
	}
}

// ToUniversal converts a per-quadrant position (1-8) plus its quadrant back
// to a Universal tooth number. Positions outside 1-8 pass through unchanged,
// mirroring ConvertToothNumber's fallback.
func ToUniversal(position int, q Quadrant) int {
	if position < 1 || position > 8 {
		return position
	}
	switch q {
	case QuadrantUpperRight:
		return 9 - position
	case QuadrantUpperLeft:
		return position + 8
	case QuadrantLowerLeft:
		return 25 - position
	case QuadrantLowerRight:
		return position + 24
	}
	return position
}

// ParseFDI splits a two-digit FDI code ("11"-"48") into its per-quadrant
// position and quadrant. ok is false when the code is not a valid FDI label.
func ParseFDI(code string) (position int, q Quadrant, ok bool) {
	n, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil || n < 11 || n > 48 {
		return 0, "", false
	}
	q, valid := quadrantForFDIDigit(n / 10)
	if !valid {
		return 0, "", false
	}
	position = n % 10
	if position < 1 || position > 8 {
		return 0, "", false
	}
	return position, q, true
}

// ParsePalmer splits a Palmer label ("UR8", "LL3") into position and quadrant.
func ParsePalmer(label string) (position int, q Quadrant, ok bool) {
	label = strings.ToUpper(strings.TrimSpace(label))
	if len(label) < 3 {
		return 0, "", false
	}
	switch Quadrant(label[:2]) {
	case QuadrantUpperRight, QuadrantUpperLeft, QuadrantLowerLeft, QuadrantLowerRight:
		q = Quadrant(label[:2])
	default:
		return 0, "", false
	}
	n, err := strconv.Atoi(label[2:])
	if err != nil || n < 1 || n > 8 {
		return 0, "", false
	}
	return n, q, true
}

// UniversalFromLabel resolves a display label in the given system back to a
// Universal tooth number. ok is false when the label cannot be parsed.
func UniversalFromLabel(label string, system System) (int, bool) {
	switch system {
	case SystemFDI:
		pos, q, ok := ParseFDI(label)
		if !ok {
			return 0, false
		}
		return ToUniversal(pos, q), true
	case SystemPalmer:
		pos, q, ok := ParsePalmer(label)
		if !ok {
			return 0, false
		}
		return ToUniversal(pos, q), true
	default:
		n, err := strconv.Atoi(strings.TrimSpace(label))
		if err != nil || n < 1 || n > 32 {
			return 0, false
		}
		return n, true
	}
}
