package dental

// ToothType is the anatomical class of a tooth, used to pick which proxy
// geometry the chart renders for it.
type ToothType string

const (
	TypeIncisor  ToothType = "incisor"
	TypeCanine   ToothType = "canine"
	TypePremolar ToothType = "premolar"
	TypeMolar    ToothType = "molar"
)

// TypeForPosition classifies a per-quadrant position (1-8 from midline).
// Positions outside that range fall back to molar, matching the widest
// placeholder geometry.
func TypeForPosition(position int) ToothType {
	switch {
	case position >= 1 && position <= 2:
		return TypeIncisor
	case position == 3:
		return TypeCanine
	case position == 4 || position == 5:
		return TypePremolar
	default:
		return TypeMolar
	}
}

// TypeOf classifies a Universal tooth number.
func TypeOf(universal int) ToothType {
	return TypeForPosition(PositionInQuadrant(universal))
}

// ValidToothType reports whether t is one of the four anatomical classes.
func ValidToothType(t ToothType) bool {
	switch t {
	case TypeIncisor, TypeCanine, TypePremolar, TypeMolar:
		return true
	}
	return false
}

// IsUpper reports whether the Universal tooth number sits in the upper arch.
func IsUpper(universal int) bool {
	return universal >= 1 && universal <= 16
}

// ValidUniversal reports whether n names one of the 32 permanent teeth.
// Supernumerary teeth are out of scope.
func ValidUniversal(n int) bool {
	return n >= 1 && n <= 32
}
