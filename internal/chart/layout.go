package chart

import "github.com/dentalworks/dental-clinic-platform/internal/dental"

// Slot is one of the 32 tooth positions the renderer lays out.
type Slot struct {
	Universal int              `json:"universal"`
	Label     string           `json:"label"`
	Quadrant  dental.Quadrant  `json:"quadrant"`
	Position  int              `json:"position"` // 1-8 from midline
	Type      dental.ToothType `json:"type"`
}

// Layout is the full mouth arranged as two arches of 16 slots each, ordered
// left to right from the viewer's perspective (patient's right first on top,
// mirrored on the bottom so opposing teeth line up).
type Layout struct {
	Upper []Slot `json:"upper"`
	Lower []Slot `json:"lower"`
}

// BuildLayout produces the 32 slots with display labels in the requested
// numbering system.
func BuildLayout(system dental.System) Layout {
	l := Layout{
		Upper: make([]Slot, 0, 16),
		Lower: make([]Slot, 0, 16),
	}
	for n := 1; n <= 16; n++ {
		l.Upper = append(l.Upper, makeSlot(n, system))
	}
	for n := 32; n >= 17; n-- {
		l.Lower = append(l.Lower, makeSlot(n, system))
	}
	return l
}

func makeSlot(universal int, system dental.System) Slot {
	return Slot{
		Universal: universal,
		Label:     dental.ConvertToothNumber(universal, system),
		Quadrant:  dental.QuadrantOf(universal),
		Position:  dental.PositionInQuadrant(universal),
		Type:      dental.TypeOf(universal),
	}
}
