package chart

import "github.com/dentalworks/dental-clinic-platform/internal/dental"

// Visual is the rendered treatment for a tooth slot. It is a priority list,
// not a score: the first matching rule wins.
type Visual string

const (
	VisualSelected  Visual = "selected"
	VisualCritical  Visual = "critical"
	VisualHigh      Visual = "high"
	VisualAttention Visual = "attention"
	VisualDefault   Visual = "default"
)

// Visual derives the render state for a tooth. Priority order: currently
// selected, any critical-severity annotation, any high-severity annotation,
// any recorded non-sound condition, default.
func (s *State) Visual(tooth int, selected bool) Visual {
	if selected {
		return VisualSelected
	}
	if sev, ok := s.maxSeverity(tooth); ok {
		switch sev {
		case dental.SeverityCritical:
			return VisualCritical
		case dental.SeverityHigh:
			return VisualHigh
		}
	}
	if s.Condition(tooth) != dental.ConditionSound {
		return VisualAttention
	}
	return VisualDefault
}
