package chart

import (
	"github.com/dentalworks/dental-clinic-platform/internal/annotations"
	"github.com/dentalworks/dental-clinic-platform/internal/dental"
)

// SlotView is one rendered tooth slot: layout position plus derived state.
type SlotView struct {
	Slot
	Condition       dental.Condition         `json:"condition"`
	Visual          Visual                   `json:"visual"`
	AnnotationCount int                      `json:"annotationCount"`
	Annotations     []annotations.Annotation `json:"annotations,omitempty"`
}

// View is the full chart payload for one patient and numbering system.
// Degraded marks a chart rendered from the empty fallback after a read
// failure.
type View struct {
	PatientID string        `json:"patientId"`
	System    dental.System `json:"numberingSystem"`
	Selected  int           `json:"selected,omitempty"`
	Degraded  bool          `json:"degraded,omitempty"`
	Upper     []SlotView    `json:"upper"`
	Lower     []SlotView    `json:"lower"`
}

// BuildView combines the layout with the view model. selected is the
// Universal number of the currently selected tooth, or 0.
func BuildView(state *State, selected int) View {
	layout := BuildLayout(state.System())
	v := View{
		PatientID: state.PatientID(),
		System:    state.System(),
		Selected:  selected,
		Upper:     make([]SlotView, 0, len(layout.Upper)),
		Lower:     make([]SlotView, 0, len(layout.Lower)),
	}
	for _, slot := range layout.Upper {
		v.Upper = append(v.Upper, buildSlotView(state, slot, selected))
	}
	for _, slot := range layout.Lower {
		v.Lower = append(v.Lower, buildSlotView(state, slot, selected))
	}
	return v
}

func buildSlotView(state *State, slot Slot, selected int) SlotView {
	anns := state.Annotations(slot.Universal)
	sv := SlotView{
		Slot:            slot,
		Condition:       state.Condition(slot.Universal),
		Visual:          state.Visual(slot.Universal, slot.Universal == selected),
		AnnotationCount: len(anns),
	}
	if len(anns) > 0 {
		sv.Annotations = anns
	}
	return sv
}
