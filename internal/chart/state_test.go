package chart

import (
	"testing"

	"github.com/dentalworks/dental-clinic-platform/internal/annotations"
	"github.com/dentalworks/dental-clinic-platform/internal/dental"
	"github.com/dentalworks/dental-clinic-platform/internal/records"
)

func TestStateDefaults(t *testing.T) {
	s := NewState("patient-1", dental.SystemUniversal)

	for tooth := 1; tooth <= 32; tooth++ {
		if got := s.Condition(tooth); got != dental.ConditionSound {
			t.Errorf("Condition(%d) = %s, want sound", tooth, got)
		}
		anns := s.Annotations(tooth)
		if anns == nil || len(anns) != 0 {
			t.Errorf("Annotations(%d) = %v, want empty list", tooth, anns)
		}
	}
}

func TestApplyRecordIdempotent(t *testing.T) {
	s := NewState("patient-1", dental.SystemUniversal)
	rec := &records.ToothRecord{
		PatientID:   "patient-1",
		ToothNumber: 14,
		System:      dental.SystemUniversal,
		Condition:   dental.ConditionCaries,
	}

	s.ApplyRecord(rec)
	s.ApplyRecord(rec)

	if got := s.Condition(14); got != dental.ConditionCaries {
		t.Errorf("Condition(14) = %s, want caries", got)
	}
	// The second apply must replace, not duplicate: updating the condition
	// afterwards has to be visible immediately.
	rec.Condition = dental.ConditionFilled
	s.ApplyRecord(rec)
	if got := s.Condition(14); got != dental.ConditionFilled {
		t.Errorf("Condition(14) after update = %s, want filled", got)
	}
}

func TestAnnotationLifecycle(t *testing.T) {
	s := NewState("patient-1", dental.SystemFDI)
	a := annotations.Annotation{
		ID:          "ann-1",
		PatientID:   "patient-1",
		ToothNumber: 3,
		System:      dental.SystemFDI,
		Severity:    dental.SeverityMedium,
		Visible:     true,
	}

	s.AddAnnotation(a)
	if got := s.Annotations(3); len(got) != 1 || got[0].ID != "ann-1" {
		t.Fatalf("Annotations(3) = %v", got)
	}

	if !s.RemoveAnnotation("ann-1") {
		t.Fatal("RemoveAnnotation should report removal")
	}
	if got := s.Annotations(3); len(got) != 0 {
		t.Errorf("annotation still present after delete: %v", got)
	}
	if s.RemoveAnnotation("ann-1") {
		t.Error("second remove should report nothing removed")
	}
}

func TestPopulateReplacesPreviousPatient(t *testing.T) {
	s := NewState("patient-1", dental.SystemUniversal)
	s.ApplyRecord(&records.ToothRecord{PatientID: "patient-1", ToothNumber: 2, System: dental.SystemUniversal, Condition: dental.ConditionCrown})

	s.Populate(nil, nil)
	if got := s.Condition(2); got != dental.ConditionSound {
		t.Errorf("Populate should clear stale state, Condition(2) = %s", got)
	}
}

func TestVisualPriority(t *testing.T) {
	s := NewState("patient-1", dental.SystemUniversal)
	s.ApplyRecord(&records.ToothRecord{PatientID: "patient-1", ToothNumber: 30, System: dental.SystemUniversal, Condition: dental.ConditionCaries})
	s.AddAnnotation(annotations.Annotation{ID: "a1", ToothNumber: 30, Severity: dental.SeverityMedium, Visible: true})
	s.AddAnnotation(annotations.Annotation{ID: "a2", ToothNumber: 30, Severity: dental.SeverityCritical, Visible: true})

	// A critical annotation outranks medium and any recorded condition.
	if got := s.Visual(30, false); got != VisualCritical {
		t.Errorf("Visual(30) = %s, want critical", got)
	}
	// Selection outranks everything.
	if got := s.Visual(30, true); got != VisualSelected {
		t.Errorf("Visual(30, selected) = %s, want selected", got)
	}

	// High beats the condition-based treatment.
	if !s.RemoveAnnotation("a2") {
		t.Fatal("remove a2")
	}
	s.AddAnnotation(annotations.Annotation{ID: "a3", ToothNumber: 30, Severity: dental.SeverityHigh, Visible: true})
	if got := s.Visual(30, false); got != VisualHigh {
		t.Errorf("Visual(30) = %s, want high", got)
	}

	// With only low/medium annotations the non-sound condition shows.
	s.RemoveAnnotation("a3")
	if got := s.Visual(30, false); got != VisualAttention {
		t.Errorf("Visual(30) = %s, want attention", got)
	}

	// Hidden annotations do not affect the render.
	s.AddAnnotation(annotations.Annotation{ID: "a4", ToothNumber: 31, Severity: dental.SeverityCritical, Visible: false})
	if got := s.Visual(31, false); got != VisualDefault {
		t.Errorf("Visual(31) = %s, want default for hidden annotation", got)
	}
}
