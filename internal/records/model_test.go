package records

import (
	"testing"

	"github.com/dentalworks/dental-clinic-platform/internal/dental"
)

func TestValidateDefaults(t *testing.T) {
	rec := &ToothRecord{
		PatientID:   "patient-1",
		ToothNumber: 5,
		System:      dental.SystemFDI,
	}
	if err := rec.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Condition != dental.ConditionSound {
		t.Errorf("empty condition should default to sound, got %s", rec.Condition)
	}
	if rec.Priority != dental.PriorityLow {
		t.Errorf("empty priority should default to low, got %s", rec.Priority)
	}
	if rec.Surfaces.Occlusal != dental.ConditionSound {
		t.Errorf("surfaces should normalize to sound, got %s", rec.Surfaces.Occlusal)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ToothRecord)
	}{
		{"missing patient", func(r *ToothRecord) { r.PatientID = "" }},
		{"tooth zero", func(r *ToothRecord) { r.ToothNumber = 0 }},
		{"tooth 33", func(r *ToothRecord) { r.ToothNumber = 33 }},
		{"bad system", func(r *ToothRecord) { r.System = "iso" }},
		{"bad condition", func(r *ToothRecord) { r.Condition = "cavity" }},
		{"bad surface", func(r *ToothRecord) { r.Surfaces.Mesial = "chipped" }},
		{"negative mobility", func(r *ToothRecord) { r.Mobility = -1 }},
		{"bad priority", func(r *ToothRecord) { r.Priority = "urgent" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &ToothRecord{PatientID: "p", ToothNumber: 8, System: dental.SystemUniversal}
			tt.mutate(rec)
			if err := rec.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
