package dental

import "testing"

func TestTypeForPosition(t *testing.T) {
	tests := []struct {
		position int
		want     ToothType
	}{
		{1, TypeIncisor},
		{2, TypeIncisor},
		{3, TypeCanine},
		{4, TypePremolar},
		{5, TypePremolar},
		{6, TypeMolar},
		{7, TypeMolar},
		{8, TypeMolar},
	}
	for _, tt := range tests {
		if got := TypeForPosition(tt.position); got != tt.want {
			t.Errorf("TypeForPosition(%d) = %s, want %s", tt.position, got, tt.want)
		}
	}
}

func TestTypeOf(t *testing.T) {
	// Universal 8 is the upper-right central incisor; 30 a lower-right molar.
	if got := TypeOf(8); got != TypeIncisor {
		t.Errorf("TypeOf(8) = %s", got)
	}
	if got := TypeOf(30); got != TypeMolar {
		t.Errorf("TypeOf(30) = %s", got)
	}
}

func TestIsUpper(t *testing.T) {
	if !IsUpper(1) || !IsUpper(16) {
		t.Error("1 and 16 are upper arch")
	}
	if IsUpper(17) || IsUpper(32) {
		t.Error("17 and 32 are lower arch")
	}
}

func TestValidEnums(t *testing.T) {
	if !ValidCondition(ConditionCaries) || ValidCondition("cavity") {
		t.Error("condition validation mismatch")
	}
	if !ValidSeverity(SeverityCritical) || ValidSeverity("urgent") {
		t.Error("severity validation mismatch")
	}
	if !ValidAnnotationType(AnnotationMeasurement) || ValidAnnotationType("sticky") {
		t.Error("annotation type validation mismatch")
	}
	if !ValidPriority(PriorityHigh) || ValidPriority("critical") {
		t.Error("priority validation mismatch")
	}
}
