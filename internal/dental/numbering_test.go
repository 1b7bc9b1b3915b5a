package dental

import (
	"strconv"
	"testing"
)

func TestConvertToothNumberFDIScenarios(t *testing.T) {
	tests := []struct {
		universal int
		want      string
	}{
		{1, "18"},  // upper-right third molar
		{8, "11"},  // upper-right central incisor
		{9, "21"},  // upper-left central incisor
		{16, "28"}, // upper-left third molar
		{17, "38"}, // lower-left third molar
		{24, "31"}, // lower-left central incisor
		{25, "41"}, // lower-right central incisor
		{32, "48"}, // lower-right third molar
	}
	for _, tt := range tests {
		got := ConvertToothNumber(tt.universal, SystemFDI)
		if got != tt.want {
			t.Errorf("ConvertToothNumber(%d, FDI) = %q, want %q", tt.universal, got, tt.want)
		}
	}
}

func TestConvertToothNumberPalmer(t *testing.T) {
	tests := []struct {
		universal int
		want      string
	}{
		{1, "UR8"},
		{8, "UR1"},
		{9, "UL1"},
		{20, "LL5"},
		{32, "LR8"},
	}
	for _, tt := range tests {
		got := ConvertToothNumber(tt.universal, SystemPalmer)
		if got != tt.want {
			t.Errorf("ConvertToothNumber(%d, Palmer) = %q, want %q", tt.universal, got, tt.want)
		}
	}
}

func TestConvertToothNumberIdentity(t *testing.T) {
	for n := 1; n <= 32; n++ {
		if got := ConvertToothNumber(n, SystemUniversal); got != strconv.Itoa(n) {
			t.Errorf("ConvertToothNumber(%d, Universal) = %q", n, got)
		}
	}
}

func TestConvertToothNumberPassThrough(t *testing.T) {
	for _, n := range []int{0, 33, -4, 99} {
		if got := ConvertToothNumber(n, SystemFDI); got != strconv.Itoa(n) {
			t.Errorf("out-of-range %d should pass through, got %q", n, got)
		}
	}
	if got := ToUniversal(9, QuadrantUpperRight); got != 9 {
		t.Errorf("ToUniversal(9, UR) should pass through, got %d", got)
	}
}

func TestRoundTripAllSystems(t *testing.T) {
	for n := 1; n <= 32; n++ {
		for _, sys := range []System{SystemFDI, SystemPalmer, SystemUniversal} {
			label := ConvertToothNumber(n, sys)
			back, ok := UniversalFromLabel(label, sys)
			if !ok {
				t.Fatalf("UniversalFromLabel(%q, %s) failed for universal %d", label, sys, n)
			}
			if back != n {
				t.Errorf("round trip %d -> %q -> %d via %s", n, label, back, sys)
			}
		}
	}
}

func TestBijection(t *testing.T) {
	for _, sys := range []System{SystemFDI, SystemPalmer} {
		seen := make(map[string]int)
		for n := 1; n <= 32; n++ {
			label := ConvertToothNumber(n, sys)
			if prev, dup := seen[label]; dup {
				t.Errorf("%s label %q produced by both universal %d and %d", sys, label, prev, n)
			}
			seen[label] = n
		}
		if len(seen) != 32 {
			t.Errorf("%s mapping covers %d labels, want 32", sys, len(seen))
		}
	}
}

func TestQuadrantAndPosition(t *testing.T) {
	tests := []struct {
		universal int
		quadrant  Quadrant
		position  int
	}{
		{1, QuadrantUpperRight, 8},
		{8, QuadrantUpperRight, 1},
		{9, QuadrantUpperLeft, 1},
		{16, QuadrantUpperLeft, 8},
		{17, QuadrantLowerLeft, 8},
		{24, QuadrantLowerLeft, 1},
		{25, QuadrantLowerRight, 1},
		{32, QuadrantLowerRight, 8},
	}
	for _, tt := range tests {
		if q := QuadrantOf(tt.universal); q != tt.quadrant {
			t.Errorf("QuadrantOf(%d) = %s, want %s", tt.universal, q, tt.quadrant)
		}
		if p := PositionInQuadrant(tt.universal); p != tt.position {
			t.Errorf("PositionInQuadrant(%d) = %d, want %d", tt.universal, p, tt.position)
		}
	}
}

func TestParseFDI(t *testing.T) {
	pos, q, ok := ParseFDI("18")
	if !ok || pos != 8 || q != QuadrantUpperRight {
		t.Errorf("ParseFDI(18) = %d, %s, %v", pos, q, ok)
	}
	for _, bad := range []string{"", "9", "19", "50", "abc", "10"} {
		if _, _, ok := ParseFDI(bad); ok {
			t.Errorf("ParseFDI(%q) should fail", bad)
		}
	}
}

func TestParseSystem(t *testing.T) {
	if ParseSystem(" FDI ") != SystemFDI {
		t.Error("expected fdi")
	}
	if ParseSystem("palmer") != SystemPalmer {
		t.Error("expected palmer")
	}
	if ParseSystem("bogus") != SystemUniversal {
		t.Error("unknown system should fall back to universal")
	}
}
