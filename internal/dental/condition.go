package dental

// Condition is the primary clinical state recorded for one tooth. A tooth
// carries exactly one primary condition at a time; per-surface conditions are
// tracked separately and default to sound.
type Condition string

const (
	ConditionSound              Condition = "sound"
	ConditionCaries             Condition = "caries"
	ConditionFilled             Condition = "filled"
	ConditionCrown              Condition = "crown"
	ConditionRootCanal          Condition = "root-canal"
	ConditionImplant            Condition = "implant"
	ConditionMissing            Condition = "missing"
	ConditionFractured          Condition = "fractured"
	ConditionPeriapicalLesion   Condition = "periapical-lesion"
	ConditionPeriodontalDisease Condition = "periodontal-disease"
	ConditionHasNotes           Condition = "has-notes"
)

// ValidCondition reports whether c is a recognized primary condition.
func ValidCondition(c Condition) bool {
	switch c {
	case ConditionSound, ConditionCaries, ConditionFilled, ConditionCrown,
		ConditionRootCanal, ConditionImplant, ConditionMissing,
		ConditionFractured, ConditionPeriapicalLesion,
		ConditionPeriodontalDisease, ConditionHasNotes:
		return true
	}
	return false
}

// Surface names one of the six tooth surfaces tracked per record.
type Surface string

const (
	SurfaceMesial   Surface = "mesial"
	SurfaceDistal   Surface = "distal"
	SurfaceBuccal   Surface = "buccal"
	SurfaceLingual  Surface = "lingual"
	SurfaceOcclusal Surface = "occlusal"
	SurfaceIncisal  Surface = "incisal"
)

// Surfaces lists the six tracked surfaces.
var Surfaces = []Surface{SurfaceMesial, SurfaceDistal, SurfaceBuccal, SurfaceLingual, SurfaceOcclusal, SurfaceIncisal}

// Severity grades an annotation.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ValidSeverity reports whether s is a recognized severity grade.
func ValidSeverity(s Severity) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// AnnotationType categorizes a spatial annotation on the 3D model.
type AnnotationType string

const (
	AnnotationCavity      AnnotationType = "cavity"
	AnnotationRestoration AnnotationType = "restoration"
	AnnotationFracture    AnnotationType = "fracture"
	AnnotationNote        AnnotationType = "note"
	AnnotationMeasurement AnnotationType = "measurement"
)

// ValidAnnotationType reports whether t is a recognized annotation type.
func ValidAnnotationType(t AnnotationType) bool {
	switch t {
	case AnnotationCavity, AnnotationRestoration, AnnotationFracture,
		AnnotationNote, AnnotationMeasurement:
		return true
	}
	return false
}

// Priority ranks a tooth record for treatment planning.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ValidPriority reports whether p is a recognized priority.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
